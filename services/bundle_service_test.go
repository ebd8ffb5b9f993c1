package services

import (
	"context"
	"testing"

	"thuetro/constants"
	"thuetro/errors"
	"thuetro/models"
	"thuetro/services/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBundleServiceForTest() (*BundleService, *memBundleStore) {
	store := newMemBundleStore()
	service := NewBundleService(BundleServiceOptions{
		Store:  store,
		Logger: logger.NopLogger{},
	})
	return service, store
}

// memBundleCache giả lập cache Redis của bundle ACTIVE
type memBundleCache struct {
	bundle *models.ConfigBundle
	saves  int
	clears int
}

func (c *memBundleCache) GetActive(ctx context.Context) (*models.ConfigBundle, error) {
	return c.bundle, nil
}

func (c *memBundleCache) SaveActive(ctx context.Context, bundle *models.ConfigBundle) error {
	c.bundle = bundle
	c.saves++
	return nil
}

func (c *memBundleCache) ClearActive(ctx context.Context) error {
	c.bundle = nil
	c.clears++
	return nil
}

func newCachedBundleServiceForTest() (*BundleService, *memBundleStore, *memBundleCache) {
	store := newMemBundleStore()
	cache := &memBundleCache{}
	service := NewBundleService(BundleServiceOptions{
		Store:  store,
		Cache:  cache,
		Logger: logger.NopLogger{},
	})
	return service, store, cache
}

func testVocabulary() *models.BundleVocabulary {
	return &models.BundleVocabulary{
		AssetTypes:       []string{"BUILDING", "HOUSE"},
		SpaceNodeTypes:   []string{"FLOOR", "ROOM"},
		PolicyCategories: []string{"APARTMENT", "ROOM", "OFFICE"},
	}
}

func TestBundleCreateStartsDraft(t *testing.T) {
	service, _ := newBundleServiceForTest()

	bundle, err := service.Create("config-2026-q1", testVocabulary())
	require.NoError(t, err)
	assert.Equal(t, constants.BundleStatusDraft, bundle.Status)
	assert.True(t, bundle.HasPolicyCategory("APARTMENT"))
	assert.Equal(t, []string{"APARTMENT", "ROOM", "OFFICE"}, []string(bundle.PolicyCategories))
	assert.Equal(t, testVocabulary(), bundle.Vocabulary())

	// Tạo bundle không đụng tới bundle ACTIVE nào
	_, err = service.GetActive(context.Background())
	assert.ErrorIs(t, err, errors.ErrNoActiveBundle)
}

func TestBundleCreateRequiresName(t *testing.T) {
	service, _ := newBundleServiceForTest()
	_, err := service.Create("", testVocabulary())
	require.Error(t, err)
}

func TestBundleActivateSingleActive(t *testing.T) {
	service, _ := newBundleServiceForTest()
	ctx := context.Background()

	first, err := service.Create("v1", testVocabulary())
	require.NoError(t, err)
	second, err := service.Create("v2", testVocabulary())
	require.NoError(t, err)

	_, err = service.Activate(ctx, first.ID)
	require.NoError(t, err)

	active, err := service.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	// Kích hoạt bundle thứ hai: bundle đầu bị hạ xuống ARCHIVED
	_, err = service.Activate(ctx, second.ID)
	require.NoError(t, err)

	active, err = service.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	archived, err := service.store.GetByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.BundleStatusArchived, archived.Status)

	// Không bao giờ có hai bundle ACTIVE
	activeStatus := constants.BundleStatusActive
	_, total, err := service.List(0, 10, &activeStatus)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestBundleActivateRejectsActive(t *testing.T) {
	service, _ := newBundleServiceForTest()
	ctx := context.Background()

	bundle, err := service.Create("v1", testVocabulary())
	require.NoError(t, err)
	_, err = service.Activate(ctx, bundle.ID)
	require.NoError(t, err)

	// Bundle đang ACTIVE không kích hoạt lại được
	_, err = service.Activate(ctx, bundle.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrBundleWrongStatus)
}

func TestBundleRollback(t *testing.T) {
	service, _ := newBundleServiceForTest()
	ctx := context.Background()

	first, err := service.Create("v1", testVocabulary())
	require.NoError(t, err)
	second, err := service.Create("v2", testVocabulary())
	require.NoError(t, err)

	_, err = service.Activate(ctx, first.ID)
	require.NoError(t, err)
	_, err = service.Activate(ctx, second.ID)
	require.NoError(t, err)

	// Rollback về bundle đã ARCHIVED
	_, err = service.Rollback(ctx, first.ID)
	require.NoError(t, err)

	active, err := service.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	demoted, err := service.store.GetByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.BundleStatusArchived, demoted.Status)
}

func TestBundleRollbackRejectsDraft(t *testing.T) {
	service, _ := newBundleServiceForTest()

	draft, err := service.Create("v1", testVocabulary())
	require.NoError(t, err)

	_, err = service.Rollback(context.Background(), draft.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrBundleWrongStatus)
}

func TestBundlePromoteDetectsConcurrentActivation(t *testing.T) {
	service, store := newBundleServiceForTest()
	ctx := context.Background()

	first, err := service.Create("v1", testVocabulary())
	require.NoError(t, err)
	second, err := service.Create("v2", testVocabulary())
	require.NoError(t, err)

	// Hai activation tranh nhau: bên thua giữ bản đọc cũ của bundle
	stale, err := store.GetByID(first.ID)
	require.NoError(t, err)

	_, err = service.Activate(ctx, first.ID)
	require.NoError(t, err)
	_ = second

	err = store.Promote(stale)
	assert.ErrorIs(t, err, errors.ErrConcurrentActivation)
}

func TestBundleGetActivePopulatesCache(t *testing.T) {
	service, _, cache := newCachedBundleServiceForTest()
	ctx := context.Background()

	bundle, err := service.Create("v1", testVocabulary())
	require.NoError(t, err)
	_, err = service.Activate(ctx, bundle.ID)
	require.NoError(t, err)

	active, err := service.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, bundle.ID, active.ID)
	assert.Equal(t, 1, cache.saves)

	// Lần đọc sau trả từ cache, không ghi lại
	_, err = service.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.saves)
}

func TestBundleGetActivePrefersCache(t *testing.T) {
	service, _, cache := newCachedBundleServiceForTest()
	ctx := context.Background()

	bundle, err := service.Create("v1", testVocabulary())
	require.NoError(t, err)
	_, err = service.Activate(ctx, bundle.ID)
	require.NoError(t, err)

	// Cache còn giữ bundle khác thì đọc ra bundle đó, chưa chạm store
	cache.bundle = &models.ConfigBundle{ID: 99, Status: constants.BundleStatusActive}
	active, err := service.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(99), active.ID)
}

func TestBundleActivateClearsCache(t *testing.T) {
	service, _, cache := newCachedBundleServiceForTest()
	ctx := context.Background()

	first, err := service.Create("v1", testVocabulary())
	require.NoError(t, err)
	second, err := service.Create("v2", testVocabulary())
	require.NoError(t, err)

	_, err = service.Activate(ctx, first.ID)
	require.NoError(t, err)
	_, err = service.GetActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, cache.bundle)

	// Activate bundle mới phải xóa cache, đọc tiếp ra bundle mới
	_, err = service.Activate(ctx, second.ID)
	require.NoError(t, err)
	assert.Nil(t, cache.bundle)

	active, err := service.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, second.ID, cache.bundle.ID)
}

func TestBundleRollbackClearsCache(t *testing.T) {
	service, _, cache := newCachedBundleServiceForTest()
	ctx := context.Background()

	first, err := service.Create("v1", testVocabulary())
	require.NoError(t, err)
	second, err := service.Create("v2", testVocabulary())
	require.NoError(t, err)

	_, err = service.Activate(ctx, first.ID)
	require.NoError(t, err)
	_, err = service.Activate(ctx, second.ID)
	require.NoError(t, err)
	_, err = service.GetActive(ctx)
	require.NoError(t, err)

	// Rollback không được để cache tiếp tục serve bundle vừa bị hạ
	_, err = service.Rollback(ctx, first.ID)
	require.NoError(t, err)

	active, err := service.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)
	assert.GreaterOrEqual(t, cache.clears, 1)
}

func TestBundleGetActiveNeverDefaults(t *testing.T) {
	service, _ := newBundleServiceForTest()

	bundle, err := service.GetActive(context.Background())
	assert.Nil(t, bundle)
	assert.ErrorIs(t, err, errors.ErrNoActiveBundle)
}
