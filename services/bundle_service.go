package services

import (
	"context"

	"thuetro/constants"
	"thuetro/errors"
	"thuetro/models"
	"thuetro/services/logger"

	"github.com/lib/pq"
)

// BundleService quản lý registry các config bundle và bất biến
// "tối đa một bundle ACTIVE".
type BundleService struct {
	store  BundleStore
	cache  BundleCache
	logger logger.Logger
}

// BundleServiceOptions chứa dependencies của BundleService
type BundleServiceOptions struct {
	Store  BundleStore
	Cache  BundleCache
	Logger logger.Logger
}

// NewBundleService tạo BundleService mới
func NewBundleService(opts BundleServiceOptions) *BundleService {
	l := opts.Logger
	if l == nil {
		l = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &BundleService{store: opts.Store, cache: opts.Cache, logger: l}
}

// Create tạo bundle mới ở trạng thái DRAFT, không đụng tới bundle nào khác
func (s *BundleService) Create(name string, vocab *models.BundleVocabulary) (*models.ConfigBundle, error) {
	if name == "" {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "Tên bundle không được để trống", nil)
	}

	bundle := &models.ConfigBundle{
		Name:   name,
		Status: constants.BundleStatusDraft,
	}
	if vocab != nil {
		bundle.AssetTypes = pq.StringArray(vocab.AssetTypes)
		bundle.SpaceNodeTypes = pq.StringArray(vocab.SpaceNodeTypes)
		bundle.PolicyCategories = pq.StringArray(vocab.PolicyCategories)
	}
	if err := s.store.Create(bundle); err != nil {
		return nil, err
	}

	s.logger.Info("Đã tạo config bundle %d (%s)", bundle.ID, bundle.Name)
	return bundle, nil
}

// Activate đưa một bundle DRAFT hoặc ARCHIVED lên ACTIVE; bundle ACTIVE
// hiện tại (nếu có) bị hạ xuống ARCHIVED trong cùng transaction.
func (s *BundleService) Activate(ctx context.Context, id uint) (*models.ConfigBundle, error) {
	bundle, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !bundle.Activatable() {
		return nil, errors.NewAppError(errors.ErrCodeInvalidState,
			"Bundle không ở trạng thái có thể kích hoạt", errors.ErrBundleWrongStatus)
	}

	if err := s.store.Promote(bundle); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("Đã kích hoạt config bundle %d", bundle.ID)
	return bundle, nil
}

// Rollback kích hoạt lại một bundle đã ARCHIVED, hạ bundle ACTIVE hiện tại
func (s *BundleService) Rollback(ctx context.Context, id uint) (*models.ConfigBundle, error) {
	bundle, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}

	if bundle.Status != constants.BundleStatusArchived {
		return nil, errors.NewAppError(errors.ErrCodeInvalidState,
			"Chỉ rollback được bundle đã lưu trữ", errors.ErrBundleWrongStatus)
	}

	if err := s.store.Promote(bundle); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("Đã rollback về config bundle %d", bundle.ID)
	return bundle, nil
}

// GetActive trả về bundle đang ACTIVE. Không có bundle ACTIVE là lỗi cấu
// hình nghiêm trọng (ErrNoActiveBundle), không bao giờ trả mặc định.
func (s *BundleService) GetActive(ctx context.Context) (*models.ConfigBundle, error) {
	if s.cache != nil {
		cached, err := s.cache.GetActive(ctx)
		if err != nil {
			s.logger.Warn("Lỗi đọc cache bundle: %v", err)
		}
		if cached != nil {
			return cached, nil
		}
	}

	bundle, err := s.store.GetActive()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SaveActive(ctx, bundle); err != nil {
			s.logger.Warn("Lỗi ghi cache bundle: %v", err)
		}
	}
	return bundle, nil
}

// List liệt kê bundle có phân trang, lọc theo trạng thái
func (s *BundleService) List(page, limit int, status *int) ([]models.ConfigBundle, int64, error) {
	return s.store.List(page, limit, status)
}

func (s *BundleService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.ClearActive(ctx); err != nil {
		s.logger.Warn("Lỗi xóa cache bundle: %v", err)
	}
}
