package services

import (
	"context"
	"sort"

	"thuetro/constants"
	"thuetro/dto"
	"thuetro/errors"
	"thuetro/models"
	"thuetro/services/logger"
)

// PolicyService quản lý catalog chính sách giá theo phiên bản. Danh mục
// (category) của chính sách phải nằm trong từ vựng của bundle đang ACTIVE.
type PolicyService struct {
	store   PolicyStore
	bundles *BundleService
	geo     *GeoNormalizer
	logger  logger.Logger
}

// PolicyServiceOptions chứa dependencies của PolicyService
type PolicyServiceOptions struct {
	Store   PolicyStore
	Bundles *BundleService
	Geo     *GeoNormalizer
	Logger  logger.Logger
}

// NewPolicyService tạo PolicyService mới
func NewPolicyService(opts PolicyServiceOptions) *PolicyService {
	l := opts.Logger
	if l == nil {
		l = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &PolicyService{store: opts.Store, bundles: opts.Bundles, geo: opts.Geo, logger: l}
}

// Create tạo chính sách mới với version 1, trạng thái ACTIVE
func (s *PolicyService) Create(ctx context.Context, req *dto.PolicyCreateRequest) (*models.PricingPolicy, *models.PolicyVersion, error) {
	if req.Name == "" {
		return nil, nil, errors.NewAppError(errors.ErrCodeRequiredField, "Tên chính sách không được để trống", nil)
	}
	if !validDurationClass(req.DurationClass) {
		return nil, nil, errors.NewAppError(errors.ErrCodeValidation, "Loại thời hạn thuê không hợp lệ: "+req.DurationClass, nil)
	}
	if err := req.PriceFields.Validate(); err != nil {
		return nil, nil, err
	}

	// Category phải thuộc từ vựng của bundle ACTIVE; thiếu bundle ACTIVE là
	// lỗi cấu hình nghiêm trọng, không tạo chính sách.
	bundle, err := s.bundles.GetActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !bundle.HasPolicyCategory(req.Category) {
		return nil, nil, errors.NewAppError(errors.ErrCodeValidation,
			"Danh mục "+req.Category+" không có trong bundle đang hoạt động", nil)
	}

	policy := &models.PricingPolicy{
		Name:           req.Name,
		Status:         constants.PolicyStatusActive,
		CurrentVersion: 1,
	}
	version := &models.PolicyVersion{
		Version:       1,
		Category:      req.Category,
		DurationClass: req.DurationClass,
		Province:      s.normalizeProvince(req.Province),
		District:      s.normalizeDistrict(req.District),
		PriceFields:   req.PriceFields,
	}

	if err := s.store.Create(policy, version); err != nil {
		return nil, nil, err
	}

	s.logger.Info("Đã tạo chính sách giá %d (%s) v1", policy.ID, policy.Name)
	return policy, version, nil
}

// Update tạo phiên bản mới của chính sách thay vì sửa tại chỗ; phiên bản cũ
// được giữ nguyên cho mọi snapshot còn tham chiếu.
func (s *PolicyService) Update(policyID uint, req *dto.PolicyUpdateRequest) (*models.PricingPolicy, *models.PolicyVersion, error) {
	policy, err := s.store.GetByID(policyID)
	if err != nil {
		return nil, nil, err
	}

	current, err := s.store.GetVersion(policy.ID, policy.CurrentVersion)
	if err != nil {
		return nil, nil, err
	}

	next := &models.PolicyVersion{
		PolicyID:      policy.ID,
		Version:       policy.CurrentVersion + 1,
		Category:      current.Category,
		DurationClass: current.DurationClass,
		Province:      current.Province,
		District:      current.District,
		PriceFields:   current.PriceFields,
	}
	if req.Province != nil {
		next.Province = s.normalizeProvince(*req.Province)
	}
	if req.District != nil {
		next.District = s.normalizeDistrict(*req.District)
	}
	req.ApplyPriceFields(&next.PriceFields)

	if err := next.PriceFields.Validate(); err != nil {
		return nil, nil, err
	}

	if err := s.store.AppendVersion(policy, next); err != nil {
		return nil, nil, err
	}

	s.logger.Info("Đã tạo phiên bản v%d cho chính sách giá %d", next.Version, policy.ID)
	return policy, next, nil
}

// SetStatus bật/tắt chính sách khỏi các lần resolve sau mà không đổi
// phiên bản, không ảnh hưởng snapshot đã chụp.
func (s *PolicyService) SetStatus(policyID uint, status int) error {
	if status != constants.PolicyStatusActive && status != constants.PolicyStatusInactive {
		return errors.NewAppError(errors.ErrCodeValidation, "Trạng thái chính sách không hợp lệ", nil)
	}
	return s.store.SetStatus(policyID, status)
}

// FindCandidates trả về phiên bản hiện hành của các chính sách ACTIVE khớp
// phạm vi, xếp theo độ cụ thể địa lý: quận > tỉnh > không giới hạn;
// đồng hạng thì phiên bản mới hơn đứng trước.
func (s *PolicyService) FindCandidates(category, durationClass, province, district string) ([]models.PolicyVersion, error) {
	province = s.normalizeProvince(province)
	district = s.normalizeDistrict(district)

	versions, err := s.store.CurrentActiveVersions(category, durationClass)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.PolicyVersion, 0, len(versions))
	for _, v := range versions {
		if v.MatchesScope(category, durationClass, province, district) {
			candidates = append(candidates, v)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Specificity() != candidates[j].Specificity() {
			return candidates[i].Specificity() > candidates[j].Specificity()
		}
		if candidates[i].Version != candidates[j].Version {
			return candidates[i].Version > candidates[j].Version
		}
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})

	return candidates, nil
}

// Delete xóa cứng chính sách; từ chối khi còn snapshot tham chiếu bất kỳ
// phiên bản nào của nó.
func (s *PolicyService) Delete(policyID uint) error {
	if _, err := s.store.GetByID(policyID); err != nil {
		return err
	}

	refs, err := s.store.SnapshotRefCount(policyID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return errors.NewAppError(errors.ErrCodePolicyInUse,
			"Chính sách đang được snapshot tham chiếu, không thể xóa", errors.ErrPolicyInUse)
	}

	return s.store.Delete(policyID)
}

// GetByID lấy chính sách theo ID
func (s *PolicyService) GetByID(policyID uint) (*models.PricingPolicy, error) {
	return s.store.GetByID(policyID)
}

// GetVersion lấy một phiên bản cụ thể của chính sách
func (s *PolicyService) GetVersion(policyID uint, version int) (*models.PolicyVersion, error) {
	return s.store.GetVersion(policyID, version)
}

// List liệt kê chính sách có phân trang
func (s *PolicyService) List(page, limit int, status *int) ([]models.PricingPolicy, int64, error) {
	return s.store.List(page, limit, status)
}

func (s *PolicyService) normalizeProvince(input string) string {
	if s.geo == nil {
		return input
	}
	return s.geo.NormalizeProvince(input)
}

func (s *PolicyService) normalizeDistrict(input string) string {
	if s.geo == nil {
		return input
	}
	return s.geo.NormalizeDistrict(input)
}

func validDurationClass(class string) bool {
	switch class {
	case constants.DurationShortTerm, constants.DurationMediumTerm, constants.DurationLongTerm:
		return true
	}
	return false
}
