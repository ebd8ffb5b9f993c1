package services

import (
	"time"

	"thuetro/errors"
	"thuetro/models"
	"thuetro/services/logger"
)

// PricingService chọn chính sách áp dụng cho một đơn vị thuê, đóng băng giá
// tại thời điểm gắn và quản lý override theo từng trường. Snapshot không bao
// giờ được resolve lại: giá của chính sách đổi sau đó không ảnh hưởng
// hợp đồng đã chốt.
type PricingService struct {
	snapshots SnapshotStore
	policies  *PolicyService
	logger    logger.Logger
}

// PricingServiceOptions chứa dependencies của PricingService
type PricingServiceOptions struct {
	Snapshots SnapshotStore
	Policies  *PolicyService
	Logger    logger.Logger
}

// NewPricingService tạo PricingService mới
func NewPricingService(opts PricingServiceOptions) *PricingService {
	l := opts.Logger
	if l == nil {
		l = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &PricingService{snapshots: opts.Snapshots, policies: opts.Policies, logger: l}
}

// Resolve chọn chính sách khớp nhất với phân loại của đơn vị thuê. Không có
// ứng viên nào là lỗi cứng: đơn vị không thể định giá thì không đi tiếp.
func (s *PricingService) Resolve(unit *models.RentableUnit) (*models.PolicyVersion, error) {
	candidates, err := s.policies.FindCandidates(unit.Category, unit.DurationClass, unit.Province, unit.District)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errors.NewAppError(errors.ErrCodeNoPolicyFound,
			"Không có chính sách giá áp dụng cho đơn vị "+unit.Name, errors.ErrNoPolicyFound)
	}
	return &candidates[0], nil
}

// Bind chụp toàn bộ trường giá của phiên bản chính sách vào snapshot mới,
// map override rỗng. Đây là con đường duy nhất tạo snapshot.
func (s *PricingService) Bind(ownerType string, ownerID uint, version *models.PolicyVersion) (*models.PricingSnapshot, error) {
	snapshot := &models.PricingSnapshot{
		OwnerType:     ownerType,
		OwnerID:       ownerID,
		PolicyID:      version.PolicyID,
		PolicyVersion: version.Version,
		PriceFields:   version.PriceFields,
		Overrides:     []byte("{}"),
		CapturedAt:    time.Now(),
	}

	if err := s.snapshots.Create(snapshot); err != nil {
		return nil, err
	}

	s.logger.Info("Đã gắn snapshot %d (chính sách %d v%d) cho %s %d",
		snapshot.ID, version.PolicyID, version.Version, ownerType, ownerID)
	return snapshot, nil
}

// Override ghi một điều chỉnh thủ công cho trường giá; tên trường phải
// thuộc tập trường đã định nghĩa, giá trị phải đúng kiểu.
func (s *PricingService) Override(snapshotID uint, field, value string) (*models.PricingSnapshot, error) {
	snapshot, err := s.snapshots.GetByID(snapshotID)
	if err != nil {
		return nil, err
	}

	if err := snapshot.SetOverride(field, value); err != nil {
		return nil, err
	}
	if err := s.snapshots.Update(snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ClearOverride gỡ override; giá trị hiệu lực quay về giá đã chụp lúc bind,
// không bao giờ về giá hiện hành của chính sách.
func (s *PricingService) ClearOverride(snapshotID uint, field string) (*models.PricingSnapshot, error) {
	snapshot, err := s.snapshots.GetByID(snapshotID)
	if err != nil {
		return nil, err
	}

	if err := snapshot.ClearOverride(field); err != nil {
		return nil, err
	}
	if err := s.snapshots.Update(snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// EffectivePrice đọc bộ giá hiệu lực của snapshot: override nếu có, ngược
// lại giá đã chụp. Thuần đọc, không side effect.
func (s *PricingService) EffectivePrice(snapshotID uint) (models.PriceFields, error) {
	snapshot, err := s.snapshots.GetByID(snapshotID)
	if err != nil {
		return models.PriceFields{}, err
	}
	return snapshot.EffectivePrice()
}

// GetByID lấy snapshot theo ID
func (s *PricingService) GetByID(snapshotID uint) (*models.PricingSnapshot, error) {
	return s.snapshots.GetByID(snapshotID)
}

// GetByOwner lấy snapshot theo chủ sở hữu
func (s *PricingService) GetByOwner(ownerType string, ownerID uint) (*models.PricingSnapshot, error) {
	return s.snapshots.GetByOwner(ownerType, ownerID)
}
