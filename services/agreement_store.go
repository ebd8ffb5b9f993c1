package services

import (
	stderrors "errors"
	"time"

	"thuetro/constants"
	"thuetro/errors"
	"thuetro/models"

	"gorm.io/gorm"
)

// Các trạng thái "sống" chiếm giữ đơn vị thuê
var liveStatuses = []int{
	constants.AgreementStatusSent,
	constants.AgreementStatusPendingConfirm,
	constants.AgreementStatusActive,
}

// AgreementStore trừu tượng hóa lưu trữ hợp đồng thuê. Các thao tác ghép
// (tạo kèm snapshot, gửi kèm guard đơn vị, gia hạn kèm lineage) phải chạy
// nguyên tử để không bao giờ có thực thể mồ côi hay hai hợp đồng sống
// trên cùng một đơn vị.
type AgreementStore interface {
	CreateWithSnapshot(agreement *models.RentalAgreement, snapshot *models.PricingSnapshot) error
	GetByID(id uint) (*models.RentalAgreement, error)
	Update(agreement *models.RentalAgreement) error
	Delete(agreement *models.RentalAgreement) error
	MarkSent(agreement *models.RentalAgreement) error
	Renew(source *models.RentalAgreement, successor *models.RentalAgreement, snapshot *models.PricingSnapshot) error
	ListExpired(now time.Time) ([]models.RentalAgreement, error)
	List(page, limit int, status *int, unitID *uint) ([]models.RentalAgreement, int64, error)
}

type gormAgreementStore struct {
	db *gorm.DB
}

// NewGormAgreementStore tạo AgreementStore trên gorm
func NewGormAgreementStore(db *gorm.DB) AgreementStore {
	return &gormAgreementStore{db: db}
}

// CreateWithSnapshot tạo hợp đồng DRAFT và snapshot giá của nó trong cùng
// transaction: không tồn tại hợp đồng DRAFT thiếu snapshot.
func (s *gormAgreementStore) CreateWithSnapshot(agreement *models.RentalAgreement, snapshot *models.PricingSnapshot) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(agreement).Error; err != nil {
			return err
		}

		snapshot.OwnerType = constants.SnapshotOwnerAgreement
		snapshot.OwnerID = agreement.ID
		if err := tx.Create(snapshot).Error; err != nil {
			return err
		}

		agreement.SnapshotID = &snapshot.ID
		return tx.Model(agreement).Update("snapshot_id", snapshot.ID).Error
	})
}

func (s *gormAgreementStore) GetByID(id uint) (*models.RentalAgreement, error) {
	var agreement models.RentalAgreement
	if err := s.db.First(&agreement, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrAgreementNotFound
		}
		return nil, err
	}
	return &agreement, nil
}

func (s *gormAgreementStore) Update(agreement *models.RentalAgreement) error {
	return s.db.Save(agreement).Error
}

func (s *gormAgreementStore) Delete(agreement *models.RentalAgreement) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if agreement.SnapshotID != nil {
			if err := tx.Delete(&models.PricingSnapshot{}, *agreement.SnapshotID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.RentalAgreement{}, agreement.ID).Error
	})
}

// MarkSent chuyển hợp đồng sang SENT với guard "một hợp đồng sống trên một
// đơn vị": check và ghi trong cùng transaction, hai lần send tranh nhau thì
// đúng một bên thắng.
func (s *gormAgreementStore) MarkSent(agreement *models.RentalAgreement) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var live int64
		if err := tx.Model(&models.RentalAgreement{}).
			Where("unit_id = ? AND id <> ? AND status IN ?", agreement.UnitID, agreement.ID, liveStatuses).
			Count(&live).Error; err != nil {
			return err
		}
		if live > 0 {
			return errors.ErrUnitAlreadyCommitted
		}

		res := tx.Model(&models.RentalAgreement{}).
			Where("id = ? AND status = ?", agreement.ID, constants.AgreementStatusDraft).
			Update("status", constants.AgreementStatusSent)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrUnitAlreadyCommitted
		}

		agreement.Status = constants.AgreementStatusSent
		return nil
	})
}

// Renew tạo hợp đồng kế nhiệm kèm snapshot mới và ghi renewed_into_id lên
// hợp đồng gốc, tất cả trong một transaction. CAS trên renewed_into_id IS
// NULL bảo đảm lineage chỉ được ghi đúng một lần.
func (s *gormAgreementStore) Renew(source *models.RentalAgreement, successor *models.RentalAgreement, snapshot *models.PricingSnapshot) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(successor).Error; err != nil {
			return err
		}

		snapshot.OwnerType = constants.SnapshotOwnerAgreement
		snapshot.OwnerID = successor.ID
		if err := tx.Create(snapshot).Error; err != nil {
			return err
		}

		successor.SnapshotID = &snapshot.ID
		if err := tx.Model(successor).Update("snapshot_id", snapshot.ID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.RentalAgreement{}).
			Where("id = ? AND renewed_into_id IS NULL", source.ID).
			Update("renewed_into_id", successor.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrAgreementRenewed
		}

		source.RenewedIntoID = &successor.ID
		return nil
	})
}

// ListExpired trả về các hợp đồng ACTIVE đã qua ngày kết thúc
func (s *gormAgreementStore) ListExpired(now time.Time) ([]models.RentalAgreement, error) {
	var agreements []models.RentalAgreement
	err := s.db.
		Where("status = ? AND end_date < ?", constants.AgreementStatusActive, now).
		Find(&agreements).Error
	if err != nil {
		return nil, err
	}
	return agreements, nil
}

func (s *gormAgreementStore) List(page, limit int, status *int, unitID *uint) ([]models.RentalAgreement, int64, error) {
	var agreements []models.RentalAgreement
	var total int64

	tx := s.db.Model(&models.RentalAgreement{})
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}
	if unitID != nil {
		tx = tx.Where("unit_id = ?", *unitID)
	}
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Order("created_at DESC").Offset(page * limit).Limit(limit).Find(&agreements).Error; err != nil {
		return nil, 0, err
	}
	return agreements, total, nil
}
