package services

import (
	stderrors "errors"

	"thuetro/constants"
	"thuetro/errors"
	"thuetro/models"

	"gorm.io/gorm"
)

// BundleStore trừu tượng hóa lưu trữ config bundle. Promote phải chạy
// nguyên tử: không được tồn tại thời điểm hai bundle cùng ACTIVE.
type BundleStore interface {
	Create(bundle *models.ConfigBundle) error
	GetByID(id uint) (*models.ConfigBundle, error)
	GetActive() (*models.ConfigBundle, error)
	List(page, limit int, status *int) ([]models.ConfigBundle, int64, error)
	Promote(bundle *models.ConfigBundle) error
}

type gormBundleStore struct {
	db *gorm.DB
}

// NewGormBundleStore tạo BundleStore trên gorm
func NewGormBundleStore(db *gorm.DB) BundleStore {
	return &gormBundleStore{db: db}
}

func (s *gormBundleStore) Create(bundle *models.ConfigBundle) error {
	return s.db.Create(bundle).Error
}

func (s *gormBundleStore) GetByID(id uint) (*models.ConfigBundle, error) {
	var bundle models.ConfigBundle
	if err := s.db.First(&bundle, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBundleNotFound
		}
		return nil, err
	}
	return &bundle, nil
}

func (s *gormBundleStore) GetActive() (*models.ConfigBundle, error) {
	var bundle models.ConfigBundle
	err := s.db.Where("status = ?", constants.BundleStatusActive).First(&bundle).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNoActiveBundle
		}
		return nil, err
	}
	return &bundle, nil
}

func (s *gormBundleStore) List(page, limit int, status *int) ([]models.ConfigBundle, int64, error) {
	var bundles []models.ConfigBundle
	var total int64

	tx := s.db.Model(&models.ConfigBundle{})
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Order("created_at DESC").Offset(page * limit).Limit(limit).Find(&bundles).Error; err != nil {
		return nil, 0, err
	}
	return bundles, total, nil
}

// Promote chuyển bundle sang ACTIVE trong một transaction: hạ bundle ACTIVE
// hiện tại xuống ARCHIVED rồi CAS trạng thái của bundle đích. RowsAffected
// bằng 0 nghĩa là trạng thái đích đã bị ghi đè bởi một activation khác.
func (s *gormBundleStore) Promote(bundle *models.ConfigBundle) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ConfigBundle{}).
			Where("status = ? AND id <> ?", constants.BundleStatusActive, bundle.ID).
			Update("status", constants.BundleStatusArchived).Error; err != nil {
			return err
		}

		res := tx.Model(&models.ConfigBundle{}).
			Where("id = ? AND status = ?", bundle.ID, bundle.Status).
			Update("status", constants.BundleStatusActive)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrConcurrentActivation
		}

		bundle.Status = constants.BundleStatusActive
		return nil
	})
}
