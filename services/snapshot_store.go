package services

import (
	stderrors "errors"

	"thuetro/errors"
	"thuetro/models"

	"gorm.io/gorm"
)

// SnapshotStore trừu tượng hóa lưu trữ pricing snapshot. Create phải
// at-most-once theo (ownerType, ownerID): bind lần hai là lỗi của caller,
// không phải ghi đè im lặng.
type SnapshotStore interface {
	Create(snapshot *models.PricingSnapshot) error
	GetByID(id uint) (*models.PricingSnapshot, error)
	GetByOwner(ownerType string, ownerID uint) (*models.PricingSnapshot, error)
	Update(snapshot *models.PricingSnapshot) error
}

type gormSnapshotStore struct {
	db *gorm.DB
}

// NewGormSnapshotStore tạo SnapshotStore trên gorm
func NewGormSnapshotStore(db *gorm.DB) SnapshotStore {
	return &gormSnapshotStore{db: db}
}

// Create ghi snapshot mới; unique index trên (owner_type, owner_id) chặn
// double-bind ở tầng DB, check trước chỉ để trả lỗi sớm.
func (s *gormSnapshotStore) Create(snapshot *models.PricingSnapshot) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PricingSnapshot{}).
			Where("owner_type = ? AND owner_id = ?", snapshot.OwnerType, snapshot.OwnerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.ErrAlreadyBound
		}
		return tx.Create(snapshot).Error
	})
}

func (s *gormSnapshotStore) GetByID(id uint) (*models.PricingSnapshot, error) {
	var snapshot models.PricingSnapshot
	if err := s.db.First(&snapshot, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrSnapshotNotFound
		}
		return nil, err
	}
	return &snapshot, nil
}

func (s *gormSnapshotStore) GetByOwner(ownerType string, ownerID uint) (*models.PricingSnapshot, error) {
	var snapshot models.PricingSnapshot
	err := s.db.Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).First(&snapshot).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrSnapshotNotFound
		}
		return nil, err
	}
	return &snapshot, nil
}

func (s *gormSnapshotStore) Update(snapshot *models.PricingSnapshot) error {
	return s.db.Save(snapshot).Error
}
