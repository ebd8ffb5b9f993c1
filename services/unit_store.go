package services

import (
	stderrors "errors"

	"thuetro/errors"
	"thuetro/models"

	"gorm.io/gorm"
)

// UnitStore trừu tượng hóa lưu trữ đơn vị thuê
type UnitStore interface {
	Create(unit *models.RentableUnit) error
	GetByID(id uint) (*models.RentableUnit, error)
	SetStatus(id uint, status int) error
	List(page, limit int, province string) ([]models.RentableUnit, int64, error)
}

type gormUnitStore struct {
	db *gorm.DB
}

// NewGormUnitStore tạo UnitStore trên gorm
func NewGormUnitStore(db *gorm.DB) UnitStore {
	return &gormUnitStore{db: db}
}

func (s *gormUnitStore) Create(unit *models.RentableUnit) error {
	return s.db.Create(unit).Error
}

func (s *gormUnitStore) GetByID(id uint) (*models.RentableUnit, error) {
	var unit models.RentableUnit
	if err := s.db.First(&unit, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUnitNotFound
		}
		return nil, err
	}
	return &unit, nil
}

func (s *gormUnitStore) SetStatus(id uint, status int) error {
	res := s.db.Model(&models.RentableUnit{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrUnitNotFound
	}
	return nil
}

func (s *gormUnitStore) List(page, limit int, province string) ([]models.RentableUnit, int64, error) {
	var units []models.RentableUnit
	var total int64

	tx := s.db.Model(&models.RentableUnit{})
	if province != "" {
		tx = tx.Where("province = ?", province)
	}
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Order("created_at DESC").Offset(page * limit).Limit(limit).Find(&units).Error; err != nil {
		return nil, 0, err
	}
	return units, total, nil
}
