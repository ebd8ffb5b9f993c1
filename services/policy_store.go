package services

import (
	stderrors "errors"

	"thuetro/constants"
	"thuetro/errors"
	"thuetro/models"

	"gorm.io/gorm"
)

// PolicyStore trừu tượng hóa lưu trữ chính sách giá. Phiên bản chỉ được
// ghi thêm; con trỏ current_version tiến lên bằng CAS.
type PolicyStore interface {
	Create(policy *models.PricingPolicy, version *models.PolicyVersion) error
	GetByID(id uint) (*models.PricingPolicy, error)
	GetVersion(policyID uint, version int) (*models.PolicyVersion, error)
	AppendVersion(policy *models.PricingPolicy, version *models.PolicyVersion) error
	SetStatus(policyID uint, status int) error
	CurrentActiveVersions(category, durationClass string) ([]models.PolicyVersion, error)
	List(page, limit int, status *int) ([]models.PricingPolicy, int64, error)
	Delete(policyID uint) error
	SnapshotRefCount(policyID uint) (int64, error)
}

type gormPolicyStore struct {
	db *gorm.DB
}

// NewGormPolicyStore tạo PolicyStore trên gorm
func NewGormPolicyStore(db *gorm.DB) PolicyStore {
	return &gormPolicyStore{db: db}
}

func (s *gormPolicyStore) Create(policy *models.PricingPolicy, version *models.PolicyVersion) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(policy).Error; err != nil {
			return err
		}
		version.PolicyID = policy.ID
		return tx.Create(version).Error
	})
}

func (s *gormPolicyStore) GetByID(id uint) (*models.PricingPolicy, error) {
	var policy models.PricingPolicy
	if err := s.db.First(&policy, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPolicyNotFound
		}
		return nil, err
	}
	return &policy, nil
}

func (s *gormPolicyStore) GetVersion(policyID uint, version int) (*models.PolicyVersion, error) {
	var v models.PolicyVersion
	err := s.db.Where("policy_id = ? AND version = ?", policyID, version).First(&v).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPolicyNotFound
		}
		return nil, err
	}
	return &v, nil
}

// AppendVersion ghi phiên bản mới và tiến con trỏ current_version bằng CAS.
// RowsAffected bằng 0 nghĩa là một update khác đã tiến con trỏ trước.
func (s *gormPolicyStore) AppendVersion(policy *models.PricingPolicy, version *models.PolicyVersion) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(version).Error; err != nil {
			return err
		}

		res := tx.Model(&models.PricingPolicy{}).
			Where("id = ? AND current_version = ?", policy.ID, policy.CurrentVersion).
			Update("current_version", version.Version)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrStaleVersion
		}

		policy.CurrentVersion = version.Version
		return nil
	})
}

func (s *gormPolicyStore) SetStatus(policyID uint, status int) error {
	res := s.db.Model(&models.PricingPolicy{}).Where("id = ?", policyID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrPolicyNotFound
	}
	return nil
}

// CurrentActiveVersions trả về phiên bản hiện hành của các chính sách ACTIVE
// khớp category và duration class
func (s *gormPolicyStore) CurrentActiveVersions(category, durationClass string) ([]models.PolicyVersion, error) {
	var versions []models.PolicyVersion
	err := s.db.
		Joins("JOIN pricing_policies ON pricing_policies.id = policy_versions.policy_id AND pricing_policies.current_version = policy_versions.version").
		Where("pricing_policies.status = ?", constants.PolicyStatusActive).
		Where("policy_versions.category = ? AND policy_versions.duration_class = ?", category, durationClass).
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

func (s *gormPolicyStore) List(page, limit int, status *int) ([]models.PricingPolicy, int64, error) {
	var policies []models.PricingPolicy
	var total int64

	tx := s.db.Model(&models.PricingPolicy{})
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Order("created_at DESC").Offset(page * limit).Limit(limit).Find(&policies).Error; err != nil {
		return nil, 0, err
	}
	return policies, total, nil
}

func (s *gormPolicyStore) Delete(policyID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("policy_id = ?", policyID).Delete(&models.PolicyVersion{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.PricingPolicy{}, policyID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrPolicyNotFound
		}
		return nil
	})
}

func (s *gormPolicyStore) SnapshotRefCount(policyID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.PricingSnapshot{}).Where("policy_id = ?", policyID).Count(&count).Error
	return count, err
}
