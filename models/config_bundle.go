package models

import (
	"time"

	"thuetro/constants"

	"github.com/lib/pq"
)

// BundleVocabulary chứa các bộ từ vựng cấu hình toàn hệ thống: loại tài sản,
// loại không gian và danh mục chính sách giá. Catalog chỉ chấp nhận category
// nằm trong PolicyCategories của bundle đang ACTIVE.
type BundleVocabulary struct {
	AssetTypes       []string `json:"assetTypes"`
	SpaceNodeTypes   []string `json:"spaceNodeTypes"`
	PolicyCategories []string `json:"policyCategories"`
}

type ConfigBundle struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Name             string         `json:"name"`
	Status           int            `json:"status" gorm:"default:0;index"`
	AssetTypes       pq.StringArray `json:"assetTypes" gorm:"type:text[]"`
	SpaceNodeTypes   pq.StringArray `json:"spaceNodeTypes" gorm:"type:text[]"`
	PolicyCategories pq.StringArray `json:"policyCategories" gorm:"type:text[]"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Vocabulary gom các cột từ vựng thành BundleVocabulary
func (b *ConfigBundle) Vocabulary() *BundleVocabulary {
	return &BundleVocabulary{
		AssetTypes:       b.AssetTypes,
		SpaceNodeTypes:   b.SpaceNodeTypes,
		PolicyCategories: b.PolicyCategories,
	}
}

// HasPolicyCategory kiểm tra category có trong từ vựng của bundle không
func (b *ConfigBundle) HasPolicyCategory(category string) bool {
	for _, c := range b.PolicyCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Activatable kiểm tra bundle có thể chuyển sang ACTIVE không (DRAFT hoặc ARCHIVED)
func (b *ConfigBundle) Activatable() bool {
	return b.Status == constants.BundleStatusDraft || b.Status == constants.BundleStatusArchived
}
