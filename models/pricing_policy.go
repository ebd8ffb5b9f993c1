package models

import (
	"time"

	"thuetro/constants"
)

// PricingPolicy là bản ghi logic của một chính sách giá: giữ tên, trạng thái
// và con trỏ phiên bản hiện hành. Nội dung giá nằm trong PolicyVersion,
// chỉ được ghi thêm (append-only), không sửa tại chỗ.
type PricingPolicy struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name"`
	Status         int       `json:"status" gorm:"default:1;index"`
	CurrentVersion int       `json:"currentVersion" gorm:"default:1"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Versions []PolicyVersion `json:"versions,omitempty" gorm:"foreignKey:PolicyID"`
}

// PolicyVersion là một phiên bản bất biến của chính sách giá, gắn với phạm vi
// áp dụng (danh mục × thời hạn thuê × địa lý tùy chọn). Province/District
// rỗng nghĩa là không giới hạn địa lý.
type PolicyVersion struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	PolicyID      uint   `json:"policyId" gorm:"index:idx_policy_version,unique"`
	Version       int    `json:"version" gorm:"index:idx_policy_version,unique"`
	Category      string `json:"category" gorm:"index"`
	DurationClass string `json:"durationClass" gorm:"index"`
	Province      string `json:"province"`
	District      string `json:"district"`

	PriceFields `gorm:"embedded"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Specificity tính độ cụ thể của phạm vi địa lý: khớp district > khớp
// province > không giới hạn. Resolver sắp xếp ứng viên theo điểm này.
func (v *PolicyVersion) Specificity() int {
	switch {
	case v.District != "":
		return 2
	case v.Province != "":
		return 1
	default:
		return 0
	}
}

// MatchesScope kiểm tra phiên bản có áp dụng được cho đơn vị thuê không.
// Phiên bản giới hạn địa lý chỉ khớp khi đơn vị nằm đúng địa bàn.
func (v *PolicyVersion) MatchesScope(category, durationClass, province, district string) bool {
	if v.Category != category || v.DurationClass != durationClass {
		return false
	}
	if v.Province != "" && v.Province != province {
		return false
	}
	if v.District != "" && v.District != district {
		return false
	}
	return true
}

// IsActive kiểm tra chính sách còn tham gia resolve không
func (p *PricingPolicy) IsActive() bool {
	return p.Status == constants.PolicyStatusActive
}
