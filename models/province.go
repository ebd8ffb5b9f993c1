package models

import "time"

// Province là danh mục tỉnh/thành chuẩn dùng để chuẩn hóa phạm vi địa lý
// của chính sách giá và đơn vị thuê.
type Province struct {
	ProvinceId   int        `json:"provinceId" gorm:"primaryKey"`
	ProvinceName string     `json:"provinceName"`
	Districts    []District `json:"districts,omitempty" gorm:"foreignKey:ProvinceId"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// District là quận/huyện thuộc một tỉnh/thành
type District struct {
	DistrictId   int       `json:"districtId" gorm:"primaryKey"`
	ProvinceId   int       `json:"provinceId" gorm:"index"`
	DistrictName string    `json:"districtName"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
