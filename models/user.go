package models

import (
	"time"
)

// User role
const (
	RoleTenant   = 0
	RoleStaff    = 1
	RoleLandlord = 2
)

// User là chủ nhà hoặc người thuê tham gia hợp đồng. Phần đăng ký / xác
// thực tài khoản nằm ở hệ thống ngoài, core chỉ giữ danh tính và vai trò.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Email       string    `gorm:"unique" json:"email"`
	PhoneNumber string    `gorm:"type:varchar(11)" json:"phoneNumber"`
	Role        int       `gorm:"default:0" json:"role"`
	Status      int       `gorm:"default:1" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
