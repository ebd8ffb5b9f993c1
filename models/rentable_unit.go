package models

import (
	"time"
)

// RentableUnit là đơn vị cho thuê (phòng, căn hộ, mặt bằng...). Phân loại
// của đơn vị (category, durationClass, địa lý) là đầu vào cho resolver giá.
type RentableUnit struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	LandlordID    uint      `json:"landlordId" gorm:"index"`
	Name          string    `json:"name"`
	Category      string    `json:"category" gorm:"index"`
	DurationClass string    `json:"durationClass"`
	Province      string    `json:"province"`
	District      string    `json:"district"`
	Address       string    `json:"address"`
	Acreage       int       `json:"acreage"`
	Status        int       `json:"status" gorm:"default:1"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
