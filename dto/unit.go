package dto

// UnitCreateRequest là payload tạo đơn vị thuê mới
type UnitCreateRequest struct {
	LandlordID    uint   `json:"landlordId"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	DurationClass string `json:"durationClass"`
	Province      string `json:"province"`
	District      string `json:"district"`
	Address       string `json:"address"`
	Acreage       int    `json:"acreage"`
}
