package dto

import "thuetro/models"

// PolicyCreateRequest là payload tạo chính sách giá mới (version 1)
type PolicyCreateRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	DurationClass string `json:"durationClass"`
	Province      string `json:"province,omitempty"`
	District      string `json:"district,omitempty"`

	models.PriceFields
}

// PolicyUpdateRequest là payload cập nhật chính sách: mọi trường là tùy
// chọn, trường bỏ trống giữ giá trị của phiên bản hiện hành. Cập nhật luôn
// sinh phiên bản mới, không sửa lịch sử.
type PolicyUpdateRequest struct {
	Province *string `json:"province,omitempty"`
	District *string `json:"district,omitempty"`

	BasePrice     *int64  `json:"basePrice,omitempty"`
	PriceUnit     *string `json:"priceUnit,omitempty"`
	MinDuration   *int    `json:"minDuration,omitempty"`
	DepositAmount *int64  `json:"depositAmount,omitempty"`
	HoldDeposit   *int64  `json:"holdDeposit,omitempty"`
	ServiceFee    *int64  `json:"serviceFee,omitempty"`
	ManagementFee *int64  `json:"managementFee,omitempty"`
	Electricity   *string `json:"electricityBilling,omitempty"`
	Water         *string `json:"waterBilling,omitempty"`
}

// ApplyPriceFields chép các trường được nhập vào bộ trường giá đích
func (r *PolicyUpdateRequest) ApplyPriceFields(p *models.PriceFields) {
	if r.BasePrice != nil {
		p.BasePrice = *r.BasePrice
	}
	if r.PriceUnit != nil {
		p.PriceUnit = *r.PriceUnit
	}
	if r.MinDuration != nil {
		p.MinDuration = *r.MinDuration
	}
	if r.DepositAmount != nil {
		p.DepositAmount = *r.DepositAmount
	}
	if r.HoldDeposit != nil {
		p.HoldDeposit = *r.HoldDeposit
	}
	if r.ServiceFee != nil {
		p.ServiceFee = *r.ServiceFee
	}
	if r.ManagementFee != nil {
		p.ManagementFee = *r.ManagementFee
	}
	if r.Electricity != nil {
		p.Electricity = *r.Electricity
	}
	if r.Water != nil {
		p.Water = *r.Water
	}
}

// PolicyStatusRequest là payload bật/tắt chính sách
type PolicyStatusRequest struct {
	PolicyID uint `json:"policyId"`
	Status   int  `json:"status"`
}

// PolicyResponse là DTO trả về cho chính sách giá kèm phiên bản hiện hành
type PolicyResponse struct {
	ID             uint                  `json:"id"`
	Name           string                `json:"name"`
	Status         int                   `json:"status"`
	CurrentVersion int                   `json:"currentVersion"`
	Version        *models.PolicyVersion `json:"version,omitempty"`
}

// NewPolicyResponse chuyển model sang DTO
func NewPolicyResponse(p *models.PricingPolicy, v *models.PolicyVersion) PolicyResponse {
	return PolicyResponse{
		ID:             p.ID,
		Name:           p.Name,
		Status:         p.Status,
		CurrentVersion: p.CurrentVersion,
		Version:        v,
	}
}
