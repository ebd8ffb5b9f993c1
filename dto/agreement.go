package dto

// AgreementCreateRequest là payload tạo hợp đồng thuê mới (DRAFT)
type AgreementCreateRequest struct {
	LandlordID   uint   `json:"landlordId"`
	TenantID     uint   `json:"tenantId"`
	UnitID       uint   `json:"unitId"`
	StartDate    string `json:"startDate"` // dd/MM/yyyy
	EndDate      string `json:"endDate"`   // dd/MM/yyyy
	PaymentCycle int    `json:"paymentCycle"`
}

// AgreementRejectRequest là payload người thuê từ chối hợp đồng
type AgreementRejectRequest struct {
	Reason string `json:"reason"`
}

// AgreementTerminateRequest là payload chấm dứt hợp đồng trước hạn
type AgreementTerminateRequest struct {
	Reason  string `json:"reason"`
	Type    string `json:"type"`
	Penalty int64  `json:"penalty"`
}

// AgreementRenewRequest là payload gia hạn: tạo hợp đồng kế nhiệm với
// snapshot giá mới. EscalationPercent bỏ trống thì dùng cấu hình hệ thống.
type AgreementRenewRequest struct {
	StartDate         string   `json:"startDate"`
	EndDate           string   `json:"endDate"`
	PaymentCycle      *int     `json:"paymentCycle,omitempty"`
	EscalationPercent *float64 `json:"escalationPercent,omitempty"`
}
