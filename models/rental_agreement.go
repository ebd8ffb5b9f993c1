package models

import (
	"time"

	"thuetro/constants"
)

type RentalAgreement struct {
	ID         uint  `json:"id" gorm:"primaryKey"`
	LandlordID uint  `json:"landlordId" gorm:"index"`
	TenantID   uint  `json:"tenantId" gorm:"index"`
	UnitID     uint  `json:"unitId" gorm:"index"`
	SnapshotID *uint `json:"snapshotId"`
	Status     int   `json:"status" gorm:"default:0;index"`

	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	PaymentCycle int       `json:"paymentCycle"` // số tháng mỗi kỳ thanh toán

	// Chuỗi gia hạn: RenewedIntoID chỉ được ghi đúng một lần, ngay khi hợp
	// đồng kế nhiệm đã được tạo bền vững.
	RenewedFromID *uint `json:"renewedFromId" gorm:"index"`
	RenewedIntoID *uint `json:"renewedIntoId"`

	RejectReason       string `json:"rejectReason,omitempty"`
	TerminationReason  string `json:"terminationReason,omitempty"`
	TerminationType    string `json:"terminationType,omitempty"`
	TerminationPenalty int64  `json:"terminationPenalty,omitempty"`
	DepositRefund      int64  `json:"depositRefund,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Live cho biết hợp đồng còn "sống" với đơn vị thuê không: một đơn vị chỉ
// được có tối đa một hợp đồng SENT/PENDING_CONFIRM/ACTIVE tại một thời điểm.
func (a *RentalAgreement) Live() bool {
	switch a.Status {
	case constants.AgreementStatusSent,
		constants.AgreementStatusPendingConfirm,
		constants.AgreementStatusActive:
		return true
	}
	return false
}

// Terminal cho biết hợp đồng đã kết thúc vòng đời chưa
func (a *RentalAgreement) Terminal() bool {
	switch a.Status {
	case constants.AgreementStatusExpired,
		constants.AgreementStatusTerminated,
		constants.AgreementStatusCancelled:
		return true
	}
	return false
}

// PastEndDate kiểm tra hợp đồng đã qua ngày kết thúc chưa
func (a *RentalAgreement) PastEndDate(now time.Time) bool {
	return !a.EndDate.IsZero() && now.After(a.EndDate)
}

// TransitionEvent là sự kiện phát ra sau mỗi lần chuyển trạng thái thành
// công, cho các hệ thống billing/notification bên ngoài tiêu thụ.
type TransitionEvent struct {
	AgreementID uint      `json:"agreementId"`
	Event       string    `json:"event"`
	OldStatus   int       `json:"oldStatus"`
	NewStatus   int       `json:"newStatus"`
	At          time.Time `json:"at"`
}
