package models

import (
	"thuetro/constants"
	"thuetro/errors"
)

// Tên các event của máy trạng thái hợp đồng
const (
	EventSend      = "send"
	EventDelete    = "delete"
	EventConfirm   = "confirm"
	EventReject    = "reject"
	EventActivate  = "activate"
	EventTerminate = "terminate"
	EventExpire    = "expire"
	EventRenew     = "renew"
)

// AgreementState định nghĩa interface cho các trạng thái hợp đồng thuê.
// Mỗi event không hợp lệ với trạng thái hiện tại trả về
// InvalidTransitionError kèm trạng thái thực tế, không bao giờ bỏ qua im lặng.
type AgreementState interface {
	Send(a *RentalAgreement) error
	Delete(a *RentalAgreement) error
	Confirm(a *RentalAgreement) error
	Reject(a *RentalAgreement) error
	Activate(a *RentalAgreement) error
	Terminate(a *RentalAgreement) error
	Expire(a *RentalAgreement) error
	Renew(a *RentalAgreement) error
}

// baseState từ chối mọi event; từng trạng thái nhúng baseState và chỉ
// override những event được phép.
type baseState struct{}

func (baseState) Send(a *RentalAgreement) error {
	return errors.NewInvalidTransition(EventSend, a.Status)
}

func (baseState) Delete(a *RentalAgreement) error {
	return errors.NewInvalidTransition(EventDelete, a.Status)
}

func (baseState) Confirm(a *RentalAgreement) error {
	return errors.NewInvalidTransition(EventConfirm, a.Status)
}

func (baseState) Reject(a *RentalAgreement) error {
	return errors.NewInvalidTransition(EventReject, a.Status)
}

func (baseState) Activate(a *RentalAgreement) error {
	return errors.NewInvalidTransition(EventActivate, a.Status)
}

func (baseState) Terminate(a *RentalAgreement) error {
	return errors.NewInvalidTransition(EventTerminate, a.Status)
}

func (baseState) Expire(a *RentalAgreement) error {
	return errors.NewInvalidTransition(EventExpire, a.Status)
}

func (baseState) Renew(a *RentalAgreement) error {
	return errors.NewInvalidTransition(EventRenew, a.Status)
}

// DraftState hợp đồng đang soạn
type DraftState struct{ baseState }

func (DraftState) Send(a *RentalAgreement) error {
	if a.SnapshotID == nil {
		return errors.ErrSnapshotRequired
	}
	a.Status = constants.AgreementStatusSent
	return nil
}

func (DraftState) Delete(a *RentalAgreement) error {
	return nil
}

// SentState hợp đồng đã gửi cho người thuê
type SentState struct{ baseState }

func (SentState) Confirm(a *RentalAgreement) error {
	a.Status = constants.AgreementStatusPendingConfirm
	return nil
}

func (SentState) Reject(a *RentalAgreement) error {
	a.Status = constants.AgreementStatusCancelled
	return nil
}

// PendingConfirmState người thuê đã đồng ý, chờ chủ nhà kích hoạt
type PendingConfirmState struct{ baseState }

func (PendingConfirmState) Activate(a *RentalAgreement) error {
	a.Status = constants.AgreementStatusActive
	return nil
}

// ActiveState hợp đồng đang hiệu lực
type ActiveState struct{ baseState }

func (ActiveState) Terminate(a *RentalAgreement) error {
	a.Status = constants.AgreementStatusTerminated
	return nil
}

func (ActiveState) Expire(a *RentalAgreement) error {
	a.Status = constants.AgreementStatusExpired
	return nil
}

func (ActiveState) Renew(a *RentalAgreement) error {
	if a.RenewedIntoID != nil {
		return errors.ErrAgreementRenewed
	}
	return nil
}

// ExpiredState hợp đồng đã hết hạn tự nhiên
type ExpiredState struct{ baseState }

// Expire trên hợp đồng đã EXPIRED là no-op để sweep chạy lại an toàn
func (ExpiredState) Expire(a *RentalAgreement) error {
	return nil
}

func (ExpiredState) Renew(a *RentalAgreement) error {
	if a.RenewedIntoID != nil {
		return errors.ErrAgreementRenewed
	}
	return nil
}

// TerminatedState hợp đồng đã chấm dứt trước hạn
type TerminatedState struct{ baseState }

// CancelledState hợp đồng bị người thuê từ chối
type CancelledState struct{ baseState }

// GetAgreementState trả về state tương ứng với trạng thái hợp đồng
func GetAgreementState(status int) AgreementState {
	switch status {
	case constants.AgreementStatusDraft:
		return DraftState{}
	case constants.AgreementStatusSent:
		return SentState{}
	case constants.AgreementStatusPendingConfirm:
		return PendingConfirmState{}
	case constants.AgreementStatusActive:
		return ActiveState{}
	case constants.AgreementStatusExpired:
		return ExpiredState{}
	case constants.AgreementStatusTerminated:
		return TerminatedState{}
	case constants.AgreementStatusCancelled:
		return CancelledState{}
	default:
		return DraftState{}
	}
}
