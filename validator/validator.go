package validator

import (
	"thuetro/dto"
	"thuetro/errors"
	"thuetro/models"
)

// ValidateAgreementCreate validate payload tạo hợp đồng
func ValidateAgreementCreate(req *dto.AgreementCreateRequest) error {
	if req.LandlordID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Hợp đồng phải có chủ nhà", nil)
	}
	if req.TenantID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Hợp đồng phải có người thuê", nil)
	}
	if req.UnitID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Hợp đồng phải gắn với một đơn vị thuê", nil)
	}
	if req.StartDate == "" || req.EndDate == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Hợp đồng phải có ngày bắt đầu và kết thúc", nil)
	}
	if req.PaymentCycle <= 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "Kỳ thanh toán phải lớn hơn 0", nil)
	}
	return nil
}

// ValidateOverrideField kiểm tra tên trường override thuộc tập trường giá
func ValidateOverrideField(field string) error {
	for _, name := range models.PriceFieldNames {
		if name == field {
			return nil
		}
	}
	return errors.NewAppError(errors.ErrCodeUnknownField, "Trường giá không tồn tại: "+field, errors.ErrUnknownField)
}

// ValidateAmount validate số tiền
func ValidateAmount(amount int64) error {
	if amount < 0 {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Số tiền không được âm", nil)
	}
	return nil
}
