package models

import (
	"strconv"

	"thuetro/constants"
	"thuetro/errors"
)

// Tên các trường giá. Đây là tập đóng: override chỉ được nhận field
// nằm trong danh sách này, field lạ trả về ErrUnknownField.
const (
	FieldBasePrice     = "base_price"
	FieldPriceUnit     = "price_unit"
	FieldMinDuration   = "min_duration"
	FieldDepositAmount = "deposit_amount"
	FieldHoldDeposit   = "hold_deposit"
	FieldServiceFee    = "service_fee"
	FieldManagementFee = "management_fee"
	FieldElectricity   = "electricity_billing"
	FieldWater         = "water_billing"
)

// PriceFieldNames liệt kê toàn bộ trường giá theo thứ tự cố định
var PriceFieldNames = []string{
	FieldBasePrice,
	FieldPriceUnit,
	FieldMinDuration,
	FieldDepositAmount,
	FieldHoldDeposit,
	FieldServiceFee,
	FieldManagementFee,
	FieldElectricity,
	FieldWater,
}

// PriceFields là bộ trường giá dùng chung cho phiên bản chính sách và
// snapshot. Giá tiền tính bằng VND (số nguyên), min_duration tính theo
// đơn vị của price_unit.
type PriceFields struct {
	BasePrice     int64  `json:"basePrice"`
	PriceUnit     string `json:"priceUnit"`
	MinDuration   int    `json:"minDuration"`
	DepositAmount int64  `json:"depositAmount"`
	HoldDeposit   int64  `json:"holdDeposit"`
	ServiceFee    int64  `json:"serviceFee"`
	ManagementFee int64  `json:"managementFee"`
	Electricity   string `json:"electricityBilling"`
	Water         string `json:"waterBilling"`
}

// Get đọc giá trị một trường theo tên, trả về dạng chuỗi
func (p *PriceFields) Get(field string) (string, error) {
	switch field {
	case FieldBasePrice:
		return strconv.FormatInt(p.BasePrice, 10), nil
	case FieldPriceUnit:
		return p.PriceUnit, nil
	case FieldMinDuration:
		return strconv.Itoa(p.MinDuration), nil
	case FieldDepositAmount:
		return strconv.FormatInt(p.DepositAmount, 10), nil
	case FieldHoldDeposit:
		return strconv.FormatInt(p.HoldDeposit, 10), nil
	case FieldServiceFee:
		return strconv.FormatInt(p.ServiceFee, 10), nil
	case FieldManagementFee:
		return strconv.FormatInt(p.ManagementFee, 10), nil
	case FieldElectricity:
		return p.Electricity, nil
	case FieldWater:
		return p.Water, nil
	default:
		return "", errors.ErrUnknownField
	}
}

// Set gán giá trị một trường theo tên, có kiểm tra kiểu và miền giá trị
func (p *PriceFields) Set(field, value string) error {
	switch field {
	case FieldBasePrice:
		return setAmount(&p.BasePrice, value)
	case FieldPriceUnit:
		if !validPriceUnit(value) {
			return errors.NewAppError(errors.ErrCodeValidation, "Đơn vị giá không hợp lệ: "+value, nil)
		}
		p.PriceUnit = value
		return nil
	case FieldMinDuration:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return errors.NewAppError(errors.ErrCodeInvalidAmount, "Thời hạn thuê tối thiểu không hợp lệ: "+value, err)
		}
		p.MinDuration = n
		return nil
	case FieldDepositAmount:
		return setAmount(&p.DepositAmount, value)
	case FieldHoldDeposit:
		return setAmount(&p.HoldDeposit, value)
	case FieldServiceFee:
		return setAmount(&p.ServiceFee, value)
	case FieldManagementFee:
		return setAmount(&p.ManagementFee, value)
	case FieldElectricity:
		if !validBillingMode(value) {
			return errors.NewAppError(errors.ErrCodeValidation, "Hình thức tính điện không hợp lệ: "+value, nil)
		}
		p.Electricity = value
		return nil
	case FieldWater:
		if !validBillingMode(value) {
			return errors.NewAppError(errors.ErrCodeValidation, "Hình thức tính nước không hợp lệ: "+value, nil)
		}
		p.Water = value
		return nil
	default:
		return errors.ErrUnknownField
	}
}

// Validate kiểm tra toàn bộ trường giá của một phiên bản chính sách
func (p *PriceFields) Validate() error {
	if p.BasePrice <= 0 {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Giá cơ bản phải lớn hơn 0", nil)
	}
	if !validPriceUnit(p.PriceUnit) {
		return errors.NewAppError(errors.ErrCodeValidation, "Đơn vị giá không hợp lệ: "+p.PriceUnit, nil)
	}
	if p.MinDuration < 0 {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Thời hạn thuê tối thiểu không được âm", nil)
	}
	if p.DepositAmount < 0 || p.HoldDeposit < 0 || p.ServiceFee < 0 || p.ManagementFee < 0 {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Các khoản phí không được âm", nil)
	}
	if !validBillingMode(p.Electricity) {
		return errors.NewAppError(errors.ErrCodeValidation, "Hình thức tính điện không hợp lệ: "+p.Electricity, nil)
	}
	if !validBillingMode(p.Water) {
		return errors.NewAppError(errors.ErrCodeValidation, "Hình thức tính nước không hợp lệ: "+p.Water, nil)
	}
	return nil
}

func setAmount(dst *int64, value string) error {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Số tiền không hợp lệ: "+value, err)
	}
	*dst = n
	return nil
}

func validPriceUnit(u string) bool {
	switch u {
	case constants.PriceUnitHour, constants.PriceUnitNight, constants.PriceUnitDay,
		constants.PriceUnitMonth, constants.PriceUnitYear:
		return true
	}
	return false
}

func validBillingMode(m string) bool {
	switch m {
	case constants.BillingMetered, constants.BillingFixed, constants.BillingIncluded:
		return true
	}
	return false
}
