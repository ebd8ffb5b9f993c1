package models

import (
	"encoding/json"
	"time"

	"thuetro/errors"
)

// PricingSnapshot là bản chụp bất biến các trường giá của một phiên bản
// chính sách tại thời điểm gắn (bind). Sau khi chụp, giá trị gốc không bao
// giờ đổi; mọi điều chỉnh thủ công đi qua map Overrides để giữ dấu vết
// giá gốc / giá thương lượng.
type PricingSnapshot struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	OwnerType     string `json:"ownerType" gorm:"index:idx_snapshot_owner,unique"`
	OwnerID       uint   `json:"ownerId" gorm:"index:idx_snapshot_owner,unique"`
	PolicyID      uint   `json:"policyId" gorm:"index"`
	PolicyVersion int    `json:"policyVersion"`

	PriceFields `gorm:"embedded"`

	Overrides  json.RawMessage `json:"overrides" gorm:"type:json"`
	CapturedAt time.Time       `json:"capturedAt"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// OverrideMap giải mã cột Overrides thành map tên trường -> giá trị
func (s *PricingSnapshot) OverrideMap() (map[string]string, error) {
	m := make(map[string]string)
	if len(s.Overrides) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(s.Overrides, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// SetOverride ghi một override sau khi kiểm tra tên trường và kiểu giá trị.
// Giá trị được validate bằng cách thử Set lên một bản copy của trường gốc.
func (s *PricingSnapshot) SetOverride(field, value string) error {
	probe := s.PriceFields
	if err := probe.Set(field, value); err != nil {
		return err
	}

	m, err := s.OverrideMap()
	if err != nil {
		return err
	}
	m[field] = value
	return s.storeOverrides(m)
}

// ClearOverride gỡ override của một trường; giá trị hiệu lực quay về giá trị
// đã chụp trong snapshot, không phải giá trị hiện hành của chính sách.
func (s *PricingSnapshot) ClearOverride(field string) error {
	if _, err := s.PriceFields.Get(field); err != nil {
		return err
	}

	m, err := s.OverrideMap()
	if err != nil {
		return err
	}
	delete(m, field)
	return s.storeOverrides(m)
}

// EffectivePrice trả về bộ trường giá hiệu lực: override nếu có, ngược lại
// giá trị đã chụp. Hàm thuần, không side effect.
func (s *PricingSnapshot) EffectivePrice() (PriceFields, error) {
	effective := s.PriceFields

	m, err := s.OverrideMap()
	if err != nil {
		return effective, err
	}
	for field, value := range m {
		if err := effective.Set(field, value); err != nil {
			return s.PriceFields, err
		}
	}
	return effective, nil
}

func (s *PricingSnapshot) storeOverrides(m map[string]string) error {
	b, err := json.Marshal(m)
	if err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "Không mã hóa được override", err)
	}
	s.Overrides = b
	return nil
}
