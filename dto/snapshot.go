package dto

import "thuetro/models"

// SnapshotBindRequest là payload gắn snapshot giá cho một chủ sở hữu
type SnapshotBindRequest struct {
	OwnerType string `json:"ownerType"`
	OwnerID   uint   `json:"ownerId"`
	UnitID    uint   `json:"unitId"`
}

// OverrideRequest là payload ghi/gỡ override trên snapshot
type OverrideRequest struct {
	Field string `json:"field"`
	Value string `json:"value,omitempty"`
}

// SnapshotResponse là DTO trả về cho snapshot kèm giá hiệu lực
type SnapshotResponse struct {
	ID             uint               `json:"id"`
	OwnerType      string             `json:"ownerType"`
	OwnerID        uint               `json:"ownerId"`
	PolicyID       uint               `json:"policyId"`
	PolicyVersion  int                `json:"policyVersion"`
	Captured       models.PriceFields `json:"captured"`
	Overrides      map[string]string  `json:"overrides"`
	EffectivePrice models.PriceFields `json:"effectivePrice"`
	CapturedAt     string             `json:"capturedAt"`
}

// NewSnapshotResponse chuyển model sang DTO
func NewSnapshotResponse(s *models.PricingSnapshot) (SnapshotResponse, error) {
	overrides, err := s.OverrideMap()
	if err != nil {
		return SnapshotResponse{}, err
	}
	effective, err := s.EffectivePrice()
	if err != nil {
		return SnapshotResponse{}, err
	}
	return SnapshotResponse{
		ID:             s.ID,
		OwnerType:      s.OwnerType,
		OwnerID:        s.OwnerID,
		PolicyID:       s.PolicyID,
		PolicyVersion:  s.PolicyVersion,
		Captured:       s.PriceFields,
		Overrides:      overrides,
		EffectivePrice: effective,
		CapturedAt:     s.CapturedAt.Format("02/01/2006 15:04:05"),
	}, nil
}
