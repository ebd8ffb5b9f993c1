package services

import (
	"thuetro/constants"
	"thuetro/models"
)

// UnitStatusSink nhận cập nhật trạng thái chiếm giữ của đơn vị thuê. Lớp
// quản lý tài sản bên ngoài sở hữu đơn vị; core chỉ báo chiếm/trả.
type UnitStatusSink interface {
	MarkOccupied(unitID uint) error
	Release(unitID uint) error
}

// EventSink nhận một sự kiện cho mỗi lần chuyển trạng thái hợp đồng thành
// công, cho billing/notification bên ngoài. Core không chờ các hệ thống đó.
type EventSink interface {
	Publish(event models.TransitionEvent) error
}

// unitStoreSink cài UnitStatusSink trên UnitStore
type unitStoreSink struct {
	units UnitStore
}

// NewUnitStatusSink tạo UnitStatusSink ghi thẳng vào store đơn vị thuê
func NewUnitStatusSink(units UnitStore) UnitStatusSink {
	return &unitStoreSink{units: units}
}

func (s *unitStoreSink) MarkOccupied(unitID uint) error {
	return s.units.SetStatus(unitID, constants.UnitStatusOccupied)
}

func (s *unitStoreSink) Release(unitID uint) error {
	return s.units.SetStatus(unitID, constants.UnitStatusAvailable)
}

// NopEventSink bỏ qua mọi event, dùng khi không có kênh thông báo
type NopEventSink struct{}

func (NopEventSink) Publish(event models.TransitionEvent) error {
	return nil
}
