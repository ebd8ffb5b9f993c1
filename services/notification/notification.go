package notification

import (
	"encoding/json"
	"fmt"

	"thuetro/models"

	"github.com/olahol/melody"
)

// Service interface gửi thông báo realtime
type Service interface {
	SendMessage(message string) error
}

// MelodyService phát thông báo qua websocket
type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// MelodyEventSink phát sự kiện chuyển trạng thái hợp đồng lên websocket cho
// các hệ thống billing/notification đang lắng nghe.
type MelodyEventSink struct {
	m *melody.Melody
}

func NewMelodyEventSink(m *melody.Melody) *MelodyEventSink {
	return &MelodyEventSink{m: m}
}

func (s *MelodyEventSink) Publish(event models.TransitionEvent) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.m.Broadcast(b)
}

// MessageBuilder dựng thông báo cho một lần chuyển trạng thái
type MessageBuilder struct {
	agreementID uint
	event       string
}

func NewMessageBuilder(agreementID uint, event string) *MessageBuilder {
	return &MessageBuilder{
		agreementID: agreementID,
		event:       event,
	}
}

func (b *MessageBuilder) Build() string {
	return fmt.Sprintf("🔔 Hợp đồng %d vừa thực hiện %s.", b.agreementID, b.event)
}
