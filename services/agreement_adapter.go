package services

import (
	"fmt"
	"time"

	"github.com/olahol/melody"
)

// AgreementServiceAdapter bọc AgreementService cho cron job quét hợp đồng
// hết hạn, phát tổng kết lên websocket sau mỗi lần quét.
type AgreementServiceAdapter struct {
	service *AgreementService
}

// NewAgreementServiceAdapter tạo adapter mới
func NewAgreementServiceAdapter(service *AgreementService) *AgreementServiceAdapter {
	return &AgreementServiceAdapter{service: service}
}

// ExpireDueAgreements quét và chuyển EXPIRED các hợp đồng ACTIVE đã quá hạn
func (a *AgreementServiceAdapter) ExpireDueAgreements(m *melody.Melody) error {
	expired, err := a.service.ExpireDue(time.Now())
	if err != nil {
		return err
	}

	if expired > 0 && m != nil {
		msg := fmt.Sprintf("🔔 Đã chuyển %d hợp đồng sang trạng thái hết hạn.", expired)
		if err := m.Broadcast([]byte(msg)); err != nil {
			a.service.logger.Error("Lỗi broadcast kết quả expire: %v", err)
		}
	}
	return nil
}
