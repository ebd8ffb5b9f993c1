package jobs

import (
	"log"
	"time"

	"github.com/olahol/melody"
	"github.com/robfig/cron/v3"
)

// AgreementExpirer định nghĩa interface cho việc quét hợp đồng hết hạn
type AgreementExpirer interface {
	ExpireDueAgreements(m *melody.Melody) error
}

var agreementExpirer AgreementExpirer

// SetAgreementExpirer thiết lập implementation cho AgreementExpirer
func SetAgreementExpirer(expirer AgreementExpirer) {
	agreementExpirer = expirer
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron, m *melody.Melody) error {
	// Cron job chạy lúc 0h mỗi ngày
	_, err := c.AddFunc("0 0 * * *", func() {
		now := time.Now()
		log.Printf("Đang quét hợp đồng hết hạn lúc: %v", now)
		if agreementExpirer == nil {
			log.Printf("Lỗi: AgreementExpirer chưa được thiết lập")
			return
		}
		if err := agreementExpirer.ExpireDueAgreements(m); err != nil {
			log.Printf("Lỗi khi quét hợp đồng hết hạn: %v", err)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
