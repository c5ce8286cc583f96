package jobs

import (
	"fmt"
	"log"

	"github.com/olahol/melody"
	"github.com/robfig/cron/v3"
)

// PriceRefresher định nghĩa interface cho việc tính lại giá gợi ý
type PriceRefresher interface {
	RefreshAllPrices() (int, error)
}

var priceRefresher PriceRefresher

// SetPriceRefresher thiết lập implementation cho PriceRefresher
func SetPriceRefresher(refresher PriceRefresher) {
	priceRefresher = refresher
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron, m *melody.Melody) error {
	// Cron job chạy lúc 3h sáng mỗi ngày: tính lại giá gợi ý toàn bộ property
	_, err := c.AddFunc("0 3 * * *", func() {
		if priceRefresher == nil {
			log.Println("Lỗi: PriceRefresher chưa được thiết lập")
			return
		}
		refreshed, err := priceRefresher.RefreshAllPrices()
		if err != nil {
			log.Printf("Lỗi khi refresh giá: %v", err)
			return
		}
		log.Printf("Đã refresh giá gợi ý cho %d property", refreshed)

		message := fmt.Sprintf("Nightly price refresh completed for %d properties", refreshed)
		m.Broadcast([]byte(message))
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
