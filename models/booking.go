package models

import (
	"time"

	"gorm.io/gorm"

	"stayhub/constants"
)

type Booking struct {
	ID            string    `json:"id" gorm:"primaryKey;size:24"`
	PropertyID    string    `json:"propertyId" gorm:"size:24;index"`
	Property      *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	GuestID       *string   `json:"guestId" gorm:"size:24"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	Nights        int       `json:"nights"`
	NightlyPrice  float64   `json:"nightlyPrice"`
	TotalPrice    float64   `json:"totalPrice"`
	PricingSource string    `json:"pricingSource"`
	Status        string    `json:"status" gorm:"index;default:quote"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate gán ID 24-hex nếu chưa có
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	return nil
}

// Overlaps kiểm tra booking có giao với khoảng [start, end) không.
// Khoảng nửa mở: trùng biên (back-to-back) không tính là giao nhau.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && b.EndDate.After(start)
}

// IsConfirmed kiểm tra booking đã ở trạng thái confirmed chưa
func (b *Booking) IsConfirmed() bool {
	return b.Status == constants.BookingStatusConfirmed
}
