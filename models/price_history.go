package models

import (
	"time"

	"gorm.io/gorm"
)

// PriceHistory là audit log chỉ ghi thêm, mỗi lần tính giá một dòng
type PriceHistory struct {
	ID            string    `json:"id" gorm:"primaryKey;size:24"`
	PropertyID    string    `json:"propertyId" gorm:"size:24;index"`
	OldPrice      float64   `json:"oldPrice"`
	NewPrice      float64   `json:"newPrice"`
	SuggestedByAI bool      `json:"suggestedByAI"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// BeforeCreate gán ID 24-hex nếu chưa có
func (h *PriceHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = NewID()
	}
	return nil
}
