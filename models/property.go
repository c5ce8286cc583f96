package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// RoomInfo mô tả một nhóm phòng trong property (lưu dạng JSON)
type RoomInfo struct {
	Type    string                 `json:"type"`
	Count   int                    `json:"count"`
	Details map[string]interface{} `json:"details"`
}

type Property struct {
	ID            string          `json:"id" gorm:"primaryKey;size:24"`
	HostID        string          `json:"hostId" gorm:"size:24;index"`
	Host          *User           `json:"host,omitempty" gorm:"foreignKey:HostID"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Address       string          `json:"address"`
	City          string          `json:"city" gorm:"index"`
	Country       string          `json:"country"`
	Latitude      float64         `json:"latitude"`
	Longitude     float64         `json:"longitude"`
	Rooms         json.RawMessage `json:"rooms" gorm:"type:json"`
	Amenities     pq.StringArray  `json:"amenities" gorm:"type:text[]"`
	PricePerNight float64         `json:"pricePerNight"`
	DynamicPrice  *float64        `json:"dynamicPrice"`
	Img           json.RawMessage `json:"img" gorm:"type:json"` // Hình ảnh property (Cloudinary URLs)
	IsAvailable   bool            `json:"isAvailable" gorm:"default:true"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate gán ID 24-hex nếu chưa có
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// ParseRooms giải mã danh sách phòng từ cột JSON
func (p *Property) ParseRooms() ([]RoomInfo, error) {
	if len(p.Rooms) == 0 {
		return nil, nil
	}
	var rooms []RoomInfo
	if err := json.Unmarshal(p.Rooms, &rooms); err != nil {
		return nil, fmt.Errorf("parse rooms for property %s: %w", p.ID, err)
	}
	return rooms, nil
}

// ValidateRooms kiểm tra count của từng nhóm phòng không âm
func (p *Property) ValidateRooms() error {
	rooms, err := p.ParseRooms()
	if err != nil {
		return err
	}
	for _, r := range rooms {
		if r.Count < 0 {
			return fmt.Errorf("invalid room count %d for type %q", r.Count, r.Type)
		}
	}
	return nil
}

// ListedPrice trả về giá đang niêm yết (ưu tiên dynamic price nếu có)
func (p *Property) ListedPrice() float64 {
	if p.DynamicPrice != nil && *p.DynamicPrice > 0 {
		return *p.DynamicPrice
	}
	return p.PricePerNight
}
