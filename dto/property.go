package dto

import "encoding/json"

// PropertyRequest là payload tạo property mới
type PropertyRequest struct {
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	Address       string          `json:"address"`
	City          string          `json:"city" binding:"required"`
	Country       string          `json:"country"`
	Latitude      float64         `json:"latitude"`
	Longitude     float64         `json:"longitude"`
	Rooms         json.RawMessage `json:"rooms"`
	Amenities     []string        `json:"amenities"`
	PricePerNight float64         `json:"pricePerNight" binding:"required"`
}

// PropertySummary là projection rút gọn cho danh sách
type PropertySummary struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	PricePerNight float64  `json:"pricePerNight"`
	Amenities     []string `json:"amenities"`
}
