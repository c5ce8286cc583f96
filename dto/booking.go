package dto

// QuoteRequest là payload tạo báo giá đặt phòng
type QuoteRequest struct {
	PropertyID string `json:"propertyId" binding:"required"`
	GuestID    string `json:"guestId"`
	StartDate  string `json:"startDate" binding:"required"`
	EndDate    string `json:"endDate" binding:"required"`
}

// BookingResponse trả về sau khi tạo quote thành công
type BookingResponse struct {
	BookingID     string  `json:"bookingId"`
	PropertyID    string  `json:"propertyId"`
	Nights        int     `json:"nights"`
	NightlyPrice  float64 `json:"nightlyPrice"`
	TotalPrice    float64 `json:"totalPrice"`
	PricingSource string  `json:"pricingSource"`
	Status        string  `json:"status"`
	Message       string  `json:"message"`
}

// ChatRequest là payload tiếp tục hội thoại booking
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse là câu trả lời của trợ lý
type ChatResponse struct {
	Reply string `json:"reply"`
}

// AvailabilityResponse là kết quả kiểm tra lịch trống
type AvailabilityResponse struct {
	Available  bool   `json:"available"`
	PropertyID string `json:"propertyId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Nights     int    `json:"nights"`
}
