package dto

// HostMetricsSnapshot là thống kê portfolio của host trong cửa sổ trượt,
// tính lại mỗi lần gọi, không lưu
type HostMetricsSnapshot struct {
	PropertyCount int            `json:"propertyCount"`
	AvgPrice      float64        `json:"avgPrice"`
	TotalBookings int            `json:"totalBookings"`
	TotalNights   int            `json:"totalNights"`
	BookingCounts map[string]int `json:"bookingCounts"`
	AmenitiesFreq map[string]int `json:"amenitiesFreq"`
}

// ComparableListing là projection rút gọn của property cạnh tranh
type ComparableListing struct {
	Title          string   `json:"title"`
	City           string   `json:"city"`
	PricePerNight  float64  `json:"pricePerNight"`
	Amenities      []string `json:"amenities"`
	RecentBookings int      `json:"recentBookings"`
}

// Recommendation là một lời khuyên theo category cho host
type Recommendation struct {
	Category string `json:"category"`
	Advice   string `json:"advice"`
	Priority string `json:"priority"`
}

// HostAdvice là dữ liệu tư vấn trả cho host
type HostAdvice struct {
	Summary          string               `json:"summary"`
	Recommendations  []Recommendation     `json:"recommendations"`
	QuickWins        []string             `json:"quick_wins"`
	MetricsSnapshot  *HostMetricsSnapshot `json:"metrics_snapshot,omitempty"`
	ComparisonSample []ComparableListing  `json:"comparison_sample,omitempty"`
}

// HostAdviceResult bọc advice kèm nguồn sinh ra nó
type HostAdviceResult struct {
	Source string     `json:"source"` // advisory | fallback
	Data   HostAdvice `json:"data"`
}

// HostAskRequest là payload hỏi đáp của host
type HostAskRequest struct {
	Question  string `json:"question" binding:"required"`
	SessionID string `json:"sessionId"`
}

// HostAskResponse là câu trả lời kèm phiên hội thoại
type HostAskResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}
