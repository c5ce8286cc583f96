package dto

// SuggestPriceRequest là payload gợi ý giá qua POST
type SuggestPriceRequest struct {
	PropertyID string `json:"propertyId" binding:"required"`
}

// FallbackAnalysis ghi lại các hệ số của heuristic khi không có advisory
type FallbackAnalysis struct {
	Method         string  `json:"method"`
	BasePrice      float64 `json:"basePrice"`
	SeasonalFactor float64 `json:"seasonalFactor"`
	MarketFactor   float64 `json:"marketFactor"`
}

// PriceSuggestion là kết quả của pricing engine
type PriceSuggestion struct {
	Source         string            `json:"source"` // advisory | fallback
	SuggestedPrice float64           `json:"suggestedPrice"`
	Currency       string            `json:"currency"`
	Reasoning      string            `json:"reasoning,omitempty"`
	Factors        []string          `json:"factorsConsidered"`
	Analysis       *FallbackAnalysis `json:"analysis,omitempty"`
}
