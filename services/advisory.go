package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stayhub/config"
	"stayhub/dto"
	"stayhub/services/logger"
)

// AdvisoryResponse là envelope chat-completion của Advisory Service
type AdvisoryResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// PricingAdvice là schema JSON mà model phải trả cho gợi ý giá
type PricingAdvice struct {
	SuggestedPrice float64  `json:"suggested_price"`
	Reasoning      string   `json:"reasoning"`
	Factors        []string `json:"factors"`
}

// HostAdvicePayload là schema JSON cho tư vấn host
type HostAdvicePayload struct {
	Summary         string               `json:"summary"`
	Recommendations []dto.Recommendation `json:"recommendations"`
	QuickWins       []string             `json:"quick_wins"`
}

// AdvisoryPricingContext là dữ liệu thị trường đưa vào prompt tính giá
type AdvisoryPricingContext struct {
	Title           string
	City            string
	Country         string
	Amenities       []string
	CurrentPrice    float64
	AvgCompPrice    float64
	MedianCompPrice float64
	OccupancyFactor float64
}

// AdvisoryOptions cấu hình client, trường rỗng lấy từ biến môi trường
type AdvisoryOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     logger.Logger
}

// AdvisoryClient gọi Advisory Service qua HTTP. Mọi lỗi transport hay payload
// hỏng đều được nuốt: caller nhận nil/error và tự rẽ sang fallback.
type AdvisoryClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewAdvisoryClient tạo client mới, fallback sang env nếu options rỗng
func NewAdvisoryClient(opts AdvisoryOptions) *AdvisoryClient {
	if opts.APIKey == "" {
		opts.APIKey = config.GetEnv("ADVISORY_API_KEY")
	}
	if opts.Model == "" {
		opts.Model = config.GetEnvDefault("ADVISORY_MODEL", "gpt-4")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = config.GetEnvDefault("ADVISORY_BASE_URL", "https://api.openai.com/v1")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 20 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &AdvisoryClient{
		apiKey:     opts.APIKey,
		model:      opts.Model,
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
}

// Available cho biết client có được cấu hình API key không
func (a *AdvisoryClient) Available() bool {
	return a.apiKey != ""
}

// complete gửi một lượt chat-completion và trả về content thô
func (a *AdvisoryClient) complete(systemPrompt, userPrompt string) (string, error) {
	if !a.Available() {
		return "", fmt.Errorf("advisory API key không tồn tại")
	}

	requestBody, _ := json.Marshal(map[string]interface{}{
		"model": a.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"max_tokens":  500,
		"temperature": 0.2,
	})

	req, err := http.NewRequest("POST", a.baseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var advResp AdvisoryResponse
	if err := json.Unmarshal(body, &advResp); err != nil || len(advResp.Choices) == 0 {
		return "", fmt.Errorf("advisory trả về lỗi hoặc không hợp lệ")
	}

	return strings.TrimSpace(advResp.Choices[0].Message.Content), nil
}

// ExtractJSON parse hai bước: decode thẳng, nếu hỏng thì cắt từ dấu { đầu
// tiên đến dấu } cuối cùng rồi thử lại (model hay kèm lời thoại ngoài JSON)
func ExtractJSON(raw string, target interface{}) error {
	if err := json.Unmarshal([]byte(raw), target); err == nil {
		return nil
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("không tìm thấy JSON object trong advisory reply")
	}
	return json.Unmarshal([]byte(raw[start:end+1]), target)
}

// SuggestPrice hỏi model giá đêm gợi ý. Trả về nil khi không có kết quả dùng
// được (caller rẽ sang heuristic), không bao giờ trả lỗi ra ngoài.
func (a *AdvisoryClient) SuggestPrice(pc AdvisoryPricingContext) *PricingAdvice {
	systemPrompt := "You are a pricing optimization agent for short-term rental properties. " +
		"Given the target property details and a summary of comparable listings, " +
		"produce ONLY a valid JSON object with keys: suggested_price (number), reasoning (string summary with 100 words max), factors (string array). " +
		"Price must be in USD and reflect market, amenity value, and occupancy factor. No extra text outside JSON."

	userPrompt := fmt.Sprintf(
		"Target Property Title: %s\nLocation: %s, %s\nAmenities: %s\nCurrent Price: %.2f\n"+
			"Comparable Avg Price: %.2f\nComparable Median Price: %.2f\n"+
			"Occupancy Adjustment Factor (heuristic): %.2f\n"+
			"List up to 5 most influential factors in 'factors'.",
		pc.Title, pc.City, pc.Country, strings.Join(pc.Amenities, ", "),
		pc.CurrentPrice, pc.AvgCompPrice, pc.MedianCompPrice, pc.OccupancyFactor,
	)

	raw, err := a.complete(systemPrompt, userPrompt)
	if err != nil {
		a.logger.Error("Advisory pricing invocation failed: %v", err)
		return nil
	}

	var advice PricingAdvice
	if err := ExtractJSON(raw, &advice); err != nil {
		a.logger.Error("Advisory pricing trả JSON nhưng lỗi khi parse: %s", raw)
		return nil
	}
	if advice.SuggestedPrice <= 0 {
		return nil
	}
	return &advice
}

// Reply sinh câu trả lời tự nhiên cho một prompt hội thoại
func (a *AdvisoryClient) Reply(systemPrompt, userPrompt string) (string, error) {
	return a.complete(systemPrompt, userPrompt)
}

// HostAdvice hỏi model tư vấn host dạng JSON có cấu trúc. Trả nil khi không
// có kết quả dùng được.
func (a *AdvisoryClient) HostAdvice(metrics *dto.HostMetricsSnapshot, comparison []dto.ComparableListing, focus string) *HostAdvicePayload {
	metricsJSON, _ := json.Marshal(metrics)
	comparisonJSON, _ := json.Marshal(comparison)
	if focus == "" {
		focus = "all"
	}

	systemPrompt := "You are an elite host performance optimization AI. Given the host portfolio summary and a sample of top performing comparable properties, " +
		"produce ONLY valid JSON with keys: summary (string), recommendations (array of objects with category, advice, priority), quick_wins (array of short strings). " +
		"Valid categories: listing_quality, pricing_strategy, guest_experience, occupancy_growth. Priorities: high|medium|low. Keep advice concise."

	userPrompt := fmt.Sprintf("HOST_METRICS=%s\nTOP_PERFORMERS=%s\nFOCUS=%s",
		string(metricsJSON), string(comparisonJSON), focus)

	raw, err := a.complete(systemPrompt, userPrompt)
	if err != nil {
		a.logger.Error("Advisory host advice error: %v", err)
		return nil
	}

	var payload HostAdvicePayload
	if err := ExtractJSON(raw, &payload); err != nil {
		a.logger.Error("Advisory host advice trả JSON nhưng lỗi khi parse: %s", raw)
		return nil
	}
	return &payload
}
