package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/redis/go-redis/v9"

	"stayhub/constants"
	"stayhub/dto"
	apperrors "stayhub/errors"
	"stayhub/models"
	"stayhub/repositories"
	"stayhub/services/logger"
	"stayhub/validator"
)

const (
	hostAdviceCacheTTL = 10 * time.Minute
	maxTopPerformers   = 5
	maxAmenityKeys     = 15
	hostChatHistory    = 12
)

// HostService tính metrics portfolio và sinh tư vấn cho host
type HostService struct {
	properties repositories.PropertyRepository
	bookings   repositories.BookingRepository
	chats      repositories.ChatRepository
	advisory   *AdvisoryClient
	rdb        *redis.Client
	logger     logger.Logger
	now        func() time.Time
}

// HostServiceOptions là dependencies tiêm vào khi khởi tạo
type HostServiceOptions struct {
	Properties repositories.PropertyRepository
	Bookings   repositories.BookingRepository
	Chats      repositories.ChatRepository
	Advisory   *AdvisoryClient
	Redis      *redis.Client
	Logger     logger.Logger
}

// NewHostService tạo HostService mới
func NewHostService(opts HostServiceOptions) *HostService {
	lg := opts.Logger
	if lg == nil {
		lg = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &HostService{
		properties: opts.Properties,
		bookings:   opts.Bookings,
		chats:      opts.Chats,
		advisory:   opts.Advisory,
		rdb:        opts.Redis,
		logger:     lg,
		now:        time.Now,
	}
}

// AggregateMetrics tính thống kê portfolio trong cửa sổ 90 ngày gần nhất.
// Tính lại mỗi lần gọi từ booking + property, không lưu bản tổng hợp nào.
func (s *HostService) AggregateMetrics(hostID string) (*dto.HostMetricsSnapshot, []models.Property, error) {
	if err := validator.ValidateID(hostID); err != nil {
		return nil, nil, err
	}
	props, err := s.properties.FindByHost(hostID)
	if err != nil {
		return nil, nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi truy vấn property", err)
	}
	if len(props) == 0 {
		return nil, nil, apperrors.ErrHostNoProperties
	}

	since := s.now().AddDate(0, 0, -constants.MetricsWindowDays)
	snapshot := &dto.HostMetricsSnapshot{
		PropertyCount: len(props),
		BookingCounts: map[string]int{},
		AmenitiesFreq: map[string]int{},
	}

	var priceSum float64
	for i := range props {
		p := &props[i]
		priceSum += p.ListedPrice()
		for _, amenity := range p.Amenities {
			snapshot.AmenitiesFreq[strings.ToLower(strings.TrimSpace(amenity))]++
		}

		recent, err := s.bookings.FindConfirmedSince(p.ID, since)
		if err != nil {
			return nil, nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi truy vấn booking", err)
		}
		snapshot.BookingCounts[p.ID] = len(recent)
		snapshot.TotalBookings += len(recent)
		for _, b := range recent {
			snapshot.TotalNights += bookingNights(b.StartDate, b.EndDate)
		}
	}
	snapshot.AvgPrice = round2(priceSum / float64(len(props)))

	return snapshot, props, nil
}

// SampleTopPerformers lấy mẫu property của host KHÁC cùng các thành phố,
// xếp theo số booking confirmed trong cửa sổ, lấy top nhiều booking nhất
func (s *HostService) SampleTopPerformers(hostID string, hostProps []models.Property) ([]dto.ComparableListing, error) {
	cities := map[string]bool{}
	var cityList []string
	for _, p := range hostProps {
		key := normalizeCity(p.City)
		if key != "" && !cities[key] {
			cities[key] = true
			cityList = append(cityList, p.City)
		}
	}
	if len(cityList) == 0 {
		return nil, nil
	}

	others, err := s.properties.FindOtherHosts(cityList, hostID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi truy vấn comparables", err)
	}

	since := s.now().AddDate(0, 0, -constants.MetricsWindowDays)
	var listings []dto.ComparableListing
	for i := range others {
		p := &others[i]
		// So khớp city đã khử dấu để "São Paulo" và "Sao Paulo" gặp nhau
		if !cities[normalizeCity(p.City)] {
			continue
		}
		count, err := s.bookings.CountConfirmedSince(p.ID, since)
		if err != nil {
			s.logger.Error("Lỗi đếm booking cho property %s: %v", p.ID, err)
			continue
		}
		amenities := p.Amenities
		if len(amenities) > maxAmenityKeys {
			amenities = amenities[:maxAmenityKeys]
		}
		listings = append(listings, dto.ComparableListing{
			Title:          p.Title,
			City:           p.City,
			PricePerNight:  p.ListedPrice(),
			Amenities:      amenities,
			RecentBookings: int(count),
		})
	}

	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].RecentBookings > listings[j].RecentBookings
	})
	if len(listings) > maxTopPerformers {
		listings = listings[:maxTopPerformers]
	}
	return listings, nil
}

// GetHostAdvice trả tư vấn portfolio, cache Redis 10 phút theo (host, focus)
func (s *HostService) GetHostAdvice(hostID, focus string) (*dto.HostAdviceResult, error) {
	if err := validator.ValidateFocus(focus, []string{
		constants.AdviceCategoryListingQuality,
		constants.AdviceCategoryPricingStrategy,
		constants.AdviceCategoryGuestExperience,
		constants.AdviceCategoryOccupancyGrowth,
	}); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("host:advice:%s:%s", hostID, focus)
	if s.rdb != nil {
		var cached dto.HostAdviceResult
		found, err := GetFromRedis(context.Background(), s.rdb, cacheKey, &cached)
		if err != nil {
			s.logger.Error("Lỗi đọc cache advice: %v", err)
		}
		if found {
			return &cached, nil
		}
	}

	metrics, props, err := s.AggregateMetrics(hostID)
	if err != nil {
		return nil, err
	}
	comparison, err := s.SampleTopPerformers(hostID, props)
	if err != nil {
		return nil, err
	}

	result := s.buildAdvice(metrics, comparison, focus)
	result.Data.MetricsSnapshot = metrics
	result.Data.ComparisonSample = comparison

	if s.rdb != nil {
		if err := SetToRedis(context.Background(), s.rdb, cacheKey, result, hostAdviceCacheTTL); err != nil {
			s.logger.Error("Lỗi ghi cache advice: %v", err)
		}
	}
	return result, nil
}

// buildAdvice ưu tiên advisory, rẽ sang heuristic khi không có kết quả
func (s *HostService) buildAdvice(metrics *dto.HostMetricsSnapshot, comparison []dto.ComparableListing, focus string) *dto.HostAdviceResult {
	if s.advisory != nil && s.advisory.Available() {
		if payload := s.advisory.HostAdvice(metrics, comparison, focus); payload != nil {
			recs := payload.Recommendations
			if focus != "" {
				recs = filterByCategory(recs, focus)
			}
			return &dto.HostAdviceResult{
				Source: constants.PricingSourceAdvisory,
				Data: dto.HostAdvice{
					Summary:         payload.Summary,
					Recommendations: recs,
					QuickWins:       payload.QuickWins,
				},
			}
		}
	}
	return &dto.HostAdviceResult{
		Source: constants.PricingSourceFallback,
		Data:   fallbackAdvice(metrics, comparison, focus),
	}
}

// Ask là hỏi đáp tự do của host, có transcript theo phiên
func (s *HostService) Ask(hostID, question, sessionID string) (*dto.HostAskResponse, error) {
	if err := validator.ValidateID(hostID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(question) == "" {
		return nil, apperrors.NewAppError(apperrors.ErrCodeRequiredField, "Câu hỏi không được để trống", nil)
	}

	session := sessionID
	if session == "" {
		session = hostID
	}

	if err := s.chats.Append(session, constants.ChatRoleUser, question); err != nil {
		s.logger.Error("Lỗi ghi transcript phiên %s: %v", session, err)
	}

	reply := s.askReply(hostID, question, session)

	if err := s.chats.Append(session, constants.ChatRoleAssistant, reply); err != nil {
		s.logger.Error("Lỗi ghi transcript phiên %s: %v", session, err)
	}
	return &dto.HostAskResponse{Message: reply, SessionID: session}, nil
}

func (s *HostService) askReply(hostID, question, session string) string {
	if s.advisory != nil && s.advisory.Available() {
		metrics, _, err := s.AggregateMetrics(hostID)
		if err != nil {
			s.logger.Error("Lỗi tính metrics cho phiên %s: %v", session, err)
		}
		history, err := s.chats.Recent(session, hostChatHistory)
		if err != nil {
			s.logger.Error("Lỗi đọc transcript phiên %s: %v", session, err)
		}
		var lines []string
		for _, h := range history {
			lines = append(lines, h.Role+": "+h.Message)
		}
		histBlock := "(no previous messages)"
		if len(lines) > 0 {
			histBlock = strings.Join(lines, "\n")
		}
		metricsBlock := "(metrics unavailable)"
		if metrics != nil {
			metricsBlock = fmt.Sprintf("properties=%d avgPrice=%.2f bookings90d=%d nights90d=%d",
				metrics.PropertyCount, metrics.AvgPrice, metrics.TotalBookings, metrics.TotalNights)
		}
		systemPrompt := "You are a hosting performance coach for short-term rental hosts. Answer concisely and practically, grounded in the host's portfolio metrics."
		userPrompt := fmt.Sprintf("Portfolio: %s\nHistory:\n%s\n\nHost question: %s", metricsBlock, histBlock, question)
		if reply, err := s.advisory.Reply(systemPrompt, userPrompt); err == nil {
			return reply
		}
	}
	return fallbackHostChat(question)
}

// ---------- Heuristic fallback ---------- //

// fallbackAdvice sinh tư vấn tất định từ metrics và mẫu so sánh
func fallbackAdvice(metrics *dto.HostMetricsSnapshot, comparison []dto.ComparableListing, focus string) dto.HostAdvice {
	missing := missingPopularAmenities(metrics, comparison)
	if len(missing) > 5 {
		missing = missing[:5]
	}

	recs := []dto.Recommendation{
		{
			Category: constants.AdviceCategoryListingQuality,
			Advice:   listingQualityAdvice(missing),
			Priority: constants.AdvicePriorityHigh,
		},
		{
			Category: constants.AdviceCategoryPricingStrategy,
			Advice:   pricingStrategyAdvice(metrics, comparison),
			Priority: constants.AdvicePriorityMedium,
		},
		{
			Category: constants.AdviceCategoryGuestExperience,
			Advice:   "Respond to guest messages within an hour and leave a short welcome note with house tips.",
			Priority: constants.AdvicePriorityMedium,
		},
		{
			Category: constants.AdviceCategoryOccupancyGrowth,
			Advice:   occupancyGrowthAdvice(metrics),
			Priority: constants.AdvicePriorityHigh,
		},
	}
	if focus != "" {
		recs = filterByCategory(recs, focus)
	}

	var quickWins []string
	for i, r := range recs {
		if i >= 3 {
			break
		}
		quickWins = append(quickWins, r.Advice)
	}

	return dto.HostAdvice{
		Summary:         "Heuristic advice generated without AI model.",
		Recommendations: recs,
		QuickWins:       quickWins,
	}
}

func listingQualityAdvice(missing []string) string {
	if len(missing) == 0 {
		return "Refresh listing photos and lead with your most booked amenities in the title."
	}
	return "Popular amenities nearby that your listings lack: " + strings.Join(missing, ", ") + ". Adding them tends to lift conversion."
}

func pricingStrategyAdvice(metrics *dto.HostMetricsSnapshot, comparison []dto.ComparableListing) string {
	var sum float64
	var n int
	for _, c := range comparison {
		if c.PricePerNight > 0 {
			sum += c.PricePerNight
			n++
		}
	}
	if n == 0 || metrics.AvgPrice == 0 {
		return "Enable dynamic pricing suggestions so nightly rates track seasonal demand."
	}
	avg := sum / float64(n)
	if metrics.AvgPrice > avg*1.15 {
		return fmt.Sprintf("Your average price $%.2f sits well above the local top-performer average $%.2f. Consider targeted midweek discounts.", metrics.AvgPrice, avg)
	}
	if metrics.AvgPrice < avg*0.85 {
		return fmt.Sprintf("Your average price $%.2f is below the local top-performer average $%.2f. There is likely headroom to raise rates.", metrics.AvgPrice, avg)
	}
	return "Your pricing is in line with top local performers. Fine-tune with seasonal adjustments."
}

func occupancyGrowthAdvice(metrics *dto.HostMetricsSnapshot) string {
	if metrics.TotalBookings == 0 {
		return "No confirmed bookings in the last 90 days. Review minimum-stay rules and open up near-term availability."
	}
	return fmt.Sprintf("You had %d confirmed bookings (%d nights) in the last 90 days. Open your calendar further out to capture early planners.",
		metrics.TotalBookings, metrics.TotalNights)
}

// missingPopularAmenities đếm amenity phổ biến trong mẫu so sánh mà
// portfolio của host chưa có, xếp theo độ phổ biến giảm dần
func missingPopularAmenities(metrics *dto.HostMetricsSnapshot, comparison []dto.ComparableListing) []string {
	freq := map[string]int{}
	for _, c := range comparison {
		for _, amenity := range c.Amenities {
			key := strings.ToLower(strings.TrimSpace(amenity))
			if key == "" {
				continue
			}
			if metrics.AmenitiesFreq[key] == 0 {
				freq[key]++
			}
		}
	}
	var keys []string
	for k := range freq {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func filterByCategory(recs []dto.Recommendation, focus string) []dto.Recommendation {
	var out []dto.Recommendation
	for _, r := range recs {
		if r.Category == focus {
			out = append(out, r)
		}
	}
	return out
}

// fallbackHostChat trả lời theo từ khóa khi không có advisory
func fallbackHostChat(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "price") || strings.Contains(q, "pricing"):
		return "Use the pricing suggestion endpoint per property to get a market-aware nightly rate, then review the price history to see the trend."
	case strings.Contains(q, "amenit"):
		return "Check the advice endpoint: it compares your amenities against top local performers and lists the popular ones you are missing."
	case strings.Contains(q, "occupancy") || strings.Contains(q, "booking"):
		return "Your 90-day booking metrics are available on the metrics endpoint. Opening more near-term availability is the fastest occupancy lever."
	default:
		return "I can help with pricing, amenities, and occupancy for your portfolio. Ask about one of those, or request the full advice report."
	}
}

// bookingNights tính lại số đêm từ ngày, không tin cột nights đã lưu.
// Sàn 0 để một dòng dữ liệu hỏng (end trước start) không làm âm thống kê.
func bookingNights(start, end time.Time) int {
	nights := int(end.Sub(start).Hours() / 24)
	if nights < 0 {
		return 0
	}
	return nights
}

// normalizeCity khử dấu + lowercase để so khớp city giữa các listing
func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(city)))
}
