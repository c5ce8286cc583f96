package services

import (
	"math"
	"sort"
	"time"

	"stayhub/constants"
	"stayhub/dto"
	apperrors "stayhub/errors"
	"stayhub/models"
	"stayhub/repositories"
	"stayhub/services/logger"
)

// Giới hạn comparable đưa vào prompt và số factor trả về
const (
	maxComparables    = 25
	maxPricingFactors = 5
	fallbackBasePrice = 100.0
)

// PricingService tính giá đêm gợi ý: ưu tiên Advisory Service, luôn có
// heuristic fallback tất định
type PricingService struct {
	properties repositories.PropertyRepository
	history    repositories.PriceHistoryRepository
	advisory   *AdvisoryClient
	logger     logger.Logger
	now        func() time.Time
}

// PricingServiceOptions là dependencies tiêm vào khi khởi tạo
type PricingServiceOptions struct {
	Properties repositories.PropertyRepository
	History    repositories.PriceHistoryRepository
	Advisory   *AdvisoryClient
	Logger     logger.Logger
}

// NewPricingService tạo PricingService mới
func NewPricingService(opts PricingServiceOptions) *PricingService {
	lg := opts.Logger
	if lg == nil {
		lg = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &PricingService{
		properties: opts.Properties,
		history:    opts.History,
		advisory:   opts.Advisory,
		logger:     lg,
		now:        time.Now,
	}
}

// SuggestPrice gợi ý giá đêm cho property. Property không tồn tại trả
// NotFound; advisory hỏng thì âm thầm rẽ sang heuristic, không bao giờ
// nổi lỗi upstream ra caller.
func (s *PricingService) SuggestPrice(propertyID string) (*dto.PriceSuggestion, error) {
	prop, err := s.properties.GetByID(propertyID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi truy vấn property", err)
	}
	if prop == nil {
		return nil, apperrors.ErrPropertyNotFound
	}

	comparables, err := s.properties.FindByCity(prop.City, prop.ID, maxComparables)
	if err != nil {
		s.logger.Error("Lỗi truy vấn comparables cho property %s: %v", prop.ID, err)
		comparables = nil
	}

	if s.advisory != nil && s.advisory.Available() {
		advice := s.advisory.SuggestPrice(AdvisoryPricingContext{
			Title:           prop.Title,
			City:            prop.City,
			Country:         prop.Country,
			Amenities:       prop.Amenities,
			CurrentPrice:    prop.ListedPrice(),
			AvgCompPrice:    compAvgPrice(comparables),
			MedianCompPrice: compMedianPrice(comparables),
			OccupancyFactor: occupancyAdjustment(nil),
		})
		if advice != nil {
			factors := advice.Factors
			if len(factors) > maxPricingFactors {
				factors = factors[:maxPricingFactors]
			}
			suggested := round2(advice.SuggestedPrice)
			if err := s.savePriceHistory(prop, suggested, "Advisory model pricing: "+advice.Reasoning); err != nil {
				return nil, err
			}
			return &dto.PriceSuggestion{
				Source:         constants.PricingSourceAdvisory,
				SuggestedPrice: suggested,
				Currency:       "USD",
				Reasoning:      advice.Reasoning,
				Factors:        factors,
			}, nil
		}
	}

	return s.fallbackPrice(prop, comparables)
}

// fallbackPrice là heuristic tất định: base theo cơ cấu phòng × hệ số mùa
// × hệ số thị trường
func (s *PricingService) fallbackPrice(prop *models.Property, comparables []models.Property) (*dto.PriceSuggestion, error) {
	rooms, err := prop.ParseRooms()
	if err != nil {
		// Dữ liệu phòng hỏng không được chặn việc báo giá
		s.logger.Error("Không parse được rooms của property %s: %v", prop.ID, err)
		rooms = nil
	}

	base := calculateBasePrice(rooms)
	seasonal := seasonalFactor(s.now().Month())
	market := marketFactor(compAvgPrice(comparables), base)
	suggested := round2(base * seasonal * market)

	if err := s.savePriceHistory(prop, suggested, "Fallback pricing calculation (advisory unavailable)"); err != nil {
		return nil, err
	}

	return &dto.PriceSuggestion{
		Source:         constants.PricingSourceFallback,
		SuggestedPrice: suggested,
		Currency:       "USD",
		Factors: []string{
			"base_property_features",
			"seasonal_demand",
			"local_market_trends",
		},
		Analysis: &dto.FallbackAnalysis{
			Method:         constants.PricingSourceFallback,
			BasePrice:      base,
			SeasonalFactor: seasonal,
			MarketFactor:   market,
		},
	}, nil
}

// savePriceHistory ghi một dòng audit cho mỗi lần tính giá, bất kể nguồn
func (s *PricingService) savePriceHistory(prop *models.Property, newPrice float64, reason string) error {
	entry := &models.PriceHistory{
		PropertyID:    prop.ID,
		OldPrice:      prop.ListedPrice(),
		NewPrice:      newPrice,
		SuggestedByAI: true,
		Reason:        reason,
	}
	if err := s.history.Create(entry); err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi ghi price history", err)
	}
	return nil
}

// PriceHistory trả về các lần tính giá gần nhất của property
func (s *PricingService) PriceHistory(propertyID string, limit int) ([]models.PriceHistory, error) {
	prop, err := s.properties.GetByID(propertyID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi truy vấn property", err)
	}
	if prop == nil {
		return nil, apperrors.ErrPropertyNotFound
	}
	return s.history.FindRecent(propertyID, limit)
}

// RefreshAllPrices tính lại giá gợi ý cho toàn bộ property (cron hằng đêm)
func (s *PricingService) RefreshAllPrices() (int, error) {
	props, err := s.properties.FindAll(0)
	if err != nil {
		return 0, err
	}
	refreshed := 0
	for _, p := range props {
		if _, err := s.SuggestPrice(p.ID); err != nil {
			s.logger.Error("Refresh giá property %s thất bại: %v", p.ID, err)
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// ---------- Các hàm thuần của heuristic ---------- //

// calculateBasePrice cộng dồn giá cơ bản theo cơ cấu phòng
func calculateBasePrice(rooms []models.RoomInfo) float64 {
	base := fallbackBasePrice
	for _, room := range rooms {
		switch room.Type {
		case constants.RoomTypeBedroom:
			base += float64(room.Count) * 50
			if bedType, ok := room.Details["bedType"].(string); ok && bedType == "queen" {
				base += 20
			}
		case constants.RoomTypeBathroom:
			base += float64(room.Count) * 30
			if hasBathtub, ok := room.Details["hasBathtub"].(bool); ok && hasBathtub {
				base += 15
			}
		case constants.RoomTypeKitchen:
			if appliances, ok := room.Details["appliances"].([]interface{}); ok {
				base += float64(len(appliances)) * 5
			}
		}
	}
	return base
}

// seasonalFactor theo mùa khí tượng của tháng hiện tại
func seasonalFactor(month time.Month) float64 {
	switch month {
	case time.December, time.January, time.February:
		return 1.1 // winter
	case time.March, time.April, time.May:
		return 1.0 // spring
	case time.June, time.July, time.August:
		return 1.2 // summer
	default:
		return 0.9 // fall
	}
}

// marketFactor kéo giá về phía trung bình thị trường nhưng vẫn giữ
// pricing power; không có comparable thì trung lập
func marketFactor(avgComparablePrice, basePrice float64) float64 {
	if avgComparablePrice == 0 || basePrice == 0 {
		return 1.0
	}
	return 0.8 + 0.4*(avgComparablePrice/basePrice)
}

// occupancyAdjustment quy tỷ lệ lấp đầy gần đây về một hệ số giá
func occupancyAdjustment(occupancyRates []float64) float64 {
	if len(occupancyRates) == 0 {
		return 1.0
	}
	var sum float64
	for _, r := range occupancyRates {
		sum += r
	}
	avg := sum / float64(len(occupancyRates))
	switch {
	case avg >= 0.85:
		return 1.15
	case avg >= 0.70:
		return 1.08
	case avg >= 0.50:
		return 1.00
	default:
		return 0.9
	}
}

func compAvgPrice(comparables []models.Property) float64 {
	var sum float64
	var n int
	for _, c := range comparables {
		if price := c.ListedPrice(); price > 0 {
			sum += price
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round2(sum / float64(n))
}

func compMedianPrice(comparables []models.Property) float64 {
	var prices []float64
	for _, c := range comparables {
		if price := c.ListedPrice(); price > 0 {
			prices = append(prices, price)
		}
	}
	if len(prices) == 0 {
		return 0
	}
	sort.Float64s(prices)
	mid := len(prices) / 2
	if len(prices)%2 == 0 {
		return round2((prices[mid-1] + prices[mid]) / 2)
	}
	return prices[mid]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
