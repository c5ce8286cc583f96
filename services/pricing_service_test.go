package services

import (
	"testing"
	"time"

	"stayhub/constants"
	apperrors "stayhub/errors"
	"stayhub/models"
)

func julyClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC)
	}
}

func newPricingFixture(props ...*models.Property) (*PricingService, *memHistoryRepo) {
	propertyRepo := &memPropertyRepo{props: props}
	historyRepo := &memHistoryRepo{}
	svc := NewPricingService(PricingServiceOptions{
		Properties: propertyRepo,
		History:    historyRepo,
	})
	svc.now = julyClock()
	return svc, historyRepo
}

func TestSuggestPriceFallback(t *testing.T) {
	prop := &models.Property{
		ID:    "64a000000000000000000001",
		Title: "Harbor Loft",
		City:  "Lisbon",
		Rooms: roomsJSON(
			`{"type":"bedroom","count":1,"details":{"bedType":"queen"}}`,
			`{"type":"bathroom","count":1,"details":{"hasBathtub":false}}`,
		),
		PricePerNight: 150,
	}
	svc, history := newPricingFixture(prop)

	suggestion, err := svc.SuggestPrice(prop.ID)
	if err != nil {
		t.Fatalf("SuggestPrice lỗi: %v", err)
	}

	if suggestion.Source != constants.PricingSourceFallback {
		t.Errorf("source = %q, muốn %q", suggestion.Source, constants.PricingSourceFallback)
	}
	// base 100 + 50 bedroom + 20 queen + 30 bathroom = 200, tháng 7 hè ×1.2,
	// không có comparable nên market = 1.0
	if suggestion.SuggestedPrice != 240.00 {
		t.Errorf("suggestedPrice = %.2f, muốn 240.00", suggestion.SuggestedPrice)
	}
	if suggestion.Analysis == nil {
		t.Fatal("fallback phải kèm analysis")
	}
	if suggestion.Analysis.BasePrice != 200 {
		t.Errorf("basePrice = %.2f, muốn 200", suggestion.Analysis.BasePrice)
	}
	if suggestion.Analysis.SeasonalFactor != 1.2 {
		t.Errorf("seasonalFactor = %.2f, muốn 1.2", suggestion.Analysis.SeasonalFactor)
	}
	if len(suggestion.Factors) != 3 {
		t.Errorf("factors = %v, muốn 3 phần tử", suggestion.Factors)
	}

	if len(history.entries) != 1 {
		t.Fatalf("price history có %d dòng, muốn 1", len(history.entries))
	}
	entry := history.entries[0]
	if entry.NewPrice != 240.00 || !entry.SuggestedByAI {
		t.Errorf("history entry = %+v không đúng", entry)
	}
}

func TestSuggestPriceNotFound(t *testing.T) {
	svc, _ := newPricingFixture()

	_, err := svc.SuggestPrice("64a0000000000000000000ff")
	if !apperrors.HasCode(err, apperrors.ErrCodePropertyNotFound) {
		t.Errorf("err = %v, muốn PROPERTY_NOT_FOUND", err)
	}
}

func TestSuggestPriceBrokenRoomsStillPrices(t *testing.T) {
	prop := &models.Property{
		ID:            "64a000000000000000000002",
		City:          "Lisbon",
		Rooms:         []byte(`{"not":"an array"`),
		PricePerNight: 90,
	}
	svc, _ := newPricingFixture(prop)

	suggestion, err := svc.SuggestPrice(prop.ID)
	if err != nil {
		t.Fatalf("SuggestPrice lỗi: %v", err)
	}
	// rooms hỏng thì về base mặc định: 100 × 1.2 mùa hè
	if suggestion.SuggestedPrice != 120.00 {
		t.Errorf("suggestedPrice = %.2f, muốn 120.00", suggestion.SuggestedPrice)
	}
}

func TestSeasonalFactor(t *testing.T) {
	cases := []struct {
		month time.Month
		want  float64
	}{
		{time.January, 1.1},
		{time.February, 1.1},
		{time.December, 1.1},
		{time.March, 1.0},
		{time.May, 1.0},
		{time.June, 1.2},
		{time.August, 1.2},
		{time.September, 0.9},
		{time.November, 0.9},
	}
	for _, tc := range cases {
		if got := seasonalFactor(tc.month); got != tc.want {
			t.Errorf("seasonalFactor(%v) = %.2f, muốn %.2f", tc.month, got, tc.want)
		}
	}
}

func TestMarketFactor(t *testing.T) {
	if got := marketFactor(0, 200); got != 1.0 {
		t.Errorf("không có comparable: factor = %.2f, muốn 1.0", got)
	}
	if got := marketFactor(200, 0); got != 1.0 {
		t.Errorf("base 0: factor = %.2f, muốn 1.0", got)
	}
	// avg == base -> 0.8 + 0.4 = 1.2
	if got := marketFactor(200, 200); got != 1.2 {
		t.Errorf("avg==base: factor = %.2f, muốn 1.2", got)
	}
	// avg = nửa base -> 0.8 + 0.2 = 1.0
	if got := marketFactor(100, 200); got != 1.0 {
		t.Errorf("avg=base/2: factor = %.2f, muốn 1.0", got)
	}
}

func TestOccupancyAdjustment(t *testing.T) {
	cases := []struct {
		name  string
		rates []float64
		want  float64
	}{
		{"không có dữ liệu", nil, 1.0},
		{"rất cao", []float64{0.9, 0.85}, 1.15},
		{"cao", []float64{0.7, 0.75}, 1.08},
		{"trung bình", []float64{0.5, 0.6}, 1.00},
		{"thấp", []float64{0.1, 0.2}, 0.9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := occupancyAdjustment(tc.rates); got != tc.want {
				t.Errorf("occupancyAdjustment(%v) = %.2f, muốn %.2f", tc.rates, got, tc.want)
			}
		})
	}
}

func TestCompPrices(t *testing.T) {
	dynamic := 300.0
	comparables := []models.Property{
		{PricePerNight: 100},
		{PricePerNight: 200},
		{PricePerNight: 50, DynamicPrice: &dynamic},
		{PricePerNight: 0}, // giá 0 bị loại
	}

	if got := compAvgPrice(comparables); got != 200.00 {
		t.Errorf("compAvgPrice = %.2f, muốn 200.00", got)
	}
	if got := compMedianPrice(comparables); got != 200.00 {
		t.Errorf("compMedianPrice = %.2f, muốn 200.00", got)
	}
	if got := compAvgPrice(nil); got != 0 {
		t.Errorf("compAvgPrice(nil) = %.2f, muốn 0", got)
	}
}

func TestPriceHistoryGrowsPerSuggestion(t *testing.T) {
	prop := &models.Property{
		ID:            "64a000000000000000000003",
		City:          "Porto",
		PricePerNight: 80,
	}
	svc, _ := newPricingFixture(prop)

	for i := 0; i < 3; i++ {
		if _, err := svc.SuggestPrice(prop.ID); err != nil {
			t.Fatalf("SuggestPrice lần %d lỗi: %v", i+1, err)
		}
	}

	entries, err := svc.PriceHistory(prop.ID, 10)
	if err != nil {
		t.Fatalf("PriceHistory lỗi: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("history có %d dòng, muốn 3 (append-only)", len(entries))
	}
}

func TestRefreshAllPrices(t *testing.T) {
	props := []*models.Property{
		{ID: "64a000000000000000000004", City: "Porto", PricePerNight: 80},
		{ID: "64a000000000000000000005", City: "Porto", PricePerNight: 95},
	}
	svc, history := newPricingFixture(props...)

	refreshed, err := svc.RefreshAllPrices()
	if err != nil {
		t.Fatalf("RefreshAllPrices lỗi: %v", err)
	}
	if refreshed != 2 {
		t.Errorf("refreshed = %d, muốn 2", refreshed)
	}
	if len(history.entries) != 2 {
		t.Errorf("history có %d dòng, muốn 2", len(history.entries))
	}
}
