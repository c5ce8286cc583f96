package services

import (
	"strings"
	"testing"

	"stayhub/constants"
	"stayhub/dto"
	apperrors "stayhub/errors"
	"stayhub/models"
)

type bookingFixture struct {
	svc      *BookingService
	bookings *memBookingRepo
	chats    *memChatRepo
}

func newBookingFixture(props ...*models.Property) *bookingFixture {
	propertyRepo := &memPropertyRepo{props: props}
	bookingRepo := &memBookingRepo{}
	historyRepo := &memHistoryRepo{}
	chatRepo := &memChatRepo{}

	pricing := NewPricingService(PricingServiceOptions{
		Properties: propertyRepo,
		History:    historyRepo,
	})
	pricing.now = julyClock()

	svc := NewBookingService(BookingServiceOptions{
		Bookings:   bookingRepo,
		Properties: propertyRepo,
		Chats:      chatRepo,
		Pricing:    pricing,
	})
	return &bookingFixture{svc: svc, bookings: bookingRepo, chats: chatRepo}
}

func lisbonLoft() *models.Property {
	return &models.Property{
		ID:    "64b000000000000000000001",
		Title: "Harbor Loft",
		City:  "Lisbon",
		Rooms: roomsJSON(
			`{"type":"bedroom","count":1,"details":{"bedType":"queen"}}`,
			`{"type":"bathroom","count":1,"details":{"hasBathtub":false}}`,
		),
		Amenities:     []string{"wifi", "kitchen"},
		PricePerNight: 150,
	}
}

func TestCreateQuote(t *testing.T) {
	f := newBookingFixture(lisbonLoft())

	result, err := f.svc.CreateQuote(dto.QuoteRequest{
		PropertyID: "64b000000000000000000001",
		StartDate:  "2024-01-15",
		EndDate:    "2024-01-18",
	})
	if err != nil {
		t.Fatalf("CreateQuote lỗi: %v", err)
	}

	if result.Status != constants.BookingStatusQuote {
		t.Errorf("status = %q, muốn quote", result.Status)
	}
	if result.Nights != 3 {
		t.Errorf("nights = %d, muốn 3", result.Nights)
	}
	// giá tháng 7: 200 × 1.2 = 240, tổng 3 đêm = 720
	if result.NightlyPrice != 240.00 {
		t.Errorf("nightlyPrice = %.2f, muốn 240.00", result.NightlyPrice)
	}
	if result.TotalPrice != 720.00 {
		t.Errorf("totalPrice = %.2f, muốn 720.00", result.TotalPrice)
	}
	if result.PricingSource != constants.PricingSourceFallback {
		t.Errorf("pricingSource = %q, muốn fallback", result.PricingSource)
	}
	if !strings.Contains(result.Message, "Harbor Loft") {
		t.Errorf("message %q phải nhắc tên property", result.Message)
	}
	if f.chats.countByRole(result.BookingID, constants.ChatRoleAssistant) != 1 {
		t.Error("quote phải mở transcript bằng một message assistant")
	}
}

func TestCreateQuoteValidation(t *testing.T) {
	f := newBookingFixture(lisbonLoft())

	cases := []struct {
		name string
		req  dto.QuoteRequest
		code apperrors.ErrorCode
	}{
		{
			"ID sai định dạng",
			dto.QuoteRequest{PropertyID: "not-hex", StartDate: "2024-01-15", EndDate: "2024-01-18"},
			apperrors.ErrCodeInvalidID,
		},
		{
			"ngày sai định dạng",
			dto.QuoteRequest{PropertyID: "64b000000000000000000001", StartDate: "15/01/2024", EndDate: "2024-01-18"},
			apperrors.ErrCodeInvalidDate,
		},
		{
			"ngày đảo ngược",
			dto.QuoteRequest{PropertyID: "64b000000000000000000001", StartDate: "2024-01-18", EndDate: "2024-01-15"},
			apperrors.ErrCodeInvalidInput,
		},
		{
			"property không tồn tại",
			dto.QuoteRequest{PropertyID: "64b0000000000000000000ff", StartDate: "2024-01-15", EndDate: "2024-01-18"},
			apperrors.ErrCodePropertyNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateQuote(tc.req)
			if !apperrors.HasCode(err, tc.code) {
				t.Errorf("err = %v, muốn code %s", err, tc.code)
			}
		})
	}
}

func TestAvailabilityHalfOpenInterval(t *testing.T) {
	f := newBookingFixture(lisbonLoft())
	f.bookings.Create(&models.Booking{
		PropertyID: "64b000000000000000000001",
		StartDate:  mustDate("2024-01-10"),
		EndDate:    mustDate("2024-01-15"),
		Status:     constants.BookingStatusConfirmed,
	})

	// back-to-back: checkout ngày 15, checkin ngày 15 là hợp lệ
	available, err := f.svc.IsAvailable("64b000000000000000000001", mustDate("2024-01-15"), mustDate("2024-01-20"), "")
	if err != nil {
		t.Fatalf("IsAvailable lỗi: %v", err)
	}
	if !available {
		t.Error("back-to-back booking phải được coi là trống")
	}

	// chồng một đêm
	available, err = f.svc.IsAvailable("64b000000000000000000001", mustDate("2024-01-14"), mustDate("2024-01-20"), "")
	if err != nil {
		t.Fatalf("IsAvailable lỗi: %v", err)
	}
	if available {
		t.Error("khoảng chồng lịch phải bị coi là bận")
	}
}

func TestQuoteOverlappingConfirmedRejected(t *testing.T) {
	f := newBookingFixture(lisbonLoft())
	f.bookings.Create(&models.Booking{
		PropertyID: "64b000000000000000000001",
		StartDate:  mustDate("2024-01-10"),
		EndDate:    mustDate("2024-01-15"),
		Status:     constants.BookingStatusConfirmed,
	})

	_, err := f.svc.CreateQuote(dto.QuoteRequest{
		PropertyID: "64b000000000000000000001",
		StartDate:  "2024-01-12",
		EndDate:    "2024-01-16",
	})
	if !apperrors.HasCode(err, apperrors.ErrCodeConflict) {
		t.Errorf("err = %v, muốn CONFLICT", err)
	}
}

func TestConfirmLifecycle(t *testing.T) {
	f := newBookingFixture(lisbonLoft())

	quote, err := f.svc.CreateQuote(dto.QuoteRequest{
		PropertyID: "64b000000000000000000001",
		StartDate:  "2024-01-15",
		EndDate:    "2024-01-18",
	})
	if err != nil {
		t.Fatalf("CreateQuote lỗi: %v", err)
	}

	message, err := f.svc.Confirm(quote.BookingID)
	if err != nil {
		t.Fatalf("Confirm lỗi: %v", err)
	}
	if !strings.Contains(message, "confirmed") {
		t.Errorf("message = %q phải báo đã confirmed", message)
	}

	booking, err := f.svc.GetBooking(quote.BookingID)
	if err != nil {
		t.Fatalf("GetBooking lỗi: %v", err)
	}
	if booking.Status != constants.BookingStatusConfirmed {
		t.Errorf("status = %q, muốn confirmed", booking.Status)
	}

	// confirm lần hai phải bị từ chối
	_, err = f.svc.Confirm(quote.BookingID)
	if !apperrors.HasCode(err, apperrors.ErrCodeAlreadyConfirmed) {
		t.Errorf("confirm lần hai: err = %v, muốn ALREADY_CONFIRMED", err)
	}
}

func TestTwoOverlappingQuotesOnlyOneConfirms(t *testing.T) {
	f := newBookingFixture(lisbonLoft())

	first, err := f.svc.CreateQuote(dto.QuoteRequest{
		PropertyID: "64b000000000000000000001",
		StartDate:  "2024-01-15",
		EndDate:    "2024-01-18",
	})
	if err != nil {
		t.Fatalf("quote 1 lỗi: %v", err)
	}
	second, err := f.svc.CreateQuote(dto.QuoteRequest{
		PropertyID: "64b000000000000000000001",
		StartDate:  "2024-01-16",
		EndDate:    "2024-01-19",
	})
	if err != nil {
		t.Fatalf("quote 2 lỗi: %v", err)
	}

	if _, err := f.svc.Confirm(first.BookingID); err != nil {
		t.Fatalf("confirm quote 1 lỗi: %v", err)
	}
	_, err = f.svc.Confirm(second.BookingID)
	if !apperrors.HasCode(err, apperrors.ErrCodeConflict) {
		t.Errorf("confirm quote 2: err = %v, muốn CONFLICT", err)
	}
}

func TestCancel(t *testing.T) {
	f := newBookingFixture(lisbonLoft())

	quote, err := f.svc.CreateQuote(dto.QuoteRequest{
		PropertyID: "64b000000000000000000001",
		StartDate:  "2024-01-15",
		EndDate:    "2024-01-18",
	})
	if err != nil {
		t.Fatalf("CreateQuote lỗi: %v", err)
	}

	if err := f.svc.Cancel(quote.BookingID); err != nil {
		t.Fatalf("Cancel lỗi: %v", err)
	}
	booking, _ := f.svc.GetBooking(quote.BookingID)
	if booking.Status != constants.BookingStatusCancelled {
		t.Errorf("status = %q, muốn cancelled", booking.Status)
	}

	// booking đã hủy không confirm được nữa
	_, err = f.svc.Confirm(quote.BookingID)
	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidStatus) {
		t.Errorf("confirm sau cancel: err = %v, muốn INVALID_STATUS", err)
	}
	// hủy lần hai cũng bị từ chối
	if err := f.svc.Cancel(quote.BookingID); !apperrors.HasCode(err, apperrors.ErrCodeInvalidStatus) {
		t.Errorf("cancel lần hai: err = %v, muốn INVALID_STATUS", err)
	}
}

func TestChatFallback(t *testing.T) {
	f := newBookingFixture(lisbonLoft())

	quote, err := f.svc.CreateQuote(dto.QuoteRequest{
		PropertyID: "64b000000000000000000001",
		StartDate:  "2024-01-15",
		EndDate:    "2024-01-18",
	})
	if err != nil {
		t.Fatalf("CreateQuote lỗi: %v", err)
	}

	reply, err := f.svc.Chat(quote.BookingID, "I want to confirm this stay")
	if err != nil {
		t.Fatalf("Chat lỗi: %v", err)
	}
	if !strings.Contains(strings.ToLower(reply), "confirm") {
		t.Errorf("reply = %q phải hướng dẫn confirm", reply)
	}

	transcript, err := f.svc.Transcript(quote.BookingID, 10)
	if err != nil {
		t.Fatalf("Transcript lỗi: %v", err)
	}
	// quote message + câu hỏi user + câu trả lời assistant
	if len(transcript) != 3 {
		t.Errorf("transcript có %d message, muốn 3", len(transcript))
	}

	_, err = f.svc.Chat("64b0000000000000000000ff", "hello")
	if !apperrors.HasCode(err, apperrors.ErrCodeBookingNotFound) {
		t.Errorf("chat với booking lạ: err = %v, muốn BOOKING_NOT_FOUND", err)
	}
}

func TestEmptyCalendarAlwaysAvailable(t *testing.T) {
	f := newBookingFixture(lisbonLoft())

	result, err := f.svc.CheckAvailability("64b000000000000000000001", "2024-06-01", "2024-06-10", "")
	if err != nil {
		t.Fatalf("CheckAvailability lỗi: %v", err)
	}
	if !result.Available {
		t.Error("lịch trống phải luôn available")
	}
	if result.Nights != 9 {
		t.Errorf("nights = %d, muốn 9", result.Nights)
	}
}
