package services

import (
	"encoding/json"
	"testing"

	"stayhub/models"
)

func newDispatcherFixture(t *testing.T) (*ChatDispatcher, *bookingFixture) {
	t.Helper()
	prop := lisbonLoft()
	propertyRepo := &memPropertyRepo{props: []*models.Property{prop}}
	bookingRepo := &memBookingRepo{}
	historyRepo := &memHistoryRepo{}
	chatRepo := &memChatRepo{}

	pricing := NewPricingService(PricingServiceOptions{
		Properties: propertyRepo,
		History:    historyRepo,
	})
	pricing.now = julyClock()

	bookingSvc := NewBookingService(BookingServiceOptions{
		Bookings:   bookingRepo,
		Properties: propertyRepo,
		Chats:      chatRepo,
		Pricing:    pricing,
	})
	hostSvc := NewHostService(HostServiceOptions{
		Properties: propertyRepo,
		Bookings:   bookingRepo,
		Chats:      chatRepo,
	})

	dispatcher := NewChatDispatcher(bookingSvc, hostSvc, nil)
	return dispatcher, &bookingFixture{svc: bookingSvc, bookings: bookingRepo, chats: chatRepo}
}

func TestResolveOpFuzzy(t *testing.T) {
	dispatcher, _ := newDispatcherFixture(t)

	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"confirm", OpConfirm, true},
		{"CONFIRM", OpConfirm, true},
		{"confim", OpConfirm, true},   // thiếu một ký tự
		{"qoute", OpQuote, true},      // đảo ký tự
		{"availab", "", false},        // cách quá 2 ký tự
		{"frobnicate", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := dispatcher.ResolveOp(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ResolveOp(%q) = (%q, %v), muốn (%q, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDispatchHelp(t *testing.T) {
	dispatcher, _ := newDispatcherFixture(t)

	raw := dispatcher.Dispatch([]byte(`{"op": "help"}`))
	var reply wsReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		t.Fatalf("reply không phải JSON: %v", err)
	}
	if !reply.OK || reply.Op != OpHelp {
		t.Errorf("reply = %+v, muốn ok với op=help", reply)
	}
}

func TestDispatchQuoteAndConfirm(t *testing.T) {
	dispatcher, f := newDispatcherFixture(t)

	raw := dispatcher.Dispatch([]byte(`{"op": "quote", "payload": {"propertyId": "64b000000000000000000001", "startDate": "2024-01-15", "endDate": "2024-01-18"}}`))
	var reply struct {
		OK   bool `json:"ok"`
		Data struct {
			BookingID  string  `json:"bookingId"`
			TotalPrice float64 `json:"totalPrice"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		t.Fatalf("reply không phải JSON: %v", err)
	}
	if !reply.OK {
		t.Fatalf("quote qua ws thất bại: %s", raw)
	}
	if reply.Data.TotalPrice != 720.00 {
		t.Errorf("totalPrice = %.2f, muốn 720.00", reply.Data.TotalPrice)
	}

	// op gõ sai vẫn được dispatch nhờ fuzzy match
	confirmMsg := `{"op": "confim", "payload": {"bookingId": "` + reply.Data.BookingID + `"}}`
	raw = dispatcher.Dispatch([]byte(confirmMsg))
	var confirmReply wsReply
	if err := json.Unmarshal(raw, &confirmReply); err != nil {
		t.Fatalf("reply không phải JSON: %v", err)
	}
	if !confirmReply.OK || confirmReply.Op != OpConfirm {
		t.Fatalf("confirm qua ws thất bại: %s", raw)
	}

	booking, err := f.svc.GetBooking(reply.Data.BookingID)
	if err != nil {
		t.Fatalf("GetBooking lỗi: %v", err)
	}
	if !booking.IsConfirmed() {
		t.Errorf("status = %q, muốn confirmed", booking.Status)
	}
}

func TestDispatchErrors(t *testing.T) {
	dispatcher, _ := newDispatcherFixture(t)

	t.Run("không phải JSON", func(t *testing.T) {
		var reply wsReply
		json.Unmarshal(dispatcher.Dispatch([]byte("not json")), &reply)
		if reply.OK || reply.Error == "" {
			t.Errorf("reply = %+v, muốn lỗi", reply)
		}
	})

	t.Run("op lạ", func(t *testing.T) {
		var reply wsReply
		json.Unmarshal(dispatcher.Dispatch([]byte(`{"op": "frobnicate"}`)), &reply)
		if reply.OK || reply.Error == "" {
			t.Errorf("reply = %+v, muốn lỗi lệnh không hỗ trợ", reply)
		}
	})

	t.Run("lỗi nghiệp vụ giữ message của AppError", func(t *testing.T) {
		var reply wsReply
		json.Unmarshal(dispatcher.Dispatch([]byte(`{"op": "confirm", "payload": {"bookingId": "64b0000000000000000000ff"}}`)), &reply)
		if reply.OK {
			t.Fatalf("reply = %+v, muốn lỗi", reply)
		}
		if reply.Error != "Booking not found" {
			t.Errorf("error = %q, muốn message của AppError", reply.Error)
		}
	})
}
