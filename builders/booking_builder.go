package builders

import (
	"time"

	"stayhub/constants"
	"stayhub/models"
)

// BookingBuilder giúp tạo booking theo từng bước
type BookingBuilder struct {
	booking *models.Booking
}

// NewBookingBuilder tạo instance mới của BookingBuilder
func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		booking: &models.Booking{Status: constants.BookingStatusQuote},
	}
}

// WithProperty thêm property
func (b *BookingBuilder) WithProperty(propertyID string) *BookingBuilder {
	b.booking.PropertyID = propertyID
	return b
}

// WithGuest thêm guest (có thể rỗng)
func (b *BookingBuilder) WithGuest(guestID string) *BookingBuilder {
	if guestID != "" {
		b.booking.GuestID = &guestID
	}
	return b
}

// WithDates thêm khoảng ngày và số đêm
func (b *BookingBuilder) WithDates(start, end time.Time, nights int) *BookingBuilder {
	b.booking.StartDate = start
	b.booking.EndDate = end
	b.booking.Nights = nights
	return b
}

// WithPricing thêm giá đêm, tổng giá và nguồn tính giá
func (b *BookingBuilder) WithPricing(nightly, total float64, source string) *BookingBuilder {
	b.booking.NightlyPrice = nightly
	b.booking.TotalPrice = total
	b.booking.PricingSource = source
	return b
}

// WithStatus ghi đè trạng thái
func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.booking.Status = status
	return b
}

// Build tạo booking hoàn chỉnh
func (b *BookingBuilder) Build() *models.Booking {
	return b.booking
}
