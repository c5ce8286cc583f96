package models

import (
	"errors"

	"stayhub/constants"
)

// BookingState định nghĩa interface cho các trạng thái booking
type BookingState interface {
	Confirm(booking *Booking) error
	Cancel(booking *Booking) error
}

// QuoteState trạng thái báo giá, chưa giữ lịch
type QuoteState struct{}

func (s *QuoteState) Confirm(booking *Booking) error {
	booking.Status = constants.BookingStatusConfirmed
	return nil
}

func (s *QuoteState) Cancel(booking *Booking) error {
	booking.Status = constants.BookingStatusCancelled
	return nil
}

// PendingState trạng thái dự phòng, chưa có transition nào dùng
type PendingState struct{}

func (s *PendingState) Confirm(booking *Booking) error {
	booking.Status = constants.BookingStatusConfirmed
	return nil
}

func (s *PendingState) Cancel(booking *Booking) error {
	booking.Status = constants.BookingStatusCancelled
	return nil
}

// ConfirmedState trạng thái đã xác nhận, giữ lịch độc quyền
type ConfirmedState struct{}

func (s *ConfirmedState) Confirm(booking *Booking) error {
	return errors.New("booking already confirmed")
}

func (s *ConfirmedState) Cancel(booking *Booking) error {
	booking.Status = constants.BookingStatusCancelled
	return nil
}

// CancelledState trạng thái đã hủy
type CancelledState struct{}

func (s *CancelledState) Confirm(booking *Booking) error {
	return errors.New("cannot confirm cancelled booking")
}

func (s *CancelledState) Cancel(booking *Booking) error {
	return errors.New("booking already cancelled")
}

// GetBookingState trả về state tương ứng với trạng thái booking
func GetBookingState(status string) BookingState {
	switch status {
	case constants.BookingStatusQuote:
		return &QuoteState{}
	case constants.BookingStatusPending:
		return &PendingState{}
	case constants.BookingStatusConfirmed:
		return &ConfirmedState{}
	case constants.BookingStatusCancelled:
		return &CancelledState{}
	default:
		return &QuoteState{}
	}
}
