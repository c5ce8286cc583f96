package errors

import (
	"errors"
	"fmt"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Validation errors
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidID     ErrorCode = "INVALID_ID"
	ErrCodeInvalidDate   ErrorCode = "INVALID_DATE"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"

	// Lookup errors
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodePropertyNotFound ErrorCode = "PROPERTY_NOT_FOUND"
	ErrCodeBookingNotFound  ErrorCode = "BOOKING_NOT_FOUND"
	ErrCodeHostNotFound     ErrorCode = "HOST_NOT_FOUND"

	// Booking lifecycle errors
	ErrCodeConflict         ErrorCode = "CONFLICT"
	ErrCodeAlreadyConfirmed ErrorCode = "ALREADY_CONFIRMED"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"

	// Upstream/advisory errors (luôn được nuốt, không trả ra caller)
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"

	// Auth errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeInvalidRole  ErrorCode = "INVALID_ROLE"

	// Database errors
	ErrCodeDBError ErrorCode = "DB_ERROR"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode kiểm tra error có mang ErrorCode chỉ định không
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

var (
	// Property errors
	ErrPropertyNotFound = NewAppError(ErrCodePropertyNotFound, "Property not found", nil)

	// Booking errors
	ErrBookingNotFound  = NewAppError(ErrCodeBookingNotFound, "Booking not found", nil)
	ErrAlreadyConfirmed = NewAppError(ErrCodeAlreadyConfirmed, "Already confirmed", nil)
	ErrDatesUnavailable = NewAppError(ErrCodeConflict, "Dates no longer available", nil)
	ErrNotAvailable     = NewAppError(ErrCodeConflict, "Property not available for selected dates", nil)

	// Host errors
	ErrHostNoProperties = NewAppError(ErrCodeHostNotFound, "Host has no properties", nil)

	// Validation errors
	ErrInvalidDateFormat = NewAppError(ErrCodeInvalidDate, "Invalid date format. Use YYYY-MM-DD.", nil)
	ErrInvalidDateRange  = NewAppError(ErrCodeInvalidInput, "End date must be after start date", nil)
)
