package validator

import (
	"time"

	"stayhub/errors"
	"stayhub/models"
)

const dateLayout = "2006-01-02"

// ValidateID kiểm tra định danh 24-hex
func ValidateID(id string) error {
	if id == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "ID không được để trống", nil)
	}
	if !models.IsValidID(id) {
		return errors.NewAppError(errors.ErrCodeInvalidID, "ID không đúng định dạng 24 ký tự hex", nil)
	}
	return nil
}

// ParseDateRange parse và kiểm tra khoảng ngày YYYY-MM-DD, end phải sau start
func ParseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.ErrInvalidDateFormat
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.ErrInvalidDateFormat
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, errors.ErrInvalidDateRange
	}
	return start, end, nil
}

// ValidateProperty kiểm tra property trước khi lưu
func ValidateProperty(p *models.Property) error {
	if p.Title == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Tiêu đề không được để trống", nil)
	}
	if p.City == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Thành phố không được để trống", nil)
	}
	if p.PricePerNight < 0 {
		return errors.NewAppError(errors.ErrCodeInvalidInput, "Giá mỗi đêm không được âm", nil)
	}
	if err := p.ValidateRooms(); err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidInput, "Danh sách phòng không hợp lệ", err)
	}
	return nil
}

// ValidateFocus kiểm tra focus filter của host advice (rỗng là hợp lệ)
func ValidateFocus(focus string, categories []string) error {
	if focus == "" {
		return nil
	}
	for _, cat := range categories {
		if focus == cat {
			return nil
		}
	}
	return errors.NewAppError(errors.ErrCodeInvalidInput, "Focus không hợp lệ: "+focus, nil)
}
