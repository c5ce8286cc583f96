package services

import (
	"fmt"
	"strings"
	"time"

	"stayhub/builders"
	"stayhub/constants"
	"stayhub/dto"
	apperrors "stayhub/errors"
	"stayhub/models"
	"stayhub/repositories"
	"stayhub/services/logger"
	"stayhub/validator"
)

const chatHistoryLimit = 10

// BookingService điều phối vòng đời booking: báo giá, hội thoại, xác nhận
type BookingService struct {
	bookings   repositories.BookingRepository
	properties repositories.PropertyRepository
	chats      repositories.ChatRepository
	pricing    *PricingService
	advisory   *AdvisoryClient
	logger     logger.Logger
}

// BookingServiceOptions là dependencies tiêm vào khi khởi tạo
type BookingServiceOptions struct {
	Bookings   repositories.BookingRepository
	Properties repositories.PropertyRepository
	Chats      repositories.ChatRepository
	Pricing    *PricingService
	Advisory   *AdvisoryClient
	Logger     logger.Logger
}

// NewBookingService tạo BookingService mới
func NewBookingService(opts BookingServiceOptions) *BookingService {
	lg := opts.Logger
	if lg == nil {
		lg = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &BookingService{
		bookings:   opts.Bookings,
		properties: opts.Properties,
		chats:      opts.Chats,
		pricing:    opts.Pricing,
		advisory:   opts.Advisory,
		logger:     lg,
	}
}

// IsAvailable kiểm tra [start, end) có đụng booking confirmed nào không.
// excludeID loại một booking khỏi xét (dùng khi booking re-check chính nó).
// Chỉ là predicate đọc, không có bảo đảm isolation giữa các caller song song.
func (s *BookingService) IsAvailable(propertyID string, start, end time.Time, excludeID string) (bool, error) {
	confirmed, err := s.bookings.FindConfirmed(propertyID)
	if err != nil {
		return false, apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi truy vấn booking", err)
	}
	for i := range confirmed {
		if excludeID != "" && confirmed[i].ID == excludeID {
			continue
		}
		if confirmed[i].Overlaps(start, end) {
			return false, nil
		}
	}
	return true, nil
}

// CheckAvailability là bản validate đầu vào đầy đủ cho surface bên ngoài
func (s *BookingService) CheckAvailability(propertyID, startStr, endStr, excludeID string) (*dto.AvailabilityResponse, error) {
	if err := validator.ValidateID(propertyID); err != nil {
		return nil, err
	}
	start, end, err := validator.ParseDateRange(startStr, endStr)
	if err != nil {
		return nil, err
	}
	available, err := s.IsAvailable(propertyID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	return &dto.AvailabilityResponse{
		Available:  available,
		PropertyID: propertyID,
		StartDate:  startStr,
		EndDate:    endStr,
		Nights:     nightsBetween(start, end),
	}, nil
}

// CreateQuote tạo booking ở trạng thái quote kèm message tóm tắt.
// Quote chưa giữ lịch nên không cần guard chống race như lúc confirm.
func (s *BookingService) CreateQuote(req dto.QuoteRequest) (*dto.BookingResponse, error) {
	if err := validator.ValidateID(req.PropertyID); err != nil {
		return nil, err
	}
	if req.GuestID != "" {
		if err := validator.ValidateID(req.GuestID); err != nil {
			return nil, err
		}
	}

	prop, err := s.properties.GetByID(req.PropertyID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi truy vấn property", err)
	}
	if prop == nil {
		return nil, apperrors.ErrPropertyNotFound
	}

	start, end, err := validator.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	nights := nightsBetween(start, end)

	available, err := s.IsAvailable(req.PropertyID, start, end, "")
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, apperrors.ErrNotAvailable
	}

	suggestion, err := s.pricing.SuggestPrice(req.PropertyID)
	if err != nil {
		return nil, err
	}
	nightly := suggestion.SuggestedPrice
	total := round2(nightly * float64(nights))

	booking := builders.NewBookingBuilder().
		WithProperty(req.PropertyID).
		WithGuest(req.GuestID).
		WithDates(start, end, nights).
		WithPricing(nightly, total, suggestion.Source).
		Build()

	if err := s.bookings.Create(booking); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi lưu booking", err)
	}

	message := s.quoteMessage(prop, booking, suggestion)
	if err := s.chats.Append(booking.ID, constants.ChatRoleAssistant, message); err != nil {
		s.logger.Error("Lỗi ghi transcript cho booking %s: %v", booking.ID, err)
	}

	return &dto.BookingResponse{
		BookingID:     booking.ID,
		PropertyID:    booking.PropertyID,
		Nights:        nights,
		NightlyPrice:  nightly,
		TotalPrice:    total,
		PricingSource: suggestion.Source,
		Status:        booking.Status,
		Message:       message,
	}, nil
}

// Chat tiếp tục hội thoại của một booking
func (s *BookingService) Chat(bookingID, userMessage string) (string, error) {
	if err := validator.ValidateID(bookingID); err != nil {
		return "", err
	}
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return "", apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi truy vấn booking", err)
	}
	if booking == nil {
		return "", apperrors.ErrBookingNotFound
	}
	prop, err := s.properties.GetByID(booking.PropertyID)
	if err != nil {
		return "", apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi truy vấn property", err)
	}
	if prop == nil {
		return "", apperrors.NewAppError(apperrors.ErrCodePropertyNotFound, "Property missing for booking", nil)
	}

	if err := s.chats.Append(bookingID, constants.ChatRoleUser, userMessage); err != nil {
		s.logger.Error("Lỗi ghi transcript cho booking %s: %v", bookingID, err)
	}
	reply := s.chatReply(prop, booking, userMessage)
	if err := s.chats.Append(bookingID, constants.ChatRoleAssistant, reply); err != nil {
		s.logger.Error("Lỗi ghi transcript cho booking %s: %v", bookingID, err)
	}
	return reply, nil
}

// Confirm chuyển booking quote -> confirmed. Re-check lịch trống và flip
// status diễn ra trong một scope nguyên tử ở tầng store (ConfirmIfAvailable)
// để hai lần confirm chồng lịch song song không thể cùng lọt.
func (s *BookingService) Confirm(bookingID string) (string, error) {
	if err := validator.ValidateID(bookingID); err != nil {
		return "", err
	}
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return "", apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi truy vấn booking", err)
	}
	if booking == nil {
		return "", apperrors.ErrBookingNotFound
	}

	scratch := *booking
	if err := models.GetBookingState(booking.Status).Confirm(&scratch); err != nil {
		if booking.IsConfirmed() {
			return "", apperrors.ErrAlreadyConfirmed
		}
		return "", apperrors.NewAppError(apperrors.ErrCodeInvalidStatus, err.Error(), nil)
	}

	if err := s.bookings.ConfirmIfAvailable(booking); err != nil {
		if apperrors.GetAppError(err) != nil {
			return "", err
		}
		return "", apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi cập nhật booking", err)
	}

	message := "Booking confirmed! We look forward to hosting you."
	if err := s.chats.Append(bookingID, constants.ChatRoleAssistant, message); err != nil {
		s.logger.Error("Lỗi ghi transcript cho booking %s: %v", bookingID, err)
	}
	return message, nil
}

// Cancel chuyển booking sang cancelled (chỉ đổi status, không bao giờ xóa)
func (s *BookingService) Cancel(bookingID string) error {
	if err := validator.ValidateID(bookingID); err != nil {
		return err
	}
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi truy vấn booking", err)
	}
	if booking == nil {
		return apperrors.ErrBookingNotFound
	}

	scratch := *booking
	if err := models.GetBookingState(booking.Status).Cancel(&scratch); err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidStatus, err.Error(), nil)
	}

	if err := s.bookings.UpdateStatus(booking, constants.BookingStatusCancelled); err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi cập nhật booking", err)
	}
	return nil
}

// GetBooking lấy booking theo ID
func (s *BookingService) GetBooking(bookingID string) (*models.Booking, error) {
	if err := validator.ValidateID(bookingID); err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi truy vấn booking", err)
	}
	if booking == nil {
		return nil, apperrors.ErrBookingNotFound
	}
	return booking, nil
}

// ListBookings liệt kê booking mới nhất, lọc tùy chọn theo property/status
func (s *BookingService) ListBookings(propertyID, status string, limit int) ([]models.Booking, error) {
	if propertyID != "" {
		if err := validator.ValidateID(propertyID); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		limit = 50
	}
	bookings, err := s.bookings.List(propertyID, status, limit)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Lỗi truy vấn booking", err)
	}
	return bookings, nil
}

// Transcript trả về hội thoại của booking theo thứ tự thời gian
func (s *BookingService) Transcript(bookingID string, limit int) ([]models.ChatMessage, error) {
	if err := validator.ValidateID(bookingID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = chatHistoryLimit
	}
	return s.chats.Recent(bookingID, limit)
}

// ---------- Sinh message ---------- //

// quoteMessage hỏi advisory phrase lại báo giá, hỏng thì dùng template
func (s *BookingService) quoteMessage(prop *models.Property, booking *models.Booking, suggestion *dto.PriceSuggestion) string {
	if s.advisory != nil && s.advisory.Available() {
		systemPrompt := "You are an AI booking assistant. Provide a concise, friendly quote summary and invite the guest to ask questions or confirm."
		userPrompt := fmt.Sprintf(
			"Property: %s in %s, %s\nDates: %s to %s (%d nights)\nNightly Price: $%.2f (source: %s)\nTotal: $%.2f\nMention any standout amenities briefly.",
			prop.Title, prop.City, prop.Country,
			booking.StartDate.Format("2006-01-02"), booking.EndDate.Format("2006-01-02"), booking.Nights,
			booking.NightlyPrice, suggestion.Source, booking.TotalPrice,
		)
		if reply, err := s.advisory.Reply(systemPrompt, userPrompt); err == nil {
			return reply
		}
	}
	return fallbackQuoteMessage(prop, booking)
}

// chatReply trả lời hội thoại booking kèm history, hỏng thì dùng câu mẫu
func (s *BookingService) chatReply(prop *models.Property, booking *models.Booking, userMessage string) string {
	if s.advisory != nil && s.advisory.Available() {
		history, err := s.chats.Recent(booking.ID, chatHistoryLimit)
		if err != nil {
			s.logger.Error("Lỗi đọc transcript cho booking %s: %v", booking.ID, err)
		}
		histBlock := "(no previous messages)"
		if len(history) > 0 {
			var lines []string
			for _, h := range history {
				lines = append(lines, h.Role+": "+h.Message)
			}
			histBlock = strings.Join(lines, "\n")
		}
		systemPrompt := "You are continuing a booking conversation. Keep responses short, helpful, and progress toward confirmation if user seems ready."
		userPrompt := fmt.Sprintf(
			"Property: %s | City: %s\nCurrent status: %s | Nights: %d | Total: $%.2f\nHistory:\n%s\n\nUser: %s\nAssistant:",
			prop.Title, prop.City, booking.Status, booking.Nights, booking.TotalPrice, histBlock, userMessage,
		)
		if reply, err := s.advisory.Reply(systemPrompt, userPrompt); err == nil {
			return reply
		}
	}
	return fallbackFollowup(userMessage)
}

// fallbackQuoteMessage là template tất định cho tóm tắt báo giá
func fallbackQuoteMessage(prop *models.Property, booking *models.Booking) string {
	amenities := prop.Amenities
	if len(amenities) > 5 {
		amenities = amenities[:5]
	}
	return fmt.Sprintf(
		"Quote for %s: %d nights from %s to %s at $%.2f/night. Total $%.2f. Amenities: %s. Reply with questions or 'confirm' to proceed.",
		prop.Title, booking.Nights,
		booking.StartDate.Format("2006-01-02"), booking.EndDate.Format("2006-01-02"),
		booking.NightlyPrice, booking.TotalPrice,
		strings.Join(amenities, ", "),
	)
}

func fallbackFollowup(userMessage string) string {
	if strings.Contains(strings.ToLower(userMessage), "confirm") {
		return "To confirm, call the confirmation endpoint. Looking forward to hosting you!"
	}
	return "Thanks for your message. Let me know if you'd like to confirm or adjust dates."
}

// nightsBetween đếm số đêm giữa hai ngày
func nightsBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
