package services

import (
	"strings"
	"time"

	"stayhub/constants"
	apperrors "stayhub/errors"
	"stayhub/models"
)

// Các repository in-memory dùng chung cho test service, mô phỏng đúng
// contract của bản GORM (GetByID trả nil,nil khi không thấy, v.v.)

type memPropertyRepo struct {
	props []*models.Property
}

func (r *memPropertyRepo) GetByID(id string) (*models.Property, error) {
	for _, p := range r.props {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memPropertyRepo) FindByCity(city string, excludeID string, limit int) ([]models.Property, error) {
	var out []models.Property
	for _, p := range r.props {
		if p.City != city || p.ID == excludeID {
			continue
		}
		out = append(out, *p)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *memPropertyRepo) FindByHost(hostID string) ([]models.Property, error) {
	var out []models.Property
	for _, p := range r.props {
		if p.HostID == hostID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPropertyRepo) FindOtherHosts(cities []string, hostID string) ([]models.Property, error) {
	citySet := map[string]bool{}
	for _, c := range cities {
		citySet[c] = true
	}
	var out []models.Property
	for _, p := range r.props {
		if p.HostID != hostID && citySet[p.City] {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPropertyRepo) FindAll(limit int) ([]models.Property, error) {
	var out []models.Property
	for _, p := range r.props {
		out = append(out, *p)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *memPropertyRepo) Create(p *models.Property) error {
	if p.ID == "" {
		p.ID = models.NewID()
	}
	r.props = append(r.props, p)
	return nil
}

func (r *memPropertyRepo) Update(p *models.Property) error {
	for i, existing := range r.props {
		if existing.ID == p.ID {
			r.props[i] = p
			return nil
		}
	}
	r.props = append(r.props, p)
	return nil
}

type memBookingRepo struct {
	bookings []*models.Booking
}

func (r *memBookingRepo) GetByID(id string) (*models.Booking, error) {
	for _, b := range r.bookings {
		if b.ID == id {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *memBookingRepo) Create(b *models.Booking) error {
	if b.ID == "" {
		b.ID = models.NewID()
	}
	r.bookings = append(r.bookings, b)
	return nil
}

func (r *memBookingRepo) List(propertyID string, status string, limit int) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if propertyID != "" && b.PropertyID != propertyID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, *b)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *memBookingRepo) FindConfirmed(propertyID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.PropertyID == propertyID && b.Status == constants.BookingStatusConfirmed {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) FindConfirmedSince(propertyID string, since time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.PropertyID == propertyID && b.Status == constants.BookingStatusConfirmed && !b.StartDate.Before(since) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) CountConfirmedSince(propertyID string, since time.Time) (int64, error) {
	found, _ := r.FindConfirmedSince(propertyID, since)
	return int64(len(found)), nil
}

func (r *memBookingRepo) UpdateStatus(b *models.Booking, status string) error {
	for _, existing := range r.bookings {
		if existing.ID == b.ID {
			existing.Status = status
			b.Status = status
			return nil
		}
	}
	return nil
}

// ConfirmIfAvailable mô phỏng transaction của bản GORM: re-check trùng lịch
// loại trừ chính booking rồi mới flip status
func (r *memBookingRepo) ConfirmIfAvailable(b *models.Booking) error {
	for _, other := range r.bookings {
		if other.ID == b.ID || other.PropertyID != b.PropertyID {
			continue
		}
		if other.Status == constants.BookingStatusConfirmed && other.Overlaps(b.StartDate, b.EndDate) {
			return apperrors.ErrDatesUnavailable
		}
	}
	for _, existing := range r.bookings {
		if existing.ID == b.ID {
			if existing.Status == constants.BookingStatusConfirmed {
				return apperrors.ErrAlreadyConfirmed
			}
			existing.Status = constants.BookingStatusConfirmed
			b.Status = constants.BookingStatusConfirmed
			return nil
		}
	}
	return apperrors.ErrBookingNotFound
}

type memHistoryRepo struct {
	entries []models.PriceHistory
}

func (r *memHistoryRepo) Create(entry *models.PriceHistory) error {
	if entry.ID == "" {
		entry.ID = models.NewID()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memHistoryRepo) FindRecent(propertyID string, limit int) ([]models.PriceHistory, error) {
	var out []models.PriceHistory
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].PropertyID != propertyID {
			continue
		}
		out = append(out, r.entries[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type memChatRepo struct {
	messages []models.ChatMessage
}

func (r *memChatRepo) Append(subjectID, role, message string) error {
	r.messages = append(r.messages, models.ChatMessage{
		ID:        models.NewID(),
		SubjectID: subjectID,
		Role:      role,
		Message:   message,
		CreatedAt: time.Now(),
	})
	return nil
}

func (r *memChatRepo) Recent(subjectID string, limit int) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range r.messages {
		if m.SubjectID == subjectID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *memChatRepo) countByRole(subjectID, role string) int {
	count := 0
	for _, m := range r.messages {
		if m.SubjectID == subjectID && m.Role == role {
			count++
		}
	}
	return count
}

func mustDate(t string) time.Time {
	parsed, err := time.Parse("2006-01-02", t)
	if err != nil {
		panic(err)
	}
	return parsed
}

func roomsJSON(parts ...string) []byte {
	return []byte("[" + strings.Join(parts, ",") + "]")
}
