package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stayhub/constants"
	apperrors "stayhub/errors"
	"stayhub/models"
)

// BookingRepository truy xuất booking từ store
type BookingRepository interface {
	GetByID(id string) (*models.Booking, error)
	Create(b *models.Booking) error
	List(propertyID string, status string, limit int) ([]models.Booking, error)
	FindConfirmed(propertyID string) ([]models.Booking, error)
	FindConfirmedSince(propertyID string, since time.Time) ([]models.Booking, error)
	CountConfirmedSince(propertyID string, since time.Time) (int64, error)
	UpdateStatus(b *models.Booking, status string) error
	ConfirmIfAvailable(b *models.Booking) error
}

type gormBookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository tạo repository dùng GORM
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &gormBookingRepository{db: db}
}

func (r *gormBookingRepository) GetByID(id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *gormBookingRepository) Create(b *models.Booking) error {
	return r.db.Create(b).Error
}

func (r *gormBookingRepository) List(propertyID string, status string, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	tx := r.db.Order("created_at DESC")
	if propertyID != "" {
		tx = tx.Where("property_id = ?", propertyID)
	}
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *gormBookingRepository) FindConfirmed(propertyID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("property_id = ? AND status = ?", propertyID, constants.BookingStatusConfirmed).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *gormBookingRepository) FindConfirmedSince(propertyID string, since time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("property_id = ? AND status = ? AND start_date >= ?",
		propertyID, constants.BookingStatusConfirmed, since).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *gormBookingRepository) CountConfirmedSince(propertyID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).
		Where("property_id = ? AND status = ? AND start_date >= ?",
			propertyID, constants.BookingStatusConfirmed, since).
		Count(&count).Error
	return count, err
}

func (r *gormBookingRepository) UpdateStatus(b *models.Booking, status string) error {
	res := r.db.Model(&models.Booking{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	b.Status = status
	return nil
}

// ConfirmIfAvailable xác nhận booking trong MỘT transaction: khóa dòng property
// (SELECT ... FOR UPDATE) để serialize các lần confirm song song trên cùng
// property, re-check trùng lịch loại trừ chính booking, rồi mới flip status.
func (r *gormBookingRepository) ConfirmIfAvailable(b *models.Booking) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var prop models.Property
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&prop, "id = ?", b.PropertyID).Error; err != nil {
			return err
		}

		var conflicts int64
		err := tx.Model(&models.Booking{}).
			Where("property_id = ? AND status = ? AND id <> ? AND start_date < ? AND end_date > ?",
				b.PropertyID, constants.BookingStatusConfirmed, b.ID, b.EndDate, b.StartDate).
			Count(&conflicts).Error
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return apperrors.ErrDatesUnavailable
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status <> ?", b.ID, constants.BookingStatusConfirmed).
			Updates(map[string]interface{}{
				"status":     constants.BookingStatusConfirmed,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrAlreadyConfirmed
		}
		b.Status = constants.BookingStatusConfirmed
		return nil
	})
}
