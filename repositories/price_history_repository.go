package repositories

import (
	"gorm.io/gorm"

	"stayhub/models"
)

// PriceHistoryRepository ghi và đọc audit log tính giá
type PriceHistoryRepository interface {
	Create(entry *models.PriceHistory) error
	FindRecent(propertyID string, limit int) ([]models.PriceHistory, error)
}

type gormPriceHistoryRepository struct {
	db *gorm.DB
}

// NewPriceHistoryRepository tạo repository dùng GORM
func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &gormPriceHistoryRepository{db: db}
}

func (r *gormPriceHistoryRepository) Create(entry *models.PriceHistory) error {
	return r.db.Create(entry).Error
}

func (r *gormPriceHistoryRepository) FindRecent(propertyID string, limit int) ([]models.PriceHistory, error) {
	var entries []models.PriceHistory
	tx := r.db.Where("property_id = ?", propertyID).Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
