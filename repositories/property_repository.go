package repositories

import (
	"errors"

	"gorm.io/gorm"

	"stayhub/models"
)

// PropertyRepository truy xuất property từ store
type PropertyRepository interface {
	GetByID(id string) (*models.Property, error)
	FindByCity(city string, excludeID string, limit int) ([]models.Property, error)
	FindByHost(hostID string) ([]models.Property, error)
	FindOtherHosts(cities []string, hostID string) ([]models.Property, error)
	FindAll(limit int) ([]models.Property, error)
	Create(p *models.Property) error
	Update(p *models.Property) error
}

type gormPropertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository tạo repository dùng GORM
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &gormPropertyRepository{db: db}
}

func (r *gormPropertyRepository) GetByID(id string) (*models.Property, error) {
	var prop models.Property
	if err := r.db.First(&prop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prop, nil
}

func (r *gormPropertyRepository) FindByCity(city string, excludeID string, limit int) ([]models.Property, error) {
	var props []models.Property
	tx := r.db.Where("city = ?", city)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&props).Error; err != nil {
		return nil, err
	}
	return props, nil
}

func (r *gormPropertyRepository) FindByHost(hostID string) ([]models.Property, error) {
	var props []models.Property
	if err := r.db.Where("host_id = ?", hostID).Find(&props).Error; err != nil {
		return nil, err
	}
	return props, nil
}

// FindOtherHosts lấy property của các host khác trong danh sách thành phố
func (r *gormPropertyRepository) FindOtherHosts(cities []string, hostID string) ([]models.Property, error) {
	var props []models.Property
	if err := r.db.Where("city IN ? AND host_id <> ?", cities, hostID).Find(&props).Error; err != nil {
		return nil, err
	}
	return props, nil
}

func (r *gormPropertyRepository) FindAll(limit int) ([]models.Property, error) {
	var props []models.Property
	tx := r.db.Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&props).Error; err != nil {
		return nil, err
	}
	return props, nil
}

func (r *gormPropertyRepository) Create(p *models.Property) error {
	return r.db.Create(p).Error
}

func (r *gormPropertyRepository) Update(p *models.Property) error {
	return r.db.Save(p).Error
}
