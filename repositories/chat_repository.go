package repositories

import (
	"gorm.io/gorm"

	"stayhub/models"
)

// ChatRepository là transcript chỉ ghi thêm theo subject (booking hoặc phiên host)
type ChatRepository interface {
	Append(subjectID, role, message string) error
	Recent(subjectID string, limit int) ([]models.ChatMessage, error)
}

type gormChatRepository struct {
	db *gorm.DB
}

// NewChatRepository tạo repository dùng GORM
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

func (r *gormChatRepository) Append(subjectID, role, message string) error {
	return r.db.Create(&models.ChatMessage{
		SubjectID: subjectID,
		Role:      role,
		Message:   message,
	}).Error
}

// Recent trả về tối đa limit message cũ nhất trước (thứ tự hội thoại)
func (r *gormChatRepository) Recent(subjectID string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	tx := r.db.Where("subject_id = ?", subjectID).Order("created_at ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
