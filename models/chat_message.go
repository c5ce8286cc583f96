package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatMessage là một dòng transcript gắn với booking hoặc phiên tư vấn host
type ChatMessage struct {
	ID        string    `json:"id" gorm:"primaryKey;size:24"`
	SubjectID string    `json:"subjectId" gorm:"size:64;index"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// BeforeCreate gán ID 24-hex nếu chưa có
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	return nil
}
