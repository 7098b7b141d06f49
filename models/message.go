package models

import (
	"time"
)

// Message - сообщение в диалоге, append-only запись
type Message struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID int64     `gorm:"index:idx_messages_conversation_created" json:"conversation_id"`
	UserID         int64     `gorm:"index" json:"user_id"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	Type           string    `gorm:"size:20;default:text" json:"type"`
	IsRead         bool      `gorm:"default:false" json:"is_read"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_messages_conversation_created" json:"created_at"`
}

// TableName возвращает имя таблицы для модели Message
func (Message) TableName() string {
	return "messages"
}
