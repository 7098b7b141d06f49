package models

import "time"

// Conversation - контейнер сообщений для фиксированного набора участников.
// Для личных диалогов PairKey содержит канонический ключ пары (min:max),
// для групповых бесед он NULL, поэтому уникальный индекс их не ограничивает.
type Conversation struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255" json:"name,omitempty"`
	IsGroup   bool      `gorm:"default:false" json:"is_group"`
	PairKey   *string   `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type ConversationParticipant struct {
	ID             int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID int64 `gorm:"index:conversation_user_idx,unique" json:"conversation_id"`
	UserID         int64 `gorm:"index:conversation_user_idx,unique;index" json:"user_id"`
}

func (ConversationParticipant) TableName() string {
	return "conversation_participants"
}
