package db

import (
	"fmt"

	"gorm.io/gorm"
)

// CreateMessageIndexes создает индексы для быстрой выборки истории диалога
// и последнего сообщения беседы
func CreateMessageIndexes(db *gorm.DB) error {
	createIndexSQL := `
		CREATE INDEX IF NOT EXISTS idx_messages_conversation_created
		ON messages (conversation_id, created_at);
	`
	if err := db.Exec(createIndexSQL).Error; err != nil {
		return fmt.Errorf("failed to create message index: %w", err)
	}

	createIndexSQL = `
		CREATE INDEX IF NOT EXISTS idx_participants_user_id
		ON conversation_participants (user_id);
	`
	if err := db.Exec(createIndexSQL).Error; err != nil {
		return fmt.Errorf("failed to create participant index: %w", err)
	}
	return nil
}
