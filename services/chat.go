package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catchat/db"
	"catchat/models"

	"gorm.io/gorm"
)

type ChatService struct{}

func NewChatService() *ChatService {
	return &ChatService{}
}

// MessageWithAuthor - сообщение вместе с профилем автора
type MessageWithAuthor struct {
	models.Message
	User models.User `json:"user"`
}

// ConversationSummary - элемент списка бесед пользователя: для личного
// диалога User содержит собеседника, для групповой беседы User пустой,
// а имя берется из самой беседы
type ConversationSummary struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name,omitempty"`
	IsGroup     bool            `json:"is_group"`
	User        *models.User    `json:"user"`
	LastMessage *models.Message `json:"last_message"`
}

// SendMessage отправляет сообщение пользователю. Личный диалог создается
// лениво: поиск по pair_key, создание беседы с участниками и вставка
// сообщения выполняются в одной транзакции, так что при сбое не остается
// пустой беседы, а уникальный индекс по pair_key исключает дубликаты
// при одновременной отправке с двух сторон.
func (cs *ChatService) SendMessage(ctx context.Context, senderID, receiverID int64, body string) (*MessageWithAuthor, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: message body is required", ErrValidation)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrValidation)
	}

	var receiverCount int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).Where("id = ?", receiverID).Count(&receiverCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check receiver: %w", err)
	}
	if receiverCount == 0 {
		return nil, fmt.Errorf("%w: receiver %d does not exist", ErrValidation, receiverID)
	}

	pairKey := models.PairKey(senderID, receiverID)
	var message models.Message

	err = db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var conversation models.Conversation
		err := tx.Where("pair_key = ?", pairKey).First(&conversation).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			conversation = models.Conversation{
				IsGroup:   false,
				PairKey:   &pairKey,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&conversation).Error; err != nil {
				return fmt.Errorf("failed to create conversation: %w", err)
			}
			participants := []models.ConversationParticipant{
				{ConversationID: conversation.ID, UserID: senderID},
				{ConversationID: conversation.ID, UserID: receiverID},
			}
			if err := tx.Create(&participants).Error; err != nil {
				return fmt.Errorf("failed to attach participants: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to find conversation: %w", err)
		}

		message = models.Message{
			ConversationID: conversation.ID,
			UserID:         senderID,
			Body:           body,
			Type:           "text",
			IsRead:         false,
			CreatedAt:      time.Now(),
		}
		if err := tx.Create(&message).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var author models.User
	if err := db.GetReadOnlyDB(ctx).First(&author, senderID).Error; err != nil {
		return nil, fmt.Errorf("failed to load author: %w", err)
	}

	// Побочные эффекты вне транзакции: счетчик непрочитанных и push получателю
	IncrUnread(ctx, receiverID)
	cs.notifyReceiver(ctx, &message, receiverID)

	return &MessageWithAuthor{Message: message, User: author}, nil
}

func (cs *ChatService) notifyReceiver(ctx context.Context, message *models.Message, receiverID int64) {
	event := MessageEvent{
		ConversationID: message.ConversationID,
		MessageID:      message.ID,
		SenderID:       message.UserID,
		ReceiverID:     receiverID,
		Body:           message.Body,
		CreatedAt:      message.CreatedAt,
	}
	if err := PublishMessageEvent(ctx, event); err != nil {
		// Без брокера шлем напрямую в открытые websocket-соединения
		_ = SendWsNotify(receiverID, "message_sent", message.Body)
	}
}

// Messages возвращает историю личного диалога по возрастанию времени.
// Отсутствие диалога - это пустая история, а не ошибка. Попутно сообщения
// собеседника помечаются прочитанными и сбрасывается счетчик.
func (cs *ChatService) Messages(ctx context.Context, authUserID, otherUserID int64) ([]MessageWithAuthor, error) {
	var conversation models.Conversation
	err := db.GetReadOnlyDB(ctx).Where("pair_key = ?", models.PairKey(authUserID, otherUserID)).First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []MessageWithAuthor{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}

	var messages []models.Message
	err = db.GetReadOnlyDB(ctx).
		Where("conversation_id = ?", conversation.ID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	userIDs := []int64{authUserID, otherUserID}
	var users []models.User
	if err := db.GetReadOnlyDB(ctx).Where("id IN (?)", userIDs).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load authors: %w", err)
	}
	usersByID := make(map[int64]models.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	result := make([]MessageWithAuthor, 0, len(messages))
	for _, m := range messages {
		result = append(result, MessageWithAuthor{Message: m, User: usersByID[m.UserID]})
	}

	err = db.GetWriteDB(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND user_id = ? AND is_read = ?", conversation.ID, otherUserID, false).
		Update("is_read", true).Error
	if err != nil {
		return nil, fmt.Errorf("failed to mark messages read: %w", err)
	}
	ResetUnread(ctx, authUserID)

	return result, nil
}

// Conversations возвращает все беседы пользователя с последним сообщением
// каждой из них
func (cs *ChatService) Conversations(ctx context.Context, userID int64) ([]ConversationSummary, error) {
	var conversations []models.Conversation
	err := db.GetReadOnlyDB(ctx).
		Table("conversations c").
		Joins("JOIN conversation_participants p ON p.conversation_id = c.id").
		Where("p.user_id = ?", userID).
		Select("c.id, c.name, c.is_group, c.pair_key, c.created_at, c.updated_at").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get conversations: %w", err)
	}

	result := make([]ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		summary := ConversationSummary{
			ID:      conv.ID,
			Name:    conv.Name,
			IsGroup: conv.IsGroup,
		}

		if !conv.IsGroup {
			var other models.User
			err := db.GetReadOnlyDB(ctx).
				Table("users u").
				Joins("JOIN conversation_participants p ON p.user_id = u.id").
				Where("p.conversation_id = ? AND u.id != ?", conv.ID, userID).
				Select("u.id, u.name, u.email, u.avatar, u.bio, u.role, u.is_online, u.created_at, u.updated_at").
				First(&other).Error
			if err == nil {
				summary.User = &other
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to load participant: %w", err)
			}
		}

		var last models.Message
		err := db.GetReadOnlyDB(ctx).
			Where("conversation_id = ?", conv.ID).
			Order("created_at DESC, id DESC").
			First(&last).Error
		if err == nil {
			summary.LastMessage = &last
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load last message: %w", err)
		}

		result = append(result, summary)
	}
	return result, nil
}
