package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"catchat/db"
	"catchat/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageCreatesConversation(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	cs := NewChatService()

	u1 := createTestUser(t, "User One", "u1@test.com")
	u2 := createTestUser(t, "User Two", "u2@test.com")

	message, err := cs.SendMessage(ctx, u1.ID, u2.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", message.Body)
	assert.Equal(t, "text", message.Type)
	assert.False(t, message.IsRead)
	assert.Equal(t, u1.ID, message.User.ID)
	assert.NotZero(t, message.ConversationID)

	var conversationCount int64
	require.NoError(t, db.ORM.Model(&models.Conversation{}).Count(&conversationCount).Error)
	assert.Equal(t, int64(1), conversationCount)

	messages, err := cs.Messages(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Body)
}

func TestSendMessageReusesConversation(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	cs := NewChatService()

	u1 := createTestUser(t, "User One", "u1@test.com")
	u2 := createTestUser(t, "User Two", "u2@test.com")

	first, err := cs.SendMessage(ctx, u1.ID, u2.ID, "hello")
	require.NoError(t, err)
	// Ответ идет в ту же беседу независимо от направления
	second, err := cs.SendMessage(ctx, u2.ID, u1.ID, "hi back")
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, second.ConversationID)

	var conversationCount int64
	require.NoError(t, db.ORM.Model(&models.Conversation{}).Count(&conversationCount).Error)
	assert.Equal(t, int64(1), conversationCount)
}

func TestSendMessageValidation(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	cs := NewChatService()

	u1 := createTestUser(t, "User One", "u1@test.com")
	u2 := createTestUser(t, "User Two", "u2@test.com")

	_, err := cs.SendMessage(ctx, u1.ID, u2.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = cs.SendMessage(ctx, u1.ID, u2.ID+100, "hi")
	assert.ErrorIs(t, err, ErrValidation)

	// Неудачные отправки не оставляют пустых бесед
	var conversationCount int64
	require.NoError(t, db.ORM.Model(&models.Conversation{}).Count(&conversationCount).Error)
	assert.Equal(t, int64(0), conversationCount)
}

func TestMessagesWithoutConversation(t *testing.T) {
	setupTestDB(t)
	cs := NewChatService()

	u1 := createTestUser(t, "User One", "u1@test.com")
	u2 := createTestUser(t, "User Two", "u2@test.com")

	messages, err := cs.Messages(context.Background(), u1.ID, u2.ID)
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestMessagesOrderAndIdempotence(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	cs := NewChatService()

	u1 := createTestUser(t, "User One", "u1@test.com")
	u2 := createTestUser(t, "User Two", "u2@test.com")

	for _, body := range []string{"one", "two", "three"} {
		_, err := cs.SendMessage(ctx, u1.ID, u2.ID, body)
		require.NoError(t, err)
	}

	messages, err := cs.Messages(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "one", messages[0].Body)
	assert.Equal(t, "two", messages[1].Body)
	assert.Equal(t, "three", messages[2].Body)
	assert.Equal(t, u1.ID, messages[0].User.ID)

	// Повторное чтение без записей дает тот же результат
	again, err := cs.Messages(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	require.Len(t, again, 3)
	for i := range messages {
		assert.Equal(t, messages[i].ID, again[i].ID)
		assert.Equal(t, messages[i].Body, again[i].Body)
	}
}

func TestMessagesMarkRead(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	cs := NewChatService()

	u1 := createTestUser(t, "User One", "u1@test.com")
	u2 := createTestUser(t, "User Two", "u2@test.com")

	_, err := cs.SendMessage(ctx, u1.ID, u2.ID, "unread")
	require.NoError(t, err)

	// Получатель открыл диалог - сообщения отправителя прочитаны
	_, err = cs.Messages(ctx, u2.ID, u1.ID)
	require.NoError(t, err)

	var unreadCount int64
	require.NoError(t, db.ORM.Model(&models.Message{}).
		Where("user_id = ? AND is_read = ?", u1.ID, false).Count(&unreadCount).Error)
	assert.Equal(t, int64(0), unreadCount)
}

func TestConversationsSummary(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	cs := NewChatService()

	u1 := createTestUser(t, "User One", "u1@test.com")
	u2 := createTestUser(t, "User Two", "u2@test.com")
	u3 := createTestUser(t, "User Three", "u3@test.com")

	_, err := cs.SendMessage(ctx, u1.ID, u2.ID, "hello")
	require.NoError(t, err)
	_, err = cs.SendMessage(ctx, u2.ID, u1.ID, "latest")
	require.NoError(t, err)
	_, err = cs.SendMessage(ctx, u3.ID, u1.ID, "hey")
	require.NoError(t, err)

	summaries, err := cs.Conversations(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byOther := make(map[int64]ConversationSummary)
	for _, s := range summaries {
		require.NotNil(t, s.User)
		require.NotNil(t, s.LastMessage)
		byOther[s.User.ID] = s
	}
	assert.Equal(t, "latest", byOther[u2.ID].LastMessage.Body)
	assert.Equal(t, "hey", byOther[u3.ID].LastMessage.Body)

	// Повторный вызов без записей дает идентичный результат
	again, err := cs.Conversations(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, summaries, again)

	// Второй пользователь видит только свой диалог с первым
	other, err := cs.Conversations(ctx, u2.ID)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, u1.ID, other[0].User.ID)
}

func TestConversationsGroupSummary(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	cs := NewChatService()

	u1 := createTestUser(t, "User One", "u1@test.com")
	u2 := createTestUser(t, "User Two", "u2@test.com")
	u3 := createTestUser(t, "User Three", "u3@test.com")

	group := models.Conversation{Name: "General Group", IsGroup: true, CreatedAt: time.Now()}
	require.NoError(t, db.ORM.Create(&group).Error)
	for _, id := range []int64{u1.ID, u2.ID, u3.ID} {
		require.NoError(t, db.ORM.Create(&models.ConversationParticipant{
			ConversationID: group.ID, UserID: id,
		}).Error)
	}
	require.NoError(t, db.ORM.Create(&models.Message{
		ConversationID: group.ID, UserID: u2.ID, Body: "welcome", Type: "text", CreatedAt: time.Now(),
	}).Error)

	summaries, err := cs.Conversations(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	// Групповая беседа показывает свое имя, а не случайного участника
	assert.True(t, summaries[0].IsGroup)
	assert.Equal(t, "General Group", summaries[0].Name)
	assert.Nil(t, summaries[0].User)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "welcome", summaries[0].LastMessage.Body)
}

func TestConcurrentSendMessageSingleConversation(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	cs := NewChatService()

	u1 := createTestUser(t, "User One", "u1@test.com")
	u2 := createTestUser(t, "User Two", "u2@test.com")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = cs.SendMessage(ctx, u1.ID, u2.ID, "ping")
			} else {
				_, _ = cs.SendMessage(ctx, u2.ID, u1.ID, "pong")
			}
		}(i)
	}
	wg.Wait()

	var conversationCount int64
	require.NoError(t, db.ORM.Model(&models.Conversation{}).Count(&conversationCount).Error)
	assert.Equal(t, int64(1), conversationCount)
}
