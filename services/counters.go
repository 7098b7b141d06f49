package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const unreadCounterTTL = 24 * time.Hour

func unreadCounterKey(userID int64) string {
	return fmt.Sprintf("counters:unread_messages:%d", userID)
}

// IncrUnread увеличивает счетчик непрочитанных сообщений пользователя.
// Redis необязателен: без него счетчики просто не ведутся.
func IncrUnread(ctx context.Context, userID int64) {
	if RedisClient == nil {
		return
	}
	key := unreadCounterKey(userID)
	if err := RedisClient.Incr(ctx, key).Err(); err != nil {
		log.Println("failed to increment unread counter:", err)
		return
	}
	RedisClient.Expire(ctx, key, unreadCounterTTL)
}

// ResetUnread сбрасывает счетчик после прочтения диалога
func ResetUnread(ctx context.Context, userID int64) {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Del(ctx, unreadCounterKey(userID)).Err(); err != nil {
		log.Println("failed to reset unread counter:", err)
	}
}

// UnreadCount возвращает количество непрочитанных сообщений пользователя
func UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if RedisClient == nil {
		return 0, fmt.Errorf("redis is not initialized")
	}
	count, err := RedisClient.Get(ctx, unreadCounterKey(userID)).Int64()
	if err == redis.Nil {
		// Отсутствие ключа означает ноль непрочитанных
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}
