package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catchat/db"
	"catchat/models"

	"gorm.io/gorm"
)

type FriendService struct{}

func NewFriendService() *FriendService {
	return &FriendService{}
}

// PendingRequest - входящая заявка вместе с профилем отправителя
type PendingRequest struct {
	Request models.FriendRequest `json:"request"`
	Sender  models.User          `json:"sender"`
}

// SendRequest создает заявку в друзья по email получателя.
// Проверка существующей заявки и вставка выполняются в одной транзакции,
// уникальный индекс по pair_key страхует от гонки двух одновременных заявок.
func (fs *FriendService) SendRequest(ctx context.Context, senderID int64, receiverEmail string) (*models.FriendRequest, error) {
	if receiverEmail == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	var receiver models.User
	err := db.GetReadOnlyDB(ctx).Where("email = ?", receiverEmail).First(&receiver).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user with email %s", ErrNotFound, receiverEmail)
		}
		return nil, fmt.Errorf("failed to resolve receiver: %w", err)
	}

	if receiver.ID == senderID {
		return nil, ErrSelfRequest
	}

	pairKey := models.PairKey(senderID, receiver.ID)
	var request models.FriendRequest

	err = db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.FriendRequest
		err := tx.Where("pair_key = ?", pairKey).First(&existing).Error
		if err == nil {
			switch existing.Status {
			case models.FriendRequestAccepted:
				return ErrAlreadyFriends
			case models.FriendRequestPending:
				return ErrRequestPending
			}
			// Отклоненная заявка не блокирует повторную отправку:
			// переиспользуем запись, чтобы сохранить одну строку на пару
			existing.SenderID = senderID
			existing.ReceiverID = receiver.ID
			existing.Status = models.FriendRequestPending
			existing.UpdatedAt = time.Now()
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("failed to renew friend request: %w", err)
			}
			request = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing request: %w", err)
		}

		request = models.FriendRequest{
			SenderID:   senderID,
			ReceiverID: receiver.ID,
			Status:     models.FriendRequestPending,
			PairKey:    pairKey,
			CreatedAt:  time.Now(),
		}
		if err := tx.Create(&request).Error; err != nil {
			return fmt.Errorf("failed to create friend request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// PendingRequests возвращает входящие заявки со статусом pending
func (fs *FriendService) PendingRequests(ctx context.Context, userID int64) ([]PendingRequest, error) {
	var requests []models.FriendRequest
	err := db.GetReadOnlyDB(ctx).
		Where("receiver_id = ? AND status = ?", userID, models.FriendRequestPending).
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending requests: %w", err)
	}

	if len(requests) == 0 {
		return []PendingRequest{}, nil
	}

	senderIDs := make([]int64, 0, len(requests))
	for _, r := range requests {
		senderIDs = append(senderIDs, r.SenderID)
	}

	var senders []models.User
	err = db.GetReadOnlyDB(ctx).Where("id IN (?)", senderIDs).Find(&senders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load senders: %w", err)
	}
	sendersByID := make(map[int64]models.User, len(senders))
	for _, s := range senders {
		sendersByID[s.ID] = s
	}

	result := make([]PendingRequest, 0, len(requests))
	for _, r := range requests {
		result = append(result, PendingRequest{Request: r, Sender: sendersByID[r.SenderID]})
	}
	return result, nil
}

// Accept подтверждает входящую заявку. Заявка должна существовать,
// принадлежать получателю и быть в статусе pending, иначе ErrNotFound.
func (fs *FriendService) Accept(ctx context.Context, requestID, userID int64) error {
	return fs.resolve(ctx, requestID, userID, models.FriendRequestAccepted)
}

// Reject отклоняет входящую заявку, запись остается в статусе rejected
func (fs *FriendService) Reject(ctx context.Context, requestID, userID int64) error {
	return fs.resolve(ctx, requestID, userID, models.FriendRequestRejected)
}

func (fs *FriendService) resolve(ctx context.Context, requestID, userID int64, status models.FriendRequestStatus) error {
	return db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var request models.FriendRequest
		err := tx.Where("id = ? AND receiver_id = ? AND status = ?",
			requestID, userID, models.FriendRequestPending).First(&request).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: friend request %d", ErrNotFound, requestID)
			}
			return fmt.Errorf("failed to find friend request: %w", err)
		}

		request.Status = status
		request.UpdatedAt = time.Now()
		if err := tx.Save(&request).Error; err != nil {
			return fmt.Errorf("failed to update friend request: %w", err)
		}
		return nil
	})
}

// Friends возвращает пользователей, связанных с userID подтвержденной
// заявкой в любом направлении
func (fs *FriendService) Friends(ctx context.Context, userID int64) ([]models.User, error) {
	var friends []models.User
	err := db.GetReadOnlyDB(ctx).
		Table("users u").
		Joins("JOIN friend_requests f ON (f.sender_id = u.id AND f.receiver_id = ?) OR (f.receiver_id = u.id AND f.sender_id = ?)", userID, userID).
		Where("f.status = ? AND u.id != ?", models.FriendRequestAccepted, userID).
		Select("u.id, u.name, u.email, u.avatar, u.bio, u.role, u.is_online, u.created_at, u.updated_at").
		Find(&friends).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get friends: %w", err)
	}
	return friends, nil
}

// RemoveFriend удаляет подтвержденную дружбу целиком (запись не архивируется).
// После удаления любая из сторон может отправить заявку заново.
func (fs *FriendService) RemoveFriend(ctx context.Context, userID, otherUserID int64) error {
	return db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("pair_key = ? AND status = ?",
			models.PairKey(userID, otherUserID), models.FriendRequestAccepted).
			Delete(&models.FriendRequest{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete friendship: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: friendship with user %d", ErrNotFound, otherUserID)
		}
		return nil
	})
}
