package models

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest - заявка в друзья между двумя пользователями.
// PairKey хранит канонический ключ пары (min:max), на пару существует
// не больше одной записи независимо от направления.
type FriendRequest struct {
	ID         int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID   int64               `gorm:"index" json:"sender_id"`
	ReceiverID int64               `gorm:"index" json:"receiver_id"`
	Status     FriendRequestStatus `gorm:"size:20;default:pending" json:"status"`
	PairKey    string              `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}
