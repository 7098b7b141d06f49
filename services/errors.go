package services

import "errors"

// Ошибки уровня сервисов; обработчики транслируют их в HTTP статусы
var (
	ErrNotFound       = errors.New("not found")
	ErrSelfRequest    = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends = errors.New("users are already friends")
	ErrRequestPending = errors.New("a friend request is already pending")
	ErrValidation     = errors.New("validation failed")
)
