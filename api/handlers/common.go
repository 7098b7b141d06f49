package handlers

import (
	"errors"
	"net/http"

	"catchat/services"

	"github.com/gin-gonic/gin"
)

// statusForError транслирует ошибки сервисов в HTTP статусы:
// NotFound -> 404, InvalidState -> 400, ValidationError -> 422
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSelfRequest),
		errors.Is(err, services.ErrAlreadyFriends),
		errors.Is(err, services.ErrRequestPending):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// currentUserID достает идентификатор пользователя, положенный auth middleware
func currentUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	uid, ok := userID.(int64)
	if !ok || uid == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return uid, true
}
