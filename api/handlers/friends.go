package handlers

import (
	"net/http"
	"strconv"

	"catchat/services"

	"github.com/gin-gonic/gin"
)

var friendService = services.NewFriendService()

// SendFriendRequest - обработчик отправки заявки в друзья по email
func SendFriendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "A valid email is required"})
		return
	}

	if _, err := friendService.SendRequest(c.Request.Context(), userID, req.Email); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request sent successfully."})
}

// GetPendingRequests - входящие заявки с профилем отправителя
func GetPendingRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	requests, err := friendService.PendingRequests(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// AcceptFriendRequest - подтверждение заявки получателем
func AcceptFriendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found."})
		return
	}

	if err := friendService.Accept(c.Request.Context(), requestID, userID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": "Friend request not found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted."})
}

// RejectFriendRequest - отклонение заявки, запись остается в rejected
func RejectFriendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found."})
		return
	}

	if err := friendService.Reject(c.Request.Context(), requestID, userID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": "Friend request not found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request rejected."})
}

// GetFriends - список друзей текущего пользователя
func GetFriends(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	friends, err := friendService.Friends(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, friends)
}

// RemoveFriend - удаление дружбы с пользователем из пути
func RemoveFriend(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	otherUserID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friend not found."})
		return
	}

	if err := friendService.RemoveFriend(c.Request.Context(), userID, otherUserID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": "Friend not found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend removed."})
}
