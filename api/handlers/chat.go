package handlers

import (
	"net/http"
	"strconv"
	"time"

	"catchat/api/middleware"
	"catchat/services"

	"github.com/gin-gonic/gin"
)

var chatService = services.NewChatService()

const chatServiceName = "catchat-api"

// SendMessage - отправка сообщения пользователю; личный диалог
// создается лениво при первом сообщении
func SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		ReceiverID int64  `json:"receiver_id" binding:"required"`
		Body       string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "receiver_id and body are required"})
		return
	}

	start := time.Now()
	message, err := chatService.SendMessage(c.Request.Context(), userID, req.ReceiverID, req.Body)
	if err != nil {
		middleware.RecordChatOperation("send", "error", chatServiceName, time.Since(start), err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	middleware.RecordChatOperation("send", "ok", chatServiceName, time.Since(start), nil)

	c.JSON(http.StatusCreated, message)
}

// GetMessages - история диалога с пользователем из пути, по возрастанию
// времени; без диалога возвращается пустой список
func GetMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	otherUserID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	start := time.Now()
	messages, err := chatService.Messages(c.Request.Context(), userID, otherUserID)
	if err != nil {
		middleware.RecordChatOperation("list", "error", chatServiceName, time.Since(start), err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	middleware.RecordChatOperation("list", "ok", chatServiceName, time.Since(start), nil)

	c.JSON(http.StatusOK, messages)
}

// GetConversations - список бесед пользователя с последним сообщением
func GetConversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversations, err := chatService.Conversations(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, conversations)
}

// GetCounters - счетчик непрочитанных сообщений текущего пользователя
func GetCounters(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	unread, err := services.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get counters"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":  userID,
		"counters": gin.H{"unread_messages": unread},
	})
}
