package routes

import (
	"catchat/api/handlers"
	"catchat/api/middleware"

	"github.com/gin-gonic/gin"
)

func PublicApi(router *gin.Engine) *gin.RouterGroup {
	api := router.Group("/api/")

	api.POST("auth/register", handlers.Register)
	api.POST("auth/login", handlers.Login)

	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		authorized.POST("auth/logout", handlers.Logout)
		authorized.GET("auth/me", handlers.Me)
		authorized.POST("auth/profile", handlers.UpdateProfile)

		authorized.GET("users/search", handlers.UserSearch)
		authorized.GET("users/:id", handlers.UserGet)

		// Друзья
		authorized.POST("friend-request/send", handlers.SendFriendRequest)
		authorized.GET("friend-request/pending", handlers.GetPendingRequests)
		authorized.POST("friend-request/accept/:id", handlers.AcceptFriendRequest)
		authorized.POST("friend-request/reject/:id", handlers.RejectFriendRequest)
		authorized.GET("friends", handlers.GetFriends)
		authorized.DELETE("friends/:id", handlers.RemoveFriend)

		// Сообщения
		authorized.POST("messages/send", handlers.SendMessage)
		authorized.GET("messages/:userId", handlers.GetMessages)
		authorized.GET("conversations", handlers.GetConversations)
		authorized.GET("counters", handlers.GetCounters)

		authorized.GET("ws", handlers.WSChatHandler)
	}
	return api
}
