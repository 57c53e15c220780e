package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rvidyu/market-chitchat-39-sub000/internal/handlers"
	"github.com/rvidyu/market-chitchat-39-sub000/internal/middleware"
)

func RegisterChatRoutes(r gin.IRouter) {
	chat := r.Group("/chat")
	// Strict auth for all messaging even if the parent group is optional
	chat.Use(middleware.AuthMiddleware())
	{
		chat.GET("/contacts", handlers.GetContacts)
		chat.GET("/conversations", handlers.GetConversations)
		chat.GET("/messages", handlers.GetMessages)
		chat.POST("/messages", middleware.MessageRateLimit(), handlers.SendMessage)
		chat.POST("/read/:conversationId", handlers.MarkRead)

		// Spam / block
		chat.GET("/spam", handlers.ListSpam)
		chat.POST("/spam/undo", handlers.UndoSpam)
		chat.POST("/spam/:conversationId", handlers.ReportSpam)
		chat.DELETE("/spam/:conversationId", handlers.MarkNotSpam)

		// Message image attachments
		chat.POST("/attachments", middleware.UploadRateLimit(), handlers.UploadAttachments)
		chat.GET("/attachments/status", handlers.AttachmentStatus)

		// Quick replies
		chat.GET("/quick-replies", handlers.GetQuickReplies)
		chat.POST("/quick-replies", handlers.CreateQuickReply)
		chat.PUT("/quick-replies/:id", handlers.UpdateQuickReply)
		chat.DELETE("/quick-replies/:id", handlers.DeleteQuickReply)
	}
}
