package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rvidyu/market-chitchat-39-sub000/internal/handlers"
	"github.com/rvidyu/market-chitchat-39-sub000/internal/middleware"
)

func RegisterUserRoutes(r gin.IRouter) {
	users := r.Group("/users")
	{
		users.GET("/:id", handlers.GetUser)
		users.POST("/avatar", middleware.AuthMiddleware(), middleware.UploadRateLimit(), handlers.UploadAvatar)
	}
}
