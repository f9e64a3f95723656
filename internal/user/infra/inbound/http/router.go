package http

import "github.com/gin-gonic/gin"

func RegisterUserRoutes(r *gin.Engine, handler *UserHandler) {
	users := r.Group("/users")
	{
		users.POST("/search", handler.SearchUsers)
		users.GET("/search/intents", handler.ListIntents)
		users.GET("/search/stats", handler.SearchStats)
	}
}
