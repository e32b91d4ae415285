package routes

import (
	"opsdeck/internal/controllers"
	"opsdeck/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers token endpoints and the stats WebSocket.
// The WebSocket authenticates via its token query parameter, so it does
// not sit behind the bearer middleware.
func RegisterAuthRoutes(r *gin.Engine, tokenLimiter *middleware.TokenRateLimiter) {
	auth := r.Group("/auth", middleware.TokenRateLimitMiddleware(tokenLimiter))
	{
		auth.POST("/token", controllers.HandleGetToken)
		auth.GET("/token/status", controllers.HandleTokenStatus)
	}

	// WebSocket endpoint for real-time stats
	r.GET("/ws", controllers.HandleWebSocket)
}
