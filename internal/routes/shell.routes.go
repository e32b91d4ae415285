package routes

import (
	"opsdeck/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterShellRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	shell := r.Group("/shell", auth)
	{
		shell.POST("/exec", controllers.ExecShellCommand)
		shell.GET("/history", controllers.GetShellHistory)
	}
}
