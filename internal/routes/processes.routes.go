package routes

import (
	"opsdeck/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterProcessRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	processes := r.Group("/processes", auth)
	{
		processes.GET("/", controllers.GetTopProcesses)
		processes.GET("/all", controllers.ListAllProcesses)
		processes.GET("/status", controllers.GetProcessStatus)
		processes.POST("/kill", controllers.KillProcess)
	}
}
