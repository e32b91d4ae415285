package routes

import (
	"opsdeck/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterMonitorRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	monitor := r.Group("/monitor", auth)
	{
		monitor.GET("/system", controllers.GetSystem)
		monitor.GET("/host", controllers.GetHost)
		monitor.GET("/cpu", controllers.GetCPU)
		monitor.GET("/memory", controllers.GetMemory)
		monitor.GET("/disk", controllers.GetDisk)
		monitor.GET("/disks", controllers.GetAllDisks)
		monitor.GET("/network", controllers.GetNetwork)
		monitor.GET("/dashboard", controllers.GetDashboard)
		monitor.GET("/logs", controllers.GetSystemLogs)
		monitor.GET("/history", controllers.GetMetricHistory)
		monitor.GET("/history/all", controllers.GetAllHistory)
	}
}
