package routes

import (
	"opsdeck/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterCronRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	cron := r.Group("/cron", auth)
	{
		cron.GET("/", controllers.ListCronJobs)
		cron.POST("/", controllers.AddCronJob)
		cron.PUT("/:index", controllers.UpdateCronJob)
		cron.DELETE("/:index", controllers.DeleteCronJob)
		cron.GET("/describe", controllers.DescribeCronSchedule)
		cron.GET("/logs", controllers.GetCronLogs)
	}
}
