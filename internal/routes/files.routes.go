package routes

import (
	"opsdeck/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterFileRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	files := r.Group("/files", auth)
	{
		files.GET("/", controllers.GetFile)
		files.POST("/save", controllers.SaveFile)
		files.GET("/list", controllers.ListFiles)
		files.POST("/open", controllers.OpenPath)
		files.POST("/edit", controllers.OpenInEditor)
		files.GET("/recent", controllers.GetRecentFiles)
		files.GET("/editor", controllers.GetPreferredEditor)
		files.POST("/editor", controllers.SetPreferredEditor)
	}
}
