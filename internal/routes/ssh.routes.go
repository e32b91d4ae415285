package routes

import (
	"opsdeck/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterSSHRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	ssh := r.Group("/ssh", auth)
	{
		ssh.GET("/connections", controllers.ListSSHConnections)
		ssh.POST("/connections", controllers.AddSSHConnection)
		ssh.PUT("/connections/:id", controllers.UpdateSSHConnection)
		ssh.DELETE("/connections/:id", controllers.DeleteSSHConnection)

		ssh.POST("/test", controllers.TestSSHConnection)
		ssh.POST("/exec", controllers.ExecSSHCommand)

		ssh.POST("/sessions", controllers.OpenSSHSession)
		ssh.GET("/sessions", controllers.ListSSHSessions)
		ssh.POST("/sessions/:id/input", controllers.WriteSSHSessionInput)
		ssh.GET("/sessions/:id/ws", controllers.AttachSSHSession)
		ssh.DELETE("/sessions/:id", controllers.CloseSSHSession)
	}
}
