package controllers

import (
	"net/http"

	"opsdeck/internal/models"
	"opsdeck/internal/services"

	"github.com/gin-gonic/gin"
)

// ExecShellCommand runs one command in the integrated terminal.
// A nonzero exit code or a timeout is reported in the result body,
// not as an HTTP error.
func ExecShellCommand(c *gin.Context) {
	var req models.ShellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := services.GetShellService().Run(c.Request.Context(), req)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetShellHistory returns previously executed commands, oldest first
func GetShellHistory(c *gin.Context) {
	history := services.GetShellService().History()
	c.JSON(http.StatusOK, gin.H{
		"history": history,
		"count":   len(history),
	})
}
