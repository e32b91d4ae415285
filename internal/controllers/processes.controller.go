package controllers

import (
	"net/http"

	"opsdeck/internal/middleware"
	"opsdeck/internal/models"
	"opsdeck/internal/services"

	"github.com/gin-gonic/gin"
)

// GetTopProcesses returns the top 20 processes by CPU + memory usage with totals
func GetTopProcesses(c *gin.Context) {
	processes, totalCPU, totalMem, lastUpdated := services.GetCachedProcesses()
	c.JSON(http.StatusOK, gin.H{
		"processes":         processes,
		"total_cpu_percent": totalCPU,
		"total_mem_percent": totalMem,
		"last_updated":      lastUpdated,
	})
}

// ListAllProcesses returns the full process table, optionally filtered
// by a case-insensitive substring match on name or user
func ListAllProcesses(c *gin.Context) {
	filter := c.Query("filter")

	processes, err := services.ListProcesses(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"processes": processes,
		"count":     len(processes),
		"filter":    filter,
	})
}

// GetProcessStatus returns a simple process status summary (total count)
func GetProcessStatus(c *gin.Context) {
	status, err := services.GetProcessCountSimple()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// KillProcess sends SIGTERM to a process, or SIGKILL when force is set
func KillProcess(c *gin.Context) {
	var req models.KillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if middleware.GlobalSecurityLogger != nil {
		middleware.GlobalSecurityLogger.LogProcessKilled(c.ClientIP(), req.PID, req.Force)
	}

	if err := services.KillProcess(req.PID, req.Force); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pid":    req.PID,
		"force":  req.Force,
		"killed": true,
	})
}
