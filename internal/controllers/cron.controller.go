package controllers

import (
	"net/http"
	"strconv"

	"opsdeck/internal/models"
	"opsdeck/internal/services"

	"github.com/gin-gonic/gin"
)

// ListCronJobs returns all active entries of the user crontab
func ListCronJobs(c *gin.Context) {
	jobs, err := services.GetCronService().ListJobs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// AddCronJob validates a schedule and appends a new crontab entry
func AddCronJob(c *gin.Context) {
	var req models.CronJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.GetCronService().AddJob(req.Schedule, req.Command); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"schedule":    req.Schedule,
		"command":     req.Command,
		"description": services.DescribeSchedule(req.Schedule),
	})
}

// UpdateCronJob replaces the entry at the given index
func UpdateCronJob(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job index"})
		return
	}

	var req models.CronJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.GetCronService().UpdateJob(index, req.Schedule, req.Command); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"index":       index,
		"schedule":    req.Schedule,
		"command":     req.Command,
		"description": services.DescribeSchedule(req.Schedule),
	})
}

// DeleteCronJob removes the entry at the given index
func DeleteCronJob(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job index"})
		return
	}

	if err := services.GetCronService().DeleteJob(index); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"index":   index,
		"deleted": true,
	})
}

// DescribeCronSchedule renders a schedule expression in plain words
// Query param: schedule=<five-field expression>
func DescribeCronSchedule(c *gin.Context) {
	schedule := c.Query("schedule")
	if schedule == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "schedule query parameter required"})
		return
	}

	c.JSON(http.StatusOK, services.PreviewSchedule(schedule))
}

// GetCronLogs returns recent lines of the system cron log
// Query param: limit=<max lines> (default: 50)
func GetCronLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	source, lines, err := services.GetCronService().CronLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source": source,
		"lines":  lines,
		"count":  len(lines),
	})
}
