package controllers

import (
	"net/http"
	"time"

	"opsdeck/internal/services"

	"github.com/gin-gonic/gin"
)

// GetMetricHistory returns historical data for a specific metric
// Query params: metric=cpu|memory|disk|network, duration=5m|10m|1h|24h (default: 10m)
func GetMetricHistory(c *gin.Context) {
	metric := c.DefaultQuery("metric", "cpu")
	durationStr := c.DefaultQuery("duration", "10m")

	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration format"})
		return
	}

	data := services.GetHistoricalData(metric, duration)
	if data == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid metric"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metric":   metric,
		"duration": durationStr,
		"data":     data,
	})
}

// GetAllHistory returns all historical metrics in a window
// Query params: duration=5m|10m|1h|24h (default: 10m)
func GetAllHistory(c *gin.Context) {
	durationStr := c.DefaultQuery("duration", "10m")

	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration format"})
		return
	}

	window := services.GetAllHistoricalData(duration)
	c.JSON(http.StatusOK, gin.H{
		"duration": durationStr,
		"data":     window,
	})
}
