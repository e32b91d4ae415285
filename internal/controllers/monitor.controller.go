package controllers

import (
	"net/http"
	"strconv"
	"time"

	"opsdeck/internal/services"

	"github.com/gin-gonic/gin"
)

func GetCPU(c *gin.Context) {
	cpu, err := services.GetCPUUsage()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cpu)
}

func GetMemory(c *gin.Context) {
	memory, err := services.GetMemoryUsage()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, memory)
}

func GetDisk(c *gin.Context) {
	disk, err := services.GetDiskUsage("/")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, disk)
}

func GetAllDisks(c *gin.Context) {
	disks, err := services.GetAllDiskUsage()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, disks)
}

func GetNetwork(c *gin.Context) {
	network, err := services.GetNetworkUsage()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, network)
}

// GetSystem returns CPU, memory, disk and network in one response
func GetSystem(c *gin.Context) {
	system, err := services.GetSystemStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, system)
}

// GetHost returns static host info plus uptime and load averages
func GetHost(c *gin.Context) {
	host, err := services.GetHostStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, host)
}

// GetDashboard returns simplified data for the main dashboard
// Includes current status + recent history
func GetDashboard(c *gin.Context) {
	cpuCurrent, _ := services.GetCachedCPU()
	memoryCurrent, _ := services.GetCachedMemory()
	diskCurrent, _ := services.GetCachedDisk()
	networkCurrent, _ := services.GetCachedNetwork()
	processesCurrent, totalCPU, totalMem, _ := services.GetCachedProcesses()

	window := services.GetAllHistoricalData(10 * time.Minute)

	topProcesses := processesCurrent
	if len(topProcesses) > 5 {
		topProcesses = topProcesses[:5]
	}

	totalNetworkSent := uint64(0)
	totalNetworkRecv := uint64(0)
	for _, iface := range networkCurrent {
		totalNetworkSent += iface.BytesSent
		totalNetworkRecv += iface.BytesRecv
	}
	sentRate, recvRate := services.GetNetworkRates()

	allDisks, _ := services.GetAllDiskUsage()
	host, _ := services.GetHostStatus()

	dashboard := gin.H{
		"current": gin.H{
			"cpu":    cpuCurrent,
			"memory": memoryCurrent,
			"disk":   diskCurrent,
			"network": gin.H{
				"bytes_sent":      totalNetworkSent,
				"bytes_recv":      totalNetworkRecv,
				"bytes_sent_rate": sentRate,
				"bytes_recv_rate": recvRate,
			},
			"top_processes": topProcesses,
			"process_totals": gin.H{
				"total_cpu": totalCPU,
				"total_mem": totalMem,
			},
		},
		"disk_partitions": allDisks,
		"host":            host,
		"history":         window,
		"timestamp":       time.Now(),
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetSystemLogs returns recent lines from the host's system log
func GetSystemLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	source, lines, err := services.GetSystemLogs(limit)
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
