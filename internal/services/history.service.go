package services

import (
	"log"
	"sync"
	"time"

	"opsdeck/internal/models"
)

// HistoryCollector manages time-series metric data for the monitor view
type HistoryCollector struct {
	mu              sync.RWMutex
	cpuHistory      []models.CPUHistory
	memoryHistory   []models.MemoryHistory
	diskHistory     []models.DiskHistory
	networkHistory  []models.NetworkHistory
	lastNetworkSent uint64
	lastNetworkRecv uint64
	lastTime        time.Time
	maxDataPoints   int
	running         bool
}

var historyCollector = &HistoryCollector{
	cpuHistory:     []models.CPUHistory{},
	memoryHistory:  []models.MemoryHistory{},
	diskHistory:    []models.DiskHistory{},
	networkHistory: []models.NetworkHistory{},
	maxDataPoints:  60,
	lastTime:       time.Now(),
	running:        false,
}

// SetHistoryDepth sets how many points each series retains
func SetHistoryDepth(points int) {
	if points <= 0 {
		return
	}
	historyCollector.mu.Lock()
	historyCollector.maxDataPoints = points
	historyCollector.mu.Unlock()
}

// StartHistoryCollector starts collecting historical metrics
func StartHistoryCollector(interval time.Duration) {
	historyCollector.mu.Lock()
	if historyCollector.running {
		historyCollector.mu.Unlock()
		return
	}
	historyCollector.running = true
	historyCollector.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			historyCollector.mu.RLock()
			running := historyCollector.running
			historyCollector.mu.RUnlock()
			if !running {
				return
			}
			historyCollector.collectSnapshot()
		}
	}()

	log.Printf("History collector started (interval: %v)", interval)
}

// StopHistoryCollector stops the history collector
func StopHistoryCollector() {
	historyCollector.mu.Lock()
	historyCollector.running = false
	historyCollector.mu.Unlock()
	log.Println("History collector stopped")
}

// collectSnapshot takes a snapshot of all metrics.
// System calls are done OUTSIDE the lock to avoid blocking readers.
func (hc *HistoryCollector) collectSnapshot() {
	now := time.Now()

	cpu, cpuErr := GetCPUUsage()
	memory, memErr := GetMemoryUsage()
	disk, diskErr := GetDiskUsage("/")
	network, netErr := GetNetworkUsage()

	hc.mu.Lock()
	defer hc.mu.Unlock()

	if cpuErr == nil && cpu != nil {
		hc.cpuHistory = append(hc.cpuHistory, models.CPUHistory{
			Timestamp: now,
			Usage:     cpu.UsagePercent,
		})
		hc.cpuHistory = trimCPU(hc.cpuHistory, hc.maxDataPoints)
	}

	if memErr == nil && memory != nil {
		hc.memoryHistory = append(hc.memoryHistory, models.MemoryHistory{
			Timestamp:    now,
			UsedGB:       memory.UsedGB,
			AvailableGB:  memory.AvailableGB,
			UsagePercent: memory.UsagePercent,
		})
		hc.memoryHistory = trimMemory(hc.memoryHistory, hc.maxDataPoints)
	}

	if diskErr == nil && disk != nil {
		hc.diskHistory = append(hc.diskHistory, models.DiskHistory{
			Timestamp:    now,
			UsedGB:       disk.UsedGB,
			TotalGB:      disk.TotalGB,
			UsagePercent: disk.UsagePercent,
		})
		hc.diskHistory = trimDisk(hc.diskHistory, hc.maxDataPoints)
	}

	if netErr == nil {
		var totalSent, totalRecv uint64
		for _, iface := range network {
			totalSent += iface.BytesSent
			totalRecv += iface.BytesRecv
		}

		elapsed := now.Sub(hc.lastTime).Seconds()
		var sentRate, recvRate float64
		if elapsed > 0 && hc.lastNetworkSent > 0 && totalSent >= hc.lastNetworkSent {
			sentRate = float64(totalSent-hc.lastNetworkSent) / elapsed
		}
		if elapsed > 0 && hc.lastNetworkRecv > 0 && totalRecv >= hc.lastNetworkRecv {
			recvRate = float64(totalRecv-hc.lastNetworkRecv) / elapsed
		}

		hc.networkHistory = append(hc.networkHistory, models.NetworkHistory{
			Timestamp:     now,
			BytesSent:     totalSent,
			BytesRecv:     totalRecv,
			BytesSentRate: sentRate,
			BytesRecvRate: recvRate,
		})
		hc.networkHistory = trimNetwork(hc.networkHistory, hc.maxDataPoints)

		hc.lastNetworkSent = totalSent
		hc.lastNetworkRecv = totalRecv
		hc.lastTime = now
	}
}

func trimCPU(points []models.CPUHistory, max int) []models.CPUHistory {
	if len(points) > max {
		return points[len(points)-max:]
	}
	return points
}

func trimMemory(points []models.MemoryHistory, max int) []models.MemoryHistory {
	if len(points) > max {
		return points[len(points)-max:]
	}
	return points
}

func trimDisk(points []models.DiskHistory, max int) []models.DiskHistory {
	if len(points) > max {
		return points[len(points)-max:]
	}
	return points
}

func trimNetwork(points []models.NetworkHistory, max int) []models.NetworkHistory {
	if len(points) > max {
		return points[len(points)-max:]
	}
	return points
}

// GetAllHistoricalData returns every series limited to the given window
func GetAllHistoricalData(window time.Duration) *models.HistoricalDataWindow {
	historyCollector.mu.RLock()
	defer historyCollector.mu.RUnlock()

	cutoff := time.Now().Add(-window)

	result := &models.HistoricalDataWindow{}

	for _, p := range historyCollector.cpuHistory {
		if p.Timestamp.After(cutoff) {
			result.CPU = append(result.CPU, p)
		}
	}
	for _, p := range historyCollector.memoryHistory {
		if p.Timestamp.After(cutoff) {
			result.Memory = append(result.Memory, p)
		}
	}
	for _, p := range historyCollector.diskHistory {
		if p.Timestamp.After(cutoff) {
			result.Disk = append(result.Disk, p)
		}
	}
	for _, p := range historyCollector.networkHistory {
		if p.Timestamp.After(cutoff) {
			result.Network = append(result.Network, p)
		}
	}

	return result
}

// GetHistoricalData returns one named series ("cpu", "memory", "disk",
// "network") within the window, or nil for an unknown metric.
func GetHistoricalData(metric string, window time.Duration) interface{} {
	all := GetAllHistoricalData(window)
	switch metric {
	case "cpu":
		return all.CPU
	case "memory":
		return all.Memory
	case "disk":
		return all.Disk
	case "network":
		return all.Network
	default:
		return nil
	}
}
