package services

import (
	"sync"
	"time"

	"opsdeck/internal/models"
)

// MetricsCache holds cached metric values with TTL
type MetricsCache struct {
	mu               sync.RWMutex
	cpuCache         *models.CPUStatus
	cpuCacheTime     time.Time
	memoryCache      *models.MemoryStatus
	memoryCacheTime  time.Time
	diskCache        *models.DiskStatus
	diskCacheTime    time.Time
	networkCache     []models.NetworkStatus
	networkCacheTime time.Time
	lastNetworkBytes struct {
		sent uint64
		recv uint64
		time time.Time
	}
	ttl time.Duration
}

var metricsCache = &MetricsCache{
	ttl: 1 * time.Second,
}

// SetCacheTTL sets the cache time-to-live
func SetCacheTTL(duration time.Duration) {
	metricsCache.mu.Lock()
	defer metricsCache.mu.Unlock()
	metricsCache.ttl = duration
}

// isCacheValid checks if cache is still valid
func (mc *MetricsCache) isCacheValid(cacheTime time.Time) bool {
	return time.Since(cacheTime) < mc.ttl
}

// GetCachedCPU returns cached CPU data if valid, otherwise fetches fresh
func GetCachedCPU() (*models.CPUStatus, error) {
	metricsCache.mu.RLock()
	if metricsCache.isCacheValid(metricsCache.cpuCacheTime) && metricsCache.cpuCache != nil {
		defer metricsCache.mu.RUnlock()
		return metricsCache.cpuCache, nil
	}
	metricsCache.mu.RUnlock()

	cpu, err := GetCPUUsage()
	if err != nil {
		return nil, err
	}

	metricsCache.mu.Lock()
	metricsCache.cpuCache = cpu
	metricsCache.cpuCacheTime = time.Now()
	metricsCache.mu.Unlock()

	return cpu, nil
}

// GetCachedMemory returns cached memory data if valid, otherwise fetches fresh
func GetCachedMemory() (*models.MemoryStatus, error) {
	metricsCache.mu.RLock()
	if metricsCache.isCacheValid(metricsCache.memoryCacheTime) && metricsCache.memoryCache != nil {
		defer metricsCache.mu.RUnlock()
		return metricsCache.memoryCache, nil
	}
	metricsCache.mu.RUnlock()

	memory, err := GetMemoryUsage()
	if err != nil {
		return nil, err
	}

	metricsCache.mu.Lock()
	metricsCache.memoryCache = memory
	metricsCache.memoryCacheTime = time.Now()
	metricsCache.mu.Unlock()

	return memory, nil
}

// GetCachedDisk returns cached disk data if valid, otherwise fetches fresh
func GetCachedDisk() (*models.DiskStatus, error) {
	metricsCache.mu.RLock()
	if metricsCache.isCacheValid(metricsCache.diskCacheTime) && metricsCache.diskCache != nil {
		defer metricsCache.mu.RUnlock()
		return metricsCache.diskCache, nil
	}
	metricsCache.mu.RUnlock()

	disk, err := GetDiskUsage("/")
	if err != nil {
		return nil, err
	}

	metricsCache.mu.Lock()
	metricsCache.diskCache = disk
	metricsCache.diskCacheTime = time.Now()
	metricsCache.mu.Unlock()

	return disk, nil
}

// GetCachedNetwork returns cached network data if valid, otherwise fetches
// fresh and updates the byte counters used for rate calculation.
func GetCachedNetwork() ([]models.NetworkStatus, error) {
	metricsCache.mu.RLock()
	if metricsCache.isCacheValid(metricsCache.networkCacheTime) && metricsCache.networkCache != nil {
		defer metricsCache.mu.RUnlock()
		return metricsCache.networkCache, nil
	}
	metricsCache.mu.RUnlock()

	network, err := GetNetworkUsage()
	if err != nil {
		return nil, err
	}

	var totalSent, totalRecv uint64
	for _, iface := range network {
		totalSent += iface.BytesSent
		totalRecv += iface.BytesRecv
	}

	metricsCache.mu.Lock()
	metricsCache.networkCache = network
	metricsCache.networkCacheTime = time.Now()
	metricsCache.lastNetworkBytes.sent = totalSent
	metricsCache.lastNetworkBytes.recv = totalRecv
	metricsCache.lastNetworkBytes.time = time.Now()
	metricsCache.mu.Unlock()

	return network, nil
}

// GetNetworkRates returns the current send/receive rates in bytes/sec,
// derived from the two most recent network samples.
func GetNetworkRates() (float64, float64) {
	metricsCache.mu.RLock()
	lastSent := metricsCache.lastNetworkBytes.sent
	lastRecv := metricsCache.lastNetworkBytes.recv
	lastTime := metricsCache.lastNetworkBytes.time
	metricsCache.mu.RUnlock()

	if lastTime.IsZero() {
		return 0, 0
	}

	network, err := GetNetworkUsage()
	if err != nil {
		return 0, 0
	}

	var totalSent, totalRecv uint64
	for _, iface := range network {
		totalSent += iface.BytesSent
		totalRecv += iface.BytesRecv
	}

	elapsed := time.Since(lastTime).Seconds()
	if elapsed <= 0 {
		return 0, 0
	}

	var sentRate, recvRate float64
	if totalSent >= lastSent {
		sentRate = float64(totalSent-lastSent) / elapsed
	}
	if totalRecv >= lastRecv {
		recvRate = float64(totalRecv-lastRecv) / elapsed
	}

	return sentRate, recvRate
}
