package services

import (
	"log"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"opsdeck/internal/models"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessWithScore helps with sorting
type ProcessWithScore struct {
	models.ProcessStatus
	Score float64
}

// ProcessCollectorCache holds the real-time collected process data
type ProcessCollectorCache struct {
	mu          sync.RWMutex
	processes   []models.ProcessStatus
	totalCPU    float64
	totalMem    float64
	lastUpdated time.Time
	running     bool
}

var collector = &ProcessCollectorCache{
	processes: []models.ProcessStatus{},
	running:   false,
}

// StartProcessCollector starts the background process collector.
// interval is the collection frequency (e.g., time.Second for 1 second)
func StartProcessCollector(interval time.Duration) {
	collector.mu.Lock()
	if collector.running {
		collector.mu.Unlock()
		return // Already running
	}
	collector.running = true
	collector.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			collector.mu.Lock()
			if !collector.running {
				collector.mu.Unlock()
				return
			}
			collector.mu.Unlock()

			// Table scan happens outside the lock, it can take a while.
			processes, totalCPU, totalMem, err := GetTopProcessesWithTotals()
			if err != nil {
				log.Printf("Process collection error: %v", err)
				continue
			}

			collector.mu.Lock()
			collector.processes = processes
			collector.totalCPU = totalCPU
			collector.totalMem = totalMem
			collector.lastUpdated = time.Now()
			collector.mu.Unlock()
		}
	}()

	log.Printf("Process collector started (interval: %v)", interval)
}

// StopProcessCollector stops the background process collector
func StopProcessCollector() {
	collector.mu.Lock()
	collector.running = false
	collector.mu.Unlock()
	log.Println("Process collector stopped")
}

// GetCachedProcesses returns the latest cached process data
func GetCachedProcesses() ([]models.ProcessStatus, float64, float64, time.Time) {
	collector.mu.RLock()
	defer collector.mu.RUnlock()
	return collector.processes, collector.totalCPU, collector.totalMem, collector.lastUpdated
}

// GetTopProcessesWithTotals returns top 20 processes with resource totals.
// Pipeline: Collect → Enrich → Sort → Limit
func GetTopProcessesWithTotals() ([]models.ProcessStatus, float64, float64, error) {
	collected, err := collectProcesses("")
	if err != nil {
		return nil, 0, 0, err
	}

	enriched := enrichWithScores(collected)
	sorted := sortByScore(enriched)
	limited := limitTo(sorted, 20)

	var totalCPU, totalMem float64
	result := make([]models.ProcessStatus, 0, len(limited))
	for _, p := range limited {
		result = append(result, p.ProcessStatus)
		totalCPU += p.CPUPercent
		totalMem += p.MemPercent
	}

	return result, totalCPU, totalMem, nil
}

// ListProcesses returns the full process table, optionally filtered by a
// case-insensitive substring match on the process name or user.
func ListProcesses(filter string) ([]models.ProcessStatus, error) {
	collected, err := collectProcesses(filter)
	if err != nil {
		return nil, err
	}

	sorted := sortByScore(enrichWithScores(collected))
	result := make([]models.ProcessStatus, 0, len(sorted))
	for _, p := range sorted {
		result = append(result, p.ProcessStatus)
	}
	return result, nil
}

// collectProcesses reads the OS process table
func collectProcesses(filter string) ([]ProcessWithScore, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	filter = strings.ToLower(filter)

	var processes []ProcessWithScore
	seenPIDs := make(map[int32]bool)

	for _, p := range procs {
		if seenPIDs[p.Pid] {
			continue
		}
		seenPIDs[p.Pid] = true

		name, err := p.Name()
		if err != nil {
			continue
		}

		user, err := p.Username()
		if err != nil {
			user = ""
		}

		if filter != "" &&
			!strings.Contains(strings.ToLower(name), filter) &&
			!strings.Contains(strings.ToLower(user), filter) {
			continue
		}

		cpuPercent, err := p.CPUPercent()
		if err != nil {
			cpuPercent = 0
		}

		memPercent, err := p.MemoryPercent()
		if err != nil {
			memPercent = 0
		}

		status, err := p.Status()
		if err != nil || len(status) == 0 {
			status = []string{"unknown"}
		}

		ps := models.ProcessStatus{
			PID:        p.Pid,
			Name:       name,
			User:       user,
			CPUPercent: cpuPercent,
			MemPercent: float64(memPercent),
			Status:     mapProcessState(status[0]),
		}

		processes = append(processes, ProcessWithScore{ProcessStatus: ps})
	}

	return processes, nil
}

// ENRICH: Calculate combined scores
func enrichWithScores(processes []ProcessWithScore) []ProcessWithScore {
	enriched := make([]ProcessWithScore, len(processes))
	for i, p := range processes {
		p.Score = p.CPUPercent + p.MemPercent
		enriched[i] = p
	}
	return enriched
}

// SORT: By score descending
func sortByScore(processes []ProcessWithScore) []ProcessWithScore {
	sorted := make([]ProcessWithScore, len(processes))
	copy(sorted, processes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted
}

// LIMIT: Keep only top N
func limitTo(processes []ProcessWithScore, limit int) []ProcessWithScore {
	if len(processes) > limit {
		return processes[:limit]
	}
	return processes
}

// mapProcessState converts process state codes to readable strings
func mapProcessState(state string) string {
	if len(state) == 0 {
		return "unknown"
	}
	switch state[0] {
	case 'R':
		return "running"
	case 'S':
		return "sleeping"
	case 'D':
		return "disk_sleep"
	case 'Z':
		return "zombie"
	case 'T':
		return "stopped"
	case 't':
		return "tracing_stop"
	case 'W':
		return "paging"
	case 'X', 'x':
		return "dead"
	case 'K':
		return "wakekill"
	case 'P':
		return "parked"
	case 'I':
		return "idle"
	default:
		return state
	}
}

// KillProcess delivers a termination signal to pid. SIGTERM by default,
// SIGKILL when force is set. An unknown PID maps to ErrProcessNotFound
// and EPERM to ErrPermissionDenied; the process table is left untouched
// in both cases.
func KillProcess(pid int32, force bool) error {
	exists, err := process.PidExists(pid)
	if err != nil {
		return err
	}
	if !exists {
		return ErrProcessNotFound
	}

	p, err := process.NewProcess(pid)
	if err != nil {
		return ErrProcessNotFound
	}

	if force {
		err = p.Kill()
	} else {
		err = p.Terminate()
	}
	if err != nil {
		switch {
		case isErrno(err, syscall.ESRCH):
			return ErrProcessNotFound
		case isErrno(err, syscall.EPERM), isErrno(err, syscall.EACCES):
			return ErrPermissionDenied
		default:
			return err
		}
	}

	log.Printf("Signal delivered to pid %d (force=%v)", pid, force)
	return nil
}

func isErrno(err error, target syscall.Errno) bool {
	for err != nil {
		if errno, ok := err.(syscall.Errno); ok {
			return errno == target
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// GetProcessCount returns the total number of running processes
func GetProcessCount() (int, error) {
	procs, err := process.Processes()
	if err != nil {
		return 0, err
	}
	return len(procs), nil
}

// GetProcessCountSimple returns a simple map with process count
func GetProcessCountSimple() (map[string]interface{}, error) {
	count, err := GetProcessCount()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"total_processes": count,
	}, nil
}
