package services

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"opsdeck/internal/models"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

const GB = 1024 * 1024 * 1024

// GetCPUUsage returns CPU usage percentage
func GetCPUUsage() (*models.CPUStatus, error) {
	percentage, err := cpu.Percent(0, false)
	if err != nil {
		return nil, err
	}

	perCore, err := cpu.Percent(0, true)
	if err != nil {
		log.Printf("Warning: Could not get per-core CPU usage: %v", err)
		perCore = nil
	}

	coreCount, err := cpu.Counts(true)
	if err != nil {
		log.Printf("Warning: Could not get CPU core count: %v", err)
		coreCount = 0
	}

	return &models.CPUStatus{
		UsagePercent: percentage[0],
		PerCore:      perCore,
		CoreCount:    coreCount,
	}, nil
}

// GetMemoryUsage returns memory usage information
func GetMemoryUsage() (*models.MemoryStatus, error) {
	virtualMemory, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}

	return &models.MemoryStatus{
		TotalGB:      float64(virtualMemory.Total) / GB,
		UsedGB:       float64(virtualMemory.Used) / GB,
		AvailableGB:  float64(virtualMemory.Available) / GB,
		UsagePercent: virtualMemory.UsedPercent,
	}, nil
}

// GetDiskUsage returns disk usage for a specific path
func GetDiskUsage(path string) (*models.DiskStatus, error) {
	if path == "" {
		path = "/"
	}

	usage, err := disk.Usage(path)
	if err != nil {
		return nil, err
	}

	return &models.DiskStatus{
		Path:         path,
		TotalGB:      float64(usage.Total) / GB,
		UsedGB:       float64(usage.Used) / GB,
		FreeGB:       float64(usage.Free) / GB,
		UsagePercent: usage.UsedPercent,
		Filesystem:   usage.Fstype,
	}, nil
}

// GetAllDiskUsage returns disk usage for all partitions
func GetAllDiskUsage() ([]models.DiskStatus, error) {
	partitions, err := disk.Partitions(false)
	if err != nil {
		return nil, err
	}

	var statuses []models.DiskStatus

	for _, partition := range partitions {
		usage, err := disk.Usage(partition.Mountpoint)
		if err != nil {
			log.Printf("Warning: Could not get disk usage for %s: %v", partition.Mountpoint, err)
			continue
		}

		statuses = append(statuses, models.DiskStatus{
			Path:         partition.Mountpoint,
			TotalGB:      float64(usage.Total) / GB,
			UsedGB:       float64(usage.Used) / GB,
			FreeGB:       float64(usage.Free) / GB,
			UsagePercent: usage.UsedPercent,
			Filesystem:   partition.Fstype,
		})
	}

	return statuses, nil
}

// GetNetworkUsage returns network statistics for all interfaces
func GetNetworkUsage() ([]models.NetworkStatus, error) {
	counters, err := net.IOCounters(true)
	if err != nil {
		return nil, err
	}

	var statuses []models.NetworkStatus

	for _, counter := range counters {
		statuses = append(statuses, models.NetworkStatus{
			Interface:   counter.Name,
			BytesSent:   counter.BytesSent,
			BytesRecv:   counter.BytesRecv,
			PacketsSent: counter.PacketsSent,
			PacketsRecv: counter.PacketsRecv,
			ErrorsIn:    counter.Errin,
			ErrorsOut:   counter.Errout,
			DropsIn:     counter.Dropin,
			DropsOut:    counter.Dropout,
			BytesSentGB: float64(counter.BytesSent) / GB,
			BytesRecvGB: float64(counter.BytesRecv) / GB,
		})
	}

	return statuses, nil
}

// GetHostStatus returns host identity, uptime and load averages
func GetHostStatus() (*models.HostStatus, error) {
	info, err := host.Info()
	if err != nil {
		return nil, err
	}

	status := &models.HostStatus{
		Hostname:      info.Hostname,
		Platform:      fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion),
		OS:            info.OS,
		KernelVersion: info.KernelVersion,
		Arch:          info.KernelArch,
		UptimeSeconds: info.Uptime,
		BootTime:      info.BootTime,
	}

	avg, err := load.Avg()
	if err != nil {
		log.Printf("Warning: Could not get load averages: %v", err)
	} else {
		status.Load1 = avg.Load1
		status.Load5 = avg.Load5
		status.Load15 = avg.Load15
	}

	return status, nil
}

// systemLogSources are checked in order for general system activity
var systemLogSources = []string{"/var/log/syslog", "/var/log/messages", "/var/log/kern.log", "/var/log/dmesg"}

// GetSystemLogs returns recent lines from the first readable system log,
// falling back to journalctl on systemd hosts.
func GetSystemLogs(limit int) (source string, lines []string, err error) {
	if limit <= 0 {
		limit = 100
	}

	for _, logFile := range systemLogSources {
		if _, statErr := os.Stat(logFile); statErr != nil {
			continue
		}
		out, tailErr := exec.Command("tail", "-n", strconv.Itoa(limit), logFile).Output()
		if tailErr != nil {
			continue
		}

		tailed := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
		if len(tailed) > 0 && tailed[0] != "" {
			return logFile, tailed, nil
		}
	}

	out, jErr := exec.Command("journalctl", "-n", strconv.Itoa(limit), "--no-pager").Output()
	if jErr == nil {
		return "journalctl", strings.Split(strings.TrimRight(string(out), "\n"), "\n"), nil
	}

	return "", nil, fmt.Errorf("no accessible system logs found")
}

// GetSystemStatus returns complete system status
func GetSystemStatus() (*models.SystemStatus, error) {
	cpuStatus, err := GetCPUUsage()
	if err != nil {
		return nil, fmt.Errorf("failed to get CPU usage: %w", err)
	}

	memStatus, err := GetMemoryUsage()
	if err != nil {
		return nil, fmt.Errorf("failed to get memory usage: %w", err)
	}

	diskStatus, err := GetDiskUsage("/")
	if err != nil {
		return nil, fmt.Errorf("failed to get disk usage: %w", err)
	}

	networkStatus, err := GetNetworkUsage()
	if err != nil {
		return nil, fmt.Errorf("failed to get network usage: %w", err)
	}

	return &models.SystemStatus{
		CPU:     cpuStatus,
		Memory:  memStatus,
		Disk:    diskStatus,
		Network: networkStatus,
	}, nil
}
