package models

// CPUStatus represents CPU usage information
type CPUStatus struct {
	UsagePercent float64   `json:"usage_percent"`
	PerCore      []float64 `json:"per_core,omitempty"`
	CoreCount    int       `json:"core_count"`
}

// MemoryStatus represents memory usage information
type MemoryStatus struct {
	TotalGB      float64 `json:"total_gb"`
	UsedGB       float64 `json:"used_gb"`
	AvailableGB  float64 `json:"available_gb"`
	UsagePercent float64 `json:"usage_percent"`
}

// DiskStatus represents disk usage for a single mountpoint
type DiskStatus struct {
	Path         string  `json:"path"`
	TotalGB      float64 `json:"total_gb"`
	UsedGB       float64 `json:"used_gb"`
	FreeGB       float64 `json:"free_gb"`
	UsagePercent float64 `json:"usage_percent"`
	Filesystem   string  `json:"filesystem"`
}

// NetworkStatus represents network interface statistics
type NetworkStatus struct {
	Interface   string  `json:"interface"`
	BytesSent   uint64  `json:"bytes_sent"`
	BytesRecv   uint64  `json:"bytes_recv"`
	PacketsSent uint64  `json:"packets_sent"`
	PacketsRecv uint64  `json:"packets_recv"`
	ErrorsIn    uint64  `json:"errors_in"`
	ErrorsOut   uint64  `json:"errors_out"`
	DropsIn     uint64  `json:"drops_in"`
	DropsOut    uint64  `json:"drops_out"`
	BytesSentGB float64 `json:"bytes_sent_gb"`
	BytesRecvGB float64 `json:"bytes_recv_gb"`
}

// AggregatedNetworkStatus represents network statistics across all interfaces
type AggregatedNetworkStatus struct {
	BytesSent     uint64          `json:"bytes_sent"`
	BytesRecv     uint64          `json:"bytes_recv"`
	BytesSentRate float64         `json:"bytes_sent_rate"` // bytes/sec
	BytesRecvRate float64         `json:"bytes_recv_rate"` // bytes/sec
	Interfaces    []NetworkStatus `json:"interfaces"`
}

// HostStatus represents static host information plus uptime and load
type HostStatus struct {
	Hostname      string  `json:"hostname"`
	Platform      string  `json:"platform"`
	OS            string  `json:"os"`
	KernelVersion string  `json:"kernel_version"`
	Arch          string  `json:"arch"`
	UptimeSeconds uint64  `json:"uptime_seconds"`
	BootTime      uint64  `json:"boot_time"`
	Load1         float64 `json:"load1"`
	Load5         float64 `json:"load5"`
	Load15        float64 `json:"load15"`
}

// SystemStatus combines all system metrics
type SystemStatus struct {
	CPU     *CPUStatus      `json:"cpu"`
	Memory  *MemoryStatus   `json:"memory"`
	Disk    *DiskStatus     `json:"disk"`
	Network []NetworkStatus `json:"network"`
}
