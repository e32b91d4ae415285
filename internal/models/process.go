package models

// ProcessStatus describes a single entry in the process table
type ProcessStatus struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	User       string  `json:"user,omitempty"`
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float64 `json:"mem_percent"`
	Status     string  `json:"status"`
}

// KillRequest asks for a termination signal to be sent to a process.
// Force escalates from SIGTERM to SIGKILL.
type KillRequest struct {
	PID   int32 `json:"pid" binding:"required"`
	Force bool  `json:"force"`
}
