package models

import "time"

// ShellRequest runs one command in the integrated terminal
type ShellRequest struct {
	Command    string `json:"command" binding:"required"`
	WorkingDir string `json:"working_dir,omitempty"`
}

// ShellResult is the outcome of a terminal command. A nonzero exit code
// is a normal result, not a transport error.
type ShellResult struct {
	Command    string        `json:"command"`
	Output     string        `json:"output"`
	ExitCode   int           `json:"exit_code"`
	WorkingDir string        `json:"working_dir"`
	Duration   time.Duration `json:"duration_ns"`
	TimedOut   bool          `json:"timed_out,omitempty"`
}
