package models

import "time"

// SSHConnection is a saved connection profile. Passwords are accepted
// per-request only and are never part of the persisted profile.
type SSHConnection struct {
	ID      string `json:"id"`
	Name    string `json:"name" binding:"required"`
	Host    string `json:"host" binding:"required"`
	User    string `json:"user" binding:"required"`
	Port    int    `json:"port"`
	KeyPath string `json:"key_path,omitempty"`
}

// SSHDialRequest carries the parameters for a session, test or exec call.
// Either ConnectionID references a saved profile or Host/User are given
// inline; Password and KeyPath are the credential for this call only.
type SSHDialRequest struct {
	ConnectionID string `json:"connection_id,omitempty"`
	Host         string `json:"host,omitempty"`
	User         string `json:"user,omitempty"`
	Port         int    `json:"port,omitempty"`
	Password     string `json:"password,omitempty"`
	KeyPath      string `json:"key_path,omitempty"`
}

// SSHExecRequest runs a single command over a fresh connection
type SSHExecRequest struct {
	SSHDialRequest
	Command string `json:"command" binding:"required"`
}

// SSHExecResult is the outcome of a one-shot remote command
type SSHExecResult struct {
	Output   string        `json:"output"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration_ns"`
}

// SSHSessionInfo describes an active interactive session
type SSHSessionInfo struct {
	ID        string    `json:"id"`
	Target    string    `json:"target"` // user@host:port
	StartedAt time.Time `json:"started_at"`
}

// SSHInputRequest writes a line to an interactive session's stdin
type SSHInputRequest struct {
	Input string `json:"input" binding:"required"`
}
