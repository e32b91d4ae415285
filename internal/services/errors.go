package services

import "errors"

var (
	ErrProcessNotFound    = errors.New("process not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrPathNotFound       = errors.New("path not found")
	ErrInvalidSchedule    = errors.New("invalid schedule")
	ErrCronJobNotFound    = errors.New("cron job not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrSessionNotFound    = errors.New("session not found")
)
