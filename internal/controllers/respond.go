package controllers

import (
	"errors"
	"net/http"

	"opsdeck/internal/services"
)

// errorStatus maps service errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrProcessNotFound),
		errors.Is(err, services.ErrPathNotFound),
		errors.Is(err, services.ErrCronJobNotFound),
		errors.Is(err, services.ErrConnectionNotFound),
		errors.Is(err, services.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidSchedule):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
