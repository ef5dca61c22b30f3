package controller

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/counseling_portal/internal/service"
)

var (
	ErrUnauthorized = errors.New("authentication required")
	ErrBadRequest   = errors.New("invalid request body")
	ErrBadID        = errors.New("invalid appointment id")
)

// statusFor возвращает HTTP-код и текст для клиента.
// Для 500 текст общий, подробности только в логе.
func statusFor(err error, fallback string) (int, string) {
	switch {
	case service.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrBadID):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrUnauthorized), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "Unauthorized access, please log in"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, service.ErrAppointmentNotFound):
		return http.StatusNotFound, "Appointment not found"
	case errors.Is(err, service.ErrStatusConflict):
		return http.StatusConflict, "Appointment status was changed, reload and try again"
	default:
		return http.StatusInternalServerError, fallback
	}
}
