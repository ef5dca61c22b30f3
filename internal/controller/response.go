package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Freeeeeet/counseling_portal/internal/service"
	"go.uber.org/zap"
)

// envelope плоский JSON-ответ {status, message, ...}
type envelope map[string]interface{}

const (
	statusSuccess = "success"
	statusError   = "error"
)

func writeJSON(w http.ResponseWriter, code int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func (c *PortalController) success(w http.ResponseWriter, fields envelope) {
	body := envelope{"status": statusSuccess}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// fail пишет ошибку; empty - пустые списки, чтобы клиент рисовал "нет результатов"
func (c *PortalController) fail(w http.ResponseWriter, r *http.Request, err error, fallback string, empty envelope) {
	code, message := statusFor(err, fallback)

	fields := []zap.Field{
		zap.String("request_id", requestIDFrom(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Int("status", code),
		zap.Error(err),
	}
	if code >= http.StatusInternalServerError {
		c.logger.Error("Request failed", fields...)
	} else {
		c.logger.Debug("Request rejected", fields...)
	}

	body := envelope{"status": statusError, "message": message}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		body["errors"] = ve.Fields
	}
	for k, v := range empty {
		body[k] = v
	}
	writeJSON(w, code, body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst); err != nil {
		return ErrBadRequest
	}
	return nil
}
