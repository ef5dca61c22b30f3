package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/Freeeeeet/counseling_portal/internal/service"
	"go.uber.org/zap"
)

// HandleLogin POST /api/auth/login
func (c *PortalController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.fail(w, r, err, "", nil)
		return
	}

	token, user, err := c.auth.Login(r.Context(), req)
	if err != nil {
		c.fail(w, r, err, "Login failed", nil)
		return
	}

	c.success(w, envelope{
		"message": "Login successful",
		"token":   token,
		"role":    user.Role,
		"user_id": user.ID,
	})
}

// HandleHealth GET /healthz
func (c *PortalController) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(ctx); err != nil {
		c.logger.Error("Health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, envelope{"status": statusError, "message": "database unavailable"})
		return
	}

	c.success(w, envelope{"message": "ok"})
}
