package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"medix/internal/auth/models"
	"medix/internal/platform/middleware"
	"medix/internal/transport/http/shared"
	dErrors "medix/pkg/domain-errors"
)

// Service defines the auth operations the handler needs.
type Service interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, jti string, ttl time.Duration) error
}

// Handler serves /auth routes.
type Handler struct {
	auth   Service
	logger *slog.Logger
}

func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

// Register mounts the auth routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.auth.Login(ctx, req)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "login failed",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, resp)
}

// handleLogout revokes the presented token. The authentication middleware has
// already validated it and stashed the jti; the TTL is bounded by the access
// token lifetime, so a generous fixed window is safe.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jti := middleware.GetJTI(ctx)
	if err := h.auth.Logout(ctx, jti, 8*time.Hour); err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "logout failed",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
