package auth

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stockwise/stockwise/internal/platform/httpx"
	"github.com/stockwise/stockwise/internal/shared"
)

var validate = validator.New()

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/refresh", h.refresh)
	r.Post("/logout", h.logout)
}

type loginRequest struct {
	LoginID  string `json:"login_id" validate:"required,min=6,max=12"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	All          bool   `json:"all"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, fmt.Errorf("invalid body: %w", shared.ErrValidation))
		return
	}
	if err := validate.Struct(req); err != nil {
		shared.RespondError(w, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation))
		return
	}
	session, err := h.service.Login(r.Context(), req.LoginID, req.Password)
	if err != nil {
		h.logger.Warn("login failed", slog.String("login_id", req.LoginID))
		shared.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, session)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, fmt.Errorf("invalid body: %w", shared.ErrValidation))
		return
	}
	if err := validate.Struct(req); err != nil {
		shared.RespondError(w, fmt.Errorf("%s: %w", err.Error(), shared.ErrValidation))
		return
	}
	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, pair)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, fmt.Errorf("invalid body: %w", shared.ErrValidation))
		return
	}
	if req.All {
		if err := h.service.LogoutAll(r.Context(), shared.ActorFromContext(r.Context())); err != nil {
			shared.RespondError(w, err)
			return
		}
		httpx.OKMessage(w, http.StatusOK, "all sessions revoked", nil)
		return
	}
	if err := h.service.Logout(r.Context(), BearerToken(r), req.RefreshToken); err != nil {
		h.logger.Error("logout failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "logged out", nil)
}
