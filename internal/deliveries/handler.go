package deliveries

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stockwise/stockwise/internal/platform/httpx"
	"github.com/stockwise/stockwise/internal/shared"
)

// Handler wires HTTP endpoints for the delivery resource.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   shared.AuthzMiddleware
}

func NewHandler(logger *slog.Logger, service *Service, authz shared.AuthzMiddleware) *Handler {
	return &Handler{logger: logger, service: service, authz: authz}
}

// MountRoutes registers delivery routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require(shared.ResourceDeliveries, shared.OpList)).Get("/", h.list)
	r.With(h.authz.Require(shared.ResourceDeliveries, shared.OpGet)).Get("/{id}", h.get)
	r.With(h.authz.Require(shared.ResourceDeliveries, shared.OpCreate)).Post("/", h.create)
	r.With(h.authz.Require(shared.ResourceDeliveries, shared.OpUpdate)).Put("/{id}", h.update)
	r.With(h.authz.Require(shared.ResourceDeliveries, shared.OpValidate)).Put("/{id}/validate", h.validate)
	r.With(h.authz.Require(shared.ResourceDeliveries, shared.OpDelete)).Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters, err := parseListFilters(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	deliveries, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list deliveries failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.List(w, deliveries, total)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	delivery, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, delivery)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateDeliveryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, fmt.Errorf("invalid body: %w", shared.ErrValidation))
		return
	}
	delivery, err := h.service.Create(r.Context(), shared.ActorFromContext(r.Context()), req)
	if err != nil {
		h.logger.Error("create delivery failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusCreated, "delivery created", delivery)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	var req UpdateDeliveryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, fmt.Errorf("invalid body: %w", shared.ErrValidation))
		return
	}
	delivery, err := h.service.Update(r.Context(), shared.ActorFromContext(r.Context()), id, req)
	if err != nil {
		h.logger.Error("update delivery failed", slog.Any("error", err), slog.Int64("id", id))
		shared.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "delivery updated", delivery)
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	delivery, err := h.service.Validate(r.Context(), shared.ActorFromContext(r.Context()), id)
	if err != nil {
		h.logger.Error("validate delivery failed", slog.Any("error", err), slog.Int64("id", id))
		shared.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "delivery validated", delivery)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), shared.ActorFromContext(r.Context()), id); err != nil {
		h.logger.Error("delete delivery failed", slog.Any("error", err), slog.Int64("id", id))
		shared.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "delivery deleted", nil)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %w", shared.ErrValidation)
	}
	return id, nil
}

func parseListFilters(r *http.Request) (ListFilters, error) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	filters := ListFilters{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	}
	if filters.Status != "" && !Status(filters.Status).IsValid() {
		return ListFilters{}, fmt.Errorf("unknown status %q: %w", filters.Status, shared.ErrValidation)
	}
	if raw := q.Get("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return ListFilters{}, fmt.Errorf("invalid date_from: %w", shared.ErrValidation)
		}
		filters.DateFrom = &t
	}
	if raw := q.Get("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return ListFilters{}, fmt.Errorf("invalid date_to: %w", shared.ErrValidation)
		}
		filters.DateTo = &t
	}
	return filters, nil
}
