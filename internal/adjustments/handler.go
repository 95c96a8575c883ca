package adjustments

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

// Handler wires HTTP endpoints for the adjustment resource.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   shared.AuthzMiddleware
}

func NewHandler(logger *slog.Logger, service *Service, authz shared.AuthzMiddleware) *Handler {
	return &Handler{logger: logger, service: service, authz: authz}
}

// MountRoutes registers adjustment routes. There is no update or validate:
// creation is the stock mutation.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require(shared.ResourceAdjustments, shared.OpList)).Get("/", h.list)
	r.With(h.authz.Require(shared.ResourceAdjustments, shared.OpGet)).Get("/{id}", h.get)
	r.With(h.authz.Require(shared.ResourceAdjustments, shared.OpCreate)).Post("/", h.create)
	r.With(h.authz.Require(shared.ResourceAdjustments, shared.OpDelete)).Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters, err := parseListFilters(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	adjustments, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list adjustments failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.List(w, adjustments, total)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	adjustment, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, adjustment)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateAdjustmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, fmt.Errorf("invalid body: %w", shared.ErrValidation))
		return
	}
	adjustment, err := h.service.Create(r.Context(), shared.ActorFromContext(r.Context()), req)
	if err != nil {
		h.logger.Error("create adjustment failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusCreated, "adjustment created", adjustment)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), shared.ActorFromContext(r.Context()), id); err != nil {
		h.logger.Error("delete adjustment failed", slog.Any("error", err), slog.Int64("id", id))
		shared.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "adjustment deleted", nil)
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
		Reason: q.Get("reason"),
		Page:   page,
		Limit:  limit,
	}
	if raw := q.Get("product_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return ListFilters{}, fmt.Errorf("invalid product_id: %w", shared.ErrValidation)
		}
		filters.ProductID = id
	}
	if filters.Reason != "" && !Reason(filters.Reason).IsValid() {
		return ListFilters{}, fmt.Errorf("unknown reason %q: %w", filters.Reason, shared.ErrValidation)
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
