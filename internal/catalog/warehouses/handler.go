package warehouses

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stockwise/stockwise/internal/platform/httpx"
	"github.com/stockwise/stockwise/internal/shared"
)

// Handler wires HTTP endpoints for the warehouse resource.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   shared.AuthzMiddleware
}

func NewHandler(logger *slog.Logger, service *Service, authz shared.AuthzMiddleware) *Handler {
	return &Handler{logger: logger, service: service, authz: authz}
}

// MountRoutes registers warehouse routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require(shared.ResourceWarehouses, shared.OpList)).Get("/", h.list)
	r.With(h.authz.Require(shared.ResourceWarehouses, shared.OpGet)).Get("/{id}", h.get)
	r.With(h.authz.Require(shared.ResourceWarehouses, shared.OpCreate)).Post("/", h.create)
	r.With(h.authz.Require(shared.ResourceWarehouses, shared.OpUpdate)).Put("/{id}", h.update)
	r.With(h.authz.Require(shared.ResourceWarehouses, shared.OpDelete)).Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	warehouses, total, err := h.service.List(r.Context(), ListFilters{
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		h.logger.Error("list warehouses failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.List(w, warehouses, total)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	warehouse, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, warehouse)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateWarehouseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, fmt.Errorf("invalid body: %w", shared.ErrValidation))
		return
	}
	warehouse, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create warehouse failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusCreated, "warehouse created", warehouse)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	var req UpdateWarehouseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, fmt.Errorf("invalid body: %w", shared.ErrValidation))
		return
	}
	warehouse, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update warehouse failed", slog.Any("error", err), slog.Int64("id", id))
		shared.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "warehouse updated", warehouse)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete warehouse failed", slog.Any("error", err), slog.Int64("id", id))
		shared.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "warehouse deleted", nil)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %w", shared.ErrValidation)
	}
	return id, nil
}
