package categories

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stockwise/stockwise/internal/platform/httpx"
	"github.com/stockwise/stockwise/internal/shared"
)

// Handler wires HTTP endpoints for the category resource.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   shared.AuthzMiddleware
}

func NewHandler(logger *slog.Logger, service *Service, authz shared.AuthzMiddleware) *Handler {
	return &Handler{logger: logger, service: service, authz: authz}
}

// MountRoutes registers category routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require(shared.ResourceCategories, shared.OpList)).Get("/", h.list)
	r.With(h.authz.Require(shared.ResourceCategories, shared.OpGet)).Get("/{id}", h.get)
	r.With(h.authz.Require(shared.ResourceCategories, shared.OpCreate)).Post("/", h.create)
	r.With(h.authz.Require(shared.ResourceCategories, shared.OpUpdate)).Put("/{id}", h.update)
	r.With(h.authz.Require(shared.ResourceCategories, shared.OpDelete)).Delete("/{id}", h.delete)
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
	filters := ListFilters{
		Search:        q.Get("search"),
		IncludeHidden: q.Get("include_hidden") == "true",
		Page:          page,
		Limit:         limit,
	}

	categories, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list categories failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.List(w, categories, total)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, category)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, fmt.Errorf("invalid body: %w", shared.ErrValidation))
		return
	}
	category, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create category failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusCreated, "category created", category)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	var req UpdateCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, fmt.Errorf("invalid body: %w", shared.ErrValidation))
		return
	}
	category, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update category failed", slog.Any("error", err), slog.Int64("id", id))
		shared.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "category updated", category)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete category failed", slog.Any("error", err), slog.Int64("id", id))
		shared.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "category deleted", nil)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %w", shared.ErrValidation)
	}
	return id, nil
}
