package deliveries

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/stockwise/stockwise/internal/shared"
	"github.com/stockwise/stockwise/internal/stock"
)

func newTestRouter(service *Service) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Route("/deliveries", NewHandler(logger, service, shared.AuthzMiddleware{Logger: logger}).MountRoutes)
	return r
}

func TestValidateRouteRespondsToPut(t *testing.T) {
	repo := newMemoryRepo(stock.Product{ID: 1, SKU: "ELE-00001", CurrentStock: 10})
	service, _ := newTestService(repo)
	router := newTestRouter(service)

	created, err := service.Create(context.Background(), actor, createRequest(
		ItemRequest{ProductID: 1, RequestedQty: 4, PickedQty: 4},
	))
	require.NoError(t, err)

	manager := &shared.Actor{UserID: 9, Role: shared.RoleInventoryManager}
	req := httptest.NewRequest(http.MethodPut, "/deliveries/1/validate", nil)
	req = req.WithContext(shared.ContextWithActor(req.Context(), manager))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 6, repo.products[1].CurrentStock)

	stored, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusDelivered, stored.Status)

	// Only PUT commits a document.
	req = httptest.NewRequest(http.MethodPost, "/deliveries/1/validate", nil)
	req = req.WithContext(shared.ContextWithActor(req.Context(), manager))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
