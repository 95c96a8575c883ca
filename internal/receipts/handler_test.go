package receipts

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/stockwise/stockwise/internal/shared"
	"github.com/stockwise/stockwise/internal/stock"
)

func newTestRouter(service *Service) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Route("/receipts", NewHandler(logger, service, shared.AuthzMiddleware{Logger: logger}).MountRoutes)
	return r
}

func doRequest(t *testing.T, router chi.Router, method, target string, as *shared.Actor) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req = req.WithContext(shared.ContextWithActor(req.Context(), as))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestValidateRouteRespondsToPut(t *testing.T) {
	repo := newMemoryRepo(stock.Product{ID: 1, SKU: "ELE-00001", CurrentStock: 5})
	service, _ := newTestService(repo)
	router := newTestRouter(service)

	created, err := service.Create(context.Background(), actor, CreateReceiptRequest{
		Supplier:     "Acme Supplies",
		ExpectedDate: time.Now().UTC(),
		Items:        []ItemRequest{{ProductID: 1, ExpectedQty: 4, ReceivedQty: 4, QualityStatus: "Pass"}},
	})
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodPut, "/receipts/1/validate", actor)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 9, repo.products[1].CurrentStock)

	stored, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusDone, stored.Status)

	// Only PUT commits a document.
	rec = doRequest(t, router, http.MethodPost, "/receipts/1/validate", actor)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
