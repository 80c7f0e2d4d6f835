package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/assist"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/dispatch"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/handlers"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/ingest"
	"github.com/stretchr/testify/assert"
)

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(ctx context.Context, env dispatch.Envelope) (string, error) {
	return "", nil
}

func (noopDispatcher) Available() bool { return false }

func testRouter() http.Handler {
	apiHandlers := handlers.NewAPIHandlers(assist.NewService(noopDispatcher{}), dispatch.KindDisabled)
	ingestHandler := ingest.NewHandler(nil, nil, nil)
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	return SetupRoutes(apiHandlers, ingestHandler, healthHandler)
}

func TestSetupRoutes_KnownEndpoints(t *testing.T) {
	handler := testRouter()

	tests := []struct {
		method   string
		path     string
		expected int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/v1/assist/status", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		// AI disabled, so assist calls report service unavailable
		{http.MethodPost, "/v1/assist/triage", http.StatusBadRequest},
		// no ticket store wired in this test
		{http.MethodPost, "/v1/webhooks/security-alert", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestSetupRoutes_UnknownPath(t *testing.T) {
	handler := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
