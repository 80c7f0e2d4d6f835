package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/logger"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORSMiddleware_PreflightAnsweredDirectly(t *testing.T) {
	reached := false
	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/v1/webhooks/security-alert", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, reached, "preflight should not reach the next handler")
	assert.Equal(t, "*", rec.Header().Get(utils.HeaderAccessControlAllowOrigin))
	assert.NotEmpty(t, rec.Header().Get(utils.HeaderAccessControlAllowMethods))
}

func TestCORSMiddleware_PassesThroughOtherMethods(t *testing.T) {
	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/assist/triage", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(utils.HeaderAccessControlAllowOrigin))
}

func TestRequestCorrelationMiddleware_GeneratesTrackingIDs(t *testing.T) {
	var ctxRequestID, ctxCorrelationID string
	handler := RequestCorrelationMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxRequestID, _ = r.Context().Value(logger.RequestIDKey).(string)
		ctxCorrelationID, _ = r.Context().Value(logger.CorrelationIDKey).(string)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(utils.HeaderRequestID))
	assert.NotEmpty(t, rec.Header().Get(utils.HeaderCorrelationID))
	assert.Equal(t, rec.Header().Get(utils.HeaderRequestID), ctxRequestID)
	assert.Equal(t, rec.Header().Get(utils.HeaderCorrelationID), ctxCorrelationID)
}

func TestRequestCorrelationMiddleware_ClientIDsTakePriority(t *testing.T) {
	handler := RequestCorrelationMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/assist/status", nil)
	req.Header.Set(utils.HeaderRequestID, "client-req-1")
	req.Header.Set(utils.HeaderCorrelationID, "client-corr-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "client-req-1", rec.Header().Get(utils.HeaderRequestID))
	assert.Equal(t, "client-corr-1", rec.Header().Get(utils.HeaderCorrelationID))
}

func TestRequestCorrelationMiddleware_BodyPassesThrough(t *testing.T) {
	handler := RequestCorrelationMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/security-alert", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}
