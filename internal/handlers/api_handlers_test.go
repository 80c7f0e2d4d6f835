package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/assist"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDispatcher struct {
	available bool
	response  string
	err       error
}

func (s *stubDispatcher) Dispatch(ctx context.Context, env dispatch.Envelope) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubDispatcher) Available() bool { return s.available }

func newHandlers(dispatcher *stubDispatcher, mode dispatch.Kind) *APIHandlers {
	return NewAPIHandlers(assist.NewService(dispatcher), mode)
}

func postJSON(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestStatusHandler(t *testing.T) {
	h := newHandlers(&stubDispatcher{available: true}, dispatch.KindDirect)

	req := httptest.NewRequest(http.MethodGet, "/v1/assist/status", nil)
	rec := httptest.NewRecorder()
	h.StatusHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Available)
	assert.Equal(t, "direct", status.Mode)
}

func TestTriageHandler_Success(t *testing.T) {
	h := newHandlers(&stubDispatcher{
		available: true,
		response:  `{"suggestedCategory":"Hardware","suggestedPriority":"Média","suggestedSolution":"Verificar cabo","isSecurityIncident":false}`,
	}, dispatch.KindDirect)

	rec := postJSON(h.TriageHandler, "/v1/assist/triage", `{"description":"A impressora do 2º andar não liga"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result assist.TriageResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Média", result.SuggestedPriority)
}

func TestTriageHandler_MissingDescription(t *testing.T) {
	h := newHandlers(&stubDispatcher{available: true}, dispatch.KindDirect)

	rec := postJSON(h.TriageHandler, "/v1/assist/triage", `{"historical":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "description")
}

func TestTriageHandler_MethodNotAllowed(t *testing.T) {
	h := newHandlers(&stubDispatcher{available: true}, dispatch.KindDirect)

	req := httptest.NewRequest(http.MethodGet, "/v1/assist/triage", nil)
	rec := httptest.NewRecorder()
	h.TriageHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTriageHandler_AIUnavailable(t *testing.T) {
	h := newHandlers(&stubDispatcher{available: false}, dispatch.KindDisabled)

	rec := postJSON(h.TriageHandler, "/v1/assist/triage", `{"description":"rede lenta"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestParseAlertHandler_RequiresPayload(t *testing.T) {
	h := newHandlers(&stubDispatcher{available: true}, dispatch.KindDirect)

	rec := postJSON(h.ParseAlertHandler, "/v1/assist/parse-alert", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVulnerabilityHandler_Success(t *testing.T) {
	h := newHandlers(&stubDispatcher{
		available: true,
		response:  `{"found":true,"cve":"CVE-2024-12345","severity":"high","summary":"RCE","recommendation":"upgrade"}`,
	}, dispatch.KindProxy)

	rec := postJSON(h.VulnerabilityHandler, "/v1/assist/vulnerability", `{"product":"ExampleApp","version":"1.2.3"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result assist.VulnerabilityResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Found)
	assert.Equal(t, "CVE-2024-12345", result.CVE)
}

func TestExtractDeviceHandler_InvalidBase64(t *testing.T) {
	h := newHandlers(&stubDispatcher{available: true}, dispatch.KindDirect)

	rec := postJSON(h.ExtractDeviceHandler, "/v1/assist/extract-device", `{"data":"not base64!!","mimeType":"image/png"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractDeviceHandler_ContractErrorIsBadGateway(t *testing.T) {
	h := newHandlers(&stubDispatcher{available: true, response: "unreadable label"}, dispatch.KindDirect)

	rec := postJSON(h.ExtractDeviceHandler, "/v1/assist/extract-device", `{"data":"aGVsbG8=","mimeType":"image/jpeg"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCommandHandler_UnknownFieldRejected(t *testing.T) {
	h := newHandlers(&stubDispatcher{available: true}, dispatch.KindDirect)

	rec := postJSON(h.CommandHandler, "/v1/assist/command", `{"utterance":"lista tickets","bogus":true}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
