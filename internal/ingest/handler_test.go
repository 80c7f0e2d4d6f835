package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/assist"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTicketStore struct {
	tickets []*database.Ticket
	err     error
}

func (s *memoryTicketStore) Insert(ctx context.Context, ticket *database.Ticket) error {
	if s.err != nil {
		return s.err
	}
	s.tickets = append(s.tickets, ticket)
	return nil
}

type stubEquipmentFinder struct {
	results []database.Equipment
	err     error
	hint    string
}

func (f *stubEquipmentFinder) FindByHint(ctx context.Context, hint string) ([]database.Equipment, error) {
	f.hint = hint
	return f.results, f.err
}

type stubAlertParser struct {
	available bool
	parsed    *assist.ParsedAlert
	err       error
}

func (p *stubAlertParser) Available() bool { return p.available }

func (p *stubAlertParser) ParseAlert(ctx context.Context, rawPayload string) (*assist.ParsedAlert, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.parsed, nil
}

func postAlert(t *testing.T, handler *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/security-alert", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleSecurityAlert(rec, req)
	return rec
}

func TestHandleSecurityAlert_CriticalNoInventoryMatch(t *testing.T) {
	store := &memoryTicketStore{}
	finder := &stubEquipmentFinder{}
	handler := NewHandler(store, finder, nil)

	rec := postAlert(t, handler, `{"hostname":"PC-FIN-01","severity":"critical"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var response ingestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	_, err := uuid.Parse(response.TicketID)
	assert.NoError(t, err, "ticketId should be a uuid")

	require.Len(t, store.tickets, 1)
	ticket := store.tickets[0]
	assert.Equal(t, "Crítica", ticket.ImpactCriticality)
	assert.Empty(t, ticket.EquipmentID)
	assert.Equal(t, "Incidente de Segurança", ticket.Category)
	assert.Equal(t, "Aberto", ticket.Status)
	assert.Equal(t, "PC-FIN-01", finder.hint)
}

func TestHandleSecurityAlert_MatchesEquipment(t *testing.T) {
	store := &memoryTicketStore{}
	finder := &stubEquipmentFinder{results: []database.Equipment{
		{ID: "eq-1", NetworkName: "PC-FIN-01"},
	}}
	handler := NewHandler(store, finder, nil)

	rec := postAlert(t, handler, `{"host":{"name":"PC-FIN-01"},"severity":"high"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.tickets, 1)
	assert.Equal(t, "eq-1", store.tickets[0].EquipmentID)
	assert.Equal(t, "Alta", store.tickets[0].ImpactCriticality)
}

func TestHandleSecurityAlert_MultipleMatchesPicksBestScore(t *testing.T) {
	store := &memoryTicketStore{}
	// Most recently updated first, as the repository returns them
	finder := &stubEquipmentFinder{results: []database.Equipment{
		{ID: "eq-desc", Description: "replacement for PC-FIN-01"},
		{ID: "eq-net", NetworkName: "PC-FIN-01"},
	}}
	handler := NewHandler(store, finder, nil)

	rec := postAlert(t, handler, `{"hostname":"PC-FIN-01","severity":"low"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.tickets, 1)
	assert.Equal(t, "eq-net", store.tickets[0].EquipmentID)
}

func TestHandleSecurityAlert_EquipmentLookupFailureDoesNotBlock(t *testing.T) {
	store := &memoryTicketStore{}
	finder := &stubEquipmentFinder{err: fmt.Errorf("connection refused")}
	handler := NewHandler(store, finder, nil)

	rec := postAlert(t, handler, `{"hostname":"PC-FIN-01","severity":"medium"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.tickets, 1)
	assert.Empty(t, store.tickets[0].EquipmentID)
}

func TestHandleSecurityAlert_AIEnrichmentFillsTitle(t *testing.T) {
	store := &memoryTicketStore{}
	parser := &stubAlertParser{
		available: true,
		parsed: &assist.ParsedAlert{
			Title:       "Malware em PC-FIN-01",
			Description: "Trojan detetado pelo EDR",
		},
	}
	handler := NewHandler(store, nil, parser)

	rec := postAlert(t, handler, `{"hostname":"PC-FIN-01","severity":"critical"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.tickets, 1)
	assert.Equal(t, "Malware em PC-FIN-01", store.tickets[0].Title)
	assert.Equal(t, "Trojan detetado pelo EDR", store.tickets[0].Description)
}

func TestHandleSecurityAlert_AIFailureProceedsHeuristically(t *testing.T) {
	store := &memoryTicketStore{}
	parser := &stubAlertParser{available: true, err: fmt.Errorf("relay timeout")}
	handler := NewHandler(store, nil, parser)

	rec := postAlert(t, handler, `{"hostname":"PC-FIN-01","severity":"critical","title":"EDR Alert"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.tickets, 1)
	assert.Equal(t, "EDR Alert", store.tickets[0].Title)
}

func TestHandleSecurityAlert_InvalidJSON(t *testing.T) {
	handler := NewHandler(&memoryTicketStore{}, nil, nil)

	rec := postAlert(t, handler, "not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestHandleSecurityAlert_InsertFailure(t *testing.T) {
	store := &memoryTicketStore{err: fmt.Errorf("write concern error")}
	handler := NewHandler(store, nil, nil)

	rec := postAlert(t, handler, `{"hostname":"PC-FIN-01"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestHandleSecurityAlert_NoStoreConfigured(t *testing.T) {
	handler := NewHandler(nil, nil, nil)

	rec := postAlert(t, handler, `{"hostname":"PC-FIN-01"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleSecurityAlert_MethodNotAllowed(t *testing.T) {
	handler := NewHandler(&memoryTicketStore{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/webhooks/security-alert", nil)
	rec := httptest.NewRecorder()
	handler.HandleSecurityAlert(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleSecurityAlert_DefaultsWhenFieldsMissing(t *testing.T) {
	store := &memoryTicketStore{}
	handler := NewHandler(store, nil, nil)

	rec := postAlert(t, handler, `{"something":"else"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.tickets, 1)
	ticket := store.tickets[0]
	assert.Equal(t, "Alerta de Segurança", ticket.Title)
	assert.Equal(t, "Média", ticket.ImpactCriticality)
	assert.Equal(t, "webhook", ticket.Source)
}
