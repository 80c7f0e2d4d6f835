package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/assist"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/database"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/errors"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/logger"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/monitoring"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/utils"
	"github.com/tidwall/gjson"
)

const maxPayloadBytes = 1 << 20 // 1 MiB

// TicketStore persists tickets created from alerts
type TicketStore interface {
	Insert(ctx context.Context, ticket *database.Ticket) error
}

// EquipmentFinder searches the inventory for records matching an asset hint
type EquipmentFinder interface {
	FindByHint(ctx context.Context, hint string) ([]database.Equipment, error)
}

// AlertParser optionally enriches raw payloads with AI-extracted fields
type AlertParser interface {
	Available() bool
	ParseAlert(ctx context.Context, rawPayload string) (*assist.ParsedAlert, error)
}

// Handler turns third-party security alert webhooks into tickets
type Handler struct {
	tickets   TicketStore
	equipment EquipmentFinder
	parser    AlertParser
}

// NewHandler creates the webhook handler. equipment and parser may be nil;
// ingestion then skips inventory matching or AI enrichment respectively.
func NewHandler(tickets TicketStore, equipment EquipmentFinder, parser AlertParser) *Handler {
	return &Handler{tickets: tickets, equipment: equipment, parser: parser}
}

type ingestResponse struct {
	Success  bool   `json:"success"`
	TicketID string `json:"ticketId"`
}

// HandleSecurityAlert processes POST /v1/webhooks/security-alert
func (h *Handler) HandleSecurityAlert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		errors.HandleError(w, errors.NewValidationError("method not allowed, use POST"), http.StatusMethodNotAllowed)
		return
	}

	if h.tickets == nil {
		errors.HandleError(w, errors.NewConfigurationError("ticket storage is not configured, set MONGODB_URI"), http.StatusServiceUnavailable)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		errors.HandleError(w, errors.NewValidationError("failed to read request body"), http.StatusBadRequest)
		return
	}
	if len(payload) == 0 || !gjson.ValidBytes(payload) {
		errors.HandleError(w, errors.NewValidationError("request body must be a JSON object"), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	ticket, err := h.buildTicket(ctx, payload)
	if err != nil {
		monitoring.GetMetrics().RecordIngestion("", false)
		errors.HandleError(w, err, http.StatusInternalServerError)
		return
	}

	if err := h.tickets.Insert(ctx, ticket); err != nil {
		monitoring.GetMetrics().RecordIngestion(ticket.ImpactCriticality, false)
		errors.HandleError(w, errors.NewInternalError(fmt.Sprintf("failed to create ticket: %v", err)), http.StatusInternalServerError)
		return
	}
	monitoring.GetMetrics().RecordIngestion(ticket.ImpactCriticality, true)

	logger.InfoCtx(ctx, "Security alert ingested",
		"ticket_id", ticket.ID,
		"criticality", ticket.ImpactCriticality,
		"equipment_id", ticket.EquipmentID,
		"source", ticket.Source,
	)

	w.Header().Set(utils.HeaderContentType, utils.ContentTypeJSON)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ingestResponse{Success: true, TicketID: ticket.ID})
}

// buildTicket assembles the ticket from heuristic extraction, optional AI
// enrichment and optional inventory matching. Only storage failures abort
// ingestion; enrichment and matching degrade silently.
func (h *Handler) buildTicket(ctx context.Context, payload []byte) (*database.Ticket, error) {
	extracted := ExtractFields(payload)

	title := extracted.Title
	description := extracted.Description
	severity := MapSeverity(extracted.Severity)
	assetHint := extracted.AssetHint
	source := extracted.Source
	if source == "" {
		source = "webhook"
	}

	if h.parser != nil && h.parser.Available() {
		parsed, err := h.parser.ParseAlert(ctx, string(payload))
		if err != nil {
			logger.WarnCtx(ctx, "AI alert enrichment failed, proceeding heuristically", "error", err.Error())
		} else if parsed.Title != "Parse Failed" {
			if parsed.Title != "" {
				title = parsed.Title
			}
			if parsed.Description != "" {
				description = parsed.Description
			}
			if parsed.AssetHint != "" && assetHint == "" {
				assetHint = parsed.AssetHint
			}
		}
	}

	if title == "" {
		title = "Alerta de Segurança"
	}
	if description == "" {
		description = string(payload)
	}

	ticket := &database.Ticket{
		ID:                utils.GenerateTicketID(),
		Title:             title,
		Description:       description,
		Category:          database.CategorySecurityIncident,
		ImpactCriticality: severity,
		Status:            database.TicketStatusOpen,
		Source:            source,
	}

	if assetHint != "" && h.equipment != nil {
		candidates, err := h.equipment.FindByHint(ctx, assetHint)
		if err != nil {
			logger.WarnCtx(ctx, "Equipment lookup failed, creating ticket without equipment reference",
				"asset_hint", assetHint,
				"error", err.Error(),
			)
		} else if match := BestMatch(assetHint, candidates); match != nil {
			ticket.EquipmentID = match.ID
			if len(candidates) > 1 {
				logger.InfoCtx(ctx, "Multiple equipment matches, picked best score",
					"asset_hint", assetHint,
					"matches", len(candidates),
					"equipment_id", match.ID,
				)
			}
		}
	}

	return ticket, nil
}
