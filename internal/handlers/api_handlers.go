package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/assist"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/dispatch"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/errors"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/logger"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/utils"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/validator"
)

// APIHandlers contains the dependencies needed for API handlers
type APIHandlers struct {
	Assist *assist.Service
	Mode   dispatch.Kind
}

// NewAPIHandlers creates a new APIHandlers instance
func NewAPIHandlers(assistService *assist.Service, mode dispatch.Kind) *APIHandlers {
	return &APIHandlers{Assist: assistService, Mode: mode}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set(utils.HeaderContentType, utils.ContentTypeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err.Error())
	}
}

// handleAssistError maps caller errors onto HTTP status codes
func handleAssistError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*errors.APIError); ok {
		switch apiErr.Type {
		case errors.ErrorTypeConfiguration:
			errors.HandleError(w, apiErr, http.StatusServiceUnavailable)
		case errors.ErrorTypeValidation:
			errors.HandleError(w, apiErr, http.StatusBadRequest)
		default:
			errors.HandleError(w, apiErr, http.StatusBadGateway)
		}
		return
	}
	errors.HandleError(w, err, http.StatusBadGateway)
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		errors.HandleError(w, errors.NewValidationError("method not allowed, use POST"), http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// StatusResponse reports whether AI features are usable and in which mode
type StatusResponse struct {
	Available bool   `json:"available"`
	Mode      string `json:"mode"`
}

// StatusHandler handles the AI availability endpoint
// @Summary      AI availability
// @Description  Reports whether AI-assisted features are enabled and the active dispatch mode
// @Tags         assist
// @Produce      json
// @Success      200  {object}  handlers.StatusResponse
// @Router       /v1/assist/status [get]
func (h *APIHandlers) StatusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Available: h.Assist.Available(),
		Mode:      string(h.Mode),
	})
}

// TriageRequest is the body for POST /v1/assist/triage
type TriageRequest struct {
	Description string                 `json:"description" validate:"required,min=3"`
	Historical  []assist.TicketSummary `json:"historical" validate:"omitempty,dive"`
}

// TriageHandler handles ticket triage suggestions
// @Summary      Triage a ticket
// @Description  Suggests category, priority and a first response for a ticket description
// @Tags         assist
// @Accept       json
// @Produce      json
// @Param        request  body  handlers.TriageRequest  true  "Ticket description with optional historical context"
// @Success      200  {object}  assist.TriageResult
// @Failure      400  {object}  errors.ErrorResponse
// @Failure      503  {object}  errors.ErrorResponse
// @Router       /v1/assist/triage [post]
func (h *APIHandlers) TriageHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req TriageRequest
	if apiErr := validator.DecodeAndValidate(r, &req); apiErr != nil {
		errors.HandleError(w, apiErr, http.StatusBadRequest)
		return
	}

	result, err := h.Assist.TriageTicket(r.Context(), req.Description, req.Historical)
	if err != nil {
		handleAssistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ParseAlertRequest is the body for POST /v1/assist/parse-alert
type ParseAlertRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// ParseAlertHandler extracts structured incident fields from a raw alert
// @Summary      Parse a security alert
// @Tags         assist
// @Accept       json
// @Produce      json
// @Param        request  body  handlers.ParseAlertRequest  true  "Raw alert payload"
// @Success      200  {object}  assist.ParsedAlert
// @Failure      400  {object}  errors.ErrorResponse
// @Router       /v1/assist/parse-alert [post]
func (h *APIHandlers) ParseAlertHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req ParseAlertRequest
	if apiErr := validator.DecodeAndValidate(r, &req); apiErr != nil {
		errors.HandleError(w, apiErr, http.StatusBadRequest)
		return
	}

	result, err := h.Assist.ParseAlert(r.Context(), req.Payload)
	if err != nil {
		handleAssistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// NIS2DraftHandler drafts a regulatory incident notification
// @Summary      Draft a NIS2 notification
// @Tags         assist
// @Accept       json
// @Produce      json
// @Param        request  body  assist.IncidentReport  true  "Incident report"
// @Success      200  {object}  assist.NIS2Draft
// @Failure      400  {object}  errors.ErrorResponse
// @Router       /v1/assist/nis2-draft [post]
func (h *APIHandlers) NIS2DraftHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req assist.IncidentReport
	if apiErr := validator.DecodeAndValidate(r, &req); apiErr != nil {
		errors.HandleError(w, apiErr, http.StatusBadRequest)
		return
	}

	result, err := h.Assist.DraftNIS2Notification(r.Context(), req)
	if err != nil {
		handleAssistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// VulnerabilityRequest is the body for POST /v1/assist/vulnerability
type VulnerabilityRequest struct {
	Product string `json:"product" validate:"required"`
	Version string `json:"version" validate:"required"`
}

// VulnerabilityHandler looks up known vulnerabilities for a product/version
// @Summary      Look up vulnerabilities
// @Tags         assist
// @Accept       json
// @Produce      json
// @Param        request  body  handlers.VulnerabilityRequest  true  "Product and version"
// @Success      200  {object}  assist.VulnerabilityResult
// @Failure      400  {object}  errors.ErrorResponse
// @Router       /v1/assist/vulnerability [post]
func (h *APIHandlers) VulnerabilityHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req VulnerabilityRequest
	if apiErr := validator.DecodeAndValidate(r, &req); apiErr != nil {
		errors.HandleError(w, apiErr, http.StatusBadRequest)
		return
	}

	result, err := h.Assist.LookupVulnerability(r.Context(), req.Product, req.Version)
	if err != nil {
		handleAssistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CommandRequest is the body for POST /v1/assist/command
type CommandRequest struct {
	Utterance string `json:"utterance" validate:"required"`
}

// CommandHandler interprets a natural-language helpdesk command
// @Summary      Parse a command
// @Tags         assist
// @Accept       json
// @Produce      json
// @Param        request  body  handlers.CommandRequest  true  "Natural-language command"
// @Success      200  {object}  assist.ParsedCommand
// @Failure      400  {object}  errors.ErrorResponse
// @Router       /v1/assist/command [post]
func (h *APIHandlers) CommandHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req CommandRequest
	if apiErr := validator.DecodeAndValidate(r, &req); apiErr != nil {
		errors.HandleError(w, apiErr, http.StatusBadRequest)
		return
	}

	result, err := h.Assist.ParseCommand(r.Context(), req.Utterance)
	if err != nil {
		handleAssistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SummaryRequest is the body for POST /v1/assist/summary
type SummaryRequest struct {
	Title  string               `json:"title" validate:"required"`
	Thread []assist.ThreadEntry `json:"thread" validate:"required,min=1,dive"`
}

// SummaryHandler condenses a resolved ticket thread
// @Summary      Summarize a resolution
// @Tags         assist
// @Accept       json
// @Produce      json
// @Param        request  body  handlers.SummaryRequest  true  "Ticket title and conversation thread"
// @Success      200  {object}  assist.ResolutionSummary
// @Failure      400  {object}  errors.ErrorResponse
// @Router       /v1/assist/summary [post]
func (h *APIHandlers) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req SummaryRequest
	if apiErr := validator.DecodeAndValidate(r, &req); apiErr != nil {
		errors.HandleError(w, apiErr, http.StatusBadRequest)
		return
	}

	result, err := h.Assist.SummarizeResolution(r.Context(), req.Title, req.Thread)
	if err != nil {
		handleAssistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RiskRequest is the body for POST /v1/assist/risk
type RiskRequest struct {
	Inventory []assist.EquipmentSummary `json:"inventory" validate:"required,min=1,dive"`
}

// RiskHandler assesses the risk posture of an inventory
// @Summary      Analyze inventory risk
// @Tags         assist
// @Accept       json
// @Produce      json
// @Param        request  body  handlers.RiskRequest  true  "Equipment inventory"
// @Success      200  {object}  assist.RiskAnalysis
// @Failure      400  {object}  errors.ErrorResponse
// @Router       /v1/assist/risk [post]
func (h *APIHandlers) RiskHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req RiskRequest
	if apiErr := validator.DecodeAndValidate(r, &req); apiErr != nil {
		errors.HandleError(w, apiErr, http.StatusBadRequest)
		return
	}

	result, err := h.Assist.AnalyzeRisk(r.Context(), req.Inventory)
	if err != nil {
		handleAssistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ExtractDeviceRequest is the body for POST /v1/assist/extract-device
type ExtractDeviceRequest struct {
	Data     string `json:"data" validate:"required,base64"`
	MIMEType string `json:"mimeType" validate:"omitempty"`
}

// ExtractDeviceHandler reads device details from a label photo
// @Summary      Extract device details from an image
// @Description  Reads type, manufacturer, model and serial number from a device label photo. Fails when the image cannot be read.
// @Tags         assist
// @Accept       json
// @Produce      json
// @Param        request  body  handlers.ExtractDeviceRequest  true  "Base64 image payload"
// @Success      200  {object}  assist.DeviceDetails
// @Failure      400  {object}  errors.ErrorResponse
// @Failure      502  {object}  errors.ErrorResponse
// @Router       /v1/assist/extract-device [post]
func (h *APIHandlers) ExtractDeviceHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req ExtractDeviceRequest
	if apiErr := validator.DecodeAndValidate(r, &req); apiErr != nil {
		errors.HandleError(w, apiErr, http.StatusBadRequest)
		return
	}

	result, err := h.Assist.ExtractDeviceFromImage(r.Context(), dispatch.InlineImage{
		DataBase64: req.Data,
		MIMEType:   req.MIMEType,
	})
	if err != nil {
		handleAssistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
