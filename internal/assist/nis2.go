package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/schema"
)

// IncidentReport is the input for an NIS2-style notification draft
type IncidentReport struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Severity    string `json:"severity"`
	DetectedAt  string `json:"detectedAt"`
	Affected    string `json:"affected"`
}

// NIS2Draft is a drafted regulatory incident notification
type NIS2Draft struct {
	Summary    string `json:"summary"`
	Impact     string `json:"impact"`
	Mitigation string `json:"mitigation"`
	Timeline   string `json:"timeline"`
}

var nis2Shape = &schema.Object{
	Properties: map[string]schema.Field{
		"summary":    {Type: schema.TypeString, Description: "Executive summary of the incident"},
		"impact":     {Type: schema.TypeString, Description: "Assessed impact on services and data"},
		"mitigation": {Type: schema.TypeString, Description: "Containment and mitigation measures taken"},
		"timeline":   {Type: schema.TypeString, Description: "Chronology of detection and response"},
	},
	Required: []string{"summary", "impact", "mitigation", "timeline"},
}

// DraftNIS2Notification drafts the four sections of a regulatory incident
// notification from an incident report. Advisory: a malformed response yields
// an empty draft rather than an error.
func (s *Service) DraftNIS2Notification(ctx context.Context, incident IncidentReport) (*NIS2Draft, error) {
	var prompt strings.Builder
	prompt.WriteString("Draft a NIS2 incident notification in Portuguese for the incident below.\n")
	prompt.WriteString("Be formal and factual, do not invent details.\n\n")
	fmt.Fprintf(&prompt, "Title: %s\n", incident.Title)
	fmt.Fprintf(&prompt, "Severity: %s\n", incident.Severity)
	if incident.DetectedAt != "" {
		fmt.Fprintf(&prompt, "Detected at: %s\n", incident.DetectedAt)
	}
	if incident.Affected != "" {
		fmt.Fprintf(&prompt, "Affected systems: %s\n", incident.Affected)
	}
	prompt.WriteString("Description:\n")
	prompt.WriteString(truncateChars(incident.Description))

	var result NIS2Draft
	if _, err := s.invoke(ctx, prompt.String(), nil, nis2Shape, &result); err != nil {
		if degrade(ctx, "nis2", err) {
			return &NIS2Draft{}, nil
		}
		return nil, err
	}
	return &result, nil
}
