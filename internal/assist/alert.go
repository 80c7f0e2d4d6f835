package assist

import (
	"context"
	"strings"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/schema"
)

// ParsedAlert is the normalized view of a third-party security alert payload
type ParsedAlert struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	AssetHint   string `json:"assetHint"`
	AlertType   string `json:"alertType"`
	Source      string `json:"source"`
}

var alertShape = &schema.Object{
	Properties: map[string]schema.Field{
		"title":       {Type: schema.TypeString, Description: "Short incident title"},
		"description": {Type: schema.TypeString, Description: "Incident description"},
		"severity": {
			Type:        schema.TypeString,
			Enum:        criticalityLevels,
			Description: enumDescription("Alert severity", criticalityLevels),
		},
		"assetHint": {Type: schema.TypeString, Description: "Hostname, serial number or other asset identifier"},
		"alertType": {Type: schema.TypeString, Description: "Alert type, e.g. malware, phishing, intrusion"},
		"source":    {Type: schema.TypeString, Description: "Product or system that raised the alert"},
	},
	Required: []string{"title", "description"},
}

// ParseAlert extracts structured incident fields from a raw alert payload.
// Advisory: malformed model output yields a "Parse Failed" alert carrying the
// original payload so nothing is silently dropped.
func (s *Service) ParseAlert(ctx context.Context, rawPayload string) (*ParsedAlert, error) {
	var prompt strings.Builder
	prompt.WriteString("Extract the incident fields from this security alert payload.\n")
	prompt.WriteString("Keep titles short and factual.\n\nPayload:\n")
	prompt.WriteString(truncateChars(rawPayload))

	var result ParsedAlert
	if _, err := s.invoke(ctx, prompt.String(), nil, alertShape, &result); err != nil {
		if degrade(ctx, "alert", err) {
			return &ParsedAlert{Title: "Parse Failed", Description: rawPayload}, nil
		}
		return nil, err
	}
	return &result, nil
}
