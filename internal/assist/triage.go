package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/database"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/schema"
)

var criticalityLevels = []string{
	database.CriticalityLow,
	database.CriticalityMedium,
	database.CriticalityHigh,
	database.CriticalityCritical,
}

// TicketSummary is a compact view of a historical ticket used as triage context
type TicketSummary struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// TriageResult is the suggested classification for a new ticket
type TriageResult struct {
	SuggestedCategory  string `json:"suggestedCategory"`
	SuggestedPriority  string `json:"suggestedPriority"`
	SuggestedSolution  string `json:"suggestedSolution"`
	IsSecurityIncident bool   `json:"isSecurityIncident"`
}

func defaultTriageResult() *TriageResult {
	return &TriageResult{
		SuggestedCategory:  "Geral",
		SuggestedPriority:  database.CriticalityMedium,
		SuggestedSolution:  "",
		IsSecurityIncident: false,
	}
}

var triageShape = &schema.Object{
	Properties: map[string]schema.Field{
		"suggestedCategory": {Type: schema.TypeString, Description: "Ticket category"},
		"suggestedPriority": {
			Type:        schema.TypeString,
			Enum:        criticalityLevels,
			Description: enumDescription("Ticket priority", criticalityLevels),
		},
		"suggestedSolution":  {Type: schema.TypeString, Description: "Short suggested first response"},
		"isSecurityIncident": {Type: schema.TypeBoolean, Description: "Whether this looks like a security incident"},
	},
	Required: []string{"suggestedCategory", "suggestedPriority", "isSecurityIncident"},
}

// TriageTicket suggests a category, priority and first response for a new
// ticket description, using recent tickets as context. Advisory: on a
// malformed model response it returns a neutral default instead of failing.
func (s *Service) TriageTicket(ctx context.Context, description string, historical []TicketSummary) (*TriageResult, error) {
	var contextLines []string
	for _, t := range truncateItems(historical) {
		contextLines = append(contextLines, fmt.Sprintf("- [%s/%s] %s", t.Category, t.Priority, t.Title))
	}

	var prompt strings.Builder
	prompt.WriteString("You are an IT helpdesk triage assistant. Classify the ticket below.\n")
	prompt.WriteString("Respond in Portuguese where free text is expected.\n\n")
	if len(contextLines) > 0 {
		prompt.WriteString("Recent tickets for reference:\n")
		prompt.WriteString(renderLines(contextLines))
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("New ticket description:\n")
	prompt.WriteString(truncateChars(description))

	var result TriageResult
	if _, err := s.invoke(ctx, prompt.String(), nil, triageShape, &result); err != nil {
		if degrade(ctx, "triage", err) {
			return defaultTriageResult(), nil
		}
		return nil, err
	}
	return &result, nil
}
