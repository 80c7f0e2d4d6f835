package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/schema"
)

// ThreadEntry is one message in a ticket conversation thread
type ThreadEntry struct {
	Author  string `json:"author"`
	Message string `json:"message"`
}

// ResolutionSummary condenses a resolved ticket thread
type ResolutionSummary struct {
	Summary    string `json:"summary"`
	RootCause  string `json:"rootCause"`
	Resolution string `json:"resolution"`
}

var summaryShape = &schema.Object{
	Properties: map[string]schema.Field{
		"summary":    {Type: schema.TypeString, Description: "One-paragraph summary of the ticket"},
		"rootCause":  {Type: schema.TypeString, Description: "Identified root cause"},
		"resolution": {Type: schema.TypeString, Description: "How the issue was resolved"},
	},
	Required: []string{"summary", "rootCause", "resolution"},
}

// SummarizeResolution condenses a resolved ticket thread into a summary,
// root cause and resolution. Advisory: a malformed response yields an empty
// summary.
func (s *Service) SummarizeResolution(ctx context.Context, title string, thread []ThreadEntry) (*ResolutionSummary, error) {
	var lines []string
	for _, entry := range truncateItems(thread) {
		lines = append(lines, fmt.Sprintf("%s: %s", entry.Author, entry.Message))
	}

	var prompt strings.Builder
	prompt.WriteString("Summarize this resolved helpdesk ticket in Portuguese.\n\n")
	fmt.Fprintf(&prompt, "Ticket: %s\n\nConversation:\n", title)
	prompt.WriteString(renderLines(lines))

	var result ResolutionSummary
	if _, err := s.invoke(ctx, prompt.String(), nil, summaryShape, &result); err != nil {
		if degrade(ctx, "summary", err) {
			return &ResolutionSummary{}, nil
		}
		return nil, err
	}
	return &result, nil
}
