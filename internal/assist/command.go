package assist

import (
	"context"
	"strings"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/schema"
)

// Intents the command parser can recognize
var knownIntents = []string{
	"create_ticket",
	"search_equipment",
	"list_tickets",
	"assign_ticket",
	"close_ticket",
	"unknown",
}

// ParsedCommand is the structured interpretation of a natural-language command
type ParsedCommand struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Args       map[string]string `json:"args"`
}

var commandShape = &schema.Object{
	Properties: map[string]schema.Field{
		"intent": {
			Type:        schema.TypeString,
			Enum:        knownIntents,
			Description: enumDescription("Recognized intent", knownIntents),
		},
		"confidence": {Type: schema.TypeNumber, Description: "Confidence between 0 and 1"},
		"args": {
			Type:        schema.TypeObject,
			Description: "Named arguments extracted from the utterance",
		},
	},
	Required: []string{"intent", "confidence"},
}

// ParseCommand maps a natural-language utterance to a known intent with
// extracted arguments. Advisory: anything unparseable yields the unknown
// intent with zero confidence.
func (s *Service) ParseCommand(ctx context.Context, utterance string) (*ParsedCommand, error) {
	var prompt strings.Builder
	prompt.WriteString("Interpret this helpdesk command and map it to one of the known intents.\n")
	prompt.WriteString("Extract any named arguments such as ticket id, equipment name or assignee.\n\n")
	prompt.WriteString("Command: ")
	prompt.WriteString(truncateChars(utterance))

	var result ParsedCommand
	if _, err := s.invoke(ctx, prompt.String(), nil, commandShape, &result); err != nil {
		if degrade(ctx, "command", err) {
			return &ParsedCommand{Intent: "unknown", Confidence: 0}, nil
		}
		return nil, err
	}
	return &result, nil
}
