package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/schema"
)

// EquipmentSummary is a compact inventory row used as risk-analysis context
type EquipmentSummary struct {
	NetworkName string `json:"networkName"`
	Type        string `json:"type"`
	OS          string `json:"os"`
	LastSeen    string `json:"lastSeen"`
}

// RiskAnalysis is the assessed risk posture of an inventory
type RiskAnalysis struct {
	RiskLevel       string   `json:"riskLevel"`
	Findings        []string `json:"findings"`
	Recommendations []string `json:"recommendations"`
}

var riskShape = &schema.Object{
	Properties: map[string]schema.Field{
		"riskLevel": {
			Type:        schema.TypeString,
			Enum:        criticalityLevels,
			Description: enumDescription("Overall risk level", criticalityLevels),
		},
		"findings": {
			Type:        schema.TypeArray,
			Items:       &schema.Field{Type: schema.TypeString},
			Description: "Concrete risk findings",
		},
		"recommendations": {
			Type:        schema.TypeArray,
			Items:       &schema.Field{Type: schema.TypeString},
			Description: "Prioritized recommendations",
		},
	},
	Required: []string{"riskLevel", "findings", "recommendations"},
}

// AnalyzeRisk assesses the security risk posture of an equipment inventory.
// The inventory context is capped before prompting. Advisory: a malformed
// response yields a medium risk level with no findings.
func (s *Service) AnalyzeRisk(ctx context.Context, inventory []EquipmentSummary) (*RiskAnalysis, error) {
	var lines []string
	for _, e := range truncateItems(inventory) {
		lines = append(lines, fmt.Sprintf("- %s (%s, %s, last seen %s)", e.NetworkName, e.Type, e.OS, e.LastSeen))
	}

	var prompt strings.Builder
	prompt.WriteString("Assess the security risk posture of this IT inventory.\n")
	prompt.WriteString("Flag outdated operating systems and stale devices.\n\nInventory:\n")
	prompt.WriteString(renderLines(lines))

	var result RiskAnalysis
	if _, err := s.invoke(ctx, prompt.String(), nil, riskShape, &result); err != nil {
		if degrade(ctx, "risk", err) {
			return &RiskAnalysis{RiskLevel: criticalityLevels[1]}, nil
		}
		return nil, err
	}
	return &result, nil
}
