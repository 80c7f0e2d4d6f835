package assist

import (
	"context"
	"fmt"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/schema"
)

// VulnerabilityResult reports known vulnerabilities for a software product
type VulnerabilityResult struct {
	Found          bool   `json:"found"`
	CVE            string `json:"cve"`
	Severity       string `json:"severity"`
	Summary        string `json:"summary"`
	Recommendation string `json:"recommendation"`
}

var vulnerabilityShape = &schema.Object{
	Properties: map[string]schema.Field{
		"found":    {Type: schema.TypeBoolean, Description: "Whether a known vulnerability was found"},
		"cve":      {Type: schema.TypeString, Description: "CVE identifier when found"},
		"severity": {Type: schema.TypeString, Description: "Vulnerability severity when found"},
		"summary":  {Type: schema.TypeString, Description: "Short description of the vulnerability"},
		"recommendation": {
			Type:        schema.TypeString,
			Description: "Recommended remediation, e.g. upgrade target version",
		},
	},
	Required: []string{"found"},
}

// LookupVulnerability asks whether a product/version pair has known
// vulnerabilities. Advisory: on a malformed response it reports "not found"
// rather than failing the inventory screen.
func (s *Service) LookupVulnerability(ctx context.Context, product, version string) (*VulnerabilityResult, error) {
	prompt := fmt.Sprintf(
		"Does %s version %s have publicly known vulnerabilities? "+
			"If yes, report the most severe one with its CVE identifier. "+
			"If you are not certain, report found=false.",
		product, version,
	)

	var result VulnerabilityResult
	if _, err := s.invoke(ctx, prompt, nil, vulnerabilityShape, &result); err != nil {
		if degrade(ctx, "vulnerability", err) {
			return &VulnerabilityResult{Found: false}, nil
		}
		return nil, err
	}
	return &result, nil
}
