package ingest

import (
	"strconv"
	"strings"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/database"
)

// MapSeverity maps a source product's severity value onto the four-level
// criticality scale. Handles word scales (critical/high/medium/low and their
// Portuguese equivalents), sev1..sev4 and numeric 0..10 scores. Anything
// unrecognized maps to medium so an odd scale never blocks ticket creation.
func MapSeverity(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return database.CriticalityMedium
	}

	switch value {
	case "critical", "crítica", "critica", "fatal", "sev1", "sev-1", "s1", "p1":
		return database.CriticalityCritical
	case "high", "alta", "severe", "error", "sev2", "sev-2", "s2", "p2":
		return database.CriticalityHigh
	case "medium", "média", "media", "moderate", "warning", "warn", "sev3", "sev-3", "s3", "p3":
		return database.CriticalityMedium
	case "low", "baixa", "info", "informational", "notice", "sev4", "sev-4", "s4", "p4":
		return database.CriticalityLow
	}

	// Numeric scales such as CVSS-style 0..10 scores
	if score, err := strconv.ParseFloat(value, 64); err == nil {
		switch {
		case score >= 9:
			return database.CriticalityCritical
		case score >= 7:
			return database.CriticalityHigh
		case score >= 4:
			return database.CriticalityMedium
		default:
			return database.CriticalityLow
		}
	}

	return database.CriticalityMedium
}
