package ingest

import (
	"strings"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/database"
)

// Match scores, highest wins. A network-name hit beats a serial-number hit,
// which beats a description hit.
const (
	scoreNetworkName  = 3
	scoreSerialNumber = 2
	scoreDescription  = 1
)

// BestMatch picks the equipment record that best matches the asset hint.
// Candidates are expected most-recently-updated first, so on equal scores the
// earliest candidate wins. Returns nil when nothing matches.
func BestMatch(hint string, candidates []database.Equipment) *database.Equipment {
	needle := strings.ToLower(strings.TrimSpace(hint))
	if needle == "" {
		return nil
	}

	var best *database.Equipment
	bestScore := 0
	for i := range candidates {
		score := matchScore(needle, &candidates[i])
		if score > bestScore {
			best = &candidates[i]
			bestScore = score
		}
	}
	return best
}

func matchScore(needle string, e *database.Equipment) int {
	switch {
	case contains(e.NetworkName, needle):
		return scoreNetworkName
	case contains(e.SerialNumber, needle):
		return scoreSerialNumber
	case contains(e.Description, needle):
		return scoreDescription
	default:
		return 0
	}
}

func contains(haystack, needle string) bool {
	return haystack != "" && strings.Contains(strings.ToLower(haystack), needle)
}
