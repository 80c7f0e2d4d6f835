package ingest

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractedAlert holds the fields pulled heuristically from an arbitrary
// third-party alert payload
type ExtractedAlert struct {
	AssetHint   string
	Severity    string
	Title       string
	Description string
	Source      string
}

// Candidate paths tried in order for each field. Different EDR and antivirus
// products name the same concept differently.
var (
	assetPaths = []string{
		"hostname", "host.name", "computer_name", "computerName",
		"device.name", "device.hostname", "asset", "machine", "endpoint.name",
	}
	severityPaths = []string{
		"severity", "threat.severity", "event.severity", "level", "priority",
	}
	titlePaths = []string{
		"title", "name", "threat.name", "alert.name", "event.title",
	}
	descriptionPaths = []string{
		"description", "summary", "message", "details", "threat.description",
	}
	sourcePaths = []string{
		"source", "product", "vendor", "integration",
	}
)

// ExtractFields pulls the asset identifier, severity, title and description
// out of an arbitrary alert payload by probing known paths. Missing fields
// stay empty; the caller decides on defaults.
func ExtractFields(payload []byte) ExtractedAlert {
	doc := gjson.ParseBytes(payload)
	return ExtractedAlert{
		AssetHint:   firstString(doc, assetPaths),
		Severity:    firstString(doc, severityPaths),
		Title:       firstString(doc, titlePaths),
		Description: firstString(doc, descriptionPaths),
		Source:      firstString(doc, sourcePaths),
	}
}

func firstString(doc gjson.Result, paths []string) string {
	for _, path := range paths {
		value := doc.Get(path)
		if !value.Exists() {
			continue
		}
		s := strings.TrimSpace(value.String())
		if s != "" {
			return s
		}
	}
	return ""
}
