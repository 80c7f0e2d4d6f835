package router

import (
	"net/http"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/handlers"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/ingest"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/monitoring"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes configures all routes for the application
func SetupRoutes(apiHandlers *handlers.APIHandlers, ingestHandler *ingest.Handler, healthHandler http.HandlerFunc) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandler)

	// AI-assisted endpoints
	mux.HandleFunc("/v1/assist/status", apiHandlers.StatusHandler)
	mux.HandleFunc("/v1/assist/triage", apiHandlers.TriageHandler)
	mux.HandleFunc("/v1/assist/parse-alert", apiHandlers.ParseAlertHandler)
	mux.HandleFunc("/v1/assist/nis2-draft", apiHandlers.NIS2DraftHandler)
	mux.HandleFunc("/v1/assist/vulnerability", apiHandlers.VulnerabilityHandler)
	mux.HandleFunc("/v1/assist/command", apiHandlers.CommandHandler)
	mux.HandleFunc("/v1/assist/summary", apiHandlers.SummaryHandler)
	mux.HandleFunc("/v1/assist/risk", apiHandlers.RiskHandler)
	mux.HandleFunc("/v1/assist/extract-device", apiHandlers.ExtractDeviceHandler)

	// Webhook ingestion
	mux.HandleFunc("/v1/webhooks/security-alert", ingestHandler.HandleSecurityAlert)

	// Add metrics endpoint
	mux.HandleFunc("/metrics", monitoring.MetricsHandler)

	// Add pprof endpoints for performance profiling
	monitoring.SetupPprofRoutes(mux)

	// Serve Swagger UI with proper configuration
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	// Wrap with metrics middleware
	return monitoring.MetricsMiddleware(mux)
}
