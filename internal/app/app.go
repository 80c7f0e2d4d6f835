package app

import (
	"net/http"
	"time"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/assist"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/config"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/database"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/dispatch"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/handlers"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/health"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/ingest"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/logger"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/middleware"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/router"
)

// App centralizes the application's dependencies and configuration
type App struct {
	Settings   *config.Settings
	Dispatcher *dispatch.Dispatcher
	Assist     *assist.Service
	DB         *database.Connection
	Health     *health.HealthChecker

	startTime time.Time
}

// NewApp creates a new App instance with all dependencies. Both AI dispatch
// and ticket storage are optional; the gateway starts with the matching
// features disabled when they are not configured.
func NewApp() (*App, error) {
	if err := config.LoadEnvFromMultiplePaths(); err != nil {
		logger.Warn("No .env file loaded", "error", err.Error())
	}

	settings := config.Load()
	if apiErr := settings.Validate(); apiErr != nil {
		return nil, apiErr
	}

	dispatcher := dispatch.New(settings.AI)
	assistService := assist.NewService(dispatcher)

	var conn *database.Connection
	if database.GetDatabaseConfig().Enabled() {
		var err error
		conn, err = database.GetConnection()
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("MONGODB_URI not set, webhook ingestion is disabled")
	}

	startTime := time.Now()
	healthChecker := health.CreateStandardHealthChecks(dispatcher, conn, startTime)

	logger.Info("Application initialized",
		"ai_mode", string(dispatcher.Mode()),
		"storage_enabled", conn != nil,
	)

	return &App{
		Settings:   settings,
		Dispatcher: dispatcher,
		Assist:     assistService,
		DB:         conn,
		Health:     healthChecker,
		startTime:  startTime,
	}, nil
}

// SetupRoutes builds the full handler chain
func (a *App) SetupRoutes() http.Handler {
	apiHandlers := handlers.NewAPIHandlers(a.Assist, a.Dispatcher.Mode())

	var tickets ingest.TicketStore
	var equipment ingest.EquipmentFinder
	if a.DB != nil {
		tickets = database.NewTicketRepository(a.DB)
		equipment = database.NewEquipmentRepository(a.DB)
	}
	ingestHandler := ingest.NewHandler(tickets, equipment, a.Assist)

	handler := router.SetupRoutes(apiHandlers, ingestHandler, health.HealthHandler(a.Health))
	handler = middleware.RequestCorrelationMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)
	return handler
}

// Shutdown releases held resources
func (a *App) Shutdown() {
	if a.DB != nil {
		if err := a.DB.Disconnect(); err != nil {
			logger.Warn("Failed to disconnect from MongoDB", "error", err.Error())
		}
	}
}
