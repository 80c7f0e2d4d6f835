package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/database"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/dispatch"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/logger"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/utils"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// HealthCheck represents a single health check
type HealthCheck struct {
	Name        string
	Description string
	Check       func(ctx context.Context) HealthCheckResult
	Timeout     time.Duration
	Critical    bool // failure of a critical check makes the whole system unhealthy
}

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status    HealthStatus           `json:"status"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Duration  int64                  `json:"duration_ms"`
}

// HealthChecker manages and executes health checks
type HealthChecker struct {
	checks map[string]*HealthCheck
	mutex  sync.RWMutex
}

// NewHealthChecker creates a new health checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{checks: make(map[string]*HealthCheck)}
}

// RegisterCheck registers a new health check
func (hc *HealthChecker) RegisterCheck(check *HealthCheck) {
	hc.mutex.Lock()
	defer hc.mutex.Unlock()

	if check.Timeout == 0 {
		check.Timeout = 5 * time.Second
	}
	hc.checks[check.Name] = check
}

// ExecuteAllChecks runs every registered check concurrently
func (hc *HealthChecker) ExecuteAllChecks(ctx context.Context) map[string]HealthCheckResult {
	hc.mutex.RLock()
	checks := make(map[string]*HealthCheck, len(hc.checks))
	for name, check := range hc.checks {
		checks[name] = check
	}
	hc.mutex.RUnlock()

	results := make(map[string]HealthCheckResult)
	var wg sync.WaitGroup
	var resultMutex sync.Mutex

	for name, check := range checks {
		wg.Add(1)
		go func(name string, check *HealthCheck) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, check.Timeout)
			defer cancel()

			start := time.Now()
			result := check.Check(checkCtx)
			result.Timestamp = start
			result.Duration = time.Since(start).Milliseconds()

			resultMutex.Lock()
			results[name] = result
			resultMutex.Unlock()
		}(name, check)
	}

	wg.Wait()
	return results
}

// GetOverallHealth determines the overall system health from all checks
func (hc *HealthChecker) GetOverallHealth(ctx context.Context) (HealthStatus, map[string]HealthCheckResult) {
	results := hc.ExecuteAllChecks(ctx)

	overallStatus := StatusHealthy

	hc.mutex.RLock()
	defer hc.mutex.RUnlock()

	for name, result := range results {
		check := hc.checks[name]
		switch result.Status {
		case StatusUnhealthy:
			if check != nil && check.Critical {
				overallStatus = StatusUnhealthy
			} else if overallStatus == StatusHealthy {
				overallStatus = StatusDegraded
			}
		case StatusDegraded:
			if overallStatus == StatusHealthy {
				overallStatus = StatusDegraded
			}
		}
	}

	return overallStatus, results
}

// CreateStandardHealthChecks builds the gateway's health checks: process
// liveness, AI dispatch mode and ticket storage. AI and storage are optional
// features, their absence degrades rather than fails the service.
func CreateStandardHealthChecks(dispatcher *dispatch.Dispatcher, conn *database.Connection, startTime time.Time) *HealthChecker {
	hc := NewHealthChecker()

	hc.RegisterCheck(&HealthCheck{
		Name:        "application",
		Description: "Basic application health",
		Critical:    true,
		Timeout:     2 * time.Second,
		Check: func(ctx context.Context) HealthCheckResult {
			return HealthCheckResult{
				Status:  StatusHealthy,
				Message: "Application is running",
				Details: map[string]interface{}{
					"uptime_seconds": int64(time.Since(startTime).Seconds()),
				},
			}
		},
	})

	hc.RegisterCheck(&HealthCheck{
		Name:        "ai_dispatch",
		Description: "AI dispatch availability",
		Critical:    false,
		Timeout:     2 * time.Second,
		Check: func(ctx context.Context) HealthCheckResult {
			if dispatcher == nil || !dispatcher.Available() {
				return HealthCheckResult{
					Status:  StatusDegraded,
					Message: "AI features are disabled, no credential or relay configured",
				}
			}
			return HealthCheckResult{
				Status:  StatusHealthy,
				Message: "AI dispatch is available",
				Details: map[string]interface{}{
					"mode": string(dispatcher.Mode()),
				},
			}
		},
	})

	hc.RegisterCheck(&HealthCheck{
		Name:        "database",
		Description: "Ticket storage connectivity",
		Critical:    false,
		Timeout:     3 * time.Second,
		Check: func(ctx context.Context) HealthCheckResult {
			if conn == nil {
				return HealthCheckResult{
					Status:  StatusDegraded,
					Message: "Ticket storage is not configured, webhook ingestion is disabled",
				}
			}
			if err := conn.HealthCheck(); err != nil {
				return HealthCheckResult{
					Status:  StatusUnhealthy,
					Message: fmt.Sprintf("MongoDB ping failed: %v", err),
				}
			}
			return HealthCheckResult{
				Status:  StatusHealthy,
				Message: "Ticket storage is reachable",
				Details: map[string]interface{}{
					"database": conn.Config.DatabaseName,
				},
			}
		},
	})

	return hc
}

// HealthHandler creates the HTTP handler for GET /health
func HealthHandler(hc *HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		overallStatus, results := hc.GetOverallHealth(ctx)

		statusCode := http.StatusOK
		if overallStatus == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set(utils.HeaderContentType, utils.ContentTypeJSON)
		w.WriteHeader(statusCode)

		response := map[string]interface{}{
			"status":    overallStatus,
			"service":   logger.ServiceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"checks":    results,
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.ErrorCtx(ctx, "Failed to write health response", "error", err.Error())
		}
	}
}
