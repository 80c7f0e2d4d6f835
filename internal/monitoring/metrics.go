package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"
)

// Metrics holds in-memory application metrics
type Metrics struct {
	mu sync.RWMutex

	RequestCount    int64
	RequestDuration time.Duration
	ErrorCount      int64

	DispatchCounts      map[string]int64 // keyed by mode
	DispatchErrorCounts map[string]int64
	ModelDispatchCounts map[string]int64
	DispatchDuration    time.Duration

	IngestedTickets map[string]int64 // keyed by mapped criticality
	IngestionErrors int64

	StatusCodeCounts map[int]int64
	StartTime        time.Time
}

// Global metrics instance
var globalMetrics = newMetrics()

func newMetrics() *Metrics {
	return &Metrics{
		DispatchCounts:      make(map[string]int64),
		DispatchErrorCounts: make(map[string]int64),
		ModelDispatchCounts: make(map[string]int64),
		IngestedTickets:     make(map[string]int64),
		StatusCodeCounts:    make(map[int]int64),
		StartTime:           time.Now(),
	}
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records an HTTP request with its duration and status
func (m *Metrics) RecordRequest(duration time.Duration, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestCount++
	m.RequestDuration += duration
	m.StatusCodeCounts[statusCode]++
	if statusCode >= 400 {
		m.ErrorCount++
	}
}

// RecordDispatch records one AI dispatch by mode and model
func (m *Metrics) RecordDispatch(mode, model string, duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DispatchCounts[mode]++
	m.ModelDispatchCounts[model]++
	m.DispatchDuration += duration
	if !success {
		m.DispatchErrorCounts[mode]++
	}
}

// RecordIngestion records one webhook-ingested ticket by mapped criticality
func (m *Metrics) RecordIngestion(criticality string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if success {
		m.IngestedTickets[criticality]++
	} else {
		m.IngestionErrors++
	}
}

// GetStats returns current statistics
func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uptime := time.Since(m.StartTime)

	avgRequest := time.Duration(0)
	if m.RequestCount > 0 {
		avgRequest = m.RequestDuration / time.Duration(m.RequestCount)
	}

	totalDispatches := int64(0)
	for _, count := range m.DispatchCounts {
		totalDispatches += count
	}
	avgDispatch := time.Duration(0)
	if totalDispatches > 0 {
		avgDispatch = m.DispatchDuration / time.Duration(totalDispatches)
	}

	return map[string]interface{}{
		"uptime_seconds":          uptime.Seconds(),
		"total_requests":          m.RequestCount,
		"total_errors":            m.ErrorCount,
		"average_duration_ms":     avgRequest.Milliseconds(),
		"status_code_counts":      copyIntMap(m.StatusCodeCounts),
		"dispatch_counts":         copyStringMap(m.DispatchCounts),
		"dispatch_error_counts":   copyStringMap(m.DispatchErrorCounts),
		"model_dispatch_counts":   copyStringMap(m.ModelDispatchCounts),
		"avg_dispatch_ms":         avgDispatch.Milliseconds(),
		"ingested_tickets":        copyStringMap(m.IngestedTickets),
		"ingestion_errors":        m.IngestionErrors,
		"start_time":              m.StartTime.Format(time.RFC3339),
	}
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestCount = 0
	m.RequestDuration = 0
	m.ErrorCount = 0
	m.DispatchCounts = make(map[string]int64)
	m.DispatchErrorCounts = make(map[string]int64)
	m.ModelDispatchCounts = make(map[string]int64)
	m.DispatchDuration = 0
	m.IngestedTickets = make(map[string]int64)
	m.IngestionErrors = 0
	m.StatusCodeCounts = make(map[int]int64)
	m.StartTime = time.Now()
}

func copyStringMap(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyIntMap(in map[int]int64) map[int]int64 {
	out := make(map[int]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// MetricsMiddleware wraps HTTP handlers to collect per-request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		globalMetrics.RecordRequest(time.Since(start), wrapper.statusCode)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// MetricsHandler returns current metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	stats := globalMetrics.GetStats()
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		http.Error(w, `{"error":"failed to encode metrics"}`, http.StatusInternalServerError)
	}
}

// SetupPprofRoutes adds pprof endpoints to the router
func SetupPprofRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/debug/pprof/heap", pprof.Handler("heap"))
}
