package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/logger"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/utils"
)

// RequestCorrelationMiddleware assigns request and correlation IDs, threads
// them through the context and logs one structured entry per request and
// response. Client-provided tracking headers take priority over generated
// ones so callers can stitch their own traces together.
func RequestCorrelationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(utils.HeaderRequestID)
		if requestID == "" {
			requestID = utils.GenerateRequestID()
		}
		correlationID := r.Header.Get(utils.HeaderCorrelationID)
		if correlationID == "" {
			correlationID = utils.GenerateCorrelationID()
		}

		w.Header().Set(utils.HeaderRequestID, requestID)
		w.Header().Set(utils.HeaderCorrelationID, correlationID)

		ctx := context.WithValue(r.Context(), logger.RequestIDKey, requestID)
		ctx = context.WithValue(ctx, logger.CorrelationIDKey, correlationID)

		// Health probes are frequent and boring, only log them on failure
		quiet := r.URL.Path == "/health"

		start := time.Now()
		if !quiet {
			logRequest(ctx, r)
		}

		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK, body: &bytes.Buffer{}}
		next.ServeHTTP(wrapper, r.WithContext(ctx))

		duration := time.Since(start)
		if !quiet || wrapper.statusCode >= 400 {
			logResponse(ctx, wrapper, duration)
		}
	})
}

func logRequest(ctx context.Context, r *http.Request) {
	logger.InfoCtx(ctx, "Incoming request",
		"request", map[string]interface{}{
			"method":     r.Method,
			"endpoint":   r.URL.Path,
			"user_agent": r.Header.Get(utils.HeaderUserAgent),
			"client_ip":  clientIP(r),
			"headers":    utils.SanitizeHeaders(r.Header),
		},
	)
}

func logResponse(ctx context.Context, w *responseWriterWrapper, duration time.Duration) {
	responseData := map[string]interface{}{
		"status_code":    w.statusCode,
		"duration_ms":    duration.Milliseconds(),
		"content_length": w.body.Len(),
	}
	if w.body.Len() > 0 {
		var bodyData interface{}
		if err := json.Unmarshal(w.body.Bytes(), &bodyData); err == nil {
			responseData["body"] = utils.TruncateBase64InData(bodyData)
		}
	}

	if w.statusCode >= 400 {
		logger.WarnCtx(ctx, "Request failed", "response", responseData)
		return
	}
	logger.InfoCtx(ctx, "Request completed", "response", responseData)
}

func clientIP(r *http.Request) string {
	if forwardedFor := r.Header.Get(utils.HeaderXForwardedFor); forwardedFor != "" {
		return strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
	}
	if realIP := r.Header.Get(utils.HeaderXRealIP); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}

// responseWriterWrapper captures the status code and a bounded copy of the
// body for logging while passing writes straight through
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriterWrapper) Write(data []byte) (int, error) {
	if w.body.Len() < 10240 {
		w.body.Write(data)
	}
	return w.ResponseWriter.Write(data)
}
