// Package dispatch is the single choke point for every AI call the gateway
// makes. Callers hand it a request envelope; it hides whether the call goes
// straight to the provider or through the backend relay.
package dispatch

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/config"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/errors"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/logger"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/monitoring"
)

// Dispatcher turns a request envelope into model output text, regardless of
// operating mode. It never retries and never decodes JSON on behalf of its
// callers; structured results are plain text that happens to be JSON.
type Dispatcher struct {
	mode         Mode
	defaultModel string
}

// New constructs a Dispatcher from resolved settings. The HTTP client carries
// the configured request timeout so a hung provider call cannot pend forever.
func New(ai config.AISettings) *Dispatcher {
	httpClient := &http.Client{
		Timeout: ai.RequestTimeout,
	}

	mode := SelectMode(ai, httpClient)

	logger.Info("AI dispatcher initialized",
		"mode", mode.String(),
		"default_model", ai.DefaultModel,
		"request_timeout", ai.RequestTimeout.String(),
	)

	return &Dispatcher{
		mode:         mode,
		defaultModel: ai.DefaultModel,
	}
}

// NewWithMode constructs a Dispatcher around an explicit mode; used by tests
// and by callers that build clients themselves
func NewWithMode(mode Mode, defaultModel string) *Dispatcher {
	return &Dispatcher{mode: mode, defaultModel: defaultModel}
}

// Available reports whether AI features are usable. Callers must treat false
// as feature-disabled, not as an error.
func (d *Dispatcher) Available() bool {
	return d.mode.Available()
}

// Mode returns the selected operating mode
func (d *Dispatcher) Mode() Kind {
	return d.mode.Kind()
}

// Dispatch performs one AI call and returns the model's text output. An empty
// model falls back to the configured default. Transport and remote errors are
// returned to the caller with the underlying message preserved; an empty
// result is returned as an empty string, never as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, env Envelope) (string, error) {
	if apiErr := env.Validate(); apiErr != nil {
		return "", apiErr
	}

	if !d.mode.Available() {
		return "", errors.NewConfigurationError("AI is not configured: set GEMINI_API_KEY or AI_RELAY_URL")
	}

	if env.Model == "" {
		env.Model = d.defaultModel
	}

	ctx = context.WithValue(ctx, logger.ModeKey, d.mode.String())
	ctx = context.WithValue(ctx, logger.ModelKey, env.Model)

	logger.DebugCtx(ctx, "Dispatching AI request",
		"prompt_chars", len(env.Prompt),
		"image_count", len(env.Images),
		"structured", env.ResponseSchema != nil,
	)

	start := time.Now()
	var text string
	var err error

	switch d.mode.Kind() {
	case KindDirect:
		text, err = d.mode.direct.GenerateContent(ctx, env)
	case KindProxy:
		text, err = d.mode.proxy.Invoke(ctx, env)
	}

	duration := time.Since(start)
	monitoring.GetMetrics().RecordDispatch(d.mode.String(), env.Model, duration, err == nil)

	if err != nil {
		logger.ErrorCtx(ctx, "AI dispatch failed",
			"error", err,
			"duration_ms", duration.Milliseconds(),
		)
		return "", errors.NewExternalError(err.Error())
	}

	logger.InfoCtx(ctx, "AI dispatch completed",
		"duration_ms", duration.Milliseconds(),
		"response_chars", len(text),
	)

	return strings.TrimSpace(text), nil
}
