package assist

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/dispatch"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/errors"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/logger"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/schema"
)

// Context caps applied to bulk prompt context. Oversized context is
// truncated, never chunked or summarized.
const (
	maxContextItems = 50
	maxContextChars = 30000
)

// Dispatcher is the subset of the dispatch layer the callers need
type Dispatcher interface {
	Dispatch(ctx context.Context, env dispatch.Envelope) (string, error)
	Available() bool
}

// Service groups the structured-extraction callers around one Dispatcher.
// Every caller builds a prompt, declares an expected JSON shape, dispatches
// with a JSON mime hint and decodes the result against the shape.
type Service struct {
	dispatcher Dispatcher
}

// NewService creates the caller service
func NewService(dispatcher Dispatcher) *Service {
	return &Service{dispatcher: dispatcher}
}

// Available reports whether AI-assisted features are usable
func (s *Service) Available() bool {
	return s.dispatcher.Available()
}

// invoke runs one schema-constrained call and decodes the response into the
// target. It returns the raw response text alongside the error so advisory
// callers can log what the model actually said.
func (s *Service) invoke(ctx context.Context, prompt string, images []dispatch.InlineImage, shape *schema.Object, into interface{}) (string, error) {
	if !s.dispatcher.Available() {
		return "", errors.NewConfigurationError("AI is not configured")
	}

	text, err := s.dispatcher.Dispatch(ctx, dispatch.Envelope{
		Prompt:           prompt,
		Images:           images,
		ResponseSchema:   shape,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", err
	}

	if err := shape.Decode(text, into); err != nil {
		return text, err
	}
	return text, nil
}

// degrade logs a contract violation for an advisory caller and reports
// whether the error was a recoverable contract error. Transport and
// configuration errors are not recoverable by substituting a default.
func degrade(ctx context.Context, caller string, err error) bool {
	var contractErr *schema.ContractError
	if !stderrors.As(err, &contractErr) {
		return false
	}
	logger.WarnCtx(ctx, "AI response violated the expected shape, using safe default",
		"caller", caller,
		"reason", contractErr.Reason,
	)
	return true
}

// truncateItems caps a context slice at maxContextItems entries
func truncateItems[T any](items []T) []T {
	if len(items) > maxContextItems {
		return items[:maxContextItems]
	}
	return items
}

// truncateChars caps rendered context at maxContextChars characters
func truncateChars(s string) string {
	if len(s) > maxContextChars {
		return s[:maxContextChars]
	}
	return s
}

// renderLines joins formatted context lines and applies the character cap
func renderLines(lines []string) string {
	return truncateChars(strings.Join(lines, "\n"))
}

func enumDescription(name string, values []string) string {
	return fmt.Sprintf("%s, one of: %s", name, strings.Join(values, ", "))
}
