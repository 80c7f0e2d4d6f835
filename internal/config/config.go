package config

import (
	"time"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/utils"
)

// Settings holds the complete gateway configuration, resolved once at startup
type Settings struct {
	Server ServerSettings
	AI     AISettings
}

// ServerSettings holds HTTP server configuration
type ServerSettings struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// AISettings holds AI dispatch configuration. Exactly one of the two operating
// modes applies: a locally held provider credential (direct calls) or a relay
// URL (calls forwarded to a trusted backend function that holds its own key).
type AISettings struct {
	// Credential is the provider API key for direct calls. Empty means the
	// gateway has no local credential.
	Credential string `validate:"omitempty,min=8"`

	// ProviderBaseURL is the generative-AI provider endpoint used in direct mode
	ProviderBaseURL string `validate:"required,url"`

	// RelayURL is the trusted backend function invoked in proxy mode
	RelayURL string `validate:"omitempty,url"`

	// RelayToken optionally authenticates the gateway against the relay
	RelayToken string

	// DefaultModel is used when a caller does not name a model
	DefaultModel string `validate:"required"`

	// RequestTimeout bounds every dispatch call so a hung provider request
	// cannot pend indefinitely
	RequestTimeout time.Duration `validate:"required,min=1000000000,max=1200000000000"`
}

// Load resolves settings from the environment
func Load() *Settings {
	return &Settings{
		Server: ServerSettings{
			Host:         utils.GetEnvString("SERVER_HOST", "0.0.0.0"),
			Port:         utils.GetEnvPort("SERVER_PORT", 8082),
			ReadTimeout:  utils.GetEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: utils.GetEnvDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
			IdleTimeout:  utils.GetEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		AI: AISettings{
			Credential:      utils.GetEnvString("GEMINI_API_KEY", ""),
			ProviderBaseURL: utils.GetEnvString("AI_PROVIDER_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			RelayURL:        utils.GetEnvString("AI_RELAY_URL", ""),
			RelayToken:      utils.GetEnvString("AI_RELAY_TOKEN", ""),
			DefaultModel:    utils.GetEnvString("AI_DEFAULT_MODEL", "gemini-2.0-flash"),
			RequestTimeout:  utils.GetEnvDuration("AI_REQUEST_TIMEOUT", 60*time.Second),
		},
	}
}
