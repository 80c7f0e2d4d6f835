package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	tempDir := t.TempDir()
	envFile := filepath.Join(tempDir, ".env")

	envContent := "GATEWAY_TEST_VAR=test_value\n"
	require.NoError(t, os.WriteFile(envFile, []byte(envContent), 0644))

	require.NoError(t, LoadEnvFile(envFile))
	assert.Equal(t, "test_value", os.Getenv("GATEWAY_TEST_VAR"))
	os.Unsetenv("GATEWAY_TEST_VAR")
}

func TestLoadEnvFileNotExists(t *testing.T) {
	// A missing .env file is fine; system env vars still apply
	assert.NoError(t, LoadEnvFile("non_existent.env"))
}

func TestLoadDefaults(t *testing.T) {
	settings := Load()

	assert.Equal(t, 8082, settings.Server.Port)
	assert.Equal(t, "gemini-2.0-flash", settings.AI.DefaultModel)
	assert.Equal(t, 60*time.Second, settings.AI.RequestTimeout)
	assert.Contains(t, settings.AI.ProviderBaseURL, "generativelanguage")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("AI_REQUEST_TIMEOUT", "30")
	t.Setenv("AI_DEFAULT_MODEL", "gemini-2.5-pro")

	settings := Load()

	assert.Equal(t, 9090, settings.Server.Port)
	assert.Equal(t, 30*time.Second, settings.AI.RequestTimeout)
	assert.Equal(t, "gemini-2.5-pro", settings.AI.DefaultModel)
}

func TestValidateMutuallyExclusiveModes(t *testing.T) {
	settings := Load()
	settings.AI.Credential = "test-credential-value"
	settings.AI.RelayURL = "https://backend.example.com/functions/ai-relay"

	err := settings.Validate()
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "mutually exclusive")
}

func TestValidateRelayTokenWithoutURL(t *testing.T) {
	settings := Load()
	settings.AI.RelayToken = "some-token"
	settings.AI.RelayURL = ""

	err := settings.Validate()
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "AI_RELAY_TOKEN")
}

func TestValidateNoModeIsStillValid(t *testing.T) {
	// Neither credential nor relay: the gateway starts with AI disabled
	settings := Load()
	settings.AI.Credential = ""
	settings.AI.RelayURL = ""

	assert.Nil(t, settings.Validate())
}

func TestValidateBadRelayURL(t *testing.T) {
	settings := Load()
	settings.AI.RelayURL = "not a url"

	err := settings.Validate()
	require.NotNil(t, err)
}
