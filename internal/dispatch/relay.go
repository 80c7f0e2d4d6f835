package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/utils"
)

// RelayClient forwards AI calls to a trusted backend function that holds the
// provider credential as an operational secret. Used when the gateway itself
// has no local credential.
type RelayClient struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewRelayClient creates a relay client
func NewRelayClient(url, token string, httpClient *http.Client) *RelayClient {
	return &RelayClient{
		url:        url,
		token:      token,
		httpClient: httpClient,
	}
}

// Relay wire types; the backend function speaks this exact contract

type relayRequest struct {
	Model  string        `json:"model"`
	Prompt string        `json:"prompt"`
	Images []InlineImage `json:"images,omitempty"`
	Config *relayConfig  `json:"config,omitempty"`
}

type relayConfig struct {
	ResponseMIMEType string                 `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]interface{} `json:"responseSchema,omitempty"`
}

type relayResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Invoke serializes the envelope, posts it to the relay and returns the text
// field of the response. Missing text on success is an empty string, never an
// error; remote errors are surfaced with the remote-provided message.
func (c *RelayClient) Invoke(ctx context.Context, env Envelope) (string, error) {
	request := relayRequest{
		Model:  env.Model,
		Prompt: env.Prompt,
		Images: env.Images,
	}
	if env.ResponseMIMEType != "" || env.ResponseSchema != nil {
		request.Config = &relayConfig{
			ResponseMIMEType: env.ResponseMIMEType,
		}
		if env.ResponseSchema != nil {
			request.Config.ResponseSchema = env.ResponseSchema.ToGenerationSchema()
		}
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to encode relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set(utils.HeaderContentType, utils.ContentTypeJSON)
	req.Header.Set(utils.HeaderUserAgent, utils.ServiceName)
	if c.token != "" {
		req.Header.Set(utils.HeaderAuthorization, "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay communication failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read relay response: %w", err)
	}

	var decoded relayResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", fmt.Errorf("relay returned status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("failed to decode relay response: %w", err)
	}

	if decoded.Error != "" {
		return "", fmt.Errorf("relay error: %s", decoded.Error)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("relay returned status %d", resp.StatusCode)
	}

	return decoded.Text, nil
}
