package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/utils"
)

// GeminiClient calls the provider's generateContent endpoint directly using
// the locally held credential. One client is constructed at startup and reused
// for every call; it holds no per-request state.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGeminiClient creates a direct provider client
func NewGeminiClient(baseURL, apiKey string, httpClient *http.Client) *GeminiClient {
	return &GeminiClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Provider wire types, limited to the fields the gateway uses

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string                 `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]interface{} `json:"responseSchema,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *geminiError `json:"error,omitempty"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// GenerateContent performs one non-streaming generation call. Images become
// inline-data parts in input order, followed by exactly one text part. Returns
// the trimmed text of the first candidate, or empty string when the provider
// returned no text.
func (c *GeminiClient) GenerateContent(ctx context.Context, env Envelope) (string, error) {
	parts := make([]geminiPart, 0, len(env.Images)+1)
	for _, img := range env.Images {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{
				MIMEType: img.MIMEType,
				Data:     img.DataBase64,
			},
		})
	}
	parts = append(parts, geminiPart{Text: env.Prompt})

	request := geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
	}
	if env.ResponseMIMEType != "" || env.ResponseSchema != nil {
		request.GenerationConfig = &geminiGenerationConfig{
			ResponseMIMEType: env.ResponseMIMEType,
		}
		if env.ResponseSchema != nil {
			request.GenerationConfig.ResponseSchema = env.ResponseSchema.ToGenerationSchema()
		}
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to encode provider request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, env.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set(utils.HeaderContentType, utils.ContentTypeJSON)
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set(utils.HeaderUserAgent, utils.ServiceName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider communication failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read provider response: %w", err)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("failed to decode provider response: %w", err)
	}

	if decoded.Error != nil {
		return "", fmt.Errorf("provider error (%s): %s", decoded.Error.Status, decoded.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	if len(decoded.Candidates) == 0 {
		return "", nil
	}

	var text strings.Builder
	for _, part := range decoded.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return strings.TrimSpace(text.String()), nil
}
