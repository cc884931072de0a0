package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/types"
)

type OpenAIProvider struct {
	log          *logger.Logger
	baseURL      string
	apiKey       string
	model        string
	httpClient   *http.Client
	previewRetry retryPolicy
}

func NewOpenAIProvider(baseLog *logger.Logger) (*OpenAIProvider, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o"
	}

	timeoutSec := 60
	if v := os.Getenv("OPENAI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &OpenAIProvider{
		log:          baseLog.With("service", "OpenAIProvider"),
		baseURL:      baseURL,
		apiKey:       apiKey,
		model:        model,
		httpClient:   &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		previewRetry: previewRetryPolicyFromEnv(),
	}, nil
}

func (p *OpenAIProvider) Name() string { return "openai" }

type chatContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature,omitempty"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) Suggest(ctx context.Context, req SuggestRequest) ([]Suggestion, error) {
	messages := []chatMessage{
		{Role: "system", Content: suggestSystemPrompt},
		{Role: "user", Content: buildSuggestPrompt(req)},
	}

	text, err := p.completeWithSchema(ctx, messages, "outfit_suggestions", suggestionSchema())
	if err != nil {
		return nil, tagError("OpenAI", "suggestion", err)
	}

	suggestions, err := ParseSuggestions(text)
	if err != nil {
		return nil, tagError("OpenAI", "suggestion", err)
	}
	return suggestions, nil
}

func (p *OpenAIProvider) GeneratePreview(ctx context.Context, req PreviewRequest) (*types.OutfitPreview, error) {
	parts := []chatContentPart{{Type: "text", Text: buildPreviewPrompt(req)}}
	for _, url := range previewImageURLs(req) {
		part := chatContentPart{Type: "image_url"}
		part.ImageURL = &struct {
			URL string `json:"url"`
		}{URL: url}
		parts = append(parts, part)
	}
	messages := []chatMessage{
		{Role: "system", Content: previewSystemPrompt},
		{Role: "user", Content: parts},
	}

	var preview types.OutfitPreview
	err := retryOnTimeout(ctx, p.log, p.previewRetry, func() error {
		text, callErr := p.completeWithSchema(ctx, messages, "outfit_preview", previewSchema())
		if callErr != nil {
			return callErr
		}
		return ParsePreview(text, &preview)
	})
	if err != nil {
		return nil, tagError("OpenAI", "preview", err)
	}
	return &preview, nil
}

// completeWithSchema issues a schema-constrained chat completion. If the
// backend reports the schema mode itself is unsupported, one retry is made
// with the loose json_object format instead. Any other failure propagates.
func (p *OpenAIProvider) completeWithSchema(ctx context.Context, messages []chatMessage, schemaName string, schema map[string]any) (string, error) {
	strict := chatRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: 0.2,
		ResponseFormat: map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   schemaName,
				"schema": schema,
				"strict": true,
			},
		},
	}

	text, err := p.complete(ctx, strict)
	if err == nil {
		return text, nil
	}
	if !isSchemaUnsupported(err) {
		return "", err
	}

	p.log.Warn("Structured output unsupported by model; retrying with loose JSON mode", "model", p.model, "error", err.Error())
	loose := chatRequest{
		Model:          p.model,
		Messages:       messages,
		Temperature:    0.2,
		ResponseFormat: map[string]any{"type": "json_object"},
	}
	return p.complete(ctx, loose)
}

func (p *OpenAIProvider) complete(ctx context.Context, req chatRequest) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &httpError{Provider: "openai", StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("openai decode error: %w; raw=%s", err, string(raw))
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	if refusal := parsed.Choices[0].Message.Refusal; refusal != "" {
		return "", fmt.Errorf("model refused: %s", refusal)
	}
	content := parsed.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("openai returned empty content")
	}
	return content, nil
}

// previewImageURLs collects the member photo plus every item image. The
// caller guarantees these are all present before invoking the provider.
func previewImageURLs(req PreviewRequest) []string {
	urls := make([]string, 0, len(req.Items)+1)
	if req.Member != nil && req.Member.PhotoURL != "" {
		urls = append(urls, req.Member.PhotoURL)
	}
	for _, item := range req.Items {
		if item.ImageURL != "" {
			urls = append(urls, item.ImageURL)
		}
	}
	return urls
}
