package ai

import (
	"bytes"
	"context"
	"encoding/base64"
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

type GeminiProvider struct {
	log          *logger.Logger
	baseURL      string
	apiKey       string
	model        string
	httpClient   *http.Client
	previewRetry retryPolicy
}

func NewGeminiProvider(baseLog *logger.Logger) (*GeminiProvider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}

	baseURL := os.Getenv("GEMINI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-1.5-pro"
	}

	timeoutSec := 60
	if v := os.Getenv("GEMINI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &GeminiProvider{
		log:          baseLog.With("service", "GeminiProvider"),
		baseURL:      baseURL,
		apiKey:       apiKey,
		model:        model,
		httpClient:   &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		previewRetry: previewRetryPolicyFromEnv(),
	}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  map[string]any  `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
}

func (p *GeminiProvider) Suggest(ctx context.Context, req SuggestRequest) ([]Suggestion, error) {
	contents := []geminiContent{
		{Role: "user", Parts: []geminiPart{{Text: buildSuggestPrompt(req)}}},
	}

	text, err := p.generateWithSchema(ctx, suggestSystemPrompt, contents, suggestionSchema())
	if err != nil {
		return nil, tagError("Gemini", "suggestion", err)
	}

	suggestions, err := ParseSuggestions(text)
	if err != nil {
		return nil, tagError("Gemini", "suggestion", err)
	}
	return suggestions, nil
}

func (p *GeminiProvider) GeneratePreview(ctx context.Context, req PreviewRequest) (*types.OutfitPreview, error) {
	parts := []geminiPart{{Text: buildPreviewPrompt(req)}}
	for _, url := range previewImageURLs(req) {
		inline, err := p.fetchInlineImage(ctx, url)
		if err != nil {
			return nil, tagError("Gemini", "preview", err)
		}
		parts = append(parts, geminiPart{InlineData: inline})
	}
	contents := []geminiContent{{Role: "user", Parts: parts}}

	var preview types.OutfitPreview
	err := retryOnTimeout(ctx, p.log, p.previewRetry, func() error {
		text, callErr := p.generateWithSchema(ctx, previewSystemPrompt, contents, previewSchema())
		if callErr != nil {
			return callErr
		}
		return ParsePreview(text, &preview)
	})
	if err != nil {
		return nil, tagError("Gemini", "preview", err)
	}
	return &preview, nil
}

// generateWithSchema mirrors the OpenAI schema-first flow: a responseSchema
// constrained request, retried once without the schema (JSON mime type only)
// when the backend rejects the schema mode itself.
func (p *GeminiProvider) generateWithSchema(ctx context.Context, system string, contents []geminiContent, schema map[string]any) (string, error) {
	strict := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
		Contents:          contents,
		GenerationConfig: map[string]any{
			"temperature":      0.2,
			"responseMimeType": "application/json",
			"responseSchema":   geminiSchema(schema),
		},
	}

	text, err := p.generate(ctx, strict)
	if err == nil {
		return text, nil
	}
	if !isSchemaUnsupported(err) {
		return "", err
	}

	p.log.Warn("Response schema unsupported by model; retrying with JSON mime type only", "model", p.model, "error", err.Error())
	loose := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
		Contents:          contents,
		GenerationConfig: map[string]any{
			"temperature":      0.2,
			"responseMimeType": "application/json",
		},
	}
	return p.generate(ctx, loose)
}

func (p *GeminiProvider) generate(ctx context.Context, req geminiRequest) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.baseURL, p.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("x-goog-api-key", p.apiKey)
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
		return "", &httpError{Provider: "gemini", StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("gemini decode error: %w; raw=%s", err, string(raw))
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	var text string
	for _, part := range parsed.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", fmt.Errorf("gemini returned empty content")
	}
	return text, nil
}

// fetchInlineImage downloads an image and encodes it for inline_data; Gemini
// does not fetch remote URLs itself.
func (p *GeminiProvider) fetchInlineImage(ctx context.Context, url string) (*geminiInlineData, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch image %s: %w", url, err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch image %s: http %d", url, resp.StatusCode)
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/jpeg"
	}
	return &geminiInlineData{
		MimeType: mime,
		Data:     base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// geminiSchema strips additionalProperties, which Gemini's schema dialect
// rejects.
func geminiSchema(schema map[string]any) map[string]any {
	out := make(map[string]any, len(schema))
	for key, value := range schema {
		if key == "additionalProperties" {
			continue
		}
		switch typed := value.(type) {
		case map[string]any:
			out[key] = geminiSchema(typed)
		default:
			out[key] = value
		}
	}
	return out
}
