package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"

	appcfg "github.com/second-brain/core/internal/config"
)

const (
	providerGemini           = "gemini"
	providerOpenAI           = "openai"
	providerOpenAICompatible = "openai-compatible"
	providerAnthropic        = "anthropic"
	providerOpenRouter       = "openrouter"

	defaultGeminiEndpoint    = "https://generativelanguage.googleapis.com"
	defaultGeminiModel       = "gemini-1.5-flash"
	defaultOpenAIModel       = "gpt-4o-mini"
	defaultAnthropicModel    = "claude-haiku-4-5-20251001"
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	maxProviderResponseBytes = 2 << 20
)

var errEmptyResponse = errors.New("empty response from AI")

// Request is one prompt sent to a provider.
type Request struct {
	System          string
	Prompt          string
	Temperature     float64
	MaxOutputTokens int
}

// Generator sends a Request to a remote model and returns the generated text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

func providerKind(raw string) string {
	switch t := appcfg.NormalizeProviderType(raw); t {
	case "", "google", "google-ai", "gemini":
		return providerGemini
	case "openaicompatible", "openai-compatible":
		return providerOpenAICompatible
	default:
		return t
	}
}

// NewGenerator builds the Generator for provider. Every outbound call is
// bounded by timeout.
func NewGenerator(provider *appcfg.AIProvider, timeout time.Duration) (Generator, error) {
	if provider == nil {
		return nil, errors.New("AI provider is nil")
	}
	if strings.TrimSpace(provider.APIKey) == "" {
		return nil, errors.New("AI provider api key is empty")
	}
	client := &http.Client{Timeout: timeout}

	switch kind := providerKind(provider.Type); kind {
	case providerGemini:
		return &geminiGenerator{provider: *provider, client: client}, nil
	case providerOpenAICompatible:
		return &openAICompatibleGenerator{provider: *provider, client: client}, nil
	case providerOpenAI, providerAnthropic, providerOpenRouter:
		model, err := buildLanguageModel(provider, kind)
		if err != nil {
			return nil, err
		}
		return &jetifyGenerator{model: model, timeout: timeout}, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider type %q", provider.Type)
	}
}

// geminiGenerator talks to the Generative Language REST API.
type geminiGenerator struct {
	provider appcfg.AIProvider
	client   *http.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

func (g *geminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(g.provider.Endpoint), "/")
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}
	model := strings.TrimSpace(g.provider.DefaultModel)
	if model == "" {
		model = defaultGeminiModel
	}

	payload := map[string]interface{}{
		"contents": []geminiContent{{Parts: []geminiPart{{Text: req.Prompt}}}},
		"generationConfig": map[string]interface{}{
			"temperature":     req.Temperature,
			"maxOutputTokens": req.MaxOutputTokens,
		},
	}
	if strings.TrimSpace(req.System) != "" {
		payload["systemInstruction"] = geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	target := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		endpoint, neturl.PathEscape(model), neturl.QueryEscape(strings.TrimSpace(g.provider.APIKey)))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	respBody, err := doProviderRequest(g.client, httpReq, "gemini")
	if err != nil {
		return "", err
	}

	var result struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("gemini error: %s", result.Error.Message)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", errEmptyResponse
	}
	text := result.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

// openAICompatibleGenerator posts to any /v1/chat/completions endpoint.
type openAICompatibleGenerator struct {
	provider appcfg.AIProvider
	client   *http.Client
}

func (g *openAICompatibleGenerator) Generate(ctx context.Context, req Request) (string, error) {
	endpoint := normalizeOpenAICompatibleEndpoint(g.provider.Endpoint)
	model := strings.TrimSpace(g.provider.DefaultModel)
	if model == "" {
		model = defaultOpenAIModel
	}

	messages := make([]map[string]string, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.Prompt})

	body, err := json.Marshal(map[string]interface{}{
		"model":       model,
		"messages":    messages,
		"max_tokens":  req.MaxOutputTokens,
		"temperature": req.Temperature,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+strings.TrimSpace(g.provider.APIKey))
	httpReq.Header.Set("Content-Type", "application/json")

	respBody, err := doProviderRequest(g.client, httpReq, "openai-compatible")
	if err != nil {
		return "", err
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decode openai-compatible response: %w", err)
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("openai-compatible error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", errEmptyResponse
	}
	return result.Choices[0].Message.Content, nil
}

func doProviderRequest(client *http.Client, req *http.Request, name string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s error: status %d: %s", name, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// jetifyGenerator drives the SDK-backed providers through jetify's
// provider-neutral GenerateText.
type jetifyGenerator struct {
	model   jetapi.LanguageModel
	timeout time.Duration
}

func (g *jetifyGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	resp, err := jetai.GenerateText(
		ctx,
		buildPromptMessages(req.System, req.Prompt),
		jetai.WithModel(g.model),
		jetai.WithMaxOutputTokens(req.MaxOutputTokens),
		jetai.WithTemperature(req.Temperature),
	)
	if err != nil {
		return "", err
	}
	return extractTextFromResponse(resp)
}

func buildPromptMessages(systemPrompt, prompt string) []jetapi.Message {
	messages := make([]jetapi.Message, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, &jetapi.SystemMessage{Content: systemPrompt})
	}
	messages = append(messages, &jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)})
	return messages
}

func extractTextFromResponse(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errEmptyResponse
	}

	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}

	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

func buildLanguageModel(provider *appcfg.AIProvider, kind string) (jetapi.LanguageModel, error) {
	apiKey := strings.TrimSpace(provider.APIKey)
	modelID := strings.TrimSpace(provider.DefaultModel)
	endpoint := strings.TrimSpace(provider.Endpoint)

	if kind == providerAnthropic {
		if modelID == "" {
			modelID = defaultAnthropicModel
		}
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)), nil
	}

	if modelID == "" {
		modelID = defaultOpenAIModel
	}
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	baseURL := normalizeOpenAIBaseURL(endpoint)
	if kind == providerOpenRouter && baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	if baseURL != "" {
		opts = append(opts, openaioption.WithBaseURL(baseURL))
	}
	client := openaiclient.NewClient(opts...)
	return jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)), nil
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func normalizeOpenAICompatibleEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}

	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimSuffix(strings.TrimRight(base, "/"), "/v1")
	}

	parsed.Path = strings.TrimSuffix(strings.TrimRight(parsed.Path, "/"), "/v1")
	return strings.TrimRight(parsed.String(), "/")
}
