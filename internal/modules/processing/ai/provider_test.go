package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcfg "github.com/second-brain/core/internal/config"
)

func TestGeminiGenerator(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"summary\":\"ok\"}"}]}}]}`))
	}))
	defer srv.Close()

	gen, err := NewGenerator(&appcfg.AIProvider{Type: "Gemini", APIKey: "secret", Endpoint: srv.URL, DefaultModel: "gemini-test"}, time.Second)
	require.NoError(t, err)

	text, err := gen.Generate(context.Background(), Request{System: "sys", Prompt: "hi", Temperature: 0.3, MaxOutputTokens: 500})
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, text)

	cfg := body["generationConfig"].(map[string]any)
	assert.Equal(t, 0.3, cfg["temperature"])
	assert.Equal(t, float64(500), cfg["maxOutputTokens"])
	assert.NotNil(t, body["systemInstruction"])
}

func TestGeminiGeneratorErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "bad" {
			http.Error(w, `{"error":{"message":"API key not valid"}}`, http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	bad, err := NewGenerator(&appcfg.AIProvider{Type: "gemini", APIKey: "bad", Endpoint: srv.URL}, time.Second)
	require.NoError(t, err)
	_, err = bad.Generate(context.Background(), Request{Prompt: "p"})
	assert.ErrorContains(t, err, "status 400")

	empty, err := NewGenerator(&appcfg.AIProvider{Type: "gemini", APIKey: "ok", Endpoint: srv.URL}, time.Second)
	require.NoError(t, err)
	_, err = empty.Generate(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, errEmptyResponse)
}

func TestGeminiGeneratorTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	gen, err := NewGenerator(&appcfg.AIProvider{Type: "gemini", APIKey: "k", Endpoint: srv.URL}, 20*time.Millisecond)
	require.NoError(t, err)
	_, err = gen.Generate(context.Background(), Request{Prompt: "p"})
	assert.Error(t, err)
}

func TestOpenAICompatibleGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		var body struct {
			Model     string              `json:"model"`
			Messages  []map[string]string `json:"messages"`
			MaxTokens int                 `json:"max_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "local-model", body.Model)
		assert.Len(t, body.Messages, 2)
		assert.Equal(t, 400, body.MaxTokens)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"answer"}}]}`))
	}))
	defer srv.Close()

	gen, err := NewGenerator(&appcfg.AIProvider{Type: "OpenAI_Compatible", APIKey: "k", Endpoint: srv.URL + "/v1/", DefaultModel: "local-model"}, time.Second)
	require.NoError(t, err)

	text, err := gen.Generate(context.Background(), Request{System: "s", Prompt: "p", MaxOutputTokens: 400})
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
}

func TestNewGeneratorSelection(t *testing.T) {
	for _, typ := range []string{"openai", "anthropic", "openrouter"} {
		gen, err := NewGenerator(&appcfg.AIProvider{Type: typ, APIKey: "k"}, time.Second)
		require.NoError(t, err, typ)
		assert.IsType(t, &jetifyGenerator{}, gen)
	}

	gen, err := NewGenerator(&appcfg.AIProvider{Type: "", APIKey: "k"}, time.Second)
	require.NoError(t, err)
	assert.IsType(t, &geminiGenerator{}, gen)

	_, err = NewGenerator(nil, time.Second)
	assert.Error(t, err)
}

func TestNormalizeEndpoints(t *testing.T) {
	assert.Equal(t, "https://api.example.com/v1", normalizeOpenAIBaseURL("https://api.example.com"))
	assert.Equal(t, "https://openrouter.ai/api/v1", normalizeOpenAIBaseURL("https://openrouter.ai/api/"))
	assert.Equal(t, "", normalizeOpenAIBaseURL(" "))

	assert.Equal(t, "https://api.openai.com", normalizeOpenAICompatibleEndpoint(""))
	assert.Equal(t, "http://localhost:11434", normalizeOpenAICompatibleEndpoint("http://localhost:11434/v1/"))
}
