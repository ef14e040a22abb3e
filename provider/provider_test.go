package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	m, err := r.Lookup(DefaultModel)
	require.NoError(t, err)
	assert.Equal(t, OpenAIProvider, m.Provider)
	assert.Equal(t, 32_768, m.MaxOutputTokens)

	m, err = r.Lookup("deepseek-chat")
	require.NoError(t, err)
	assert.Equal(t, CompatibleProvider, m.Provider)

	_, err = r.Lookup("gpt-2")
	assert.ErrorIs(t, err, ErrUnknownModel)

	assert.Len(t, r.Models(), len(builtinModels))
}

func TestRegistryAdd(t *testing.T) {
	r := NewRegistry()

	err := r.Add(ModelSpec{ID: "llama-local", Provider: CompatibleProvider, MaxOutputTokens: 4096})
	require.NoError(t, err)

	m, err := r.Lookup("llama-local")
	require.NoError(t, err)
	assert.Equal(t, "llama-local", m.DisplayText)
	assert.Equal(t, ModelID("llama-local"), r.Models()[len(r.Models())-1].ID)

	for i, tc := range []struct {
		Name string
		Spec ModelSpec
	}{
		{"empty id", ModelSpec{Provider: OpenAIProvider, MaxOutputTokens: 1}},
		{"duplicate", ModelSpec{ID: "gpt-4.1", Provider: OpenAIProvider, MaxOutputTokens: 1}},
		{"bad provider", ModelSpec{ID: "x", Provider: "acme", MaxOutputTokens: 1}},
		{"no output limit", ModelSpec{ID: "y", Provider: OpenAIProvider}},
	} {
		assert.Error(t, r.Add(tc.Spec), fmt.Sprintf("Test case #%d, %s", i, tc.Name))
	}
}

func TestModelCost(t *testing.T) {
	m := ModelSpec{Price: Price{Input: 0.1, Output: 0.4}}
	assert.InDelta(t, 0.5, m.Cost(1_000_000, 1_000_000), 1e-9)
	assert.Zero(t, ModelSpec{}.Cost(100, 100))
}

func TestPrompt(t *testing.T) {
	text, err := Prompt{Mode: QuickFix, Severity: Minor}.Text()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Focus only on correcting grammar"))
	assert.Contains(t, text, "Make only essential changes.")
	assert.True(t, strings.HasSuffix(text, promptTail))

	// The stock static prompt does not override the generated one.
	text, err = Prompt{Mode: Academic, Severity: Major, Static: DefaultStaticPrompt}.Text()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Edit for formal academic writing standards."))

	text, err = Prompt{Static: "Fix typos only."}.Text()
	require.NoError(t, err)
	assert.Equal(t, "Fix typos only.", text)

	_, err = Prompt{Mode: "poetic", Severity: Minor}.Text()
	assert.Error(t, err)
	_, err = Prompt{Mode: Balanced, Severity: "extreme"}.Text()
	assert.Error(t, err)
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))

	n := EstimateTokens("The quick brown fox jumps over the lazy dog.")
	assert.True(t, n > 0 && n < 20, n)
}

func TestNormalizeEndpoint(t *testing.T) {
	for i, tc := range []struct {
		Name     string
		Endpoint string
		Expected string
	}{
		{"base", "https://api.example.com/v1", "https://api.example.com/v1/"},
		{"trailing slash", "https://api.example.com/v1/", "https://api.example.com/v1/"},
		{"full path", " https://api.example.com/v1/chat/completions ", "https://api.example.com/v1/"},
		{"full path with slash", "https://api.example.com/v1/chat/completions/", "https://api.example.com/v1/"},
	} {
		assert.Equal(t, tc.Expected, normalizeEndpoint(tc.Endpoint), fmt.Sprintf("Test case #%d, %s", i, tc.Name))
	}
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// fakeChat serves /chat/completions, answering every request with status and
// body and recording the decoded request.
func fakeChat(t *testing.T, status int, body string, got *chatRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func completion(content, finish string, in, out int) string {
	b, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4.1-nano",
		"choices": []any{map[string]any{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{
			"prompt_tokens":     in,
			"completion_tokens": out,
			"total_tokens":      in + out,
		},
	})
	return string(b)
}

func newTestOpenAI(t *testing.T, srv *httptest.Server, model ModelSpec) *OpenAI {
	t.Helper()
	p, err := NewOpenAI(OpenAIConfig{
		Model:    model,
		APIKey:   "test-key",
		Endpoint: srv.URL,
		Prompt:   "Fix it.",
	})
	require.NoError(t, err)
	return p
}

func TestOpenAI(t *testing.T) {
	nano, err := NewRegistry().Lookup("gpt-4.1-nano")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		var got chatRequest
		srv := fakeChat(t, http.StatusOK, completion("The dog sat.", "stop", 1000, 2000), &got)

		resp, err := newTestOpenAI(t, srv, nano).Proofread(context.Background(), "The cat sat.")
		require.NoError(t, err)

		assert.Equal(t, "The dog sat.", resp.NewText)
		assert.False(t, resp.IsOverlength)
		assert.Equal(t, 1000, resp.InputTokens)
		assert.Equal(t, 2000, resp.OutputTokens)
		assert.InDelta(t, 0.0009, resp.Cost, 1e-12)

		assert.Equal(t, "gpt-4.1-nano", got.Model)
		if assert.Len(t, got.Messages, 2) {
			assert.Equal(t, "developer", got.Messages[0].Role)
			assert.Equal(t, "Fix it.", got.Messages[0].Content)
			assert.Equal(t, "user", got.Messages[1].Role)
			assert.Equal(t, "The cat sat.", got.Messages[1].Content)
		}
	})

	t.Run("compatible provider uses a system prompt", func(t *testing.T) {
		var got chatRequest
		srv := fakeChat(t, http.StatusOK, completion("ok", "stop", 1, 1), &got)

		qwen, err := NewRegistry().Lookup("qwen-plus")
		require.NoError(t, err)

		_, err = newTestOpenAI(t, srv, qwen).Proofread(context.Background(), "text")
		require.NoError(t, err)
		if assert.Len(t, got.Messages, 2) {
			assert.Equal(t, "system", got.Messages[0].Role)
		}
	})

	t.Run("overlength by token count", func(t *testing.T) {
		srv := fakeChat(t, http.StatusOK, completion("partial", "stop", 10, nano.MaxOutputTokens), nil)

		resp, err := newTestOpenAI(t, srv, nano).Proofread(context.Background(), "text")
		require.NoError(t, err)
		assert.True(t, resp.IsOverlength)
	})

	t.Run("overlength by finish reason", func(t *testing.T) {
		srv := fakeChat(t, http.StatusOK, completion("partial", "length", 10, 20), nil)

		resp, err := newTestOpenAI(t, srv, nano).Proofread(context.Background(), "text")
		require.NoError(t, err)
		assert.True(t, resp.IsOverlength)
	})

	t.Run("invalid key", func(t *testing.T) {
		srv := fakeChat(t, http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`, nil)

		_, err := newTestOpenAI(t, srv, nano).Proofread(context.Background(), "text")
		assert.ErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("server error", func(t *testing.T) {
		srv := fakeChat(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`, nil)

		_, err := newTestOpenAI(t, srv, nano).Proofread(context.Background(), "text")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("empty content", func(t *testing.T) {
		srv := fakeChat(t, http.StatusOK, completion("", "stop", 1, 0), nil)

		_, err := newTestOpenAI(t, srv, nano).Proofread(context.Background(), "text")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}

func TestNewOpenAIErrors(t *testing.T) {
	r := NewRegistry()
	nano, _ := r.Lookup("gpt-4.1-nano")
	qwen, _ := r.Lookup("qwen-plus")

	_, err := NewOpenAI(OpenAIConfig{Model: nano})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = NewOpenAI(OpenAIConfig{Model: qwen, APIKey: "k"})
	assert.ErrorIs(t, err, ErrNoEndpoint)

	_, err = NewOpenAI(OpenAIConfig{Model: nano, APIKey: "k"})
	assert.NoError(t, err)
}

func TestFunc(t *testing.T) {
	var p Provider = Func(func(_ context.Context, oldText string) (Response, error) {
		return Response{NewText: strings.ToUpper(oldText)}, nil
	})

	resp, err := p.Proofread(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", resp.NewText)
}
