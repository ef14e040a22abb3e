package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIConfig configures an OpenAI chat completions client.
type OpenAIConfig struct {
	Model  ModelSpec
	APIKey string

	// Endpoint is the API base URL. Required for openai-compatible models;
	// overrides the default for openai models. A trailing /chat/completions
	// is accepted and stripped.
	Endpoint string

	Prompt string

	HTTPClient *http.Client // optional
}

// OpenAI proofreads with the chat completions API. It serves both the openai
// and the openai-compatible providers.
type OpenAI struct {
	client openai.Client
	model  ModelSpec
	prompt string
}

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if !cfg.Model.Provider.Valid() {
		return nil, fmt.Errorf("model %q: provider %q not recognized", cfg.Model.ID, cfg.Model.Provider)
	}
	if cfg.Model.Provider == CompatibleProvider && strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, ErrNoEndpoint
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(normalizeEndpoint(cfg.Endpoint)))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		prompt: cfg.Prompt,
	}, nil
}

// normalizeEndpoint turns a configured endpoint into an SDK base URL, which
// gets "chat/completions" appended per request.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	endpoint = strings.TrimRight(endpoint, "/")
	endpoint = strings.TrimSuffix(endpoint, "/chat/completions")
	return endpoint + "/"
}

func (o *OpenAI) Proofread(ctx context.Context, oldText string) (Response, error) {
	instructions := openai.SystemMessage(o.prompt)
	if o.model.Provider == OpenAIProvider {
		instructions = openai.DeveloperMessage(o.prompt)
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model.ID),
		Messages: []openai.ChatCompletionMessageParamUnion{
			instructions,
			openai.UserMessage(oldText),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return Response{}, fmt.Errorf("%s: %w", o.model.Provider, ErrInvalidAPIKey)
		}
		return Response{}, fmt.Errorf("%s request: %w", o.model.Provider, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return Response{}, ErrEmptyResponse
	}

	choice := resp.Choices[0]
	if choice.Message.Content == "" {
		return Response{}, ErrEmptyResponse
	}

	in := int(resp.Usage.PromptTokens)
	out := int(resp.Usage.CompletionTokens)

	return Response{
		NewText:      choice.Message.Content,
		IsOverlength: out >= o.model.MaxOutputTokens || choice.FinishReason == "length",
		InputTokens:  in,
		OutputTokens: out,
		Cost:         o.model.Cost(in, out),
	}, nil
}
