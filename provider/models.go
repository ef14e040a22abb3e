package provider

import (
	"fmt"
	"sync"
)

// ProviderID names the API a model is served by.
type ProviderID string

const (
	OpenAIProvider     ProviderID = "openai"
	CompatibleProvider ProviderID = "openai-compatible"
)

// Valid reports whether id is a provider this package can talk to.
func (id ProviderID) Valid() bool {
	return id == OpenAIProvider || id == CompatibleProvider
}

// ModelID is the model name sent to the API.
type ModelID string

// DefaultModel is used when nothing else is configured.
const DefaultModel ModelID = "gpt-4.1-nano"

// Price is in USD per million tokens.
type Price struct {
	Input  float64
	Output float64
}

type ModelSpec struct {
	ID              ModelID
	Provider        ProviderID
	DisplayText     string
	MaxOutputTokens int
	Price           Price
}

// Cost returns the price of a request in USD.
func (m ModelSpec) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*m.Price.Input/1e6 + float64(outputTokens)*m.Price.Output/1e6
}

var builtinModels = []ModelSpec{
	{"gpt-4.1-nano", OpenAIProvider, "GPT 4.1 nano (recommended)", 32_768, Price{0.1, 0.4}},
	{"gpt-4.1-mini", OpenAIProvider, "GPT 4.1 mini", 32_768, Price{0.4, 1.6}},
	{"gpt-4.1", OpenAIProvider, "GPT 4.1 (for tasks beyond proofreading)", 32_768, Price{2.0, 8.0}},
	{"qwen2.5-72b-instruct", CompatibleProvider, "Qwen2.5 72B Instruct", 32_768, Price{0.5, 2.0}},
	{"qwen2.5-14b-instruct", CompatibleProvider, "Qwen2.5 14B Instruct", 32_768, Price{0.2, 0.6}},
	{"qwen2.5-7b-instruct", CompatibleProvider, "Qwen2.5 7B Instruct", 32_768, Price{0.1, 0.3}},
	{"qwen-plus", CompatibleProvider, "Qwen Plus", 32_768, Price{0.4, 1.2}},
	{"deepseek-chat", CompatibleProvider, "DeepSeek Chat", 32_768, Price{0.14, 0.28}},
}

// Registry holds the built-in models plus any custom ones added to it.
type Registry struct {
	mu     sync.RWMutex
	models map[ModelID]ModelSpec
	order  []ModelID
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[ModelID]ModelSpec)}
	for _, m := range builtinModels {
		r.models[m.ID] = m
		r.order = append(r.order, m.ID)
	}
	return r
}

// Add registers a custom model. It returns an error if:
//   - the id is empty or already registered
//   - the provider is not known
//   - MaxOutputTokens is not positive
func (r *Registry) Add(m ModelSpec) error {
	if m.ID == "" {
		return fmt.Errorf("custom model id must not be empty")
	}
	if !m.Provider.Valid() {
		return fmt.Errorf("model %q: provider %q not recognized", m.ID, m.Provider)
	}
	if m.MaxOutputTokens <= 0 {
		return fmt.Errorf("model %q: max output tokens must be positive", m.ID)
	}
	if m.DisplayText == "" {
		m.DisplayText = string(m.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[m.ID]; exists {
		return fmt.Errorf("model id %q already registered", m.ID)
	}
	r.models[m.ID] = m
	r.order = append(r.order, m.ID)
	return nil
}

// Lookup returns the model registered as id. An unknown id is an error
// rather than a silent switch to another model.
func (r *Registry) Lookup(id ModelID) (ModelSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[id]
	if !ok {
		return ModelSpec{}, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return m, nil
}

// Models returns every registered model, built-ins first.
func (r *Registry) Models() []ModelSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ModelSpec, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.models[id])
	}
	return out
}
