// Package config loads proofmark settings from a TOML file.
//
// Example:
//
//	model = "gpt-4.1-mini"
//	api_key_env = "OPENAI_API_KEY"
//
//	[prompt]
//	mode = "quick-fix"
//	severity = "minor"
//
//	[diff]
//	preserve_quotes = true
//
//	[[custom_models]]
//	id = "llama3.1:8b"
//	provider = "openai-compatible"
//	max_output_tokens = 8192
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kalafut/proofmark"
	"github.com/kalafut/proofmark/provider"
)

type Config struct {
	Model     string `toml:"model"`
	APIKey    string `toml:"api_key"`
	APIKeyEnv string `toml:"api_key_env"` // ex: "OPENAI_API_KEY" or "$OPENAI_API_KEY"
	Endpoint  string `toml:"endpoint"`

	Prompt       Prompt        `toml:"prompt"`
	Diff         Diff          `toml:"diff"`
	CustomModels []CustomModel `toml:"custom_models"`
}

type Prompt struct {
	Mode     string `toml:"mode"`
	Severity string `toml:"severity"`
	Static   string `toml:"static"`
}

type Diff struct {
	SpaceSensitive              bool `toml:"space_sensitive"`
	PreserveQuotes              bool `toml:"preserve_quotes"`
	PreserveBlockquotes         bool `toml:"preserve_blockquotes"`
	PreserveNonSmartPunctuation bool `toml:"preserve_non_smart_punctuation"`
}

type CustomModel struct {
	ID              string  `toml:"id"`
	Provider        string  `toml:"provider"`
	DisplayName     string  `toml:"display_name"`
	MaxOutputTokens int     `toml:"max_output_tokens"`
	InputPrice      float64 `toml:"input_price"`  // USD per million tokens
	OutputPrice     float64 `toml:"output_price"` // USD per million tokens
}

func Default() Config {
	return Config{
		Model:     string(provider.DefaultModel),
		APIKeyEnv: "OPENAI_API_KEY",
		Prompt: Prompt{
			Mode:     string(provider.Balanced),
			Severity: string(provider.Moderate),
		},
		Diff: Diff{
			PreserveBlockquotes: true,
		},
	}
}

// Load reads the file at path over the defaults. A missing file is not an
// error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}

	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults. Unknown keys are an error.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	if _, err := c.PromptSpec().Text(); err != nil {
		return err
	}
	for _, m := range c.CustomModels {
		if m.ID == "" {
			return fmt.Errorf("custom model without id")
		}
	}
	return nil
}

// Options returns the markup toggles.
func (c Config) Options() proofmark.Options {
	return proofmark.Options{
		SpaceTokens:         c.Diff.SpaceSensitive,
		PreserveQuotes:      c.Diff.PreserveQuotes,
		PreserveBlockquotes: c.Diff.PreserveBlockquotes,
		PreservePunctuation: c.Diff.PreserveNonSmartPunctuation,
	}
}

func (c Config) PromptSpec() provider.Prompt {
	return provider.Prompt{
		Mode:     provider.Mode(c.Prompt.Mode),
		Severity: provider.Severity(c.Prompt.Severity),
		Static:   c.Prompt.Static,
	}
}

// Registry returns the built-in models plus the configured custom ones.
func (c Config) Registry() (*provider.Registry, error) {
	r := provider.NewRegistry()
	for _, m := range c.CustomModels {
		err := r.Add(provider.ModelSpec{
			ID:              provider.ModelID(m.ID),
			Provider:        provider.ProviderID(m.Provider),
			DisplayText:     m.DisplayName,
			MaxOutputTokens: m.MaxOutputTokens,
			Price:           provider.Price{Input: m.InputPrice, Output: m.OutputPrice},
		})
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ResolveAPIKey returns api_key, or else the value of the api_key_env
// variable.
func (c Config) ResolveAPIKey(getenv func(string) string) string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if env := strings.TrimPrefix(c.APIKeyEnv, "$"); env != "" {
		return getenv(env)
	}
	return ""
}
