// Package provider asks a language model for a proofread revision of a text.
package provider

import (
	"context"
	"errors"
)

var (
	ErrNoAPIKey      = errors.New("no API key configured")
	ErrNoEndpoint    = errors.New("no API endpoint configured")
	ErrInvalidAPIKey = errors.New("API key is not valid")
	ErrEmptyResponse = errors.New("model returned no text")
	ErrUnknownModel  = errors.New("unknown model")
)

// Response is one proofreading answer.
type Response struct {
	NewText string

	// IsOverlength is set when the answer was cut off by the model's output
	// limit, so NewText covers only a prefix of the input.
	IsOverlength bool

	InputTokens  int
	OutputTokens int
	Cost         float64 // USD; 0 when the model has no known price
}

// Provider returns a revised version of oldText.
type Provider interface {
	Proofread(ctx context.Context, oldText string) (Response, error)
}

// Func adapts a plain function to Provider.
type Func func(ctx context.Context, oldText string) (Response, error)

func (f Func) Proofread(ctx context.Context, oldText string) (Response, error) {
	return f(ctx, oldText)
}
