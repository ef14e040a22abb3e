package provider

import "github.com/tiktoken-go/tokenizer"

// EstimateTokens returns the o200k token count of text. It falls back to a
// length based guess if the encoder is unavailable.
func EstimateTokens(text string) int {
	enc, err := tokenizer.Get(tokenizer.O200kBase)
	if err != nil {
		return len(text) / 4
	}
	n, err := enc.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return n
}
