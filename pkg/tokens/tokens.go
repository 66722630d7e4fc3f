// Package tokens estimates how many language-model tokens a snapshot uses.
package tokens

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

// DefaultModel is used when the requested model has no known encoding.
const DefaultModel = "gpt-4o"

// Counter counts tokens with a tiktoken encoding.
type Counter struct {
	encoding *tiktoken.Tiktoken
	model    string
}

// NewCounter loads the encoding for model, falling back to DefaultModel.
// Encodings are fetched and cached by tiktoken-go on first use.
func NewCounter(model string, logger *zap.Logger) (*Counter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	model = strings.ToLower(strings.TrimSpace(model))
	if model == "" {
		model = DefaultModel
	}

	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logger.Warn("Unknown tokenizer model, using default",
			zap.String("model", model),
			zap.String("default", DefaultModel),
			zap.Error(err))
		model = DefaultModel
		encoding, err = tiktoken.EncodingForModel(DefaultModel)
		if err != nil {
			return nil, fmt.Errorf("failed to get tiktoken encoding for default model '%s': %w", DefaultModel, err)
		}
	}
	return &Counter{encoding: encoding, model: model}, nil
}

// Model is the model whose encoding is in use.
func (c *Counter) Model() string {
	return c.model
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if c == nil || c.encoding == nil {
		return 0
	}
	return len(c.encoding.EncodeOrdinary(text))
}
