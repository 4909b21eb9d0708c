package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kavirubc/simili-backfill/internal/config"
)

// Provider defines the interface for embedding generation
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
}

// Failure kinds carried by EmbeddingError
var (
	ErrRequest   = errors.New("embedding request failed")
	ErrProvider  = errors.New("embedding provider returned an error")
	ErrMalformed = errors.New("malformed embedding response")
)

// EmbeddingError describes why a provider call produced no usable vector
type EmbeddingError struct {
	Kind error // one of ErrRequest, ErrProvider, ErrMalformed
	Err  error
}

func (e *EmbeddingError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *EmbeddingError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewProvider creates a provider based on config
func NewProvider(cfg *config.EmbeddingConfig) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(cfg.APIKey, cfg.Model, cfg.Dimensions)
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.Dimensions)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// IssueText builds the embedding input for an issue. body may be empty.
func IssueText(title, body string) string {
	return title + " " + body
}
