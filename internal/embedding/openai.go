package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using OpenAI's API
type OpenAIProvider struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

// NewOpenAIProvider creates a new OpenAI embedding provider
func NewOpenAIProvider(apiKey, model string, dimensions int) (*OpenAIProvider, error) {
	return newOpenAIProvider(openai.DefaultConfig(apiKey), model, dimensions)
}

func newOpenAIProvider(cfg openai.ClientConfig, model string, dimensions int) (*OpenAIProvider, error) {
	cfg.HTTPClient = errorBodyDoer{next: cfg.HTTPClient}
	client := openai.NewClientWithConfig(cfg)

	embModel := openai.SmallEmbedding3
	if model != "" {
		embModel = openai.EmbeddingModel(model)
	}
	if dimensions == 0 {
		dimensions = 1024
	}

	return &OpenAIProvider{
		client:     client,
		model:      embModel,
		dimensions: dimensions,
	}, nil
}

// Embed generates an embedding for a single text
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	req := openai.EmbeddingRequest{
		Input:      texts,
		Model:      p.model,
		Dimensions: p.dimensions,
	}

	resp, err := p.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, &EmbeddingError{Kind: classifyOpenAIError(err), Err: err}
	}
	if len(resp.Data) != len(texts) {
		return nil, &EmbeddingError{Kind: ErrMalformed, Err: fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))}
	}

	embeddings := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(texts) || len(data.Embedding) == 0 {
			return nil, &EmbeddingError{Kind: ErrMalformed, Err: fmt.Errorf("embedding %d has no values", data.Index)}
		}
		embeddings[data.Index] = data.Embedding
	}

	return embeddings, nil
}

// Close releases resources
func (p *OpenAIProvider) Close() error {
	return nil
}

// classifyOpenAIError tells errors the API reported apart from failures to
// reach it or to decode its answer.
func classifyOpenAIError(err error) error {
	var (
		apiErr  *openai.APIError
		bodyErr *responseError
		reqErr  *openai.RequestError
	)
	switch {
	case errors.As(err, &apiErr), errors.As(err, &bodyErr):
		return ErrProvider
	case errors.As(err, &reqErr) && reqErr.HTTPStatusCode >= http.StatusBadRequest:
		return ErrProvider
	default:
		return ErrRequest
	}
}

// responseError is an error object the API returned with a success status
type responseError struct {
	status int
	body   string
}

func (e *responseError) Error() string {
	return fmt.Sprintf("status %d with error body: %s", e.status, e.body)
}

// errorBodyDoer reports a 2xx response carrying an "error" object as a
// responseError. The SDK only inspects error bodies on failure statuses and
// would decode such a response as an empty embedding list.
type errorBodyDoer struct {
	next openai.HTTPDoer
}

func (d errorBodyDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.next.Do(req)
	if err != nil || resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && len(envelope.Error) > 0 && string(envelope.Error) != "null" {
		return nil, &responseError{status: resp.StatusCode, body: string(envelope.Error)}
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
