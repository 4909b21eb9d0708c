package embedding

import (
	"context"
	"errors"
	"log"
)

// FallbackValue fills the degraded vector returned when a provider call fails.
// It is distinguishable from the zeros used for padding.
const FallbackValue float32 = 0.01

// Result is the outcome of a single embedding call
type Result struct {
	Vector []float32
	Err    error
}

// OrFallback returns the vector, or a degraded vector of the given width on failure
func (r Result) OrFallback(dimensions int) []float32 {
	if r.Err != nil || r.Vector == nil {
		return FallbackVector(dimensions)
	}
	return r.Vector
}

// FallbackVector returns a vector of the given width filled with FallbackValue
func FallbackVector(dimensions int) []float32 {
	v := make([]float32, dimensions)
	for i := range v {
		v[i] = FallbackValue
	}
	return v
}

// IsFallback reports whether v is the degraded vector
func IsFallback(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	for _, x := range v {
		if x != FallbackValue {
			return false
		}
	}
	return true
}

// FitDimensions right-pads values with zeros or truncates them to the given width.
// The result never aliases values.
func FitDimensions(values []float32, dimensions int) []float32 {
	out := make([]float32, dimensions)
	copy(out, values)
	return out
}

// Generator produces fixed-width vectors and never fails outward
type Generator struct {
	provider   Provider
	dimensions int
}

// NewGenerator wraps a provider so every vector has the given width
func NewGenerator(provider Provider, dimensions int) *Generator {
	return &Generator{
		provider:   provider,
		dimensions: dimensions,
	}
}

// Embed makes one provider call. There are no retries.
func (g *Generator) Embed(ctx context.Context, text string) Result {
	values, err := g.provider.Embed(ctx, text)
	if err != nil {
		var embErr *EmbeddingError
		if !errors.As(err, &embErr) {
			err = &EmbeddingError{Kind: ErrRequest, Err: err}
		}
		return Result{Err: err}
	}
	// An empty vector is treated as a broken response, not padded to zeros.
	if len(values) == 0 {
		return Result{Err: &EmbeddingError{Kind: ErrMalformed}}
	}

	return Result{Vector: FitDimensions(values, g.dimensions)}
}

// Generate embeds text, falling back to the degraded vector on any failure
func (g *Generator) Generate(ctx context.Context, text string) []float32 {
	res := g.Embed(ctx, text)
	if res.Err != nil {
		log.Printf("Warning: embedding failed, using fallback vector: %v", res.Err)
	}
	return res.OrFallback(g.dimensions)
}

// Close releases the underlying provider
func (g *Generator) Close() error {
	return g.provider.Close()
}
