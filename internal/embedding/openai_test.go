package embedding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestOpenAIProvider points an OpenAIProvider at a server answering every
// request with status and body
func newTestOpenAIProvider(t *testing.T, status int, body string) *OpenAIProvider {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"

	p, err := newOpenAIProvider(cfg, "", 1024)
	require.NoError(t, err)
	return p
}

func TestOpenAIProvider_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   error
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`,
			kind:   ErrProvider,
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`,
			kind:   ErrProvider,
		},
		{
			name:   "error object with success status",
			status: http.StatusOK,
			body:   `{"error":{"message":"model overloaded","type":"server_error"}}`,
			kind:   ErrProvider,
		},
		{
			name:   "gateway page on failure status",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			kind:   ErrProvider,
		},
		{
			name:   "empty data",
			status: http.StatusOK,
			body:   `{"object":"list","data":[],"model":"text-embedding-3-small"}`,
			kind:   ErrMalformed,
		},
		{
			name:   "empty embedding",
			status: http.StatusOK,
			body:   `{"object":"list","data":[{"object":"embedding","embedding":[],"index":0}]}`,
			kind:   ErrMalformed,
		},
		{
			name:   "not json",
			status: http.StatusOK,
			body:   `<html>maintenance</html>`,
			kind:   ErrRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, tt.status, tt.body)

			_, err := p.Embed(context.Background(), "Crash on start")
			require.Error(t, err)

			var embErr *EmbeddingError
			require.True(t, errors.As(err, &embErr), "want *EmbeddingError, got %T", err)
			assert.ErrorIs(t, err, tt.kind)
			for _, other := range []error{ErrRequest, ErrProvider, ErrMalformed} {
				if other != tt.kind {
					assert.NotErrorIs(t, err, other)
				}
			}

			v := NewGenerator(p, 1024).Generate(context.Background(), "Crash on start")
			assert.Len(t, v, 1024)
			assert.True(t, IsFallback(v))
		})
	}
}

func TestOpenAIProvider_Success(t *testing.T) {
	p := newTestOpenAIProvider(t, http.StatusOK,
		`{"object":"list","data":[{"object":"embedding","embedding":[0.25,-0.5],"index":0}],"model":"text-embedding-3-small"}`)

	values, err := p.Embed(context.Background(), "Crash on start")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, -0.5}, values)

	v := NewGenerator(p, 1024).Generate(context.Background(), "Crash on start")
	require.Len(t, v, 1024)
	assert.Equal(t, float32(0.25), v[0])
	assert.Equal(t, float32(-0.5), v[1])
	assert.Equal(t, float32(0), v[1023])
	assert.False(t, IsFallback(v))
}

func TestOpenAIProvider_OrdersByIndex(t *testing.T) {
	p := newTestOpenAIProvider(t, http.StatusOK,
		`{"object":"list","data":[{"embedding":[2],"index":1},{"embedding":[1],"index":0}]}`)

	got, err := p.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, {2}}, got)
}
