package vectordb

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Kavirubc/simili-backfill/internal/config"
	"github.com/qdrant/go-client/qdrant"
)

// defaultGRPCPort is Qdrant's gRPC port, used when the URL names none
const defaultGRPCPort = 6334

// Client wraps the Qdrant collection used by the backfill
type Client struct {
	qdrant *qdrant.Client
}

// endpoint is a parsed qdrant.url value
type endpoint struct {
	host   string
	port   int
	useTLS bool
}

// NewClient connects to the Qdrant instance named by cfg.URL
func NewClient(cfg *config.QdrantConfig) (*Client, error) {
	ep, err := parseEndpoint(cfg.URL)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   ep.host,
		Port:   ep.port,
		APIKey: cfg.APIKey,
		UseTLS: ep.useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}

	return &Client{qdrant: client}, nil
}

// parseEndpoint accepts "host", "host:port" or a full http(s) URL.
// Qdrant Cloud hosts always get TLS.
func parseEndpoint(raw string) (endpoint, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return endpoint{}, fmt.Errorf("invalid qdrant url %q: %w", raw, err)
	}
	if u.Hostname() == "" {
		return endpoint{}, fmt.Errorf("invalid qdrant url %q: missing host", raw)
	}

	ep := endpoint{host: u.Hostname(), port: defaultGRPCPort}
	if p := u.Port(); p != "" {
		if ep.port, err = strconv.Atoi(p); err != nil {
			return endpoint{}, fmt.Errorf("invalid qdrant port %q: %w", p, err)
		}
	}
	ep.useTLS = u.Scheme == "https" ||
		strings.HasSuffix(ep.host, ".qdrant.io") || strings.HasSuffix(ep.host, ".qdrant.cloud")

	return ep, nil
}

// Close closes the connection
func (c *Client) Close() error {
	if c.qdrant != nil {
		return c.qdrant.Close()
	}
	return nil
}
