package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration
type Config struct {
	GitHub    GitHubConfig    `yaml:"github"`
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Backfill  BackfillConfig  `yaml:"backfill"`
}

// GitHubConfig contains the source repository and credentials
type GitHubConfig struct {
	Token string `yaml:"token"`
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
}

// QdrantConfig contains Qdrant connection settings
type QdrantConfig struct {
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	Collection string `yaml:"collection"`
}

// EmbeddingConfig contains embedding provider settings
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Dimensions int    `yaml:"dimensions"`
}

// BackfillConfig contains batching and pacing policy
type BackfillConfig struct {
	PageSize       int           `yaml:"page_size"`
	ChunkSize      int           `yaml:"chunk_size"`
	ScrollPageSize int           `yaml:"scroll_page_size"`
	PageDelay      time.Duration `yaml:"page_delay"`
	ItemDelay      time.Duration `yaml:"item_delay"`
	ChunkDelay     time.Duration `yaml:"chunk_delay"`
}

// FullRepo returns owner/repo
func (c *GitHubConfig) FullRepo() string {
	return fmt.Sprintf("%s/%s", c.Owner, c.Repo)
}

// Load builds the configuration from an optional YAML file and the environment.
// A .env file in the working directory is loaded first if present.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := newConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		expandConfigEnvVars(&cfg)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	return &cfg, nil
}

// FindConfigPath looks for config in common locations.
// An empty result is not an error: the file is optional.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	paths := []string{
		".github/simili-backfill.yaml",
		".github/simili-backfill.yml",
		"simili-backfill.yaml",
		"simili-backfill.yml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".config", "simili-backfill", "config.yaml")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}

	return ""
}

// applyDefaults sets default values for unset tunables.
// Delays are preset by newConfig instead.
func applyDefaults(cfg *Config) {
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "gemini"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 1024
	}
	if cfg.Backfill.PageSize == 0 {
		cfg.Backfill.PageSize = 100
	}
	if cfg.Backfill.ChunkSize == 0 {
		cfg.Backfill.ChunkSize = 10
	}
	if cfg.Backfill.ScrollPageSize == 0 {
		cfg.Backfill.ScrollPageSize = 256
	}
}

// newConfig returns a Config with the delays preset. They are filled in
// before the file is read because zero is a valid delay and applyDefaults
// could not tell it apart from an unset one.
func newConfig() Config {
	return Config{
		Backfill: BackfillConfig{
			PageDelay:  time.Second,
			ItemDelay:  500 * time.Millisecond,
			ChunkDelay: 2 * time.Second,
		},
	}
}
