package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Environment keys read by Load
const (
	EnvGitHubToken      = "GITHUB_TOKEN"
	EnvGHToken          = "GH_TOKEN"
	EnvGitHubRepository = "GITHUB_REPOSITORY"
	EnvGitHubOwner      = "GITHUB_OWNER"
	EnvGitHubRepo       = "GITHUB_REPO"
	EnvQdrantURL        = "QDRANT_URL"
	EnvQdrantAPIKey     = "QDRANT_API_KEY"
	EnvQdrantCollection = "QDRANT_COLLECTION"
	EnvEmbeddingProv    = "EMBEDDING_PROVIDER"
	EnvEmbeddingModel   = "EMBEDDING_MODEL"
	EnvGeminiAPIKey     = "GEMINI_API_KEY"
	EnvOpenAIAPIKey     = "OPENAI_API_KEY"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if env var not set
	})
}

// expandConfigEnvVars expands environment variables in config string fields
func expandConfigEnvVars(cfg *Config) {
	cfg.GitHub.Token = expandEnvVars(cfg.GitHub.Token)
	cfg.Qdrant.URL = expandEnvVars(cfg.Qdrant.URL)
	cfg.Qdrant.APIKey = expandEnvVars(cfg.Qdrant.APIKey)
	cfg.Qdrant.Collection = expandEnvVars(cfg.Qdrant.Collection)
	cfg.Embedding.APIKey = expandEnvVars(cfg.Embedding.APIKey)
}

// applyEnv overlays environment variables onto cfg
func applyEnv(cfg *Config) error {
	setIfPresent(&cfg.GitHub.Token, EnvGHToken)
	setIfPresent(&cfg.GitHub.Token, EnvGitHubToken)

	if full := os.Getenv(EnvGitHubRepository); full != "" {
		owner, repo, err := ParseRepo(full)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvGitHubRepository, err)
		}
		cfg.GitHub.Owner, cfg.GitHub.Repo = owner, repo
	}
	setIfPresent(&cfg.GitHub.Owner, EnvGitHubOwner)
	setIfPresent(&cfg.GitHub.Repo, EnvGitHubRepo)

	setIfPresent(&cfg.Qdrant.URL, EnvQdrantURL)
	setIfPresent(&cfg.Qdrant.APIKey, EnvQdrantAPIKey)
	setIfPresent(&cfg.Qdrant.Collection, EnvQdrantCollection)

	setIfPresent(&cfg.Embedding.Provider, EnvEmbeddingProv)
	setIfPresent(&cfg.Embedding.Model, EnvEmbeddingModel)

	// The key follows the selected provider
	switch cfg.Embedding.Provider {
	case "openai":
		setIfPresent(&cfg.Embedding.APIKey, EnvOpenAIAPIKey)
	default:
		setIfPresent(&cfg.Embedding.APIKey, EnvGeminiAPIKey)
	}

	return nil
}

func setIfPresent(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// ParseRepo splits "owner/repo" into owner and repo
func ParseRepo(fullRepo string) (string, string, error) {
	parts := strings.Split(fullRepo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo format: %s (expected owner/repo)", fullRepo)
	}
	return parts[0], parts[1], nil
}
