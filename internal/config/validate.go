package config

import (
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors
func Validate(cfg *Config) []error {
	var errs []error

	// Validate repository coordinates
	if cfg.GitHub.Owner == "" {
		errs = append(errs, ValidationError{"github.owner", fmt.Sprintf("required (set %s or %s)", EnvGitHubRepository, EnvGitHubOwner)})
	}
	if cfg.GitHub.Repo == "" {
		errs = append(errs, ValidationError{"github.repo", fmt.Sprintf("required (set %s or %s)", EnvGitHubRepository, EnvGitHubRepo)})
	}

	// Validate Qdrant config
	if cfg.Qdrant.URL == "" {
		errs = append(errs, ValidationError{"qdrant.url", "required"})
	}
	if cfg.Qdrant.Collection == "" {
		errs = append(errs, ValidationError{"qdrant.collection", "required"})
	}

	// Validate embedding config
	if cfg.Embedding.Provider != "gemini" && cfg.Embedding.Provider != "openai" {
		errs = append(errs, ValidationError{"embedding.provider", "must be 'gemini' or 'openai'"})
	}
	if cfg.Embedding.APIKey == "" {
		errs = append(errs, ValidationError{"embedding.api_key", "required"})
	}
	if cfg.Embedding.Dimensions <= 0 {
		errs = append(errs, ValidationError{"embedding.dimensions", "must be positive"})
	}

	// Validate batching policy
	if cfg.Backfill.PageSize <= 0 || cfg.Backfill.PageSize > 100 {
		errs = append(errs, ValidationError{"backfill.page_size", "must be between 1 and 100"})
	}
	if cfg.Backfill.ChunkSize <= 0 {
		errs = append(errs, ValidationError{"backfill.chunk_size", "must be positive"})
	}
	if cfg.Backfill.ScrollPageSize <= 0 {
		errs = append(errs, ValidationError{"backfill.scroll_page_size", "must be positive"})
	}
	if cfg.Backfill.PageDelay < 0 || cfg.Backfill.ItemDelay < 0 || cfg.Backfill.ChunkDelay < 0 {
		errs = append(errs, ValidationError{"backfill", "delays must not be negative"})
	}

	return errs
}
