package cli

import (
	"fmt"

	"github.com/Kavirubc/simili-backfill/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration from file and environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if p := config.FindConfigPath(cfgFile); p != "" {
				fmt.Printf("Validating config: %s\n", p)
			} else {
				fmt.Println("Validating config from environment")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			errs := config.Validate(cfg)
			if len(errs) > 0 {
				fmt.Println("\nValidation errors:")
				for _, e := range errs {
					fmt.Printf("  - %v\n", e)
				}
				return fmt.Errorf("configuration is invalid")
			}

			fmt.Println("\nConfiguration is valid!")
			fmt.Printf("  - Repository: %s\n", cfg.GitHub.FullRepo())
			fmt.Printf("  - Qdrant URL: %s\n", cfg.Qdrant.URL)
			fmt.Printf("  - Collection: %s\n", cfg.Qdrant.Collection)
			fmt.Printf("  - Embedding: %s (%s, %d dims)\n", cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.Dimensions)
			fmt.Printf("  - Chunk size: %d, page size: %d\n", cfg.Backfill.ChunkSize, cfg.Backfill.PageSize)

			return nil
		},
	}
}
