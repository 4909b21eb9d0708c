package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kavirubc/simili-backfill/internal/config"
	"github.com/Kavirubc/simili-backfill/internal/processor"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dryRun  bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "simili-backfill",
	Short: "Backfill a vector index with embeddings of open GitHub issues",
	Long: `simili-backfill fetches every open issue of a repository, skips the ones
already present in the Qdrant collection, embeds the rest and upserts them
in small chunks.

A collection may be shared by several repositories: records are matched on
their org, repo and issue_number payload fields. Records without org/repo
are attributed to the repository being backfilled.

Configuration comes from the environment (a .env file is loaded if present)
and an optional YAML file:

  GITHUB_TOKEN or GH_TOKEN        GitHub API token
  GITHUB_REPOSITORY               owner/repo (or GITHUB_OWNER + GITHUB_REPO)
  QDRANT_URL, QDRANT_API_KEY      Qdrant connection
  QDRANT_COLLECTION               target collection
  EMBEDDING_PROVIDER              gemini (default) or openai
  GEMINI_API_KEY / OPENAI_API_KEY embedding credentials`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runBackfill,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "skip all writes to Qdrant")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func runBackfill(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("config error: %v\n", e)
		}
		return fmt.Errorf("invalid configuration")
	}

	if dryRun {
		fmt.Println("[dry-run] No records will be written")
	}

	backfiller, err := processor.NewBackfiller(cfg, dryRun)
	if err != nil {
		return fmt.Errorf("failed to create backfiller: %w", err)
	}
	defer backfiller.Close()

	report, err := backfiller.Run(ctx)
	if report != nil {
		processor.PrintSummary(os.Stdout, report)
	}
	if err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}

	return nil
}

// loadConfig reads the config file if one is found, then the environment
func loadConfig() (*config.Config, error) {
	cfgPath := config.FindConfigPath(cfgFile)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("simili-backfill version %s\n", version)
		},
	}
}
