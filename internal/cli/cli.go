package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fastpitchtools/fastpitch-events/internal/aggregate"
	"github.com/fastpitchtools/fastpitch-events/internal/config"
	"github.com/fastpitchtools/fastpitch-events/internal/fetch"
	"github.com/fastpitchtools/fastpitch-events/internal/logger"
	"github.com/fastpitchtools/fastpitch-events/internal/source"
	"github.com/fastpitchtools/fastpitch-events/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfigFile string
	flagDataDir    string
	flagFormat     string
	flagWorkers    int
	flagVerbose    bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fastpitch-scrape",
		Short: "Aggregate fastpitch tournament listings into one snapshot",
		Long: `Scrapes every configured tournament source (USSSA, USFA, PGF, Bullpen,
Softball Connected), normalizes the listings into one canonical shape, and
persists the aggregate as JSON and CSV. A failing source contributes zero
events; the run itself never fails.`,
		RunE: runScrape,
	}

	cmd.Flags().StringVar(&flagConfigFile, "config", "", "Optional TOML config file")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "", "Data directory for snapshots (overrides config)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "Run sources on a bounded pool (0 or 1 = sequential)")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := config.Load(flagConfigFile)
	if err != nil {
		return err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}

	if flagVerbose || cfg.Verbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	if !cfg.RelayEnabled() {
		logger.Info("no relay credential configured, fetching direct-only", nil)
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	fetcher := fetch.New(cfg.FetchOptions())
	controller := aggregate.NewController(source.DefaultAdapters(fetcher)...)
	controller.Workers = cfg.Workers

	snapshot := controller.Run(cmd.Context())

	// A failed write is logged but does not void the run: the snapshot is
	// still reported to the caller.
	if err := store.Persist(snapshot); err != nil {
		logger.Error("persisting snapshot failed", logger.Fields{
			"events": snapshot.Count,
		}, err)
	} else if flagVerbose || cfg.Verbose {
		fmt.Fprintf(os.Stderr, "Saved snapshot to %s\n", store.JSONPath())
	}

	return WriteOutput(os.Stdout, snapshot, format)
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
