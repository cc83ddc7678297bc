package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"demandcast/internal/config"
	"demandcast/internal/logging"
	"demandcast/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "demandcast",
	Short: "demandcast forecasts demand from tabular time series",
	Long: `A demand forecasting engine: it reads a CSV or xlsx table, regularizes the selected date/value
columns, profiles the series, benchmarks Holt, seasonal naive and trend + seasonal index models on a
holdout and forecasts with the best one. Without a subcommand it serves these operations as MCP tools over stdio.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		if err := logging.Setup(logging.Options{Verbose: verbose, Dir: cfg.LogDir}); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize log file")
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("command", cmd.Name()).
			Msg("demandcast starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := mcp.NewServer(cfg, Version)
		return server.Start(ctx)
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
