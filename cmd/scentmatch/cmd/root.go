// Package cmd implements the scentmatch CLI commands.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/scentlab/scentmatch/internal/config"
	"github.com/scentlab/scentmatch/internal/logging"
)

var (
	cfgFile  string
	logLevel string

	cfg        *config.Config
	logger     *slog.Logger
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "scentmatch",
	Short: "Weather-aware fragrance recommendations",
	Long: `scentmatch recommends fragrances from a catalog using hybrid retrieval:
semantic embedding similarity, BM25 keyword matching and weather-context
affinity, diversified with MMR.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		if logLevel != "" {
			cfg.Server.LogLevel = logLevel
		}

		logCfg := logging.DefaultConfig()
		logCfg.Level = cfg.Server.LogLevel
		// Interactive commands keep stderr readable; file logging only.
		logCfg.WriteToStderr = cmd.Name() == "serve"

		logger, logCleanup, err = logging.Setup(logCfg)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			logCleanup()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default scentmatch.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}
