// Command holidaycheck checks the holiday calculator against the national
// holiday CSV published by the Cabinet Office and exports calculated
// holidays in the same CSV layout.
//
// The CSV URL is resolved dynamically via the e-Gov Data Portal CKAN API
// (recommended by the Digital Agency of Japan). If the API is unavailable,
// it falls back to well-known direct URLs.
//
// Usage:
//
//	holidaycheck verify
//	holidaycheck verify --from 2000 --to 2026 --cache-dir ~/.cache/holidaycheck
//	holidaycheck dump --from 2024 --to 2026 --sjis -o syukujitsu.csv
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries state shared by the subcommands.
type app struct {
	configPath string
	verbose    bool

	// Overrides applied on top of the config file when their flag is set.
	timeout    time.Duration
	maxRetries int
	cacheDir   string

	log *zap.Logger
	cfg *config
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "holidaycheck",
		Short:         "Verify and export Japanese national holidays",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.log == nil {
				zcfg := zap.NewProductionConfig()
				if a.verbose {
					zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
				}
				logger, err := zcfg.Build()
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				a.log = logger
			}

			cfg, err := loadConfig(a.configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("timeout") {
				cfg.Timeout = a.timeout
			}
			if flags.Changed("retries") {
				cfg.MaxRetries = a.maxRetries
			}
			if flags.Changed("cache-dir") {
				cfg.CacheDir = a.cacheDir
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.DurationVar(&a.timeout, "timeout", defaultTimeout, "HTTP timeout per request")
	pf.IntVar(&a.maxRetries, "retries", defaultMaxRetries, "attempts per URL")
	pf.StringVar(&a.cacheDir, "cache-dir", "", "directory for the downloaded CSV and its validators")

	root.AddCommand(newVerifyCmd(a), newDumpCmd(a))
	return root
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		if !errors.Is(err, errMismatch) {
			fmt.Fprintln(os.Stderr, "holidaycheck:", err)
		}
		os.Exit(1)
	}
}
