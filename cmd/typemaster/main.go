// Package main provides the CLI entrypoint for typemaster.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/accounts"
	"github.com/verte-zerg/typemaster/internal/app"
	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/generator"
	"github.com/verte-zerg/typemaster/internal/logging"
	"github.com/verte-zerg/typemaster/internal/session"
	"github.com/verte-zerg/typemaster/internal/store"
	"github.com/verte-zerg/typemaster/internal/tui"
)

func main() {
	rootCmd := newRootCmd(&gameOptions{})
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(opts *gameOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typemaster",
		Short:         "Terminal typing game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGameCmd(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.db, "db", config.DefaultDBPath(), "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&opts.wordPool, "word-pool", "", "file with one word per line (default: built-in pool)")
	rootCmd.Flags().BoolVar(&opts.asciiOnly, "ascii-only", false, "drop non-ASCII words from the custom pool")
	rootCmd.Flags().BoolVar(&opts.awardOnStop, "award-on-stop", false, "award session points when stopping manually")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd(opts))
	rootCmd.AddCommand(newLeaderboardCmd(opts))

	return rootCmd
}

func runGameCmd(cmd *cobra.Command, opts *gameOptions) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, logFile, err := logging.SetupFile(config.DefaultLogPath(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()

	pool, err := loadPool(cfg)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "err", cerr)
		}
	}()

	ctx := cmd.Context()
	accts, err := accounts.Open(ctx, st, logger)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	logger.Info("starting", "db", cfg.DBPath, "word_pool", cfg.WordPool, "award_on_stop", cfg.AwardOnStop)
	a := app.New(ctx, accts, st, generator.New(pool), logger,
		session.WithDurations(cfg.Durations),
		session.WithAwardOnStop(cfg.AwardOnStop),
	)
	program := tea.NewProgram(tui.NewModel(a, cfg.Durations), tea.WithAltScreen())
	_, runErr := program.Run()
	if err := a.Logout(); err != nil {
		logger.Error("failed to end session on exit", "err", err)
	}
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
