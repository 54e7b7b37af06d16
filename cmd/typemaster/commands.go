package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typemaster/internal/accounts"
	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/logging"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/stats"
	"github.com/verte-zerg/typemaster/internal/store"
)

const (
	defaultTrendWindow = 5
	defaultTrendWidth  = 60
	defaultTop         = 10
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

type statsOptions struct {
	user   string
	last   int
	mode   string
	window int
}

func newStatsCmd(opts *gameOptions) *cobra.Command {
	so := &statsOptions{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session history for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatsCmd(cmd, opts, so)
		},
	}
	cmd.Flags().StringVar(&so.user, "user", "", "username")
	cmd.Flags().IntVar(&so.last, "last", 0, "limit to last N sessions")
	cmd.Flags().StringVar(&so.mode, "mode", "", "mode filter (easy, moderate, advanced)")
	cmd.Flags().IntVar(&so.window, "window", defaultTrendWindow, "moving average window")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, opts *gameOptions, so *statsOptions) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	filter := model.HistoryFilter{Username: strings.TrimSpace(so.user), Last: so.last}
	if so.mode != "" {
		mode, err := model.ParseMode(so.mode)
		if err != nil {
			return err
		}
		filter.Mode = mode
	}
	if filter.Last < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if so.window <= 0 {
		return fmt.Errorf("--window must be > 0")
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	report, err := stats.BuildReport(cmd.Context(), st, filter)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	return report.Render(cmd.OutOrStdout(), so.window, trendWidth(cmd.OutOrStdout()))
}

func newLeaderboardCmd(opts *gameOptions) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank accounts by total points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			logger := logging.New(cmd.ErrOrStderr(), slog.LevelWarn, false)
			accts, err := accounts.Open(cmd.Context(), st, logger)
			if err != nil {
				return fmt.Errorf("failed to load accounts: %w", err)
			}
			return stats.RenderLeaderboard(cmd.OutOrStdout(), accts.List(), top)
		},
	}
	cmd.Flags().IntVar(&top, "top", defaultTop, "number of accounts to show (0 for all)")
	return cmd
}

func openStore(cfg model.Config) (*store.Store, error) {
	if _, err := os.Stat(cfg.DBPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no database at %s; play a session first", cfg.DBPath)
		}
		return nil, fmt.Errorf("failed to stat db: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

// trendWidth sizes the sparkline to the terminal when w is one.
func trendWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultTrendWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 20 {
		return defaultTrendWidth
	}
	return width - 20
}
