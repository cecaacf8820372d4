package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mkaraca/taskpad/internal/config"
	"github.com/mkaraca/taskpad/internal/errsvc"
	"github.com/mkaraca/taskpad/internal/query"
	"github.com/mkaraca/taskpad/internal/store"
	"github.com/mkaraca/taskpad/internal/ui"
)

var (
	flagConfig string
	flagDB     string

	appCfg    *config.Config
	appLogger *slog.Logger
	appStore  *store.Store
	appErrs   *errsvc.Service
	appClient *query.Client
)

var rootCmd = &cobra.Command{
	Use:   "taskpad",
	Short: "Manage task lists from the terminal",
	Long: `taskpad is a list-centric task manager backed by SQLite.

Tasks belong to lists, carry a priority and an optional due date, and can
be browsed through derived views (important, scheduled, today, unassigned).
All reads go through a cache that is dropped whenever a mutation is
acknowledged, so every command observes its own writes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupApp(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardownApp()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Path to SQLite database (overrides config)")
}

func setupApp(cmd *cobra.Command) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDB != "" {
		cfg.DB.Path = flagDB
	}
	appCfg = cfg

	appLogger = newLogger(cfg.Log)
	slog.SetDefault(appLogger)

	appErrs = errsvc.New(appLogger, &ui.ConsoleToaster{Out: os.Stderr}, nil)

	s, err := store.Open(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := s.InitSchema(cmd.Context()); err != nil {
		s.Close()
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	appStore = s

	appClient = query.NewClient(s,
		query.WithLogger(appLogger),
		query.WithErrorService(appErrs),
	)
	return nil
}

// reportFatal records an error that escaped every local handler. Setup can
// fail before the error service exists, so fall back to a plain print.
func reportFatal(err error) {
	if appErrs != nil {
		appErrs.Handle(err, "cli", errsvc.DefaultOptions())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

func teardownApp() {
	if appStore != nil {
		if err := appStore.Close(); err != nil {
			appLogger.Warn("failed to close database", "error", err)
		}
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if cfg.File == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slog.NewJSONHandler(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}, &slog.HandlerOptions{Level: level}))
}
