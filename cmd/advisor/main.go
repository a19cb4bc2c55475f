package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alejandrodnm/edgebot/config"
	"github.com/alejandrodnm/edgebot/internal/adapters/storage"
	"github.com/alejandrodnm/edgebot/internal/ports"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Size prediction-market bets from researched probability estimates",
	Long: `advisor filters researched binary contracts for a minimum edge, sizes each
accepted contract with fractional Kelly (or splits the budget by edge), and
prints the resulting spending plan. It never places orders.

Examples:
  advisor import picks.json
  advisor plan --table
  advisor plan --input picks.json --policy proportional --budget-usd 25`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "set log level to debug")
	rootCmd.PersistentFlags().StringVar(&logFormat, "format", "", "log format: text|json (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("advisor exited with error", "err", err)
		os.Exit(1)
	}
}

// loadConfig carga la config y aplica los flags globales de logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	setupLogger(cfg.Log)
	return cfg, nil
}

// openStore abre la base de datos de investigación configurada.
func openStore(cfg *config.Config) (ports.ResearchStore, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return store, nil
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
