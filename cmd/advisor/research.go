package main

import (
	"log/slog"

	"github.com/alejandrodnm/edgebot/internal/adapters/notify"
	"github.com/alejandrodnm/edgebot/internal/adapters/research"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <picks.json>...",
	Short: "Store researched picks (prices + estimates) in the local database",
	Long: `Import a research picks file into the local snapshot database. Each pick
replaces any earlier market price and estimate for the same ticker.

Examples:
  advisor import picks.json
  advisor import politics.json sports.json
  advisor import picks.json --category Daily_Movers`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "List stored opportunities with their edge",
	RunE:  runMarkets,
}

var (
	importCategory   string
	marketCategories []string
)

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(marketsCmd)
	importCmd.Flags().StringVar(&importCategory, "category", "", "category for picks that do not carry one")
	marketsCmd.Flags().StringSliceVar(&marketCategories, "category", nil, "restrict to these categories")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opps, err := research.LoadFiles(cmd.Context(), args, 0)
	if err != nil {
		return err
	}
	for i := range opps {
		if opps[i].Category == "" {
			opps[i].Category = importCategory
		}
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveResearch(cmd.Context(), opps); err != nil {
		return err
	}

	slog.Info("research imported", "files", len(args), "picks", len(opps), "dsn", cfg.Storage.DSN)
	return nil
}

func runMarkets(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	cats := cfg.Advisor.Categories
	if len(marketCategories) > 0 {
		cats = marketCategories
	}
	opps, err := store.LoadOpportunities(cmd.Context(), cats)
	if err != nil {
		return err
	}

	notify.NewConsole(true, false).PrintOpportunities(opps)
	return nil
}
