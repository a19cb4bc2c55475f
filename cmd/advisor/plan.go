package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/edgebot/config"
	"github.com/alejandrodnm/edgebot/internal/adapters/notify"
	"github.com/alejandrodnm/edgebot/internal/adapters/research"
	"github.com/alejandrodnm/edgebot/internal/advisor"
	"github.com/alejandrodnm/edgebot/internal/domain"
	"github.com/alejandrodnm/edgebot/internal/ports"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a spending plan from stored research (or a picks file)",
	Long: `Load researched opportunities, run the allocation engine against the
configured budget, and print the plan.

Examples:
  advisor plan
  advisor plan --table --explain
  advisor plan --input picks.json --policy proportional
  advisor plan --budget-usd 25 --keep-zero --table`,
	RunE: runPlan,
}

var (
	planInputs     []string
	planPolicy     string
	planBudgetUSD  string
	planKeepZero   bool
	planTable      bool
	planExplain    bool
	planCategories []string
	planSplit      bool
)

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringSliceVar(&planInputs, "input", nil, "read picks from these JSON files instead of the database")
	planCmd.Flags().StringVar(&planPolicy, "policy", "", "sequential_kelly|proportional (overrides config)")
	planCmd.Flags().StringVar(&planBudgetUSD, "budget-usd", "", "budget for this cycle in USD (overrides config)")
	planCmd.Flags().BoolVar(&planKeepZero, "keep-zero", false, "keep zero-contract allocations as no-trade records")
	planCmd.Flags().BoolVar(&planTable, "table", false, "print full table (default: compact 1-line)")
	planCmd.Flags().BoolVar(&planExplain, "explain", false, "print step-by-step sizing for the top 3 bets")
	planCmd.Flags().StringSliceVar(&planCategories, "category", nil, "restrict to these categories (overrides config)")
	planCmd.Flags().BoolVar(&planSplit, "split-by-category", false, "run the engine per category, depleting the budget in order")
}

func runPlan(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if planPolicy != "" {
		cfg.Advisor.Policy = planPolicy
	}
	if cmd.Flags().Changed("keep-zero") {
		cfg.Advisor.KeepZero = planKeepZero
	}
	if len(planCategories) > 0 {
		cfg.Advisor.Categories = planCategories
	}
	if cmd.Flags().Changed("split-by-category") {
		cfg.Advisor.SplitByCategory = planSplit
	}

	budget := cfg.BudgetCents()
	if planBudgetUSD != "" {
		budget, err = config.ParseUSD(planBudgetUSD)
		if err != nil {
			return err
		}
	}

	policy, err := domain.ParsePolicy(cfg.Advisor.Policy)
	if err != nil {
		return err
	}

	engine, err := advisor.NewEngine(engineConfig(cfg))
	if err != nil {
		return err
	}

	var source ports.OpportunitySource
	if len(planInputs) > 0 {
		source = research.NewFileSource(planInputs...)
	} else {
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		source = store
	}

	slog.Info("advisor starting",
		"config", configPath,
		"policy", policy.String(),
		"budget_cents", budget,
		"bankroll_cents", cfg.BankrollCents(),
		"inputs", planInputs,
		"categories", cfg.Advisor.Categories,
	)

	svc := advisor.NewService(advisor.ServiceConfig{
		Policy:          policy,
		BudgetCents:     budget,
		Categories:      cfg.Advisor.Categories,
		SplitByCategory: cfg.Advisor.SplitByCategory,
		Interval:        cfg.Interval(),
	}, engine, source, notify.NewConsole(planTable, planExplain))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return svc.Run(ctx)
}

// engineConfig traduce la config de archivo a la del engine.
func engineConfig(cfg *config.Config) advisor.Config {
	return advisor.Config{
		Filter: advisor.FilterConfig{
			MinEdge:       cfg.Advisor.MinEdge,
			MinPriceCents: cfg.Advisor.MinPriceCents,
			MaxPriceCents: cfg.Advisor.MaxPriceCents,
			MinVolume:     cfg.Advisor.MinVolume,
		},
		Sizer: advisor.SizerConfig{
			KellyFraction:  cfg.Advisor.KellyFraction,
			NoiseMargin:    cfg.Advisor.NoiseMargin,
			MinTicketCents: cfg.MinTicketCents(),
		},
		BankrollCents: cfg.BankrollCents(),
		KeepZero:      cfg.Advisor.KeepZero,
	}
}
