package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/edgebot/internal/domain"
	"github.com/alejandrodnm/edgebot/internal/ports"
	"github.com/google/uuid"
)

// ServiceConfig contiene la configuración de un ciclo de asesoría.
type ServiceConfig struct {
	Policy      domain.Policy
	BudgetCents int64
	Categories  []string // vacío = todas
	// SplitByCategory ejecuta el engine una vez por categoría agotando el presupuesto en cadena.
	SplitByCategory bool
	// Interval entre ciclos en Run. 0 = un solo ciclo.
	Interval time.Duration
}

// Service es el orquestador: carga → ranking → engine → plan → notificación.
type Service struct {
	cfg      ServiceConfig
	engine   *Engine
	source   ports.OpportunitySource
	notifier ports.Notifier
	now      func() time.Time
	newID    func() string
}

// NewService crea un Service con todas las dependencias inyectadas.
func NewService(cfg ServiceConfig, engine *Engine, source ports.OpportunitySource, notifier ports.Notifier) *Service {
	return &Service{
		cfg:      cfg,
		engine:   engine,
		source:   source,
		notifier: notifier,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Run ejecuta ciclos hasta que el contexto se cancele.
// Con Interval == 0 ejecuta un solo ciclo y devuelve su error.
func (s *Service) Run(ctx context.Context) error {
	if _, err := s.RunOnce(ctx); err != nil {
		if s.cfg.Interval <= 0 {
			return err
		}
		slog.Error("advisory cycle failed", "err", err)
	}
	if s.cfg.Interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("advisor stopped")
			return nil
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				slog.Error("advisory cycle failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta un ciclo completo y devuelve el plan producido.
func (s *Service) RunOnce(ctx context.Context) (domain.Plan, error) {
	start := s.now()

	plan, err := s.Plan(ctx)
	if err != nil {
		return domain.Plan{}, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyPlan(ctx, plan); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}

	slog.Info("advisory cycle complete",
		"plan_id", plan.ID,
		"policy", plan.Policy.String(),
		"bets", len(plan.Traded()),
		"spend_cents", plan.TotalSpend(),
		"budget_cents", plan.BudgetCents,
		"duration", s.now().Sub(start).Round(time.Millisecond),
	)
	return plan, nil
}

// Plan carga oportunidades y las pasa por el engine sin notificar.
func (s *Service) Plan(ctx context.Context) (domain.Plan, error) {
	opps, err := s.source.LoadOpportunities(ctx, s.cfg.Categories)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("advisor.Plan: load opportunities: %w", err)
	}

	// El engine no ordena: el ranking es decisión de este caller.
	ranked := RankByConfidence(opps)

	var allocs []domain.Allocation
	if s.cfg.SplitByCategory {
		allocs, err = PlanCategories(s.engine, GroupByCategory(ranked), s.cfg.BudgetCents, s.cfg.Policy)
	} else {
		allocs, err = s.engine.Run(ranked, s.cfg.BudgetCents, s.cfg.Policy)
	}
	if err != nil {
		return domain.Plan{}, fmt.Errorf("advisor.Plan: %w", err)
	}

	return domain.Plan{
		ID:          s.newID(),
		CreatedAt:   s.now().UTC(),
		Policy:      s.cfg.Policy,
		BudgetCents: s.cfg.BudgetCents,
		Allocations: allocs,
	}, nil
}
