package advisor

import (
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/edgebot/internal/domain"
)

// Config agrupa toda la configuración del motor de asignación.
type Config struct {
	Filter FilterConfig
	Sizer  SizerConfig
	// BankrollCents es la base sobre la que se aplica Kelly. 0 = usar el presupuesto.
	BankrollCents int64
	// KeepZero conserva las allocations sin contratos como registros "no trade".
	KeepZero bool
}

// DefaultConfig devuelve la configuración estándar del motor.
func DefaultConfig() Config {
	return Config{
		Filter: DefaultFilterConfig(),
		Sizer:  DefaultSizerConfig(),
	}
}

// Validate comprueba todos los parámetros.
func (c Config) Validate() error {
	if err := c.Filter.Validate(); err != nil {
		return err
	}
	if err := c.Sizer.Validate(); err != nil {
		return err
	}
	if c.BankrollCents < 0 {
		return fmt.Errorf("%w: bankroll %d is negative", domain.ErrInvalidConfig, c.BankrollCents)
	}
	return nil
}

// Engine orquesta filtro → sizing (Kelly secuencial o proporcional) → invariantes.
// No guarda estado entre llamadas: Run es seguro desde varias goroutines.
type Engine struct {
	cfg          Config
	filter       *Filter
	sizer        *KellySizer
	proportional *ProportionalAllocator
}

// NewEngine crea un Engine validando la configuración.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("advisor.NewEngine: %w", err)
	}
	return &Engine{
		cfg:          cfg,
		filter:       NewFilter(cfg.Filter),
		sizer:        NewKellySizer(cfg.Sizer),
		proportional: NewProportionalAllocator(cfg.Sizer.NoiseMargin),
	}, nil
}

// Config devuelve la configuración con la que se creó el engine.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run filtra, dimensiona y valida las oportunidades contra el presupuesto.
//
// Con PolicySequentialKelly respeta el orden recibido (el caller decide el ranking).
// Cero oportunidades o presupuesto cero no son errores: devuelven lista vacía
// (o registros a cero si KeepZero).
func (e *Engine) Run(opps []domain.Opportunity, budgetCents int64, policy domain.Policy) ([]domain.Allocation, error) {
	if budgetCents < 0 {
		return nil, fmt.Errorf("advisor.Run: %w: negative budget %d", domain.ErrPrecondition, budgetCents)
	}
	for _, opp := range opps {
		if err := opp.Validate(); err != nil {
			return nil, fmt.Errorf("advisor.Run: %w", err)
		}
	}

	candidates := e.filter.Apply(opps)
	slog.Debug("edge filter applied",
		"input", len(opps),
		"passed", len(candidates),
		"min_edge", e.cfg.Filter.MinEdge,
	)

	var (
		allocs []domain.Allocation
		err    error
	)
	switch policy {
	case domain.PolicySequentialKelly:
		allocs, err = e.runSequential(candidates, budgetCents)
	case domain.PolicyProportional:
		allocs, err = e.proportional.allocateAligned(candidates, budgetCents)
	default:
		return nil, fmt.Errorf("advisor.Run: %w: unknown policy %s", domain.ErrInvalidConfig, policy)
	}
	if err != nil {
		return nil, fmt.Errorf("advisor.Run: %w", err)
	}

	if err := checkInvariants(allocs, budgetCents); err != nil {
		return nil, fmt.Errorf("advisor.Run: %w", err)
	}

	if e.cfg.KeepZero {
		return allocs, nil
	}
	return tradedOnly(allocs), nil
}

// runSequential aplica Kelly en orden, descontando cada gasto del presupuesto restante.
// Agotado el presupuesto, el resto queda a cero sin calcular.
func (e *Engine) runSequential(opps []domain.Opportunity, budgetCents int64) ([]domain.Allocation, error) {
	bankroll := e.cfg.BankrollCents
	if bankroll == 0 {
		bankroll = budgetCents
	}

	remaining := budgetCents
	allocs := make([]domain.Allocation, 0, len(opps))
	for _, opp := range opps {
		if remaining == 0 {
			allocs = append(allocs, domain.NewAllocation(opp, 0, domain.SkipBudgetExhausted))
			continue
		}

		sz, err := e.sizer.Size(opp, bankroll, remaining)
		if err != nil {
			return nil, err
		}
		slog.Debug("kelly sizing",
			"identifier", opp.Identifier,
			"edge", fmt.Sprintf("%.4f", opp.Edge()),
			"kelly", fmt.Sprintf("%.4f", sz.Kelly),
			"bet_cents", fmt.Sprintf("%.2f", sz.BetCents),
			"contracts", sz.Contracts,
			"remaining", remaining,
		)

		allocs = append(allocs, domain.NewAllocation(opp, sz.Contracts, sz.Reason))
		remaining -= sz.SpendCents
	}
	return allocs, nil
}

// checkInvariants verifica gasto no negativo y total ≤ presupuesto.
func checkInvariants(allocs []domain.Allocation, budgetCents int64) error {
	var total int64
	for _, a := range allocs {
		if a.ContractCount < 0 || a.SpendCents < 0 {
			return fmt.Errorf("%w: %s has negative size", domain.ErrBudgetInvariant, a.Identifier)
		}
		total += a.SpendCents
	}
	if total > budgetCents {
		return fmt.Errorf("%w: spend %d > budget %d", domain.ErrBudgetInvariant, total, budgetCents)
	}
	return nil
}

func tradedOnly(allocs []domain.Allocation) []domain.Allocation {
	out := make([]domain.Allocation, 0, len(allocs))
	for _, a := range allocs {
		if a.Traded() {
			out = append(out, a)
		}
	}
	return out
}
