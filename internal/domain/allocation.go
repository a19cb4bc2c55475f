package domain

import (
	"fmt"
	"strings"
	"time"
)

// Policy selecciona cómo se reparte el presupuesto.
type Policy int

const (
	// PolicySequentialKelly dimensiona cada oportunidad con Kelly fraccional,
	// en el orden recibido, descontando lo gastado del presupuesto restante.
	PolicySequentialKelly Policy = iota
	// PolicyProportional reparte un único presupuesto en proporción al edge.
	PolicyProportional
)

// String devuelve el nombre de la policy tal como aparece en config y CLI.
func (p Policy) String() string {
	switch p {
	case PolicySequentialKelly:
		return "sequential_kelly"
	case PolicyProportional:
		return "proportional"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy acepta "sequential_kelly"/"kelly" y "proportional".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential_kelly", "sequential-kelly", "kelly":
		return PolicySequentialKelly, nil
	case "proportional", "edge":
		return PolicyProportional, nil
	}
	return 0, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, s)
}

// SkipReason explica por qué una Allocation terminó sin contratos.
type SkipReason string

const (
	SkipNone             SkipReason = ""
	SkipBelowNoiseMargin SkipReason = "below_noise_margin"
	SkipBelowMinTicket   SkipReason = "below_min_ticket"
	SkipBudgetExhausted  SkipReason = "budget_exhausted"
	SkipZeroContracts    SkipReason = "zero_contracts"
)

// Allocation es la instrucción final para una oportunidad. Valor terminal.
type Allocation struct {
	Identifier    string
	Label         string
	Category      string
	PriceCents    int64
	Probability   float64
	Confidence    float64
	Edge          float64
	ContractCount int64
	SpendCents    int64
	Rationale     string
	SkipReason    SkipReason
}

// Traded devuelve true si la allocation compra al menos un contrato.
func (a Allocation) Traded() bool {
	return a.ContractCount > 0
}

// NewAllocation copia los campos descriptivos de la oportunidad.
func NewAllocation(o Opportunity, contracts int64, reason SkipReason) Allocation {
	return Allocation{
		Identifier:    o.Identifier,
		Label:         o.Label,
		Category:      o.Category,
		PriceCents:    o.PriceCents,
		Probability:   o.Probability,
		Confidence:    o.Confidence,
		Edge:          o.Edge(),
		ContractCount: contracts,
		SpendCents:    contracts * o.PriceCents,
		Rationale:     o.Rationale,
		SkipReason:    reason,
	}
}

// TotalSpend suma el gasto de una lista de allocations.
func TotalSpend(allocs []Allocation) int64 {
	var total int64
	for _, a := range allocs {
		total += a.SpendCents
	}
	return total
}

// Plan agrupa el resultado de una invocación con metadatos para auditoría.
type Plan struct {
	ID          string
	CreatedAt   time.Time
	Policy      Policy
	BudgetCents int64
	Allocations []Allocation
}

// TotalSpend devuelve el gasto total del plan en centavos.
func (p Plan) TotalSpend() int64 {
	return TotalSpend(p.Allocations)
}

// Residual devuelve el presupuesto que queda sin gastar.
func (p Plan) Residual() int64 {
	return p.BudgetCents - p.TotalSpend()
}

// Traded devuelve solo las allocations con contratos.
func (p Plan) Traded() []Allocation {
	out := make([]Allocation, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		if a.Traded() {
			out = append(out, a)
		}
	}
	return out
}

// TruncateLabel recorta un texto a maxLen caracteres añadiendo "...".
// Si está vacío usa el identificador como fallback.
func TruncateLabel(label, identifier string, maxLen int) string {
	s := label
	if s == "" {
		s = identifier
	}
	r := []rune(s)
	if len(r) > maxLen && maxLen > 3 {
		return string(r[:maxLen-3]) + "..."
	}
	return s
}
