package advisor

import (
	"fmt"
	"math"
	"sort"

	"github.com/alejandrodnm/edgebot/internal/domain"
)

// ProportionalAllocator reparte un único presupuesto entre un lote de oportunidades
// en proporción a su edge. No hay agotamiento secuencial: cada superviviente
// recibe su porción del mismo pool.
type ProportionalAllocator struct {
	noiseMargin float64
}

// NewProportionalAllocator crea un allocator con el margen mínimo de edge dado.
func NewProportionalAllocator(noiseMargin float64) *ProportionalAllocator {
	return &ProportionalAllocator{noiseMargin: noiseMargin}
}

// Allocate devuelve una allocation por cada oportunidad con edge > margen.
// Lista vacía = no gastar este ciclo (no es un error).
func (a *ProportionalAllocator) Allocate(opps []domain.Opportunity, budgetCents int64) ([]domain.Allocation, error) {
	all, err := a.allocateAligned(opps, budgetCents)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Allocation, 0, len(all))
	for _, alloc := range all {
		if alloc.SkipReason == domain.SkipBelowNoiseMargin {
			continue
		}
		out = append(out, alloc)
	}
	return out, nil
}

// allocateAligned devuelve una allocation por cada entrada, en el mismo orden.
// Las que no superan el margen quedan a cero con SkipBelowNoiseMargin.
func (a *ProportionalAllocator) allocateAligned(opps []domain.Opportunity, budgetCents int64) ([]domain.Allocation, error) {
	if budgetCents < 0 {
		return nil, fmt.Errorf("%w: negative budget %d", domain.ErrPrecondition, budgetCents)
	}

	scores := make([]float64, len(opps))
	totalEdge := 0.0
	for i, opp := range opps {
		if opp.PriceCents <= 0 || opp.PriceCents >= 100 {
			return nil, fmt.Errorf("%w: %s: price %d¢ outside (0,100)", domain.ErrPrecondition, opp.Identifier, opp.PriceCents)
		}
		if !domain.ClearsMargin(opp.Probability, opp.PriceCents, a.noiseMargin) {
			continue
		}
		score := domain.EdgeScore(opp.Probability, opp.PriceCents)
		scores[i] = score
		totalEdge += score
	}

	out := make([]domain.Allocation, len(opps))
	if totalEdge == 0 {
		for i, opp := range opps {
			out[i] = domain.NewAllocation(opp, 0, domain.SkipBelowNoiseMargin)
		}
		return out, nil
	}

	shares := apportion(scores, totalEdge, budgetCents)
	for i, opp := range opps {
		if scores[i] == 0 {
			out[i] = domain.NewAllocation(opp, 0, domain.SkipBelowNoiseMargin)
			continue
		}
		contracts := shares[i] / opp.PriceCents
		reason := domain.SkipNone
		if contracts == 0 {
			reason = domain.SkipZeroContracts
		}
		out[i] = domain.NewAllocation(opp, contracts, reason)
	}
	return out, nil
}

// apportion calcula share_i = round(budget × score_i / total).
// Si el redondeo hace que la suma supere el presupuesto, quita un centavo a las
// porciones que más redondearon hacia arriba hasta cuadrar.
func apportion(scores []float64, total float64, budgetCents int64) []int64 {
	shares := make([]int64, len(scores))
	excessOf := make([]float64, len(scores))
	var sum int64
	for i, s := range scores {
		if s == 0 {
			continue
		}
		exact := float64(budgetCents) * (s / total)
		shares[i] = int64(math.Round(exact))
		excessOf[i] = float64(shares[i]) - exact
		sum += shares[i]
	}

	over := sum - budgetCents
	if over <= 0 {
		return shares
	}

	idx := make([]int, 0, len(scores))
	for i := range scores {
		if shares[i] > 0 {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return excessOf[idx[a]] > excessOf[idx[b]]
	})
	for over > 0 {
		for _, i := range idx {
			if over == 0 {
				break
			}
			if shares[i] > 0 {
				shares[i]--
				over--
			}
		}
	}
	return shares
}
