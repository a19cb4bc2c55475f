package advisor

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/alejandrodnm/edgebot/internal/domain"
)

// GroupByCategory agrupa oportunidades por categoría conservando el orden dentro de cada grupo.
func GroupByCategory(opps []domain.Opportunity) map[string][]domain.Opportunity {
	groups := make(map[string][]domain.Opportunity)
	for _, o := range opps {
		groups[o.Category] = append(groups[o.Category], o)
	}
	return groups
}

// PlanCategories ejecuta el engine una vez por categoría (orden alfabético),
// pasando a cada llamada lo que queda del presupuesto tras las anteriores.
// El acumulador vive aquí, en un único goroutine.
func PlanCategories(e *Engine, batches map[string][]domain.Opportunity, budgetCents int64, policy domain.Policy) ([]domain.Allocation, error) {
	if budgetCents < 0 {
		return nil, fmt.Errorf("advisor.PlanCategories: %w: negative budget %d", domain.ErrPrecondition, budgetCents)
	}

	names := make([]string, 0, len(batches))
	for name := range batches {
		names = append(names, name)
	}
	sort.Strings(names)

	remaining := budgetCents
	var all []domain.Allocation
	for _, name := range names {
		allocs, err := e.Run(batches[name], remaining, policy)
		if err != nil {
			return nil, fmt.Errorf("advisor.PlanCategories: category %q: %w", name, err)
		}
		spent := domain.TotalSpend(allocs)
		remaining -= spent
		slog.Debug("category planned",
			"category", name,
			"candidates", len(batches[name]),
			"spent", spent,
			"remaining", remaining,
		)
		all = append(all, allocs...)
	}
	return all, nil
}
