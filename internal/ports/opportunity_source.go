package ports

import (
	"context"

	"github.com/alejandrodnm/edgebot/internal/domain"
)

// OpportunitySource entrega oportunidades ya normalizadas: precio de mercado
// más la estimación de probabilidad del investigador.
type OpportunitySource interface {
	// LoadOpportunities devuelve las oportunidades de las categorías dadas
	// (comparación sin mayúsculas). Lista vacía = todas las categorías.
	LoadOpportunities(ctx context.Context, categories []string) ([]domain.Opportunity, error)
}
