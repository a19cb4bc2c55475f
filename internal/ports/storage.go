package ports

import (
	"context"

	"github.com/alejandrodnm/edgebot/internal/domain"
)

// ResearchStore guarda el último snapshot de mercados y estimaciones.
// Solo persiste entradas; los planes no se guardan.
type ResearchStore interface {
	OpportunitySource

	// SaveResearch hace upsert del mercado y la estimación de cada oportunidad,
	// indexado por identificador (la última gana).
	SaveResearch(ctx context.Context, opps []domain.Opportunity) error

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
