package ports

import (
	"context"

	"github.com/alejandrodnm/edgebot/internal/domain"
)

// Notifier presenta el plan de asignación al usuario.
type Notifier interface {
	// NotifyPlan muestra las allocations del plan en el orden del engine.
	NotifyPlan(ctx context.Context, plan domain.Plan) error
}
