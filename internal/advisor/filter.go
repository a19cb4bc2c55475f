package advisor

import (
	"fmt"

	"github.com/alejandrodnm/edgebot/internal/domain"
)

// FilterConfig contiene los parámetros configurables de filtrado.
type FilterConfig struct {
	// MinEdge descarta oportunidades cuyo edge no supera estrictamente este valor.
	MinEdge float64
	// MinPriceCents y MaxPriceCents delimitan (inclusive) los precios operables.
	// Fuera de este rango el precio es ruido de cotización (liquidity trap).
	MinPriceCents int64
	MaxPriceCents int64
	// MinVolume si > 0, descarta mercados con volumen informado menor o igual.
	// Volumen 0 significa que la fuente no lo informa y no se filtra.
	MinVolume float64
}

// DefaultFilterConfig devuelve el filtro estándar: 5 puntos de edge, precios 1–99¢.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinEdge:       0.05,
		MinPriceCents: 1,
		MaxPriceCents: 99,
	}
}

// Validate comprueba que los límites tengan sentido.
func (c FilterConfig) Validate() error {
	if c.MinEdge < 0 || c.MinEdge >= 1 {
		return fmt.Errorf("%w: min_edge %v outside [0,1)", domain.ErrInvalidConfig, c.MinEdge)
	}
	if c.MinPriceCents < 1 || c.MaxPriceCents > 99 || c.MinPriceCents > c.MaxPriceCents {
		return fmt.Errorf("%w: price bounds [%d,%d] must lie within [1,99]",
			domain.ErrInvalidConfig, c.MinPriceCents, c.MaxPriceCents)
	}
	if c.MinVolume < 0 {
		return fmt.Errorf("%w: min_volume %v is negative", domain.ErrInvalidConfig, c.MinVolume)
	}
	return nil
}

// Filter aplica los filtros configurados sobre una lista de oportunidades.
type Filter struct {
	cfg FilterConfig
}

// NewFilter crea un Filter con la configuración dada.
func NewFilter(cfg FilterConfig) *Filter {
	return &Filter{cfg: cfg}
}

// Apply devuelve las oportunidades que pasan todos los filtros, en el mismo orden.
func (f *Filter) Apply(opps []domain.Opportunity) []domain.Opportunity {
	result := make([]domain.Opportunity, 0, len(opps))
	for _, opp := range opps {
		if f.passes(opp) {
			result = append(result, opp)
		}
	}
	return result
}

// passes devuelve true si la oportunidad supera todos los criterios.
func (f *Filter) passes(opp domain.Opportunity) bool {
	if opp.PriceCents < f.cfg.MinPriceCents || opp.PriceCents > f.cfg.MaxPriceCents {
		return false
	}
	if !domain.ClearsMargin(opp.Probability, opp.PriceCents, f.cfg.MinEdge) {
		return false
	}
	if f.cfg.MinVolume > 0 && opp.Volume > 0 && opp.Volume <= f.cfg.MinVolume {
		return false
	}
	return true
}
