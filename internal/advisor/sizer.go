package advisor

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/edgebot/internal/domain"
)

// SizerConfig controla el dimensionado Kelly de una oportunidad.
type SizerConfig struct {
	// KellyFraction multiplica el Kelly completo (0.25 = quarter-Kelly).
	KellyFraction float64
	// NoiseMargin es el edge mínimo por debajo del cual no se apuesta,
	// independiente del filtro previo.
	NoiseMargin float64
	// MinTicketCents es la apuesta mínima; por debajo no compensa ejecutar.
	MinTicketCents int64
}

// DefaultSizerConfig devuelve quarter-Kelly, margen de 5 puntos y ticket mínimo de $1.
func DefaultSizerConfig() SizerConfig {
	return SizerConfig{
		KellyFraction:  0.25,
		NoiseMargin:    0.05,
		MinTicketCents: 100,
	}
}

// Validate comprueba rangos.
func (c SizerConfig) Validate() error {
	if !(c.KellyFraction > 0 && c.KellyFraction <= 1) {
		return fmt.Errorf("%w: kelly_fraction %v outside (0,1]", domain.ErrInvalidConfig, c.KellyFraction)
	}
	if c.NoiseMargin < 0 || c.NoiseMargin >= 1 {
		return fmt.Errorf("%w: noise_margin %v outside [0,1)", domain.ErrInvalidConfig, c.NoiseMargin)
	}
	if c.MinTicketCents < 0 {
		return fmt.Errorf("%w: min_ticket_cents %d is negative", domain.ErrInvalidConfig, c.MinTicketCents)
	}
	return nil
}

// Sizing es el resultado de dimensionar una oportunidad aislada.
type Sizing struct {
	Contracts  int64
	SpendCents int64
	BetCents   float64 // apuesta antes de redondear a contratos enteros
	Kelly      float64 // Kelly completo
	Reason     domain.SkipReason
}

// KellySizer dimensiona una oportunidad con Kelly fraccional limitado por el presupuesto restante.
type KellySizer struct {
	cfg SizerConfig
}

// NewKellySizer crea un KellySizer con la configuración dada.
func NewKellySizer(cfg SizerConfig) *KellySizer {
	return &KellySizer{cfg: cfg}
}

// Size calcula contratos y gasto para una oportunidad.
//
//	kelly     = (p - price) / (1 - price)
//	bet       = min(bankroll × kelly × fraction, remaining)
//	contracts = floor(bet / priceCents)
//
// spend = contracts × priceCents ≤ bet ≤ remaining siempre.
func (s *KellySizer) Size(opp domain.Opportunity, bankrollCents, remainingCents int64) (Sizing, error) {
	if opp.PriceCents <= 0 || opp.PriceCents >= 100 {
		return Sizing{}, fmt.Errorf("%w: %s: price %d¢ outside (0,100)", domain.ErrPrecondition, opp.Identifier, opp.PriceCents)
	}
	if bankrollCents < 0 || remainingCents < 0 {
		return Sizing{}, fmt.Errorf("%w: %s: negative bankroll %d or remaining %d",
			domain.ErrPrecondition, opp.Identifier, bankrollCents, remainingCents)
	}

	marketProb := opp.MarketProb()
	if !domain.ClearsMargin(opp.Probability, opp.PriceCents, s.cfg.NoiseMargin) {
		return Sizing{Reason: domain.SkipBelowNoiseMargin}, nil
	}

	kelly := domain.FullKelly(opp.Probability, marketProb)
	safeKelly := kelly * s.cfg.KellyFraction
	rawBet := float64(bankrollCents) * safeKelly
	bet := math.Min(rawBet, float64(remainingCents))

	if bet < float64(s.cfg.MinTicketCents) {
		return Sizing{BetCents: bet, Kelly: kelly, Reason: domain.SkipBelowMinTicket}, nil
	}

	contracts := int64(math.Floor(bet / float64(opp.PriceCents)))
	sz := Sizing{
		Contracts:  contracts,
		SpendCents: contracts * opp.PriceCents,
		BetCents:   bet,
		Kelly:      kelly,
	}
	if contracts == 0 {
		sz.Reason = domain.SkipZeroContracts
	}
	return sz, nil
}
