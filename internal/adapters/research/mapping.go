package research

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/alejandrodnm/edgebot/internal/domain"
)

// mapPicks convierte los DTOs a domain.Opportunity. Falla en el primer pick inválido.
func mapPicks(raw []pick, defaultCategory string) ([]domain.Opportunity, error) {
	opps := make([]domain.Opportunity, 0, len(raw))
	for i, p := range raw {
		opp, err := mapPick(p, defaultCategory)
		if err != nil {
			return nil, fmt.Errorf("pick %d: %w", i, err)
		}
		opps = append(opps, opp)
	}
	return opps, nil
}

// mapPick convierte un pick a domain.Opportunity validando rangos.
func mapPick(p pick, defaultCategory string) (domain.Opportunity, error) {
	if p.Ticker == "" {
		return domain.Opportunity{}, fmt.Errorf("%w: missing ticker", domain.ErrPrecondition)
	}

	price, err := p.MarketPrice.Float64()
	if err != nil {
		return domain.Opportunity{}, fmt.Errorf("%w: %s: market_price %q: %v", domain.ErrPrecondition, p.Ticker, p.MarketPrice, err)
	}
	if price != math.Trunc(price) {
		return domain.Opportunity{}, fmt.Errorf("%w: %s: market_price %v is not whole cents", domain.ErrPrecondition, p.Ticker, price)
	}

	probPct, err := p.EstimatedRealProb.Float64()
	if err != nil {
		return domain.Opportunity{}, fmt.Errorf("%w: %s: estimated_real_prob %q: %v", domain.ErrPrecondition, p.Ticker, p.EstimatedRealProb, err)
	}

	opp := domain.Opportunity{
		Identifier:  p.Ticker,
		Label:       label(p),
		Category:    p.Category,
		PriceCents:  int64(price),
		Probability: probPct / 100,
		Confidence:  optionalFloat(p.ConfidenceScore),
		Volume:      optionalFloat(p.Volume),
		Rationale:   p.Reasoning,
	}
	if opp.Category == "" {
		opp.Category = defaultCategory
	}
	if err := opp.Validate(); err != nil {
		return domain.Opportunity{}, err
	}
	return opp, nil
}

// label usa el nombre de la opción, con el título del evento delante si existe.
func label(p pick) string {
	switch {
	case p.EventTitle != "" && p.OptionName != "":
		return p.EventTitle + ": " + p.OptionName
	case p.OptionName != "":
		return p.OptionName
	default:
		return p.EventTitle
	}
}

// optionalFloat devuelve 0 si el campo falta o no es numérico.
func optionalFloat(n json.Number) float64 {
	if n == "" {
		return 0
	}
	v, err := n.Float64()
	if err != nil {
		return 0
	}
	return v
}
