package advisor

import "github.com/alejandrodnm/edgebot/internal/domain"

func opp(id string, price int64, prob float64) domain.Opportunity {
	return domain.Opportunity{
		Identifier:  id,
		Label:       "Will " + id + " resolve YES?",
		PriceCents:  price,
		Probability: prob,
	}
}

func newTestEngine(bankroll int64, keepZero bool) *Engine {
	cfg := DefaultConfig()
	cfg.BankrollCents = bankroll
	cfg.KeepZero = keepZero
	e, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return e
}
