package research

import "encoding/json"

// picksFile es el documento que produce el investigador: {"picks": [...]}.
type picksFile struct {
	Picks []pick `json:"picks"`
}

// pick es una recomendación individual del investigador.
// market_price va en centavos y estimated_real_prob en puntos porcentuales (0–100).
type pick struct {
	Ticker            string      `json:"ticker"`
	OptionName        string      `json:"option_name"`
	EventTitle        string      `json:"event_title,omitempty"`
	Category          string      `json:"category"`
	MarketPrice       json.Number `json:"market_price"`
	EstimatedRealProb json.Number `json:"estimated_real_prob"`
	ConfidenceScore   json.Number `json:"confidence_score"`
	Volume            json.Number `json:"volume,omitempty"`
	Reasoning         string      `json:"reasoning"`
}
