package domain

import (
	"fmt"
	"math"
)

// Opportunity es un contrato binario candidato: precio de mercado del lado YES
// más una probabilidad estimada de forma independiente.
// Se construye una vez y se consume por valor; nunca se muta.
type Opportunity struct {
	Identifier  string  // ticker del instrumento
	Label       string  // pregunta / nombre de la opción
	Category    string  // categoría del mercado (Politics, Sports, ...)
	PriceCents  int64   // coste de un contrato YES en centavos (paga 100 si resuelve YES)
	Probability float64 // probabilidad estimada de YES, [0, 1]
	Confidence  float64 // fuerza de la estimación (0 = no informada). Solo para ordenar.
	Volume      float64 // volumen negociado, 0 si la fuente no lo informa
	Rationale   string  // explicación del estimador, se pasa tal cual
}

// NewOpportunity construye una Opportunity validando precio y probabilidad.
func NewOpportunity(identifier, label string, priceCents int64, probability float64) (Opportunity, error) {
	o := Opportunity{
		Identifier:  identifier,
		Label:       label,
		PriceCents:  priceCents,
		Probability: probability,
	}
	if err := o.Validate(); err != nil {
		return Opportunity{}, err
	}
	return o, nil
}

// Validate comprueba las precondiciones numéricas.
// Precios 0 y 100 son válidos aquí; el Filter los descarta como liquidity trap.
func (o Opportunity) Validate() error {
	if o.PriceCents < 0 || o.PriceCents > 100 {
		return fmt.Errorf("%w: %s: price %d¢ outside [0,100]", ErrPrecondition, o.Identifier, o.PriceCents)
	}
	if math.IsNaN(o.Probability) || o.Probability < 0 || o.Probability > 1 {
		return fmt.Errorf("%w: %s: probability %v outside [0,1]", ErrPrecondition, o.Identifier, o.Probability)
	}
	if math.IsNaN(o.Confidence) || o.Confidence < 0 {
		return fmt.Errorf("%w: %s: confidence %v is negative", ErrPrecondition, o.Identifier, o.Confidence)
	}
	return nil
}

// MarketProb devuelve la probabilidad implícita del mercado (precio / 100).
func (o Opportunity) MarketProb() float64 {
	return ImpliedProb(o.PriceCents)
}

// Edge devuelve probabilidad estimada − probabilidad implícita (con signo).
func (o Opportunity) Edge() float64 {
	return Edge(o.Probability, o.PriceCents)
}

// WithProbability devuelve una copia con otra probabilidad estimada.
func (o Opportunity) WithProbability(p float64) Opportunity {
	o.Probability = p
	return o
}
