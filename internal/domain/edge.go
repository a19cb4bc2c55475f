package domain

// ImpliedProb convierte un precio en centavos a probabilidad implícita.
func ImpliedProb(priceCents int64) float64 {
	return float64(priceCents) / 100.0
}

// Edge calcula el edge con signo: positivo = el mercado infravalora YES.
func Edge(probability float64, priceCents int64) float64 {
	return probability - ImpliedProb(priceCents)
}

// EdgeScore es el edge truncado en 0 (usado para ponderar).
func EdgeScore(probability float64, priceCents int64) float64 {
	return max(0, Edge(probability, priceCents))
}

// marginEpsilon absorbe el error de redondeo de p - precio/100 en float64:
// 0.65 - 0.60 da 0.05000000000000004 y 0.35 + 0.05 da 0.39999999999999997.
const marginEpsilon = 1e-9

// ClearsMargin devuelve true si el edge supera estrictamente margin.
// Un edge igual al margen (salvo error de redondeo) no lo supera.
func ClearsMargin(probability float64, priceCents int64, margin float64) bool {
	return Edge(probability, priceCents)-margin > marginEpsilon
}

// FullKelly devuelve la fracción de Kelly para un contrato binario que cuesta
// marketProb y paga 1 si gana.
//
// Fórmula: f* = (p - price) / (1 - price)
//
// Devuelve 0 si no hay edge o si el precio no está en (0, 1).
func FullKelly(probability, marketProb float64) float64 {
	if marketProb <= 0 || marketProb >= 1 {
		return 0
	}
	k := (probability - marketProb) / (1 - marketProb)
	if k < 0 {
		return 0
	}
	return k
}

// ExpectedValuePerContract devuelve el valor esperado en centavos de un contrato YES.
func ExpectedValuePerContract(probability float64, priceCents int64) float64 {
	return probability*100 - float64(priceCents)
}
