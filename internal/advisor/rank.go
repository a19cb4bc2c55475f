package advisor

import (
	"sort"

	"github.com/alejandrodnm/edgebot/internal/domain"
)

// RankByConfidence devuelve una copia ordenada por confianza desc, luego edge desc.
// Orden estable: empates completos conservan el orden de entrada.
func RankByConfidence(opps []domain.Opportunity) []domain.Opportunity {
	ranked := append([]domain.Opportunity(nil), opps...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return ranked[i].Edge() > ranked[j].Edge()
	})
	return ranked
}

// RankByEdge devuelve una copia ordenada por edge desc.
func RankByEdge(opps []domain.Opportunity) []domain.Opportunity {
	ranked := append([]domain.Opportunity(nil), opps...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Edge() > ranked[j].Edge()
	})
	return ranked
}
