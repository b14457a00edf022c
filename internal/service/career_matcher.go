package service

import (
	"sort"

	"masark-engine/internal/domain"
)

// CareerMatcher ranks the career catalog against a personality type using
// the precomputed weight table. It is pure and stateless; caching is
// layered outside by CareerMatchCache.
type CareerMatcher struct{}

// Rank returns careers ordered by match score, highest first, ties broken
// by ascending career id so repeated calls yield identical output.
// Careers with no recorded weight for the type are excluded rather than
// defaulted to zero, as are inactive careers. A non-positive limit means
// no truncation.
func (CareerMatcher) Rank(typeCode string, careers []domain.Career, weights domain.MatchWeights, limit int) []domain.RankedCareer {
	ranked := make([]domain.RankedCareer, 0, len(careers))
	for _, career := range careers {
		if !career.Active {
			continue
		}
		score, ok := weights[domain.MatchKey{TypeCode: typeCode, CareerID: career.ID}]
		if !ok {
			continue
		}
		ranked = append(ranked, domain.RankedCareer{Career: career, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Career.ID < ranked[j].Career.ID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
