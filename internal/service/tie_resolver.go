package service

import (
	"strings"

	"masark-engine/internal/domain"
)

// TieResolver settles dimensions the scoring engine reported as exact
// splits. A single binary tie-break answer decides the letter; the
// numeric strength stays at 0.5 and the clarity band is untouched.
type TieResolver struct{}

// SelectTieBreaker picks the active tie-break question with the lowest
// order index among those scoped to the tied dimension. Selection is
// deterministic and repeatable.
func (TieResolver) SelectTieBreaker(dim domain.Dimension, catalog []domain.TieBreakerQuestion) (domain.TieBreakerQuestion, error) {
	var picked domain.TieBreakerQuestion
	found := false
	for _, q := range catalog {
		if !q.Active || q.Dimension != dim {
			continue
		}
		if !found || q.OrderIndex < picked.OrderIndex {
			picked = q
			found = true
		}
	}
	if !found {
		return domain.TieBreakerQuestion{}, domain.ErrNoTieBreaker
	}
	return picked, nil
}

// ApplyTieBreakAnswer resolves the letter for a tied dimension using the
// same first/second mapping rule as ordinary questions. The question must
// be scoped to the dimension being resolved; mismatched pairs are
// rejected rather than trusted.
func (TieResolver) ApplyTieBreakAnswer(q domain.TieBreakerQuestion, dim domain.Dimension, option domain.Option) (string, error) {
	if !option.Valid() {
		return "", domain.ErrInvalidOption
	}
	if q.Dimension != dim {
		return "", domain.ErrDimensionMismatch
	}
	if q.MapsToFirst(option) {
		return dim.First(), nil
	}
	return dim.Second(), nil
}

// ResolveTie rewrites the affected letter in the result's type code and
// clears the tie flag for that dimension. Dimensions are orthogonal, so
// resolution order does not affect the outcome.
func (TieResolver) ResolveTie(result *ScoreResult, dim domain.Dimension, letter string) error {
	if !result.Tie(dim) {
		return domain.ErrDimensionNotTied
	}
	letters := strings.Split(result.TypeCode, "")
	for i, d := range domain.Dimensions {
		if d == dim && i < len(letters) {
			letters[i] = letter
		}
	}
	result.TypeCode = strings.Join(letters, "")

	remaining := result.Ties[:0]
	for _, tied := range result.Ties {
		if tied != dim {
			remaining = append(remaining, tied)
		}
	}
	result.Ties = remaining
	return nil
}
