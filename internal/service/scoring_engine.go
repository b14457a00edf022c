package service

import (
	"strings"

	"masark-engine/internal/domain"
)

// DimensionTally is the raw vote count for one axis. A zero Total means
// the dimension received no answers and is unscored rather than silently
// defaulted.
type DimensionTally struct {
	First int
	Total int
}

// Scored reports whether any answer landed on this dimension.
func (t DimensionTally) Scored() bool {
	return t.Total > 0
}

// Strength is the proportion of answers mapping to the first letter, or
// 0.5 (fully ambiguous) for an unscored dimension.
func (t DimensionTally) Strength() float64 {
	if !t.Scored() {
		return 0.5
	}
	return float64(t.First) / float64(t.Total)
}

// Tied reports an exact 50/50 split: an even answered count with exactly
// half the votes on the first letter.
func (t DimensionTally) Tied() bool {
	return t.Scored() && t.Total%2 == 0 && t.First*2 == t.Total
}

// ScoreResult is the full outcome of scoring one answer set.
type ScoreResult struct {
	TypeCode  string
	Tallies   map[domain.Dimension]DimensionTally
	Strengths map[domain.Dimension]float64
	Clarity   map[domain.Dimension]domain.Clarity
	Ties      []domain.Dimension
}

// Tie reports whether the given dimension ended in an exact split.
func (r ScoreResult) Tie(d domain.Dimension) bool {
	for _, tied := range r.Ties {
		if tied == d {
			return true
		}
	}
	return false
}

// ScoringEngine turns a complete answer ledger into a four-letter type
// with per-dimension strength and clarity. It never mutates its inputs;
// persisting the result into the session is the caller's job.
type ScoringEngine struct{}

// ComputeType groups answers by their question's dimension, tallies votes
// per the option mapping rule, and derives type code, strengths, clarity
// bands and tie flags. Answers referencing unknown questions are skipped.
func (ScoringEngine) ComputeType(answers map[int64]domain.AssessmentAnswer, questions map[int64]domain.Question) (ScoreResult, error) {
	if len(answers) == 0 {
		return ScoreResult{}, domain.ErrEmptyAnswerSet
	}

	tallies := make(map[domain.Dimension]DimensionTally, len(domain.Dimensions))
	for _, answer := range answers {
		question, ok := questions[answer.QuestionID]
		if !ok {
			continue
		}
		tally := tallies[question.Dimension]
		tally.Total++
		if question.MapsToFirst(answer.SelectedOption) {
			tally.First++
		}
		tallies[question.Dimension] = tally
	}

	result := ScoreResult{
		Tallies:   tallies,
		Strengths: make(map[domain.Dimension]float64, len(domain.Dimensions)),
		Clarity:   make(map[domain.Dimension]domain.Clarity, len(domain.Dimensions)),
	}

	var code strings.Builder
	for _, dim := range domain.Dimensions {
		tally := tallies[dim]
		strength := tally.Strength()
		result.Strengths[dim] = strength
		result.Clarity[dim] = domain.ClarityFor(strength)
		if strength >= 0.5 {
			code.WriteString(dim.First())
		} else {
			code.WriteString(dim.Second())
		}
		if tally.Tied() {
			result.Ties = append(result.Ties, dim)
		}
	}
	result.TypeCode = code.String()
	return result, nil
}
