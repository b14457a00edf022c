package service

import (
	"time"

	"masark-engine/internal/domain"
)

// allowedTransitions is the forward edge set of the session state
// machine. Guards beyond reachability are checked in CanTransition.
var allowedTransitions = map[domain.SessionState][]domain.SessionState{
	domain.StateAnswerQuestions:     {domain.StateRateCareerClusters},
	domain.StateRateCareerClusters:  {domain.StateCalculateAssessment},
	domain.StateCalculateAssessment: {domain.StateTieResolvement, domain.StateRateAssessment},
	domain.StateTieResolvement:      {domain.StateRateAssessment},
	domain.StateRateAssessment:      {domain.StateReport},
	domain.StateReport:              nil,
}

// SessionLifecycle gates when the ledger, scoring engine and tie resolver
// may run. It sequences the session through its states and owns the
// guarded writes back onto the session; it performs no scoring itself.
type SessionLifecycle struct {
	ledger AnswerLedger
}

// CanTransition checks both reachability and the guard attached to the
// edge: answer completion into RateCareerClusters, the tie-breaker flag
// out of CalculateAssessment, and a recorded rating into Report.
func (l SessionLifecycle) CanTransition(s *domain.AssessmentSession, target domain.SessionState) error {
	illegal := &domain.IllegalTransitionError{From: s.CurrentState, To: target}

	reachable := false
	for _, next := range allowedTransitions[s.CurrentState] {
		if next == target {
			reachable = true
			break
		}
	}
	if !reachable {
		return illegal
	}

	switch target {
	case domain.StateRateCareerClusters:
		if !l.ledger.IsComplete(s) {
			return illegal
		}
	case domain.StateTieResolvement:
		if !s.RequiresTieBreaker {
			return illegal
		}
	case domain.StateRateAssessment:
		if s.CurrentState == domain.StateCalculateAssessment && s.RequiresTieBreaker {
			return illegal
		}
	case domain.StateReport:
		if s.AssessmentRating == nil {
			return illegal
		}
	}
	return nil
}

// Transition moves the session to the target state after CanTransition
// approves. Entering the terminal Report state stamps completion.
func (l SessionLifecycle) Transition(s *domain.AssessmentSession, target domain.SessionState, now time.Time) error {
	if err := l.CanTransition(s, target); err != nil {
		return err
	}
	s.CurrentState = target
	s.UpdatedAt = now
	if target == domain.StateReport {
		completed := now
		s.CompletedAt = &completed
	}
	return nil
}

// Guard verifies the session currently sits in the required state.
func (SessionLifecycle) Guard(s *domain.AssessmentSession, required domain.SessionState) error {
	if s.CurrentState != required {
		return &domain.IllegalTransitionError{From: s.CurrentState, To: required}
	}
	return nil
}

// MarkForTieBreaker sets the tie-breaker flag. Only legal while the
// session is calculating.
func (l SessionLifecycle) MarkForTieBreaker(s *domain.AssessmentSession, now time.Time) error {
	if err := l.Guard(s, domain.StateCalculateAssessment); err != nil {
		return err
	}
	s.RequiresTieBreaker = true
	s.UpdatedAt = now
	return nil
}

// SetRating records the 1..5 assessment rating. Only legal while the
// session is in the rating state.
func (l SessionLifecycle) SetRating(s *domain.AssessmentSession, rating int, now time.Time) error {
	if err := l.Guard(s, domain.StateRateAssessment); err != nil {
		return err
	}
	if rating < 1 || rating > 5 {
		return domain.ErrInvalidRating
	}
	s.AssessmentRating = &rating
	s.UpdatedAt = now
	return nil
}

// ApplyScore writes a scoring result onto the session. Strengths outside
// [0,1] never reach the session fields.
func (SessionLifecycle) ApplyScore(s *domain.AssessmentSession, result ScoreResult, now time.Time) error {
	strengths := make(map[domain.Dimension]float64, len(domain.Dimensions))
	for _, dim := range domain.Dimensions {
		v := result.Strengths[dim]
		if v < 0 || v > 1 {
			return domain.ErrScoreOutOfRange
		}
		strengths[dim] = v
	}

	e, sn, t, j := strengths[domain.DimensionEI], strengths[domain.DimensionSN], strengths[domain.DimensionTF], strengths[domain.DimensionJP]
	s.EStrength, s.SStrength, s.TStrength, s.JStrength = &e, &sn, &t, &j
	s.EIClarity = result.Clarity[domain.DimensionEI]
	s.SNClarity = result.Clarity[domain.DimensionSN]
	s.TFClarity = result.Clarity[domain.DimensionTF]
	s.JPClarity = result.Clarity[domain.DimensionJP]
	s.PersonalityTypeCode = result.TypeCode
	s.UpdatedAt = now
	return nil
}
