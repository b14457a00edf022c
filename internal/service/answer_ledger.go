package service

import (
	"time"

	"masark-engine/internal/domain"
)

// QuestionSetSize is the fixed number of forced-choice questions a
// student answers before the assessment can be scored.
const QuestionSetSize = 36

// AnswerLedger records answers against a session, enforcing one answer
// per question with idempotent replace.
type AnswerLedger struct{}

// RecordAnswer validates the option and upserts the answer for the given
// question. A prior answer for the same question is replaced (last write
// wins). The session's updated marker is touched on every write; nothing
// is mutated when validation fails.
func (AnswerLedger) RecordAnswer(s *domain.AssessmentSession, questionID int64, option domain.Option, now time.Time) error {
	if !option.Valid() {
		return domain.ErrInvalidOption
	}
	if s.Answers == nil {
		s.Answers = make(map[int64]domain.AssessmentAnswer, QuestionSetSize)
	}
	s.Answers[questionID] = domain.AssessmentAnswer{
		SessionID:      s.ID,
		QuestionID:     questionID,
		SelectedOption: option,
		AnsweredAt:     now,
	}
	s.UpdatedAt = now
	return nil
}

// IsComplete reports whether enough questions have been answered to
// score the assessment.
func (AnswerLedger) IsComplete(s *domain.AssessmentSession) bool {
	return s.AnsweredCount() >= QuestionSetSize
}
