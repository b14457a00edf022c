package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"masark-engine/internal/domain"
)

type AnswerRepository interface {
	Upsert(ctx context.Context, answer domain.AssessmentAnswer) error
	ListBySession(ctx context.Context, sessionID int64) (map[int64]domain.AssessmentAnswer, error)
}

type PgAnswerRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnswerRepository(pool *pgxpool.Pool) *PgAnswerRepository {
	return &PgAnswerRepository{pool: pool}
}

// Upsert relies on the (session_id, question_id) unique constraint so a
// re-submitted answer replaces the prior one.
func (r *PgAnswerRepository) Upsert(ctx context.Context, answer domain.AssessmentAnswer) error {
	const query = `
		INSERT INTO assessment_answers (session_id, question_id, selected_option, answered_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, question_id)
		DO UPDATE SET
			selected_option = EXCLUDED.selected_option,
			answered_at = EXCLUDED.answered_at
	`
	_, err := r.pool.Exec(ctx, query,
		answer.SessionID,
		answer.QuestionID,
		answer.SelectedOption,
		answer.AnsweredAt,
	)
	return err
}

func (r *PgAnswerRepository) ListBySession(ctx context.Context, sessionID int64) (map[int64]domain.AssessmentAnswer, error) {
	const query = `
		SELECT session_id, question_id, selected_option, answered_at
		FROM assessment_answers
		WHERE session_id = $1
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make(map[int64]domain.AssessmentAnswer)
	for rows.Next() {
		var answer domain.AssessmentAnswer
		if err := rows.Scan(
			&answer.SessionID,
			&answer.QuestionID,
			&answer.SelectedOption,
			&answer.AnsweredAt,
		); err != nil {
			return nil, err
		}
		answers[answer.QuestionID] = answer
	}
	return answers, rows.Err()
}
