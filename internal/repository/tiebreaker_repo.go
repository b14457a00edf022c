package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"masark-engine/internal/domain"
)

type TieBreakerRepository interface {
	ListActive(ctx context.Context) ([]domain.TieBreakerQuestion, error)
	UpsertAnswer(ctx context.Context, answer domain.TieBreakAnswer) error
	ListAnswers(ctx context.Context, sessionID int64) ([]domain.TieBreakAnswer, error)
}

type PgTieBreakerRepository struct {
	pool *pgxpool.Pool
}

func NewPgTieBreakerRepository(pool *pgxpool.Pool) *PgTieBreakerRepository {
	return &PgTieBreakerRepository{pool: pool}
}

func (r *PgTieBreakerRepository) ListActive(ctx context.Context) ([]domain.TieBreakerQuestion, error) {
	const query = `
		SELECT id, dimension, order_index,
		       text_en, text_ar,
		       option_a_text_en, option_a_text_ar,
		       option_b_text_en, option_b_text_ar,
		       option_a_maps_to_first, is_active
		FROM tie_breaker_questions
		WHERE is_active = TRUE
		ORDER BY dimension, order_index
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.TieBreakerQuestion
	for rows.Next() {
		var q domain.TieBreakerQuestion
		if err := rows.Scan(
			&q.ID,
			&q.Dimension,
			&q.OrderIndex,
			&q.TextEN,
			&q.TextAR,
			&q.OptionATextEN,
			&q.OptionATextAR,
			&q.OptionBTextEN,
			&q.OptionBTextAR,
			&q.OptionAMapsToFirst,
			&q.Active,
		); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// UpsertAnswer keeps one tie-break answer per (session, dimension); a
// re-submitted vote replaces the prior one.
func (r *PgTieBreakerRepository) UpsertAnswer(ctx context.Context, answer domain.TieBreakAnswer) error {
	const query = `
		INSERT INTO tie_break_answers (session_id, question_id, dimension, selected_option, answered_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, dimension)
		DO UPDATE SET
			question_id = EXCLUDED.question_id,
			selected_option = EXCLUDED.selected_option,
			answered_at = EXCLUDED.answered_at
	`
	_, err := r.pool.Exec(ctx, query,
		answer.SessionID,
		answer.QuestionID,
		answer.Dimension,
		answer.SelectedOption,
		answer.AnsweredAt,
	)
	return err
}

func (r *PgTieBreakerRepository) ListAnswers(ctx context.Context, sessionID int64) ([]domain.TieBreakAnswer, error) {
	const query = `
		SELECT session_id, question_id, dimension, selected_option, answered_at
		FROM tie_break_answers
		WHERE session_id = $1
		ORDER BY dimension
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []domain.TieBreakAnswer
	for rows.Next() {
		var answer domain.TieBreakAnswer
		if err := rows.Scan(
			&answer.SessionID,
			&answer.QuestionID,
			&answer.Dimension,
			&answer.SelectedOption,
			&answer.AnsweredAt,
		); err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, rows.Err()
}
