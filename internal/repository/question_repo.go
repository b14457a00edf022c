package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"masark-engine/internal/domain"
)

type QuestionRepository interface {
	ListActive(ctx context.Context) ([]domain.Question, error)
}

type PgQuestionRepository struct {
	pool *pgxpool.Pool
}

func NewPgQuestionRepository(pool *pgxpool.Pool) *PgQuestionRepository {
	return &PgQuestionRepository{pool: pool}
}

func (r *PgQuestionRepository) ListActive(ctx context.Context) ([]domain.Question, error) {
	const query = `
		SELECT id, order_number, dimension,
		       text_en, text_ar,
		       option_a_text_en, option_a_text_ar,
		       option_b_text_en, option_b_text_ar,
		       option_a_maps_to_first, is_active, created_at, updated_at
		FROM questions
		WHERE is_active = TRUE
		ORDER BY order_number
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(
			&q.ID,
			&q.OrderNumber,
			&q.Dimension,
			&q.TextEN,
			&q.TextAR,
			&q.OptionATextEN,
			&q.OptionATextAR,
			&q.OptionBTextEN,
			&q.OptionBTextAR,
			&q.OptionAMapsToFirst,
			&q.Active,
			&q.CreatedAt,
			&q.UpdatedAt,
		); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// QuestionIndex keys a question list by id for answer resolution.
func QuestionIndex(questions []domain.Question) map[int64]domain.Question {
	index := make(map[int64]domain.Question, len(questions))
	for _, q := range questions {
		index[q.ID] = q
	}
	return index
}
