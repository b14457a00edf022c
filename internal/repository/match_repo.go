package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"masark-engine/internal/domain"
)

type MatchRepository interface {
	WeightsForType(ctx context.Context, typeCode string) (domain.MatchWeights, error)
	BulkUpsert(ctx context.Context, typeCode string, scores map[int64]float64) error
}

type PgMatchRepository struct {
	pool *pgxpool.Pool
}

func NewPgMatchRepository(pool *pgxpool.Pool) *PgMatchRepository {
	return &PgMatchRepository{pool: pool}
}

func (r *PgMatchRepository) WeightsForType(ctx context.Context, typeCode string) (domain.MatchWeights, error) {
	const query = `
		SELECT m.career_id, m.match_score
		FROM personality_career_matches m
		JOIN personality_types t ON t.id = m.personality_type_id
		WHERE t.code = $1
	`
	rows, err := r.pool.Query(ctx, query, typeCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weights := make(domain.MatchWeights)
	for rows.Next() {
		var (
			careerID int64
			score    float64
		)
		if err := rows.Scan(&careerID, &score); err != nil {
			return nil, err
		}
		weights[domain.MatchKey{TypeCode: typeCode, CareerID: careerID}] = score
	}
	return weights, rows.Err()
}

// BulkUpsert writes a batch of (type, career) weights in one transaction.
// The check constraint on match_score keeps out-of-range values out of
// the table even if a caller skips validation.
func (r *PgMatchRepository) BulkUpsert(ctx context.Context, typeCode string, scores map[int64]float64) error {
	const query = `
		INSERT INTO personality_career_matches (personality_type_id, career_id, match_score, created_at, updated_at)
		SELECT t.id, $2, $3, NOW(), NOW()
		FROM personality_types t
		WHERE t.code = $1
		ON CONFLICT (personality_type_id, career_id)
		DO UPDATE SET
			match_score = EXCLUDED.match_score,
			updated_at = NOW()
	`
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for careerID, score := range scores {
		if _, err := tx.Exec(ctx, query, typeCode, careerID, score); err != nil {
			return fmt.Errorf("upsert match weight for career %d: %w", careerID, err)
		}
	}
	return tx.Commit(ctx)
}
