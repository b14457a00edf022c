package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ClusterRatingRepository interface {
	Upsert(ctx context.Context, sessionID, clusterID int64, rating int) error
	ListBySession(ctx context.Context, sessionID int64) (map[int64]int, error)
}

type PgClusterRatingRepository struct {
	pool *pgxpool.Pool
}

func NewPgClusterRatingRepository(pool *pgxpool.Pool) *PgClusterRatingRepository {
	return &PgClusterRatingRepository{pool: pool}
}

func (r *PgClusterRatingRepository) Upsert(ctx context.Context, sessionID, clusterID int64, rating int) error {
	const query = `
		INSERT INTO cluster_ratings (session_id, cluster_id, rating, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (session_id, cluster_id)
		DO UPDATE SET
			rating = EXCLUDED.rating,
			updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, sessionID, clusterID, rating)
	return err
}

func (r *PgClusterRatingRepository) ListBySession(ctx context.Context, sessionID int64) (map[int64]int, error) {
	const query = `
		SELECT cluster_id, rating
		FROM cluster_ratings
		WHERE session_id = $1
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make(map[int64]int)
	for rows.Next() {
		var (
			clusterID int64
			rating    int
		)
		if err := rows.Scan(&clusterID, &rating); err != nil {
			return nil, err
		}
		ratings[clusterID] = rating
	}
	return ratings, rows.Err()
}
