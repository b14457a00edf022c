package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"masark-engine/internal/domain"
)

type CareerRepository interface {
	ListActive(ctx context.Context) ([]domain.Career, error)
	ListClusters(ctx context.Context) ([]domain.CareerCluster, error)
}

type PgCareerRepository struct {
	pool *pgxpool.Pool
}

func NewPgCareerRepository(pool *pgxpool.Pool) *PgCareerRepository {
	return &PgCareerRepository{pool: pool}
}

func (r *PgCareerRepository) ListActive(ctx context.Context) ([]domain.Career, error) {
	const query = `
		SELECT id, cluster_id, name_en, name_ar, description_en, description_ar,
		       COALESCE(ssoc_code, ''), is_active, created_at
		FROM careers
		WHERE is_active = TRUE
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var careers []domain.Career
	for rows.Next() {
		var c domain.Career
		if err := rows.Scan(
			&c.ID,
			&c.ClusterID,
			&c.NameEN,
			&c.NameAR,
			&c.DescEN,
			&c.DescAR,
			&c.SSOCCode,
			&c.Active,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		careers = append(careers, c)
	}
	return careers, rows.Err()
}

func (r *PgCareerRepository) ListClusters(ctx context.Context) ([]domain.CareerCluster, error) {
	const query = `
		SELECT id, name_en, name_ar, description_en, description_ar
		FROM career_clusters
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clusters []domain.CareerCluster
	for rows.Next() {
		var c domain.CareerCluster
		if err := rows.Scan(&c.ID, &c.NameEN, &c.NameAR, &c.DescEN, &c.DescAR); err != nil {
			return nil, err
		}
		clusters = append(clusters, c)
	}
	return clusters, rows.Err()
}
