package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"masark-engine/internal/domain"
)

type PersonalityTypeRepository interface {
	GetByCode(ctx context.Context, code string) (domain.PersonalityType, error)
}

type PgPersonalityTypeRepository struct {
	pool *pgxpool.Pool
}

func NewPgPersonalityTypeRepository(pool *pgxpool.Pool) *PgPersonalityTypeRepository {
	return &PgPersonalityTypeRepository{pool: pool}
}

func (r *PgPersonalityTypeRepository) GetByCode(ctx context.Context, code string) (domain.PersonalityType, error) {
	const query = `
		SELECT id, code, name_en, name_ar, description_en, description_ar,
		       strengths_en, strengths_ar, challenges_en, challenges_ar
		FROM personality_types
		WHERE code = $1
	`
	var t domain.PersonalityType
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&t.ID,
		&t.Code,
		&t.NameEN,
		&t.NameAR,
		&t.DescEN,
		&t.DescAR,
		&t.StrengthsEN,
		&t.StrengthsAR,
		&t.ChallengesEN,
		&t.ChallengesAR,
	)
	if err != nil {
		return domain.PersonalityType{}, err
	}
	return t, nil
}
