package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"masark-engine/internal/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.AssessmentSession) error
	GetByToken(ctx context.Context, token string) (domain.AssessmentSession, error)
	Update(ctx context.Context, session *domain.AssessmentSession) error
}

type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

func (r *PgSessionRepository) Create(ctx context.Context, session *domain.AssessmentSession) error {
	const query = `
		INSERT INTO assessment_sessions
			(token, student_name, student_email, student_id, deployment_mode,
			 language_preference, current_state, requires_tie_breaker,
			 started_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	return r.pool.QueryRow(ctx, query,
		session.Token,
		session.StudentName,
		session.StudentEmail,
		session.StudentID,
		session.Mode,
		session.Language,
		session.CurrentState,
		session.RequiresTieBreaker,
		session.StartedAt,
		session.CreatedAt,
		session.UpdatedAt,
	).Scan(&session.ID)
}

func (r *PgSessionRepository) GetByToken(ctx context.Context, token string) (domain.AssessmentSession, error) {
	const query = `
		SELECT id, token, student_name, student_email, student_id,
		       deployment_mode, language_preference, current_state,
		       requires_tie_breaker, assessment_rating, personality_type_code,
		       e_strength, s_strength, t_strength, j_strength,
		       ei_clarity, sn_clarity, tf_clarity, jp_clarity,
		       started_at, completed_at, created_at, updated_at
		FROM assessment_sessions
		WHERE token = $1
	`
	var (
		session        domain.AssessmentSession
		code           *string
		ei, sn, tf, jp *string
	)
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.Token,
		&session.StudentName,
		&session.StudentEmail,
		&session.StudentID,
		&session.Mode,
		&session.Language,
		&session.CurrentState,
		&session.RequiresTieBreaker,
		&session.AssessmentRating,
		&code,
		&session.EStrength,
		&session.SStrength,
		&session.TStrength,
		&session.JStrength,
		&ei, &sn, &tf, &jp,
		&session.StartedAt,
		&session.CompletedAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return domain.AssessmentSession{}, err
	}
	if code != nil {
		session.PersonalityTypeCode = *code
	}
	if ei != nil {
		session.EIClarity = domain.Clarity(*ei)
	}
	if sn != nil {
		session.SNClarity = domain.Clarity(*sn)
	}
	if tf != nil {
		session.TFClarity = domain.Clarity(*tf)
	}
	if jp != nil {
		session.JPClarity = domain.Clarity(*jp)
	}
	return session, nil
}

func (r *PgSessionRepository) Update(ctx context.Context, session *domain.AssessmentSession) error {
	const query = `
		UPDATE assessment_sessions
		SET current_state = $2,
		    requires_tie_breaker = $3,
		    assessment_rating = $4,
		    personality_type_code = NULLIF($5, ''),
		    e_strength = $6,
		    s_strength = $7,
		    t_strength = $8,
		    j_strength = $9,
		    ei_clarity = NULLIF($10, ''),
		    sn_clarity = NULLIF($11, ''),
		    tf_clarity = NULLIF($12, ''),
		    jp_clarity = NULLIF($13, ''),
		    completed_at = $14,
		    updated_at = $15
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.CurrentState,
		session.RequiresTieBreaker,
		session.AssessmentRating,
		session.PersonalityTypeCode,
		session.EStrength,
		session.SStrength,
		session.TStrength,
		session.JStrength,
		string(session.EIClarity),
		string(session.SNClarity),
		string(session.TFClarity),
		string(session.JPClarity),
		session.CompletedAt,
		session.UpdatedAt,
	)
	return err
}
