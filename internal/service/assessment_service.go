package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"masark-engine/internal/domain"
	"masark-engine/internal/repository"
)

var (
	ErrUnknownQuestion = errors.New("question not found or inactive")
	ErrTieUnresolved   = errors.New("one or more tied dimensions are missing a tie-break answer")
)

// AssessmentService walks a session through the assessment lifecycle. The
// engines it drives are pure; this layer loads and persists their inputs
// and outputs, and serializes mutations per session so the one-answer-
// per-question and legal-transition invariants hold under concurrent
// submissions.
type AssessmentService struct {
	logger         *zap.Logger
	sessions       repository.SessionRepository
	answers        repository.AnswerRepository
	questions      repository.QuestionRepository
	tieBreakers    repository.TieBreakerRepository
	clusterRatings repository.ClusterRatingRepository
	types          repository.PersonalityTypeRepository

	ledger    AnswerLedger
	scorer    ScoringEngine
	resolver  TieResolver
	lifecycle SessionLifecycle

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAssessmentService(
	logger *zap.Logger,
	sessions repository.SessionRepository,
	answers repository.AnswerRepository,
	questions repository.QuestionRepository,
	tieBreakers repository.TieBreakerRepository,
	clusterRatings repository.ClusterRatingRepository,
	types repository.PersonalityTypeRepository,
) *AssessmentService {
	return &AssessmentService{
		logger:         logger,
		sessions:       sessions,
		answers:        answers,
		questions:      questions,
		tieBreakers:    tieBreakers,
		clusterRatings: clusterRatings,
		types:          types,
		locks:          make(map[string]*sync.Mutex),
	}
}

// lockSession serializes mutations for one session token.
func (s *AssessmentService) lockSession(token string) func() {
	s.mu.Lock()
	lock, ok := s.locks[token]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[token] = lock
	}
	s.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}

// StartSessionInput carries the optional student fields of a new session.
type StartSessionInput struct {
	StudentName  string
	StudentEmail string
	StudentID    string
	Mode         domain.DeploymentMode
	Language     string
}

// StartSession creates a fresh session in the AnswerQuestions state with
// a uuid token.
func (s *AssessmentService) StartSession(ctx context.Context, input StartSessionInput) (domain.AssessmentSession, error) {
	if input.Mode != domain.ModeMawhiba {
		input.Mode = domain.ModeStandard
	}
	if input.Language != "ar" {
		input.Language = "en"
	}

	now := time.Now().UTC()
	session := domain.AssessmentSession{
		Token:        uuid.NewString(),
		StudentName:  input.StudentName,
		StudentEmail: input.StudentEmail,
		StudentID:    input.StudentID,
		Mode:         input.Mode,
		Language:     input.Language,
		CurrentState: domain.StateAnswerQuestions,
		StartedAt:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.sessions.Create(ctx, &session); err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("assessment session started",
		zap.String("token", session.Token),
		zap.String("mode", string(session.Mode)),
	)
	return session, nil
}

// load fetches the session and hydrates its answer ledger.
func (s *AssessmentService) load(ctx context.Context, token string) (domain.AssessmentSession, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("get session: %w", err)
	}
	answers, err := s.answers.ListBySession(ctx, session.ID)
	if err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("list answers: %w", err)
	}
	session.Answers = answers
	return session, nil
}

// AnswerProgress reports the ledger state after a submission.
type AnswerProgress struct {
	Answered int  `json:"answered"`
	Total    int  `json:"total"`
	Complete bool `json:"complete"`
}

// SubmitAnswer records one forced choice. Re-submitting for the same
// question replaces the prior answer. Only legal while the session is
// answering questions.
func (s *AssessmentService) SubmitAnswer(ctx context.Context, token string, questionID int64, option domain.Option) (AnswerProgress, error) {
	unlock := s.lockSession(token)
	defer unlock()

	session, err := s.load(ctx, token)
	if err != nil {
		return AnswerProgress{}, err
	}
	if err := s.lifecycle.Guard(&session, domain.StateAnswerQuestions); err != nil {
		return AnswerProgress{}, err
	}

	questions, err := s.questions.ListActive(ctx)
	if err != nil {
		return AnswerProgress{}, fmt.Errorf("list questions: %w", err)
	}
	if _, ok := repository.QuestionIndex(questions)[questionID]; !ok {
		return AnswerProgress{}, ErrUnknownQuestion
	}

	if err := s.ledger.RecordAnswer(&session, questionID, option, time.Now().UTC()); err != nil {
		return AnswerProgress{}, err
	}
	if err := s.answers.Upsert(ctx, session.Answers[questionID]); err != nil {
		return AnswerProgress{}, fmt.Errorf("persist answer: %w", err)
	}

	return AnswerProgress{
		Answered: session.AnsweredCount(),
		Total:    QuestionSetSize,
		Complete: s.ledger.IsComplete(&session),
	}, nil
}

// SubmitClusterRatings records the student's 1..5 interest rating per
// career cluster and moves the session forward to calculation. The
// transition out of AnswerQuestions is guarded by ledger completion.
func (s *AssessmentService) SubmitClusterRatings(ctx context.Context, token string, ratings map[int64]int) error {
	unlock := s.lockSession(token)
	defer unlock()

	session, err := s.load(ctx, token)
	if err != nil {
		return err
	}

	for _, rating := range ratings {
		if rating < 1 || rating > 5 {
			return domain.ErrInvalidRating
		}
	}

	now := time.Now().UTC()
	if session.CurrentState == domain.StateAnswerQuestions {
		if err := s.lifecycle.Transition(&session, domain.StateRateCareerClusters, now); err != nil {
			return err
		}
	}
	if err := s.lifecycle.Guard(&session, domain.StateRateCareerClusters); err != nil {
		return err
	}

	for clusterID, rating := range ratings {
		if err := s.clusterRatings.Upsert(ctx, session.ID, clusterID, rating); err != nil {
			return fmt.Errorf("persist cluster rating: %w", err)
		}
	}

	if err := s.lifecycle.Transition(&session, domain.StateCalculateAssessment, now); err != nil {
		return err
	}
	if err := s.sessions.Update(ctx, &session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// CalculationOutcome is what the calculation step hands back to the
// caller: the scoring result and, when a tie was detected, the selected
// tie-break question per tied dimension.
type CalculationOutcome struct {
	Session            domain.AssessmentSession
	Result             ScoreResult
	RequiresTieBreaker bool
	TieBreakers        []domain.TieBreakerQuestion
}

// Calculate scores the completed answer set, writes the result onto the
// session and advances it: into TieResolvement when any dimension split
// exactly, otherwise straight to RateAssessment.
func (s *AssessmentService) Calculate(ctx context.Context, token string) (CalculationOutcome, error) {
	unlock := s.lockSession(token)
	defer unlock()

	session, err := s.load(ctx, token)
	if err != nil {
		return CalculationOutcome{}, err
	}
	if err := s.lifecycle.Guard(&session, domain.StateCalculateAssessment); err != nil {
		return CalculationOutcome{}, err
	}

	questions, err := s.questions.ListActive(ctx)
	if err != nil {
		return CalculationOutcome{}, fmt.Errorf("list questions: %w", err)
	}

	result, err := s.scorer.ComputeType(session.Answers, repository.QuestionIndex(questions))
	if err != nil {
		return CalculationOutcome{}, err
	}

	now := time.Now().UTC()
	if err := s.lifecycle.ApplyScore(&session, result, now); err != nil {
		return CalculationOutcome{}, err
	}

	outcome := CalculationOutcome{Result: result}
	if len(result.Ties) > 0 {
		if err := s.lifecycle.MarkForTieBreaker(&session, now); err != nil {
			return CalculationOutcome{}, err
		}
		catalog, err := s.tieBreakers.ListActive(ctx)
		if err != nil {
			return CalculationOutcome{}, fmt.Errorf("list tie breakers: %w", err)
		}
		for _, dim := range result.Ties {
			question, err := s.resolver.SelectTieBreaker(dim, catalog)
			if err != nil {
				return CalculationOutcome{}, fmt.Errorf("select tie breaker for %s: %w", dim, err)
			}
			outcome.TieBreakers = append(outcome.TieBreakers, question)
		}
		if err := s.lifecycle.Transition(&session, domain.StateTieResolvement, now); err != nil {
			return CalculationOutcome{}, err
		}
		outcome.RequiresTieBreaker = true
	} else {
		if err := s.lifecycle.Transition(&session, domain.StateRateAssessment, now); err != nil {
			return CalculationOutcome{}, err
		}
	}

	if err := s.sessions.Update(ctx, &session); err != nil {
		return CalculationOutcome{}, fmt.Errorf("persist session: %w", err)
	}

	s.logger.Info("assessment calculated",
		zap.String("token", session.Token),
		zap.String("type_code", result.TypeCode),
		zap.Int("ties", len(result.Ties)),
	)
	outcome.Session = session
	return outcome, nil
}

// ResolveTies applies one tie-break vote per tied dimension, settles the
// affected letters and advances the session to RateAssessment. Votes for
// dimensions that are not tied are rejected; missing votes (after
// counting previously stored ones) leave the session in TieResolvement.
func (s *AssessmentService) ResolveTies(ctx context.Context, token string, votes map[domain.Dimension]domain.Option) (domain.AssessmentSession, error) {
	unlock := s.lockSession(token)
	defer unlock()

	session, err := s.load(ctx, token)
	if err != nil {
		return domain.AssessmentSession{}, err
	}
	if err := s.lifecycle.Guard(&session, domain.StateTieResolvement); err != nil {
		return domain.AssessmentSession{}, err
	}

	questions, err := s.questions.ListActive(ctx)
	if err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("list questions: %w", err)
	}
	result, err := s.scorer.ComputeType(session.Answers, repository.QuestionIndex(questions))
	if err != nil {
		return domain.AssessmentSession{}, err
	}

	catalog, err := s.tieBreakers.ListActive(ctx)
	if err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("list tie breakers: %w", err)
	}
	stored, err := s.tieBreakers.ListAnswers(ctx, session.ID)
	if err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("list tie break answers: %w", err)
	}
	pending := make(map[domain.Dimension]domain.Option, len(stored)+len(votes))
	for _, answer := range stored {
		pending[answer.Dimension] = answer.SelectedOption
	}
	for dim, option := range votes {
		if !result.Tie(dim) {
			return domain.AssessmentSession{}, domain.ErrDimensionNotTied
		}
		pending[dim] = option
	}

	now := time.Now().UTC()
	for _, dim := range append([]domain.Dimension{}, result.Ties...) {
		option, ok := pending[dim]
		if !ok {
			return domain.AssessmentSession{}, ErrTieUnresolved
		}
		question, err := s.resolver.SelectTieBreaker(dim, catalog)
		if err != nil {
			return domain.AssessmentSession{}, fmt.Errorf("select tie breaker for %s: %w", dim, err)
		}
		letter, err := s.resolver.ApplyTieBreakAnswer(question, dim, option)
		if err != nil {
			return domain.AssessmentSession{}, err
		}
		if err := s.resolver.ResolveTie(&result, dim, letter); err != nil {
			return domain.AssessmentSession{}, err
		}
		if err := s.tieBreakers.UpsertAnswer(ctx, domain.TieBreakAnswer{
			SessionID:      session.ID,
			QuestionID:     question.ID,
			Dimension:      dim,
			SelectedOption: option,
			AnsweredAt:     now,
		}); err != nil {
			return domain.AssessmentSession{}, fmt.Errorf("persist tie break answer: %w", err)
		}
	}

	session.PersonalityTypeCode = result.TypeCode
	session.RequiresTieBreaker = false
	if err := s.lifecycle.Transition(&session, domain.StateRateAssessment, now); err != nil {
		return domain.AssessmentSession{}, err
	}
	if err := s.sessions.Update(ctx, &session); err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("persist session: %w", err)
	}

	s.logger.Info("ties resolved",
		zap.String("token", session.Token),
		zap.String("type_code", session.PersonalityTypeCode),
	)
	return session, nil
}

// SetRating records the student's 1..5 rating of the assessment and
// closes the session into the terminal Report state.
func (s *AssessmentService) SetRating(ctx context.Context, token string, rating int) (domain.AssessmentSession, error) {
	unlock := s.lockSession(token)
	defer unlock()

	session, err := s.load(ctx, token)
	if err != nil {
		return domain.AssessmentSession{}, err
	}

	now := time.Now().UTC()
	if err := s.lifecycle.SetRating(&session, rating, now); err != nil {
		return domain.AssessmentSession{}, err
	}
	if err := s.lifecycle.Transition(&session, domain.StateReport, now); err != nil {
		return domain.AssessmentSession{}, err
	}
	if err := s.sessions.Update(ctx, &session); err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("persist session: %w", err)
	}
	return session, nil
}

// Results returns the session snapshot with its recorded cluster ratings
// and, when the type exists in the catalog, its localized description.
func (s *AssessmentService) Results(ctx context.Context, token string) (domain.AssessmentSession, *domain.PersonalityType, error) {
	session, err := s.load(ctx, token)
	if err != nil {
		return domain.AssessmentSession{}, nil, err
	}
	ratings, err := s.clusterRatings.ListBySession(ctx, session.ID)
	if err != nil {
		return domain.AssessmentSession{}, nil, fmt.Errorf("list cluster ratings: %w", err)
	}
	session.ClusterRatings = ratings

	var personalityType *domain.PersonalityType
	if session.PersonalityTypeCode != "" {
		t, err := s.types.GetByCode(ctx, session.PersonalityTypeCode)
		if err == nil {
			personalityType = &t
		} else {
			s.logger.Warn("personality type lookup failed",
				zap.String("code", session.PersonalityTypeCode),
				zap.Error(err),
			)
		}
	}
	return session, personalityType, nil
}

// Status returns the session with its current answer progress.
func (s *AssessmentService) Status(ctx context.Context, token string) (domain.AssessmentSession, AnswerProgress, error) {
	session, err := s.load(ctx, token)
	if err != nil {
		return domain.AssessmentSession{}, AnswerProgress{}, err
	}
	progress := AnswerProgress{
		Answered: session.AnsweredCount(),
		Total:    QuestionSetSize,
		Complete: s.ledger.IsComplete(&session),
	}
	return session, progress, nil
}
