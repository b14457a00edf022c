package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"masark-engine/internal/domain"
)

type mockSessionRepo struct {
	nextID   int64
	byToken  map[string]domain.AssessmentSession
	failures map[string]error
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{byToken: make(map[string]domain.AssessmentSession)}
}

func (m *mockSessionRepo) Create(_ context.Context, session *domain.AssessmentSession) error {
	m.nextID++
	session.ID = m.nextID
	m.byToken[session.Token] = *session
	return nil
}

func (m *mockSessionRepo) GetByToken(_ context.Context, token string) (domain.AssessmentSession, error) {
	session, ok := m.byToken[token]
	if !ok {
		return domain.AssessmentSession{}, pgx.ErrNoRows
	}
	return session, nil
}

func (m *mockSessionRepo) Update(_ context.Context, session *domain.AssessmentSession) error {
	if _, ok := m.byToken[session.Token]; !ok {
		return pgx.ErrNoRows
	}
	m.byToken[session.Token] = *session
	return nil
}

type mockAnswerRepo struct {
	bySession map[int64]map[int64]domain.AssessmentAnswer
}

func newMockAnswerRepo() *mockAnswerRepo {
	return &mockAnswerRepo{bySession: make(map[int64]map[int64]domain.AssessmentAnswer)}
}

func (m *mockAnswerRepo) Upsert(_ context.Context, answer domain.AssessmentAnswer) error {
	answers, ok := m.bySession[answer.SessionID]
	if !ok {
		answers = make(map[int64]domain.AssessmentAnswer)
		m.bySession[answer.SessionID] = answers
	}
	answers[answer.QuestionID] = answer
	return nil
}

func (m *mockAnswerRepo) ListBySession(_ context.Context, sessionID int64) (map[int64]domain.AssessmentAnswer, error) {
	answers := make(map[int64]domain.AssessmentAnswer, len(m.bySession[sessionID]))
	for id, answer := range m.bySession[sessionID] {
		answers[id] = answer
	}
	return answers, nil
}

type mockQuestionRepo struct {
	questions []domain.Question
}

func (m *mockQuestionRepo) ListActive(_ context.Context) ([]domain.Question, error) {
	return m.questions, nil
}

type mockTieBreakerRepo struct {
	catalog []domain.TieBreakerQuestion
	answers map[int64][]domain.TieBreakAnswer
}

func newMockTieBreakerRepo(catalog []domain.TieBreakerQuestion) *mockTieBreakerRepo {
	return &mockTieBreakerRepo{catalog: catalog, answers: make(map[int64][]domain.TieBreakAnswer)}
}

func (m *mockTieBreakerRepo) ListActive(_ context.Context) ([]domain.TieBreakerQuestion, error) {
	return m.catalog, nil
}

func (m *mockTieBreakerRepo) UpsertAnswer(_ context.Context, answer domain.TieBreakAnswer) error {
	existing := m.answers[answer.SessionID]
	for i, prior := range existing {
		if prior.Dimension == answer.Dimension {
			existing[i] = answer
			return nil
		}
	}
	m.answers[answer.SessionID] = append(existing, answer)
	return nil
}

func (m *mockTieBreakerRepo) ListAnswers(_ context.Context, sessionID int64) ([]domain.TieBreakAnswer, error) {
	return m.answers[sessionID], nil
}

type mockClusterRatingRepo struct {
	ratings map[int64]map[int64]int
}

func newMockClusterRatingRepo() *mockClusterRatingRepo {
	return &mockClusterRatingRepo{ratings: make(map[int64]map[int64]int)}
}

func (m *mockClusterRatingRepo) Upsert(_ context.Context, sessionID, clusterID int64, rating int) error {
	session, ok := m.ratings[sessionID]
	if !ok {
		session = make(map[int64]int)
		m.ratings[sessionID] = session
	}
	session[clusterID] = rating
	return nil
}

func (m *mockClusterRatingRepo) ListBySession(_ context.Context, sessionID int64) (map[int64]int, error) {
	return m.ratings[sessionID], nil
}

type mockTypeRepo struct {
	types map[string]domain.PersonalityType
}

func (m *mockTypeRepo) GetByCode(_ context.Context, code string) (domain.PersonalityType, error) {
	t, ok := m.types[code]
	if !ok {
		return domain.PersonalityType{}, pgx.ErrNoRows
	}
	return t, nil
}

func questionCatalogAsSlice(questions map[int64]domain.Question) []domain.Question {
	slice := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		slice = append(slice, q)
	}
	return slice
}

// tyingCatalog rebalances the standard catalog onto ten EI questions and
// eight SN questions so a complete answer set can split EI exactly in
// half.
func tyingCatalog() []domain.Question {
	catalog := make([]domain.Question, 0, 36)
	id := int64(1)
	add := func(dim domain.Dimension, count int) {
		for i := 0; i < count; i++ {
			catalog = append(catalog, domain.Question{
				ID:                 id,
				OrderNumber:        int(id),
				Dimension:          dim,
				OptionAMapsToFirst: true,
				Active:             true,
			})
			id++
		}
	}
	add(domain.DimensionEI, 10)
	add(domain.DimensionSN, 8)
	add(domain.DimensionTF, 9)
	add(domain.DimensionJP, 9)
	return catalog
}

func newTestAssessmentService(catalog []domain.Question, tieBreakers []domain.TieBreakerQuestion, types map[string]domain.PersonalityType) (*AssessmentService, *mockSessionRepo) {
	sessions := newMockSessionRepo()
	service := NewAssessmentService(
		zap.NewNop(),
		sessions,
		newMockAnswerRepo(),
		&mockQuestionRepo{questions: catalog},
		newMockTieBreakerRepo(tieBreakers),
		newMockClusterRatingRepo(),
		&mockTypeRepo{types: types},
	)
	return service, sessions
}

func answerAll(t *testing.T, service *AssessmentService, token string, catalog []domain.Question, pick func(domain.Question) domain.Option) {
	t.Helper()
	for _, q := range catalog {
		if _, err := service.SubmitAnswer(context.Background(), token, q.ID, pick(q)); err != nil {
			t.Fatalf("submit answer %d: %v", q.ID, err)
		}
	}
}

func TestStartSessionDefaults(t *testing.T) {
	service, _ := newTestAssessmentService(nil, nil, nil)

	session, err := service.StartSession(context.Background(), StartSessionInput{StudentName: "Sara"})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if session.Token == "" {
		t.Fatal("session must carry a token")
	}
	if session.CurrentState != domain.StateAnswerQuestions {
		t.Fatalf("state = %s want ANSWER_QUESTIONS", session.CurrentState)
	}
	if session.Mode != domain.ModeStandard {
		t.Fatalf("mode = %s want STANDARD", session.Mode)
	}
	if session.Language != "en" {
		t.Fatalf("language = %s want en", session.Language)
	}
	if session.ID == 0 {
		t.Fatal("session must be persisted with an id")
	}
}

func TestSubmitAnswerErrors(t *testing.T) {
	catalog := questionCatalogAsSlice(buildQuestionSet())
	service, _ := newTestAssessmentService(catalog, nil, nil)
	ctx := context.Background()

	if _, err := service.SubmitAnswer(ctx, "missing-token", 1, domain.OptionA); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows for unknown token, got %v", err)
	}

	session, err := service.StartSession(ctx, StartSessionInput{})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if _, err := service.SubmitAnswer(ctx, session.Token, 999, domain.OptionA); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
	if _, err := service.SubmitAnswer(ctx, session.Token, 1, domain.Option("Z")); !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}

	progress, err := service.SubmitAnswer(ctx, session.Token, 1, domain.OptionA)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if progress.Answered != 1 || progress.Total != QuestionSetSize || progress.Complete {
		t.Fatalf("progress = %+v", progress)
	}
}

func TestSubmitClusterRatingsGuards(t *testing.T) {
	catalog := questionCatalogAsSlice(buildQuestionSet())
	service, _ := newTestAssessmentService(catalog, nil, nil)
	ctx := context.Background()

	session, err := service.StartSession(ctx, StartSessionInput{})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	// Incomplete answer set blocks the move out of answering.
	var illegal *domain.IllegalTransitionError
	err = service.SubmitClusterRatings(ctx, session.Token, map[int64]int{1: 3})
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalTransitionError before completion, got %v", err)
	}

	answerAll(t, service, session.Token, catalog, func(domain.Question) domain.Option { return domain.OptionA })

	if err := service.SubmitClusterRatings(ctx, session.Token, map[int64]int{1: 6}); !errors.Is(err, domain.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}

	if err := service.SubmitClusterRatings(ctx, session.Token, map[int64]int{1: 4, 2: 2}); err != nil {
		t.Fatalf("SubmitClusterRatings: %v", err)
	}
	loaded, _, err := service.Status(ctx, session.Token)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if loaded.CurrentState != domain.StateCalculateAssessment {
		t.Fatalf("state = %s want CALCULATE_ASSESSMENT", loaded.CurrentState)
	}
}

func TestAssessmentFlowWithoutTie(t *testing.T) {
	catalog := questionCatalogAsSlice(buildQuestionSet())
	types := map[string]domain.PersonalityType{
		"ESTJ": {ID: 1, Code: "ESTJ", NameEN: "Executive"},
	}
	service, _ := newTestAssessmentService(catalog, nil, types)
	ctx := context.Background()

	session, err := service.StartSession(ctx, StartSessionInput{Language: "ar", Mode: domain.ModeMawhiba})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if session.Language != "ar" || session.Mode != domain.ModeMawhiba {
		t.Fatalf("explicit mode/language not honored: %s %s", session.Mode, session.Language)
	}

	// Calculating before its state is illegal.
	var illegal *domain.IllegalTransitionError
	if _, err := service.Calculate(ctx, session.Token); !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalTransitionError, got %v", err)
	}

	answerAll(t, service, session.Token, catalog, func(domain.Question) domain.Option { return domain.OptionA })
	if err := service.SubmitClusterRatings(ctx, session.Token, map[int64]int{1: 5}); err != nil {
		t.Fatalf("SubmitClusterRatings: %v", err)
	}

	outcome, err := service.Calculate(ctx, session.Token)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if outcome.RequiresTieBreaker {
		t.Fatal("unanimous answers must not require a tie breaker")
	}
	if outcome.Session.CurrentState != domain.StateRateAssessment {
		t.Fatalf("state = %s want RATE_ASSESSMENT", outcome.Session.CurrentState)
	}
	if outcome.Session.PersonalityTypeCode != "ESTJ" {
		t.Fatalf("type code = %s want ESTJ", outcome.Session.PersonalityTypeCode)
	}
	if outcome.Session.EStrength == nil || *outcome.Session.EStrength != 1.0 {
		t.Fatalf("E strength = %v want 1.0", outcome.Session.EStrength)
	}

	// Recalculating a scored session is illegal.
	if _, err := service.Calculate(ctx, session.Token); !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalTransitionError on recalculate, got %v", err)
	}

	final, err := service.SetRating(ctx, session.Token, 4)
	if err != nil {
		t.Fatalf("SetRating: %v", err)
	}
	if final.CurrentState != domain.StateReport {
		t.Fatalf("state = %s want REPORT", final.CurrentState)
	}
	if final.CompletedAt == nil {
		t.Fatal("completion timestamp missing")
	}

	resultSession, personalityType, err := service.Results(ctx, session.Token)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if resultSession.PersonalityTypeCode != "ESTJ" {
		t.Fatalf("results type code = %s", resultSession.PersonalityTypeCode)
	}
	if personalityType == nil || personalityType.NameEN != "Executive" {
		t.Fatalf("personality type = %+v want Executive", personalityType)
	}
	if got := resultSession.ClusterRatings[1]; got != 5 {
		t.Fatalf("cluster rating = %d want 5", got)
	}
}

func TestAssessmentFlowWithTie(t *testing.T) {
	catalog := tyingCatalog()
	tieBreakers := []domain.TieBreakerQuestion{
		{ID: 50, Dimension: domain.DimensionEI, OrderIndex: 2, OptionAMapsToFirst: true, Active: true},
		{ID: 51, Dimension: domain.DimensionEI, OrderIndex: 1, OptionAMapsToFirst: true, Active: true},
	}
	service, _ := newTestAssessmentService(catalog, tieBreakers, nil)
	ctx := context.Background()

	session, err := service.StartSession(ctx, StartSessionInput{})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	// Split the ten EI questions five/five; answer everything else with A.
	eiSeen := 0
	answerAll(t, service, session.Token, catalog, func(q domain.Question) domain.Option {
		if q.Dimension != domain.DimensionEI {
			return domain.OptionA
		}
		eiSeen++
		if eiSeen <= 5 {
			return domain.OptionA
		}
		return domain.OptionB
	})
	if err := service.SubmitClusterRatings(ctx, session.Token, map[int64]int{1: 3}); err != nil {
		t.Fatalf("SubmitClusterRatings: %v", err)
	}

	outcome, err := service.Calculate(ctx, session.Token)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !outcome.RequiresTieBreaker {
		t.Fatal("five/five EI split must require a tie breaker")
	}
	if outcome.Session.CurrentState != domain.StateTieResolvement {
		t.Fatalf("state = %s want TIE_RESOLVEMENT", outcome.Session.CurrentState)
	}
	if len(outcome.TieBreakers) != 1 || outcome.TieBreakers[0].ID != 51 {
		t.Fatalf("tie breakers = %+v want the lowest-index EI question", outcome.TieBreakers)
	}

	// A vote for an untied dimension is rejected.
	if _, err := service.ResolveTies(ctx, session.Token, map[domain.Dimension]domain.Option{domain.DimensionTF: domain.OptionA}); !errors.Is(err, domain.ErrDimensionNotTied) {
		t.Fatalf("expected ErrDimensionNotTied, got %v", err)
	}

	// No vote at all leaves the tie standing.
	if _, err := service.ResolveTies(ctx, session.Token, nil); !errors.Is(err, ErrTieUnresolved) {
		t.Fatalf("expected ErrTieUnresolved, got %v", err)
	}

	resolved, err := service.ResolveTies(ctx, session.Token, map[domain.Dimension]domain.Option{domain.DimensionEI: domain.OptionB})
	if err != nil {
		t.Fatalf("ResolveTies: %v", err)
	}
	if resolved.CurrentState != domain.StateRateAssessment {
		t.Fatalf("state = %s want RATE_ASSESSMENT", resolved.CurrentState)
	}
	if resolved.RequiresTieBreaker {
		t.Fatal("tie breaker flag must be cleared once the tie is settled")
	}
	// Option B maps away from the first letter, so EI settles on I. The
	// untouched axes keep their majority letters.
	if resolved.PersonalityTypeCode != "ISTJ" {
		t.Fatalf("type code = %s want ISTJ", resolved.PersonalityTypeCode)
	}
}

func TestStatusProgress(t *testing.T) {
	catalog := questionCatalogAsSlice(buildQuestionSet())
	service, _ := newTestAssessmentService(catalog, nil, nil)
	ctx := context.Background()

	session, err := service.StartSession(ctx, StartSessionInput{})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	for id := int64(1); id <= 10; id++ {
		if _, err := service.SubmitAnswer(ctx, session.Token, id, domain.OptionB); err != nil {
			t.Fatalf("submit answer %d: %v", id, err)
		}
	}

	_, progress, err := service.Status(ctx, session.Token)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if progress.Answered != 10 || progress.Total != QuestionSetSize || progress.Complete {
		t.Fatalf("progress = %+v", progress)
	}
}
