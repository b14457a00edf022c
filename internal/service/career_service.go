package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"masark-engine/internal/domain"
	"masark-engine/internal/repository"
)

var ErrInvalidTypeCode = errors.New("personality type code must be four letters from E/I S/N T/F J/P")

// ValidTypeCode checks the shape of a four-letter code: one letter per
// axis, in axis order.
func ValidTypeCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	for i, dim := range domain.Dimensions {
		letter := string(code[i])
		if letter != dim.First() && letter != dim.Second() {
			return false
		}
	}
	return true
}

// CareerService serves ranked career matches for a personality type and
// maintains the weight table behind them. Rankings are cached per
// (type, mode, language, limit); every weight write invalidates the
// affected type's entries.
type CareerService struct {
	logger  *zap.Logger
	careers repository.CareerRepository
	matches repository.MatchRepository
	types   repository.PersonalityTypeRepository

	matcher CareerMatcher
	cache   CareerMatchCache
}

func NewCareerService(
	logger *zap.Logger,
	careers repository.CareerRepository,
	matches repository.MatchRepository,
	types repository.PersonalityTypeRepository,
	cache CareerMatchCache,
) *CareerService {
	return &CareerService{
		logger:  logger,
		careers: careers,
		matches: matches,
		types:   types,
		cache:   cache,
	}
}

// CareerMatchResult is a served ranking plus its cache provenance.
type CareerMatchResult struct {
	TypeCode string                `json:"personality_type"`
	Matches  []domain.RankedCareer `json:"matches"`
	Cached   bool                  `json:"cached"`
}

// Matches ranks the active career catalog against the type's weight
// table. The code is case-insensitive; careers without a recorded weight
// are excluded.
func (s *CareerService) Matches(ctx context.Context, typeCode string, mode domain.DeploymentMode, language string, limit int) (CareerMatchResult, error) {
	typeCode = strings.ToUpper(strings.TrimSpace(typeCode))
	if !ValidTypeCode(typeCode) {
		return CareerMatchResult{}, ErrInvalidTypeCode
	}
	if mode != domain.ModeMawhiba {
		mode = domain.ModeStandard
	}
	if language != "ar" {
		language = "en"
	}

	key := CareerCacheKey{TypeCode: typeCode, Mode: mode, Language: language, Limit: limit}
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return CareerMatchResult{TypeCode: typeCode, Matches: cached, Cached: true}, nil
		}
	}

	careers, err := s.careers.ListActive(ctx)
	if err != nil {
		return CareerMatchResult{}, fmt.Errorf("list careers: %w", err)
	}
	weights, err := s.matches.WeightsForType(ctx, typeCode)
	if err != nil {
		return CareerMatchResult{}, fmt.Errorf("load match weights: %w", err)
	}

	ranked := s.matcher.Rank(typeCode, careers, weights, limit)
	if s.cache != nil {
		s.cache.Set(ctx, key, ranked)
	}

	s.logger.Info("career matches ranked",
		zap.String("type_code", typeCode),
		zap.Int("matches", len(ranked)),
	)
	return CareerMatchResult{TypeCode: typeCode, Matches: ranked}, nil
}

// UpdateMatchScores bulk-upserts weights for one type and invalidates its
// cached rankings. Scores outside [0,1] reject the whole batch.
func (s *CareerService) UpdateMatchScores(ctx context.Context, typeCode string, scores map[int64]float64) error {
	typeCode = strings.ToUpper(strings.TrimSpace(typeCode))
	if !ValidTypeCode(typeCode) {
		return ErrInvalidTypeCode
	}
	if _, err := s.types.GetByCode(ctx, typeCode); err != nil {
		return fmt.Errorf("get personality type: %w", err)
	}
	for _, score := range scores {
		if score < 0 || score > 1 {
			return domain.ErrScoreOutOfRange
		}
	}

	if err := s.matches.BulkUpsert(ctx, typeCode, scores); err != nil {
		return fmt.Errorf("upsert match weights: %w", err)
	}
	if s.cache != nil {
		s.cache.InvalidateType(ctx, typeCode)
	}

	s.logger.Info("match weights updated",
		zap.String("type_code", typeCode),
		zap.Int("scores", len(scores)),
	)
	return nil
}
