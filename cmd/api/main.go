package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"masark-engine/internal/config"
	"masark-engine/internal/db"
	apihttp "masark-engine/internal/http"
	"masark-engine/internal/repository"
	"masark-engine/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	sessionRepo := repository.NewPgSessionRepository(pool)
	answerRepo := repository.NewPgAnswerRepository(pool)
	questionRepo := repository.NewPgQuestionRepository(pool)
	tieBreakerRepo := repository.NewPgTieBreakerRepository(pool)
	clusterRatingRepo := repository.NewPgClusterRatingRepository(pool)
	typeRepo := repository.NewPgPersonalityTypeRepository(pool)
	careerRepo := repository.NewPgCareerRepository(pool)
	matchRepo := repository.NewPgMatchRepository(pool)

	cacheTTL := time.Duration(cfg.CareerCacheTTL) * time.Minute
	matchCache := service.NewMemoryCareerMatchCache(cacheTTL)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory career cache", zap.Error(err))
		} else {
			matchCache = service.NewRedisCareerMatchCache(redisClient, cacheTTL)
		}
		cancel()
	}

	assessmentSvc := service.NewAssessmentService(
		logger,
		sessionRepo,
		answerRepo,
		questionRepo,
		tieBreakerRepo,
		clusterRatingRepo,
		typeRepo,
	)
	careerSvc := service.NewCareerService(logger, careerRepo, matchRepo, typeRepo, matchCache)

	assessmentHandler := apihttp.NewAssessmentHandler(logger, assessmentSvc, questionRepo, careerRepo)
	careerHandler := apihttp.NewCareerHandler(logger, careerSvc)
	router := apihttp.NewRouter(logger, assessmentHandler, careerHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
