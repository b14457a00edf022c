package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configures the Gin router with middlewares and routes.
func NewRouter(
	logger *zap.Logger,
	assessmentH *AssessmentHandler,
	careerH *CareerHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"service":   "masark-assessment-engine",
			"timestamp": time.Now().UTC(),
		})
	})

	assessment := r.Group("/assessment")
	assessment.POST("/sessions", assessmentH.StartSession)
	assessment.GET("/questions", assessmentH.GetQuestions)
	assessment.GET("/sessions/:token", assessmentH.GetStatus)
	assessment.POST("/sessions/:token/answers", assessmentH.SubmitAnswer)
	assessment.POST("/sessions/:token/cluster-ratings", assessmentH.SubmitClusterRatings)
	assessment.POST("/sessions/:token/calculate", assessmentH.Calculate)
	assessment.POST("/sessions/:token/tie-break", assessmentH.ResolveTies)
	assessment.POST("/sessions/:token/rating", assessmentH.SetRating)
	assessment.GET("/sessions/:token/results", assessmentH.GetResults)

	careers := r.Group("/careers")
	careers.GET("/clusters", assessmentH.GetClusters)
	careers.GET("/matches/:type", careerH.GetMatches)
	careers.PUT("/matches/:type", careerH.UpdateMatchScores)

	return r
}

// zapLoggerMiddleware logs one line per request with zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware forces Content-Type: application/json on responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
