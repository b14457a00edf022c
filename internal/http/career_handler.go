package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"masark-engine/internal/domain"
	"masark-engine/internal/service"
)

// CareerHandler exposes career match rankings and weight maintenance.
type CareerHandler struct {
	logger  *zap.Logger
	careers *service.CareerService
}

func NewCareerHandler(logger *zap.Logger, careers *service.CareerService) *CareerHandler {
	return &CareerHandler{logger: logger, careers: careers}
}

// GetMatches handles GET /careers/matches/:type.
func (h *CareerHandler) GetMatches(c *gin.Context) {
	typeCode := c.Param("type")
	language := c.DefaultQuery("language", "en")
	mode := domain.DeploymentMode(c.DefaultQuery("deployment_mode", string(domain.ModeStandard)))

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	result, err := h.careers.Matches(c.Request.Context(), typeCode, mode, language, limit)
	if err != nil {
		h.logger.Error("career matching failed", zap.String("type_code", typeCode), zap.Error(err))
		respondError(c, err)
		return
	}

	type matchPayload struct {
		CareerID int64   `json:"career_id"`
		Name     string  `json:"name"`
		SSOCCode string  `json:"ssoc_code,omitempty"`
		Score    float64 `json:"match_score"`
	}
	matches := make([]matchPayload, 0, len(result.Matches))
	for _, m := range result.Matches {
		matches = append(matches, matchPayload{
			CareerID: m.Career.ID,
			Name:     m.Career.Name(language),
			SSOCCode: m.Career.SSOCCode,
			Score:    m.Score,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"personality_type": result.TypeCode,
		"total_careers":    len(matches),
		"top_matches":      matches,
		"cached":           result.Cached,
	})
}

// UpdateMatchScores handles PUT /careers/matches/:type.
func (h *CareerHandler) UpdateMatchScores(c *gin.Context) {
	var req struct {
		Scores map[int64]float64 `json:"scores" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid match score update", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	typeCode := c.Param("type")
	if err := h.careers.UpdateMatchScores(c.Request.Context(), typeCode, req.Scores); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(req.Scores)})
}
