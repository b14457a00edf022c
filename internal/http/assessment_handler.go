package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"masark-engine/internal/domain"
	"masark-engine/internal/repository"
	"masark-engine/internal/service"
)

// AssessmentHandler exposes the assessment lifecycle over HTTP.
type AssessmentHandler struct {
	logger       *zap.Logger
	assessments  *service.AssessmentService
	questionRepo repository.QuestionRepository
	careerRepo   repository.CareerRepository
}

func NewAssessmentHandler(
	logger *zap.Logger,
	assessments *service.AssessmentService,
	questionRepo repository.QuestionRepository,
	careerRepo repository.CareerRepository,
) *AssessmentHandler {
	return &AssessmentHandler{
		logger:       logger,
		assessments:  assessments,
		questionRepo: questionRepo,
		careerRepo:   careerRepo,
	}
}

// StartSession handles POST /assessment/sessions.
func (h *AssessmentHandler) StartSession(c *gin.Context) {
	var req struct {
		StudentName  string `json:"student_name"`
		StudentEmail string `json:"student_email"`
		StudentID    string `json:"student_id"`
		Mode         string `json:"deployment_mode"`
		Language     string `json:"language_preference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.logger.Warn("invalid start session request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.assessments.StartSession(c.Request.Context(), service.StartSessionInput{
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		StudentID:    req.StudentID,
		Mode:         domain.DeploymentMode(req.Mode),
		Language:     req.Language,
	})
	if err != nil {
		h.logger.Error("start session failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_token":       session.Token,
		"deployment_mode":     session.Mode,
		"language_preference": session.Language,
		"current_state":       session.CurrentState,
	})
}

type questionPayload struct {
	ID          int64            `json:"id"`
	OrderNumber int              `json:"order_number"`
	Dimension   domain.Dimension `json:"dimension"`
	Text        string           `json:"text"`
	OptionA     string           `json:"option_a"`
	OptionB     string           `json:"option_b"`
}

// GetQuestions handles GET /assessment/questions.
func (h *AssessmentHandler) GetQuestions(c *gin.Context) {
	language := c.DefaultQuery("language", "en")

	questions, err := h.questionRepo.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Error("list questions failed", zap.Error(err))
		respondError(c, err)
		return
	}

	payload := make([]questionPayload, 0, len(questions))
	for _, q := range questions {
		payload = append(payload, questionPayload{
			ID:          q.ID,
			OrderNumber: q.OrderNumber,
			Dimension:   q.Dimension,
			Text:        q.Text(language),
			OptionA:     q.OptionText(domain.OptionA, language),
			OptionB:     q.OptionText(domain.OptionB, language),
		})
	}
	c.JSON(http.StatusOK, gin.H{"questions": payload, "total": len(payload)})
}

// GetClusters handles GET /careers/clusters.
func (h *AssessmentHandler) GetClusters(c *gin.Context) {
	clusters, err := h.careerRepo.ListClusters(c.Request.Context())
	if err != nil {
		h.logger.Error("list clusters failed", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clusters": clusters})
}

// GetStatus handles GET /assessment/sessions/:token.
func (h *AssessmentHandler) GetStatus(c *gin.Context) {
	session, progress, err := h.assessments.Status(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"current_state": session.CurrentState,
		"progress":      progress,
		"started_at":    session.StartedAt,
		"completed_at":  session.CompletedAt,
	})
}

// SubmitAnswer handles POST /assessment/sessions/:token/answers.
func (h *AssessmentHandler) SubmitAnswer(c *gin.Context) {
	var req struct {
		QuestionID     int64  `json:"question_id" binding:"required"`
		SelectedOption string `json:"selected_option" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submit answer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	progress, err := h.assessments.SubmitAnswer(
		c.Request.Context(),
		c.Param("token"),
		req.QuestionID,
		domain.Option(req.SelectedOption),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

// SubmitClusterRatings handles POST /assessment/sessions/:token/cluster-ratings.
func (h *AssessmentHandler) SubmitClusterRatings(c *gin.Context) {
	var req struct {
		Ratings map[int64]int `json:"ratings" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid cluster ratings request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.assessments.SubmitClusterRatings(c.Request.Context(), c.Param("token"), req.Ratings); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"current_state": domain.StateCalculateAssessment})
}

type tieBreakerPayload struct {
	ID        int64            `json:"id"`
	Dimension domain.Dimension `json:"dimension"`
	Text      string           `json:"text"`
	OptionA   string           `json:"option_a"`
	OptionB   string           `json:"option_b"`
}

// Calculate handles POST /assessment/sessions/:token/calculate.
func (h *AssessmentHandler) Calculate(c *gin.Context) {
	outcome, err := h.assessments.Calculate(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	language := outcome.Session.Language
	resp := gin.H{
		"personality_type_code": outcome.Result.TypeCode,
		"strengths":             outcome.Result.Strengths,
		"clarity":               outcome.Result.Clarity,
		"requires_tie_breaker":  outcome.RequiresTieBreaker,
		"current_state":         outcome.Session.CurrentState,
	}
	if outcome.RequiresTieBreaker {
		payload := make([]tieBreakerPayload, 0, len(outcome.TieBreakers))
		for _, q := range outcome.TieBreakers {
			text := q.TextEN
			optionA, optionB := q.OptionATextEN, q.OptionBTextEN
			if language == "ar" {
				text, optionA, optionB = q.TextAR, q.OptionATextAR, q.OptionBTextAR
			}
			payload = append(payload, tieBreakerPayload{
				ID:        q.ID,
				Dimension: q.Dimension,
				Text:      text,
				OptionA:   optionA,
				OptionB:   optionB,
			})
		}
		resp["tie_breakers"] = payload
	}
	c.JSON(http.StatusOK, resp)
}

// ResolveTies handles POST /assessment/sessions/:token/tie-break.
func (h *AssessmentHandler) ResolveTies(c *gin.Context) {
	var req struct {
		Votes map[string]string `json:"votes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid tie break request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	votes := make(map[domain.Dimension]domain.Option, len(req.Votes))
	for dim, option := range req.Votes {
		votes[domain.Dimension(dim)] = domain.Option(option)
	}

	session, err := h.assessments.ResolveTies(c.Request.Context(), c.Param("token"), votes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"personality_type_code": session.PersonalityTypeCode,
		"current_state":         session.CurrentState,
	})
}

// SetRating handles POST /assessment/sessions/:token/rating.
func (h *AssessmentHandler) SetRating(c *gin.Context) {
	// Rating is a pointer so a literal 0 reaches the service and gets the
	// range error instead of failing at binding.
	var req struct {
		Rating *int `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid rating request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.assessments.SetRating(c.Request.Context(), c.Param("token"), *req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"assessment_rating": session.AssessmentRating,
		"current_state":     session.CurrentState,
		"completed_at":      session.CompletedAt,
	})
}

// GetResults handles GET /assessment/sessions/:token/results.
func (h *AssessmentHandler) GetResults(c *gin.Context) {
	session, personalityType, err := h.assessments.Results(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"session_token":         session.Token,
		"current_state":         session.CurrentState,
		"personality_type_code": session.PersonalityTypeCode,
		"requires_tie_breaker":  session.RequiresTieBreaker,
		"assessment_rating":     session.AssessmentRating,
		"preference_strengths": gin.H{
			"e_strength": session.EStrength,
			"s_strength": session.SStrength,
			"t_strength": session.TStrength,
			"j_strength": session.JStrength,
		},
		"preference_clarity": gin.H{
			"ei_clarity": session.EIClarity,
			"sn_clarity": session.SNClarity,
			"tf_clarity": session.TFClarity,
			"jp_clarity": session.JPClarity,
		},
		"cluster_ratings": session.ClusterRatings,
		"completed_at":    session.CompletedAt,
	}
	if personalityType != nil {
		language := session.Language
		resp["personality_type"] = gin.H{
			"code":        personalityType.Code,
			"name":        personalityType.Name(language),
			"description": pick(language, personalityType.DescEN, personalityType.DescAR),
			"strengths":   pick(language, personalityType.StrengthsEN, personalityType.StrengthsAR),
			"challenges":  pick(language, personalityType.ChallengesEN, personalityType.ChallengesAR),
		}
	}
	c.JSON(http.StatusOK, resp)
}

func pick(language, en, ar string) string {
	if language == "ar" {
		return ar
	}
	return en
}
