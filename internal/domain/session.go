package domain

import "time"

// SessionState is a step of the assessment lifecycle.
type SessionState string

const (
	StateAnswerQuestions     SessionState = "ANSWER_QUESTIONS"
	StateRateCareerClusters  SessionState = "RATE_CAREER_CLUSTERS"
	StateCalculateAssessment SessionState = "CALCULATE_ASSESSMENT"
	StateTieResolvement      SessionState = "TIE_RESOLVEMENT"
	StateRateAssessment      SessionState = "RATE_ASSESSMENT"
	StateReport              SessionState = "REPORT"
)

// DeploymentMode selects which pathway catalog a deployment serves.
type DeploymentMode string

const (
	ModeStandard DeploymentMode = "STANDARD"
	ModeMawhiba  DeploymentMode = "MAWHIBA"
)

// AssessmentAnswer is one recorded forced choice, unique per
// (session, question). Re-submitting replaces the prior answer.
type AssessmentAnswer struct {
	SessionID      int64     `json:"session_id"`
	QuestionID     int64     `json:"question_id"`
	SelectedOption Option    `json:"selected_option"`
	AnsweredAt     time.Time `json:"answered_at"`
}

// TieBreakAnswer records the single vote that settled a tied dimension.
type TieBreakAnswer struct {
	SessionID      int64     `json:"session_id"`
	QuestionID     int64     `json:"question_id"`
	Dimension      Dimension `json:"dimension"`
	SelectedOption Option    `json:"selected_option"`
	AnsweredAt     time.Time `json:"answered_at"`
}

// AssessmentSession is the aggregate a student works through: the answer
// ledger, the lifecycle state, and the scoring outcome once calculated.
// Strength pointers are nil until the assessment has been scored.
type AssessmentSession struct {
	ID           int64          `json:"id"`
	Token        string         `json:"token"`
	StudentName  string         `json:"student_name,omitempty"`
	StudentEmail string         `json:"student_email,omitempty"`
	StudentID    string         `json:"student_id,omitempty"`
	Mode         DeploymentMode `json:"deployment_mode"`
	Language     string         `json:"language_preference"`

	CurrentState       SessionState `json:"current_state"`
	RequiresTieBreaker bool         `json:"requires_tie_breaker"`
	AssessmentRating   *int         `json:"assessment_rating,omitempty"`

	PersonalityTypeCode string   `json:"personality_type_code,omitempty"`
	EStrength           *float64 `json:"e_strength,omitempty"`
	SStrength           *float64 `json:"s_strength,omitempty"`
	TStrength           *float64 `json:"t_strength,omitempty"`
	JStrength           *float64 `json:"j_strength,omitempty"`
	EIClarity           Clarity  `json:"ei_clarity,omitempty"`
	SNClarity           Clarity  `json:"sn_clarity,omitempty"`
	TFClarity           Clarity  `json:"tf_clarity,omitempty"`
	JPClarity           Clarity  `json:"jp_clarity,omitempty"`

	// Answers is keyed by question id so recording is an O(1) upsert.
	Answers         map[int64]AssessmentAnswer   `json:"answers,omitempty"`
	TieBreakAnswers map[Dimension]TieBreakAnswer `json:"tie_break_answers,omitempty"`
	ClusterRatings  map[int64]int                `json:"cluster_ratings,omitempty"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AnsweredCount returns how many distinct questions have an answer.
func (s *AssessmentSession) AnsweredCount() int {
	return len(s.Answers)
}

// Strength returns the stored strength for one dimension, and whether it
// has been set.
func (s *AssessmentSession) Strength(d Dimension) (float64, bool) {
	var p *float64
	switch d {
	case DimensionEI:
		p = s.EStrength
	case DimensionSN:
		p = s.SStrength
	case DimensionTF:
		p = s.TStrength
	case DimensionJP:
		p = s.JStrength
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}
