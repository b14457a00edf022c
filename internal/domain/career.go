package domain

import "time"

// PersonalityType is one of the 16 four-letter codes with its localized
// catalog texts.
type PersonalityType struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	NameEN       string `json:"name_en"`
	NameAR       string `json:"name_ar"`
	DescEN       string `json:"description_en"`
	DescAR       string `json:"description_ar"`
	StrengthsEN  string `json:"strengths_en"`
	StrengthsAR  string `json:"strengths_ar"`
	ChallengesEN string `json:"challenges_en"`
	ChallengesAR string `json:"challenges_ar"`
}

// Name returns the type name in the requested language.
func (t PersonalityType) Name(language string) string {
	if language == "ar" {
		return t.NameAR
	}
	return t.NameEN
}

// CareerCluster groups careers students rate interest in.
type CareerCluster struct {
	ID     int64  `json:"id"`
	NameEN string `json:"name_en"`
	NameAR string `json:"name_ar"`
	DescEN string `json:"description_en"`
	DescAR string `json:"description_ar"`
}

// Career is one catalog entry, attached to a cluster. SSOCCode is the
// Saudi Standard Classification of Occupations identifier.
type Career struct {
	ID        int64     `json:"id"`
	ClusterID int64     `json:"cluster_id"`
	NameEN    string    `json:"name_en"`
	NameAR    string    `json:"name_ar"`
	DescEN    string    `json:"description_en"`
	DescAR    string    `json:"description_ar"`
	SSOCCode  string    `json:"ssoc_code,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Name returns the career name in the requested language.
func (c Career) Name(language string) string {
	if language == "ar" {
		return c.NameAR
	}
	return c.NameEN
}

// MatchKey identifies one precomputed (type, career) affinity weight.
type MatchKey struct {
	TypeCode string
	CareerID int64
}

// MatchWeights is the weight table the career matcher reads. Pairs absent
// from the table have no measured affinity and are excluded from rankings.
type MatchWeights map[MatchKey]float64

// RankedCareer is one entry of a ranking result.
type RankedCareer struct {
	Career Career  `json:"career"`
	Score  float64 `json:"score"`
}
