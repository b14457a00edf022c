package domain

// Dimension is one of the four personality axes scored independently.
type Dimension string

const (
	DimensionEI Dimension = "EI"
	DimensionSN Dimension = "SN"
	DimensionTF Dimension = "TF"
	DimensionJP Dimension = "JP"
)

// Dimensions lists the axes in type-code order (E/I, S/N, T/F, J/P).
var Dimensions = []Dimension{DimensionEI, DimensionSN, DimensionTF, DimensionJP}

// First returns the letter an answer counts toward when it "maps to first"
// (E, S, T or J).
func (d Dimension) First() string {
	return string(d[0:1])
}

// Second returns the opposing letter (I, N, F or P).
func (d Dimension) Second() string {
	return string(d[1:2])
}

// Valid reports whether d is one of the four known axes.
func (d Dimension) Valid() bool {
	switch d {
	case DimensionEI, DimensionSN, DimensionTF, DimensionJP:
		return true
	}
	return false
}

// Option is a forced-choice answer: A or B.
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
)

// Valid reports whether o is "A" or "B".
func (o Option) Valid() bool {
	return o == OptionA || o == OptionB
}

// Clarity is the qualitative confidence band for a scored dimension.
type Clarity string

const (
	ClarityVeryClear Clarity = "VERY_CLEAR"
	ClarityClear     Clarity = "CLEAR"
	ClarityModerate  Clarity = "MODERATE"
	ClaritySlight    Clarity = "SLIGHT"
)

// ClarityFor derives the band from a strength in [0,1]. The distance of
// the strength from the 0.5 midpoint, rescaled to 0..1, picks the band.
func ClarityFor(strength float64) Clarity {
	distance := strength - 0.5
	if distance < 0 {
		distance = -distance
	}
	distance *= 2
	switch {
	case distance >= 0.75:
		return ClarityVeryClear
	case distance >= 0.5:
		return ClarityClear
	case distance >= 0.25:
		return ClarityModerate
	default:
		return ClaritySlight
	}
}
