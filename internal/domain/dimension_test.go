package domain

import "testing"

func TestMapsToFirstPredicate(t *testing.T) {
	tests := []struct {
		name        string
		option      Option
		mapsToFirst bool
		want        bool
	}{
		{"A maps when flag set", OptionA, true, true},
		{"A does not map when flag unset", OptionA, false, false},
		{"B maps when flag unset", OptionB, false, true},
		{"B does not map when flag set", OptionB, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{Dimension: DimensionEI, OptionAMapsToFirst: tt.mapsToFirst}
			if got := q.MapsToFirst(tt.option); got != tt.want {
				t.Fatalf("MapsToFirst(%s)=%t want %t", tt.option, got, tt.want)
			}
			tb := TieBreakerQuestion{Dimension: DimensionEI, OptionAMapsToFirst: tt.mapsToFirst}
			if got := tb.MapsToFirst(tt.option); got != tt.want {
				t.Fatalf("tie breaker MapsToFirst(%s)=%t want %t", tt.option, got, tt.want)
			}
		})
	}
}

func TestDimensionLetters(t *testing.T) {
	tests := []struct {
		dim           Dimension
		first, second string
	}{
		{DimensionEI, "E", "I"},
		{DimensionSN, "S", "N"},
		{DimensionTF, "T", "F"},
		{DimensionJP, "J", "P"},
	}
	for _, tt := range tests {
		if tt.dim.First() != tt.first || tt.dim.Second() != tt.second {
			t.Fatalf("%s letters = %s/%s want %s/%s", tt.dim, tt.dim.First(), tt.dim.Second(), tt.first, tt.second)
		}
	}
}

func TestClarityFor(t *testing.T) {
	tests := []struct {
		name     string
		strength float64
		want     Clarity
	}{
		{"exact midpoint", 0.5, ClaritySlight},
		{"slight above midpoint", 0.5556, ClaritySlight},
		{"moderate boundary", 0.625, ClarityModerate},
		{"moderate below clear", 0.74, ClarityModerate},
		{"clear boundary", 0.75, ClarityClear},
		{"very clear boundary", 0.875, ClarityVeryClear},
		{"unanimous", 1.0, ClarityVeryClear},
		{"unanimous second letter", 0.0, ClarityVeryClear},
		{"clear toward second letter", 0.2, ClarityClear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClarityFor(tt.strength); got != tt.want {
				t.Fatalf("ClarityFor(%v)=%s want %s", tt.strength, got, tt.want)
			}
		})
	}
}
