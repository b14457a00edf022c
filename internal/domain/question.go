package domain

import "time"

// Question is one of the 36 forced-choice items of the main assessment.
// Option texts are stored in both languages; localization rendering is the
// caller's concern.
type Question struct {
	ID                 int64     `json:"id"`
	OrderNumber        int       `json:"order_number"`
	Dimension          Dimension `json:"dimension"`
	TextEN             string    `json:"text_en"`
	TextAR             string    `json:"text_ar"`
	OptionATextEN      string    `json:"option_a_text_en"`
	OptionATextAR      string    `json:"option_a_text_ar"`
	OptionBTextEN      string    `json:"option_b_text_en"`
	OptionBTextAR      string    `json:"option_b_text_ar"`
	OptionAMapsToFirst bool      `json:"option_a_maps_to_first"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// MapsToFirst reports whether the selected option counts toward the
// dimension's first letter: A maps to first iff OptionAMapsToFirst, and B
// maps to first iff not.
func (q Question) MapsToFirst(option Option) bool {
	return (option == OptionA) == q.OptionAMapsToFirst
}

// Text returns the question prompt in the requested language.
func (q Question) Text(language string) string {
	if language == "ar" {
		return q.TextAR
	}
	return q.TextEN
}

// OptionText returns the text of one option in the requested language.
func (q Question) OptionText(option Option, language string) string {
	if option == OptionA {
		if language == "ar" {
			return q.OptionATextAR
		}
		return q.OptionATextEN
	}
	if language == "ar" {
		return q.OptionBTextAR
	}
	return q.OptionBTextEN
}

// TieBreakerQuestion is a dedicated item used only to settle an exact
// 50/50 split on a single dimension. OrderIndex gives deterministic
// selection among candidates for the same axis.
type TieBreakerQuestion struct {
	ID                 int64     `json:"id"`
	Dimension          Dimension `json:"dimension"`
	OrderIndex         int       `json:"order_index"`
	TextEN             string    `json:"text_en"`
	TextAR             string    `json:"text_ar"`
	OptionATextEN      string    `json:"option_a_text_en"`
	OptionATextAR      string    `json:"option_a_text_ar"`
	OptionBTextEN      string    `json:"option_b_text_en"`
	OptionBTextAR      string    `json:"option_b_text_ar"`
	OptionAMapsToFirst bool      `json:"option_a_maps_to_first"`
	Active             bool      `json:"active"`
}

// MapsToFirst applies the same mapping rule as ordinary questions.
func (q TieBreakerQuestion) MapsToFirst(option Option) bool {
	return (option == OptionA) == q.OptionAMapsToFirst
}
