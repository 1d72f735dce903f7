package models

import (
	"fmt"
	"strings"
)

// Movie is one LLM recommendation. Director, Cast and WhyYou may be missing
// from a model response.
type Movie struct {
	Title     string   `json:"title" validate:"required"`
	Year      int      `json:"year"`
	Streaming string   `json:"streaming"`
	Genre     string   `json:"genre"`
	Director  string   `json:"director,omitempty"`
	Cast      []string `json:"cast,omitempty"`
	Pitch     string   `json:"pitch"`
	Runtime   string   `json:"runtime"`
	VibeMatch int      `json:"vibeMatch"`
	WhyYou    string   `json:"whyYou,omitempty"`
}

// Key is the movie identity used for exclusion and watchlist membership.
func (m Movie) Key() string {
	return MovieKey(m.Title, m.Year)
}

func MovieKey(title string, year int) string {
	return fmt.Sprintf("%s (%d)", title, year)
}

// SameKey compares two "Title (Year)" identities ignoring case and
// surrounding whitespace.
func SameKey(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

type RecommendationSet struct {
	Recommendations []Movie `json:"recommendations"`
	MoodSummary     string  `json:"moodSummary"`
}
