package models

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// lenientInt reads a JSON number or numeric string, rounding fractions.
// Anything else, null included, reads as zero.
func lenientInt(raw json.RawMessage) int {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0
		}
		s = strings.TrimSpace(str)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}

// UnmarshalJSON accepts the numeric fields of model output as numbers,
// fractions or numeric strings.
func (m *Movie) UnmarshalJSON(data []byte) error {
	type movie Movie
	var aux struct {
		movie
		Year      json.RawMessage `json:"year"`
		VibeMatch json.RawMessage `json:"vibeMatch"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = Movie(aux.movie)
	m.Year = lenientInt(aux.Year)
	m.VibeMatch = lenientInt(aux.VibeMatch)
	return nil
}

func (r *ExternalReview) UnmarshalJSON(data []byte) error {
	type review ExternalReview
	var aux struct {
		review
		Rating json.RawMessage `json:"rating"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = ExternalReview(aux.review)
	r.Rating = lenientInt(aux.Rating)
	return nil
}
