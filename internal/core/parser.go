package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"mango.movies/mango/internal/logging"
	"mango.movies/mango/internal/models"
)

var errNoJSONObject = errors.New("no JSON object in response")

// StripCodeFences removes every ```json and ``` marker and trims the result.
func StripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// ParseRecommendations parses the whole cleaned response as a
// recommendation set.
func ParseRecommendations(text string) (*models.RecommendationSet, error) {
	var set models.RecommendationSet
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &set); err != nil {
		return nil, fmt.Errorf("failed to parse recommendations: %w", err)
	}
	if set.Recommendations == nil {
		set.Recommendations = []models.Movie{}
	}
	return &set, nil
}

// ParseMovie parses the whole cleaned response as a single movie.
func ParseMovie(text string) (*models.Movie, error) {
	var movie models.Movie
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &movie); err != nil {
		return nil, fmt.Errorf("failed to parse movie: %w", err)
	}
	return &movie, nil
}

// ExtractJSONObject returns the first balanced {...} span of text. Braces
// inside JSON strings are ignored.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseExternalReviews pulls the reviews payload out of a response that may
// mix narration with JSON. Anything unparseable degrades to no reviews.
func ParseExternalReviews(text string) models.ExternalReviews {
	reviews, err := parseExternalReviews(text)
	if err != nil {
		logging.Warn().Err(err).Msg("Falling back to empty reviews")
		return models.ExternalReviews{Reviews: []models.ExternalReview{}}
	}
	return reviews
}

func parseExternalReviews(text string) (models.ExternalReviews, error) {
	var reviews models.ExternalReviews
	raw, ok := ExtractJSONObject(text)
	if !ok {
		return reviews, errNoJSONObject
	}
	if err := json.Unmarshal([]byte(raw), &reviews); err != nil {
		return reviews, fmt.Errorf("failed to parse reviews: %w", err)
	}
	if reviews.Reviews == nil {
		reviews.Reviews = []models.ExternalReview{}
	}
	return reviews, nil
}
