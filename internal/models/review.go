package models

import "math"

// ExternalReview is a critic or audience review found by the reviews search.
type ExternalReview struct {
	Author string `json:"author"`
	Source string `json:"source"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

type ExternalReviews struct {
	Reviews   []ExternalReview `json:"reviews"`
	RTScore   string           `json:"rtScore,omitempty"`
	IMDbScore string           `json:"imdbScore,omitempty"`
	Consensus string           `json:"consensus,omitempty"`
}

// CommunityReview is written locally by the user and kept per movie.
type CommunityReview struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
	Text   string `json:"text"`
	Date   string `json:"date"`
}

// AverageRating returns the mean rating rounded to one decimal. ok is false
// when there are no reviews.
func AverageRating(reviews []CommunityReview) (avg float64, ok bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10, true
}
