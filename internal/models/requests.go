package models

// RecommendationRequest is the body of the recommendations endpoint.
// The profile is not validated: missing fields render as placeholders.
type RecommendationRequest struct {
	Profile        Profile      `json:"profile" validate:"-"`
	MoodProfile    []MoodAnswer `json:"moodProfile" validate:"dive"`
	ExcludedMovies []string     `json:"excludedMovies,omitempty"`
}

// SwapRequest asks for one replacement for SeenMovie.
type SwapRequest struct {
	RecommendationRequest
	SeenMovie *Movie `json:"seenMovie" validate:"required"`
}

// TitleLookup is the body of the reviews and streaming endpoints.
type TitleLookup struct {
	Title string `json:"title" validate:"required"`
	Year  int    `json:"year" validate:"gte=0"`
}

// ErrorResponse is the generic failure body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ReviewsResponse is the reviews endpoint body, including the failure shape
// {"reviews": [], "error": true}.
type ReviewsResponse struct {
	ExternalReviews
	Error bool `json:"error,omitempty"`
}
