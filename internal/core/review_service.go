package core

import (
	"context"
	"fmt"

	"mango.movies/mango/internal/models"
)

const reviewMaxTokens = 1500

type ReviewService struct {
	llm Completer
}

func NewReviewService(llm Completer) *ReviewService {
	return &ReviewService{llm: llm}
}

// Search asks the model for reviews of one movie. A failed call is an
// error; an unparseable answer is an empty result.
func (s *ReviewService) Search(ctx context.Context, title string, year int) (models.ExternalReviews, error) {
	text, err := s.llm.Complete(ctx, CompletionRequest{Prompt: BuildReviewPrompt(title, year), MaxTokens: reviewMaxTokens})
	if err != nil {
		return models.ExternalReviews{Reviews: []models.ExternalReview{}}, fmt.Errorf("failed to search reviews: %w", err)
	}
	return ParseExternalReviews(text), nil
}
