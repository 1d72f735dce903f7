package core

import (
	"context"
	"errors"
	"fmt"

	"mango.movies/mango/internal/logging"
	"mango.movies/mango/internal/models"
)

const (
	recommendationMaxTokens = 2500
	swapMaxTokens           = 800
)

// ErrExcludedTitle means the model answered a swap with a movie it was told
// not to recommend.
var ErrExcludedTitle = errors.New("model recommended an excluded title")

type RecommendService struct {
	llm Completer
}

func NewRecommendService(llm Completer) *RecommendService {
	return &RecommendService{llm: llm}
}

// Recommend makes one LLM call for a batch of recommendations. Movies the
// model returns despite them being on the exclusion list are dropped.
func (s *RecommendService) Recommend(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationSet, error) {
	prompt := BuildRecommendationPrompt(req.Profile, req.MoodProfile, req.ExcludedMovies)

	text, err := s.llm.Complete(ctx, CompletionRequest{Prompt: prompt, MaxTokens: recommendationMaxTokens, JSON: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}

	set, err := ParseRecommendations(text)
	if err != nil {
		return nil, err
	}

	excluded := ExcludedTitles(req.Profile, req.ExcludedMovies)
	kept := set.Recommendations[:0]
	for _, m := range set.Recommendations {
		if containsKey(excluded, m.Key()) {
			logging.Ctx(ctx).Warn().Str("movie", m.Key()).Msg("Dropping excluded title from recommendations")
			continue
		}
		kept = append(kept, m)
	}
	set.Recommendations = kept
	return set, nil
}

// Swap makes one LLM call for a single replacement of req.SeenMovie.
func (s *RecommendService) Swap(ctx context.Context, req models.SwapRequest) (*models.Movie, error) {
	if req.SeenMovie == nil {
		return nil, errors.New("seen movie is required")
	}
	seen := *req.SeenMovie

	excluded := req.ExcludedMovies
	if !containsKey(excluded, seen.Key()) {
		excluded = append(append([]string(nil), excluded...), seen.Key())
	}

	prompt := BuildSwapPrompt(req.Profile, req.MoodProfile, excluded, seen)
	text, err := s.llm.Complete(ctx, CompletionRequest{Prompt: prompt, MaxTokens: swapMaxTokens, JSON: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get replacement: %w", err)
	}

	movie, err := ParseMovie(text)
	if err != nil {
		return nil, err
	}
	if movie.Title == "" {
		return nil, fmt.Errorf("failed to parse movie: missing title")
	}
	if containsKey(ExcludedTitles(req.Profile, excluded), movie.Key()) {
		return nil, fmt.Errorf("%w: %s", ErrExcludedTitle, movie.Key())
	}
	return movie, nil
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if models.SameKey(k, key) {
			return true
		}
	}
	return false
}
