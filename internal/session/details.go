package session

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"mango.movies/mango/internal/logging"
	"mango.movies/mango/internal/models"
	"mango.movies/mango/internal/store"
)

// ReviewSearcher fetches critic and audience reviews for one movie.
type ReviewSearcher interface {
	SearchReviews(ctx context.Context, title string, year int) (models.ExternalReviews, error)
}

// Details is the content of a movie's detail view.
type Details struct {
	External   models.ExternalReviews
	Community  []models.CommunityReview
	Average    float64
	HasAverage bool
}

// LoadDetails fetches external reviews and reads community reviews at the
// same time and returns once both are done. Either side degrades to empty on
// failure.
func LoadDetails(ctx context.Context, searcher ReviewSearcher, local *store.LocalStore, movie models.Movie) Details {
	var d Details
	// No WithContext: a failed search must not cancel the local read.
	var g errgroup.Group

	g.Go(func() error {
		reviews, err := searcher.SearchReviews(ctx, movie.Title, movie.Year)
		if err != nil {
			return fmt.Errorf("external review search: %w", err)
		}
		d.External = reviews
		return nil
	})

	g.Go(func() error {
		d.Community = local.CommunityReviews(ctx, movie.Title, movie.Year)
		return nil
	})

	if err := g.Wait(); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("movie", movie.Key()).Msg("Showing details without external reviews")
		d.External = models.ExternalReviews{}
	}
	if d.External.Reviews == nil {
		d.External.Reviews = []models.ExternalReview{}
	}
	if d.Community == nil {
		d.Community = []models.CommunityReview{}
	}
	d.Average, d.HasAverage = models.AverageRating(d.Community)
	return d
}
