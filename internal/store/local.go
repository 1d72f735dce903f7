package store

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"mango.movies/mango/internal/logging"
	"mango.movies/mango/internal/models"
	"mango.movies/mango/internal/validation"
)

const (
	ProfileKey   = "mango-profile"
	WatchlistKey = "mango-watchlist"

	anonymousAuthor = "Anonymous"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]`)

// ReviewsKey is the storage key for a movie's community reviews.
func ReviewsKey(title string, year int) string {
	return fmt.Sprintf("reviews:%s-%d", nonSlugChars.ReplaceAllString(strings.ToLower(title), "-"), year)
}

// LocalStore keeps the device-local state: the profile, the watchlist and
// community reviews. Reads never fail; a missing or unreadable value is
// logged and treated as absent. Writes are read-modify-write with no
// concurrency control.
type LocalStore struct {
	kv  KV
	now func() time.Time
}

func NewLocalStore(kv KV) *LocalStore {
	return &LocalStore{kv: kv, now: time.Now}
}

func (s *LocalStore) Close() error {
	return s.kv.Close()
}

// LoadProfile returns the saved profile, or ok=false when there is none.
func (s *LocalStore) LoadProfile(ctx context.Context) (profile models.Profile, ok bool) {
	found, err := GetJSON(ctx, s.kv, ProfileKey, &profile)
	if err != nil {
		logging.Warn().Err(err).Msg("No existing profile")
		return models.Profile{}, false
	}
	return profile, found
}

func (s *LocalStore) SaveProfile(ctx context.Context, profile models.Profile) error {
	if err := SetJSON(ctx, s.kv, ProfileKey, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *LocalStore) Watchlist(ctx context.Context) []models.Movie {
	var list []models.Movie
	if _, err := GetJSON(ctx, s.kv, WatchlistKey, &list); err != nil {
		logging.Warn().Err(err).Msg("Failed to read watchlist")
		return nil
	}
	return list
}

func (s *LocalStore) InWatchlist(ctx context.Context, movie models.Movie) bool {
	return watchlistIndex(s.Watchlist(ctx), movie) >= 0
}

// AddToWatchlist appends movie unless an entry with the same title and year
// is already present.
func (s *LocalStore) AddToWatchlist(ctx context.Context, movie models.Movie) error {
	list := s.Watchlist(ctx)
	if watchlistIndex(list, movie) >= 0 {
		return nil
	}
	return s.saveWatchlist(ctx, append(list, movie))
}

// RemoveFromWatchlist drops movie, keeping the order of everything else.
func (s *LocalStore) RemoveFromWatchlist(ctx context.Context, movie models.Movie) error {
	list := s.Watchlist(ctx)
	i := watchlistIndex(list, movie)
	if i < 0 {
		return nil
	}
	return s.saveWatchlist(ctx, slices.Delete(list, i, i+1))
}

// ToggleWatchlist adds or removes movie and reports whether it is now saved.
func (s *LocalStore) ToggleWatchlist(ctx context.Context, movie models.Movie) (bool, error) {
	if s.InWatchlist(ctx, movie) {
		return false, s.RemoveFromWatchlist(ctx, movie)
	}
	return true, s.AddToWatchlist(ctx, movie)
}

// MarkWatched records movie in the profile's recently-watched history and
// takes it off the watchlist.
func (s *LocalStore) MarkWatched(ctx context.Context, movie models.Movie) error {
	if profile, ok := s.LoadProfile(ctx); ok {
		profile.MarkWatched(movie)
		if err := s.SaveProfile(ctx, profile); err != nil {
			return err
		}
	}
	return s.RemoveFromWatchlist(ctx, movie)
}

func (s *LocalStore) CommunityReviews(ctx context.Context, title string, year int) []models.CommunityReview {
	var reviews []models.CommunityReview
	key := ReviewsKey(title, year)
	if _, err := GetJSON(ctx, s.kv, key, &reviews); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Failed to read community reviews")
		return nil
	}
	return reviews
}

// AddCommunityReview appends a review for the movie. An empty author becomes
// "Anonymous"; the rating must be 1-5.
func (s *LocalStore) AddCommunityReview(ctx context.Context, title string, year int, author string, rating int, text string) (models.CommunityReview, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		author = anonymousAuthor
	}
	review := models.CommunityReview{
		ID:     uuid.NewString(),
		Author: author,
		Rating: rating,
		Text:   strings.TrimSpace(text),
		Date:   s.now().Format("1/2/2006"),
	}
	if err := validation.Struct(review); err != nil {
		return models.CommunityReview{}, err
	}

	reviews := append(s.CommunityReviews(ctx, title, year), review)
	if err := SetJSON(ctx, s.kv, ReviewsKey(title, year), reviews); err != nil {
		return models.CommunityReview{}, fmt.Errorf("failed to save review: %w", err)
	}
	return review, nil
}

func (s *LocalStore) saveWatchlist(ctx context.Context, list []models.Movie) error {
	if err := SetJSON(ctx, s.kv, WatchlistKey, list); err != nil {
		return fmt.Errorf("failed to save watchlist: %w", err)
	}
	return nil
}

func watchlistIndex(list []models.Movie, movie models.Movie) int {
	return slices.IndexFunc(list, func(m models.Movie) bool {
		return m.Title == movie.Title && m.Year == movie.Year
	})
}
