package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"mango.movies/mango/internal/logging"
	"mango.movies/mango/internal/models"
)

var (
	ErrSwapInFlight = errors.New("a swap is already in progress for this movie")
	ErrNoSuchSlot   = errors.New("no recommendation at that position")
)

type Recommender interface {
	Recommend(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationSet, error)
}

type Swapper interface {
	Swap(ctx context.Context, req models.SwapRequest) (*models.Movie, error)
}

// WatchRecorder persists the "seen it" side effect. store.LocalStore
// implements it.
type WatchRecorder interface {
	MarkWatched(ctx context.Context, movie models.Movie) error
}

// BoardEnv is what a Board needs from the outside world.
type BoardEnv struct {
	Swapper  Swapper
	Recorder WatchRecorder
}

// Context is the request-scoped snapshot sent with every call of a results
// stage. Each swap captures the value current at dispatch.
type Context struct {
	Profile  models.Profile
	Mood     []models.MoodAnswer
	Excluded Exclusions
}

// Request renders the snapshot as a recommendation request body.
func (c Context) Request() models.RecommendationRequest {
	return models.RecommendationRequest{
		Profile:        c.Profile,
		MoodProfile:    c.Mood,
		ExcludedMovies: c.Excluded.List(),
	}
}

// Slot is one ranked position on the board.
type Slot struct {
	ID       int
	Movie    models.Movie
	Swapping bool
}

// Board holds the ranked recommendations of a results stage. Swaps on
// different slots may run concurrently; slots are addressed by stable ids so
// a removal elsewhere never shifts an in-flight swap.
type Board struct {
	mu     sync.Mutex
	slots  []Slot
	nextID int
	sc     Context
	env    BoardEnv
}

func NewBoard(sc Context, movies []models.Movie, env BoardEnv) *Board {
	b := &Board{sc: sc, env: env}
	for _, m := range movies {
		b.slots = append(b.slots, Slot{ID: b.nextID, Movie: m})
		b.nextID++
	}
	return b
}

// Slots returns a copy of the current slots in rank order.
func (b *Board) Slots() []Slot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.slots)
}

// Movies returns the current recommendations in rank order.
func (b *Board) Movies() []models.Movie {
	b.mu.Lock()
	defer b.mu.Unlock()
	movies := make([]models.Movie, len(b.slots))
	for i, s := range b.slots {
		movies[i] = s.Movie
	}
	return movies
}

func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.slots)
}

// Context returns the current session snapshot.
func (b *Board) Context() Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sc
}

// SeenIt swaps out the movie currently at index. Callers that showed the
// user a list earlier should use SeenItByID with the id from that list.
func (b *Board) SeenIt(ctx context.Context, index int) (*models.Movie, error) {
	b.mu.Lock()
	if index < 0 || index >= len(b.slots) {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", ErrNoSuchSlot, index)
	}
	id := b.slots[index].ID
	b.mu.Unlock()
	return b.SeenItByID(ctx, id)
}

// SeenItByID replaces the movie in the slot with the given id by a fresh
// recommendation. The movie is recorded as watched before the network call.
// On success the replacement takes the slot; on any failure the slot is
// removed and the error returned.
func (b *Board) SeenItByID(ctx context.Context, id int) (*models.Movie, error) {
	b.mu.Lock()
	i := b.indexOf(id)
	if i < 0 {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: slot %d", ErrNoSuchSlot, id)
	}
	slot := &b.slots[i]
	if slot.Swapping {
		b.mu.Unlock()
		return nil, ErrSwapInFlight
	}
	slot.Swapping = true
	seen := slot.Movie
	b.sc.Excluded = b.sc.Excluded.With(seen.Key())
	snapshot := b.sc
	b.mu.Unlock()

	log := logging.Ctx(ctx).With().Str("movie", seen.Key()).Logger()

	if b.env.Recorder != nil {
		if err := b.env.Recorder.MarkWatched(ctx, seen); err != nil {
			log.Warn().Err(err).Msg("Failed to record watched movie")
		}
	}

	replacement, err := b.env.Swapper.Swap(ctx, models.SwapRequest{
		RecommendationRequest: snapshot.Request(),
		SeenMovie:             &seen,
	})

	b.mu.Lock()
	defer b.mu.Unlock()
	i = b.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: slot %d", ErrNoSuchSlot, id)
	}
	if err != nil || replacement == nil {
		if err == nil {
			err = errors.New("empty replacement")
		}
		log.Warn().Err(err).Msg("Swap failed, removing recommendation")
		b.slots = slices.Delete(b.slots, i, i+1)
		return nil, err
	}

	b.slots[i] = Slot{ID: id, Movie: *replacement}
	b.sc.Excluded = b.sc.Excluded.With(replacement.Key())
	log.Debug().Str("replacement", replacement.Key()).Msg("Swapped recommendation")
	return replacement, nil
}

func (b *Board) indexOf(id int) int {
	return slices.IndexFunc(b.slots, func(s Slot) bool { return s.ID == id })
}
