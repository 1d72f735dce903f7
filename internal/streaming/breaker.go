package streaming

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"mango.movies/mango/internal/logging"
)

// BreakerClient wraps a Searcher with a circuit breaker so a failing catalog
// API is not hit by every card of every session.
type BreakerClient struct {
	next Searcher
	cb   *gobreaker.CircuitBreaker[[]Show]
}

// NewBreakerClient opens after a 60% failure rate over at least 10 requests
// in a one-minute window, and probes again after 30 seconds.
func NewBreakerClient(next Searcher) *BreakerClient {
	cb := gobreaker.NewCircuitBreaker[[]Show](gobreaker.Settings{
		Name:        "streaming-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},
		// A missing key is configuration, not upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotConfigured)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
		},
	})
	return &BreakerClient{next: next, cb: cb}
}

func (b *BreakerClient) SearchTitle(ctx context.Context, title string) ([]Show, error) {
	shows, err := b.cb.Execute(func() ([]Show, error) {
		return b.next.SearchTitle(ctx, title)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		logging.Ctx(ctx).Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
	}
	return shows, err
}

// State reports the breaker state for health output.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}
