package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"mango.movies/mango/internal/models"
	"mango.movies/mango/internal/store"
)

var (
	ErrNoProfile         = errors.New("no saved profile")
	ErrIllegalTransition = errors.New("illegal session transition")
)

const errSetUpProfile = "Set up your profile first."

// Session drives one user through intro, questionnaire, loading, results and
// enjoy. It is not safe for concurrent use; only Board swaps run in
// parallel.
type Session struct {
	local       *store.LocalStore
	recommender Recommender
	env         BoardEnv
	rng         *rand.Rand
	state       State
}

// New starts a session at Intro. A nil rng uses the package-level source.
func New(local *store.LocalStore, recommender Recommender, swapper Swapper, rng *rand.Rand) *Session {
	return &Session{
		local:       local,
		recommender: recommender,
		env:         BoardEnv{Swapper: swapper, Recorder: local},
		rng:         rng,
		state:       Intro{},
	}
}

func (s *Session) State() State { return s.state }

// Board returns the results board, or nil outside the results stage.
func (s *Session) Board() *Board {
	if r, ok := s.state.(Results); ok {
		return r.Board
	}
	return nil
}

// Start begins a new questionnaire from intro, results or enjoy.
func (s *Session) Start() (Questions, error) {
	var q Questions
	switch st := s.state.(type) {
	case Intro:
		q = st.StartQuiz(s.rng)
	case Results:
		q = st.Refresh(s.rng)
	case Enjoy:
		q = st.StartQuiz(s.rng)
	default:
		return Questions{}, s.illegal("start")
	}
	s.state = q
	return q, nil
}

func (s *Session) Answer(option models.MoodOption) (State, error) {
	q, ok := s.state.(Questions)
	if !ok {
		return s.state, s.illegal("answer")
	}
	s.state = q.Answer(option)
	return s.state, nil
}

func (s *Session) Back() (State, error) {
	q, ok := s.state.(Questions)
	if !ok {
		return s.state, s.illegal("back")
	}
	s.state = q.Back()
	return s.state, nil
}

// Fetch makes the recommendation call for a Loading session and moves to
// Results or back to Intro.
func (s *Session) Fetch(ctx context.Context) (State, error) {
	l, ok := s.state.(Loading)
	if !ok {
		return s.state, s.illegal("fetch")
	}

	profile, ok := s.local.LoadProfile(ctx)
	if !ok {
		s.state = Intro{Error: errSetUpProfile}
		return s.state, ErrNoProfile
	}

	set, err := s.recommender.Recommend(ctx, models.RecommendationRequest{
		Profile:     profile,
		MoodProfile: l.Mood,
	})
	if err != nil {
		s.state = l.Fail(err)
		return s.state, nil
	}
	s.state = l.Succeed(set, profile, s.env)
	return s.state, nil
}

func (s *Session) Done() (State, error) {
	r, ok := s.state.(Results)
	if !ok {
		return s.state, s.illegal("done")
	}
	s.state = r.Done()
	return s.state, nil
}

// Home returns to Intro from results or enjoy.
func (s *Session) Home() (State, error) {
	switch st := s.state.(type) {
	case Results:
		s.state = st.Home()
	case Enjoy:
		s.state = st.Home()
	default:
		return s.state, s.illegal("home")
	}
	return s.state, nil
}

func (s *Session) illegal(action string) error {
	return fmt.Errorf("%w: %s from %s", ErrIllegalTransition, action, s.state.Stage())
}
