package session

import (
	"math/rand/v2"
	"slices"

	"mango.movies/mango/internal/logging"
	"mango.movies/mango/internal/models"
)

type Stage string

const (
	StageIntro     Stage = "intro"
	StageQuestions Stage = "questions"
	StageLoading   Stage = "loading"
	StageResults   Stage = "results"
	StageEnjoy     Stage = "enjoy"
)

const (
	errRecommendationsFailed = "Failed to get recommendations. Please try again."
	errNoRecommendations     = "No recommendations came back. Please try again."
)

// State is one stage of a recommendation session. Each stage is its own type
// and only exposes the transitions that are legal from it.
type State interface {
	Stage() Stage
}

// Intro is the start screen, optionally showing the last failure.
type Intro struct {
	Error string
}

func (Intro) Stage() Stage { return StageIntro }

func (Intro) StartQuiz(rng *rand.Rand) Questions {
	return startQuiz(rng)
}

// Questions is the mood questionnaire at a given question.
type Questions struct {
	questions []models.MoodQuestion
	index     int
	answers   []models.MoodAnswer
}

func (Questions) Stage() Stage { return StageQuestions }

func (q Questions) Current() models.MoodQuestion { return q.questions[q.index] }

// Index is the zero-based position of the current question.
func (q Questions) Index() int { return q.index }

func (q Questions) Total() int { return len(q.questions) }

func (q Questions) Answers() []models.MoodAnswer { return slices.Clone(q.answers) }

// Answer records option for the current question. After the last question
// the session moves to Loading.
func (q Questions) Answer(option models.MoodOption) State {
	answers := append(slices.Clip(q.answers), models.MoodAnswer{
		Question: q.Current().Question,
		Answer:   option.Label,
	})
	if q.index+1 >= len(q.questions) {
		return Loading{Mood: answers}
	}
	return Questions{questions: q.questions, index: q.index + 1, answers: answers}
}

// Back returns to the previous question, dropping its answer, or to Intro
// from the first question.
func (q Questions) Back() State {
	if q.index == 0 {
		return Intro{}
	}
	return Questions{
		questions: q.questions,
		index:     q.index - 1,
		answers:   slices.Clone(q.answers[:q.index-1]),
	}
}

// Loading waits on the recommendation call.
type Loading struct {
	Mood []models.MoodAnswer
}

func (Loading) Stage() Stage { return StageLoading }

// Succeed moves to Results. A set without movies cannot be shown and sends
// the session back to Intro instead.
func (l Loading) Succeed(set *models.RecommendationSet, profile models.Profile, env BoardEnv) State {
	if set == nil || len(set.Recommendations) == 0 {
		return Intro{Error: errNoRecommendations}
	}
	sc := Context{
		Profile:  profile,
		Mood:     l.Mood,
		Excluded: ExclusionsFor(set.Recommendations),
	}
	return Results{
		Board:       NewBoard(sc, set.Recommendations, env),
		MoodSummary: set.MoodSummary,
	}
}

// Fail returns to Intro with a retry message. err is logged, not shown.
func (Loading) Fail(err error) State {
	logging.Warn().Err(err).Msg("Recommendation request failed")
	return Intro{Error: errRecommendationsFailed}
}

// Results shows the board of recommendations.
type Results struct {
	Board       *Board
	MoodSummary string
}

func (Results) Stage() Stage { return StageResults }

func (Results) Done() Enjoy { return Enjoy{} }

func (Results) Home() Intro { return Intro{} }

// Refresh starts a new quiz, dropping this session's exclusions.
func (Results) Refresh(rng *rand.Rand) Questions { return startQuiz(rng) }

// Enjoy is the closing screen.
type Enjoy struct{}

func (Enjoy) Stage() Stage { return StageEnjoy }

func (Enjoy) Home() Intro { return Intro{} }

func (Enjoy) StartQuiz(rng *rand.Rand) Questions { return startQuiz(rng) }

func startQuiz(rng *rand.Rand) Questions {
	return Questions{questions: models.PickQuestions(rng, models.QuestionsPerSession)}
}
