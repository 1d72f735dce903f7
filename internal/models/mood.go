package models

import "math/rand/v2"

// QuestionsPerSession is how many questions a mood quiz asks.
const QuestionsPerSession = 5

type MoodAnswer struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"`
}

type MoodOption struct {
	Value string
	Label string
}

type MoodQuestion struct {
	ID       string
	Question string
	Options  []MoodOption
}

var QuestionPool = []MoodQuestion{
	{"energy", "How's your brain feeling right now?", []MoodOption{
		{"fried", "Completely fried"}, {"tired", "Pretty tired"},
		{"normal", "Normal, functional"}, {"wired", "Wired and ready"},
	}},
	{"social", "Who's watching with you?", []MoodOption{
		{"solo", "Just me and my mangos"}, {"partner", "Partner/date"},
		{"friends", "Friends"}, {"family", "Family/mixed group"},
	}},
	{"emotional_risk", "How emotionally available are you tonight?", []MoodOption{
		{"none", "Protect me at all costs"}, {"little", "A little tug is fine"},
		{"ready", "I can handle some feelings"}, {"destroy", "Destroy me, I need a cry"},
	}},
	{"familiarity", "Comfort food or trying something new?", []MoodOption{
		{"comfort", "Something familiar and cozy"}, {"mild_new", "New but not too weird"},
		{"adventurous", "Show me something different"}, {"wild", "Surprise me"},
	}},
	{"attention", "How much of your attention can you give?", []MoodOption{
		{"phone", "I will be on my phone"}, {"half", "Half paying attention"},
		{"full", "Full cinema mode"}, {"obsess", "I want to analyze every frame"},
	}},
	{"length", "How much time you got?", []MoodOption{
		{"short", "Under 90 min"}, {"normal", "Standard movie (90-120)"},
		{"long", "I'm committed (2+ hours)"}, {"binge", "Series/multiple movies"},
	}},
	{"decade_vibe", "What era sounds good?", []MoodOption{
		{"classic", "Old school (pre-1990)"}, {"nostalgic", "90s-2000s nostalgia"},
		{"modern", "Recent stuff (2015+)"}, {"any", "Era doesn't matter"},
	}},
	{"laugh", "Do you want to laugh?", []MoodOption{
		{"must", "Yes, mandatory laughs"}, {"nice", "Laughs would be nice"},
		{"dont_care", "Not important"}, {"serious", "Keep it serious"},
	}},
	{"violence", "Violence/intensity tolerance tonight?", []MoodOption{
		{"none", "Keep it peaceful"}, {"mild", "Action is fine, nothing brutal"},
		{"bring_it", "Bring the intensity"}, {"extreme", "I want chaos"},
	}},
	{"thinking", "How much do you want to think?", []MoodOption{
		{"zero", "Zero thoughts, head empty"}, {"little", "Light thinking only"},
		{"engaged", "Engage my brain"}, {"puzzle", "I want a puzzle"},
	}},
	{"escapism", "Reality or escape?", []MoodOption{
		{"ground", "Keep me grounded"}, {"light_escape", "Light escapism"},
		{"fantasy", "Take me somewhere else"}, {"weird", "Get weird with it"},
	}},
	{"ending", "How should it end?", []MoodOption{
		{"happy", "Happy ending please"}, {"satisfying", "Satisfying resolution"},
		{"ambiguous", "Ambiguous is cool"}, {"dark", "I can handle a dark ending"},
	}},
	{"romance", "Romance in the movie?", []MoodOption{
		{"central", "Yes, make it the focus"}, {"subplot", "Nice as a subplot"},
		{"dont_care", "Don't care either way"}, {"none", "Keep romance out"},
	}},
	{"day_type", "What kind of day did you have?", []MoodOption{
		{"rough", "Absolute garbage day"}, {"stressful", "Stressful but survived"},
		{"fine", "Pretty decent actually"}, {"great", "Amazing, ride this high"},
	}},
	{"scared", "How do you feel about being scared?", []MoodOption{
		{"no", "Hard no"}, {"mild", "Mild spooks only"},
		{"yes", "Scare me"}, {"terror", "Traumatize me"},
	}},
}

// PickQuestions returns n distinct questions from QuestionPool in random
// order. A nil rng uses the package-level source.
func PickQuestions(rng *rand.Rand, n int) []MoodQuestion {
	shuffled := make([]MoodQuestion, len(QuestionPool))
	copy(shuffled, QuestionPool)

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	for i := len(shuffled) - 1; i > 0; i-- {
		j := intN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
