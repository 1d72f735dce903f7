package models

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
)

func TestGenreTogglesStayDisjoint(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	p := NewProfile()

	for i := 0; i < 2000; i++ {
		genre := Genres[rng.IntN(len(Genres))]
		if rng.IntN(2) == 0 {
			p.ToggleLovedGenre(genre)
		} else {
			p.ToggleHatedGenre(genre)
		}
		for _, g := range p.LovedGenres {
			if slices.Contains(p.HatedGenres, g) {
				t.Fatalf("step %d: genre %q is both loved and hated", i, g)
			}
		}
	}
}

func TestToggleOppositeGenreIsNoop(t *testing.T) {
	p := NewProfile()
	if !p.ToggleLovedGenre("Horror") {
		t.Fatal("Expected loving Horror to succeed")
	}
	if p.ToggleHatedGenre("Horror") {
		t.Error("Expected hating a loved genre to be rejected")
	}
	if len(p.HatedGenres) != 0 {
		t.Errorf("Expected no hated genres, got %v", p.HatedGenres)
	}

	p.ToggleLovedGenre("Horror")
	if len(p.LovedGenres) != 0 {
		t.Errorf("Expected Horror to be toggled off, got %v", p.LovedGenres)
	}
	if !p.ToggleHatedGenre("Horror") {
		t.Error("Expected hating Horror to succeed once it is no longer loved")
	}
}

func TestMarkWatched(t *testing.T) {
	p := NewProfile()
	for i := 0; i < 25; i++ {
		p.MarkWatched(Movie{Title: fmt.Sprintf("Movie %d", i), Year: 2000 + i})
	}
	if len(p.RecentlyWatched) != MaxRecentlyWatched {
		t.Fatalf("Expected %d entries, got %d", MaxRecentlyWatched, len(p.RecentlyWatched))
	}
	if p.RecentlyWatched[0] != "Movie 24 (2024)" {
		t.Errorf("Expected most recent first, got %q", p.RecentlyWatched[0])
	}

	p.MarkWatched(Movie{Title: "Movie 10", Year: 2010})
	if p.RecentlyWatched[0] != "Movie 10 (2010)" {
		t.Errorf("Expected re-watched movie at head, got %q", p.RecentlyWatched[0])
	}
	count := 0
	for _, m := range p.RecentlyWatched {
		if m == "Movie 10 (2010)" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly one entry for Movie 10, got %d", count)
	}
}

func TestProfileCloneDoesNotAlias(t *testing.T) {
	p := NewProfile()
	p.ToggleLovedGenre("Drama")
	c := p.Clone()
	c.ToggleLovedGenre("Comedy")
	if len(p.LovedGenres) != 1 {
		t.Errorf("Expected original to keep 1 loved genre, got %v", p.LovedGenres)
	}
}

func TestPickQuestions(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	qs := PickQuestions(rng, QuestionsPerSession)
	if len(qs) != QuestionsPerSession {
		t.Fatalf("Expected %d questions, got %d", QuestionsPerSession, len(qs))
	}
	seen := map[string]bool{}
	for _, q := range qs {
		if seen[q.ID] {
			t.Errorf("Question %s picked twice", q.ID)
		}
		seen[q.ID] = true
	}
	if len(QuestionPool) != 15 {
		t.Errorf("Expected a pool of 15 questions, got %d", len(QuestionPool))
	}
	if got := PickQuestions(nil, 100); len(got) != len(QuestionPool) {
		t.Errorf("Expected pick to be capped at pool size, got %d", len(got))
	}
}

func TestAverageRating(t *testing.T) {
	if _, ok := AverageRating(nil); ok {
		t.Error("Expected ok=false for no reviews")
	}
	avg, ok := AverageRating([]CommunityReview{{Rating: 5}, {Rating: 4}, {Rating: 4}})
	if !ok || avg != 4.3 {
		t.Errorf("Expected 4.3, got %v (ok=%v)", avg, ok)
	}
}

func TestOfferTypePriority(t *testing.T) {
	order := []OfferType{OfferSubscription, OfferFree, OfferRent, OfferBuy, OfferAddon}
	for i, typ := range order {
		if typ.Priority() != i {
			t.Errorf("Expected %s priority %d, got %d", typ, i, typ.Priority())
		}
	}
}

func TestMovieKey(t *testing.T) {
	m := Movie{Title: "Heat", Year: 1995}
	if m.Key() != "Heat (1995)" {
		t.Errorf("Expected \"Heat (1995)\", got %q", m.Key())
	}
	if !SameKey("heat (1995) ", "Heat (1995)") {
		t.Error("Expected keys to match ignoring case and whitespace")
	}
}

func TestLenientInt(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`1995`, 1995},
		{`"1995"`, 1995},
		{`91.5`, 92},
		{`3.4`, 3},
		{`null`, 0},
		{`"n/a"`, 0},
		{`true`, 0},
		{``, 0},
	}
	for _, tt := range tests {
		if got := lenientInt([]byte(tt.raw)); got != tt.want {
			t.Errorf("lenientInt(%s): expected %d, got %d", tt.raw, tt.want, got)
		}
	}
}
