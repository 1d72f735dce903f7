package models

import (
	"fmt"
	"slices"
)

// MaxRecentlyWatched caps Profile.RecentlyWatched.
const MaxRecentlyWatched = 20

type ViewerType string

const (
	ViewerCasual     ViewerType = "casual"
	ViewerRegular    ViewerType = "regular"
	ViewerEnthusiast ViewerType = "enthusiast"
	ViewerCinephile  ViewerType = "cinephile"
)

type ViewerTypeInfo struct {
	ID          ViewerType
	Label       string
	Description string
}

var ViewerTypes = []ViewerTypeInfo{
	{ViewerCasual, "Casual", "I watch a few movies a month, mostly mainstream"},
	{ViewerRegular, "Regular", "I watch weekly, mix of popular and some deeper cuts"},
	{ViewerEnthusiast, "Enthusiast", "I actively seek out films, know directors, follow critics"},
	{ViewerCinephile, "Cinephile", "Film is a passion, I watch everything including classics and foreign"},
}

var Genres = []string{
	"Action", "Comedy", "Drama", "Horror", "Sci-Fi", "Fantasy", "Romance",
	"Thriller", "Documentary", "Animation", "Crime", "Mystery", "Adventure",
	"War", "Western", "Musical", "Biography", "Sport", "Family", "Indie",
}

type HardLimit struct {
	ID    string
	Label string
}

// HardLimits is the fixed content-restriction catalog. Order matters: labels
// are always rendered in this order.
var HardLimits = []HardLimit{
	{"no_subtitles", "No subtitles / foreign language films"},
	{"no_black_white", "No black & white films"},
	{"no_old", "Nothing before 1990"},
	{"no_very_old", "Nothing before 1970"},
	{"no_slow", "No slow-burn / arthouse pacing"},
	{"no_gore", "No extreme gore"},
	{"no_sa", "No sexual assault themes"},
	{"no_animal_harm", "No animal death/harm"},
	{"no_child_harm", "No child death/harm themes"},
}

var StreamingServices = []string{
	"Netflix", "Amazon Prime", "Hulu", "HBO Max", "Disney+",
	"Paramount+", "Peacock", "Apple TV+", "Tubi", "Criterion Channel",
}

var DefaultStreamingServices = []string{"Netflix", "Amazon Prime"}

// Profile is the static taste profile collected by the setup wizard.
// The validate tags are the wizard's finalization rules.
type Profile struct {
	Name              string     `json:"name" validate:"max=100"`
	ViewerType        ViewerType `json:"viewerType" validate:"required,oneof=casual regular enthusiast cinephile"`
	LovedGenres       []string   `json:"lovedGenres" validate:"min=2"`
	HatedGenres       []string   `json:"hatedGenres"`
	FavoriteMovies    []string   `json:"favoriteMovies"`
	RecentlyWatched   []string   `json:"recentlyWatched" validate:"max=20"`
	HardLimits        []string   `json:"hardLimits" validate:"dive,hardlimit"`
	StreamingServices []string   `json:"streamingServices" validate:"min=1"`
}

// NewProfile returns the wizard's starting point.
func NewProfile() Profile {
	return Profile{
		LovedGenres:       []string{},
		HatedGenres:       []string{},
		FavoriteMovies:    []string{"", "", ""},
		RecentlyWatched:   []string{},
		HardLimits:        []string{},
		StreamingServices: slices.Clone(DefaultStreamingServices),
	}
}

// ToggleLovedGenre adds or removes genre from the loved set. A genre that is
// currently hated cannot be loved; the call is then a no-op returning false.
func (p *Profile) ToggleLovedGenre(genre string) bool {
	if slices.Contains(p.HatedGenres, genre) {
		return false
	}
	p.LovedGenres = toggle(p.LovedGenres, genre)
	return true
}

// ToggleHatedGenre is the mirror of ToggleLovedGenre.
func (p *Profile) ToggleHatedGenre(genre string) bool {
	if slices.Contains(p.LovedGenres, genre) {
		return false
	}
	p.HatedGenres = toggle(p.HatedGenres, genre)
	return true
}

func (p *Profile) ToggleHardLimit(id string) {
	p.HardLimits = toggle(p.HardLimits, id)
}

func (p *Profile) ToggleStreamingService(service string) {
	p.StreamingServices = toggle(p.StreamingServices, service)
}

// MarkWatched records movie at the head of RecentlyWatched, removing any
// earlier entry for the same movie and keeping at most MaxRecentlyWatched.
func (p *Profile) MarkWatched(movie Movie) {
	key := movie.Key()
	watched := make([]string, 0, len(p.RecentlyWatched)+1)
	watched = append(watched, key)
	for _, m := range p.RecentlyWatched {
		if m != key {
			watched = append(watched, m)
		}
	}
	if len(watched) > MaxRecentlyWatched {
		watched = watched[:MaxRecentlyWatched]
	}
	p.RecentlyWatched = watched
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (p Profile) Clone() Profile {
	p.LovedGenres = slices.Clone(p.LovedGenres)
	p.HatedGenres = slices.Clone(p.HatedGenres)
	p.FavoriteMovies = slices.Clone(p.FavoriteMovies)
	p.RecentlyWatched = slices.Clone(p.RecentlyWatched)
	p.HardLimits = slices.Clone(p.HardLimits)
	p.StreamingServices = slices.Clone(p.StreamingServices)
	return p
}

// IsHardLimit reports whether id is in the HardLimits catalog.
func IsHardLimit(id string) bool {
	for _, l := range HardLimits {
		if l.ID == id {
			return true
		}
	}
	return false
}

func (v ViewerType) String() string {
	for _, t := range ViewerTypes {
		if t.ID == v {
			return t.Label
		}
	}
	return fmt.Sprintf("ViewerType(%q)", string(v))
}

func toggle(set []string, item string) []string {
	if i := slices.Index(set, item); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), item)
}
