package session

import (
	"slices"
	"strings"

	"mango.movies/mango/internal/models"
)

// Exclusions is an ordered set of "Title (Year)" keys the model must not
// recommend again this session. Values are immutable: With returns a new set.
type Exclusions struct {
	keys []string
}

func NewExclusions(keys ...string) Exclusions {
	return Exclusions{}.With(keys...)
}

// ExclusionsFor seeds a set from a batch of movies.
func ExclusionsFor(movies []models.Movie) Exclusions {
	keys := make([]string, len(movies))
	for i, m := range movies {
		keys[i] = m.Key()
	}
	return NewExclusions(keys...)
}

// With returns a copy extended by keys. Blank keys and keys already present
// (case-insensitively) are skipped.
func (e Exclusions) With(keys ...string) Exclusions {
	next := slices.Clip(slices.Clone(e.keys))
	for _, k := range keys {
		if strings.TrimSpace(k) == "" || contains(next, k) {
			continue
		}
		next = append(next, k)
	}
	return Exclusions{keys: next}
}

func (e Exclusions) Contains(key string) bool {
	return contains(e.keys, key)
}

// List returns the keys in insertion order.
func (e Exclusions) List() []string {
	return slices.Clone(e.keys)
}

func (e Exclusions) Len() int {
	return len(e.keys)
}

func contains(keys []string, key string) bool {
	return slices.ContainsFunc(keys, func(k string) bool { return models.SameKey(k, key) })
}
