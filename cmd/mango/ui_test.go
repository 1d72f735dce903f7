package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		in        string
		wantVerb  string
		wantIndex int
	}{
		{"s 3", "s", 2},
		{"  W   1 ", "w", 0},
		{"done", "done", -1},
		{"d x", "d", -1},
		{"", "", -1},
	}
	for _, tt := range tests {
		verb, index := command(tt.in)
		if verb != tt.wantVerb || index != tt.wantIndex {
			t.Errorf("command(%q) = (%q, %d), want (%q, %d)", tt.in, verb, index, tt.wantVerb, tt.wantIndex)
		}
	}
}

func TestChooseRetriesAndKeepsCurrent(t *testing.T) {
	var out bytes.Buffer
	u := newUI(strings.NewReader("9\nfoo\n2\n\n"), &out)

	got, err := u.choose("Pick:", []string{"a", "b", "c"}, 0)
	if err != nil || got != 1 {
		t.Fatalf("Expected index 1, got %d, %v", got, err)
	}
	if !strings.Contains(out.String(), "Pick a number from 1 to 3.") {
		t.Errorf("Expected a retry hint, got %q", out.String())
	}

	got, err = u.choose("Pick:", []string{"a", "b", "c"}, 2)
	if err != nil || got != 2 {
		t.Errorf("Expected empty input to keep current, got %d, %v", got, err)
	}

	if _, err := u.choose("Pick:", []string{"a"}, -1); !errors.Is(err, errQuit) {
		t.Errorf("Expected errQuit at end of input, got %v", err)
	}
}

func TestToggleLoop(t *testing.T) {
	selected := map[string]bool{}
	u := newUI(strings.NewReader("1, 3 9\n3\n\n"), &bytes.Buffer{})

	err := u.toggleLoop("Genres:", []string{"Drama", "Comedy", "Horror"},
		func(s string) bool { return selected[s] },
		func(s string) string { selected[s] = !selected[s]; return "" })
	if err != nil {
		t.Fatalf("toggleLoop: %v", err)
	}
	if !selected["Drama"] || selected["Comedy"] || selected["Horror"] {
		t.Errorf("Unexpected selection %v", selected)
	}
}

func TestStars(t *testing.T) {
	if got := stars(3); got != "★★★☆☆" {
		t.Errorf("Expected 3 stars, got %s", got)
	}
	if got := stars(9); got != "★★★★★" {
		t.Errorf("Expected clamped stars, got %s", got)
	}
}
