package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"mango.movies/mango/internal/models"
	"mango.movies/mango/internal/validation"
)

// editProfile runs the setup wizard, starting from the saved profile when
// there is one, and saves once the profile passes validation.
func (a *app) editProfile(ctx context.Context) error {
	profile, ok := a.local.LoadProfile(ctx)
	if !ok {
		profile = models.NewProfile()
		a.ui.println("Let's get to know your taste.")
	} else {
		profile = profile.Clone()
		a.ui.println("Editing your profile. Press enter to keep the current value.")
	}

	for {
		if err := a.wizard(&profile); err != nil {
			return err
		}
		if err := validation.Profile(profile); err != nil {
			a.ui.printf("Almost there: %v\n\n", err)
			continue
		}
		break
	}

	if err := a.local.SaveProfile(ctx, profile); err != nil {
		return err
	}
	a.ui.println("Profile saved. Run `mango` to get recommendations.")
	return nil
}

func (a *app) wizard(p *models.Profile) error {
	name, err := a.ui.ask("What should we call you? (optional)")
	if err != nil {
		return err
	}
	if name != "" {
		p.Name = name
	}

	a.ui.println("\nWhat kind of movie watcher are you?")
	labels := make([]string, len(models.ViewerTypes))
	current := -1
	for i, vt := range models.ViewerTypes {
		labels[i] = vt.Label + " - " + vt.Description
		if vt.ID == p.ViewerType {
			current = i
		}
	}
	i, err := a.ui.choose("Pick one:", labels, current)
	if err != nil {
		return err
	}
	p.ViewerType = models.ViewerTypes[i].ID

	err = a.ui.toggleLoop("\nGenres you LOVE (pick at least 2):", models.Genres,
		func(g string) bool { return slices.Contains(p.LovedGenres, g) },
		func(g string) string {
			if !p.ToggleLovedGenre(g) {
				return g + " is on your hate list."
			}
			return ""
		})
	if err != nil {
		return err
	}

	err = a.ui.toggleLoop("\nGenres you can't stand:", models.Genres,
		func(g string) bool { return slices.Contains(p.HatedGenres, g) },
		func(g string) string {
			if !p.ToggleHatedGenre(g) {
				return g + " is on your love list."
			}
			return ""
		})
	if err != nil {
		return err
	}

	a.ui.println("\nThree favorite movies (optional):")
	for len(p.FavoriteMovies) < 3 {
		p.FavoriteMovies = append(p.FavoriteMovies, "")
	}
	for i := range 3 {
		prompt := fmt.Sprintf("  Favorite #%d:", i+1)
		if p.FavoriteMovies[i] != "" {
			prompt = fmt.Sprintf("  Favorite #%d [%s]:", i+1, p.FavoriteMovies[i])
		}
		title, err := a.ui.ask(prompt)
		if err != nil {
			return err
		}
		if title != "" {
			p.FavoriteMovies[i] = strings.TrimSpace(title)
		}
	}

	limitLabels := make([]string, len(models.HardLimits))
	for i, l := range models.HardLimits {
		limitLabels[i] = l.Label
	}
	err = a.ui.toggleLoop("\nHard limits, things you never want to see:", limitLabels,
		func(label string) bool { return slices.Contains(p.HardLimits, hardLimitID(label)) },
		func(label string) string {
			p.ToggleHardLimit(hardLimitID(label))
			return ""
		})
	if err != nil {
		return err
	}

	return a.ui.toggleLoop("\nYour streaming services (at least 1):", models.StreamingServices,
		func(s string) bool { return slices.Contains(p.StreamingServices, s) },
		func(s string) string {
			p.ToggleStreamingService(s)
			return ""
		})
}

func hardLimitID(label string) string {
	for _, l := range models.HardLimits {
		if l.Label == label {
			return l.ID
		}
	}
	return ""
}

func (a *app) showWatchlist(ctx context.Context) {
	list := a.local.Watchlist(ctx)
	if len(list) == 0 {
		a.ui.println("Your watchlist is empty.")
		return
	}
	a.ui.println("Your watchlist:")
	for i, m := range list {
		a.ui.printf("%2d) %s - %s, %s\n", i+1, m.Key(), m.Genre, m.Runtime)
	}
}
