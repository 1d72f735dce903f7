package main

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"mango.movies/mango/internal/models"
	"mango.movies/mango/internal/session"
)

const resultsHelp = `Commands: s N seen it | w N save/unsave | d N details | t N where to watch
          r new quiz | done pick made | q quit`

func (a *app) run(ctx context.Context) error {
	if _, ok := a.local.LoadProfile(ctx); !ok {
		a.ui.println("No profile yet. Let's set one up first.")
		if err := a.editProfile(ctx); err != nil {
			return err
		}
	}

	s := session.New(a.local, a.server, a.server, nil)
	var swaps sync.WaitGroup
	defer swaps.Wait()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch st := s.State().(type) {
		case session.Intro:
			err = a.intro(s, st)
		case session.Questions:
			err = a.question(s, st)
		case session.Loading:
			a.ui.println("\nFinding your movies...")
			_, err = s.Fetch(ctx)
			if errors.Is(err, session.ErrNoProfile) {
				err = nil
			}
		case session.Results:
			err = a.results(ctx, s, st, &swaps)
		case session.Enjoy:
			err = a.enjoy(s)
		}

		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *app) intro(s *session.Session, st session.Intro) error {
	if st.Error != "" {
		a.ui.printf("\n%s\n", st.Error)
	}
	answer, err := a.ui.ask("\nReady to find tonight's movie? [Y/n]")
	if err != nil {
		return err
	}
	if strings.HasPrefix(strings.ToLower(answer), "n") {
		return errQuit
	}
	_, err = s.Start()
	return err
}

func (a *app) question(s *session.Session, q session.Questions) error {
	cur := q.Current()
	a.ui.printf("\nQuestion %d of %d: %s\n", q.Index()+1, q.Total(), cur.Question)
	for i, o := range cur.Options {
		a.ui.printf("  %d) %s\n", i+1, o.Label)
	}
	for {
		answer, err := a.ui.ask("Your answer (b to go back):")
		if err != nil {
			return err
		}
		if answer == "b" {
			_, err = s.Back()
			return err
		}
		n, convErr := strconv.Atoi(answer)
		if convErr == nil && n >= 1 && n <= len(cur.Options) {
			_, err = s.Answer(cur.Options[n-1])
			return err
		}
		a.ui.printf("Pick 1-%d.\n", len(cur.Options))
	}
}

func (a *app) results(ctx context.Context, s *session.Session, st session.Results, swaps *sync.WaitGroup) error {
	board := st.Board
	if board.Len() == 0 {
		a.ui.println("\nNo recommendations left. Let's try again.")
		_, err := s.Home()
		return err
	}

	// Commands address the slots as printed; background swaps may reshape
	// the board while the user types.
	slots := board.Slots()
	a.ui.printf("\nTonight's vibe: %s\n", st.MoodSummary)
	for i, slot := range slots {
		a.printSlot(ctx, i, slot)
	}
	a.ui.println(resultsHelp)

	input, err := a.ui.ask(">")
	if err != nil {
		return err
	}
	verb, index := command(input)

	needsIndex := verb == "s" || verb == "w" || verb == "d" || verb == "t"
	if needsIndex && (index < 0 || index >= len(slots)) {
		a.ui.println("Which movie? Use the number in front of it.")
		return nil
	}

	switch verb {
	case "s":
		id, seen := slots[index].ID, slots[index].Movie
		a.ui.printf("Finding something instead of %s...\n", seen.Key())
		swaps.Add(1)
		go func() {
			defer swaps.Done()
			replacement, err := board.SeenItByID(ctx, id)
			switch {
			case errors.Is(err, session.ErrSwapInFlight):
				a.ui.println("Already finding a replacement for that one.")
			case errors.Is(err, session.ErrNoSuchSlot):
				a.ui.printf("%s is no longer on the list.\n", seen.Key())
			case err != nil:
				a.ui.printf("Couldn't replace %s, removed it.\n", seen.Key())
			default:
				a.ui.printf("Swapped %s for %s.\n", seen.Key(), replacement.Key())
			}
		}()
	case "w":
		saved, err := a.local.ToggleWatchlist(ctx, slots[index].Movie)
		if err != nil {
			return err
		}
		if saved {
			a.ui.println("Saved to your watchlist.")
		} else {
			a.ui.println("Removed from your watchlist.")
		}
	case "d":
		return a.details(ctx, slots[index].Movie)
	case "t":
		a.whereToWatch(ctx, slots[index].Movie)
	case "r":
		swaps.Wait()
		_, err = s.Start()
		return err
	case "done":
		swaps.Wait()
		_, err = s.Done()
		return err
	case "q":
		return errQuit
	default:
		a.ui.println("Unknown command.")
	}
	return nil
}

func (a *app) printSlot(ctx context.Context, i int, slot session.Slot) {
	m := slot.Movie
	status := ""
	if slot.Swapping {
		status = " (finding a replacement...)"
	} else if a.local.InWatchlist(ctx, m) {
		status = " (saved)"
	}
	a.ui.printf("\n%d) %s  %d%% match%s\n", i+1, m.Key(), m.VibeMatch, status)
	a.ui.printf("   %s | %s | %s\n", m.Genre, m.Runtime, m.Streaming)
	if m.Director != "" {
		a.ui.printf("   Directed by %s", m.Director)
		if len(m.Cast) > 0 {
			a.ui.printf(", starring %s", strings.Join(m.Cast, ", "))
		}
		a.ui.println()
	}
	a.ui.printf("   %s\n", m.Pitch)
	if m.WhyYou != "" {
		a.ui.printf("   Why you: %s\n", m.WhyYou)
	}
}

func (a *app) details(ctx context.Context, m models.Movie) error {
	a.ui.printf("\nLooking up reviews for %s...\n", m.Key())
	d := session.LoadDetails(ctx, a.server, a.local, m)

	if d.External.RTScore != "" || d.External.IMDbScore != "" {
		a.ui.printf("Rotten Tomatoes: %s  IMDb: %s\n", orDash(d.External.RTScore), orDash(d.External.IMDbScore))
	}
	if d.External.Consensus != "" {
		a.ui.printf("Consensus: %s\n", d.External.Consensus)
	}
	if len(d.External.Reviews) == 0 {
		a.ui.println("No critic reviews found.")
	}
	for _, r := range d.External.Reviews {
		a.ui.printf("  %s (%s) %s\n    %q\n", r.Author, r.Source, stars(r.Rating), r.Text)
	}

	a.ui.println("\nMango community:")
	if d.HasAverage {
		a.ui.printf("  Average %.1f from %d reviews\n", d.Average, len(d.Community))
	} else {
		a.ui.println("  No reviews yet.")
	}
	for _, r := range d.Community {
		a.ui.printf("  %s %s on %s: %s\n", r.Author, stars(r.Rating), r.Date, r.Text)
	}

	answer, err := a.ui.ask("Write a review? [y/N]")
	if err != nil || !strings.HasPrefix(strings.ToLower(answer), "y") {
		return err
	}
	return a.writeReview(ctx, m)
}

func (a *app) writeReview(ctx context.Context, m models.Movie) error {
	author, err := a.ui.ask("Your name (optional):")
	if err != nil {
		return err
	}
	rating, err := a.ui.choose("Rating:", []string{"1 star", "2 stars", "3 stars", "4 stars", "5 stars"}, -1)
	if err != nil {
		return err
	}
	text, err := a.ui.ask("Your review:")
	if err != nil {
		return err
	}
	if _, err := a.local.AddCommunityReview(ctx, m.Title, m.Year, author, rating+1, text); err != nil {
		a.ui.printf("Couldn't save review: %v\n", err)
		return nil
	}
	a.ui.println("Thanks for sharing!")
	return nil
}

func (a *app) whereToWatch(ctx context.Context, m models.Movie) {
	result, err := a.server.Streaming(ctx, m.Title, m.Year)
	if err != nil || len(result.StreamingOptions) == 0 {
		a.ui.println("Streaming info not available.")
		return
	}
	a.ui.printf("Where to watch %s:\n", models.MovieKey(result.Title, result.Year))
	for _, o := range result.StreamingOptions {
		price := ""
		if o.Price != "" {
			price = " " + o.Price
		}
		a.ui.printf("  %s (%s%s) %s\n", o.Service, o.Type, price, o.Link)
	}
}

func (a *app) enjoy(s *session.Session) error {
	a.ui.println("\nEnjoy your movie! 🥭")
	answer, err := a.ui.ask("New quiz (n), home (h) or quit (q)?")
	if err != nil {
		return err
	}
	switch answer {
	case "n":
		_, err = s.Start()
	case "h":
		_, err = s.Home()
	default:
		return errQuit
	}
	return err
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
