package core

import (
	"fmt"
	"slices"
	"strings"

	"mango.movies/mango/internal/models"
)

const movieSchema = `{
      "title": "Movie Title",
      "year": 2020,
      "streaming": "Netflix",
      "genre": "Primary Genre",
      "director": "Director Name",
      "cast": ["Actor 1", "Actor 2", "Actor 3", "Actor 4"],
      "pitch": "2-3 sentences on why this fits...",
      "runtime": "1h 45m",
      "vibeMatch": 92,
      "whyYou": "One sentence on why this fits YOU"
    }`

// HardLimitLabels returns the labels of the known ids, in catalog order.
// Unknown ids are ignored.
func HardLimitLabels(ids []string) []string {
	var labels []string
	for _, l := range models.HardLimits {
		if slices.Contains(ids, l.ID) {
			labels = append(labels, l.Label)
		}
	}
	return labels
}

// ExcludedTitles is the negative-example list shown to the model:
// non-blank recently-watched entries followed by the caller's exclusions.
func ExcludedTitles(profile models.Profile, excluded []string) []string {
	out := nonBlank(profile.RecentlyWatched)
	return append(out, excluded...)
}

// BuildContext renders the profile and mood block shared by every
// recommendation-style prompt.
func BuildContext(profile models.Profile, mood []models.MoodAnswer, excluded []string) string {
	favorites := nonBlank(profile.FavoriteMovies)
	allExcluded := ExcludedTitles(profile, excluded)
	limits := HardLimitLabels(profile.HardLimits)

	var b strings.Builder
	b.WriteString("## USER PROFILE\n")
	fmt.Fprintf(&b, "Name: %s\n", orDefault(profile.Name, "Not provided"))
	fmt.Fprintf(&b, "Viewer Type: %s\n", string(profile.ViewerType))
	fmt.Fprintf(&b, "Genres they LOVE: %s\n", strings.Join(profile.LovedGenres, ", "))
	fmt.Fprintf(&b, "Genres they HATE: %s\n", joinOr(profile.HatedGenres, "None"))
	fmt.Fprintf(&b, "Favorite movies: %s\n", joinOr(favorites, "Not provided"))
	fmt.Fprintf(&b, "DO NOT recommend these (already seen): %s\n", joinOr(allExcluded, "None"))
	fmt.Fprintf(&b, "Hard limits: %s\n", joinOr(limits, "None"))
	fmt.Fprintf(&b, "Streaming services: %s\n", strings.Join(profile.StreamingServices, ", "))
	b.WriteString("\n## TONIGHT'S MOOD\n")
	for i, m := range mood {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s: %s", m.Question, m.Answer)
	}
	return b.String()
}

// BuildRecommendationPrompt asks for exactly five movies plus a mood summary.
func BuildRecommendationPrompt(profile models.Profile, mood []models.MoodAnswer, excluded []string) string {
	return fmt.Sprintf(`You are a movie recommendation expert. Based on this person's profile and current mood, suggest 5 perfect movies.

%s

IMPORTANT: Include the director and top 3-4 main actors for each movie.

Respond ONLY with valid JSON:
{
  "recommendations": [
    %s
  ],
  "moodSummary": "One sentence capturing their vibe tonight"
}`, BuildContext(profile, mood, excluded), movieSchema)
}

// BuildSwapPrompt asks for a single replacement for a movie the user has
// already seen.
func BuildSwapPrompt(profile models.Profile, mood []models.MoodAnswer, excluded []string, seen models.Movie) string {
	return fmt.Sprintf(`You are a movie recommendation expert. This person already saw "%s" from their recommendations tonight. Based on their profile and current mood, suggest ONE different movie to replace it.

%s

IMPORTANT: Do not suggest any movie from the DO NOT recommend list. Include the director and top 3-4 main actors.

Respond ONLY with valid JSON for a single movie:
%s`, seen.Key(), BuildContext(profile, mood, excluded), movieSchema)
}

// BuildReviewPrompt asks for critic and audience reviews of one movie.
func BuildReviewPrompt(title string, year int) string {
	return fmt.Sprintf(`Search for reviews of the movie "%s" (%d). Find critic and audience reviews from sites like Rotten Tomatoes, IMDB, Letterboxd, or major publications.

Return exactly this JSON format with 3-5 real reviews you find:
{
  "reviews": [
    {
      "author": "Critic/User Name",
      "source": "Publication/Site Name",
      "rating": 4,
      "text": "Brief excerpt from their review (1-2 sentences max)"
    }
  ],
  "rtScore": "Rotten Tomatoes score if found (e.g. '92%%')",
  "imdbScore": "IMDB score if found (e.g. '8.1/10')",
  "consensus": "Brief critical consensus if available"
}`, title, year)
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
