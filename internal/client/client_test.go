package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"mango.movies/mango/internal/api"
	"mango.movies/mango/internal/core"
	"mango.movies/mango/internal/models"
	"mango.movies/mango/internal/session"
	"mango.movies/mango/internal/store"
	"mango.movies/mango/internal/streaming"
)

// scriptedLLM answers by prompt type.
type scriptedLLM struct {
	mu        sync.Mutex
	recommend string
	swap      string
	reviews   string
	err       error
}

func (s *scriptedLLM) Complete(_ context.Context, req core.CompletionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	switch {
	case strings.Contains(req.Prompt, "suggest ONE different movie"):
		return s.swap, nil
	case strings.Contains(req.Prompt, "Search for reviews"):
		return s.reviews, nil
	default:
		return s.recommend, nil
	}
}

func newTestServer(t *testing.T, llm core.Completer, catalog http.HandlerFunc) *Client {
	t.Helper()
	var resolver *streaming.Resolver
	if catalog != nil {
		upstream := httptest.NewServer(catalog)
		t.Cleanup(upstream.Close)
		resolver = streaming.NewResolver(streaming.NewClient("secret", upstream.URL, "us"), "us")
	} else {
		resolver = streaming.NewResolver(streaming.NewClient("", "http://unused", "us"), "us")
	}

	handler := api.NewAPIHandler(core.NewRecommendService(llm), core.NewReviewService(llm), resolver)
	cfg := api.DefaultMiddlewareConfig()
	cfg.RateLimitRequests = 0
	srv := httptest.NewServer(api.NewRouter(handler, cfg))
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

const fiveMoviesJSON = "```json\n" + `{"recommendations":[
{"title":"A","year":2001},{"title":"B","year":2002},{"title":"C","year":2003},
{"title":"D","year":2004},{"title":"E","year":2005}],"moodSummary":"easy night"}` + "\n```"

func TestRecommendRoundTrip(t *testing.T) {
	c := newTestServer(t, &scriptedLLM{recommend: fiveMoviesJSON}, nil)
	set, err := c.Recommend(context.Background(), models.RecommendationRequest{
		Profile:     models.NewProfile(),
		MoodProfile: []models.MoodAnswer{{Question: "Q", Answer: "A"}},
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(set.Recommendations) != 5 || set.MoodSummary != "easy night" {
		t.Errorf("Unexpected set %+v", set)
	}
}

func TestRecommendServerError(t *testing.T) {
	c := newTestServer(t, &scriptedLLM{err: errors.New("quota")}, nil)
	_, err := c.Recommend(context.Background(), models.RecommendationRequest{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "Failed to get recommendations" {
		t.Errorf("Unexpected API error %+v", apiErr)
	}
}

func TestSearchReviews(t *testing.T) {
	llm := &scriptedLLM{reviews: `Here is what I found {"reviews":[{"author":"A","source":"B","rating":4,"text":"C"}],"imdbScore":"8.3/10"}`}
	c := newTestServer(t, llm, nil)

	reviews, err := c.SearchReviews(context.Background(), "Heat", 1995)
	if err != nil {
		t.Fatalf("SearchReviews: %v", err)
	}
	if len(reviews.Reviews) != 1 || reviews.IMDbScore != "8.3/10" {
		t.Errorf("Unexpected reviews %+v", reviews)
	}

	llm.err = errors.New("down")
	reviews, err = c.SearchReviews(context.Background(), "Heat", 1995)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "" {
		t.Errorf("Expected APIError without message, got %v", err)
	}
	if reviews.Reviews == nil {
		t.Error("Expected empty non-nil reviews on failure")
	}
}

func TestStreaming(t *testing.T) {
	catalog := func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"title":"Heat","releaseYear":1995,"streamingOptions":{"us":[
{"service":{"name":"Netflix"},"type":"subscription","link":"https://netflix/heat"}]}}]`))
	}
	c := newTestServer(t, &scriptedLLM{}, catalog)

	result, err := c.Streaming(context.Background(), "Heat", 1995)
	if err != nil {
		t.Fatalf("Streaming: %v", err)
	}
	if result.Year != 1995 || len(result.StreamingOptions) != 1 || result.StreamingOptions[0].Service != "Netflix" {
		t.Errorf("Unexpected result %+v", result)
	}

	unconfigured := newTestServer(t, &scriptedLLM{}, nil)
	_, err = unconfigured.Streaming(context.Background(), "Heat", 1995)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "API key not configured" {
		t.Errorf("Expected not-configured API error, got %v", err)
	}
}

func TestSessionOverHTTP(t *testing.T) {
	ctx := context.Background()
	llm := &scriptedLLM{recommend: fiveMoviesJSON, swap: `{"title":"Z","year":1999}`}
	c := newTestServer(t, llm, nil)

	local := store.NewLocalStore(store.NewMemoryKV())
	profile := models.NewProfile()
	profile.ViewerType = models.ViewerCasual
	if err := local.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	s := session.New(local, c, c, nil)
	q, err := s.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < q.Total(); i++ {
		cur := s.State().(session.Questions)
		if _, err := s.Answer(cur.Current().Options[0]); err != nil {
			t.Fatalf("Answer: %v", err)
		}
	}
	if _, err := s.Fetch(ctx); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	board := s.Board()
	if board == nil || board.Len() != 5 {
		t.Fatalf("Expected a board of 5, got %+v", s.State())
	}

	if _, err := board.SeenIt(ctx, 2); err != nil {
		t.Fatalf("SeenIt: %v", err)
	}
	titles := make([]string, 0, 5)
	for _, m := range board.Movies() {
		titles = append(titles, m.Title)
	}
	if strings.Join(titles, ",") != "A,B,Z,D,E" {
		t.Errorf("Unexpected board %v", titles)
	}

	// The model repeats an excluded title: the server rejects it and the
	// slot is dropped.
	llm.mu.Lock()
	llm.swap = `{"title":"A","year":2001}`
	llm.mu.Unlock()
	if _, err := board.SeenIt(ctx, 0); err == nil {
		t.Fatal("Expected swap to fail on an excluded replacement")
	}
	if board.Len() != 4 {
		t.Errorf("Expected 4 slots after failed swap, got %d", board.Len())
	}

	saved, _ := local.LoadProfile(ctx)
	if len(saved.RecentlyWatched) != 2 || saved.RecentlyWatched[0] != "A (2001)" {
		t.Errorf("Expected both seen movies recorded, got %v", saved.RecentlyWatched)
	}
}
