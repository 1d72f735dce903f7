package session

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"testing"
	"time"

	"mango.movies/mango/internal/models"
	"mango.movies/mango/internal/store"
)

type swapReply struct {
	movie *models.Movie
	err   error
	gate  chan struct{}
}

type fakeSwapper struct {
	mu       sync.Mutex
	replies  map[string]swapReply
	requests []models.SwapRequest
	started  chan string
}

func newFakeSwapper() *fakeSwapper {
	return &fakeSwapper{replies: map[string]swapReply{}, started: make(chan string, 10)}
}

func (f *fakeSwapper) reply(seen string, r swapReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[seen] = r
}

func (f *fakeSwapper) Swap(ctx context.Context, req models.SwapRequest) (*models.Movie, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	r, ok := f.replies[req.SeenMovie.Key()]
	f.mu.Unlock()
	f.started <- req.SeenMovie.Key()

	if !ok {
		return nil, errors.New("no scripted reply")
	}
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.movie, r.err
}

func (f *fakeSwapper) lastRequest() models.SwapRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func fiveMovies() []models.Movie {
	movies := make([]models.Movie, 5)
	for i := range movies {
		movies[i] = models.Movie{Title: string(rune('A' + i)), Year: 2001 + i}
	}
	return movies
}

func newTestBoard(t *testing.T, swapper Swapper, recorder WatchRecorder) *Board {
	t.Helper()
	movies := fiveMovies()
	sc := Context{
		Profile:  models.Profile{Name: "Sam"},
		Mood:     []models.MoodAnswer{{Question: "Q", Answer: "A"}},
		Excluded: ExclusionsFor(movies),
	}
	return NewBoard(sc, movies, BoardEnv{Swapper: swapper, Recorder: recorder})
}

func titles(movies []models.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Title
	}
	return out
}

func waitStarted(t *testing.T, f *fakeSwapper) string {
	t.Helper()
	select {
	case key := <-f.started:
		return key
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for swap to start")
		return ""
	}
}

func TestSeenItSuccessReplacesSlot(t *testing.T) {
	swapper := newFakeSwapper()
	swapper.reply("C (2003)", swapReply{movie: &models.Movie{Title: "Z", Year: 1999}})
	board := newTestBoard(t, swapper, nil)

	replacement, err := board.SeenIt(context.Background(), 2)
	if err != nil {
		t.Fatalf("SeenIt: %v", err)
	}
	if replacement.Title != "Z" {
		t.Errorf("Expected replacement Z, got %s", replacement.Title)
	}

	want := []string{"A", "B", "Z", "D", "E"}
	if got := titles(board.Movies()); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	excluded := board.Context().Excluded
	if !excluded.Contains("C (2003)") || !excluded.Contains("Z (1999)") {
		t.Errorf("Expected seen and replacement in exclusions, got %v", excluded.List())
	}
	for _, s := range board.Slots() {
		if s.Swapping {
			t.Errorf("Slot %d still marked swapping", s.ID)
		}
	}
}

func TestSeenItFailureRemovesSlot(t *testing.T) {
	swapper := newFakeSwapper()
	swapper.reply("C (2003)", swapReply{err: errors.New("model down")})
	board := newTestBoard(t, swapper, nil)

	if _, err := board.SeenIt(context.Background(), 2); err == nil {
		t.Fatal("Expected swap error")
	}

	want := []string{"A", "B", "D", "E"}
	if got := titles(board.Movies()); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if !board.Context().Excluded.Contains("C (2003)") {
		t.Error("Expected seen movie to stay excluded after a failed swap")
	}
}

func TestSeenItNilReplacementRemovesSlot(t *testing.T) {
	swapper := newFakeSwapper()
	swapper.reply("A (2001)", swapReply{})
	board := newTestBoard(t, swapper, nil)

	if _, err := board.SeenIt(context.Background(), 0); err == nil {
		t.Fatal("Expected error for empty replacement")
	}
	if board.Len() != 4 {
		t.Errorf("Expected 4 slots, got %d", board.Len())
	}
}

func TestSeenItRequestCarriesSnapshot(t *testing.T) {
	swapper := newFakeSwapper()
	swapper.reply("A (2001)", swapReply{movie: &models.Movie{Title: "Z", Year: 1999}})
	swapper.reply("B (2002)", swapReply{movie: &models.Movie{Title: "Y", Year: 1998}})
	board := newTestBoard(t, swapper, nil)

	if _, err := board.SeenIt(context.Background(), 0); err != nil {
		t.Fatalf("first swap: %v", err)
	}
	if _, err := board.SeenIt(context.Background(), 1); err != nil {
		t.Fatalf("second swap: %v", err)
	}

	req := swapper.lastRequest()
	if req.SeenMovie.Key() != "B (2002)" {
		t.Errorf("Expected seen movie B (2002), got %s", req.SeenMovie.Key())
	}
	want := []string{"A (2001)", "B (2002)", "C (2003)", "D (2004)", "E (2005)", "Z (1999)"}
	if !reflect.DeepEqual(req.ExcludedMovies, want) {
		t.Errorf("Expected exclusions %v, got %v", want, req.ExcludedMovies)
	}
	if req.Profile.Name != "Sam" || len(req.MoodProfile) != 1 {
		t.Errorf("Expected session profile and mood in request, got %+v", req.RecommendationRequest)
	}
}

func TestSeenItRejectsBadIndexAndInFlight(t *testing.T) {
	gate := make(chan struct{})
	swapper := newFakeSwapper()
	swapper.reply("B (2002)", swapReply{movie: &models.Movie{Title: "Z", Year: 1999}, gate: gate})
	board := newTestBoard(t, swapper, nil)

	if _, err := board.SeenIt(context.Background(), 5); !errors.Is(err, ErrNoSuchSlot) {
		t.Errorf("Expected ErrNoSuchSlot, got %v", err)
	}
	if _, err := board.SeenIt(context.Background(), -1); !errors.Is(err, ErrNoSuchSlot) {
		t.Errorf("Expected ErrNoSuchSlot, got %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := board.SeenIt(context.Background(), 1)
		done <- err
	}()
	waitStarted(t, swapper)

	if _, err := board.SeenIt(context.Background(), 1); !errors.Is(err, ErrSwapInFlight) {
		t.Errorf("Expected ErrSwapInFlight, got %v", err)
	}
	if !board.Slots()[1].Swapping {
		t.Error("Expected slot 1 to be marked swapping")
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first swap: %v", err)
	}
	if got := titles(board.Movies()); !reflect.DeepEqual(got, []string{"A", "Z", "C", "D", "E"}) {
		t.Errorf("Unexpected board %v", got)
	}
}

func TestConcurrentSwapsKeepPositions(t *testing.T) {
	gateB := make(chan struct{})
	gateD := make(chan struct{})
	swapper := newFakeSwapper()
	swapper.reply("B (2002)", swapReply{err: errors.New("model down"), gate: gateB})
	swapper.reply("D (2004)", swapReply{movie: &models.Movie{Title: "X", Year: 2010}, gate: gateD})
	board := newTestBoard(t, swapper, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, idx := range []int{1, 3} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = board.SeenIt(context.Background(), idx)
		}()
	}
	started := []string{waitStarted(t, swapper), waitStarted(t, swapper)}
	slices.Sort(started)
	if !reflect.DeepEqual(started, []string{"B (2002)", "D (2004)"}) {
		t.Fatalf("Unexpected swaps started: %v", started)
	}

	// B fails first, shifting D left by one while D is still in flight.
	close(gateB)
	for board.Len() != 4 {
		time.Sleep(time.Millisecond)
	}
	close(gateD)
	wg.Wait()

	if errs[0] == nil || errs[1] != nil {
		t.Errorf("Expected only the B swap to fail, got %v", errs)
	}
	want := []string{"A", "C", "X", "E"}
	if got := titles(board.Movies()); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSeenItRecordsWatchedBeforeSwap(t *testing.T) {
	ctx := context.Background()
	local := store.NewLocalStore(store.NewMemoryKV())
	if err := local.SaveProfile(ctx, models.Profile{Name: "Sam", RecentlyWatched: []string{"Up (2009)"}}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	movies := fiveMovies()
	if err := local.AddToWatchlist(ctx, movies[2]); err != nil {
		t.Fatalf("AddToWatchlist: %v", err)
	}

	swapper := newFakeSwapper()
	swapper.reply("C (2003)", swapReply{err: errors.New("model down")})
	board := newTestBoard(t, swapper, local)

	if _, err := board.SeenIt(ctx, 2); err == nil {
		t.Fatal("Expected swap error")
	}

	profile, _ := local.LoadProfile(ctx)
	if want := []string{"C (2003)", "Up (2009)"}; !reflect.DeepEqual(profile.RecentlyWatched, want) {
		t.Errorf("Expected recently watched %v, got %v", want, profile.RecentlyWatched)
	}
	if local.InWatchlist(ctx, movies[2]) {
		t.Error("Expected seen movie to leave the watchlist")
	}
}

type failingRecorder struct{}

func (failingRecorder) MarkWatched(context.Context, models.Movie) error {
	return fmt.Errorf("disk full")
}

func TestSeenItIgnoresRecorderFailure(t *testing.T) {
	swapper := newFakeSwapper()
	swapper.reply("A (2001)", swapReply{movie: &models.Movie{Title: "Z", Year: 1999}})
	board := newTestBoard(t, swapper, failingRecorder{})

	if _, err := board.SeenIt(context.Background(), 0); err != nil {
		t.Fatalf("Expected swap to proceed despite recorder failure, got %v", err)
	}
}

func TestSeenItByIDAfterEarlierRemoval(t *testing.T) {
	ctx := context.Background()
	local := store.NewLocalStore(store.NewMemoryKV())
	if err := local.SaveProfile(ctx, models.Profile{Name: "Sam"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	swapper := newFakeSwapper()
	swapper.reply("A (2001)", swapReply{err: errors.New("model down")})
	swapper.reply("C (2003)", swapReply{movie: &models.Movie{Title: "Z", Year: 1999}})
	board := newTestBoard(t, swapper, local)

	shown := board.Slots()
	if _, err := board.SeenIt(ctx, 0); err == nil {
		t.Fatal("Expected swap error for A")
	}

	replacement, err := board.SeenItByID(ctx, shown[2].ID)
	if err != nil {
		t.Fatalf("SeenItByID: %v", err)
	}
	if replacement.Title != "Z" {
		t.Errorf("Expected C to be swapped for Z, got %s", replacement.Title)
	}

	want := []string{"B", "Z", "D", "E"}
	if got := titles(board.Movies()); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	profile, _ := local.LoadProfile(ctx)
	if want := []string{"C (2003)", "A (2001)"}; !reflect.DeepEqual(profile.RecentlyWatched, want) {
		t.Errorf("Expected recently watched %v, got %v", want, profile.RecentlyWatched)
	}
}

func TestSeenItByIDUnknownSlot(t *testing.T) {
	board := newTestBoard(t, newFakeSwapper(), nil)
	if _, err := board.SeenItByID(context.Background(), 42); !errors.Is(err, ErrNoSuchSlot) {
		t.Errorf("Expected ErrNoSuchSlot, got %v", err)
	}
}
