package streaming

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"mango.movies/mango/internal/logging"
)

// DefaultHost is the RapidAPI host header for the streaming availability API.
const DefaultHost = "streaming-availability.p.rapidapi.com"

var ErrNotConfigured = errors.New("API key not configured")

// StatusError is a non-200 answer from the catalog API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("streaming API returned status %d: %s", e.StatusCode, e.Body)
}

// Searcher looks up catalog entries by title.
type Searcher interface {
	SearchTitle(ctx context.Context, title string) ([]Show, error)
}

// Client is the streaming availability API client.
type Client struct {
	apiKey  string
	baseURL string
	host    string
	country string
	http    *http.Client
}

// SearchTimeout bounds one catalog search so a hung upstream degrades to
// "no streaming info" instead of holding the request open.
const SearchTimeout = 15 * time.Second

// NewClient creates a new streaming availability API client.
func NewClient(apiKey, baseURL, country string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		host:    DefaultHost,
		country: country,
		http: &http.Client{
			Timeout: SearchTimeout,
		},
	}
}

// ---- Upstream response types ----

// Show is one search result.
type Show struct {
	Title            string             `json:"title"`
	ReleaseYear      int                `json:"releaseYear"`
	Year             int                `json:"year"`
	StreamingOptions map[string][]Offer `json:"streamingOptions"`
}

// EffectiveYear prefers releaseYear and falls back to year.
func (s Show) EffectiveYear() int {
	if s.ReleaseYear != 0 {
		return s.ReleaseYear
	}
	return s.Year
}

// Offer is a single region-specific way to watch a show.
type Offer struct {
	Service OfferService `json:"service"`
	Type    string       `json:"type"`
	Link    string       `json:"link"`
	Quality string       `json:"quality"`
	Price   *OfferPrice  `json:"price"`
}

type OfferService struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	HomePage string `json:"homePage"`
}

type OfferPrice struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Formatted string `json:"formatted"`
}

// ---- Client methods ----

// SearchTitle searches the catalog for movies matching title.
func (c *Client) SearchTitle(ctx context.Context, title string) ([]Show, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("country", c.country)
	q.Set("title", title)
	q.Set("output_language", "en")
	q.Set("show_type", "movie")
	endpoint := fmt.Sprintf("%s/shows/search/title?%s", c.baseURL, q.Encode())

	logging.Ctx(ctx).Debug().Str("title", title).Msg("Searching streaming catalog")
	resp, err := c.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var shows []Show
	if err := json.NewDecoder(resp.Body).Decode(&shows); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return shows, nil
}

func (c *Client) doGet(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("x-rapidapi-host", c.host)
	req.Header.Set("x-rapidapi-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return resp, nil
}
