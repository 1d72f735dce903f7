// Package client talks to the mango proxy server on behalf of the terminal
// app.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"mango.movies/mango/internal/logging"
	"mango.movies/mango/internal/models"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL. LLM calls can take a
// while, so the timeout is generous.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

func (c *Client) Recommend(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationSet, error) {
	var set models.RecommendationSet
	if err := c.post(ctx, "/api/recommendations", req, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

func (c *Client) Swap(ctx context.Context, req models.SwapRequest) (*models.Movie, error) {
	var movie models.Movie
	if err := c.post(ctx, "/api/swap", req, &movie); err != nil {
		return nil, err
	}
	if movie.Title == "" {
		return nil, fmt.Errorf("server returned a movie without a title")
	}
	return &movie, nil
}

func (c *Client) SearchReviews(ctx context.Context, title string, year int) (models.ExternalReviews, error) {
	var resp models.ReviewsResponse
	if err := c.post(ctx, "/api/reviews", models.TitleLookup{Title: title, Year: year}, &resp); err != nil {
		return models.ExternalReviews{Reviews: []models.ExternalReview{}}, err
	}
	return resp.ExternalReviews, nil
}

// Streaming returns where to watch a movie. A degraded lookup is not an
// error; its message is in the result's Error field.
func (c *Client) Streaming(ctx context.Context, title string, year int) (models.StreamingResult, error) {
	var result models.StreamingResult
	if err := c.post(ctx, "/api/streaming", models.TitleLookup{Title: title, Year: year}, &result); err != nil {
		return models.StreamingResult{StreamingOptions: []models.StreamingOption{}}, err
	}
	if result.StreamingOptions == nil {
		result.StreamingOptions = []models.StreamingOption{}
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, path string, body, dst any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logging.Ctx(ctx).Debug().Str("path", path).Msg("Calling mango server")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage pulls the message out of an {"error": "..."} body. The reviews
// endpoint reports {"error": true}, which yields no message.
func errorMessage(data []byte) string {
	var body struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if s, ok := body.Error.(string); ok {
		return s
	}
	return ""
}
