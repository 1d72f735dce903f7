package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"mango.movies/mango/internal/logging"
	"mango.movies/mango/internal/models"
	"mango.movies/mango/internal/streaming"
	"mango.movies/mango/internal/validation"
)

const maxBodyBytes = 1 << 20

type Recommender interface {
	Recommend(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationSet, error)
	Swap(ctx context.Context, req models.SwapRequest) (*models.Movie, error)
}

type ReviewSearcher interface {
	Search(ctx context.Context, title string, year int) (models.ExternalReviews, error)
}

type StreamingResolver interface {
	Resolve(ctx context.Context, title string, year int) (models.StreamingResult, error)
}

type APIHandler struct {
	recommender Recommender
	reviews     ReviewSearcher
	streaming   StreamingResolver
}

func NewAPIHandler(rec Recommender, reviews ReviewSearcher, resolver StreamingResolver) *APIHandler {
	return &APIHandler{recommender: rec, reviews: reviews, streaming: resolver}
}

func (h *APIHandler) RecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	set, err := h.recommender.Recommend(r.Context(), req)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Recommendation error")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get recommendations"})
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (h *APIHandler) SwapHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SwapRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	movie, err := h.recommender.Swap(r.Context(), req)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("seen", req.SeenMovie.Key()).Msg("Swap error")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get replacement"})
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *APIHandler) ReviewsHandler(w http.ResponseWriter, r *http.Request) {
	var req models.TitleLookup
	if !decodeAndValidate(w, r, &req) {
		return
	}

	reviews, err := h.reviews.Search(r.Context(), req.Title, req.Year)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("title", req.Title).Msg("Reviews search error")
		writeJSON(w, http.StatusInternalServerError, models.ReviewsResponse{
			ExternalReviews: models.ExternalReviews{Reviews: []models.ExternalReview{}},
			Error:           true,
		})
		return
	}
	writeJSON(w, http.StatusOK, models.ReviewsResponse{ExternalReviews: reviews})
}

func (h *APIHandler) StreamingHandler(w http.ResponseWriter, r *http.Request) {
	var req models.TitleLookup
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.streaming.Resolve(r.Context(), req.Title, req.Year)
	if errors.Is(err, streaming.ErrNotConfigured) {
		writeJSON(w, http.StatusInternalServerError, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeAndValidate reads the JSON body into dst and validates it. On
// failure it writes a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return false
	}
	if err := validation.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("Failed to write response")
	}
}
