package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/w-h-a/moviesearch/internal/service/embedding"
	"github.com/w-h-a/moviesearch/internal/service/recommend"
)

type Recommender interface {
	Recommend(ctx context.Context, query string, n int) ([]recommend.Recommendation, error)
}

type StatusReporter interface {
	Status(ctx context.Context) (embedding.Counts, error)
}

type Movies struct {
	recommender  Recommender
	reporter     StatusReporter
	defaultLimit int
	maxLimit     int
}

type recommendationResponse struct {
	Id         string  `json:"id"`
	Title      string  `json:"title"`
	Year       int     `json:"year,omitempty"`
	Plot       string  `json:"plot,omitempty"`
	Similarity float64 `json:"similarity"`
}

type statusResponse struct {
	Total     int `json:"total"`
	Embedded  int `json:"embedded"`
	Remaining int `json:"remaining"`
}

// Register mounts the movie routes on r.
func (h *Movies) Register(r *mux.Router) {
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/recommendations", h.GetRecommendations).Methods(http.MethodGet)
	api.HandleFunc("/status", h.GetStatus).Methods(http.MethodGet)
}

func (h *Movies) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	n := h.defaultLimit
	if raw := r.URL.Query().Get("n"); len(raw) > 0 {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "n must be an integer")
			return
		}
		n = parsed
	}

	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("n must be at most %d", h.maxLimit))
		return
	}

	recs, err := h.recommender.Recommend(r.Context(), query, n)
	if errors.Is(err, recommend.ErrEmptyQuery) || errors.Is(err, recommend.ErrInvalidLimit) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to recommend movies", "query", query, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	rsp := make([]recommendationResponse, 0, len(recs))
	for _, rec := range recs {
		rsp = append(rsp, recommendationResponse{
			Id:         rec.Movie.Id,
			Title:      rec.Movie.Title,
			Year:       rec.Movie.Year,
			Plot:       rec.Movie.Plot,
			Similarity: rec.Similarity,
		})
	}

	writeJSON(w, http.StatusOK, rsp)
}

func (h *Movies) GetStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.reporter.Status(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to count movies", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Total:     counts.Total,
		Embedded:  counts.Embedded,
		Remaining: counts.Remaining,
	})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// NewMovies serves recommendations with defaultLimit results unless the
// request asks for up to maxLimit.
func NewMovies(recommender Recommender, reporter StatusReporter, defaultLimit int, maxLimit int) *Movies {
	if defaultLimit < 1 {
		defaultLimit = recommend.DefaultLimit
	}

	if maxLimit < defaultLimit {
		maxLimit = recommend.DefaultCandidates
	}

	return &Movies{
		recommender:  recommender,
		reporter:     reporter,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}
