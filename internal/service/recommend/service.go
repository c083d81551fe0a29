package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/w-h-a/moviesearch/embedder"
	"github.com/w-h-a/moviesearch/internal/metrics"
	"github.com/w-h-a/moviesearch/store"
)

const (
	DefaultLimit      = 5
	DefaultCandidates = 100
)

var (
	ErrEmptyQuery   = errors.New("query is empty")
	ErrInvalidLimit = errors.New("limit must be at least 1")
)

type Recommendation struct {
	Movie      store.Movie
	Similarity float64
}

type Service struct {
	store      store.Store
	embedder   embedder.Embedder
	index      string
	candidates int
}

// Recommend returns up to n movies closest to query, in store order.
func (s *Service) Recommend(ctx context.Context, query string, n int) ([]Recommendation, error) {
	if len(strings.TrimSpace(query)) == 0 {
		metrics.QueriesTotal.WithLabelValues("invalid").Inc()
		return nil, ErrEmptyQuery
	}

	if n < 1 {
		metrics.QueriesTotal.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidLimit
	}

	start := time.Now()

	recs, err := s.recommend(ctx, query, n)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.QueriesTotal.WithLabelValues("ok").Inc()
	metrics.QueryDuration.Observe(time.Since(start).Seconds())

	return recs, nil
}

func (s *Service) recommend(ctx context.Context, query string, n int) ([]Recommendation, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	movies, err := s.store.Search(ctx, store.SearchQuery{
		Index:      s.index,
		Vector:     vec,
		Candidates: store.CandidatePool(s.candidates, n),
		Limit:      n,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}

	recs := make([]Recommendation, 0, len(movies))
	for _, m := range movies {
		recs = append(recs, Recommendation{
			Movie:      m,
			Similarity: Similarity(m.Score),
		})
	}

	return recs, nil
}

// Similarity maps a cosine distance to a percentage.
func Similarity(score float32) float64 {
	return (1 - float64(score)) * 100
}

func New(
	store store.Store,
	embedder embedder.Embedder,
	index string,
	candidates int,
) *Service {
	if candidates < 1 {
		candidates = DefaultCandidates
	}

	return &Service{
		store:      store,
		embedder:   embedder,
		index:      index,
		candidates: candidates,
	}
}
