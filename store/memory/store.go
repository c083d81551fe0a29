package memory

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/w-h-a/moviesearch/store"
	"gopkg.in/yaml.v3"
)

type memoryStore struct {
	options store.Options
	movies  map[string]store.Movie
	mtx     sync.RWMutex
}

type seedFile struct {
	Movies []seedMovie `yaml:"movies"`
}

type seedMovie struct {
	Title string `yaml:"title"`
	Plot  string `yaml:"plot"`
	Year  int    `yaml:"year"`
}

// Insert adds a movie and returns its generated id. Any embedding on m is kept.
func (s *memoryStore) Insert(m store.Movie) string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	m.Id = uuid.New().String()
	m.Embedding = clone(m.Embedding)
	m.Score = 0

	s.movies[m.Id] = m

	return m.Id
}

// Get returns a copy of the stored movie.
func (s *memoryStore) Get(id string) (store.Movie, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	m, ok := s.movies[id]
	if !ok {
		return store.Movie{}, store.ErrNotFound
	}

	m.Embedding = clone(m.Embedding)

	return m, nil
}

func (s *memoryStore) Scan(ctx context.Context, query store.ScanQuery) ([]store.Movie, error) {
	if query.Limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	ids := make([]string, 0, len(s.movies))
	for id, m := range s.movies {
		if m.HasEmbedding() || id <= query.After {
			continue
		}
		ids = append(ids, id)
	}

	sort.Strings(ids)

	if len(ids) > query.Limit {
		ids = ids[:query.Limit]
	}

	movies := make([]store.Movie, 0, len(ids))
	for _, id := range ids {
		movies = append(movies, s.movies[id])
	}

	return movies, nil
}

func (s *memoryStore) SetEmbedding(ctx context.Context, id string, embedding store.Embedding) error {
	if err := store.CheckVectorSize(len(embedding.Vector), s.options.VectorSize); err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	m, ok := s.movies[id]
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}

	m.Embedding = clone(embedding.Vector)
	m.EmbeddingModel = embedding.Model
	m.EmbeddingTimestamp = embedding.Timestamp

	s.movies[id] = m

	return nil
}

func (s *memoryStore) Search(ctx context.Context, query store.SearchQuery) ([]store.Movie, error) {
	if query.Limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	candidates := make([]store.Movie, 0, len(s.movies))

	for _, m := range s.movies {
		if !m.HasEmbedding() {
			continue
		}
		m.Score = float32(1 - cosineSimilarity(query.Vector, m.Embedding))
		candidates = append(candidates, m)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score == candidates[j].Score {
			return candidates[i].Id < candidates[j].Id
		}
		return candidates[i].Score < candidates[j].Score
	})

	if len(candidates) > query.Limit {
		candidates = candidates[:query.Limit]
	}

	return candidates, nil
}

func (s *memoryStore) Count(ctx context.Context, predicate store.Predicate) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if predicate == store.All {
		return len(s.movies), nil
	}

	count := 0
	for _, m := range s.movies {
		if m.HasEmbedding() == (predicate == store.Embedded) {
			count++
		}
	}

	return count, nil
}

func (s *memoryStore) Recent(ctx context.Context, limit int) ([]store.Movie, error) {
	if limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	movies := make([]store.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		if m.HasEmbedding() {
			movies = append(movies, m)
		}
	}

	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].EmbeddingTimestamp.After(movies[j].EmbeddingTimestamp)
	})

	if len(movies) > limit {
		movies = movies[:limit]
	}

	return movies, nil
}

func (s *memoryStore) Close() error {
	return nil
}

func (s *memoryStore) seed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for _, m := range file.Movies {
		s.Insert(store.Movie{
			Title: m.Title,
			Plot:  m.Plot,
			Year:  m.Year,
		})
	}

	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clone(v []float32) []float32 {
	if v == nil {
		return nil
	}
	cpy := make([]float32, len(v))
	copy(cpy, v)
	return cpy
}

// NewStore builds an in-process store. It ranks by brute-force cosine distance
// and exists for tests and local demos.
func NewStore(opts ...store.Option) *memoryStore {
	options := store.NewOptions(opts...)

	s := &memoryStore{
		options: options,
		movies:  map[string]store.Movie{},
		mtx:     sync.RWMutex{},
	}

	if len(options.SeedPath) > 0 {
		if err := s.seed(options.SeedPath); err != nil {
			panic(err)
		}
	}

	return s
}

var _ store.Store = (*memoryStore)(nil)
