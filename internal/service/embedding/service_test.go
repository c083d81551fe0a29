package embedding

import (
	"bytes"
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/moviesearch/store"
	"github.com/w-h-a/moviesearch/store/memory"
)

type fakeEmbedder struct {
	dims   int
	out    int
	err    error
	mtx    sync.Mutex
	inputs []string
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mtx.Lock()
	e.inputs = append(e.inputs, text)
	e.mtx.Unlock()

	if e.err != nil {
		return nil, e.err
	}

	n := e.out
	if n == 0 {
		n = e.dims
	}

	h := fnv.New32a()
	h.Write([]byte(text))
	seed := float32(h.Sum32()%97) + 1

	vec := make([]float32, n)
	for i := range vec {
		vec[i] = seed + float32(i)
	}

	return vec, nil
}

func (e *fakeEmbedder) Model() string {
	return "test-model"
}

func (e *fakeEmbedder) Dimensions() int {
	return e.dims
}

// spyStore counts scans and fails updates for the listed ids.
type spyStore struct {
	store.Store
	scans   int
	failing map[string]bool
}

func (s *spyStore) Scan(ctx context.Context, query store.ScanQuery) ([]store.Movie, error) {
	s.scans++
	return s.Store.Scan(ctx, query)
}

func (s *spyStore) SetEmbedding(ctx context.Context, id string, embedding store.Embedding) error {
	if s.failing[id] {
		return errors.New("connection reset")
	}
	return s.Store.SetEmbedding(ctx, id, embedding)
}

func TestText(t *testing.T) {
	assert.Equal(t, "Heat. A thief and a detective.", Text("Heat", "A thief and a detective."))
	assert.Equal(t, "Heat. ", Text("Heat", ""))
}

func TestRun_EmbedsTitledMovies(t *testing.T) {
	mem := memory.NewStore()
	alien := mem.Insert(store.Movie{Title: "Alien", Plot: "A crew meets a creature.", Year: 1979})
	heat := mem.Insert(store.Movie{Title: "Heat", Plot: "", Year: 1995})
	untitled := mem.Insert(store.Movie{Title: "", Plot: "Nobody knows."})

	emb := &fakeEmbedder{dims: 384}
	out := &bytes.Buffer{}

	svc := New(mem, emb, 100, out)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Errors)
	assert.Equal(t, 3, summary.Counts.Total)
	assert.Equal(t, 0, summary.Counts.Embedded)

	for _, id := range []string{alien, heat} {
		m, err := mem.Get(id)
		require.NoError(t, err)
		assert.Len(t, m.Embedding, 384)
		assert.Equal(t, "test-model", m.EmbeddingModel)
		assert.False(t, m.EmbeddingTimestamp.IsZero())
	}

	m, err := mem.Get(untitled)
	require.NoError(t, err)
	assert.False(t, m.HasEmbedding())

	assert.ElementsMatch(t, []string{"Alien. A crew meets a creature.", "Heat. "}, emb.inputs)

	assert.Contains(t, out.String(), "Total movies: 3")
	assert.Contains(t, out.String(), "Total new embeddings: 2")
	assert.Contains(t, out.String(), "Embedding Size: 384 dimensions")
	assert.Contains(t, out.String(), "Model Used: test-model")
}

func TestRun_UpdateFailureDoesNotAbort(t *testing.T) {
	mem := memory.NewStore()
	ids := []string{}
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		ids = append(ids, mem.Insert(store.Movie{Title: title, Plot: "plot"}))
	}

	spy := &spyStore{Store: mem, failing: map[string]bool{ids[2]: true}}

	svc := New(spy, &fakeEmbedder{dims: 8}, 2, nil)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Processed)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 3, summary.Batches)
	assert.Equal(t, 4, spy.scans)

	embedded, err := mem.Count(context.Background(), store.Embedded)
	require.NoError(t, err)
	assert.Equal(t, 4, embedded)
}

func TestRun_Terminates(t *testing.T) {
	tests := []struct {
		name      string
		titles    []string
		failAll   bool
		batchSize int
		scans     int
		processed int
		skipped   int
		errors    int
	}{
		{
			name:      "empty trailing batch",
			titles:    []string{"A", "B", "C", "D"},
			batchSize: 2,
			scans:     3,
			processed: 4,
		},
		{
			name:      "skip only batches",
			titles:    []string{"", " ", "\t"},
			batchSize: 2,
			scans:     3,
			skipped:   3,
		},
		{
			name:      "every update fails",
			titles:    []string{"A", "B", "C"},
			failAll:   true,
			batchSize: 1,
			scans:     4,
			errors:    3,
		},
		{
			name:      "empty store",
			batchSize: 10,
			scans:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memory.NewStore()
			spy := &spyStore{Store: mem, failing: map[string]bool{}}

			for _, title := range tt.titles {
				id := mem.Insert(store.Movie{Title: title})
				if tt.failAll {
					spy.failing[id] = true
				}
			}

			svc := New(spy, &fakeEmbedder{dims: 4}, tt.batchSize, nil)

			summary, err := svc.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.scans, spy.scans)
			assert.Equal(t, tt.processed, summary.Processed)
			assert.Equal(t, tt.skipped, summary.Skipped)
			assert.Equal(t, tt.errors, summary.Errors)
		})
	}
}

func TestRun_Idempotent(t *testing.T) {
	mem := memory.NewStore()
	id := mem.Insert(store.Movie{Title: "Alien", Plot: "In space."})
	untitled := mem.Insert(store.Movie{Title: "  ", Plot: "Lost reel."})

	svc := New(mem, &fakeEmbedder{dims: 4}, 10, nil)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)

	first, err := mem.Get(id)
	require.NoError(t, err)

	emb := &fakeEmbedder{dims: 4}
	svc = New(mem, emb, 10, nil)

	summary, err = svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Errors)
	assert.Equal(t, 1, summary.Counts.Embedded)
	assert.Equal(t, 1, summary.Counts.Remaining)
	assert.Empty(t, emb.inputs)

	second, err := mem.Get(id)
	require.NoError(t, err)
	assert.Equal(t, first.EmbeddingTimestamp, second.EmbeddingTimestamp)

	skipped, err := mem.Get(untitled)
	require.NoError(t, err)
	assert.False(t, skipped.HasEmbedding())
}

func TestRunBatch_DimensionMismatch(t *testing.T) {
	mem := memory.NewStore()
	id := mem.Insert(store.Movie{Title: "Alien"})

	svc := New(mem, &fakeEmbedder{dims: 384, out: 383}, 10, nil)

	result, err := svc.RunBatch(context.Background(), "", 10)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Selected)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, id, result.Cursor)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, Failed, result.Outcomes[0].Status)
	assert.ErrorIs(t, result.Outcomes[0].Err, ErrDimensionMismatch)

	m, err := mem.Get(id)
	require.NoError(t, err)
	assert.False(t, m.HasEmbedding())
}

func TestRunBatch_EmbedFailure(t *testing.T) {
	mem := memory.NewStore()
	mem.Insert(store.Movie{Title: "Alien"})

	svc := New(mem, &fakeEmbedder{dims: 4, err: errors.New("503")}, 10, nil)

	result, err := svc.RunBatch(context.Background(), "", 10)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 1, result.Errors)
}

func TestRun_Cancelled(t *testing.T) {
	mem := memory.NewStore()
	mem.Insert(store.Movie{Title: "Alien"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := New(mem, &fakeEmbedder{dims: 4}, 10, nil)

	_, err := svc.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestThousands(t *testing.T) {
	assert.Equal(t, "0", thousands(0))
	assert.Equal(t, "999", thousands(999))
	assert.Equal(t, "1,000", thousands(1000))
	assert.Equal(t, "21,349", thousands(21349))
	assert.Equal(t, "1,234,567", thousands(1234567))
}
