package moviesearch

import (
	"context"
	"io"

	"github.com/w-h-a/moviesearch/embedder"
	"github.com/w-h-a/moviesearch/internal/service/embedding"
	"github.com/w-h-a/moviesearch/internal/service/recommend"
	"github.com/w-h-a/moviesearch/store"
)

type Toolkit struct {
	store     store.Store
	embedding *embedding.Service
	recommend *recommend.Service
}

// Embed fills in every missing movie embedding, reporting progress to the
// writer given to New.
func (t *Toolkit) Embed(ctx context.Context) (embedding.Summary, error) {
	return t.embedding.Run(ctx)
}

func (t *Toolkit) Status(ctx context.Context) (embedding.Counts, error) {
	return t.embedding.Status(ctx)
}

func (t *Toolkit) Recommend(ctx context.Context, query string, n int) ([]recommend.Recommendation, error) {
	return t.recommend.Recommend(ctx, query, n)
}

// Interactive runs the search prompt over in and out until the user quits.
func (t *Toolkit) Interactive(ctx context.Context, in io.Reader, out io.Writer, n int) error {
	return recommend.RunREPL(ctx, t.recommend, in, out, n)
}

func (t *Toolkit) Close() error {
	return t.store.Close()
}

func New(
	store store.Store,
	embedder embedder.Embedder,
	index string,
	batchSize int,
	candidates int,
	out io.Writer,
) *Toolkit {
	embedding := embedding.New(
		store,
		embedder,
		batchSize,
		out,
	)

	recommend := recommend.New(
		store,
		embedder,
		index,
		candidates,
	)

	return &Toolkit{
		store:     store,
		embedding: embedding,
		recommend: recommend,
	}
}
