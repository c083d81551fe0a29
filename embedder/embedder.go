package embedder

import "context"

// Embedder maps text to a fixed-length vector. Implementations are
// deterministic for a fixed model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
	Dimensions() int
}
