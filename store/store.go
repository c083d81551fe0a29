package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("movie not found")
	ErrInvalidCursor = errors.New("invalid scan cursor")
	ErrVectorSize    = errors.New("vector size mismatch")
)

// Store is the document store holding movies and their embeddings.
//
// Scan returns movies without an embedding whose id sorts after the query's
// cursor, ordered by id. Search returns movies in the store's ranking order with
// Score set to a cosine distance.
type Store interface {
	Scan(ctx context.Context, query ScanQuery) ([]Movie, error)
	SetEmbedding(ctx context.Context, id string, embedding Embedding) error
	Search(ctx context.Context, query SearchQuery) ([]Movie, error)
	Count(ctx context.Context, predicate Predicate) (int, error)
	Recent(ctx context.Context, limit int) ([]Movie, error)
	Close() error
}
