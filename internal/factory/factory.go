package factory

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/w-h-a/moviesearch/embedder"
	"github.com/w-h-a/moviesearch/embedder/google"
	"github.com/w-h-a/moviesearch/embedder/openai"
	"github.com/w-h-a/moviesearch/store"
	"github.com/w-h-a/moviesearch/store/memory"
	"github.com/w-h-a/moviesearch/store/neo4j"
	"github.com/w-h-a/moviesearch/store/postgres"
	"github.com/w-h-a/moviesearch/store/qdrant"
)

var (
	ErrUnknownBackend  = errors.New("unknown store backend")
	ErrUnknownProvider = errors.New("unknown embedder provider")
)

// Backend names the store implementation a location selects.
func Backend(location string) (string, error) {
	if len(strings.TrimSpace(location)) == 0 {
		return "", errors.New("store location is empty")
	}

	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid store location: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return "postgres", nil
	case "qdrant":
		return "qdrant", nil
	case "neo4j", "neo4j+s", "neo4j+ssc", "bolt", "bolt+s", "bolt+ssc":
		return "neo4j", nil
	case "memory":
		return "memory", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, u.Scheme)
	}
}

// NewStore connects to the store at location. Connection failures panic inside
// the provider; only location errors are returned.
func NewStore(location string, opts ...store.Option) (store.Store, error) {
	backend, err := Backend(location)
	if err != nil {
		return nil, err
	}

	opts = append([]store.Option{store.WithLocation(location)}, opts...)

	switch backend {
	case "postgres":
		return postgres.NewStore(opts...), nil
	case "qdrant":
		return qdrant.NewStore(opts...), nil
	case "neo4j":
		return neo4j.NewStore(opts...), nil
	default:
		u, _ := url.Parse(location)
		if seed := u.Query().Get("seed"); len(seed) > 0 {
			opts = append(opts, store.WithSeedPath(seed))
		}
		return memory.NewStore(opts...), nil
	}
}

func NewEmbedder(provider string, opts ...embedder.Option) (embedder.Embedder, error) {
	switch strings.ToLower(provider) {
	case "", "openai":
		return openai.NewEmbedder(opts...), nil
	case "google":
		return google.NewEmbedder(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}
