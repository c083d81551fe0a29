package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/w-h-a/moviesearch/embedder"
	"github.com/w-h-a/moviesearch/store"
)

// MaxCandidates is the largest candidate pool; pgvector caps hnsw.ef_search at 1000.
const MaxCandidates = 1000

// Store selects the movie collection. The URL scheme picks the backend.
type Store struct {
	URL         string `name:"store-url" env:"MOVIES_STORE_URL" required:"" help:"Movie store location (postgres://, qdrant://, neo4j://, bolt://, memory://)"`
	VectorIndex string `name:"vector-index" env:"MOVIES_VECTOR_INDEX" default:"vector_index" help:"Name of the vector index to search"`
	Collection  string `name:"collection" env:"MOVIES_COLLECTION" default:"movies" help:"Table (postgres) or collection (qdrant) holding the movies"`
	ApiKey      string `name:"store-api-key" env:"MOVIES_STORE_API_KEY" help:"API key for the store (qdrant)"`
	Username    string `name:"store-user" env:"MOVIES_STORE_USER" help:"Store user, overrides the one in the URL"`
	Password    string `name:"store-password" env:"MOVIES_STORE_PASSWORD" help:"Store password, used with --store-user"`
	Database    string `name:"store-database" env:"MOVIES_STORE_DATABASE" help:"Database name, overrides the one in the URL"`
}

func (s Store) Validate() error {
	if len(strings.TrimSpace(s.URL)) == 0 {
		return errors.New("MOVIES_STORE_URL is required")
	}

	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("MOVIES_STORE_URL is not a valid url: %w", err)
	}

	if len(u.Scheme) == 0 {
		return fmt.Errorf("MOVIES_STORE_URL has no scheme: %q", s.URL)
	}

	if len(s.Password) > 0 && len(s.Username) == 0 {
		return errors.New("MOVIES_STORE_PASSWORD needs MOVIES_STORE_USER")
	}

	return nil
}

// Options builds the store options. vectorSize is the embedding length the
// store must hold.
func (s Store) Options(vectorSize int) []store.Option {
	opts := []store.Option{
		store.WithVectorIndex(s.VectorIndex),
		store.WithCollection(s.Collection),
		store.WithVectorSize(vectorSize),
	}

	if len(s.ApiKey) > 0 {
		opts = append(opts, store.WithApiKey(s.ApiKey))
	}

	if len(s.Username) > 0 {
		opts = append(opts, store.WithCredentials(s.Username, s.Password))
	}

	if len(s.Database) > 0 {
		opts = append(opts, store.WithDatabase(s.Database))
	}

	return opts
}

type Embedder struct {
	Provider   string `name:"embedder-provider" env:"EMBEDDER_PROVIDER" enum:"openai,google" default:"openai" help:"Embedding provider"`
	URL        string `name:"embedder-url" env:"EMBEDDER_URL" help:"Base URL of an OpenAI-compatible embeddings endpoint"`
	Model      string `name:"embedder-model" env:"EMBEDDER_MODEL" default:"sentence-transformers/all-MiniLM-L6-v2" help:"Embedding model identifier (set a Gemini model such as text-embedding-004 for google)"`
	ApiKey     string `name:"embedder-api-key" env:"EMBEDDER_API_KEY" help:"API key for the embedding provider"`
	Dimensions int    `name:"embedding-dimensions" env:"EMBEDDING_DIMENSIONS" default:"384" help:"Expected embedding length (768 for text-embedding-004)"`
}

func (e Embedder) Validate() error {
	if e.Dimensions < 1 {
		return fmt.Errorf("EMBEDDING_DIMENSIONS must be positive, got %d", e.Dimensions)
	}

	// sentence-transformers models are only served behind OpenAI-compatible endpoints.
	if e.Provider == "google" && strings.HasPrefix(e.Model, "sentence-transformers/") {
		return fmt.Errorf("EMBEDDER_MODEL %q is not a Google embedding model; set EMBEDDER_MODEL and EMBEDDING_DIMENSIONS for EMBEDDER_PROVIDER=google", e.Model)
	}

	return nil
}

func (e Embedder) Options() []embedder.Option {
	return []embedder.Option{
		embedder.WithLocation(e.URL),
		embedder.WithModel(e.Model),
		embedder.WithApiKey(e.ApiKey),
		embedder.WithDimensions(e.Dimensions),
	}
}

// Embed configures the batch job.
type Embed struct {
	Store       Store    `embed:""`
	Embedder    Embedder `embed:""`
	BatchSize   int      `name:"batch-size" env:"BATCH_SIZE" default:"100" help:"Movies per batch"`
	Pushgateway string   `name:"pushgateway-url" env:"PUSHGATEWAY_URL" help:"Prometheus Pushgateway to push job metrics to"`
}

func (c *Embed) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	return errors.Join(c.Store.Validate(), c.Embedder.Validate())
}

// Recommend configures the interactive search.
type Recommend struct {
	Store      Store    `embed:""`
	Embedder   Embedder `embed:""`
	Results    int      `name:"results" env:"RECOMMEND_RESULTS" default:"5" help:"Matches shown per query"`
	Candidates int      `name:"candidates" env:"RECOMMEND_CANDIDATES" default:"100" help:"Approximate search candidate pool"`
}

func (c *Recommend) Validate() error {
	if c.Results < 1 {
		return fmt.Errorf("results must be positive, got %d", c.Results)
	}
	if c.Candidates < 1 || c.Candidates > MaxCandidates {
		return fmt.Errorf("candidates must be between 1 and %d, got %d", MaxCandidates, c.Candidates)
	}
	return errors.Join(c.Store.Validate(), c.Embedder.Validate())
}

// Server configures the HTTP API.
type Server struct {
	Store      Store    `embed:""`
	Embedder   Embedder `embed:""`
	Address    string   `name:"http-addr" env:"HTTP_ADDR" default:":8080" help:"HTTP listen address"`
	Results    int      `name:"results" env:"RECOMMEND_RESULTS" default:"5" help:"Default matches per request"`
	Candidates int      `name:"candidates" env:"RECOMMEND_CANDIDATES" default:"100" help:"Approximate search candidate pool"`
}

func (c *Server) Validate() error {
	var err error
	if c.Candidates < 1 || c.Candidates > MaxCandidates {
		err = fmt.Errorf("candidates must be between 1 and %d, got %d", MaxCandidates, c.Candidates)
	} else if c.Results < 1 || c.Results > c.Candidates {
		err = fmt.Errorf("results must be between 1 and candidates (%d), got %d", c.Candidates, c.Results)
	}
	return errors.Join(err, c.Store.Validate(), c.Embedder.Validate())
}

type validator interface {
	Validate() error
}

// Parse fills cfg from args and the environment.
func Parse(cfg validator, name string, description string, args []string) error {
	parser, err := kong.New(cfg,
		kong.Name(name),
		kong.Description(description),
	)
	if err != nil {
		return err
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	return cfg.Validate()
}
