package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/w-h-a/moviesearch"
	"github.com/w-h-a/moviesearch/internal/config"
	"github.com/w-h-a/moviesearch/internal/factory"
	"github.com/w-h-a/moviesearch/internal/service/embedding"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	var cfg config.Recommend
	if err := config.Parse(&cfg, "recommend", "Find movies similar to a free-text description.", os.Args[1:]); err != nil {
		log.Fatalf("❌ invalid configuration: %v", err)
	}

	ctx := context.Background()

	// Create store
	st, err := factory.NewStore(cfg.Store.URL, cfg.Store.Options(cfg.Embedder.Dimensions)...)
	if err != nil {
		log.Fatalf("❌ failed to create movie store: %v", err)
	}

	// Create embedder
	emb, err := factory.NewEmbedder(cfg.Embedder.Provider, cfg.Embedder.Options()...)
	if err != nil {
		log.Fatalf("❌ failed to create embedder: %v", err)
	}

	tk := moviesearch.New(
		st,
		emb,
		cfg.Store.VectorIndex,
		embedding.DefaultBatchSize,
		cfg.Candidates,
		os.Stdout,
	)
	defer tk.Close()

	if err := tk.Interactive(ctx, os.Stdin, os.Stdout, cfg.Results); err != nil {
		tk.Close()
		log.Fatalf("❌ failed to read input: %v", err)
	}
}
