package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/w-h-a/moviesearch"
	"github.com/w-h-a/moviesearch/internal/config"
	"github.com/w-h-a/moviesearch/internal/factory"
	"github.com/w-h-a/moviesearch/internal/metrics"
	"github.com/w-h-a/moviesearch/internal/service/recommend"
)

const job = "moviesearch_embed"

func main() {
	// Load .env if present
	_ = godotenv.Load()

	var cfg config.Embed
	if err := config.Parse(&cfg, "embed", "Generate embeddings for movies that lack one.", os.Args[1:]); err != nil {
		log.Fatalf("❌ invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
		cfg.BatchSize,
		recommend.DefaultCandidates,
		os.Stdout,
	)
	defer tk.Close()

	_, runErr := tk.Embed(ctx)

	if len(cfg.Pushgateway) > 0 {
		if err := metrics.Push(cfg.Pushgateway, job); err != nil {
			log.Printf("⚠️ failed to push metrics: %v", err)
		}
	}

	if runErr != nil {
		tk.Close()
		log.Fatalf("❌ embedding run stopped: %v", runErr)
	}

	fmt.Println("✅ Done.")
}
