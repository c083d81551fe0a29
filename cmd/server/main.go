package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/w-h-a/moviesearch"
	"github.com/w-h-a/moviesearch/internal/config"
	"github.com/w-h-a/moviesearch/internal/factory"
	handler "github.com/w-h-a/moviesearch/internal/handler/http"
	"github.com/w-h-a/moviesearch/internal/service/embedding"
	"github.com/w-h-a/moviesearch/server"
	httpserver "github.com/w-h-a/moviesearch/server/http"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	var cfg config.Server
	if err := config.Parse(&cfg, "server", "Serve movie recommendations over HTTP.", os.Args[1:]); err != nil {
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
		embedding.DefaultBatchSize,
		cfg.Candidates,
		nil,
	)
	defer tk.Close()

	// Routes
	router := mux.NewRouter()
	handler.NewMovies(tk, tk, cfg.Results, cfg.Candidates).Register(router)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	srv := httpserver.NewServer(
		server.WithName("moviesearch"),
		server.WithAddress(cfg.Address),
		httpserver.WithMiddleware(httpserver.Recovery, httpserver.Logging),
	)

	if err := srv.Handle(router); err != nil {
		log.Fatalf("❌ failed to install routes: %v", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("❌ failed to start server: %v", err)
	}

	<-ctx.Done()

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdown); err != nil {
		slog.ErrorContext(shutdown, "failed to stop server", "error", err)
	}
}
