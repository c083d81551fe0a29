package openai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/moviesearch/embedder"
)

type openAIEmbedder struct {
	options embedder.Options
	client  *openai.Client
}

func (e *openAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	rsp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.options.Model),
	})
	if err != nil {
		return nil, err
	}

	if len(rsp.Data) == 0 || len(rsp.Data[0].Embedding) == 0 {
		return nil, errors.New("no embedding in response")
	}

	return rsp.Data[0].Embedding, nil
}

func (e *openAIEmbedder) Model() string {
	return e.options.Model
}

func (e *openAIEmbedder) Dimensions() int {
	return e.options.Dimensions
}

// NewEmbedder talks to any OpenAI-compatible embeddings API. Point the
// location at a text-embeddings-inference or Ollama /v1 endpoint to serve
// all-MiniLM-L6-v2.
func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	e := &openAIEmbedder{
		options: options,
	}

	cfg := openai.DefaultConfig(options.ApiKey)
	if len(options.Location) > 0 {
		cfg.BaseURL = options.Location
	}

	e.client = openai.NewClientWithConfig(cfg)

	return e
}
