package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"github.com/w-h-a/moviesearch/embedder"
	genaiopt "google.golang.org/api/option"
)

var errNoEmbedding = errors.New("no embedding in response")

// googleEmbedder embeds movie text with a Gemini embedding model. Movies and
// queries are compared with each other, so both use the similarity task type.
type googleEmbedder struct {
	options embedder.Options
	model   *genai.EmbeddingModel
	client  *genai.Client
}

func (e *googleEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	rsp, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("google embed with %s: %w", e.options.Model, err)
	}

	return vectorFrom(rsp)
}

func (e *googleEmbedder) Model() string {
	return e.options.Model
}

func (e *googleEmbedder) Dimensions() int {
	return e.options.Dimensions
}

func vectorFrom(rsp *genai.EmbedContentResponse) ([]float32, error) {
	if rsp == nil || rsp.Embedding == nil || len(rsp.Embedding.Values) == 0 {
		return nil, errNoEmbedding
	}
	return rsp.Embedding.Values, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	client, err := genai.NewClient(
		context.Background(),
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		detail := "failed to create google embedding client"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	model := client.EmbeddingModel(options.Model)
	model.TaskType = genai.TaskTypeSemanticSimilarity

	return &googleEmbedder{
		options: options,
		model:   model,
		client:  client,
	}
}
