package embedder

import "context"

const (
	DefaultModel      = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultDimensions = 384
)

type Option func(*Options)

type Options struct {
	ApiKey     string
	Model      string
	Location   string
	Dimensions int
	Context    context.Context
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithLocation sets the base URL of an OpenAI-compatible embeddings endpoint.
func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithDimensions(dims int) Option {
	return func(o *Options) {
		o.Dimensions = dims
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Model:      DefaultModel,
		Dimensions: DefaultDimensions,
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
