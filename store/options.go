package store

import "context"

type Option func(*Options)

type Options struct {
	Location    string
	ApiKey      string
	Username    string
	Password    string
	Database    string
	Collection  string
	VectorIndex string
	VectorField string
	// VectorSize is the expected embedding length. Zero skips the checks.
	VectorSize  int
	SeedPath    string
	Context     context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithApiKey(key string) Option {
	return func(o *Options) {
		o.ApiKey = key
	}
}

func WithCredentials(username, password string) Option {
	return func(o *Options) {
		o.Username = username
		o.Password = password
	}
}

func WithDatabase(db string) Option {
	return func(o *Options) {
		o.Database = db
	}
}

func WithCollection(collection string) Option {
	return func(o *Options) {
		o.Collection = collection
	}
}

func WithVectorIndex(index string) Option {
	return func(o *Options) {
		o.VectorIndex = index
	}
}

func WithVectorSize(size int) Option {
	return func(o *Options) {
		o.VectorSize = size
	}
}

func WithSeedPath(path string) Option {
	return func(o *Options) {
		o.SeedPath = path
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Collection:  "movies",
		VectorIndex: "vector_index",
		VectorField: "vector_embedding",
		Context:     context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
