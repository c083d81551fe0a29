package server

import "context"

type Option func(*Options)

type Options struct {
	Name    string
	Address string
	Context context.Context
}

func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

func WithAddress(addr string) Option {
	return func(o *Options) {
		o.Address = addr
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Name:    "moviesearch",
		Address: ":8080",
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
