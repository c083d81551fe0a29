package http

import (
	"context"
	"net/http"
	"time"

	"github.com/w-h-a/moviesearch/server"
)

type middlewareKey struct{}

type readTimeoutKey struct{}

func WithMiddleware(ms ...func(h http.Handler) http.Handler) server.Option {
	return func(o *server.Options) {
		o.Context = context.WithValue(o.Context, middlewareKey{}, ms)
	}
}

func MiddlewareFrom(ctx context.Context) ([]func(h http.Handler) http.Handler, bool) {
	ms, ok := ctx.Value(middlewareKey{}).([]func(h http.Handler) http.Handler)
	return ms, ok
}

func WithReadTimeout(d time.Duration) server.Option {
	return func(o *server.Options) {
		o.Context = context.WithValue(o.Context, readTimeoutKey{}, d)
	}
}

func ReadTimeoutFrom(ctx context.Context) (time.Duration, bool) {
	d, ok := ctx.Value(readTimeoutKey{}).(time.Duration)
	return d, ok
}
