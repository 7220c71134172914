// Package middleware provides opt-in crud.Client wrappers for
// observability: Prometheus request metrics and OpenTelemetry tracing.
// Nothing here is wired by default; pass a wrapped client through
// crud.Config.Client:
//
//	cfg.Client = middleware.Chain(&crud.HTTPClient{},
//	    middleware.OpenTelemetry(),
//	    middleware.Prometheus(),
//	)
package middleware

import "github.com/vango-go/crud"

// Middleware wraps a Client with additional behavior.
type Middleware func(next crud.Client) crud.Client

// Chain applies middlewares to a client. The first middleware is the
// outermost: Chain(c, a, b) yields a(b(c)).
func Chain(c crud.Client, mws ...Middleware) crud.Client {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}
