// Package logging provides the structured logging abstraction the server
// components depend on, so the concrete backend stays swappable.
package logging

import "context"

// Logger writes structured log records. Variadic args carry alternating
// keys and values:
//
//	log.Info(ctx, "listening", "addr", cfg.EndpointAddr)
//
// Every method takes a context so backends can attach request-scoped
// attributes such as a trace id.
type Logger interface {
	// Info records a routine operational event.
	Info(ctx context.Context, msg string, args ...any)

	// Warn records a condition worth attention that did not stop the request.
	Warn(ctx context.Context, msg string, args ...any)

	// Error records a failure.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger whose records always carry the given attributes.
	With(args ...any) Logger
}
