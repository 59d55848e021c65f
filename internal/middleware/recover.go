package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"anify-manager/internal/command"

	"github.com/rs/zerolog"
)

// WithRecover converts a handler panic into an error.
func WithRecover(log zerolog.Logger) command.Middleware {
	return func(next command.Handler) command.Handler {
		return func(ctx context.Context, inv *command.Invocation) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Str("key", inv.Key).
						Interface("panic", r).
						Bytes("stack", debug.Stack()).
						Msg("Handler panicked")
					err = fmt.Errorf("handler %s panicked: %v", inv.Key, r)
				}
			}()
			return next(ctx, inv)
		}
	}
}
