package command

import "context"

// Invocation describes one matched handler call.
type Invocation struct {
	Key         string
	Module      Module
	Interaction Interaction
	Session     Session
}

// Handler performs an invocation.
type Handler func(ctx context.Context, inv *Invocation) error

// Middleware wraps a handler (panic recovery, history, timing).
type Middleware func(Handler) Handler

// Apply wraps h so that mws[0] is the outermost layer.
func Apply(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}
