package command

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Outcome is the terminal state of one dispatch.
type Outcome int

const (
	// Ignored: the interaction kind is not routed.
	Ignored Outcome = iota
	// Dropped: the invoker failed the gate. Nothing was sent.
	Dropped
	// Unhandled: no module matched and no reply was sent.
	Unhandled
	// Defaulted: no module matched a command; a built-in reply was sent.
	Defaulted
	// Handled: exactly one module handler was invoked.
	Handled
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Dropped:
		return "dropped"
	case Unhandled:
		return "unhandled"
	case Defaulted:
		return "defaulted"
	case Handled:
		return "handled"
	default:
		return "unknown"
	}
}

const (
	PingReply          = "Pong!"
	defaultReplyPrefix = "interaction received: "
)

// Router resolves each interaction to at most one module handler.
// It holds no per-interaction state and may be used concurrently.
type Router struct {
	registry *Registry
	gate     Gate
	session  Session
	handle   Handler
	log      zerolog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithMiddleware wraps every matched handler call; the first listed is outermost.
func WithMiddleware(mws ...Middleware) Option {
	return func(r *Router) { r.handle = Apply(r.handle, mws...) }
}

// WithLogger sets the router's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Router) { r.log = l }
}

// NewRouter builds a router over a sealed registry. A nil gate refuses everything.
func NewRouter(reg *Registry, gate Gate, s Session, opts ...Option) *Router {
	r := &Router{
		registry: reg,
		gate:     gate,
		session:  s,
		handle:   invoke,
		log:      zerolog.Nop(),
	}
	if r.gate == nil {
		r.gate = RoleGate{}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the registry the router dispatches into.
func (r *Router) Registry() *Registry { return r.registry }

// Dispatch runs one interaction to completion. The returned error is the
// matched handler's failure (or the failure to send a built-in reply); routing
// itself never fails.
func (r *Router) Dispatch(ctx context.Context, in Interaction) (Outcome, error) {
	switch v := in.(type) {
	case *CommandInteraction:
		if !r.gate.Authorize(v) {
			return Dropped, nil
		}
		key := CommandKey(v.Name, v.Options)
		if m, ok := r.registry.Lookup(key); ok {
			if _, ok := m.(CommandHandler); ok {
				return Handled, r.run(ctx, key, m, v)
			}
		}
		return Defaulted, r.defaultReply(v)

	case *AutocompleteInteraction:
		if !r.gate.Authorize(v) {
			return Dropped, nil
		}
		key := CommandKey(v.Name, v.Options)
		if m, ok := r.registry.Lookup(key); ok {
			if _, ok := m.(Autocompleter); ok {
				return Handled, r.run(ctx, key, m, v)
			}
		}
		return Unhandled, nil

	case *ComponentInteraction:
		if !r.gate.Authorize(v) {
			return Dropped, nil
		}
		key := ComponentKey(r.referencedMessage(v), v.OriginName, v.CustomID)
		if m, ok := r.registry.Lookup(key); ok {
			if _, ok := m.(ComponentHandler); ok {
				return Handled, r.run(ctx, key, m, v)
			}
		}
		r.log.Debug().Str("key", key).Str("custom_id", v.CustomID).Msg("No module for component")
		return Unhandled, nil
	}

	return Ignored, nil
}

func (r *Router) run(ctx context.Context, key string, m Module, in Interaction) error {
	r.log.Debug().Str("key", key).Stringer("kind", in.Kind()).Msg("Dispatching")
	return r.handle(ctx, &Invocation{Key: key, Module: m, Interaction: in, Session: r.session})
}

// defaultReply answers commands nothing is registered for. A registered module
// always wins over these, including one named "ping".
func (r *Router) defaultReply(in *CommandInteraction) error {
	if in.Name == "ping" {
		return Respond(r.session, in, PingReply)
	}
	return Respond(r.session, in, defaultReplyPrefix+in.Name)
}

// referencedMessage fetches the clicked message and returns the message it
// replies to. Any failure yields nil so resolution falls through.
func (r *Router) referencedMessage(in *ComponentInteraction) *discordgo.Message {
	if in.ChannelID == "" || in.MessageID == "" {
		return nil
	}
	msg, err := r.session.ChannelMessage(in.ChannelID, in.MessageID)
	if err != nil {
		r.log.Debug().Err(err).Str("message", in.MessageID).Msg("Could not fetch component message")
		return nil
	}
	if msg == nil {
		return nil
	}
	return msg.ReferencedMessage
}

// invoke calls the capability matching the interaction's kind.
func invoke(ctx context.Context, inv *Invocation) error {
	s := inv.Session
	switch in := inv.Interaction.(type) {
	case *CommandInteraction:
		return inv.Module.(CommandHandler).OnCommand(ctx, s, in)
	case *AutocompleteInteraction:
		return inv.Module.(Autocompleter).Autocomplete(ctx, s, in)
	case *ComponentInteraction:
		return inv.Module.(ComponentHandler).OnInteraction(ctx, s, in)
	}
	return nil
}
