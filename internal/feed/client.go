package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"anify-manager/internal/storage"
	"anify-manager/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Poster sends a message to a channel.
type Poster interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Store records posted cards.
type Store interface {
	AppendFeedEntry(ctx context.Context, e storage.FeedEntry) error
}

type Options struct {
	URL        string
	ClientName string
	ChannelID  string

	// Reconnect delays. Zero values use 1s growing to 1m.
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// Status is a snapshot of the feed connection.
type Status struct {
	URL       string
	Connected bool
	Since     time.Time // connect or disconnect time
	LastPost  time.Time
	Posted    int
	Dropped   int
}

// Client reads records from the backend and posts them as cards.
type Client struct {
	opts    Options
	poster  Poster
	store   Store
	dialer  *websocket.Dialer
	limiter *retrylimit.AdaptiveLimiter
	retry   retrylimit.RetryConfig
	log     zerolog.Logger

	mu     sync.Mutex
	status Status
}

func NewClient(opts Options, poster Poster, store Store, log zerolog.Logger) *Client {
	if opts.MinBackoff <= 0 {
		opts.MinBackoff = time.Second
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = time.Minute
	}
	return &Client{
		opts:    opts,
		poster:  poster,
		store:   store,
		dialer:  &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		limiter: retrylimit.NewAdaptiveLimiter(2, 1, 5, 1, 0.5),
		retry:   retrylimit.DefaultRetryConfig(),
		log:     log,
		status:  Status{URL: opts.URL},
	}
}

// Status returns the current connection state and post counters.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Run keeps a connection to the backend open until ctx is done, reconnecting
// with exponential backoff. It returns nil on cancellation.
func (c *Client) Run(ctx context.Context) error {
	backoff := retrylimit.NewBackoff(c.opts.MinBackoff, c.opts.MaxBackoff, 2)
	backoff.Jitter = true

	for {
		connected, err := c.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			backoff.Reset()
		}

		delay := backoff.Next()
		if err != nil {
			c.log.Error().Err(err).Dur("retry_in", delay).Msg("Error with websocket.")
		}
		if err := retrylimit.Sleep(ctx, delay); err != nil {
			return nil
		}
	}
}

// session dials once and reads frames until the socket closes.
func (c *Client) session(ctx context.Context) (connected bool, err error) {
	header := http.Header{}
	if c.opts.ClientName != "" {
		header.Set("client-name", c.opts.ClientName)
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.opts.URL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return false, fmt.Errorf("dial %s: %w", c.opts.URL, err)
	}
	defer conn.Close()

	c.setConnected(true)
	c.log.Info().Str("url", c.opts.URL).Msg("Connected to backend websocket.")
	defer func() {
		c.setConnected(false)
		c.log.Info().Msg("Disconnected from backend websocket.")
	}()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return true, nil
			}
			return true, fmt.Errorf("read: %w", err)
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		if err := c.Handle(ctx, data); err != nil {
			c.log.Warn().Err(err).Msg("Dropped feed frame")
		}
	}
}

// Handle decodes one frame, posts its card and records it.
func (c *Client) Handle(ctx context.Context, data []byte) error {
	rec, err := Decode(data)
	if err != nil {
		c.countDropped()
		return err
	}
	if c.opts.ChannelID == "" {
		c.countDropped()
		return errors.New("no logs channel configured")
	}

	card := Render(rec)
	var msg *discordgo.Message
	err = retrylimit.WithRetryConfig(ctx, c.limiter, c.retry, func() error {
		var err error
		msg, err = c.poster.ChannelMessageSendComplex(c.opts.ChannelID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{card},
		})
		return err
	})
	if err != nil {
		c.countDropped()
		return fmt.Errorf("post card %q: %w", card.Title, err)
	}

	now := time.Now()
	c.mu.Lock()
	c.status.LastPost = now
	c.status.Posted++
	c.mu.Unlock()

	c.log.Debug().Str("title", card.Title).Msg("Posted feed card")

	if c.store != nil {
		entry := storage.FeedEntry{
			Title:     card.Title,
			ChannelID: c.opts.ChannelID,
			Payload:   data,
			PostedAt:  now,
		}
		if msg != nil {
			entry.MessageID = msg.ID
		}
		if err := c.store.AppendFeedEntry(ctx, entry); err != nil {
			c.log.Warn().Err(err).Str("title", card.Title).Msg("Failed to store feed entry")
		}
	}
	return nil
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Connected = v
	c.status.Since = time.Now()
}

func (c *Client) countDropped() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Dropped++
}
