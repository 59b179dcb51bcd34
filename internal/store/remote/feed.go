package remote

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
	retry "github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const feedWriteTimeout = 10 * time.Second

// FeedOptions tunes the websocket change feed. Zero values fall back
// to sane defaults.
type FeedOptions struct {
	PingInterval     time.Duration
	HandshakeTimeout time.Duration
	MaxBackoff       time.Duration
}

// Feed opens table-scoped change subscriptions on the backend
// websocket endpoint. A subscription survives connection drops: it
// redials with exponential backoff and emits a synthetic resync event
// after every reconnect so consumers refetch anything missed.
type Feed struct {
	wsURL string
	table string
	token TokenProvider
	opts  FeedOptions
	log   logger.Logger
}

func NewFeed(baseURL, table string, token TokenProvider, opts FeedOptions, log logger.Logger) *Feed {
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 30 * time.Second
	}
	return &Feed{
		wsURL: wsEndpoint(baseURL, table),
		table: table,
		token: token,
		opts:  opts,
		log:   log,
	}
}

// wsEndpoint derives the websocket URL from the backend base URL
// (http -> ws, https -> wss).
func wsEndpoint(baseURL, table string) string {
	base := strings.TrimSuffix(baseURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/v1/changes?table=" + url.QueryEscape(table)
}

// Subscription is one live change-feed subscription. Events() is
// closed once Unsubscribe is called or the parent context ends.
type Subscription struct {
	id     string
	events chan domain.ChangeEvent
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *Subscription) Events() <-chan domain.ChangeEvent { return s.events }

// Unsubscribe tears the subscription down and waits until its
// goroutines have finished. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
	<-s.done
}

// Subscribe opens a new subscription. The first dial happens in the
// background; events missed before it completes are covered by the
// caller's initial full fetch.
func (f *Feed) Subscribe(ctx context.Context) (*Subscription, error) {
	runCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		id:     uuid.NewString()[:8],
		events: make(chan domain.ChangeEvent, 16),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go f.run(runCtx, sub)
	f.log.Info("change feed subscription opened",
		logger.String("subscription", sub.id),
		logger.String("table", f.table))
	return sub, nil
}

func (f *Feed) run(ctx context.Context, sub *Subscription) {
	defer close(sub.done)
	defer close(sub.events)

	connects := 0
	for {
		conn, err := f.dial(ctx)
		if err != nil {
			if ctx.Err() == nil {
				f.log.Error("change feed dial gave up",
					logger.String("subscription", sub.id), logger.Error(err))
			}
			return
		}

		connects++
		if connects > 1 {
			// Events may have been missed while disconnected.
			select {
			case sub.events <- domain.ChangeEvent{Table: f.table, Type: domain.ChangeResync}:
			case <-ctx.Done():
				_ = conn.Close()
				return
			}
			f.log.Info("change feed reconnected",
				logger.String("subscription", sub.id), logger.Int("connects", connects))
		}

		f.pump(ctx, conn, sub)
		_ = conn.Close()

		if ctx.Err() != nil {
			return
		}
		f.log.Warn("change feed connection lost, reconnecting",
			logger.String("subscription", sub.id))
	}
}

func (f *Feed) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := &websocket.Dialer{HandshakeTimeout: f.opts.HandshakeTimeout}

	var conn *websocket.Conn
	err := retry.Do(
		func() error {
			header := http.Header{}
			if tok := f.token(); tok != "" {
				header.Set("Authorization", "Bearer "+tok)
			}
			c, resp, err := dialer.DialContext(ctx, f.wsURL, header)
			if err != nil {
				if resp != nil {
					_ = resp.Body.Close()
				}
				return err
			}
			conn = c
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(0), // keep trying until the context ends
		retry.Delay(time.Second),
		retry.MaxDelay(f.opts.MaxBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			f.log.Warn("change feed dial failed, retrying",
				logger.Int("attempt", int(n)+1), logger.Error(err))
		}),
	)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// pump reads frames until the connection dies or ctx ends. A side
// goroutine writes keepalive pings; closing the conn is the only way
// to unblock a pending read, so it also watches ctx.
func (f *Feed) pump(ctx context.Context, conn *websocket.Conn, sub *Subscription) {
	readTimeout := 2*f.opts.PingInterval + 5*time.Second

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	readDone := make(chan struct{})
	defer close(readDone)

	go func() {
		ticker := time.NewTicker(f.opts.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = conn.Close()
				return
			case <-readDone:
				return
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					_ = conn.Close()
					return
				}
			}
		}
	}()

	for {
		var frame changeFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() == nil {
				f.log.Warn("change feed read failed",
					logger.String("subscription", sub.id), logger.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		if frame.Table != "" && frame.Table != f.table {
			continue
		}
		select {
		case sub.events <- domain.ChangeEvent{Table: f.table, Type: frame.Type, ID: frame.ID}:
		case <-ctx.Done():
			return
		}
	}
}
