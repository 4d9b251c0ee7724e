package gonetworkmanager

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// EventNetworkChanged names the debounced change notification.
const EventNetworkChanged = "network-changed"

// Monitor re-resolves the current network on every NetworkManager state
// signal and publishes the settled result through its Feed.
type Monitor struct {
	client *Client
	feed   *Feed
	window time.Duration
	log    zerolog.Logger
}

type MonitorOption func(*Monitor)

// WithDebounce sets the quiet period; non-positive values keep the default.
func WithDebounce(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		if d > 0 {
			m.window = d
		}
	}
}

func WithMonitorLogger(l zerolog.Logger) MonitorOption {
	return func(m *Monitor) { m.log = l }
}

func NewMonitor(client *Client, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		client: client,
		feed:   NewFeed(),
		window: DefaultDebounce,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Monitor) Feed() *Feed { return m.feed }

// Run blocks until ctx is cancelled or the signal stream ends. The feed is
// closed on return.
func (m *Monitor) Run(ctx context.Context) error {
	defer m.feed.Close()

	signals, err := m.client.bus.Signals(ctx)
	if err != nil {
		return err
	}
	m.log.Info().Dur("debounce", m.window).Msg("Watching NetworkManager signals")

	g, gctx := errgroup.WithContext(ctx)
	records := make(chan NetworkRecord)

	g.Go(func() error {
		defer close(records)
		for {
			select {
			case <-gctx.Done():
				return nil
			case sig, ok := <-signals:
				if !ok {
					m.log.Info().Msg("Signal stream closed")
					return nil
				}
				m.log.Debug().Str("signal", sig.Name).Str("path", string(sig.Path)).Msg("State signal")
				rec, err := m.client.ResolveCurrent(gctx)
				if err != nil {
					m.log.Warn().Err(err).Msg("Resolve after signal failed")
					continue
				}
				select {
				case records <- rec:
				case <-gctx.Done():
					return nil
				}
			}
		}
	})

	debouncer := NewDebouncer(m.window, func(rec NetworkRecord) {
		m.log.Debug().Str("event", EventNetworkChanged).Str("name", rec.Name).Msg("Publishing")
		m.feed.Publish(rec)
	})
	g.Go(func() error {
		return debouncer.Run(gctx, records)
	})

	return g.Wait()
}
