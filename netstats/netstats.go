// Package netstats tracks byte counters of one network interface and
// derives transfer speeds between samples.
package netstats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v4/net"
)

// Stats is one sample. Speeds are bytes per second since the previous
// sample; totals and duration are since the tracker was created.
type Stats struct {
	Interface       string        `json:"interface"`
	DownloadSpeed   uint64        `json:"downloadSpeed"`
	UploadSpeed     uint64        `json:"uploadSpeed"`
	TotalDownloaded uint64        `json:"totalDownloaded"`
	TotalUploaded   uint64        `json:"totalUploaded"`
	Duration        time.Duration `json:"duration"`
}

// CounterFunc returns per-interface counters.
type CounterFunc func(ctx context.Context) ([]net.IOCountersStat, error)

func systemCounters(ctx context.Context) ([]net.IOCountersStat, error) {
	return net.IOCountersWithContext(ctx, true)
}

type Tracker struct {
	iface    string
	counters CounterFunc
	now      func() time.Time

	startRx, startTx uint64
	lastRx, lastTx   uint64
	start, last      time.Time
}

type Option func(*Tracker)

// WithCounters replaces the system counter source.
func WithCounters(f CounterFunc) Option {
	return func(t *Tracker) { t.counters = f }
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New takes the baseline sample for iface.
func New(ctx context.Context, iface string, opts ...Option) (*Tracker, error) {
	t := &Tracker{iface: iface, counters: systemCounters, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	rx, tx, err := t.read(ctx)
	if err != nil {
		return nil, err
	}
	t.startRx, t.startTx = rx, tx
	t.lastRx, t.lastTx = rx, tx
	t.start = t.now()
	t.last = t.start
	return t, nil
}

func (t *Tracker) Interface() string { return t.iface }

// Sample reads the counters again. Counter resets (interface went down)
// yield zero deltas rather than wrapping.
func (t *Tracker) Sample(ctx context.Context) (Stats, error) {
	rx, tx, err := t.read(ctx)
	if err != nil {
		return Stats{}, err
	}
	now := t.now()
	elapsed := now.Sub(t.last).Seconds()

	s := Stats{
		Interface:       t.iface,
		TotalDownloaded: delta(rx, t.startRx),
		TotalUploaded:   delta(tx, t.startTx),
		Duration:        now.Sub(t.start),
	}
	if elapsed > 0 {
		s.DownloadSpeed = uint64(float64(delta(rx, t.lastRx)) / elapsed)
		s.UploadSpeed = uint64(float64(delta(tx, t.lastTx)) / elapsed)
	}

	t.lastRx, t.lastTx, t.last = rx, tx, now
	return s, nil
}

func delta(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

func (t *Tracker) read(ctx context.Context) (rx, tx uint64, err error) {
	stats, err := t.counters(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("read counters: %w", err)
	}
	for _, s := range stats {
		if s.Name == t.iface {
			return s.BytesRecv, s.BytesSent, nil
		}
	}
	return 0, 0, fmt.Errorf("interface %q not found", t.iface)
}

// Interfaces lists interface names with counters, excluding loopback.
func Interfaces(ctx context.Context) ([]string, error) {
	return interfaces(ctx, systemCounters)
}

func interfaces(ctx context.Context, counters CounterFunc) ([]string, error) {
	stats, err := counters(ctx)
	if err != nil {
		return nil, fmt.Errorf("read counters: %w", err)
	}
	var names []string
	for _, s := range stats {
		if s.Name == "lo" {
			continue
		}
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names, nil
}
