package gonetworkmanager

import (
	"context"
	"time"
)

// DefaultDebounce is the quiet period before a change is published.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer collapses bursts of records into one trailing emission. The
// first record opens a window; every later record replaces the pending
// value and restarts it. When the window expires the pending value is
// emitted once.
type Debouncer struct {
	window time.Duration
	emit   func(NetworkRecord)
}

func NewDebouncer(window time.Duration, emit func(NetworkRecord)) *Debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Debouncer{window: window, emit: emit}
}

// Run consumes in until it is closed or ctx is done. A value still pending
// at that point is dropped.
func (d *Debouncer) Run(ctx context.Context, in <-chan NetworkRecord) error {
	timer := time.NewTimer(d.window)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var (
		pending NetworkRecord
		armed   bool
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case rec, ok := <-in:
			if !ok {
				return nil
			}
			pending = rec
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(d.window)
			armed = true
		case <-timer.C:
			armed = false
			d.emit(pending)
		}
	}
}
