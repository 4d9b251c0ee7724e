package gonetworkmanager

import "sync"

// Feed fans debounced records out to subscribers. A slow subscriber only
// ever sees the newest record; older undelivered ones are replaced.
type Feed struct {
	mu     sync.Mutex
	subs   map[int]chan NetworkRecord
	next   int
	closed bool
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]chan NetworkRecord)}
}

// Subscribe returns a channel of records and a function that removes the
// subscription and closes the channel.
func (f *Feed) Subscribe() (<-chan NetworkRecord, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan NetworkRecord, 1)
	if f.closed {
		close(ch)
		return ch, func() {}
	}
	id := f.next
	f.next++
	f.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if sub, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(sub)
			}
		})
	}
}

// Publish delivers rec to every subscriber without blocking.
func (f *Feed) Publish(rec NetworkRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- rec:
			continue
		default:
		}
		// Full: drop the stale value and retry. Publish holds the lock, so
		// no other sender can refill the slot in between.
		select {
		case <-ch:
		default:
		}
		ch <- rec
	}
}

// Close ends every subscription.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}

func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
