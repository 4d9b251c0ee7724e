package gonetworkmanager

import (
	"context"
	"sync"
)

// Session is the shared handle callers pass around. The client behind it
// may be swapped at runtime; operations on an empty Session return
// ErrNotInitialized. Each operation holds the read lock until it returns,
// so Replace and Close wait for in-flight calls to drain.
type Session struct {
	mu     sync.RWMutex
	client *Client
}

func NewSession(c *Client) *Session {
	return &Session{client: c}
}

// Replace installs c and returns the previous client, which the caller
// is responsible for closing.
func (s *Session) Replace(c *Client) *Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.client
	s.client = c
	return prev
}

// Client returns the current client. The caller gets no protection from
// a concurrent Close; prefer the Session methods.
func (s *Session) Client() (*Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return nil, ErrNotInitialized
	}
	return s.client, nil
}

// Close closes and drops the current client.
func (s *Session) Close() error {
	if prev := s.Replace(nil); prev != nil {
		return prev.Close()
	}
	return nil
}

func withClient[T any](s *Session, fn func(*Client) (T, error)) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		var zero T
		return zero, ErrNotInitialized
	}
	return fn(s.client)
}

func (s *Session) ResolveCurrent(ctx context.Context) (NetworkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return Disconnected(), ErrNotInitialized
	}
	return s.client.ResolveCurrent(ctx)
}

func (s *Session) ListVisible(ctx context.Context) ([]NetworkRecord, error) {
	return withClient(s, func(c *Client) ([]NetworkRecord, error) { return c.ListVisible(ctx) })
}

func (s *Session) ListSaved(ctx context.Context) ([]NetworkRecord, error) {
	return withClient(s, func(c *Client) ([]NetworkRecord, error) { return c.ListSaved(ctx) })
}

func (s *Session) DeleteSaved(ctx context.Context, ssid string) (bool, error) {
	return withClient(s, func(c *Client) (bool, error) { return c.DeleteSaved(ctx, ssid) })
}

func (s *Session) ActivateSaved(ctx context.Context, ssid string) (bool, error) {
	return withClient(s, func(c *Client) (bool, error) { return c.ActivateSaved(ctx, ssid) })
}

func (s *Session) Connect(ctx context.Context, req ConnectionRequest) error {
	_, err := withClient(s, func(c *Client) (struct{}, error) { return struct{}{}, c.Connect(ctx, req) })
	return err
}

func (s *Session) Disconnect(ctx context.Context) error {
	_, err := withClient(s, func(c *Client) (struct{}, error) { return struct{}{}, c.Disconnect(ctx) })
	return err
}

func (s *Session) SetRadioEnabled(ctx context.Context, enabled bool) error {
	_, err := withClient(s, func(c *Client) (struct{}, error) { return struct{}{}, c.SetRadioEnabled(ctx, enabled) })
	return err
}

func (s *Session) RadioEnabled(ctx context.Context) (bool, error) {
	return withClient(s, func(c *Client) (bool, error) { return c.RadioEnabled(ctx) })
}

func (s *Session) RadioAvailable(ctx context.Context) (bool, error) {
	return withClient(s, func(c *Client) (bool, error) { return c.RadioAvailable(ctx) })
}

func (s *Session) SetNetworkingEnabled(ctx context.Context, enabled bool) error {
	_, err := withClient(s, func(c *Client) (struct{}, error) { return struct{}{}, c.SetNetworkingEnabled(ctx, enabled) })
	return err
}

func (s *Session) NetworkingEnabled(ctx context.Context) (bool, error) {
	return withClient(s, func(c *Client) (bool, error) { return c.NetworkingEnabled(ctx) })
}

// Monitor builds a change monitor over the current client.
func (s *Session) Monitor(opts ...MonitorOption) (*Monitor, error) {
	return withClient(s, func(c *Client) (*Monitor, error) { return NewMonitor(c, opts...), nil })
}
