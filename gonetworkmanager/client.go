package gonetworkmanager

import (
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

// Client owns a bus connection and a properties accessor bound to the
// NetworkManager root object. It keeps no state between calls: every
// operation walks the remote object graph again.
type Client struct {
	bus    Bus
	root   object
	prober Prober
	log    zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithProber sets the reachability check used for IsConnected.
func WithProber(p Prober) Option {
	return func(c *Client) { c.prober = p }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a Client over bus. Without WithProber, NetworkManager's own
// connectivity state decides reachability.
func New(bus Bus, opts ...Option) *Client {
	c := &Client{
		bus:  bus,
		root: object{bus: bus, path: RootPath},
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.prober == nil {
		c.prober = NewServiceConnectivity(bus)
	}
	return c
}

// Dial connects to the system bus and returns a Client over it.
func Dial(opts ...Option) (*Client, error) {
	bus, err := ConnectSystemBus()
	if err != nil {
		return nil, err
	}
	return New(bus, opts...), nil
}

func (c *Client) Bus() Bus { return c.bus }

func (c *Client) Close() error { return c.bus.Close() }

func (c *Client) object(path dbus.ObjectPath) object {
	return object{bus: c.bus, path: path}
}
