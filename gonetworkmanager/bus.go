package gonetworkmanager

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

// Bus is the slice of the system bus the resolver needs. Methods are
// fully qualified ("org.freedesktop.NetworkManager.Enable").
type Bus interface {
	Property(ctx context.Context, path dbus.ObjectPath, iface, name string) (dbus.Variant, error)
	SetProperty(ctx context.Context, path dbus.ObjectPath, iface, name string, value interface{}) error
	Call(ctx context.Context, path dbus.ObjectPath, method string, args ...interface{}) ([]interface{}, error)
	// Signals delivers NetworkManager state-change signals until ctx is
	// done, then closes the returned channel.
	Signals(ctx context.Context) (<-chan *dbus.Signal, error)
	Close() error
}

var _ Bus = (*systemBus)(nil)

type systemBus struct {
	conn      *dbus.Conn
	closeOnce sync.Once
}

// ConnectSystemBus opens a private connection to the system bus.
func ConnectSystemBus() (Bus, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("%w: connect system bus: %v", ErrTransport, err)
	}
	return &systemBus{conn: conn}, nil
}

// NewBus wraps an existing connection. The Bus takes ownership of conn.
func NewBus(conn *dbus.Conn) Bus {
	return &systemBus{conn: conn}
}

func (b *systemBus) object(path dbus.ObjectPath) dbus.BusObject {
	return b.conn.Object(ServiceName, path)
}

func (b *systemBus) Property(ctx context.Context, path dbus.ObjectPath, iface, name string) (dbus.Variant, error) {
	var v dbus.Variant
	err := b.object(path).CallWithContext(ctx, methodPropertiesGet, 0, iface, name).Store(&v)
	return v, err
}

func (b *systemBus) SetProperty(ctx context.Context, path dbus.ObjectPath, iface, name string, value interface{}) error {
	return b.object(path).CallWithContext(ctx, methodPropertiesSet, 0, iface, name, dbus.MakeVariant(value)).Err
}

func (b *systemBus) Call(ctx context.Context, path dbus.ObjectPath, method string, args ...interface{}) ([]interface{}, error) {
	call := b.object(path).CallWithContext(ctx, method, 0, args...)
	if call.Err != nil {
		return nil, call.Err
	}
	return call.Body, nil
}

func (b *systemBus) signalRules() [][]dbus.MatchOption {
	return [][]dbus.MatchOption{
		{
			dbus.WithMatchSender(ServiceName),
			dbus.WithMatchInterface(IfaceNetworkManager),
			dbus.WithMatchMember(signalStateChanged),
		},
		{
			dbus.WithMatchSender(ServiceName),
			dbus.WithMatchInterface(IfaceProperties),
			dbus.WithMatchMember(signalPropertiesChanged),
			dbus.WithMatchPathNamespace(RootPath),
		},
	}
}

func (b *systemBus) Signals(ctx context.Context) (<-chan *dbus.Signal, error) {
	rules := b.signalRules()
	for i, rule := range rules {
		if err := b.conn.AddMatchSignalContext(ctx, rule...); err != nil {
			for _, added := range rules[:i] {
				_ = b.conn.RemoveMatchSignal(added...)
			}
			return nil, fmt.Errorf("%w: add match: %v", ErrTransport, err)
		}
	}

	// godbus may still deliver to raw after RemoveSignal, so raw is never
	// closed; out is owned by the forwarding goroutine.
	raw := make(chan *dbus.Signal, 16)
	b.conn.Signal(raw)
	out := make(chan *dbus.Signal)

	go func() {
		defer close(out)
		defer func() {
			b.conn.RemoveSignal(raw)
			for _, rule := range rules {
				_ = b.conn.RemoveMatchSignal(rule...)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-raw:
				if !ok {
					return
				}
				select {
				case out <- sig:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (b *systemBus) Close() error {
	var err error
	b.closeOnce.Do(func() { err = b.conn.Close() })
	return err
}

// object is a remote object bound to a bus, used for one resolution pass.
type object struct {
	bus  Bus
	path dbus.ObjectPath
}

func (o object) get(ctx context.Context, iface, name string) (dbus.Variant, error) {
	return o.bus.Property(ctx, o.path, iface, name)
}

func (o object) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	return o.bus.Call(ctx, o.path, method, args...)
}
