package gonetworkmanager

import (
	"context"
	"errors"
	"sync"

	"github.com/godbus/dbus/v5"
)

type fakeCall struct {
	Path   dbus.ObjectPath
	Method string
	Args   []interface{}
}

type fakeSet struct {
	Path  dbus.ObjectPath
	Iface string
	Name  string
	Value interface{}
}

// fakeBus is an in-memory object graph. Properties are keyed by
// "iface.name" per path; unknown properties fail like the real service.
type fakeBus struct {
	mu       sync.Mutex
	props    map[dbus.ObjectPath]map[string]dbus.Variant
	handlers map[string]func(path dbus.ObjectPath, args []interface{}) ([]interface{}, error)
	calls    []fakeCall
	sets     []fakeSet
	down     bool
	setErr   error
	signals  chan *dbus.Signal
	closed   bool
}

var errBusDown = errors.New("connection closed")

func newFakeBus() *fakeBus {
	return &fakeBus{
		props:    make(map[dbus.ObjectPath]map[string]dbus.Variant),
		handlers: make(map[string]func(dbus.ObjectPath, []interface{}) ([]interface{}, error)),
		signals:  make(chan *dbus.Signal, 16),
	}
}

func (f *fakeBus) set(path dbus.ObjectPath, iface, name string, value interface{}) *fakeBus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.props[path] == nil {
		f.props[path] = make(map[string]dbus.Variant)
	}
	f.props[path][iface+"."+name] = dbus.MakeVariant(value)
	return f
}

func (f *fakeBus) handle(method string, h func(dbus.ObjectPath, []interface{}) ([]interface{}, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = h
}

func (f *fakeBus) callsTo(method string) []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeCall
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeBus) Property(_ context.Context, path dbus.ObjectPath, iface, name string) (dbus.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return dbus.Variant{}, errBusDown
	}
	v, ok := f.props[path][iface+"."+name]
	if !ok {
		return dbus.Variant{}, dbus.Error{
			Name: "org.freedesktop.DBus.Error.UnknownProperty",
			Body: []interface{}{"no such property " + name},
		}
	}
	return v, nil
}

func (f *fakeBus) SetProperty(_ context.Context, path dbus.ObjectPath, iface, name string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errBusDown
	}
	f.sets = append(f.sets, fakeSet{Path: path, Iface: iface, Name: name, Value: value})
	if f.setErr != nil {
		return f.setErr
	}
	if f.props[path] == nil {
		f.props[path] = make(map[string]dbus.Variant)
	}
	f.props[path][iface+"."+name] = dbus.MakeVariant(value)
	return nil
}

func (f *fakeBus) Call(_ context.Context, path dbus.ObjectPath, method string, args ...interface{}) ([]interface{}, error) {
	f.mu.Lock()
	if f.down {
		f.mu.Unlock()
		return nil, errBusDown
	}
	f.calls = append(f.calls, fakeCall{Path: path, Method: method, Args: args})
	h := f.handlers[method]
	f.mu.Unlock()
	if h == nil {
		return nil, nil
	}
	return h(path, args)
}

func (f *fakeBus) Signals(ctx context.Context) (<-chan *dbus.Signal, error) {
	f.mu.Lock()
	down := f.down
	f.mu.Unlock()
	if down {
		return nil, errBusDown
	}
	out := make(chan *dbus.Signal)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-f.signals:
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

func (f *fakeBus) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeBus) emit(name string) {
	f.signals <- &dbus.Signal{Sender: ServiceName, Path: RootPath, Name: IfaceNetworkManager + "." + name}
}

// Topology helpers.

const (
	testActivePath = dbus.ObjectPath("/org/freedesktop/NetworkManager/ActiveConnection/1")
	testWifiDev    = dbus.ObjectPath("/org/freedesktop/NetworkManager/Devices/3")
	testEthDev     = dbus.ObjectPath("/org/freedesktop/NetworkManager/Devices/2")
	testIP4Path    = dbus.ObjectPath("/org/freedesktop/NetworkManager/IP4Config/5")
)

func apPath(n string) dbus.ObjectPath {
	return dbus.ObjectPath("/org/freedesktop/NetworkManager/AccessPoint/" + n)
}

type testAP struct {
	ssid     string
	strength uint8
	flags    uint32
	wpa      uint32
	rsn      uint32
}

func (f *fakeBus) addAP(path dbus.ObjectPath, ap testAP) {
	f.set(path, IfaceAccessPoint, propSsid, []byte(ap.ssid))
	f.set(path, IfaceAccessPoint, propStrength, ap.strength)
	f.set(path, IfaceAccessPoint, propFlags, ap.flags)
	f.set(path, IfaceAccessPoint, propWpaFlags, ap.wpa)
	f.set(path, IfaceAccessPoint, propRsnFlags, ap.rsn)
}

func (f *fakeBus) addWifiDevice(path dbus.ObjectPath, mac, iface string, aps ...dbus.ObjectPath) {
	f.set(path, IfaceDevice, propDeviceType, DeviceTypeWifi)
	f.set(path, IfaceDevice, propHwAddress, mac)
	f.set(path, IfaceDevice, propInterface, iface)
	f.set(path, IfaceDevice, propIp4Config, placeholderPath)
	f.set(path, IfaceDeviceWireless, propAccessPoints, aps)
	f.set(path, IfaceDeviceWireless, propActiveAccessPoint, placeholderPath)
}

func (f *fakeBus) setDevices(paths ...dbus.ObjectPath) {
	f.set(RootPath, IfaceNetworkManager, propDevices, paths)
}

func (f *fakeBus) setActive(paths ...dbus.ObjectPath) {
	f.set(RootPath, IfaceNetworkManager, propActiveConnections, paths)
}

// activate makes dev the device of an activated connection with address ip.
func (f *fakeBus) activate(dev dbus.ObjectPath, id, kind, ip string) {
	f.setActive(testActivePath)
	f.set(testActivePath, IfaceActiveConnection, propDevices, []dbus.ObjectPath{dev})
	f.set(testActivePath, IfaceActiveConnection, propState, ActiveConnectionStateActivated)
	f.set(testActivePath, IfaceActiveConnection, propID, id)
	f.set(testActivePath, IfaceActiveConnection, propType, kind)
	if ip != "" {
		f.set(dev, IfaceDevice, propIp4Config, testIP4Path)
		f.set(testIP4Path, IfaceIP4Config, propAddressData, []map[string]dbus.Variant{
			{"address": dbus.MakeVariant(ip), "prefix": dbus.MakeVariant(uint32(24))},
		})
	}
}

func newTestClient(bus Bus) *Client {
	return New(bus, WithProber(AlwaysReachable))
}
