package gonetworkmanager

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

// Settings is NetworkManager's a{sa{sv}} connection settings map.
type Settings map[string]map[string]dbus.Variant

// SettingsPayload is the settings map sent with AddAndActivateConnection.
type SettingsPayload = Settings

type decodeFunc[T any] func(dbus.Variant) (T, error)

// property reads and decodes one property. Read and decode failures are
// both returned; callers choose whether to degrade with orDefault.
func property[T any](ctx context.Context, o object, iface, name string, decode decodeFunc[T]) (T, error) {
	var zero T
	v, err := o.get(ctx, iface, name)
	if err != nil {
		return zero, fmt.Errorf("read %s.%s on %s: %w", iface, name, o.path, err)
	}
	out, err := decode(v)
	if err != nil {
		return zero, fmt.Errorf("decode %s.%s on %s: %w", iface, name, o.path, err)
	}
	return out, nil
}

// orDefault is the single place optional properties fall back to a
// default. It is used as orDefault(log, def)(property(...)).
func orDefault[T any](log *zerolog.Logger, def T) func(T, error) T {
	return func(v T, err error) T {
		if err != nil {
			log.Debug().Err(err).Msg("optional property unavailable, using default")
			return def
		}
		return v
	}
}

func mismatch(want string, v dbus.Variant) error {
	return fmt.Errorf("expected %s, got %s", want, v.Signature())
}

func decodeObjectPaths(v dbus.Variant) ([]dbus.ObjectPath, error) {
	switch val := v.Value().(type) {
	case []dbus.ObjectPath:
		return val, nil
	case []interface{}:
		paths := make([]dbus.ObjectPath, 0, len(val))
		for _, item := range val {
			if p, ok := item.(dbus.ObjectPath); ok {
				paths = append(paths, p)
			}
		}
		return paths, nil
	}
	return nil, mismatch("ao", v)
}

func decodeObjectPath(v dbus.Variant) (dbus.ObjectPath, error) {
	if p, ok := v.Value().(dbus.ObjectPath); ok {
		return p, nil
	}
	return "", mismatch("o", v)
}

func decodeUint32(v dbus.Variant) (uint32, error) {
	if n, ok := v.Value().(uint32); ok {
		return n, nil
	}
	return 0, mismatch("u", v)
}

func decodeUint8(v dbus.Variant) (uint8, error) {
	if n, ok := v.Value().(byte); ok {
		return n, nil
	}
	return 0, mismatch("y", v)
}

func decodeBool(v dbus.Variant) (bool, error) {
	if b, ok := v.Value().(bool); ok {
		return b, nil
	}
	return false, mismatch("b", v)
}

func decodeString(v dbus.Variant) (string, error) {
	if s, ok := v.Value().(string); ok {
		return s, nil
	}
	return "", mismatch("s", v)
}

// decodeSSID turns an SSID byte array into text, replacing invalid UTF-8.
func decodeSSID(v dbus.Variant) (string, error) {
	b, ok := v.Value().([]byte)
	if !ok {
		return "", mismatch("ay", v)
	}
	return ssidString(b), nil
}

func ssidString(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

// decodeIPv4Addresses reads the legacy aau Addresses property; each entry
// starts with an address in network byte order.
func decodeIPv4Addresses(v dbus.Variant) ([]string, error) {
	entries, ok := v.Value().([][]uint32)
	if !ok {
		return nil, mismatch("aau", v)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if len(e) == 0 {
			continue
		}
		out = append(out, ipv4FromUint32(e[0]))
	}
	return out, nil
}

// decodeAddressData reads the aa{sv} AddressData property.
func decodeAddressData(v dbus.Variant) ([]string, error) {
	entries, ok := v.Value().([]map[string]dbus.Variant)
	if !ok {
		return nil, mismatch("aa{sv}", v)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if addr, err := decodeString(e["address"]); err == nil && net.ParseIP(addr) != nil {
			out = append(out, addr)
		}
	}
	return out, nil
}

func ipv4FromUint32(n uint32) string {
	return net.IPv4(byte(n), byte(n>>8), byte(n>>16), byte(n>>24)).String()
}

func decodeSettings(body []interface{}) (Settings, error) {
	var raw map[string]map[string]dbus.Variant
	if err := dbus.Store(body, &raw); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return Settings(raw), nil
}

// Value looks up group.key.
func (s Settings) Value(group, key string) (dbus.Variant, bool) {
	g, ok := s[group]
	if !ok {
		return dbus.Variant{}, false
	}
	v, ok := g[key]
	return v, ok
}

func (s Settings) StringValue(group, key string) (string, bool) {
	v, ok := s.Value(group, key)
	if !ok {
		return "", false
	}
	str, err := decodeString(v)
	return str, err == nil
}

func (s Settings) SSID() (string, bool) {
	v, ok := s.Value(settingWireless, keySSID)
	if !ok {
		return "", false
	}
	ssid, err := decodeSSID(v)
	return ssid, err == nil
}
