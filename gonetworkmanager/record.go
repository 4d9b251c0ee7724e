package gonetworkmanager

import (
	"fmt"
	"strings"
)

// Sentinel values used by the disconnected record.
const (
	UnknownValue    = "Unknown"
	UnsetIPAddress  = "0.0.0.0"
	UnsetMACAddress = "00:00:00:00:00:00"
)

// Icon identifiers.
const (
	IconOffline             = "network-offline-symbolic"
	IconWiredConnected      = "network-wired-symbolic"
	IconWiredDisconnected   = "network-wired-disconnected-symbolic"
	IconWifiSignalNone      = "wifi-signal-none"
	IconWifiSignalWeak      = "wifi-signal-weak"
	IconWifiSignalLow       = "wifi-signal-low"
	IconWifiSignalMedium    = "wifi-signal-medium"
	IconWifiSignalGood      = "wifi-signal-good"
	IconWifiSignalExcellent = "wifi-signal-excellent"
)

// NetworkRecord is an immutable snapshot of one network, either the
// current connection or a visible/saved Wi-Fi network.
type NetworkRecord struct {
	Name           string       `json:"name"`
	SSID           string       `json:"ssid"`
	ConnectionKind string       `json:"connectionKind"`
	Icon           string       `json:"icon"`
	IPAddress      string       `json:"ipAddress"`
	MACAddress     string       `json:"macAddress"`
	SignalStrength uint8        `json:"signalStrength"`
	Security       SecurityType `json:"security"`
	IsConnected    bool         `json:"isConnected"`
	Interface      string       `json:"interface,omitempty"`
}

// Disconnected returns the record reported when there is no active connection.
func Disconnected() NetworkRecord {
	return NetworkRecord{
		Name:           UnknownValue,
		SSID:           UnknownValue,
		ConnectionKind: UnknownValue,
		Icon:           IconOffline,
		IPAddress:      UnsetIPAddress,
		MACAddress:     UnsetMACAddress,
		Security:       SecurityNone,
	}
}

// IsWireless reports whether the record describes a Wi-Fi network.
func (r NetworkRecord) IsWireless() bool {
	return r.ConnectionKind == ConnectionTypeWifi
}

func (r NetworkRecord) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", r.Name, r.ConnectionKind)
	if r.IsWireless() {
		fmt.Fprintf(&b, " %d%% %s", r.SignalStrength, r.Security)
	}
	if r.IsConnected {
		fmt.Fprintf(&b, " connected %s", r.IPAddress)
	}
	return b.String()
}

// IconForStrength maps a signal strength to its icon bucket.
func IconForStrength(strength int) string {
	switch {
	case strength < 0 || strength > 100:
		return IconWifiSignalNone
	case strength <= 20:
		return IconWifiSignalWeak
	case strength <= 40:
		return IconWifiSignalLow
	case strength <= 60:
		return IconWifiSignalMedium
	case strength <= 80:
		return IconWifiSignalGood
	default:
		return IconWifiSignalExcellent
	}
}

// ConnectionRequest describes a Wi-Fi network to join.
type ConnectionRequest struct {
	SSID     string       `json:"ssid"`
	Password *string      `json:"password,omitempty"`
	Security SecurityType `json:"security"`
	Username *string      `json:"username,omitempty"`
}

// Validate checks the request before a settings payload is built.
func (r ConnectionRequest) Validate() error {
	if strings.TrimSpace(r.SSID) == "" {
		return fmt.Errorf("SSID cannot be empty")
	}
	if len(r.SSID) > 32 {
		return fmt.Errorf("SSID %q exceeds 32 bytes", r.SSID)
	}
	if !r.Security.valid() {
		return fmt.Errorf("%w: %d", ErrUnsupportedSecurity, int(r.Security))
	}
	return nil
}

// StringPtr is a convenience for optional request fields.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
