package netstats

import (
	"errors"
	"fmt"

	"github.com/mdlayher/wifi"
)

// ErrNotWireless is returned when the interface has no nl80211 link.
var ErrNotWireless = errors.New("not a wireless interface")

// LinkInfo is the radio-level view of an associated Wi-Fi interface.
// Bitrates are in bits per second.
type LinkInfo struct {
	Interface    string `json:"interface"`
	BSSID        string `json:"bssid"`
	FrequencyMHz int    `json:"frequencyMHz"`
	SignalDBm    int    `json:"signalDBm"`
	ReceiveRate  int    `json:"receiveBitrate"`
	TransmitRate int    `json:"transmitBitrate"`
}

// linkSource is the subset of *wifi.Client used here.
type linkSource interface {
	Interfaces() ([]*wifi.Interface, error)
	StationInfo(ifi *wifi.Interface) ([]*wifi.StationInfo, error)
	BSS(ifi *wifi.Interface) (*wifi.BSS, error)
	Close() error
}

// WirelessLink reads station and BSS details for iface over nl80211.
func WirelessLink(iface string) (LinkInfo, error) {
	c, err := wifi.New()
	if err != nil {
		return LinkInfo{}, fmt.Errorf("open nl80211: %w", err)
	}
	return wirelessLink(c, iface)
}

func wirelessLink(src linkSource, iface string) (LinkInfo, error) {
	defer src.Close()

	ifis, err := src.Interfaces()
	if err != nil {
		return LinkInfo{}, fmt.Errorf("list wifi interfaces: %w", err)
	}
	var ifi *wifi.Interface
	for _, candidate := range ifis {
		if candidate.Name == iface {
			ifi = candidate
			break
		}
	}
	if ifi == nil {
		return LinkInfo{}, fmt.Errorf("%s: %w", iface, ErrNotWireless)
	}

	info := LinkInfo{Interface: iface, FrequencyMHz: ifi.Frequency}
	if bss, err := src.BSS(ifi); err == nil && bss != nil {
		info.BSSID = bss.BSSID.String()
		if bss.Frequency != 0 {
			info.FrequencyMHz = bss.Frequency
		}
	}

	stations, err := src.StationInfo(ifi)
	if err != nil {
		return info, fmt.Errorf("station info for %s: %w", iface, err)
	}
	if len(stations) > 0 {
		st := stations[0]
		info.SignalDBm = st.Signal
		info.ReceiveRate = st.ReceiveBitrate
		info.TransmitRate = st.TransmitBitrate
	}
	return info, nil
}

// Band names the frequency band of the link.
func (l LinkInfo) Band() string {
	switch {
	case l.FrequencyMHz >= 5925:
		return "6 GHz"
	case l.FrequencyMHz >= 4900:
		return "5 GHz"
	case l.FrequencyMHz >= 2400:
		return "2.4 GHz"
	default:
		return "unknown"
	}
}
