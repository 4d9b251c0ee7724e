package gonetworkmanager

import (
	"context"
	"fmt"
	"sort"

	"github.com/godbus/dbus/v5"
)

// ListVisible returns the Wi-Fi networks seen by every wireless device,
// one record per SSID, strongest first. Records for the connected SSID
// carry the current IP address.
func (c *Client) ListVisible(ctx context.Context) ([]NetworkRecord, error) {
	current, err := c.ResolveCurrent(ctx)
	if err != nil {
		return nil, err
	}

	devices, err := c.wifiDevices(ctx)
	if err != nil {
		return nil, err
	}

	var networks []NetworkRecord
	seen := make(map[string]struct{})
	for _, dev := range devices {
		mac := orDefault(&c.log, UnsetMACAddress)(property(ctx, dev, IfaceDevice, propHwAddress, decodeString))
		iface := orDefault(&c.log, "")(property(ctx, dev, IfaceDevice, propInterface, decodeString))
		aps, err := property(ctx, dev, IfaceDeviceWireless, propAccessPoints, decodeObjectPaths)
		if err != nil {
			c.log.Debug().Err(err).Str("device", string(dev.path)).Msg("Skipping device without access points")
			continue
		}

		for _, apPath := range aps {
			ap := c.readAccessPoint(ctx, apPath)
			if _, dup := seen[ap.SSID]; dup {
				continue
			}
			seen[ap.SSID] = struct{}{}

			record := NetworkRecord{
				Name:           ap.SSID,
				SSID:           ap.SSID,
				ConnectionKind: ConnectionTypeWifi,
				Icon:           IconForStrength(int(ap.Strength)),
				IPAddress:      UnsetIPAddress,
				MACAddress:     mac,
				SignalStrength: ap.Strength,
				Security:       ap.Security,
				Interface:      iface,
			}
			if current.IsWireless() && ap.SSID == current.SSID {
				record.IPAddress = current.IPAddress
				record.IsConnected = current.IsConnected
			}
			networks = append(networks, record)
		}
	}

	sort.SliceStable(networks, func(i, j int) bool {
		return networks[i].SignalStrength > networks[j].SignalStrength
	})
	c.log.Debug().Int("count", len(networks)).Msg("Listed visible networks")
	return networks, nil
}

// RadioAvailable reports whether any Wi-Fi device exists.
func (c *Client) RadioAvailable(ctx context.Context) (bool, error) {
	devices, err := c.wifiDevices(ctx)
	if err != nil {
		return false, err
	}
	return len(devices) > 0, nil
}

func (c *Client) wifiDevices(ctx context.Context) ([]object, error) {
	v, err := c.root.get(ctx, IfaceNetworkManager, propDevices)
	if err != nil {
		return nil, fmt.Errorf("read devices: %w: %v", ErrTransport, err)
	}
	paths, err := decodeObjectPaths(v)
	if err != nil {
		c.log.Warn().Err(err).Msg("Unexpected Devices value")
		return nil, nil
	}

	var wifi []object
	for _, p := range paths {
		if c.deviceType(ctx, p) == DeviceTypeWifi {
			wifi = append(wifi, c.object(p))
		}
	}
	return wifi, nil
}

func (c *Client) deviceType(ctx context.Context, path dbus.ObjectPath) uint32 {
	return orDefault(&c.log, uint32(0))(property(ctx, c.object(path), IfaceDevice, propDeviceType, decodeUint32))
}
