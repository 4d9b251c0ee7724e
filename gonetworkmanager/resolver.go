package gonetworkmanager

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// accessPoint is the decoded subset of an AccessPoint object.
type accessPoint struct {
	SSID     string
	Strength uint8
	Security SecurityType
}

// ResolveCurrent builds the record for the first active connection. Only a
// failure to read the active connection list is returned as an error;
// anything missing further down the object graph leaves sentinel values.
func (c *Client) ResolveCurrent(ctx context.Context) (NetworkRecord, error) {
	record := Disconnected()

	v, err := c.root.get(ctx, IfaceNetworkManager, propActiveConnections)
	if err != nil {
		return record, fmt.Errorf("read active connections: %w: %v", ErrTransport, err)
	}
	active, err := decodeObjectPaths(v)
	if err != nil {
		c.log.Warn().Err(err).Msg("Unexpected ActiveConnections value")
		return record, nil
	}
	if len(active) == 0 {
		return record, nil
	}

	// NetworkManager does not document the order; the first entry wins.
	conn := c.object(active[0])
	devices, err := property(ctx, conn, IfaceActiveConnection, propDevices, decodeObjectPaths)
	if err != nil || len(devices) == 0 {
		c.log.Debug().Err(err).Str("connection", string(conn.path)).Msg("Active connection has no device")
		return record, nil
	}
	dev := c.object(devices[0])

	state := orDefault(&c.log, uint32(0))(property(ctx, conn, IfaceActiveConnection, propState, decodeUint32))
	id := orDefault(&c.log, UnknownValue)(property(ctx, conn, IfaceActiveConnection, propID, decodeString))
	devType := orDefault(&c.log, uint32(0))(property(ctx, dev, IfaceDevice, propDeviceType, decodeUint32))

	record.Name = id
	record.ConnectionKind = orDefault(&c.log, kindForDeviceType(devType))(
		property(ctx, conn, IfaceActiveConnection, propType, decodeString))
	record.MACAddress = orDefault(&c.log, UnsetMACAddress)(property(ctx, dev, IfaceDevice, propHwAddress, decodeString))
	record.Interface = orDefault(&c.log, "")(property(ctx, dev, IfaceDevice, propInterface, decodeString))

	if devType == DeviceTypeWifi {
		record.Icon = IconWifiSignalNone
		apPath, err := property(ctx, dev, IfaceDeviceWireless, propActiveAccessPoint, decodeObjectPath)
		if err == nil && apPath != placeholderPath && apPath != "" {
			ap := c.readAccessPoint(ctx, apPath)
			record.Name = ap.SSID
			record.SSID = ap.SSID
			record.SignalStrength = ap.Strength
			record.Security = ap.Security
			record.Icon = IconForStrength(int(ap.Strength))
		}
	}

	record.IPAddress = c.ipv4Address(ctx, dev)
	record.IsConnected = state == ActiveConnectionStateActivated && c.prober.Reachable(ctx)

	if devType == DeviceTypeEthernet {
		record.Icon = IconWiredDisconnected
		if record.IsConnected {
			record.Icon = IconWiredConnected
		}
	}

	c.log.Debug().
		Str("name", record.Name).
		Str("kind", record.ConnectionKind).
		Bool("connected", record.IsConnected).
		Msg("Resolved current network")
	return record, nil
}

func kindForDeviceType(t uint32) string {
	switch t {
	case DeviceTypeWifi:
		return ConnectionTypeWifi
	case DeviceTypeEthernet:
		return ConnectionTypeEthernet
	}
	return UnknownValue
}

func (c *Client) readAccessPoint(ctx context.Context, path dbus.ObjectPath) accessPoint {
	ap := c.object(path)
	flags := orDefault(&c.log, uint32(0))(property(ctx, ap, IfaceAccessPoint, propFlags, decodeUint32))
	wpa := orDefault(&c.log, uint32(0))(property(ctx, ap, IfaceAccessPoint, propWpaFlags, decodeUint32))
	rsn := orDefault(&c.log, uint32(0))(property(ctx, ap, IfaceAccessPoint, propRsnFlags, decodeUint32))
	hint, hintErr := property(ctx, ap, IfaceAccessPoint, propKeyMgmt, decodeString)

	return accessPoint{
		SSID:     orDefault(&c.log, "")(property(ctx, ap, IfaceAccessPoint, propSsid, decodeSSID)),
		Strength: orDefault(&c.log, uint8(0))(property(ctx, ap, IfaceAccessPoint, propStrength, decodeUint8)),
		Security: ClassifySecurity(flags, wpa, rsn, hint, hintErr == nil),
	}
}

// ipv4Address returns the first IPv4 address of a device, or the unset
// sentinel.
func (c *Client) ipv4Address(ctx context.Context, dev object) string {
	cfgPath, err := property(ctx, dev, IfaceDevice, propIp4Config, decodeObjectPath)
	if err != nil || cfgPath == placeholderPath || cfgPath == "" {
		return UnsetIPAddress
	}
	cfg := c.object(cfgPath)
	addrs, err := property(ctx, cfg, IfaceIP4Config, propAddresses, decodeIPv4Addresses)
	if err != nil || len(addrs) == 0 {
		addrs = orDefault(&c.log, []string(nil))(property(ctx, cfg, IfaceIP4Config, propAddressData, decodeAddressData))
	}
	if len(addrs) == 0 {
		return UnsetIPAddress
	}
	return addrs[0]
}
