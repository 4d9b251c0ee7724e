package gonetworkmanager

import (
	"context"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListVisibleDedupesAndSorts(t *testing.T) {
	bus := newFakeBus()
	bus.setActive()
	bus.addAP(apPath("1"), testAP{ssid: "Cafe", strength: 40, flags: 0x1})
	bus.addAP(apPath("2"), testAP{ssid: "Office", strength: 90, rsn: 0x100, wpa: 0x100})
	bus.addAP(apPath("3"), testAP{ssid: "Cafe", strength: 80, flags: 0x1})
	bus.addAP(apPath("4"), testAP{ssid: "Legacy", strength: 10, flags: 0x2})
	bus.addWifiDevice(testWifiDev, "aa:bb:cc:dd:ee:ff", "wlan0", apPath("1"), apPath("2"), apPath("3"), apPath("4"))
	bus.set(testEthDev, IfaceDevice, propDeviceType, DeviceTypeEthernet)
	bus.setDevices(testEthDev, testWifiDev)

	networks, err := newTestClient(bus).ListVisible(context.Background())
	require.NoError(t, err)
	require.Len(t, networks, 3)

	assert.Equal(t, "Office", networks[0].SSID)
	assert.Equal(t, SecurityWPA2PSK, networks[0].Security)
	// First sighting of a duplicate SSID wins.
	assert.Equal(t, "Cafe", networks[1].SSID)
	assert.Equal(t, uint8(40), networks[1].SignalStrength)
	assert.Equal(t, SecurityNone, networks[1].Security)
	assert.Equal(t, "Legacy", networks[2].SSID)
	assert.Equal(t, SecurityWEP, networks[2].Security)

	for _, n := range networks {
		assert.Equal(t, ConnectionTypeWifi, n.ConnectionKind)
		assert.Equal(t, "aa:bb:cc:dd:ee:ff", n.MACAddress)
		assert.Equal(t, UnsetIPAddress, n.IPAddress)
		assert.False(t, n.IsConnected)
	}
	assert.Equal(t, IconWifiSignalExcellent, networks[0].Icon)
	assert.Equal(t, IconWifiSignalWeak, networks[2].Icon)
}

func TestListVisibleSortedForAnyOrder(t *testing.T) {
	strengths := map[string]uint8{"1": 55, "2": 90, "3": 10, "4": 55, "5": 73}
	orders := [][]string{
		{"1", "2", "3", "4", "5"},
		{"5", "4", "3", "2", "1"},
		{"3", "1", "5", "2", "4"},
		{"2", "5", "4", "1", "3"},
	}

	for _, order := range orders {
		bus := newFakeBus()
		bus.setActive()
		paths := make([]dbus.ObjectPath, 0, len(order))
		for _, n := range order {
			bus.addAP(apPath(n), testAP{ssid: "net-" + n, strength: strengths[n], flags: 0x1})
			paths = append(paths, apPath(n))
		}
		bus.addWifiDevice(testWifiDev, "aa:bb:cc:dd:ee:ff", "wlan0", paths...)
		bus.setDevices(testWifiDev)

		networks, err := newTestClient(bus).ListVisible(context.Background())
		require.NoError(t, err)
		require.Len(t, networks, len(order), "order %v", order)
		for i := 1; i < len(networks); i++ {
			assert.GreaterOrEqual(t, networks[i-1].SignalStrength, networks[i].SignalStrength, "order %v", order)
		}
	}
}

func TestListVisibleMarksCurrentNetwork(t *testing.T) {
	bus := newFakeBus()
	bus.addAP(apPath("1"), testAP{ssid: "HomeNet", strength: 60, rsn: 0x100})
	bus.addAP(apPath("2"), testAP{ssid: "Neighbour", strength: 70, wpa: 0x100})
	bus.addWifiDevice(testWifiDev, "aa:bb:cc:dd:ee:ff", "wlan0", apPath("1"), apPath("2"))
	bus.set(testWifiDev, IfaceDeviceWireless, propActiveAccessPoint, apPath("1"))
	bus.setDevices(testWifiDev)
	bus.activate(testWifiDev, "HomeNet", ConnectionTypeWifi, "192.168.1.20")

	networks, err := newTestClient(bus).ListVisible(context.Background())
	require.NoError(t, err)
	require.Len(t, networks, 2)

	assert.Equal(t, "Neighbour", networks[0].SSID)
	assert.False(t, networks[0].IsConnected)
	assert.Equal(t, UnsetIPAddress, networks[0].IPAddress)

	assert.Equal(t, "HomeNet", networks[1].SSID)
	assert.True(t, networks[1].IsConnected)
	assert.Equal(t, "192.168.1.20", networks[1].IPAddress)
}

func TestListVisibleNoWifiDevice(t *testing.T) {
	bus := newFakeBus()
	bus.setActive()
	bus.set(testEthDev, IfaceDevice, propDeviceType, DeviceTypeEthernet)
	bus.setDevices(testEthDev)

	c := newTestClient(bus)
	networks, err := c.ListVisible(context.Background())
	require.NoError(t, err)
	assert.Empty(t, networks)

	available, err := c.RadioAvailable(context.Background())
	require.NoError(t, err)
	assert.False(t, available)
}

func TestRadioAvailable(t *testing.T) {
	bus := newFakeBus()
	bus.addWifiDevice(testWifiDev, "aa:bb:cc:dd:ee:ff", "wlan0")
	bus.setDevices(testWifiDev)

	available, err := newTestClient(bus).RadioAvailable(context.Background())
	require.NoError(t, err)
	assert.True(t, available)
}

func TestListVisibleTransportFailure(t *testing.T) {
	bus := newFakeBus()
	bus.down = true

	_, err := newTestClient(bus).ListVisible(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}
