package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nmnet/gonetworkmanager"
	"nmnet/netstats"
)

func withJSON(t *testing.T, on bool) {
	t.Helper()
	prev := flagJSON
	flagJSON = on
	t.Cleanup(func() { flagJSON = prev })
}

func TestWriteNetworksJSON(t *testing.T) {
	withJSON(t, true)

	var buf bytes.Buffer
	require.NoError(t, writeNetworks(&buf, nil, true))
	assert.JSONEq(t, "[]", buf.String())

	buf.Reset()
	rec := wifiRecord("home", 70, gonetworkmanager.SecurityWPA2PSK)
	require.NoError(t, writeNetworks(&buf, []gonetworkmanager.NetworkRecord{rec}, true))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "home", got[0]["ssid"])
	assert.Equal(t, "wpa2-psk", got[0]["security"])
	assert.EqualValues(t, 70, got[0]["signalStrength"])
}

func TestWriteNetworksTable(t *testing.T) {
	withJSON(t, false)

	var buf bytes.Buffer
	require.NoError(t, writeNetworks(&buf, nil, true))
	assert.Equal(t, "No networks.\n", buf.String())

	buf.Reset()
	connected := wifiRecord("home", 70, gonetworkmanager.SecurityWPA2PSK)
	connected.IsConnected = true
	recs := []gonetworkmanager.NetworkRecord{connected, wifiRecord("cafe", 30, gonetworkmanager.SecurityNone)}
	require.NoError(t, writeNetworks(&buf, recs, true))

	out := buf.String()
	assert.Contains(t, out, "SSID")
	assert.Contains(t, out, "home")
	assert.Contains(t, out, "WPA2")
	assert.Contains(t, out, "30%")
	assert.Contains(t, out, "Open")

	assert.True(t, tableStyle(0, 1).GetBold())
	assert.False(t, tableStyle(1, 1).GetBold())
	assert.False(t, tableStyle(2, 0).GetBold())
}

func TestWriteRecord(t *testing.T) {
	withJSON(t, false)

	var buf bytes.Buffer
	require.NoError(t, writeRecord(&buf, gonetworkmanager.Disconnected()))
	assert.Contains(t, buf.String(), gonetworkmanager.UnknownValue)
	assert.NotContains(t, buf.String(), "SSID")

	buf.Reset()
	rec := wifiRecord("home", 55, gonetworkmanager.SecurityWPA3PSK)
	rec.Interface = "wlan0"
	require.NoError(t, writeRecord(&buf, rec))
	assert.Contains(t, buf.String(), "wlan0")
	assert.Contains(t, buf.String(), "55%")
	assert.Contains(t, buf.String(), "WPA3")
}

func TestWriteChangeJSONLine(t *testing.T) {
	withJSON(t, true)

	var buf bytes.Buffer
	rec := wifiRecord("home", 55, gonetworkmanager.SecurityWPA2PSK)
	require.NoError(t, writeChange(&buf, rec))
	require.NoError(t, writeChange(&buf, gonetworkmanager.Disconnected()))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var ev changeEvent
	require.NoError(t, json.Unmarshal(lines[0], &ev))
	assert.Equal(t, gonetworkmanager.EventNetworkChanged, ev.Event)
	assert.Equal(t, rec, ev.Network)
}

func TestWriteStats(t *testing.T) {
	withJSON(t, false)

	var buf bytes.Buffer
	s := netstats.Stats{Interface: "wlan0", DownloadSpeed: 2000, TotalDownloaded: 3_000_000, Duration: time.Minute}
	require.NoError(t, writeStats(&buf, s))
	assert.Contains(t, buf.String(), "wlan0")
	assert.Contains(t, buf.String(), "2.0 kB/s")
	assert.Contains(t, buf.String(), "3.0 MB")
}

func TestFormatConnectionDetails(t *testing.T) {
	rec := wifiRecord("home", 64, gonetworkmanager.SecurityWPA2PSK)
	rec.IsConnected = true
	rec.IPAddress = "192.168.1.20"
	rec.Interface = "wlan0"

	out := formatConnectionDetails(rec,
		&netstats.Stats{DownloadSpeed: 1000, Duration: 3 * time.Second},
		&netstats.LinkInfo{BSSID: "aa:bb:cc:dd:ee:ff", FrequencyMHz: 5180, SignalDBm: -60})
	assert.Contains(t, out, "Type:        Wi-Fi")
	assert.Contains(t, out, "192.168.1.20")
	assert.Contains(t, out, "Internet:    Yes")
	assert.Contains(t, out, "Signal:    64%")
	assert.Contains(t, out, "1.0 kB/s")
	assert.Contains(t, out, "5 GHz (5180 MHz)")
	assert.Contains(t, out, "-60 dBm")

	wired := gonetworkmanager.Disconnected()
	wired.ConnectionKind = gonetworkmanager.ConnectionTypeEthernet
	out = formatConnectionDetails(wired, nil, nil)
	assert.Contains(t, out, "Ethernet")
	assert.NotContains(t, out, "Traffic")
}
