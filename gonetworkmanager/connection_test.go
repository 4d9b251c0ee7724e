package gonetworkmanager

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupString(t *testing.T, s Settings, group, key string) string {
	t.Helper()
	v, ok := s.StringValue(group, key)
	require.True(t, ok, "%s.%s missing", group, key)
	return v
}

func TestBuildSettingsOpen(t *testing.T) {
	s, err := BuildSettings(ConnectionRequest{SSID: "Cafe", Security: SecurityNone})
	require.NoError(t, err)

	assert.Equal(t, "Cafe", groupString(t, s, settingConnection, keyID))
	assert.Equal(t, "802-11-wireless", groupString(t, s, settingConnection, keyType))
	assert.Equal(t, "infrastructure", groupString(t, s, settingWireless, keyMode))
	ssid, ok := s.Value(settingWireless, keySSID)
	require.True(t, ok)
	assert.Equal(t, []byte("Cafe"), ssid.Value())

	assert.NotContains(t, s, settingWirelessSecurity)
	assert.NotContains(t, s, setting8021x)
}

func TestBuildSettingsSecurity(t *testing.T) {
	tests := []struct {
		name     string
		security SecurityType
		keyMgmt  string
		secret   string
		proto    []string
	}{
		{name: "wep", security: SecurityWEP, keyMgmt: "none", secret: keyWEPKey0},
		{name: "wpa", security: SecurityWPAPSK, keyMgmt: "wpa-psk", secret: keyPSK},
		{name: "wpa2", security: SecurityWPA2PSK, keyMgmt: "wpa-psk", secret: keyPSK, proto: []string{"rsn"}},
		{name: "wpa3", security: SecurityWPA3PSK, keyMgmt: "sae", secret: keyPSK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := BuildSettings(ConnectionRequest{SSID: "Net", Security: tt.security, Password: StringPtr("hunter22")})
			require.NoError(t, err)

			assert.Equal(t, tt.keyMgmt, groupString(t, s, settingWirelessSecurity, keyKeyMgmt))
			assert.Equal(t, "hunter22", groupString(t, s, settingWirelessSecurity, tt.secret))
			proto, ok := s.Value(settingWirelessSecurity, keyProto)
			if tt.proto == nil {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, tt.proto, proto.Value())
			}
		})
	}
}

func TestBuildSettingsWithoutPassword(t *testing.T) {
	s, err := BuildSettings(ConnectionRequest{SSID: "Net", Security: SecurityWPA2PSK})
	require.NoError(t, err)
	_, ok := s.Value(settingWirelessSecurity, keyPSK)
	assert.False(t, ok)
}

func TestBuildSettingsEnterprise(t *testing.T) {
	s, err := BuildSettings(ConnectionRequest{
		SSID:     "Corp",
		Security: SecurityWPAEAP,
		Username: StringPtr("alice"),
		Password: StringPtr("s3cret"),
	})
	require.NoError(t, err)

	assert.Equal(t, "wpa-eap", groupString(t, s, settingWirelessSecurity, keyKeyMgmt))
	assert.Equal(t, "alice", groupString(t, s, setting8021x, keyIdentity))
	assert.Equal(t, "s3cret", groupString(t, s, setting8021x, keyPassword))
	assert.Equal(t, "mschapv2", groupString(t, s, setting8021x, keyPhase2))
	eap, ok := s.Value(setting8021x, keyEAP)
	require.True(t, ok)
	assert.Equal(t, []string{"peap"}, eap.Value())
}

func TestBuildSettingsRejectsInvalid(t *testing.T) {
	_, err := BuildSettings(ConnectionRequest{SSID: ""})
	assert.Error(t, err)

	_, err = BuildSettings(ConnectionRequest{SSID: "Net", Security: SecurityType(-1)})
	assert.ErrorIs(t, err, ErrUnsupportedSecurity)
}

func TestConnect(t *testing.T) {
	bus := newFakeBus()
	bus.handle(methodAddAndActivateConnection, func(dbus.ObjectPath, []interface{}) ([]interface{}, error) {
		return []interface{}{
			dbus.ObjectPath("/org/freedesktop/NetworkManager/Settings/7"),
			dbus.ObjectPath("/org/freedesktop/NetworkManager/ActiveConnection/9"),
		}, nil
	})

	err := newTestClient(bus).Connect(context.Background(), ConnectionRequest{
		SSID: "HomeNet", Security: SecurityWPA2PSK, Password: StringPtr("hunter22"),
	})
	require.NoError(t, err)

	calls := bus.callsTo(methodAddAndActivateConnection)
	require.Len(t, calls, 1)
	assert.Equal(t, RootPath, calls[0].Path)
	require.Len(t, calls[0].Args, 3)
	assert.Equal(t, dbus.ObjectPath("/"), calls[0].Args[1])
	assert.Equal(t, dbus.ObjectPath("/"), calls[0].Args[2])

	payload, ok := calls[0].Args[0].(map[string]map[string]dbus.Variant)
	require.True(t, ok)
	assert.Equal(t, "HomeNet", payload[settingConnection][keyID].Value())
}

func TestConnectPermissionDenied(t *testing.T) {
	bus := newFakeBus()
	bus.handle(methodAddAndActivateConnection, func(dbus.ObjectPath, []interface{}) ([]interface{}, error) {
		return nil, dbus.Error{Name: errNamePermissionDenied, Body: []interface{}{"Not authorized to control networking."}}
	})

	err := newTestClient(bus).Connect(context.Background(), ConnectionRequest{SSID: "HomeNet"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "Not authorized to control networking.", opErr.Message)
	assert.Contains(t, err.Error(), "add and activate connection")
}

func TestConnectInvalidRequestMakesNoCall(t *testing.T) {
	bus := newFakeBus()
	err := newTestClient(bus).Connect(context.Background(), ConnectionRequest{SSID: ""})
	require.Error(t, err)
	assert.Empty(t, bus.callsTo(methodAddAndActivateConnection))
}

func TestDisconnect(t *testing.T) {
	t.Run("nothing active", func(t *testing.T) {
		bus := newFakeBus()
		bus.setActive()
		require.NoError(t, newTestClient(bus).Disconnect(context.Background()))
		assert.Empty(t, bus.callsTo(methodDeactivateConnection))
	})

	t.Run("first active", func(t *testing.T) {
		bus := newFakeBus()
		second := dbus.ObjectPath("/org/freedesktop/NetworkManager/ActiveConnection/2")
		bus.setActive(testActivePath, second)
		require.NoError(t, newTestClient(bus).Disconnect(context.Background()))

		calls := bus.callsTo(methodDeactivateConnection)
		require.Len(t, calls, 1)
		assert.Equal(t, []interface{}{testActivePath}, calls[0].Args)
	})

	t.Run("transport", func(t *testing.T) {
		bus := newFakeBus()
		bus.down = true
		assert.ErrorIs(t, newTestClient(bus).Disconnect(context.Background()), ErrTransport)
	})
}

func TestRadioAndNetworkingToggles(t *testing.T) {
	bus := newFakeBus()
	c := newTestClient(bus)
	ctx := context.Background()

	require.NoError(t, c.SetRadioEnabled(ctx, false))
	enabled, err := c.RadioEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, c.SetRadioEnabled(ctx, true))
	enabled, err = c.RadioEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.Len(t, bus.sets, 2)
	assert.Equal(t, RootPath, bus.sets[0].Path)
	assert.Equal(t, propWirelessEnabled, bus.sets[0].Name)

	require.NoError(t, c.SetNetworkingEnabled(ctx, false))
	calls := bus.callsTo(methodEnable)
	require.Len(t, calls, 1)
	assert.Equal(t, []interface{}{false}, calls[0].Args)

	bus.set(RootPath, IfaceNetworkManager, propNetworkingEnabled, true)
	on, err := c.NetworkingEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestSetRadioEnabledPermissionDenied(t *testing.T) {
	bus := newFakeBus()
	bus.setErr = &dbus.Error{Name: errNamePermissionDenied, Body: []interface{}{"denied"}}

	err := newTestClient(bus).SetRadioEnabled(context.Background(), true)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
