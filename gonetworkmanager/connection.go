package gonetworkmanager

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// BuildSettings translates a request into NetworkManager's settings schema.
func BuildSettings(req ConnectionRequest) (SettingsPayload, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	settings := SettingsPayload{
		settingConnection: {
			keyID:   dbus.MakeVariant(req.SSID),
			keyType: dbus.MakeVariant(ConnectionTypeWifi),
		},
		settingWireless: {
			keySSID: dbus.MakeVariant([]byte(req.SSID)),
			keyMode: dbus.MakeVariant(modeInfrastructure),
		},
	}

	sec := map[string]dbus.Variant{}
	switch req.Security {
	case SecurityNone:
	case SecurityWEP:
		sec[keyKeyMgmt] = dbus.MakeVariant("none")
		if req.Password != nil {
			sec[keyWEPKey0] = dbus.MakeVariant(*req.Password)
		}
	case SecurityWPAPSK:
		sec[keyKeyMgmt] = dbus.MakeVariant("wpa-psk")
		if req.Password != nil {
			sec[keyPSK] = dbus.MakeVariant(*req.Password)
		}
	case SecurityWPAEAP:
		sec[keyKeyMgmt] = dbus.MakeVariant("wpa-eap")
		eap := map[string]dbus.Variant{
			keyEAP:    dbus.MakeVariant([]string{"peap"}),
			keyPhase2: dbus.MakeVariant("mschapv2"),
		}
		if req.Username != nil {
			eap[keyIdentity] = dbus.MakeVariant(*req.Username)
		}
		if req.Password != nil {
			eap[keyPassword] = dbus.MakeVariant(*req.Password)
		}
		settings[setting8021x] = eap
	case SecurityWPA2PSK:
		sec[keyKeyMgmt] = dbus.MakeVariant("wpa-psk")
		sec[keyProto] = dbus.MakeVariant([]string{"rsn"})
		if req.Password != nil {
			sec[keyPSK] = dbus.MakeVariant(*req.Password)
		}
	case SecurityWPA3PSK:
		sec[keyKeyMgmt] = dbus.MakeVariant("sae")
		if req.Password != nil {
			sec[keyPSK] = dbus.MakeVariant(*req.Password)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSecurity, req.Security)
	}
	if len(sec) > 0 {
		settings[settingWirelessSecurity] = sec
	}
	return settings, nil
}

// Connect adds a profile for the request and activates it. Device and
// access point are left for NetworkManager to choose.
func (c *Client) Connect(ctx context.Context, req ConnectionRequest) error {
	settings, err := BuildSettings(req)
	if err != nil {
		return err
	}

	c.log.Info().Str("ssid", req.SSID).Str("security", req.Security.String()).Msg("Adding and activating connection")
	body, err := c.root.call(ctx, methodAddAndActivateConnection,
		map[string]map[string]dbus.Variant(settings), placeholderPath, placeholderPath)
	if err != nil {
		c.log.Error().Err(err).Str("ssid", req.SSID).Msg("AddAndActivateConnection failed")
		return wrapCallError("add and activate connection", err)
	}

	var profile, active dbus.ObjectPath
	if err := dbus.Store(body, &profile, &active); err == nil {
		c.log.Debug().Str("profile", string(profile)).Str("active", string(active)).Msg("Connection activating")
	}
	return nil
}

// Disconnect deactivates the first active connection. With nothing
// active it does nothing.
func (c *Client) Disconnect(ctx context.Context) error {
	active, err := property(ctx, c.root, IfaceNetworkManager, propActiveConnections, decodeObjectPaths)
	if err != nil {
		return wrapCallError("read active connections", err)
	}
	if len(active) == 0 {
		c.log.Debug().Msg("Disconnect requested with no active connection")
		return nil
	}

	c.log.Info().Str("connection", string(active[0])).Msg("Deactivating connection")
	if _, err := c.root.call(ctx, methodDeactivateConnection, active[0]); err != nil {
		return wrapCallError("deactivate connection", err)
	}
	return nil
}

// SetRadioEnabled switches the Wi-Fi radio.
func (c *Client) SetRadioEnabled(ctx context.Context, enabled bool) error {
	c.log.Info().Bool("enabled", enabled).Msg("Setting Wi-Fi radio")
	err := c.bus.SetProperty(ctx, RootPath, IfaceNetworkManager, propWirelessEnabled, enabled)
	return wrapCallError("set wireless enabled", err)
}

func (c *Client) RadioEnabled(ctx context.Context) (bool, error) {
	enabled, err := property(ctx, c.root, IfaceNetworkManager, propWirelessEnabled, decodeBool)
	if err != nil {
		return false, wrapCallError("read wireless enabled", err)
	}
	return enabled, nil
}

// SetNetworkingEnabled turns all networking on or off.
func (c *Client) SetNetworkingEnabled(ctx context.Context, enabled bool) error {
	c.log.Info().Bool("enabled", enabled).Msg("Setting networking")
	_, err := c.root.call(ctx, methodEnable, enabled)
	return wrapCallError("enable networking", err)
}

func (c *Client) NetworkingEnabled(ctx context.Context) (bool, error) {
	enabled, err := property(ctx, c.root, IfaceNetworkManager, propNetworkingEnabled, decodeBool)
	if err != nil {
		return false, wrapCallError("read networking enabled", err)
	}
	return enabled, nil
}
