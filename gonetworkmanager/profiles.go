package gonetworkmanager

import (
	"context"

	"github.com/godbus/dbus/v5"
)

type savedProfile struct {
	path     dbus.ObjectPath
	settings Settings
}

// ListSaved returns a record for every stored Wi-Fi profile. Only the
// name, SSID and security of each record are meaningful.
func (c *Client) ListSaved(ctx context.Context) ([]NetworkRecord, error) {
	profiles, err := c.wifiProfiles(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]NetworkRecord, 0, len(profiles))
	for _, p := range profiles {
		records = append(records, savedRecord(p.settings))
	}
	c.log.Debug().Int("count", len(records)).Msg("Listed saved profiles")
	return records, nil
}

func savedRecord(s Settings) NetworkRecord {
	record := Disconnected()
	record.ConnectionKind = ConnectionTypeWifi
	record.Icon = IconWifiSignalNone
	if id, ok := s.StringValue(settingConnection, keyID); ok {
		record.Name = id
	}
	if ssid, ok := s.SSID(); ok {
		record.SSID = ssid
	}
	keyMgmt, hasHint := s.StringValue(settingWirelessSecurity, keyKeyMgmt)
	record.Security = ClassifySecurity(0, 0, 0, keyMgmt, hasHint)
	return record
}

// DeleteSaved removes the first stored Wi-Fi profile whose SSID matches.
// It reports false, without touching anything, when none matches.
func (c *Client) DeleteSaved(ctx context.Context, ssid string) (bool, error) {
	p, found, err := c.findProfile(ctx, ssid)
	if err != nil || !found {
		return false, err
	}

	c.log.Info().Str("ssid", ssid).Str("profile", string(p.path)).Msg("Deleting saved profile")
	if _, err := c.object(p.path).call(ctx, methodDelete); err != nil {
		return false, wrapCallError("delete connection", err)
	}
	return true, nil
}

// ActivateSaved activates the first stored Wi-Fi profile whose SSID
// matches, using the secrets stored with it. It reports false when no
// profile matches.
func (c *Client) ActivateSaved(ctx context.Context, ssid string) (bool, error) {
	p, found, err := c.findProfile(ctx, ssid)
	if err != nil || !found {
		return false, err
	}

	c.log.Info().Str("ssid", ssid).Str("profile", string(p.path)).Msg("Activating saved profile")
	if _, err := c.root.call(ctx, methodActivateConnection, p.path, placeholderPath, placeholderPath); err != nil {
		return false, wrapCallError("activate connection", err)
	}
	return true, nil
}

func (c *Client) findProfile(ctx context.Context, ssid string) (savedProfile, bool, error) {
	profiles, err := c.wifiProfiles(ctx)
	if err != nil {
		return savedProfile{}, false, err
	}
	for _, p := range profiles {
		if got, ok := p.settings.SSID(); ok && got == ssid {
			return p, true, nil
		}
	}
	c.log.Debug().Str("ssid", ssid).Msg("No saved profile matches")
	return savedProfile{}, false, nil
}

func (c *Client) wifiProfiles(ctx context.Context) ([]savedProfile, error) {
	body, err := c.object(SettingsPath).call(ctx, methodListConnections)
	if err != nil {
		return nil, wrapCallError("list connections", err)
	}
	var paths []dbus.ObjectPath
	if err := dbus.Store(body, &paths); err != nil {
		c.log.Warn().Err(err).Msg("Unexpected ListConnections reply")
		return nil, nil
	}

	var profiles []savedProfile
	for _, p := range paths {
		reply, err := c.object(p).call(ctx, methodGetSettings)
		if err != nil {
			c.log.Debug().Err(err).Str("profile", string(p)).Msg("Skipping unreadable profile")
			continue
		}
		settings, err := decodeSettings(reply)
		if err != nil {
			c.log.Debug().Err(err).Str("profile", string(p)).Msg("Skipping undecodable profile")
			continue
		}
		if kind, _ := settings.StringValue(settingConnection, keyType); kind != ConnectionTypeWifi {
			continue
		}
		profiles = append(profiles, savedProfile{path: p, settings: settings})
	}
	return profiles, nil
}
