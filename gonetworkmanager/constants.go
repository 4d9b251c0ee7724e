package gonetworkmanager

import "github.com/godbus/dbus/v5"

// --- D-Bus names ---
const (
	ServiceName  = "org.freedesktop.NetworkManager"
	RootPath     = dbus.ObjectPath("/org/freedesktop/NetworkManager")
	SettingsPath = dbus.ObjectPath("/org/freedesktop/NetworkManager/Settings")

	IfaceNetworkManager     = "org.freedesktop.NetworkManager"
	IfaceActiveConnection   = "org.freedesktop.NetworkManager.Connection.Active"
	IfaceDevice             = "org.freedesktop.NetworkManager.Device"
	IfaceDeviceWireless     = "org.freedesktop.NetworkManager.Device.Wireless"
	IfaceAccessPoint        = "org.freedesktop.NetworkManager.AccessPoint"
	IfaceIP4Config          = "org.freedesktop.NetworkManager.IP4Config"
	IfaceSettings           = "org.freedesktop.NetworkManager.Settings"
	IfaceSettingsConnection = "org.freedesktop.NetworkManager.Settings.Connection"
	IfaceProperties         = "org.freedesktop.DBus.Properties"

	methodPropertiesGet = IfaceProperties + ".Get"
	methodPropertiesSet = IfaceProperties + ".Set"

	methodAddAndActivateConnection = IfaceNetworkManager + ".AddAndActivateConnection"
	methodActivateConnection       = IfaceNetworkManager + ".ActivateConnection"
	methodDeactivateConnection     = IfaceNetworkManager + ".DeactivateConnection"
	methodEnable                   = IfaceNetworkManager + ".Enable"
	methodListConnections          = IfaceSettings + ".ListConnections"
	methodGetSettings              = IfaceSettingsConnection + ".GetSettings"
	methodDelete                   = IfaceSettingsConnection + ".Delete"

	signalStateChanged      = "StateChanged"
	signalPropertiesChanged = "PropertiesChanged"

	errNamePermissionDenied = "org.freedesktop.NetworkManager.PermissionDenied"
)

// --- Property names ---
const (
	propActiveConnections = "ActiveConnections"
	propDevices           = "Devices"
	propNetworkingEnabled = "NetworkingEnabled"
	propWirelessEnabled   = "WirelessEnabled"
	propConnectivity      = "Connectivity"

	propDeviceType = "DeviceType"
	propHwAddress  = "HwAddress"
	propIp4Config  = "Ip4Config"
	propInterface  = "Interface"

	propAccessPoints      = "AccessPoints"
	propActiveAccessPoint = "ActiveAccessPoint"

	propSsid     = "Ssid"
	propStrength = "Strength"
	propFlags    = "Flags"
	propWpaFlags = "WpaFlags"
	propRsnFlags = "RsnFlags"
	propKeyMgmt  = "KeyMgmt"

	propState = "State"
	propType  = "Type"
	propID    = "Id"

	propAddresses   = "Addresses"
	propAddressData = "AddressData"
)

// NMDeviceType values, as published by NetworkManager.
const (
	DeviceTypeEthernet uint32 = 1
	DeviceTypeWifi     uint32 = 2
)

// NMActiveConnectionState "activated".
const ActiveConnectionStateActivated uint32 = 2

// NMConnectivityState values.
const (
	ConnectivityUnknown uint32 = 0
	ConnectivityNone    uint32 = 1
	ConnectivityPortal  uint32 = 2
	ConnectivityLimited uint32 = 3
	ConnectivityFull    uint32 = 4
)

// NM80211ApFlags bits read by the security classifier.
const (
	apFlagNone    uint32 = 0x1
	apFlagPrivacy uint32 = 0x2
)

// --- Settings schema ---
const (
	ConnectionTypeWifi     = "802-11-wireless"
	ConnectionTypeEthernet = "802-3-ethernet"

	settingConnection       = "connection"
	settingWireless         = "802-11-wireless"
	settingWirelessSecurity = "802-11-wireless-security"
	setting8021x            = "802-1x"

	keyID       = "id"
	keyType     = "type"
	keySSID     = "ssid"
	keyMode     = "mode"
	keyKeyMgmt  = "key-mgmt"
	keyPSK      = "psk"
	keyWEPKey0  = "wep-key0"
	keyProto    = "proto"
	keyIdentity = "identity"
	keyPassword = "password"
	keyEAP      = "eap"
	keyPhase2   = "phase2-auth"

	modeInfrastructure = "infrastructure"
)

// placeholderPath lets NetworkManager pick the device and access point.
const placeholderPath = dbus.ObjectPath("/")
