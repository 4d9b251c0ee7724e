package gonetworkmanager

import "fmt"

// SecurityType is the security scheme of a Wi-Fi network.
type SecurityType int

const (
	SecurityNone SecurityType = iota
	SecurityWEP
	SecurityWPAPSK
	SecurityWPAEAP
	SecurityWPA2PSK
	SecurityWPA3PSK
)

var securityNames = [...]string{
	SecurityNone:    "none",
	SecurityWEP:     "wep",
	SecurityWPAPSK:  "wpa-psk",
	SecurityWPAEAP:  "wpa-eap",
	SecurityWPA2PSK: "wpa2-psk",
	SecurityWPA3PSK: "wpa3-psk",
}

func (s SecurityType) valid() bool {
	return s >= SecurityNone && int(s) < len(securityNames)
}

func (s SecurityType) String() string {
	if !s.valid() {
		return fmt.Sprintf("SecurityType(%d)", int(s))
	}
	return securityNames[s]
}

// Label is the human readable form shown in lists.
func (s SecurityType) Label() string {
	switch s {
	case SecurityNone:
		return "Open"
	case SecurityWEP:
		return "WEP"
	case SecurityWPAPSK:
		return "WPA"
	case SecurityWPAEAP:
		return "WPA Enterprise"
	case SecurityWPA2PSK:
		return "WPA2"
	case SecurityWPA3PSK:
		return "WPA3"
	}
	return s.String()
}

// IsOpen reports whether the network needs no credentials.
func (s SecurityType) IsOpen() bool { return s == SecurityNone }

func (s SecurityType) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSecurity, int(s))
	}
	return []byte(securityNames[s]), nil
}

func (s *SecurityType) UnmarshalText(text []byte) error {
	parsed, err := ParseSecurityType(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSecurityType parses the kebab-case name of a security type.
func ParseSecurityType(name string) (SecurityType, error) {
	for i, n := range securityNames {
		if n == name {
			return SecurityType(i), nil
		}
	}
	return SecurityNone, fmt.Errorf("%w: %q", ErrUnsupportedSecurity, name)
}

// ClassifySecurity derives the security type of an access point. A
// key-management hint, when present, wins over the flag words.
func ClassifySecurity(flags, wpaFlags, rsnFlags uint32, keyMgmt string, hasHint bool) SecurityType {
	if hasHint {
		return securityFromKeyMgmt(keyMgmt)
	}
	switch {
	case flags&apFlagNone != 0:
		return SecurityNone
	case flags&apFlagPrivacy != 0:
		return SecurityWEP
	case wpaFlags != 0 && rsnFlags == 0:
		return SecurityWPAPSK
	case rsnFlags != 0:
		if wpaFlags != 0 {
			return SecurityWPA2PSK
		}
		return SecurityWPA3PSK
	}
	return SecurityNone
}

func securityFromKeyMgmt(keyMgmt string) SecurityType {
	switch keyMgmt {
	case "none":
		return SecurityNone
	case "wpa-psk":
		return SecurityWPAPSK
	case "wpa-eap":
		return SecurityWPAEAP
	case "sae":
		return SecurityWPA3PSK
	default:
		return SecurityNone
	}
}
