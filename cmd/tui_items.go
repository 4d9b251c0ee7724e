package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nmnet/gonetworkmanager"
)

// =============================================================================
// List Item Delegate
// =============================================================================

type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 2 }
func (d itemDelegate) Spacing() int                            { return 1 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	ap, ok := listItem.(wifiAP)
	if !ok {
		return
	}

	var title, desc string
	if index == m.Index() {
		title = listSelectedItemStyle.Render("▸ " + ap.StyledTitle())
		desc = listSelectedDescStyle.Render("  " + ap.Description())
	} else {
		title = listItemStyle.Render("  " + ap.StyledTitle())
		desc = listDescStyle.Render("  " + ap.Description())
	}
	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// =============================================================================
// Wi-Fi Access Point Model
// =============================================================================

// wifiAP is a network row. Saved profiles that are out of range carry a
// zero signal.
type wifiAP struct {
	gonetworkmanager.NetworkRecord
	IsKnown  bool `json:"isKnown"`
	IsActive bool `json:"isActive"`
}

func (ap wifiAP) DisplaySSID() string {
	if ap.IsHidden() {
		return "<Hidden Network>"
	}
	return ap.SSID
}

func (ap wifiAP) Signal() int {
	return int(ap.SignalStrength)
}

func (ap wifiAP) IsOpen() bool {
	return ap.Security.IsOpen()
}

func (ap wifiAP) IsHidden() bool {
	return ap.SSID == "" || ap.SSID == gonetworkmanager.UnknownValue
}

func (ap wifiAP) SignalBars() string {
	signal := ap.Signal()
	faint := lipgloss.NewStyle().Foreground(colorFaint)
	switch {
	case signal >= signalExcellent:
		return signalExcellentStyle.Render("▂▄▆█")
	case signal >= signalGood:
		return signalGoodStyle.Render("▂▄▆") + faint.Render("█")
	case signal > 0:
		return signalWeakStyle.Render("▂▄") + faint.Render("▆█")
	default:
		return faint.Render("▂▄▆█")
	}
}

func (ap wifiAP) StyledTitle() string {
	title := ap.DisplaySSID()

	var indicators []string
	if ap.IsActive {
		indicators = append(indicators, lipgloss.NewStyle().Foreground(colorSuccess).Render(" ✔"))
	}
	if ap.IsKnown && !ap.IsActive {
		indicators = append(indicators, lipgloss.NewStyle().Foreground(colorAccent).Render(" ★"))
	}
	if ap.IsOpen() && ap.Signal() > 0 {
		indicators = append(indicators, lipgloss.NewStyle().Foreground(colorWarning).Render(" 🔓"))
	}

	return title + strings.Join(indicators, "")
}

func (ap wifiAP) Title() string {
	return ap.StyledTitle()
}

func (ap wifiAP) Description() string {
	labelStyle := lipgloss.NewStyle().Foreground(colorFaint)
	var parts []string

	signal := ap.Signal()
	if ap.IsKnown && signal == 0 {
		parts = append(parts, labelStyle.Render("Known (Out of Range)"))
	} else if signal > 0 {
		parts = append(parts, fmt.Sprintf("%s %s %s",
			labelStyle.Render("Signal:"),
			ap.SignalBars(),
			ap.signalPercentStyle().Render(fmt.Sprintf("%d%%", signal))))
	}

	parts = append(parts, fmt.Sprintf("%s %s",
		labelStyle.Render("Security:"),
		labelStyle.Render(ap.Security.Label())))

	if ap.IsActive && ap.IPAddress != gonetworkmanager.UnsetIPAddress {
		parts = append(parts, fmt.Sprintf("%s %s", labelStyle.Render("IP:"), labelStyle.Render(ap.IPAddress)))
	}

	return strings.Join(parts, labelStyle.Render(" │ "))
}

func (ap wifiAP) signalPercentStyle() lipgloss.Style {
	signal := ap.Signal()
	switch {
	case signal >= signalExcellent:
		return signalExcellentStyle
	case signal >= signalGood:
		return signalGoodStyle
	default:
		return signalWeakStyle
	}
}

func (ap wifiAP) FilterValue() string {
	return ap.DisplaySSID()
}

// savedToWifiAP turns a saved profile into an out-of-range row.
func savedToWifiAP(rec gonetworkmanager.NetworkRecord, current gonetworkmanager.NetworkRecord) wifiAP {
	rec.SignalStrength = 0
	return wifiAP{
		NetworkRecord: rec,
		IsKnown:       true,
		IsActive:      isActiveSSID(current, rec.SSID),
	}
}

// isActiveSSID reports whether ssid is the network of the current active
// connection, whether or not it has internet access.
func isActiveSSID(current gonetworkmanager.NetworkRecord, ssid string) bool {
	return current.IsWireless() && ssid != "" && current.SSID == ssid
}
