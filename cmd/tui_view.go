package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"nmnet/gonetworkmanager"
	"nmnet/netstats"
)

// =============================================================================
// View
// =============================================================================

func (m model) View() string {
	availableWidth := m.width - appStyle.GetHorizontalFrameSize()

	header := m.headerView(availableWidth)
	m.keys.currentState = m.state
	helpText := m.help.View(m.keys)
	footer := m.footerView(availableWidth, helpText)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - appStyle.GetVerticalFrameSize() - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	var content string
	switch m.state {
	case viewNetworksList:
		content = m.renderNetworksList(availableWidth, contentHeight)
	case viewKnownNetworksList:
		content = m.renderKnownNetworksList(availableWidth, contentHeight)
	case viewPasswordInput:
		content = m.renderPasswordInput(availableWidth, contentHeight)
	case viewUsernameInput:
		content = m.renderUsernameInput(availableWidth, contentHeight)
	case viewHiddenNetworkInput:
		content = m.renderHiddenNetworkInput(availableWidth, contentHeight)
	case viewConnecting:
		content = m.renderConnecting(availableWidth, contentHeight)
	case viewConnectionResult:
		content = m.renderConnectionResult(availableWidth, contentHeight)
	case viewActiveConnectionInfo:
		content = m.activeConnInfoViewport.View()
	case viewConfirmDisconnect:
		content = m.renderConfirmDialog("Disconnect from", availableWidth, contentHeight)
	case viewConfirmForget:
		content = m.renderConfirmDialog("Forget network", availableWidth, contentHeight)
	case viewConfirmOpenNetwork:
		content = m.renderConfirmOpenNetwork(availableWidth, contentHeight)
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Top, header, content, footer))
}

func (m model) headerView(width int) string {
	title := titleStyle.Render(appName)

	scanIndicator := ""
	if m.isScanning {
		scanIndicator = connectingStyle.Render(" " + m.spinner.View() + " Scanning...")
	}

	var status string
	switch {
	case !m.radioPresent && !m.isLoading:
		status = "Wi-Fi: " + wifiStatusDisabled.Render("No device")
	case m.wifiEnabled:
		status = "Wi-Fi: " + wifiStatusEnabled.Render("Enabled ✔")
	default:
		status = "Wi-Fi: " + wifiStatusDisabled.Render("Disabled ✘")
	}
	if m.current.ConnectionKind != gonetworkmanager.UnknownValue && !m.current.IsConnected {
		status += " " + warningStyle.UnsetMarginTop().Render("(no internet)")
	}

	titleWidth := lipgloss.Width(title)
	statusWidth := lipgloss.Width(status)
	scanWidth := lipgloss.Width(scanIndicator)

	totalWidth := titleWidth + statusWidth + scanWidth
	if totalWidth >= width {
		spacing := width - titleWidth - statusWidth
		if spacing < 1 {
			spacing = 1
		}
		return lipgloss.JoinHorizontal(lipgloss.Left, title, strings.Repeat(" ", spacing), status)
	}

	remainingSpace := width - totalWidth
	leftSpace := remainingSpace / 2
	rightSpace := remainingSpace - leftSpace
	if leftSpace < 1 {
		leftSpace = 1
	}
	if rightSpace < 1 {
		rightSpace = 1
	}

	return lipgloss.JoinHorizontal(lipgloss.Left,
		title,
		strings.Repeat(" ", leftSpace),
		scanIndicator,
		strings.Repeat(" ", rightSpace),
		status)
}

func (m model) footerView(width int, helpText string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, helpGlobalStyle.Render(helpText))
}

func (m model) renderNetworksList(width, _ int) string {
	listView := m.wifiList.View()

	if m.isFiltering {
		filterView := filterInputStyle.Render(m.filterInput.View())
		listView = lipgloss.JoinVertical(lipgloss.Top, listView, "", filterView)
	}

	listView = lipgloss.PlaceHorizontal(width, lipgloss.Center, listView)

	if m.connectionStatusMsg != "" && !m.isLoading {
		listView = lipgloss.JoinVertical(lipgloss.Top, listView, m.connectionStatusMsg)
	}
	return listView
}

func (m model) renderKnownNetworksList(width, height int) string {
	if m.isLoading {
		spinnerView := lipgloss.JoinHorizontal(lipgloss.Left, m.spinner.View()+" ", m.knownWifiList.Title)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, spinnerView)
	}

	listView := lipgloss.PlaceHorizontal(width, lipgloss.Center, m.knownWifiList.View())
	if m.connectionStatusMsg != "" {
		listView = lipgloss.JoinVertical(lipgloss.Top, listView, m.connectionStatusMsg)
	}
	return listView
}

// renderInputBox centers prompt over one text input.
func (m model) renderInputBox(prompt, input string, inputWidth, width, height int) string {
	promptWidth := inputWidth + passwordInputContainerStyle.GetHorizontalFrameSize() + 4
	if promptWidth > width*4/5 {
		promptWidth = width * 4 / 5
	}
	if promptWidth < passwordInputMinWidth {
		promptWidth = passwordInputMinWidth
	}

	centeredPrompt := lipgloss.NewStyle().Width(promptWidth).Align(lipgloss.Center).Render(prompt)
	block := lipgloss.JoinVertical(lipgloss.Top, centeredPrompt, input)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, passwordInputContainerStyle.Render(block))
}

func (m model) renderPasswordInput(width, height int) string {
	prompt := fmt.Sprintf("Password for %s (%s):", m.selectedAP.DisplaySSID(), m.selectedAP.Security.Label())
	if m.connectionStatusMsg != "" {
		prompt = m.connectionStatusMsg
	}
	inputView := m.passwordInput.View()
	if m.passwordInput.Err != nil {
		inputView = lipgloss.JoinVertical(lipgloss.Top, inputView, errorStyle.Render(m.passwordInput.Err.Error()))
	}
	return m.renderInputBox(prompt, inputView,
		m.passwordInput.Width+lipgloss.Width(m.passwordInput.Prompt), width, height)
}

func (m model) renderUsernameInput(width, height int) string {
	prompt := fmt.Sprintf("%s uses enterprise authentication. Identity:", m.selectedAP.DisplaySSID())
	if m.connectionStatusMsg != "" {
		prompt = m.connectionStatusMsg
	}
	return m.renderInputBox(prompt, m.usernameInput.View(),
		m.usernameInput.Width+lipgloss.Width(m.usernameInput.Prompt), width, height)
}

func (m model) renderHiddenNetworkInput(width, height int) string {
	prompt := "Enter the name of the hidden network:"
	if m.connectionStatusMsg != "" {
		prompt = m.connectionStatusMsg
	}
	return m.renderInputBox(prompt, m.hiddenSSIDInput.View(),
		m.hiddenSSIDInput.Width+lipgloss.Width(m.hiddenSSIDInput.Prompt), width, height)
}

func (m model) renderConnecting(width, height int) string {
	content := connectingStyle.Render(fmt.Sprintf("\n%s %s\n", m.spinner.View(), m.connectionStatusMsg))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m model) renderConnectionResult(width, height int) string {
	msgWidth := width * 3 / 4
	if msgWidth > 80 {
		msgWidth = 80
	}
	if msgWidth < 40 {
		msgWidth = 40
	}

	border := colorError
	if m.lastConnectionWasSuccessful {
		border = colorSuccess
	}
	wrappedMsg := lipgloss.NewStyle().Width(msgWidth).Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1).
		Render(m.connectionStatusMsg)
	hint := lipgloss.NewStyle().Foreground(colorFaint).Render("(Press Enter or Esc to return)")

	content := lipgloss.JoinVertical(lipgloss.Center, wrappedMsg, "", hint)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m model) renderConfirmDialog(action string, width, height int) string {
	message := fmt.Sprintf("%s\n%s?", action, m.selectedAP.DisplaySSID())
	hint := lipgloss.NewStyle().Foreground(colorFaint).Render("(Enter to confirm, Esc to cancel)")

	content := lipgloss.JoinVertical(lipgloss.Center, message, "", hint)
	if m.isLoading && m.connectionStatusMsg != "" {
		content = lipgloss.JoinVertical(lipgloss.Center, content, m.spinner.View()+" "+m.connectionStatusMsg)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m model) renderConfirmOpenNetwork(width, height int) string {
	warning := warningStyle.Render("⚠️  This is an open (unencrypted) network")
	message := fmt.Sprintf("Connect to %s?", m.selectedAP.DisplaySSID())
	hint := lipgloss.NewStyle().Foreground(colorFaint).Render("(Enter to confirm, Esc to cancel)")

	content := lipgloss.JoinVertical(lipgloss.Center, warning, "", message, "", hint)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func formatConnectionDetails(rec gonetworkmanager.NetworkRecord, stats *netstats.Stats, link *netstats.LinkInfo) string {
	internet := "No"
	if rec.IsConnected {
		internet = "Yes"
	}

	lines := []string{
		fmt.Sprintf("Connection:  %s", rec.Name),
		fmt.Sprintf("Type:        %s", kindLabel(rec.ConnectionKind)),
		fmt.Sprintf("Device:      %s", valueOr(rec.Interface, gonetworkmanager.UnknownValue)),
		fmt.Sprintf("MAC Address: %s", rec.MACAddress),
		fmt.Sprintf("IPv4:        %s", rec.IPAddress),
		fmt.Sprintf("Internet:    %s", internet),
	}

	if rec.IsWireless() {
		lines = append(lines, "",
			"Wi-Fi:",
			fmt.Sprintf("  SSID:      %s", rec.SSID),
			fmt.Sprintf("  Signal:    %d%%", rec.SignalStrength),
			fmt.Sprintf("  Security:  %s", rec.Security.Label()))
		if link != nil {
			if link.BSSID != "" {
				lines = append(lines, fmt.Sprintf("  BSSID:     %s", link.BSSID))
			}
			lines = append(lines,
				fmt.Sprintf("  Band:      %s (%d MHz)", link.Band(), link.FrequencyMHz),
				fmt.Sprintf("  RSSI:      %d dBm", link.SignalDBm),
				fmt.Sprintf("  Bitrate:   %s rx / %s tx",
					humanize.SIWithDigits(float64(link.ReceiveRate), 1, "b/s"),
					humanize.SIWithDigits(float64(link.TransmitRate), 1, "b/s")))
		}
	}

	if stats != nil {
		lines = append(lines, "",
			"Traffic:",
			fmt.Sprintf("  Download:  %s/s (%s total)", humanize.Bytes(stats.DownloadSpeed), humanize.Bytes(stats.TotalDownloaded)),
			fmt.Sprintf("  Upload:    %s/s (%s total)", humanize.Bytes(stats.UploadSpeed), humanize.Bytes(stats.TotalUploaded)),
			fmt.Sprintf("  Sampled:   %s", stats.Duration.Round(1e9)))
	}

	return strings.Join(lines, "\n")
}

func kindLabel(kind string) string {
	switch kind {
	case gonetworkmanager.ConnectionTypeWifi:
		return "Wi-Fi"
	case gonetworkmanager.ConnectionTypeEthernet:
		return "Ethernet"
	default:
		return kind
	}
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
