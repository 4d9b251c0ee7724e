package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"nmnet/config"
	"nmnet/gonetworkmanager"
	"nmnet/netstats"
)

// =============================================================================
// Constants
// =============================================================================

const (
	appName                 = "nmnet"
	cacheFileName           = "nmnet-cache.json"
	helpBarMaxWidth         = 80
	helpBarWidthPercent     = 0.80
	networkListFixedWidth   = 100
	networkListWidthPercent = 0.85
	minListHeight           = 5
	minListWidth            = 40
	passwordMaxLength       = 63 // WPA2/WPA3 max password length
	filterMaxLength         = 100
	passwordInputMaxWidth   = 60
	passwordInputMinWidth   = 40
	statusMsgTimeout        = 3 * time.Second
	connectionTimeout       = 30 * time.Second
)

// Signal strength thresholds
const (
	signalExcellent = 70
	signalGood      = 40
)

// =============================================================================
// Styles
// =============================================================================

var (
	appStyle = lipgloss.NewStyle().Margin(1, 1)

	// Color palette (ANSI colors for broad terminal support)
	colorPrimary   = lipgloss.Color("5") // Magenta/Purple
	colorSecondary = lipgloss.Color("4") // Blue
	colorAccent    = lipgloss.Color("6") // Cyan
	colorSuccess   = lipgloss.Color("2") // Green
	colorError     = lipgloss.Color("1") // Red
	colorWarning   = lipgloss.Color("3") // Yellow
	colorFaint     = lipgloss.Color("8") // Gray
	colorText      = lipgloss.Color("7") // White/Light gray

	titleStyle            = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1).MarginBottom(1)
	listTitleStyle        = lipgloss.NewStyle().Foreground(colorSecondary).Padding(0, 1).Bold(true)
	listItemStyle         = lipgloss.NewStyle().PaddingLeft(2).Foreground(colorText)
	listSelectedItemStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(colorPrimary).Bold(true)
	listDescStyle         = lipgloss.NewStyle().PaddingLeft(2).Foreground(colorFaint)
	listSelectedDescStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(colorPrimary)
	listNoItemsStyle      = lipgloss.NewStyle().Faint(true).Margin(1, 0).Align(lipgloss.Center).Foreground(colorFaint)

	statusMessageBaseStyle      = lipgloss.NewStyle().MarginTop(1)
	errorStyle                  = statusMessageBaseStyle.Foreground(colorError).Bold(true)
	successStyle                = statusMessageBaseStyle.Foreground(colorSuccess).Bold(true)
	warningStyle                = statusMessageBaseStyle.Foreground(colorWarning)
	infoStyle                   = statusMessageBaseStyle.Foreground(colorFaint)
	connectingStyle             = lipgloss.NewStyle().Foreground(colorAccent)
	infoBoxStyle                = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(colorAccent).Padding(1, 2).MarginTop(1)
	passwordPromptStyle         = lipgloss.NewStyle().Foreground(colorFaint)
	passwordInputContainerStyle = lipgloss.NewStyle().Padding(1).MarginTop(1).Border(lipgloss.NormalBorder(), true).BorderForeground(colorFaint)
	helpGlobalStyle             = lipgloss.NewStyle().Foreground(colorFaint)
	filterInputStyle            = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)

	wifiStatusEnabled  = lipgloss.NewStyle().Foreground(colorSuccess)
	wifiStatusDisabled = lipgloss.NewStyle().Foreground(colorError)
	hiddenStatusStyle  = lipgloss.NewStyle().Foreground(colorFaint).Italic(true)

	signalExcellentStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	signalGoodStyle      = lipgloss.NewStyle().Foreground(colorWarning)
	signalWeakStyle      = lipgloss.NewStyle().Foreground(colorError)
)

// =============================================================================
// View States
// =============================================================================

type viewState int

const (
	viewNetworksList viewState = iota
	viewPasswordInput
	viewUsernameInput
	viewConnecting
	viewConnectionResult
	viewActiveConnectionInfo
	viewConfirmDisconnect
	viewConfirmForget
	viewKnownNetworksList
	viewHiddenNetworkInput
	viewConfirmOpenNetwork
)

func (v viewState) String() string {
	names := []string{
		"NetworksList",
		"PasswordInput",
		"UsernameInput",
		"Connecting",
		"ConnectionResult",
		"ActiveConnectionInfo",
		"ConfirmDisconnect",
		"ConfirmForget",
		"KnownNetworksList",
		"HiddenNetworkInput",
		"ConfirmOpenNetwork",
	}
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("Unknown(%d)", v)
}

// =============================================================================
// Messages
// =============================================================================

type wifiListLoadedMsg struct {
	current gonetworkmanager.NetworkRecord
	allAps  []wifiAP
	err     error
}

type connectionAttemptMsg struct {
	ssid                 string
	success              bool
	err                  error
	wasKnownAttemptNoPsk bool
}

type wifiStatusMsg struct {
	enabled   bool
	available bool
	err       error
}

type knownNetworksMsg struct {
	knownProfiles map[string]gonetworkmanager.NetworkRecord
	err           error
}

type activeConnInfoMsg struct {
	current gonetworkmanager.NetworkRecord
	stats   *netstats.Stats
	link    *netstats.LinkInfo
	err     error
}

type disconnectResultMsg struct {
	ssid    string
	success bool
	err     error
}

type forgetNetworkResultMsg struct {
	ssid    string
	success bool
	err     error
}

type knownWifiApsListMsg struct {
	aps []wifiAP
	err error
}

// networkChangedMsg carries a debounced record from the change monitor.
type networkChangedMsg struct {
	current gonetworkmanager.NetworkRecord
}

type clearStatusMsg struct{}

type connectionTimeoutMsg struct {
	ssid string
}

type autoRefreshTickMsg struct{}

// =============================================================================
// Key Bindings
// =============================================================================

type keyMap struct {
	Connect      key.Binding
	Refresh      key.Binding
	Quit         key.Binding
	Back         key.Binding
	Help         key.Binding
	Filter       key.Binding
	ToggleWifi   key.Binding
	Disconnect   key.Binding
	Info         key.Binding
	ToggleHidden key.Binding
	Forget       key.Binding
	Profiles     key.Binding
	HiddenSSID   key.Binding
	currentState viewState
}

func (k keyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{k.Help}

	switch k.currentState {
	case viewNetworksList:
		bindings = append(bindings, k.Connect, k.Refresh, k.Filter, k.ToggleWifi, k.Profiles)
	case viewKnownNetworksList:
		bindings = append(bindings, k.Back, k.Forget)
	case viewPasswordInput, viewUsernameInput, viewHiddenNetworkInput, viewConnectionResult,
		viewConfirmDisconnect, viewConfirmForget, viewConfirmOpenNetwork:
		bindings = append(bindings, k.Connect, k.Back)
	case viewActiveConnectionInfo:
		bindings = append(bindings, k.Refresh, k.Back)
	}

	return append(bindings, k.Quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	switch k.currentState {
	case viewKnownNetworksList:
		return [][]key.Binding{{k.Back, k.Forget, k.Quit}}
	default:
		return [][]key.Binding{
			{k.Help, k.Connect, k.Back, k.Quit},
			{k.Refresh, k.Filter, k.ToggleHidden, k.ToggleWifi},
			{k.Disconnect, k.Forget, k.Info, k.Profiles},
			{k.HiddenSSID},
		}
	}
}

var defaultKeyBindings = keyMap{
	Connect:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/confirm")),
	Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back/cancel")),
	Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Filter:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	ToggleWifi:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle Wi-Fi")),
	Disconnect:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "disconnect")),
	Forget:       key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "forget")),
	Info:         key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
	ToggleHidden: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unnamed nets")),
	Profiles:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profiles")),
	HiddenSSID:   key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hidden SSID")),
}

// =============================================================================
// Services
// =============================================================================

// services is what tea.Cmds run against. Commands execute off the UI loop,
// so the bandwidth tracker is guarded.
type services struct {
	session *gonetworkmanager.Session
	cfg     *config.Config
	log     zerolog.Logger

	mu      sync.Mutex
	tracker *netstats.Tracker
}

func (s *services) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), connectionTimeout)
}

// =============================================================================
// Main Model
// =============================================================================

type model struct {
	svc *services

	// State management
	state         viewState
	previousState viewState

	// UI components
	wifiList               list.Model
	knownWifiList          list.Model
	passwordInput          textinput.Model
	usernameInput          textinput.Model
	hiddenSSIDInput        textinput.Model
	filterInput            textinput.Model
	spinner                spinner.Model
	activeConnInfoViewport viewport.Model
	keys                   keyMap
	help                   help.Model

	// Current operation context
	selectedAP                  wifiAP
	pendingUsername             string
	connectionStatusMsg         string
	lastConnectionWasSuccessful bool

	// Wi-Fi state
	wifiEnabled   bool
	radioPresent  bool
	current       gonetworkmanager.NetworkRecord
	knownProfiles map[string]gonetworkmanager.NetworkRecord
	allScannedAps []wifiAP

	// UI state flags
	showHiddenNetworks bool
	isLoading          bool
	isScanning         bool
	isFiltering        bool
	filterQuery        string

	// Dimensions
	width            int
	height           int
	listDisplayWidth int
}

func initialModel(svc *services) model {
	delegate := itemDelegate{}
	wifiList := list.New([]list.Item{}, delegate, 0, 0)
	wifiList.Title = "Scanning for Wi-Fi Networks..."
	wifiList.Styles.Title = listTitleStyle
	wifiList.SetShowStatusBar(true)
	wifiList.SetStatusBarItemName("network", "networks")
	wifiList.SetShowHelp(false)
	wifiList.DisableQuitKeybindings()
	wifiList.Styles.NoItems = listNoItemsStyle.SetString("No Wi-Fi. Try (r)efresh, (t)oggle Wi-Fi, (u)nnamed.")
	wifiList.Styles.FilterPrompt = lipgloss.NewStyle().Foreground(colorPrimary)
	wifiList.Styles.FilterCursor = lipgloss.NewStyle().Foreground(colorPrimary)

	knownList := list.New([]list.Item{}, delegate, 0, 0)
	knownList.Title = "Known Wi-Fi Profiles"
	knownList.Styles.Title = listTitleStyle
	knownList.SetShowStatusBar(false)
	knownList.SetShowHelp(false)
	knownList.DisableQuitKeybindings()
	knownList.Styles.NoItems = listNoItemsStyle.SetString("No known Wi-Fi profiles found.")

	pwInput := textinput.New()
	pwInput.Placeholder = "Network Password"
	pwInput.EchoMode = textinput.EchoPassword
	pwInput.CharLimit = passwordMaxLength
	pwInput.Prompt = passwordPromptStyle.Render("🔑 Password: ")
	pwInput.EchoCharacter = '•'
	pwInput.Cursor.Style = lipgloss.NewStyle().Foreground(colorAccent)

	userInput := textinput.New()
	userInput.Placeholder = "Identity (user name)"
	userInput.CharLimit = 128
	userInput.Prompt = passwordPromptStyle.Render("👤 Identity: ")
	userInput.Cursor.Style = lipgloss.NewStyle().Foreground(colorAccent)

	ssidInput := textinput.New()
	ssidInput.Placeholder = "Network Name (SSID)"
	ssidInput.CharLimit = 32 // Max SSID length
	ssidInput.Prompt = lipgloss.NewStyle().Foreground(colorAccent).Render("📡 SSID: ")
	ssidInput.Cursor.Style = lipgloss.NewStyle().Foreground(colorAccent)

	filterInput := textinput.New()
	filterInput.Placeholder = "Type to filter..."
	filterInput.CharLimit = filterMaxLength
	filterInput.Prompt = "/ "
	filterInput.Cursor.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	s := spinner.New()
	s.Spinner = spinner.Globe
	s.Style = connectingStyle

	vp := viewport.New(0, 0)
	vp.Style = infoBoxStyle

	h := help.New()
	h.ShowAll = false
	subtleStyle := lipgloss.NewStyle().Foreground(colorFaint)
	h.Styles = help.Styles{
		ShortKey:  subtleStyle,
		ShortDesc: subtleStyle,
		FullKey:   subtleStyle,
		FullDesc:  subtleStyle,
		Ellipsis:  subtleStyle,
	}

	m := model{
		svc:                    svc,
		state:                  viewNetworksList,
		wifiList:               wifiList,
		knownWifiList:          knownList,
		passwordInput:          pwInput,
		usernameInput:          userInput,
		hiddenSSIDInput:        ssidInput,
		filterInput:            filterInput,
		spinner:                s,
		activeConnInfoViewport: vp,
		keys:                   defaultKeyBindings,
		help:                   h,
		current:                gonetworkmanager.Disconnected(),
		knownProfiles:          make(map[string]gonetworkmanager.NetworkRecord),
		isLoading:              true,
		isScanning:             true,
	}
	m.keys.currentState = m.state

	if svc.cfg.UI.Cache {
		if cachedAps := loadCachedNetworks(svc.log); cachedAps != nil {
			m.processAndSetWifiList(cachedAps)
			svc.log.Debug().Int("count", len(cachedAps)).Msg("Loaded cached networks")
		}
	}

	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.svc.getWifiStatusCmd(),
		m.svc.fetchKnownNetworksCmd(),
		m.svc.fetchWifiNetworksCmd(),
		m.spinner.Tick,
	}
	if m.svc.cfg.UI.AutoRefresh > 0 {
		cmds = append(cmds, autoRefreshCmd(m.svc.cfg.UI.AutoRefresh))
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// Cache Management
// =============================================================================

func getCacheFilePath() string {
	return filepath.Join(os.TempDir(), cacheFileName)
}

func loadCachedNetworks(log zerolog.Logger) []wifiAP {
	data, err := os.ReadFile(getCacheFilePath())
	if err != nil {
		log.Debug().Err(err).Msg("No cache file found")
		return nil
	}

	var cached []wifiAP
	if err := json.Unmarshal(data, &cached); err != nil {
		log.Warn().Err(err).Msg("Failed to parse cache")
		return nil
	}
	return cached
}

func (s *services) saveCachedNetworksCmd(aps []wifiAP) tea.Cmd {
	if !s.cfg.UI.Cache {
		return nil
	}
	return func() tea.Msg {
		data, err := json.Marshal(aps)
		if err != nil {
			s.log.Warn().Err(err).Msg("Failed to marshal cache")
			return nil
		}
		if err := os.WriteFile(getCacheFilePath(), data, 0o600); err != nil {
			s.log.Warn().Err(err).Msg("Failed to write cache")
		}
		return nil
	}
}

// =============================================================================
// Commands
// =============================================================================

func (s *services) fetchWifiNetworksCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := s.opContext()
		defer cancel()

		current, err := s.session.ResolveCurrent(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("Error resolving current network")
			return wifiListLoadedMsg{err: err}
		}
		visible, err := s.session.ListVisible(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("Error fetching Wi-Fi list")
			return wifiListLoadedMsg{err: err}
		}

		aps := make([]wifiAP, len(visible))
		for i, rec := range visible {
			aps[i] = wifiAP{NetworkRecord: rec}
		}
		s.log.Debug().Int("count", len(aps)).Msg("Fetched Wi-Fi networks")
		return wifiListLoadedMsg{current: current, allAps: aps}
	}
}

func (s *services) connectToWifiCmd(req gonetworkmanager.ConnectionRequest, knownNoPsk bool) tea.Cmd {
	return func() tea.Msg {
		s.log.Info().Str("ssid", req.SSID).Bool("known_no_psk", knownNoPsk).Msg("Connecting")
		ctx, cancel := s.opContext()
		defer cancel()

		var err error
		if knownNoPsk {
			var activated bool
			activated, err = s.session.ActivateSaved(ctx, req.SSID)
			if err == nil && !activated {
				err = fmt.Errorf("no saved profile for %s", req.SSID)
			}
		} else {
			err = s.session.Connect(ctx, req)
		}
		if err != nil {
			s.log.Error().Err(err).Str("ssid", req.SSID).Msg("Connect failed")
		}
		return connectionAttemptMsg{
			ssid:                 req.SSID,
			success:              err == nil,
			err:                  err,
			wasKnownAttemptNoPsk: knownNoPsk,
		}
	}
}

func (s *services) getWifiStatusCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := s.opContext()
		defer cancel()

		available, err := s.session.RadioAvailable(ctx)
		if err != nil {
			return wifiStatusMsg{err: err}
		}
		enabled, err := s.session.RadioEnabled(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("Error getting Wi-Fi status")
			return wifiStatusMsg{available: available, err: err}
		}
		s.log.Debug().Bool("enabled", enabled).Bool("available", available).Msg("Wi-Fi status")
		return wifiStatusMsg{enabled: enabled, available: available}
	}
}

func (s *services) toggleWifiCmd(enable bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := s.opContext()
		defer cancel()

		if err := s.session.SetRadioEnabled(ctx, enable); err != nil {
			s.log.Error().Err(err).Bool("enable", enable).Msg("Error toggling Wi-Fi")
			return wifiStatusMsg{enabled: !enable, available: true, err: err}
		}
		return wifiStatusMsg{enabled: enable, available: true}
	}
}

func (s *services) fetchKnownNetworksCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := s.opContext()
		defer cancel()

		saved, err := s.session.ListSaved(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("Error fetching known profiles")
			return knownNetworksMsg{err: err}
		}

		known := make(map[string]gonetworkmanager.NetworkRecord, len(saved))
		for _, rec := range saved {
			if rec.SSID == "" || rec.SSID == gonetworkmanager.UnknownValue {
				continue
			}
			if _, dup := known[rec.SSID]; !dup {
				known[rec.SSID] = rec
			}
		}
		return knownNetworksMsg{knownProfiles: known}
	}
}

func (s *services) fetchActiveConnInfoCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := s.opContext()
		defer cancel()

		current, err := s.session.ResolveCurrent(ctx)
		if err != nil {
			return activeConnInfoMsg{err: err}
		}
		msg := activeConnInfoMsg{current: current}
		if current.Interface != "" {
			if stats, err := s.sampleBandwidth(ctx, current.Interface); err == nil {
				msg.stats = &stats
			} else {
				s.log.Debug().Err(err).Str("interface", current.Interface).Msg("No bandwidth counters")
			}
		}
		if current.IsWireless() && current.Interface != "" {
			if link, err := netstats.WirelessLink(current.Interface); err == nil {
				msg.link = &link
			} else {
				s.log.Debug().Err(err).Str("interface", current.Interface).Msg("No nl80211 link details")
			}
		}
		return msg
	}
}

// sampleBandwidth keeps one tracker per interface; switching interfaces
// restarts the totals.
func (s *services) sampleBandwidth(ctx context.Context, iface string) (netstats.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tracker == nil || s.tracker.Interface() != iface {
		tracker, err := netstats.New(ctx, iface)
		if err != nil {
			return netstats.Stats{}, err
		}
		s.tracker = tracker
	}
	return s.tracker.Sample(ctx)
}

func (s *services) disconnectWifiCmd(ssid string) tea.Cmd {
	return func() tea.Msg {
		s.log.Info().Str("ssid", ssid).Msg("Disconnecting")
		ctx, cancel := s.opContext()
		defer cancel()

		err := s.session.Disconnect(ctx)
		return disconnectResultMsg{ssid: ssid, success: err == nil, err: err}
	}
}

func (s *services) forgetNetworkCmd(ssid string) tea.Cmd {
	return func() tea.Msg {
		s.log.Info().Str("ssid", ssid).Msg("Forgetting profile")
		ctx, cancel := s.opContext()
		defer cancel()

		deleted, err := s.session.DeleteSaved(ctx, ssid)
		if err == nil && !deleted {
			err = fmt.Errorf("no saved profile for %s", ssid)
		}
		return forgetNetworkResultMsg{ssid: ssid, success: err == nil, err: err}
	}
}

func (s *services) fetchKnownWifiApsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := s.opContext()
		defer cancel()

		saved, err := s.session.ListSaved(ctx)
		if err != nil {
			return knownWifiApsListMsg{err: err}
		}
		current, _ := s.session.ResolveCurrent(ctx)

		aps := make([]wifiAP, 0, len(saved))
		for _, rec := range saved {
			aps = append(aps, savedToWifiAP(rec, current))
		}
		s.log.Debug().Int("count", len(aps)).Msg("Found known Wi-Fi profiles")
		return knownWifiApsListMsg{aps: aps}
	}
}

func clearStatusAfterDelay() tea.Cmd {
	return tea.Tick(statusMsgTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func connectionTimeoutCmd(ssid string) tea.Cmd {
	return tea.Tick(connectionTimeout, func(time.Time) tea.Msg {
		return connectionTimeoutMsg{ssid: ssid}
	})
}

func autoRefreshCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return autoRefreshTickMsg{}
	})
}

// =============================================================================
// Helper Functions
// =============================================================================

// buildWifiItems merges scan results with saved profiles: saved profiles
// not in range are appended, rows are flagged known/active, and the result
// is sorted active first, then known, then by signal.
func buildWifiItems(scanned []wifiAP, known map[string]gonetworkmanager.NetworkRecord, current gonetworkmanager.NetworkRecord, showHidden bool) []wifiAP {
	seen := make(map[string]struct{}, len(scanned))
	var items []wifiAP
	for _, ap := range scanned {
		if _, dup := seen[ap.SSID]; dup && !ap.IsHidden() {
			continue
		}
		seen[ap.SSID] = struct{}{}
		items = append(items, ap)
	}
	for ssid, rec := range known {
		if _, found := seen[ssid]; !found {
			items = append(items, savedToWifiAP(rec, current))
		}
	}

	filtered := items[:0]
	for _, ap := range items {
		if !showHidden && ap.IsHidden() {
			continue
		}
		if !ap.IsHidden() {
			if _, ok := known[ap.SSID]; ok {
				ap.IsKnown = true
			}
			ap.IsActive = isActiveSSID(current, ap.SSID)
			if ap.IsActive {
				ap.IPAddress = current.IPAddress
			}
		}
		filtered = append(filtered, ap)
	}
	items = filtered

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsActive != b.IsActive {
			return a.IsActive
		}
		if a.IsKnown != b.IsKnown {
			return a.IsKnown
		}
		if a.IsKnown && b.IsKnown {
			aInRange, bInRange := a.Signal() > 0, b.Signal() > 0
			if aInRange != bInRange {
				return aInRange
			}
		}
		if a.Signal() != b.Signal() {
			return a.Signal() > b.Signal()
		}
		if a.IsHidden() != b.IsHidden() {
			return !a.IsHidden()
		}
		return strings.ToLower(a.DisplaySSID()) < strings.ToLower(b.DisplaySSID())
	})
	return items
}

func filterItems(items []wifiAP, query string) []list.Item {
	query = strings.ToLower(query)
	out := make([]list.Item, 0, len(items))
	for _, ap := range items {
		if query == "" || strings.Contains(strings.ToLower(ap.DisplaySSID()), query) {
			out = append(out, ap)
		}
	}
	return out
}

func (m *model) applyFilterAndUpdateList() {
	all := buildWifiItems(m.allScannedAps, m.knownProfiles, m.current, m.showHiddenNetworks)
	filtered := filterItems(all, m.filterQuery)
	m.wifiList.SetItems(filtered)
	m.updateListTitle(len(all), len(filtered))
}

func (m *model) updateListTitle(totalCount, filteredCount int) {
	var knownCount, availableCount int
	for _, item := range m.wifiList.Items() {
		if item.(wifiAP).IsKnown {
			knownCount++
		} else {
			availableCount++
		}
	}

	parts := []string{fmt.Sprintf("Wi-Fi Networks: %d Known, %d Available", knownCount, availableCount)}
	if !m.showHiddenNetworks {
		parts = append(parts, hiddenStatusStyle.Render("(hiding unnamed)"))
	}
	if m.filterQuery != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorPrimary).
			Render(fmt.Sprintf("[filtered: %d/%d]", filteredCount, totalCount)))
	}
	m.wifiList.Title = strings.Join(parts, " ")
}

func (m *model) processAndSetWifiList(aps []wifiAP) {
	m.allScannedAps = aps
	m.applyFilterAndUpdateList()
}

func (m *model) resizeComponents() {
	availableWidth := m.width - appStyle.GetHorizontalFrameSize()
	availableHeight := m.height - appStyle.GetVerticalFrameSize()

	desiredHelpWidth := int(float64(availableWidth) * helpBarWidthPercent)
	if desiredHelpWidth > helpBarMaxWidth {
		desiredHelpWidth = helpBarMaxWidth
	}
	if desiredHelpWidth < 20 {
		desiredHelpWidth = 20
	}
	m.help.Width = desiredHelpWidth

	headerHeight := lipgloss.Height(m.headerView(availableWidth))
	tempKeys := m.keys
	tempKeys.currentState = m.state
	footerHeight := lipgloss.Height(m.footerView(availableWidth, m.help.View(tempKeys)))
	contentHeight := availableHeight - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	listHeight := contentHeight
	if m.isFiltering {
		listHeight -= 4
		if listHeight < minListHeight {
			listHeight = minListHeight
		}
	}

	listWidth := int(float64(availableWidth) * networkListWidthPercent)
	if listWidth > networkListFixedWidth {
		listWidth = networkListFixedWidth
	}
	if listWidth < minListWidth {
		listWidth = minListWidth
	}
	m.listDisplayWidth = listWidth

	m.wifiList.SetSize(m.listDisplayWidth, listHeight)
	m.knownWifiList.SetSize(m.listDisplayWidth, listHeight)

	m.activeConnInfoViewport.Width = availableWidth - infoBoxStyle.GetHorizontalFrameSize()
	m.activeConnInfoViewport.Height = contentHeight - infoBoxStyle.GetVerticalFrameSize()
	if m.activeConnInfoViewport.Height < 0 {
		m.activeConnInfoViewport.Height = 0
	}

	pwWidth := availableWidth * 2 / 3
	if pwWidth > passwordInputMaxWidth {
		pwWidth = passwordInputMaxWidth
	}
	if pwWidth < passwordInputMinWidth {
		pwWidth = passwordInputMinWidth
	}
	m.passwordInput.Width = pwWidth - lipgloss.Width(m.passwordInput.Prompt) -
		passwordInputContainerStyle.GetHorizontalFrameSize()
	m.usernameInput.Width = m.passwordInput.Width
	m.hiddenSSIDInput.Width = m.passwordInput.Width
}

func (m *model) setStatus(msg string, style lipgloss.Style) {
	m.connectionStatusMsg = style.Render(msg)
}

func (m *model) clearStatus() {
	m.connectionStatusMsg = ""
}

func (m *model) focusPassword() tea.Cmd {
	m.state = viewPasswordInput
	m.passwordInput.SetValue("")
	m.passwordInput.Focus()
	return textinput.Blink
}

func (m *model) refreshCmds() []tea.Cmd {
	return []tea.Cmd{m.svc.fetchKnownNetworksCmd(), m.svc.fetchWifiNetworksCmd()}
}

func connectionRequest(ap wifiAP, username, password string) gonetworkmanager.ConnectionRequest {
	return gonetworkmanager.ConnectionRequest{
		SSID:     ap.SSID,
		Security: ap.Security,
		Username: gonetworkmanager.StringPtr(username),
		Password: gonetworkmanager.StringPtr(password),
	}
}

func describeError(err error) string {
	switch {
	case err == nil:
		return "Unknown error"
	case errors.Is(err, gonetworkmanager.ErrPermissionDenied):
		return "Permission denied by NetworkManager (check polkit rules)"
	case errors.Is(err, gonetworkmanager.ErrTransport):
		return "NetworkManager is not reachable on the system bus"
	}
	var opErr *gonetworkmanager.OperationError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	return err.Error()
}

// =============================================================================
// Update
// =============================================================================

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.keys.currentState = m.state

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeComponents()
		return m, nil

	case spinner.TickMsg:
		if m.isLoading || m.isScanning {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case clearStatusMsg:
		if m.state == viewNetworksList {
			m.clearStatus()
		}

	case autoRefreshTickMsg:
		if m.state == viewNetworksList && m.wifiEnabled && !m.isScanning {
			cmds = append(cmds, m.refreshCmds()...)
		}
		cmds = append(cmds, autoRefreshCmd(m.svc.cfg.UI.AutoRefresh))

	case networkChangedMsg:
		m.svc.log.Debug().Str("name", msg.current.Name).Bool("connected", msg.current.IsConnected).Msg("Network changed")
		m.current = msg.current
		m.applyFilterAndUpdateList()
		if m.state == viewNetworksList || m.state == viewKnownNetworksList {
			cmds = append(cmds, m.refreshCmds()...)
		}
		if m.state == viewActiveConnectionInfo {
			cmds = append(cmds, m.svc.fetchActiveConnInfoCmd())
		}

	case connectionTimeoutMsg:
		if m.state == viewConnecting && m.selectedAP.SSID == msg.ssid {
			m.isLoading = false
			m.state = viewConnectionResult
			m.lastConnectionWasSuccessful = false
			m.setStatus(fmt.Sprintf("Connection to %s timed out", msg.ssid), errorStyle)
		}

	case wifiStatusMsg:
		m.isLoading = false
		m.radioPresent = msg.available
		if msg.err != nil {
			if m.state == viewNetworksList {
				m.setStatus(fmt.Sprintf("Error getting Wi-Fi status: %s", describeError(msg.err)), errorStyle)
				cmds = append(cmds, clearStatusAfterDelay())
			}
		} else {
			m.wifiEnabled = msg.enabled
			if m.wifiEnabled {
				m.isLoading = true
				m.isScanning = true
				m.wifiList.Title = "Scanning..."
				cmds = append(cmds, m.refreshCmds()...)
				cmds = append(cmds, m.spinner.Tick)
			} else {
				m.isScanning = false
				m.processAndSetWifiList([]wifiAP{})
				m.wifiList.Title = "Wi-Fi is Disabled"
				if m.state == viewNetworksList {
					m.setStatus("Wi-Fi is disabled. Press 't' to enable.", infoStyle)
				}
			}
			if !m.radioPresent && m.state == viewNetworksList {
				m.setStatus("No Wi-Fi device found.", warningStyle)
			}
		}

	case knownNetworksMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Error fetching profiles: %s", describeError(msg.err)), errorStyle)
			cmds = append(cmds, clearStatusAfterDelay())
		} else {
			m.knownProfiles = msg.knownProfiles
		}
		m.applyFilterAndUpdateList()

	case wifiListLoadedMsg:
		m.isScanning = false
		m.isLoading = false
		if msg.err != nil {
			if m.state == viewNetworksList {
				m.setStatus(fmt.Sprintf("Error scanning: %s", describeError(msg.err)), errorStyle)
				cmds = append(cmds, clearStatusAfterDelay())
			}
			m.wifiList.Title = "Error Loading Networks"
		} else {
			m.current = msg.current
			m.processAndSetWifiList(msg.allAps)
			if len(msg.allAps) > 0 {
				cmds = append(cmds, m.svc.saveCachedNetworksCmd(msg.allAps))
			}
		}

	case connectionAttemptMsg:
		m.isLoading = false
		if msg.success {
			m.state = viewConnectionResult
			m.lastConnectionWasSuccessful = true
			m.setStatus(fmt.Sprintf("Connected to %s!", m.selectedAP.DisplaySSID()), successStyle)
		} else {
			if msg.wasKnownAttemptNoPsk && m.selectedAP.SSID == msg.ssid && !m.selectedAP.IsOpen() {
				m.svc.log.Info().Str("ssid", msg.ssid).Msg("Known network failed, prompting for password")
				cmds = append(cmds, m.focusPassword())
				m.setStatus(fmt.Sprintf("Stored credentials for %s failed. Enter password:", m.selectedAP.DisplaySSID()), warningStyle)
				return m, tea.Batch(cmds...)
			}

			m.state = viewConnectionResult
			m.lastConnectionWasSuccessful = false
			m.setStatus(fmt.Sprintf("Failed to connect to %s: %s", m.selectedAP.DisplaySSID(), describeError(msg.err)), errorStyle)
		}
		cmds = append(cmds, m.refreshCmds()...)

	case activeConnInfoMsg:
		m.isLoading = false
		if msg.err != nil {
			m.activeConnInfoViewport.SetContent(errorStyle.Render(fmt.Sprintf("Error: %s", describeError(msg.err))))
		} else {
			m.current = msg.current
			m.activeConnInfoViewport.SetContent(formatConnectionDetails(msg.current, msg.stats, msg.link))
		}

	case disconnectResultMsg:
		m.isLoading = false
		if msg.success {
			m.setStatus(fmt.Sprintf("Disconnected from %s", msg.ssid), successStyle)
			m.current = gonetworkmanager.Disconnected()
		} else {
			m.setStatus(fmt.Sprintf("Error disconnecting: %s", describeError(msg.err)), errorStyle)
		}
		m.state = viewNetworksList
		cmds = append(cmds, m.refreshCmds()...)
		cmds = append(cmds, clearStatusAfterDelay())

	case forgetNetworkResultMsg:
		m.isLoading = false
		if msg.success {
			m.setStatus(fmt.Sprintf("Forgot network: %s", msg.ssid), successStyle)
			delete(m.knownProfiles, msg.ssid)
		} else {
			m.setStatus(fmt.Sprintf("Error forgetting network: %s", describeError(msg.err)), errorStyle)
		}
		m.state = m.previousState
		if m.state == viewKnownNetworksList {
			cmds = append(cmds, m.svc.fetchKnownWifiApsCmd())
		} else {
			cmds = append(cmds, m.refreshCmds()...)
		}
		cmds = append(cmds, clearStatusAfterDelay())

	case knownWifiApsListMsg:
		m.isLoading = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Error loading profiles: %s", describeError(msg.err)), errorStyle)
			m.knownWifiList.Title = "Error Loading Profiles"
		} else {
			items := make([]list.Item, len(msg.aps))
			for i, ap := range msg.aps {
				items[i] = ap
			}
			m.knownWifiList.SetItems(items)
			m.knownWifiList.Title = fmt.Sprintf("Known Wi-Fi Profiles (%d)", len(items))
		}

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg)...)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if key.Matches(msg, m.keys.Quit) {
		return []tea.Cmd{tea.Quit}
	}

	textEntry := m.state == viewPasswordInput || m.state == viewUsernameInput || m.state == viewHiddenNetworkInput
	if key.Matches(msg, m.keys.Help) && !textEntry {
		m.help.ShowAll = !m.help.ShowAll
		m.resizeComponents()
		return nil
	}

	switch m.state {
	case viewNetworksList:
		cmds = m.handleNetworksListKeys(msg)

	case viewKnownNetworksList:
		cmds = m.handleKnownNetworksListKeys(msg)

	case viewPasswordInput:
		cmds = m.handlePasswordInputKeys(msg)

	case viewUsernameInput:
		cmds = m.handleUsernameInputKeys(msg)

	case viewHiddenNetworkInput:
		cmds = m.handleHiddenNetworkInputKeys(msg)

	case viewConnectionResult:
		if key.Matches(msg, m.keys.Connect) || key.Matches(msg, m.keys.Back) {
			m.state = viewNetworksList
			m.clearStatus()
		}

	case viewActiveConnectionInfo:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.state = viewNetworksList
			m.clearStatus()
		case key.Matches(msg, m.keys.Refresh):
			cmds = append(cmds, m.svc.fetchActiveConnInfoCmd())
		default:
			m.activeConnInfoViewport, cmd = m.activeConnInfoViewport.Update(msg)
			cmds = append(cmds, cmd)
		}

	case viewConfirmDisconnect:
		cmds = m.handleConfirmDisconnectKeys(msg)

	case viewConfirmForget:
		cmds = m.handleConfirmForgetKeys(msg)

	case viewConfirmOpenNetwork:
		cmds = m.handleConfirmOpenNetworkKeys(msg)
	}

	return cmds
}

func (m *model) handleNetworksListKeys(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.isFiltering {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.isFiltering = false
			m.filterQuery = ""
			m.filterInput.SetValue("")
			m.filterInput.Blur()
			m.clearStatus()
			m.applyFilterAndUpdateList()
			m.resizeComponents()
			return nil

		case key.Matches(msg, m.keys.Connect):
			m.isFiltering = false
			m.filterInput.Blur()
			m.clearStatus()
			m.resizeComponents()
			return nil

		default:
			m.filterInput, cmd = m.filterInput.Update(msg)
			cmds = append(cmds, cmd)
			m.filterQuery = m.filterInput.Value()
			m.applyFilterAndUpdateList()
			return cmds
		}
	}

	if m.isLoading && !m.isScanning {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		if m.filterQuery != "" {
			m.filterQuery = ""
			m.filterInput.SetValue("")
			m.clearStatus()
			m.applyFilterAndUpdateList()
			return nil
		}
		m.wifiList, cmd = m.wifiList.Update(msg)
		cmds = append(cmds, cmd)

	case key.Matches(msg, m.keys.ToggleHidden):
		m.showHiddenNetworks = !m.showHiddenNetworks
		m.applyFilterAndUpdateList()
		if m.showHiddenNetworks {
			m.setStatus("Showing unnamed networks", infoStyle)
		} else {
			m.setStatus("Hiding unnamed networks", infoStyle)
		}
		cmds = append(cmds, clearStatusAfterDelay())

	case key.Matches(msg, m.keys.Filter):
		m.isFiltering = true
		m.filterInput.SetValue(m.filterQuery)
		m.filterInput.Focus()
		m.setStatus("Type to filter, ESC to cancel, Enter to accept", infoStyle)
		m.resizeComponents()
		cmds = append(cmds, textinput.Blink)

	case key.Matches(msg, m.keys.Refresh):
		m.isLoading = true
		m.isScanning = true
		m.clearStatus()
		m.filterQuery = ""
		m.isFiltering = false
		m.filterInput.SetValue("")
		m.wifiList.Title = "Refreshing..."
		cmds = append(cmds, m.refreshCmds()...)
		cmds = append(cmds, m.spinner.Tick)

	case key.Matches(msg, m.keys.ToggleWifi):
		if !m.radioPresent {
			m.setStatus("No Wi-Fi device found.", warningStyle)
			return []tea.Cmd{clearStatusAfterDelay()}
		}
		m.isLoading = true
		action := "OFF"
		if !m.wifiEnabled {
			action = "ON"
		}
		m.setStatus(fmt.Sprintf("Toggling Wi-Fi %s...", action), infoStyle)
		cmds = append(cmds, m.svc.toggleWifiCmd(!m.wifiEnabled), m.spinner.Tick)

	case key.Matches(msg, m.keys.Disconnect):
		if m.current.ConnectionKind != gonetworkmanager.UnknownValue {
			m.selectedAP = wifiAP{NetworkRecord: m.current, IsActive: true}
			if !m.current.IsWireless() {
				m.selectedAP.SSID = m.current.Name
			}
			m.state = viewConfirmDisconnect
			m.clearStatus()
		} else {
			m.setStatus("Not connected to any network", infoStyle)
			cmds = append(cmds, clearStatusAfterDelay())
		}

	case key.Matches(msg, m.keys.Forget):
		if item, ok := m.wifiList.SelectedItem().(wifiAP); ok && item.IsKnown {
			m.selectedAP = item
			m.previousState = m.state
			m.state = viewConfirmForget
			m.clearStatus()
		} else if ok {
			m.setStatus(fmt.Sprintf("%s is not a known network", item.DisplaySSID()), infoStyle)
			cmds = append(cmds, clearStatusAfterDelay())
		}

	case key.Matches(msg, m.keys.Info):
		if m.current.ConnectionKind != gonetworkmanager.UnknownValue {
			m.state = viewActiveConnectionInfo
			m.isLoading = true
			m.activeConnInfoViewport.SetContent("Loading connection details...")
			m.activeConnInfoViewport.GotoTop()
			cmds = append(cmds, m.svc.fetchActiveConnInfoCmd(), m.spinner.Tick)
			m.clearStatus()
		} else {
			m.setStatus("No active connection", infoStyle)
			cmds = append(cmds, clearStatusAfterDelay())
		}

	case key.Matches(msg, m.keys.Profiles):
		m.state = viewKnownNetworksList
		m.isLoading = true
		m.knownWifiList.Title = "Loading..."
		cmds = append(cmds, m.svc.fetchKnownWifiApsCmd(), m.spinner.Tick)

	case key.Matches(msg, m.keys.HiddenSSID):
		m.state = viewHiddenNetworkInput
		m.hiddenSSIDInput.SetValue("")
		m.hiddenSSIDInput.Focus()
		m.clearStatus()
		cmds = append(cmds, textinput.Blink)

	case key.Matches(msg, m.keys.Connect):
		if item, ok := m.wifiList.SelectedItem().(wifiAP); ok {
			m.selectedAP = item
			cmds = append(cmds, m.initiateConnection(item)...)
		}

	default:
		m.wifiList, cmd = m.wifiList.Update(msg)
		cmds = append(cmds, cmd)
	}

	return cmds
}

func (m *model) startConnecting(req gonetworkmanager.ConnectionRequest, knownNoPsk bool) []tea.Cmd {
	m.isLoading = true
	m.state = viewConnecting
	m.setStatus(fmt.Sprintf("Connecting to %s...", m.selectedAP.DisplaySSID()), connectingStyle)
	return []tea.Cmd{m.svc.connectToWifiCmd(req, knownNoPsk), connectionTimeoutCmd(req.SSID), m.spinner.Tick}
}

func (m *model) initiateConnection(ap wifiAP) []tea.Cmd {
	m.pendingUsername = ""
	if ap.IsActive {
		m.state = viewConfirmDisconnect
		return nil
	}

	m.svc.log.Debug().Str("ssid", ap.SSID).Bool("known", ap.IsKnown).Str("security", ap.Security.String()).Msg("Initiating connection")

	if ap.IsOpen() && !ap.IsKnown {
		m.state = viewConfirmOpenNetwork
		m.clearStatus()
		return nil
	}

	if ap.IsKnown || ap.IsOpen() {
		return m.startConnecting(connectionRequest(ap, "", ""), ap.IsKnown)
	}

	m.clearStatus()
	if ap.Security == gonetworkmanager.SecurityWPAEAP {
		m.state = viewUsernameInput
		m.usernameInput.SetValue("")
		m.usernameInput.Focus()
		return []tea.Cmd{textinput.Blink}
	}
	return []tea.Cmd{m.focusPassword()}
}

func (m *model) handleKnownNetworksListKeys(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.isLoading {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.state = viewNetworksList
		m.clearStatus()

	case key.Matches(msg, m.keys.Forget):
		if item, ok := m.knownWifiList.SelectedItem().(wifiAP); ok {
			m.selectedAP = item
			m.previousState = m.state
			m.state = viewConfirmForget
			m.clearStatus()
		}

	default:
		m.knownWifiList, cmd = m.knownWifiList.Update(msg)
		cmds = append(cmds, cmd)
	}

	return cmds
}

func (m *model) handlePasswordInputKeys(msg tea.KeyMsg) []tea.Cmd {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Connect):
		password := m.passwordInput.Value()
		if password == "" {
			m.setStatus("Password cannot be empty", warningStyle)
			return nil
		}
		m.passwordInput.Blur()
		return m.startConnecting(connectionRequest(m.selectedAP, m.pendingUsername, password), false)

	case key.Matches(msg, m.keys.Back):
		m.state = viewNetworksList
		m.passwordInput.Blur()
		m.pendingUsername = ""
		m.clearStatus()
		return nil
	}

	m.passwordInput, cmd = m.passwordInput.Update(msg)
	return []tea.Cmd{cmd}
}

func (m *model) handleUsernameInputKeys(msg tea.KeyMsg) []tea.Cmd {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Connect):
		username := strings.TrimSpace(m.usernameInput.Value())
		if username == "" {
			m.setStatus("Identity cannot be empty", warningStyle)
			return nil
		}
		m.pendingUsername = username
		m.usernameInput.Blur()
		m.clearStatus()
		return []tea.Cmd{m.focusPassword()}

	case key.Matches(msg, m.keys.Back):
		m.state = viewNetworksList
		m.usernameInput.Blur()
		m.clearStatus()
		return nil
	}

	m.usernameInput, cmd = m.usernameInput.Update(msg)
	return []tea.Cmd{cmd}
}

func (m *model) handleHiddenNetworkInputKeys(msg tea.KeyMsg) []tea.Cmd {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Connect):
		ssid := strings.TrimSpace(m.hiddenSSIDInput.Value())
		if ssid == "" {
			m.setStatus("SSID cannot be empty", warningStyle)
			return nil
		}

		// Hidden networks are assumed to be WPA2 personal.
		rec := gonetworkmanager.Disconnected()
		rec.Name, rec.SSID = ssid, ssid
		rec.ConnectionKind = gonetworkmanager.ConnectionTypeWifi
		rec.Security = gonetworkmanager.SecurityWPA2PSK
		m.selectedAP = wifiAP{NetworkRecord: rec}
		m.pendingUsername = ""

		m.hiddenSSIDInput.Blur()
		m.clearStatus()
		return []tea.Cmd{m.focusPassword()}

	case key.Matches(msg, m.keys.Back):
		m.state = viewNetworksList
		m.hiddenSSIDInput.Blur()
		m.clearStatus()
		return nil
	}

	m.hiddenSSIDInput, cmd = m.hiddenSSIDInput.Update(msg)
	return []tea.Cmd{cmd}
}

func (m *model) handleConfirmDisconnectKeys(msg tea.KeyMsg) []tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Connect):
		m.isLoading = true
		name := m.selectedAP.DisplaySSID()
		m.setStatus(fmt.Sprintf("Disconnecting from %s...", name), infoStyle)
		return []tea.Cmd{m.svc.disconnectWifiCmd(name), m.spinner.Tick}

	case key.Matches(msg, m.keys.Back):
		m.state = viewNetworksList
		m.clearStatus()
	}
	return nil
}

func (m *model) handleConfirmForgetKeys(msg tea.KeyMsg) []tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Connect):
		ssid := m.selectedAP.SSID
		if m.selectedAP.IsHidden() {
			m.setStatus("Cannot identify profile for an unnamed network", errorStyle)
			m.state = viewNetworksList
			return []tea.Cmd{clearStatusAfterDelay()}
		}
		m.isLoading = true
		m.setStatus(fmt.Sprintf("Forgetting %s...", ssid), infoStyle)
		return []tea.Cmd{m.svc.forgetNetworkCmd(ssid), m.spinner.Tick}

	case key.Matches(msg, m.keys.Back):
		m.state = m.previousState
		m.clearStatus()
	}
	return nil
}

func (m *model) handleConfirmOpenNetworkKeys(msg tea.KeyMsg) []tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Connect):
		return m.startConnecting(connectionRequest(m.selectedAP, "", ""), false)

	case key.Matches(msg, m.keys.Back):
		m.state = viewNetworksList
		m.clearStatus()
	}
	return nil
}
