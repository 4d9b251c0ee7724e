package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"nmnet/gonetworkmanager"
	"nmnet/netstats"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// changeEvent is one line of watch output.
type changeEvent struct {
	Event   string                         `json:"event"`
	Network gonetworkmanager.NetworkRecord `json:"network"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeJSONLine writes v compactly on a single line.
func writeJSONLine(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

// tableStyle styles table cells. The header is row 0 and data rows
// start at 1.
func tableStyle(row, _ int) lipgloss.Style {
	if row == 0 {
		return tableHeaderStyle
	}
	return tableCellStyle
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		StyleFunc(tableStyle).
		Headers(headers...).
		Rows(rows...).
		Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func writeRecord(w io.Writer, rec gonetworkmanager.NetworkRecord) error {
	if flagJSON {
		return writeJSON(w, rec)
	}
	rows := [][]string{
		{"Name", rec.Name},
		{"Type", kindLabel(rec.ConnectionKind)},
		{"Device", valueOr(rec.Interface, "-")},
		{"IPv4", rec.IPAddress},
		{"MAC", rec.MACAddress},
		{"Internet", yesNo(rec.IsConnected)},
		{"Icon", rec.Icon},
	}
	if rec.IsWireless() {
		rows = append(rows,
			[]string{"SSID", rec.SSID},
			[]string{"Signal", strconv.Itoa(int(rec.SignalStrength)) + "%"},
			[]string{"Security", rec.Security.Label()})
	}
	_, err := fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows))
	return err
}

func writeNetworks(w io.Writer, recs []gonetworkmanager.NetworkRecord, withSignal bool) error {
	if flagJSON {
		if recs == nil {
			recs = []gonetworkmanager.NetworkRecord{}
		}
		return writeJSON(w, recs)
	}
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No networks.")
		return err
	}

	headers := []string{"", "SSID", "Security"}
	if withSignal {
		headers = append(headers, "Signal")
	}
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		marker := ""
		if rec.IsConnected {
			marker = "*"
		}
		row := []string{marker, rec.SSID, rec.Security.Label()}
		if withSignal {
			row = append(row, strconv.Itoa(int(rec.SignalStrength))+"%")
		}
		rows = append(rows, row)
	}
	_, err := fmt.Fprintln(w, renderTable(headers, rows))
	return err
}

func writeStats(w io.Writer, s netstats.Stats) error {
	if flagJSON {
		return writeJSONLine(w, s)
	}
	_, err := fmt.Fprintf(w, "%s  down %s/s  up %s/s  total %s / %s\n",
		s.Interface,
		humanize.Bytes(s.DownloadSpeed), humanize.Bytes(s.UploadSpeed),
		humanize.Bytes(s.TotalDownloaded), humanize.Bytes(s.TotalUploaded))
	return err
}

func writeChange(w io.Writer, rec gonetworkmanager.NetworkRecord) error {
	if flagJSON {
		return writeJSONLine(w, changeEvent{Event: gonetworkmanager.EventNetworkChanged, Network: rec})
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", gonetworkmanager.EventNetworkChanged, rec)
	return err
}
