package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nmnet/gonetworkmanager"
	"nmnet/netstats"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rec, err := session.ResolveCurrent(cmd.Context())
		if err != nil {
			return err
		}
		return writeRecord(cmd.OutOrStdout(), rec)
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "scan"},
	Short:   "List visible Wi-Fi networks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		recs, err := session.ListVisible(cmd.Context())
		if err != nil {
			return err
		}
		return writeNetworks(cmd.OutOrStdout(), recs, true)
	},
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List saved Wi-Fi profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		recs, err := session.ListSaved(cmd.Context())
		if err != nil {
			return err
		}
		return writeNetworks(cmd.OutOrStdout(), recs, false)
	},
}

var (
	connectPassword string
	connectUsername string
	connectSecurity string
)

var connectCmd = &cobra.Command{
	Use:   "connect SSID",
	Short: "Join a Wi-Fi network, reusing its saved profile when no credentials are given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		havePassword := cmd.Flags().Changed("password")
		if !havePassword && connectSecurity == "" {
			activated, err := session.ActivateSaved(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if activated {
				fmt.Fprintf(cmd.OutOrStdout(), "Activation of saved profile %s requested.\n", args[0])
				return nil
			}
		}

		req, err := buildConnectRequest(cmd.Context(), args[0], havePassword)
		if err != nil {
			return err
		}
		log.Info().Str("ssid", req.SSID).Str("security", req.Security.String()).Msg("Connecting")
		if err := session.Connect(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Activation of %s requested.\n", req.SSID)
		return nil
	},
}

// buildConnectRequest fills in security from the scan when --security is
// not given. An SSID that is not in range falls back to WPA2 personal when
// a password is given and to open otherwise.
func buildConnectRequest(ctx context.Context, ssid string, havePassword bool) (gonetworkmanager.ConnectionRequest, error) {
	req := gonetworkmanager.ConnectionRequest{SSID: ssid}
	if havePassword {
		req.Password = gonetworkmanager.StringPtr(connectPassword)
	}
	if connectUsername != "" {
		req.Username = gonetworkmanager.StringPtr(connectUsername)
	}

	if connectSecurity != "" {
		sec, err := gonetworkmanager.ParseSecurityType(connectSecurity)
		if err != nil {
			return req, err
		}
		req.Security = sec
		return req, nil
	}

	visible, err := session.ListVisible(ctx)
	if err != nil {
		return req, err
	}
	req.Security = securityFor(visible, ssid, havePassword)
	return req, nil
}

func securityFor(visible []gonetworkmanager.NetworkRecord, ssid string, havePassword bool) gonetworkmanager.SecurityType {
	for _, rec := range visible {
		if rec.SSID == ssid {
			return rec.Security
		}
	}
	if havePassword {
		return gonetworkmanager.SecurityWPA2PSK
	}
	return gonetworkmanager.SecurityNone
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Deactivate the current connection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return session.Disconnect(cmd.Context())
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget SSID",
	Short: "Delete the saved profile for a Wi-Fi network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deleted, err := session.DeleteSaved(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("no saved profile for %q", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s.\n", args[0])
		return nil
	},
}

// toggleCommand builds "NAME [on|off]": without an argument it prints the
// current state.
func toggleCommand(name, short string, get func(context.Context) (bool, error), set func(context.Context, bool) error) *cobra.Command {
	return &cobra.Command{
		Use:       name + " [on|off]",
		Short:     short,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return set(cmd.Context(), strings.EqualFold(args[0], "on"))
			}
			enabled, err := get(cmd.Context())
			if err != nil {
				return err
			}
			if flagJSON {
				return writeJSONLine(cmd.OutOrStdout(), map[string]bool{"enabled": enabled})
			}
			state := "off"
			if enabled {
				state = "on"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, state)
			return nil
		},
	}
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the current network each time it settles after a change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		monitor, err := session.Monitor(gonetworkmanager.WithDebounce(cfg.Monitor.Debounce),
			gonetworkmanager.WithMonitorLogger(log))
		if err != nil {
			return err
		}
		updates, unsubscribe := monitor.Feed().Subscribe()
		defer unsubscribe()

		done := make(chan error, 1)
		go func() { done <- monitor.Run(cmd.Context()) }()

		for rec := range updates {
			if err := writeChange(cmd.OutOrStdout(), rec); err != nil {
				return err
			}
		}
		return <-done
	},
}

var statsInterval time.Duration

var statsCmd = &cobra.Command{
	Use:   "stats [INTERFACE]",
	Short: "Sample transfer rates of an interface (default: the current connection's)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		iface, err := statsInterface(ctx, args)
		if err != nil {
			return err
		}
		tracker, err := netstats.New(ctx, iface)
		if err != nil {
			return err
		}

		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s, err := tracker.Sample(ctx)
				if err != nil {
					return err
				}
				if err := writeStats(cmd.OutOrStdout(), s); err != nil {
					return err
				}
			}
		}
	},
}

func statsInterface(ctx context.Context, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	rec, err := session.ResolveCurrent(ctx)
	if err != nil {
		return "", err
	}
	if rec.Interface != "" {
		return rec.Interface, nil
	}
	names, err := netstats.Interfaces(ctx)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no network interfaces")
	}
	fmt.Fprintf(os.Stderr, "No active connection; sampling %s\n", names[0])
	return names[0], nil
}

func init() {
	connectCmd.Flags().StringVarP(&connectPassword, "password", "p", "", "network password or key")
	connectCmd.Flags().StringVarP(&connectUsername, "username", "u", "", "identity for enterprise networks")
	connectCmd.Flags().StringVarP(&connectSecurity, "security", "s", "",
		"security type: none, wep, wpa-psk, wpa-eap, wpa2-psk, wpa3-psk (default: from scan)")
	statsCmd.Flags().DurationVar(&statsInterval, "interval", time.Second, "sampling interval")

	rootCmd.AddCommand(
		statusCmd,
		listCmd,
		savedCmd,
		connectCmd,
		disconnectCmd,
		forgetCmd,
		toggleCommand("radio", "Show or set the Wi-Fi radio state", sessionRadioEnabled, sessionSetRadioEnabled),
		toggleCommand("networking", "Show or set NetworkManager's global networking state", sessionNetworkingEnabled, sessionSetNetworkingEnabled),
		watchCmd,
		statsCmd,
	)
}

// The session is created in PersistentPreRunE, after init, so the toggle
// commands bind through these instead of method values.
func sessionRadioEnabled(ctx context.Context) (bool, error) { return session.RadioEnabled(ctx) }
func sessionSetRadioEnabled(ctx context.Context, on bool) error {
	return session.SetRadioEnabled(ctx, on)
}
func sessionNetworkingEnabled(ctx context.Context) (bool, error) {
	return session.NetworkingEnabled(ctx)
}
func sessionSetNetworkingEnabled(ctx context.Context, on bool) error {
	return session.SetNetworkingEnabled(ctx, on)
}
