package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"nmnet/config"
	"nmnet/gonetworkmanager"
	"nmnet/logger"
)

var (
	flagConfig string
	flagDebug  bool
	flagJSON   bool

	cfg     *config.Config
	session *gonetworkmanager.Session
	log     zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Inspect and manage NetworkManager connections",
	Long:          "nmnet talks to NetworkManager over the system bus. Without a subcommand it starts the interactive Wi-Fi manager.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd == cmd.Root())
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		teardown()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTUI(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default: search "+config.ConfigFileName+")")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print JSON instead of tables")
}

// setup loads config, initializes logging and dials the bus. The TUI owns
// the terminal, so its logs go to the UI log file.
func setup(interactive bool) error {
	var (
		path string
		err  error
	)
	if flagConfig != "" {
		cfg, path, err = config.LoadFromPath(flagConfig)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}

	if flagDebug {
		cfg.Logging.Debug = true
	}
	if interactive {
		cfg.Logging.Output = cfg.UI.LogFile
		if cfg.Logging.Output == "" {
			cfg.Logging.Output = "discard"
		}
	}
	if err := logger.Init(cfg.Logging); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	log = logger.WithComponent("cli")
	log.Debug().Str("config", path).Msg("Configuration loaded")

	client, err := gonetworkmanager.Dial(
		gonetworkmanager.WithProber(newProber()),
		gonetworkmanager.WithLogger(logger.WithComponent("networkmanager")),
	)
	if err != nil {
		return fmt.Errorf("%w\nThis application requires NetworkManager on the system bus.", err)
	}
	session = gonetworkmanager.NewSession(client)
	return nil
}

// newProber is built before the client exists, so service mode defers to
// the client's default prober.
func newProber() gonetworkmanager.Prober {
	switch cfg.Probe.Mode {
	case config.ProbeHTTP:
		return gonetworkmanager.NewHTTPProbe(cfg.Probe.URL, cfg.Probe.Timeout)
	case config.ProbeNone:
		return gonetworkmanager.AlwaysReachable
	default:
		return nil
	}
}

func teardown() {
	if session != nil {
		if err := session.Close(); err != nil && !errors.Is(err, gonetworkmanager.ErrNotInitialized) {
			log.Warn().Err(err).Msg("Closing bus connection")
		}
	}
	_ = logger.Close()
}

func runTUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	svc := &services{session: session, cfg: cfg, log: logger.WithComponent("tui")}
	program := tea.NewProgram(initialModel(svc), tea.WithAltScreen(), tea.WithContext(ctx))

	monitor, err := session.Monitor(
		gonetworkmanager.WithDebounce(cfg.Monitor.Debounce),
		gonetworkmanager.WithMonitorLogger(logger.WithComponent("monitor")),
	)
	if err != nil {
		return err
	}
	updates, unsubscribe := monitor.Feed().Subscribe()
	defer unsubscribe()

	go func() {
		if err := monitor.Run(ctx); err != nil {
			svc.log.Error().Err(err).Msg("Change monitor stopped")
		}
	}()
	go func() {
		for rec := range updates {
			program.Send(networkChangedMsg{current: rec})
		}
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
