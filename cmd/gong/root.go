package main

import (
	"fmt"
	"strings"

	"github.com/leandrodaf/gong/internal/logger"
	"github.com/leandrodaf/gong/sdk/contracts"
	"github.com/leandrodaf/gong/sdk/midi"
	"github.com/leandrodaf/gong/sdk/midi/midivirtual"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Driver names accepted by --driver.
const (
	DriverSystem  = "system"
	DriverVirtual = "virtual"
)

// Settings holds the global command line configuration.
type Settings struct {
	Debug         bool
	LogFile       string
	Driver        string
	ClientName    string
	NoAutoConnect bool
}

// RootCommand creates and returns the root command
func RootCommand(settings *Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gong",
		Short:         "Typed MIDI hub CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	viper.SetEnvPrefix("gong")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := setupFlags(rootCmd, settings); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(
		listCommand(settings),
		monitorCommand(settings),
		sendCommand(settings),
		statusCommand(settings),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Environment variables and flags both land in viper; read them back.
		settings.Debug = viper.GetBool("debug")
		settings.LogFile = viper.GetString("log-file")
		settings.Driver = viper.GetString("driver")
		settings.ClientName = viper.GetString("client-name")
		settings.NoAutoConnect = viper.GetBool("no-auto-connect")

		switch settings.Driver {
		case DriverSystem, DriverVirtual:
			return nil
		default:
			return fmt.Errorf("unknown driver %q, want %q or %q", settings.Driver, DriverSystem, DriverVirtual)
		}
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", false, "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.LogFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&settings.Driver, "driver", DriverSystem, "MIDI driver: system or virtual")
	rootCmd.PersistentFlags().StringVar(&settings.ClientName, "client-name", midi.DefaultClientName, "Name of the MIDI client")
	rootCmd.PersistentFlags().BoolVar(&settings.NoAutoConnect, "no-auto-connect", false, "Do not connect sources as they appear")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}

// session bundles what a command needs to talk to MIDI.
type session struct {
	logger   contracts.Logger
	driver   contracts.Driver
	registry *prometheus.Registry
	hub      contracts.Hub
}

func newLogger(settings *Settings) contracts.Logger {
	log := logger.NewStandardLogger()
	if settings.Debug {
		log.SetLevel(contracts.DebugLevel)
	}
	if settings.LogFile != "" {
		log.SetDestination(contracts.FileLog, settings.LogFile)
	}
	return log
}

// newDriver returns the driver selected by settings. The virtual driver is
// populated with one loopback device.
func newDriver(settings *Settings, log contracts.Logger) (contracts.Driver, error) {
	if settings.Driver == DriverVirtual {
		d := midivirtual.New()
		port := d.AddDevice("Virtual Loopback", "gong").AddEntity("Port 1")
		port.AddSource("Loopback Out")
		port.AddDestination("Loopback In")
		return d, nil
	}
	return midi.NewDriver(&contracts.HubOptions{Logger: log})
}

func openSession(settings *Settings) (*session, error) {
	log := newLogger(settings)
	driver, err := newDriver(settings, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create MIDI driver: %w", err)
	}

	registry := prometheus.NewRegistry()
	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithDriver(driver),
		contracts.WithClientName(settings.ClientName),
		contracts.WithMetricsRegistry(registry),
	}
	if settings.Debug {
		opts = append(opts, contracts.WithLogLevel(contracts.DebugLevel))
	}
	if settings.NoAutoConnect {
		opts = append(opts, contracts.WithoutAutoConnect())
	}

	h, err := midi.NewHub(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MIDI hub: %w", err)
	}
	return &session{logger: log, driver: driver, registry: registry, hub: h}, nil
}

func (s *session) Close() error {
	err := s.hub.Close()
	if syncer, ok := s.logger.(interface{ Sync() error }); ok {
		_ = syncer.Sync()
	}
	return err
}
