package contracts

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PortNames holds the names given to the hub's platform objects.
type PortNames struct {
	Client string // Name of the MIDI client.
	Input  string // Name of the input port.
	Output string // Name of the output port.
}

// HubOptions defines the configuration options for a MIDI hub.
type HubOptions struct {
	Logger          Logger               // Logger for logging events and errors.
	LogLevel        LogLevel             // Level of logging to use.
	Driver          Driver               // Platform driver; chosen by OS when nil.
	Names           PortNames            // Client and port names.
	AutoConnect     *bool                // Connect added sources and disconnect removed ones. Defaults to true.
	HotplugInterval time.Duration        // Poll interval for drivers without native notifications.
	Registry        *prometheus.Registry // Optional registry for hub metrics.
}

// AutoConnectEnabled reports the effective auto-connect setting.
func (o *HubOptions) AutoConnectEnabled() bool {
	return o.AutoConnect == nil || *o.AutoConnect
}

// Option is a function that modifies HubOptions.
type Option func(*HubOptions)

// WithLogger sets the logger for the hub.
func WithLogger(l Logger) Option {
	return func(opts *HubOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the hub.
func WithLogLevel(level LogLevel) Option {
	return func(opts *HubOptions) {
		opts.LogLevel = level
	}
}

// WithDriver overrides the platform driver.
func WithDriver(d Driver) Option {
	return func(opts *HubOptions) {
		opts.Driver = d
	}
}

// WithClientName sets the name of the MIDI client.
func WithClientName(name string) Option {
	return func(opts *HubOptions) {
		opts.Names.Client = name
	}
}

// WithPortNames sets the names of the input and output ports.
func WithPortNames(input, output string) Option {
	return func(opts *HubOptions) {
		opts.Names.Input = input
		opts.Names.Output = output
	}
}

// WithoutAutoConnect disables connecting sources as they are added and
// disconnecting them as they are removed.
func WithoutAutoConnect() Option {
	return func(opts *HubOptions) {
		off := false
		opts.AutoConnect = &off
	}
}

// WithHotplugInterval sets how often drivers without native notifications
// poll for source changes.
func WithHotplugInterval(d time.Duration) Option {
	return func(opts *HubOptions) {
		opts.HotplugInterval = d
	}
}

// WithMetricsRegistry registers hub metrics on r.
func WithMetricsRegistry(r *prometheus.Registry) Option {
	return func(opts *HubOptions) {
		opts.Registry = r
	}
}
