package midi

import (
	"github.com/leandrodaf/gong/internal/hotplug"
	"github.com/leandrodaf/gong/internal/logger"
	"github.com/leandrodaf/gong/sdk/contracts"
)

// Default names of the hub's platform objects.
const (
	DefaultClientName = "GO MIDI Client"
	DefaultInputName  = "GO MIDI Input"
	DefaultOutputName = "GO MIDI Output"
)

// applyDefaultOptions sets default values for HubOptions if not explicitly provided.
func applyDefaultOptions(opts ...contracts.Option) (contracts.HubOptions, error) {
	options := &contracts.HubOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Set defaults if options are not provided
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.Names.Client == "" {
		options.Names.Client = DefaultClientName
	}
	if options.Names.Input == "" {
		options.Names.Input = DefaultInputName
	}
	if options.Names.Output == "" {
		options.Names.Output = DefaultOutputName
	}
	if options.HotplugInterval <= 0 {
		options.HotplugInterval = hotplug.DefaultInterval
	}

	options.Logger.SetLevel(options.LogLevel)

	if options.Driver == nil {
		driver, err := NewDriver(options)
		if err != nil {
			return contracts.HubOptions{}, err
		}
		options.Driver = driver
	}
	return *options, nil
}
