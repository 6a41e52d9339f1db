package midi

import (
	"runtime"

	"github.com/leandrodaf/gong/internal/midi/mididarwin"
	"github.com/leandrodaf/gong/internal/midi/midiwindows"
	"github.com/leandrodaf/gong/sdk/contracts"
)

// driverInitializers maps OS names to corresponding MIDI driver initializers.
var driverInitializers = map[string]func(*contracts.HubOptions) (contracts.Driver, error){
	"darwin":  mididarwin.NewDriver,  // macOS (Darwin) CoreMIDI driver.
	"windows": midiwindows.NewDriver, // Windows winmm driver.
}

// NewDriver initializes the MIDI driver for the current operating system.
// Other systems get a driver whose client cannot be created, so a hub
// built on it starts degraded.
func NewDriver(opts *contracts.HubOptions) (contracts.Driver, error) {
	if initializer, exists := driverInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	opts.Logger.Warn("No MIDI driver for this operating system",
		opts.Logger.Field().String("os", runtime.GOOS))
	return unsupportedDriver{}, nil
}

type unsupportedDriver struct{}

func (unsupportedDriver) NewClient(string, contracts.NotificationHandler) (contracts.Client, error) {
	return nil, contracts.ErrUnsupportedPlatform
}

func (unsupportedDriver) Sources() ([]contracts.Source, error) {
	return nil, contracts.ErrUnsupportedPlatform
}

func (unsupportedDriver) Destinations() ([]contracts.Destination, error) {
	return nil, contracts.ErrUnsupportedPlatform
}

func (unsupportedDriver) Devices() ([]contracts.Device, error) {
	return nil, contracts.ErrUnsupportedPlatform
}
