//go:build !windows
// +build !windows

package midiwindows

import (
	"github.com/leandrodaf/gong/sdk/contracts"
)

type dummyDriver struct {
	logger contracts.Logger
}

// NewDriver initializes a dummy driver for non-Windows systems.
func NewDriver(options *contracts.HubOptions) (contracts.Driver, error) {
	options.Logger.Info("Using dummy winmm driver for non-Windows system")
	return &dummyDriver{
		logger: options.Logger,
	}, nil
}

// NewClient logs a warning and reports that winmm is unavailable.
func (d *dummyDriver) NewClient(name string, notify contracts.NotificationHandler) (contracts.Client, error) {
	d.logger.Warn("NewClient called on dummy winmm driver")
	return nil, contracts.ErrUnsupportedPlatform
}

func (d *dummyDriver) Sources() ([]contracts.Source, error) {
	return nil, contracts.ErrUnsupportedPlatform
}

func (d *dummyDriver) Destinations() ([]contracts.Destination, error) {
	return nil, contracts.ErrUnsupportedPlatform
}

func (d *dummyDriver) Devices() ([]contracts.Device, error) {
	return nil, contracts.ErrUnsupportedPlatform
}
