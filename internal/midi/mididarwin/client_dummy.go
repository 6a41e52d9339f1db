//go:build !darwin
// +build !darwin

package mididarwin

import (
	"github.com/leandrodaf/gong/sdk/contracts"
)

// DummyDriver stands in for CoreMIDI on other systems.
type DummyDriver struct {
	logger contracts.Logger
}

func NewDriver(options *contracts.HubOptions) (contracts.Driver, error) {
	options.Logger.Info("Using dummy CoreMIDI driver for non-macOS system")
	return &DummyDriver{
		logger: options.Logger,
	}, nil
}

func (d *DummyDriver) NewClient(name string, notify contracts.NotificationHandler) (contracts.Client, error) {
	d.logger.Warn("NewClient called on dummy CoreMIDI driver")
	return nil, contracts.ErrUnsupportedPlatform
}

func (d *DummyDriver) Sources() ([]contracts.Source, error) {
	return nil, contracts.ErrUnsupportedPlatform
}

func (d *DummyDriver) Destinations() ([]contracts.Destination, error) {
	return nil, contracts.ErrUnsupportedPlatform
}

func (d *DummyDriver) Devices() ([]contracts.Device, error) {
	return nil, contracts.ErrUnsupportedPlatform
}
