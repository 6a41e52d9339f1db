//go:build windows
// +build windows

package midiwindows

import (
	"github.com/leandrodaf/gong/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

type source struct {
	key endpointKey
}

func (s source) ID() string { return s.key.id("in") }

func (s source) Name() string { return s.key.name }

func (s source) Direction() contracts.Direction { return contracts.DirectionSource }

// Received is not available: winmm cannot inject input.
func (s source) Received(midi.Message) error { return contracts.ErrUnsupportedPlatform }

type destination struct {
	key endpointKey
}

func (d destination) ID() string { return d.key.id("out") }

func (d destination) Name() string { return d.key.name }

func (d destination) Direction() contracts.Direction { return contracts.DirectionDestination }

type entity struct {
	name         string
	sources      []contracts.Source
	destinations []contracts.Destination
}

func (e *entity) Name() string { return e.name }

func (e *entity) Sources() ([]contracts.Source, error) { return e.sources, nil }

func (e *entity) Destinations() ([]contracts.Destination, error) { return e.destinations, nil }

type device struct {
	entity *entity
}

func (d device) Name() string { return d.entity.name }

func (d device) Manufacturer() string { return "" }

func (d device) Entities() ([]contracts.Entity, error) { return []contracts.Entity{d.entity}, nil }
