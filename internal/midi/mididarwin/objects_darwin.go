//go:build darwin
// +build darwin

package mididarwin

import (
	"fmt"

	"github.com/leandrodaf/gong/sdk/contracts"
	"github.com/youpy/go-coremidi"
	"gitlab.com/gomidi/midi/v2"
)

type source struct {
	src coremidi.Source
}

// ID renders the source's MIDIEndpointRef.
func (s source) ID() string { return endpointID("src", s.src) }

func (s source) Name() string { return s.src.Name() }

func (s source) Direction() contracts.Direction { return contracts.DirectionSource }

// Received makes the source emit msg to every client connected to it.
func (s source) Received(msg midi.Message) error {
	packet := coremidi.NewPacket(msg.Bytes(), 0)
	return packet.Received(&s.src)
}

type destination struct {
	dst coremidi.Destination
}

func (d destination) ID() string { return endpointID("dst", d.dst) }

func (d destination) Name() string { return d.dst.Name() }

func (d destination) Direction() contracts.Direction { return contracts.DirectionDestination }

type entity struct {
	entity coremidi.Entity
}

func (e entity) Name() string { return e.entity.Name() }

func (e entity) Sources() ([]contracts.Source, error) {
	sources, err := e.entity.Sources()
	if err != nil {
		return nil, fmt.Errorf("error listing sources of %q: %w", e.entity.Name(), err)
	}
	return wrapSources(sources), nil
}

func (e entity) Destinations() ([]contracts.Destination, error) {
	destinations, err := e.entity.Destinations()
	if err != nil {
		return nil, fmt.Errorf("error listing destinations of %q: %w", e.entity.Name(), err)
	}
	return wrapDestinations(destinations), nil
}

type device struct {
	device coremidi.Device
}

func (d device) Name() string { return d.device.Name() }

func (d device) Manufacturer() string { return d.device.Manufacturer() }

func (d device) Entities() ([]contracts.Entity, error) {
	entities, err := d.device.Entities()
	if err != nil {
		return nil, fmt.Errorf("error listing entities of %q: %w", d.device.Name(), err)
	}
	out := make([]contracts.Entity, len(entities))
	for i, e := range entities {
		out[i] = entity{e}
	}
	return out, nil
}

func wrapSources(sources []coremidi.Source) []contracts.Source {
	out := make([]contracts.Source, len(sources))
	for i, s := range sources {
		out[i] = source{s}
	}
	return out
}

func wrapDestinations(destinations []coremidi.Destination) []contracts.Destination {
	out := make([]contracts.Destination, len(destinations))
	for i, d := range destinations {
		out[i] = destination{d}
	}
	return out
}
