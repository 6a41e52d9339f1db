package midivirtual

import (
	"slices"

	"github.com/leandrodaf/gong/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

// Device is a virtual MIDI device.
type Device struct {
	driver       *Driver
	id           string
	name         string
	manufacturer string
	entities     []*Entity
}

// ID returns the device's handle.
func (dev *Device) ID() string { return dev.id }

func (dev *Device) Name() string { return dev.name }

func (dev *Device) Manufacturer() string { return dev.manufacturer }

// Entities implements contracts.Device.
func (dev *Device) Entities() ([]contracts.Entity, error) {
	d := dev.driver
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.attempt(OpListEntities, dev.id); err != nil {
		return nil, err
	}
	out := make([]contracts.Entity, len(dev.entities))
	for i, e := range dev.entities {
		out[i] = e
	}
	return out, nil
}

// AddEntity creates an entity owned by dev.
func (dev *Device) AddEntity(name string) *Entity {
	d := dev.driver
	d.mu.Lock()
	defer d.mu.Unlock()
	e := &Entity{device: dev, id: d.newID(), name: name}
	dev.entities = append(dev.entities, e)
	return e
}

// Entity is a virtual MIDI entity.
type Entity struct {
	device       *Device
	id           string
	name         string
	sources      []*Source
	destinations []*Destination
}

// ID returns the entity's handle.
func (e *Entity) ID() string { return e.id }

func (e *Entity) Name() string { return e.name }

// Sources implements contracts.Entity.
func (e *Entity) Sources() ([]contracts.Source, error) {
	d := e.device.driver
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.attempt(OpListSources, e.id); err != nil {
		return nil, err
	}
	out := make([]contracts.Source, len(e.sources))
	for i, s := range e.sources {
		out[i] = s
	}
	return out, nil
}

// Destinations implements contracts.Entity.
func (e *Entity) Destinations() ([]contracts.Destination, error) {
	d := e.device.driver
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.attempt(OpListDestination, e.id); err != nil {
		return nil, err
	}
	out := make([]contracts.Destination, len(e.destinations))
	for i, dst := range e.destinations {
		out[i] = dst
	}
	return out, nil
}

// AddSource creates a source and announces it to open clients.
func (e *Entity) AddSource(name string) *Source {
	d := e.device.driver
	d.mu.Lock()
	s := &Source{endpoint{driver: d, id: d.newID(), name: name}}
	e.sources = append(e.sources, s)
	d.mu.Unlock()

	d.announce(contracts.Event{Kind: contracts.EventObjectAdded, Parent: e, Object: s})
	return s
}

// RemoveSource detaches s from e and announces the removal.
func (e *Entity) RemoveSource(s *Source) {
	d := e.device.driver
	d.mu.Lock()
	e.sources = slices.DeleteFunc(e.sources, func(x *Source) bool { return x == s })
	d.mu.Unlock()

	d.announce(contracts.Event{Kind: contracts.EventObjectRemoved, Parent: e, Object: s})
}

// AddDestination creates a destination and announces it to open clients.
func (e *Entity) AddDestination(name string) *Destination {
	d := e.device.driver
	d.mu.Lock()
	dst := &Destination{endpoint{driver: d, id: d.newID(), name: name}}
	e.destinations = append(e.destinations, dst)
	d.mu.Unlock()

	d.announce(contracts.Event{Kind: contracts.EventObjectAdded, Parent: e, Object: dst})
	return dst
}

// RemoveDestination detaches dst from e and announces the removal.
func (e *Entity) RemoveDestination(dst *Destination) {
	d := e.device.driver
	d.mu.Lock()
	e.destinations = slices.DeleteFunc(e.destinations, func(x *Destination) bool { return x == dst })
	d.mu.Unlock()

	d.announce(contracts.Event{Kind: contracts.EventObjectRemoved, Parent: e, Object: dst})
}

type endpoint struct {
	driver *Driver
	id     string
	name   string
}

func (ep *endpoint) ID() string { return ep.id }

func (ep *endpoint) Name() string { return ep.name }

// Source is a virtual source endpoint.
type Source struct {
	endpoint
}

func (s *Source) Direction() contracts.Direction { return contracts.DirectionSource }

// Received delivers msg to every input port connected to s, synchronously.
func (s *Source) Received(msg midi.Message) error {
	d := s.driver
	d.mu.Lock()
	if err := d.attempt(OpReceived, s.id); err != nil {
		d.mu.Unlock()
		return err
	}
	var handlers []contracts.MessageHandler
	for p := range d.connections[s.id] {
		handlers = append(handlers, p.handler)
	}
	d.mu.Unlock()

	for _, h := range handlers {
		h(msg, s)
	}
	return nil
}

// Destination is a virtual destination endpoint.
type Destination struct {
	endpoint
}

func (dst *Destination) Direction() contracts.Direction { return contracts.DirectionDestination }
