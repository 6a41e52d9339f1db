package contracts

import (
	"errors"

	"gitlab.com/gomidi/midi/v2"
)

// ErrUnsupportedPlatform is returned by drivers that cannot reach a MIDI
// subsystem on the running operating system.
var ErrUnsupportedPlatform = errors.New("MIDI functionality is not available on this platform")

// Direction tags an endpoint as a source or a destination.
type Direction int

const (
	// DirectionSource endpoints produce messages.
	DirectionSource Direction = iota
	// DirectionDestination endpoints consume messages.
	DirectionDestination
)

func (d Direction) String() string {
	if d == DirectionDestination {
		return "destination"
	}
	return "source"
}

// Endpoint is a directional connection point owned by an entity.
// Endpoints are compared by ID, the platform's opaque handle.
type Endpoint interface {
	ID() string
	Name() string
	Direction() Direction
}

// Source is an endpoint that produces messages.
type Source interface {
	Endpoint
	// Received injects msg as if the source had produced it.
	Received(msg midi.Message) error
}

// Destination is an endpoint that consumes messages.
type Destination interface {
	Endpoint
}

// Entity groups the endpoints of one logical part of a device.
type Entity interface {
	Name() string
	Sources() ([]Source, error)
	Destinations() ([]Destination, error)
}

// Device is a MIDI hardware or software unit made of entities.
type Device interface {
	Name() string
	Manufacturer() string
	Entities() ([]Entity, error)
}

// NotificationHandler receives platform notifications.
type NotificationHandler func(Event)

// MessageHandler receives messages arriving on an input port.
type MessageHandler func(msg midi.Message, from Source)

// InputPort receives messages from the sources connected to it.
type InputPort interface {
	Connect(src Source) error
	Disconnect(src Source) error
	Close() error
}

// OutputPort transmits messages to destinations.
type OutputPort interface {
	Send(msg midi.Message, to Destination) error
	Close() error
}

// Client is a session with the platform MIDI server.
type Client interface {
	NewInputPort(name string, fn MessageHandler) (InputPort, error)
	NewOutputPort(name string) (OutputPort, error)
	Close() error
}

// Driver is the entry point into a platform MIDI stack.
type Driver interface {
	NewClient(name string, notify NotificationHandler) (Client, error)
	Sources() ([]Source, error)
	Destinations() ([]Destination, error)
	Devices() ([]Device, error)
}
