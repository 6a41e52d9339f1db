package contracts

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// EventKind enumerates the platform notifications a hub relays.
type EventKind int

const (
	EventSetupChanged EventKind = iota
	EventObjectAdded
	EventObjectRemoved
	EventPropertyChanged
	EventThruConnectionsChanged
	EventSerialPortOwnerChanged
	EventIOError
)

func (k EventKind) String() string {
	switch k {
	case EventSetupChanged:
		return "setupChanged"
	case EventObjectAdded:
		return "objectAdded"
	case EventObjectRemoved:
		return "objectRemoved"
	case EventPropertyChanged:
		return "propertyChanged"
	case EventThruConnectionsChanged:
		return "thruConnectionsChanged"
	case EventSerialPortOwnerChanged:
		return "serialPortOwnerChanged"
	case EventIOError:
		return "ioError"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a platform notification. Parent and Object are only set for the
// kinds that carry them: added/removed objects, changed properties and the
// device reporting an I/O error.
type Event struct {
	Kind     EventKind
	Parent   any
	Object   any
	Property string
	Err      error
}

// Source returns the event's object when it is a source endpoint.
func (e Event) Source() (Source, bool) {
	src, ok := e.Object.(Source)
	if !ok || src == nil {
		return nil, false
	}
	return src, src.Direction() == DirectionSource
}

// EventObserver is notified of platform events.
type EventObserver interface {
	ObserveEvent(event Event)
}

// MessageObserver is notified of messages arriving from sources.
type MessageObserver interface {
	ObserveMessage(msg midi.Message, from Source)
}

// Observer observes both streams.
type Observer interface {
	EventObserver
	MessageObserver
}

// EventObserverFunc adapts a function to EventObserver. Function observers
// cannot be removed by identity; keep the Token instead.
type EventObserverFunc func(Event)

func (f EventObserverFunc) ObserveEvent(event Event) { f(event) }

// MessageObserverFunc adapts a function to MessageObserver.
type MessageObserverFunc func(midi.Message, Source)

func (f MessageObserverFunc) ObserveMessage(msg midi.Message, from Source) { f(msg, from) }

// Token identifies one registration.
type Token uint64
