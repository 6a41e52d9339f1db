package contracts

import "gitlab.com/gomidi/midi/v2"

// HubStatus is a snapshot of a hub's resources and registrations.
type HubStatus struct {
	Client           bool
	Input            bool
	Output           bool
	EventObservers   int
	MessageObservers int
	Closed           bool
}

// Hub connects a platform MIDI client to application observers.
// Failures while servicing platform callbacks or fanning messages out are
// logged, never returned.
type Hub interface {
	// Connect attaches every known source to the input port.
	Connect()
	// Disconnect detaches every known source from the input port.
	Disconnect()

	AddObserver(o Observer) Token
	RemoveObserver(o Observer)
	AddEventObserver(o EventObserver) Token
	RemoveEventObserver(o EventObserver)
	AddMessageObserver(o MessageObserver) Token
	RemoveMessageObserver(o MessageObserver)
	// Unregister removes every registration made under tok.
	Unregister(tok Token)

	ProcessEvent(event Event)
	ProcessMessage(msg midi.Message, from Source)

	ReceiveDevice(d Device, msg midi.Message)
	ReceiveEntity(e Entity, msg midi.Message)
	ReceiveSource(s Source, msg midi.Message)

	SendDevice(d Device, msg midi.Message)
	SendEntity(e Entity, msg midi.Message)
	SendDestination(dst Destination, msg midi.Message)
	// The Via variants send through out instead of the hub's output port.
	// A nil out skips the send.
	SendDeviceVia(d Device, msg midi.Message, out OutputPort)
	SendEntityVia(e Entity, msg midi.Message, out OutputPort)
	SendDestinationVia(dst Destination, msg midi.Message, out OutputPort)

	// Output returns the hub's output port, or nil when it is absent.
	Output() OutputPort
	Status() HubStatus
	// Close releases the ports and the client. The hub stays usable in
	// degraded mode afterwards.
	Close() error
}
