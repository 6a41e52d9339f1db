// Package midivirtual provides an in-memory MIDI driver. Devices, entities
// and endpoints are created programmatically; hotplug notifications and
// failures can be injected. It backs the hub tests and the CLI's virtual
// mode.
package midivirtual

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/gong/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

// ErrClosed is returned by operations on a closed client or port.
var ErrClosed = errors.New("virtual MIDI object is closed")

// Op names a driver operation for call counting and failure injection.
type Op string

const (
	OpNewClient       Op = "new-client"
	OpNewInputPort    Op = "new-input-port"
	OpNewOutputPort   Op = "new-output-port"
	OpListSources     Op = "list-sources"
	OpListEntities    Op = "list-entities"
	OpListDestination Op = "list-destinations"
	OpConnect         Op = "connect"
	OpDisconnect      Op = "disconnect"
	OpSend            Op = "send"
	OpReceived        Op = "received"
)

// Delivery records one message transmitted to a destination.
type Delivery struct {
	Destination string
	Message     midi.Message
}

type failureKey struct {
	op Op
	id string
}

// Driver is an in-memory implementation of contracts.Driver.
type Driver struct {
	mu          sync.Mutex
	nextID      uint64
	devices     []*Device
	clients     map[*client]struct{}
	connections map[string]map[*inputPort]struct{} // source ID -> ports
	failures    map[failureKey]error
	calls       map[Op]int
	deliveries  []Delivery
}

// New returns an empty virtual driver.
func New() *Driver {
	return &Driver{
		clients:     make(map[*client]struct{}),
		connections: make(map[string]map[*inputPort]struct{}),
		failures:    make(map[failureKey]error),
		calls:       make(map[Op]int),
	}
}

// Fail makes op fail with err for the object identified by id. Use an empty
// id for driver-wide operations such as OpNewClient or OpListSources.
func (d *Driver) Fail(op Op, id string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[failureKey{op, id}] = err
}

// Heal removes a failure injected with Fail.
func (d *Driver) Heal(op Op, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.failures, failureKey{op, id})
}

// Calls returns how many times op was attempted.
func (d *Driver) Calls(op Op) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[op]
}

// Deliveries returns every successful send in order.
func (d *Driver) Deliveries() []Delivery {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Delivery(nil), d.deliveries...)
}

// Connected reports whether any open input port is connected to src.
func (d *Driver) Connected(src contracts.Source) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.connections[src.ID()]) > 0
}

// attempt counts a call to op and returns the injected failure, if any.
// The caller must hold d.mu.
func (d *Driver) attempt(op Op, id string) error {
	d.calls[op]++
	return d.failures[failureKey{op, id}]
}

func (d *Driver) newID() string {
	d.nextID++
	return fmt.Sprintf("virtual:%d", d.nextID)
}

// AddDevice creates a device. Devices are not announced; their endpoints are.
func (d *Driver) AddDevice(name, manufacturer string) *Device {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev := &Device{driver: d, id: d.newID(), name: name, manufacturer: manufacturer}
	d.devices = append(d.devices, dev)
	return dev
}

// NewClient implements contracts.Driver.
func (d *Driver) NewClient(name string, notify contracts.NotificationHandler) (contracts.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.attempt(OpNewClient, ""); err != nil {
		return nil, err
	}
	c := &client{driver: d, name: name, notify: notify}
	d.clients[c] = struct{}{}
	return c, nil
}

// Sources implements contracts.Driver.
func (d *Driver) Sources() ([]contracts.Source, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.attempt(OpListSources, ""); err != nil {
		return nil, err
	}
	var out []contracts.Source
	for _, dev := range d.devices {
		for _, e := range dev.entities {
			for _, s := range e.sources {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

// Destinations implements contracts.Driver.
func (d *Driver) Destinations() ([]contracts.Destination, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.attempt(OpListDestination, ""); err != nil {
		return nil, err
	}
	var out []contracts.Destination
	for _, dev := range d.devices {
		for _, e := range dev.entities {
			for _, dst := range e.destinations {
				out = append(out, dst)
			}
		}
	}
	return out, nil
}

// Devices implements contracts.Driver.
func (d *Driver) Devices() ([]contracts.Device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]contracts.Device, len(d.devices))
	for i, dev := range d.devices {
		out[i] = dev
	}
	return out, nil
}

// announce delivers event to every open client. It must be called without
// holding d.mu.
func (d *Driver) announce(event contracts.Event) {
	d.mu.Lock()
	handlers := make([]contracts.NotificationHandler, 0, len(d.clients))
	for c := range d.clients {
		if c.notify != nil {
			handlers = append(handlers, c.notify)
		}
	}
	d.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}
