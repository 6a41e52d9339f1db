//go:build darwin
// +build darwin

package mididarwin

/*
#cgo LDFLAGS: -framework CoreMIDI
#include <CoreMIDI/CoreMIDI.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/gong/internal/hotplug"
	"github.com/leandrodaf/gong/sdk/audioerror"
	"github.com/leandrodaf/gong/sdk/contracts"
	"github.com/youpy/go-coremidi"
	"gitlab.com/gomidi/midi/v2"
)

// Error definitions for CoreMIDI operations.
var (
	ErrCreateClient     = errors.New("error creating MIDI client")
	ErrCreateInputPort  = errors.New("error creating input port")
	ErrCreateOutputPort = errors.New("error creating output port")
	ErrMIDIConnection   = errors.New("error connecting to MIDI source")
	ErrNotConnected     = errors.New("MIDI source is not connected")
	ErrForeignEndpoint  = errors.New("endpoint does not belong to the CoreMIDI driver")
	ErrPortClosed       = errors.New("MIDI port is closed")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// Driver talks to CoreMIDI on Darwin (macOS) systems. CoreMIDI setup
// notifications are not exposed by go-coremidi, so hotplug is detected by
// polling the source list.
type Driver struct {
	logger   contracts.Logger
	interval time.Duration
}

// NewDriver initializes the CoreMIDI driver.
func NewDriver(options *contracts.HubOptions) (contracts.Driver, error) {
	return &Driver{
		logger:   options.Logger,
		interval: options.HotplugInterval,
	}, nil
}

// NewClient creates a CoreMIDI client. notify receives polled hotplug
// events until the client is closed.
func (d *Driver) NewClient(name string, notify contracts.NotificationHandler) (contracts.Client, error) {
	c, err := coremidi.NewClient(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateClient, err)
	}
	cl := &client{client: c, logger: d.logger}
	if notify != nil {
		cl.stopWatch = hotplug.NewWatcher(d.Sources, notify, d.interval, d.logger).Start()
	}
	return cl, nil
}

// Sources lists every CoreMIDI source.
func (d *Driver) Sources() ([]contracts.Source, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	return wrapSources(sources), nil
}

// Destinations lists every CoreMIDI destination.
func (d *Driver) Destinations() ([]contracts.Destination, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	return wrapDestinations(destinations), nil
}

// Devices lists every CoreMIDI device.
func (d *Driver) Devices() ([]contracts.Device, error) {
	devices, err := coremidi.AllDevices()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI devices: %w", err)
	}
	out := make([]contracts.Device, len(devices))
	for i, dev := range devices {
		out[i] = device{dev}
	}
	return out, nil
}

type client struct {
	client    coremidi.Client
	logger    contracts.Logger
	stopWatch func()
	closeOnce sync.Once
}

func (c *client) NewInputPort(name string, fn contracts.MessageHandler) (contracts.InputPort, error) {
	port, err := coremidi.NewInputPort(c.client, name, func(src coremidi.Source, packet coremidi.Packet) {
		if fn == nil || len(packet.Data) == 0 {
			return
		}
		data := make([]byte, len(packet.Data))
		copy(data, packet.Data)
		fn(midi.Message(data), source{src})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}
	return &inputPort{port: port, conns: make(map[string]internalPortConnection)}, nil
}

func (c *client) NewOutputPort(name string) (contracts.OutputPort, error) {
	port, err := coremidi.NewOutputPort(c.client, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateOutputPort, err)
	}
	return &outputPort{port: port}, nil
}

// Close stops hotplug polling. go-coremidi gives no way to dispose the
// client itself; CoreMIDI releases it when the process exits.
func (c *client) Close() error {
	c.closeOnce.Do(func() {
		if c.stopWatch != nil {
			c.stopWatch()
		}
	})
	return nil
}

type inputPort struct {
	mu     sync.Mutex
	port   coremidi.InputPort
	conns  map[string]internalPortConnection
	closed bool
}

func (p *inputPort) Connect(src contracts.Source) error {
	s, ok := src.(source)
	if !ok {
		return ErrForeignEndpoint
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPortClosed
	}
	if _, ok := p.conns[s.ID()]; ok {
		return nil
	}
	conn, err := p.port.Connect(s.src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMIDIConnection, err)
	}
	p.conns[s.ID()] = conn
	return nil
}

func (p *inputPort) Disconnect(src contracts.Source) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	conn, ok := p.conns[src.ID()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotConnected, src.Name())
	}
	conn.Disconnect()
	delete(p.conns, src.ID())
	return nil
}

func (p *inputPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	for id, conn := range p.conns {
		conn.Disconnect()
		delete(p.conns, id)
	}
	p.closed = true
	return nil
}

type outputPort struct {
	mu     sync.Mutex
	port   coremidi.OutputPort
	closed bool
}

func (p *outputPort) Send(msg midi.Message, to contracts.Destination) error {
	dst, ok := to.(destination)
	if !ok {
		return ErrForeignEndpoint
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPortClosed
	}
	packet := coremidi.NewPacket(msg.Bytes(), 0)
	return packet.Send(&p.port, &dst.dst)
}

// Close unschedules pending output for every destination.
func (p *outputPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return audioerror.Guard(audioerror.Status(C.MIDIFlushOutput(0)), "MIDIFlushOutput")
}
