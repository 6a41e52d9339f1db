//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/leandrodaf/gong/internal/hotplug"
	"github.com/leandrodaf/gong/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"go.uber.org/multierr"
	"golang.org/x/sys/windows"
)

// Error definitions for winmm operations.
var (
	ErrForeignEndpoint = errors.New("endpoint does not belong to the winmm driver")
	ErrNotConnected    = errors.New("MIDI source is not connected")
	ErrSysExNotSupport = errors.New("only short MIDI messages can be sent")
	ErrPortClosed      = errors.New("MIDI port is closed")
	ErrDeviceGone      = errors.New("MIDI device is no longer present")
)

// Driver manages MIDI on Windows through winmm. winmm has no notion of
// entities or setup notifications: every device name becomes one device
// with one entity, and hotplug is detected by polling.
type Driver struct {
	logger   contracts.Logger
	interval time.Duration
}

// NewDriver creates the winmm driver.
func NewDriver(options *contracts.HubOptions) (contracts.Driver, error) {
	options.Logger.Info("MIDI driver created for Windows")
	return &Driver{logger: options.Logger, interval: options.HotplugInterval}, nil
}

func (d *Driver) NewClient(name string, notify contracts.NotificationHandler) (contracts.Client, error) {
	c := &client{name: name, logger: d.logger}
	if notify != nil {
		c.stopWatch = hotplug.NewWatcher(d.Sources, notify, d.interval, d.logger).Start()
	}
	return c, nil
}

func (d *Driver) Sources() ([]contracts.Source, error) {
	keys := keysOf(inDeviceNames())
	out := make([]contracts.Source, len(keys))
	for i, k := range keys {
		out[i] = source{key: k}
	}
	return out, nil
}

func (d *Driver) Destinations() ([]contracts.Destination, error) {
	keys := keysOf(outDeviceNames())
	out := make([]contracts.Destination, len(keys))
	for i, k := range keys {
		out[i] = destination{key: k}
	}
	return out, nil
}

// Devices groups inputs and outputs sharing a name.
func (d *Driver) Devices() ([]contracts.Device, error) {
	byName := make(map[string]*entity)
	var order []string
	get := func(name string) *entity {
		e, ok := byName[name]
		if !ok {
			e = &entity{name: name}
			byName[name] = e
			order = append(order, name)
		}
		return e
	}
	for _, k := range keysOf(inDeviceNames()) {
		e := get(k.name)
		e.sources = append(e.sources, source{key: k})
	}
	for _, k := range keysOf(outDeviceNames()) {
		e := get(k.name)
		e.destinations = append(e.destinations, destination{key: k})
	}

	out := make([]contracts.Device, 0, len(order))
	for _, n := range order {
		out = append(out, device{entity: byName[n]})
	}
	return out, nil
}

type client struct {
	name      string
	logger    contracts.Logger
	stopWatch func()
	closeOnce sync.Once
}

func (c *client) NewInputPort(name string, fn contracts.MessageHandler) (contracts.InputPort, error) {
	return &inputPort{logger: c.logger, handler: fn, conns: make(map[string]*connection)}, nil
}

func (c *client) NewOutputPort(name string) (contracts.OutputPort, error) {
	return &outputPort{handles: make(map[string]HMIDIOUT)}, nil
}

func (c *client) Close() error {
	c.closeOnce.Do(func() {
		if c.stopWatch != nil {
			c.stopWatch()
		}
	})
	return nil
}

// connection is one opened input device. Callbacks find it through
// connections by the id passed as dwInstance.
type connection struct {
	id      uintptr
	handle  HMIDIIN
	source  source
	handler contracts.MessageHandler
	logger  contracts.Logger
}

var (
	callbackOnce sync.Once
	callbackPtr  uintptr

	connMu      sync.RWMutex
	connLastID  uintptr
	connections = make(map[uintptr]*connection)
)

func midiCallback() uintptr {
	callbackOnce.Do(func() {
		callbackPtr = windows.NewCallback(midiInCallback)
	})
	return callbackPtr
}

type inputPort struct {
	mu      sync.Mutex
	logger  contracts.Logger
	handler contracts.MessageHandler
	conns   map[string]*connection
	closed  bool
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
	index, ok := indexOf(inDeviceNames(), s.key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrDeviceGone, s.Name())
	}

	connMu.Lock()
	connLastID++
	conn := &connection{id: connLastID, source: s, handler: p.handler, logger: p.logger}
	connections[conn.id] = conn
	connMu.Unlock()

	r1, _, _ := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&conn.handle)),
		uintptr(index),
		midiCallback(),
		conn.id,
		uintptr(CALLBACK_FUNCTION|MIDI_IO_STATUS),
	)
	if err := check("midiInOpen", r1); err != nil {
		forget(conn.id)
		return err
	}
	r1, _, _ = procMidiInStart.Call(uintptr(conn.handle))
	if err := check("midiInStart", r1); err != nil {
		procMidiInClose.Call(uintptr(conn.handle))
		forget(conn.id)
		return err
	}
	p.conns[s.ID()] = conn
	return nil
}

func (p *inputPort) Disconnect(src contracts.Source) error {
	s, ok := src.(source)
	if !ok {
		return ErrForeignEndpoint
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	conn, ok := p.conns[s.ID()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotConnected, s.Name())
	}
	delete(p.conns, s.ID())
	return closeConnection(conn)
}

func (p *inputPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	var err error
	for id, conn := range p.conns {
		err = multierr.Append(err, closeConnection(conn))
		delete(p.conns, id)
	}
	return err
}

func closeConnection(conn *connection) error {
	defer forget(conn.id)
	r1, _, _ := procMidiInStop.Call(uintptr(conn.handle))
	err := check("midiInStop", r1)
	r1, _, _ = procMidiInClose.Call(uintptr(conn.handle))
	return multierr.Append(err, check("midiInClose", r1))
}

func forget(id uintptr) {
	connMu.Lock()
	delete(connections, id)
	connMu.Unlock()
}

// midiInCallback processes incoming MIDI messages
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	connMu.RLock()
	conn := connections[dwInstance]
	connMu.RUnlock()
	if conn == nil {
		return 0
	}

	switch wMsg {
	case MIM_DATA, MIM_MOREDATA:
		if conn.handler == nil {
			return 0
		}
		raw := []byte{byte(dwParam1 & 0xFF), byte((dwParam1 >> 8) & 0xFF), byte((dwParam1 >> 16) & 0xFF)}
		conn.handler(midi.Message(raw[:shortMessageLen(raw[0])]), conn.source)
	case MIM_ERROR, MIM_LONGERROR:
		conn.logger.Error(fmt.Sprintf("MIDI error: msg=0x%X", wMsg),
			conn.logger.Field().String("source", conn.source.Name()))
	case MIM_OPEN, MIM_CLOSE:
		conn.logger.Debug(fmt.Sprintf("MIDI device status: msg=0x%X", wMsg),
			conn.logger.Field().String("source", conn.source.Name()))
	}
	return 0
}

// shortMessageLen returns the byte length of a short message by status.
func shortMessageLen(status byte) int {
	switch {
	case status >= 0xF8, status == 0xF6:
		return 1
	case status == 0xF1, status == 0xF3:
		return 2
	case status >= 0xF0:
		return 3
	case status&0xF0 == 0xC0, status&0xF0 == 0xD0:
		return 2
	default:
		return 3
	}
}

type outputPort struct {
	mu      sync.Mutex
	handles map[string]HMIDIOUT
	closed  bool
}

func (p *outputPort) Send(msg midi.Message, to contracts.Destination) error {
	dst, ok := to.(destination)
	if !ok {
		return ErrForeignEndpoint
	}
	raw := msg.Bytes()
	if len(raw) == 0 || len(raw) > 3 {
		return ErrSysExNotSupport
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPortClosed
	}
	h, ok := p.handles[dst.ID()]
	if !ok {
		index, found := indexOf(outDeviceNames(), dst.key)
		if !found {
			return fmt.Errorf("%w: %s", ErrDeviceGone, dst.Name())
		}
		r1, _, _ := procMidiOutOpen.Call(uintptr(unsafe.Pointer(&h)), uintptr(index), 0, 0, CALLBACK_NULL)
		if err := check("midiOutOpen", r1); err != nil {
			return err
		}
		p.handles[dst.ID()] = h
	}

	var packed uintptr
	for i, b := range raw {
		packed |= uintptr(b) << (8 * i)
	}
	r1, _, _ := procMidiOutShortMsg.Call(uintptr(h), packed)
	return check("midiOutShortMsg", r1)
}

func (p *outputPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	var err error
	for id, h := range p.handles {
		r1, _, _ := procMidiOutClose.Call(uintptr(h))
		err = multierr.Append(err, check("midiOutClose", r1))
		delete(p.handles, id)
	}
	return err
}
