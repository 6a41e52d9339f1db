package midivirtual

import (
	"github.com/leandrodaf/gong/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

type client struct {
	driver *Driver
	name   string
	notify contracts.NotificationHandler
	closed bool
}

func (c *client) NewInputPort(name string, fn contracts.MessageHandler) (contracts.InputPort, error) {
	d := c.driver
	d.mu.Lock()
	defer d.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if err := d.attempt(OpNewInputPort, ""); err != nil {
		return nil, err
	}
	return &inputPort{driver: d, name: name, handler: fn}, nil
}

func (c *client) NewOutputPort(name string) (contracts.OutputPort, error) {
	d := c.driver
	d.mu.Lock()
	defer d.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if err := d.attempt(OpNewOutputPort, ""); err != nil {
		return nil, err
	}
	return &outputPort{driver: d, name: name}, nil
}

func (c *client) Close() error {
	d := c.driver
	d.mu.Lock()
	defer d.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	delete(d.clients, c)
	return nil
}

type inputPort struct {
	driver  *Driver
	name    string
	handler contracts.MessageHandler
	closed  bool
}

func (p *inputPort) Connect(src contracts.Source) error {
	d := p.driver
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.attempt(OpConnect, src.ID()); err != nil {
		return err
	}
	if p.closed {
		return ErrClosed
	}
	ports, ok := d.connections[src.ID()]
	if !ok {
		ports = make(map[*inputPort]struct{})
		d.connections[src.ID()] = ports
	}
	ports[p] = struct{}{}
	return nil
}

func (p *inputPort) Disconnect(src contracts.Source) error {
	d := p.driver
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.attempt(OpDisconnect, src.ID()); err != nil {
		return err
	}
	if p.closed {
		return ErrClosed
	}
	delete(d.connections[src.ID()], p)
	return nil
}

func (p *inputPort) Close() error {
	d := p.driver
	d.mu.Lock()
	defer d.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.closed = true
	for _, ports := range d.connections {
		delete(ports, p)
	}
	return nil
}

type outputPort struct {
	driver *Driver
	name   string
	closed bool
}

func (p *outputPort) Send(msg midi.Message, to contracts.Destination) error {
	d := p.driver
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.attempt(OpSend, to.ID()); err != nil {
		return err
	}
	if p.closed {
		return ErrClosed
	}
	d.deliveries = append(d.deliveries, Delivery{Destination: to.ID(), Message: msg})
	return nil
}

func (p *outputPort) Close() error {
	d := p.driver
	d.mu.Lock()
	defer d.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.closed = true
	return nil
}
