package hub

import (
	"github.com/leandrodaf/gong/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

// Send results recorded in metrics.
const (
	sendOK      = "ok"
	sendError   = "error"
	sendSkipped = "skipped"
)

// ReceiveDevice injects msg through every source of every entity of d.
func (h *Hub) ReceiveDevice(d contracts.Device, msg midi.Message) {
	for _, e := range h.entities(d) {
		h.ReceiveEntity(e, msg)
	}
}

// ReceiveEntity injects msg through every source of e.
func (h *Hub) ReceiveEntity(e contracts.Entity, msg midi.Message) {
	var sources []contracts.Source
	if !h.policy.Run("list sources", func() (err error) {
		sources, err = e.Sources()
		return err
	}, h.logger.Field().String("entity", e.Name())) {
		return
	}
	for _, src := range sources {
		h.ReceiveSource(src, msg)
	}
}

// ReceiveSource makes s emit msg. Connected input ports, including the
// hub's own, deliver it back through ProcessMessage.
func (h *Hub) ReceiveSource(s contracts.Source, msg midi.Message) {
	h.policy.Run("receive", func() error { return s.Received(msg) }, h.endpointField(s))
}

// SendDevice sends msg to every destination of d through the hub's output
// port.
func (h *Hub) SendDevice(d contracts.Device, msg midi.Message) {
	h.SendDeviceVia(d, msg, h.Output())
}

// SendEntity sends msg to every destination of e through the hub's output
// port.
func (h *Hub) SendEntity(e contracts.Entity, msg midi.Message) {
	h.SendEntityVia(e, msg, h.Output())
}

// SendDestination sends msg to dst through the hub's output port.
func (h *Hub) SendDestination(dst contracts.Destination, msg midi.Message) {
	h.SendDestinationVia(dst, msg, h.Output())
}

// SendDeviceVia sends msg to every destination of d through out.
func (h *Hub) SendDeviceVia(d contracts.Device, msg midi.Message, out contracts.OutputPort) {
	for _, e := range h.entities(d) {
		h.SendEntityVia(e, msg, out)
	}
}

// SendEntityVia sends msg to every destination of e through out.
func (h *Hub) SendEntityVia(e contracts.Entity, msg midi.Message, out contracts.OutputPort) {
	var destinations []contracts.Destination
	if !h.policy.Run("list destinations", func() (err error) {
		destinations, err = e.Destinations()
		return err
	}, h.logger.Field().String("entity", e.Name())) {
		return
	}
	for _, dst := range destinations {
		h.SendDestinationVia(dst, msg, out)
	}
}

// SendDestinationVia transmits msg to dst through out. A nil out skips the
// send without error.
func (h *Hub) SendDestinationVia(dst contracts.Destination, msg midi.Message, out contracts.OutputPort) {
	if out == nil {
		h.metrics.RecordSend(sendSkipped)
		return
	}
	if h.policy.Run("send", func() error { return out.Send(msg, dst) }, h.endpointField(dst)) {
		h.metrics.RecordSend(sendOK)
		return
	}
	h.metrics.RecordSend(sendError)
}

func (h *Hub) entities(d contracts.Device) []contracts.Entity {
	var entities []contracts.Entity
	h.policy.Run("list entities", func() (err error) {
		entities, err = d.Entities()
		return err
	}, h.logger.Field().String("device", d.Name()))
	return entities
}
