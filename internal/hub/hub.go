package hub

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/gong/internal/failsoft"
	"github.com/leandrodaf/gong/internal/metrics"
	"github.com/leandrodaf/gong/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"go.uber.org/multierr"
)

// Error definitions for hub construction.
var (
	ErrNoDriver = errors.New("no MIDI driver configured")
	ErrNoLogger = errors.New("no logger configured")
)

var _ contracts.Hub = (*Hub)(nil)

// Hub coordinates one client, one input port and one output port with the
// application's observers. Each resource is either present or absent;
// operations needing an absent resource log and return.
type Hub struct {
	logger      contracts.Logger
	driver      contracts.Driver
	metrics     *metrics.HubMetrics
	policy      failsoft.Policy
	autoConnect bool

	mu        sync.RWMutex
	client    contracts.Client
	input     contracts.InputPort
	output    contracts.OutputPort
	closed    bool
	closeOnce sync.Once

	lastToken        atomic.Uint64
	eventObservers   registry[contracts.EventObserver]
	messageObservers registry[contracts.MessageObserver]
}

// New creates a hub and opens its client and ports. Failing to open any of
// them is logged and leaves the hub degraded; only invalid options or a
// metrics registration failure return an error.
func New(opts *contracts.HubOptions) (*Hub, error) {
	if opts.Driver == nil {
		return nil, ErrNoDriver
	}
	if opts.Logger == nil {
		return nil, ErrNoLogger
	}
	m, err := metrics.NewHubMetrics(opts.Registry)
	if err != nil {
		return nil, err
	}

	h := &Hub{
		logger:      opts.Logger,
		driver:      opts.Driver,
		metrics:     m,
		autoConnect: opts.AutoConnectEnabled(),
	}
	h.policy = failsoft.Policy{Logger: h.logger, OnFailure: m.RecordFailure}
	h.open(opts.Names)
	return h, nil
}

func (h *Hub) open(names contracts.PortNames) {
	client, err := h.driver.NewClient(names.Client, h.ProcessEvent)
	if err != nil {
		h.logger.Error("Failed to create MIDI client",
			h.logger.Field().String("name", names.Client),
			h.logger.Field().Error("error", err))
		return
	}
	h.mu.Lock()
	h.client = client
	h.mu.Unlock()
	h.logger.Info("MIDI client successfully created", h.logger.Field().String("name", names.Client))

	input, err := client.NewInputPort(names.Input, h.ProcessMessage)
	if err != nil {
		h.logger.Error("Failed to create MIDI input port",
			h.logger.Field().String("name", names.Input),
			h.logger.Field().Error("error", err))
	} else {
		h.mu.Lock()
		h.input = input
		h.mu.Unlock()
	}

	output, err := client.NewOutputPort(names.Output)
	if err != nil {
		h.logger.Error("Failed to create MIDI output port",
			h.logger.Field().String("name", names.Output),
			h.logger.Field().Error("error", err))
	} else {
		h.mu.Lock()
		h.output = output
		h.mu.Unlock()
	}
}

func (h *Hub) inputPort() contracts.InputPort {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.input
}

// Output returns the hub's output port, or nil when it is absent.
func (h *Hub) Output() contracts.OutputPort {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.output
}

// Connect attaches every known source to the input port. A source that
// fails to connect is logged and skipped.
func (h *Hub) Connect() {
	h.forEachSource("connect", func(in contracts.InputPort, src contracts.Source) error {
		return in.Connect(src)
	})
}

// Disconnect detaches every known source from the input port.
func (h *Hub) Disconnect() {
	h.forEachSource("disconnect", func(in contracts.InputPort, src contracts.Source) error {
		return in.Disconnect(src)
	})
}

func (h *Hub) forEachSource(op string, fn func(contracts.InputPort, contracts.Source) error) {
	in := h.inputPort()
	if in == nil {
		h.logger.Warn("MIDI input port unavailable", h.logger.Field().String("op", op))
		return
	}

	var sources []contracts.Source
	if !h.policy.Run("list sources", func() (err error) {
		sources, err = h.driver.Sources()
		return err
	}) {
		return
	}

	for _, src := range sources {
		h.policy.Run(op, func() error { return fn(in, src) }, h.endpointField(src))
	}
}

func (h *Hub) nextToken() contracts.Token {
	return contracts.Token(h.lastToken.Add(1))
}

// AddObserver registers o for both events and messages under one token.
func (h *Hub) AddObserver(o contracts.Observer) contracts.Token {
	tok := h.nextToken()
	h.eventObservers.add(tok, o)
	h.messageObservers.add(tok, o)
	return tok
}

// RemoveObserver removes every registration of o from both streams.
func (h *Hub) RemoveObserver(o contracts.Observer) {
	h.RemoveEventObserver(o)
	h.RemoveMessageObserver(o)
}

// AddEventObserver registers o for platform events.
func (h *Hub) AddEventObserver(o contracts.EventObserver) contracts.Token {
	tok := h.nextToken()
	h.eventObservers.add(tok, o)
	return tok
}

// RemoveEventObserver removes every registration of o. Removing an observer
// that was never added does nothing.
func (h *Hub) RemoveEventObserver(o contracts.EventObserver) {
	h.eventObservers.removeObserver(o)
}

// AddMessageObserver registers o for inbound messages.
func (h *Hub) AddMessageObserver(o contracts.MessageObserver) contracts.Token {
	tok := h.nextToken()
	h.messageObservers.add(tok, o)
	return tok
}

// RemoveMessageObserver removes every registration of o.
func (h *Hub) RemoveMessageObserver(o contracts.MessageObserver) {
	h.messageObservers.removeObserver(o)
}

// Unregister removes the registrations made under tok.
func (h *Hub) Unregister(tok contracts.Token) {
	h.eventObservers.removeToken(tok)
	h.messageObservers.removeToken(tok)
}

// ProcessEvent handles a platform notification. Added sources are connected
// and removed sources disconnected before observers are notified, unless
// auto-connect is disabled. Delivery is synchronous and in registration
// order on the calling goroutine.
func (h *Hub) ProcessEvent(event contracts.Event) {
	if h.autoConnect {
		h.applyAutoConnect(event)
	}

	for _, r := range h.eventObservers.snapshot() {
		if r.removed.Load() {
			continue
		}
		h.policy.Run("observe event", func() error {
			r.observer.ObserveEvent(event)
			return nil
		}, h.logger.Field().String("event", event.Kind.String()))
	}
	h.metrics.RecordEventDispatched()
}

func (h *Hub) applyAutoConnect(event contracts.Event) {
	src, ok := event.Source()
	if !ok {
		return
	}
	switch event.Kind {
	case contracts.EventObjectAdded:
		h.withInput("connect", src, func(in contracts.InputPort) error { return in.Connect(src) })
	case contracts.EventObjectRemoved:
		h.withInput("disconnect", src, func(in contracts.InputPort) error { return in.Disconnect(src) })
	}
}

func (h *Hub) withInput(op string, src contracts.Source, fn func(contracts.InputPort) error) {
	in := h.inputPort()
	if in == nil {
		h.logger.Warn("MIDI input port unavailable",
			h.logger.Field().String("op", op),
			h.endpointField(src))
		return
	}
	h.policy.Run(op, func() error { return fn(in) }, h.endpointField(src))
}

// ProcessMessage delivers msg from src to every message observer,
// synchronously and in registration order.
func (h *Hub) ProcessMessage(msg midi.Message, from contracts.Source) {
	for _, r := range h.messageObservers.snapshot() {
		if r.removed.Load() {
			continue
		}
		h.policy.Run("observe message", func() error {
			r.observer.ObserveMessage(msg, from)
			return nil
		})
	}
	h.metrics.RecordMessageDispatched()
}

// Status reports which resources are present and how many observers are
// registered.
func (h *Hub) Status() contracts.HubStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return contracts.HubStatus{
		Client:           h.client != nil,
		Input:            h.input != nil,
		Output:           h.output != nil,
		EventObservers:   h.eventObservers.len(),
		MessageObservers: h.messageObservers.len(),
		Closed:           h.closed,
	}
}

// Close disposes the input port, the output port and the client, in that
// order. Later calls return nil. Observers stay registered but receive
// nothing further from the platform.
func (h *Hub) Close() error {
	var err error
	h.closeOnce.Do(func() {
		h.mu.Lock()
		input, output, client := h.input, h.output, h.client
		h.input, h.output, h.client = nil, nil, nil
		h.closed = true
		h.mu.Unlock()

		if input != nil {
			err = multierr.Append(err, input.Close())
		}
		if output != nil {
			err = multierr.Append(err, output.Close())
		}
		if client != nil {
			err = multierr.Append(err, client.Close())
		}
		if err != nil {
			h.logger.Error("MIDI hub closed with errors", h.logger.Field().Error("error", err))
			return
		}
		h.logger.Info("MIDI hub closed")
	})
	return err
}

func (h *Hub) endpointField(ep contracts.Endpoint) contracts.Field {
	return h.logger.Field().String("endpoint", ep.Name())
}
