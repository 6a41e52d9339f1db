package hub

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/leandrodaf/gong/internal/logger"
	"github.com/leandrodaf/gong/sdk/contracts"
	"github.com/leandrodaf/gong/sdk/midi/midivirtual"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var errBoom = errors.New("boom")

func newTestHub(t *testing.T, driver contracts.Driver, opts ...contracts.Option) (*Hub, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	o := &contracts.HubOptions{
		Logger: logger.NewZapLoggerFrom(zap.New(core)),
		Driver: driver,
		Names:  contracts.PortNames{Client: "test client", Input: "test input", Output: "test output"},
	}
	for _, opt := range opts {
		opt(o)
	}
	h, err := New(o)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h, logs
}

// recorder is a pointer observer that appends what it sees to a shared log.
type recorder struct {
	name     string
	mu       sync.Mutex
	log      *[]string
	events   []contracts.Event
	messages []midi.Message
	sources  []contracts.Source
}

func newRecorder(name string, log *[]string) *recorder {
	return &recorder{name: name, log: log}
}

func (r *recorder) ObserveEvent(e contracts.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	if r.log != nil {
		*r.log = append(*r.log, r.name)
	}
}

func (r *recorder) ObserveMessage(msg midi.Message, from contracts.Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	r.sources = append(r.sources, from)
	if r.log != nil {
		*r.log = append(*r.log, r.name)
	}
}

func (r *recorder) eventCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func setupEvent() contracts.Event {
	return contracts.Event{Kind: contracts.EventSetupChanged}
}

func TestNewRequiresDriverAndLogger(t *testing.T) {
	_, err := New(&contracts.HubOptions{Logger: logger.NewZapLoggerFrom(zap.NewNop())})
	assert.ErrorIs(t, err, ErrNoDriver)

	_, err = New(&contracts.HubOptions{Driver: midivirtual.New()})
	assert.ErrorIs(t, err, ErrNoLogger)
}

func TestNewOpensClientAndPorts(t *testing.T) {
	h, _ := newTestHub(t, midivirtual.New())

	st := h.Status()
	assert.True(t, st.Client)
	assert.True(t, st.Input)
	assert.True(t, st.Output)
	assert.False(t, st.Closed)
	assert.NotNil(t, h.Output())
}

func TestDegradedHubWhenClientFails(t *testing.T) {
	d := midivirtual.New()
	entity := d.AddDevice("Synth", "Acme").AddEntity("Main")
	entity.AddSource("Synth Out")
	entity.AddDestination("Synth In")
	d.Fail(midivirtual.OpNewClient, "", errBoom)

	h, logs := newTestHub(t, d)

	st := h.Status()
	assert.False(t, st.Client)
	assert.False(t, st.Input)
	assert.False(t, st.Output)
	assert.Equal(t, 1, logs.FilterMessage("Failed to create MIDI client").Len())

	rec := newRecorder("r", nil)
	h.AddObserver(rec)

	assert.NotPanics(t, func() {
		h.Connect()
		h.Disconnect()
		h.ProcessEvent(setupEvent())
		h.SendEntity(entity, midi.NoteOn(0, 60, 100))
	})
	assert.Zero(t, d.Calls(midivirtual.OpConnect))
	assert.Zero(t, d.Calls(midivirtual.OpSend))
	assert.Equal(t, 1, rec.eventCount())
	assert.Equal(t, 2, logs.FilterMessage("MIDI input port unavailable").Len())
}

func TestDegradedHubWhenPortsFail(t *testing.T) {
	d := midivirtual.New()
	d.Fail(midivirtual.OpNewInputPort, "", errBoom)

	h, logs := newTestHub(t, d)

	st := h.Status()
	assert.True(t, st.Client)
	assert.False(t, st.Input)
	assert.True(t, st.Output)
	assert.Equal(t, 1, logs.FilterMessage("Failed to create MIDI input port").Len())
}

func TestConnectKeepsGoingAfterFailure(t *testing.T) {
	d := midivirtual.New()
	entity := d.AddDevice("Pads", "Acme").AddEntity("Main")
	a := entity.AddSource("A")
	b := entity.AddSource("B")
	c := entity.AddSource("C")

	h, logs := newTestHub(t, d, contracts.WithoutAutoConnect())
	d.Fail(midivirtual.OpConnect, b.ID(), errBoom)

	h.Connect()

	assert.Equal(t, 3, d.Calls(midivirtual.OpConnect))
	assert.True(t, d.Connected(a))
	assert.False(t, d.Connected(b))
	assert.True(t, d.Connected(c))

	failed := logs.FilterMessage("MIDI operation failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "connect", failed[0].ContextMap()["op"])
	assert.Equal(t, "B", failed[0].ContextMap()["endpoint"])

	d.Fail(midivirtual.OpDisconnect, a.ID(), errBoom)
	h.Disconnect()
	assert.Equal(t, 3, d.Calls(midivirtual.OpDisconnect))
	assert.True(t, d.Connected(a))
	assert.False(t, d.Connected(c))
}

func TestConnectSourceListingFailure(t *testing.T) {
	d := midivirtual.New()
	d.AddDevice("Pads", "Acme").AddEntity("Main").AddSource("A")
	h, logs := newTestHub(t, d, contracts.WithoutAutoConnect())
	d.Fail(midivirtual.OpListSources, "", errBoom)

	h.Connect()

	assert.Zero(t, d.Calls(midivirtual.OpConnect))
	assert.Equal(t, 1, logs.FilterMessage("MIDI operation failed").Len())
}

func TestDoubleRegisterSingleRemoveLeavesNone(t *testing.T) {
	h, _ := newTestHub(t, midivirtual.New())
	rec := newRecorder("r", nil)

	h.AddEventObserver(rec)
	h.AddEventObserver(rec)
	require.Equal(t, 2, h.Status().EventObservers)

	h.RemoveEventObserver(rec)

	assert.Zero(t, h.Status().EventObservers)
	h.ProcessEvent(setupEvent())
	assert.Zero(t, rec.eventCount())
}

func TestRemoveUnknownObserverIsNoop(t *testing.T) {
	h, _ := newTestHub(t, midivirtual.New())
	var order []string
	a := newRecorder("a", &order)
	h.AddObserver(a)

	assert.NotPanics(t, func() {
		h.RemoveObserver(newRecorder("stranger", nil))
		h.RemoveEventObserver(contracts.EventObserverFunc(func(contracts.Event) {}))
		h.Unregister(contracts.Token(9999))
	})

	st := h.Status()
	assert.Equal(t, 1, st.EventObservers)
	assert.Equal(t, 1, st.MessageObservers)
}

func TestEventDeliveryFollowsRegistrationOrder(t *testing.T) {
	h, _ := newTestHub(t, midivirtual.New())
	var order []string
	a, b, c := newRecorder("a", &order), newRecorder("b", &order), newRecorder("c", &order)
	h.AddEventObserver(a)
	h.AddEventObserver(b)
	h.AddEventObserver(c)

	h.ProcessEvent(setupEvent())
	assert.Equal(t, []string{"a", "b", "c"}, order)

	order = nil
	h.RemoveEventObserver(b)
	h.ProcessEvent(setupEvent())
	assert.Equal(t, []string{"a", "c"}, order)
}

func TestObserverRemovedDuringDispatchIsSkipped(t *testing.T) {
	h, _ := newTestHub(t, midivirtual.New())
	var order []string
	victim := newRecorder("victim", &order)

	h.AddEventObserver(contracts.EventObserverFunc(func(contracts.Event) {
		order = append(order, "remover")
		h.RemoveEventObserver(victim)
	}))
	h.AddEventObserver(victim)

	h.ProcessEvent(setupEvent())

	assert.Equal(t, []string{"remover"}, order)
	assert.Zero(t, victim.eventCount())
}

func TestObserverAddedDuringDispatchWaitsForNextEvent(t *testing.T) {
	h, _ := newTestHub(t, midivirtual.New())
	late := newRecorder("late", nil)
	var once sync.Once
	h.AddEventObserver(contracts.EventObserverFunc(func(contracts.Event) {
		once.Do(func() { h.AddEventObserver(late) })
	}))

	h.ProcessEvent(setupEvent())
	assert.Zero(t, late.eventCount())

	h.ProcessEvent(setupEvent())
	assert.Equal(t, 1, late.eventCount())
}

func TestUnregisterByToken(t *testing.T) {
	h, _ := newTestHub(t, midivirtual.New())
	calls := 0
	fn := contracts.EventObserverFunc(func(contracts.Event) { calls++ })
	tok := h.AddEventObserver(fn)

	h.RemoveEventObserver(fn)
	h.ProcessEvent(setupEvent())
	assert.Equal(t, 1, calls, "func observers cannot be removed by identity")

	h.Unregister(tok)
	h.ProcessEvent(setupEvent())
	assert.Equal(t, 1, calls)
}

func TestCombinedObserverToken(t *testing.T) {
	h, _ := newTestHub(t, midivirtual.New())
	rec := newRecorder("r", nil)
	other := newRecorder("o", nil)
	tok := h.AddObserver(rec)
	h.AddObserver(other)

	h.Unregister(tok)

	st := h.Status()
	assert.Equal(t, 1, st.EventObservers)
	assert.Equal(t, 1, st.MessageObservers)
}

func TestObserverPanicDoesNotStopDelivery(t *testing.T) {
	h, logs := newTestHub(t, midivirtual.New())
	after := newRecorder("after", nil)
	h.AddEventObserver(contracts.EventObserverFunc(func(contracts.Event) { panic("bad observer") }))
	h.AddEventObserver(after)

	assert.NotPanics(t, func() { h.ProcessEvent(setupEvent()) })
	assert.Equal(t, 1, after.eventCount())
	assert.Equal(t, 1, logs.FilterMessage("MIDI operation failed").Len())
}

func TestAutoConnectOnSourceAdded(t *testing.T) {
	d := midivirtual.New()
	entity := d.AddDevice("Pads", "Acme").AddEntity("Main")
	h, _ := newTestHub(t, d)

	var connectedWhenObserved bool
	var added contracts.Source
	h.AddEventObserver(contracts.EventObserverFunc(func(e contracts.Event) {
		if src, ok := e.Source(); ok && e.Kind == contracts.EventObjectAdded {
			added = src
			connectedWhenObserved = d.Connected(src)
		}
	}))

	src := entity.AddSource("Pad Out")

	assert.Equal(t, 1, d.Calls(midivirtual.OpConnect))
	require.NotNil(t, added)
	assert.Equal(t, src.ID(), added.ID())
	assert.True(t, connectedWhenObserved, "connect must happen before observers run")
}

func TestAutoConnectFailureStillNotifies(t *testing.T) {
	d := midivirtual.New()
	h, logs := newTestHub(t, d)
	rec := newRecorder("r", nil)
	h.AddEventObserver(rec)

	// Handles are sequential: device 1, entity 2, source 3.
	entity := d.AddDevice("Pads", "Acme").AddEntity("Main")
	d.Fail(midivirtual.OpConnect, "virtual:3", errBoom)
	src := entity.AddSource("Pad Out")
	require.Equal(t, "virtual:3", src.ID())

	assert.Equal(t, 1, d.Calls(midivirtual.OpConnect))
	assert.False(t, d.Connected(src))
	assert.Equal(t, 1, rec.eventCount())
	assert.Equal(t, 1, logs.FilterMessage("MIDI operation failed").Len())
}

func TestAutoDisconnectOnSourceRemoved(t *testing.T) {
	d := midivirtual.New()
	entity := d.AddDevice("Pads", "Acme").AddEntity("Main")
	h, _ := newTestHub(t, d)
	rec := newRecorder("r", nil)
	h.AddEventObserver(rec)

	src := entity.AddSource("Pad Out")
	require.True(t, d.Connected(src))

	entity.RemoveSource(src)

	assert.Equal(t, 1, d.Calls(midivirtual.OpDisconnect))
	assert.False(t, d.Connected(src))
	require.Equal(t, 2, rec.eventCount())
	assert.Equal(t, contracts.EventObjectRemoved, rec.events[1].Kind)
}

func TestDestinationEventsDoNotTouchInput(t *testing.T) {
	d := midivirtual.New()
	entity := d.AddDevice("Synth", "Acme").AddEntity("Main")
	h, _ := newTestHub(t, d)
	rec := newRecorder("r", nil)
	h.AddEventObserver(rec)

	entity.AddDestination("Synth In")

	assert.Zero(t, d.Calls(midivirtual.OpConnect))
	assert.Equal(t, 1, rec.eventCount())
}

func TestWithoutAutoConnect(t *testing.T) {
	d := midivirtual.New()
	entity := d.AddDevice("Pads", "Acme").AddEntity("Main")
	h, _ := newTestHub(t, d, contracts.WithoutAutoConnect())
	rec := newRecorder("r", nil)
	h.AddEventObserver(rec)

	src := entity.AddSource("Pad Out")
	entity.RemoveSource(src)

	assert.Zero(t, d.Calls(midivirtual.OpConnect))
	assert.Zero(t, d.Calls(midivirtual.OpDisconnect))
	assert.Equal(t, 2, rec.eventCount())
}

func TestMessagesReachObserversWithSource(t *testing.T) {
	d := midivirtual.New()
	src := d.AddDevice("Pads", "Acme").AddEntity("Main").AddSource("Pad Out")
	h, _ := newTestHub(t, d)
	h.Connect()

	var order []string
	a, b := newRecorder("a", &order), newRecorder("b", &order)
	h.AddMessageObserver(a)
	h.AddMessageObserver(b)

	h.ReceiveSource(src, midi.NoteOn(1, 64, 90))

	assert.Equal(t, []string{"a", "b"}, order)
	require.Len(t, a.messages, 1)
	assert.Equal(t, midi.NoteOn(1, 64, 90), a.messages[0])
	assert.Equal(t, src.ID(), a.sources[0].ID())
}

func TestReceiveDeviceFansOutToEverySource(t *testing.T) {
	d := midivirtual.New()
	dev := d.AddDevice("Controller", "Acme")
	e1 := dev.AddEntity("Left")
	e2 := dev.AddEntity("Right")
	s1 := e1.AddSource("L1")
	e1.AddSource("L2")
	e2.AddSource("R1")

	h, _ := newTestHub(t, d)
	h.Connect()
	rec := newRecorder("r", nil)
	h.AddMessageObserver(rec)

	d.Fail(midivirtual.OpReceived, s1.ID(), errBoom)
	h.ReceiveDevice(dev, midi.ControlChange(0, 7, 100))

	assert.Equal(t, 3, d.Calls(midivirtual.OpReceived))
	assert.Len(t, rec.messages, 2)
}

func TestSendDeviceViaNilSkips(t *testing.T) {
	d := midivirtual.New()
	dev := d.AddDevice("Synth", "Acme")
	dev.AddEntity("Main").AddDestination("In")
	h, logs := newTestHub(t, d)

	h.SendDeviceVia(dev, midi.NoteOn(0, 60, 100), nil)

	assert.Zero(t, d.Calls(midivirtual.OpSend))
	assert.Zero(t, logs.FilterMessage("MIDI operation failed").Len())
}

func TestSendDeviceAttemptsEveryDestination(t *testing.T) {
	const entities, destinations = 3, 4

	d := midivirtual.New()
	dev := d.AddDevice("Rack", "Acme")
	var failing contracts.Destination
	for i := 0; i < entities; i++ {
		e := dev.AddEntity("entity")
		for j := 0; j < destinations; j++ {
			dst := e.AddDestination("dest")
			if i == 1 && j == 2 {
				failing = dst
			}
		}
	}
	registry := prometheus.NewRegistry()
	h, _ := newTestHub(t, d, contracts.WithMetricsRegistry(registry))
	d.Fail(midivirtual.OpSend, failing.ID(), errBoom)

	h.SendDevice(dev, midi.NoteOn(0, 60, 100))

	assert.Equal(t, entities*destinations, d.Calls(midivirtual.OpSend))
	assert.Len(t, d.Deliveries(), entities*destinations-1)

	expected := `
# HELP gong_hub_failures_total Total number of swallowed failures
# TYPE gong_hub_failures_total counter
gong_hub_failures_total{op="send"} 1
# HELP gong_hub_sends_total Total number of leaf send attempts
# TYPE gong_hub_sends_total counter
gong_hub_sends_total{result="error"} 1
gong_hub_sends_total{result="ok"} 11
`
	assert.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"gong_hub_sends_total", "gong_hub_failures_total"))
}

func TestSendEntityListingFailureSkipsOnlyThatEntity(t *testing.T) {
	d := midivirtual.New()
	dev := d.AddDevice("Rack", "Acme")
	broken := dev.AddEntity("broken")
	broken.AddDestination("x")
	dev.AddEntity("fine").AddDestination("y")

	h, _ := newTestHub(t, d)
	d.Fail(midivirtual.OpListDestination, broken.ID(), errBoom)

	h.SendDevice(dev, midi.NoteOn(0, 60, 100))

	assert.Equal(t, 1, d.Calls(midivirtual.OpSend))
	assert.Len(t, d.Deliveries(), 1)
}

func TestSendDestinationUsesExplicitPort(t *testing.T) {
	d := midivirtual.New()
	dst := d.AddDevice("Synth", "Acme").AddEntity("Main").AddDestination("In")
	h, _ := newTestHub(t, d)

	c, err := d.NewClient("other", nil)
	require.NoError(t, err)
	out, err := c.NewOutputPort("other out")
	require.NoError(t, err)

	h.SendDestinationVia(dst, midi.ProgramChange(0, 5), out)
	h.SendDestination(dst, midi.ProgramChange(0, 6))

	assert.Len(t, d.Deliveries(), 2)
}

func TestCloseIsIdempotentAndDegrades(t *testing.T) {
	d := midivirtual.New()
	entity := d.AddDevice("Synth", "Acme").AddEntity("Main")
	dst := entity.AddDestination("In")
	h, logs := newTestHub(t, d)
	rec := newRecorder("r", nil)
	h.AddEventObserver(rec)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	assert.Equal(t, 1, logs.FilterMessage("MIDI hub closed").Len())

	st := h.Status()
	assert.True(t, st.Closed)
	assert.False(t, st.Client)
	assert.Nil(t, h.Output())

	h.SendDestination(dst, midi.NoteOn(0, 1, 1))
	assert.Zero(t, d.Calls(midivirtual.OpSend))

	entity.AddSource("late")
	assert.Zero(t, rec.eventCount(), "closed client receives no notifications")
}

func TestCloseAggregatesErrors(t *testing.T) {
	h, _ := newTestHub(t, midivirtual.New())

	h.mu.Lock()
	in, out := h.input, h.output
	h.mu.Unlock()
	require.NoError(t, in.Close())
	require.NoError(t, out.Close())

	err := h.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, midivirtual.ErrClosed)
}

func TestConcurrentDispatchAndRegistration(t *testing.T) {
	d := midivirtual.New()
	src := d.AddDevice("Pads", "Acme").AddEntity("Main").AddSource("Pad Out")
	h, _ := newTestHub(t, d)
	h.Connect()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rec := newRecorder("r", nil)
				tok := h.AddObserver(rec)
				h.ProcessEvent(setupEvent())
				h.ReceiveSource(src, midi.NoteOn(0, 60, 100))
				h.Unregister(tok)
			}
		}()
	}
	wg.Wait()

	st := h.Status()
	assert.Zero(t, st.EventObservers)
	assert.Zero(t, st.MessageObservers)
}
