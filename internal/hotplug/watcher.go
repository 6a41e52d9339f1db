// Package hotplug synthesises object added/removed notifications for
// platforms that only let us enumerate sources.
package hotplug

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/gong/sdk/contracts"
)

// DefaultInterval is used when a watcher is created with a non-positive
// interval.
const DefaultInterval = time.Second

// ListFunc enumerates the sources currently known to the platform.
type ListFunc func() ([]contracts.Source, error)

// Watcher polls a source list and reports differences.
type Watcher struct {
	list     ListFunc
	notify   contracts.NotificationHandler
	interval time.Duration
	logger   contracts.Logger

	known map[string]contracts.Source
	order []string

	stopped   atomic.Bool
	notifying atomic.Bool
}

// NewWatcher creates a watcher. The logger may be nil.
func NewWatcher(list ListFunc, notify contracts.NotificationHandler, interval time.Duration, logger contracts.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		list:     list,
		notify:   notify,
		interval: interval,
		logger:   logger,
		known:    make(map[string]contracts.Source),
	}
}

// Run takes a silent initial snapshot and then polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.scan(false)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scan(true)
		}
	}
}

// Start runs the watcher in a goroutine. The returned function stops it and
// waits for it to exit, except while a notification is being delivered:
// the handler may be the one stopping the watcher, so stop only cancels and
// the goroutine exits once the handler returns. No notification follows a
// call to stop.
func (w *Watcher) Start() (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Run(ctx)
	}()
	return func() {
		w.stopped.Store(true)
		cancel()
		if w.notifying.Load() {
			return
		}
		wg.Wait()
	}
}

// scan diffs the current list against the previous one. Added sources are
// reported in enumeration order, then removed sources in the order they
// were first seen.
func (w *Watcher) scan(announce bool) {
	sources, err := w.list()
	if err != nil {
		if w.logger != nil {
			w.logger.Warn("Failed to enumerate MIDI sources", w.logger.Field().Error("error", err))
		}
		return
	}

	seen := make(map[string]struct{}, len(sources))
	var added []contracts.Source
	for _, src := range sources {
		id := src.ID()
		seen[id] = struct{}{}
		if _, ok := w.known[id]; !ok {
			w.known[id] = src
			w.order = append(w.order, id)
			added = append(added, src)
		}
	}

	var removed []contracts.Source
	order := w.order[:0]
	for _, id := range w.order {
		if _, ok := seen[id]; ok {
			order = append(order, id)
			continue
		}
		removed = append(removed, w.known[id])
		delete(w.known, id)
	}
	w.order = order

	if !announce || w.notify == nil {
		return
	}
	events := make([]contracts.Event, 0, len(added)+len(removed)+1)
	for _, src := range added {
		events = append(events, contracts.Event{Kind: contracts.EventObjectAdded, Object: src})
	}
	for _, src := range removed {
		events = append(events, contracts.Event{Kind: contracts.EventObjectRemoved, Object: src})
	}
	if len(events) > 0 {
		events = append(events, contracts.Event{Kind: contracts.EventSetupChanged})
	}
	for _, e := range events {
		if w.stopped.Load() {
			return
		}
		w.notifying.Store(true)
		w.notify(e)
		w.notifying.Store(false)
	}
}
