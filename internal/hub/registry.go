package hub

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/gong/sdk/contracts"
)

type registration[T any] struct {
	token    contracts.Token
	observer T
	removed  atomic.Bool
}

// registry is an ordered, copy-on-write list of observers. Readers iterate
// a snapshot without holding the lock; removal flags entries so that an
// in-progress dispatch skips them.
type registry[T any] struct {
	mu      sync.Mutex
	entries []*registration[T]
}

func (r *registry[T]) add(tok contracts.Token, o T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]*registration[T], len(r.entries), len(r.entries)+1)
	copy(next, r.entries)
	r.entries = append(next, &registration[T]{token: tok, observer: o})
}

// removeIf drops every entry matching fn, keeping the order of the rest.
func (r *registry[T]) removeIf(fn func(*registration[T]) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]*registration[T], 0, len(r.entries))
	removed := 0
	for _, e := range r.entries {
		if fn(e) {
			e.removed.Store(true)
			removed++
			continue
		}
		next = append(next, e)
	}
	if removed > 0 {
		r.entries = next
	}
	return removed
}

func (r *registry[T]) removeObserver(o T) int {
	return r.removeIf(func(e *registration[T]) bool { return sameObserver(e.observer, o) })
}

func (r *registry[T]) removeToken(tok contracts.Token) int {
	return r.removeIf(func(e *registration[T]) bool { return e.token == tok })
}

func (r *registry[T]) snapshot() []*registration[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries
}

func (r *registry[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// sameObserver compares by identity. Values of non-comparable dynamic
// types, such as func adapters, never match.
func sameObserver(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == nil || ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
