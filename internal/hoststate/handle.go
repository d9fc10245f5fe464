// Package hoststate owns the single shared view of the host's process table,
// CPU array and memory counters.
//
// All access goes through a Guard obtained from Acquire or one of the Refresh
// methods. Holders are serialized. A holder that panics poisons the handle and
// every later Acquire fails with ErrPoisoned.
package hoststate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrPoisoned means a previous holder panicked while holding the state. The
// view may be half-written; callers must not continue.
var ErrPoisoned = errors.New("hoststate: state poisoned by a panicking holder")

// Handle serializes access to one lazily-populated State.
type Handle struct {
	src Source

	mu       sync.Mutex
	state    *State
	poisoned atomic.Bool
}

var (
	defaultOnce   sync.Once
	defaultHandle *Handle
)

// Default returns the process-wide handle backed by the live host.
func Default() *Handle {
	defaultOnce.Do(func() {
		defaultHandle = New(SystemSource{})
	})
	return defaultHandle
}

// New returns a handle over src. The state is not populated until the first
// Acquire.
func New(src Source) *Handle {
	return &Handle{src: src}
}

// Poisoned reports whether a holder has panicked.
func (h *Handle) Poisoned() bool { return h.poisoned.Load() }

// Acquire blocks until the caller holds the state exclusively. The first
// Acquire in the handle's lifetime fully populates the state.
//
// Release the guard with a direct defer (defer g.Release()) so a panic in the
// holder is seen and poisons the handle.
func (h *Handle) Acquire(ctx context.Context) (*Guard, error) {
	if h.poisoned.Load() {
		return nil, ErrPoisoned
	}
	h.mu.Lock()
	if h.poisoned.Load() {
		h.mu.Unlock()
		return nil, ErrPoisoned
	}
	g := &Guard{h: h}
	if h.state == nil {
		g.mutate(ctx, nil)
	}
	return g, nil
}

// RefreshProcesses acquires the state and replaces the process table.
func (h *Handle) RefreshProcesses(ctx context.Context) (*Guard, error) {
	return h.refresh(ctx, func(s *State) { s.refreshProcesses(ctx, h.src) })
}

// RefreshMemory acquires the state and updates memory and swap counters.
func (h *Handle) RefreshMemory(ctx context.Context) (*Guard, error) {
	return h.refresh(ctx, func(s *State) { s.refreshMemory(ctx, h.src) })
}

// RefreshCPU acquires the state and updates per-core usage and frequency and
// the global usage.
func (h *Handle) RefreshCPU(ctx context.Context) (*Guard, error) {
	return h.refresh(ctx, func(s *State) { s.refreshCPU(ctx, h.src) })
}

// RefreshAll acquires the state and refreshes every section.
func (h *Handle) RefreshAll(ctx context.Context) (*Guard, error) {
	return h.refresh(ctx, func(s *State) { s.refreshAll(ctx, h.src) })
}

func (h *Handle) refresh(ctx context.Context, fn func(*State)) (*Guard, error) {
	g, err := h.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	g.mutate(ctx, fn)
	return g, nil
}

func (h *Handle) poison() {
	h.poisoned.Store(true)
}

// Guard is exclusive access to the state. It is valid until Release.
type Guard struct {
	h        *Handle
	released bool
}

// State returns the held view.
func (g *Guard) State() *State {
	return g.h.state
}

// Release gives up access. It is safe to call more than once. When deferred
// directly and the holder is panicking, it poisons the handle before the panic
// continues.
func (g *Guard) Release() {
	if r := recover(); r != nil {
		g.abort()
		panic(r)
	}
	if g.released {
		return
	}
	g.released = true
	g.h.mu.Unlock()
}

func (g *Guard) abort() {
	g.h.poison()
	if !g.released {
		g.released = true
		g.h.mu.Unlock()
	}
}

// mutate runs fn against the state, building it first if needed. A panic
// anywhere in here poisons the handle.
func (g *Guard) mutate(ctx context.Context, fn func(*State)) {
	defer func() {
		if r := recover(); r != nil {
			g.abort()
			panic(r)
		}
	}()
	if g.h.state == nil {
		s := newState()
		s.refreshAll(ctx, g.h.src)
		g.h.state = s
	}
	if fn != nil {
		fn(g.h.state)
	}
}
