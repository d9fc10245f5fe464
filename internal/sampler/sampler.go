package sampler

import (
	"context"
	"sync"
	"time"

	"github.com/Dicklesworthstone/prochunter/internal/hoststate"
)

// DefaultInterval separates the two CPU samples of a delta read.
const DefaultInterval = time.Millisecond

// Sampler reduces host state to the summaries a report prints. Each method
// triggers the refresh it needs before reading.
type Sampler struct {
	// Interval is the wait between the two CPU samples when a caller asks for
	// a delta read.
	Interval time.Duration
	// Sleep waits between CPU samples and returns early with ctx's error
	// when ctx is done. Tests swap it out.
	Sleep func(ctx context.Context, d time.Duration) error

	host      *hoststate.Handle
	batteries BatterySource
	info      InfoSource

	degradedMu sync.Mutex
	degraded   map[hoststate.Section]error
}

// New returns a Sampler over the process-wide host handle and the system
// battery and host-info sources.
func New(interval time.Duration) *Sampler {
	return NewWith(interval, hoststate.Default(), SystemBatteries{}, SystemInfo{})
}

// NewWith returns a Sampler over explicit sources.
func NewWith(interval time.Duration, host *hoststate.Handle, batteries BatterySource, info InfoSource) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sampler{
		Interval:  interval,
		Sleep:     sleepContext,
		host:      host,
		batteries: batteries,
		info:      info,
		degraded:  make(map[hoststate.Section]error),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Degraded returns the sections whose most recent refresh hit an OS error and
// fell back to an empty reading.
func (s *Sampler) Degraded() map[hoststate.Section]error {
	s.degradedMu.Lock()
	defer s.degradedMu.Unlock()
	out := make(map[hoststate.Section]error, len(s.degraded))
	for k, v := range s.degraded {
		out[k] = v
	}
	return out
}

func (s *Sampler) note(state *hoststate.State, section hoststate.Section) {
	err := state.Err(section)
	s.degradedMu.Lock()
	defer s.degradedMu.Unlock()
	if err == nil {
		delete(s.degraded, section)
		return
	}
	s.degraded[section] = err
}
