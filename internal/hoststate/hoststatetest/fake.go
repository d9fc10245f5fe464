// Package hoststatetest provides a scriptable hoststate.Source for tests.
package hoststatetest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Dicklesworthstone/prochunter/internal/hoststate"
)

// Source returns whatever its fields hold. CoreTimes and TotalTimes are
// consumed one sample per call; the last sample repeats once exhausted.
type Source struct {
	mu sync.Mutex

	Procs    []hoststate.ProcessEntry
	ProcsErr error

	TotalTimes [][]cpu.TimesStat
	CoreTimes  [][]cpu.TimesStat
	Info       []cpu.InfoStat
	Physical   int
	CPUErr     error

	VM      *mem.VirtualMemoryStat
	Swap    *mem.SwapMemoryStat
	MemErr  error
	SwapErr error

	// PanicOn makes the named call panic: "processes", "cpu" or "memory".
	PanicOn string

	ProcessCalls atomic.Int32
	CPUCalls     atomic.Int32
	MemoryCalls  atomic.Int32

	inFlight    atomic.Int32
	MaxInFlight atomic.Int32

	totalIdx, coreIdx int
}

var _ hoststate.Source = (*Source)(nil)

func (f *Source) enter() func() {
	n := f.inFlight.Add(1)
	for {
		cur := f.MaxInFlight.Load()
		if n <= cur || f.MaxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	return func() { f.inFlight.Add(-1) }
}

// SetProcs swaps the process table returned by later refreshes.
func (f *Source) SetProcs(procs []hoststate.ProcessEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Procs = procs
}

func (f *Source) Processes(ctx context.Context) ([]hoststate.ProcessEntry, error) {
	defer f.enter()()
	f.ProcessCalls.Add(1)
	if f.PanicOn == "processes" {
		panic("fake: processes")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]hoststate.ProcessEntry, len(f.Procs))
	copy(out, f.Procs)
	return out, f.ProcsErr
}

func (f *Source) CPUTimes(ctx context.Context, perCore bool) ([]cpu.TimesStat, error) {
	defer f.enter()()
	f.mu.Lock()
	defer f.mu.Unlock()
	if perCore {
		f.CPUCalls.Add(1)
		if f.PanicOn == "cpu" {
			panic("fake: cpu")
		}
		return next(f.CoreTimes, &f.coreIdx), f.CPUErr
	}
	return next(f.TotalTimes, &f.totalIdx), f.CPUErr
}

func next(samples [][]cpu.TimesStat, idx *int) []cpu.TimesStat {
	if len(samples) == 0 {
		return nil
	}
	i := *idx
	if i >= len(samples) {
		i = len(samples) - 1
	} else {
		*idx++
	}
	return samples[i]
}

func (f *Source) CPUInfo(ctx context.Context) ([]cpu.InfoStat, error) {
	return f.Info, f.CPUErr
}

func (f *Source) PhysicalCores(ctx context.Context) (int, error) {
	return f.Physical, nil
}

func (f *Source) VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	defer f.enter()()
	f.MemoryCalls.Add(1)
	if f.PanicOn == "memory" {
		panic("fake: memory")
	}
	return f.VM, f.MemErr
}

func (f *Source) SwapMemory(ctx context.Context) (*mem.SwapMemoryStat, error) {
	return f.Swap, f.SwapErr
}

// Times builds a single-row time sample.
func Times(name string, busy, idle float64) cpu.TimesStat {
	return cpu.TimesStat{CPU: name, User: busy, Idle: idle}
}
