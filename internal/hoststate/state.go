package hoststate

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
)

// Section names one independently refreshable part of the state.
type Section int

const (
	SectionProcesses Section = iota
	SectionCPU
	SectionMemory
)

func (s Section) String() string {
	switch s {
	case SectionProcesses:
		return "processes"
	case SectionCPU:
		return "cpu"
	case SectionMemory:
		return "memory"
	}
	return "unknown"
}

// CPU is one logical core as of the last CPU refresh.
type CPU struct {
	Brand     string
	Name      string
	Frequency uint64 // MHz
	Usage     float64
}

// Memory holds the RAM and swap counters as of the last memory refresh.
type Memory struct {
	Total uint64
	Free  uint64
	Used  uint64
}

// State is the in-memory view of the process table, CPU array and memory
// counters. It is only reachable through a held Guard.
type State struct {
	processes map[int32]ProcessEntry

	cpus          []CPU
	globalUsage   float64
	physicalCores int

	// previous cumulative times for usage deltas
	prevTotal  float64
	prevIdle   float64
	prevCore   []cpu.TimesStat
	cpuSampled bool

	memory Memory
	swap   Memory

	errs map[Section]error
}

func newState() *State {
	return &State{
		processes: make(map[int32]ProcessEntry),
		errs:      make(map[Section]error),
	}
}

// Processes returns the process table in no particular order.
func (s *State) Processes() []ProcessEntry {
	out := make([]ProcessEntry, 0, len(s.processes))
	for _, p := range s.processes {
		out = append(out, p)
	}
	return out
}

// CPUs returns the per-core records in OS enumeration order.
func (s *State) CPUs() []CPU {
	out := make([]CPU, len(s.cpus))
	copy(out, s.cpus)
	return out
}

// GlobalCPUUsage is the all-core usage percent between the last two CPU refreshes.
func (s *State) GlobalCPUUsage() float64 { return s.globalUsage }

// PhysicalCores is 0 when the platform does not report it.
func (s *State) PhysicalCores() int { return s.physicalCores }

func (s *State) Memory() Memory { return s.memory }

func (s *State) Swap() Memory { return s.swap }

// Err returns the error from the last refresh of section, if any. A failed
// section is left in its zero shape.
func (s *State) Err(section Section) error { return s.errs[section] }

func (s *State) refreshAll(ctx context.Context, src Source) {
	s.refreshProcesses(ctx, src)
	s.refreshCPU(ctx, src)
	s.refreshMemory(ctx, src)
}

// refreshProcesses replaces the whole table; nothing carries over.
func (s *State) refreshProcesses(ctx context.Context, src Source) {
	entries, err := src.Processes(ctx)
	s.errs[SectionProcesses] = err
	table := make(map[int32]ProcessEntry, len(entries))
	for _, e := range entries {
		table[e.PID] = e
	}
	s.processes = table
}

func (s *State) refreshMemory(ctx context.Context, src Source) {
	s.memory, s.swap = Memory{}, Memory{}
	vm, err := src.VirtualMemory(ctx)
	if err == nil && vm != nil {
		s.memory = Memory{Total: vm.Total, Free: vm.Free, Used: vm.Used}
	}
	sw, swErr := src.SwapMemory(ctx)
	if swErr == nil && sw != nil {
		s.swap = Memory{Total: sw.Total, Free: sw.Free, Used: sw.Used}
	}
	if err == nil {
		err = swErr
	}
	s.errs[SectionMemory] = err
}

func (s *State) refreshCPU(ctx context.Context, src Source) {
	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	physical, err := src.PhysicalCores(ctx)
	if err != nil {
		keep(err)
		physical = 0
	}
	s.physicalCores = physical

	total, err := src.CPUTimes(ctx, false)
	keep(err)
	s.globalUsage = s.globalDelta(total)

	cores, err := src.CPUTimes(ctx, true)
	keep(err)
	info, err := src.CPUInfo(ctx)
	keep(err)
	s.cpus = s.coreDeltas(cores, info)

	s.cpuSampled = true
	s.errs[SectionCPU] = firstErr
}

func (s *State) globalDelta(times []cpu.TimesStat) float64 {
	if len(times) == 0 {
		s.prevTotal, s.prevIdle = 0, 0
		return 0
	}
	cur := times[0]
	curTotal := cur.Total()
	curIdle := cur.Idle + cur.Iowait
	var usage float64
	if s.cpuSampled && s.prevTotal > 0 {
		usage = busyPercent(curTotal-s.prevTotal, curIdle-s.prevIdle)
	}
	s.prevTotal, s.prevIdle = curTotal, curIdle
	return usage
}

func (s *State) coreDeltas(times []cpu.TimesStat, info []cpu.InfoStat) []CPU {
	cpus := make([]CPU, len(times))
	for i, c := range times {
		rec := CPU{Name: c.CPU}
		if meta, ok := infoFor(info, i); ok {
			rec.Brand = meta.ModelName
			if rec.Brand == "" {
				rec.Brand = meta.VendorID
			}
			if meta.Mhz > 0 {
				rec.Frequency = uint64(meta.Mhz)
			}
		}
		if i < len(s.prevCore) && s.prevCore[i].CPU == c.CPU {
			prev := s.prevCore[i]
			rec.Usage = busyPercent(c.Total()-prev.Total(),
				(c.Idle+c.Iowait)-(prev.Idle+prev.Iowait))
		}
		cpus[i] = rec
	}
	s.prevCore = times
	return cpus
}

// infoFor picks the info row for core i. Some platforms report a single row
// for the whole package.
func infoFor(info []cpu.InfoStat, i int) (cpu.InfoStat, bool) {
	switch {
	case i < len(info):
		return info[i], true
	case len(info) > 0:
		return info[0], true
	}
	return cpu.InfoStat{}, false
}

func busyPercent(dt, di float64) float64 {
	if dt <= 0 {
		return 0
	}
	pct := 100 * (1 - di/dt)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
