package hoststate

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessEntry is one row of the process table.
type ProcessEntry struct {
	PID       int32
	Parent    int32
	HasParent bool
}

// Source is the OS query surface the state refreshes from.
type Source interface {
	Processes(ctx context.Context) ([]ProcessEntry, error)
	CPUTimes(ctx context.Context, perCore bool) ([]cpu.TimesStat, error)
	CPUInfo(ctx context.Context) ([]cpu.InfoStat, error)
	PhysicalCores(ctx context.Context) (int, error)
	VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error)
	SwapMemory(ctx context.Context) (*mem.SwapMemoryStat, error)
}

// SystemSource reads the live host through gopsutil.
type SystemSource struct{}

var _ Source = SystemSource{}

func (SystemSource) Processes(ctx context.Context) ([]ProcessEntry, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]ProcessEntry, 0, len(procs))
	for _, p := range procs {
		ppid, err := p.PpidWithContext(ctx)
		if err != nil {
			// Exited between listing and the parent read.
			if alive, _ := process.PidExistsWithContext(ctx, p.Pid); !alive {
				continue
			}
			entries = append(entries, ProcessEntry{PID: p.Pid})
			continue
		}
		entries = append(entries, ProcessEntry{PID: p.Pid, Parent: ppid, HasParent: true})
	}
	return entries, nil
}

func (SystemSource) CPUTimes(ctx context.Context, perCore bool) ([]cpu.TimesStat, error) {
	return cpu.TimesWithContext(ctx, perCore)
}

func (SystemSource) CPUInfo(ctx context.Context) ([]cpu.InfoStat, error) {
	return cpu.InfoWithContext(ctx)
}

func (SystemSource) PhysicalCores(ctx context.Context) (int, error) {
	return cpu.CountsWithContext(ctx, false)
}

func (SystemSource) VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemoryWithContext(ctx)
}

func (SystemSource) SwapMemory(ctx context.Context) (*mem.SwapMemoryStat, error) {
	return mem.SwapMemoryWithContext(ctx)
}
