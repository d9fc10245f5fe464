package sampler

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/Dicklesworthstone/prochunter/internal/hoststate"
	"github.com/Dicklesworthstone/prochunter/internal/model"
)

// CPU refreshes the CPU section and summarizes it.
//
// Usage is a delta between two samples of cumulative CPU time. With
// sleepForDelta the sampler refreshes, waits Interval, and refreshes again so
// the reading covers a fresh window. Without it the reading covers the time
// since whichever refresh came before, which suits callers that sample again
// later themselves.
func (s *Sampler) CPU(ctx context.Context, sleepForDelta bool) (model.CPU, error) {
	if sleepForDelta {
		g, err := s.host.RefreshCPU(ctx)
		if err != nil {
			return model.CPU{}, fmt.Errorf("refresh cpu: %w", err)
		}
		g.Release()
		if err := s.Sleep(ctx, s.Interval); err != nil {
			return model.CPU{}, fmt.Errorf("wait for cpu sample: %w", err)
		}
	}

	g, err := s.host.RefreshCPU(ctx)
	if err != nil {
		return model.CPU{}, fmt.Errorf("refresh cpu: %w", err)
	}
	defer g.Release()

	state := g.State()
	s.note(state, hoststate.SectionCPU)

	out := model.CPU{
		PhysicalCores: state.PhysicalCores(),
		Usage:         state.GlobalCPUUsage(),
		Cores:         []model.CPUCore{},
	}
	cpus := state.CPUs()
	if len(cpus) == 0 {
		return out, nil
	}
	out.LogicalCores = len(cpus)
	out.Cores = lo.Map(cpus, func(c hoststate.CPU, _ int) model.CPUCore {
		return model.CPUCore{
			Brand:     c.Brand,
			Name:      c.Name,
			Frequency: c.Frequency,
			Usage:     c.Usage,
		}
	})
	return out, nil
}
