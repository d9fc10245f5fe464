package sampler

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/Dicklesworthstone/prochunter/internal/hoststate"
	"github.com/Dicklesworthstone/prochunter/internal/model"
)

// Processes replaces the process table and counts it.
//
// A root is a process whose parent is unreported or is PID 0. That is a rough
// top-of-tree count; ancestry is not walked.
func (s *Sampler) Processes(ctx context.Context) (model.Processes, error) {
	g, err := s.host.RefreshProcesses(ctx)
	if err != nil {
		return model.Processes{}, fmt.Errorf("refresh processes: %w", err)
	}
	defer g.Release()

	state := g.State()
	s.note(state, hoststate.SectionProcesses)

	procs := state.Processes()
	return model.Processes{
		Count: len(procs),
		Roots: lo.CountBy(procs, isRoot),
	}, nil
}

func isRoot(p hoststate.ProcessEntry) bool {
	return !p.HasParent || p.Parent == 0
}
