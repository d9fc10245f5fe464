package sampler

import (
	"context"
	"fmt"

	"github.com/Dicklesworthstone/prochunter/internal/hoststate"
	"github.com/Dicklesworthstone/prochunter/internal/model"
)

// Memory refreshes memory and swap counters and returns them verbatim.
func (s *Sampler) Memory(ctx context.Context) (model.Memory, error) {
	g, err := s.host.RefreshMemory(ctx)
	if err != nil {
		return model.Memory{}, fmt.Errorf("refresh memory: %w", err)
	}
	defer g.Release()

	state := g.State()
	s.note(state, hoststate.SectionMemory)

	ram, swap := state.Memory(), state.Swap()
	return model.Memory{
		Total:     ram.Total,
		Free:      ram.Free,
		Used:      ram.Used,
		SwapTotal: swap.Total,
		SwapFree:  swap.Free,
		SwapUsed:  swap.Used,
	}, nil
}
