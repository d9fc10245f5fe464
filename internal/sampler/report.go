package sampler

import (
	"context"
	"time"

	"github.com/Dicklesworthstone/prochunter/internal/model"
)

// Report runs one aggregator per selected resource, or all four when sel is
// empty. Only a poisoned host state fails the report.
func (s *Sampler) Report(ctx context.Context, sel model.Selection, sleepForDelta bool) (model.Report, error) {
	sel = sel.OrAll()
	rep := model.Report{
		Timestamp: time.Now(),
		Selected:  sel,
		Host:      s.Host(ctx),
	}

	if sel.Battery {
		rep.Battery = s.Battery()
	}
	if sel.CPU {
		c, err := s.CPU(ctx, sleepForDelta)
		if err != nil {
			return rep, err
		}
		rep.CPU = &c
	}
	if sel.Memory {
		m, err := s.Memory(ctx)
		if err != nil {
			return rep, err
		}
		rep.Memory = &m
	}
	if sel.Processes {
		p, err := s.Processes(ctx)
		if err != nil {
			return rep, err
		}
		rep.Processes = &p
	}
	return rep, nil
}
