package sampler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These read the machine running the tests.

func TestLiveMemoryAccounting(t *testing.T) {
	if testing.Short() {
		t.Skip("reads the live host")
	}
	s := New(DefaultInterval)

	m, err := s.Memory(context.Background())
	require.NoError(t, err)

	require.Greater(t, m.Total, uint64(0))
	// Used excludes buffers and page cache, so the two need not add up to Total.
	assert.LessOrEqual(t, m.Used+m.Free, m.Total)
	if m.SwapTotal == 0 {
		assert.Zero(t, m.SwapUsed)
		assert.Zero(t, m.SwapFree)
	} else {
		assert.Equal(t, m.SwapTotal, m.SwapUsed+m.SwapFree)
	}
}

func TestLiveProcessCensus(t *testing.T) {
	if testing.Short() {
		t.Skip("reads the live host")
	}
	s := New(DefaultInterval)

	p, err := s.Processes(context.Background())
	require.NoError(t, err)

	assert.Greater(t, p.Count, 0)
	assert.GreaterOrEqual(t, p.Count, p.Roots)
	assert.GreaterOrEqual(t, p.Roots, 0)
}

func TestLiveCPUShape(t *testing.T) {
	if testing.Short() {
		t.Skip("reads the live host")
	}
	s := New(DefaultInterval)
	ctx := context.Background()

	a, err := s.CPU(ctx, true)
	require.NoError(t, err)
	b, err := s.CPU(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, a.PhysicalCores, b.PhysicalCores)
	assert.Equal(t, a.LogicalCores, b.LogicalCores)
	assert.Len(t, a.Cores, a.LogicalCores)
	for _, c := range a.Cores {
		assert.GreaterOrEqual(t, c.Usage, 0.0)
		assert.LessOrEqual(t, c.Usage, 100.0)
	}
}

func TestLiveBatteryNonNegative(t *testing.T) {
	if testing.Short() {
		t.Skip("reads the live host")
	}
	b := New(DefaultInterval).Battery()
	if b == nil {
		t.Skip("no readable battery subsystem")
	}
	assert.GreaterOrEqual(t, b.Energy, 0.0)
	assert.GreaterOrEqual(t, b.EnergyFull, 0.0)
}
