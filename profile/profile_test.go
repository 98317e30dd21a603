package profile

import (
	"testing"

	"github.com/m5lapp/decocore/buhlmann"
	"github.com/m5lapp/decocore/gas"
	"github.com/m5lapp/decocore/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineSamplesEveryTick(t *testing.T) {
	model := buhlmann.NewModel(buhlmann.NewConfig())
	plan := Plan{
		Legs: []Leg{
			{Depth: units.FromMeters(20), Duration: units.FromMinutes(10), Gas: gas.Air()},
		},
		DescentRate: 18,
		AscentRate:  9,
	}

	samples := plan.Timeline(model, units.FromMinutes(1))
	require.NotEmpty(t, samples)

	for i := 1; i < len(samples); i++ {
		assert.InDelta(t, 60, samples[i].Time.Seconds()-samples[i-1].Time.Seconds(), 1e-9)
	}

	last := samples[len(samples)-1]
	assert.InDelta(t, 0, last.Depth.Meters(), 1e-6)

	var maxDepth float64
	for _, s := range samples {
		if s.Depth.Meters() > maxDepth {
			maxDepth = s.Depth.Meters()
		}
	}
	assert.InDelta(t, 20, maxDepth, 1e-6)
}

func TestTimelineDoesNotMutateSourceModel(t *testing.T) {
	model := buhlmann.NewModel(buhlmann.NewConfig())
	plan := Plan{
		Legs: []Leg{
			{Depth: units.FromMeters(30), Duration: units.FromMinutes(5), Gas: gas.Air()},
		},
		DescentRate: 18,
		AscentRate:  9,
	}

	plan.Timeline(model, units.FromMinutes(1))
	assert.Equal(t, 0.0, model.DiveState().Depth.Meters())
}

func TestMaxDepthAndRuntime(t *testing.T) {
	plan := Plan{
		Legs: []Leg{
			{Depth: units.FromMeters(18), Duration: units.FromMinutes(5), Gas: gas.Air()},
			{Depth: units.FromMeters(30), Duration: units.FromMinutes(15), Gas: gas.Air()},
		},
		DescentRate: 18,
		AscentRate:  9,
	}

	assert.InDelta(t, 30, plan.MaxDepth().Meters(), 1e-9)
	assert.Greater(t, plan.Runtime().Minutes(), 20.0)
}

func TestTransitionDurationSkipsSmallMoves(t *testing.T) {
	plan := Plan{DescentRate: 18, AscentRate: 9}
	d := plan.transitionDuration(units.FromMeters(20), units.FromMeters(20.2))
	assert.Equal(t, 0.0, d.Minutes())
}
