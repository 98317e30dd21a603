// Package profile implements a supplemental dive-timeline sampler: given an
// ordered list of planned depth/duration/gas legs, it walks the legs against a
// forked saturation model and returns a fixed-resolution sample timeline of
// depth, ceiling, NDL, CNS and OTU. It performs no decompression planning of
// its own; Leg durations and depths are taken as given by the caller.
package profile

import (
	"math"

	"github.com/m5lapp/decocore/buhlmann"
	"github.com/m5lapp/decocore/gas"
	"github.com/m5lapp/decocore/units"
)

// minTransitionDepthDelta is the depth difference below which a leg-to-leg
// move is not considered a transition worth sampling separately.
const minTransitionDepthDelta = 0.5

// Leg is a single planned stop: a target depth, a duration at that depth and
// the gas breathed during the transition to it and the stop itself.
type Leg struct {
	Depth    units.Depth
	Duration units.Time
	Gas      gas.Mix
}

// Plan is an ordered list of Legs plus the rates used to transition between
// them.
type Plan struct {
	Legs        []Leg
	DescentRate float64
	AscentRate  float64
}

// Sample is a single point in a sampled dive timeline.
type Sample struct {
	Time    units.Time
	Depth   units.Depth
	Ceiling units.Depth
	NDL     units.Time
	CNS     float64
	OTU     float64
}

// transitionDuration returns the time required to move from one depth to
// another at the plan's configured rates, rounded up to the nearest minute.
// Moves smaller than minTransitionDepthDelta are not considered transitions.
func (p Plan) transitionDuration(from, to units.Depth) units.Time {
	delta := to.Meters() - from.Meters()
	if math.Abs(delta) < minTransitionDepthDelta {
		return units.FromMinutes(0)
	}

	rate := p.AscentRate
	if delta >= 0 {
		rate = p.DescentRate
	}

	return units.FromMinutes(math.Ceil(math.Abs(delta) / rate))
}

// Timeline drives a forked copy of model leg by leg, sampling at the given
// resolution, and returns the resulting timeline. model is never mutated; the
// caller's own dive state is left untouched.
func (p Plan) Timeline(model *buhlmann.Model, resolution units.Time) []Sample {
	sim := model.Fork().(*buhlmann.Model)

	var samples []Sample
	var currTime units.Time
	var currDepth units.Depth

	samples = append(samples, sampleAt(sim, currTime, currDepth))

	for _, leg := range p.Legs {
		currTime, currDepth = p.walkTransition(sim, currDepth, leg.Depth, currTime, resolution, leg.Gas, &samples)

		steps := int(math.Floor(leg.Duration.Seconds() / resolution.Seconds()))
		for i := 0; i < steps; i++ {
			currDepth = leg.Depth
			currTime = units.FromSeconds(currTime.Seconds() + resolution.Seconds())
			sim.Record(currDepth, resolution, leg.Gas)
			samples = append(samples, sampleAt(sim, currTime, currDepth))
		}
	}

	lastGas := gas.Air()
	if len(p.Legs) > 0 {
		lastGas = p.Legs[len(p.Legs)-1].Gas
	}
	p.walkTransition(sim, currDepth, units.FromMeters(0), currTime, resolution, lastGas, &samples)

	return samples
}

// walkTransition samples the transition from currDepth to targetDepth at the
// plan's configured rate and appends the resulting samples. It returns the
// final time and depth reached.
func (p Plan) walkTransition(sim *buhlmann.Model, currDepth, targetDepth units.Depth, currTime, resolution units.Time, g gas.Mix, samples *[]Sample) (units.Time, units.Depth) {
	duration := p.transitionDuration(currDepth, targetDepth)
	if duration.Minutes() == 0 {
		return currTime, currDepth
	}

	delta := targetDepth.Meters() - currDepth.Meters()
	steps := int(math.Floor(duration.Seconds() / resolution.Seconds()))
	if steps == 0 {
		return currTime, currDepth
	}
	stepDelta := delta / float64(steps)
	rate := math.Abs(delta) / duration.Minutes()

	for i := 0; i < steps; i++ {
		currDepth = units.FromMeters(currDepth.Meters() + stepDelta)
		if i == steps-1 {
			currDepth = targetDepth
		}
		currTime = units.FromSeconds(currTime.Seconds() + resolution.Seconds())
		sim.RecordTravelWithRate(currDepth, rate, g)
		*samples = append(*samples, sampleAt(sim, currTime, currDepth))
	}

	return currTime, currDepth
}

func sampleAt(sim *buhlmann.Model, t units.Time, depth units.Depth) Sample {
	return Sample{
		Time:    t,
		Depth:   depth,
		Ceiling: sim.Ceiling(),
		NDL:     sim.NDL(),
		CNS:     sim.CNS(),
		OTU:     sim.OTU(),
	}
}

// MaxDepth returns the deepest leg in the plan, or zero if there are none.
func (p Plan) MaxDepth() units.Depth {
	max := units.FromMeters(0)
	for _, leg := range p.Legs {
		if leg.Depth.Meters() > max.Meters() {
			max = leg.Depth
		}
	}
	return max
}

// Runtime sums the duration of every leg in the plan, including transitions.
func (p Plan) Runtime() units.Time {
	var total float64
	var currDepth units.Depth

	for _, leg := range p.Legs {
		total += p.transitionDuration(currDepth, leg.Depth).Minutes()
		total += leg.Duration.Minutes()
		currDepth = leg.Depth
	}
	total += p.transitionDuration(currDepth, units.FromMeters(0)).Minutes()

	return units.FromMinutes(total)
}
