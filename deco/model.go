// Package deco implements the decompression-stop and gas-switch planner:
// given a saturation model's current state and a set of available gases, it
// walks a forked simulation to the surface and records the resulting
// ascent/stop/gas-switch stages plus time-to-surface (spec.md section 4.3).
package deco

import (
	"github.com/m5lapp/decocore/gas"
	"github.com/m5lapp/decocore/units"
)

// DiveState is a point-in-time snapshot of a saturation model: its current
// depth and elapsed runtime, current breathing gas, and accumulated
// oxygen-toxicity dose.
type DiveState struct {
	Depth units.Depth
	Time  units.Time
	Gas   gas.Mix
	CNS   float64
	OTU   float64
}

// SaturationModel is the subset of buhlmann.Model the planner drives. It is
// defined here, the leaf side of the dependency, so that this package never
// imports buhlmann: buhlmann.Model implements SaturationModel instead.
type SaturationModel interface {
	// Record applies one constant-depth, constant-gas segment.
	Record(depth units.Depth, dt units.Time, g gas.Mix)
	// RecordTravelWithRate travels to target at the given ascent/descent
	// rate (meters/minute), recording 1-second segments along the way.
	RecordTravelWithRate(target units.Depth, ratePerMinute float64, g gas.Mix)
	// Ceiling is the current shallowest tolerable depth.
	Ceiling() units.Depth
	// InDeco reports whether Ceiling() is below the surface.
	InDeco() bool
	// SurfacePressureBar is the configured surface pressure.
	SurfacePressureBar() float64
	// DiveState snapshots the model's current depth/time/gas/ox-tox state.
	DiveState() DiveState
	// Fork returns an independent simulation copy.
	Fork() SaturationModel
}
