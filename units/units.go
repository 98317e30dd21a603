// Package units provides the scalar value types that cross the core's
// boundary: Depth (meters, with a feet accessor) and Time (seconds, with a
// minutes accessor). Conversions only happen at the boundary; internally the
// core works exclusively in meters, seconds and bar.
package units

import "gonum.org/v1/gonum/floats/scalar"

// metersPerFoot is the conversion factor used throughout the package.
const metersPerFoot = 0.3048

// zeroEpsilon is the tolerance used when comparing a depth or a pressure
// against zero, to absorb floating-point drift accumulated over many
// Haldane-exponential steps (spec.md section 9, "numeric semantics").
const zeroEpsilon = 1e-9

// Depth is a scalar depth in meters.
type Depth float64

// FromMeters constructs a Depth from a value already in meters.
func FromMeters(m float64) Depth {
	return Depth(m)
}

// FromFeet constructs a Depth from a value in feet.
func FromFeet(ft float64) Depth {
	return Depth(ft * metersPerFoot)
}

// Meters returns the depth in meters.
func (d Depth) Meters() float64 {
	return float64(d)
}

// Feet returns the depth in feet.
func (d Depth) Feet() float64 {
	return float64(d) / metersPerFoot
}

// IsSurfaceOrAbove reports whether the depth is at or above the surface,
// within zeroEpsilon, to guard against floating-point drift in the planner's
// surface-reached check (spec.md section 9).
func (d Depth) IsSurfaceOrAbove() bool {
	return float64(d) <= zeroEpsilon || scalar.EqualWithinAbs(float64(d), 0, zeroEpsilon)
}

// Time is a scalar duration in seconds.
type Time float64

// FromSeconds constructs a Time from a value already in seconds.
func FromSeconds(s float64) Time {
	return Time(s)
}

// FromMinutes constructs a Time from a value in minutes.
func FromMinutes(m float64) Time {
	return Time(m * 60)
}

// Seconds returns the duration in seconds.
func (t Time) Seconds() float64 {
	return float64(t)
}

// Minutes returns the duration in minutes.
func (t Time) Minutes() float64 {
	return float64(t) / 60
}

// EqualEpsilon reports whether a and b are equal within zeroEpsilon, the same
// absolute tolerance IsSurfaceOrAbove applies.
func EqualEpsilon(a, b float64) bool {
	return scalar.EqualWithinAbs(a, b, zeroEpsilon)
}
