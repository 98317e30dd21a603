package buhlmann

import "github.com/m5lapp/decocore/decoerr"

// CeilingType selects how Model.Ceiling resolves a multi-stop decompression
// obligation into a single current-depth ceiling (spec.md section 4.2).
type CeilingType int

const (
	// Actual is the leading compartment's instantaneous ceiling.
	Actual CeilingType = iota
	// Adaptive iteratively ascends a forked model to each intermediate
	// ceiling and recomputes, converging on the depth the diver could
	// reach right now without ever exceeding tolerance en route.
	Adaptive
)

func (t CeilingType) String() string {
	if t == Adaptive {
		return "Adaptive"
	}
	return "Actual"
}

// Config configures a Model. Build one with NewConfig and its With*
// builder methods, then pass it to NewModel, which validates it and panics
// on an invalid field (spec.md section 7, class 1: a misconfigured model is
// a programmer error, not a recoverable runtime condition).
type Config struct {
	GFLow, GFHigh           uint8
	SurfacePressureMbar     uint16
	DecoAscentRateMPerMin   float64
	CeilingType             CeilingType
	RoundCeiling            bool
	RecalcAllTissuesMValues bool
}

// NewConfig returns the default configuration: GF 100/100 (no conservatism),
// standard sea-level pressure, a 10m/min deco ascent rate, Actual ceiling.
func NewConfig() Config {
	return Config{
		GFLow:                   100,
		GFHigh:                  100,
		SurfacePressureMbar:     1013,
		DecoAscentRateMPerMin:   10,
		CeilingType:             Actual,
		RoundCeiling:            false,
		RecalcAllTissuesMValues: true,
	}
}

// WithGradientFactors sets GFLow/GFHigh (1-100, low <= high).
func (c Config) WithGradientFactors(low, high uint8) Config {
	c.GFLow, c.GFHigh = low, high
	return c
}

// WithSurfacePressureMbar sets the surface pressure in millibar (500-1500).
func (c Config) WithSurfacePressureMbar(mbar uint16) Config {
	c.SurfacePressureMbar = mbar
	return c
}

// WithDecoAscentRate sets the ascent rate in meters/minute (1-30) used by the
// Adaptive ceiling simulation. The deco planner does not read it: its ascents
// run at the planner's own fixed 9 m/min.
func (c Config) WithDecoAscentRate(mPerMin float64) Config {
	c.DecoAscentRateMPerMin = mPerMin
	return c
}

// WithCeilingType selects Actual or Adaptive ceiling resolution.
func (c Config) WithCeilingType(t CeilingType) Config {
	c.CeilingType = t
	return c
}

// WithRoundCeiling rounds Ceiling() results up to the next whole meter.
func (c Config) WithRoundCeiling(round bool) Config {
	c.RoundCeiling = round
	return c
}

// WithAllTissuesRecalculated controls whether every compartment's M-value is
// recalculated against the sloped GF on each record (true, the default) or
// only the leading compartment's (false, cheaper but less precise supersaturation
// reporting for non-leading tissues).
func (c Config) WithAllTissuesRecalculated(all bool) Config {
	c.RecalcAllTissuesMValues = all
	return c
}

// SurfacePressureBar returns the configured surface pressure in bar.
func (c Config) SurfacePressureBar() float64 {
	return float64(c.SurfacePressureMbar) / 1000
}

// Validate checks the configuration's fields, per spec.md section 6.
func (c Config) Validate() error {
	if c.GFLow < 1 || c.GFLow > 100 || c.GFHigh < 1 || c.GFHigh > 100 {
		return &decoerr.ConfigValidationError{Field: "gf", Reason: "GF values have to be in 1-100 range"}
	}
	if c.GFLow > c.GFHigh {
		return &decoerr.ConfigValidationError{Field: "gf", Reason: "GFLow can't be higher than GFHigh"}
	}
	if c.SurfacePressureMbar < 500 || c.SurfacePressureMbar > 1500 {
		return &decoerr.ConfigValidationError{Field: "surface_pressure", Reason: "Surface pressure must be in millibars in 500-1500 range"}
	}
	if c.DecoAscentRateMPerMin < 1 || c.DecoAscentRateMPerMin > 30 {
		return &decoerr.ConfigValidationError{Field: "deco_ascent_rate", Reason: "Ascent rate must be in 1-30 m/min range"}
	}
	return nil
}
