// Package buhlmann implements the ZH-L16C multi-tissue saturation model:
// 16 compartments tracking nitrogen and helium loading, gradient-factor
// adjusted M-values, ceiling computation (Actual and Adaptive), NDL and the
// CNS%/OTU oxygen-toxicity accumulator (spec.md section 4).
package buhlmann

import (
	"math"

	"github.com/google/uuid"
	"github.com/m5lapp/decocore/deco"
	"github.com/m5lapp/decocore/gas"
	"github.com/m5lapp/decocore/metrics"
	"github.com/m5lapp/decocore/oxtox"
	"github.com/m5lapp/decocore/units"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ndlCutOff is the NDL search ceiling: beyond this many simulated minutes
// the dive is reported as no-decompression-limit-exempt (spec.md section
// 4.1, NDL).
const ndlCutOff = 99

// state is the model's mutable dive record: current depth/runtime, current
// gas, the cached GF-low reference depth and accumulated oxygen toxicity.
type state struct {
	depth      units.Depth
	time       units.Time
	gas        gas.Mix
	gfLowDepth *units.Depth
	oxTox      oxtox.Accumulator
}

// Model is a ZH-L16C saturation model instance.
type Model struct {
	id           uuid.UUID
	config       Config
	compartments [16]*compartment
	state        state
	sim          bool

	logger  zerolog.Logger
	metrics *metrics.Collectors
}

// Option configures a Model at construction.
type Option func(*Model)

// WithLogger overrides the default logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// WithMetrics attaches optional instrumentation.
func WithMetrics(c *metrics.Collectors) Option {
	return func(m *Model) { m.metrics = c }
}

// NewModel constructs a Model equilibrated to surface air. It panics if
// config is invalid (spec.md section 7, class 1: a misconfigured model is a
// programmer error).
func NewModel(config Config, opts ...Option) *Model {
	if err := config.Validate(); err != nil {
		panic(err)
	}

	m := &Model{
		id:     uuid.New(),
		config: config,
		state: state{
			depth: units.FromMeters(0),
			time:  units.FromSeconds(0),
			gas:   gas.Air(),
		},
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(m)
	}

	surfaceBar := config.SurfacePressureBar()
	for i, params := range zhl16cParams {
		m.compartments[i] = newCompartment(i+1, params, surfaceBar, float64(config.GFHigh))
	}

	m.logger.Debug().Str("model_id", m.id.String()).Str("ceiling_type", config.CeilingType.String()).
		Uint8("gf_low", config.GFLow).Uint8("gf_high", config.GFHigh).Msg("buhlmann: model initialized")

	return m
}

// Record applies one constant-depth, constant-gas segment of dt duration.
func (m *Model) Record(depth units.Depth, dt units.Time, g gas.Mix) {
	m.validateDepth(depth)
	m.state.depth = depth
	m.state.gas = g
	m.state.time = units.FromSeconds(m.state.time.Seconds() + dt.Seconds())
	m.recalculate(depth, dt, g)

	if m.metrics != nil {
		m.metrics.StepsTotal.Inc()
	}
}

// RecordTravel walks from the current depth to target over dt, applying
// the saturation update in 1-second increments (spec.md section 4.1).
func (m *Model) RecordTravel(target units.Depth, dt units.Time, g gas.Mix) {
	m.validateDepth(target)
	m.state.gas = g

	current := m.state.depth
	distance := target.Meters() - current.Meters()
	travelSeconds := dt.Seconds()
	if travelSeconds <= 0 {
		m.state.depth = target
		return
	}
	rate := distance / travelSeconds

	steps := int(travelSeconds)
	for i := 0; i < steps; i++ {
		m.state.time = units.FromSeconds(m.state.time.Seconds() + 1)
		current = units.FromMeters(current.Meters() + rate)
		m.recalculate(current, units.FromSeconds(1), g)
	}

	m.state.depth = target
	if m.metrics != nil {
		m.metrics.StepsTotal.Add(float64(steps))
	}
}

// RecordTravelWithRate travels to target at ratePerMinute (meters/minute).
func (m *Model) RecordTravelWithRate(target units.Depth, ratePerMinute float64, g gas.Mix) {
	m.validateDepth(target)
	distance := math.Abs(target.Meters() - m.state.depth.Meters())
	travelSeconds := distance / ratePerMinute * 60
	m.RecordTravel(target, units.FromSeconds(travelSeconds), g)
}

// NDL is the no-decompression limit: minutes the diver can remain at the
// current depth/gas before a ceiling forms, capped at 99.
func (m *Model) NDL() units.Time {
	if m.InDeco() {
		if m.metrics != nil {
			m.metrics.NDLMinutes.Observe(0)
		}
		return units.FromSeconds(0)
	}

	sim := m.fork()
	interval := units.FromMinutes(1)
	ndl := units.FromMinutes(ndlCutOff)
	for i := 0; i < ndlCutOff; i++ {
		sim.Record(m.state.depth, interval, m.state.gas)
		inDeco := sim.InDeco()
		if m.config.CeilingType == Adaptive {
			inDeco = sim.adaptiveCeiling().Meters() > 0
		}
		if inDeco {
			ndl = units.FromMinutes(float64(i))
			break
		}
	}

	if m.metrics != nil && ndl.Minutes() < ndlCutOff {
		m.metrics.NDLMinutes.Observe(ndl.Minutes())
	}
	return ndl
}

// Ceiling is the shallowest depth currently tolerable, per the configured
// CeilingType (spec.md section 4.2).
func (m *Model) Ceiling() units.Depth {
	ceilingType := m.config.CeilingType
	if m.sim {
		ceilingType = Actual
	}

	var ceiling units.Depth
	switch ceilingType {
	case Adaptive:
		ceiling = m.adaptiveCeiling()
	default:
		ceiling = m.leadingComp().ceiling(m.config.SurfacePressureBar())
	}

	if m.config.RoundCeiling {
		ceiling = units.FromMeters(math.Ceil(ceiling.Meters()))
	}
	return ceiling
}

// adaptiveCeiling iteratively ascends a forked model to each intermediate
// ceiling and recomputes, converging on the shallowest depth reachable right
// now without ever exceeding tolerance en route (spec.md section 4.2).
func (m *Model) adaptiveCeiling() units.Depth {
	sim := m.fork()
	simGas := sim.state.gas
	calculated := sim.leadingComp().ceiling(sim.config.SurfacePressureBar())

	for {
		simDepth := sim.state.depth
		if simDepth.IsSurfaceOrAbove() || simDepth.Meters() <= calculated.Meters() {
			break
		}
		sim.RecordTravelWithRate(calculated, m.config.DecoAscentRateMPerMin, simGas)
		calculated = sim.leadingComp().ceiling(sim.config.SurfacePressureBar())
	}
	return calculated
}

// InDeco reports whether the model currently has a decompression
// obligation (a non-zero ceiling).
func (m *Model) InDeco() bool {
	return m.Ceiling().Meters() > 0
}

// Deco computes a full decompression plan to the surface, given the gas
// mixes available for switching. It operates on a fork, leaving m
// unmodified.
func (m *Model) Deco(gasMixes []gas.Mix) (deco.Runtime, error) {
	planner := deco.NewPlanner(deco.WithLogger(m.logger), deco.WithMetrics(m.metrics))
	return planner.Calc(m.fork(), gasMixes)
}

// ID returns the model's correlation identifier. Forks keep their parent's
// ID (spec.md section 2.5: they are not independent dive sessions), so log
// lines from the same live session can be correlated across NDL/Adaptive-
// ceiling/Deco calls even though those calls run against forks internally.
func (m *Model) ID() uuid.UUID {
	return m.id
}

// Config returns the model's current configuration.
func (m *Model) Config() Config {
	return m.config
}

// UpdateConfig validates and swaps in a new configuration.
func (m *Model) UpdateConfig(newConfig Config) error {
	if err := newConfig.Validate(); err != nil {
		return err
	}
	m.config = newConfig
	return nil
}

// DiveState snapshots the model's current depth/time/gas/ox-tox state,
// satisfying deco.SaturationModel.
func (m *Model) DiveState() deco.DiveState {
	return deco.DiveState{
		Depth: m.state.depth,
		Time:  m.state.time,
		Gas:   m.state.gas,
		CNS:   m.state.oxTox.CNS,
		OTU:   m.state.oxTox.OTU,
	}
}

// SurfacePressureBar satisfies deco.SaturationModel.
func (m *Model) SurfacePressureBar() float64 {
	return m.config.SurfacePressureBar()
}

// CNS returns the current CNS percentage.
func (m *Model) CNS() float64 {
	return m.state.oxTox.CNS
}

// OTU returns the current accumulated OTU dose.
func (m *Model) OTU() float64 {
	return m.state.oxTox.OTU
}

// Supersaturation returns the model-wide GF99/GF-surface reading: the
// maximum across all 16 compartments, floored at zero.
func (m *Model) Supersaturation() Supersaturation {
	var acc Supersaturation
	for _, c := range m.compartments {
		s := c.supersaturation(m.config.SurfacePressureBar(), m.state.depth)
		if s.GF99 > acc.GF99 {
			acc.GF99 = s.GF99
		}
		if s.GFSurf > acc.GFSurf {
			acc.GFSurf = s.GFSurf
		}
	}
	return acc
}

// Tissues returns a defensive copy of the current per-compartment state.
func (m *Model) Tissues() []Compartment {
	out := make([]Compartment, len(m.compartments))
	for i, c := range m.compartments {
		out[i] = Compartment{
			No:      c.no,
			HeIP:    c.heIP,
			N2IP:    c.n2IP,
			TotalIP: c.totalIP,
		}
	}
	return out
}

// Compartment is a read-only snapshot of one tissue compartment's loading.
type Compartment struct {
	No              int
	HeIP, N2IP      float64
	TotalIP         float64
}

// Fork returns an independent simulation copy, satisfying
// deco.SaturationModel. The fork is marked sim so its own Ceiling() always
// resolves Actual and it never feeds back into instrumentation.
func (m *Model) Fork() deco.SaturationModel {
	return m.fork()
}

// IsSim reports whether this model instance is a simulation fork.
func (m *Model) IsSim() bool {
	return m.sim
}

func (m *Model) fork() *Model {
	compartmentsCopy := m.compartments
	for i, c := range m.compartments {
		cc := *c
		compartmentsCopy[i] = &cc
	}
	forked := &Model{
		id:           m.id,
		config:       m.config,
		compartments: compartmentsCopy,
		state:        m.state,
		sim:          true,
		logger:       m.logger,
	}
	forked.logger.Debug().Str("model_id", forked.id.String()).Str("fork_of", m.id.String()).
		Msg("buhlmann: model forked")
	return forked
}

func (m *Model) validateDepth(depth units.Depth) {
	if depth.Meters() < 0 {
		panic("buhlmann: invalid negative depth")
	}
}

func (m *Model) recalculate(depth units.Depth, dt units.Time, g gas.Mix) {
	m.recalculateCompartments(depth, dt, g)
	if !m.sim {
		m.state.oxTox.Record(depth, dt, g, m.config.SurfacePressureBar())
	}
}

func (m *Model) recalculateCompartments(depth units.Depth, dt units.Time, g gas.Mix) {
	gfLow, gfHigh := float64(m.config.GFLow), float64(m.config.GFHigh)
	surfaceBar := m.config.SurfacePressureBar()

	for _, c := range m.compartments {
		c.recalculate(depth, dt, g, gfHigh, surfaceBar)
	}

	if gfHigh != gfLow {
		maxGF := m.calcMaxSlopedGF(depth)
		zeroDt := units.FromSeconds(0)
		if m.config.RecalcAllTissuesMValues {
			for _, c := range m.compartments {
				c.recalculate(depth, zeroDt, g, maxGF, surfaceBar)
			}
		} else {
			m.leadingComp().recalculate(depth, zeroDt, g, maxGF, surfaceBar)
		}
	}
}

// calcMaxSlopedGF is the maximum supersaturation allowed on the slope
// between GFLow and GFHigh at depth, caching the GF-low reference depth
// the first time it's needed (spec.md section 9, open question: never
// invalidated mid-dive).
func (m *Model) calcMaxSlopedGF(depth units.Depth) float64 {
	gfLow, gfHigh := float64(m.config.GFLow), float64(m.config.GFHigh)

	if m.Ceiling().Meters() <= 0 {
		return gfHigh
	}

	if m.state.gfLowDepth == nil {
		surfaceBar := m.config.SurfacePressureBar()
		gfLowFraction := gfLow / 100

		maxDepth := 0.0
		for _, c := range m.compartments {
			_, aWeighted, bWeighted := c.weightedZHLParams(c.heIP, c.n2IP)
			maxAmbP := (c.totalIP - gfLowFraction*aWeighted) / (1 - gfLowFraction + gfLowFraction/bWeighted)
			candidate := 10 * (maxAmbP - surfaceBar)
			if candidate < 0 {
				candidate = 0
			}
			if candidate > maxDepth {
				maxDepth = candidate
			}
		}

		d := units.FromMeters(maxDepth)
		m.state.gfLowDepth = &d
		m.logger.Debug().Float64("gf_low_depth_m", maxDepth).Msg("buhlmann: cached GF-low reference depth")
	}

	if depth.Meters() > m.state.gfLowDepth.Meters() {
		return gfLow
	}
	return m.gfSlopePoint(depth)
}

// gfSlopePoint linearly interpolates the allowed GF between GFLow (at the
// cached reference depth) and GFHigh (at the surface).
func (m *Model) gfSlopePoint(depth units.Depth) float64 {
	gfLow, gfHigh := float64(m.config.GFLow), float64(m.config.GFHigh)
	gfLowDepth := m.state.gfLowDepth.Meters()
	return gfHigh - ((gfHigh-gfLow)/gfLowDepth)*depth.Meters()
}

func (m *Model) leadingComp() *compartment {
	leading := m.compartments[0]
	for _, c := range m.compartments[1:] {
		if c.minTolerableAmbPressure > leading.minTolerableAmbPressure {
			leading = c
		}
	}
	return leading
}
