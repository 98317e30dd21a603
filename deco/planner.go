package deco

import (
	"math"
	"sort"

	"github.com/m5lapp/decocore/decoerr"
	"github.com/m5lapp/decocore/gas"
	"github.com/m5lapp/decocore/metrics"
	"github.com/m5lapp/decocore/units"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Planner constants (spec.md section 6): the ascent rate used for deco
// ascents is independent of the saturation model's own configured ascent
// rate (that one only governs Adaptive-ceiling simulation).
const (
	defaultAscentRateMPerMin = 9.0
	defaultCeilingWindow     = 3.0
	defaultMaxEndDepth       = 30.0
)

type action int

const (
	actionNone action = iota
	actionAscentToCeil
	actionAscentToGasSwitchDepth
	actionSwitchGas
	actionStop
	// actionRecoverToCeil handles a missed-stop: the diver (or a planner
	// simulation step) ended up shallower than the current ceiling.
	// Recovered by descending back to the ceiling; bounded to one
	// occurrence per Calc call (spec.md section 7, class 3).
	actionRecoverToCeil
)

// Planner computes a decompression plan (ascent, stop and gas-switch
// stages) by driving a forked SaturationModel to the surface.
type Planner struct {
	stages     []Stage
	ttsSeconds float64
	sim        bool
	recovered  bool

	logger  zerolog.Logger
	metrics *metrics.Collectors
}

// Option configures a Planner at construction.
type Option func(*Planner)

// WithLogger overrides the default logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Planner) { p.logger = logger }
}

// WithMetrics attaches optional instrumentation.
func WithMetrics(c *metrics.Collectors) Option {
	return func(p *Planner) { p.metrics = c }
}

// NewPlanner constructs a Planner ready for Calc.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{logger: log.Logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) newSim() *Planner {
	return &Planner{sim: true, logger: p.logger, metrics: p.metrics}
}

// Calc runs the decision loop to the surface against a fork of model and
// returns the resulting Runtime. gasMixes must be non-empty and must
// contain model's current gas (spec.md section 6 Error table).
func (p *Planner) Calc(model SaturationModel, gasMixes []gas.Mix) (Runtime, error) {
	if len(gasMixes) == 0 {
		return Runtime{}, decoerr.ErrEmptyGasList
	}

	current := model.DiveState()
	if !containsGas(gasMixes, current.Gas) {
		return Runtime{}, decoerr.ErrCurrentGasNotInList
	}

	simModel := model.Fork()

	for {
		ds := simModel.DiveState()
		preDepth, preTime, preGas := ds.Depth, ds.Time, ds.Gas

		actionKind, switchGas := p.nextAction(simModel, gasMixes)
		if p.metrics != nil {
			p.metrics.PlannerIterations.WithLabelValues(actionName(actionKind)).Inc()
		}

		if actionKind == actionNone {
			break
		}

		var newStages []Stage
		switch actionKind {
		case actionAscentToCeil:
			ceiling := simModel.Ceiling()
			simModel.RecordTravelWithRate(p.decoStopDepth(ceiling), defaultAscentRateMPerMin, preGas)
			post := simModel.DiveState()
			newStages = append(newStages, Stage{
				Type: StageAscent, StartDepth: preDepth, EndDepth: post.Depth,
				Duration: units.FromSeconds(post.Time.Seconds() - preTime.Seconds()), Gas: post.Gas,
			})

		case actionAscentToGasSwitchDepth:
			if switchGas != nil {
				switchMOD := switchGas.MOD(1.6)
				simModel.RecordTravelWithRate(switchMOD, defaultAscentRateMPerMin, preGas)
				postAscent := simModel.DiveState()
				newStages = append(newStages, Stage{
					Type: StageAscent, StartDepth: preDepth, EndDepth: postAscent.Depth,
					Duration: units.FromSeconds(postAscent.Time.Seconds() - preTime.Seconds()), Gas: preGas,
				})

				simModel.Record(postAscent.Depth, units.FromSeconds(0), *switchGas)
				postSwitch := simModel.DiveState()
				newStages = append(newStages, Stage{
					Type: StageGasSwitch, StartDepth: postAscent.Depth, EndDepth: postSwitch.Depth,
					Duration: units.FromSeconds(0), Gas: *switchGas,
				})
			}

		case actionSwitchGas:
			simModel.Record(preDepth, units.FromSeconds(0), *switchGas)
			newStages = append(newStages, Stage{
				Type: StageGasSwitch, StartDepth: preDepth, EndDepth: preDepth,
				Duration: units.FromSeconds(0), Gas: *switchGas,
			})

		case actionStop:
			simModel.Record(preDepth, units.FromSeconds(1), preGas)
			post := simModel.DiveState()
			newStages = append(newStages, Stage{
				Type: StageDecoStop, StartDepth: preDepth, EndDepth: post.Depth,
				Duration: units.FromSeconds(post.Time.Seconds() - preTime.Seconds()), Gas: post.Gas,
			})

		case actionRecoverToCeil:
			simModel.RecordTravelWithRate(simModel.Ceiling(), defaultAscentRateMPerMin, preGas)
		}

		for _, stage := range newStages {
			p.registerStage(stage)
		}
	}

	tts := units.FromSeconds(p.ttsSeconds)

	var ttsAt5, ttsDeltaAt5 units.Time
	if !p.sim {
		nested := p.newSim()
		nestedModel := model.Fork()
		ds := nestedModel.DiveState()
		nestedModel.Record(ds.Depth, units.FromMinutes(5), ds.Gas)
		nestedRuntime, err := nested.Calc(nestedModel, gasMixes)
		if err != nil {
			return Runtime{}, err
		}
		ttsAt5 = nestedRuntime.TTS
		ttsDeltaAt5 = units.FromSeconds(ttsAt5.Seconds() - tts.Seconds())
	}

	if p.metrics != nil && !p.sim {
		p.metrics.DecoTTSSeconds.Observe(tts.Seconds())
	}

	return Runtime{
		Stages:      p.stages,
		TTS:         tts,
		TTSAt5:      ttsAt5,
		TTSDeltaAt5: ttsDeltaAt5,
	}, nil
}

// nextAction is the planner's per-iteration decision procedure (spec.md
// section 4.3).
func (p *Planner) nextAction(model SaturationModel, gasMixes []gas.Mix) (action, *gas.Mix) {
	ds := model.DiveState()

	if ds.Depth.IsSurfaceOrAbove() {
		return actionNone, nil
	}

	if !model.InDeco() {
		return actionAscentToCeil, nil
	}

	switchGas := p.nextSwitchGas(ds.Depth, ds.Gas, gasMixes, model.SurfacePressureBar())
	if switchGas != nil {
		switchMOD := switchGas.MOD(1.6)
		switchEND := switchGas.EquivalentNarcoticDepth(ds.Depth)
		if *switchGas != ds.Gas && ds.Depth <= switchMOD && switchEND <= units.FromMeters(defaultMaxEndDepth) {
			return actionSwitchGas, switchGas
		}
	}

	ceiling := model.Ceiling()
	ceilingPadding := ds.Depth.Meters() - ceiling.Meters()

	if ceilingPadding < 0 {
		if !p.recovered {
			p.recovered = true
			p.logger.Warn().
				Float64("depth_m", ds.Depth.Meters()).
				Float64("ceiling_m", ceiling.Meters()).
				Msg("deco: depth above ceiling, recovering to ceiling depth")
			return actionRecoverToCeil, nil
		}
		ceilingPadding = 0
	}

	if ceilingPadding <= defaultCeilingWindow {
		return actionStop, nil
	}

	if switchGas != nil {
		return actionAscentToGasSwitchDepth, switchGas
	}
	return actionAscentToCeil, nil
}

// nextSwitchGas returns, among the available gases richer in oxygen than the
// current gas, the one with the lowest FO2 (and so the deepest MOD), which is
// the first switch reached on the way up (spec.md section 4.3).
func (p *Planner) nextSwitchGas(depth units.Depth, current gas.Mix, gasMixes []gas.Mix, surfacePressureBar float64) *gas.Mix {
	currentPP := current.PartialPressures(depth, surfacePressureBar)

	var candidates []gas.Mix
	for _, g := range gasMixes {
		pp := g.PartialPressures(depth, surfacePressureBar)
		if pp.O2 > currentPP.O2 {
			candidates = append(candidates, g)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FO2 < candidates[j].FO2
	})

	return &candidates[0]
}

// registerStage appends stage to the plan, merging consecutive deco-stop
// stages into one, and accrues its duration into the running TTS.
func (p *Planner) registerStage(stage Stage) {
	pushNew := true
	if stage.Type == StageDecoStop && len(p.stages) > 0 {
		last := &p.stages[len(p.stages)-1]
		if last.Type == StageDecoStop {
			last.Duration = units.FromSeconds(last.Duration.Seconds() + stage.Duration.Seconds())
			pushNew = false
		}
	}
	if pushNew {
		p.stages = append(p.stages, stage)
	}
	p.ttsSeconds += stage.Duration.Seconds()
}

// decoStopDepth rounds a ceiling up to the bottom of the nearest
// ceiling-window band (spec.md section 4.3, stop rounding).
func (p *Planner) decoStopDepth(ceiling units.Depth) units.Depth {
	return units.FromMeters(defaultCeilingWindow * math.Ceil(ceiling.Meters()/defaultCeilingWindow))
}

func containsGas(gasMixes []gas.Mix, g gas.Mix) bool {
	for _, candidate := range gasMixes {
		if candidate == g {
			return true
		}
	}
	return false
}

func actionName(a action) string {
	switch a {
	case actionAscentToCeil:
		return "ascent_to_ceiling"
	case actionAscentToGasSwitchDepth:
		return "ascent_to_gas_switch_depth"
	case actionSwitchGas:
		return "switch_gas"
	case actionStop:
		return "stop"
	case actionRecoverToCeil:
		return "recover_to_ceiling"
	}
	return "none"
}
