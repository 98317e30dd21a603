package deco

import (
	"github.com/m5lapp/decocore/gas"
	"github.com/m5lapp/decocore/units"
)

// StageType classifies a Stage.
type StageType int

const (
	// StageAscent is a continuous ascent at the planner's ascent rate.
	// Missed-stop recovery emits no stage.
	StageAscent StageType = iota
	// StageDecoStop is time spent holding a mandatory stop depth.
	StageDecoStop
	// StageGasSwitch is an instantaneous breathing-gas change.
	StageGasSwitch
)

func (t StageType) String() string {
	switch t {
	case StageAscent:
		return "ascent"
	case StageDecoStop:
		return "deco_stop"
	case StageGasSwitch:
		return "gas_switch"
	}
	return "unknown"
}

// Stage is one segment of a decompression plan.
type Stage struct {
	Type       StageType
	StartDepth units.Depth
	EndDepth   units.Depth
	Duration   units.Time
	Gas        gas.Mix
}

// Runtime is the result of a full planner run: the ordered stages plus
// time-to-surface figures.
type Runtime struct {
	Stages []Stage
	// TTS is the current time-to-surface.
	TTS units.Time
	// TTSAt5 is the TTS if the diver stays at current depth/gas for 5 more
	// minutes before beginning ascent.
	TTSAt5 units.Time
	// TTSDeltaAt5 is TTSAt5 - TTS; can be negative if staying is cheaper
	// than it looks (rare, but possible near a ceiling inflection).
	TTSDeltaAt5 units.Time
}
