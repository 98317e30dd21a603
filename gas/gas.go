// Package gas implements the breathing-gas-mix value type: an immutable
// {O2, He, N2} fraction triple plus the derived quantities (partial
// pressures, MOD, END) the saturation model and planner need.
package gas

import (
	"fmt"
	"math"

	"github.com/m5lapp/decocore/units"
)

// alveolarWaterVapor is the partial pressure of water vapor in the lungs in
// bar, constant regardless of ambient pressure (spec.md section 6).
const alveolarWaterVapor = 0.0627

// defaultMaxPPO2 is the default ppO2 limit (bar) used for MOD calculations
// when no limit is specified, per spec.md section 6.
const defaultMaxPPO2 = 1.6

// Mix is an immutable breathing-gas mix: fractions of oxygen, helium and
// (derived) nitrogen. FN2 always equals 1 - FO2 - FHe.
type Mix struct {
	FO2 float64
	FHe float64
	FN2 float64
}

// MixType classifies a Mix by its composition.
type MixType int

const (
	Unknown MixType = iota
	Air
	Nitrox
	Heliox
	Trimix
)

func (mt MixType) String() string {
	switch mt {
	case Air:
		return "Air"
	case Nitrox:
		return "Nitrox"
	case Heliox:
		return "Heliox"
	case Trimix:
		return "Trimix"
	}
	return "Unknown"
}

// New constructs a Mix from O2 and He fractions, deriving N2. It panics if
// the fractions are out of [0,1] or sum to more than 1 (spec.md section 3:
// a precondition violation, not a recoverable error).
func New(fo2, fhe float64) Mix {
	if fo2 < 0 || fo2 > 1 {
		panic(fmt.Sprintf("gas: invalid FO2 %f, must be in [0,1]", fo2))
	}
	if fhe < 0 || fhe > 1 {
		panic(fmt.Sprintf("gas: invalid FHe %f, must be in [0,1]", fhe))
	}
	if fo2+fhe > 1 {
		panic(fmt.Sprintf("gas: invalid FO2+FHe %f, must not exceed 1", fo2+fhe))
	}

	return Mix{
		FO2: fo2,
		FHe: fhe,
		FN2: 1 - (fo2 + fhe),
	}
}

// Air is a convenience constructor for a pure-air mix.
func Air() Mix {
	return New(0.21, 0)
}

// NewNitroxMix constructs a Nitrox mix with the given O2 fraction.
func NewNitroxMix(fo2 float64) (Mix, error) {
	if fo2 < 0.21 || fo2 > 1 {
		return Mix{}, fmt.Errorf("gas: invalid nitrox FO2 %f, must be in [0.21,1.0]", fo2)
	}
	return New(fo2, 0), nil
}

// NewTrimixMix constructs a Trimix mix with the given O2 and He fractions.
func NewTrimixMix(fo2, fhe float64) (Mix, error) {
	if fo2 < 0.10 || fo2 > 0.98 {
		return Mix{}, fmt.Errorf("gas: invalid trimix FO2 %f, must be in [0.10,0.98]", fo2)
	}
	if fhe < 0.01 || fhe > 0.89 {
		return Mix{}, fmt.Errorf("gas: invalid trimix FHe %f, must be in [0.01,0.89]", fhe)
	}
	if fo2+fhe > 1 {
		return Mix{}, fmt.Errorf("gas: invalid trimix FO2 (%f) + FHe (%f), total exceeds 1.0", fo2, fhe)
	}
	return New(fo2, fhe), nil
}

// NewHelioxMix constructs a Heliox mix (no nitrogen) with the given O2
// fraction; the remainder is helium.
func NewHelioxMix(fo2 float64) (Mix, error) {
	if fo2 < 0.10 || fo2 >= 1.0 {
		return Mix{}, fmt.Errorf("gas: invalid heliox FO2 %f, must be in [0.10,1.0)", fo2)
	}
	return New(fo2, 1-fo2), nil
}

// NewNitroxBestMix returns the richest Nitrox mix that does not exceed
// maxPPO2 at depth, floored to two decimal places.
func NewNitroxBestMix(depth units.Depth, maxPPO2 float64) (Mix, error) {
	ambient := 1 + depth.Meters()/10
	best := math.Floor((maxPPO2/ambient)*100) / 100
	return NewNitroxMix(best)
}

// MixType classifies the mix by its He/N2/O2 composition.
func (g Mix) MixType() MixType {
	switch {
	case g.FHe == 0 && g.FO2 == 0.21:
		return Air
	case g.FHe == 0:
		return Nitrox
	case g.FN2 == 0:
		return Heliox
	default:
		return Trimix
	}
}

// ID formats the mix as "{O2%}/{He%}" with zero decimals, e.g. "21/35" for
// Trimix 21/35 or "21/00" for air (spec.md section 6).
func (g Mix) ID() string {
	return fmt.Sprintf("%02.0f/%02.0f", g.FO2*100, g.FHe*100)
}

// PartialPressures are the ambient partial pressures of a gas mix at a given
// total ambient pressure (bar).
type PartialPressures struct {
	O2 float64
	He float64
	N2 float64
}

func (g Mix) pressures(ambient float64) PartialPressures {
	return PartialPressures{
		O2: g.FO2 * ambient,
		He: g.FHe * ambient,
		N2: g.FN2 * ambient,
	}
}

// PartialPressures returns the gas's partial pressures at the given depth
// and surface pressure, with no water-vapor correction.
func (g Mix) PartialPressures(depth units.Depth, surfacePressureBar float64) PartialPressures {
	ambient := surfacePressureBar + depth.Meters()/10
	return g.pressures(ambient)
}

// InspiredPartialPressures returns the gas's partial pressures as inspired
// in the alveoli, net of the constant water-vapor pressure (spec.md section
// 4.1 step 1).
func (g Mix) InspiredPartialPressures(depth units.Depth, surfacePressureBar float64) PartialPressures {
	ambient := (surfacePressureBar + depth.Meters()/10) - alveolarWaterVapor
	return g.pressures(ambient)
}

// MOD returns the gas's maximum operating depth in meters for the given
// ppO2 limit in bar (spec.md GLOSSARY). A zero maxPPO2 defaults to 1.6 bar.
func (g Mix) MOD(maxPPO2 float64) units.Depth {
	if maxPPO2 == 0 {
		maxPPO2 = defaultMaxPPO2
	}
	return units.FromMeters(10 * (maxPPO2/g.FO2 - 1))
}

// EquivalentNarcoticDepth returns the air-equivalent depth for the gas's
// narcotic potential, considering nitrogen only (spec.md GLOSSARY "END").
func (g Mix) EquivalentNarcoticDepth(depth units.Depth) units.Depth {
	d := math.Abs(depth.Meters())
	return units.FromMeters((d+10)*g.FN2/0.79 - 10)
}
