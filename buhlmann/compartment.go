package buhlmann

import (
	"math"

	"github.com/m5lapp/decocore/gas"
	"github.com/m5lapp/decocore/units"
)

// Supersaturation is a tissue's (or the model's leading tissue's)
// gradient-factor reading: GF99 against the current ambient pressure, GFSurf
// against a hypothetical direct ascent to the surface.
type Supersaturation struct {
	GF99   float64
	GFSurf float64
}

// compartment is a single ZH-L16C tissue compartment: its current He/N2
// loading and the tolerable-ambient-pressure state derived from it.
type compartment struct {
	no     int
	params tissueParams

	heIP, n2IP, totalIP     float64
	mValueRaw, mValueCalc   float64
	minTolerableAmbPressure float64
}

// newCompartment builds a compartment equilibrated to surface air at
// construction time, with its initial min-tolerable-ambient-pressure
// computed against gfHigh (spec.md section 4.1, compartment initial state).
func newCompartment(no int, params tissueParams, surfacePressureBar, gfHigh float64) *compartment {
	pp := gas.Air().InspiredPartialPressures(units.FromMeters(0), surfacePressureBar)

	c := &compartment{
		no:     no,
		params: params,
		heIP:   pp.He,
		n2IP:   pp.N2,
		totalIP: pp.He + pp.N2,
	}
	c.mValueRaw = c.mValue(units.FromMeters(0), surfacePressureBar, 100)
	c.mValueCalc = c.mValueRaw
	c.minTolerableAmbPressure = c.minTolerableAmbPressureCalc(gfHigh)

	return c
}

// recalculate advances the compartment's inert-gas loading across one
// record (a constant-depth, constant-gas segment of the dive) and
// recomputes its tolerance state against maxGF.
func (c *compartment) recalculate(depth units.Depth, dt units.Time, g gas.Mix, maxGF, surfacePressureBar float64) {
	heIP, n2IP := c.compartmentInertPressure(depth, dt, g, surfacePressureBar)
	c.heIP = heIP
	c.n2IP = n2IP
	c.totalIP = heIP + n2IP

	c.mValueRaw = c.mValue(depth, surfacePressureBar, 100)
	c.mValueCalc = c.mValue(depth, surfacePressureBar, maxGF)
	c.minTolerableAmbPressure = c.minTolerableAmbPressureCalc(maxGF)
}

// ceiling is the shallowest depth this compartment currently tolerates.
func (c *compartment) ceiling(surfacePressureBar float64) units.Depth {
	ceil := (c.minTolerableAmbPressure - surfacePressureBar) * 10
	if ceil < 0 {
		ceil = 0
	}
	return units.FromMeters(ceil)
}

// supersaturation reports this compartment's GF99 and GF-surface readings.
func (c *compartment) supersaturation(surfacePressureBar float64, depth units.Depth) Supersaturation {
	pSurf := surfacePressureBar
	pAmb := pSurf + depth.Meters()/10
	mValue := c.mValueRaw
	mValueSurf := c.mValue(units.FromMeters(0), surfacePressureBar, 100)

	return Supersaturation{
		GF99:   ((c.totalIP - pAmb) / (mValue - pAmb)) * 100,
		GFSurf: ((c.totalIP - pSurf) / (mValueSurf - pSurf)) * 100,
	}
}

// mValue is the M-value (tolerable total inert-gas pressure) at depth,
// adjusted for maxGF.
func (c *compartment) mValue(depth units.Depth, surfacePressureBar, maxGF float64) float64 {
	_, aAdj, bAdj := c.maxGFAdjustedParams(maxGF)
	pAmb := surfacePressureBar + depth.Meters()/10
	return aAdj + pAmb/bAdj
}

// compartmentInertPressure returns the compartment's He and N2 loading after
// applying the Haldane equation over one record.
func (c *compartment) compartmentInertPressure(depth units.Depth, dt units.Time, g gas.Mix, surfacePressureBar float64) (he, n2 float64) {
	pp := g.InspiredPartialPressures(depth, surfacePressureBar)
	heDelta := haldaneDelta(pp.He, c.heIP, dt, c.params.heHalfTime)
	n2Delta := haldaneDelta(pp.N2, c.n2IP, dt, c.params.n2HalfTime)
	return c.heIP + heDelta, c.n2IP + n2Delta
}

// haldaneDelta is the Haldane exponential saturation change:
// (Pinsp - Pcomp)(1 - 2^(-Δt/halfTime)), halfTime in minutes.
func haldaneDelta(inspired, loaded float64, dt units.Time, halfTime float64) float64 {
	return (inspired - loaded) * (1 - math.Pow(2, -dt.Minutes()/halfTime))
}

// minTolerableAmbPressureCalc is the tissue's tolerable ambient pressure
// using GF-adjusted ZHL parameters weighted by inert-gas proportions.
func (c *compartment) minTolerableAmbPressureCalc(maxGF float64) float64 {
	_, aAdj, bAdj := c.maxGFAdjustedParams(maxGF)
	return (c.totalIP - aAdj) * bAdj
}

// weightedZHLParams blends this compartment's N2 and He parameters by their
// relative partial-pressure contribution to total inert-gas loading.
func (c *compartment) weightedZHLParams(heIP, n2IP float64) (halfTime, a, b float64) {
	total := heIP + n2IP
	weighted := func(heParam, n2Param float64) float64 {
		if total == 0 {
			return n2Param
		}
		return (heParam*heIP + n2Param*n2IP) / total
	}
	return weighted(c.params.heHalfTime, c.params.n2HalfTime),
		weighted(c.params.heA, c.params.n2A),
		weighted(c.params.heB, c.params.n2B)
}

// maxGFAdjustedParams adjusts this compartment's weighted ZHL parameters for
// the given gradient factor (0-100).
func (c *compartment) maxGFAdjustedParams(maxGF float64) (halfTime, aAdj, bAdj float64) {
	halfTime, a, b := c.weightedZHLParams(c.heIP, c.n2IP)
	fraction := maxGF / 100
	aAdj = a * fraction
	bAdj = b / (fraction - fraction*b + b)
	return halfTime, aAdj, bAdj
}
