// Package oxtox implements the oxygen-toxicity companion integrator: CNS
// percent (piecewise-linear t_lim table, surface half-time elimination) and
// OTU (pulmonary oxygen-toxicity dose), per spec.md section 4.4.
package oxtox

import (
	"math"

	"github.com/m5lapp/decocore/gas"
	"github.com/m5lapp/decocore/units"
)

// cnsEliminationHalfTime is the surface CNS elimination half-time in minutes
// (spec.md section 6 constants).
const cnsEliminationHalfTime = 90.0

// cnsAboveMaxPPO2Reference is the reference time in seconds used to
// escalate CNS above 1.6 bar ppO2 (spec.md section 6 constants).
const cnsAboveMaxPPO2Reference = 400.0

// otuExponent is the exponent in the OTU integration formula (spec.md
// section 6 constants).
const otuExponent = -0.8333

// coeffRow is one row of the piecewise-linear CNS coefficient table: the
// ppO2 range it covers (start exclusive, end inclusive) plus the slope and
// intercept of t_lim = slope*ppO2 + intercept (minutes).
type coeffRow struct {
	lo, hi         float64
	slope          float64
	intercept      float64
}

// cnsTable is the seven-row CNS coefficient table from spec.md section 6.
var cnsTable = []coeffRow{
	{0.5, 0.6, -1800, 1800},
	{0.6, 0.7, -1500, 1620},
	{0.7, 0.8, -1200, 1410},
	{0.8, 0.9, -900, 1170},
	{0.9, 1.1, -600, 900},
	{1.1, 1.5, -300, 570},
	{1.5, 1.6, -750, 1245},
}

// Accumulator tracks cumulative CNS percent and OTU across a dive.
type Accumulator struct {
	CNS float64
	OTU float64
}

// Record updates CNS and OTU for one constant-depth, constant-gas segment,
// per spec.md section 4.4.
func (a *Accumulator) Record(depth units.Depth, dt units.Time, g gas.Mix, surfacePressureBar float64) {
	ppO2 := g.InspiredPartialPressures(depth, surfacePressureBar).O2
	a.recalculateCNS(depth, dt, ppO2)
	a.recalculateOTU(dt, ppO2)
}

func (a *Accumulator) recalculateCNS(depth units.Depth, dt units.Time, ppO2 float64) {
	if row, ok := findCoeffRow(ppO2); ok {
		tLimSeconds := (row.slope*ppO2 + row.intercept) * 60
		a.CNS += (dt.Seconds() / tLimSeconds) * 100
		return
	}

	switch {
	case depth.IsSurfaceOrAbove() && ppO2 <= 0.5:
		a.CNS /= math.Pow(2, dt.Seconds()/(cnsEliminationHalfTime*60))
	case ppO2 > 1.6:
		a.CNS += (dt.Seconds() / cnsAboveMaxPPO2Reference) * 100
	}
}

func (a *Accumulator) recalculateOTU(dt units.Time, ppO2 float64) {
	if ppO2 <= 0.5 {
		return
	}
	a.OTU += dt.Minutes() * math.Pow(0.5/(ppO2-0.5), otuExponent)
}

// findCoeffRow locates the CNS coefficient row for ppO2, with range
// membership start-exclusive, end-inclusive (spec.md section 6).
func findCoeffRow(ppO2 float64) (coeffRow, bool) {
	for _, row := range cnsTable {
		if ppO2 > row.lo && ppO2 <= row.hi {
			return row, true
		}
	}
	return coeffRow{}, false
}
