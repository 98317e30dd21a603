package buhlmann

import (
	"testing"

	"github.com/m5lapp/decocore/gas"
	"github.com/m5lapp/decocore/units"
	"github.com/stretchr/testify/assert"
)

func comp1() *compartment {
	return newCompartment(1, zhl16cParams[0], 1.013, 100)
}

func comp5() *compartment {
	return newCompartment(5, zhl16cParams[4], 1.013, 100)
}

func TestCompartmentConstructor(t *testing.T) {
	c := comp1()
	assert.InDelta(t, 0.750737, c.n2IP, 1e-6)
	assert.Equal(t, 0.0, c.heIP)
	assert.InDelta(t, 3.265840594059406, c.mValueRaw, 1e-9)
	assert.Equal(t, c.mValueRaw, c.mValueCalc)
}

func TestCompartmentMValueRaw(t *testing.T) {
	c1 := comp1()
	c5 := comp5()
	air := gas.New(0.21, 0)

	c1.recalculate(units.FromMeters(0), units.FromSeconds(1), air, 100, 1.0)
	c5.recalculate(units.FromMeters(0), units.FromSeconds(1), air, 100, 1.0)

	assert.InDelta(t, 3.24009801980198, c1.mValueRaw, 1e-9)
	assert.InDelta(t, 1.8506177701206004, c5.mValueRaw, 1e-9)
}

func TestCompartmentRecalculationOngassing(t *testing.T) {
	c := comp5()
	air := gas.New(0.21, 0)
	c.recalculate(units.FromMeters(30), units.FromMinutes(10), air, 100, 1.0)
	assert.InDelta(t, 1.2850179204911072, c.totalIP, 1e-6)
}

func TestCompartmentWeightedParamsTrimix(t *testing.T) {
	c := comp1()
	halfTime, a, b := c.weightedZHLParams(0.5, 1-(0.18+0.5))
	assert.InDelta(t, 2.481707317073171, halfTime, 1e-9)
	assert.InDelta(t, 1.5541073170731705, a, 1e-9)
	assert.InDelta(t, 0.4559146341463414, b, 1e-9)
}

func TestCompartmentMinPressureCalculation(t *testing.T) {
	c := comp5()
	air := gas.New(0.21, 0)
	c.recalculate(units.FromMeters(30), units.FromMinutes(10), air, 100, 0.1)
	assert.InDelta(t, 0.40957969932131577, c.minTolerableAmbPressure, 1e-6)
}
