package buhlmann

import (
	"testing"

	"github.com/m5lapp/decocore/gas"
	"github.com/m5lapp/decocore/units"
	"github.com/stretchr/testify/assert"
)

func air() gas.Mix { return gas.New(0.21, 0) }

func TestRecordPanicsOnNegativeDepth(t *testing.T) {
	m := NewModel(NewConfig())
	assert.Panics(t, func() {
		m.Record(units.FromMeters(-10), units.FromSeconds(1), air())
	})
}

func TestCeiling(t *testing.T) {
	m := NewModel(NewConfig())
	m.Record(units.FromMeters(40), units.FromMinutes(30), air())
	m.Record(units.FromMeters(30), units.FromMinutes(30), air())
	assert.InDelta(t, 7.802523739933558, m.Ceiling().Meters(), 0.05)
}

func TestSupersaturation(t *testing.T) {
	m := NewModel(NewConfig())
	m.Record(units.FromMeters(50), units.FromMinutes(20), air())
	s := m.Supersaturation()
	assert.InDelta(t, 0.0, s.GF99, 1e-9)
	assert.InDelta(t, 193.8554997961134, s.GFSurf, 1e-6)

	m.Record(units.FromMeters(40), units.FromMinutes(10), air())
	s = m.Supersaturation()
	assert.InDelta(t, 0.0, s.GF99, 1e-9)
	assert.InDelta(t, 208.00431699178796, s.GFSurf, 1e-6)
}

func TestInitialSupersaturationIsZero(t *testing.T) {
	m := NewModel(NewConfig())
	m.Record(units.FromMeters(0), units.FromSeconds(0), air())
	s := m.Supersaturation()
	assert.Equal(t, 0.0, s.GF99)
	assert.Equal(t, 0.0, s.GFSurf)
}

func TestActualNDL(t *testing.T) {
	m := NewModel(NewConfig().WithCeilingType(Actual))
	depth := units.FromMeters(30)

	m.Record(depth, units.FromSeconds(0), air())
	assert.InDelta(t, 16, m.NDL().Minutes(), 1e-9)

	m.Record(depth, units.FromMinutes(1), air())
	assert.InDelta(t, 15, m.NDL().Minutes(), 1e-9)
}

func TestAdaptiveNDL(t *testing.T) {
	m := NewModel(NewConfig().WithCeilingType(Adaptive))
	depth := units.FromMeters(30)

	m.Record(depth, units.FromSeconds(0), air())
	assert.InDelta(t, 19, m.NDL().Minutes(), 1e-9)

	m.Record(depth, units.FromMinutes(1), air())
	assert.InDelta(t, 18, m.NDL().Minutes(), 1e-9)
}

func TestNDLCutOff(t *testing.T) {
	m := NewModel(NewConfig())
	m.Record(units.FromMeters(0), units.FromSeconds(0), air())
	assert.InDelta(t, 99, m.NDL().Minutes(), 1e-9)

	m.Record(units.FromMeters(10), units.FromMinutes(10), air())
	assert.InDelta(t, 99, m.NDL().Minutes(), 1e-9)
}

func TestMultiGasNDL(t *testing.T) {
	m := NewModel(NewConfig().WithCeilingType(Actual))
	ean28 := gas.New(0.28, 0)

	m.Record(units.FromMeters(30), units.FromSeconds(0), air())
	assert.InDelta(t, 16, m.NDL().Minutes(), 1e-9)

	m.Record(units.FromMeters(30), units.FromMinutes(10), air())
	assert.InDelta(t, 6, m.NDL().Minutes(), 1e-9)

	m.Record(units.FromMeters(30), units.FromSeconds(0), ean28)
	assert.InDelta(t, 10, m.NDL().Minutes(), 1e-9)
}

func TestNDLWithGF(t *testing.T) {
	m := NewModel(NewConfig().WithGradientFactors(70, 70))
	m.Record(units.FromMeters(20), units.FromSeconds(0), air())
	assert.InDelta(t, 21, m.NDL().Minutes(), 1e-9)
}

func TestNDLScenarioTable(t *testing.T) {
	m := NewModel(NewConfig())
	m.Record(units.FromMeters(21), units.FromSeconds(0), air())
	assert.InDelta(t, 40, m.NDL().Minutes(), 2)

	m = NewModel(NewConfig().WithGradientFactors(70, 70))
	m.Record(units.FromMeters(21), units.FromSeconds(0), air())
	assert.InDelta(t, 19, m.NDL().Minutes(), 2)
}

func TestAltitude(t *testing.T) {
	m := NewModel(NewConfig().WithSurfacePressureMbar(700))
	m.Record(units.FromMeters(40), units.FromMinutes(60), air())
	s := m.Supersaturation()
	assert.InDelta(t, 299.023204474694, s.GFSurf, 1e-5)
}

func TestExampleCeilingStart(t *testing.T) {
	m := NewModel(NewConfig().WithGradientFactors(30, 70).WithSurfacePressureMbar(1013))
	m.Record(units.FromMeters(40), units.FromMinutes(10), air())
	assert.InDelta(t, 12.85312294790554, m.Ceiling().Meters(), 1e-5)
}

func TestExampleCeiling(t *testing.T) {
	m := NewModel(NewConfig().WithGradientFactors(30, 70).WithSurfacePressureMbar(1013))
	ean50 := gas.New(0.50, 0)

	m.Record(units.FromMeters(40), units.FromMinutes(40), air())
	m.Record(units.FromMeters(30), units.FromMinutes(3), air())
	m.Record(units.FromMeters(21), units.FromMinutes(10), ean50)
	assert.InDelta(t, 12.455491216740299, m.Ceiling().Meters(), 1e-5)
}

func TestAdaptiveCeiling(t *testing.T) {
	m := NewModel(NewConfig().WithCeilingType(Adaptive))
	m.Record(units.FromMeters(40), units.FromMinutes(20), air())
	assert.InDelta(t, 4.0, m.Ceiling().Meters(), 0.5)
}

func TestCNSOTU(t *testing.T) {
	m := NewModel(NewConfig())
	m.Record(units.FromMeters(40), units.FromMinutes(10), air())
	m.RecordTravelWithRate(units.FromMeters(0), 10, air())
	assert.InDelta(t, 13.0, m.OTU(), 1.0)
}

func TestForkIsIndependent(t *testing.T) {
	m := NewModel(NewConfig())
	m.Record(units.FromMeters(30), units.FromMinutes(10), air())

	forked := m.Fork()
	forked.Record(units.FromMeters(40), units.FromMinutes(10), air())

	assert.NotEqual(t, m.DiveState().Depth, forked.DiveState().Depth)
	assert.Equal(t, 30.0, m.DiveState().Depth.Meters())
}

func TestTrimixSupersaturationScenario(t *testing.T) {
	m := NewModel(NewConfig())
	trimix, err := gas.NewTrimixMix(0.21, 0.35)
	assert.NoError(t, err)

	m.Record(units.FromMeters(30), units.FromMinutes(300), trimix)
	s := m.Supersaturation()
	assert.InDelta(t, 335.77, s.GFSurf, 3.5)
}

func TestCNSAscentScenario(t *testing.T) {
	m := NewModel(NewConfig())
	ean32 := gas.New(0.32, 0)

	m.Record(units.FromMeters(20), units.FromMinutes(40), ean32)
	m.RecordTravelWithRate(units.FromMeters(0), 9, ean32)
	assert.InDelta(t, 12, m.CNS(), 1.0)
}

func TestConfigValidation(t *testing.T) {
	assert.Panics(t, func() { NewModel(NewConfig().WithGradientFactors(90, 80)) })
	assert.Panics(t, func() { NewModel(NewConfig().WithSurfacePressureMbar(100)) })
	assert.Panics(t, func() { NewModel(NewConfig().WithDecoAscentRate(50)) })
}
