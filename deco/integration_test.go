package deco_test

import (
	"testing"

	"github.com/m5lapp/decocore/buhlmann"
	"github.com/m5lapp/decocore/deco"
	"github.com/m5lapp/decocore/gas"
	"github.com/m5lapp/decocore/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoAirOnly(t *testing.T) {
	m := buhlmann.NewModel(buhlmann.NewConfig())
	air := gas.Air()
	m.Record(units.FromMeters(40), units.FromMinutes(20), air)

	runtime, err := m.Deco([]gas.Mix{air})
	require.NoError(t, err)

	assert.Len(t, runtime.Stages, 5)
	assert.InDelta(t, 754, runtime.TTS.Seconds(), 15)

	assert.Equal(t, deco.StageAscent, runtime.Stages[0].Type)
	assert.InDelta(t, 40, runtime.Stages[0].StartDepth.Meters(), 1e-6)
	assert.InDelta(t, 6, runtime.Stages[0].EndDepth.Meters(), 0.5)
	assert.InDelta(t, 226, runtime.Stages[0].Duration.Seconds(), 15)

	assert.Equal(t, deco.StageDecoStop, runtime.Stages[1].Type)
	assert.InDelta(t, 88, runtime.Stages[1].Duration.Seconds(), 15)

	assert.Equal(t, deco.StageDecoStop, runtime.Stages[3].Type)
	assert.InDelta(t, 400, runtime.Stages[3].Duration.Seconds(), 20)
}

func TestDecoWithGasSwitch(t *testing.T) {
	m := buhlmann.NewModel(buhlmann.NewConfig())
	air := gas.Air()
	ean50 := gas.New(0.50, 0)
	m.Record(units.FromMeters(40), units.FromMinutes(20), air)

	runtime, err := m.Deco([]gas.Mix{air, ean50})
	require.NoError(t, err)

	assert.InDelta(t, 591, runtime.TTS.Seconds(), 20)

	foundSwitch := false
	for _, stage := range runtime.Stages {
		if stage.Type == deco.StageGasSwitch {
			foundSwitch = true
			assert.InDelta(t, 22, stage.StartDepth.Meters(), 1.0)
			assert.Equal(t, ean50, stage.Gas)
		}
	}
	assert.True(t, foundSwitch, "expected a gas-switch stage")
}

func TestDecoEmptyGasListError(t *testing.T) {
	m := buhlmann.NewModel(buhlmann.NewConfig())
	m.Record(units.FromMeters(40), units.FromMinutes(20), gas.Air())

	_, err := m.Deco(nil)
	assert.Error(t, err)
}

func TestDecoCurrentGasNotInListError(t *testing.T) {
	m := buhlmann.NewModel(buhlmann.NewConfig())
	ean32 := gas.New(0.32, 0)
	m.Record(units.FromMeters(40), units.FromMinutes(20), ean32)

	_, err := m.Deco([]gas.Mix{gas.Air()})
	assert.Error(t, err)
}
