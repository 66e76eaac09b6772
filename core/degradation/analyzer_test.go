package degradation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_Fixture(t *testing.T) {
	ds, err := NewDataset([][]float64{
		{1, 1, 10},
		{1, 2, 12},
		{1, 3, 14},
		{2, 1, 5},
	})
	require.NoError(t, err)

	sum, err := Analyze(ds, Options{})
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Rows)
	assert.Equal(t, 2, sum.Units)
	assert.Equal(t, 1, sum.Sensors)
	// RUL per row: [2,1,0,0]
	assert.InDelta(t, 0.75, sum.MeanRUL, 1e-9)
	assert.Equal(t, 2.0, sum.MaxRUL)
	assert.Equal(t, 0.0, sum.MinRUL)
	// Unit 2 has a single row, so only unit 1 contributes a slope.
	require.NotNil(t, sum.MeanSlope)
	assert.InDelta(t, 2.0, *sum.MeanSlope, 1e-9)
}

func TestAnalyze_NoSlopeWhenAllUnitsShort(t *testing.T) {
	ds, err := NewDataset([][]float64{
		{1, 1, 10},
		{2, 1, 5},
	})
	require.NoError(t, err)

	sum, err := Analyze(ds, Options{})
	require.NoError(t, err)
	assert.Nil(t, sum.MeanSlope)
	assert.Equal(t, 2, sum.Units)
}

func TestAnalyze_SkipsNaNSensorValues(t *testing.T) {
	ds, err := NewDataset([][]float64{
		{1, 1, math.NaN()},
		{1, 2, 12},
		{1, 3, 14},
	})
	require.NoError(t, err)

	sum, err := Analyze(ds, Options{})
	require.NoError(t, err)
	require.NotNil(t, sum.MeanSlope)
	assert.InDelta(t, 2.0, *sum.MeanSlope, 1e-9)
}

func TestAnalyze_AllNaNSensor(t *testing.T) {
	ds, err := NewDataset([][]float64{
		{1, 1, math.NaN()},
		{1, 2, math.NaN()},
	})
	require.NoError(t, err)

	sum, err := Analyze(ds, Options{})
	require.NoError(t, err)
	assert.Nil(t, sum.MeanSlope)
}

func TestAnalyze_SensorColumnSelection(t *testing.T) {
	ds, err := NewDataset([][]float64{
		{1, 1, 10, 100},
		{1, 2, 12, 90},
	})
	require.NoError(t, err)

	sum, err := Analyze(ds, Options{SensorColumns: []int{3}})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Sensors)
	require.NotNil(t, sum.MeanSlope)
	assert.InDelta(t, -10.0, *sum.MeanSlope, 1e-9)
}

func TestAnalyze_SensorColumnOutOfRange(t *testing.T) {
	ds, err := NewDataset([][]float64{{1, 1, 10}})
	require.NoError(t, err)
	_, err = Analyze(ds, Options{SensorColumns: []int{7}})
	assert.Error(t, err)
}

func TestNewDataset_RejectsRagged(t *testing.T) {
	_, err := NewDataset([][]float64{
		{1, 1, 10},
		{1, 2},
	})
	assert.Error(t, err)
}

func TestNewDataset_RejectsEmpty(t *testing.T) {
	_, err := NewDataset(nil)
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}

func TestResult_Payload(t *testing.T) {
	ok := Succeed(Summary{Rows: 3})
	assert.True(t, ok.OK())
	if _, isSummary := ok.Payload().(Summary); !isSummary {
		t.Fatalf("expected Summary payload, got %T", ok.Payload())
	}

	bad := Fail("boom")
	assert.False(t, bad.OK())
	m, isMap := bad.Payload().(map[string]string)
	require.True(t, isMap)
	assert.Equal(t, "boom", m["error"])
}
