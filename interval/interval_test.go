package interval

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofv/types"
)

func TestFixed(t *testing.T) {
	for _, n := range []int{0, 1} {
		for step := 0; step < 5; step++ {
			assert.True(t, Fixed{N: n}.IsDue(step, 0))
		}
	}
	var due []int
	for step := 0; step <= 10; step++ {
		if (Fixed{N: 4}).IsDue(step, 0) {
			due = append(due, step)
		}
	}
	assert.Equal(t, []int{0, 4, 8}, due)
}

func TestSimulationTime(t *testing.T) {
	st, err := NewSimulationTime(0.1)
	require.NoError(t, err)
	var due []float64
	for _, tm := range []float64{0, 0.03, 0.07, 0.1, 0.12, 0.29999999999, 0.31, 0.35, 1.0} {
		if st.IsDue(0, tm) {
			due = append(due, tm)
		}
	}
	// Coarse steps may skip a multiple, the next one still fires once
	assert.Equal(t, []float64{0, 0.1, 0.29999999999, 1.0}, due)
	_, err = NewSimulationTime(0)
	assert.True(t, errors.Is(err, types.ErrConfiguration))
}

func TestWallTime(t *testing.T) {
	wt, err := NewWallTime(time.Minute)
	require.NoError(t, err)
	clock := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	wt.now = func() time.Time { return clock }
	assert.True(t, wt.IsDue(0, 0))
	clock = clock.Add(30 * time.Second)
	assert.False(t, wt.IsDue(1, 0))
	clock = clock.Add(30 * time.Second)
	assert.True(t, wt.IsDue(2, 0))
	assert.False(t, wt.IsDue(3, 0))
	_, err = NewWallTime(0)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	iv, err := New("fixed", 5)
	require.NoError(t, err)
	assert.Equal(t, Fixed{N: 5}, iv)
	iv, err = New("simulationTime", 0.5)
	require.NoError(t, err)
	assert.IsType(t, &SimulationTime{}, iv)
	iv, err = New("WallTime", 2)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, iv.(*WallTime).Period)
	for _, bad := range []struct {
		kind  string
		value float64
	}{{"fixed", 1.5}, {"fixed", -1}, {"time", -1}, {"hourly", 1}} {
		_, err = New(bad.kind, bad.value)
		assert.True(t, errors.Is(err, types.ErrConfiguration), bad.kind)
	}
}
