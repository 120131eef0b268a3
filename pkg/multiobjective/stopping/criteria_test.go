package stopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fitnessState(gen int, fitness ...float64) State {
	return State{}.WithGeneration(gen).WithFitness(fitness)
}

func TestStatisticString(t *testing.T) {
	assert.Equal(t, "gen|population", (StatGeneration | StatFitness).String())
	assert.Equal(t, "diagD", StatDiagD.String())
	assert.Equal(t, "none", Statistic(0).String())
}

func TestStateHas(t *testing.T) {
	s := State{}.WithSigma(1).WithCond(2)
	assert.True(t, s.Has(StatSigma))
	assert.True(t, s.Has(StatSigma|StatCond))
	assert.False(t, s.Has(StatSigma|StatC))
	assert.False(t, State{}.Has(StatGeneration))
}

func TestMaxGeneration(t *testing.T) {
	c := NewMaxGeneration(10)

	require.NoError(t, c.Check(State{}.WithGeneration(10)))
	assert.False(t, c.Met())

	require.NoError(t, c.Check(State{}.WithGeneration(11)))
	assert.True(t, c.Met())

	// Met is sticky until Reset.
	require.NoError(t, c.Check(State{}.WithGeneration(3)))
	assert.True(t, c.Met())

	c.Reset()
	assert.False(t, c.Met())
}

func TestMissingStatistic(t *testing.T) {
	assert.ErrorIs(t, NewMaxGeneration(1).Check(State{}), ErrMissingStatistic)

	hist, err := NewToleranceHistFun(10, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, hist.Check(State{}.WithFitness(nil)), ErrMissingStatistic)
	assert.ErrorIs(t, hist.Check(State{}.WithGeneration(1)), ErrMissingStatistic)
	assert.False(t, hist.Met())
}

func TestConstructorsRejectInvalidParameters(t *testing.T) {
	_, err := NewStagnation(0, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewStagnationV2(1, -1, 0.01, 0.02)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewToleranceHistFun(0, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewEqualFunctionValues(-2, 3)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewNoEffectAxis(0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewToleranceUpSigma(0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestToleranceHistFunNeedsFullWindow(t *testing.T) {
	c, err := NewToleranceHistFun(10, 2)
	require.NoError(t, err)
	require.Equal(t, 16, c.WindowSize())

	for gen := 1; gen < 16; gen++ {
		require.NoError(t, c.Check(fitnessState(gen, 1, 2)))
		assert.False(t, c.Met(), "generation %d", gen)
	}
	require.NoError(t, c.Check(fitnessState(16, 1, 2)))
	assert.True(t, c.Met())

	// Reset keeps the history, so the next flat generation trips it again.
	c.Reset()
	assert.False(t, c.Met())
	require.NoError(t, c.Check(fitnessState(17, 1, 2)))
	assert.True(t, c.Met())
}

func TestToleranceHistFunImproving(t *testing.T) {
	c, err := NewToleranceHistFun(10, 2)
	require.NoError(t, err)
	for gen := 1; gen <= 50; gen++ {
		require.NoError(t, c.Check(fitnessState(gen, 100-float64(gen))))
	}
	assert.False(t, c.Met())
}

func TestEqualFunctionValues(t *testing.T) {
	c, err := NewEqualFunctionValues(4, 3)
	require.NoError(t, err)

	for gen := 1; gen <= 3; gen++ {
		require.NoError(t, c.Check(fitnessState(gen, 1, 1, 1, 1)))
		assert.False(t, c.Met(), "generation %d", gen)
	}
	require.NoError(t, c.Check(fitnessState(4, 1, 1, 1, 1)))
	assert.True(t, c.Met())
}

func TestEqualFunctionValuesSpreadPopulation(t *testing.T) {
	c, err := NewEqualFunctionValues(4, 3)
	require.NoError(t, err)
	for gen := 1; gen <= 20; gen++ {
		require.NoError(t, c.Check(fitnessState(gen, 4, 3, 2, 1)))
	}
	assert.False(t, c.Met())
}

func TestEqualFunctionValuesSmallPopulation(t *testing.T) {
	// k exceeds the population size; the comparison falls back to the worst
	// individual.
	c, err := NewEqualFunctionValues(40, 1)
	require.NoError(t, err)
	require.NoError(t, c.Check(fitnessState(1, 2)))
	require.NoError(t, c.Check(fitnessState(2, 2)))
	assert.True(t, c.Met())
}

func TestStagnation(t *testing.T) {
	c, err := NewStagnation(10, 1)
	require.NoError(t, err)

	for gen := 1; gen <= 150; gen++ {
		require.NoError(t, c.Check(fitnessState(gen, 3, 1, 2)))
	}
	assert.False(t, c.Met(), "history too short")

	for gen := 151; gen <= 170; gen++ {
		require.NoError(t, c.Check(fitnessState(gen, 3, 1, 2)))
	}
	assert.True(t, c.Met())
}

func TestStagnationImproving(t *testing.T) {
	c, err := NewStagnation(10, 1)
	require.NoError(t, err)
	for gen := 1; gen <= 300; gen++ {
		f := 1000 - float64(gen)
		require.NoError(t, c.Check(fitnessState(gen, f+2, f, f+1)))
	}
	assert.False(t, c.Met())
}

func TestStagnationSkipsRepeatedGenerations(t *testing.T) {
	c, err := NewStagnation(10, 1)
	require.NoError(t, err)
	require.NoError(t, c.Check(fitnessState(1, 5, 4, 3, 2)))
	require.NoError(t, c.Check(fitnessState(1, 5, 4, 3, 2)))
	assert.Equal(t, []float64{2}, c.best)
	// The median entry is the sorted fitness at index round(4/2).
	assert.Equal(t, []float64{4}, c.median)
}

func TestStagnationV2(t *testing.T) {
	c, err := NewStagnationV2(10, 1, 0.01, 0.02)
	require.NoError(t, err)

	for gen := 1; gen <= 150; gen++ {
		require.NoError(t, c.Check(fitnessState(gen, 5, 6)))
	}
	assert.False(t, c.Met())
	for gen := 151; gen <= 170; gen++ {
		require.NoError(t, c.Check(fitnessState(gen, 5, 6)))
	}
	assert.True(t, c.Met())
}

func TestStagnationV2Improving(t *testing.T) {
	c, err := NewStagnationV2(10, 1, 0.01, 0.02)
	require.NoError(t, err)
	for gen := 1; gen <= 300; gen++ {
		require.NoError(t, c.Check(fitnessState(gen, 2000-5*float64(gen))))
	}
	assert.False(t, c.Met())
}
