package multiobjective

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2/ktesting"
	"k8s.io/utils/ptr"

	"github.com/neurofit/optimizer/apis/config/v1alpha1"
	"github.com/neurofit/optimizer/pkg/multiobjective/algorithms"
	"github.com/neurofit/optimizer/pkg/multiobjective/benchmarks"
	"github.com/neurofit/optimizer/pkg/multiobjective/framework"
)

func TestNew(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)

	p, err := New(ctx, nil, benchmarks.NewZDT1(5))
	require.NoError(t, err)
	assert.Equal(t, Name, p.Name())
	assert.Equal(t, int32(10), *p.Args().OffspringSize)
	assert.Equal(t, v1alpha1.TruncationIndicator, p.Args().Truncation)

	args := &v1alpha1.IBEAArgs{OffspringSize: ptr.To[int32](0)}
	_, err = New(ctx, args, benchmarks.NewZDT1(5))
	assert.ErrorIs(t, err, v1alpha1.ErrInvalidArgs)
	assert.Nil(t, args.Mu, "caller args must not be defaulted in place")

	_, err = New(ctx, &v1alpha1.IBEAArgs{}, nil)
	assert.Error(t, err)
}

func TestAlgorithm(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	p, err := New(ctx, &v1alpha1.IBEAArgs{
		OffspringSize: ptr.To[int32](20),
		Mu:            ptr.To[int32](8),
		Kappa:         ptr.To(0.1),
		Truncation:    v1alpha1.TruncationHypervolume,
		Stopping: v1alpha1.StoppingArgs{
			MaxGenerations: ptr.To[int32](7),
			Criteria: []v1alpha1.CriterionName{
				v1alpha1.CriterionStagnation,
				v1alpha1.CriterionStagnationV2,
				v1alpha1.CriterionToleranceHistFun,
				v1alpha1.CriterionEqualFunctionValues,
			},
		},
		Hypervolume: v1alpha1.HypervolumeArgs{Mode: v1alpha1.HypervolumeSampled, Samples: ptr.To[int32](100)},
	}, benchmarks.NewZDT1(5))
	require.NoError(t, err)

	a, err := p.Algorithm()
	require.NoError(t, err)
	assert.Equal(t, 20, a.OffspringSize)
	assert.Equal(t, 8, a.Mu)
	assert.Equal(t, 0.1, a.Kappa)
	assert.Equal(t, 7, a.MaxGenerations)
	assert.Equal(t, algorithms.HypervolumeTruncation, a.Truncation)
	assert.Equal(t, 100, a.Hypervolume.Samples)

	var names []string
	for _, c := range a.Criteria {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"Stagnation", "StagnationV2", "ToleranceHistFun", "EqualFunctionValues"}, names)
}

func TestRunZDT1(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	p, err := New(ctx, &v1alpha1.IBEAArgs{
		OffspringSize: ptr.To[int32](16),
		Stopping: v1alpha1.StoppingArgs{
			MaxGenerations: ptr.To[int32](15),
			Criteria:       []v1alpha1.CriterionName{v1alpha1.CriterionToleranceHistFun},
		},
	}, benchmarks.NewZDT1(6))
	require.NoError(t, err)

	report, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ZDT1", report.Problem)
	assert.Equal(t, algorithms.Name, report.Algorithm)
	assert.Equal(t, 16, report.Generation)
	assert.Equal(t, 16*16, report.Evaluations)
	assert.Equal(t, []string{"MaxGeneration"}, report.StoppedBy)
	assert.Positive(t, report.ParetoFront)
	require.Len(t, report.Solutions, 16)
	require.Len(t, report.Logbook, 16)
	assert.Equal(t, 16, report.Logbook[15].Generation)
	assert.Equal(t, 16, report.Logbook[15].Evaluations)

	assert.Equal(t, 0, report.Solutions[0].Rank)
	for i, s := range report.Solutions {
		assert.GreaterOrEqual(t, s.Hypervolume, 0.0)
		assert.Len(t, s.Variables, 6)
		assert.Len(t, s.Objectives, 2)
		if i > 0 {
			prev := report.Solutions[i-1]
			assert.True(t, prev.Rank < s.Rank || (prev.Rank == s.Rank && prev.Fitness <= s.Fitness),
				"solutions %d and %d are out of order", i-1, i)
		}
	}

	// The same seed reproduces the run.
	again, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, report, again)
}

func TestRunNSGA2WithBoundedHallOfFame(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	p, err := New(ctx, &v1alpha1.IBEAArgs{
		OffspringSize:  ptr.To[int32](12),
		Truncation:     v1alpha1.TruncationNSGA2,
		HallOfFameSize: ptr.To[int32](5),
	}, benchmarks.NewZDT2(4))
	require.NoError(t, err)

	a, err := p.Algorithm()
	require.NoError(t, err)
	assert.Equal(t, algorithms.NSGA2Truncation, a.Truncation)
	assert.Equal(t, 5, a.HallOfFameSize)

	report, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, report.Generation)
	assert.Equal(t, 5, report.ParetoFront)
	assert.Len(t, report.Solutions, 12)
	assert.Len(t, report.Logbook, 11)
}

func TestRunFuncProblem(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	problem, err := NewFuncProblem("tradeoff", framework.Maximize,
		[]framework.Bounds{{L: -1, H: 1}},
		func(x []float64) float64 { return x[0] },
		func(x []float64) float64 { return -x[0] },
	)
	require.NoError(t, err)

	p, err := New(ctx, &v1alpha1.IBEAArgs{
		Seed:        ptr.To[uint64](7),
		Hypervolume: v1alpha1.HypervolumeArgs{Mode: v1alpha1.HypervolumeSampled, Samples: ptr.To[int32](1000)},
	}, problem)
	require.NoError(t, err)

	report, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tradeoff", report.Problem)
	// Every decision vector is Pareto optimal for two opposite objectives.
	for _, s := range report.Solutions {
		assert.Equal(t, 0, s.Rank)
		assert.InDelta(t, 0, s.Objectives[0]+s.Objectives[1], 1e-12)
	}
}

func TestNewFuncProblem(t *testing.T) {
	f := func(x []float64) float64 { return x[0] }
	tests := []struct {
		name    string
		bounds  []framework.Bounds
		funcs   []framework.ObjectiveFunc
		wantErr string
	}{
		{name: "valid", bounds: []framework.Bounds{{L: 0, H: 1}}, funcs: []framework.ObjectiveFunc{f}},
		{name: "no variables", funcs: []framework.ObjectiveFunc{f}, wantErr: "no decision variables"},
		{name: "inverted bounds", bounds: []framework.Bounds{{L: 1, H: 0}}, funcs: []framework.ObjectiveFunc{f}, wantErr: "variable 0: invalid bounds"},
		{name: "no objectives", bounds: []framework.Bounds{{L: 0, H: 1}}, wantErr: "no objective functions"},
		{name: "nil objective", bounds: []framework.Bounds{{L: 0, H: 1}}, funcs: []framework.ObjectiveFunc{f, nil}, wantErr: "objective 1: nil function"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewFuncProblem("p", framework.Minimize, tt.bounds, tt.funcs...)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "p", p.Name())
			assert.Equal(t, framework.Minimize, p.Sense())
			assert.Equal(t, tt.bounds, p.Bounds())
			assert.Len(t, p.ObjectiveFuncs(), 1)
			assert.Nil(t, p.TrueParetoFront(10))
		})
	}
}
