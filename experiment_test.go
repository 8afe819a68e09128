package scientist_test

import (
	"context"
	"testing"

	"github.com/aretw0/scientist"
	"github.com/aretw0/scientist/pkg/compare"
	"github.com/aretw0/scientist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExperiment_Validation(t *testing.T) {
	tests := []struct {
		name string
		exp  *scientist.Experiment[int]
		want error
	}{
		{
			name: "empty name",
			exp:  scientist.NewExperiment[int](nil, "").Control(add),
			want: domain.ErrInvalidName,
		},
		{
			name: "missing control",
			exp:  scientist.NewExperiment[int](nil, "sum"),
			want: domain.ErrNoControl,
		},
		{
			name: "nil control",
			exp:  scientist.NewExperiment[int](nil, "sum").Control(nil),
			want: domain.ErrNoControl,
		},
		{
			name: "candidate named control",
			exp:  scientist.NewExperiment[int](nil, "sum").Control(add).Candidate(domain.ControlName, add),
			want: domain.ErrInvalidName,
		},
		{
			name: "unnamed candidate",
			exp:  scientist.NewExperiment[int](nil, "sum").Control(add).Candidate("", add),
			want: domain.ErrInvalidName,
		},
		{
			name: "nil candidate",
			exp:  scientist.NewExperiment[int](nil, "sum").Control(add).Candidate("alt", nil),
			want: domain.ErrNoBehavior,
		},
		{
			name: "duplicate candidate",
			exp:  scientist.NewExperiment[int](nil, "sum").Control(add).Candidate("alt", add).Candidate("alt", addSwapped),
			want: domain.ErrDuplicateCandidate,
		},
		{
			name: "chance out of range",
			exp:  scientist.NewExperiment[int](nil, "sum").Control(add).Chance(101),
			want: domain.ErrInvalidChance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.exp.Validate()
			require.ErrorIs(t, err, tt.want)

			var cfgErr *domain.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.exp.Name(), cfgErr.Experiment)
		})
	}
}

func TestExperiment_FirstErrorWins(t *testing.T) {
	exp := scientist.NewExperiment[int](nil, "sum").
		Control(add).
		Candidate("", add).
		Candidate("alt", add).
		Candidate("alt", add)

	err := exp.Validate()
	assert.ErrorIs(t, err, domain.ErrInvalidName)
	assert.NotErrorIs(t, err, domain.ErrDuplicateCandidate)
}

func TestExperiment_ShouldRun(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		exp := scientist.NewExperiment[int](nil, "sum").Control(add)
		assert.True(t, exp.ShouldRun())
	})

	t.Run("Predicate", func(t *testing.T) {
		calls := 0
		exp := scientist.NewExperiment[int](nil, "sum").Control(add).Enabled(func() bool {
			calls++
			return calls%2 == 0
		})
		assert.False(t, exp.ShouldRun())
		assert.True(t, exp.ShouldRun())
		assert.Equal(t, 2, calls, "predicate is consulted once per decision")
	})

	t.Run("Chance Bounds", func(t *testing.T) {
		never := scientist.NewExperiment[int](nil, "sum").Control(add).Chance(0)
		always := scientist.NewExperiment[int](nil, "sum").Control(add).Chance(100)
		for range 50 {
			assert.False(t, never.ShouldRun())
			assert.True(t, always.ShouldRun())
		}
	})

	t.Run("Chance Samples", func(t *testing.T) {
		exp := scientist.NewExperiment[int](nil, "sum").Control(add).Chance(50)
		runs := 0
		for range 1000 {
			if exp.ShouldRun() {
				runs++
			}
		}
		assert.InDelta(t, 500, runs, 150)
	})

	t.Run("Predicate Before Chance", func(t *testing.T) {
		exp := scientist.NewExperiment[int](nil, "sum").Control(add).Chance(100).Enabled(func() bool { return false })
		assert.False(t, exp.ShouldRun())
	})
}

func TestExperiment_Info(t *testing.T) {
	exp := scientist.NewExperiment[int](nil, "sum").
		Control(add).
		Candidate("alt", addSwapped).
		Candidate("off", constant(0)).
		WithParams(2, 3).
		Chance(40)

	assert.Equal(t, domain.ExperimentInfo{
		Name:       "sum",
		Candidates: []string{"alt", "off"},
		Params:     []any{2, 3},
		Chance:     40,
	}, exp.Info())
}

func TestExperiment_NilLaboratory(t *testing.T) {
	exp := scientist.NewExperiment[int](nil, "sum").Control(add).WithParams(2, 2)
	require.NotNil(t, exp.Laboratory())
	assert.Empty(t, exp.Laboratory().Journals())

	got, err := scientist.RunExperiment(context.Background(), nil, exp)
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}

func TestExperiment_Matcher(t *testing.T) {
	type point struct{ X, Y float64 }
	exp := scientist.NewExperiment[point](nil, "geo").
		Control(func(ctx context.Context, params ...any) (point, error) { return point{1, 2}, nil }).
		Candidate("rounded", func(ctx context.Context, params ...any) (point, error) { return point{1.0000001, 2}, nil }).
		Matcher(compare.Default(compare.Approx[point](1e-6, 0)))

	result, err := exp.Report(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Matched("rounded"))
}
