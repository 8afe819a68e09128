package compare_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/scientist/pkg/compare"
	"github.com/aretw0/scientist/pkg/domain"
	"github.com/stretchr/testify/assert"
)

type point struct {
	x, y int
}

func value[T any](v T) domain.Outcome[T] {
	return domain.Outcome[T]{Value: v}
}

func failure[T any](err error) domain.Outcome[T] {
	return domain.Outcome[T]{Err: err}
}

func TestDefault(t *testing.T) {
	errA := errors.New("boom")
	errB := errors.New("other")

	tests := []struct {
		name      string
		control   domain.Outcome[int]
		candidate domain.Outcome[int]
		want      bool
	}{
		{"equal values", value(5), value(5), true},
		{"different values", value(5), value(4), false},
		{"both failed with different errors", failure[int](errA), failure[int](errB), true},
		{"control failed only", failure[int](errA), value(5), false},
		{"candidate failed only", value(5), failure[int](errA), false},
	}

	cmp := compare.Default[int](nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cmp(tt.control, tt.candidate))
		})
	}
}

func TestDefault_StructuralEquality(t *testing.T) {
	cmp := compare.Default[point](nil)
	assert.True(t, cmp(value(point{1, 2}), value(point{1, 2})), "unexported fields must be compared")
	assert.False(t, cmp(value(point{1, 2}), value(point{2, 1})))

	slices := compare.Default[[]string](nil)
	assert.True(t, slices(value([]string{"a", "b"}), value([]string{"a", "b"})))
	assert.False(t, slices(value([]string{"a", "b"}), value([]string{"b", "a"})))
}

func TestDefault_CustomEquality(t *testing.T) {
	sameX := func(a, b point) bool { return a.x == b.x }
	cmp := compare.Default(sameX)
	assert.True(t, cmp(value(point{1, 2}), value(point{1, 9})))
	assert.False(t, cmp(value(point{1, 2}), value(point{3, 2})))
}

func TestApprox(t *testing.T) {
	cmp := compare.Default(compare.Approx[float64](0, 0.001))
	assert.True(t, cmp(value(0.1+0.2), value(0.3)))
	assert.False(t, cmp(value(0.3), value(0.31)))

	nested := compare.Default(compare.Approx[map[string]float64](0.01, 0))
	assert.True(t, nested(value(map[string]float64{"a": 100}), value(map[string]float64{"a": 100.5})))
}

func TestStrictErrors(t *testing.T) {
	sentinel := errors.New("not found")
	cmp := compare.StrictErrors[int](nil)

	assert.True(t, cmp(failure[int](sentinel), failure[int](fmt.Errorf("lookup: %w", sentinel))))
	assert.True(t, cmp(failure[int](errors.New("same text")), failure[int](errors.New("same text"))))
	assert.False(t, cmp(failure[int](sentinel), failure[int](errors.New("timeout"))))
	assert.True(t, cmp(value(1), value(1)))
}

func TestDiff(t *testing.T) {
	assert.Empty(t, compare.Diff(point{1, 2}, point{1, 2}))
	assert.NotEmpty(t, compare.Diff(point{1, 2}, point{1, 3}))
	assert.Contains(t, compare.Diff(5, 4), "5")
}
