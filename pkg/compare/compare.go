package compare

import (
	"errors"
	"reflect"

	"github.com/aretw0/scientist/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Comparator decides whether a candidate outcome matches the control outcome.
// Implementations must be deterministic and free of side effects.
type Comparator[T any] func(control, candidate domain.Outcome[T]) bool

// EqualFunc reports whether two values are equivalent.
type EqualFunc[T any] func(a, b T) bool

// exportAll lets cmp descend into unexported struct fields instead of panicking.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// Default returns the standard comparator: values are compared with eq when
// neither outcome failed, and two failed outcomes always match.
// A nil eq falls back to Equal.
func Default[T any](eq EqualFunc[T]) Comparator[T] {
	if eq == nil {
		eq = Equal[T]()
	}
	return func(control, candidate domain.Outcome[T]) bool {
		if control.Failed() || candidate.Failed() {
			return control.Failed() && candidate.Failed()
		}
		return eq(control.Value, candidate.Value)
	}
}

// StrictErrors is like Default but two failed outcomes only match when their
// errors are related through errors.Is or carry the same message.
func StrictErrors[T any](eq EqualFunc[T]) Comparator[T] {
	loose := Default(eq)
	return func(control, candidate domain.Outcome[T]) bool {
		if control.Failed() && candidate.Failed() {
			return SameError(control.Err, candidate.Err)
		}
		return loose(control, candidate)
	}
}

// SameError reports whether two errors describe the same failure.
func SameError(a, b error) bool {
	if a == nil || b == nil {
		return a == b
	}
	return errors.Is(a, b) || errors.Is(b, a) || a.Error() == b.Error()
}

// Equal returns a structural equality function backed by cmp.Equal.
// Additional cmp options (transformers, comparers) are applied after the defaults.
func Equal[T any](opts ...cmp.Option) EqualFunc[T] {
	all := append([]cmp.Option{exportAll}, opts...)
	return func(a, b T) bool {
		return cmp.Equal(a, b, all...)
	}
}

// Approx returns an equality function that treats floats within a relative
// fraction or absolute margin as equal, anywhere inside the compared values.
func Approx[T any](fraction, margin float64) EqualFunc[T] {
	return Equal[T](cmpopts.EquateApprox(fraction, margin))
}

// Diff renders a human-readable difference between two values.
// It returns an empty string when they are equal.
func Diff(control, candidate any) string {
	return cmp.Diff(control, candidate, exportAll)
}
