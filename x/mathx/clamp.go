package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Snap rounds v down onto the grid origin + k*step and clamps the result to [origin, hi].
// step <= 0 only clamps.
func Snap[T constraints.Integer](v, origin, hi, step T) T {
	v = Clamp(v, origin, hi)
	if step <= 0 {
		return v
	}
	return origin + (v-origin)/step*step
}
