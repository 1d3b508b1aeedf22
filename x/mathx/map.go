package mathx

import "golang.org/x/exp/constraints"

// MapInt maps x in [inMin,inMax] to [outMin,outMax] with integer division.
// Clamps to the out range if input is outside.
func MapInt[T constraints.Signed](x, inMin, inMax, outMin, outMax T) T {
	if inMax == inMin {
		return outMin
	}
	if x <= inMin {
		return outMin
	}
	if x >= inMax {
		return outMax
	}
	return outMin + (x-inMin)*(outMax-outMin)/(inMax-inMin)
}
