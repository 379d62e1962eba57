package ranking

import "math"

// ProvisionalKFactor returns the base K for an entity given its match count
// before the current match. New entities take large corrective steps; as the
// sample grows the factor settles toward the 32 baseline.
func ProvisionalKFactor(matches int) float64 {
	switch {
	case matches <= 5:
		return 80
	case matches <= 10:
		return 48
	case matches <= 20:
		return 40
	}
	return math.Min(40, 32*(1+3/float64(matches)))
}

// AdjustKFactor scales the base K by how little the entity's rating has
// proven itself so far. At confidence 0 the factor grows by half, at 100 it
// is unchanged.
func AdjustKFactor(baseK, confidence float64) float64 {
	return baseK * (1 + (100-confidence)/100*0.5)
}
