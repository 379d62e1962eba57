package ranking

const (
	confidenceBaseStep = 5.0
	confidenceMax      = 100.0
)

// NextConfidence moves an entity's prediction-accuracy score after a match.
// A prediction is correct when the side given more than an even chance
// actually won; a draw counts against the favored side. The step shrinks as
// confidence grows, so an established score drifts slowly instead of
// oscillating. The result never leaves [0,100].
func NextConfidence(current, expectedWin float64, won, isDraw bool) float64 {
	predictedWin := expectedWin > 0.5
	actualWin := won && !isDraw
	step := confidenceBaseStep * (1 - current/(2*confidenceMax))

	if predictedWin == actualWin {
		current += step
	} else {
		current -= step
	}
	return clampConfidence(current)
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > confidenceMax {
		return confidenceMax
	}
	return c
}
