package ranking

import "math"

const (
	// DefaultStdDev is the rating spread assumed before any entity exists.
	DefaultStdDev = 350.0
	// MinStdDev keeps a tightly clustered population from collapsing the
	// probability model.
	MinStdDev = 50.0
)

// Population holds the mean and standard deviation of one entity kind's
// current ratings.
type Population struct {
	Mean   float64
	StdDev float64
}

// ComputePopulation derives population statistics from the current ratings.
// Callers recompute it before every match because earlier matches may have
// created new entities.
func ComputePopulation(ratings []float64) Population {
	if len(ratings) == 0 {
		return Population{Mean: 0, StdDev: DefaultStdDev}
	}

	var sum float64
	for _, r := range ratings {
		sum += r
	}
	mean := sum / float64(len(ratings))

	var variance float64
	for _, r := range ratings {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(ratings))

	stdDev := math.Sqrt(variance)
	if stdDev < MinStdDev {
		stdDev = MinStdDev
	}
	return Population{Mean: mean, StdDev: stdDev}
}
