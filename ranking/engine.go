package ranking

import "math"

// EntityKind discriminates the four rated entity families.
type EntityKind string

const (
	KindPlayer          EntityKind = "player"
	KindTeam            EntityKind = "team"
	KindRaceMatchup     EntityKind = "race_matchup"
	KindTeamRaceMatchup EntityKind = "team_race_matchup"
)

// Stats is the mutable rating state of one entity.
type Stats struct {
	Kind       EntityKind
	Key        string
	Matches    int
	Wins       int
	Losses     int
	Draws      int
	Rating     float64
	Confidence float64
}

// UpdateParams carries everything a single rating update depends on.
type UpdateParams struct {
	Won                bool
	IsDraw             bool
	OpponentRating     float64
	OpponentConfidence float64
	Population         Population

	// ExplicitRating overrides the stored rating as the pre-match value.
	// Matchup bookkeeping sets it so both directions of a pair are updated
	// from the same snapshot rather than from each other's in-flight state.
	ExplicitRating *float64
}

// Detail records how one rating change was produced. History rows and
// ranking tooltips are reconstructed from these fields alone.
type Detail struct {
	ExpectedWin        float64
	BaseK              float64
	AdjustedK          float64
	Confidence         float64
	OpponentConfidence float64
	Matches            int
	OpponentRating     float64
	RatingBefore       float64
	RatingAfter        float64
	RatingChange       float64
	ConfidenceAfter    float64
}

// Update applies one match result to an entity. The expected win probability
// scales with the population spread instead of a fixed divisor, K with the
// entity's match count and confidence. Rating, counters and confidence are
// all advanced in place.
func Update(stats *Stats, p UpdateParams) Detail {
	return update(stats, p, true)
}

// UpdateFixedK is Update without confidence weighting or tracking. Matchup
// entities use it: the two directions of a pair always share a match count,
// so with the plain provisional K their rating changes cancel exactly.
func UpdateFixedK(stats *Stats, p UpdateParams) Detail {
	return update(stats, p, false)
}

func update(stats *Stats, p UpdateParams, withConfidence bool) Detail {
	current := stats.Rating
	if p.ExplicitRating != nil {
		current = *p.ExplicitRating
	}

	expected := expectedWin(current, p.OpponentRating, p.Population.StdDev)
	baseK := ProvisionalKFactor(stats.Matches)
	adjustedK := baseK
	if withConfidence {
		adjustedK = AdjustKFactor(baseK, stats.Confidence)
	}

	actual := actualScore(p.Won, p.IsDraw)
	change := adjustedK * (actual - expected)

	detail := Detail{
		ExpectedWin:        expected,
		BaseK:              baseK,
		AdjustedK:          adjustedK,
		Confidence:         stats.Confidence,
		OpponentConfidence: p.OpponentConfidence,
		Matches:            stats.Matches,
		OpponentRating:     p.OpponentRating,
		RatingBefore:       current,
		RatingChange:       change,
	}

	stats.Rating = current + change
	stats.Matches++
	switch {
	case p.IsDraw:
		stats.Draws++
	case p.Won:
		stats.Wins++
	default:
		stats.Losses++
	}
	if withConfidence {
		stats.Confidence = NextConfidence(stats.Confidence, expected, p.Won, p.IsDraw)
	}

	detail.RatingAfter = stats.Rating
	detail.ConfidenceAfter = stats.Confidence
	return detail
}

// expectedWin is the logistic win probability of a rating against an
// opponent, with the live population spread as the scale divisor.
func expectedWin(rating, opponentRating, stdDev float64) float64 {
	return 1 / (1 + math.Pow(10, (opponentRating-rating)/stdDev))
}

func actualScore(won, isDraw bool) float64 {
	if isDraw {
		return 0.5
	}
	if won {
		return 1
	}
	return 0
}
