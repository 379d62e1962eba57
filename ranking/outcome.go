package ranking

// Outcome classifies a finished match from its two team scores.
type Outcome struct {
	Team1Won bool
	Team2Won bool
	IsDraw   bool
}

// ResolveOutcome reports the match result. ok is false when either score is
// missing, meaning the match is not ready to be processed at all.
func ResolveOutcome(team1Score, team2Score *int) (Outcome, bool) {
	if team1Score == nil || team2Score == nil {
		return Outcome{}, false
	}
	switch {
	case *team1Score > *team2Score:
		return Outcome{Team1Won: true}, true
	case *team2Score > *team1Score:
		return Outcome{Team2Won: true}, true
	}
	return Outcome{IsDraw: true}, true
}
