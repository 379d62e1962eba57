package ranking

import "time"

// RosterEntry is one player slot in a match roster. Race is the race played
// in this particular match and may be empty when the source data does not
// carry it.
type RosterEntry struct {
	Name string
	Race string
}

// MatchInput is a single match as consumed by the engine. Scores stay nil
// until the match is finalized; a match with a nil score is never processed.
type MatchInput struct {
	MatchID        string
	Round          string
	BestOf         int
	MatchDate      *time.Time
	TournamentDate *time.Time
	Team1          []RosterEntry
	Team2          []RosterEntry
	Team1Score     *int
	Team2Score     *int
}
