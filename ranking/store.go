package ranking

// HistoryEntry is one append-only audit row, one per touched entity per
// processed match.
type HistoryEntry struct {
	Kind            EntityKind
	Key             string
	MatchID         string
	RatingBefore    float64
	RatingAfter     float64
	RatingChange    float64
	ConfidenceAfter float64
	ExpectedWin     float64
	KFactor         float64
}

// TeamRaceStats is the state of one symmetric combo pairing. Combo1 is the
// lexicographically lower combo. The display layer may flip sides for
// presentation, but the stored orientation never changes.
type TeamRaceStats struct {
	Key    string
	Combo1 string
	Combo2 string
	Side1  Stats
	Side2  Stats
}

// NetRating is combo1's rating minus combo2's.
func (t *TeamRaceStats) NetRating() float64 {
	return t.Side1.Rating - t.Side2.Rating
}

// Store is the persistence contract the engine runs against. The engine
// reads an entity, mutates it and saves it back within a single match, with
// no interleaving per entity, so implementations need no locking of their
// own as long as calls stay sequential.
type Store interface {
	// GetOrCreate returns the entity's stats, creating them at the seed
	// rating on first appearance.
	GetOrCreate(kind EntityKind, key string, seed float64) (*Stats, error)
	// Save persists an updated entity.
	Save(stats *Stats) error
	// Ratings lists all current ratings of one kind, for population
	// statistics. Team-race pairings contribute both sides.
	Ratings(kind EntityKind) ([]float64, error)
	// GetOrCreateTeamRace returns a combo pairing, creating it with the two
	// per-side seed ratings on first appearance.
	GetOrCreateTeamRace(key, combo1, combo2 string, seed1, seed2 float64) (*TeamRaceStats, error)
	// SaveTeamRace persists an updated combo pairing.
	SaveTeamRace(stats *TeamRaceStats) error
	// AppendHistory records one audit row.
	AppendHistory(entry HistoryEntry) error
}
