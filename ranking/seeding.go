package ranking

import (
	"fmt"

	"github.com/rs/zerolog"
)

type seedKey struct {
	kind EntityKind
	key  string
}

// SeedTable holds per-entity starting ratings for the final seeding pass.
type SeedTable struct {
	ratings map[seedKey]float64
}

func NewSeedTable() *SeedTable {
	return &SeedTable{ratings: make(map[seedKey]float64)}
}

func (t *SeedTable) Set(kind EntityKind, key string, rating float64) {
	t.ratings[seedKey{kind, key}] = rating
}

func (t *SeedTable) Lookup(kind EntityKind, key string) (float64, bool) {
	r, ok := t.ratings[seedKey{kind, key}]
	return r, ok
}

// Len reports how many entities have a seed.
func (t *SeedTable) Len() int {
	return len(t.ratings)
}

// AverageSeedTables merges the two cold-start passes. An entity missing from
// one pass contributes 0 for that pass.
func AverageSeedTables(a, b *SeedTable) *SeedTable {
	merged := NewSeedTable()
	for k, ra := range a.ratings {
		merged.ratings[k] = (ra + b.ratings[k]) / 2
	}
	for k, rb := range b.ratings {
		if _, ok := a.ratings[k]; !ok {
			merged.ratings[k] = rb / 2
		}
	}
	return merged
}

// SeedSeasonOne bootstraps the inaugural season. Processing it naively from
// zero lets the earliest matches, played between equally unranked opponents,
// swing ratings far too hard, so the match set is run three times:
//
//  1. forward in chronological order, everyone cold-started at 0,
//  2. in exact reverse order, again from 0,
//  3. forward once more with every entity seeded at the average of its two
//     cold-start results (0 for a pass it never appeared in).
//
// Only the third pass runs against the caller's store and only it records
// history; the first two run on throwaway in-memory state. The third pass's
// ratings, counters and confidences are the authoritative season result, and
// the matches it covered must never be fed through the incremental path
// afterwards.
func SeedSeasonOne(matches []MatchInput, store Store, defaults RaceDefaults, logger zerolog.Logger) error {
	ordered := make([]MatchInput, len(matches))
	copy(ordered, matches)
	SortChronological(ordered)

	logger.Info().Int("matches", len(ordered)).Msg("seeding pass 1: forward, cold start")
	forward := NewMemoryStore()
	pass1 := NewProcessor(forward, defaults, logger, ProcessorOptions{ColdStart: true})
	for _, m := range ordered {
		if _, err := pass1.Process(m); err != nil {
			return fmt.Errorf("seeding pass 1: %w", err)
		}
	}

	reversed := make([]MatchInput, len(ordered))
	copy(reversed, ordered)
	Reverse(reversed)

	logger.Info().Msg("seeding pass 2: backward, cold start")
	backward := NewMemoryStore()
	pass2 := NewProcessor(backward, defaults, logger, ProcessorOptions{ColdStart: true})
	for _, m := range reversed {
		if _, err := pass2.Process(m); err != nil {
			return fmt.Errorf("seeding pass 2: %w", err)
		}
	}

	seeds := AverageSeedTables(forward.SeedTable(), backward.SeedTable())
	logger.Info().Int("entities", seeds.Len()).Msg("seeding pass 3: forward, seeded")

	pass3 := NewProcessor(store, defaults, logger, ProcessorOptions{Seeds: seeds, RecordHistory: true})
	for _, m := range ordered {
		if _, err := pass3.Process(m); err != nil {
			return fmt.Errorf("seeding pass 3: %w", err)
		}
	}
	return nil
}
