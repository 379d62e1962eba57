package ranking

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RaceDefaults resolves a player's usual race when the match itself does not
// say what was played. Match-level race information always wins over the
// default.
type RaceDefaults interface {
	PreferredRace(playerName string) (Race, bool)
}

// RaceDefaultsFunc adapts a plain lookup function.
type RaceDefaultsFunc func(playerName string) (Race, bool)

func (f RaceDefaultsFunc) PreferredRace(playerName string) (Race, bool) {
	return f(playerName)
}

// ProcessorOptions tune how matches are folded into the store.
type ProcessorOptions struct {
	// RecordHistory appends one audit row per touched entity per match.
	// Only the authoritative pass over a match set records history.
	RecordHistory bool
	// ColdStart seeds new entities at 0 instead of the population mean.
	// The two throwaway seeding passes run this way.
	ColdStart bool
	// Seeds supplies explicit initial ratings for the final seeding pass.
	// Entities without a seed start at 0.
	Seeds *SeedTable
}

// UpdateRecord is the calculation-detail bundle for one touched entity,
// enough to reconstruct why its rating moved.
type UpdateRecord struct {
	Kind    EntityKind
	Key     string
	MatchID string
	Detail  Detail
}

// Processor folds matches into rating state one at a time, strictly in the
// order given. Every update depends on opponent ratings and population
// statistics as they stand at that moment, so callers order matches first
// and never process concurrently.
type Processor struct {
	store    Store
	defaults RaceDefaults
	log      zerolog.Logger
	opts     ProcessorOptions
}

func NewProcessor(store Store, defaults RaceDefaults, logger zerolog.Logger, opts ProcessorOptions) *Processor {
	return &Processor{store: store, defaults: defaults, log: logger, opts: opts}
}

// Process applies one match to every entity it touches: the four players,
// the two teams, the directional race pairings across the rosters and the
// symmetric combo pairing. A match with a missing score is skipped silently;
// a roster without two named players is skipped with a warning. Incomplete
// race information only disables matchup tracking for the match.
func (p *Processor) Process(m MatchInput) ([]UpdateRecord, error) {
	outcome, ok := ResolveOutcome(m.Team1Score, m.Team2Score)
	if !ok {
		return nil, nil
	}
	if !rosterComplete(m.Team1) || !rosterComplete(m.Team2) {
		p.log.Warn().Str("match_id", m.MatchID).Msg("skipping match with incomplete roster")
		return nil, nil
	}

	var records []UpdateRecord

	playerRecords, err := p.updatePlayers(m, outcome)
	if err != nil {
		return nil, fmt.Errorf("match %s: players: %w", m.MatchID, err)
	}
	records = append(records, playerRecords...)

	teamRecords, err := p.updateTeams(m, outcome)
	if err != nil {
		return nil, fmt.Errorf("match %s: teams: %w", m.MatchID, err)
	}
	records = append(records, teamRecords...)

	races1, ok1 := p.resolveRaces(m.Team1)
	races2, ok2 := p.resolveRaces(m.Team2)
	if !ok1 || !ok2 {
		p.log.Debug().Str("match_id", m.MatchID).Msg("race information incomplete, matchup tracking skipped")
		return records, nil
	}

	matchupRecords, err := p.updateRaceMatchups(m, outcome, races1, races2)
	if err != nil {
		return nil, fmt.Errorf("match %s: race matchups: %w", m.MatchID, err)
	}
	records = append(records, matchupRecords...)

	comboRecords, err := p.updateTeamRaceMatchup(m, outcome, races1, races2)
	if err != nil {
		return nil, fmt.Errorf("match %s: team race matchup: %w", m.MatchID, err)
	}
	records = append(records, comboRecords...)

	return records, nil
}

func rosterComplete(roster []RosterEntry) bool {
	if len(roster) != 2 {
		return false
	}
	return roster[0].Name != "" && roster[1].Name != ""
}

func (p *Processor) resolveRaces(roster []RosterEntry) ([2]Race, bool) {
	var races [2]Race
	for i, entry := range roster {
		if r, ok := ParseRace(entry.Race); ok {
			races[i] = r
			continue
		}
		if p.defaults != nil {
			if r, ok := p.defaults.PreferredRace(entry.Name); ok {
				races[i] = r
				continue
			}
		}
		return races, false
	}
	return races, true
}

// seedRating picks the starting rating for an entity first seen now.
func (p *Processor) seedRating(kind EntityKind, key string, pop Population) float64 {
	if p.opts.Seeds != nil {
		if r, ok := p.opts.Seeds.Lookup(kind, key); ok {
			return r
		}
		return 0
	}
	if p.opts.ColdStart {
		return 0
	}
	return pop.Mean
}

func (p *Processor) population(kind EntityKind) (Population, error) {
	ratings, err := p.store.Ratings(kind)
	if err != nil {
		return Population{}, err
	}
	return ComputePopulation(ratings), nil
}

func (p *Processor) updatePlayers(m MatchInput, outcome Outcome) ([]UpdateRecord, error) {
	// The mean used to seed brand-new players is taken before they are
	// created; the population fed into the update includes them.
	seedPop, err := p.population(KindPlayer)
	if err != nil {
		return nil, err
	}

	names := [4]string{m.Team1[0].Name, m.Team1[1].Name, m.Team2[0].Name, m.Team2[1].Name}
	stats := make([]*Stats, len(names))
	for i, name := range names {
		s, err := p.store.GetOrCreate(KindPlayer, name, p.seedRating(KindPlayer, name, seedPop))
		if err != nil {
			return nil, err
		}
		stats[i] = s
	}

	pop, err := p.population(KindPlayer)
	if err != nil {
		return nil, err
	}

	// Snapshot all four players before mutating anything, so both rosters
	// are judged against the same pre-match state.
	before := make([]Stats, len(stats))
	for i, s := range stats {
		before[i] = *s
	}
	team1Rating := (before[0].Rating + before[1].Rating) / 2
	team2Rating := (before[2].Rating + before[3].Rating) / 2
	team1Conf := (before[0].Confidence + before[1].Confidence) / 2
	team2Conf := (before[2].Confidence + before[3].Confidence) / 2

	records := make([]UpdateRecord, 0, len(stats))
	for i, s := range stats {
		won := outcome.Team1Won
		opponentRating, opponentConf := team2Rating, team2Conf
		if i >= 2 {
			won = outcome.Team2Won
			opponentRating, opponentConf = team1Rating, team1Conf
		}

		ratingBefore := before[i].Rating
		detail := Update(s, UpdateParams{
			Won:                won,
			IsDraw:             outcome.IsDraw,
			OpponentRating:     opponentRating,
			OpponentConfidence: opponentConf,
			Population:         pop,
			ExplicitRating:     &ratingBefore,
		})
		if err := p.store.Save(s); err != nil {
			return nil, err
		}

		record := UpdateRecord{Kind: KindPlayer, Key: s.Key, MatchID: m.MatchID, Detail: detail}
		if err := p.appendHistory(record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (p *Processor) updateTeams(m MatchInput, outcome Outcome) ([]UpdateRecord, error) {
	seedPop, err := p.population(KindTeam)
	if err != nil {
		return nil, err
	}

	key1 := TeamKey(m.Team1[0].Name, m.Team1[1].Name)
	key2 := TeamKey(m.Team2[0].Name, m.Team2[1].Name)

	team1, err := p.store.GetOrCreate(KindTeam, key1, p.seedRating(KindTeam, key1, seedPop))
	if err != nil {
		return nil, err
	}
	team2, err := p.store.GetOrCreate(KindTeam, key2, p.seedRating(KindTeam, key2, seedPop))
	if err != nil {
		return nil, err
	}

	pop, err := p.population(KindTeam)
	if err != nil {
		return nil, err
	}

	before1, before2 := *team1, *team2

	records := make([]UpdateRecord, 0, 2)
	sides := []struct {
		stats    *Stats
		before   Stats
		opponent Stats
		won      bool
	}{
		{team1, before1, before2, outcome.Team1Won},
		{team2, before2, before1, outcome.Team2Won},
	}
	for _, side := range sides {
		ratingBefore := side.before.Rating
		detail := Update(side.stats, UpdateParams{
			Won:                side.won,
			IsDraw:             outcome.IsDraw,
			OpponentRating:     side.opponent.Rating,
			OpponentConfidence: side.opponent.Confidence,
			Population:         pop,
			ExplicitRating:     &ratingBefore,
		})
		if err := p.store.Save(side.stats); err != nil {
			return nil, err
		}

		record := UpdateRecord{Kind: KindTeam, Key: side.stats.Key, MatchID: m.MatchID, Detail: detail}
		if err := p.appendHistory(record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (p *Processor) updateRaceMatchups(m MatchInput, outcome Outcome, races1, races2 [2]Race) ([]UpdateRecord, error) {
	// Every cross-team race pairing is a candidate directional matchup.
	// Mirrors are skipped and pairings that collapse to the same unordered
	// {key, inverse} set are processed once per match.
	type pairing struct {
		key     string
		inverse string
	}
	var pairings []pairing
	seen := make(map[string]bool)
	for _, mine := range races1 {
		for _, theirs := range races2 {
			if mine == theirs {
				continue
			}
			key := RaceMatchupKey(mine, theirs)
			inverse := RaceMatchupKey(theirs, mine)
			unordered := key
			if inverse < key {
				unordered = inverse
			}
			if seen[unordered] {
				continue
			}
			seen[unordered] = true
			pairings = append(pairings, pairing{key: key, inverse: inverse})
		}
	}
	if len(pairings) == 0 {
		return nil, nil
	}

	seedPop, err := p.population(KindRaceMatchup)
	if err != nil {
		return nil, err
	}

	// Both directions of a pairing are created together so their match
	// counts, and therefore their K factors, never diverge.
	stats := make(map[string]*Stats)
	for _, pr := range pairings {
		for _, key := range []string{pr.key, pr.inverse} {
			if _, ok := stats[key]; ok {
				continue
			}
			s, err := p.store.GetOrCreate(KindRaceMatchup, key, p.seedRating(KindRaceMatchup, key, seedPop))
			if err != nil {
				return nil, err
			}
			stats[key] = s
		}
	}

	pop, err := p.population(KindRaceMatchup)
	if err != nil {
		return nil, err
	}

	// Snapshot every touched direction before applying any update, so what
	// one direction gains its inverse loses exactly.
	snapshot := make(map[string]float64, len(stats))
	for key, s := range stats {
		snapshot[key] = s.Rating
	}

	var records []UpdateRecord
	for _, pr := range pairings {
		directions := []struct {
			key      string
			opponent string
			won      bool
		}{
			{pr.key, pr.inverse, outcome.Team1Won},
			{pr.inverse, pr.key, outcome.Team2Won},
		}
		for _, dir := range directions {
			s := stats[dir.key]
			own := snapshot[dir.key]
			detail := UpdateFixedK(s, UpdateParams{
				Won:            dir.won,
				IsDraw:         outcome.IsDraw,
				OpponentRating: snapshot[dir.opponent],
				Population:     pop,
				ExplicitRating: &own,
			})
			if err := p.store.Save(s); err != nil {
				return nil, err
			}

			record := UpdateRecord{Kind: KindRaceMatchup, Key: dir.key, MatchID: m.MatchID, Detail: detail}
			if err := p.appendHistory(record); err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	}
	return records, nil
}

func (p *Processor) updateTeamRaceMatchup(m MatchInput, outcome Outcome, races1, races2 [2]Race) ([]UpdateRecord, error) {
	combo1 := ComboKey(races1[0], races1[1])
	combo2 := ComboKey(races2[0], races2[1])
	if combo1 == combo2 {
		return nil, nil
	}

	key := TeamRaceKey(combo1, combo2)
	lower, higher := combo1, combo2
	team1IsLower := true
	if lower > higher {
		lower, higher = higher, lower
		team1IsLower = false
	}

	seedPop, err := p.population(KindTeamRaceMatchup)
	if err != nil {
		return nil, err
	}
	seed1 := p.seedRating(KindTeamRaceMatchup, TeamRaceSideKey(key, lower), seedPop)
	seed2 := p.seedRating(KindTeamRaceMatchup, TeamRaceSideKey(key, higher), seedPop)

	tr, err := p.store.GetOrCreateTeamRace(key, lower, higher, seed1, seed2)
	if err != nil {
		return nil, err
	}

	pop, err := p.population(KindTeamRaceMatchup)
	if err != nil {
		return nil, err
	}

	before1, before2 := tr.Side1, tr.Side2
	netBefore := tr.NetRating()

	side1Won, side2Won := outcome.Team1Won, outcome.Team2Won
	if !team1IsLower {
		side1Won, side2Won = side2Won, side1Won
	}

	rating1 := before1.Rating
	detail := UpdateFixedK(&tr.Side1, UpdateParams{
		Won:            side1Won,
		IsDraw:         outcome.IsDraw,
		OpponentRating: before2.Rating,
		Population:     pop,
		ExplicitRating: &rating1,
	})
	rating2 := before2.Rating
	UpdateFixedK(&tr.Side2, UpdateParams{
		Won:            side2Won,
		IsDraw:         outcome.IsDraw,
		OpponentRating: before1.Rating,
		Population:     pop,
		ExplicitRating: &rating2,
	})

	if err := p.store.SaveTeamRace(tr); err != nil {
		return nil, err
	}

	// One audit row per match for the pairing, tracking the net rating seen
	// from the lower combo's side.
	netDetail := detail
	netDetail.RatingBefore = netBefore
	netDetail.RatingAfter = tr.NetRating()
	netDetail.RatingChange = tr.NetRating() - netBefore

	record := UpdateRecord{Kind: KindTeamRaceMatchup, Key: key, MatchID: m.MatchID, Detail: netDetail}
	if err := p.appendHistory(record); err != nil {
		return nil, err
	}
	return []UpdateRecord{record}, nil
}

func (p *Processor) appendHistory(r UpdateRecord) error {
	if !p.opts.RecordHistory {
		return nil
	}
	return p.store.AppendHistory(HistoryEntry{
		Kind:            r.Kind,
		Key:             r.Key,
		MatchID:         r.MatchID,
		RatingBefore:    r.Detail.RatingBefore,
		RatingAfter:     r.Detail.RatingAfter,
		RatingChange:    r.Detail.RatingChange,
		ConfidenceAfter: r.Detail.ConfidenceAfter,
		ExpectedWin:     r.Detail.ExpectedWin,
		KFactor:         r.Detail.AdjustedK,
	})
}
