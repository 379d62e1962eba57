package ranking

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(store Store, defaults RaceDefaults, opts ProcessorOptions) *Processor {
	return NewProcessor(store, defaults, zerolog.Nop(), opts)
}

func firstMatch() MatchInput {
	return MatchInput{
		MatchID: "t1_m1",
		Round:   "Round of 16",
		BestOf:  3,
		Team1: []RosterEntry{
			{Name: "Alpha", Race: "Terran"},
			{Name: "Bravo", Race: "Zerg"},
		},
		Team2: []RosterEntry{
			{Name: "Charlie", Race: "Protoss"},
			{Name: "Delta", Race: "Protoss"},
		},
		Team1Score: intPtr(2),
		Team2Score: intPtr(0),
	}
}

func TestProcessFirstEverMatch(t *testing.T) {
	store := NewMemoryStore()
	p := newTestProcessor(store, nil, ProcessorOptions{})

	records, err := p.Process(firstMatch())
	require.NoError(t, err)
	require.NotEmpty(t, records)

	// Both teams entered at the population mean of 0 and swung by the full
	// 120 adjusted K around even odds.
	winner, ok := store.Get(KindTeam, "Alpha+Bravo")
	require.True(t, ok)
	loser, ok := store.Get(KindTeam, "Charlie+Delta")
	require.True(t, ok)

	assert.InDelta(t, 60, winner.Rating, 1e-9)
	assert.InDelta(t, -60, loser.Rating, 1e-9)
	assert.Equal(t, 1, winner.Matches)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 1, loser.Matches)
	assert.Equal(t, 1, loser.Losses)

	// All four players move the same way against the opposing average.
	for _, name := range []string{"Alpha", "Bravo"} {
		s, ok := store.Get(KindPlayer, name)
		require.True(t, ok)
		assert.InDelta(t, 60, s.Rating, 1e-9)
		assert.Equal(t, 1, s.Wins)
	}
	for _, name := range []string{"Charlie", "Delta"} {
		s, ok := store.Get(KindPlayer, name)
		require.True(t, ok)
		assert.InDelta(t, -60, s.Rating, 1e-9)
		assert.Equal(t, 1, s.Losses)
	}
}

func TestProcessSkipsMatchWithoutScores(t *testing.T) {
	store := NewMemoryStore()
	p := newTestProcessor(store, nil, ProcessorOptions{})

	m := firstMatch()
	m.Team2Score = nil

	records, err := p.Process(m)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, store.All(KindPlayer))
	assert.Empty(t, store.All(KindTeam))
}

func TestProcessSkipsMatchWithMissingPlayerName(t *testing.T) {
	store := NewMemoryStore()
	p := newTestProcessor(store, nil, ProcessorOptions{})

	m := firstMatch()
	m.Team1[1].Name = ""

	records, err := p.Process(m)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, store.All(KindPlayer))
}

func TestProcessZeroSumRaceMatchups(t *testing.T) {
	store := NewMemoryStore()
	p := newTestProcessor(store, nil, ProcessorOptions{})

	_, err := p.Process(firstMatch())
	require.NoError(t, err)

	// Terran and Zerg each met Protoss twice across the rosters, but the
	// duplicate pairings collapse, so every direction carries one match.
	pairs := [][2]string{{"TvP", "PvT"}, {"ZvP", "PvZ"}}
	for _, pair := range pairs {
		forward, ok := store.Get(KindRaceMatchup, pair[0])
		require.True(t, ok, pair[0])
		inverse, ok := store.Get(KindRaceMatchup, pair[1])
		require.True(t, ok, pair[1])

		assert.Equal(t, 1, forward.Matches)
		assert.Equal(t, 1, inverse.Matches)
		assert.InDelta(t, -forward.Rating, inverse.Rating, 1e-9)
		assert.Equal(t, 1, forward.Wins)
		assert.Equal(t, 1, inverse.Losses)
	}
}

func TestProcessZeroSumHoldsAcrossMatches(t *testing.T) {
	store := NewMemoryStore()
	p := newTestProcessor(store, nil, ProcessorOptions{})

	matches := []MatchInput{firstMatch()}

	rematch := firstMatch()
	rematch.MatchID = "t1_m2"
	rematch.Team1Score, rematch.Team2Score = intPtr(1), intPtr(2)
	matches = append(matches, rematch)

	for _, m := range matches {
		_, err := p.Process(m)
		require.NoError(t, err)
	}

	forward, _ := store.Get(KindRaceMatchup, "TvP")
	inverse, _ := store.Get(KindRaceMatchup, "PvT")
	assert.Equal(t, 2, forward.Matches)
	assert.InDelta(t, -forward.Rating, inverse.Rating, 1e-9)
}

func TestProcessExcludesMirrorMatchups(t *testing.T) {
	store := NewMemoryStore()
	p := newTestProcessor(store, nil, ProcessorOptions{})

	m := firstMatch()
	for i := range m.Team1 {
		m.Team1[i].Race = "Zerg"
	}
	for i := range m.Team2 {
		m.Team2[i].Race = "Zerg"
	}

	_, err := p.Process(m)
	require.NoError(t, err)

	assert.Empty(t, store.All(KindRaceMatchup))
	_, ok := store.TeamRace("ZZ vs ZZ")
	assert.False(t, ok)
}

func TestProcessTeamRaceMatchup(t *testing.T) {
	store := NewMemoryStore()
	p := newTestProcessor(store, nil, ProcessorOptions{})

	_, err := p.Process(firstMatch())
	require.NoError(t, err)

	tr, ok := store.TeamRace("PP vs TZ")
	require.True(t, ok)

	// Combo assignment is alphabetical: PP lost this match.
	assert.Equal(t, "PP", tr.Combo1)
	assert.Equal(t, "TZ", tr.Combo2)
	assert.Equal(t, 1, tr.Side1.Losses)
	assert.Equal(t, 1, tr.Side2.Wins)
	assert.InDelta(t, -tr.Side1.Rating, tr.Side2.Rating, 1e-9)
	assert.InDelta(t, tr.Side1.Rating-tr.Side2.Rating, tr.NetRating(), 1e-9)
}

func TestProcessIncompleteRaceSkipsMatchupsOnly(t *testing.T) {
	store := NewMemoryStore()
	p := newTestProcessor(store, nil, ProcessorOptions{})

	m := firstMatch()
	m.Team1[0].Race = ""

	records, err := p.Process(m)
	require.NoError(t, err)
	require.NotEmpty(t, records)

	// Players and teams still rated, matchups untouched.
	assert.Len(t, store.All(KindPlayer), 4)
	assert.Len(t, store.All(KindTeam), 2)
	assert.Empty(t, store.All(KindRaceMatchup))
}

func TestProcessMatchRaceOverridesDefault(t *testing.T) {
	defaults := RaceDefaultsFunc(func(name string) (Race, bool) {
		return Zerg, true
	})
	store := NewMemoryStore()
	p := newTestProcessor(store, defaults, ProcessorOptions{})

	m := firstMatch()
	// Alpha's declared Terran must win over the Zerg default.
	_, err := p.Process(m)
	require.NoError(t, err)

	_, ok := store.Get(KindRaceMatchup, "TvP")
	assert.True(t, ok)
}

func TestProcessFallsBackToPreferredRace(t *testing.T) {
	defaults := RaceDefaultsFunc(func(name string) (Race, bool) {
		if name == "Alpha" {
			return Terran, true
		}
		return "", false
	})
	store := NewMemoryStore()
	p := newTestProcessor(store, defaults, ProcessorOptions{})

	m := firstMatch()
	m.Team1[0].Race = ""

	_, err := p.Process(m)
	require.NoError(t, err)

	_, ok := store.Get(KindRaceMatchup, "TvP")
	assert.True(t, ok)
}

func TestProcessRecordsHistoryWhenAsked(t *testing.T) {
	store := NewMemoryStore()
	p := newTestProcessor(store, nil, ProcessorOptions{RecordHistory: true})

	records, err := p.Process(firstMatch())
	require.NoError(t, err)

	// Four players, two teams, two matchup pairs in both directions and one
	// combo pairing.
	assert.Len(t, records, 4+2+4+1)
	require.Len(t, store.History(), len(records))

	for i, entry := range store.History() {
		assert.Equal(t, records[i].Kind, entry.Kind)
		assert.Equal(t, records[i].Key, entry.Key)
		assert.Equal(t, "t1_m1", entry.MatchID)
		assert.InDelta(t, entry.RatingBefore+entry.RatingChange, entry.RatingAfter, 1e-9)
	}
}

func TestProcessSkipsHistoryByDefault(t *testing.T) {
	store := NewMemoryStore()
	p := newTestProcessor(store, nil, ProcessorOptions{})

	_, err := p.Process(firstMatch())
	require.NoError(t, err)
	assert.Empty(t, store.History())
}

func TestProcessDrawCountsForBothSides(t *testing.T) {
	store := NewMemoryStore()
	p := newTestProcessor(store, nil, ProcessorOptions{})

	m := firstMatch()
	m.Team1Score, m.Team2Score = intPtr(1), intPtr(1)

	_, err := p.Process(m)
	require.NoError(t, err)

	team1, _ := store.Get(KindTeam, "Alpha+Bravo")
	team2, _ := store.Get(KindTeam, "Charlie+Delta")
	assert.Equal(t, 1, team1.Draws)
	assert.Equal(t, 1, team2.Draws)
	assert.InDelta(t, 0, team1.Rating, 1e-9)
	assert.InDelta(t, 0, team2.Rating, 1e-9)
}

func TestProcessNewEntitiesSeededAtPopulationMean(t *testing.T) {
	store := NewMemoryStore()
	p := newTestProcessor(store, nil, ProcessorOptions{})

	_, err := p.Process(firstMatch())
	require.NoError(t, err)

	// The second match introduces two fresh players whose starting rating
	// is the mean of the four existing ones, which is 0 here, but the team
	// population has drifted: means are taken per entity kind.
	second := MatchInput{
		MatchID:    "t1_m2",
		Team1:      []RosterEntry{{Name: "Echo"}, {Name: "Foxtrot"}},
		Team2:      []RosterEntry{{Name: "Alpha"}, {Name: "Bravo"}},
		Team1Score: intPtr(0),
		Team2Score: intPtr(2),
	}
	_, err = p.Process(second)
	require.NoError(t, err)

	echo, ok := store.Get(KindPlayer, "Echo")
	require.True(t, ok)
	// Echo entered at mean 0 and lost to the 60-rated pair.
	assert.Equal(t, 1, echo.Matches)
	assert.Less(t, echo.Rating, 0.0)
}

func TestProcessColdStartSeedsAtZero(t *testing.T) {
	match := MatchInput{
		MatchID:    "t1_m1",
		Team1:      []RosterEntry{{Name: "Echo"}, {Name: "Foxtrot"}},
		Team2:      []RosterEntry{{Name: "Vet1"}, {Name: "Vet2"}},
		Team1Score: intPtr(0),
		Team2Score: intPtr(2),
	}

	// Warm path: with two veterans averaging 400, newcomers enter at the
	// population mean.
	warmStore := NewMemoryStore()
	_, err := warmStore.GetOrCreate(KindPlayer, "Vet1", 300)
	require.NoError(t, err)
	_, err = warmStore.GetOrCreate(KindPlayer, "Vet2", 500)
	require.NoError(t, err)

	warm := newTestProcessor(warmStore, nil, ProcessorOptions{})
	_, err = warm.Process(match)
	require.NoError(t, err)

	warmEcho, _ := warmStore.Get(KindPlayer, "Echo")

	// Cold path: the same match set starts everyone at 0 regardless of the
	// existing spread.
	coldStore := NewMemoryStore()
	_, err = coldStore.GetOrCreate(KindPlayer, "Vet1", 300)
	require.NoError(t, err)
	_, err = coldStore.GetOrCreate(KindPlayer, "Vet2", 500)
	require.NoError(t, err)

	cold := newTestProcessor(coldStore, nil, ProcessorOptions{ColdStart: true})
	_, err = cold.Process(match)
	require.NoError(t, err)

	coldEcho, _ := coldStore.Get(KindPlayer, "Echo")

	// Both lost the same match, but the warm start entered 400 points higher.
	assert.Greater(t, warmEcho.Rating, coldEcho.Rating)
	assert.Greater(t, warmEcho.Rating, 300.0)
	assert.Less(t, coldEcho.Rating, 0.0)
}
