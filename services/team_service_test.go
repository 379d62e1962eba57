package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gram12321/sc2stats-sub001/models"
)

func TestGetOrCreateTeamNormalizesOrder(t *testing.T) {
	db := newTestDB(t)
	players := NewPlayerService(db)
	for _, name := range []string{"Maru", "Cure"} {
		_, _, err := players.CreateIfMissing(name, "", "", "")
		require.NoError(t, err)
	}

	service := NewTeamService(db)
	team, created, err := service.GetOrCreateTeam("Maru", "Cure")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Cure+Maru", team.TeamKey)
	assert.Equal(t, "Cure & Maru", team.Name)
	assert.Equal(t, "Cure", team.Player1.Name)
	assert.Equal(t, "Maru", team.Player2.Name)

	// The reversed argument order finds the same row.
	same, created, err := service.GetOrCreateTeam("Cure", "Maru")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, team.ID, same.ID)
}

func TestGetOrCreateTeamRejectsDuplicatePlayer(t *testing.T) {
	db := newTestDB(t)
	service := NewTeamService(db)

	_, _, err := service.GetOrCreateTeam("Maru", "Maru")
	assert.Error(t, err)
}

func TestGetOrCreateTeamRequiresExistingPlayers(t *testing.T) {
	db := newTestDB(t)
	players := NewPlayerService(db)
	_, _, err := players.CreateIfMissing("Maru", "", "", "")
	require.NoError(t, err)

	_, _, err = NewTeamService(db).GetOrCreateTeam("Maru", "Ghost")
	assert.ErrorContains(t, err, `player "Ghost" not found`)
}

func TestHeadToHeadOrientsToFirstKey(t *testing.T) {
	db := newTestDB(t)
	f := newSeedFixture(t, db)

	for _, name := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot"} {
		f.player(name, "Terran")
	}
	team1 := f.team("Alpha", "Bravo")
	team2 := f.team("Charlie", "Delta")
	team3 := f.team("Echo", "Foxtrot")

	tournament := f.tournament("gsl_2023", 2023, "2023-03-01")
	races := [4]string{"Terran", "Terran", "Terran", "Terran"}
	f.match(tournament, "m1", "Final", team1, team2, 2, 1, races)
	f.match(tournament, "m2", "Final", team2, team1, 2, 0, races)
	f.match(tournament, "m3", "Final", team1, team2, 1, 1, races)
	// A different pairing stays out of the record.
	f.match(tournament, "m4", "Final", team1, team3, 2, 0, races)

	// A match without final scores does not count yet.
	require.NoError(t, db.Create(&models.Match{
		TournamentID: tournament.ID,
		MatchID:      "m5",
		Round:        "Final",
		Team1ID:      team1.ID,
		Team2ID:      team2.ID,
		Status:       "upcoming",
	}).Error)

	service := NewTeamService(db)
	record, matches, err := service.HeadToHead("Alpha+Bravo", "Charlie+Delta")
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "Alpha+Bravo", record.Team1Key)
	assert.Equal(t, "Charlie+Delta", record.Team2Key)
	assert.Equal(t, 3, record.Matches)
	assert.Equal(t, 1, record.Team1Wins)
	assert.Equal(t, 1, record.Team2Wins)
	assert.Equal(t, 1, record.Draws)

	// The reversed argument order flips the orientation, not the outcome.
	flipped, _, err := service.HeadToHead("Charlie+Delta", "Alpha+Bravo")
	require.NoError(t, err)
	assert.Equal(t, "Charlie+Delta", flipped.Team1Key)
	assert.Equal(t, 1, flipped.Team1Wins)
	assert.Equal(t, 1, flipped.Team2Wins)
	assert.Equal(t, 1, flipped.Draws)
}

func TestHeadToHeadRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	f := newSeedFixture(t, db)
	f.player("Alpha", "Terran")
	f.player("Bravo", "Zerg")
	f.team("Alpha", "Bravo")

	service := NewTeamService(db)

	_, _, err := service.HeadToHead("Alpha+Bravo", "Alpha+Bravo")
	assert.Error(t, err)

	_, _, err = service.HeadToHead("Alpha+Bravo", "Ghost+Spectre")
	assert.ErrorContains(t, err, "not found")
}

func TestGetTeamsByPlayer(t *testing.T) {
	db := newTestDB(t)
	players := NewPlayerService(db)
	for _, name := range []string{"Maru", "Cure", "Dark"} {
		_, _, err := players.CreateIfMissing(name, "", "", "")
		require.NoError(t, err)
	}

	service := NewTeamService(db)
	_, _, err := service.GetOrCreateTeam("Maru", "Cure")
	require.NoError(t, err)
	_, _, err = service.GetOrCreateTeam("Maru", "Dark")
	require.NoError(t, err)
	_, _, err = service.GetOrCreateTeam("Cure", "Dark")
	require.NoError(t, err)

	teams, err := service.GetTeamsByPlayer("Maru")
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Cure+Maru", teams[0].TeamKey)
	assert.Equal(t, "Dark+Maru", teams[1].TeamKey)

	_, err = service.GetTeamsByPlayer("Ghost")
	assert.ErrorContains(t, err, "not found")
}
