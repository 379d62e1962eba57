package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gram12321/sc2stats-sub001/models"
)

func TestGetOverviewEmptyDatabase(t *testing.T) {
	db := newTestDB(t)

	overview, err := NewOverviewService(db).GetOverview()
	require.NoError(t, err)
	assert.EqualValues(t, 0, overview.TotalPlayers)
	assert.EqualValues(t, 0, overview.TotalMatches)
	assert.Equal(t, 0, overview.FirstSeason)
	assert.Empty(t, overview.LastRunID)
}

func TestGetOverviewCountsCoverage(t *testing.T) {
	db := newTestDB(t)
	newSeedFixture(t, db).standardBracket(2023, 2025)

	service := NewRatingService(db, testLogger())
	require.NoError(t, service.SeedSeasonOne())

	overview, err := NewOverviewService(db).GetOverview()
	require.NoError(t, err)

	assert.EqualValues(t, 4, overview.TotalPlayers)
	assert.EqualValues(t, 2, overview.TotalTeams)
	assert.EqualValues(t, 2, overview.TotalTournaments)
	assert.EqualValues(t, 2, overview.TotalMatches)
	assert.EqualValues(t, 1, overview.RatedMatches)
	assert.EqualValues(t, 1, overview.PendingMatches)
	assert.Equal(t, 2023, overview.FirstSeason)
	assert.Equal(t, 2025, overview.LastSeason)
	assert.NotEmpty(t, overview.LastRunID)

	// A match without scores is not pending, only finalized ones are.
	var tournament models.Tournament
	require.NoError(t, db.Where("season = ?", 2025).First(&tournament).Error)
	var reference models.Match
	require.NoError(t, db.First(&reference).Error)
	require.NoError(t, db.Create(&models.Match{
		TournamentID: tournament.ID,
		MatchID:      "tbd",
		Team1ID:      reference.Team1ID,
		Team2ID:      reference.Team2ID,
		Status:       "upcoming",
	}).Error)

	overview, err = NewOverviewService(db).GetOverview()
	require.NoError(t, err)
	assert.EqualValues(t, 3, overview.TotalMatches)
	assert.EqualValues(t, 1, overview.PendingMatches)
}
