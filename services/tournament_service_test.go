package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gram12321/sc2stats-sub001/models"
)

func TestTournamentUpsert(t *testing.T) {
	db := newTestDB(t)
	service := NewTournamentService(db)

	created, err := service.Upsert(&models.Tournament{
		Name:           "GSL Team League",
		LiquipediaSlug: "gsl_team_league_2024",
		Season:         2024,
		Status:         "ongoing",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	// Upserting the same slug refreshes the row in place.
	updated, err := service.Upsert(&models.Tournament{
		Name:           "GSL Team League 2024",
		LiquipediaSlug: "gsl_team_league_2024",
		Season:         2024,
		PrizePool:      decimal.NewFromInt(100000),
		Status:         "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	stored, err := service.GetBySlug("gsl_team_league_2024")
	require.NoError(t, err)
	assert.Equal(t, "GSL Team League 2024", stored.Name)
	assert.Equal(t, "completed", stored.Status)
	assert.True(t, stored.PrizePool.Equal(decimal.NewFromInt(100000)))

	var count int64
	require.NoError(t, db.Model(&models.Tournament{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestTournamentListWithMatchCounts(t *testing.T) {
	db := newTestDB(t)
	fixture := newSeedFixture(t, db)
	fixture.standardBracket(2024, 2025)

	items, err := NewTournamentService(db).List()
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, 2024, items[0].Season)
	assert.Equal(t, 1, items[0].NbMatches)
	assert.Equal(t, 2025, items[1].Season)
	assert.Equal(t, 1, items[1].NbMatches)
}

func TestTournamentSeasonOf(t *testing.T) {
	db := newTestDB(t)
	fixture := newSeedFixture(t, db)
	fixture.tournament("iem_katowice_2023", 2023, "2023-02-01")

	season, err := NewTournamentService(db).SeasonOf("iem_katowice_2023")
	require.NoError(t, err)
	assert.Equal(t, 2023, season)

	_, err = NewTournamentService(db).SeasonOf("unknown")
	assert.ErrorContains(t, err, "not found")
}
