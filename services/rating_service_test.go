package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gram12321/sc2stats-sub001/models"
)

func TestSeedSeasonOneCreatesRatingState(t *testing.T) {
	db := newTestDB(t)
	newSeedFixture(t, db).standardBracket(2024)

	service := NewRatingService(db, testLogger())
	require.NoError(t, service.SeedSeasonOne())

	var playerStats []models.PlayerStats
	require.NoError(t, db.Order("rating DESC").Find(&playerStats).Error)
	require.Len(t, playerStats, 4)

	// The winning pair outrates the losing pair and everyone has played.
	assert.Greater(t, playerStats[0].Rating, playerStats[3].Rating)
	for _, row := range playerStats {
		assert.Equal(t, 1, row.Matches)
		assert.Greater(t, row.Confidence, 0.0)
	}

	var teamCount, raceCount, teamRaceCount int64
	require.NoError(t, db.Model(&models.TeamStats{}).Count(&teamCount).Error)
	require.NoError(t, db.Model(&models.RaceMatchupStats{}).Count(&raceCount).Error)
	require.NoError(t, db.Model(&models.TeamRaceMatchupStats{}).Count(&teamRaceCount).Error)
	assert.EqualValues(t, 2, teamCount)
	assert.Greater(t, raceCount, int64(0))
	assert.EqualValues(t, 1, teamRaceCount)

	var unrated int64
	require.NoError(t, db.Model(&models.Match{}).Where("rated = ?", false).Count(&unrated).Error)
	assert.EqualValues(t, 0, unrated)

	// Only the final pass writes history and the whole run shares one id.
	var runIDs []string
	require.NoError(t, db.Model(&models.RatingHistory{}).Distinct().Pluck("run_id", &runIDs).Error)
	require.Len(t, runIDs, 1)

	var historyCount int64
	require.NoError(t, db.Model(&models.RatingHistory{}).
		Where("entity_type = ?", "player").Count(&historyCount).Error)
	assert.EqualValues(t, 4, historyCount)
}

func TestSeedSeasonOneRefusesExistingState(t *testing.T) {
	db := newTestDB(t)
	newSeedFixture(t, db).standardBracket(2024)

	require.NoError(t, db.Create(&models.PlayerStats{PlayerName: "Ghost"}).Error)

	service := NewRatingService(db, testLogger())
	assert.ErrorIs(t, service.SeedSeasonOne(), ErrStoreNotEmpty)
}

func TestSeedSeasonOneRefusesRatedMatches(t *testing.T) {
	db := newTestDB(t)
	newSeedFixture(t, db).standardBracket(2024)

	require.NoError(t, db.Model(&models.Match{}).Where("1 = 1").Update("rated", true).Error)

	service := NewRatingService(db, testLogger())
	assert.ErrorIs(t, service.SeedSeasonOne(), ErrStoreNotEmpty)
}

func TestSeedSeasonOneNoTournaments(t *testing.T) {
	db := newTestDB(t)

	service := NewRatingService(db, testLogger())
	assert.ErrorIs(t, service.SeedSeasonOne(), ErrNoTournaments)
}

func TestSeedSeasonOneOnlyCoversEarliestSeason(t *testing.T) {
	db := newTestDB(t)
	newSeedFixture(t, db).standardBracket(2024, 2025)

	service := NewRatingService(db, testLogger())
	require.NoError(t, service.SeedSeasonOne())

	var unrated []models.Match
	require.NoError(t, db.Preload("Tournament").Where("rated = ?", false).Find(&unrated).Error)
	require.Len(t, unrated, 1)
	assert.Equal(t, 2025, unrated[0].Tournament.Season)
}

func TestProcessUnratedMatchesRequiresSeeding(t *testing.T) {
	db := newTestDB(t)
	newSeedFixture(t, db).standardBracket(2024)

	service := NewRatingService(db, testLogger())
	_, err := service.ProcessUnratedMatches()
	assert.ErrorIs(t, err, ErrSeasonOneNotSeeded)
}

func TestProcessUnratedMatchesEmptyDatabase(t *testing.T) {
	db := newTestDB(t)

	service := NewRatingService(db, testLogger())
	processed, err := service.ProcessUnratedMatches()
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
}

func TestProcessUnratedMatchesFoldsInLaterSeasons(t *testing.T) {
	db := newTestDB(t)
	newSeedFixture(t, db).standardBracket(2024, 2025)

	service := NewRatingService(db, testLogger())
	require.NoError(t, service.SeedSeasonOne())

	var before models.PlayerStats
	require.NoError(t, db.Where("player_name = ?", "Alpha").First(&before).Error)

	processed, err := service.ProcessUnratedMatches()
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	var after models.PlayerStats
	require.NoError(t, db.Where("player_name = ?", "Alpha").First(&after).Error)
	assert.Equal(t, 2, after.Matches)
	assert.Equal(t, 2, after.Wins)
	assert.Greater(t, after.Rating, before.Rating)

	var unrated int64
	require.NoError(t, db.Model(&models.Match{}).Where("rated = ?", false).Count(&unrated).Error)
	assert.EqualValues(t, 0, unrated)

	// Nothing left to do on a second run.
	processed, err = service.ProcessUnratedMatches()
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
}

func TestProcessUnratedMatchesLeavesLateSeasonOneImportsAlone(t *testing.T) {
	db := newTestDB(t)
	fixture := newSeedFixture(t, db)
	team1, team2 := fixture.standardBracket(2024)

	service := NewRatingService(db, testLogger())
	require.NoError(t, service.SeedSeasonOne())

	// A tournament of the already seeded season arrives afterwards.
	late := fixture.tournament("late_2024", 2024, "2024-11-01")
	fixture.match(late, "late_final", "Final", team2, team1, 2, 0,
		[4]string{"Protoss", "Protoss", "Terran", "Zerg"})

	processed, err := service.ProcessUnratedMatches()
	require.NoError(t, err)
	assert.Equal(t, 0, processed)

	var lateMatch models.Match
	require.NoError(t, db.Where("match_id = ?", "late_final").First(&lateMatch).Error)
	assert.False(t, lateMatch.Rated)
}

func TestProcessUnratedMatchesSkipsMatchesWithoutScores(t *testing.T) {
	db := newTestDB(t)
	fixture := newSeedFixture(t, db)
	team1, team2 := fixture.standardBracket(2024)

	service := NewRatingService(db, testLogger())
	require.NoError(t, service.SeedSeasonOne())

	upcoming := fixture.tournament("gsl_2025", 2025, "2025-03-01")
	pending := &models.Match{
		TournamentID: upcoming.ID,
		MatchID:      "gsl_2025_final",
		Round:        "Final",
		Team1ID:      team1.ID,
		Team2ID:      team2.ID,
		Status:       "upcoming",
	}
	require.NoError(t, db.Create(pending).Error)

	processed, err := service.ProcessUnratedMatches()
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
}

func TestRecalculateRefusesExistingState(t *testing.T) {
	db := newTestDB(t)
	newSeedFixture(t, db).standardBracket(2024)

	service := NewRatingService(db, testLogger())
	require.NoError(t, service.SeedSeasonOne())

	assert.ErrorIs(t, service.Recalculate(), ErrStoreNotEmpty)
}

func TestWipeThenRecalculateReproducesRatings(t *testing.T) {
	db := newTestDB(t)
	newSeedFixture(t, db).standardBracket(2024, 2025)

	service := NewRatingService(db, testLogger())
	require.NoError(t, service.SeedSeasonOne())
	processed, err := service.ProcessUnratedMatches()
	require.NoError(t, err)
	require.Equal(t, 1, processed)

	var before []models.PlayerStats
	require.NoError(t, db.Order("player_name ASC").Find(&before).Error)

	require.NoError(t, service.Wipe())
	require.NoError(t, service.Recalculate())

	var after []models.PlayerStats
	require.NoError(t, db.Order("player_name ASC").Find(&after).Error)
	require.Len(t, after, len(before))

	// The rebuild replays the same matches in the same order, so the state
	// comes out identical.
	for i := range before {
		assert.Equal(t, before[i].PlayerName, after[i].PlayerName)
		assert.InDelta(t, before[i].Rating, after[i].Rating, 1e-9)
		assert.InDelta(t, before[i].Confidence, after[i].Confidence, 1e-9)
		assert.Equal(t, before[i].Matches, after[i].Matches)
	}

	var unrated int64
	require.NoError(t, db.Model(&models.Match{}).Where("rated = ?", false).Count(&unrated).Error)
	assert.EqualValues(t, 0, unrated)
}

func TestWipeClearsRatingStateOnly(t *testing.T) {
	db := newTestDB(t)
	newSeedFixture(t, db).standardBracket(2024)

	service := NewRatingService(db, testLogger())
	require.NoError(t, service.SeedSeasonOne())
	require.NoError(t, service.Wipe())

	for _, table := range []interface{}{
		&models.PlayerStats{},
		&models.TeamStats{},
		&models.RaceMatchupStats{},
		&models.TeamRaceMatchupStats{},
		&models.RatingHistory{},
	} {
		var count int64
		require.NoError(t, db.Model(table).Count(&count).Error)
		assert.EqualValues(t, 0, count, "%T should be empty", table)
	}

	var rated int64
	require.NoError(t, db.Model(&models.Match{}).Where("rated = ?", true).Count(&rated).Error)
	assert.EqualValues(t, 0, rated)

	// The imported records themselves survive.
	var players, matches int64
	require.NoError(t, db.Model(&models.Player{}).Count(&players).Error)
	require.NoError(t, db.Model(&models.Match{}).Count(&matches).Error)
	assert.EqualValues(t, 4, players)
	assert.EqualValues(t, 1, matches)
}
