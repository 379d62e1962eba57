package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gram12321/sc2stats-sub001/models"
)

// newTestDB opens an in-memory SQLite database scoped to the test name and
// migrates the full schema into it.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Tournament{},
		&models.Player{},
		&models.Team{},
		&models.Match{},
		&models.Game{},
		&models.PlayerStats{},
		&models.TeamStats{},
		&models.RaceMatchupStats{},
		&models.TeamRaceMatchupStats{},
		&models.RatingHistory{},
		&models.ImportBatch{},
	)
	require.NoError(t, err)

	return db
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func datePtr(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return &d
}

func intPtr(v int) *int {
	return &v
}

// seedFixture writes a small two-season bracket straight through the
// services so the rating tests exercise real rows.
type seedFixture struct {
	t  *testing.T
	db *gorm.DB
}

func newSeedFixture(t *testing.T, db *gorm.DB) *seedFixture {
	return &seedFixture{t: t, db: db}
}

func (f *seedFixture) tournament(slug string, season int, start string) *models.Tournament {
	f.t.Helper()

	tournament, err := NewTournamentService(f.db).Upsert(&models.Tournament{
		Name:           slug,
		LiquipediaSlug: slug,
		Season:         season,
		StartDate:      datePtr(f.t, start),
		Status:         "completed",
	})
	require.NoError(f.t, err)
	return tournament
}

func (f *seedFixture) player(name, race string) *models.Player {
	f.t.Helper()

	player, _, err := NewPlayerService(f.db).CreateIfMissing(name, "", "", race)
	require.NoError(f.t, err)
	return player
}

func (f *seedFixture) team(nameA, nameB string) *models.Team {
	f.t.Helper()

	team, _, err := NewTeamService(f.db).GetOrCreateTeam(nameA, nameB)
	require.NoError(f.t, err)
	return team
}

// match stores a finished match between two existing teams. Races follow
// the team key order.
func (f *seedFixture) match(tournament *models.Tournament, matchID, round string,
	team1, team2 *models.Team, score1, score2 int, races [4]string) *models.Match {
	f.t.Helper()

	m := &models.Match{
		TournamentID:     tournament.ID,
		MatchID:          matchID,
		Round:            round,
		BestOf:           3,
		MatchDate:        tournament.StartDate,
		Team1ID:          team1.ID,
		Team2ID:          team2.ID,
		Team1Score:       intPtr(score1),
		Team2Score:       intPtr(score2),
		Team1Player1Race: races[0],
		Team1Player2Race: races[1],
		Team2Player1Race: races[2],
		Team2Player2Race: races[3],
		Status:           "completed",
	}
	require.NoError(f.t, f.db.Create(m).Error)
	return m
}

// standardBracket creates four players, two teams and one rated-ready match
// per season given. It returns the teams for further matches.
func (f *seedFixture) standardBracket(seasons ...int) (*models.Team, *models.Team) {
	f.t.Helper()

	f.player("Alpha", "Terran")
	f.player("Bravo", "Zerg")
	f.player("Charlie", "Protoss")
	f.player("Delta", "Protoss")

	team1 := f.team("Alpha", "Bravo")
	team2 := f.team("Charlie", "Delta")

	for _, season := range seasons {
		slug := fmt.Sprintf("gsl_%d", season)
		tournament := f.tournament(slug, season, fmt.Sprintf("%d-03-01", season))
		f.match(tournament, slug+"_final", "Final", team1, team2, 2, 1,
			[4]string{"Terran", "Zerg", "Protoss", "Protoss"})
	}
	return team1, team2
}
