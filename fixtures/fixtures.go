package fixtures

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gram12321/sc2stats-sub001/models"
	"github.com/gram12321/sc2stats-sub001/ranking"
)

// Fixtures fills the database with a small plausible tournament scene: a
// pro player pool, stable duos and two seasons of bracket play. It writes
// source data only; ratings come from running the real pipeline on top.
type Fixtures struct {
	db  *gorm.DB
	log zerolog.Logger
	rng *rand.Rand
}

func NewFixtures(db *gorm.DB, log zerolog.Logger) *Fixtures {
	return &Fixtures{
		db:  db,
		log: log,
		// Fixed seed so repeated runs build the same scene.
		rng: rand.New(rand.NewSource(20240301)),
	}
}

type proPlayer struct {
	name        string
	nationality string
	race        string
}

var proPlayers = []proPlayer{
	{"Maru", "KR", "Terran"},
	{"Cure", "KR", "Terran"},
	{"ByuN", "KR", "Terran"},
	{"Clem", "FR", "Terran"},
	{"HeroMarine", "DE", "Terran"},
	{"Dark", "KR", "Zerg"},
	{"Rogue", "KR", "Zerg"},
	{"Serral", "FI", "Zerg"},
	{"Reynor", "IT", "Zerg"},
	{"Elazer", "PL", "Zerg"},
	{"Zest", "KR", "Protoss"},
	{"Stats", "KR", "Protoss"},
	{"herO", "KR", "Protoss"},
	{"Classic", "KR", "Protoss"},
	{"ShoWTimE", "DE", "Protoss"},
	{"MaxPax", "DK", "Protoss"},
}

var mapPool = []string{
	"Rhoskallian",
	"Emerald City",
	"Nightscape",
	"Heavy Artillery",
	"Hannibal Sector",
	"Reclamation",
}

// GenerateTestData creates 16 players, 8 duos and two seasons with two
// bracket tournaments each.
func (f *Fixtures) GenerateTestData() error {
	f.log.Info().Msg("starting fixtures generation")

	players, err := f.generatePlayers()
	if err != nil {
		return fmt.Errorf("failed to generate players: %w", err)
	}

	teams, err := f.generateTeams(players)
	if err != nil {
		return fmt.Errorf("failed to generate teams: %w", err)
	}

	matches := 0
	for _, season := range []int{2023, 2024} {
		for i, slug := range []string{"spring", "fall"} {
			created, err := f.generateTournament(season, slug, i, teams)
			if err != nil {
				return fmt.Errorf("failed to generate %s %d: %w", slug, season, err)
			}
			matches += created
		}
	}

	f.log.Info().
		Int("players", len(players)).
		Int("teams", len(teams)).
		Int("matches", matches).
		Msg("fixtures generated")
	return nil
}

func (f *Fixtures) generatePlayers() ([]models.Player, error) {
	players := make([]models.Player, len(proPlayers))
	for i, pro := range proPlayers {
		players[i] = models.Player{
			Name:          pro.name,
			Nationality:   pro.nationality,
			PreferredRace: pro.race,
		}
		if err := f.db.Create(&players[i]).Error; err != nil {
			return nil, err
		}
	}
	f.log.Info().Int("players", len(players)).Msg("created player pool")
	return players, nil
}

// generateTeams pairs the players into 8 stable duos that persist across
// every generated tournament.
func (f *Fixtures) generateTeams(players []models.Player) ([]models.Team, error) {
	shuffled := make([]models.Player, len(players))
	copy(shuffled, players)
	f.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	teams := make([]models.Team, 0, len(shuffled)/2)
	for i := 0; i+1 < len(shuffled); i += 2 {
		first, second := shuffled[i], shuffled[i+1]
		if second.Name < first.Name {
			first, second = second, first
		}

		team := models.Team{
			TeamKey:   ranking.TeamKey(first.Name, second.Name),
			Name:      fmt.Sprintf("%s & %s", first.Name, second.Name),
			Player1ID: first.ID,
			Player2ID: second.ID,
		}
		if err := f.db.Create(&team).Error; err != nil {
			return nil, err
		}
		team.Player1 = first
		team.Player2 = second
		teams = append(teams, team)
	}

	f.log.Info().Int("teams", len(teams)).Msg("created duos")
	return teams, nil
}

// generateTournament runs one single-elimination bracket over all 8 teams
// and stores the tournament, its matches and their games. It returns how
// many matches it created.
func (f *Fixtures) generateTournament(season int, slug string, half int, teams []models.Team) (int, error) {
	start := time.Date(season, time.Month(3+half*6), 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	tournament := models.Tournament{
		Name:           fmt.Sprintf("Team StarLeague %s %d", titleCase(slug), season),
		LiquipediaSlug: fmt.Sprintf("tsl_%s_%d", slug, season),
		Season:         season,
		StartDate:      &start,
		EndDate:        &end,
		Location:       "Online",
		Status:         "completed",
	}
	if err := f.db.Create(&tournament).Error; err != nil {
		return 0, err
	}

	bracket := make([]models.Team, len(teams))
	copy(bracket, teams)
	f.rng.Shuffle(len(bracket), func(i, j int) {
		bracket[i], bracket[j] = bracket[j], bracket[i]
	})

	created := 0
	rounds := []struct {
		name   string
		slug   string
		bestOf int
		day    int
	}{
		{"Quarterfinals", "qf", 3, 0},
		{"Semifinals", "sf", 3, 1},
		{"Grand Final", "final", 5, 2},
	}

	for _, round := range rounds {
		date := start.AddDate(0, 0, round.day)
		var winners []models.Team

		for i := 0; i+1 < len(bracket); i += 2 {
			team1, team2 := bracket[i], bracket[i+1]
			matchID := fmt.Sprintf("%s_%s_%d", tournament.LiquipediaSlug, round.slug, i/2+1)

			team1Wins := f.rng.Intn(2) == 0
			if err := f.createMatch(tournament, matchID, round.name, round.bestOf, date, team1, team2, team1Wins); err != nil {
				return created, err
			}
			created++

			if team1Wins {
				winners = append(winners, team1)
			} else {
				winners = append(winners, team2)
			}
		}
		bracket = winners
	}

	f.log.Info().Str("tournament", tournament.LiquipediaSlug).Int("matches", created).Msg("created bracket")
	return created, nil
}

func (f *Fixtures) createMatch(tournament models.Tournament, matchID, round string, bestOf int,
	date time.Time, team1, team2 models.Team, team1Wins bool) error {

	needed := bestOf/2 + 1
	loserScore := f.rng.Intn(needed)
	score1, score2 := needed, loserScore
	if !team1Wins {
		score1, score2 = loserScore, needed
	}

	match := models.Match{
		TournamentID:     tournament.ID,
		MatchID:          matchID,
		Round:            round,
		BestOf:           bestOf,
		MatchDate:        &date,
		Team1ID:          team1.ID,
		Team2ID:          team2.ID,
		Team1Score:       &score1,
		Team2Score:       &score2,
		Team1Player1Race: team1.Player1.PreferredRace,
		Team1Player2Race: team1.Player2.PreferredRace,
		Team2Player1Race: team2.Player1.PreferredRace,
		Team2Player2Race: team2.Player2.PreferredRace,
		Status:           "completed",
	}
	if err := f.db.Create(&match).Error; err != nil {
		return err
	}

	// Interleave the loser's game wins, keeping the decider for the winner.
	winnerID, loserID := team1.ID, team2.ID
	gamesWon, gamesLost := score1, score2
	if !team1Wins {
		winnerID, loserID = team2.ID, team1.ID
		gamesWon, gamesLost = score2, score1
	}

	gameWinners := make([]uint, 0, gamesWon+gamesLost)
	for i := 0; i < gamesWon-1; i++ {
		gameWinners = append(gameWinners, winnerID)
	}
	for i := 0; i < gamesLost; i++ {
		gameWinners = append(gameWinners, loserID)
	}
	f.rng.Shuffle(len(gameWinners), func(i, j int) {
		gameWinners[i], gameWinners[j] = gameWinners[j], gameWinners[i]
	})
	gameWinners = append(gameWinners, winnerID)

	for i, id := range gameWinners {
		winner := id
		game := models.Game{
			MatchRowID:   match.ID,
			GameNumber:   i + 1,
			Map:          mapPool[f.rng.Intn(len(mapPool))],
			WinnerTeamID: &winner,
		}
		if err := f.db.Create(&game).Error; err != nil {
			return err
		}
	}

	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// ClearAllData removes everything the generator or an import created,
// rating state included.
func (f *Fixtures) ClearAllData() error {
	f.log.Info().Msg("clearing all fixture data")

	// Delete in dependency order so foreign keys never block.
	tables := []interface{}{
		&models.RatingHistory{},
		&models.ImportBatch{},
		&models.PlayerStats{},
		&models.TeamStats{},
		&models.RaceMatchupStats{},
		&models.TeamRaceMatchupStats{},
		&models.Game{},
		&models.Match{},
		&models.Team{},
		&models.Player{},
		&models.Tournament{},
	}

	for _, table := range tables {
		if err := f.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear table %T: %w", table, err)
		}
	}

	// Reset auto-increment sequences to start from 1.
	sequences := []string{
		"ALTER SEQUENCE rating_history_id_seq RESTART WITH 1",
		"ALTER SEQUENCE player_stats_id_seq RESTART WITH 1",
		"ALTER SEQUENCE team_stats_id_seq RESTART WITH 1",
		"ALTER SEQUENCE race_matchup_stats_id_seq RESTART WITH 1",
		"ALTER SEQUENCE team_race_matchup_stats_id_seq RESTART WITH 1",
		"ALTER SEQUENCE games_id_seq RESTART WITH 1",
		"ALTER SEQUENCE matches_id_seq RESTART WITH 1",
		"ALTER SEQUENCE teams_id_seq RESTART WITH 1",
		"ALTER SEQUENCE players_id_seq RESTART WITH 1",
		"ALTER SEQUENCE tournaments_id_seq RESTART WITH 1",
	}

	for _, seq := range sequences {
		f.db.Exec(seq)
	}

	f.log.Info().Msg("all fixture data cleared")
	return nil
}
