package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/gram12321/sc2stats-sub001/models"
)

// parseWorkers bounds how many import files are decoded concurrently.
const parseWorkers = 4

// ImportFile is the JSON document produced by the tournament scraper,
// one file per tournament.
type ImportFile struct {
	Tournament TournamentImport `json:"tournament"`
	Players    []PlayerImport   `json:"players"`
	Matches    []MatchImport    `json:"matches"`
}

type TournamentImport struct {
	Name           string          `json:"name"`
	LiquipediaSlug string          `json:"liquipedia_slug"`
	StartDate      *string         `json:"start_date"`
	EndDate        *string         `json:"end_date"`
	PrizePool      decimal.Decimal `json:"prize_pool"`
	Location       string          `json:"location"`
	Status         string          `json:"status"`
}

type PlayerImport struct {
	Name           string `json:"name"`
	LiquipediaSlug string `json:"liquipedia_slug"`
	Nationality    string `json:"nationality"`
	PreferredRace  string `json:"preferred_race"`
}

type RosterEntryImport struct {
	Name string `json:"name"`
	Race string `json:"race"`
}

type GameImport struct {
	GameNumber int    `json:"game_number"`
	Map        string `json:"map_name"`
	Winner     *int   `json:"winner"` // 1 or 2, nil when unknown
}

type MatchImport struct {
	MatchID    string              `json:"match_id"`
	Round      string              `json:"round"`
	BestOf     int                 `json:"best_of"`
	MatchDate  *string             `json:"match_date"`
	Team1      []RosterEntryImport `json:"team1"`
	Team2      []RosterEntryImport `json:"team2"`
	Team1Score *int                `json:"team1_score"`
	Team2Score *int                `json:"team2_score"`
	Status     string              `json:"status"`
	Games      []GameImport        `json:"games"`
}

type ImportService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewImportService(db *gorm.DB, log zerolog.Logger) *ImportService {
	return &ImportService{
		db:  db,
		log: log,
	}
}

// ImportFiles ingests a set of tournament export files. Files are parsed
// concurrently, then applied one at a time so each file gets its own
// transaction and tournaments land in the order given. A broken file fails
// its own batch without stopping the rest; the returned error summarizes
// how many files failed.
func (s *ImportService) ImportFiles(paths []string) ([]models.ImportBatch, error) {
	parsed := make([]*ImportFile, len(paths))
	parseErrs := make([]error, len(paths))

	var group errgroup.Group
	group.SetLimit(parseWorkers)
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			file, err := parseImportFile(path)
			if err != nil {
				parseErrs[i] = err
				return nil
			}
			parsed[i] = file
			return nil
		})
	}
	// Workers never return errors, they stash them per file instead so one
	// bad file cannot cancel the others.
	_ = group.Wait()

	batches := make([]models.ImportBatch, 0, len(paths))
	failed := 0

	for i, path := range paths {
		batch := models.ImportBatch{
			ID:         uuid.NewString(),
			SourceFile: path,
			Status:     "pending",
		}
		if err := s.db.Create(&batch).Error; err != nil {
			return batches, fmt.Errorf("create import batch for %s: %w", path, err)
		}

		var err error
		if parseErrs[i] != nil {
			err = parseErrs[i]
		} else {
			batch.TournamentSlug = parsed[i].Tournament.LiquipediaSlug
			err = s.importOne(parsed[i], &batch)
		}

		if err != nil {
			failed++
			batch.Status = "failed"
			batch.Error = err.Error()
			s.log.Error().Err(err).Str("file", path).Msg("import failed")
		} else {
			batch.Status = "completed"
			s.log.Info().
				Str("file", path).
				Str("tournament", batch.TournamentSlug).
				Int("players_created", batch.PlayersCreated).
				Int("teams_created", batch.TeamsCreated).
				Int("matches_created", batch.MatchesCreated).
				Int("matches_skipped", batch.MatchesSkipped).
				Msg("import completed")
		}

		if err := s.db.Model(&models.ImportBatch{}).
			Where("id = ?", batch.ID).
			Updates(map[string]interface{}{
				"tournament_slug": batch.TournamentSlug,
				"players_created": batch.PlayersCreated,
				"teams_created":   batch.TeamsCreated,
				"matches_created": batch.MatchesCreated,
				"matches_skipped": batch.MatchesSkipped,
				"status":          batch.Status,
				"error":           batch.Error,
			}).Error; err != nil {
			return batches, fmt.Errorf("update import batch %s: %w", batch.ID, err)
		}

		batches = append(batches, batch)
	}

	if failed > 0 {
		return batches, fmt.Errorf("%d of %d import files failed", failed, len(paths))
	}
	return batches, nil
}

// importOne applies a parsed file inside a single transaction. The batch
// counters are filled in as a side effect and are only meaningful when the
// returned error is nil.
func (s *ImportService) importOne(file *ImportFile, batch *models.ImportBatch) error {
	if file.Tournament.Name == "" || file.Tournament.LiquipediaSlug == "" {
		return fmt.Errorf("tournament name and liquipedia_slug are required")
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	tournamentService := NewTournamentService(tx)
	playerService := NewPlayerService(tx)
	teamService := NewTeamService(tx)

	startDate := parseDate(file.Tournament.StartDate)
	endDate := parseDate(file.Tournament.EndDate)

	season, err := deriveSeason(file, startDate, endDate)
	if err != nil {
		tx.Rollback()
		return err
	}

	status := file.Tournament.Status
	if status == "" {
		status = "completed"
	}

	tournament, err := tournamentService.Upsert(&models.Tournament{
		Name:           file.Tournament.Name,
		LiquipediaSlug: file.Tournament.LiquipediaSlug,
		Season:         season,
		StartDate:      startDate,
		EndDate:        endDate,
		PrizePool:      file.Tournament.PrizePool,
		Location:       file.Tournament.Location,
		Status:         status,
	})
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("upsert tournament %s: %w", file.Tournament.LiquipediaSlug, err)
	}

	for _, p := range file.Players {
		if p.Name == "" {
			continue
		}
		_, created, err := playerService.CreateIfMissing(p.Name, p.LiquipediaSlug, p.Nationality, p.PreferredRace)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("import player %s: %w", p.Name, err)
		}
		if created {
			batch.PlayersCreated++
		}
	}

	for _, m := range file.Matches {
		if err := s.importMatch(tx, playerService, teamService, tournament, m, batch); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit import of %s: %w", file.Tournament.LiquipediaSlug, err)
	}
	return nil
}

func (s *ImportService) importMatch(tx *gorm.DB, playerService *PlayerService, teamService *TeamService,
	tournament *models.Tournament, m MatchImport, batch *models.ImportBatch) error {

	if len(m.Team1) != 2 || len(m.Team2) != 2 {
		s.log.Warn().
			Str("tournament", tournament.LiquipediaSlug).
			Str("match_id", m.MatchID).
			Msg("skipping match without two players per side")
		batch.MatchesSkipped++
		return nil
	}
	for _, entry := range append(append([]RosterEntryImport{}, m.Team1...), m.Team2...) {
		if entry.Name == "" {
			s.log.Warn().
				Str("tournament", tournament.LiquipediaSlug).
				Str("match_id", m.MatchID).
				Msg("skipping match with unnamed roster slot")
			batch.MatchesSkipped++
			return nil
		}
	}

	for _, entry := range m.Team1 {
		if _, created, err := playerService.CreateIfMissing(entry.Name, "", "", entry.Race); err != nil {
			return fmt.Errorf("import roster player %s: %w", entry.Name, err)
		} else if created {
			batch.PlayersCreated++
		}
	}
	for _, entry := range m.Team2 {
		if _, created, err := playerService.CreateIfMissing(entry.Name, "", "", entry.Race); err != nil {
			return fmt.Errorf("import roster player %s: %w", entry.Name, err)
		} else if created {
			batch.PlayersCreated++
		}
	}

	team1, created1, err := teamService.GetOrCreateTeam(m.Team1[0].Name, m.Team1[1].Name)
	if err != nil {
		return fmt.Errorf("match %s team1: %w", m.MatchID, err)
	}
	team2, created2, err := teamService.GetOrCreateTeam(m.Team2[0].Name, m.Team2[1].Name)
	if err != nil {
		return fmt.Errorf("match %s team2: %w", m.MatchID, err)
	}
	if created1 {
		batch.TeamsCreated++
	}
	if created2 {
		batch.TeamsCreated++
	}

	// Race columns follow the team key order, so swap the incoming races
	// when the file listed the higher name first.
	t1r1, t1r2 := m.Team1[0].Race, m.Team1[1].Race
	if team1.Player1.Name != m.Team1[0].Name {
		t1r1, t1r2 = t1r2, t1r1
	}
	t2r1, t2r2 := m.Team2[0].Race, m.Team2[1].Race
	if team2.Player1.Name != m.Team2[0].Name {
		t2r1, t2r2 = t2r2, t2r1
	}

	matchDate := parseDate(m.MatchDate)
	matchStatus := m.Status
	if matchStatus == "" {
		matchStatus = "completed"
	}

	var existing models.Match
	err = tx.Where("tournament_id = ? AND match_id = ?", tournament.ID, m.MatchID).First(&existing).Error
	if err == nil {
		// Re-import of a known match. Results may only be filled in while
		// the match has not entered the rating record yet.
		if existing.Rated {
			batch.MatchesSkipped++
			return nil
		}
		updates := map[string]interface{}{
			"round":              m.Round,
			"best_of":            m.BestOf,
			"match_date":         matchDate,
			"team1_score":        m.Team1Score,
			"team2_score":        m.Team2Score,
			"team1_player1_race": t1r1,
			"team1_player2_race": t1r2,
			"team2_player1_race": t2r1,
			"team2_player2_race": t2r2,
			"status":             matchStatus,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("refresh match %s: %w", m.MatchID, err)
		}
		batch.MatchesSkipped++
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up match %s: %w", m.MatchID, err)
	}

	match := models.Match{
		TournamentID:     tournament.ID,
		MatchID:          m.MatchID,
		Round:            m.Round,
		BestOf:           m.BestOf,
		MatchDate:        matchDate,
		Team1ID:          team1.ID,
		Team2ID:          team2.ID,
		Team1Score:       m.Team1Score,
		Team2Score:       m.Team2Score,
		Team1Player1Race: t1r1,
		Team1Player2Race: t1r2,
		Team2Player1Race: t2r1,
		Team2Player2Race: t2r2,
		Status:           matchStatus,
	}
	if err := tx.Create(&match).Error; err != nil {
		return fmt.Errorf("create match %s: %w", m.MatchID, err)
	}

	for _, g := range m.Games {
		game := models.Game{
			MatchRowID: match.ID,
			GameNumber: g.GameNumber,
			Map:        g.Map,
		}
		if g.Winner != nil {
			switch *g.Winner {
			case 1:
				id := team1.ID
				game.WinnerTeamID = &id
			case 2:
				id := team2.ID
				game.WinnerTeamID = &id
			}
		}
		if err := tx.Create(&game).Error; err != nil {
			return fmt.Errorf("create game %d of match %s: %w", g.GameNumber, m.MatchID, err)
		}
	}

	batch.MatchesCreated++
	return nil
}

func parseImportFile(path string) (*ImportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var file ImportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &file, nil
}

// parseDate accepts the scraper's plain dates and full timestamps.
func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", *s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return &t
	}
	return nil
}

// deriveSeason resolves the calendar year a tournament belongs to. Export
// files do not carry it directly, so it falls back from the start date to
// the end date to the earliest dated match.
func deriveSeason(file *ImportFile, startDate, endDate *time.Time) (int, error) {
	if startDate != nil {
		return startDate.Year(), nil
	}
	if endDate != nil {
		return endDate.Year(), nil
	}

	var earliest *time.Time
	for _, m := range file.Matches {
		d := parseDate(m.MatchDate)
		if d == nil {
			continue
		}
		if earliest == nil || d.Before(*earliest) {
			earliest = d
		}
	}
	if earliest != nil {
		return earliest.Year(), nil
	}
	return 0, fmt.Errorf("cannot derive season for tournament %s, no dates in file", file.Tournament.LiquipediaSlug)
}
