package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gram12321/sc2stats-sub001/models"
	"github.com/gram12321/sc2stats-sub001/ranking"
)

var (
	// ErrStoreNotEmpty means rating state already exists; an explicit wipe is
	// required before seeding or recalculating from scratch.
	ErrStoreNotEmpty = errors.New("rating state already exists, wipe before rebuilding")
	// ErrSeasonOneNotSeeded means incremental processing was requested before
	// the inaugural season was bootstrapped.
	ErrSeasonOneNotSeeded = errors.New("season one has not been seeded yet")
	// ErrNoTournaments means no tournaments have been imported.
	ErrNoTournaments = errors.New("no tournaments imported")
)

// RatingService drives the rating engine against the database: seeding the
// inaugural season, folding in newly imported matches, and rebuilding from
// scratch. Every public operation runs in a single transaction.
type RatingService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewRatingService(db *gorm.DB, log zerolog.Logger) *RatingService {
	return &RatingService{db: db, log: log}
}

// SeedSeasonOne bootstraps the earliest season with the three-pass procedure
// and marks its matches rated. It refuses when any rating state exists or any
// match of that season is already rated; those situations call for Wipe and
// a recalculation instead.
func (s *RatingService) SeedSeasonOne() error {
	count, err := s.statsCount(s.db)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrStoreNotEmpty
	}

	season, ok, err := s.minSeason(s.db)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoTournaments
	}

	var rated int64
	if err := s.seasonMatches(s.db, season).Where("matches.rated = ?", true).Count(&rated).Error; err != nil {
		return fmt.Errorf("count rated season %d matches: %w", season, err)
	}
	if rated > 0 {
		return ErrStoreNotEmpty
	}

	runID := uuid.NewString()
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	seeded, err := s.seedSeasonOneIn(tx, runID, season)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := NewRankingsService(tx).UpdateStoredRanks(); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit seeding run: %w", err)
	}

	s.log.Info().
		Int("season", season).
		Int("matches", seeded).
		Str("run_id", runID).
		Msg("season one seeded")
	return nil
}

// ProcessUnratedMatches folds every unrated finalized match of the seasons
// after the inaugural one into the rating state, in chronological order, and
// marks them rated. It returns how many matches were processed.
//
// Unrated matches belonging to the inaugural season are never touched here:
// seeding already accounts for that season in full, and feeding its matches
// through the incremental path would double-count them. Late imports into the
// inaugural season therefore require a wipe and recalculation, which the log
// points out.
func (s *RatingService) ProcessUnratedMatches() (int, error) {
	season, ok, err := s.minSeason(s.db)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	var pendingFirst int64
	if err := s.seasonMatches(s.db, season).Where("matches.rated = ?", false).Count(&pendingFirst).Error; err != nil {
		return 0, fmt.Errorf("count unrated season %d matches: %w", season, err)
	}

	count, err := s.statsCount(s.db)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		if pendingFirst > 0 {
			return 0, ErrSeasonOneNotSeeded
		}
		return 0, nil
	}
	if pendingFirst > 0 {
		s.log.Warn().
			Int64("matches", pendingFirst).
			Int("season", season).
			Msg("unrated matches in the seeded season, a wipe and recalculation is required to include them")
	}

	runID := uuid.NewString()
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	processed, err := s.processLaterSeasonsIn(tx, runID, season)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	if processed == 0 {
		tx.Rollback()
		return 0, nil
	}

	if err := NewRankingsService(tx).UpdateStoredRanks(); err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("commit processing run: %w", err)
	}

	s.log.Info().
		Int("matches", processed).
		Str("run_id", runID).
		Msg("unrated matches processed")
	return processed, nil
}

// Recalculate rebuilds all rating state from the stored match history in one
// transaction: seed the inaugural season, then process every later season in
// order. It refuses when rating state exists; Wipe is the explicit first step.
func (s *RatingService) Recalculate() error {
	count, err := s.statsCount(s.db)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrStoreNotEmpty
	}

	season, ok, err := s.minSeason(s.db)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoTournaments
	}

	runID := uuid.NewString()
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// The rebuild re-rates everything, so every rated flag is cleared first.
	if err := tx.Model(&models.Match{}).Where("rated = ?", true).Update("rated", false).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("reset rated flags: %w", err)
	}

	seeded, err := s.seedSeasonOneIn(tx, runID, season)
	if err != nil {
		tx.Rollback()
		return err
	}
	processed, err := s.processLaterSeasonsIn(tx, runID, season)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := NewRankingsService(tx).UpdateStoredRanks(); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit recalculation: %w", err)
	}

	s.log.Info().
		Int("seeded", seeded).
		Int("processed", processed).
		Str("run_id", runID).
		Msg("rating state rebuilt")
	return nil
}

// Wipe deletes all rating state (stats of every kind and the history) and
// clears the rated flag on every match. The match, player, team and
// tournament records stay untouched.
func (s *RatingService) Wipe() error {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	tables := []interface{}{
		&models.RatingHistory{},
		&models.PlayerStats{},
		&models.TeamStats{},
		&models.RaceMatchupStats{},
		&models.TeamRaceMatchupStats{},
	}
	for _, table := range tables {
		if err := tx.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("wipe %T: %w", table, err)
		}
	}

	if err := tx.Model(&models.Match{}).Where("rated = ?", true).Update("rated", false).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("reset rated flags: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit wipe: %w", err)
	}

	s.log.Info().Msg("rating state wiped")
	return nil
}

// seedSeasonOneIn runs the three-pass seeding for the given season inside tx
// and marks its matches rated.
func (s *RatingService) seedSeasonOneIn(tx *gorm.DB, runID string, season int) (int, error) {
	matches, err := s.loadFinalizedMatches(tx, "tournaments.season = ?", season)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		s.log.Warn().Int("season", season).Msg("no finalized matches to seed")
		return 0, nil
	}

	defaults, err := s.loadRaceDefaults(tx)
	if err != nil {
		return 0, err
	}

	inputs := make([]ranking.MatchInput, len(matches))
	for i, m := range matches {
		inputs[i] = matchInput(m)
	}

	store := newRatingStore(tx, runID)
	if err := ranking.SeedSeasonOne(inputs, store, defaults, s.log); err != nil {
		return 0, fmt.Errorf("seed season %d: %w", season, err)
	}

	if err := s.markRated(tx, matches); err != nil {
		return 0, err
	}
	return len(matches), nil
}

// processLaterSeasonsIn folds the unrated finalized matches of every season
// after minSeason into the store inside tx and marks them rated.
func (s *RatingService) processLaterSeasonsIn(tx *gorm.DB, runID string, minSeason int) (int, error) {
	matches, err := s.loadFinalizedMatches(tx, "tournaments.season > ? AND matches.rated = ?", minSeason, false)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}

	defaults, err := s.loadRaceDefaults(tx)
	if err != nil {
		return 0, err
	}

	inputs := make([]ranking.MatchInput, len(matches))
	for i, m := range matches {
		inputs[i] = matchInput(m)
	}
	ranking.SortChronological(inputs)

	store := newRatingStore(tx, runID)
	proc := ranking.NewProcessor(store, defaults, s.log, ranking.ProcessorOptions{RecordHistory: true})
	for _, in := range inputs {
		if _, err := proc.Process(in); err != nil {
			return 0, err
		}
	}

	if err := s.markRated(tx, matches); err != nil {
		return 0, err
	}
	return len(matches), nil
}

// loadFinalizedMatches returns the matches satisfying cond that carry both
// final scores, with rosters and tournament preloaded. Matches still missing
// a score stay unrated until a later import finalizes them.
func (s *RatingService) loadFinalizedMatches(db *gorm.DB, cond string, args ...interface{}) ([]models.Match, error) {
	var matches []models.Match
	err := db.
		Joins("JOIN tournaments ON tournaments.id = matches.tournament_id AND tournaments.deleted_at IS NULL").
		Where("matches.team1_score IS NOT NULL AND matches.team2_score IS NOT NULL").
		Where(cond, args...).
		Preload("Tournament").
		Preload("Team1.Player1").
		Preload("Team1.Player2").
		Preload("Team2.Player1").
		Preload("Team2.Player2").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	return matches, nil
}

func (s *RatingService) markRated(tx *gorm.DB, matches []models.Match) error {
	ids := make([]uint, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	if err := tx.Model(&models.Match{}).Where("id IN ?", ids).Update("rated", true).Error; err != nil {
		return fmt.Errorf("mark matches rated: %w", err)
	}
	return nil
}

// loadRaceDefaults snapshots every player's preferred race into an in-memory
// lookup for the run. Match-level race information always overrides it.
func (s *RatingService) loadRaceDefaults(db *gorm.DB) (ranking.RaceDefaults, error) {
	var players []models.Player
	if err := db.Select("name", "preferred_race").Find(&players).Error; err != nil {
		return nil, fmt.Errorf("load race defaults: %w", err)
	}

	defaults := make(map[string]ranking.Race, len(players))
	for _, p := range players {
		if r, ok := ranking.ParseRace(p.PreferredRace); ok {
			defaults[p.Name] = r
		}
	}
	return ranking.RaceDefaultsFunc(func(name string) (ranking.Race, bool) {
		r, ok := defaults[name]
		return r, ok
	}), nil
}

func (s *RatingService) statsCount(db *gorm.DB) (int64, error) {
	var total int64
	for _, table := range []interface{}{
		&models.PlayerStats{},
		&models.TeamStats{},
		&models.RaceMatchupStats{},
		&models.TeamRaceMatchupStats{},
	} {
		var count int64
		if err := db.Model(table).Count(&count).Error; err != nil {
			return 0, fmt.Errorf("count %T: %w", table, err)
		}
		total += count
	}
	return total, nil
}

// minSeason returns the earliest imported season. ok is false when no
// tournaments exist.
func (s *RatingService) minSeason(db *gorm.DB) (int, bool, error) {
	var row struct{ Season *int }
	err := db.Model(&models.Tournament{}).Select("MIN(season) AS season").Scan(&row).Error
	if err != nil {
		return 0, false, fmt.Errorf("find earliest season: %w", err)
	}
	if row.Season == nil {
		return 0, false, nil
	}
	return *row.Season, true, nil
}

func (s *RatingService) seasonMatches(db *gorm.DB, season int) *gorm.DB {
	return db.Model(&models.Match{}).
		Joins("JOIN tournaments ON tournaments.id = matches.tournament_id AND tournaments.deleted_at IS NULL").
		Where("tournaments.season = ?", season)
}

// matchInput converts a stored match into the engine's input shape. Roster
// slot order follows the team rows, whose player1 is always the
// lexicographically lower name, matching the per-slot race columns.
func matchInput(m models.Match) ranking.MatchInput {
	var tournamentDate *time.Time
	if m.Tournament.ID != 0 {
		tournamentDate = m.Tournament.StartDate
	}
	return ranking.MatchInput{
		MatchID:        m.MatchID,
		Round:          m.Round,
		BestOf:         m.BestOf,
		MatchDate:      m.MatchDate,
		TournamentDate: tournamentDate,
		Team1: []ranking.RosterEntry{
			{Name: m.Team1.Player1.Name, Race: m.Team1Player1Race},
			{Name: m.Team1.Player2.Name, Race: m.Team1Player2Race},
		},
		Team2: []ranking.RosterEntry{
			{Name: m.Team2.Player1.Name, Race: m.Team2Player1Race},
			{Name: m.Team2.Player2.Name, Race: m.Team2Player2Race},
		},
		Team1Score: m.Team1Score,
		Team2Score: m.Team2Score,
	}
}
