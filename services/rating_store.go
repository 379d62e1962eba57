package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gram12321/sc2stats-sub001/models"
	"github.com/gram12321/sc2stats-sub001/ranking"
)

// ratingStore adapts the stats and history tables to the engine's store
// contract. It is always constructed around a transaction handle, so a
// processing run either lands fully or not at all.
type ratingStore struct {
	db    *gorm.DB
	runID string
}

func newRatingStore(db *gorm.DB, runID string) *ratingStore {
	return &ratingStore{db: db, runID: runID}
}

func (s *ratingStore) GetOrCreate(kind ranking.EntityKind, key string, seed float64) (*ranking.Stats, error) {
	switch kind {
	case ranking.KindPlayer:
		var row models.PlayerStats
		err := s.db.Where("player_name = ?", key).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.PlayerStats{PlayerName: key, Rating: seed}
			err = s.db.Create(&row).Error
		}
		if err != nil {
			return nil, fmt.Errorf("player stats %q: %w", key, err)
		}
		return &ranking.Stats{
			Kind: kind, Key: key,
			Matches: row.Matches, Wins: row.Wins, Losses: row.Losses, Draws: row.Draws,
			Rating: row.Rating, Confidence: row.Confidence,
		}, nil

	case ranking.KindTeam:
		var row models.TeamStats
		err := s.db.Where("team_key = ?", key).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.TeamStats{TeamKey: key, Rating: seed}
			err = s.db.Create(&row).Error
		}
		if err != nil {
			return nil, fmt.Errorf("team stats %q: %w", key, err)
		}
		return &ranking.Stats{
			Kind: kind, Key: key,
			Matches: row.Matches, Wins: row.Wins, Losses: row.Losses, Draws: row.Draws,
			Rating: row.Rating, Confidence: row.Confidence,
		}, nil

	case ranking.KindRaceMatchup:
		var row models.RaceMatchupStats
		err := s.db.Where("matchup_key = ?", key).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.RaceMatchupStats{MatchupKey: key, Rating: seed}
			err = s.db.Create(&row).Error
		}
		if err != nil {
			return nil, fmt.Errorf("race matchup stats %q: %w", key, err)
		}
		return &ranking.Stats{
			Kind: kind, Key: key,
			Matches: row.Matches, Wins: row.Wins, Losses: row.Losses, Draws: row.Draws,
			Rating: row.Rating,
		}, nil
	}

	return nil, fmt.Errorf("unsupported entity kind %q", kind)
}

func (s *ratingStore) Save(stats *ranking.Stats) error {
	counters := map[string]interface{}{
		"matches": stats.Matches,
		"wins":    stats.Wins,
		"losses":  stats.Losses,
		"draws":   stats.Draws,
		"rating":  stats.Rating,
	}

	var err error
	switch stats.Kind {
	case ranking.KindPlayer:
		counters["confidence"] = stats.Confidence
		err = s.db.Model(&models.PlayerStats{}).Where("player_name = ?", stats.Key).Updates(counters).Error
	case ranking.KindTeam:
		counters["confidence"] = stats.Confidence
		err = s.db.Model(&models.TeamStats{}).Where("team_key = ?", stats.Key).Updates(counters).Error
	case ranking.KindRaceMatchup:
		err = s.db.Model(&models.RaceMatchupStats{}).Where("matchup_key = ?", stats.Key).Updates(counters).Error
	default:
		return fmt.Errorf("unsupported entity kind %q", stats.Kind)
	}
	if err != nil {
		return fmt.Errorf("save %s stats %q: %w", stats.Kind, stats.Key, err)
	}
	return nil
}

func (s *ratingStore) Ratings(kind ranking.EntityKind) ([]float64, error) {
	var ratings []float64
	var err error
	switch kind {
	case ranking.KindPlayer:
		err = s.db.Model(&models.PlayerStats{}).Pluck("rating", &ratings).Error
	case ranking.KindTeam:
		err = s.db.Model(&models.TeamStats{}).Pluck("rating", &ratings).Error
	case ranking.KindRaceMatchup:
		err = s.db.Model(&models.RaceMatchupStats{}).Pluck("rating", &ratings).Error
	case ranking.KindTeamRaceMatchup:
		// Both sides of every pairing belong to the population.
		var side2 []float64
		if err = s.db.Model(&models.TeamRaceMatchupStats{}).Pluck("side1_rating", &ratings).Error; err == nil {
			err = s.db.Model(&models.TeamRaceMatchupStats{}).Pluck("side2_rating", &side2).Error
			ratings = append(ratings, side2...)
		}
	default:
		return nil, fmt.Errorf("unsupported entity kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("ratings of kind %s: %w", kind, err)
	}
	return ratings, nil
}

func (s *ratingStore) GetOrCreateTeamRace(key, combo1, combo2 string, seed1, seed2 float64) (*ranking.TeamRaceStats, error) {
	var row models.TeamRaceMatchupStats
	err := s.db.Where("matchup_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.TeamRaceMatchupStats{
			MatchupKey: key, Combo1: combo1, Combo2: combo2,
			Side1Rating: seed1, Side2Rating: seed2,
		}
		err = s.db.Create(&row).Error
	}
	if err != nil {
		return nil, fmt.Errorf("team race matchup stats %q: %w", key, err)
	}

	return &ranking.TeamRaceStats{
		Key:    row.MatchupKey,
		Combo1: row.Combo1,
		Combo2: row.Combo2,
		Side1: ranking.Stats{
			Kind: ranking.KindTeamRaceMatchup, Key: row.MatchupKey,
			Matches: row.Side1Matches, Wins: row.Side1Wins, Losses: row.Side1Losses, Draws: row.Side1Draws,
			Rating: row.Side1Rating,
		},
		Side2: ranking.Stats{
			Kind: ranking.KindTeamRaceMatchup, Key: row.MatchupKey,
			Matches: row.Side2Matches, Wins: row.Side2Wins, Losses: row.Side2Losses, Draws: row.Side2Draws,
			Rating: row.Side2Rating,
		},
	}, nil
}

func (s *ratingStore) SaveTeamRace(stats *ranking.TeamRaceStats) error {
	err := s.db.Model(&models.TeamRaceMatchupStats{}).
		Where("matchup_key = ?", stats.Key).
		Updates(map[string]interface{}{
			"side1_matches": stats.Side1.Matches,
			"side1_wins":    stats.Side1.Wins,
			"side1_losses":  stats.Side1.Losses,
			"side1_draws":   stats.Side1.Draws,
			"side1_rating":  stats.Side1.Rating,
			"side2_matches": stats.Side2.Matches,
			"side2_wins":    stats.Side2.Wins,
			"side2_losses":  stats.Side2.Losses,
			"side2_draws":   stats.Side2.Draws,
			"side2_rating":  stats.Side2.Rating,
		}).Error
	if err != nil {
		return fmt.Errorf("save team race matchup stats %q: %w", stats.Key, err)
	}
	return nil
}

func (s *ratingStore) AppendHistory(entry ranking.HistoryEntry) error {
	row := models.RatingHistory{
		RunID:           s.runID,
		EntityType:      string(entry.Kind),
		EntityKey:       entry.Key,
		MatchID:         entry.MatchID,
		RatingBefore:    entry.RatingBefore,
		RatingAfter:     entry.RatingAfter,
		RatingChange:    entry.RatingChange,
		ConfidenceAfter: entry.ConfidenceAfter,
		ExpectedWin:     entry.ExpectedWin,
		KFactor:         entry.KFactor,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("append rating history for %s %q: %w", entry.Kind, entry.Key, err)
	}
	return nil
}
