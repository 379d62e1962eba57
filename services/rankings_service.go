package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gram12321/sc2stats-sub001/models"
)

// RankingsService reads the rating state back out as sorted ranking lists and
// audit detail. It never mutates ratings; UpdateStoredRanks only refreshes the
// denormalized rank columns.
type RankingsService struct {
	db *gorm.DB
}

func NewRankingsService(db *gorm.DB) *RankingsService {
	return &RankingsService{db: db}
}

// PlayerRankings lists players by rating descending, name ascending on ties.
// Players with fewer than minMatches matches are filtered out.
func (s *RankingsService) PlayerRankings(minMatches int) ([]models.PlayerRanking, error) {
	var rows []models.PlayerStats
	err := s.db.Where("matches >= ?", minMatches).
		Order("rating DESC, player_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load player rankings: %w", err)
	}

	rankings := make([]models.PlayerRanking, len(rows))
	rank := 1
	var previous float64
	for i, row := range rows {
		if i > 0 && row.Rating != previous {
			rank = i + 1
		}
		rankings[i] = models.PlayerRanking{
			Rank:       rank,
			PlayerName: row.PlayerName,
			Rating:     row.Rating,
			Confidence: row.Confidence,
			Matches:    row.Matches,
			Wins:       row.Wins,
			Losses:     row.Losses,
			Draws:      row.Draws,
			WinRate:    winRate(row.Wins, row.Matches),
		}
		previous = row.Rating
	}
	return rankings, nil
}

// TeamRankings lists teams by rating descending, team key ascending on ties.
func (s *RankingsService) TeamRankings(minMatches int) ([]models.TeamRanking, error) {
	var rows []models.TeamStats
	err := s.db.Where("matches >= ?", minMatches).
		Order("rating DESC, team_key ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load team rankings: %w", err)
	}

	rankings := make([]models.TeamRanking, len(rows))
	rank := 1
	var previous float64
	for i, row := range rows {
		if i > 0 && row.Rating != previous {
			rank = i + 1
		}
		rankings[i] = models.TeamRanking{
			Rank:       rank,
			TeamKey:    row.TeamKey,
			Rating:     row.Rating,
			Confidence: row.Confidence,
			Matches:    row.Matches,
			Wins:       row.Wins,
			Losses:     row.Losses,
			Draws:      row.Draws,
			WinRate:    winRate(row.Wins, row.Matches),
		}
		previous = row.Rating
	}
	return rankings, nil
}

// RaceMatchupRankings lists every directional race pairing by rating
// descending, key ascending on ties.
func (s *RankingsService) RaceMatchupRankings() ([]models.RaceMatchupRanking, error) {
	var rows []models.RaceMatchupStats
	err := s.db.Order("rating DESC, matchup_key ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load race matchup rankings: %w", err)
	}

	rankings := make([]models.RaceMatchupRanking, len(rows))
	for i, row := range rows {
		rankings[i] = models.RaceMatchupRanking{
			MatchupKey: row.MatchupKey,
			Rating:     row.Rating,
			Matches:    row.Matches,
			Wins:       row.Wins,
			Losses:     row.Losses,
			Draws:      row.Draws,
			WinRate:    winRate(row.Wins, row.Matches),
		}
	}
	return rankings, nil
}

// TeamRaceMatchupRankings lists the symmetric combo pairings by combo1's net
// advantage descending. Both sides of a pairing share a match count.
func (s *RankingsService) TeamRaceMatchupRankings() ([]models.TeamRaceMatchupRanking, error) {
	var rows []models.TeamRaceMatchupStats
	err := s.db.Order("(side1_rating - side2_rating) DESC, matchup_key ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load team race matchup rankings: %w", err)
	}

	rankings := make([]models.TeamRaceMatchupRanking, len(rows))
	for i, row := range rows {
		rankings[i] = models.TeamRaceMatchupRanking{
			MatchupKey: row.MatchupKey,
			Combo1:     row.Combo1,
			Combo2:     row.Combo2,
			NetRating:  row.NetRating(),
			Matches:    row.Side1Matches,
			Side1Wins:  row.Side1Wins,
			Side2Wins:  row.Side2Wins,
			Draws:      row.Side1Draws,
		}
	}
	return rankings, nil
}

// MatchCalculation returns every history row a match produced, in the order
// they were written, enough to reconstruct why each touched entity moved.
func (s *RankingsService) MatchCalculation(matchID string) ([]models.RatingHistory, error) {
	var rows []models.RatingHistory
	err := s.db.Where("match_id = ?", matchID).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load calculation detail for match %q: %w", matchID, err)
	}
	return rows, nil
}

// EntityTimeline returns one entity's full rating trajectory in processing
// order.
func (s *RankingsService) EntityTimeline(entityType, entityKey string) ([]models.RatingHistory, error) {
	var rows []models.RatingHistory
	err := s.db.Where("entity_type = ? AND entity_key = ?", entityType, entityKey).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load timeline for %s %q: %w", entityType, entityKey, err)
	}
	return rows, nil
}

// RecentChanges returns the latest history rows, newest first.
func (s *RankingsService) RecentChanges(limit int) ([]models.RatingHistory, error) {
	var rows []models.RatingHistory
	err := s.db.Order("id DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load recent rating changes: %w", err)
	}
	return rows, nil
}

// UpdateStoredRanks refreshes the denormalized rank columns on the player and
// team stats tables. Equal ratings share a rank.
func (s *RankingsService) UpdateStoredRanks() error {
	var players []models.PlayerStats
	if err := s.db.Order("rating DESC, player_name ASC").Find(&players).Error; err != nil {
		return fmt.Errorf("load player stats for ranking: %w", err)
	}

	rank := 1
	var previous float64
	for i, row := range players {
		if i > 0 && row.Rating != previous {
			rank = i + 1
		}
		if row.Rank != rank {
			if err := s.db.Model(&models.PlayerStats{}).Where("id = ?", row.ID).Update("rank", rank).Error; err != nil {
				return fmt.Errorf("update player rank: %w", err)
			}
		}
		previous = row.Rating
	}

	var teams []models.TeamStats
	if err := s.db.Order("rating DESC, team_key ASC").Find(&teams).Error; err != nil {
		return fmt.Errorf("load team stats for ranking: %w", err)
	}

	rank = 1
	previous = 0
	for i, row := range teams {
		if i > 0 && row.Rating != previous {
			rank = i + 1
		}
		if row.Rank != rank {
			if err := s.db.Model(&models.TeamStats{}).Where("id = ?", row.ID).Update("rank", rank).Error; err != nil {
				return fmt.Errorf("update team rank: %w", err)
			}
		}
		previous = row.Rating
	}

	return nil
}

func winRate(wins, matches int) float64 {
	if matches == 0 {
		return 0
	}
	return float64(wins) / float64(matches) * 100
}
