package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/gram12321/sc2stats-sub001/models"
)

type OverviewService struct {
	db *gorm.DB
}

func NewOverviewService(db *gorm.DB) *OverviewService {
	return &OverviewService{
		db: db,
	}
}

// GetOverview counts what has been imported and how much of it the rating
// state already covers. Pending matches are finalized but not yet rated.
func (s *OverviewService) GetOverview() (*models.Overview, error) {
	overview := &models.Overview{}

	if err := s.db.Model(&models.Player{}).Count(&overview.TotalPlayers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Team{}).Count(&overview.TotalTeams).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Tournament{}).Count(&overview.TotalTournaments).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Match{}).Count(&overview.TotalMatches).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Match{}).Where("rated = ?", true).Count(&overview.RatedMatches).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Match{}).
		Where("rated = ? AND team1_score IS NOT NULL AND team2_score IS NOT NULL", false).
		Count(&overview.PendingMatches).Error; err != nil {
		return nil, err
	}

	type seasonSpan struct {
		First *int
		Last  *int
	}
	var span seasonSpan
	if err := s.db.Model(&models.Tournament{}).
		Select("MIN(season) AS first, MAX(season) AS last").
		Scan(&span).Error; err != nil {
		return nil, err
	}
	if span.First != nil {
		overview.FirstSeason = *span.First
		overview.LastSeason = *span.Last
	}

	var lastRun models.RatingHistory
	err := s.db.Order("id DESC").First(&lastRun).Error
	if err == nil {
		overview.LastRunID = lastRun.RunID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return overview, nil
}
