package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gram12321/sc2stats-sub001/models"
)

type TournamentService struct {
	db *gorm.DB
}

func NewTournamentService(db *gorm.DB) *TournamentService {
	return &TournamentService{
		db: db,
	}
}

// Upsert creates the tournament or refreshes an existing one matched by its
// liquipedia slug. The caller fills in all fields, including the season.
func (s *TournamentService) Upsert(t *models.Tournament) (*models.Tournament, error) {
	var existing models.Tournament

	err := s.db.Where("liquipedia_slug = ?", t.LiquipediaSlug).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.Create(t).Error; err != nil {
			return nil, err
		}
		return t, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":       t.Name,
		"season":     t.Season,
		"start_date": t.StartDate,
		"end_date":   t.EndDate,
		"prize_pool": t.PrizePool,
		"location":   t.Location,
		"status":     t.Status,
	}
	if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &existing, nil
}

func (s *TournamentService) GetBySlug(slug string) (*models.Tournament, error) {
	var tournament models.Tournament

	result := s.db.Where("liquipedia_slug = ?", slug).First(&tournament)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tournament %q not found", slug)
		}
		return nil, result.Error
	}

	return &tournament, nil
}

// List returns all tournaments ordered by season and start date with their
// match counts.
func (s *TournamentService) List() ([]models.TournamentListItem, error) {
	var tournaments []models.Tournament
	err := s.db.Order("season ASC, start_date ASC, name ASC").Find(&tournaments).Error
	if err != nil {
		return nil, err
	}

	items := make([]models.TournamentListItem, len(tournaments))
	for i, t := range tournaments {
		var matchCount int64
		if err := s.db.Model(&models.Match{}).Where("tournament_id = ?", t.ID).Count(&matchCount).Error; err != nil {
			return nil, err
		}
		items[i] = models.TournamentListItem{
			ID:             t.ID,
			Name:           t.Name,
			LiquipediaSlug: t.LiquipediaSlug,
			Season:         t.Season,
			StartDate:      t.StartDate,
			EndDate:        t.EndDate,
			PrizePool:      t.PrizePool,
			Location:       t.Location,
			Status:         t.Status,
			NbMatches:      int(matchCount),
		}
	}

	return items, nil
}

// SeasonOf reports which season a tournament belongs to.
func (s *TournamentService) SeasonOf(slug string) (int, error) {
	t, err := s.GetBySlug(slug)
	if err != nil {
		return 0, err
	}
	return t.Season, nil
}
