package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gram12321/sc2stats-sub001/models"
)

type PlayerService struct {
	db *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{
		db: db,
	}
}

func (s *PlayerService) GetPlayerByName(name string) (*models.Player, error) {
	var player models.Player

	result := s.db.Where("name = ?", name).First(&player)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("player %q not found", name)
		}
		return nil, result.Error
	}

	return &player, nil
}

// CreateIfMissing returns the player with the given name, creating the record
// when it does not exist. A re-import may fill in identity fields that were
// empty the first time, but never overwrites ones already set.
func (s *PlayerService) CreateIfMissing(name, liquipediaSlug, nationality, preferredRace string) (*models.Player, bool, error) {
	var player models.Player

	err := s.db.Where("name = ?", name).First(&player).Error
	if err == nil {
		updates := make(map[string]interface{})
		if player.LiquipediaSlug == "" && liquipediaSlug != "" {
			updates["liquipedia_slug"] = liquipediaSlug
		}
		if player.Nationality == "" && nationality != "" {
			updates["nationality"] = nationality
		}
		if player.PreferredRace == "" && preferredRace != "" {
			updates["preferred_race"] = preferredRace
		}
		if len(updates) > 0 {
			if err := s.db.Model(&player).Updates(updates).Error; err != nil {
				return nil, false, err
			}
		}
		return &player, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	player = models.Player{
		Name:           name,
		LiquipediaSlug: liquipediaSlug,
		Nationality:    nationality,
		PreferredRace:  preferredRace,
	}
	if err := s.db.Create(&player).Error; err != nil {
		return nil, false, err
	}

	return &player, true, nil
}

func (s *PlayerService) GetAllPlayers() ([]models.Player, error) {
	var players []models.Player

	result := s.db.Order("name ASC").Find(&players)
	if result.Error != nil {
		return nil, result.Error
	}

	return players, nil
}

// GetPlayerProfile bundles a player's identity with their rating state.
// The stats pointer is nil for a player who has not been rated yet.
func (s *PlayerService) GetPlayerProfile(name string) (*models.Player, *models.PlayerStats, error) {
	player, err := s.GetPlayerByName(name)
	if err != nil {
		return nil, nil, err
	}

	var stats models.PlayerStats
	err = s.db.Where("player_name = ?", name).First(&stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return player, nil, nil
		}
		return nil, nil, err
	}

	return player, &stats, nil
}
