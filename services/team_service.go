package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gram12321/sc2stats-sub001/models"
	"github.com/gram12321/sc2stats-sub001/ranking"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{
		db: db,
	}
}

// GetOrCreateTeam returns the team for the two named players, creating it on
// first sight. The stored player1 is always the lexicographically lower name,
// so roster slot order is deterministic no matter how a source file lists the
// pair. Both players must already exist.
func (s *TeamService) GetOrCreateTeam(nameA, nameB string) (*models.Team, bool, error) {
	if nameA == nameB {
		return nil, false, errors.New("a team cannot have the same player twice")
	}

	key := ranking.TeamKey(nameA, nameB)

	var team models.Team
	err := s.db.Preload("Player1").Preload("Player2").Where("team_key = ?", key).First(&team).Error
	if err == nil {
		return &team, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	first, second := nameA, nameB
	if second < first {
		first, second = second, first
	}

	var player1, player2 models.Player
	if err := s.db.Where("name = ?", first).First(&player1).Error; err != nil {
		return nil, false, fmt.Errorf("player %q not found", first)
	}
	if err := s.db.Where("name = ?", second).First(&player2).Error; err != nil {
		return nil, false, fmt.Errorf("player %q not found", second)
	}

	team = models.Team{
		TeamKey:   key,
		Name:      fmt.Sprintf("%s & %s", first, second),
		Player1ID: player1.ID,
		Player2ID: player2.ID,
	}
	if err := s.db.Create(&team).Error; err != nil {
		return nil, false, err
	}

	if err := s.db.Preload("Player1").Preload("Player2").First(&team, team.ID).Error; err != nil {
		return nil, false, err
	}

	return &team, true, nil
}

func (s *TeamService) GetTeamByKey(key string) (*models.Team, error) {
	var team models.Team

	result := s.db.Preload("Player1").Preload("Player2").Where("team_key = ?", key).First(&team)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("team %q not found", key)
		}
		return nil, result.Error
	}

	return &team, nil
}

// HeadToHead returns the rivalry record between the two teams plus every
// finalized meeting, newest first. The record is oriented to the first key
// as given, not to key order.
func (s *TeamService) HeadToHead(keyA, keyB string) (*models.HeadToHead, []models.Match, error) {
	if keyA == keyB {
		return nil, nil, errors.New("head-to-head needs two different teams")
	}

	teamA, err := s.GetTeamByKey(keyA)
	if err != nil {
		return nil, nil, err
	}
	teamB, err := s.GetTeamByKey(keyB)
	if err != nil {
		return nil, nil, err
	}

	var matches []models.Match
	err = s.db.
		Where("(team1_id = ? AND team2_id = ?) OR (team1_id = ? AND team2_id = ?)",
			teamA.ID, teamB.ID, teamB.ID, teamA.ID).
		Where("team1_score IS NOT NULL AND team2_score IS NOT NULL").
		Order("match_date DESC, id DESC").
		Preload("Tournament").
		Preload("Team1").
		Preload("Team2").
		Find(&matches).Error
	if err != nil {
		return nil, nil, err
	}

	record := models.HeadToHead{
		Team1Key: teamA.TeamKey,
		Team2Key: teamB.TeamKey,
		Matches:  len(matches),
	}
	for _, m := range matches {
		scoreA, scoreB := *m.Team1Score, *m.Team2Score
		if m.Team1ID != teamA.ID {
			scoreA, scoreB = scoreB, scoreA
		}
		switch {
		case scoreA > scoreB:
			record.Team1Wins++
		case scoreB > scoreA:
			record.Team2Wins++
		default:
			record.Draws++
		}
	}

	return &record, matches, nil
}

func (s *TeamService) GetTeamsByPlayer(playerName string) ([]models.Team, error) {
	player := models.Player{}
	if err := s.db.Where("name = ?", playerName).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("player %q not found", playerName)
		}
		return nil, err
	}

	var teams []models.Team
	err := s.db.Preload("Player1").Preload("Player2").
		Where("player1_id = ? OR player2_id = ?", player.ID, player.ID).
		Order("team_key ASC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}

	return teams, nil
}
