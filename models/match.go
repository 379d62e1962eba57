package models

import (
	"time"

	"gorm.io/gorm"
)

type Match struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	TournamentID uint       `gorm:"not null;uniqueIndex:idx_matches_tournament_match;constraint:OnDelete:CASCADE" json:"tournament_id"`
	MatchID      string     `gorm:"size:100;not null;uniqueIndex:idx_matches_tournament_match" json:"match_id"`
	Round        string     `gorm:"size:100" json:"round"`
	BestOf       int        `gorm:"default:0" json:"best_of"`
	MatchDate    *time.Time `json:"match_date"`
	Team1ID      uint       `gorm:"not null;constraint:OnDelete:CASCADE" json:"team1_id"`
	Team2ID      uint       `gorm:"not null;constraint:OnDelete:CASCADE" json:"team2_id"`
	Team1Score   *int       `json:"team1_score"`
	Team2Score   *int       `json:"team2_score"`

	// Race actually played per roster slot in this match; empty when the
	// source page did not carry it. Slot order follows the team key, so
	// Team1Player1Race belongs to Team1.Player1.
	Team1Player1Race string `gorm:"size:20" json:"team1_player1_race"`
	Team1Player2Race string `gorm:"size:20" json:"team1_player2_race"`
	Team2Player1Race string `gorm:"size:20" json:"team2_player1_race"`
	Team2Player2Race string `gorm:"size:20" json:"team2_player2_race"`

	Status    string         `gorm:"size:20;default:completed" json:"status"` // upcoming, ongoing, completed
	Rated     bool           `gorm:"default:false;index" json:"rated"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tournament Tournament `gorm:"foreignKey:TournamentID;references:ID" json:"tournament,omitempty"`
	Team1      Team       `gorm:"foreignKey:Team1ID;references:ID" json:"team1,omitempty"`
	Team2      Team       `gorm:"foreignKey:Team2ID;references:ID" json:"team2,omitempty"`
	Games      []Game     `gorm:"foreignKey:MatchRowID" json:"games,omitempty"`
}

func (Match) TableName() string {
	return "matches"
}

type Game struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	MatchRowID   uint           `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"match_row_id"`
	GameNumber   int            `gorm:"not null" json:"game_number"`
	Map          string         `gorm:"size:255" json:"map"`
	WinnerTeamID *uint          `json:"winner_team_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Match      Match `gorm:"foreignKey:MatchRowID;references:ID" json:"match,omitempty"`
	WinnerTeam *Team `gorm:"foreignKey:WinnerTeamID;references:ID" json:"winner_team,omitempty"`
}

func (Game) TableName() string {
	return "games"
}
