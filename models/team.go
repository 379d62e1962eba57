package models

import (
	"time"

	"gorm.io/gorm"
)

type Team struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	TeamKey   string         `gorm:"size:255;unique;not null" json:"team_key"` // sorted player names joined with "+"
	Name      string         `gorm:"size:255" json:"name"`
	Player1ID uint           `gorm:"not null;constraint:OnDelete:CASCADE" json:"player1_id"`
	Player2ID uint           `gorm:"not null;constraint:OnDelete:CASCADE" json:"player2_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Player1      Player  `gorm:"foreignKey:Player1ID;references:ID" json:"player1,omitempty"`
	Player2      Player  `gorm:"foreignKey:Player2ID;references:ID" json:"player2,omitempty"`
	Team1Matches []Match `gorm:"foreignKey:Team1ID" json:"team1_matches,omitempty"`
	Team2Matches []Match `gorm:"foreignKey:Team2ID" json:"team2_matches,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

// HeadToHead is the running score of every finalized meeting between two
// teams. Draws are series that ended level on maps.
type HeadToHead struct {
	Team1Key  string `json:"team1_key"`
	Team2Key  string `json:"team2_key"`
	Matches   int    `json:"matches"`
	Team1Wins int    `json:"team1_wins"`
	Team2Wins int    `json:"team2_wins"`
	Draws     int    `json:"draws"`
}
