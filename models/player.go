package models

import (
	"time"

	"gorm.io/gorm"
)

type Player struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string         `gorm:"size:255;unique;not null" json:"name"`
	LiquipediaSlug string         `gorm:"size:255" json:"liquipedia_slug"`
	Nationality    string         `gorm:"size:100" json:"nationality"`
	PreferredRace  string         `gorm:"size:20" json:"preferred_race"` // Terran, Zerg, Protoss or Random
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Player1Teams []Team `gorm:"foreignKey:Player1ID" json:"player1_teams,omitempty"`
	Player2Teams []Team `gorm:"foreignKey:Player2ID" json:"player2_teams,omitempty"`
}

func (Player) TableName() string {
	return "players"
}
