package models

import (
	"time"
)

// ImportBatch records one import of a tournament export file.
type ImportBatch struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	SourceFile      string    `gorm:"size:500;not null" json:"source_file"`
	TournamentSlug  string    `gorm:"size:255;index" json:"tournament_slug"`
	PlayersCreated  int       `gorm:"default:0" json:"players_created"`
	TeamsCreated    int       `gorm:"default:0" json:"teams_created"`
	MatchesCreated  int       `gorm:"default:0" json:"matches_created"`
	MatchesSkipped  int       `gorm:"default:0" json:"matches_skipped"`
	Status          string    `gorm:"size:20;default:pending" json:"status"` // pending, completed, failed
	Error           string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (ImportBatch) TableName() string {
	return "import_batches"
}
