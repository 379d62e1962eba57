package models

import (
	"time"
)

// RatingHistory is one rating update applied to one entity by one match.
// Rows are append-only; a wipe removes them wholesale before a rebuild.
type RatingHistory struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID           string    `gorm:"size:36;not null;index" json:"run_id"`
	EntityType      string    `gorm:"size:30;not null;index:idx_rating_history_entity" json:"entity_type"` // player, team, race_matchup, team_race_matchup
	EntityKey       string    `gorm:"size:255;not null;index:idx_rating_history_entity" json:"entity_key"`
	MatchID         string    `gorm:"size:100;not null;index" json:"match_id"`
	RatingBefore    float64   `gorm:"not null" json:"rating_before"`
	RatingAfter     float64   `gorm:"not null" json:"rating_after"`
	RatingChange    float64   `gorm:"not null" json:"rating_change"`
	ConfidenceAfter float64   `gorm:"default:0" json:"confidence_after"`
	ExpectedWin     float64   `gorm:"default:0" json:"expected_win"`
	KFactor         float64   `gorm:"default:0" json:"k_factor"`
	CreatedAt       time.Time `json:"created_at"`
}

func (RatingHistory) TableName() string {
	return "rating_history"
}
