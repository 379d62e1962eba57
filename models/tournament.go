package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Tournament struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	LiquipediaSlug string          `gorm:"size:255;unique;not null" json:"liquipedia_slug"`
	Season         int             `gorm:"not null;index" json:"season"` // calendar year the tournament belongs to
	StartDate      *time.Time      `json:"start_date"`
	EndDate        *time.Time      `json:"end_date"`
	PrizePool      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"prize_pool"`
	Location       string          `gorm:"size:255" json:"location"`
	Status         string          `gorm:"size:20;not null;default:completed" json:"status"` // upcoming, ongoing, completed
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Matches []Match `gorm:"foreignKey:TournamentID" json:"matches,omitempty"`
}

func (Tournament) TableName() string {
	return "tournaments"
}

type TournamentListItem struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	LiquipediaSlug string          `json:"liquipedia_slug"`
	Season         int             `json:"season"`
	StartDate      *time.Time      `json:"start_date"`
	EndDate        *time.Time      `json:"end_date"`
	PrizePool      decimal.Decimal `json:"prize_pool"`
	Location       string          `json:"location"`
	Status         string          `json:"status"`
	NbMatches      int             `json:"nb_matches"`
}
