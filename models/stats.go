package models

import (
	"time"
)

// PlayerStats carries the rating state for one player. Identity lives on
// players; this row is wiped and rebuilt by a full recalculation.
type PlayerStats struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerName string    `gorm:"size:255;not null;uniqueIndex" json:"player_name"`
	Matches    int       `gorm:"default:0" json:"matches"`
	Wins       int       `gorm:"default:0" json:"wins"`
	Losses     int       `gorm:"default:0" json:"losses"`
	Draws      int       `gorm:"default:0" json:"draws"`
	Rating     float64   `gorm:"default:0" json:"rating"`
	Confidence float64   `gorm:"default:0" json:"confidence"`
	Rank       int       `gorm:"default:0;index" json:"rank"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (PlayerStats) TableName() string {
	return "player_stats"
}

type TeamStats struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TeamKey    string    `gorm:"size:255;not null;uniqueIndex" json:"team_key"`
	Matches    int       `gorm:"default:0" json:"matches"`
	Wins       int       `gorm:"default:0" json:"wins"`
	Losses     int       `gorm:"default:0" json:"losses"`
	Draws      int       `gorm:"default:0" json:"draws"`
	Rating     float64   `gorm:"default:0" json:"rating"`
	Confidence float64   `gorm:"default:0" json:"confidence"`
	Rank       int       `gorm:"default:0;index" json:"rank"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (TeamStats) TableName() string {
	return "team_stats"
}

// RaceMatchupStats is one direction of a race pairing, keyed like "PvT".
// The inverse direction ("TvP") is a separate row whose rating mirrors
// this one with the opposite sign.
type RaceMatchupStats struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MatchupKey string    `gorm:"size:20;not null;uniqueIndex" json:"matchup_key"`
	Matches    int       `gorm:"default:0" json:"matches"`
	Wins       int       `gorm:"default:0" json:"wins"`
	Losses     int       `gorm:"default:0" json:"losses"`
	Draws      int       `gorm:"default:0" json:"draws"`
	Rating     float64   `gorm:"default:0" json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (RaceMatchupStats) TableName() string {
	return "race_matchup_stats"
}

// TeamRaceMatchupStats holds both sides of a race-combo pairing in a single
// row keyed like "PP vs TZ". Side 1 is always the lexicographically lower
// combo, so the same two combos never produce two rows.
type TeamRaceMatchupStats struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	MatchupKey string `gorm:"size:20;not null;uniqueIndex" json:"matchup_key"`
	Combo1     string `gorm:"size:10;not null" json:"combo1"`
	Combo2     string `gorm:"size:10;not null" json:"combo2"`

	Side1Matches int     `gorm:"default:0" json:"side1_matches"`
	Side1Wins    int     `gorm:"default:0" json:"side1_wins"`
	Side1Losses  int     `gorm:"default:0" json:"side1_losses"`
	Side1Draws   int     `gorm:"default:0" json:"side1_draws"`
	Side1Rating  float64 `gorm:"default:0" json:"side1_rating"`

	Side2Matches int     `gorm:"default:0" json:"side2_matches"`
	Side2Wins    int     `gorm:"default:0" json:"side2_wins"`
	Side2Losses  int     `gorm:"default:0" json:"side2_losses"`
	Side2Draws   int     `gorm:"default:0" json:"side2_draws"`
	Side2Rating  float64 `gorm:"default:0" json:"side2_rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TeamRaceMatchupStats) TableName() string {
	return "team_race_matchup_stats"
}

// NetRating is side 1's advantage over side 2; the two side ratings mirror
// each other, so this is simply twice side 1's rating in practice.
func (s *TeamRaceMatchupStats) NetRating() float64 {
	return s.Side1Rating - s.Side2Rating
}

// Ranking DTOs returned by the rankings service.

type PlayerRanking struct {
	Rank       int     `json:"rank"`
	PlayerName string  `json:"player_name"`
	Rating     float64 `json:"rating"`
	Confidence float64 `json:"confidence"`
	Matches    int     `json:"matches"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Draws      int     `json:"draws"`
	WinRate    float64 `json:"win_rate"`
}

type TeamRanking struct {
	Rank       int     `json:"rank"`
	TeamKey    string  `json:"team_key"`
	Rating     float64 `json:"rating"`
	Confidence float64 `json:"confidence"`
	Matches    int     `json:"matches"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Draws      int     `json:"draws"`
	WinRate    float64 `json:"win_rate"`
}

type RaceMatchupRanking struct {
	MatchupKey string  `json:"matchup_key"`
	Rating     float64 `json:"rating"`
	Matches    int     `json:"matches"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Draws      int     `json:"draws"`
	WinRate    float64 `json:"win_rate"`
}

type TeamRaceMatchupRanking struct {
	MatchupKey string  `json:"matchup_key"`
	Combo1     string  `json:"combo1"`
	Combo2     string  `json:"combo2"`
	NetRating  float64 `json:"net_rating"`
	Matches    int     `json:"matches"`
	Side1Wins  int     `json:"side1_wins"`
	Side2Wins  int     `json:"side2_wins"`
	Draws      int     `json:"draws"`
}

// Overview is the one-look summary of what has been imported and rated.
type Overview struct {
	TotalPlayers     int64  `json:"total_players"`
	TotalTeams       int64  `json:"total_teams"`
	TotalTournaments int64  `json:"total_tournaments"`
	TotalMatches     int64  `json:"total_matches"`
	RatedMatches     int64  `json:"rated_matches"`
	PendingMatches   int64  `json:"pending_matches"`
	FirstSeason      int    `json:"first_season"`
	LastSeason       int    `json:"last_season"`
	LastRunID        string `json:"last_run_id,omitempty"`
}
