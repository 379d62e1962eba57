package migrations

import "gorm.io/gorm"

func GetCoreMigrations() []MigrationDefinition {
	return []MigrationDefinition{
		{
			Name: "2025_06_01_000000_create_core_tables",
			Up: func(db *gorm.DB) error {
				// Create tournaments table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS tournaments (
						id BIGSERIAL PRIMARY KEY,
						name VARCHAR(255) NOT NULL,
						liquipedia_slug VARCHAR(255) UNIQUE,
						season INT NOT NULL,
						start_date TIMESTAMP NULL,
						end_date TIMESTAMP NULL,
						prize_pool DECIMAL(12,2) DEFAULT 0,
						location VARCHAR(255),
						status VARCHAR(20) DEFAULT 'completed',
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_tournaments_deleted_at ON tournaments(deleted_at);
					CREATE INDEX IF NOT EXISTS idx_tournaments_season ON tournaments(season);
				`).Error; err != nil {
					return err
				}

				// Create players table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS players (
						id BIGSERIAL PRIMARY KEY,
						name VARCHAR(255) NOT NULL UNIQUE,
						liquipedia_slug VARCHAR(255),
						nationality VARCHAR(100),
						preferred_race VARCHAR(20),
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_players_deleted_at ON players(deleted_at);
				`).Error; err != nil {
					return err
				}

				// Create teams table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS teams (
						id BIGSERIAL PRIMARY KEY,
						team_key VARCHAR(255) NOT NULL UNIQUE,
						name VARCHAR(255),
						player1_id BIGINT NOT NULL,
						player2_id BIGINT NOT NULL,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						deleted_at TIMESTAMP NULL,
						FOREIGN KEY (player1_id) REFERENCES players(id) ON DELETE CASCADE,
						FOREIGN KEY (player2_id) REFERENCES players(id) ON DELETE CASCADE
					);
					CREATE INDEX IF NOT EXISTS idx_teams_deleted_at ON teams(deleted_at);
					CREATE INDEX IF NOT EXISTS idx_teams_player1_id ON teams(player1_id);
					CREATE INDEX IF NOT EXISTS idx_teams_player2_id ON teams(player2_id);
				`).Error; err != nil {
					return err
				}

				// Create matches table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS matches (
						id BIGSERIAL PRIMARY KEY,
						tournament_id BIGINT NOT NULL,
						match_id VARCHAR(100) NOT NULL,
						round VARCHAR(100),
						best_of INT DEFAULT 0,
						match_date TIMESTAMP NULL,
						team1_id BIGINT NOT NULL,
						team2_id BIGINT NOT NULL,
						team1_score INT NULL,
						team2_score INT NULL,
						team1_player1_race VARCHAR(20),
						team1_player2_race VARCHAR(20),
						team2_player1_race VARCHAR(20),
						team2_player2_race VARCHAR(20),
						status VARCHAR(20) DEFAULT 'completed',
						rated BOOLEAN DEFAULT FALSE,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						deleted_at TIMESTAMP NULL,
						FOREIGN KEY (tournament_id) REFERENCES tournaments(id) ON DELETE CASCADE,
						FOREIGN KEY (team1_id) REFERENCES teams(id) ON DELETE CASCADE,
						FOREIGN KEY (team2_id) REFERENCES teams(id) ON DELETE CASCADE,
						UNIQUE (tournament_id, match_id)
					);
					CREATE INDEX IF NOT EXISTS idx_matches_deleted_at ON matches(deleted_at);
					CREATE INDEX IF NOT EXISTS idx_matches_rated ON matches(rated);
					CREATE INDEX IF NOT EXISTS idx_matches_team1_id ON matches(team1_id);
					CREATE INDEX IF NOT EXISTS idx_matches_team2_id ON matches(team2_id);
				`).Error; err != nil {
					return err
				}

				// Create games table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS games (
						id BIGSERIAL PRIMARY KEY,
						match_row_id BIGINT NOT NULL,
						game_number INT NOT NULL,
						map VARCHAR(255),
						winner_team_id BIGINT NULL,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						deleted_at TIMESTAMP NULL,
						FOREIGN KEY (match_row_id) REFERENCES matches(id) ON DELETE CASCADE,
						FOREIGN KEY (winner_team_id) REFERENCES teams(id)
					);
					CREATE INDEX IF NOT EXISTS idx_games_deleted_at ON games(deleted_at);
					CREATE INDEX IF NOT EXISTS idx_games_match_row_id ON games(match_row_id);
				`).Error; err != nil {
					return err
				}

				return nil
			},
			Down: func(db *gorm.DB) error {
				// Drop tables in reverse order (because of foreign keys)
				if err := db.Exec("DROP TABLE IF EXISTS games CASCADE").Error; err != nil {
					return err
				}
				if err := db.Exec("DROP TABLE IF EXISTS matches CASCADE").Error; err != nil {
					return err
				}
				if err := db.Exec("DROP TABLE IF EXISTS teams CASCADE").Error; err != nil {
					return err
				}
				if err := db.Exec("DROP TABLE IF EXISTS players CASCADE").Error; err != nil {
					return err
				}
				if err := db.Exec("DROP TABLE IF EXISTS tournaments CASCADE").Error; err != nil {
					return err
				}
				return nil
			},
		},
	}
}
