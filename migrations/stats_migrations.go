package migrations

import "gorm.io/gorm"

func GetStatsMigrations() []MigrationDefinition {
	return []MigrationDefinition{
		{
			Name: "2025_06_01_000001_create_stats_tables",
			Up: func(db *gorm.DB) error {
				// Create player_stats table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS player_stats (
						id BIGSERIAL PRIMARY KEY,
						player_name VARCHAR(255) NOT NULL UNIQUE,
						matches INT DEFAULT 0,
						wins INT DEFAULT 0,
						losses INT DEFAULT 0,
						draws INT DEFAULT 0,
						rating DOUBLE PRECISION DEFAULT 0,
						confidence DOUBLE PRECISION DEFAULT 0,
						rank INT DEFAULT 0,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW()
					);
					CREATE INDEX IF NOT EXISTS idx_player_stats_rating ON player_stats(rating);
					CREATE INDEX IF NOT EXISTS idx_player_stats_rank ON player_stats(rank);
				`).Error; err != nil {
					return err
				}

				// Create team_stats table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS team_stats (
						id BIGSERIAL PRIMARY KEY,
						team_key VARCHAR(255) NOT NULL UNIQUE,
						matches INT DEFAULT 0,
						wins INT DEFAULT 0,
						losses INT DEFAULT 0,
						draws INT DEFAULT 0,
						rating DOUBLE PRECISION DEFAULT 0,
						confidence DOUBLE PRECISION DEFAULT 0,
						rank INT DEFAULT 0,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW()
					);
					CREATE INDEX IF NOT EXISTS idx_team_stats_rating ON team_stats(rating);
					CREATE INDEX IF NOT EXISTS idx_team_stats_rank ON team_stats(rank);
				`).Error; err != nil {
					return err
				}

				// Create race_matchup_stats table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS race_matchup_stats (
						id BIGSERIAL PRIMARY KEY,
						matchup_key VARCHAR(20) NOT NULL UNIQUE,
						matches INT DEFAULT 0,
						wins INT DEFAULT 0,
						losses INT DEFAULT 0,
						draws INT DEFAULT 0,
						rating DOUBLE PRECISION DEFAULT 0,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW()
					);
				`).Error; err != nil {
					return err
				}

				// Create team_race_matchup_stats table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS team_race_matchup_stats (
						id BIGSERIAL PRIMARY KEY,
						matchup_key VARCHAR(20) NOT NULL UNIQUE,
						combo1 VARCHAR(10) NOT NULL,
						combo2 VARCHAR(10) NOT NULL,
						side1_matches INT DEFAULT 0,
						side1_wins INT DEFAULT 0,
						side1_losses INT DEFAULT 0,
						side1_draws INT DEFAULT 0,
						side1_rating DOUBLE PRECISION DEFAULT 0,
						side2_matches INT DEFAULT 0,
						side2_wins INT DEFAULT 0,
						side2_losses INT DEFAULT 0,
						side2_draws INT DEFAULT 0,
						side2_rating DOUBLE PRECISION DEFAULT 0,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW()
					);
				`).Error; err != nil {
					return err
				}

				// Create rating_history table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS rating_history (
						id BIGSERIAL PRIMARY KEY,
						run_id VARCHAR(36) NOT NULL,
						entity_type VARCHAR(30) NOT NULL,
						entity_key VARCHAR(255) NOT NULL,
						match_id VARCHAR(100) NOT NULL,
						rating_before DOUBLE PRECISION NOT NULL,
						rating_after DOUBLE PRECISION NOT NULL,
						rating_change DOUBLE PRECISION NOT NULL,
						confidence_after DOUBLE PRECISION DEFAULT 0,
						expected_win DOUBLE PRECISION DEFAULT 0,
						k_factor DOUBLE PRECISION DEFAULT 0,
						created_at TIMESTAMP DEFAULT NOW()
					);
					CREATE INDEX IF NOT EXISTS idx_rating_history_entity ON rating_history(entity_type, entity_key);
					CREATE INDEX IF NOT EXISTS idx_rating_history_match_id ON rating_history(match_id);
					CREATE INDEX IF NOT EXISTS idx_rating_history_run_id ON rating_history(run_id);
				`).Error; err != nil {
					return err
				}

				// Create import_batches table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS import_batches (
						id VARCHAR(36) PRIMARY KEY,
						source_file VARCHAR(500) NOT NULL,
						tournament_slug VARCHAR(255),
						players_created INT DEFAULT 0,
						teams_created INT DEFAULT 0,
						matches_created INT DEFAULT 0,
						matches_skipped INT DEFAULT 0,
						status VARCHAR(20) DEFAULT 'pending',
						error TEXT,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW()
					);
					CREATE INDEX IF NOT EXISTS idx_import_batches_tournament_slug ON import_batches(tournament_slug);
				`).Error; err != nil {
					return err
				}

				return nil
			},
			Down: func(db *gorm.DB) error {
				if err := db.Exec("DROP TABLE IF EXISTS import_batches CASCADE").Error; err != nil {
					return err
				}
				if err := db.Exec("DROP TABLE IF EXISTS rating_history CASCADE").Error; err != nil {
					return err
				}
				if err := db.Exec("DROP TABLE IF EXISTS team_race_matchup_stats CASCADE").Error; err != nil {
					return err
				}
				if err := db.Exec("DROP TABLE IF EXISTS race_matchup_stats CASCADE").Error; err != nil {
					return err
				}
				if err := db.Exec("DROP TABLE IF EXISTS team_stats CASCADE").Error; err != nil {
					return err
				}
				if err := db.Exec("DROP TABLE IF EXISTS player_stats CASCADE").Error; err != nil {
					return err
				}
				return nil
			},
		},
	}
}
