package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gram12321/sc2stats-sub001/config"
	"github.com/gram12321/sc2stats-sub001/logger"
	"github.com/gram12321/sc2stats-sub001/migrations"
)

func main() {
	cfg := config.Load()
	log := logger.New("migrate", cfg.LogLevel)

	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	migrator := migrations.NewMigrator(config.DB, log)
	for _, migration := range migrations.GetCoreMigrations() {
		migrator.AddMigration(migration)
	}
	for _, migration := range migrations.GetStatsMigrations() {
		migrator.AddMigration(migration)
	}

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		if err := migrator.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	case "rollback":
		steps := 1
		if len(os.Args) > 2 {
			if s, err := strconv.Atoi(os.Args[2]); err == nil {
				steps = s
			}
		}
		if err := migrator.Rollback(steps); err != nil {
			log.Fatal().Err(err).Msg("rollback failed")
		}
	case "fresh":
		// Unwind every applied batch, then run everything again.
		for {
			applied := migrator.Status()
			if len(applied) == 0 {
				break
			}
			if err := migrator.Rollback(1); err != nil {
				log.Fatal().Err(err).Msg("rollback failed")
			}
		}
		if err := migrator.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	case "status":
		showStatus(migrator)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/migrate migrate          - Run pending migrations")
	fmt.Println("  go run ./cmd/migrate rollback [steps] - Rollback migrations (default: 1)")
	fmt.Println("  go run ./cmd/migrate fresh            - Rollback everything and migrate again")
	fmt.Println("  go run ./cmd/migrate status           - Show migration status")
}

func showStatus(migrator *migrations.Migrator) {
	applied := migrator.Status()

	if len(applied) == 0 {
		fmt.Println("No migrations have been run yet.")
		return
	}

	fmt.Println("Migration Status:")
	fmt.Println("Batch | Name")
	fmt.Println("------|-----")

	for _, migration := range applied {
		fmt.Printf("%-5d | %s\n", migration.Batch, migration.Name)
	}
}
