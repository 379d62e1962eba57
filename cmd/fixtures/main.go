package main

import (
	"fmt"
	"os"

	"github.com/gram12321/sc2stats-sub001/config"
	"github.com/gram12321/sc2stats-sub001/fixtures"
	"github.com/gram12321/sc2stats-sub001/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New("fixtures", cfg.LogLevel)

	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	fixtureManager := fixtures.NewFixtures(config.DB, log)

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	command := os.Args[1]

	switch command {
	case "generate":
		if err := fixtureManager.GenerateTestData(); err != nil {
			log.Fatal().Err(err).Msg("failed to generate fixtures")
		}
		fmt.Println("✅ Fixtures generated successfully!")
	case "clear":
		if err := fixtureManager.ClearAllData(); err != nil {
			log.Fatal().Err(err).Msg("failed to clear fixtures")
		}
		fmt.Println("✅ All fixture data cleared!")
	case "regenerate":
		fmt.Println("Clearing existing data...")
		if err := fixtureManager.ClearAllData(); err != nil {
			log.Fatal().Err(err).Msg("failed to clear fixtures")
		}
		fmt.Println("Generating new fixtures...")
		if err := fixtureManager.GenerateTestData(); err != nil {
			log.Fatal().Err(err).Msg("failed to generate fixtures")
		}
		fmt.Println("✅ Fixtures regenerated successfully!")
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/fixtures generate    - Generate test data (16 players, 8 duos, 4 tournaments)")
	fmt.Println("  go run ./cmd/fixtures clear       - Clear all fixture data")
	fmt.Println("  go run ./cmd/fixtures regenerate  - Clear and regenerate all data")
}
