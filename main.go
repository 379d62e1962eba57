package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/gram12321/sc2stats-sub001/config"
	"github.com/gram12321/sc2stats-sub001/cron"
	"github.com/gram12321/sc2stats-sub001/logger"
	"github.com/gram12321/sc2stats-sub001/services"
)

func main() {
	cfg := config.Load()
	log := logger.New("sc2stats", cfg.LogLevel)

	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "import":
		runImport(cfg, log, args)
	case "seed":
		if err := services.NewRatingService(config.DB, log).SeedSeasonOne(); err != nil {
			log.Fatal().Err(err).Msg("seeding failed")
		}
		fmt.Println("Season one seeded.")
	case "process":
		processed, err := services.NewRatingService(config.DB, log).ProcessUnratedMatches()
		if err != nil {
			log.Fatal().Err(err).Msg("processing failed")
		}
		fmt.Printf("Processed %d matches.\n", processed)
	case "recalc":
		if err := services.NewRatingService(config.DB, log).Recalculate(); err != nil {
			log.Fatal().Err(err).Msg("recalculation failed")
		}
		fmt.Println("Rating state rebuilt.")
	case "wipe":
		if err := services.NewRatingService(config.DB, log).Wipe(); err != nil {
			log.Fatal().Err(err).Msg("wipe failed")
		}
		fmt.Println("Rating state wiped.")
	case "rankings":
		runRankings(args)
	case "h2h":
		runHeadToHead(args)
	case "tournaments":
		runTournaments()
	case "history":
		runHistory(args)
	case "status":
		runStatus()
	case "watch":
		runWatch(log)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  sc2stats import [files...]                - Import tournament export files (default: IMPORT_DIR/*.json)")
	fmt.Println("  sc2stats seed                             - Bootstrap the inaugural season")
	fmt.Println("  sc2stats process                          - Fold unrated matches of later seasons into the ratings")
	fmt.Println("  sc2stats recalc                           - Rebuild all rating state from scratch (after wipe)")
	fmt.Println("  sc2stats wipe                             - Delete all rating state, keep imported data")
	fmt.Println("  sc2stats rankings <kind> [min-matches]    - Show rankings: players, teams, races or teamraces")
	fmt.Println("  sc2stats h2h <team1> <team2>              - Show the meeting record of two teams (keys like A+B)")
	fmt.Println("  sc2stats tournaments                      - List imported tournaments")
	fmt.Println("  sc2stats history match <match-id>         - Show every rating change a match produced")
	fmt.Println("  sc2stats history recent [n]               - Show the latest rating changes (default: 20)")
	fmt.Println("  sc2stats history <entity-type> <key>      - Show one entity's rating trajectory")
	fmt.Println("  sc2stats status                           - Show import and rating coverage")
	fmt.Println("  sc2stats watch                            - Process new matches on an hourly schedule")
}

func runImport(cfg *config.Config, log zerolog.Logger, args []string) {
	paths := args
	if len(paths) == 0 {
		var err error
		paths, err = filepath.Glob(filepath.Join(cfg.ImportDir, "*.json"))
		if err != nil || len(paths) == 0 {
			log.Fatal().Str("dir", cfg.ImportDir).Msg("no import files given and none found in the import directory")
		}
	}

	batches, err := services.NewImportService(config.DB, log).ImportFiles(paths)
	for _, batch := range batches {
		fmt.Printf("%-40s %-10s players=%d teams=%d matches=%d skipped=%d\n",
			filepath.Base(batch.SourceFile), batch.Status,
			batch.PlayersCreated, batch.TeamsCreated, batch.MatchesCreated, batch.MatchesSkipped)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
}

func runRankings(args []string) {
	kind := "players"
	if len(args) > 0 {
		kind = args[0]
	}
	minMatches := 0
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			minMatches = n
		}
	}

	rankings := services.NewRankingsService(config.DB)

	switch kind {
	case "players":
		rows, err := rankings.PlayerRankings(minMatches)
		exitOnError(err)
		fmt.Printf("%-5s %-20s %10s %7s %8s %6s\n", "Rank", "Player", "Rating", "Conf", "Matches", "Win%")
		for _, r := range rows {
			fmt.Printf("%-5d %-20s %10.2f %7.1f %8d %5.1f%%\n",
				r.Rank, r.PlayerName, r.Rating, r.Confidence, r.Matches, r.WinRate)
		}
	case "teams":
		rows, err := rankings.TeamRankings(minMatches)
		exitOnError(err)
		fmt.Printf("%-5s %-30s %10s %7s %8s %6s\n", "Rank", "Team", "Rating", "Conf", "Matches", "Win%")
		for _, r := range rows {
			fmt.Printf("%-5d %-30s %10.2f %7.1f %8d %5.1f%%\n",
				r.Rank, r.TeamKey, r.Rating, r.Confidence, r.Matches, r.WinRate)
		}
	case "races":
		rows, err := rankings.RaceMatchupRankings()
		exitOnError(err)
		fmt.Printf("%-8s %10s %8s %6s\n", "Matchup", "Rating", "Matches", "Win%")
		for _, r := range rows {
			fmt.Printf("%-8s %10.2f %8d %5.1f%%\n", r.MatchupKey, r.Rating, r.Matches, r.WinRate)
		}
	case "teamraces":
		rows, err := rankings.TeamRaceMatchupRankings()
		exitOnError(err)
		fmt.Printf("%-12s %10s %8s %6s %6s %6s\n", "Matchup", "Net", "Matches", "W1", "W2", "Draws")
		for _, r := range rows {
			fmt.Printf("%-12s %10.2f %8d %6d %6d %6d\n",
				r.MatchupKey, r.NetRating, r.Matches, r.Side1Wins, r.Side2Wins, r.Draws)
		}
	default:
		fmt.Printf("Unknown ranking kind: %s (use players, teams, races or teamraces)\n", kind)
	}
}

func runHeadToHead(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: sc2stats h2h <team1> <team2>")
		return
	}

	record, matches, err := services.NewTeamService(config.DB).HeadToHead(args[0], args[1])
	exitOnError(err)

	fmt.Printf("%s  %d - %d  %s", record.Team1Key, record.Team1Wins, record.Team2Wins, record.Team2Key)
	if record.Draws > 0 {
		fmt.Printf("  (%d drawn)", record.Draws)
	}
	fmt.Printf("  over %d matches\n", record.Matches)

	for _, m := range matches {
		date := "-"
		if m.MatchDate != nil {
			date = m.MatchDate.Format("2006-01-02")
		}
		score1, score2 := *m.Team1Score, *m.Team2Score
		if m.Team1.TeamKey != record.Team1Key {
			score1, score2 = score2, score1
		}
		fmt.Printf("%-12s %-40s %-10s %d-%d\n",
			date, m.Tournament.Name, m.Round, score1, score2)
	}
}

func runTournaments() {
	items, err := services.NewTournamentService(config.DB).List()
	exitOnError(err)

	fmt.Printf("%-6s %-40s %-12s %8s\n", "Season", "Tournament", "Status", "Matches")
	for _, t := range items {
		fmt.Printf("%-6d %-40s %-12s %8d\n", t.Season, t.Name, t.Status, t.NbMatches)
	}
}

func runHistory(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: sc2stats history match <match-id> | history recent [n] | history <entity-type> <key>")
		return
	}

	rankings := services.NewRankingsService(config.DB)

	var rows []historyRow
	switch {
	case args[0] == "match" && len(args) > 1:
		entries, err := rankings.MatchCalculation(args[1])
		exitOnError(err)
		fmt.Printf("Rating changes of match %s:\n", args[1])
		for _, e := range entries {
			rows = append(rows, historyRow{e.EntityType, e.EntityKey, e.RatingBefore, e.RatingAfter, e.ExpectedWin, e.KFactor})
		}
	case args[0] == "recent":
		limit := 20
		if len(args) > 1 {
			if n, err := strconv.Atoi(args[1]); err == nil {
				limit = n
			}
		}
		entries, err := rankings.RecentChanges(limit)
		exitOnError(err)
		fmt.Printf("Latest %d rating changes:\n", len(entries))
		for _, e := range entries {
			rows = append(rows, historyRow{e.EntityType, e.EntityKey + " @ " + e.MatchID, e.RatingBefore, e.RatingAfter, e.ExpectedWin, e.KFactor})
		}
	case len(args) > 1:
		entries, err := rankings.EntityTimeline(args[0], args[1])
		exitOnError(err)
		fmt.Printf("Rating trajectory of %s %q:\n", args[0], args[1])
		for _, e := range entries {
			rows = append(rows, historyRow{e.EntityType, e.MatchID, e.RatingBefore, e.RatingAfter, e.ExpectedWin, e.KFactor})
		}
	default:
		fmt.Println("Usage: sc2stats history match <match-id> | history recent [n] | history <entity-type> <key>")
		return
	}

	fmt.Printf("%-18s %-30s %10s %10s %8s %6s\n", "Type", "Entity/Match", "Before", "After", "Exp", "K")
	for _, r := range rows {
		fmt.Printf("%-18s %-30s %10.2f %10.2f %8.3f %6.1f\n",
			r.label, r.key, r.before, r.after, r.expected, r.kFactor)
	}
}

type historyRow struct {
	label    string
	key      string
	before   float64
	after    float64
	expected float64
	kFactor  float64
}

func runStatus() {
	overview, err := services.NewOverviewService(config.DB).GetOverview()
	exitOnError(err)

	fmt.Printf("Players:       %d\n", overview.TotalPlayers)
	fmt.Printf("Teams:         %d\n", overview.TotalTeams)
	fmt.Printf("Tournaments:   %d", overview.TotalTournaments)
	if overview.TotalTournaments > 0 {
		fmt.Printf(" (seasons %d-%d)", overview.FirstSeason, overview.LastSeason)
	}
	fmt.Println()
	fmt.Printf("Matches:       %d (%d rated, %d pending)\n",
		overview.TotalMatches, overview.RatedMatches, overview.PendingMatches)
	if overview.LastRunID != "" {
		fmt.Printf("Last run:      %s\n", overview.LastRunID)
	}
}

func runWatch(log zerolog.Logger) {
	scheduler := cron.NewScheduler(services.NewRatingService(config.DB, log), log)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler start failed")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	scheduler.Stop()
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
