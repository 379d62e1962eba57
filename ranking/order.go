package ranking

import (
	"sort"
	"time"
)

// Rounds without a known bracket position sort last.
const unknownRoundPrecedence = 999

var roundPrecedence = map[string]int{
	"Round of 16":   1,
	"Round of 8":    2,
	"Quarterfinals": 3,
	"Semifinals":    4,
	"Grand Final":   5,
	"Final":         5,
}

// RoundPrecedence maps a round label to its position within a tournament.
func RoundPrecedence(round string) int {
	if p, ok := roundPrecedence[round]; ok {
		return p
	}
	return unknownRoundPrecedence
}

// SortChronological orders matches by tournament date, match date, round
// precedence and finally match id. The sort is stable, so re-sorting an
// already sorted list leaves it unchanged.
func SortChronological(matches []MatchInput) {
	sort.SliceStable(matches, func(i, j int) bool {
		return compareMatches(matches[i], matches[j]) < 0
	})
}

// Reverse flips a match list in place. Applied to a chronologically sorted
// list it gives the exact reverse order the backward seeding pass runs in.
func Reverse(matches []MatchInput) {
	for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
		matches[i], matches[j] = matches[j], matches[i]
	}
}

func compareMatches(a, b MatchInput) int {
	if c := compareDates(a.TournamentDate, b.TournamentDate); c != 0 {
		return c
	}
	if c := compareDates(a.MatchDate, b.MatchDate); c != 0 {
		return c
	}
	pa, pb := RoundPrecedence(a.Round), RoundPrecedence(b.Round)
	if pa != pb {
		if pa < pb {
			return -1
		}
		return 1
	}
	switch {
	case a.MatchID < b.MatchID:
		return -1
	case a.MatchID > b.MatchID:
		return 1
	}
	return 0
}

// Matches without a date sort after dated ones, like unknown rounds.
func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	}
	return 0
}
