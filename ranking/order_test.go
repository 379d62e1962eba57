package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) *time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}

func matchIDs(matches []MatchInput) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.MatchID
	}
	return ids
}

func TestRoundPrecedence(t *testing.T) {
	tests := []struct {
		round    string
		expected int
	}{
		{"Round of 16", 1},
		{"Round of 8", 2},
		{"Quarterfinals", 3},
		{"Semifinals", 4},
		{"Grand Final", 5},
		{"Final", 5},
		{"Group Stage Day 2", 999},
		{"", 999},
	}

	for _, test := range tests {
		t.Run(test.round, func(t *testing.T) {
			assert.Equal(t, test.expected, RoundPrecedence(test.round))
		})
	}
}

func TestSortChronological(t *testing.T) {
	matches := []MatchInput{
		{MatchID: "m4", TournamentDate: date("2024-02-01"), Round: "Grand Final"},
		{MatchID: "m2", TournamentDate: date("2024-01-01"), Round: "Semifinals"},
		{MatchID: "m3", TournamentDate: date("2024-01-01"), Round: "Grand Final"},
		{MatchID: "m1", TournamentDate: date("2024-01-01"), Round: "Round of 16"},
	}

	SortChronological(matches)

	assert.Equal(t, []string{"m1", "m2", "m3", "m4"}, matchIDs(matches))
}

func TestSortChronologicalTieBreaks(t *testing.T) {
	day := date("2024-01-01")
	matches := []MatchInput{
		{MatchID: "b", TournamentDate: day, MatchDate: day, Round: "Semifinals"},
		{MatchID: "a", TournamentDate: day, MatchDate: day, Round: "Semifinals"},
	}

	SortChronological(matches)

	// Equal dates and rounds fall back to the match id.
	assert.Equal(t, []string{"a", "b"}, matchIDs(matches))
}

func TestSortChronologicalMatchDateBeforeRound(t *testing.T) {
	day := date("2024-01-01")
	matches := []MatchInput{
		{MatchID: "late", TournamentDate: day, MatchDate: date("2024-01-03"), Round: "Round of 16"},
		{MatchID: "early", TournamentDate: day, MatchDate: date("2024-01-02"), Round: "Grand Final"},
	}

	SortChronological(matches)

	assert.Equal(t, []string{"early", "late"}, matchIDs(matches))
}

func TestSortChronologicalMissingDatesSortLast(t *testing.T) {
	matches := []MatchInput{
		{MatchID: "undated", Round: "Round of 16"},
		{MatchID: "dated", TournamentDate: date("2024-01-01"), Round: "Grand Final"},
	}

	SortChronological(matches)

	assert.Equal(t, []string{"dated", "undated"}, matchIDs(matches))
}

func TestSortChronologicalIsIdempotent(t *testing.T) {
	matches := []MatchInput{
		{MatchID: "m3", TournamentDate: date("2024-03-01"), Round: "Final"},
		{MatchID: "m1", TournamentDate: date("2024-01-01"), Round: "Round of 8"},
		{MatchID: "m2", TournamentDate: date("2024-01-01"), Round: "Semifinals"},
		{MatchID: "m4", Round: "Unknown Round"},
	}

	SortChronological(matches)
	once := matchIDs(matches)

	SortChronological(matches)
	twice := matchIDs(matches)

	assert.Equal(t, once, twice)
}

func TestReverse(t *testing.T) {
	matches := []MatchInput{
		{MatchID: "m1"}, {MatchID: "m2"}, {MatchID: "m3"},
	}

	Reverse(matches)

	assert.Equal(t, []string{"m3", "m2", "m1"}, matchIDs(matches))
}
