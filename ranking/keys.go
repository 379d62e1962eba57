package ranking

import (
	"sort"
	"strings"
)

// TeamKey builds the canonical identifier for a two-player team. The same
// pair of names yields the same key regardless of argument order.
func TeamKey(player1, player2 string) string {
	names := []string{player1, player2}
	sort.Strings(names)
	return strings.Join(names, "+")
}

// RaceMatchupKey builds the directional key for a race pairing, e.g. "PvT".
// "PvT" and "TvP" are distinct entities tracked separately.
func RaceMatchupKey(mine, opponent Race) string {
	return mine.Abbrev() + "v" + opponent.Abbrev()
}

// InverseMatchupKey returns the opposite direction of a directional key.
func InverseMatchupKey(key string) string {
	parts := strings.SplitN(key, "v", 2)
	if len(parts) != 2 {
		return key
	}
	return parts[1] + "v" + parts[0]
}

// ComboKey abbreviates and sorts a team's two races: (Protoss, Terran) and
// (Terran, Protoss) both yield "PT".
func ComboKey(race1, race2 Race) string {
	a, b := race1.Abbrev(), race2.Abbrev()
	if a > b {
		a, b = b, a
	}
	return a + b
}

// TeamRaceKey builds the symmetric identifier for a combo pairing. The lower
// combo always comes first, so "PT vs ZZ" and "ZZ vs PT" name the same
// entity.
func TeamRaceKey(combo1, combo2 string) string {
	if combo1 > combo2 {
		combo1, combo2 = combo2, combo1
	}
	return combo1 + " vs " + combo2
}

// SplitTeamRaceKey returns the two combos of a symmetric team-race key.
func SplitTeamRaceKey(key string) (string, string) {
	parts := strings.SplitN(key, " vs ", 2)
	if len(parts) != 2 {
		return key, ""
	}
	return parts[0], parts[1]
}

// TeamRaceSideKey names one side of a combo pairing, used for seed lookups.
func TeamRaceSideKey(key, combo string) string {
	return key + "|" + combo
}
