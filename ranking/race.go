package ranking

import "strings"

// Race is one of the four playable races.
type Race string

const (
	Terran  Race = "Terran"
	Zerg    Race = "Zerg"
	Protoss Race = "Protoss"
	Random  Race = "Random"
)

// ParseRace normalizes a race name or single-letter abbreviation.
func ParseRace(s string) (Race, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "terran", "t":
		return Terran, true
	case "zerg", "z":
		return Zerg, true
	case "protoss", "p":
		return Protoss, true
	case "random", "r":
		return Random, true
	}
	return "", false
}

// Abbrev returns the single-letter form used in matchup keys.
func (r Race) Abbrev() string {
	switch r {
	case Terran:
		return "T"
	case Zerg:
		return "Z"
	case Protoss:
		return "P"
	case Random:
		return "R"
	}
	return ""
}
