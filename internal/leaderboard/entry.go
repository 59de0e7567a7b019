// Package leaderboard implements the run submission protocol: a small
// TCP service that accepts serialized runs, replays them to extract
// their final statistics, and serves the accumulated score table.
package leaderboard

import "sort"

// NameLength is the fixed length of a submitted player name.
const NameLength = 3

// Entry is one leaderboard row. Rounds is nil for runs that ended in
// the player's incapacitation; finished runs record the round count.
type Entry struct {
	Name     string  `json:"name"`
	Treasure int     `json:"treasure"`
	Rounds   *uint64 `json:"rounds"`
	Size     int     `json:"size"`
}

// ValidNameChar reports whether a byte may appear in a player name.
func ValidNameChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// ValidName reports whether a name is exactly three valid characters.
func ValidName(name string) bool {
	if len(name) != NameLength {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !ValidNameChar(name[i]) {
			return false
		}
	}
	return true
}

// SortByName orders entries alphabetically.
func SortByName(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}

// SortByTreasure orders entries by haul, richest first.
func SortByTreasure(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Treasure > entries[j].Treasure
	})
}

// SortByRounds orders finished runs fastest first; unfinished runs
// sink to the bottom.
func SortByRounds(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Rounds, entries[j].Rounds
		switch {
		case a != nil && b != nil:
			return *a < *b
		case a != nil:
			return true
		default:
			return false
		}
	})
}
