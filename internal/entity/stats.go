// Package entity provides fighters and their combat protocol.
package entity

// Stats is a fighter's stat block. Health stays within
// [0, MaxHealth]; Flying is fixed at creation.
type Stats struct {
	// MaxHealth caps Health.
	MaxHealth int
	// Health is the number of normal hits left before incapacitation.
	Health int
	// Arm is weapon-swinging skill, the attack modifier.
	Arm int
	// Leg is agility, the evasion modifier.
	Leg int
	// Finger is lockpicking nimbleness.
	Finger int
	// Flying creatures hover and descend when incapacitated.
	Flying bool
	// Treasure is the carried haul, dropped on incapacitation.
	Treasure int
}

// Archetype describes a spawnable creature kind.
type Archetype struct {
	ID       string
	Name     string
	Glyph    rune
	Stats    Stats
	Policy   string // ai policy kind; empty for the player
	LevelsUp bool   // only the player trains stats by use
}

var archetypes = map[string]Archetype{
	"player": {
		ID:       "player",
		Name:     "Miner",
		Glyph:    '@',
		Stats:    Stats{MaxHealth: 5, Health: 5, Arm: 10, Leg: 10, Finger: 10},
		LevelsUp: true,
	},
	"coolant": {
		ID:     "coolant",
		Name:   "Living Coolant",
		Glyph:  'c',
		Stats:  Stats{MaxHealth: 4, Health: 4, Arm: 12, Leg: 8, Finger: 1, Treasure: 2},
		Policy: "selfdefense",
	},
	"roach": {
		ID:     "roach",
		Name:   "Roach",
		Glyph:  'r',
		Stats:  Stats{MaxHealth: 3, Health: 3, Arm: 10, Leg: 13, Finger: 8, Treasure: 3},
		Policy: "skitterer",
	},
	"rockman": {
		ID:     "rockman",
		Name:   "Rock Man",
		Glyph:  'R',
		Stats:  Stats{MaxHealth: 7, Health: 7, Arm: 12, Leg: 14, Finger: 5, Treasure: 5},
		Policy: "hunter",
	},
	"metal": {
		ID:     "metal",
		Name:   "Superior Metal Being",
		Glyph:  'M',
		Stats:  Stats{MaxHealth: 9, Health: 9, Arm: 16, Leg: 15, Finger: 1, Flying: true, Treasure: 8},
		Policy: "tower",
	},
}

var dummyStats = Stats{MaxHealth: 1, Health: 1, Arm: 1, Leg: 1, Finger: 1}

// ArchetypeByID looks up a creature kind. The second result is false
// for unknown ids.
func ArchetypeByID(id string) (Archetype, bool) {
	a, ok := archetypes[id]
	return a, ok
}
