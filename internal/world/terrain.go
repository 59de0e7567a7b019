// Package world provides level generation and map management.
package world

// Terrain is a single cell of the level grid. Locked doors carry
// their pick threshold in a parallel grid, so the cell itself stays a
// small comparable value.
type Terrain uint8

const (
	// TerrainEmpty is the void outside rooms. Out-of-bounds queries
	// also report it, so callers never have to bounds-check.
	TerrainEmpty Terrain = iota
	// TerrainFloor is walkable room interior.
	TerrainFloor
	// TerrainWall is the 1-tile border carved around every room.
	TerrainWall
	// TerrainDoor is a closed, unlocked door.
	TerrainDoor
	// TerrainLockedDoor is a closed door gated by a finger roll.
	TerrainLockedDoor
	// TerrainDoorOpen is a door that has been opened. Doors never close.
	TerrainDoorOpen
	// TerrainExit advances the player to the next level.
	TerrainExit
	// TerrainFinalTreasure ends the run when collected. Becomes floor.
	TerrainFinalTreasure
)

// Unwalkable reports whether a fighter is blocked by the cell. Closed
// doors block on the turn they are opened; the empty void does not
// block.
func (t Terrain) Unwalkable() bool {
	switch t {
	case TerrainWall, TerrainDoor, TerrainLockedDoor:
		return true
	default:
		return false
	}
}

// AvoidedByWanderers reports whether random-walking enemies refuse to
// step onto the cell. They stay on plain floor: doorways, exits and
// the final treasure are left to the player.
func (t Terrain) AvoidedByWanderers() bool {
	switch t {
	case TerrainFloor, TerrainWall:
		return false
	default:
		return true
	}
}

// Rune returns the cell's terminal display character.
func (t Terrain) Rune() rune {
	switch t {
	case TerrainFloor:
		return '.'
	case TerrainWall:
		return '#'
	case TerrainDoor:
		return '+'
	case TerrainLockedDoor:
		return '*'
	case TerrainDoorOpen:
		return '/'
	case TerrainExit:
		return '>'
	case TerrainFinalTreasure:
		return '$'
	default:
		return ' '
	}
}
