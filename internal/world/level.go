package world

const (
	// Width is the fixed level width in cells.
	Width = 128
	// Height is the fixed level height in cells.
	Height = 128

	cells = Width * Height
)

// Spawn describes one fighter to materialize when the level is
// (re)loaded. Produced once by the generator, consumed exactly once
// per load.
type Spawn struct {
	Name      string
	Archetype string
	X, Y      int
}

// Level is one floor of the mine: the terrain grid, a parallel
// treasure grid, lock thresholds for locked doors, the placed rooms
// and the spawn list. All grids are fixed-size value arrays so a
// Level can be snapshotted with a plain copy and compared with
// reflect.DeepEqual for the replay self-check.
type Level struct {
	terrain  [cells]Terrain
	treasure [cells]int32
	locks    [cells]uint8

	Rooms  []Room
	Spawns []Spawn

	// LineOfSightX/Y anchor visibility queries to the player's last
	// position. Updated by the simulation after every player move.
	LineOfSightX int
	LineOfSightY int

	FinalTreasureFound bool
}

// Terrain returns the cell at the given position. Out-of-bounds
// queries report TerrainEmpty so callers can probe grid edges freely.
func (l *Level) Terrain(x, y int) Terrain {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return TerrainEmpty
	}
	return l.terrain[x+y*Width]
}

// SetTerrain writes a cell. Out-of-bounds writes are dropped.
func (l *Level) SetTerrain(x, y int, t Terrain) {
	if x >= 0 && x < Width && y >= 0 && y < Height {
		l.terrain[x+y*Width] = t
	}
}

// PlaceLockedDoor writes a locked door with its pick threshold.
func (l *Level) PlaceLockedDoor(x, y, threshold int) {
	if x >= 0 && x < Width && y >= 0 && y < Height {
		l.terrain[x+y*Width] = TerrainLockedDoor
		l.locks[x+y*Width] = uint8(threshold)
	}
}

// LockThreshold returns the pick threshold of the locked door at the
// given position, or 0 for any other cell.
func (l *Level) LockThreshold(x, y int) int {
	if l.Terrain(x, y) != TerrainLockedDoor {
		return 0
	}
	return int(l.locks[x+y*Width])
}

// OpenDoor transitions a closed or locked door to open. Any other
// cell is left untouched.
func (l *Level) OpenDoor(x, y int) {
	switch l.Terrain(x, y) {
	case TerrainDoor, TerrainLockedDoor:
		l.terrain[x+y*Width] = TerrainDoorOpen
		l.locks[x+y*Width] = 0
	}
}

// TreasureAt returns the treasure amount lying on the cell, 0 when
// out of bounds.
func (l *Level) TreasureAt(x, y int) int {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return 0
	}
	return int(l.treasure[x+y*Width])
}

// PutTreasure adds treasure to the cell. Used by the generator and by
// incapacitated fighters dropping their haul.
func (l *Level) PutTreasure(x, y, amount int) {
	if x >= 0 && x < Width && y >= 0 && y < Height && amount > 0 {
		l.treasure[x+y*Width] += int32(amount)
	}
}

// TakeTreasure removes and returns the treasure on the cell.
func (l *Level) TakeTreasure(x, y int) int {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return 0
	}
	amount := l.treasure[x+y*Width]
	l.treasure[x+y*Width] = 0
	return int(amount)
}

// CollectFinalTreasure converts the final treasure cell to floor and
// marks the run as complete. Returns false if the cell is not the
// final treasure.
func (l *Level) CollectFinalTreasure(x, y int) bool {
	if l.Terrain(x, y) != TerrainFinalTreasure {
		return false
	}
	l.SetTerrain(x, y, TerrainFloor)
	l.FinalTreasureFound = true
	return true
}

// RoomIndexAt returns the index of the room containing the position,
// or -1 if the position is in the void.
func (l *Level) RoomIndexAt(x, y int) int {
	for i, room := range l.Rooms {
		if room.Contains(x, y) {
			return i
		}
	}
	return -1
}

// StartRoom returns the room the player spawns in. The generator
// always places it first.
func (l *Level) StartRoom() Room {
	return l.Rooms[0]
}
