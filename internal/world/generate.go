package world

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/minedelve/internal/rng"
	"github.com/samdwyer/minedelve/internal/telemetry"
)

const (
	// maxPlacementIters caps room placement attempts so generation
	// terminates even on a nearly full grid. Hitting the cap yields a
	// smaller level, never an error.
	maxPlacementIters = 10000

	// The starting room is fixed-size and centered.
	startRoomWidth  = 9
	startRoomHeight = 7

	playerArchetype = "player"
	playerName      = "Miner"
)

// enemyArchetypes are the spawnable creature kinds with their pick
// weights per difficulty tier. Higher tiers shift toward the harder
// archetypes.
var enemyArchetypes = []struct {
	id      string
	name    string
	weights [4]int
}{
	{"coolant", "Living Coolant", [4]int{6, 4, 2, 1}},
	{"roach", "Roach", [4]int{3, 4, 4, 3}},
	{"rockman", "Rock Man", [4]int{1, 2, 3, 4}},
	{"metal", "Superior Metal Being", [4]int{0, 1, 2, 3}},
}

// Generate builds one level from the shared random stream and a
// difficulty tier in 0..3. The consumed draw sequence fully determines
// the level; tier 3 hides the final treasure instead of an exit.
func Generate(ctx context.Context, stream *rng.Stream, difficulty int) *Level {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "level.generate")
	defer span.End()

	l := &Level{}

	start := Room{
		X:      (Width - startRoomWidth) / 2,
		Y:      (Height - startRoomHeight) / 2,
		Width:  startRoomWidth,
		Height: startRoomHeight,
	}
	l.carveRoom(start)
	l.Rooms = append(l.Rooms, start)
	l.LineOfSightX, l.LineOfSightY = start.Center()

	targetRooms := 8 + 3*difficulty
	for i := 0; i < maxPlacementIters && len(l.Rooms) < targetRooms; i++ {
		l.tryAttachRoom(stream, 0)
	}

	l.placeSpawns(stream, difficulty)
	l.scatterTreasure(stream, difficulty)
	exitRoom := l.placeExit(difficulty)
	l.placeVaults(stream, difficulty)

	ex, ey := exitRoom.Center()
	span.SetAttributes(
		attribute.Int("level.difficulty", difficulty),
		attribute.Int("level.room_count", len(l.Rooms)),
		attribute.Int("level.spawn_count", len(l.Spawns)),
		attribute.Int("level.exit_x", ex),
		attribute.Int("level.exit_y", ey),
	)

	return l
}

// tryAttachRoom attempts to place one room sharing a wall with a
// random existing room. lockThreshold > 0 places a treasure vault:
// exactly one locked door and treasure-strewn floor. Failures of any
// kind simply return false; the caller retries.
func (l *Level) tryAttachRoom(stream *rng.Stream, lockThreshold int) bool {
	base := l.Rooms[stream.Intn(len(l.Rooms))]
	dir := stream.Intn(4)
	w := 4 + stream.Intn(5) + 2 // interior 4..8 plus walls
	h := 4 + stream.Intn(2) + 2 // interior 4..5 plus walls

	var cand Room
	switch dir {
	case 0: // right of base, sharing base's right wall
		cand = Room{X: base.X + base.Width - 1, Width: w, Height: h}
		cand.Y = base.Y + 3 - h + stream.Intn(base.Height+h-5)
	case 1: // left
		cand = Room{X: base.X - w + 1, Width: w, Height: h}
		cand.Y = base.Y + 3 - h + stream.Intn(base.Height+h-5)
	case 2: // below
		cand = Room{Y: base.Y + base.Height - 1, Width: w, Height: h}
		cand.X = base.X + 3 - w + stream.Intn(base.Width+w-5)
	default: // above
		cand = Room{Y: base.Y - h + 1, Width: w, Height: h}
		cand.X = base.X + 3 - w + stream.Intn(base.Width+w-5)
	}

	if !l.canPlace(cand) {
		return false
	}

	// Dry run: a room no door can reach is rejected. Vaults want
	// exactly one opportunity picked from all of them.
	var doorCells [][2]int
	doorsPerEdge := make(map[int][2]int)
	for i, room := range l.Rooms {
		edge := sharedEdge(cand, room)
		var usable [][2]int
		for _, cell := range edge {
			if l.Terrain(cell[0], cell[1]) == TerrainWall {
				usable = append(usable, cell)
			}
		}
		if len(usable) == 0 {
			continue
		}
		pick := usable[stream.Intn(len(usable))]
		doorsPerEdge[i] = pick
		doorCells = append(doorCells, usable...)
	}
	if len(doorCells) == 0 {
		return false
	}

	l.carveRoom(cand)
	l.Rooms = append(l.Rooms, cand)

	if lockThreshold > 0 {
		cell := doorCells[stream.Intn(len(doorCells))]
		l.PlaceLockedDoor(cell[0], cell[1], lockThreshold)
		l.strewVaultTreasure(stream, cand)
	} else {
		// One door per shared edge, at the offset picked above.
		for _, cell := range doorsPerEdge {
			l.SetTerrain(cell[0], cell[1], TerrainDoor)
		}
	}
	return true
}

// canPlace checks bounds, overlap and wall seams for a candidate
// room. The interior must be untouched void; border cells may only
// coincide with existing walls.
func (l *Level) canPlace(r Room) bool {
	if r.X < 1 || r.Y < 1 || r.X+r.Width > Width-1 || r.Y+r.Height > Height-1 {
		return false
	}
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			t := l.Terrain(x, y)
			if r.InteriorContains(x, y) {
				if t != TerrainEmpty {
					return false
				}
			} else if t != TerrainEmpty && t != TerrainWall {
				return false
			}
		}
	}
	return !l.createsDoubleWall(r)
}

// createsDoubleWall scans the lines one cell outside each side of the
// candidate for runs of existing wall. A run of two or more means the
// new border would sit flush against an old wall, producing the
// double-thick seams the generator forbids. Single touches at corners
// of the attachment room are tolerated.
func (l *Level) createsDoubleWall(r Room) bool {
	runAtLeast2 := func(cells [][2]int) bool {
		run := 0
		for _, c := range cells {
			if l.Terrain(c[0], c[1]) == TerrainWall {
				run++
				if run >= 2 {
					return true
				}
			} else {
				run = 0
			}
		}
		return false
	}

	var top, bottom, left, right [][2]int
	for x := r.X; x < r.X+r.Width; x++ {
		top = append(top, [2]int{x, r.Y - 1})
		bottom = append(bottom, [2]int{x, r.Y + r.Height})
	}
	for y := r.Y; y < r.Y+r.Height; y++ {
		left = append(left, [2]int{r.X - 1, y})
		right = append(right, [2]int{r.X + r.Width, y})
	}
	return runAtLeast2(top) || runAtLeast2(bottom) || runAtLeast2(left) || runAtLeast2(right)
}

// carveRoom writes the room's 1-tile wall border and floor interior.
func (l *Level) carveRoom(r Room) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			if r.InteriorContains(x, y) {
				l.SetTerrain(x, y, TerrainFloor)
			} else {
				l.SetTerrain(x, y, TerrainWall)
			}
		}
	}
}

// placeSpawns puts the player in the start room and populates the
// rest with enemies picked from difficulty-weighted buckets.
func (l *Level) placeSpawns(stream *rng.Stream, difficulty int) {
	px, py := l.StartRoom().Center()
	l.Spawns = append(l.Spawns, Spawn{Name: playerName, Archetype: playerArchetype, X: px, Y: py})

	weights := make([]int, len(enemyArchetypes))
	for i, a := range enemyArchetypes {
		weights[i] = a.weights[difficulty]
	}

	for _, room := range l.Rooms[1:] {
		if stream.Intn(3) == 0 {
			continue
		}
		count := room.Width/3 + stream.Intn(4+difficulty/2)
		for n := 0; n < count; n++ {
			arch := enemyArchetypes[stream.WeightedIndex(weights)]
			for try := 0; try < 10; try++ {
				x := room.X + 1 + stream.Intn(room.Width-2)
				y := room.Y + 1 + stream.Intn(room.Height-2)
				if l.Terrain(x, y) != TerrainFloor || l.spawnAt(x, y) {
					continue
				}
				l.Spawns = append(l.Spawns, Spawn{Name: arch.name, Archetype: arch.id, X: x, Y: y})
				break
			}
		}
	}
}

func (l *Level) spawnAt(x, y int) bool {
	for _, s := range l.Spawns {
		if s.X == x && s.Y == y {
			return true
		}
	}
	return false
}

// scatterTreasure drops small piles on random floor cells. Attempts
// landing on anything but plain floor are abandoned.
func (l *Level) scatterTreasure(stream *rng.Stream, difficulty int) {
	attempts := 5 + 5*difficulty + stream.Intn(6)
	for i := 0; i < attempts; i++ {
		room := l.Rooms[stream.Intn(len(l.Rooms))]
		x := room.X + 1 + stream.Intn(room.Width-2)
		y := room.Y + 1 + stream.Intn(room.Height-2)
		if l.Terrain(x, y) == TerrainFloor {
			l.PutTreasure(x, y, 1+stream.Intn(5))
		}
	}
}

// placeExit marks the center of the room farthest from the start as
// the level terminus: an exit on tiers 0..2, the final treasure on
// the last tier.
func (l *Level) placeExit(difficulty int) Room {
	start := l.StartRoom()
	farthest := start
	best := -1
	for _, room := range l.Rooms[1:] {
		if d := start.CenterDistanceSq(room); d > best {
			best = d
			farthest = room
		}
	}
	x, y := farthest.Center()
	if difficulty >= 3 {
		l.SetTerrain(x, y, TerrainFinalTreasure)
		l.treasure[x+y*Width] = 100
	} else {
		l.SetTerrain(x, y, TerrainExit)
	}
	return farthest
}

// placeVaults attaches locked treasure rooms after the exit exists,
// reusing the normal placement algorithm.
func (l *Level) placeVaults(stream *rng.Stream, difficulty int) {
	want := (difficulty + 1) * 2
	placed := 0
	for i := 0; i < maxPlacementIters && placed < want; i++ {
		threshold := 13 + stream.Intn(3) + difficulty
		if l.tryAttachRoom(stream, threshold) {
			placed++
		}
	}
}

func (l *Level) strewVaultTreasure(stream *rng.Stream, r Room) {
	for y := r.Y + 1; y < r.Y+r.Height-1; y++ {
		for x := r.X + 1; x < r.X+r.Width-1; x++ {
			if l.Terrain(x, y) == TerrainFloor && stream.Intn(2) == 0 {
				l.PutTreasure(x, y, 1+stream.Intn(3))
			}
		}
	}
}
