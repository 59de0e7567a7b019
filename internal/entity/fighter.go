package entity

import (
	"github.com/samdwyer/minedelve/internal/gamelog"
	"github.com/samdwyer/minedelve/internal/rng"
	"github.com/samdwyer/minedelve/internal/world"
)

// Experience accumulates fractional training progress toward the next
// stat point, in single precision. Only fighters that level up (the
// player) carry one.
type Experience struct {
	Arm    float32
	Leg    float32
	Finger float32
}

// Fighter is a positioned combatant. Fighters are plain values: the
// simulation owns them in a slice, snapshots them by copy, and
// compares them for the replay self-check. The player is always id 0.
type Fighter struct {
	ID    int
	Name  string
	Glyph rune
	X, Y  int
	Stats Stats

	// HitFrom is the direction of the last attack that landed on this
	// fighter, valid while HasHitFrom is set. Consumed by the
	// self-defense policy.
	HitFrom    [2]int
	HasHitFrom bool

	LevelsUp   bool
	Experience Experience
}

// New creates a fighter from an archetype at the given position.
func New(id int, a Archetype, x, y int) Fighter {
	return Fighter{
		ID:       id,
		Name:     a.Name,
		Glyph:    a.Glyph,
		X:        x,
		Y:        y,
		Stats:    a.Stats,
		LevelsUp: a.LevelsUp,
	}
}

// Dummy returns the placeholder swapped into a fighter's slot while
// its policy runs against the rest of the roster.
func Dummy() Fighter {
	return Fighter{Name: "Dummy", Glyph: '?', Stats: dummyStats}
}

// Alive reports whether the fighter can still act.
func (f *Fighter) Alive() bool {
	return f.Stats.Health > 0
}

// Walkable reports whether other fighters may move through this one.
// Only the incapacitated are walkable.
func (f *Fighter) Walkable() bool {
	return f.Stats.Health == 0
}

// Step attempts to move the fighter by one cell. Occupied target
// cells resolve an attack instead; closed doors are opened (locked
// ones after a finger roll) but still block this turn. The new
// position is committed only when nothing blocked the move.
func (f *Fighter) Step(dx, dy int, fighters []Fighter, level *world.Level, stream *rng.Stream, log *gamelog.Log, round uint64) {
	newX, newY := f.X+dx, f.Y+dy
	hitSomething := false

	for i := range fighters {
		other := &fighters[i]
		if other.X != newX || other.Y != newY || !other.Alive() {
			continue
		}
		damage := other.TakeDamage(f, level, stream, log, round)
		other.HitFrom = [2]int{-dx, -dy}
		other.HasHitFrom = true
		// A defender that drops stays walkable; only survivors block.
		if !other.Walkable() {
			hitSomething = true
		}
		if damage > 0 {
			f.trainArm(log, round)
		}
	}

	terrain := level.Terrain(newX, newY)
	if terrain.Unwalkable() {
		hitSomething = true
	}
	switch terrain {
	case world.TerrainDoor:
		level.OpenDoor(newX, newY)
	case world.TerrainLockedDoor:
		threshold := level.LockThreshold(newX, newY)
		roll := stream.Roll(6)
		finger := f.Stats.Finger
		if roll+finger >= threshold {
			level.OpenDoor(newX, newY)
			log.Lockpicking(round, "The lock clicks open! Roll: %d + %d finger vs threshold %d.", roll, finger, threshold)
			f.trainFinger(log, round)
		} else {
			log.Lockpicking(round, "The lock holds. Roll: %d + %d finger vs threshold %d.", roll, finger, threshold)
		}
	}

	if !hitSomething {
		f.X = newX
		f.Y = newY
		f.trainLeg(log, round)
	}
}

// TakeDamage resolves one attack against this fighter and returns the
// damage dealt (0 on a miss). A lethal hit drops the carried treasure
// where the fighter fell.
func (f *Fighter) TakeDamage(from *Fighter, level *world.Level, stream *rng.Stream, log *gamelog.Log, round uint64) int {
	roll := stream.Roll(6)
	modifier := from.Stats.Arm - f.Stats.Leg
	if roll < -modifier {
		log.Combat(round, "%s struck %s, but missed. Roll: %d (1d6 modified by %d arm - %d leg = %d).",
			from.Name, f.Name, roll, from.Stats.Arm, f.Stats.Leg, modifier)
		return 0
	}

	damage := 1 + (roll+modifier)/6
	f.Stats.Health -= damage
	if f.Stats.Health < 0 {
		f.Stats.Health = 0
	}
	log.Combat(round, "%s hit %s for %d damage! Roll: %d (1d6 modified by %d arm - %d leg = %d).",
		from.Name, f.Name, damage, roll, from.Stats.Arm, f.Stats.Leg, modifier)

	if f.Stats.Health == 0 {
		log.Combat(round, "%s was incapacitated!", f.Name)
		if f.Stats.Treasure > 0 {
			level.PutTreasure(f.X, f.Y, f.Stats.Treasure)
		}
	}
	return damage
}

// CastCrossBeam fires beams in all four axis directions until they
// hit unwalkable terrain, damaging every living fighter caught on
// either beam.
func (f *Fighter) CastCrossBeam(fighters []Fighter, level *world.Level, stream *rng.Stream, log *gamelog.Log, round uint64) {
	x0, y0 := 0, 0
	x1, y1 := 0, 0
	for !level.Terrain(f.X+x0-1, f.Y).Unwalkable() {
		x0--
	}
	for !level.Terrain(f.X+x1+1, f.Y).Unwalkable() {
		x1++
	}
	for !level.Terrain(f.X, f.Y+y0-1).Unwalkable() {
		y0--
	}
	for !level.Terrain(f.X, f.Y+y1+1).Unwalkable() {
		y1++
	}

	for i := range fighters {
		other := &fighters[i]
		if !other.Alive() {
			continue
		}
		onVertical := other.X == f.X && other.Y >= f.Y+y0 && other.Y <= f.Y+y1
		onHorizontal := other.Y == f.Y && other.X >= f.X+x0 && other.X <= f.X+x1
		if onVertical || onHorizontal {
			other.TakeDamage(f, level, stream, log, round)
		}
	}
}

// Training: stats improve by use, at a rate that slows as the stat
// grows. Only fighters flagged LevelsUp accumulate experience.

func (f *Fighter) trainArm(log *gamelog.Log, round uint64) {
	if !f.LevelsUp {
		return
	}
	f.Experience.Arm += 1.0 / float32(max(1, 10+5*(f.Stats.Arm-10)))
	for f.Experience.Arm >= 1.0 {
		f.Experience.Arm -= 1.0
		f.Stats.Arm++
		log.Training(round, "%s's arm grows stronger from battle!", f.Name)
	}
}

func (f *Fighter) trainLeg(log *gamelog.Log, round uint64) {
	if !f.LevelsUp {
		return
	}
	f.Experience.Leg += 1.0 / float32(max(1, 50+50*(f.Stats.Leg-10)))
	for f.Experience.Leg >= 1.0 {
		f.Experience.Leg -= 1.0
		f.Stats.Leg++
		log.Training(round, "%s's legs grow nimbler from walking!", f.Name)
	}
}

func (f *Fighter) trainFinger(log *gamelog.Log, round uint64) {
	if !f.LevelsUp {
		return
	}
	f.Experience.Finger += 1.0 / float32(max(1, 2+2*(f.Stats.Finger-10)))
	for f.Experience.Finger >= 1.0 {
		f.Experience.Finger -= 1.0
		f.Stats.Finger++
		log.Training(round, "%s's fingers grow defter from picking locks!", f.Name)
	}
}
