// Package ai implements the per-round decision policies of non-player
// fighters. Policies form a closed sum type and carry only the
// minimal mutable state they need, since they are part of the
// replayable simulation state.
package ai

import (
	"math"

	"github.com/samdwyer/minedelve/internal/entity"
	"github.com/samdwyer/minedelve/internal/gamelog"
	"github.com/samdwyer/minedelve/internal/rng"
	"github.com/samdwyer/minedelve/internal/world"
)

// Policy decides one action per round for its fighter. Act receives
// the fighter detached from the roster: fighters still contains every
// other combatant (the acting fighter's slot holds a placeholder), so
// the policy may freely read and mutate the rest of the roster.
type Policy interface {
	Act(self *entity.Fighter, fighters []entity.Fighter, level *world.Level, stream *rng.Stream, log *gamelog.Log, round uint64)
	Clone() Policy
}

// ForArchetype returns a fresh policy for an archetype's policy kind,
// or nil for the player (who has none).
func ForArchetype(kind string) Policy {
	switch kind {
	case "selfdefense":
		return &SelfDefense{}
	case "skitterer":
		return &Skitterer{}
	case "hunter":
		return &Hunter{Distance: 4}
	case "tower":
		return &Tower{AttackInterval: 3}
	case "":
		return nil
	default:
		return &Passive{}
	}
}

// Passive does nothing, ever.
type Passive struct{}

func (p *Passive) Act(*entity.Fighter, []entity.Fighter, *world.Level, *rng.Stream, *gamelog.Log, uint64) {
}

func (p *Passive) Clone() Policy { return &Passive{} }

// SelfDefense stands still until attacked, then retaliates toward the
// attacker one round later. Left alone, it occasionally wanders.
type SelfDefense struct {
	// WasAttacked arms retaliation: set the round after a hit lands,
	// consumed the round after that.
	WasAttacked bool
}

func (p *SelfDefense) Act(self *entity.Fighter, fighters []entity.Fighter, level *world.Level, stream *rng.Stream, log *gamelog.Log, round uint64) {
	if !self.Alive() {
		return
	}
	if self.HasHitFrom {
		if p.WasAttacked {
			self.Step(self.HitFrom[0], self.HitFrom[1], fighters, level, stream, log, round)
			p.WasAttacked = false
			self.HasHitFrom = false
		} else {
			p.WasAttacked = true
		}
		return
	}
	n := 1 + stream.Intn(21)
	if stream.Intn(n) == 0 {
		randomWalk(self, fighters, level, stream, log, round)
	}
}

func (p *SelfDefense) Clone() Policy { return &SelfDefense{WasAttacked: p.WasAttacked} }

// Skitterer runs around randomly, avoiding doors, exits and the void.
type Skitterer struct{}

func (p *Skitterer) Act(self *entity.Fighter, fighters []entity.Fighter, level *world.Level, stream *rng.Stream, log *gamelog.Log, round uint64) {
	if !self.Alive() {
		return
	}
	randomWalk(self, fighters, level, stream, log, round)
}

func (p *Skitterer) Clone() Policy { return &Skitterer{} }

// Hunter closes in on the player once within range, resting two of
// every four rounds; out of range it wanders on even rounds.
type Hunter struct {
	Distance float64
}

func (p *Hunter) Act(self *entity.Fighter, fighters []entity.Fighter, level *world.Level, stream *rng.Stream, log *gamelog.Log, round uint64) {
	if !self.Alive() {
		return
	}
	player := &fighters[0]
	dx, dy := player.X-self.X, player.Y-self.Y
	pd := math.Sqrt(float64(dx*dx + dy*dy))
	if pd <= p.Distance && round%4 < 2 {
		if dy != 0 {
			self.Step(0, sign(dy), fighters, level, stream, log, round)
		} else {
			self.Step(sign(dx), 0, fighters, level, stream, log, round)
		}
	} else if pd > p.Distance && round%2 == 0 {
		randomWalk(self, fighters, level, stream, log, round)
	}
}

func (p *Hunter) Clone() Policy { return &Hunter{Distance: p.Distance} }

// Tower keeps its distance from the player and periodically sweeps
// the room with a cross-shaped beam.
type Tower struct {
	AttackInterval uint64
}

func (p *Tower) Act(self *entity.Fighter, fighters []entity.Fighter, level *world.Level, stream *rng.Stream, log *gamelog.Log, round uint64) {
	if !self.Alive() {
		return
	}
	if p.AttackInterval > 0 && round%p.AttackInterval == 0 {
		self.CastCrossBeam(fighters, level, stream, log, round)
		return
	}

	player := &fighters[0]
	sx, sy := sign(self.X-player.X), sign(self.Y-player.Y)
	first, second := [2]int{sx, 0}, [2]int{0, sy}
	if abs(self.Y-player.Y) > abs(self.X-player.X) {
		first, second = second, first
	}
	// Prefer the axis whose target cell is not blocked, so the tower
	// does not pin itself into corners.
	for _, d := range [2][2]int{first, second} {
		if d[0] == 0 && d[1] == 0 {
			continue
		}
		if !level.Terrain(self.X+d[0], self.Y+d[1]).Unwalkable() {
			self.Step(d[0], d[1], fighters, level, stream, log, round)
			return
		}
	}
}

func (p *Tower) Clone() Policy { return &Tower{AttackInterval: p.AttackInterval} }

// randomWalk makes one random-direction step attempt, rejecting moves
// onto living fighters, onto terrain wanderers avoid, and upward
// moves that would tuck the fighter under a wall overhang.
func randomWalk(self *entity.Fighter, fighters []entity.Fighter, level *world.Level, stream *rng.Stream, log *gamelog.Log, round uint64) {
	var dx, dy int
	switch stream.Intn(4) {
	case 0:
		dx = 1
	case 1:
		dx = -1
	case 2:
		dy = 1
	default:
		dy = -1
	}
	newX, newY := self.X+dx, self.Y+dy

	for i := range fighters {
		if fighters[i].X == newX && fighters[i].Y == newY && fighters[i].Alive() {
			return
		}
	}
	if level.Terrain(newX, newY).AvoidedByWanderers() {
		return
	}
	if dy < 0 && level.Terrain(newX, newY-1) == world.TerrainWall {
		return
	}
	self.Step(dx, dy, fighters, level, stream, log, round)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
