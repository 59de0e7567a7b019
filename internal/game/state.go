package game

import (
	"context"

	"github.com/samdwyer/minedelve/internal/ai"
	"github.com/samdwyer/minedelve/internal/entity"
	"github.com/samdwyer/minedelve/internal/gamelog"
	"github.com/samdwyer/minedelve/internal/rng"
	"github.com/samdwyer/minedelve/internal/world"
)

// levelCount is the depth of the mine. The last level hides the final
// treasure instead of an exit.
const levelCount = 4

// State is the complete simulation state of one run. Everything in it
// is either a value or deep-cloned by Clone, so two states produced by
// the same command sequence compare equal with reflect.DeepEqual.
type State struct {
	Stream rng.Stream
	Log    *gamelog.Log

	// Levels are generated up front from the shared stream, one per
	// difficulty tier, so level layout depends only on the seed.
	Levels       []*world.Level
	CurrentLevel int

	// Fighters[0] is the player. Policies is index-parallel; the
	// player's slot is nil.
	Fighters []entity.Fighter
	Policies []ai.Policy

	Round uint64

	// LevelChanged is set for the round in which the player took an
	// exit, for the renderer. Cleared by the next command.
	LevelChanged bool

	// StatIncreasePending gates the LevelUp command. Set on every
	// level transition after the first.
	StatIncreasePending bool
}

// NewState generates the whole mine from one seed and loads the first
// level.
func NewState(ctx context.Context, seed uint64) *State {
	s := &State{
		Stream: rng.New(seed),
		Log:    gamelog.New(),
		Round:  1,
	}
	for difficulty := 0; difficulty < levelCount; difficulty++ {
		s.Levels = append(s.Levels, world.Generate(ctx, &s.Stream, difficulty))
	}
	s.loadLevel()
	return s
}

// Level returns the level the player is currently on.
func (s *State) Level() *world.Level {
	return s.Levels[s.CurrentLevel]
}

// Player returns a copy of the player fighter.
func (s *State) Player() entity.Fighter {
	return s.Fighters[0]
}

// apply runs one command to completion. Movement commands advance the
// round; LevelUp is a menu interaction and does not. A command issued
// after the player is incapacitated changes nothing.
func (s *State) apply(cmd Command) {
	if !s.Fighters[0].Alive() {
		return
	}
	if dx, dy, ok := cmd.Delta(); ok {
		s.LevelChanged = false
		if s.movePlayer(dx, dy) {
			// Descending consumes the whole round; the new level's
			// fighters start acting next round.
			s.Round++
			return
		}
		s.advanceRound()
		return
	}
	if cmd.Kind == LevelUp {
		s.increaseStat(cmd.Stat)
	}
}

// movePlayer steps the player, collects anything on the resulting
// cell, and follows exits down. It reports whether the player left
// the level.
func (s *State) movePlayer(dx, dy int) bool {
	level := s.Level()

	player := s.Fighters[0]
	s.Fighters[0] = entity.Dummy()
	player.Step(dx, dy, s.Fighters, level, &s.Stream, s.Log, s.Round)
	s.Fighters[0] = player

	if got := level.TakeTreasure(player.X, player.Y); got > 0 {
		s.Fighters[0].Stats.Treasure += got
		s.Log.Combat(s.Round, "%s picks up %d minerals.", player.Name, got)
	}
	if level.CollectFinalTreasure(player.X, player.Y) {
		s.Log.Combat(s.Round, "%s unearths the legendary mother lode!", player.Name)
	}

	level.LineOfSightX, level.LineOfSightY = player.X, player.Y

	if level.Terrain(player.X, player.Y) == world.TerrainExit && s.CurrentLevel+1 < len(s.Levels) {
		s.CurrentLevel++
		s.loadLevel()
		s.LevelChanged = true
		s.StatIncreasePending = true
		s.Log.Combat(s.Round, "%s descends deeper into the mine.", player.Name)
		return true
	}
	return false
}

// advanceRound gives every enemy policy one action, in roster order,
// then ticks the round counter. Each fighter is detached from the
// roster while its policy runs so the policy sees everyone but itself.
func (s *State) advanceRound() {
	level := s.Level()
	for i := 1; i < len(s.Fighters); i++ {
		policy := s.Policies[i]
		if policy == nil {
			continue
		}
		f := s.Fighters[i]
		s.Fighters[i] = entity.Dummy()
		policy.Act(&f, s.Fighters, level, &s.Stream, s.Log, s.Round)
		s.Fighters[i] = f
	}
	s.Round++
}

// increaseStat spends a pending level-up on one stat. Without a
// pending increase the command is silently ignored.
func (s *State) increaseStat(stat Stat) {
	if !s.StatIncreasePending {
		return
	}
	player := &s.Fighters[0]
	switch stat {
	case StatArm:
		player.Stats.Arm++
		s.Log.Training(s.Round, "%s's arm grows stronger!", player.Name)
	case StatLeg:
		player.Stats.Leg++
		s.Log.Training(s.Round, "%s's legs grow nimbler!", player.Name)
	case StatFinger:
		player.Stats.Finger++
		s.Log.Training(s.Round, "%s's fingers grow defter!", player.Name)
	case StatHealth:
		player.Stats.MaxHealth++
		player.Stats.Health++
		s.Log.Training(s.Round, "%s toughens up!", player.Name)
	default:
		return
	}
	s.StatIncreasePending = false
}

// loadLevel materializes the current level's spawn list into the
// fighter roster. The player's stats, experience and haul persist
// across levels; position resets to the level's player spawn.
func (s *State) loadLevel() {
	var carried *entity.Fighter
	if len(s.Fighters) > 0 {
		f := s.Fighters[0]
		carried = &f
	}

	s.Fighters = s.Fighters[:0]
	s.Policies = s.Policies[:0]
	for i, spawn := range s.Level().Spawns {
		arch, ok := entity.ArchetypeByID(spawn.Archetype)
		if !ok {
			continue
		}
		f := entity.New(i, arch, spawn.X, spawn.Y)
		if spawn.Name != "" {
			f.Name = spawn.Name
		}
		if i == 0 && carried != nil {
			f.Stats = carried.Stats
			f.Experience = carried.Experience
		}
		s.Fighters = append(s.Fighters, f)
		s.Policies = append(s.Policies, ai.ForArchetype(arch.Policy))
	}

	level := s.Level()
	level.LineOfSightX, level.LineOfSightY = s.Fighters[0].X, s.Fighters[0].Y
}

// Clone returns a deep, independent copy of the state.
func (s *State) Clone() *State {
	c := &State{
		Stream:              s.Stream,
		Log:                 s.Log.Clone(),
		CurrentLevel:        s.CurrentLevel,
		Round:               s.Round,
		LevelChanged:        s.LevelChanged,
		StatIncreasePending: s.StatIncreasePending,
	}
	c.Levels = make([]*world.Level, len(s.Levels))
	for i, l := range s.Levels {
		copied := *l
		c.Levels[i] = &copied
	}
	c.Fighters = make([]entity.Fighter, len(s.Fighters))
	copy(c.Fighters, s.Fighters)
	c.Policies = make([]ai.Policy, len(s.Policies))
	for i, p := range s.Policies {
		if p != nil {
			c.Policies[i] = p.Clone()
		}
	}
	return c
}
