// Package game owns the round simulation: the deterministic state
// machine that applies player commands and runs every enemy policy
// once per round, and the event-sourced Dungeon wrapper that makes
// the whole history replayable from (seed, command list).
package game

import "fmt"

// Kind discriminates the closed set of player commands.
type Kind string

// The only inputs the simulation accepts.
const (
	MoveUp    Kind = "move_up"
	MoveDown  Kind = "move_down"
	MoveLeft  Kind = "move_left"
	MoveRight Kind = "move_right"
	LevelUp   Kind = "level_up"
)

// Stat names a stat for the LevelUp command.
type Stat string

// Stats a level-up can raise.
const (
	StatArm    Stat = "arm"
	StatLeg    Stat = "leg"
	StatFinger Stat = "finger"
	StatHealth Stat = "health"
)

// Command is one entry of the player's command log. Stat is only
// meaningful for LevelUp.
type Command struct {
	Kind Kind `json:"kind"`
	Stat Stat `json:"stat,omitempty"`
}

// Move constructs a directional command from a unit delta.
func Move(dx, dy int) (Command, bool) {
	switch [2]int{dx, dy} {
	case [2]int{0, -1}:
		return Command{Kind: MoveUp}, true
	case [2]int{0, 1}:
		return Command{Kind: MoveDown}, true
	case [2]int{-1, 0}:
		return Command{Kind: MoveLeft}, true
	case [2]int{1, 0}:
		return Command{Kind: MoveRight}, true
	}
	return Command{}, false
}

// Delta returns the movement vector of a directional command; ok is
// false for LevelUp.
func (c Command) Delta() (dx, dy int, ok bool) {
	switch c.Kind {
	case MoveUp:
		return 0, -1, true
	case MoveDown:
		return 0, 1, true
	case MoveLeft:
		return -1, 0, true
	case MoveRight:
		return 1, 0, true
	}
	return 0, 0, false
}

// Validate rejects commands outside the closed variant set. Decoded
// save payloads run through this before replay.
func (c Command) Validate() error {
	switch c.Kind {
	case MoveUp, MoveDown, MoveLeft, MoveRight:
		if c.Stat != "" {
			return fmt.Errorf("move command carries a stat %q", c.Stat)
		}
		return nil
	case LevelUp:
		switch c.Stat {
		case StatArm, StatLeg, StatFinger, StatHealth:
			return nil
		}
		return fmt.Errorf("unknown level-up stat %q", c.Stat)
	}
	return fmt.Errorf("unknown command kind %q", c.Kind)
}
