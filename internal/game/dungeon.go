package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// SaveVersion tags serialized runs. Older payloads are rejected
// rather than migrated.
const SaveVersion = "0.1.0"

// ErrNondeterministic reports that applying the same command to the
// same state twice produced different results. It means some state
// escaped the snapshot, or something outside the shared random stream
// influenced the outcome; a run that trips it cannot be trusted to
// replay.
var ErrNondeterministic = errors.New("command produced different states on re-application")

// Dungeon is the event-sourced run: a seed plus the ordered command
// log, with the materialized simulation state alongside. Any state it
// reaches can be rebuilt from (seed, commands) alone.
type Dungeon struct {
	seed     uint64
	commands []Command
	state    *State
	verify   bool
}

// New starts a fresh run from a seed, with the replay self-check
// enabled.
func New(ctx context.Context, seed uint64) *Dungeon {
	return &Dungeon{
		seed:   seed,
		state:  NewState(ctx, seed),
		verify: true,
	}
}

// DisableVerification turns off the double-apply self-check. Intended
// for bulk replay of already-verified local saves; logs received from
// the network keep it on.
func (d *Dungeon) DisableVerification() {
	d.verify = false
}

// Apply validates a command, runs it, and appends it to the log. With
// verification on, the command is applied twice from a snapshot and
// the two resulting states must match exactly.
func (d *Dungeon) Apply(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if d.verify {
		before := d.state.Clone()
		d.state.apply(cmd)
		first := d.state
		d.state = before
		d.state.apply(cmd)
		if !reflect.DeepEqual(first, d.state) {
			return ErrNondeterministic
		}
	} else {
		d.state.apply(cmd)
	}

	d.commands = append(d.commands, cmd)
	return nil
}

// Seed returns the seed the run was generated from.
func (d *Dungeon) Seed() uint64 { return d.seed }

// Commands returns a copy of the command log.
func (d *Dungeon) Commands() []Command {
	out := make([]Command, len(d.commands))
	copy(out, d.commands)
	return out
}

// State exposes the materialized simulation state for rendering and
// queries. Callers must not mutate it.
func (d *Dungeon) State() *State { return d.state }

// Round returns the current round number.
func (d *Dungeon) Round() uint64 { return d.state.Round }

// IsGameOver reports whether the player has been incapacitated.
func (d *Dungeon) IsGameOver() bool { return !d.state.Fighters[0].Alive() }

// FinalTreasureFound reports whether the run reached its goal.
func (d *Dungeon) FinalTreasureFound() bool {
	return d.state.Levels[len(d.state.Levels)-1].FinalTreasureFound
}

// PlayerTreasure returns the player's current haul.
func (d *Dungeon) PlayerTreasure() int { return d.state.Fighters[0].Stats.Treasure }

type savePayload struct {
	Version  string    `json:"version"`
	Seed     uint64    `json:"seed"`
	Commands []Command `json:"commands"`
}

// ToBytes serializes the run as its seed and command log.
func (d *Dungeon) ToBytes() ([]byte, error) {
	return json.Marshal(savePayload{
		Version:  SaveVersion,
		Seed:     d.seed,
		Commands: d.commands,
	})
}

// FromBytes rebuilds a run by replaying a serialized command log from
// its seed, with the self-check on. It fails on malformed payloads,
// unknown commands, version mismatches, and logs that do not replay
// deterministically.
func FromBytes(ctx context.Context, data []byte) (*Dungeon, error) {
	return fromBytes(ctx, data, true)
}

// FromBytesUnverified replays without the double-apply self-check.
// Only for payloads this process produced itself; anything received
// over the network goes through FromBytes.
func FromBytesUnverified(ctx context.Context, data []byte) (*Dungeon, error) {
	return fromBytes(ctx, data, false)
}

func fromBytes(ctx context.Context, data []byte, verify bool) (*Dungeon, error) {
	var payload savePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding run: %w", err)
	}
	if payload.Version != SaveVersion {
		return nil, fmt.Errorf("unsupported save version %q", payload.Version)
	}

	d := New(ctx, payload.Seed)
	if !verify {
		d.DisableVerification()
	}
	for i, cmd := range payload.Commands {
		if err := d.Apply(cmd); err != nil {
			return nil, fmt.Errorf("replaying command %d: %w", i, err)
		}
	}
	return d, nil
}
