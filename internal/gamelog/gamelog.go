// Package gamelog holds the in-game message log: the record shown to
// the player, as opposed to operational logging. It is simulation
// state and participates in the replay self-check, so it stays a
// plain value type.
package gamelog

import (
	"fmt"
	"slices"
)

// Message is one log line, stamped with the round it happened in.
type Message struct {
	Round uint64
	Text  string
}

// Log is the ordered message history for one run.
type Log struct {
	Messages []Message
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// Combat records an attack resolution.
func (l *Log) Combat(round uint64, format string, args ...any) {
	l.append(round, format, args...)
}

// Lockpicking records a lock attempt.
func (l *Log) Lockpicking(round uint64, format string, args ...any) {
	l.append(round, format, args...)
}

// Training records a stat increase earned by practice.
func (l *Log) Training(round uint64, format string, args ...any) {
	l.append(round, format, args...)
}

func (l *Log) append(round uint64, format string, args ...any) {
	l.Messages = append(l.Messages, Message{Round: round, Text: fmt.Sprintf(format, args...)})
}

// Tail returns up to n of the most recent messages.
func (l *Log) Tail(n int) []Message {
	if len(l.Messages) <= n {
		return l.Messages
	}
	return l.Messages[len(l.Messages)-n:]
}

// Clone returns an independent copy of the log. Nil-ness of the
// message slice is preserved: a clone must stay reflect.DeepEqual to
// its source, and the replay self-check compares states that way.
func (l *Log) Clone() *Log {
	return &Log{Messages: slices.Clone(l.Messages)}
}
