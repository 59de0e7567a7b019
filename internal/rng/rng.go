// Package rng provides the deterministic random stream shared by the
// whole simulation. Draw order is part of the observable behavior:
// every consumer takes the stream by pointer and the stream's state is
// a plain comparable value, so simulation snapshots can be copied and
// compared for the replay self-check.
package rng

import "math/bits"

const pcgMultiplier = 6364136223846793005

// Stream is a PCG-XSH-RR 64/32 generator. The zero value is not
// usable; construct with New.
type Stream struct {
	state uint64
	inc   uint64
}

// New seeds a stream from a single 64-bit seed. The state and stream
// selector are derived with SplitMix64 so nearby seeds do not produce
// correlated streams.
func New(seed uint64) Stream {
	sm := seed
	next := func() uint64 {
		sm += 0x9e3779b97f4a7c15
		z := sm
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		return z ^ (z >> 31)
	}
	s := Stream{state: next(), inc: next()<<1 | 1}
	s.state += s.inc
	s.Next()
	return s
}

// Next returns the next 32 bits of the stream.
func (s *Stream) Next() uint32 {
	old := s.state
	s.state = old*pcgMultiplier + s.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := int(old >> 59)
	return bits.RotateLeft32(xorshifted, -rot)
}

// Intn returns a value in [0, n). n must be positive.
func (s *Stream) Intn(n int) int {
	return int(s.Next() % uint32(n))
}

// Roll returns a die roll in [1, sides].
func (s *Stream) Roll(sides int) int {
	return 1 + s.Intn(sides)
}

// WeightedIndex picks an index from weights proportionally. weights
// must be non-empty and sum to a positive value.
func (s *Stream) WeightedIndex(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	pick := s.Intn(total)
	for i, w := range weights {
		pick -= w
		if pick < 0 {
			return i
		}
	}
	return len(weights) - 1
}
