package store

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// SeedCreation marks saves written by Seed.
const SeedCreation = "Created by ether seed-saves"

// seedFromString returns a 64-bit seed from an arbitrary string using SHA256.
func seedFromString(s string) uint64 {
	h := sha256.Sum256([]byte(s))
	return binary.LittleEndian.Uint64(h[:8])
}

// derive returns a deterministic child seed for label using HMAC-SHA256.
func derive(base uint64, label string) uint64 {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, base)
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(label))
	return binary.LittleEndian.Uint64(m.Sum(nil)[:8])
}

// splitMix64 is a small deterministic PRNG.
type splitMix64 struct{ state uint64 }

func (s *splitMix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Stream is a deterministic random number stream with labelled children.
type Stream struct {
	base uint64
	sm   *splitMix64
}

// NewStream seeds a stream from text. Equal text gives equal streams.
func NewStream(seedText string) *Stream {
	seed := seedFromString(seedText)
	return &Stream{base: seed, sm: &splitMix64{state: seed}}
}

// Intn returns a number in [0, n).
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.sm.next() % uint64(n))
}

// Child derives a stable sub-stream.
func (s *Stream) Child(label string) *Stream {
	seed := derive(s.base, label)
	return &Stream{base: seed, sm: &splitMix64{state: seed}}
}

var seedNotes = []string{
	"Test save",
	"Remember to check the journal",
	"FASM-4 seems quiet",
	"Parcel-3 compiler crashed twice",
}

// Seed writes n valid saves named after random numbers below 10000, with
// username and password equal to the name. Names already taken are
// skipped over. The same seedText always produces the same saves.
func (m *Manager) Seed(ctx context.Context, n int, seedText string) ([]*GameState, error) {
	if n < 0 {
		return nil, errors.Errorf("seed: negative count %d", n)
	}
	names := NewStream(seedText).Child("names")
	notes := NewStream(seedText).Child("notes")
	taken := map[string]bool{}
	existing, err := m.Saves()
	if err != nil {
		return nil, err
	}
	for _, st := range existing {
		taken[st.Name()] = true
	}
	if len(taken)+n > 10000 {
		return nil, errors.Errorf("seed: no room for %d more saves", n)
	}

	var out []*GameState
	for len(out) < n {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		name := strconv.Itoa(names.Intn(10000))
		if taken[name] {
			continue
		}
		taken[name] = true
		st := NewGameState()
		fields := []struct {
			key   string
			value any
		}{
			{KeyName, name},
			{KeyUsername, name},
			{KeyPassword, name},
			{KeySaveCreation, SeedCreation},
			{KeyComputerBrand, "ether-industries"},
			{KeyNote, seedNotes[notes.Intn(len(seedNotes))]},
			{KeyDebug, fmt.Sprintf("seed %q #%d", seedText, len(out))},
		}
		for _, f := range fields {
			if err := st.Set(f.key, f.value); err != nil {
				return out, err
			}
		}
		if err := m.SaveState(ctx, st); err != nil {
			return out, err
		}
		out = append(out, st)
	}
	return out, nil
}
