// Package entropy derives reproducible, domain-separated random streams from
// one master seed. Each subsystem asks for its own stream by label
// ("plates/direction/3", "plates/merge") and never shares state with another.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"
)

const (
	labelPrime  = 0x100000001B3 // FNV-1a 64-bit prime
	labelOffset = 0xCBF29CE484222325

	golden = 0x9E3779B97F4A7C15
)

// SplitMix64 advances state and returns the next mixed word.
func SplitMix64(state *uint64) uint64 {
	*state += golden
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Mix folds a domain label into the master seed. Bytes are accumulated in
// order, so "ab" and "ba" give different results.
func Mix(seed uint64, domain string) uint64 {
	h := uint64(labelOffset) ^ seed
	for i := 0; i < len(domain); i++ {
		h ^= uint64(domain[i])
		h *= labelPrime
	}
	return SplitMix64(&h)
}

// Expand stretches a 64-bit value into four independent words.
func Expand(x uint64) [4]uint64 {
	var out [4]uint64
	state := x
	for i := range out {
		out[i] = SplitMix64(&state)
	}
	return out
}

// Seed256 returns the 32-byte seed for (seed, domain), little-endian.
func Seed256(seed uint64, domain string) [32]byte {
	var buf [32]byte
	for i, w := range Expand(Mix(seed, domain)) {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
	return buf
}

// New returns a ChaCha8-backed generator for the given domain.
func New(seed uint64, domain string) *mrand.Rand {
	return mrand.New(mrand.NewChaCha8(Seed256(seed, domain)))
}

// Newf is New with a formatted domain label.
func Newf(seed uint64, format string, args ...any) *mrand.Rand {
	return New(seed, fmt.Sprintf(format, args...))
}

// NoiseSeed derives a signed seed for noise libraries that take int64.
func NoiseSeed(seed uint64, domain string) int64 {
	return int64(Mix(seed, domain))
}

// UserSeed returns a fresh 8-digit seed code suitable for display. Uses
// crypto/rand; on failure falls back to a time-independent constant so the
// caller still gets a valid code.
func UserSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 10000000
	}
	return 10000000 + binary.LittleEndian.Uint64(b[:])%90000000
}

// ExpandUserSeed turns a short user-facing code into a full 64-bit master seed.
func ExpandUserSeed(code uint64) uint64 {
	state := code
	return SplitMix64(&state)
}
