// Package entropy provides the single random source threaded through every
// simulation call. Seeded sources replay identically; an unseeded run draws its
// seed from crypto/rand once and logs it so the run can be reproduced.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	mrand "math/rand/v2"
)

// Source is the random source consumed by the engine.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	Float64() float64 // [0, 1)
	IntN(n int) int   // [0, n)
}

// NewSeeded returns a deterministic PCG source for the given seed.
func NewSeeded(seed int64) *mrand.Rand {
	// Non-cryptographic PRNG is intentional for deterministic replay.
	// #nosec G404
	return mrand.New(mrand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

// Derive returns an independent deterministic source for a named subsystem,
// so adding draws in one subsystem does not shift another's sequence.
func Derive(seed int64, stream string) *mrand.Rand {
	return mrand.New(mrand.NewPCG(seedWord(seed, stream+":a"), seedWord(seed, stream+":b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1), nil
}

// Chance reports whether a roll in [0,1) falls under p.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	return src.Float64() < p
}

// Percentile rolls 1..100.
func Percentile(src Source) int {
	return src.IntN(100) + 1
}

// Between returns a float in [lo, hi).
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Shuffle permutes n elements in place via swap (Fisher–Yates).
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		swap(i, j)
	}
}

// Pick returns a uniformly chosen element. Panics on an empty slice.
func Pick[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}
