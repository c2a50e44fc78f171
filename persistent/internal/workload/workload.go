// Package workload produces reproducible key sets for tests and benchmarks of the
// persistent collections.
package workload

import (
	"github.com/brianvoe/gofakeit/v6"
)

// Seed is the default seed for shuffling.
const Seed = 42

// Shuffled returns the keys 0…n-1 in a pseudo-random order determined by seed.
func Shuffled(n int, seed int64) []int {
	keys := make([]int, n)
	for i := range keys {
		keys[i] = i
	}
	gofakeit.New(seed).ShuffleInts(keys)
	return keys
}

// Reshuffled returns a copy of keys in a different pseudo-random order.
func Reshuffled(keys []int, seed int64) []int {
	c := make([]int, len(keys))
	copy(c, keys)
	gofakeit.New(seed + 1).ShuffleInts(c)
	return c
}

// Words returns n distinct string keys, reproducible for a given seed.
func Words(n int, seed int64) []string {
	faker := gofakeit.New(seed)
	seen := make(map[string]struct{}, n)
	words := make([]string, 0, n)
	for len(words) < n {
		w := faker.Noun() + "-" + faker.UUID()[:8]
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}
