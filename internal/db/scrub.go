package db

import (
	"math/rand/v2"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// scrubLength is the length of the filler written over a deleted command
const scrubLength = 32

// Scrubber returns n random alphanumeric characters
type Scrubber func(n int) string

// RandomScrubber draws from the package-level random source
func RandomScrubber(n int) string {
	return randomString(rand.IntN, n)
}

// SeededScrubber returns a deterministic Scrubber for tests
func SeededScrubber(seed uint64) Scrubber {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(n int) string {
		return randomString(r.IntN, n)
	}
}

func randomString(intN func(int) int, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumeric[intN(len(alphanumeric))]
	}
	return string(b)
}
