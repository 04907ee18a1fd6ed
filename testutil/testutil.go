package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a float64 built from arbitrary bits.
// The result may be NaN, infinite, subnormal or a signed zero.
func (r *RNG) Float64() float64 {
	return math.Float64frombits(r.Uint64())
}

// Series returns n samples drawn from N(mu, sigma).
// Locks only once per call.
func (r *RNG) Series(n int, mu, sigma float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, n)
	for i := range out {
		out[i] = mu + sigma*r.rand.NormFloat64()
	}
	return out
}

// Name returns a random identifier of length n that is safe to use as a
// test or variable name.
func (r *RNG) Name(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789_"
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[r.rand.Intn(len(letters))]
	}
	return string(b)
}

// CollidingVariables searches variable names "v0", "v1", ... under test until
// two distinct keys land in the same slot of a table with the given capacity.
func CollidingVariables(hash func(key string, capacity int) int, capacity int, test string) (string, string, bool) {
	seen := make(map[int]string, capacity)
	for i := 0; i <= capacity; i++ {
		v := fmt.Sprintf("v%d", i)
		slot := hash(test+":"+v, capacity)
		if prev, ok := seen[slot]; ok {
			return prev, v, true
		}
		seen[slot] = v
	}
	return "", "", false
}
