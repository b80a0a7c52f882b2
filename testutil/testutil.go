package testutil

import (
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/facetgo/metadata"
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

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// Zipf returns a Zipf-distributed index in [0, n).
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
// Facet values in real catalogs follow this shape: a few resolutions or file
// types dominate.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}

	return n - 1
}

// FacetSpace maps facet keys to the values a generated item may take.
type FacetSpace map[string][]string

// MediaSpace returns a facet space shaped like a video stream listing.
func MediaSpace() FacetSpace {
	return FacetSpace{
		"media_type":     {"Audio-and-Video", "Video", "Audio"},
		"file_type":      {"mp4", "webm", "3gp"},
		"resolution":     {"1080p", "720p", "480p", "360p", "144p"},
		"audio_bit_rate": {"128kbps", "160kbps", "48kbps", "70kbps"},
	}
}

// Keys returns the facet keys in sorted order.
func (s FacetSpace) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Documents generates n documents drawing Zipf-distributed values from space.
// missingRate is the probability that a facet is absent from a document
// (0.3 = 30% missing). Generation is deterministic for a given seed.
func (r *RNG) Documents(n int, space FacetSpace, missingRate float64) []metadata.Document {
	keys := space.Keys()

	r.mu.Lock()
	defer r.mu.Unlock()

	docs := make([]metadata.Document, n)
	for i := range n {
		doc := make(metadata.Document, len(keys))
		for _, k := range keys {
			if r.rand.Float64() < missingRate {
				continue
			}
			values := space[k]
			if len(values) == 0 {
				continue
			}
			doc[k] = metadata.String(values[r.zipfLocked(len(values), 1.1)])
		}
		docs[i] = doc
	}

	return docs
}

// Shuffled returns a shuffled copy of s.
func Shuffled[T any](r *RNG, s []T) []T {
	out := slices.Clone(s)
	perm := r.Perm(len(out))
	for i, j := range perm {
		out[i] = s[j]
	}
	return out
}
