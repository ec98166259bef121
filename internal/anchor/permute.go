package anchor

import "math/bits"

// Permuter produces a deterministic ordering of n items for a seed.
// The result must depend only on (n, seed) so that every process and
// platform computing it arrives at the same order.
type Permuter interface {
	// Permute returns a permutation of the indices 0..n-1.
	Permute(n int, seed int64) []int
}

// XorShiftPermuter shuffles with a Fisher-Yates pass driven by an
// xorshift64* generator. The arithmetic is spelled out here rather than
// delegated to math/rand so the sequence never changes with the Go release.
type XorShiftPermuter struct{}

var _ Permuter = XorShiftPermuter{}

func (XorShiftPermuter) Permute(n int, seed int64) []int {
	if n <= 0 {
		return nil
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	rng := newXorShift(seed)
	for i := 0; i < n-1; i++ {
		j := i + rng.below(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

type xorShift struct {
	state uint64
}

func newXorShift(seed int64) *xorShift {
	return &xorShift{state: uint64(seed) * 0x9E3779B97F4A7C15}
}

func (r *xorShift) next() uint64 {
	x := r.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.state = x
	return x * 0x2545F4914F6CDD1D
}

// below returns a value in [0, n) from the high word of next()*n.
func (r *xorShift) below(n int) int {
	hi, _ := bits.Mul64(r.next(), uint64(n))
	return int(hi)
}
