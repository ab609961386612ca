// Package prng implements the xoshiro256++ pseudo-random generator used
// throughout the engine (C4). It is ported bit-for-bit from the reference
// engine's xoshiro.c/.h: splitmix64 seed expansion, the xoshiro256++
// scrambler, and the 2^128/2^192 jump functions that produce non-
// overlapping per-thread streams (§5 Concurrency & Resource Model).
package prng

import "math/bits"

// max is the largest value prng_next can return.
const max = ^uint64(0)

// Xoshiro256PP is a seedable, copyable, jumpable PRNG stream.
type Xoshiro256PP struct {
	splitMix uint64
	s        [4]uint64
}

// splitmixNext advances the splitmix64 seed expansion state and returns
// the next 64-bit value, used only to seed the four xoshiro words.
func splitmixNext(x *uint64) uint64 {
	*x += 0x9e3779b97f4a7c15
	z := *x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// New creates a new generator seeded from seed.
func New(seed uint64) *Xoshiro256PP {
	p := &Xoshiro256PP{}
	p.Seed(seed)
	return p
}

// Seed reseeds the generator in place; splitmix64 expands the 64-bit seed
// into the four 64-bit words of xoshiro state.
func (p *Xoshiro256PP) Seed(seed uint64) {
	p.splitMix = seed
	for i := range p.s {
		p.s[i] = splitmixNext(&p.splitMix)
	}
}

// Next returns the next 64-bit value in the stream (xoshiro256++ core).
func (p *Xoshiro256PP) Next() uint64 {
	result := bits.RotateLeft64(p.s[0]+p.s[3], 23) + p.s[0]

	t := p.s[1] << 17

	p.s[2] ^= p.s[0]
	p.s[3] ^= p.s[1]
	p.s[1] ^= p.s[2]
	p.s[0] ^= p.s[3]

	p.s[2] ^= t
	p.s[3] = bits.RotateLeft64(p.s[3], 45)

	return result
}

// Uint64n returns a uniform random value in [0, n) via rejection sampling,
// eliminating modulus bias (mirrors prng_get_random_number).
func (p *Xoshiro256PP) Uint64n(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	limit := max - max%n
	x := p.Next()
	for x >= limit {
		x = p.Next()
	}
	return x % n
}

// Intn returns a uniform random value in [0, n).
func (p *Xoshiro256PP) Intn(n int) int {
	return int(p.Uint64n(uint64(n)))
}

// Float64 returns a uniform random value in [0, 1).
func (p *Xoshiro256PP) Float64() float64 {
	// Use the top 53 bits for a uniform double in [0,1), the conventional
	// xoshiro technique.
	return float64(p.Next()>>11) * (1.0 / (1 << 53))
}

var jump = [4]uint64{
	0x180ec6d33cfd0aba, 0xd5a61266f0c9392c,
	0xa9582618e03fc9aa, 0x39abdc4529b1661c,
}

var longJump = [4]uint64{
	0x76e15d3efefdcbbf, 0xc5004e441c522fb3,
	0x77710069854ee241, 0x39109bb02acbe635,
}

// Jump is equivalent to 2^128 calls to Next(); it produces a generator
// state usable as an independent stream from the current one, and
// another 2^128 non-overlapping streams can be obtained from it by
// calling Jump again. Used to hand out per-worker-thread PRNGs (§5).
func (p *Xoshiro256PP) Jump() {
	p.applyJump(jump)
}

// LongJump is equivalent to 2^192 calls to Next(); it can be used to
// generate 2^64 starting points, each with 2^128 non-overlapping
// subsequences obtainable via Jump.
func (p *Xoshiro256PP) LongJump() {
	p.applyJump(longJump)
}

func (p *Xoshiro256PP) applyJump(table [4]uint64) {
	var s [4]uint64
	for _, jw := range table {
		for b := 0; b < 64; b++ {
			if jw&(uint64(1)<<uint(b)) != 0 {
				s[0] ^= p.s[0]
				s[1] ^= p.s[1]
				s[2] ^= p.s[2]
				s[3] ^= p.s[3]
			}
			p.Next()
		}
	}
	p.s = s
}

// Copy returns an independent copy of the generator's current state.
func (p *Xoshiro256PP) Copy() *Xoshiro256PP {
	cp := *p
	return &cp
}
