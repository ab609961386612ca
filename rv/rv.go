// Package rv implements the random-variable layer (C11): the five kinds
// of sampleable arm BAI draws from — uniform, uniform-predetermined,
// normal (Box-Muller), normal-predetermined, and simmed-plays (the
// bridge to an actual rollout, supplied by the caller as a closure since
// rv must not import the simulator).
//
// Grounded on original_source/src/ent/random_variable.c's tagged-union
// RandomVariables (num_rvs, an RNG, a sample_func dispatch); Go expresses
// the same dispatch as an interface instead of a function pointer plus
// type tag.
package rv

import (
	"math"

	"github.com/vthorsteinsson/skrafl-engine/prng"
)

// RV is anything BAI can pull samples from, one arm at a time.
type RV interface {
	NumRVs() int
	Sample(k int) float64
}

// Uniform draws U(0,1) from a shared PRNG stream, independent of which
// arm k is requested.
type Uniform struct {
	rng    *prng.Xoshiro256PP
	numRVs int
}

// NewUniform returns a uniform RV with numRVs arms, all drawing from rng.
func NewUniform(rng *prng.Xoshiro256PP, numRVs int) *Uniform {
	return &Uniform{rng: rng, numRVs: numRVs}
}

func (u *Uniform) NumRVs() int { return u.numRVs }

func (u *Uniform) Sample(k int) float64 { return u.rng.Float64() }

// UniformPredetermined replays a fixed, caller-supplied sequence per
// arm, for deterministic tests that must not depend on PRNG state.
type UniformPredetermined struct {
	sequences [][]float64
	next      []int
}

// NewUniformPredetermined returns a predetermined-uniform RV; sequences[k]
// is the draw sequence for arm k, replayed in order and then held at its
// last value once exhausted.
func NewUniformPredetermined(sequences [][]float64) *UniformPredetermined {
	return &UniformPredetermined{sequences: sequences, next: make([]int, len(sequences))}
}

func (u *UniformPredetermined) NumRVs() int { return len(u.sequences) }

func (u *UniformPredetermined) Sample(k int) float64 {
	seq := u.sequences[k]
	if len(seq) == 0 {
		return 0
	}
	i := u.next[k]
	if i >= len(seq) {
		i = len(seq) - 1
	} else {
		u.next[k]++
	}
	return seq[i]
}

// Normal draws Normal(mean[k], stdev[k]^2) via Box-Muller, consuming two
// uniform draws from a shared PRNG per sample.
type Normal struct {
	rng    *prng.Xoshiro256PP
	means  []float64
	stdevs []float64
}

// NewNormal returns a normal RV; means and stdevs must be equal length.
func NewNormal(rng *prng.Xoshiro256PP, means, stdevs []float64) *Normal {
	return &Normal{rng: rng, means: means, stdevs: stdevs}
}

func (n *Normal) NumRVs() int { return len(n.means) }

func (n *Normal) Sample(k int) float64 {
	u1 := n.rng.Float64()
	u2 := n.rng.Float64()
	// Guard against log(0); Float64's range is [0,1) so u1 can be exactly 0.
	if u1 <= 0 {
		u1 = 1e-300
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return n.means[k] + n.stdevs[k]*z
}

// NormalPredetermined computes mean + stdev*z[i] from a caller-supplied
// sequence of standard-normal deviates, one sequence per arm — for
// reproducing a known BAI trace in tests.
type NormalPredetermined struct {
	means  []float64
	stdevs []float64
	zs     [][]float64
	next   []int
}

// NewNormalPredetermined returns a predetermined-normal RV.
func NewNormalPredetermined(means, stdevs []float64, zs [][]float64) *NormalPredetermined {
	return &NormalPredetermined{means: means, stdevs: stdevs, zs: zs, next: make([]int, len(means))}
}

func (n *NormalPredetermined) NumRVs() int { return len(n.means) }

func (n *NormalPredetermined) Sample(k int) float64 {
	seq := n.zs[k]
	var z float64
	if len(seq) > 0 {
		i := n.next[k]
		if i >= len(seq) {
			i = len(seq) - 1
		} else {
			n.next[k]++
		}
		z = seq[i]
	}
	return n.means[k] + n.stdevs[k]*z
}

// RolloutFunc draws one rollout sample for arm k, used by SimmedPlays.
// The simulator package supplies this closure; rv stays game-agnostic.
type RolloutFunc func(k int) float64

// SimmedPlays is the bridge RV between BAI and the game engine: each
// sample is the signed equity gain after playing arm k's move and
// rolling out a fixed number of plies under the opponent model (§4.7,
// §4.9). All the game-specific mechanics live in the closure; rv only
// counts arms and forwards the call.
type SimmedPlays struct {
	numRVs  int
	rollout RolloutFunc
}

// NewSimmedPlays returns a simmed-plays RV with numRVs arms, each
// sampled by calling rollout(k).
func NewSimmedPlays(numRVs int, rollout RolloutFunc) *SimmedPlays {
	return &SimmedPlays{numRVs: numRVs, rollout: rollout}
}

func (s *SimmedPlays) NumRVs() int { return s.numRVs }

func (s *SimmedPlays) Sample(k int) float64 { return s.rollout(k) }
