// Package bai implements Best-Arm Identification (C12): given K arms
// each backed by a random variable, repeatedly sample the arm chosen by
// a sampling rule, track running per-arm statistics, and stop once a
// GLRT statistic crosses the GK16/HT threshold -- or an earlier exit
// condition fires (sample limit, time limit, user interrupt, a single
// arm remaining after epigon compaction).
//
// Grounded on original_source/src/impl/bai.c: the BAIArmDatum array
// (N/S/S2, derived mu/sigma2), the producer/consumer sampling loop
// (ported onto queue.go's channels), bai_swap/bai_potentially_mark_epigons
// (swap-to-high-end compaction), and the priority-ordered
// stopping_criterion. The single BAI goroutine that owns Run is the
// sole writer of every per-arm statistic, exactly as the reference
// keeps exactly one thread updating arm data while the rest only
// produce samples -- this sidesteps the need for any per-arm lock.
package bai

import (
	"math"
	"time"

	"github.com/vthorsteinsson/skrafl-engine/prng"
	"github.com/vthorsteinsson/skrafl-engine/rv"
	"github.com/vthorsteinsson/skrafl-engine/threadcontrol"
)

const minVariance = 1e-10

// Rule names accepted by Options.SamplingRule.
const (
	RuleRoundRobin = "round-robin"
	RuleTopTwo     = "top-two"
)

// Options configures one BAI run.
type Options struct {
	Delta               float64 // confidence level, e.g. 0.05
	S                   int     // Robbins exponent, at least 2 (ζ(1) diverges), default 2
	Beta                float64 // top-two leader probability, default 0.5
	SamplingRule        string  // RuleRoundRobin or RuleTopTwo
	WarmupSamplesPerArm int     // initial round-robin passes before the rule engages, default 50
	SampleLimit         uint64  // 0 = unlimited
	TimeLimit           time.Duration
	NumWorkers          int
	// IsSimilar, if non-nil, marks arm b an epigon of arm a (and
	// therefore prunable) once both have enough samples to compare.
	IsSimilar func(a, b int) bool
}

// Result is the outcome of a completed BAI run.
type Result struct {
	Best       int
	N          []int
	Mu         []float64
	Sigma2     []float64
	Samples    uint64
	Elapsed    time.Duration
	ExitStatus threadcontrol.ExitStatus
	IsEpigon   []bool
}

// BAI holds the configuration and threshold for one identification run.
type BAI struct {
	opts Options
	tc   *threadcontrol.ThreadControl
}

// New returns a BAI runner using tc for timing, interruption and the
// seed PRNG jumped out to worker goroutines.
func New(opts Options, tc *threadcontrol.ThreadControl) *BAI {
	if opts.Beta <= 0 {
		opts.Beta = 0.5
	}
	if opts.S <= 0 {
		opts.S = 2
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 1
	}
	return &BAI{opts: opts, tc: tc}
}

type armStats struct {
	n        []int
	s        []float64
	s2       []float64
	mu       []float64
	sigma2   []float64
	isEpigon []bool
	// index maps logical arm position (after compaction) to the
	// original arm index passed to rvs.Sample.
	index []int
}

func newArmStats(k int) *armStats {
	a := &armStats{
		n:        make([]int, k),
		s:        make([]float64, k),
		s2:       make([]float64, k),
		mu:       make([]float64, k),
		sigma2:   make([]float64, k),
		isEpigon: make([]bool, k),
		index:    make([]int, k),
	}
	for i := range a.index {
		a.index[i] = i
	}
	return a
}

// update folds one new sample for the arm at logical position pos into the running sums
// and recomputes its mean/variance estimate.
func (a *armStats) update(pos int, value float64) {
	a.n[pos]++
	a.s[pos] += value
	a.s2[pos] += value * value
	n := float64(a.n[pos])
	a.mu[pos] = a.s[pos] / n
	if a.n[pos] > 1 {
		v := a.s2[pos]/n - a.mu[pos]*a.mu[pos]
		if v < minVariance {
			v = minVariance
		}
		a.sigma2[pos] = v
	} else {
		a.sigma2[pos] = minVariance
	}
}

// swap exchanges the logical arms at positions i and j, carrying their
// statistics and original index along (bai_swap).
func (a *armStats) swap(i, j int) {
	a.n[i], a.n[j] = a.n[j], a.n[i]
	a.s[i], a.s[j] = a.s[j], a.s[i]
	a.s2[i], a.s2[j] = a.s2[j], a.s2[i]
	a.mu[i], a.mu[j] = a.mu[j], a.mu[i]
	a.sigma2[i], a.sigma2[j] = a.sigma2[j], a.sigma2[i]
	a.isEpigon[i], a.isEpigon[j] = a.isEpigon[j], a.isEpigon[i]
	a.index[i], a.index[j] = a.index[j], a.index[i]
}

// argmax returns the logical position with the highest mean among the
// first activeK logical positions.
func (a *armStats) argmax(activeK int) int {
	best := 0
	for i := 1; i < activeK; i++ {
		if a.mu[i] > a.mu[best] {
			best = i
		}
	}
	return best
}

// glrtChallenger computes Zs[k] for every active k != astar and returns
// the index of the hardest-to-distinguish challenger (aalt) along with
// its statistic value.
func glrtChallenger(a *armStats, activeK, astar int) (aalt int, zAalt float64) {
	zAalt = math.Inf(1)
	aalt = -1
	for k := 0; k < activeK; k++ {
		if k == astar {
			continue
		}
		w := float64(a.n[astar]*a.n[k]) / float64(a.n[astar]+a.n[k])
		diff := a.mu[astar] - a.mu[k]
		z := w * diff * diff / (2 * (a.sigma2[astar] + a.sigma2[k]))
		if z < zAalt {
			zAalt = z
			aalt = k
		}
	}
	return aalt, zAalt
}

// potentiallyMarkEpigons compares every active arm against astar using
// IsSimilar, swapping any match to the high end of the active range and
// shrinking activeK, mirroring bai_potentially_mark_epigons's
// swap-compaction (arms are never removed from the slice, just pushed
// past the active boundary).
func potentiallyMarkEpigons(a *armStats, activeK, astar int, isSimilar func(x, y int) bool) int {
	if isSimilar == nil {
		return activeK
	}
	for i := activeK - 1; i >= 0; i-- {
		if i != astar && isSimilar(a.index[astar], a.index[i]) {
			a.isEpigon[i] = true
			last := activeK - 1
			a.swap(i, last)
			if astar == last {
				astar = i
			}
			activeK--
		}
	}
	return activeK
}

// Run executes the BAI loop against rvs (one random variable per arm)
// until a stopping condition fires.
func (b *BAI) Run(rvs rv.RV) (*Result, error) {
	k := rvs.NumRVs()
	stats := newArmStats(k)
	threshold := NewHTThreshold(b.opts.Delta, k, b.opts.S)

	var workerRNG prng.Xoshiro256PP
	b.tc.CopyToAndJump(&workerRNG)

	var rule SamplingRule
	if b.opts.SamplingRule == RuleTopTwo {
		rule = NewTopTwoRule(b.opts.Beta)
	} else {
		rule = NewRoundRobinRule()
	}

	q := newSampleQueue(b.opts.NumWorkers * 2)
	// rvs.Sample is not assumed goroutine-safe: the shared RV kinds
	// (Uniform, Normal) draw from one PRNG pointer across all arms.
	// Every worker shares this one draw closure; draws never overlap
	// because Run keeps at most one request in flight, waiting for each
	// result before it issues the next request.
	draw := func(arm int) float64 { return rvs.Sample(arm) }
	startWorkers(q, b.opts.NumWorkers, draw)
	defer q.closeRequests()

	activeK := k
	astar := 0
	var samples uint64
	var exitStatus threadcontrol.ExitStatus

	warmup := b.opts.WarmupSamplesPerArm
	if warmup < 1 {
		warmup = 50
	}
	for pass := 0; pass < warmup; pass++ {
		for arm := 0; arm < activeK; arm++ {
			q.request(stats.index[arm])
			res := q.receive()
			pos := logicalPosOf(stats, res.Arm, activeK)
			stats.update(pos, res.Value)
			samples++
		}
	}

	for {
		if b.opts.SampleLimit > 0 && samples >= b.opts.SampleLimit {
			exitStatus = threadcontrol.ExitMaxIterations
			break
		}
		if b.opts.TimeLimit > 0 && b.tc.SecondsElapsed() >= b.opts.TimeLimit.Seconds() {
			exitStatus = threadcontrol.ExitMaxTime
			break
		}
		if b.tc.IsExited() {
			exitStatus = b.tc.ExitStatus()
			break
		}

		astar = stats.argmax(activeK)
		activeK = potentiallyMarkEpigons(stats, activeK, astar, b.opts.IsSimilar)
		if activeK <= 1 {
			exitStatus = threadcontrol.ExitThreshold
			break
		}
		astar = stats.argmax(activeK)
		aalt, zAalt := glrtChallenger(stats, activeK, astar)
		if aalt < 0 {
			exitStatus = threadcontrol.ExitThreshold
			break
		}
		if zAalt > threshold.Threshold(stats.n, astar, aalt) && roundRobinComplete(samples, activeK) {
			exitStatus = threadcontrol.ExitThreshold
			break
		}

		state := &samplingState{
			n: stats.n, mu: stats.mu, sigma2: stats.sigma2,
			astar: astar, aalt: aalt, rng: &workerRNG, totalDrawn: int(samples),
		}
		next := rule.NextSample(state)
		if next < 0 || next >= activeK {
			next = astar
		}
		q.request(stats.index[next])
		res := q.receive()
		pos := logicalPosOf(stats, res.Arm, activeK)
		stats.update(pos, res.Value)
		samples++
	}

	astar = stats.argmax(activeK)
	result := &Result{
		Best:       stats.index[astar],
		N:          append([]int(nil), stats.n...),
		Mu:         append([]float64(nil), stats.mu...),
		Sigma2:     append([]float64(nil), stats.sigma2...),
		Samples:    samples,
		Elapsed:    time.Duration(b.tc.SecondsElapsed() * float64(time.Second)),
		ExitStatus: exitStatus,
		IsEpigon:   append([]bool(nil), stats.isEpigon...),
	}
	return result, nil
}

// roundRobinComplete gates a THRESHOLD exit on every active arm having
// had a fair recent turn, approximating bai_is_finished's requirement
// that the round-robin sampling rule has completed a full cycle before
// a GLRT crossing is honored (bai.c).
func roundRobinComplete(samples uint64, activeK int) bool {
	if activeK <= 0 {
		return true
	}
	return samples%uint64(activeK) == 0
}

// logicalPosOf finds the current logical position of the arm whose
// original index is origIdx, searching every position (activeK is not
// used) -- needed because swap-compaction reorders stats.index as epigons are
// discovered mid-run.
func logicalPosOf(a *armStats, origIdx, activeK int) int {
	for i := 0; i < len(a.index); i++ {
		if a.index[i] == origIdx {
			return i
		}
	}
	return origIdx
}
