// Package sim implements the move-choice simulator (C14): build one
// BAI arm per candidate move, each backed by a simmed-plays random
// variable whose samples are full rollouts (play the candidate, then
// alternate top-equity moves for both sides for a fixed number of
// plies, then diff the scores), and run BAI to identify the move that
// is truly best under the rollout model rather than static equity
// alone (§4.9).
//
// Grounded on §4.9 and wired against the Zobrist hash (C7, equal
// post-move hash is the epigon-similarity predicate), the move
// generator (C9), and the random-variable/BAI layers (C11/C12).
package sim

import (
	"time"

	skrafl "github.com/vthorsteinsson/skrafl-engine"
	"github.com/vthorsteinsson/skrafl-engine/bai"
	"github.com/vthorsteinsson/skrafl-engine/prng"
	"github.com/vthorsteinsson/skrafl-engine/rv"
	"github.com/vthorsteinsson/skrafl-engine/threadcontrol"
)

// Options configures one simulation run.
type Options struct {
	Plies      int // half-turns to roll out after the candidate move
	BAIOptions bai.Options
}

// Candidate is one move under consideration, paired with the Zobrist
// hash of the position immediately after playing it (used for epigon
// detection: two candidates that transpose to the same resulting
// position are duplicates).
type Candidate struct {
	Move   skrafl.Move
	PostZH uint64
}

// Result is the outcome of simulating a set of candidates.
type Result struct {
	Best       skrafl.Move
	BAI        *bai.Result
}

// Simulator rolls out candidate moves from a fixed starting position
// and runs BAI over the resulting reward samples to pick the best one.
type Simulator struct {
	opts    Options
	zobrist *skrafl.Zobrist
}

// NewSimulator returns a simulator using z for epigon-similarity
// hashing.
func NewSimulator(opts Options, z *skrafl.Zobrist) *Simulator {
	return &Simulator{opts: opts, zobrist: z}
}

// Run builds one arm per candidate, wires epigon detection on equal
// PostZH, and executes BAI, returning the identified best move.
func (s *Simulator) Run(state *GameState, candidates []Candidate, tc *threadcontrol.ThreadControl) (*Result, error) {
	side := state.ToMove
	var workerRNG prng.Xoshiro256PP
	tc.CopyToAndJump(&workerRNG)

	rollout := func(k int) float64 {
		branch := state.Clone()
		branch.Apply(candidates[k].Move)
		return s.rollout(branch, side, &workerRNG)
	}

	rvs := rv.NewSimmedPlays(len(candidates), rollout)

	opts := s.opts.BAIOptions
	opts.IsSimilar = func(a, b int) bool {
		return candidates[a].PostZH == candidates[b].PostZH
	}
	runner := bai.New(opts, tc)
	result, err := runner.Run(rvs)
	if err != nil {
		return nil, err
	}
	return &Result{Best: candidates[result.Best].Move, BAI: result}, nil
}

// rollout plays out up to Plies half-turns from branch (which already
// reflects the candidate move), each side choosing its single
// highest-equity move via the generator, and returns the signed score
// differential for side once the rollout ends.
func (s *Simulator) rollout(branch *GameState, side int, rng *prng.Xoshiro256PP) float64 {
	for ply := 0; ply < s.opts.Plies; ply++ {
		if branch.IsOver() {
			break
		}
		mover := branch.ToMove
		ml := skrafl.GenerateMoves(branch.Board, branch.Racks[mover], branch.Dist, branch.Kwg, branch.Klv,
			skrafl.GenPolicy{Mode: skrafl.RecordBest, UseEquity: true})
		best, ok := ml.Best()
		if !ok {
			break
		}
		branch.Apply(best)
	}
	return float64(branch.EquityDiff(side))
}

// BuildCandidates converts a generated move list into simulator
// candidates, computing each one's post-move Zobrist hash from state's
// current hash by toggling every newly placed square plus the side key.
func BuildCandidates(state *GameState, preHash uint64, moves []skrafl.Move, z *skrafl.Zobrist) []Candidate {
	out := make([]Candidate, len(moves))
	for i, m := range moves {
		h := preHash
		if m.Type == skrafl.MovePlace {
			row, col := m.Row, m.Col
			for j := 0; j < m.TilesLength; j++ {
				t := m.Tiles[j]
				if t == skrafl.PlayedThrough {
					continue
				}
				r, c := row, col
				if m.Dir == skrafl.Horizontal {
					c += j
				} else {
					r += j
				}
				h = z.TogglePlace(h, r, c, skrafl.BaseLetter(t))
			}
		}
		h = z.ToggleSide(h)
		out[i] = Candidate{Move: m, PostZH: h}
	}
	return out
}

// DefaultTimeLimit is a per-decision wall-clock ceiling a caller can pass
// as BAIOptions.TimeLimit (§4.9 "bounded simulation time"). Nothing in
// this package applies it on its own; a zero TimeLimit sets no limit.
const DefaultTimeLimit = 5 * time.Second
