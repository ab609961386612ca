// movelist.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the bounded move list and its three recording
// policies (C8, §3 "Move list", §4.3 "Record-mode short-circuits",
// §4.4 "Move list sorting").

package skrafl

import (
	"sort"

	"github.com/pkg/errors"
)

// RecordMode selects how the generator retains candidate moves.
type RecordMode int

const (
	RecordAll RecordMode = iota
	RecordBest
	RecordWithinXOfBest
)

// ErrMoveListFull is the root cause for a RecordAll list at capacity.
var ErrMoveListFull = errors.New("move list capacity exceeded")

// MoveList is a bounded container of candidate moves, sorted lazily.
type MoveList struct {
	Mode     RecordMode
	SortKey  func(*Move) int64 // higher is better; score or equity
	Capacity int
	Margin   int64 // for RecordWithinXOfBest: best_key - margin floor
	moves    []Move
	sorted   bool
	hasBest  bool
	best     Move
}

// NewMoveList constructs a move list under the given policy.
func NewMoveList(mode RecordMode, capacity int, sortKey func(*Move) int64) *MoveList {
	return &MoveList{Mode: mode, Capacity: capacity, SortKey: sortKey}
}

// Add records a candidate move under the list's policy. For RecordBest
// it keeps only the single best-keyed move seen so far; for
// RecordWithinXOfBest it discards any move whose sort key is below
// Margin, which serves as an absolute key floor (typically best_equity -
// margin from a prior RecordBest pass; a zero Margin keeps every move);
// for RecordAll it appends, erroring on overflow.
func (ml *MoveList) Add(m Move) error {
	ml.sorted = false
	switch ml.Mode {
	case RecordBest:
		key := ml.SortKey(&m)
		if !ml.hasBest || key > ml.SortKey(&ml.best) {
			ml.best = m
			ml.hasBest = true
		}
		return nil
	case RecordWithinXOfBest:
		if ml.Margin != 0 && ml.SortKey(&m) < ml.Margin {
			return nil
		}
		fallthrough
	default: // RecordAll
		if ml.Capacity > 0 && len(ml.moves) >= ml.Capacity {
			return errors.Wrapf(ErrMoveListFull, "capacity %d", ml.Capacity)
		}
		ml.moves = append(ml.moves, m)
		return nil
	}
}

// PruneBound reports whether a candidate whose best-possible remaining
// equity is bound can be discarded without further scoring, per the
// RECORD_BEST in-loop pruning hook (§4.3): true means "discard".
func (ml *MoveList) PruneBound(bound int64) bool {
	if ml.Mode != RecordBest || !ml.hasBest {
		return false
	}
	return bound <= ml.SortKey(&ml.best)
}

// Best returns the single best move recorded under RecordBest.
func (ml *MoveList) Best() (Move, bool) {
	return ml.best, ml.hasBest
}

// Moves returns the recorded moves for RecordAll/RecordWithinXOfBest,
// sorted by (SortKey descending, canonical tie-break).
func (ml *MoveList) Moves() []Move {
	if !ml.sorted {
		sort.SliceStable(ml.moves, func(i, j int) bool {
			ki, kj := ml.SortKey(&ml.moves[i]), ml.SortKey(&ml.moves[j])
			if ki != kj {
				return ki > kj
			}
			return lessCanonical(&ml.moves[i], &ml.moves[j])
		})
		ml.sorted = true
	}
	return ml.moves
}

// Len returns the number of moves recorded (RecordAll/RecordWithinXOfBest).
func (ml *MoveList) Len() int {
	return len(ml.moves)
}

// lessCanonical implements the deterministic tie-break of §4.3:
// lexicographic over (dir, row, col, tile sequence).
func lessCanonical(a, b *Move) bool {
	if a.Dir != b.Dir {
		return a.Dir < b.Dir
	}
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	if a.Col != b.Col {
		return a.Col < b.Col
	}
	n := a.TilesLength
	if b.TilesLength < n {
		n = b.TilesLength
	}
	for i := 0; i < n; i++ {
		if a.Tiles[i] != b.Tiles[i] {
			return a.Tiles[i] < b.Tiles[i]
		}
	}
	return a.TilesLength < b.TilesLength
}
