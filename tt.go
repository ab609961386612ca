// tt.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the transposition table (C13): a power-of-two
// array of packed 16-byte entries, always-replace, with the 40-bit
// hash-prefix reconstruction trick ported bit-for-bit from
// original_source/src/ent/transposition_table.h. Thread-safety uses
// atomic.Uint64 loads/stores (no CAS loop, since the replacement policy
// is unconditional overwrite, unlike a value-comparing table) -- the
// technique is styled after herohde-morlock's atomic.Pointer-based
// lock-free table, adapted to the spec's always-replace semantics.

package skrafl

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// TT flag values (top 2 bits of flag_and_depth).
const (
	TTExact uint8 = 0x01
	TTLower uint8 = 0x02
	TTUpper uint8 = 0x03
)

const (
	bottom3ByteMask = 1<<24 - 1
	depthMask       = 1<<6 - 1
	minSizePower    = 24 // a 40-bit hash prefix needs >= 2^24 buckets (§3)
)

// ttEntry is the packed 16-byte transposition entry, represented here
// as two uint64 words for atomic access: word0 = top5Bytes<<24 |
// score<<8 | flagAndDepth (all 64 bits used), word1 = tinyMove.
type ttEntry struct {
	top5Bytes    uint64 // 40 bits
	score        int16
	flagAndDepth uint8
	tinyMove     uint64
}

func (e ttEntry) pack() (uint64, uint64) {
	w0 := (e.top5Bytes << 24) | uint64(uint16(e.score))<<8 | uint64(e.flagAndDepth)
	return w0, e.tinyMove
}

func unpackTTEntry(w0, w1 uint64) ttEntry {
	return ttEntry{
		top5Bytes:    w0 >> 24,
		score:        int16(uint16(w0 >> 8)),
		flagAndDepth: uint8(w0),
		tinyMove:     w1,
	}
}

func (e ttEntry) valid() bool { return e.flag() != 0 }
func (e ttEntry) flag() uint8 { return e.flagAndDepth >> 6 }
func (e ttEntry) depth() uint8 { return e.flagAndDepth & depthMask }

func ttFullHash(e ttEntry, index uint64) uint64 {
	return (e.top5Bytes << 24) | (index & bottom3ByteMask)
}

// bucket is the atomic home of one slot's two words.
type bucket struct {
	w0, w1 atomic.Uint64
}

// TranspositionTable is the power-of-two, always-replace, self-
// validating-hash table described in §4.5.
type TranspositionTable struct {
	table        []bucket
	sizePowerOf2 int
	sizeMask     uint64
	zobrist      *Zobrist

	created      atomic.Uint64
	hits         atomic.Uint64
	lookups      atomic.Uint64
	t2Collisions atomic.Uint64
}

// ErrTTSizeTooSmall names a table of fewer than 2^24 entries, which
// would make the 40-bit hash-prefix trick unsound. NewTranspositionTable
// does not return it: it clamps sizePower up to minSizePower instead.
var ErrTTSizeTooSmall = errors.New("transposition table size below 2^24 entries")

// NewTranspositionTable allocates a table with 2^sizePower entries.
// sizePower is clamped up to minSizePower (§3 "k >= 24").
func NewTranspositionTable(sizePower int, z *Zobrist) *TranspositionTable {
	if sizePower < minSizePower {
		sizePower = minSizePower
	}
	n := uint64(1) << uint(sizePower)
	return &TranspositionTable{
		table:        make([]bucket, n),
		sizePowerOf2: sizePower,
		sizeMask:     n - 1,
		zobrist:      z,
	}
}

// Reset clears every entry and the diagnostic counters.
func (tt *TranspositionTable) Reset() {
	for i := range tt.table {
		tt.table[i].w0.Store(0)
		tt.table[i].w1.Store(0)
	}
	tt.created.Store(0)
	tt.hits.Store(0)
	tt.lookups.Store(0)
	tt.t2Collisions.Store(0)
}

// Lookup returns the entry stored for zval, and ok=false on a miss
// (including a type-2 collision, which increments the counter).
func (tt *TranspositionTable) Lookup(zval uint64) (flag uint8, depth uint8, score int16, move uint64, ok bool) {
	idx := zval & tt.sizeMask
	b := &tt.table[idx]
	w0, w1 := b.w0.Load(), b.w1.Load()
	tt.lookups.Add(1)
	e := unpackTTEntry(w0, w1)
	full := ttFullHash(e, idx)
	if full != zval {
		if e.valid() {
			tt.t2Collisions.Add(1)
		}
		return 0, 0, 0, 0, false
	}
	tt.hits.Add(1)
	return e.flag(), e.depth(), e.score, e.tinyMove, true
}

// Store unconditionally overwrites the bucket for zval (§4.5's
// always-replace policy; no comparison against the existing entry).
func (tt *TranspositionTable) Store(zval uint64, flag uint8, depth uint8, score int16, move uint64) {
	idx := zval & tt.sizeMask
	e := ttEntry{
		top5Bytes:    zval >> 24,
		score:        score,
		flagAndDepth: (flag << 6) | (depth & depthMask),
		tinyMove:     move,
	}
	w0, w1 := e.pack()
	b := &tt.table[idx]
	b.w0.Store(w0)
	b.w1.Store(w1)
	tt.created.Add(1)
}

// Stats returns the diagnostic counters (§E3 supplemented feature).
func (tt *TranspositionTable) Stats() (created, hits, lookups, t2Collisions uint64) {
	return tt.created.Load(), tt.hits.Load(), tt.lookups.Load(), tt.t2Collisions.Load()
}
