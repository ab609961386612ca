// rack.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the rack: a small multiset of tiles, plus its
// bit-packed encoding used for hashing and KLV table keys (C2).

package skrafl

import (
	"sort"

	"github.com/pkg/errors"
)

// RackSize is the maximum number of tiles a rack may hold.
const RackSize = 7

// ErrRackOverflow is the root cause for a rack that would exceed RackSize.
var ErrRackOverflow = errors.New("rack size exceeds RackSize")

// ErrRackUnderflow is the root cause for removing a tile the rack does
// not contain.
var ErrRackUnderflow = errors.New("rack does not contain tile")

// Rack is a multiset of tile counts, one slot per alphabet value.
// Invariant: Count[t] <= distribution.Count[t] at all times (enforced by
// callers that also own the Bag); Σ Count[t] <= RackSize.
type Rack struct {
	Count []int // indexed by Tile
	Size  int   // distribution size, for bounds checks
}

// NewRack returns an empty rack sized for the given distribution.
func NewRack(d *Distribution) *Rack {
	return &Rack{Count: make([]int, d.Size), Size: d.Size}
}

// NumTiles returns the total number of tiles on the rack.
func (r *Rack) NumTiles() int {
	n := 0
	for _, c := range r.Count {
		n += c
	}
	return n
}

// Add places count tiles of value t onto the rack.
func (r *Rack) Add(t Tile, count int) error {
	if r.NumTiles()+count > RackSize {
		return errors.Wrapf(ErrRackOverflow, "adding %d of tile %d", count, t)
	}
	r.Count[t] += count
	return nil
}

// Remove takes count tiles of value t off the rack.
func (r *Rack) Remove(t Tile, count int) error {
	if r.Count[t] < count {
		return errors.Wrapf(ErrRackUnderflow, "removing %d of tile %d, have %d", count, t, r.Count[t])
	}
	r.Count[t] -= count
	return nil
}

// Has returns true if the rack contains at least one of tile t.
func (r *Rack) Has(t Tile) bool {
	return r.Count[t] > 0
}

// HasBlank returns true if the rack contains at least one blank.
func (r *Rack) HasBlank() bool {
	return r.Count[Blank] > 0
}

// IsEmpty returns true if the rack holds no tiles.
func (r *Rack) IsEmpty() bool {
	return r.NumTiles() == 0
}

// Clone returns an independent copy of the rack.
func (r *Rack) Clone() *Rack {
	cp := &Rack{Count: make([]int, len(r.Count)), Size: r.Size}
	copy(cp.Count, r.Count)
	return cp
}

// AsTiles returns the rack's contents as a sorted slice of tile values,
// blank (0) last -- the canonical ordering §4.1 requires for KLV lookup.
func (r *Rack) AsTiles() []Tile {
	var out []Tile
	for t := 1; t < len(r.Count); t++ {
		for i := 0; i < r.Count[t]; i++ {
			out = append(out, Tile(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	for i := 0; i < r.Count[Blank]; i++ {
		out = append(out, Blank)
	}
	return out
}

// BitRack is a 128-bit hashable encoding of a rack: a fixed number of bits
// per tile value packs the per-tile count, high word first. With
// MaxAlphabetSize=63 and a 2-bit-per-tile count field (racks never hold
// more than 3 of any one tile in practice; values above 3 saturate at 3,
// matching the reference rack_list/encoded_rack scheme) this fits two
// uint64 words.
type BitRack [2]uint64

const bitsPerTile = 2
const tilesPerWord = 64 / bitsPerTile // 32

// ToBitRack packs the rack into its 128-bit key.
func (r *Rack) ToBitRack() BitRack {
	var br BitRack
	for t, c := range r.Count {
		if c == 0 {
			continue
		}
		if c > 3 {
			c = 3
		}
		word, shift := t/tilesPerWord, uint(t%tilesPerWord)*bitsPerTile
		br[word] |= uint64(c) << shift
	}
	return br
}

// FromBitRack unpacks a BitRack into a fresh Rack sized for size tile
// values.
func FromBitRack(br BitRack, size int) *Rack {
	r := &Rack{Count: make([]int, size), Size: size}
	mask := uint64(1<<bitsPerTile) - 1
	for t := 0; t < size; t++ {
		word, shift := t/tilesPerWord, uint(t%tilesPerWord)*bitsPerTile
		r.Count[t] = int((br[word] >> shift) & mask)
	}
	return r
}
