// bag.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the tile bag: a contiguous buffer bracketed by a
// live region [start, end), sided draw (player 0 from the end, player 1
// from the start), and PRNG-driven shuffle and return-to-bag (C3).
//
// Restructured from the teacher's swap-to-end draw scheme in bag.go into
// the spec's explicit two-index live-region scheme (§3), and rewired from
// math/rand onto the engine's own xoshiro PRNG (§5).

package skrafl

import (
	"github.com/pkg/errors"
	"github.com/vthorsteinsson/skrafl-engine/prng"
)

// ErrBagEmpty is the root cause for drawing from an exhausted live region.
var ErrBagEmpty = errors.New("bag has no tiles left to draw")

// Bag holds the full bag buffer and the live-region bounds.
// Invariant: 0 <= start <= end <= len(Tiles); the multiset
// Tiles[start:end] is preserved by Shuffle.
type Bag struct {
	Tiles []Tile
	start int
	end   int
	rng   *prng.Xoshiro256PP
}

// NewBag builds a fresh, shuffled bag from a letter distribution.
func NewBag(d *Distribution, rng *prng.Xoshiro256PP) *Bag {
	return NewBagFromCounts(d.Count, rng)
}

// NewBagFromCounts builds a shuffled bag holding exactly counts[t]
// copies of tile t, for callers reconstructing the unseen-tile pool
// behind a CGP position (distribution counts minus board and rack
// tiles already accounted for).
func NewBagFromCounts(counts []int, rng *prng.Xoshiro256PP) *Bag {
	total := 0
	for _, c := range counts {
		total += c
	}
	tiles := make([]Tile, 0, total)
	for t, count := range counts {
		for i := 0; i < count; i++ {
			tiles = append(tiles, Tile(t))
		}
	}
	b := &Bag{Tiles: tiles, start: 0, end: len(tiles), rng: rng}
	b.Shuffle()
	return b
}

// Shuffle performs a Fisher-Yates shuffle of the live region using the
// bag's PRNG.
func (b *Bag) Shuffle() {
	for i := b.end - 1; i > b.start; i-- {
		j := b.start + b.rng.Intn(i-b.start+1)
		b.Tiles[i], b.Tiles[j] = b.Tiles[j], b.Tiles[i]
	}
}

// TileCount returns the number of tiles currently live in the bag.
func (b *Bag) TileCount() int {
	return b.end - b.start
}

// DrawForPlayer draws one tile for the given player index (0 draws from
// the end of the live region, 1 draws from the start), per §3.
func (b *Bag) DrawForPlayer(player int) (Tile, error) {
	if b.TileCount() == 0 {
		return 0, ErrBagEmpty
	}
	var t Tile
	if player == 0 {
		b.end--
		t = b.Tiles[b.end]
	} else {
		t = b.Tiles[b.start]
		b.start++
	}
	return t, nil
}

// ReturnTile inserts a tile back into the live region at a random
// position, growing the live region by one.
func (b *Bag) ReturnTile(t Tile) {
	if b.start > 0 {
		b.start--
		b.Tiles[b.start] = t
		pos := b.start + b.rng.Intn(b.end-b.start)
		b.Tiles[b.start], b.Tiles[pos] = b.Tiles[pos], b.Tiles[b.start]
		return
	}
	if b.end == len(b.Tiles) {
		b.Tiles = append(b.Tiles, t)
	} else {
		b.Tiles[b.end] = t
	}
	b.end++
	pos := b.start + b.rng.Intn(b.end-b.start)
	b.Tiles[b.end-1], b.Tiles[pos] = b.Tiles[pos], b.Tiles[b.end-1]
}

// ExchangeAllowed reports whether there are enough tiles in the bag for
// an exchange to be legal (the opponent must still be able to draw a
// full rack afterward, §4.3 item 7).
func (b *Bag) ExchangeAllowed() bool {
	return b.TileCount() >= RackSize
}

// Clone returns an independent deep copy of the bag, sharing the PRNG
// reference (callers that need independent draws must clone the PRNG
// too, e.g. per-rollout clones in the simulator).
func (b *Bag) Clone() *Bag {
	tiles := make([]Tile, len(b.Tiles))
	copy(tiles, b.Tiles)
	return &Bag{Tiles: tiles, start: b.start, end: b.end, rng: b.rng}
}
