// zobrist.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements Zobrist hashing over board positions (C7/C13):
// per-(square,tile) 64-bit keys XOR'd into a running hash, plus a
// side-to-move key. Racks have no keys and do not enter the hash, and
// neither does the bag composition (§4.5).

package skrafl

import "github.com/vthorsteinsson/skrafl-engine/prng"

// Zobrist holds the random key tables for one board size/alphabet.
type Zobrist struct {
	posKeys  [][]uint64 // [square][tile+1], tile+1==0 slot unused (empty)
	sideKey  uint64
	n        int
	alphabet int
}

// NewZobrist allocates and fills the key tables from rng. Calling code
// should seed rng deterministically (e.g. from the engine's own PRNG,
// not wall-clock time) so that Zobrist-invariance (§8 property 10) is
// reproducible across runs with the same seed.
func NewZobrist(n, alphabetSize int, rng *prng.Xoshiro256PP) *Zobrist {
	z := &Zobrist{n: n, alphabet: alphabetSize}
	z.posKeys = make([][]uint64, n*n)
	for i := range z.posKeys {
		z.posKeys[i] = make([]uint64, alphabetSize+1)
		for j := range z.posKeys[i] {
			z.posKeys[i][j] = rng.Next() | 1
		}
	}
	z.sideKey = rng.Next() | 1
	return z
}

// squareIndex maps (row,col) to a flat index into posKeys.
func (z *Zobrist) squareIndex(row, col int) int {
	return row*z.n + col
}

// Hash computes the hash of a board from scratch, given the side to
// move (false = player 0's turn).
func (z *Zobrist) Hash(b *Board, sideToMoveIsOne bool) uint64 {
	var h uint64
	for r := 0; r < b.N; r++ {
		for c := 0; c < b.N; c++ {
			sq := &b.Squares[r][c]
			if !sq.HasTile {
				continue
			}
			h ^= z.posKeys[z.squareIndex(r, c)][sq.TileValue+1]
		}
	}
	if sideToMoveIsOne {
		h ^= z.sideKey
	}
	return h
}

// TogglePlace incrementally XORs a single square's placement key in or
// out of an existing hash (placing and un-placing use the same XOR).
func (z *Zobrist) TogglePlace(h uint64, row, col int, tile Tile) uint64 {
	return h ^ z.posKeys[z.squareIndex(row, col)][tile+1]
}

// ToggleSide flips the side-to-move component of a hash.
func (z *Zobrist) ToggleSide(h uint64) uint64 {
	return h ^ z.sideKey
}
