// board.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the board (C7): an N×N grid of squares, cached
// per-direction cross-sets/cross-scores/anchors, and the letter/word
// multiplier layout. Generalized from the teacher's board.go (Square,
// multiplier grids, Fragment/CrossWords) from a fixed 15×15 two-language
// layout into the spec's loadable, direction-cached design (§4.2).

package skrafl

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Direction indexes the two cross-set/cross-score caches per square.
type Direction int

const (
	Horizontal Direction = 0
	Vertical   Direction = 1
)

// Perp returns the direction perpendicular to d.
func (d Direction) Perp() Direction {
	if d == Horizontal {
		return Vertical
	}
	return Horizontal
}

// Square is one board cell.
type Square struct {
	HasTile    bool
	TileValue  Tile
	Blanked    bool
	LetterMult int
	WordMult   int

	// CrossSet[d] is the bitset of tiles legal to place here such that
	// the word formed along direction d through this square validates;
	// CrossSet[d] = all bits set when the square has no neighbor along d
	// ("open").
	CrossSet   [2]uint64
	CrossScore [2]int
}

// Board is the N×N playing surface.
type Board struct {
	N          int
	Squares    [][]Square
	Dist       *Distribution
	NumTiles   int
	Transposed bool
}

// NewBoard allocates an empty N×N board with every square fully open
// (cross-set = all tiles legal) until the first move updates it.
func NewBoard(n int, dist *Distribution) *Board {
	full := allTilesMask(dist.Size)
	sq := make([][]Square, n)
	for r := 0; r < n; r++ {
		sq[r] = make([]Square, n)
		for c := 0; c < n; c++ {
			sq[r][c] = Square{
				LetterMult: 1,
				WordMult:   1,
				CrossSet:   [2]uint64{full, full},
			}
		}
	}
	return &Board{N: n, Squares: sq, Dist: dist}
}

// Clone returns an independent deep copy of the board, for speculative
// play (rollouts) that must not disturb the position it branched from.
func (b *Board) Clone() *Board {
	sq := make([][]Square, b.N)
	for r := range sq {
		sq[r] = make([]Square, b.N)
		copy(sq[r], b.Squares[r])
	}
	return &Board{N: b.N, Squares: sq, Dist: b.Dist, NumTiles: b.NumTiles, Transposed: b.Transposed}
}

func allTilesMask(size int) uint64 {
	if size >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(size)) - 1
}

// ErrLayoutParse is the root cause for a malformed board layout file.
var ErrLayoutParse = errors.New("malformed board layout")

// LoadLayout parses the §6 board-layout grid: N rows of N chars each,
// '1'..'9' = word multiplier, 'A'..'Z' = letter multiplier, '.' = no
// bonus. The center square (the one marked, by convention, with the
// highest word multiplier on an odd-sized empty-board grid) gets no
// special marker in the file; StartSquare derives it from N.
func (b *Board) LoadLayout(r io.Reader) error {
	sc := bufio.NewScanner(r)
	row := 0
	for sc.Scan() {
		if row >= b.N {
			return errors.Wrapf(ErrLayoutParse, "more than %d rows", b.N)
		}
		line := sc.Text()
		runes := []rune(line)
		if len(runes) != b.N {
			return errors.Wrapf(ErrLayoutParse, "row %d has %d cols, want %d", row, len(runes), b.N)
		}
		for col, ch := range runes {
			switch {
			case ch == '.':
				// no bonus, defaults already 1/1
			case ch >= '1' && ch <= '9':
				b.Squares[row][col].WordMult = int(ch - '0')
			case ch >= 'A' && ch <= 'Z':
				b.Squares[row][col].LetterMult = int(ch-'A') + 2
			default:
				return errors.Wrapf(ErrLayoutParse, "row %d col %d: bad glyph %q", row, col, ch)
			}
		}
		row++
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "scanning layout")
	}
	if row != b.N {
		return errors.Wrapf(ErrLayoutParse, "only %d rows, want %d", row, b.N)
	}
	return nil
}

// StartSquare returns the center square coordinates.
func (b *Board) StartSquare() (row, col int) {
	return b.N / 2, b.N / 2
}

// IsEmpty reports whether the board has no placed tiles.
func (b *Board) IsEmpty() bool {
	return b.NumTiles == 0
}

// PlaceTile places a tile (possibly blank-designated) on the board and
// incrementally refreshes the cross-sets of every affected square, per
// the algorithm in §4.2: the square itself, and the empty squares at
// both far ends of the two perpendicular runs now passing through it.
func (b *Board) PlaceTile(row, col int, tile Tile, blanked bool, kwg *Kwg) {
	sq := &b.Squares[row][col]
	sq.HasTile = true
	sq.TileValue = tile
	sq.Blanked = blanked
	b.NumTiles++
	b.refreshCrossSetsAround(row, col, kwg)
}

// RemoveTile clears a square (used when unwinding a speculative move,
// e.g. in rollouts) and refreshes the affected cross-sets.
func (b *Board) RemoveTile(row, col int, kwg *Kwg) {
	sq := &b.Squares[row][col]
	sq.HasTile = false
	sq.TileValue = 0
	sq.Blanked = false
	b.NumTiles--
	b.refreshCrossSetsAround(row, col, kwg)
}

// refreshCrossSetsAround refreshes the square that was just placed into
// or emptied, plus the empty squares at both far ends of the two
// perpendicular runs through it. A run can be longer than one tile (§4.2
// step 4: boards are built tile by tile via PlaceTile), so the square
// whose cross-set actually changes when a run grows is not always the
// placed square's immediate neighbor -- refreshBoundary walks past the
// whole contiguous run to find it.
func (b *Board) refreshCrossSetsAround(row, col int, kwg *Kwg) {
	b.refreshLine(row, col, Horizontal, kwg)
	b.refreshLine(row, col, Vertical, kwg)
	b.refreshBoundary(row, col, Horizontal, -1, kwg)
	b.refreshBoundary(row, col, Horizontal, 1, kwg)
	b.refreshBoundary(row, col, Vertical, -1, kwg)
	b.refreshBoundary(row, col, Vertical, 1, kwg)
}

// refreshBoundary walks from (row,col) along d.Perp() in the given step
// direction, past every contiguous placed tile, and refreshes the first
// empty square it finds there -- the far end of the run through
// (row,col) in that direction.
func (b *Board) refreshBoundary(row, col int, d Direction, step int, kwg *Kwg) {
	perp := d.Perp()
	r, c := row, col
	for {
		if perp == Horizontal {
			c += step
		} else {
			r += step
		}
		if r < 0 || r >= b.N || c < 0 || c >= b.N {
			return
		}
		if !b.Squares[r][c].HasTile {
			b.refreshLine(r, c, d, kwg)
			return
		}
	}
}

// refreshLine recomputes the cross-set/cross-score of the square at
// (row,col) in the perpendicular direction of d, per §4.2 steps 1-4.
func (b *Board) refreshLine(row, col int, d Direction, kwg *Kwg) {
	sq := &b.Squares[row][col]
	if sq.HasTile {
		return
	}
	perp := d.Perp()
	left, leftScore := b.fragment(row, col, perp, -1)
	right, rightScore := b.fragment(row, col, perp, 1)
	if len(left) == 0 && len(right) == 0 {
		sq.CrossSet[perp] = allTilesMask(b.Dist.Size)
		sq.CrossScore[perp] = 0
		return
	}
	sq.CrossSet[perp] = kwg.CrossSet(left, right, b.Dist.Size)
	sq.CrossScore[perp] = leftScore + rightScore
}

// fragment walks from (row,col) in direction step (-1 or +1) along d,
// collecting the contiguous placed letters, stopping at an empty
// square or the edge. It returns the letters in left-to-right reading
// order regardless of walk direction, plus their summed score.
func (b *Board) fragment(row, col int, d Direction, step int) ([]Tile, int) {
	var tiles []Tile
	score := 0
	r, c := row, col
	for {
		if d == Horizontal {
			c += step
		} else {
			r += step
		}
		if r < 0 || r >= b.N || c < 0 || c >= b.N {
			break
		}
		sq := &b.Squares[r][c]
		if !sq.HasTile {
			break
		}
		if step < 0 {
			tiles = append([]Tile{sq.TileValue}, tiles...)
		} else {
			tiles = append(tiles, sq.TileValue)
		}
		if !sq.Blanked {
			score += b.Dist.ScoreOf(sq.TileValue)
		}
	}
	return tiles, score
}

// IsAnchor reports whether (row,col) is an anchor square: empty and
// adjacent to a placed tile, or the center square on an empty board
// (§4.2 "Anchors").
func (b *Board) IsAnchor(row, col int) bool {
	if b.Squares[row][col].HasTile {
		return false
	}
	if b.IsEmpty() {
		cr, cc := b.StartSquare()
		return row == cr && col == cc
	}
	if row > 0 && b.Squares[row-1][col].HasTile {
		return true
	}
	if row < b.N-1 && b.Squares[row+1][col].HasTile {
		return true
	}
	if col > 0 && b.Squares[row][col-1].HasTile {
		return true
	}
	if col < b.N-1 && b.Squares[row][col+1].HasTile {
		return true
	}
	return false
}
