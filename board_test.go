package skrafl

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vthorsteinsson/skrafl-engine/prng"
)

func fixtureDistribution() *Distribution {
	return &Distribution{
		Glyphs: []rune{'?', 'A', 'B', 'C'},
		Count:  []int{2, 9, 2, 2},
		Score:  []int{0, 1, 3, 3},
		Size:   4,
		Bag:    15,
	}
}

func TestEmptyBoardAnchorIsCenter(t *testing.T) {
	d := fixtureDistribution()
	b := NewBoard(15, d)
	cr, cc := b.StartSquare()
	require.True(t, b.IsAnchor(cr, cc))
	require.False(t, b.IsAnchor(0, 0))
}

func TestAnchorAdjacentToPlacedTile(t *testing.T) {
	d := fixtureDistribution()
	words := [][]Tile{{1, 2, 3}}
	k := BuildDawg(words)
	b := NewBoard(15, d)
	b.PlaceTile(7, 7, 1, false, k)
	require.True(t, b.IsAnchor(7, 8))
	require.True(t, b.IsAnchor(6, 7))
	require.False(t, b.IsAnchor(7, 7))
}

func TestCrossSetRefreshesFarEndOfGrowingRun(t *testing.T) {
	dist := &Distribution{
		Glyphs: []rune{'?', 'A', 'B', 'C', 'D'},
		Count:  []int{2, 9, 2, 2, 2},
		Score:  []int{0, 1, 3, 3, 2},
		Size:   5,
		Bag:    15,
	}
	k := BuildDawg([][]Tile{{4, 1, 2, 3}}) // DABC
	b := NewBoard(15, dist)

	// Build the vertical run one tile at a time, as CGP parsing does.
	b.PlaceTile(6, 7, 1, false, k) // A
	b.PlaceTile(7, 7, 2, false, k) // B
	b.PlaceTile(8, 7, 3, false, k) // C

	sq := &b.Squares[5][7]
	require.NotZero(t, sq.CrossSet[Vertical]&(1<<uint(4)),
		"square above the completed ABC run should allow D via DABC")
}

func TestZobristInvarianceAcrossMoveOrder(t *testing.T) {
	d := fixtureDistribution()
	words := [][]Tile{{1, 2, 3}}
	k := BuildDawg(words)
	rng := prng.New(1)
	z := NewZobrist(15, d.Size, rng)

	b1 := NewBoard(15, d)
	b1.PlaceTile(7, 7, 1, false, k)
	b1.PlaceTile(7, 8, 2, false, k)

	b2 := NewBoard(15, d)
	b2.PlaceTile(7, 8, 2, false, k)
	b2.PlaceTile(7, 7, 1, false, k)

	require.Equal(t, z.Hash(b1, false), z.Hash(b2, false))
}
