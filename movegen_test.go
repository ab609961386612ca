package skrafl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func movegenFixture() (*Board, *Distribution, *Kwg, *Klv) {
	dist := &Distribution{
		Glyphs: []rune{'?', 'C', 'A', 'T', 'S', 'D', 'O', 'G'},
		Count:  []int{2, 2, 9, 6, 4, 4, 8, 3},
		Score:  []int{0, 3, 1, 1, 1, 2, 1, 2},
		Size:   8,
	}
	words := [][]Tile{{1, 2, 3}, {1, 2, 3, 4}} // CAT, CATS
	kwg := BuildDawg(words)
	klv := NewKlvFromLeaves(map[string]float64{})
	b := NewBoard(15, dist)
	return b, dist, kwg, klv
}

func TestGenerateMovesOpeningPlay(t *testing.T) {
	b, dist, kwg, klv := movegenFixture()
	rack := NewRack(dist)
	require.NoError(t, rack.Add(1, 1)) // C
	require.NoError(t, rack.Add(2, 1)) // A
	require.NoError(t, rack.Add(3, 1)) // T

	ml := GenerateMoves(b, rack, dist, kwg, klv, GenPolicy{Mode: RecordAll, Capacity: 0})
	found := false
	for _, m := range ml.Moves() {
		if m.Type != MovePlace {
			continue
		}
		if m.TilesLength == 3 && m.TilesPlayed == 3 {
			found = true
		}
	}
	require.True(t, found, "expected CAT to be generated through the center square")
}

func TestGenerateMovesAlwaysOffersPass(t *testing.T) {
	b, dist, kwg, klv := movegenFixture()
	rack := NewRack(dist)
	require.NoError(t, rack.Add(1, 1))

	ml := GenerateMoves(b, rack, dist, kwg, klv, GenPolicy{Mode: RecordAll, Capacity: 0})
	sawPass := false
	for _, m := range ml.Moves() {
		if m.Type == MovePass {
			sawPass = true
		}
	}
	require.True(t, sawPass)
}

func TestGenerateMovesRecordBestKeepsSingleBest(t *testing.T) {
	b, dist, kwg, klv := movegenFixture()
	rack := NewRack(dist)
	require.NoError(t, rack.Add(1, 1))
	require.NoError(t, rack.Add(2, 1))
	require.NoError(t, rack.Add(3, 1))

	ml := GenerateMoves(b, rack, dist, kwg, klv, GenPolicy{Mode: RecordBest})
	best, ok := ml.Best()
	require.True(t, ok)
	require.GreaterOrEqual(t, best.Score, 0)
}

func TestGenerateMovesDoesNotDuplicateAcrossAnchors(t *testing.T) {
	// A custom tiny lexicon: ABA and XA. Each placed X tile creates an
	// anchor below it whose vertical cross-set admits only A (to
	// complete XA). Two such anchors 2 columns apart, at cols 5 and 7,
	// both sit within the span of a single horizontal ABA play -- if a
	// left part were allowed to reach past the nearer anchor, the
	// farther anchor would rediscover the exact same placement.
	dist := &Distribution{
		Glyphs: []rune{'?', 'A', 'B', 'X'},
		Count:  []int{2, 9, 9, 9},
		Score:  []int{0, 1, 3, 8},
		Size:   4,
	}
	kwg := BuildDawg([][]Tile{{1, 2, 1}, {3, 1}}) // ABA, XA
	klv := NewKlvFromLeaves(map[string]float64{})
	b := NewBoard(15, dist)
	b.PlaceTile(6, 5, 3, false, kwg) // X above col 5
	b.PlaceTile(6, 7, 3, false, kwg) // X above col 7

	rack := NewRack(dist)
	require.NoError(t, rack.Add(1, 2)) // A, A
	require.NoError(t, rack.Add(2, 1)) // B

	ml := GenerateMoves(b, rack, dist, kwg, klv, GenPolicy{Mode: RecordAll, Capacity: 0})
	count := 0
	for _, m := range ml.Moves() {
		if m.Type == MovePlace && m.Dir == Horizontal && m.Row == 7 && m.Col == 5 && m.TilesLength == 3 {
			count++
		}
	}
	require.Equal(t, 1, count, "ABA at row 7 starting col 5 must be generated exactly once")
}

func TestGenerateMovesExtendsThroughExistingTile(t *testing.T) {
	b, dist, kwg, klv := movegenFixture()
	row, col := b.StartSquare()
	b.PlaceTile(row, col, 1, false, kwg) // C at center
	b.PlaceTile(row, col+1, 2, false, kwg) // A
	b.PlaceTile(row, col+2, 3, false, kwg) // T

	rack := NewRack(dist)
	require.NoError(t, rack.Add(4, 1)) // S, to make CATS

	ml := GenerateMoves(b, rack, dist, kwg, klv, GenPolicy{Mode: RecordAll, Capacity: 0})
	found := false
	for _, m := range ml.Moves() {
		if m.Type == MovePlace && m.TilesPlayed == 1 {
			found = true
		}
	}
	require.True(t, found, "expected an extension play adding S to CAT")
}

func TestGenerateMovesEnumeratesAllExchangeSubsets(t *testing.T) {
	b, dist, kwg, klv := movegenFixture()
	rack := NewRack(dist)
	require.NoError(t, rack.Add(1, 1)) // C
	require.NoError(t, rack.Add(2, 1)) // A

	ml := GenerateMoves(b, rack, dist, kwg, klv, GenPolicy{Mode: RecordAll, Capacity: 0})
	var sizes []int
	for _, m := range ml.Moves() {
		if m.Type == MoveExchange {
			sizes = append(sizes, m.TilesLength)
		}
	}
	// rack {C,A}: every non-empty sub-multiset is {C}, {A}, {C,A}.
	require.ElementsMatch(t, []int{1, 1, 2}, sizes)
}

func TestGenerateMovesExchangeCutoffFiltersByResidualSize(t *testing.T) {
	b, dist, kwg, klv := movegenFixture()
	rack := NewRack(dist)
	require.NoError(t, rack.Add(1, 1)) // C
	require.NoError(t, rack.Add(2, 1)) // A

	policy := GenPolicy{Mode: RecordAll, Capacity: 0, HasExchangeCutoff: true, ExchangeCutoffSize: 1}
	ml := GenerateMoves(b, rack, dist, kwg, klv, policy)
	count := 0
	for _, m := range ml.Moves() {
		if m.Type == MoveExchange {
			count++
			require.Equal(t, 1, m.TilesLength, "only exchanges leaving exactly 1 tile should be emitted")
		}
	}
	require.Equal(t, 2, count, "both single-tile exchanges leave a residual rack of size 1")
}

func TestLeftPartCrossChecksRejectsInvalidPerpendicularTile(t *testing.T) {
	dist := &Distribution{
		Glyphs: []rune{'?', 'A', 'T', 'C'},
		Count:  []int{2, 9, 6, 2},
		Score:  []int{0, 1, 1, 3},
		Size:   4,
	}
	kwg := BuildDawg([][]Tile{{1, 2}}) // AT
	b := NewBoard(15, dist)
	b.PlaceTile(6, 6, 1, false, kwg) // A directly above (7,6)

	gs := &genState{board: b, dist: dist, kwg: kwg}
	require.True(t, gs.leftPartCrossChecks(Horizontal, 7, 6, []Tile{2}), "T completes AT, should be allowed")
	require.False(t, gs.leftPartCrossChecks(Horizontal, 7, 6, []Tile{3}), "C does not complete AT, should be rejected")
}
