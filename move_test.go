package skrafl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSmallMoveRoundTrip(t *testing.T) {
	m := Move{
		Type:        MovePlace,
		Dir:         Vertical,
		Row:         7,
		Col:         3,
		Tiles:       [MaxTiles]Tile{1, PlayedThrough, 5, 2},
		TilesLength: 4,
		Score:       42,
	}
	sm := EncodeSmallMove(&m)
	got := DecodeSmallMove(sm)
	require.Equal(t, m.Row, got.Row)
	require.Equal(t, m.Col, got.Col)
	require.Equal(t, m.Dir, got.Dir)
	require.Equal(t, m.Score, got.Score)
	for i := 0; i < m.TilesLength; i++ {
		require.Equal(t, m.Tiles[i], got.Tiles[i], "tile %d", i)
	}
}

func TestMoveListRecordBestKeepsHighest(t *testing.T) {
	ml := NewMoveList(RecordBest, 0, func(m *Move) int64 { return int64(m.Score) })
	require.NoError(t, ml.Add(Move{Score: 10}))
	require.NoError(t, ml.Add(Move{Score: 30}))
	require.NoError(t, ml.Add(Move{Score: 20}))
	best, ok := ml.Best()
	require.True(t, ok)
	require.Equal(t, 30, best.Score)
}

func TestMoveListRecordAllOverflow(t *testing.T) {
	ml := NewMoveList(RecordAll, 2, func(m *Move) int64 { return int64(m.Score) })
	require.NoError(t, ml.Add(Move{Score: 1}))
	require.NoError(t, ml.Add(Move{Score: 2}))
	require.Error(t, ml.Add(Move{Score: 3}))
}

func TestMoveListCanonicalTieBreak(t *testing.T) {
	ml := NewMoveList(RecordAll, 0, func(m *Move) int64 { return int64(m.Score) })
	a := Move{Score: 5, Row: 2, Col: 3}
	b := Move{Score: 5, Row: 1, Col: 9}
	require.NoError(t, ml.Add(a))
	require.NoError(t, ml.Add(b))
	moves := ml.Moves()
	require.Equal(t, 1, moves[0].Row)
}
