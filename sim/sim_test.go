package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	skrafl "github.com/vthorsteinsson/skrafl-engine"
	"github.com/vthorsteinsson/skrafl-engine/bai"
	"github.com/vthorsteinsson/skrafl-engine/prng"
	"github.com/vthorsteinsson/skrafl-engine/threadcontrol"
)

func simFixture() *GameState {
	dist := &skrafl.Distribution{
		Glyphs: []rune{'?', 'C', 'A', 'T', 'S', 'D', 'O', 'G'},
		Count:  []int{2, 2, 9, 6, 4, 4, 8, 3},
		Score:  []int{0, 3, 1, 1, 1, 2, 1, 2},
		Size:   8,
		Bag:    38,
	}
	words := [][]skrafl.Tile{{1, 2, 3}, {1, 2, 3, 4}} // CAT, CATS
	kwg := skrafl.BuildDawg(words)
	klv := skrafl.NewKlvFromLeaves(map[string]float64{})
	board := skrafl.NewBoard(15, dist)
	rng := prng.New(7)
	bag := skrafl.NewBag(dist, rng)

	rack0 := skrafl.NewRack(dist)
	_ = rack0.Add(1, 1) // C
	_ = rack0.Add(2, 1) // A
	_ = rack0.Add(3, 1) // T
	rack1 := skrafl.NewRack(dist)
	_ = rack1.Add(4, 1) // S

	return &GameState{
		Board: board,
		Bag:   bag,
		Racks: [2]*skrafl.Rack{rack0, rack1},
		Dist:  dist,
		Kwg:   kwg,
		Klv:   klv,
	}
}

func TestGameStateApplyPlaceUpdatesScoreAndRack(t *testing.T) {
	gs := simFixture()
	row, col := gs.Board.StartSquare()
	m := skrafl.Move{Type: skrafl.MovePlace, Dir: skrafl.Horizontal, Row: row, Col: col, Score: 5}
	m.TilesLength = copy(m.Tiles[:], []skrafl.Tile{1, 2, 3})
	m.TilesPlayed = 3

	before := gs.Racks[0].NumTiles()
	gs.Apply(m)
	require.Equal(t, 1, gs.ToMove)
	require.Equal(t, 5, gs.Scores[0])
	require.Greater(t, gs.Racks[0].NumTiles()-before, 0) // rack refilled back up, not shrunk
	require.True(t, gs.Board.Squares[row][col].HasTile)
}

func TestBuildCandidatesHashesDiffer(t *testing.T) {
	gs := simFixture()
	rng := prng.New(3)
	z := skrafl.NewZobrist(gs.Board.N, gs.Dist.Size, rng)
	preHash := z.Hash(gs.Board, false)

	ml := skrafl.GenerateMoves(gs.Board, gs.Racks[0], gs.Dist, gs.Kwg, gs.Klv,
		skrafl.GenPolicy{Mode: skrafl.RecordAll, Capacity: 0})
	cands := BuildCandidates(gs, preHash, ml.Moves(), z)
	require.Equal(t, len(ml.Moves()), len(cands))

	seen := map[uint64]int{}
	for _, c := range cands {
		seen[c.PostZH]++
	}
	require.Greater(t, len(seen), 1, "expected distinct moves to mostly produce distinct post-move hashes")
}

func TestSimulatorRunPicksAMove(t *testing.T) {
	gs := simFixture()
	rng := prng.New(3)
	z := skrafl.NewZobrist(gs.Board.N, gs.Dist.Size, rng)
	preHash := z.Hash(gs.Board, false)

	ml := skrafl.GenerateMoves(gs.Board, gs.Racks[0], gs.Dist, gs.Kwg, gs.Klv,
		skrafl.GenPolicy{Mode: skrafl.RecordAll, Capacity: 0, UseEquity: true})
	cands := BuildCandidates(gs, preHash, ml.Moves(), z)
	require.NotEmpty(t, cands)

	tc := threadcontrol.New(11)
	sim := NewSimulator(Options{
		Plies: 2,
		BAIOptions: bai.Options{
			Delta:               0.2,
			SamplingRule:        bai.RuleRoundRobin,
			WarmupSamplesPerArm: 2,
			SampleLimit:         uint64(len(cands) * 5),
		},
	}, z)

	result, err := sim.Run(gs, cands, tc)
	require.NoError(t, err)
	require.NotNil(t, result)
}
