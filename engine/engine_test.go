package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	skrafl "github.com/vthorsteinsson/skrafl-engine"
	"github.com/vthorsteinsson/skrafl-engine/bai"
	"github.com/vthorsteinsson/skrafl-engine/prng"
)

func engineFixture() *Engine {
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
	z := skrafl.NewZobrist(9, dist.Size, prng.New(5))

	res := &Resources{Kwg: kwg, Klv: klv, Dist: dist, Zobrist: z}
	cfg := Config{
		BoardSize: 9,
		SimPlies:  1,
		BAIOptions: bai.Options{
			Delta:               0.2,
			SamplingRule:        bai.RuleRoundRobin,
			WarmupSamplesPerArm: 1,
			SampleLimit:         40,
		},
	}
	return Init(cfg, res, 99)
}

func TestParseCGPRoundTrip(t *testing.T) {
	dist := &skrafl.Distribution{
		Glyphs: []rune{'?', 'C', 'A', 'T', 'S'},
		Count:  []int{2, 2, 9, 6, 4},
		Score:  []int{0, 3, 1, 1, 1},
		Size:   5,
	}
	kwg := skrafl.BuildDawg([][]skrafl.Tile{{1, 2, 3}})
	cgp := "3CAT3/9/9/9/9/9/9/9/9 CAT/S 12/0 0"
	pos, err := ParseCGP(cgp, 9, dist, kwg, nil)
	require.NoError(t, err)
	require.Equal(t, 12, pos.Scores[0])
	require.Equal(t, 0, pos.Scores[1])
	require.Equal(t, 0, pos.Scoreless)
	require.Equal(t, 3, pos.Racks[0].NumTiles())
	require.Equal(t, 1, pos.Racks[1].NumTiles())
	require.True(t, pos.Board.Squares[0][4].HasTile)
}

func TestEngineRunSyncGen(t *testing.T) {
	e := engineFixture()
	code := e.RunSync("gen 3CAT3/9/9/9/9/9/9/9/9 CAT/S 0/0 0")
	require.Equal(t, Success, code)
	require.NotEmpty(t, e.GetOutput())
	require.Equal(t, Finished, e.ThreadStatus())
}

func TestEngineRunSyncUnknownCommand(t *testing.T) {
	e := engineFixture()
	code := e.RunSync("bogus")
	require.Equal(t, Error, code)
	require.NotEmpty(t, e.GetError())
	require.Empty(t, e.GetError()) // consumed on read
}

func TestEngineStopSetsUserInterrupt(t *testing.T) {
	e := engineFixture()
	e.Stop()
	require.True(t, e.TC.IsExited())
}
