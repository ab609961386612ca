package rv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vthorsteinsson/skrafl-engine/prng"
)

func TestUniformBounded(t *testing.T) {
	u := NewUniform(prng.New(1), 3)
	for k := 0; k < 3; k++ {
		for i := 0; i < 100; i++ {
			v := u.Sample(k)
			require.GreaterOrEqual(t, v, 0.0)
			require.Less(t, v, 1.0)
		}
	}
}

func TestUniformPredeterminedReplaysThenHolds(t *testing.T) {
	u := NewUniformPredetermined([][]float64{{0.1, 0.2, 0.3}})
	require.Equal(t, 0.1, u.Sample(0))
	require.Equal(t, 0.2, u.Sample(0))
	require.Equal(t, 0.3, u.Sample(0))
	require.Equal(t, 0.3, u.Sample(0))
}

func TestNormalPredeterminedExactFormula(t *testing.T) {
	n := NewNormalPredetermined([]float64{10}, []float64{2}, [][]float64{{1.5}})
	require.InDelta(t, 13.0, n.Sample(0), 1e-9)
}

func TestSimmedPlaysForwardsToRollout(t *testing.T) {
	calls := map[int]int{}
	s := NewSimmedPlays(2, func(k int) float64 {
		calls[k]++
		return float64(k) * 10
	})
	require.Equal(t, 2, s.NumRVs())
	require.Equal(t, 10.0, s.Sample(1))
	require.Equal(t, 1, calls[1])
}
