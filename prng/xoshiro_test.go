package prng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeedDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Next(), b.Next())
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	require.NotEqual(t, a.Next(), b.Next())
}

func TestJumpProducesDistinctStream(t *testing.T) {
	a := New(7)
	b := a.Copy()
	b.Jump()

	var av, bv []uint64
	for i := 0; i < 16; i++ {
		av = append(av, a.Next())
		bv = append(bv, b.Next())
	}
	require.NotEqual(t, av, bv)
}

func TestUint64nWithinBounds(t *testing.T) {
	p := New(99)
	for i := 0; i < 1000; i++ {
		v := p.Uint64n(7)
		require.Less(t, v, uint64(7))
	}
}

func TestCopyIsIndependent(t *testing.T) {
	a := New(5)
	b := a.Copy()
	a.Next()
	require.NotEqual(t, a.s, b.s)
}
