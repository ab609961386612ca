package skrafl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKwgFindWord(t *testing.T) {
	words := [][]Tile{tilize("123"), tilize("124"), tilize("13")}
	k := BuildDawg(words)
	require.True(t, k.FindWord(k.DawgRoot, tilize("123")))
	require.True(t, k.FindWord(k.DawgRoot, tilize("124")))
	require.True(t, k.FindWord(k.DawgRoot, tilize("13")))
	require.False(t, k.FindWord(k.DawgRoot, tilize("12")))
	require.False(t, k.FindWord(k.DawgRoot, tilize("999")))
}

func TestKwgWordIndexMonotonic(t *testing.T) {
	words := [][]Tile{tilize("1"), tilize("12"), tilize("13"), tilize("2")}
	k := BuildDawg(words)
	var prev int = -1
	for _, w := range []string{"1", "12", "13", "2"} {
		idx, ok := k.WordIndex(k.DawgRoot, tilize(w))
		require.True(t, ok, w)
		require.Greater(t, idx, prev)
		prev = idx
	}
}

func TestCrossSetMemoizes(t *testing.T) {
	words := [][]Tile{tilize("123"), tilize("143")}
	k := BuildDawg(words)
	set1 := k.CrossSet(tilize("1"), tilize("3"), 6)
	require.NotZero(t, set1)
	require.True(t, set1&(1<<2) != 0)
	require.True(t, set1&(1<<4) != 0)
	require.True(t, k.crossCache.Contains(crossKey{left: tilesKey(tilize("1")), right: tilesKey(tilize("3"))}))
	set2 := k.CrossSet(tilize("1"), tilize("3"), 6)
	require.Equal(t, set1, set2)
}
