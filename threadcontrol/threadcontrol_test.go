package threadcontrol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vthorsteinsson/skrafl-engine/prng"
)

func TestModeTransitions(t *testing.T) {
	tc := New(1)
	require.Equal(t, ModeStopped, tc.GetMode())
	require.True(t, tc.SetModeSearching())
	require.False(t, tc.SetModeSearching()) // already searching
	require.Equal(t, ModeSearching, tc.GetMode())
	require.True(t, tc.SetModeStopped())
	require.False(t, tc.SetModeStopped())
	require.Equal(t, ModeStopped, tc.GetMode())
}

func TestWaitForModeStoppedReturnsOnClose(t *testing.T) {
	tc := New(1)
	require.True(t, tc.SetModeSearching())
	done := make(chan struct{})
	go func() {
		tc.WaitForModeStopped()
		close(done)
	}()
	tc.SetModeStopped()
	<-done
}

func TestExitFirstReasonSticks(t *testing.T) {
	tc := New(1)
	require.True(t, tc.Exit(ExitMaxIterations))
	require.False(t, tc.Exit(ExitUserInterrupt))
	require.Equal(t, ExitMaxIterations, tc.ExitStatus())
	require.True(t, tc.IsExited())
}

func TestNextIterOutputStopsAtMax(t *testing.T) {
	tc := New(1)
	tc.Reset(2)
	_, stop := tc.NextIterOutput()
	require.False(t, stop)
	_, stop = tc.NextIterOutput()
	require.False(t, stop)
	_, stop = tc.NextIterOutput()
	require.True(t, stop)
}

func TestCopyToAndJumpProducesIndependentStream(t *testing.T) {
	tc := New(42)
	var worker prng.Xoshiro256PP
	tc.CopyToAndJump(&worker)
	require.NotEqual(t, tc.Seed(), uint64(0))
	a := worker.Next()
	b := tc.prng.Next()
	require.NotEqual(t, a, b)
}
