package skrafl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKlvRoundTrip(t *testing.T) {
	klv := NewKlvFromLeaves(map[string]float64{
		"1":  1.5,
		"12": -2.25,
		"13": 0.75,
	})
	r := &Rack{Count: []int{0, 1, 1, 0, 0, 0}, Size: 6}
	v := klv.LeaveValue(r)
	require.Equal(t, FloatToEquity(-2.25), v)
}

func TestKlvMissReturnsZero(t *testing.T) {
	klv := NewKlvFromLeaves(map[string]float64{"1": 1.0})
	r := &Rack{Count: []int{0, 0, 0, 1, 0, 0}, Size: 6}
	require.Equal(t, Equity(0), klv.LeaveValue(r))
}
