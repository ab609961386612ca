// equity.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the fixed-point Equity scalar used for leave
// values, scores, and every equity-ordering comparison in the engine
// (§3 Data Model).

package skrafl

import (
	"math"

	"golang.org/x/exp/constraints"
)

// EquityScale is the fixed-point scale factor: equity = round(value*Scale).
const EquityScale = 1_000_000

// Equity is a signed fixed-point scalar. Integer scores widen to Equity
// losslessly via ScoreToEquity.
type Equity int64

// EquityMin denotes "impossible / pruned" and compares below any real
// value produced by normal play.
const EquityMin = Equity(math.MinInt64 / 2)

// FloatToEquity converts a floating-point value (e.g. a leave value read
// from a KLV file) into fixed-point Equity.
func FloatToEquity(v float64) Equity {
	if v >= 0 {
		return Equity(v*EquityScale + 0.5)
	}
	return Equity(v*EquityScale - 0.5)
}

// ToFloat converts an Equity back to a float64.
func (e Equity) ToFloat() float64 {
	return float64(e) / EquityScale
}

// ScoreToEquity widens an integer score losslessly into Equity units.
func ScoreToEquity(score int) Equity {
	return Equity(score) * EquityScale
}

// Add returns e + other.
func (e Equity) Add(other Equity) Equity {
	return e + other
}

// Clamp bounds v to [lo, hi], used wherever fixed-point equity or a raw
// tile count must not stray outside a known-valid range (e.g. flooring
// a derived tile count at zero).
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
