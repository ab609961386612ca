// klv.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the leave-value table (KLV, C6): a word graph
// sharing the lexicon's node shape, indexed by the same sorted-rack
// word-index walk, mapping each indexable leave to a fixed-point equity
// adjustment (§3, §4.1).

package skrafl

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// Klv is the immutable leave-value table.
type Klv struct {
	graph  *Kwg
	values []Equity
}

// LoadKlv reads the binary leave-value format of §6: the same
// num_nodes-prefixed node array as a lexicon file, followed by
// num_leaves little-endian float32 values converted to fixed-point
// Equity on load.
func LoadKlv(r io.Reader) (*Klv, error) {
	graph, err := LoadKwg(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading klv graph")
	}
	var numLeaves uint32
	if err := binary.Read(r, binary.LittleEndian, &numLeaves); err != nil {
		return nil, errors.Wrap(err, "reading klv leave count")
	}
	floats := make([]float32, numLeaves)
	if err := binary.Read(r, binary.LittleEndian, &floats); err != nil {
		return nil, errors.Wrap(err, "reading klv leave values")
	}
	values := make([]Equity, numLeaves)
	for i, f := range floats {
		values[i] = FloatToEquity(float64(clampFloat32(f)))
	}
	return &Klv{graph: graph, values: values}, nil
}

// NewKlvFromLeaves builds an in-memory KLV from an explicit
// leave->value map, for tests and small fixtures.
func NewKlvFromLeaves(leaves map[string]float64) *Klv {
	words := make([][]Tile, 0, len(leaves))
	for leave := range leaves {
		words = append(words, tilize(leave))
	}
	graph := BuildDawg(words)
	maxIdx := -1
	indexOf := map[string]int{}
	for leave := range leaves {
		idx, ok := graph.WordIndex(graph.DawgRoot, tilize(leave))
		if !ok {
			continue
		}
		indexOf[leave] = idx
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	values := make([]Equity, maxIdx+1)
	for leave, v := range leaves {
		if idx, ok := indexOf[leave]; ok {
			values[idx] = FloatToEquity(v)
		}
	}
	return &Klv{graph: graph, values: values}
}

// LeaveValue returns the equity adjustment for holding rack as a leave.
// A leave not found in the table returns 0, never an error (§4.1
// "Failure model").
func (k *Klv) LeaveValue(rack *Rack) Equity {
	if rack.IsEmpty() {
		return 0
	}
	tiles := rack.AsTiles()
	idx, ok := k.graph.WordIndex(k.graph.DawgRoot, tiles)
	if !ok || idx < 0 || idx >= len(k.values) {
		return 0
	}
	return k.values[idx]
}

// IndexedLeaveValue returns the leave value already keyed by a
// previously computed word index, used to cross-check
// klv_get_leave_value == klv_get_indexed_leave_value (§8 property 7).
func (k *Klv) IndexedLeaveValue(index int) Equity {
	if index < 0 || index >= len(k.values) {
		return 0
	}
	return k.values[index]
}

// clampFloat32 guards against NaN/Inf creeping into an equity value on
// load, since a corrupt leave file should not poison comparisons.
func clampFloat32(f float32) float32 {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return 0
	}
	return f
}
