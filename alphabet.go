// alphabet.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the tile alphabet and letter distribution,
// generalizing the teacher's hardcoded per-language TileSet in bag.go
// into a table-driven distribution loaded from a CSV resource.

package skrafl

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// MaxAlphabetSize is the largest tile alphabet this engine supports;
// a tile value must fit in 6 bits (§3 Data Model).
const MaxAlphabetSize = 63

// Blank is the reserved tile value denoting a wildcard tile.
const Blank = 0

// Blanked is the high-bit flag marking a tile as a designated blank.
const Blanked = 0x80

// PlayedThrough marks a move position whose letter is already on the board.
const PlayedThrough = -1

// Tile is a small integer identifying a letter in [0, A).
type Tile int

// Distribution holds the per-tile counts and scores loaded from a resource
// file, plus the glyph table used to translate to/from display characters.
//
// Invariant: Count[Blank] >= 0, and the distribution is read-only after Load.
type Distribution struct {
	Glyphs []rune
	Count  []int
	Score  []int
	Size   int // number of distinct tile values, Blank included
	Bag    int // total number of tiles in a fresh bag (Σ Count[t])
}

// ErrDistributionParse is the root cause surfaced for any malformed
// letter-distribution CSV row.
var ErrDistributionParse = errors.New("malformed letter distribution")

// LoadDistribution reads a CSV letter-distribution file: rows of
// (glyph, count, score). The blank row uses glyph "?".
func LoadDistribution(r io.Reader) (*Distribution, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading letter distribution csv")
	}
	d := &Distribution{
		Glyphs: make([]rune, 0, len(records)),
		Count:  make([]int, 0, len(records)),
		Score:  make([]int, 0, len(records)),
	}
	for i, rec := range records {
		glyphs := []rune(rec[0])
		if len(glyphs) != 1 {
			return nil, errors.Wrapf(ErrDistributionParse, "row %d: glyph %q is not a single rune", i, rec[0])
		}
		count, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, errors.Wrapf(ErrDistributionParse, "row %d: count %q", i, rec[1])
		}
		score, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, errors.Wrapf(ErrDistributionParse, "row %d: score %q", i, rec[2])
		}
		d.Glyphs = append(d.Glyphs, glyphs[0])
		d.Count = append(d.Count, count)
		d.Score = append(d.Score, score)
		d.Bag += count
	}
	d.Size = len(d.Glyphs)
	if d.Size == 0 || d.Size > MaxAlphabetSize {
		return nil, errors.Wrapf(ErrDistributionParse, "distribution size %d out of range", d.Size)
	}
	return d, nil
}

// TileFromGlyph returns the tile value for a display glyph, and ok=false
// if the glyph is not part of the distribution.
func (d *Distribution) TileFromGlyph(g rune) (Tile, bool) {
	for i, gl := range d.Glyphs {
		if gl == g {
			return Tile(i), true
		}
	}
	return 0, false
}

// Glyph returns the display character for a tile value.
func (d *Distribution) Glyph(t Tile) rune {
	return d.Glyphs[t]
}

// ScoreOf returns the per-placement score of a tile value. Blanked tiles
// score zero regardless of their designated letter (§4.3 item 3).
func (d *Distribution) ScoreOf(t Tile) int {
	if IsBlanked(t) {
		return 0
	}
	return d.Score[t]
}
