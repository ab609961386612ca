// cgp.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements CGP position parsing (§6): board rows, two
// racks, two scores, the consecutive-scoreless-turn counter, and an
// optional trailing `[op1 val1; op2 val2; ...]` operation list.
// Grounded on original_source's board/rack CGP decode path (lowercase
// glyph = blank designated as that letter; multi-digit runs denote that
// many consecutive empty squares) and on the teacher's board-string
// loading convention in board.go.

package engine

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	skrafl "github.com/vthorsteinsson/skrafl-engine"
)

// ErrCGPParse is the root cause for any malformed CGP string.
var ErrCGPParse = errors.New("malformed CGP position")

// Position is one fully decoded CGP record.
type Position struct {
	Board     *skrafl.Board
	Racks     [2]*skrafl.Rack
	Scores    [2]int
	Scoreless int
	Ops       map[string]string
}

// ParseCGP decodes a CGP string against the given board size and letter
// distribution. The board portion is N slash-separated rows; a row is a
// run of glyphs and digit-runs (e.g. "3CAT9" = 3 empty, C, A, T, 9
// empty); uppercase glyphs are natural tiles, lowercase glyphs are
// blanks designated as that letter.
// template, if non-nil, supplies the word/letter multiplier layout
// (already loaded via Board.LoadLayout); a bare board with no bonus
// squares is used if template is nil, which is correct for lexicons/
// tests that do not care about multiplier placement.
func ParseCGP(s string, n int, dist *skrafl.Distribution, kwg *skrafl.Kwg, template *skrafl.Board) (*Position, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return nil, errors.Wrapf(ErrCGPParse, "expected at least 4 fields, got %d", len(fields))
	}

	var board *skrafl.Board
	if template != nil {
		board = template.Clone()
		board.NumTiles = 0
	} else {
		board = skrafl.NewBoard(n, dist)
	}
	if err := parseBoardRows(board, fields[0], dist, n, kwg); err != nil {
		return nil, errors.Wrap(err, "parsing board")
	}

	racks, err := parseRacks(fields[1], dist)
	if err != nil {
		return nil, errors.Wrap(err, "parsing racks")
	}

	scores, err := parseScores(fields[2])
	if err != nil {
		return nil, errors.Wrap(err, "parsing scores")
	}

	scoreless, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, errors.Wrapf(ErrCGPParse, "bad scoreless-turn count %q", fields[3])
	}

	ops, err := parseOps(fields[4:])
	if err != nil {
		return nil, errors.Wrap(err, "parsing trailing ops")
	}

	return &Position{Board: board, Racks: racks, Scores: scores, Scoreless: scoreless, Ops: ops}, nil
}

func parseBoardRows(board *skrafl.Board, spec string, dist *skrafl.Distribution, n int, kwg *skrafl.Kwg) error {
	rows := strings.Split(spec, "/")
	if len(rows) != n {
		return errors.Wrapf(ErrCGPParse, "board has %d rows, want %d", len(rows), n)
	}
	for r, row := range rows {
		col := 0
		runes := []rune(row)
		for i := 0; i < len(runes); {
			ch := runes[i]
			switch {
			case ch >= '0' && ch <= '9':
				j := i
				for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
					j++
				}
				count, _ := strconv.Atoi(string(runes[i:j]))
				col += count
				i = j
			default:
				blanked := ch >= 'a' && ch <= 'z'
				glyph := ch
				if blanked {
					glyph = ch - 'a' + 'A'
				}
				t, ok := dist.TileFromGlyph(glyph)
				if !ok {
					return errors.Wrapf(ErrCGPParse, "row %d: unknown glyph %q", r, ch)
				}
				if col >= n {
					return errors.Wrapf(ErrCGPParse, "row %d overflows board width", r)
				}
				board.PlaceTile(r, col, t, blanked, kwg)
				col++
				i++
			}
		}
		if col != n {
			return errors.Wrapf(ErrCGPParse, "row %d decodes to %d columns, want %d", r, col, n)
		}
	}
	return nil
}

func parseRacks(spec string, dist *skrafl.Distribution) ([2]*skrafl.Rack, error) {
	var out [2]*skrafl.Rack
	parts := strings.Split(spec, "/")
	if len(parts) != 2 {
		return out, errors.Wrapf(ErrCGPParse, "expected 2 racks separated by '/', got %d", len(parts))
	}
	for i, p := range parts {
		rack := skrafl.NewRack(dist)
		for _, ch := range p {
			glyph := ch
			if ch >= 'a' && ch <= 'z' {
				glyph = ch - 'a' + 'A'
			}
			t, ok := dist.TileFromGlyph(glyph)
			if !ok {
				return out, errors.Wrapf(ErrCGPParse, "rack %d: unknown glyph %q", i, ch)
			}
			if err := rack.Add(t, 1); err != nil {
				return out, errors.Wrapf(ErrCGPParse, "rack %d: %v", i, err)
			}
		}
		out[i] = rack
	}
	return out, nil
}

func parseScores(spec string) ([2]int, error) {
	var out [2]int
	parts := strings.Split(spec, "/")
	if len(parts) != 2 {
		return out, errors.Wrapf(ErrCGPParse, "expected 2 scores separated by '/', got %d", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return out, errors.Wrapf(ErrCGPParse, "score %d: %q is not an integer", i, p)
		}
		out[i] = v
	}
	return out, nil
}

// parseOps parses the trailing "[op1 val1; op2 val2; ...]" token list,
// already split on whitespace by the caller -- fields holds every token
// after the scoreless count, including the bracket markers.
func parseOps(fields []string) (map[string]string, error) {
	ops := map[string]string{}
	if len(fields) == 0 {
		return ops, nil
	}
	joined := strings.Join(fields, " ")
	joined = strings.TrimSpace(joined)
	joined = strings.TrimPrefix(joined, "[")
	joined = strings.TrimSuffix(joined, "]")
	if joined == "" {
		return ops, nil
	}
	for _, pair := range strings.Split(joined, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.Fields(pair)
		if len(kv) != 2 {
			return nil, errors.Wrapf(ErrCGPParse, "bad op clause %q", pair)
		}
		ops[kv[0]] = kv[1]
	}
	return ops, nil
}
