// gamestate.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the minimal two-player turn state a rollout
// needs: applying a move to the board/rack/bag and drawing a fresh
// rack afterward. Grounded on the teacher's Game.PlayMove/ApplyMove
// (board placement, rack consumption, bag draw, score bookkeeping),
// generalized onto skrafl.Move's value-type encoding (§4.9).

package sim

import (
	skrafl "github.com/vthorsteinsson/skrafl-engine"
)

// GameState is one in-progress two-player position used by rollouts.
// It owns its own board/bag/racks so a rollout can mutate them freely
// without touching the position a candidate arm was built from.
type GameState struct {
	Board   *skrafl.Board
	Bag     *skrafl.Bag
	Racks   [2]*skrafl.Rack
	Scores  [2]int
	ToMove  int
	Dist    *skrafl.Distribution
	Kwg     *skrafl.Kwg
	Klv     *skrafl.Klv
	Scoreless int // consecutive scoreless turns, for end-of-game detection
}

// Clone deep-copies every piece of mutable state so a rollout can play
// out a branch and discard it.
func (g *GameState) Clone() *GameState {
	return &GameState{
		Board:     g.Board.Clone(),
		Bag:       g.Bag.Clone(),
		Racks:     [2]*skrafl.Rack{g.Racks[0].Clone(), g.Racks[1].Clone()},
		Scores:    g.Scores,
		ToMove:    g.ToMove,
		Dist:      g.Dist,
		Kwg:       g.Kwg,
		Klv:       g.Klv,
		Scoreless: g.Scoreless,
	}
}

// Apply plays m for the side to move: places tiles (if any), scores it,
// removes consumed tiles from that side's rack, draws replacements from
// the bag, and advances ToMove. Exchange moves return their tiles to the
// bag and draw a fresh equal-size batch; pass moves touch nothing but
// the scoreless counter and turn order.
func (g *GameState) Apply(m skrafl.Move) {
	side := g.ToMove
	rack := g.Racks[side]

	switch m.Type {
	case skrafl.MovePlace:
		g.placeOnBoard(m)
		g.Scores[side] += m.Score
		g.consumeRack(rack, m)
		g.refill(side, rack)
		if m.Score > 0 {
			g.Scoreless = 0
		} else {
			g.Scoreless++
		}
	case skrafl.MoveExchange:
		for i := 0; i < m.TilesLength; i++ {
			t := skrafl.BaseLetter(m.Tiles[i])
			_ = rack.Remove(t, 1)
			g.Bag.ReturnTile(t)
		}
		g.refill(side, rack)
		g.Scoreless++
	case skrafl.MovePass:
		g.Scoreless++
	}
	g.ToMove = 1 - side
}

func (g *GameState) placeOnBoard(m skrafl.Move) {
	row, col := m.Row, m.Col
	for i := 0; i < m.TilesLength; i++ {
		t := m.Tiles[i]
		if t == skrafl.PlayedThrough {
			continue
		}
		r, c := row, col
		if m.Dir == skrafl.Horizontal {
			c += i
		} else {
			r += i
		}
		base := skrafl.BaseLetter(t)
		g.Board.PlaceTile(r, c, base, skrafl.IsBlanked(t), g.Kwg)
	}
}

func (g *GameState) consumeRack(rack *skrafl.Rack, m skrafl.Move) {
	for i := 0; i < m.TilesLength; i++ {
		t := m.Tiles[i]
		if t == skrafl.PlayedThrough {
			continue
		}
		if skrafl.IsBlanked(t) {
			_ = rack.Remove(skrafl.Blank, 1)
		} else {
			_ = rack.Remove(t, 1)
		}
	}
}

// refill draws tiles from the bag until rack is back to RackSize or the
// bag runs dry.
func (g *GameState) refill(side int, rack *skrafl.Rack) {
	for rack.NumTiles() < skrafl.RackSize {
		t, err := g.Bag.DrawForPlayer(side)
		if err != nil {
			return
		}
		_ = rack.Add(t, 1)
	}
}

// IsOver reports whether the rollout should stop: a rack is empty and
// the bag is dry (a player went out), or too many consecutive turns
// scored nothing.
func (g *GameState) IsOver() bool {
	const maxScorelessTurns = 6
	if g.Bag.TileCount() == 0 && (g.Racks[0].IsEmpty() || g.Racks[1].IsEmpty()) {
		return true
	}
	return g.Scoreless >= maxScorelessTurns
}

// EquityDiff returns side's score minus the opponent's, the terminal
// signal a rollout reduces to.
func (g *GameState) EquityDiff(side int) int {
	return g.Scores[side] - g.Scores[1-side]
}
