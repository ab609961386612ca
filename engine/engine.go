// Package engine implements the command-string bridge the shell and
// WASM bindings drive the core through (§6 External Interfaces):
// init/run_sync/get_output/get_error/stop/thread_status, plus the two
// commands the core itself understands, "gen" and "sim".
//
// Grounded on original_source/src/impl/cmd_api.c's Magpie handle
// (config + error stack + last output) and wasmentry/api.c's
// wasm_run_command/wasm_get_output/wasm_get_error/wasm_get_thread_status
// bridge functions; the synchronous/async split in the C source
// collapses here to a single RunSync since goroutines make an explicit
// async variant unnecessary (a caller wanting async behavior just calls
// RunSync in its own goroutine and polls ThreadStatus).
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	skrafl "github.com/vthorsteinsson/skrafl-engine"
	"github.com/vthorsteinsson/skrafl-engine/bai"
	"github.com/vthorsteinsson/skrafl-engine/prng"
	"github.com/vthorsteinsson/skrafl-engine/sim"
	"github.com/vthorsteinsson/skrafl-engine/threadcontrol"
)

// ExitCode mirrors the three values magpie_run_sync can return.
type ExitCode int

const (
	Success ExitCode = iota
	Error
	DidNotRun
)

// ThreadStatus mirrors wasm_get_thread_status's four values.
type ThreadStatus int

const (
	Uninit ThreadStatus = iota
	Started
	UserInterrupt
	Finished
)

// Config holds the data paths and default policy the engine loads at
// Init time -- the teacher's plain-struct GenerationParams/
// HeuristicConfig style (riddle.go), not a viper/cobra-bound type.
type Config struct {
	LexiconPath      string
	LeavesPath       string
	BoardLayoutPath  string
	DistributionPath string
	BoardSize        int
	BAIOptions       bai.Options
	SimPlies         int
}

// Resources is the loaded, immutable lexicon/leave/board/distribution
// set an engine run reads from.
type Resources struct {
	Kwg          *skrafl.Kwg
	Klv          *skrafl.Klv
	Dist         *skrafl.Distribution
	Zobrist      *skrafl.Zobrist
	BoardTemplate *skrafl.Board // word/letter multiplier layout, may be nil
}

// Engine is the process-wide singleton handle, created once by Init and
// driven thereafter by RunSync (§5 "init/destroy lifecycle").
type Engine struct {
	ID        uuid.UUID
	Config    Config
	Resources *Resources
	TC        *threadcontrol.ThreadControl
	Log       logrus.FieldLogger

	lastOutput string
	lastErr    error
	status     ThreadStatus
}

// Init constructs a new Engine handle from already-loaded resources --
// loading itself (reading lexicon/leave/layout/distribution files) is
// the caller's responsibility via skrafl.LoadKwg/LoadKlv/LoadDistribution
// and Board.LoadLayout, so Init stays a pure wiring step with no I/O of
// its own, matching the teacher's style of keeping file I/O at the edge.
func Init(cfg Config, res *Resources, seed uint64) *Engine {
	tc := threadcontrol.New(seed)
	return &Engine{
		ID:        uuid.New(),
		Config:    cfg,
		Resources: res,
		TC:        tc,
		Log:       tc.Log.WithField("engine", "skrafl"),
		status:    Uninit,
	}
}

// RunSync parses and executes one command string synchronously,
// returning the exit code per §6's {SUCCESS, ERROR, DID_NOT_RUN}
// contract. The command's textual result is retrieved afterward via
// GetOutput; any error detail via GetError.
func (e *Engine) RunSync(command string) ExitCode {
	e.status = Started
	e.lastOutput = ""
	e.lastErr = nil

	fields := strings.Fields(command)
	if len(fields) == 0 {
		e.lastErr = errors.New("empty command")
		e.status = Finished
		return DidNotRun
	}

	var out string
	var err error
	switch fields[0] {
	case "gen":
		out, err = e.cmdGen(fields[1:])
	case "sim":
		out, err = e.cmdSim(fields[1:])
	default:
		err = errors.Errorf("unrecognized command %q", fields[0])
	}

	if e.TC.ExitStatus() == threadcontrol.ExitUserInterrupt {
		e.status = UserInterrupt
		e.lastErr = errors.Cause(err)
		return DidNotRun
	}
	e.status = Finished
	if err != nil {
		e.lastErr = errors.Cause(err)
		e.Log.WithError(err).Warn("command failed")
		return Error
	}
	e.lastOutput = out
	return Success
}

// GetOutput returns the last command's captured textual result.
func (e *Engine) GetOutput() string {
	return e.lastOutput
}

// GetError returns and clears the last command's error, mirroring
// magpie_get_and_clear_error's "consumed on read" contract (§6).
func (e *Engine) GetError() string {
	if e.lastErr == nil {
		return ""
	}
	msg := e.lastErr.Error()
	e.lastErr = nil
	return msg
}

// Stop requests interruption of any in-progress command; safe to call
// concurrently with RunSync (§6).
func (e *Engine) Stop() {
	e.TC.Exit(threadcontrol.ExitUserInterrupt)
}

// ThreadStatus reports the current run state.
func (e *Engine) ThreadStatus() ThreadStatus {
	return e.status
}

// cmdGen implements the "gen" command: parse a CGP position from args
// and generate moves for the side to move under equity ordering,
// rendering the top results as text.
func (e *Engine) cmdGen(args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("gen requires a CGP position argument")
	}
	cgp := strings.Join(args, " ")
	pos, err := ParseCGP(cgp, e.Config.BoardSize, e.Resources.Dist, e.Resources.Kwg, e.Resources.BoardTemplate)
	if err != nil {
		return "", errors.Wrap(err, "gen")
	}
	toMove := sideToMove(pos.Scoreless)
	ml := skrafl.GenerateMoves(pos.Board, pos.Racks[toMove], e.Resources.Dist, e.Resources.Kwg, e.Resources.Klv,
		skrafl.GenPolicy{Mode: skrafl.RecordAll, UseEquity: true})
	return renderMoves(ml.Moves(), e.Resources.Dist), nil
}

// cmdSim implements the "sim" command: generate candidates for the
// position, then run the simulator/BAI to identify the best one.
func (e *Engine) cmdSim(args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("sim requires a CGP position argument")
	}
	cgp := strings.Join(args, " ")
	pos, err := ParseCGP(cgp, e.Config.BoardSize, e.Resources.Dist, e.Resources.Kwg, e.Resources.BoardTemplate)
	if err != nil {
		return "", errors.Wrap(err, "sim")
	}
	toMove := sideToMove(pos.Scoreless)

	var workerRNG prng.Xoshiro256PP
	e.TC.CopyToAndJump(&workerRNG)

	gs := &sim.GameState{
		Board: pos.Board, Racks: pos.Racks, Scores: pos.Scores, ToMove: toMove,
		Dist: e.Resources.Dist, Kwg: e.Resources.Kwg, Klv: e.Resources.Klv,
		Scoreless: pos.Scoreless,
		Bag:       skrafl.NewBagFromCounts(remainingTileCounts(pos, e.Resources.Dist), &workerRNG),
	}

	ml := skrafl.GenerateMoves(pos.Board, pos.Racks[toMove], e.Resources.Dist, e.Resources.Kwg, e.Resources.Klv,
		skrafl.GenPolicy{Mode: skrafl.RecordAll, UseEquity: true})
	if ml.Len() == 0 {
		return "", errors.New("sim: zero-arm move list")
	}
	preHash := e.Resources.Zobrist.Hash(pos.Board, toMove == 1)
	cands := sim.BuildCandidates(gs, preHash, ml.Moves(), e.Resources.Zobrist)

	simulator := sim.NewSimulator(sim.Options{Plies: e.Config.SimPlies, BAIOptions: e.Config.BAIOptions}, e.Resources.Zobrist)
	result, err := simulator.Run(gs, cands, e.TC)
	if err != nil {
		return "", errors.Wrap(err, "sim")
	}
	return fmt.Sprintf("best: %s\nsamples: %d\nexit: %v", describeMove(result.Best, e.Resources.Dist), result.BAI.Samples, result.BAI.ExitStatus), nil
}

// remainingTileCounts computes the unseen-tile pool behind a CGP
// position: the full distribution counts minus every tile already
// placed on the board or sitting in either rack.
func remainingTileCounts(pos *Position, dist *skrafl.Distribution) []int {
	counts := append([]int(nil), dist.Count...)
	for r := 0; r < pos.Board.N; r++ {
		for c := 0; c < pos.Board.N; c++ {
			sq := &pos.Board.Squares[r][c]
			if !sq.HasTile {
				continue
			}
			if sq.Blanked {
				counts[skrafl.Blank]--
			} else {
				counts[sq.TileValue]--
			}
		}
	}
	for _, rack := range pos.Racks {
		for t, n := range rack.Count {
			counts[t] -= n
		}
	}
	for i, c := range counts {
		counts[i] = skrafl.Clamp(c, 0, dist.Count[i])
	}
	return counts
}

func sideToMove(scorelessTurns int) int {
	return scorelessTurns % 2
}

func renderMoves(moves []skrafl.Move, dist *skrafl.Distribution) string {
	var sb strings.Builder
	for i, m := range moves {
		if i >= 20 {
			sb.WriteString("...\n")
			break
		}
		sb.WriteString(describeMove(m, dist))
		sb.WriteString("\n")
	}
	return sb.String()
}

func describeMove(m skrafl.Move, dist *skrafl.Distribution) string {
	switch m.Type {
	case skrafl.MovePass:
		return "pass"
	case skrafl.MoveExchange:
		return "exchange " + strconv.Itoa(m.TilesLength) + " tiles"
	default:
		dir := "H"
		if m.Dir == skrafl.Vertical {
			dir = "V"
		}
		return fmt.Sprintf("%s (%d,%d) %s score=%d equity=%.2f", dir, m.Row, m.Col, tilesToString(m, dist), m.Score, m.Equity.ToFloat())
	}
}

func tilesToString(m skrafl.Move, dist *skrafl.Distribution) string {
	var sb strings.Builder
	for i := 0; i < m.TilesLength; i++ {
		t := m.Tiles[i]
		if t == skrafl.PlayedThrough {
			sb.WriteRune('.')
			continue
		}
		sb.WriteRune(dist.Glyph(skrafl.BaseLetter(t)))
	}
	return sb.String()
}
