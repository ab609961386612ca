// main.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This is the engine's process entry point: a thin cobra binary with
// `gen`/`sim` subcommands, each of which loads the configured resources,
// issues exactly one run_sync call, and prints the result. It is
// explicitly not a REPL or shell (§1 Non-goals) -- styled after the
// teacher's main/main.go example-program entry point, restructured
// around the engine API instead of an in-process skrafl.Game.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	skrafl "github.com/vthorsteinsson/skrafl-engine"
	"github.com/vthorsteinsson/skrafl-engine/bai"
	"github.com/vthorsteinsson/skrafl-engine/engine"
	"github.com/vthorsteinsson/skrafl-engine/prng"
)

var (
	lexiconPath      string
	leavesPath       string
	boardLayoutPath  string
	distributionPath string
	boardSize        int
	seed             uint64
)

func main() {
	root := &cobra.Command{
		Use:   "skrafl-engine",
		Short: "Crossword-game move generation and simulation engine",
	}
	root.PersistentFlags().StringVar(&lexiconPath, "lexicon", "", "path to the KWG lexicon file")
	root.PersistentFlags().StringVar(&leavesPath, "leaves", "", "path to the KLV leave-value file")
	root.PersistentFlags().StringVar(&boardLayoutPath, "board-layout", "", "path to the board layout file")
	root.PersistentFlags().StringVar(&distributionPath, "distribution", "", "path to the letter distribution CSV")
	root.PersistentFlags().IntVar(&boardSize, "board-size", 15, "board dimension N")
	root.PersistentFlags().Uint64Var(&seed, "seed", 1, "PRNG seed")

	root.AddCommand(newGenCmd(), newSimCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newGenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen <cgp-position>",
		Short: "Generate moves for a CGP position",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOneCommand("gen " + joinArgs(args))
		},
	}
}

func newSimCmd() *cobra.Command {
	var plies int
	var delta float64
	var sampleLimit uint64
	var rule string

	cmd := &cobra.Command{
		Use:   "sim <cgp-position>",
		Short: "Simulate the generated move list with BAI and report the best move",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEngine(engine.Config{
				LexiconPath: lexiconPath, LeavesPath: leavesPath,
				BoardLayoutPath: boardLayoutPath, DistributionPath: distributionPath,
				BoardSize: boardSize,
				SimPlies:  plies,
				BAIOptions: bai.Options{
					Delta:               delta,
					SamplingRule:        rule,
					WarmupSamplesPerArm: 2,
					SampleLimit:         sampleLimit,
				},
			})
			if err != nil {
				return err
			}
			return dispatch(e, "sim "+joinArgs(args))
		},
	}
	cmd.Flags().IntVar(&plies, "plies", 2, "rollout half-turns after the candidate move")
	cmd.Flags().Float64Var(&delta, "delta", 0.05, "BAI confidence level")
	cmd.Flags().Uint64Var(&sampleLimit, "sample-limit", 2000, "maximum rollout samples")
	cmd.Flags().StringVar(&rule, "rule", bai.RuleTopTwo, "sampling rule: round-robin or top-two")
	return cmd
}

func runOneCommand(command string) error {
	e, err := buildEngine(engine.Config{
		LexiconPath: lexiconPath, LeavesPath: leavesPath,
		BoardLayoutPath: boardLayoutPath, DistributionPath: distributionPath,
		BoardSize: boardSize,
	})
	if err != nil {
		return err
	}
	return dispatch(e, command)
}

func dispatch(e *engine.Engine, command string) error {
	switch e.RunSync(command) {
	case engine.Success:
		fmt.Print(e.GetOutput())
		return nil
	case engine.DidNotRun:
		return fmt.Errorf("command did not run: %s", e.GetError())
	default:
		return fmt.Errorf("command failed: %s", e.GetError())
	}
}

func buildEngine(cfg engine.Config) (*engine.Engine, error) {
	res, err := loadResources(cfg)
	if err != nil {
		return nil, err
	}
	return engine.Init(cfg, res, seed), nil
}

func loadResources(cfg engine.Config) (*engine.Resources, error) {
	dist, err := loadDistribution(cfg.DistributionPath)
	if err != nil {
		return nil, err
	}
	kwg, err := loadKwg(cfg.LexiconPath)
	if err != nil {
		return nil, err
	}
	klv, err := loadKlv(cfg.LeavesPath)
	if err != nil {
		return nil, err
	}
	z := skrafl.NewZobrist(cfg.BoardSize, dist.Size, prng.New(seed))

	var template *skrafl.Board
	if cfg.BoardLayoutPath != "" {
		template, err = loadBoardLayout(cfg.BoardLayoutPath, cfg.BoardSize, dist)
		if err != nil {
			return nil, err
		}
	}

	return &engine.Resources{Kwg: kwg, Klv: klv, Dist: dist, Zobrist: z, BoardTemplate: template}, nil
}

func loadBoardLayout(path string, n int, dist *skrafl.Distribution) (*skrafl.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	board := skrafl.NewBoard(n, dist)
	if err := board.LoadLayout(f); err != nil {
		return nil, err
	}
	return board, nil
}

func loadDistribution(path string) (*skrafl.Distribution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return skrafl.LoadDistribution(f)
}

func loadKwg(path string) (*skrafl.Kwg, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return skrafl.LoadKwg(f)
}

func loadKlv(path string) (*skrafl.Klv, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return skrafl.LoadKlv(f)
}

func joinArgs(args []string) string {
	out := args[0]
	for _, a := range args[1:] {
		out += " " + a
	}
	return out
}
