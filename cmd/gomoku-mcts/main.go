package main

/*

Gomoku MCTS driver.

Builds a search tree at the given position, runs the search and prints the
recommended move. Other modes let the engine play itself, or play a series of
games against a random player.

	gomoku-mcts -size 9 -moves e5,d4 -sims 20 -steps 500 -tree
	gomoku-mcts -mode selfplay -size 7 -steps 300
	gomoku-mcts -mode arena -size 5 -games 20 -workers 4

*/

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/IlikeChooros/gomoku-mcts/pkg/bench"
	"github.com/IlikeChooros/gomoku-mcts/pkg/gomoku"
	"github.com/IlikeChooros/gomoku-mcts/pkg/mcts"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type options struct {
	mode      string
	size      int
	winLength int
	moves     string
	toPlay    mcts.Color
	printTree bool
	games     int
	workers   int
	noColor   bool
	config    mcts.Config
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Error().Err(err).Msg("gomoku-mcts failed")
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("gomoku-mcts", flag.ContinueOnError)

	configPath := fs.String("config", "", "yaml file with engine settings, flags override it")
	mode := fs.String("mode", "think", "think, selfplay or arena")
	size := fs.Int("size", 9, "board size")
	winLength := fs.Int("win", gomoku.DefaultWinLength, "stones in a row needed to win")
	moves := fs.String("moves", "", "moves played so far, e.g. e5,d4")
	color := fs.String("color", "black", "player who moves first")
	printTree := fs.Bool("tree", false, "print the search tree")
	games := fs.Int("games", 10, "arena games")
	workers := fs.Int("workers", 2, "arena workers")
	noColor := fs.Bool("no-color", false, "disable colored output")
	logLevel := fs.String("log-level", "info", "zerolog level")

	defaults := mcts.DefaultConfig()
	sims := fs.Int("sims", defaults.NumSims, "playouts per expansion")
	steps := fs.Uint("steps", uint(defaults.Steps), "search steps per move")
	movetime := fs.Int("movetime", defaults.Movetime, "milliseconds per move, <= 0 disables")
	best := fs.String("best", defaults.BestChild.String(), "best move rule: winrate or visits")
	backprop := fs.String("backprop", defaults.Backprop.String(), "backpropagation start: expanded or selected")
	seed := fs.Uint64("seed", 0, "random seed, 0 picks one")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		return options{}, err
	}
	setupLogger(level)

	toPlay, err := mcts.ParseColor(*color)
	if err != nil {
		return options{}, err
	}

	config := defaults
	if *configPath != "" {
		if config, err = mcts.LoadConfig(*configPath); err != nil {
			return options{}, err
		}
	}

	// Explicit flags win over the config file
	var visitErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "sims":
			config.NumSims = *sims
		case "steps":
			config.Steps = uint32(*steps)
		case "movetime":
			config.Movetime = *movetime
		case "best":
			visitErr = errors.Join(visitErr, config.BestChild.UnmarshalText([]byte(*best)))
		case "backprop":
			visitErr = errors.Join(visitErr, config.Backprop.UnmarshalText([]byte(*backprop)))
		case "seed":
			config.Seed = *seed
		}
	})
	if visitErr != nil {
		return options{}, visitErr
	}
	if err := config.Validate(); err != nil {
		return options{}, err
	}

	return options{
		mode:      *mode,
		size:      *size,
		winLength: *winLength,
		moves:     *moves,
		toPlay:    toPlay,
		printTree: *printTree,
		games:     *games,
		workers:   *workers,
		noColor:   *noColor,
		config:    config,
	}, nil
}

func setupLogger(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
}

func run(ctx context.Context, opts options, w io.Writer) error {
	log.Debug().Str("mode", opts.mode).Stringer("config", opts.config).Msg("starting")

	switch opts.mode {
	case "think":
		return think(ctx, opts, w)
	case "selfplay":
		return selfplay(ctx, opts, w)
	case "arena":
		return arena(ctx, opts, w)
	}
	return fmt.Errorf("unknown mode %q", opts.mode)
}

func newBoard(opts options) (*gomoku.Board, error) {
	board, err := gomoku.NewBoard(opts.size, gomoku.WithWinLength(opts.winLength), gomoku.WithToPlay(opts.toPlay))
	if err != nil {
		return nil, err
	}

	moves, err := gomoku.ParseMoves(opts.moves, opts.size)
	if err != nil {
		return nil, err
	}
	for _, m := range moves {
		if err := board.PlayMove(m, board.CurrentPlayer()); err != nil {
			return nil, err
		}
	}
	return board, nil
}

func newRenderer(opts options, w io.Writer) *gomoku.Renderer {
	if opts.noColor {
		return gomoku.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
	}
	return gomoku.NewRenderer(w)
}

func newTree(opts options, board *gomoku.Board) *mcts.Tree[gomoku.Point, *gomoku.Board] {
	tree := mcts.NewTree[gomoku.Point](board, board.CurrentPlayer(), opts.config.NumSims,
		append(opts.config.Options(), mcts.WithLogger(log.Logger))...)
	tree.SetLimits(opts.config.Limits())
	tree.SetMoveFormatter(board.Format)
	return tree
}

func think(ctx context.Context, opts options, w io.Writer) error {
	board, err := newBoard(opts)
	if err != nil {
		return err
	}
	if board.IsTerminal() {
		return fmt.Errorf("game is already over, winner %s", board.Winner())
	}

	tree := newTree(opts, board)
	if err := tree.Search(ctx); err != nil {
		return err
	}

	move, err := tree.BestMove()
	if err != nil {
		return err
	}

	if opts.printTree {
		fmt.Fprint(w, tree.String())
	}

	best := mcts.BestChild(tree.Root, tree.BestChildPolicy())
	pv := tree.Pv(tree.BestChildPolicy())
	pvText := make([]string, len(pv))
	for i, p := range pv {
		pvText[i] = board.Format(p)
	}

	fmt.Fprintf(w, "%s to play: %s winrate %.3f sims %d cycles %d size %d pv %v\n",
		tree.Color(), board.Format(move), best.WinRate(), best.Sims(), tree.Cycles(), tree.Size(), pvText)
	return nil
}

func selfplay(ctx context.Context, opts options, w io.Writer) error {
	board, err := newBoard(opts)
	if err != nil {
		return err
	}
	renderer := newRenderer(opts, w)

	for !board.IsTerminal() {
		if err := ctx.Err(); err != nil {
			return err
		}

		color := board.CurrentPlayer()
		tree := newTree(opts, board)
		if err := tree.Search(ctx); err != nil {
			return err
		}
		move, err := tree.BestMove()
		if err != nil {
			return err
		}
		if err := board.PlayMove(move, color); err != nil {
			return err
		}

		fmt.Fprintf(w, "%d. %s %s\n", len(board.Moves()), color, board.Format(move))
		if err := renderer.Render(board); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "result: %s\n", resultText(board))
	return nil
}

func resultText(board *gomoku.Board) string {
	if winner := board.Winner(); winner != mcts.Empty {
		return winner.String() + " wins"
	}
	return "draw"
}

func arena(ctx context.Context, opts options, w io.Writer) error {
	engine, err := bench.NewEngineAgent[gomoku.Point, *gomoku.Board]("mcts", opts.config)
	if err != nil {
		return err
	}
	engine.WithLogger(log.Logger.Level(zerolog.WarnLevel))
	random := bench.NewRandomAgent[gomoku.Point, *gomoku.Board](opts.config.Seed)

	format := func(p gomoku.Point) string { return gomoku.FormatPoint(p, opts.size) }
	arena := bench.NewVersusArena(func() (*gomoku.Board, error) {
		return gomoku.NewBoard(opts.size, gomoku.WithWinLength(opts.winLength), gomoku.WithToPlay(opts.toPlay))
	}, bench.Agent[gomoku.Point, *gomoku.Board](engine), bench.Agent[gomoku.Point, *gomoku.Board](random))
	arena.Setup(opts.games, opts.workers).WithLogger(log.Logger)

	summary, err := arena.Run(ctx, bench.NewLogListener[gomoku.Point](log.Logger, format))
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}
