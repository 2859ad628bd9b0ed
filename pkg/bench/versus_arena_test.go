package bench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/IlikeChooros/gomoku-mcts/pkg/gomoku"
	"github.com/IlikeChooros/gomoku-mcts/pkg/mcts"
	"github.com/stretchr/testify/require"
)

type gomokuAgent = Agent[gomoku.Point, *gomoku.Board]

func TestMain(m *testing.M) {
	mcts.SetSeedGeneratorFn(func() uint64 {
		return 42
	})
	fmt.Printf("Using seed %d\n", mcts.SeedGeneratorFn())
	os.Exit(m.Run())
}

func positionFactory(size, winLength int) func() (*gomoku.Board, error) {
	return func() (*gomoku.Board, error) {
		return gomoku.NewBoard(size, gomoku.WithWinLength(winLength))
	}
}

func newEngine(t *testing.T, steps uint32) *EngineAgent[gomoku.Point, *gomoku.Board] {
	t.Helper()
	config := mcts.DefaultConfig()
	config.NumSims = 5
	config.Steps = steps
	config.Seed = 17

	engine, err := NewEngineAgent[gomoku.Point, *gomoku.Board]("mcts", config)
	require.NoError(t, err)
	return engine
}

// Counts callbacks, safe for concurrent workers
type countingListener struct {
	DefaultListener[gomoku.Point]
	mu       sync.Mutex
	started  int
	moves    int
	finished int
	workers  int
	results  map[VersusMatchResult]int
	summary  VersusSummaryInfo
}

func newCountingListener() *countingListener {
	return &countingListener{results: map[VersusMatchResult]int{}}
}

func (l *countingListener) OnGameStart(VersusWorkerInfo[gomoku.Point]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started++
}

func (l *countingListener) OnMoveMade(VersusWorkerInfo[gomoku.Point]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.moves++
}

func (l *countingListener) OnFinishedGame(info VersusWorkerInfo[gomoku.Point]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.finished++
	l.results[info.Result]++
}

func (l *countingListener) OnFinishedWork(VersusWorkerInfo[gomoku.Point]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.workers++
}

func (l *countingListener) Summary(summary VersusSummaryInfo) {
	l.summary = summary
}

type failingAgent struct{}

var errAgentFailed = errors.New("agent failed")

func (failingAgent) Name() string { return "failing" }

func (failingAgent) SelectMove(context.Context, *gomoku.Board) (gomoku.Point, error) {
	return 0, errAgentFailed
}

func TestVersusArena(t *testing.T) {
	engine := newEngine(t, 20)
	random := NewRandomAgent[gomoku.Point, *gomoku.Board](5)

	arena := NewVersusArena(positionFactory(3, 3), gomokuAgent(engine), gomokuAgent(random))
	arena.Setup(6, 2)

	counter := newCountingListener()
	summary, err := arena.Run(context.Background(), NewArenaListener[gomoku.Point](counter, nil))
	require.NoError(t, err)

	require.Equal(t, 6, summary.TotalGames)
	require.Equal(t, 6, summary.P1Wins+summary.P2Wins+summary.Draws)
	require.Equal(t, summary.P1Wins+summary.P2Wins, summary.FirstToMoveWins+summary.SecondToMoveWins)
	require.Equal(t, "mcts", summary.P1Name)
	require.Equal(t, "random", summary.P2Name)
	require.Equal(t, 2, summary.Workers)

	require.Equal(t, 6, counter.started)
	require.Equal(t, 6, counter.finished)
	require.Equal(t, 2, counter.workers)
	require.GreaterOrEqual(t, counter.moves, 6*3)
	require.LessOrEqual(t, counter.moves, 6*9)
	require.Equal(t, summary, counter.summary)
	require.Equal(t, summary.P1Wins, counter.results[VersusPl1Win])
	require.Equal(t, summary.Draws, counter.results[VersusDraw])
}

func TestVersusArenaErrors(t *testing.T) {
	random := NewRandomAgent[gomoku.Point, *gomoku.Board](5)

	t.Run("no games", func(t *testing.T) {
		arena := NewVersusArena(positionFactory(3, 3), gomokuAgent(random), gomokuAgent(random)).Setup(0, 2)
		_, err := arena.Run(context.Background(), nil)
		require.ErrorIs(t, err, ErrNoGames)
	})

	t.Run("failing agent", func(t *testing.T) {
		arena := NewVersusArena(positionFactory(3, 3), gomokuAgent(failingAgent{}), gomokuAgent(random)).Setup(4, 2)
		_, err := arena.Run(context.Background(), nil)
		require.ErrorIs(t, err, errAgentFailed)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		arena := NewVersusArena(positionFactory(5, 4), gomokuAgent(random), gomokuAgent(random)).Setup(4, 2)
		summary, err := arena.Run(ctx, nil)
		require.ErrorIs(t, err, context.Canceled)
		require.Zero(t, summary.TotalGames)
	})

	t.Run("bad position", func(t *testing.T) {
		arena := NewVersusArena(positionFactory(0, 3), gomokuAgent(random), gomokuAgent(random)).Setup(1, 1)
		_, err := arena.Run(context.Background(), nil)
		require.ErrorIs(t, err, gomoku.ErrInvalidSize)
	})
}

func TestRandomVersusRandom(t *testing.T) {
	arena := NewVersusArena(positionFactory(5, 4),
		gomokuAgent(NewRandomAgent[gomoku.Point, *gomoku.Board](1)),
		gomokuAgent(NewRandomAgent[gomoku.Point, *gomoku.Board](2)),
	).Setup(20, 4)

	summary, err := arena.Run(context.Background(), DefaultListener[gomoku.Point]{})
	require.NoError(t, err)
	require.Equal(t, 20, summary.TotalGames)
	require.Equal(t, 20, arena.Total())
	require.Equal(t, 4, summary.Workers)
}

func TestEngineAgent(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		_, err := NewEngineAgent[gomoku.Point, *gomoku.Board]("bad", mcts.Config{})
		require.ErrorIs(t, err, mcts.ErrInvalidConfig)
	})

	t.Run("legal move", func(t *testing.T) {
		engine := newEngine(t, 30)
		board, err := gomoku.NewBoard(5)
		require.NoError(t, err)
		require.NoError(t, board.Play("c3", "d4"))

		move, err := engine.SelectMove(context.Background(), board)
		require.NoError(t, err)
		require.Equal(t, mcts.Empty, board.At(move))
		require.Equal(t, 23, board.NumEmpty())
	})

	t.Run("finished position", func(t *testing.T) {
		engine := newEngine(t, 30)
		board, err := gomoku.NewBoard(1)
		require.NoError(t, err)
		require.NoError(t, board.Play("a1"))

		_, err = engine.SelectMove(context.Background(), board)
		require.ErrorIs(t, err, mcts.ErrNoLegalMoves)
	})
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name    string
		outcome GameOutcome
		p1First bool
		want    VersusMatchResult
	}{
		{"draw", GameOutcome{IsDraw: true}, true, VersusDraw},
		{"p1 first wins", GameOutcome{FirstPlayerWon: true}, true, VersusPl1Win},
		{"p1 second wins", GameOutcome{FirstPlayerWon: false}, false, VersusPl1Win},
		{"p2 first wins", GameOutcome{FirstPlayerWon: true}, false, VersusPl2Win},
		{"p2 second wins", GameOutcome{FirstPlayerWon: false}, true, VersusPl2Win},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, toAgentResult(tc.outcome, tc.p1First))
		})
	}

	t.Run("from board", func(t *testing.T) {
		board, err := gomoku.NewBoard(3, gomoku.WithWinLength(3))
		require.NoError(t, err)
		require.NoError(t, board.Play("a1", "a2", "b1", "b2", "c1"))

		last, _ := board.LastMove()
		require.Equal(t, GameOutcome{FirstPlayerWon: true}, computeOutcome(board, last, 5))

		require.NoError(t, board.UndoMove(last))
		require.NoError(t, board.Play("c3"))
		last, _ = board.LastMove()
		require.Equal(t, GameOutcome{IsDraw: true}, computeOutcome(board, last, 5))
	})

	t.Run("stats", func(t *testing.T) {
		stats := VersusArenaStats{}
		require.Equal(t, VersusPl1Win, stats.record(GameOutcome{FirstPlayerWon: true}, true))
		require.Equal(t, VersusPl1Win, stats.record(GameOutcome{FirstPlayerWon: false}, false))
		require.Equal(t, VersusDraw, stats.record(GameOutcome{IsDraw: true}, false))
		require.Equal(t, VersusPl2Win, stats.record(GameOutcome{FirstPlayerWon: true}, false))

		require.Equal(t, 4, stats.Total())
		require.Equal(t, 2, stats.P1Wins())
		require.Equal(t, 1, stats.P2Wins())
		require.Equal(t, 1, stats.Draws())
		require.Equal(t, 2, stats.FirstToMoveWins())
		require.Equal(t, 1, stats.SecondToMoveWins())
		require.Equal(t, "player1", VersusPl1Win.String())
		require.Equal(t, "draw", VersusDraw.String())
	})
}
