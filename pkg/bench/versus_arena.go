package bench

import (
	"context"
	"errors"
	"fmt"

	"github.com/IlikeChooros/gomoku-mcts/pkg/mcts"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

/*
Arena benchmark subpackage, plays a series of games between two agents,
for example two engine configurations, or an engine against random play.
*/

var ErrNoGames = errors.New("bench: arena has no games to play")

type VersusArena[T mcts.MoveLike, B mcts.BoardLike[T, B]] struct {
	VersusArenaStats
	Player1     Agent[T, B]
	Player2     Agent[T, B]
	NGames      int
	NWorkers    int
	NewPosition func() (B, error)
	logger      zerolog.Logger
}

func NewVersusArena[T mcts.MoveLike, B mcts.BoardLike[T, B]](
	newPosition func() (B, error), p1, p2 Agent[T, B],
) *VersusArena[T, B] {
	return &VersusArena[T, B]{
		Player1:     p1,
		Player2:     p2,
		NGames:      10,
		NWorkers:    2,
		NewPosition: newPosition,
		logger:      zerolog.Nop(),
	}
}

func (va *VersusArena[T, B]) WithLogger(logger zerolog.Logger) *VersusArena[T, B] {
	va.logger = logger
	return va
}

func (va *VersusArena[T, B]) Setup(nGames, nWorkers int) *VersusArena[T, B] {
	va.NGames = nGames
	va.NWorkers = max(1, nWorkers)
	return va
}

func (va *VersusArena[T, B]) summary() VersusSummaryInfo {
	return VersusSummaryInfo{
		TotalGames:       va.Total(),
		P1Wins:           va.P1Wins(),
		P2Wins:           va.P2Wins(),
		FirstToMoveWins:  va.FirstToMoveWins(),
		SecondToMoveWins: va.SecondToMoveWins(),
		Draws:            va.Draws(),
		Workers:          va.NWorkers,
		P1Name:           va.Player1.Name(),
		P2Name:           va.Player2.Name(),
	}
}

// Play all games, blocking until they finish, the context is cancelled or
// a game fails. Player 1 moves first in even games.
func (va *VersusArena[T, B]) Run(ctx context.Context, listener ListenerLike[T]) (VersusSummaryInfo, error) {
	if va.NGames <= 0 {
		return va.summary(), ErrNoGames
	}
	if listener == nil {
		listener = DefaultListener[T]{}
	}

	workers := min(max(1, va.NWorkers), va.NGames)
	g, ctx := errgroup.WithContext(ctx)

	// Start equally distributed work between workers
	for id := range workers {
		g.Go(func() error {
			return va.worker(ctx, id, workers, listener)
		})
	}

	err := g.Wait()
	summary := va.summary()
	listener.Summary(summary)
	if err != nil {
		va.logger.Error().Err(err).Int("finished", summary.TotalGames).Msg("arena stopped")
	}
	return summary, err
}

func (va *VersusArena[T, B]) worker(ctx context.Context, id, workers int, listener ListenerLike[T]) error {
	local := VersusArenaStats{}
	nGames := 0

	for game := id; game < va.NGames; game += workers {
		nGames++
		p1First := game%2 == 0
		first, second := va.Player1, va.Player2
		if !p1First {
			first, second = second, first
		}

		info := VersusWorkerInfo[T]{
			WorkerID:      id,
			NGames:        va.NGames,
			FinishedGames: va.Total(),
			P1Name:        va.Player1.Name(),
			P2Name:        va.Player2.Name(),
		}
		listener.OnGameStart(info)

		outcome, moves, err := va.playGame(ctx, first, second, listener, info)
		if err != nil {
			return fmt.Errorf("bench: worker %d game %d: %w", id, game, err)
		}

		local.record(outcome, p1First)
		info.Result = va.record(outcome, p1First)
		info.Moves = moves
		info.GameMoveNum = len(moves)
		info.FinishedGames = va.Total()
		info.P1Wins, info.P2Wins, info.Draws = va.P1Wins(), va.P2Wins(), va.Draws()
		listener.OnFinishedGame(info)
	}

	listener.OnFinishedWork(VersusWorkerInfo[T]{
		WorkerID:      id,
		NGames:        nGames,
		FinishedGames: va.Total(),
		P1Wins:        local.P1Wins(),
		P2Wins:        local.P2Wins(),
		Draws:         local.Draws(),
		P1Name:        va.Player1.Name(),
		P2Name:        va.Player2.Name(),
	})
	return nil
}

func (va *VersusArena[T, B]) playGame(
	ctx context.Context, first, second Agent[T, B],
	listener ListenerLike[T], info VersusWorkerInfo[T],
) (GameOutcome, []T, error) {
	board, err := va.NewPosition()
	if err != nil {
		return GameOutcome{}, nil, err
	}

	agents := [2]Agent[T, B]{first, second}
	moves := make([]T, 0, len(board.EmptyPoints()))

	for turn := 0; len(board.LegalMoves()) > 0; turn++ {
		if err := ctx.Err(); err != nil {
			return GameOutcome{}, moves, err
		}

		m, err := agents[turn%2].SelectMove(ctx, board)
		if err != nil {
			return GameOutcome{}, moves, err
		}
		if err := board.PlayMove(m, board.CurrentPlayer()); err != nil {
			return GameOutcome{}, moves, fmt.Errorf("%s played %v: %w", agents[turn%2].Name(), m, err)
		}
		moves = append(moves, m)

		info.Moves = moves
		info.GameMoveNum = len(moves)
		listener.OnMoveMade(info)

		if board.CheckWin(m) != mcts.Empty || len(board.EmptyPoints()) == 0 {
			return computeOutcome(board, m, len(moves)), moves, nil
		}
	}

	// no legal move before anyone won
	return GameOutcome{IsDraw: true}, moves, nil
}
