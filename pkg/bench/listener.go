package bench

import (
	"github.com/IlikeChooros/gomoku-mcts/pkg/mcts"
	"github.com/rs/zerolog"
)

// Arena callbacks, invoked concurrently by the workers
type ListenerLike[T mcts.MoveLike] interface {
	OnGameStart(info VersusWorkerInfo[T])
	OnMoveMade(info VersusWorkerInfo[T])
	OnFinishedGame(info VersusWorkerInfo[T])
	OnFinishedWork(info VersusWorkerInfo[T])
	Summary(summary VersusSummaryInfo)
}

// Does nothing
type DefaultListener[T mcts.MoveLike] struct{}

func (DefaultListener[T]) OnGameStart(VersusWorkerInfo[T])    {}
func (DefaultListener[T]) OnMoveMade(VersusWorkerInfo[T])     {}
func (DefaultListener[T]) OnFinishedGame(VersusWorkerInfo[T]) {}
func (DefaultListener[T]) OnFinishedWork(VersusWorkerInfo[T]) {}
func (DefaultListener[T]) Summary(VersusSummaryInfo)          {}

// Writes finished games and the summary to a zerolog logger
type LogListener[T mcts.MoveLike] struct {
	DefaultListener[T]
	logger zerolog.Logger
	format func(T) string
}

func NewLogListener[T mcts.MoveLike](logger zerolog.Logger, format func(T) string) *LogListener[T] {
	return &LogListener[T]{logger: logger, format: format}
}

func (l *LogListener[T]) OnFinishedGame(info VersusWorkerInfo[T]) {
	moves := make([]string, len(info.Moves))
	for i, m := range info.Moves {
		if l.format != nil {
			moves[i] = l.format(m)
		}
	}

	l.logger.Info().
		Int("worker", info.WorkerID).
		Int("game", info.FinishedGames).
		Stringer("winner", info.Result).
		Int("moves", info.GameMoveNum).
		Strs("pv", moves).
		Msg("game finished")
}

func (l *LogListener[T]) OnFinishedWork(info VersusWorkerInfo[T]) {
	l.logger.Debug().
		Int("worker", info.WorkerID).
		Int("games", info.NGames).
		Int("p1_wins", info.P1Wins).
		Int("p2_wins", info.P2Wins).
		Int("draws", info.Draws).
		Msg("worker finished")
}

func (l *LogListener[T]) Summary(summary VersusSummaryInfo) {
	l.logger.Info().
		Str("player1", summary.P1Name).
		Str("player2", summary.P2Name).
		Int("games", summary.TotalGames).
		Int("p1_wins", summary.P1Wins).
		Int("p2_wins", summary.P2Wins).
		Int("draws", summary.Draws).
		Int("first_to_move_wins", summary.FirstToMoveWins).
		Msg("arena finished")
}
