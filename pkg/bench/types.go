package bench

import (
	"sync/atomic"

	"github.com/IlikeChooros/gomoku-mcts/pkg/mcts"
)

type VersusMatchResult int

const (
	VersusPl1Win VersusMatchResult = 1
	VersusPl2Win VersusMatchResult = -1
	VersusDraw   VersusMatchResult = 0
)

func (r VersusMatchResult) String() string {
	switch r {
	case VersusPl1Win:
		return "player1"
	case VersusPl2Win:
		return "player2"
	}
	return "draw"
}

type VersusArenaStats struct {
	p1Wins           atomic.Uint32
	p2Wins           atomic.Uint32
	draws            atomic.Uint32
	firstToMoveWins  atomic.Uint32
	secondToMoveWins atomic.Uint32
}

func (vas *VersusArenaStats) Total() int {
	return vas.P1Wins() + vas.P2Wins() + vas.Draws()
}

func (vas *VersusArenaStats) P1Wins() int {
	return int(vas.p1Wins.Load())
}

func (vas *VersusArenaStats) P2Wins() int {
	return int(vas.p2Wins.Load())
}

func (vas *VersusArenaStats) Draws() int {
	return int(vas.draws.Load())
}

func (vas *VersusArenaStats) FirstToMoveWins() int {
	return int(vas.firstToMoveWins.Load())
}

func (vas *VersusArenaStats) SecondToMoveWins() int {
	return int(vas.secondToMoveWins.Load())
}

func (vas *VersusArenaStats) record(outcome GameOutcome, p1WentFirst bool) VersusMatchResult {
	result := toAgentResult(outcome, p1WentFirst)
	switch result {
	case VersusDraw:
		vas.draws.Add(1)
		return result
	case VersusPl1Win:
		vas.p1Wins.Add(1)
	default:
		vas.p2Wins.Add(1)
	}

	if outcome.FirstPlayerWon {
		vas.firstToMoveWins.Add(1)
	} else {
		vas.secondToMoveWins.Add(1)
	}
	return result
}

type VersusWorkerInfo[T mcts.MoveLike] struct {
	WorkerID      int
	NGames        int
	FinishedGames int
	GameMoveNum   int
	Moves         []T
	Result        VersusMatchResult
	P1Wins        int
	P2Wins        int
	Draws         int
	P1Name        string
	P2Name        string
}

type VersusSummaryInfo struct {
	TotalGames       int    `json:"total_games"`
	P1Wins           int    `json:"player1_wins"`
	P2Wins           int    `json:"player2_wins"`
	FirstToMoveWins  int    `json:"first_to_move_wins"`
	SecondToMoveWins int    `json:"second_to_move_wins"`
	Draws            int    `json:"draws"`
	Workers          int    `json:"workers"`
	P1Name           string `json:"player1_name"`
	P2Name           string `json:"player2_name"`
}

// represents result from the first-player's perspective in a single game
type GameOutcome struct {
	FirstPlayerWon bool
	IsDraw         bool
}

// maps a game outcome to which agent won, given player assignments
func toAgentResult(outcome GameOutcome, p1WentFirst bool) VersusMatchResult {
	if outcome.IsDraw {
		return VersusDraw
	}

	if p1WentFirst == outcome.FirstPlayerWon {
		return VersusPl1Win
	}
	return VersusPl2Win
}

// determines the outcome of a finished game from its last move, the player who
// made it won unless the board filled up without a line
func computeOutcome[T mcts.MoveLike, B mcts.BoardLike[T, B]](board B, lastMove T, moveCount int) GameOutcome {
	if board.CheckWin(lastMove) == mcts.Empty {
		return GameOutcome{IsDraw: true}
	}
	return GameOutcome{FirstPlayerWon: moveCount%2 == 1}
}
