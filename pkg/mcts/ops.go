package mcts

import (
	"errors"

	"golang.org/x/exp/rand"
)

var (
	// Returned when a position has no legal move left, calling Step on such a root is a caller error
	ErrNoLegalMoves = errors.New("mcts: no legal moves")

	// BestMove was called before any child of the root was expanded
	ErrTreeNotExpanded = errors.New("mcts: tree not expanded")

	// The node's move already decided the game (win or full board), it can't get children
	ErrTerminalNode = errors.New("mcts: terminal node")

	// Every legal move of the node is already a child
	ErrFullyExpanded = errors.New("mcts: node fully expanded")
)

// Board rules engine consumed by the tree. The tree only mutates a board through
// these methods, and always undoes what a rollout played.
type BoardLike[T MoveLike, B any] interface {
	// Clone itself, further play/undo on the clone must not affect the original
	Copy() B
	// Whose move is next
	CurrentPlayer() Color
	// Apply a legal move for given colour
	PlayMove(move T, color Color) error
	// Reverse the most recent application of move, restoring the current player
	UndoMove(move T) error
	// Winner of the game after lastMove was played, Empty if there is none yet
	CheckWin(lastMove T) Color
	// Unoccupied points, used to detect a full board (draw)
	EmptyPoints() []T
	// Moves the side to play may choose from
	LegalMoves() []T
	// Board dimension, used only for presentation
	Size() int
}

// Generates the next move for the given colour, used both for choosing the
// child to expand and for the playouts
type MovePolicy[T MoveLike, B BoardLike[T, B]] interface {
	GenerateMove(board B, color Color, rng *rand.Rand) (T, error)
}

// Uniformly random legal move
type RandomMovePolicy[T MoveLike, B BoardLike[T, B]] struct{}

func (RandomMovePolicy[T, B]) GenerateMove(board B, _ Color, rng *rand.Rand) (T, error) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		var none T
		return none, ErrNoLegalMoves
	}
	return moves[rng.Intn(len(moves))], nil
}
