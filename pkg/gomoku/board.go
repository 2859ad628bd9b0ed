package gomoku

import (
	"errors"
	"fmt"

	"github.com/IlikeChooros/gomoku-mcts/pkg/mcts"
)

// Cell index, row*size + col with row 0 at the bottom
type Point int

const (
	MaxBoardSize     = 25
	DefaultWinLength = 5
)

var (
	ErrInvalidSize  = errors.New("gomoku: invalid board size")
	ErrOutOfBounds  = errors.New("gomoku: point out of bounds")
	ErrOccupied     = errors.New("gomoku: point occupied")
	ErrInvalidColor = errors.New("gomoku: invalid color")
	ErrUndoMismatch = errors.New("gomoku: undo does not match last move")
)

type historyEntry struct {
	point  Point
	color  mcts.Color
	toPlay mcts.Color // player to move before the entry was played
}

// Gomoku board with reversible moves. Rules are permissive: the board
// accepts moves after a win, the search decides when a game is over.
type Board struct {
	size      int
	winLength int
	cells     []mcts.Color
	toPlay    mcts.Color
	empty     int
	history   []historyEntry
}

type BoardOption func(*Board)

// Stones in a row needed to win, default 5
func WithWinLength(n int) BoardOption {
	return func(b *Board) {
		if n > 0 {
			b.winLength = n
		}
	}
}

// Player to move first, default black
func WithToPlay(color mcts.Color) BoardOption {
	return func(b *Board) {
		if color != mcts.Empty {
			b.toPlay = color
		}
	}
}

func NewBoard(size int, options ...BoardOption) (*Board, error) {
	if size < 1 || size > MaxBoardSize {
		return nil, fmt.Errorf("%w: %d (1-%d)", ErrInvalidSize, size, MaxBoardSize)
	}

	b := &Board{
		size:      size,
		winLength: DefaultWinLength,
		cells:     make([]mcts.Color, size*size),
		toPlay:    mcts.Black,
		empty:     size * size,
		history:   make([]historyEntry, 0, size*size),
	}
	for _, option := range options {
		option(b)
	}
	return b, nil
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) WinLength() int {
	return b.winLength
}

// Point at given column and row, row 0 is the bottom row
func (b *Board) Pt(col, row int) Point {
	return Point(row*b.size + col)
}

// Column and row of the point
func (b *Board) Coord(p Point) (col, row int) {
	return int(p) % b.size, int(p) / b.size
}

func (b *Board) InBounds(p Point) bool {
	return p >= 0 && int(p) < len(b.cells)
}

func (b *Board) At(p Point) mcts.Color {
	if !b.InBounds(p) {
		return mcts.Empty
	}
	return b.cells[p]
}

func (b *Board) CurrentPlayer() mcts.Color {
	return b.toPlay
}

func (b *Board) Copy() *Board {
	clone := *b
	clone.cells = make([]mcts.Color, len(b.cells))
	copy(clone.cells, b.cells)
	clone.history = make([]historyEntry, len(b.history), cap(b.history))
	copy(clone.history, b.history)
	return &clone
}

// Place a stone of given colour, the opponent moves next
func (b *Board) PlayMove(p Point, color mcts.Color) error {
	if color != mcts.Black && color != mcts.White {
		return fmt.Errorf("%w: %v", ErrInvalidColor, color)
	}
	if !b.InBounds(p) {
		return fmt.Errorf("%w: %d", ErrOutOfBounds, p)
	}
	if b.cells[p] != mcts.Empty {
		return fmt.Errorf("%w: %s", ErrOccupied, b.Format(p))
	}

	b.history = append(b.history, historyEntry{point: p, color: color, toPlay: b.toPlay})
	b.cells[p] = color
	b.empty--
	b.toPlay = color.Opponent()
	return nil
}

// Take back the most recent move, which must be p
func (b *Board) UndoMove(p Point) error {
	if len(b.history) == 0 {
		return fmt.Errorf("%w: history is empty", ErrUndoMismatch)
	}

	last := b.history[len(b.history)-1]
	if last.point != p {
		return fmt.Errorf("%w: last %s, got %s", ErrUndoMismatch, b.Format(last.point), b.Format(p))
	}

	b.cells[p] = mcts.Empty
	b.empty++
	b.toPlay = last.toPlay
	b.history = b.history[:len(b.history)-1]
	return nil
}

// Colour of the stone at lastMove if it completes a line of winLength,
// Empty otherwise
func (b *Board) CheckWin(lastMove Point) mcts.Color {
	color := b.At(lastMove)
	if color == mcts.Empty {
		return mcts.Empty
	}

	directions := [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	col, row := b.Coord(lastMove)
	for _, d := range directions {
		count := 1
		count += b.countDirection(col, row, d[0], d[1], color)
		count += b.countDirection(col, row, -d[0], -d[1], color)
		if count >= b.winLength {
			return color
		}
	}
	return mcts.Empty
}

func (b *Board) countDirection(col, row, dx, dy int, color mcts.Color) int {
	count := 0
	for {
		col += dx
		row += dy
		if col < 0 || row < 0 || col >= b.size || row >= b.size {
			return count
		}
		if b.cells[b.Pt(col, row)] != color {
			return count
		}
		count++
	}
}

func (b *Board) EmptyPoints() []Point {
	points := make([]Point, 0, b.empty)
	for i, cell := range b.cells {
		if cell == mcts.Empty {
			points = append(points, Point(i))
		}
	}
	return points
}

// Every empty point is legal
func (b *Board) LegalMoves() []Point {
	return b.EmptyPoints()
}

func (b *Board) NumEmpty() int {
	return b.empty
}

// Most recent move, false on an empty history
func (b *Board) LastMove() (Point, bool) {
	if len(b.history) == 0 {
		return 0, false
	}
	return b.history[len(b.history)-1].point, true
}

// Moves played so far, oldest first
func (b *Board) Moves() []Point {
	moves := make([]Point, len(b.history))
	for i, entry := range b.history {
		moves[i] = entry.point
	}
	return moves
}

// Winner by the last move, Empty if there is none yet
func (b *Board) Winner() mcts.Color {
	last, ok := b.LastMove()
	if !ok {
		return mcts.Empty
	}
	return b.CheckWin(last)
}

// Whether the game is over, by a win or a full board
func (b *Board) IsTerminal() bool {
	return b.Winner() != mcts.Empty || b.empty == 0
}

// Play moves in notation for the current player, e.g. Play("c3", "d4")
func (b *Board) Play(moves ...string) error {
	for _, s := range moves {
		p, err := ParsePoint(s, b.size)
		if err != nil {
			return err
		}
		if err := b.PlayMove(p, b.toPlay); err != nil {
			return err
		}
	}
	return nil
}
