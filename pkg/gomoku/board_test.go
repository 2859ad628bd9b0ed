package gomoku

import (
	"testing"

	"github.com/IlikeChooros/gomoku-mcts/pkg/mcts"
	"github.com/stretchr/testify/require"
)

var _ mcts.BoardLike[Point, *Board] = (*Board)(nil)

func newTestBoard(t *testing.T, size int, options ...BoardOption) *Board {
	t.Helper()
	b, err := NewBoard(size, options...)
	require.NoError(t, err)
	return b
}

func TestNewBoard(t *testing.T) {
	for _, size := range []int{0, -3, MaxBoardSize + 1} {
		_, err := NewBoard(size)
		require.ErrorIs(t, err, ErrInvalidSize)
	}

	b := newTestBoard(t, 9)
	require.Equal(t, 9, b.Size())
	require.Equal(t, DefaultWinLength, b.WinLength())
	require.Equal(t, mcts.Black, b.CurrentPlayer())
	require.Equal(t, 81, b.NumEmpty())
	require.Len(t, b.EmptyPoints(), 81)
	require.False(t, b.IsTerminal())

	b = newTestBoard(t, 9, WithWinLength(3), WithToPlay(mcts.White))
	require.Equal(t, 3, b.WinLength())
	require.Equal(t, mcts.White, b.CurrentPlayer())
}

func TestPlayUndo(t *testing.T) {
	b := newTestBoard(t, 5)
	c3 := b.Pt(2, 2)

	require.NoError(t, b.PlayMove(c3, mcts.Black))
	require.Equal(t, mcts.Black, b.At(c3))
	require.Equal(t, mcts.White, b.CurrentPlayer())
	require.Equal(t, 24, b.NumEmpty())
	require.NotContains(t, b.EmptyPoints(), c3)

	last, ok := b.LastMove()
	require.True(t, ok)
	require.Equal(t, c3, last)

	t.Run("errors", func(t *testing.T) {
		require.ErrorIs(t, b.PlayMove(c3, mcts.White), ErrOccupied)
		require.ErrorIs(t, b.PlayMove(Point(25), mcts.White), ErrOutOfBounds)
		require.ErrorIs(t, b.PlayMove(Point(-1), mcts.White), ErrOutOfBounds)
		require.ErrorIs(t, b.PlayMove(Point(0), mcts.Empty), ErrInvalidColor)
		require.ErrorIs(t, b.UndoMove(Point(0)), ErrUndoMismatch)
		require.Equal(t, 24, b.NumEmpty())
	})

	require.NoError(t, b.UndoMove(c3))
	require.Equal(t, mcts.Empty, b.At(c3))
	require.Equal(t, mcts.Black, b.CurrentPlayer())
	require.Equal(t, 25, b.NumEmpty())
	require.Empty(t, b.Moves())
	require.ErrorIs(t, b.UndoMove(c3), ErrUndoMismatch)

	_, ok = b.LastMove()
	require.False(t, ok)
}

func TestUndoRestoresPlayer(t *testing.T) {
	// the same colour twice in a row, undo must restore who was to move
	b := newTestBoard(t, 5)
	require.NoError(t, b.PlayMove(b.Pt(0, 0), mcts.White))
	require.NoError(t, b.PlayMove(b.Pt(1, 0), mcts.White))
	require.Equal(t, mcts.Black, b.CurrentPlayer())

	require.NoError(t, b.UndoMove(b.Pt(1, 0)))
	require.Equal(t, mcts.Black, b.CurrentPlayer())
	require.NoError(t, b.UndoMove(b.Pt(0, 0)))
	require.Equal(t, mcts.Black, b.CurrentPlayer())
}

func TestCheckWin(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		win    int
		stones []string
		last   string
		want   mcts.Color
	}{
		{"horizontal", 9, 5, []string{"a1", "b1", "c1", "d1", "e1"}, "c1", mcts.Black},
		{"vertical", 9, 5, []string{"b2", "b3", "b4", "b5", "b6"}, "b6", mcts.Black},
		{"diagonal", 9, 5, []string{"a1", "b2", "c3", "d4", "e5"}, "a1", mcts.Black},
		{"anti diagonal", 9, 5, []string{"a5", "b4", "c3", "d2", "e1"}, "d2", mcts.Black},
		{"overline", 9, 5, []string{"a1", "b1", "c1", "d1", "e1", "f1"}, "f1", mcts.Black},
		{"four", 9, 5, []string{"a1", "b1", "c1", "d1"}, "d1", mcts.Empty},
		{"gap", 9, 5, []string{"a1", "b1", "d1", "e1", "f1"}, "f1", mcts.Empty},
		{"short line", 5, 3, []string{"c3", "d4", "e5"}, "d4", mcts.Black},
		{"empty point", 5, 3, []string{"c3"}, "a1", mcts.Empty},
		{"edge wrap", 5, 3, []string{"d1", "e1", "a2"}, "a2", mcts.Empty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBoard(t, tc.size, WithWinLength(tc.win))
			for _, s := range tc.stones {
				p, err := ParsePoint(s, tc.size)
				require.NoError(t, err)
				require.NoError(t, b.PlayMove(p, mcts.Black))
			}

			last, err := ParsePoint(tc.last, tc.size)
			require.NoError(t, err)
			require.Equal(t, tc.want, b.CheckWin(last))
		})
	}
}

func TestWinnerAndTerminal(t *testing.T) {
	b := newTestBoard(t, 5, WithWinLength(3))
	require.NoError(t, b.Play("a1", "a2", "b1", "b2"))
	require.Equal(t, mcts.Empty, b.Winner())
	require.False(t, b.IsTerminal())

	require.NoError(t, b.Play("c1"))
	require.Equal(t, mcts.Black, b.Winner())
	require.True(t, b.IsTerminal())

	full := newTestBoard(t, 1)
	require.NoError(t, full.Play("a1"))
	require.Equal(t, mcts.Empty, full.Winner())
	require.True(t, full.IsTerminal())
	require.Empty(t, full.LegalMoves())
}

func TestCopy(t *testing.T) {
	b := newTestBoard(t, 5)
	require.NoError(t, b.Play("c3", "d4"))

	clone := b.Copy()
	require.NoError(t, clone.Play("e5"))
	require.NoError(t, clone.UndoMove(b.Pt(4, 4)))
	require.NoError(t, clone.UndoMove(b.Pt(3, 3)))

	require.Equal(t, []Point{b.Pt(2, 2), b.Pt(3, 3)}, b.Moves())
	require.Equal(t, mcts.White, b.At(b.Pt(3, 3)))
	require.Equal(t, mcts.Black, b.CurrentPlayer())
	require.Equal(t, 23, b.NumEmpty())
	require.Equal(t, 24, clone.NumEmpty())
}
