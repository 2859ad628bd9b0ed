package gomoku

import (
	"fmt"
	"io"
	"strings"

	"github.com/IlikeChooros/gomoku-mcts/pkg/mcts"
	"github.com/muesli/termenv"
)

const (
	blackStone = "X"
	whiteStone = "O"
	emptyPoint = "."
)

// Colored board printer, the last move is highlighted
type Renderer struct {
	out *termenv.Output
}

// Pass termenv.WithProfile(termenv.Ascii) to disable colors
func NewRenderer(w io.Writer, options ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, options...)}
}

func (r *Renderer) Render(b *Board) error {
	last, hasLast := b.LastMove()
	_, err := io.WriteString(r.out, layout(b, func(p Point, cell mcts.Color) string {
		var style termenv.Style
		switch cell {
		case mcts.Black:
			style = r.out.String(blackStone).Bold().Foreground(r.out.Color("#d75f00"))
		case mcts.White:
			style = r.out.String(whiteStone).Bold().Foreground(r.out.Color("#00afff"))
		default:
			return r.out.String(emptyPoint).Faint().String()
		}
		if hasLast && p == last {
			style = style.Reverse()
		}
		return style.String()
	}))
	return err
}

func (b *Board) String() string {
	return layout(b, func(_ Point, cell mcts.Color) string {
		switch cell {
		case mcts.Black:
			return blackStone
		case mcts.White:
			return whiteStone
		}
		return emptyPoint
	})
}

// Top row first, row numbers on the left and column letters below
func layout(b *Board, cell func(Point, mcts.Color) string) string {
	builder := strings.Builder{}
	width := len(fmt.Sprint(b.size))

	for row := b.size - 1; row >= 0; row-- {
		fmt.Fprintf(&builder, "%*d", width, row+1)
		for col := 0; col < b.size; col++ {
			p := b.Pt(col, row)
			builder.WriteByte(' ')
			builder.WriteString(cell(p, b.cells[p]))
		}
		builder.WriteByte('\n')
	}

	builder.WriteString(strings.Repeat(" ", width))
	for col := 0; col < b.size; col++ {
		builder.WriteByte(' ')
		builder.WriteByte(columnLetters[col])
	}
	builder.WriteByte('\n')
	return builder.String()
}
