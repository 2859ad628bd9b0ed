package gomoku

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// GTP style column letters, 'I' is skipped
const columnLetters = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

var ErrInvalidNotation = errors.New("gomoku: invalid point notation")

// Format point as column letter and 1-based row from the bottom, e.g. "C3"
func FormatPoint(p Point, size int) string {
	if p < 0 || int(p) >= size*size || size > MaxBoardSize {
		return fmt.Sprintf("?%d", int(p))
	}
	col, row := int(p)%size, int(p)/size
	return fmt.Sprintf("%c%d", columnLetters[col], row+1)
}

// Parse notation like "c3" or "C3", case insensitive
func ParsePoint(s string, size int) (Point, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	col := strings.IndexByte(columnLetters, s[0])
	if col < 0 || col >= size {
		return 0, fmt.Errorf("%w: column of %q", ErrInvalidNotation, s)
	}

	row, err := strconv.Atoi(s[1:])
	if err != nil || row < 1 || row > size {
		return 0, fmt.Errorf("%w: row of %q", ErrInvalidNotation, s)
	}
	return Point((row-1)*size + col), nil
}

// Parse a comma or space separated move list, empty input gives no moves
func ParseMoves(s string, size int) ([]Point, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})

	moves := make([]Point, 0, len(fields))
	for _, field := range fields {
		p, err := ParsePoint(field, size)
		if err != nil {
			return nil, err
		}
		moves = append(moves, p)
	}
	return moves, nil
}

func (b *Board) Format(p Point) string {
	return FormatPoint(p, b.size)
}
