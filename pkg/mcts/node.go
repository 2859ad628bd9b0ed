package mcts

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// Single vertex of the partially built game tree. Statistics are kept from
// the perspective of Color, the player who just made Move.
type Node[T MoveLike] struct {
	// Back pointer, nil for the root. Lifetime is owned by the tree.
	Parent *Node[T]
	// Ordered by expansion, not by quality
	Children []*Node[T]
	// Move played from the parent to reach this node, zero value at the root
	Move T
	// Player who made Move
	Color Color
	// Moves from the root to this node, used to rebuild the board by replay
	MoveList []T

	wins float64
	sims int
}

func newRootNode[T MoveLike](color Color) *Node[T] {
	return &Node[T]{
		Color:    color,
		MoveList: []T{},
	}
}

// Create a child of parent, reached by playing move with given colour.
// The child is not attached, see AddChild.
func NewNode[T MoveLike](parent *Node[T], move T, color Color) *Node[T] {
	moveList := make([]T, len(parent.MoveList), len(parent.MoveList)+1)
	copy(moveList, parent.MoveList)

	return &Node[T]{
		Parent:   parent,
		Move:     move,
		Color:    color,
		MoveList: append(moveList, move),
	}
}

func (node *Node[T]) AddChild(child *Node[T]) {
	node.Children = append(node.Children, child)
}

func (node *Node[T]) IsRoot() bool {
	return node.Parent == nil
}

// Number of moves from the root
func (node *Node[T]) Depth() int {
	return len(node.MoveList)
}

// Whether 'move' is already a direct child
func (node *Node[T]) HasChild(move T) bool {
	for _, child := range node.Children {
		if child.Move == move {
			return true
		}
	}
	return false
}

// Add simulation results, counts are cumulative and never decremented
func (node *Node[T]) Update(wins float64, sims int) {
	node.wins += wins
	node.sims += sims
}

func (node *Node[T]) Wins() float64 {
	return node.wins
}

func (node *Node[T]) Sims() int {
	return node.sims
}

// wins/sims, 0 for a node that was never simulated
func (node *Node[T]) WinRate() float64 {
	if node.sims == 0 {
		return 0
	}
	return node.wins / float64(node.sims)
}

func (node *Node[T]) String() string {
	return node.label(defaultMoveFormatter[T])
}

func (node *Node[T]) label(format func(T) string) string {
	move := "root"
	if !node.IsRoot() {
		move = format(node.Move)
	}
	return fmt.Sprintf("%s %g/%d", move, node.wins, node.sims)
}

// Write this subtree, one node per line, children sorted by descending win rate
func (node *Node[T]) Format(w io.Writer, format func(T) string) error {
	if format == nil {
		format = defaultMoveFormatter[T]
	}
	return node.format(w, format, 0)
}

func (node *Node[T]) format(w io.Writer, format func(T) string, level int) error {
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", level), node.label(format)); err != nil {
		return err
	}

	children := slices.Clone(node.Children)
	slices.SortStableFunc(children, func(a, b *Node[T]) int {
		wa, wb := a.WinRate(), b.WinRate()
		if wa > wb {
			return -1
		} else if wa < wb {
			return 1
		}
		return 0
	})

	for _, child := range children {
		if err := child.format(w, format, level+1); err != nil {
			return err
		}
	}
	return nil
}

func defaultMoveFormatter[T MoveLike](move T) string {
	return fmt.Sprint(move)
}

// Helper function to count tree nodes
func countTreeNodes[T MoveLike](node *Node[T]) int {
	nodes := 1
	for _, child := range node.Children {
		nodes += countTreeNodes(child)
	}
	return nodes
}
