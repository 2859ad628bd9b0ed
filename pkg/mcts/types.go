package mcts

import (
	"fmt"
	"strings"
)

// Other types, which didn't fit to Tree or Node files

// Signature of a move, must be comparable so expanded children can be
// checked for duplicates
type MoveLike comparable

// Player colour, Empty doubles as 'no winner yet'
type Color int8

const (
	Empty Color = iota
	Black
	White
)

// Opponent of the given colour, Empty maps to itself
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

// Parse "black"/"b" or "white"/"w"
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	}
	return Empty, fmt.Errorf("mcts: unknown color %q", s)
}

type BestChildPolicy int

const (
	// Choose the child with the best win rate, ties go to the first child
	// in expansion order
	BestChildWinRate BestChildPolicy = iota

	// When choosing the best child, choose the one with most simulations,
	// this is the go-to method for MCTS
	BestChildMostVisits
)

func (p BestChildPolicy) String() string {
	if p == BestChildMostVisits {
		return "visits"
	}
	return "winrate"
}

func (p BestChildPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *BestChildPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "winrate", "":
		*p = BestChildWinRate
	case "visits", "mostvisits":
		*p = BestChildMostVisits
	default:
		return fmt.Errorf("mcts: unknown best child policy %q", text)
	}
	return nil
}

// Node where backpropagation starts after a simulation batch
type BackpropTarget int

const (
	// Start at the newly expanded child, so its statistics describe its own rollouts
	BackpropExpanded BackpropTarget = iota

	// Start at the selected (parent) node, statistics stay one level behind the
	// real visits
	BackpropSelected
)

func (b BackpropTarget) String() string {
	if b == BackpropSelected {
		return "selected"
	}
	return "expanded"
}

func (b BackpropTarget) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *BackpropTarget) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "expanded", "":
		*b = BackpropExpanded
	case "selected":
		*b = BackpropSelected
	default:
		return fmt.Errorf("mcts: unknown backprop target %q", text)
	}
	return nil
}

type SeedGeneratorFnType func() uint64
