package mcts

import (
	"encoding/json"
	"math"
	"strings"
)

// Bounds for Tree.Search. Step itself has no limits, a caller
// driving the tree by hand decides how many steps to run.
type Limits struct {
	Nodes    uint32
	Cycles   uint32
	Movetime int
	Infinite bool
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return builder.String()
}

const (
	DefaultNodeLimit     uint32 = math.MaxUint32
	DefaultMovetimeLimit int    = -1
	DefaultCyclesLimit   uint32 = math.MaxUint32
)

func DefaultLimits() *Limits {
	return &Limits{
		Nodes:    DefaultNodeLimit,
		Cycles:   DefaultCyclesLimit,
		Movetime: DefaultMovetimeLimit,
		Infinite: true,
	}
}

// Set the maxiumum number of nodes the tree can grow to
func (l *Limits) SetNodes(nodes uint32) *Limits {
	l.Nodes = nodes
	l.Infinite = false
	return l
}

// Set the number of select-expand-simulate-backpropagate cycles
func (l *Limits) SetCycles(cycles uint32) *Limits {
	l.Cycles = cycles
	l.Infinite = false
	return l
}

// Set the maximum time for engine to think, in milliseconds
func (l *Limits) SetMovetime(movetime int) *Limits {
	l.Movetime = movetime
	l.Infinite = false
	return l
}

func (l *Limits) SetInfinite(infinite bool) *Limits {
	l.Infinite = infinite
	return l
}
