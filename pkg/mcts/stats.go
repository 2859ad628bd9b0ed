package mcts

import "sync/atomic"

// Counters of the current/last search, readable from other goroutines
// (listeners, Stop callers) while Search runs
type TreeStats struct {
	maxdepth atomic.Int32
	cps      atomic.Uint32
	cycles   atomic.Uint32
	rollouts atomic.Uint64
	size     atomic.Uint32
}

// Maxiumum depth reached by an expansion
func (s *TreeStats) MaxDepth() int {
	return int(s.maxdepth.Load())
}

// Total number of steps ('cycles') run on this tree
func (s *TreeStats) Cycles() int {
	return int(s.cycles.Load())
}

// Get cycles per second statistic of the last Search
func (s *TreeStats) Cps() uint32 {
	return s.cps.Load()
}

// Total number of playouts, numSims per cycle
func (s *TreeStats) Rollouts() uint64 {
	return s.rollouts.Load()
}

// Number of nodes in the tree, root included
func (s *TreeStats) Size() uint32 {
	return s.size.Load()
}

func (s *TreeStats) observeDepth(depth int) bool {
	d := int32(depth)
	for {
		current := s.maxdepth.Load()
		if d <= current {
			return false
		}
		if s.maxdepth.CompareAndSwap(current, d) {
			return true
		}
	}
}
