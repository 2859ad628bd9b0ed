package mcts

type ListenerTreeStats[T MoveLike] struct {
	Maxdepth   int
	Cycles     int
	TimeMs     int
	Cps        uint32
	Size       uint32
	BestMove   T
	HasMove    bool
	WinRate    float64
	Pv         []T
	StopReason StopReason
}

// Convert tree statistics to 'ListenerTreeStats' struct
func toListenerStats[T MoveLike, B BoardLike[T, B]](tree *Tree[T, B]) ListenerTreeStats[T] {
	stats := ListenerTreeStats[T]{
		Maxdepth:   tree.MaxDepth(),
		Cycles:     tree.Cycles(),
		TimeMs:     int(tree.Limiter.Elapsed()),
		Cps:        tree.Cps(),
		Size:       tree.Size(),
		Pv:         tree.Pv(tree.bestChild),
		StopReason: tree.Limiter.StopReason(),
	}

	if best := BestChild(tree.Root, tree.bestChild); best != nil {
		stats.BestMove = best.Move
		stats.HasMove = true
		stats.WinRate = best.WinRate()
	}
	return stats
}

// Listener function callback, will recieve current tree statistics, like
// max depth of tree, number of iterations so far
type ListenerFunc[T MoveLike] func(ListenerTreeStats[T])

type StatsListener[T MoveLike] struct {
	// called when 'max depth' increases
	onDepth ListenerFunc[T]

	// called every N full iterations
	onCycle ListenerFunc[T]
	nCycles int // call 'onCycle' every N cycles

	// called when the search stops (either by limiter or 'stop' signal)
	onStop ListenerFunc[T]
}

func NewStatsListener[T MoveLike]() StatsListener[T] {
	return StatsListener[T]{nCycles: 1}
}

// Attach new on max depth change callback
func (listener *StatsListener[T]) OnDepth(onDepth ListenerFunc[T]) *StatsListener[T] {
	listener.onDepth = onDepth
	return listener
}

// Attach new on iteration increase callback, this slows down the search
// because of pv evaluation, so use it with a sensible interval
func (listener *StatsListener[T]) OnCycle(onCycle ListenerFunc[T]) *StatsListener[T] {
	listener.onCycle = onCycle
	return listener
}

func (listener *StatsListener[T]) SetCycleInterval(n int) *StatsListener[T] {
	if n < 1 {
		n = 1
	}
	listener.nCycles = n
	return listener
}

// Attach 'on search end' callback, makes 'StopReason' available in the stats
func (listener *StatsListener[T]) OnStop(onStop ListenerFunc[T]) *StatsListener[T] {
	listener.onStop = onStop
	return listener
}

func (listener *StatsListener[T]) cycleDue(cycles int) bool {
	return listener.onCycle != nil && listener.nCycles > 0 && cycles%listener.nCycles == 0
}
