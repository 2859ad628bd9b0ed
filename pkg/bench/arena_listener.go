package bench

import (
	"sync"

	"github.com/IlikeChooros/gomoku-mcts/pkg/mcts"
)

// Distributes the arena callbacks to several listeners, one call at a time
type ArenaListener[T mcts.MoveLike] struct {
	mu        sync.Mutex
	listeners []ListenerLike[T]
}

func NewArenaListener[T mcts.MoveLike](listeners ...ListenerLike[T]) *ArenaListener[T] {
	al := &ArenaListener[T]{
		listeners: make([]ListenerLike[T], 0, len(listeners)),
	}
	for _, l := range listeners {
		if l != nil {
			al.listeners = append(al.listeners, l)
		}
	}
	return al
}

func (al *ArenaListener[T]) each(f func(ListenerLike[T])) {
	al.mu.Lock()
	defer al.mu.Unlock()
	for _, l := range al.listeners {
		f(l)
	}
}

func (al *ArenaListener[T]) OnGameStart(info VersusWorkerInfo[T]) {
	al.each(func(l ListenerLike[T]) { l.OnGameStart(info) })
}

func (al *ArenaListener[T]) OnMoveMade(info VersusWorkerInfo[T]) {
	al.each(func(l ListenerLike[T]) { l.OnMoveMade(info) })
}

func (al *ArenaListener[T]) OnFinishedGame(info VersusWorkerInfo[T]) {
	al.each(func(l ListenerLike[T]) { l.OnFinishedGame(info) })
}

func (al *ArenaListener[T]) OnFinishedWork(info VersusWorkerInfo[T]) {
	al.each(func(l ListenerLike[T]) { l.OnFinishedWork(info) })
}

func (al *ArenaListener[T]) Summary(summary VersusSummaryInfo) {
	al.each(func(l ListenerLike[T]) { l.Summary(summary) })
}
