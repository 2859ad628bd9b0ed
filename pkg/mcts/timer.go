package mcts

import (
	"time"
)

type searchTimer struct {
	start    time.Time
	duration time.Duration
}

func newSearchTimer() *searchTimer {
	return &searchTimer{time.Now(), -1}
}

// Check if this timer has ended
func (t *searchTimer) IsEnd() bool {
	return t.duration > 0 && time.Since(t.start) >= t.duration
}

func (t *searchTimer) IsSet() bool {
	return t.duration != -1
}

// Set the 'start' as now
func (t *searchTimer) Reset() {
	t.start = time.Now()
}

// Elapsed milliseconds, at least 1 so it can be used as a divisor
func (t *searchTimer) Deltatime() int {
	return max(int(time.Since(t.start).Milliseconds()), 1)
}

// In milliseconds, negative disables the timer
func (t *searchTimer) Movetime(movetime int) {
	if movetime < 0 {
		t.duration = -1
	} else {
		t.duration = time.Duration(movetime) * time.Millisecond
	}
}
