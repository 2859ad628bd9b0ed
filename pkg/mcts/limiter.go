package mcts

import (
	"context"
	"sync/atomic"
)

type StopReason int

const (
	StopNone      StopReason = 0
	StopInterrupt StopReason = 1 // Stopped by user, by calling .Stop() or context cancellation
	StopMovetime  StopReason = 2 // Time limit reached
	StopNodes     StopReason = 4 // Tree size limit reached
	StopCycles    StopReason = 8 // Cycle limit reached
	StopError     StopReason = 16
)

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}

	reasons := []struct {
		flag StopReason
		name string
	}{
		{StopInterrupt, "Interrupt"},
		{StopMovetime, "Movetime"},
		{StopNodes, "Nodes"},
		{StopCycles, "Cycles"},
		{StopError, "Error"},
	}

	var result string
	for _, r := range reasons {
		if sr&r.flag == r.flag {
			if result != "" {
				result += "|"
			}
			result += r.name
		}
	}

	return result
}

// Decides when Tree.Search should stop
type Limiter struct {
	limits *Limits
	timer  *searchTimer
	stop   atomic.Bool
	reason StopReason
	ctx    context.Context
}

func NewLimiter() *Limiter {
	return &Limiter{
		limits: DefaultLimits(),
		timer:  newSearchTimer(),
		ctx:    context.Background(),
	}
}

// Called on search setup
func (l *Limiter) Reset() {
	l.timer.Movetime(l.limits.Movetime)
	l.timer.Reset()
	l.stop.Store(false)
	l.reason = StopNone
}

func (l *Limiter) SetContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	l.ctx = ctx
}

func (l *Limiter) SetStop(v bool) {
	l.stop.Store(v)
}

// Get the stop signal, a cancelled context counts as one
func (l *Limiter) Stop() bool {
	select {
	case <-l.ctx.Done():
		l.stop.Store(true)
	default:
	}
	return l.stop.Load()
}

func (l *Limiter) SetLimits(limits *Limits) {
	if limits == nil {
		limits = DefaultLimits()
	}
	l.limits = limits
}

func (l *Limiter) Limits() *Limits {
	return l.limits
}

// Elapsed time in ms since the last Reset
func (l *Limiter) Elapsed() uint32 {
	return uint32(l.timer.Deltatime())
}

// Bitmask of the limits reached so far
func (l *Limiter) LimitMask(size, cycles uint32) StopReason {
	reason := StopNone
	if l.Stop() {
		reason |= StopInterrupt
	}

	// If infinite, only the stop signal counts
	if l.limits.Infinite {
		return reason
	}

	if l.timer.IsEnd() {
		reason |= StopMovetime
	}
	if l.limits.Nodes <= size {
		reason |= StopNodes
	}
	if l.limits.Cycles <= cycles {
		reason |= StopCycles
	}
	return reason
}

// Wheter the search can run another cycle
func (l *Limiter) Ok(size, cycles uint32) bool {
	return l.LimitMask(size, cycles) == StopNone
}

// Evaluate stop reason based on current state, and set it internally,
// called once after the search loop ends
func (l *Limiter) EvaluateStopReason(size, cycles uint32) {
	l.reason = l.LimitMask(size, cycles)
}

func (l *Limiter) SetStopReason(reason StopReason) {
	l.reason = reason
}

// Get the reason why the search was stopped, valid after search ends
func (l *Limiter) StopReason() StopReason {
	return l.reason
}
