package mcts

import (
	"context"
	"errors"
)

// Run exactly one cycle:
//
// 1. selection - walk down the tree with the selection policy
//
// 2. expansion - add one new child to the selected node
//
// 3. simulation - run numSims playouts from the new child
//
// 4. backpropagation - credit the result up to the root
//
// A selected node that can't grow (its move ended the game, or all its moves
// are expanded) is simulated directly. Returns ErrNoLegalMoves when the root
// position has no legal move.
func (t *Tree[T, B]) Step() error {
	selected := t.Select()
	node, board, err := t.Expand(selected)

	switch {
	case err == nil:
	case selected.IsRoot() && errors.Is(err, ErrNoLegalMoves):
		return err
	case errors.Is(err, ErrTerminalNode), errors.Is(err, ErrFullyExpanded):
		t.logger.Debug().
			Str("node", t.formatMove(selected.Move)).
			Int("depth", selected.Depth()).
			Err(err).
			Msg("selected node can't be expanded, simulating it instead")
		node = selected
	default:
		return err
	}

	wins, err := t.Simulate(node, board)
	if err != nil {
		return err
	}

	target := node
	if t.backprop == BackpropSelected {
		target = selected
	}
	t.Backpropagate(target, wins)

	t.cycles.Add(1)
	if node != selected {
		t.logger.Debug().
			Str("move", t.formatMove(node.Move)).
			Int("depth", node.Depth()).
			Float64("wins", wins).
			Int("sims", t.numSims).
			Msg("expanded")

		if t.observeDepth(node.Depth()) {
			t.invokeListener(t.listener.onDepth)
		}
	}
	return nil
}

// Calls Step until the limiter stops the search: cycle/node/time limits, context
// cancellation or Stop. The first Step error aborts the search and is returned.
func (t *Tree[T, B]) Search(ctx context.Context) error {
	if ctx != nil {
		t.Limiter.SetContext(ctx)
	}
	t.Limiter.Reset()
	t.cps.Store(0)

	var cycles uint32
	for t.Limiter.Ok(t.Size(), cycles) {
		if err := t.Step(); err != nil {
			t.Limiter.SetStopReason(StopError)
			t.logger.Error().Err(err).Uint32("cycles", cycles).Msg("search aborted")
			t.invokeListener(t.listener.onStop)
			return err
		}

		cycles++
		t.cps.Store(cycles * 1000 / t.Limiter.Elapsed())
		if t.listener.cycleDue(int(cycles)) {
			t.listener.onCycle(toListenerStats(t))
		}
	}

	t.Limiter.EvaluateStopReason(t.Size(), cycles)
	t.logger.Info().
		Stringer("reason", t.StopReason()).
		Uint32("cycles", cycles).
		Uint32("cps", t.Cps()).
		Uint32("size", t.Size()).
		Int("maxdepth", t.MaxDepth()).
		Msg("search stopped")
	t.invokeListener(t.listener.onStop)
	return nil
}
