package mcts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

type Option func(*settings)

type settings struct {
	rng       *rand.Rand
	logger    zerolog.Logger
	bestChild BestChildPolicy
	backprop  BackpropTarget
}

// Seed the tree's random generator, by default SeedGeneratorFn is used
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(s *settings) {
		if rng != nil {
			s.rng = rng
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func WithBestChildPolicy(policy BestChildPolicy) Option {
	return func(s *settings) {
		s.bestChild = policy
	}
}

func WithBackpropTarget(target BackpropTarget) Option {
	return func(s *settings) {
		s.backprop = target
	}
}

// Search tree for one decision: built at the real position, grown with Step,
// read with BestMove, then discarded.
type Tree[T MoveLike, B BoardLike[T, B]] struct {
	TreeStats
	Limiter *Limiter
	Root    *Node[T]

	board      B
	color      Color
	numSims    int
	selection  SelectionPolicy[T]
	expansion  MovePolicy[T, B]
	rollout    MovePolicy[T, B]
	bestChild  BestChildPolicy
	backprop   BackpropTarget
	rng        *rand.Rand
	logger     zerolog.Logger
	listener   *StatsListener[T]
	formatMove func(T) string
}

// Create new tree at the board's position, 'color' is the player to move.
// The board is copied, the caller keeps ownership of the original.
// Panics if numSims < 1 or color is Empty.
func NewTree[T MoveLike, B BoardLike[T, B]](board B, color Color, numSims int, options ...Option) *Tree[T, B] {
	if numSims < 1 {
		panic(fmt.Sprintf("mcts: num sims must be positive, got %d", numSims))
	}
	if color == Empty {
		panic("mcts: tree color must be black or white")
	}

	s := settings{logger: zerolog.Nop()}
	for _, option := range options {
		option(&s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(SeedGeneratorFn()))
	}

	listener := NewStatsListener[T]()
	tree := &Tree[T, B]{
		Limiter:    NewLimiter(),
		Root:       newRootNode[T](color.Opponent()),
		board:      board.Copy(),
		color:      color,
		numSims:    numSims,
		selection:  RandomWalk[T],
		expansion:  RandomMovePolicy[T, B]{},
		rollout:    RandomMovePolicy[T, B]{},
		bestChild:  s.bestChild,
		backprop:   s.backprop,
		rng:        s.rng,
		logger:     s.logger,
		listener:   &listener,
		formatMove: defaultMoveFormatter[T],
	}
	tree.size.Store(1)
	return tree
}

func (t *Tree[T, B]) SetSelectionPolicy(policy SelectionPolicy[T]) {
	if policy != nil {
		t.selection = policy
	}
}

func (t *Tree[T, B]) SetExpansionPolicy(policy MovePolicy[T, B]) {
	if policy != nil {
		t.expansion = policy
	}
}

func (t *Tree[T, B]) SetRolloutPolicy(policy MovePolicy[T, B]) {
	if policy != nil {
		t.rollout = policy
	}
}

// Human readable move names for String and logs
func (t *Tree[T, B]) SetMoveFormatter(format func(T) string) {
	if format != nil {
		t.formatMove = format
	}
}

func (t *Tree[T, B]) SetListener(listener StatsListener[T]) {
	*t.listener = listener
}

func (t *Tree[T, B]) ResetListener() {
	t.listener.OnCycle(nil).OnDepth(nil).OnStop(nil)
}

func (t *Tree[T, B]) SetLimits(limits *Limits) {
	t.Limiter.SetLimits(limits)
}

func (t *Tree[T, B]) Limits() *Limits {
	return t.Limiter.Limits()
}

// Player for whom the tree computes a move
func (t *Tree[T, B]) Color() Color {
	return t.color
}

func (t *Tree[T, B]) NumSims() int {
	return t.numSims
}

func (t *Tree[T, B]) BestChildPolicy() BestChildPolicy {
	return t.bestChild
}

func (t *Tree[T, B]) BackpropTarget() BackpropTarget {
	return t.backprop
}

// Copy of the board at the root position
func (t *Tree[T, B]) Board() B {
	return t.board.Copy()
}

// Get the size of the tree (by counting)
func (t *Tree[T, B]) Count() int {
	return countTreeNodes(t.Root)
}

// Selects the node to expand, by the selection policy
func (t *Tree[T, B]) Select() *Node[T] {
	node := t.Root
	for {
		next := t.selection(node, t.rng)
		if next == nil {
			return node
		}
		node = next
	}
}

// Rebuild the board at node by replaying its move list on a copy of the root
// board. Costs O(depth) per call, nodes don't keep boards.
func (t *Tree[T, B]) BoardAt(node *Node[T]) (B, error) {
	board := t.board.Copy()
	for i, move := range node.MoveList {
		if err := board.PlayMove(move, board.CurrentPlayer()); err != nil {
			return board, fmt.Errorf("mcts: replay move %d (%s): %w", i+1, t.formatMove(move), err)
		}
	}
	return board, nil
}

// Add one new child to node, returns the child and the board positioned at it.
// On ErrTerminalNode and ErrFullyExpanded the returned board is positioned at node.
func (t *Tree[T, B]) Expand(node *Node[T]) (*Node[T], B, error) {
	board, err := t.BoardAt(node)
	if err != nil {
		return nil, board, err
	}

	if !node.IsRoot() && board.CheckWin(node.Move) != Empty {
		return nil, board, ErrTerminalNode
	}

	legal := board.LegalMoves()
	if len(legal) == 0 {
		if node.IsRoot() {
			return nil, board, ErrNoLegalMoves
		}
		return nil, board, fmt.Errorf("%w: %w", ErrTerminalNode, ErrNoLegalMoves)
	}

	untried := make([]T, 0, len(legal))
	for _, move := range legal {
		if !node.HasChild(move) {
			untried = append(untried, move)
		}
	}
	if len(untried) == 0 {
		return nil, board, ErrFullyExpanded
	}

	color := board.CurrentPlayer()
	move, err := t.nextExpansion(node, board, color, untried)
	if err != nil {
		return nil, board, err
	}

	if err := board.PlayMove(move, color); err != nil {
		return nil, board, fmt.Errorf("mcts: expand %s: %w", t.formatMove(move), err)
	}

	child := NewNode(node, move, node.Color.Opponent())
	node.AddChild(child)
	t.size.Add(1)
	return child, board, nil
}

// Rejection sampling against the already expanded children
func (t *Tree[T, B]) nextExpansion(node *Node[T], board B, color Color, untried []T) (T, error) {
	attempts := expandAttemptsPerMove * (len(untried) + len(node.Children))
	for range attempts {
		move, err := t.expansion.GenerateMove(board, color, t.rng)
		if err != nil {
			return move, err
		}
		if !node.HasChild(move) {
			return move, nil
		}
	}

	t.logger.Debug().Int("attempts", attempts).Msg("expansion policy kept repeating children, picking uniformly")
	return untried[t.rng.Intn(len(untried))], nil
}

// Run numSims playouts from node, board must be positioned at node. Returns the
// win credit for node.Color: 1 per win, 0.5 per draw. The board is restored
// after every playout.
func (t *Tree[T, B]) Simulate(node *Node[T], board B) (float64, error) {
	wins := 0.0
	played := make([]T, 0, len(board.EmptyPoints()))

	for range t.numSims {
		played = played[:0]
		winner := Empty
		if !node.IsRoot() {
			winner = board.CheckWin(node.Move)
		}

		for winner == Empty && len(board.EmptyPoints()) > 0 {
			color := board.CurrentPlayer()
			move, err := t.rollout.GenerateMove(board, color, t.rng)
			if errors.Is(err, ErrNoLegalMoves) {
				break
			}
			if err == nil {
				err = board.PlayMove(move, color)
			}
			if err != nil {
				return wins, errors.Join(fmt.Errorf("mcts: rollout: %w", err), undoMoves(board, played))
			}

			played = append(played, move)
			winner = board.CheckWin(move)
		}

		if err := undoMoves(board, played); err != nil {
			return wins, err
		}

		switch winner {
		case node.Color:
			wins += 1
		case Empty:
			wins += 0.5
		}
	}

	t.rollouts.Add(uint64(t.numSims))
	return wins, nil
}

func undoMoves[T MoveLike, B BoardLike[T, B]](board B, played []T) error {
	for i := len(played) - 1; i >= 0; i-- {
		if err := board.UndoMove(played[i]); err != nil {
			return fmt.Errorf("mcts: undo rollout move: %w", err)
		}
	}
	return nil
}

// Walk from node up to the root. Consecutive levels belong to opposite players,
// so the credit flips to numSims - wins on every step up.
func (t *Tree[T, B]) Backpropagate(node *Node[T], wins float64) {
	sims := float64(t.numSims)
	for current := node; current != nil; current = current.Parent {
		current.Update(wins, t.numSims)
		wins = sims - wins
	}
}

// Move of the best root child according to the tree's best child policy
func (t *Tree[T, B]) BestMove() (T, error) {
	best := BestChild(t.Root, t.bestChild)
	if best == nil {
		var none T
		return none, ErrTreeNotExpanded
	}
	return best.Move, nil
}

// Principal variation, following the best child from the root
func (t *Tree[T, B]) Pv(policy BestChildPolicy) []T {
	pv := make([]T, 0, t.MaxDepth())
	for node := BestChild(t.Root, policy); node != nil; node = BestChild(node, policy) {
		pv = append(pv, node.Move)
	}
	return pv
}

func (t *Tree[T, B]) String() string {
	builder := strings.Builder{}
	_ = t.Root.Format(&builder, t.formatMove)
	return builder.String()
}

// Adds custom context to the limiter, enabling cancellation of Search through it
func (t *Tree[T, B]) SetContext(ctx context.Context) {
	t.Limiter.SetContext(ctx)
}

// Stop a running Search, safe to call from another goroutine
func (t *Tree[T, B]) Stop() {
	t.Limiter.SetStop(true)
}

// Get the reason why the search was stopped, valid after search ends
func (t *Tree[T, B]) StopReason() StopReason {
	return t.Limiter.StopReason()
}

func (t *Tree[T, B]) invokeListener(f ListenerFunc[T]) {
	if f != nil {
		f(toListenerStats(t))
	}
}
