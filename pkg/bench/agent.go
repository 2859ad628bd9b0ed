package bench

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/IlikeChooros/gomoku-mcts/pkg/mcts"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

// A player in the arena. SelectMove may be called from several workers at once.
type Agent[T mcts.MoveLike, B mcts.BoardLike[T, B]] interface {
	Name() string
	SelectMove(ctx context.Context, board B) (T, error)
}

// Builds a fresh search tree for every decision
type EngineAgent[T mcts.MoveLike, B mcts.BoardLike[T, B]] struct {
	name   string
	config mcts.Config
	logger zerolog.Logger
	moves  atomic.Uint64
}

func NewEngineAgent[T mcts.MoveLike, B mcts.BoardLike[T, B]](name string, config mcts.Config) (*EngineAgent[T, B], error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("bench: agent %s: %w", name, err)
	}
	return &EngineAgent[T, B]{name: name, config: config, logger: zerolog.Nop()}, nil
}

func (a *EngineAgent[T, B]) WithLogger(logger zerolog.Logger) *EngineAgent[T, B] {
	a.logger = logger
	return a
}

func (a *EngineAgent[T, B]) Name() string {
	return a.name
}

func (a *EngineAgent[T, B]) Config() mcts.Config {
	return a.config
}

func (a *EngineAgent[T, B]) SelectMove(ctx context.Context, board B) (T, error) {
	config := a.config
	n := a.moves.Add(1)
	if config.Seed != 0 {
		// same seed on every move would replay identical games
		config.Seed += n
	}

	tree := mcts.NewTree[T](board, board.CurrentPlayer(), config.NumSims,
		append(config.Options(), mcts.WithLogger(a.logger))...)
	tree.SetLimits(config.Limits())

	if err := tree.Search(ctx); err != nil {
		var none T
		return none, fmt.Errorf("bench: agent %s: %w", a.name, err)
	}
	return tree.BestMove()
}

// Plays uniformly random legal moves
type RandomAgent[T mcts.MoveLike, B mcts.BoardLike[T, B]] struct {
	mu     sync.Mutex
	rng    *rand.Rand
	policy mcts.RandomMovePolicy[T, B]
}

func NewRandomAgent[T mcts.MoveLike, B mcts.BoardLike[T, B]](seed uint64) *RandomAgent[T, B] {
	if seed == 0 {
		seed = mcts.SeedGeneratorFn()
	}
	return &RandomAgent[T, B]{rng: rand.New(rand.NewSource(seed))}
}

func (a *RandomAgent[T, B]) Name() string {
	return "random"
}

func (a *RandomAgent[T, B]) SelectMove(_ context.Context, board B) (T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.policy.GenerateMove(board, board.CurrentPlayer(), a.rng)
}
