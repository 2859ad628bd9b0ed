package mcts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Engine settings for one decision, loadable from yaml
type Config struct {
	// Playouts per expansion
	NumSims int `yaml:"num_sims" json:"num_sims"`
	// Steps per decision, 0 means 'until movetime'
	Steps uint32 `yaml:"steps" json:"steps"`
	// Milliseconds per decision, negative or 0 disables the timer
	Movetime int `yaml:"movetime" json:"movetime"`
	// Stop growing the tree at this many nodes, 0 means unbounded
	Nodes     uint32          `yaml:"nodes" json:"nodes"`
	BestChild BestChildPolicy `yaml:"best_child" json:"best_child"`
	Backprop  BackpropTarget  `yaml:"backprop" json:"backprop"`
	// 0 draws a seed from SeedGeneratorFn
	Seed uint64 `yaml:"seed" json:"seed"`
}

func DefaultConfig() Config {
	return Config{
		NumSims:   20,
		Steps:     50,
		Movetime:  -1,
		BestChild: BestChildWinRate,
		Backprop:  BackpropExpanded,
	}
}

var ErrInvalidConfig = errors.New("mcts: invalid config")

func (c Config) Validate() error {
	if c.NumSims < 1 {
		return fmt.Errorf("%w: num_sims must be positive, got %d", ErrInvalidConfig, c.NumSims)
	}
	if c.Steps == 0 && c.Movetime <= 0 {
		return fmt.Errorf("%w: either steps or movetime must be set", ErrInvalidConfig)
	}
	return nil
}

// Tree options described by this config
func (c Config) Options() []Option {
	options := []Option{
		WithBestChildPolicy(c.BestChild),
		WithBackpropTarget(c.Backprop),
	}
	if c.Seed != 0 {
		options = append(options, WithSeed(c.Seed))
	}
	return options
}

// Search limits described by this config
func (c Config) Limits() *Limits {
	limits := DefaultLimits()
	if c.Steps > 0 {
		limits.SetCycles(c.Steps)
	}
	if c.Movetime > 0 {
		limits.SetMovetime(c.Movetime)
	}
	if c.Nodes > 0 {
		limits.SetNodes(c.Nodes)
	}
	return limits
}

func (c Config) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(c)
	return strings.TrimSpace(builder.String())
}

// Decode yaml on top of the defaults, unknown keys are rejected
func ParseConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("mcts: decode config: %w", err)
	}
	return config, config.Validate()
}

func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("mcts: open config: %w", err)
	}
	defer f.Close()
	return ParseConfig(f)
}
