package mcts

import "time"

// Rejected expansion candidates allowed per legal move, before falling back to
// a uniform pick among the untried moves
const expandAttemptsPerMove = 8

var SeedGeneratorFn SeedGeneratorFnType = func() uint64 {
	return uint64(time.Now().UnixNano())
}

// Set custom seed generator function for random number generators in MCTS,
// by default uses current time in nanoseconds
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}
