package mcts

import "golang.org/x/exp/rand"

// Called at every level of the selection walk, returns the child to descend into,
// or nil to stop at 'node' and expand it
type SelectionPolicy[T MoveLike] func(node *Node[T], rng *rand.Rand) *Node[T]

// Pure random walk: uniformly picks one of len(children)+1 options, the extra one
// being 'stop here'. There is no exploitation bias at all, this is a placeholder
// for a real tree policy.
func RandomWalk[T MoveLike](node *Node[T], rng *rand.Rand) *Node[T] {
	if len(node.Children) == 0 {
		return nil
	}

	choice := rng.Intn(len(node.Children) + 1)
	if choice == 0 {
		return nil
	}
	return node.Children[choice-1]
}

// Always stops at the root, the tree becomes a flat list of root moves
func RootOnly[T MoveLike](*Node[T], *rand.Rand) *Node[T] {
	return nil
}

// Return best child, based on the policy. Nil if the node has no children.
func BestChild[T MoveLike](node *Node[T], policy BestChildPolicy) *Node[T] {
	var best *Node[T]

	switch policy {
	case BestChildMostVisits:
		maxSims := -1
		for _, child := range node.Children {
			if child.Sims() > maxSims {
				maxSims = child.Sims()
				best = child
			}
		}
	default:
		bestWinRate := -1.0
		for _, child := range node.Children {
			if wr := child.WinRate(); wr > bestWinRate {
				bestWinRate = wr
				best = child
			}
		}
	}

	return best
}
