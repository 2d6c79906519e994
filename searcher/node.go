package searcher

import (
	"math"

	"tictactoe/game"

	"golang.org/x/exp/rand"
)

// node is a tree node for one state. The parent owns its children; the parent
// link is only followed upwards during backup.
type node struct {
	parent   *node
	children []*node
	move     game.Move   // Move that produced this node from its parent
	player   game.Player // Player who played move, credited with its wins
	state    game.State
	rewards  float64
	visits   int
}

func newRoot(state game.State) *node {
	return &node{
		move:   game.NoMove,
		player: state.Player().Opponent(),
		state:  state,
	}
}

func (n *node) isLeaf() bool {
	return len(n.children) == 0
}

// selectLeaf descends by UCB1 until it reaches a node without children.
func (n *node) selectLeaf(cSquared float64) *node {
	cur := n
	for !cur.isLeaf() {
		cur = cur.children[cur.pickChild(cSquared)]
	}
	return cur
}

// pickChild returns the index of the child with the highest UCB1 score,
// the first unvisited child if any.
func (n *node) pickChild(cSquared float64) int {
	if n.visits == 0 {
		panic("node has children but no visits")
	}

	normalizer := cSquared * math.Log(float64(n.visits))

	maxIndex := -1
	maxScore := math.Inf(-1)
	for i, child := range n.children {
		score := ucb1(child.rewards, child.visits, normalizer)
		if score == math.Inf(1) {
			return i
		}
		if score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

// expand adds one child per legal move, all at once, and returns one of them
// picked uniformly at random.
func (n *node) expand(rng *rand.Rand) *node {
	moves := n.state.EmptyCells()
	n.children = make([]*node, 0, len(moves))
	for _, move := range moves {
		n.children = append(n.children, &node{
			parent: n,
			move:   move,
			player: n.state.Player(),
			state:  n.state.MustPlay(move),
		})
	}
	return n.children[rng.Intn(len(n.children))]
}

// backup records a simulation outcome on every node up to the root. Draws
// add a visit but no reward.
func (n *node) backup(winner game.Player) {
	for cur := n; cur != nil; cur = cur.parent {
		cur.visits++
		if winner != game.None && cur.player == winner {
			cur.rewards += WIN
		} else {
			cur.rewards += LOSS
		}
	}
}

// bestChild returns the most visited child, the first one on ties.
func (n *node) bestChild() *node {
	if len(n.children) == 0 {
		panic("node has no children")
	}

	best := n.children[0]
	for _, child := range n.children[1:] {
		if child.visits > best.visits {
			best = child
		}
	}
	return best
}
