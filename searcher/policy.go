package searcher

import "math"

// ucb1 scores a child for selection from its total rewards, its visits and
// c^2 * ln(N) of its parent. Unvisited children score +Inf.
func ucb1(rewards float64, visits int, c2LnN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return rewards/float64(visits) + math.Sqrt(c2LnN/float64(visits))
}
