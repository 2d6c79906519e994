package learner

import (
	"math"

	"tictactoe/game"
)

// QTable maps a state to the learned value of playing each of its cells.
// Entries are created on first update; unseen values read as zero.
type QTable struct {
	values map[StateKey]*[game.Cells]float64
}

func NewQTable() *QTable {
	return &QTable{values: make(map[StateKey]*[game.Cells]float64)}
}

// Len returns the number of states with an entry.
func (q *QTable) Len() int {
	return len(q.values)
}

// Value returns Q(state, action) for a row-major cell index.
func (q *QTable) Value(key StateKey, action int) float64 {
	if entry, ok := q.values[key]; ok {
		return entry[action]
	}
	return 0
}

// Values returns a copy of all cell values of a state, and whether the state
// has been seen.
func (q *QTable) Values(key StateKey) ([game.Cells]float64, bool) {
	if entry, ok := q.values[key]; ok {
		return *entry, true
	}
	return [game.Cells]float64{}, false
}

// MaxValue returns the highest value over the empty cells of a state, or
// zero if the state has no empty cells.
func (q *QTable) MaxValue(key StateKey) float64 {
	best := math.Inf(-1)
	for i := 0; i < game.Cells; i++ {
		if key.empty(i) {
			best = math.Max(best, q.Value(key, i))
		}
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}

// Update applies the Bellman backup
// Q(s,a) += alpha * (reward + gamma * max_a' Q(s',a') - Q(s,a)).
func (q *QTable) Update(key StateKey, action int, reward float64, next StateKey, alpha, gamma float64) {
	entry := q.entry(key)
	target := reward + gamma*q.MaxValue(next)
	entry[action] += alpha * (target - entry[action])
}

func (q *QTable) entry(key StateKey) *[game.Cells]float64 {
	entry, ok := q.values[key]
	if !ok {
		entry = new([game.Cells]float64)
		q.values[key] = entry
	}
	return entry
}
