package learner

import (
	"slices"
	"time"

	"tictactoe/agent"
	"tictactoe/game"
	"tictactoe/meta"

	"golang.org/x/exp/rand"
)

type Option func(l *Learner)

// Learner is a tabular Q-learning agent. Its table lives as long as the
// learner and is only touched by it.
type Learner struct {
	alpha          float64
	gamma          float64
	epsilon        float64
	episodes       int
	reportInterval int
	rng            *rand.Rand
	opponent       agent.Agent
	table          *QTable
	history        History
}

func WithAlpha(alpha float64) Option {
	return func(l *Learner) {
		if alpha > 0 && alpha <= 1 {
			l.alpha = alpha
		}
	}
}

func WithGamma(gamma float64) Option {
	return func(l *Learner) {
		if gamma >= 0 && gamma <= 1 {
			l.gamma = gamma
		}
	}
}

// WithEpsilon sets the exploration rate used during training only.
func WithEpsilon(epsilon float64) Option {
	return func(l *Learner) {
		if epsilon >= 0 && epsilon <= 1 {
			l.epsilon = epsilon
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(l *Learner) {
		if episodes > 0 {
			l.episodes = episodes
		}
	}
}

// WithReportInterval sets how many episodes pass between progress logs.
func WithReportInterval(episodes int) Option {
	return func(l *Learner) {
		if episodes > 0 {
			l.reportInterval = episodes
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(l *Learner) {
		if rng != nil {
			l.rng = rng
		}
	}
}

// WithOpponent sets the default sparring agent for Train.
func WithOpponent(opponent agent.Agent) Option {
	return func(l *Learner) {
		l.opponent = opponent
	}
}

func New(options ...Option) *Learner {
	l := &Learner{ // Default values
		alpha:          meta.QAlpha,
		gamma:          meta.QGamma,
		epsilon:        meta.QEpsilon,
		episodes:       meta.QEpisodes,
		reportInterval: meta.QReportInterval,
		table:          NewQTable(),
	}
	for _, option := range options {
		option(l)
	}
	if l.rng == nil {
		l.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return l
}

// ChooseMove plays greedily on the learned values, with no exploration.
// Unseen states fall back to the first empty cell.
func (l *Learner) ChooseMove(state game.State) (game.Move, error) {
	if _, err := agent.CheckState(state); err != nil {
		return game.NoMove, err
	}
	return l.chooseAction(state, 0), nil
}

func (l *Learner) Table() *QTable {
	return l.table
}

// History returns a copy of the transitions of the latest episode.
func (l *Learner) History() History {
	return slices.Clone(l.history)
}

func (l *Learner) String() string {
	return "QLearning"
}

// chooseAction is epsilon-greedy: a random empty cell with probability
// epsilon, otherwise the empty cell with the highest value, first on ties.
func (l *Learner) chooseAction(state game.State, epsilon float64) game.Move {
	moves := state.EmptyCells()
	if epsilon > 0 && l.rng.Float64() < epsilon {
		return moves[l.rng.Intn(len(moves))]
	}

	key := KeyOf(state.Board())
	values, seen := l.table.Values(key)
	best := moves[0]
	if !seen {
		return best
	}
	for _, move := range moves[1:] {
		if values[move.Index()] > values[best.Index()] {
			best = move
		}
	}
	return best
}

// explore picks a training move and records the transition it makes.
func (l *Learner) explore(state game.State) (game.Move, game.State, error) {
	move := l.chooseAction(state, l.epsilon)
	next, err := state.Play(move)
	if err != nil {
		return move, state, err
	}
	l.history.Record(KeyOf(state.Board()), move, KeyOf(next.Board()))
	return move, next, nil
}

// learn credits the episode's final reward to every recorded transition.
func (l *Learner) learn(reward float64) {
	for _, t := range l.history {
		l.table.Update(t.State, t.Action.Index(), reward, t.Next, l.alpha, l.gamma)
	}
}
