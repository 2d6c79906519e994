// meta/meta.go
package meta

import "math"

// MCTSSimulations defines the number of MCTS iterations per move.
const MCTSSimulations = 5000

// MCTSExploration defines the UCB1 exploration constant c.
const MCTSExploration = math.Sqrt2

// QAlpha defines the Q-learning rate.
const QAlpha = 0.2

// QGamma defines the Q-learning discount factor.
const QGamma = 0.2

// QEpsilon defines the exploration rate while training.
const QEpsilon = 0.1

// QEpisodes defines the number of self-play training episodes.
const QEpisodes = 200000

// QReportInterval defines how many episodes pass between training logs.
const QReportInterval = 10000

// EXPERIMENT_GAMES defines the number of games per experiment matchup.
const EXPERIMENT_GAMES = 20
