package gamemaster

import (
	"errors"
	"fmt"
	"sync"

	"tictactoe/game"
	"tictactoe/utils"
)

var ErrGameOver = errors.New("game is over - no moves allowed")

// UpdateGetter returns the next played move and the state it produced. ok is
// false when no update is pending.
type UpdateGetter func() (move game.Move, state game.State, ok bool)

// Engine referees a game: it owns the state, applies legal moves and reports
// each accepted move through the UpdateGetter returned by Init.
type Engine interface {
	Init(start game.State) (game.State, UpdateGetter)
	State() game.State
	Play(move game.Move) error
	GameOver() bool
}

var _ Engine = (*LocalEngine)(nil)

type update struct {
	move  game.Move
	state game.State
}

// LocalEngine referees a single game in process. It owns the authoritative
// state and rejects illegal moves.
type LocalEngine struct {
	mu       sync.Mutex
	state    game.State
	updateCh chan update
	gameOver bool
}

func NewLocalEngine() *LocalEngine {
	return &LocalEngine{}
}

// Init starts a game from start and returns it with a getter for the
// updates of every accepted move.
func (e *LocalEngine) Init(start game.State) (game.State, UpdateGetter) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = start
	// A game has at most one update per cell
	e.updateCh = make(chan update, game.Cells)
	e.gameOver = start.IsTerminal()
	if e.gameOver {
		close(e.updateCh)
	}

	updateCh := e.updateCh
	return e.state, func() (game.Move, game.State, bool) {
		select {
		case u, ok := <-updateCh:
			if !ok { // Game over
				return game.NoMove, game.State{}, false
			}
			return u.move, u.state, true
		default:
			return game.NoMove, game.State{}, false
		}
	}
}

func (e *LocalEngine) State() game.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *LocalEngine) GameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameOver
}

// Play applies a move for the player to move.
func (e *LocalEngine) Play(move game.Move) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gameOver {
		return ErrGameOver
	}
	if !move.InRange() {
		return fmt.Errorf("illegal move %v: %w", move, game.ErrOutOfRange)
	}
	if utils.FindIndex(e.state.EmptyCells(), move) < 0 {
		return fmt.Errorf("illegal move %v: %w", move, game.ErrCellOccupied)
	}

	next, err := e.state.Play(move)
	if err != nil {
		return fmt.Errorf("illegal move %v: %w", move, err)
	}
	e.state = next
	e.updateCh <- update{move: move, state: next}

	if next.IsTerminal() {
		e.gameOver = true
		close(e.updateCh)
	}
	return nil
}
