package services

import "fmt"

// GameError is a custom error type for precondition and lookup failures
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

const (
	ErrInvalidPlayers     GameError = "a match needs two distinct, persisted players"
	ErrInvalidPlayerName  GameError = "player name cannot be empty"
	ErrInvalidPlayerKind  GameError = "invalid player kind"
	ErrInvalidMove        GameError = "invalid move"
	ErrMatchNotInProgress GameError = "match is not in progress"
	ErrRoundLimitReached  GameError = "match already has all its rounds"
	ErrRoundsIncomplete   GameError = "match has not played all its rounds"
	ErrPlayerNotInMatch   GameError = "player is not part of this match"
	ErrWinnerNotInMatch   GameError = "winner is not part of this match"
	ErrMatchNotFound      GameError = "match not found"
	ErrPlayerNotFound     GameError = "player not found"
)

// PersistenceError wraps any failure reading or writing the store. Writes that
// return it have been rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
