// models/enums.go
package models

import (
	"database/sql/driver"
	"fmt"
)

// Persisted tokens are the Spanish values existing clients already read from the API.

type Move string

const (
	MoveRock     Move = "piedra"
	MovePaper    Move = "papel"
	MoveScissors Move = "tijera"
)

// Moves lists every valid move, in a fixed order.
var Moves = []Move{MoveRock, MovePaper, MoveScissors}

func (m Move) Valid() bool {
	switch m {
	case MoveRock, MovePaper, MoveScissors:
		return true
	}
	return false
}

// Beats reports whether m wins against other.
func (m Move) Beats(other Move) bool {
	switch m {
	case MoveRock:
		return other == MoveScissors
	case MovePaper:
		return other == MoveRock
	case MoveScissors:
		return other == MovePaper
	}
	return false
}

func (m Move) Value() (driver.Value, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid move %q", string(m))
	}
	return string(m), nil
}

func (m *Move) Scan(src any) error {
	s, err := scanToken(src)
	if err != nil {
		return fmt.Errorf("scan move: %w", err)
	}
	if !Move(s).Valid() {
		return fmt.Errorf("scan move: unknown value %q", s)
	}
	*m = Move(s)
	return nil
}

type Outcome string

const (
	OutcomeWon  Outcome = "ganada"
	OutcomeLost Outcome = "perdida"
	OutcomeDraw Outcome = "empate"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeWon, OutcomeLost, OutcomeDraw:
		return true
	}
	return false
}

// Reverse is the same result seen from the other side.
func (o Outcome) Reverse() Outcome {
	switch o {
	case OutcomeWon:
		return OutcomeLost
	case OutcomeLost:
		return OutcomeWon
	}
	return o
}

func (o Outcome) Value() (driver.Value, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid outcome %q", string(o))
	}
	return string(o), nil
}

func (o *Outcome) Scan(src any) error {
	s, err := scanToken(src)
	if err != nil {
		return fmt.Errorf("scan outcome: %w", err)
	}
	if !Outcome(s).Valid() {
		return fmt.Errorf("scan outcome: unknown value %q", s)
	}
	*o = Outcome(s)
	return nil
}

type MatchStatus string

const (
	MatchStatusInProgress MatchStatus = "en curso"
	MatchStatusFinished   MatchStatus = "finalizada"
	MatchStatusAbandoned  MatchStatus = "abandonada"
	// MatchStatusTied closes a match whose rounds ended level; it has no winner.
	MatchStatusTied MatchStatus = "empatada"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusInProgress, MatchStatusFinished, MatchStatusAbandoned, MatchStatusTied:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s MatchStatus) Terminal() bool {
	return s.Valid() && s != MatchStatusInProgress
}

func (s MatchStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid match status %q", string(s))
	}
	return string(s), nil
}

func (s *MatchStatus) Scan(src any) error {
	v, err := scanToken(src)
	if err != nil {
		return fmt.Errorf("scan match status: %w", err)
	}
	if !MatchStatus(v).Valid() {
		return fmt.Errorf("scan match status: unknown value %q", v)
	}
	*s = MatchStatus(v)
	return nil
}

type PlayerKind string

const (
	PlayerKindHuman   PlayerKind = "humano"
	PlayerKindMachine PlayerKind = "maquina"
)

func (k PlayerKind) Valid() bool {
	return k == PlayerKindHuman || k == PlayerKindMachine
}

func (k PlayerKind) Value() (driver.Value, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid player kind %q", string(k))
	}
	return string(k), nil
}

func (k *PlayerKind) Scan(src any) error {
	v, err := scanToken(src)
	if err != nil {
		return fmt.Errorf("scan player kind: %w", err)
	}
	if !PlayerKind(v).Valid() {
		return fmt.Errorf("scan player kind: unknown value %q", v)
	}
	*k = PlayerKind(v)
	return nil
}

func scanToken(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("unexpected NULL")
	default:
		return "", fmt.Errorf("unsupported type %T", src)
	}
}
