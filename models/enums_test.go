package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveBeatsIsCyclic(t *testing.T) {
	assert.True(t, MoveRock.Beats(MoveScissors))
	assert.True(t, MoveScissors.Beats(MovePaper))
	assert.True(t, MovePaper.Beats(MoveRock))

	for _, m := range Moves {
		assert.False(t, m.Beats(m), "%s beats itself", m)
	}
	assert.False(t, Move("lagarto").Beats(MoveRock))
}

func TestMoveScanValue(t *testing.T) {
	var m Move
	require.NoError(t, m.Scan([]byte("tijera")))
	assert.Equal(t, MoveScissors, m)

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "tijera", v)

	assert.Error(t, m.Scan("spock"))
	assert.Error(t, m.Scan(nil))
	assert.Error(t, m.Scan(42))

	_, err = Move("").Value()
	assert.Error(t, err)
}

func TestMatchStatusTerminal(t *testing.T) {
	assert.False(t, MatchStatusInProgress.Terminal())
	assert.True(t, MatchStatusFinished.Terminal())
	assert.True(t, MatchStatusAbandoned.Terminal())
	assert.True(t, MatchStatusTied.Terminal())
	assert.False(t, MatchStatus("pausada").Terminal())
}

func TestOutcomeAndKindScan(t *testing.T) {
	var o Outcome
	require.NoError(t, o.Scan("empate"))
	assert.Equal(t, OutcomeDraw, o)
	assert.Error(t, o.Scan("victoria"))

	var k PlayerKind
	require.NoError(t, k.Scan("maquina"))
	assert.Equal(t, PlayerKindMachine, k)
	assert.Error(t, k.Scan("robot"))

	var s MatchStatus
	require.NoError(t, s.Scan("en curso"))
	assert.Equal(t, MatchStatusInProgress, s)
}

func TestMatchHasPlayer(t *testing.T) {
	m := Match{PlayerOneID: 1, PlayerTwoID: 2}
	assert.True(t, m.HasPlayer(1))
	assert.True(t, m.HasPlayer(2))
	assert.False(t, m.HasPlayer(3))
	assert.False(t, m.HasPlayer(0))
}

func TestOutcomeReverse(t *testing.T) {
	assert.Equal(t, OutcomeLost, OutcomeWon.Reverse())
	assert.Equal(t, OutcomeWon, OutcomeLost.Reverse())
	assert.Equal(t, OutcomeDraw, OutcomeDraw.Reverse())
}
