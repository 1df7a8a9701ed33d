package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	for _, tag := range []int{0, 1, 2, 3, 4, 5, 10} {
		m, err := ParseMode(tag)
		assert.NoError(t, err, "ParseMode(%d)", tag)
		assert.Equal(t, tag, int(m))
	}

	for _, tag := range []int{-1, 6, 9, 11} {
		_, err := ParseMode(tag)
		assert.ErrorIs(t, err, ErrInvalidMode, "ParseMode(%d)", tag)
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "playing", ModePlaying.String())
	assert.Equal(t, "mode(77)", Mode(77).String())
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"north", North},
		{"UP", North},
		{" down ", South},
		{"left", West},
		{"e", East},
	}
	for _, test := range tests {
		got, err := ParseDirection(test.in)
		if assert.NoError(t, err, "ParseDirection(%q)", test.in) {
			assert.Equal(t, test.want, got, "ParseDirection(%q)", test.in)
		}
	}

	_, err := ParseDirection("diagonal")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestParseAgent(t *testing.T) {
	a, err := ParseAgent("agent2")
	assert.NoError(t, err)
	assert.Equal(t, Agent2, a)

	a, err = ParseAgent("1")
	assert.NoError(t, err)
	assert.Equal(t, Agent1, a)

	_, err = ParseAgent("3")
	assert.ErrorIs(t, err, ErrInvalidAgent)
}

func TestParseCommandKind(t *testing.T) {
	for kind, name := range commandNames {
		got, err := ParseCommandKind(name)
		assert.NoError(t, err, "ParseCommandKind(%q)", name)
		assert.Equal(t, kind, got, "ParseCommandKind(%q)", name)
	}
	_, err := ParseCommandKind("jump")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "move_agent(agent1,east)", MoveAgent(Agent1, East).String())
	assert.Equal(t, `type_char('x')`, TypeChar('x').String())
}
