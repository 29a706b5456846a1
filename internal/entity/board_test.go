package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoard_String(t *testing.T) {
	// Given: a board with a few marks
	board := Board{User, None, Computer, None, User}

	// Then: rows are rendered top to bottom
	assert.Equal(t, "X . O\n. X .\n. . .\n", board.String())
	assert.Equal(t, [BoardSize]string{"X", ".", "O", ".", "X", ".", ".", ".", "."}, board.Marks())
}

func TestBoard_Completes(t *testing.T) {
	board := Board{User, User}

	assert.True(t, board.Completes(2, User))
	assert.False(t, board.Completes(2, Computer))
	assert.False(t, board.Completes(0, User), "occupied cell never completes")
	assert.Equal(t, None, board[2], "the receiver is left untouched")
}

func TestPlayer(t *testing.T) {
	assert.Equal(t, Computer, User.Opponent())
	assert.Equal(t, User, Computer.Opponent())
	assert.Equal(t, None, None.Opponent())
	assert.False(t, None.IsValid())
	assert.Equal(t, "computer", Computer.String())
}
