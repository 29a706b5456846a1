package entity

import "strings"

const BoardSize = 9

// WinCombos - every row, column and diagonal that ends the game.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board - cells in row-major order (0,1,2 / 3,4,5 / 6,7,8).
type Board [BoardSize]Player

func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

// EmptyCells returns free positions in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, owner := range that {
		if owner == None {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that Board) IsFull() bool {
	for _, owner := range that {
		if owner == None {
			return false
		}
	}

	return true
}

// HasWon - player's occupied cells cover at least one win combo.
func (that Board) HasWon(player Player) bool {
	for _, combo := range WinCombos {
		if that[combo[0]] == player && that[combo[1]] == player && that[combo[2]] == player {
			return true
		}
	}

	return false
}

// Winner checks the user first, then the computer.
func (that Board) Winner() Player {
	switch {
	case that.HasWon(User):
		return User
	case that.HasWon(Computer):
		return Computer
	default:
		return None
	}
}

// Completes reports whether marking the empty cell for player would win.
func (that Board) Completes(cell int, player Player) bool {
	if that[cell] != None {
		return false
	}

	that[cell] = player

	return that.HasWon(player)
}

// Marks - the board as symbols, row-major.
func (that Board) Marks() [BoardSize]string {
	var marks [BoardSize]string
	for i, owner := range that {
		marks[i] = owner.Mark()
	}

	return marks
}

func (that Board) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(that[row*3+col].Mark())
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
