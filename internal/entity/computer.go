package entity

import (
	"errors"
	"fmt"
)

// MovePriority decides how win and block opportunities are ranked against each other.
type MovePriority string

const (
	// PriorityStrict - a win anywhere beats a block anywhere, which beats a random cell.
	PriorityStrict MovePriority = "strict"
	// PriorityScanOrder - first empty cell, by index, that either wins or blocks.
	PriorityScanOrder MovePriority = "scan-order"
)

var ErrUnknownPriority = errors.New("unknown move priority")

func ParsePriority(value string) (MovePriority, error) {
	switch priority := MovePriority(value); priority {
	case PriorityStrict, PriorityScanOrder:
		return priority, nil
	case "":
		return PriorityStrict, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPriority, value)
	}
}

// ComputerMove picks the computer's next cell with a single-ply heuristic:
// complete a computer line, otherwise block a user line, otherwise any free cell at random.
//
// It panics on a full board.
func (that *Game) ComputerMove() int {
	cells := that.board.EmptyCells()
	if len(cells) == 0 {
		panic("tictactoe: computer move requested on a full board")
	}

	if that.priority == PriorityScanOrder {
		if cell, ok := scanWinOrBlock(that.board, cells); ok {
			return cell
		}
	} else {
		if cell, ok := findCompleting(that.board, cells, Computer); ok {
			return cell
		}

		if cell, ok := findCompleting(that.board, cells, User); ok {
			return cell
		}
	}

	return cells[that.rnd.IntN(len(cells))]
}

func findCompleting(board Board, cells []int, player Player) (int, bool) {
	for _, cell := range cells {
		if board.Completes(cell, player) {
			return cell, true
		}
	}

	return 0, false
}

func scanWinOrBlock(board Board, cells []int) (int, bool) {
	for _, cell := range cells {
		if board.Completes(cell, Computer) || board.Completes(cell, User) {
			return cell, true
		}
	}

	return 0, false
}
