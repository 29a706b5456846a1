package entity

import "fmt"

// Result - state of a single game once it has been created.
type Result string

const (
	ResultInProgress  Result = "in_progress"
	ResultUserWon     Result = "user_won"
	ResultComputerWon Result = "computer_won"
	ResultDrawn       Result = "drawn"
)

// Rand is the random source the game draws from. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Game owns the board, the turn, the game-over flag and the running score.
//
// A Game is not safe for concurrent use; callers serialize PlaceMark and ComputerMove.
type Game struct {
	board    Board
	turn     Player
	score    Score
	over     bool
	priority MovePriority
	rnd      Rand
}

type Option func(*Game)

// WithScore - carry a score over from previous games.
func WithScore(score Score) Option {
	return func(game *Game) {
		game.score = score
	}
}

func WithPriority(priority MovePriority) Option {
	return func(game *Game) {
		game.priority = priority
	}
}

// NewGame creates an empty board and picks the first player at random.
func NewGame(rnd Rand, opts ...Option) *Game {
	game := &Game{
		turn:     User,
		priority: PriorityStrict,
		rnd:      rnd,
	}

	if rnd.IntN(2) == 0 {
		game.turn = Computer
	}

	for _, opt := range opts {
		opt(game)
	}

	return game
}

func (that *Game) CurrentTurn() Player {
	return that.turn
}

func (that *Game) Score(player Player) int {
	return that.score.Of(player)
}

func (that *Game) Scores() Score {
	return that.score
}

func (that *Game) Board() Board {
	return that.board
}

func (that *Game) GameOver() bool {
	return that.over
}

func (that *Game) Priority() MovePriority {
	return that.priority
}

func (that *Game) AvailablePositions() int {
	return len(that.board.EmptyCells())
}

func (that *Game) EmptyCells() []int {
	return that.board.EmptyCells()
}

func (that *Game) CheckWinner() Player {
	return that.board.Winner()
}

func (that *Game) Result() Result {
	switch {
	case !that.over:
		return ResultInProgress
	case that.board.HasWon(User):
		return ResultUserWon
	case that.board.HasWon(Computer):
		return ResultComputerWon
	default:
		return ResultDrawn
	}
}

// PlaceMark marks position for player and settles the game if it ended.
//
// It panics when position is out of range, the cell is taken, the game is
// already over or player is None: callers only offer legal moves.
func (that *Game) PlaceMark(position int, player Player) {
	switch {
	case !player.IsValid():
		panic(fmt.Sprintf("tictactoe: invalid player %v", player))
	case !IsValidCell(position):
		panic(fmt.Sprintf("tictactoe: cell %d out of range", position))
	case that.over:
		panic(fmt.Sprintf("tictactoe: mark on cell %d after game over", position))
	case that.board[position] != None:
		panic(fmt.Sprintf("tictactoe: cell %d already marked by %v", position, that.board[position]))
	}

	that.board[position] = player

	if winner := that.board.Winner(); winner != None {
		that.score.increment(winner)
		that.over = true

		return
	}

	if that.board.IsFull() {
		that.over = true

		return
	}

	that.turn = player.Opponent()
}
