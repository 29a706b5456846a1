package entity

// Player identifies who owns a cell or a turn.
type Player int

const (
	None Player = iota
	User
	Computer
)

const (
	UserMark     = "X"
	ComputerMark = "O"
	EmptyMark    = "."
)

func (that Player) String() string {
	switch that {
	case User:
		return "user"
	case Computer:
		return "computer"
	default:
		return "none"
	}
}

// Mark - symbol used by renderers for the player's cells.
func (that Player) Mark() string {
	switch that {
	case User:
		return UserMark
	case Computer:
		return ComputerMark
	default:
		return EmptyMark
	}
}

// Opponent returns the other side; None has no opponent.
func (that Player) Opponent() Player {
	switch that {
	case User:
		return Computer
	case Computer:
		return User
	default:
		return None
	}
}

func (that Player) IsValid() bool {
	return that == User || that == Computer
}

// Score holds win counts for both sides.
type Score struct {
	User     int `json:"user"`
	Computer int `json:"computer"`
}

func (that Score) Of(player Player) int {
	switch player {
	case User:
		return that.User
	case Computer:
		return that.Computer
	default:
		return 0
	}
}

func (that *Score) increment(player Player) {
	switch player {
	case User:
		that.User++
	case Computer:
		that.Computer++
	}
}
