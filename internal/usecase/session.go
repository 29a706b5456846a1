package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/service"
)

const (
	StatusNotStarted  = "Click on 'New Game' to begin"
	StatusUserTurn    = "Your turn"
	StatusComputer    = "Computer's turn"
	StatusUserWon     = "Congratulations!!! You Won."
	StatusComputerWon = "Computer won the game."
	StatusTied        = "Game Tied"
)

type scoreboardRepo interface {
	Get(ctx context.Context, sessionID string) (entity.Score, error)
	AddWin(ctx context.Context, sessionID string, player entity.Player) error
	Reset(ctx context.Context, sessionID string) error
}

type moveWorker interface {
	Request(selector service.MoveSelector) <-chan int
}

// Options - per-session game policy.
type Options struct {
	// ResetScore starts every new game from zero instead of the session score.
	ResetScore bool
	Priority   entity.MovePriority
}

// Snapshot is what a frontend needs to render the session.
type Snapshot struct {
	SessionID string                   `json:"session_id"`
	Started   bool                     `json:"started"`
	Board     [entity.BoardSize]string `json:"board"`
	Turn      string                   `json:"turn,omitempty"`
	Thinking  bool                     `json:"thinking"`
	GameOver  bool                     `json:"game_over"`
	Result    entity.Result            `json:"result,omitempty"`
	Winner    string                   `json:"winner,omitempty"`
	Score     entity.Score             `json:"score"`
	Status    string                   `json:"status"`
	Available int                      `json:"available"`
}

// Session drives games between the user and the computer and keeps the score between them.
//
// Every engine mutation happens under mu; the computer's move is computed by the
// worker while user moves and new games are refused.
type Session struct {
	logger     *slog.Logger
	id         string
	rnd        entity.Rand
	worker     moveWorker
	scoreboard scoreboardRepo
	options    Options

	mu       sync.Mutex
	game     *entity.Game
	thinking bool
	listener func(Snapshot)

	// notifyMu keeps listener calls in the order the states were produced.
	notifyMu sync.Mutex
	pending  sync.WaitGroup
}

func NewSession(
	ctx context.Context,
	logger *slog.Logger,
	rnd entity.Rand,
	worker moveWorker,
	scoreboard scoreboardRepo,
	options Options,
) (*Session, error) {
	id := uuid.NewString()

	if options.Priority == "" {
		options.Priority = entity.PriorityStrict
	}

	if err := scoreboard.Reset(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to reset scoreboard: %w", err)
	}

	return &Session{
		logger:     logger.With("component", "session", "session_id", id),
		id:         id,
		rnd:        rnd,
		worker:     worker,
		scoreboard: scoreboard,
		options:    options,
	}, nil
}

func (that *Session) ID() string {
	return that.id
}

// OnChange registers the callback invoked after every state change, including
// the asynchronous computer move. The listener must not call back into the session.
func (that *Session) OnChange(listener func(Snapshot)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.listener = listener
}

// NewGame replaces the current game. The computer moves at once when it starts.
func (that *Session) NewGame(ctx context.Context) (Snapshot, error) {
	log := that.logger.With("method", "NewGame")

	that.mu.Lock()

	if that.thinking {
		that.mu.Unlock()
		return that.Snapshot(), apperror.ErrComputerThinking
	}

	if that.options.ResetScore {
		if err := that.scoreboard.Reset(ctx, that.id); err != nil {
			that.mu.Unlock()
			return Snapshot{}, fmt.Errorf("failed to reset scoreboard: %w", err)
		}
	}

	score, err := that.scoreboard.Get(ctx, that.id)
	if err != nil {
		that.mu.Unlock()
		return Snapshot{}, fmt.Errorf("failed to get scoreboard: %w", err)
	}

	that.game = entity.NewGame(that.rnd, entity.WithScore(score), entity.WithPriority(that.options.Priority))
	log.Info("new game started", "first", that.game.CurrentTurn(), "score", score)

	if that.game.CurrentTurn() == entity.Computer {
		that.requestComputerMove(ctx)
	}

	return that.unlockAndNotify(), nil
}

// UserMove applies the user's mark on cell and hands the turn to the computer.
func (that *Session) UserMove(ctx context.Context, cell int) (Snapshot, error) {
	log := that.logger.With("method", "UserMove")

	that.mu.Lock()

	if err := that.validateUserMove(cell); err != nil {
		snapshot := that.snapshotLocked()
		that.mu.Unlock()

		return snapshot, err
	}

	that.game.PlaceMark(cell, entity.User)
	log.Debug("user marked cell", "cell", cell)

	if that.game.GameOver() {
		that.settle(ctx)
	} else {
		that.requestComputerMove(ctx)
	}

	return that.unlockAndNotify(), nil
}

func (that *Session) Snapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshotLocked()
}

// Wait blocks until no computer move is in flight.
func (that *Session) Wait() {
	that.pending.Wait()
}

func (that *Session) validateUserMove(cell int) error {
	switch {
	case that.game == nil:
		return apperror.ErrGameIsNotStarted
	case that.game.GameOver():
		return apperror.ErrGameFinished
	case that.thinking || that.game.CurrentTurn() != entity.User:
		return apperror.ErrNotYourTurn
	case !entity.IsValidCell(cell):
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	case that.game.Board()[cell] != entity.None:
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	default:
		return nil
	}
}

// requestComputerMove must be called with mu held.
func (that *Session) requestComputerMove(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	game := that.game

	that.thinking = true
	that.pending.Add(1)

	result := that.worker.Request(game)

	go func() {
		defer that.pending.Done()

		cell := <-result

		that.mu.Lock()
		that.thinking = false

		game.PlaceMark(cell, entity.Computer)
		that.logger.Debug("computer marked cell", "cell", cell)

		if game.GameOver() {
			that.settle(ctx)
		}

		that.unlockAndNotify()
	}()
}

// settle records the finished game; must be called with mu held.
func (that *Session) settle(ctx context.Context) {
	log := that.logger.With("method", "settle")

	winner := that.game.CheckWinner()
	log.Info("game over", "result", that.game.Result())

	if winner == entity.None {
		return
	}

	if err := that.scoreboard.AddWin(ctx, that.id, winner); err != nil {
		log.Error("failed to record win", "winner", winner, "error", err)
	}
}

func (that *Session) unlockAndNotify() Snapshot {
	snapshot := that.snapshotLocked()
	listener := that.listener

	that.notifyMu.Lock()
	defer that.notifyMu.Unlock()
	that.mu.Unlock()

	if listener != nil {
		listener(snapshot)
	}

	return snapshot
}

func (that *Session) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		SessionID: that.id,
		Thinking:  that.thinking,
		Status:    StatusNotStarted,
	}

	if that.game == nil {
		for i := range snapshot.Board {
			snapshot.Board[i] = entity.EmptyMark
		}

		return snapshot
	}

	snapshot.Started = true
	snapshot.Board = that.game.Board().Marks()
	snapshot.GameOver = that.game.GameOver()
	snapshot.Result = that.game.Result()
	snapshot.Score = that.game.Scores()
	snapshot.Available = that.game.AvailablePositions()

	switch snapshot.Result {
	case entity.ResultUserWon:
		snapshot.Winner = entity.User.String()
		snapshot.Status = StatusUserWon
	case entity.ResultComputerWon:
		snapshot.Winner = entity.Computer.String()
		snapshot.Status = StatusComputerWon
	case entity.ResultDrawn:
		snapshot.Status = StatusTied
	default:
		snapshot.Turn = that.game.CurrentTurn().String()
		if that.thinking || that.game.CurrentTurn() == entity.Computer {
			snapshot.Status = StatusComputer
		} else {
			snapshot.Status = StatusUserTurn
		}
	}

	return snapshot
}
