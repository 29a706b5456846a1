package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solo/internal/service"
)

var errRedisDown = errors.New("redis down")

// fixedRand always answers the same index, wrapped to the requested range.
// 1 lets the user start; 0 lets the computer start.
type fixedRand int

func (that fixedRand) IntN(n int) int {
	return int(that) % n
}

type mockScoreboard struct {
	mock.Mock
}

func (that *mockScoreboard) Get(ctx context.Context, sessionID string) (entity.Score, error) {
	args := that.Called(ctx, sessionID)
	return args.Get(0).(entity.Score), args.Error(1)
}

func (that *mockScoreboard) AddWin(ctx context.Context, sessionID string, player entity.Player) error {
	return that.Called(ctx, sessionID, player).Error(0)
}

func (that *mockScoreboard) Reset(ctx context.Context, sessionID string) error {
	return that.Called(ctx, sessionID).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T, rnd entity.Rand, delay time.Duration, options Options) *Session {
	t.Helper()

	logger := discardLogger()
	session, err := NewSession(context.Background(), logger, rnd, service.NewMoveWorker(logger, delay), repository.NewMemoryScoreboard(), options)
	require.NoError(t, err)

	return session
}

// play marks cell for the user and waits for the computer's answer.
func play(t *testing.T, session *Session, cell int) Snapshot {
	t.Helper()

	_, err := session.UserMove(context.Background(), cell)
	require.NoError(t, err)
	session.Wait()

	return session.Snapshot()
}

func TestSession_NewGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Before the first game", func(t *testing.T) {
		// Given: a fresh session
		session := newTestSession(t, fixedRand(1), 0, Options{})

		// Then: nothing has started yet
		snapshot := session.Snapshot()
		assert.False(t, snapshot.Started)
		assert.Equal(t, StatusNotStarted, snapshot.Status)
		assert.Equal(t, session.ID(), snapshot.SessionID)

		_, err := session.UserMove(ctx, 0)
		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("User starts", func(t *testing.T) {
		// Given: a source that lets the user start
		session := newTestSession(t, fixedRand(1), 0, Options{})

		// When: a game is started
		snapshot, err := session.NewGame(ctx)

		// Then: the board is empty and the user is asked to play
		require.NoError(t, err)
		assert.True(t, snapshot.Started)
		assert.Equal(t, StatusUserTurn, snapshot.Status)
		assert.Equal(t, "user", snapshot.Turn)
		assert.Equal(t, entity.BoardSize, snapshot.Available)
		assert.False(t, snapshot.Thinking)
	})

	t.Run("Computer starts", func(t *testing.T) {
		// Given: a source that lets the computer start
		session := newTestSession(t, fixedRand(0), 0, Options{})

		// When: a game is started
		snapshot, err := session.NewGame(ctx)
		require.NoError(t, err)

		// Then: the computer is thinking right away
		assert.True(t, snapshot.Thinking)
		assert.Equal(t, StatusComputer, snapshot.Status)

		// Then: after its move it is the user's turn
		session.Wait()
		snapshot = session.Snapshot()
		assert.Equal(t, entity.ComputerMark, snapshot.Board[0])
		assert.Equal(t, StatusUserTurn, snapshot.Status)
		assert.Equal(t, entity.BoardSize-1, snapshot.Available)
	})

	t.Run("Refused while the computer thinks", func(t *testing.T) {
		// Given: a computer move in flight
		session := newTestSession(t, fixedRand(0), 100*time.Millisecond, Options{})
		_, err := session.NewGame(ctx)
		require.NoError(t, err)

		// When: another game is requested
		_, err = session.NewGame(ctx)

		// Then: it is refused
		require.ErrorIs(t, err, apperror.ErrComputerThinking)
		session.Wait()
	})

	t.Run("Scoreboard failure", func(t *testing.T) {
		// Given: a scoreboard that cannot be read
		scoreboard := &mockScoreboard{}
		scoreboard.On("Reset", mock.Anything, mock.Anything).Return(nil).Once()
		scoreboard.On("Get", mock.Anything, mock.Anything).Return(entity.Score{}, errRedisDown).Once()

		logger := discardLogger()
		session, err := NewSession(ctx, logger, fixedRand(1), service.NewMoveWorker(logger, 0), scoreboard, Options{})
		require.NoError(t, err)

		// When: a game is started
		_, err = session.NewGame(ctx)

		// Then: the error is passed up
		require.ErrorIs(t, err, errRedisDown)
		scoreboard.AssertExpectations(t)
	})
}

func TestSession_UserMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Computer blocks and wins", func(t *testing.T) {
		// Given: the user starts
		session := newTestSession(t, fixedRand(1), 0, Options{})
		_, err := session.NewGame(ctx)
		require.NoError(t, err)

		// When: the user opens in a corner, the computer answers at random (cell 2)
		snapshot := play(t, session, 0)
		assert.Equal(t, entity.ComputerMark, snapshot.Board[2])

		// When: the user threatens the diagonal, the computer blocks it
		snapshot = play(t, session, 4)
		assert.Equal(t, entity.ComputerMark, snapshot.Board[8])

		// When: the user ignores the computer's column, the computer completes it
		snapshot = play(t, session, 6)

		// Then: the computer has won
		assert.Equal(t, entity.ComputerMark, snapshot.Board[5])
		assert.True(t, snapshot.GameOver)
		assert.Equal(t, entity.ResultComputerWon, snapshot.Result)
		assert.Equal(t, "computer", snapshot.Winner)
		assert.Equal(t, StatusComputerWon, snapshot.Status)
		assert.Equal(t, entity.Score{Computer: 1}, snapshot.Score)

		// Then: further moves are refused
		_, err = session.UserMove(ctx, 1)
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("User wins and the score carries over", func(t *testing.T) {
		// Given: the user starts
		session := newTestSession(t, fixedRand(1), 0, Options{})
		_, err := session.NewGame(ctx)
		require.NoError(t, err)

		// When: the user forks on 3,4,5 and 0,4,8
		play(t, session, 0)
		play(t, session, 3)
		play(t, session, 4)
		snapshot, err := session.UserMove(ctx, 8)
		require.NoError(t, err)

		// Then: the user has won
		assert.Equal(t, entity.ResultUserWon, snapshot.Result)
		assert.Equal(t, StatusUserWon, snapshot.Status)
		assert.Equal(t, entity.Score{User: 1}, snapshot.Score)

		// When: a new game starts
		snapshot, err = session.NewGame(ctx)

		// Then: the session score is kept
		require.NoError(t, err)
		assert.Equal(t, entity.Score{User: 1}, snapshot.Score)
		assert.False(t, snapshot.GameOver)
	})

	t.Run("Score resets with ResetScore", func(t *testing.T) {
		// Given: a session that resets scores on every game
		session := newTestSession(t, fixedRand(1), 0, Options{ResetScore: true})
		_, err := session.NewGame(ctx)
		require.NoError(t, err)

		play(t, session, 0)
		play(t, session, 3)
		play(t, session, 4)
		snapshot, err := session.UserMove(ctx, 8)
		require.NoError(t, err)
		require.Equal(t, entity.Score{User: 1}, snapshot.Score)

		// When: a new game starts
		snapshot, err = session.NewGame(ctx)

		// Then: the score is back to zero
		require.NoError(t, err)
		assert.Equal(t, entity.Score{}, snapshot.Score)
	})

	t.Run("Invalid input is rejected", func(t *testing.T) {
		// Given: a game where the user has marked the centre
		session := newTestSession(t, fixedRand(1), 0, Options{})
		_, err := session.NewGame(ctx)
		require.NoError(t, err)
		play(t, session, 4)

		// Then: bad cells are refused without touching the board
		_, err = session.UserMove(ctx, 9)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)

		_, err = session.UserMove(ctx, -1)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)

		snapshot, err := session.UserMove(ctx, 4)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, entity.BoardSize-2, snapshot.Available)
	})

	t.Run("Refused while the computer thinks", func(t *testing.T) {
		// Given: a slow computer
		session := newTestSession(t, fixedRand(1), 100*time.Millisecond, Options{})
		_, err := session.NewGame(ctx)
		require.NoError(t, err)

		snapshot, err := session.UserMove(ctx, 0)
		require.NoError(t, err)
		assert.True(t, snapshot.Thinking)

		// When: the user clicks again before the answer
		_, err = session.UserMove(ctx, 1)

		// Then: it is not the user's turn
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		session.Wait()
	})

	t.Run("Win is recorded in the scoreboard", func(t *testing.T) {
		// Given: a mocked scoreboard
		scoreboard := &mockScoreboard{}
		scoreboard.On("Reset", mock.Anything, mock.Anything).Return(nil).Once()
		scoreboard.On("Get", mock.Anything, mock.Anything).Return(entity.Score{}, nil).Once()
		scoreboard.On("AddWin", mock.Anything, mock.Anything, entity.Computer).Return(nil).Once()

		logger := discardLogger()
		session, err := NewSession(ctx, logger, fixedRand(1), service.NewMoveWorker(logger, 0), scoreboard, Options{})
		require.NoError(t, err)

		_, err = session.NewGame(ctx)
		require.NoError(t, err)

		// When: the computer wins
		play(t, session, 0)
		play(t, session, 4)
		snapshot := play(t, session, 6)

		// Then: the win is stored for this session
		require.Equal(t, entity.ResultComputerWon, snapshot.Result)
		scoreboard.AssertCalled(t, "AddWin", mock.Anything, session.ID(), entity.Computer)
		scoreboard.AssertExpectations(t)
	})
}

func TestSession_OnChange(t *testing.T) {
	ctx := context.Background()

	// Given: a listener collecting every snapshot
	session := newTestSession(t, fixedRand(1), 0, Options{})

	var (
		mu        sync.Mutex
		snapshots []Snapshot
	)
	session.OnChange(func(snapshot Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		snapshots = append(snapshots, snapshot)
	})

	// When: a game starts and the user plays once
	_, err := session.NewGame(ctx)
	require.NoError(t, err)
	play(t, session, 0)

	// Then: the listener saw the start, the user move and the computer answer in order
	mu.Lock()
	defer mu.Unlock()

	require.Len(t, snapshots, 3)
	assert.Equal(t, StatusUserTurn, snapshots[0].Status)
	assert.True(t, snapshots[1].Thinking)
	assert.Equal(t, entity.UserMark, snapshots[1].Board[0])
	assert.False(t, snapshots[2].Thinking)
	assert.Equal(t, 7, snapshots[2].Available)
}
