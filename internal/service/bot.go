package service

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// DefaultThinkDelay - pause before the computer answers, so the move does not look instant.
const DefaultThinkDelay = time.Second

// MoveSelector is the part of the game the worker needs.
type MoveSelector interface {
	ComputerMove() int
}

// MoveWorker computes the computer's move off the caller's goroutine.
//
// Only one computation may be in flight; it cannot be cancelled once started.
type MoveWorker struct {
	logger *slog.Logger
	delay  time.Duration
	busy   atomic.Bool
}

func NewMoveWorker(logger *slog.Logger, delay time.Duration) *MoveWorker {
	if delay < 0 {
		delay = 0
	}

	return &MoveWorker{
		logger: logger.With("component", "move_worker"),
		delay:  delay,
	}
}

func (that *MoveWorker) Busy() bool {
	return that.busy.Load()
}

func (that *MoveWorker) Delay() time.Duration {
	return that.delay
}

// Request starts a computation and returns a channel that receives the chosen
// cell once and is then closed.
//
// The selector must not be mutated until the result arrives. Calling Request
// while another computation is pending panics.
func (that *MoveWorker) Request(selector MoveSelector) <-chan int {
	if !that.busy.CompareAndSwap(false, true) {
		panic("tictactoe: computer move requested while another is in flight")
	}

	result := make(chan int, 1)

	go func() {
		that.logger.Debug("computer is thinking", "delay", that.delay)
		time.Sleep(that.delay)

		move := selector.ComputerMove()
		that.logger.Debug("computer move selected", "cell", move)

		// free the worker before delivering, the receiver may request again right away
		that.busy.Store(false)
		result <- move
		close(result)
	}()

	return result
}
