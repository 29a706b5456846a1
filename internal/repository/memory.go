package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

var ErrInvalidPlayer = errors.New("invalid player")

type memoryScoreboard struct {
	mu     sync.RWMutex
	scores map[string]entity.Score
}

// NewMemoryScoreboard - process-local scoreboard, gone when the process exits.
func NewMemoryScoreboard() ScoreboardRepository {
	return &memoryScoreboard{
		scores: make(map[string]entity.Score),
	}
}

func (that *memoryScoreboard) Get(_ context.Context, sessionID string) (entity.Score, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.scores[sessionID], nil
}

func (that *memoryScoreboard) AddWin(_ context.Context, sessionID string, player entity.Player) error {
	if !player.IsValid() {
		return fmt.Errorf("%w: %v", ErrInvalidPlayer, player)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	score := that.scores[sessionID]
	if player == entity.User {
		score.User++
	} else {
		score.Computer++
	}
	that.scores[sessionID] = score

	return nil
}

func (that *memoryScoreboard) Reset(_ context.Context, sessionID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.scores, sessionID)

	return nil
}
