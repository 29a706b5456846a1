package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	scoreboardPrefix = "scoreboard:"
	fieldUser        = "user"
	fieldComputer    = "computer"
)

// ScoreboardRepository keeps the running score of a live session.
type ScoreboardRepository interface {
	Get(ctx context.Context, sessionID string) (entity.Score, error)
	AddWin(ctx context.Context, sessionID string, player entity.Player) error
	Reset(ctx context.Context, sessionID string) error
}

type dbScoreboard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScoreboardRepository - redis-backed scoreboard; a zero ttl keeps keys until Reset.
func NewScoreboardRepository(client *redis.Client, ttl time.Duration) ScoreboardRepository {
	return &dbScoreboard{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbScoreboard) Get(ctx context.Context, sessionID string) (entity.Score, error) {
	values, err := that.client.HGetAll(ctx, scoreboardPrefix+sessionID).Result()
	if err != nil {
		return entity.Score{}, fmt.Errorf("failed to get scoreboard: %w", err)
	}

	user, err := parseCount(values[fieldUser])
	if err != nil {
		return entity.Score{}, fmt.Errorf("invalid user score: %w", err)
	}

	computer, err := parseCount(values[fieldComputer])
	if err != nil {
		return entity.Score{}, fmt.Errorf("invalid computer score: %w", err)
	}

	return entity.Score{User: user, Computer: computer}, nil
}

func (that *dbScoreboard) AddWin(ctx context.Context, sessionID string, player entity.Player) error {
	field, err := scoreField(player)
	if err != nil {
		return err
	}

	key := scoreboardPrefix + sessionID

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, field, 1)
		if that.ttl > 0 {
			pipe.Expire(ctx, key, that.ttl)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add win: %w", err)
	}

	return nil
}

func (that *dbScoreboard) Reset(ctx context.Context, sessionID string) error {
	if err := that.client.Del(ctx, scoreboardPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to reset scoreboard: %w", err)
	}

	return nil
}

func scoreField(player entity.Player) (string, error) {
	switch player {
	case entity.User:
		return fieldUser, nil
	case entity.Computer:
		return fieldComputer, nil
	default:
		return "", fmt.Errorf("%w: %v", ErrInvalidPlayer, player)
	}
}

func parseCount(value string) (int, error) {
	if value == "" {
		return 0, nil
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", value, err)
	}

	return count, nil
}
