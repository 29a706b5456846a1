package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/config"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-solo/internal/service"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-solo/transport/console"
	"github.com/rocketscienceinc/tictactoe-solo/transport/websocket"
)

var (
	ErrAddrNotFound    = errors.New("redis address string is empty")
	ErrUnknownFrontend = errors.New("unknown frontend")
	ErrUnknownStore    = errors.New("unknown scoreboard")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	priority, err := entity.ParsePriority(conf.MovePriority)
	if err != nil {
		return fmt.Errorf("invalid move priority: %w", err)
	}

	scoreboard, closeScoreboard, err := newScoreboard(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeScoreboard(); err != nil {
			log.Error("could not close scoreboard storage", "error", err)
		}
	}()

	newSession := sessionFactory(logger, conf, scoreboard, usecase.Options{
		ResetScore: conf.ResetScore,
		Priority:   priority,
	})

	switch conf.Frontend {
	case config.FrontendConsole:
		session, sessionErr := newSession(ctx)
		if sessionErr != nil {
			return fmt.Errorf("could not create session: %w", sessionErr)
		}

		return console.New(logger, session, os.Stdin, os.Stdout).Run(ctx)
	case config.FrontendWebsocket:
		log.Info("Starting WebSocket server", "port", conf.SocketPort)

		if err = websocket.New(logger, newSession).Start(ctx, conf.SocketPort); err != nil {
			return fmt.Errorf("WebSocket server error: %w", err)
		}

		log.Info("Application context canceled, shutting down")

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFrontend, conf.Frontend)
	}
}

func newScoreboard(ctx context.Context, conf *config.Config) (repository.ScoreboardRepository, func() error, error) {
	switch conf.Scoreboard {
	case config.ScoreboardMemory:
		return repository.NewMemoryScoreboard(), func() error { return nil }, nil
	case config.ScoreboardRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewScoreboardRepository(redisStorage.Connection, conf.Redis.TTL), redisStorage.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStore, conf.Scoreboard)
	}
}

// sessionFactory gives every session its own random stream; a non-zero seed makes them reproducible.
func sessionFactory(
	logger *slog.Logger,
	conf *config.Config,
	scoreboard repository.ScoreboardRepository,
	options usecase.Options,
) websocket.SessionFactory {
	seed := conf.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var sequence atomic.Uint64

	return func(ctx context.Context) (*usecase.Session, error) {
		rnd := rand.New(rand.NewPCG(seed, sequence.Add(1)))
		worker := service.NewMoveWorker(logger, conf.ThinkDelay)

		return usecase.NewSession(ctx, logger, rnd, worker, scoreboard, options)
	}
}
