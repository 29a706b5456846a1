package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

const help = "commands: new | 1-9 (cell) | score | quit"

type gameSession interface {
	NewGame(ctx context.Context) (usecase.Snapshot, error)
	UserMove(ctx context.Context, cell int) (usecase.Snapshot, error)
	OnChange(listener func(usecase.Snapshot))
	Snapshot() usecase.Snapshot
	Wait()
}

// Console plays one session over a line-oriented terminal.
type Console struct {
	logger  *slog.Logger
	session gameSession
	in      io.Reader

	mu  sync.Mutex
	out io.Writer
}

func New(logger *slog.Logger, session gameSession, in io.Reader, out io.Writer) *Console {
	return &Console{
		logger:  logger.With("component", "console"),
		session: session,
		in:      in,
		out:     out,
	}
}

// Run reads commands until quit, end of input or ctx is done.
func (that *Console) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	that.session.OnChange(that.render)
	defer func() {
		that.session.Wait()
		that.session.OnChange(nil)
	}()

	that.printf("tic-tac-toe: you are %s, the computer is %s\n%s\n", entity.UserMark, entity.ComputerMark, help)
	that.render(that.session.Snapshot())

	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			return nil
		case line := <-lines:
			if quit := that.execute(ctx, strings.TrimSpace(line)); quit {
				log.Info("user quit")
				return nil
			}
		}
	}
}

func (that *Console) execute(ctx context.Context, command string) bool {
	switch command {
	case "":
		return false
	case "quit", "exit", "q":
		that.printf("bye\n")
		return true
	case "new", "n":
		if _, err := that.session.NewGame(ctx); err != nil {
			that.printf("error: %v\n", err)
		}
	case "score", "s":
		score := that.session.Snapshot().Score
		that.printf("score: you %d - computer %d\n", score.User, score.Computer)
	default:
		position, err := strconv.Atoi(command)
		if err != nil {
			that.printf("unknown command %q\n%s\n", command, help)
			return false
		}

		// Cells are shown 1-based.
		if _, err = that.session.UserMove(ctx, position-1); err != nil {
			that.printf("error: %v\n", err)
		}
	}

	return false
}

func (that *Console) render(snapshot usecase.Snapshot) {
	var builder strings.Builder

	builder.WriteString("\n")
	for row := 0; row < 3; row++ {
		marks := snapshot.Board[row*3 : row*3+3]
		builder.WriteString(strings.Join(marks, " "))
		builder.WriteString("\n")
	}

	fmt.Fprintf(&builder, "you %d - computer %d | %s\n", snapshot.Score.User, snapshot.Score.Computer, snapshot.Status)

	that.printf("%s", builder.String())
}

func (that *Console) printf(format string, args ...any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
