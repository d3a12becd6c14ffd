package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/aretw0/wayfarer"
	"github.com/aretw0/wayfarer/internal/presentation/tui"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/runner"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	SessionID string
	JSON      bool
	Fresh     bool

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// RunSession drives one interactive wizard session until the user quits or input ends.
// Without a session ID a random one is generated, so progress is always resumable.
func RunSession(ctx context.Context, svc *Services, opts RunOptions) error {
	stdin, stdout := opts.Stdin, opts.Stdout
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	interactive := !opts.JSON && stdout == os.Stdout && tui.IsTerminal(os.Stdout)

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(stdin, stdout)
	} else {
		var textOpts []runner.TextHandlerOption
		if interactive {
			render, err := tui.NewRenderer()
			if err != nil {
				svc.Logger.Warn("markdown rendering disabled", "err", err)
			} else {
				textOpts = append(textOpts, runner.WithTextHandlerRenderer(render))
			}
			tui.PrintBanner(stdout, wayfarer.Version)
		}
		handler = runner.NewTextHandler(stdin, stdout, textOpts...)
	}

	logSessionStatus(ctx, svc, sessionID, opts)

	r := runner.NewRunner(
		runner.WithEngine(svc.Engine),
		runner.WithStore(svc.Store),
		runner.WithLocker(svc.Locker),
		runner.WithSessionID(sessionID),
		runner.WithFresh(opts.Fresh),
		runner.WithLogger(svc.Logger),
		runner.WithHeadless(opts.JSON),
		runner.WithInputHandler(handler),
	)

	err := r.Run(ctx)
	svc.Logger.Info("session finished", "session_id", sessionID, "err", err)
	return handleExecutionError(err)
}

func logSessionStatus(ctx context.Context, svc *Services, sessionID string, opts RunOptions) {
	if opts.Fresh {
		svc.Logger.Info("Session Reset", "session_id", sessionID)
		return
	}
	_, err := svc.Store.Load(ctx, sessionID)
	switch {
	case err == nil:
		svc.Logger.Info("Session Resumed", "session_id", sessionID)
	case errors.Is(err, domain.ErrSessionNotFound):
		svc.Logger.Info("Session Created", "session_id", sessionID)
	default:
		svc.Logger.Warn("Session lookup failed", "session_id", sessionID, "err", err)
	}
}

// handleExecutionError turns user cancellation into a clean exit.
func handleExecutionError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return fmt.Errorf("session failed: %w", err)
}
