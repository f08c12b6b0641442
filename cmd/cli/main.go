package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/specialistvlad/flowgrid/internal/app"
	"github.com/specialistvlad/flowgrid/internal/cli"
	"github.com/specialistvlad/flowgrid/internal/hcl_adapter"
)

// main is the entrypoint for the flowgrid application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) (err error) {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Recover internal invariant violations so the user gets a clean message.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("flowgrid panicked: %v", r)
		}
	}()

	_, err = app.NewApp(outW, errW, cfg, hcl_adapter.NewLoader()).Run(ctx)
	if errors.Is(err, app.ErrDiagnostics) {
		return &cli.ExitError{Code: cli.ExitDiagnostics, Message: err.Error()}
	}
	return err
}
