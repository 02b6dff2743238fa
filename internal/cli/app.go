package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"modeldeploy/internal/platform"
)

// Version is stamped at build time with -ldflags "-X modeldeploy/internal/cli.Version=...".
var Version = "dev"

// App carries the process-level collaborators so tests can swap them.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	// NewAPI builds the SageMaker client used by deploy.
	NewAPI func(ctx context.Context, opts platform.Options) (platform.API, error)
	Clock  clock.Clock

	log zerolog.Logger
}

// NewApp returns an App wired to the real process environment and AWS.
func NewApp() *App {
	return &App{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
		NewAPI: func(ctx context.Context, opts platform.Options) (platform.API, error) {
			return platform.NewClient(ctx, opts)
		},
		Clock: clock.WallClock,
	}
}

// Run executes the command line args (without the program name).
func (a *App) Run(ctx context.Context, args []string) error {
	root := buildRootCmdWith(a)
	root.SetArgs(args)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)
	return root.ExecuteContext(ctx)
}

// Main runs the CLI and returns the process exit code.
func Main(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a := NewApp()
	if err := a.Run(ctx, args); err != nil {
		fmt.Fprintln(a.Stderr, "modeldeploy:", err)
		return 1
	}
	return 0
}
