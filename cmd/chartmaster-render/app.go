package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/spf13/cobra"

	"git.sr.ht/~whereswaldon/chartmaster/backend"
	"git.sr.ht/~whereswaldon/chartmaster/chart"
	"git.sr.ht/~whereswaldon/chartmaster/internal/logging"
	"git.sr.ht/~whereswaldon/chartmaster/surface/software"
)

// App is the chartmaster-render command line.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer

	logLevel  string
	logFormat string
	bitmap    bool
	log       *bolt.Logger
}

func NewApp() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	app.root = &cobra.Command{
		Use:   "chartmaster-render",
		Short: "Render and inspect chart documents without a window",
		Long: `chartmaster-render draws chart documents (YAML or JSON, optionally backed by a
CSV data file) into PNG images, and answers hit-testing and statistics
questions about them from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := logging.DefaultConfig()
			cfg.Level, cfg.Format, cfg.Output = app.logLevel, app.logFormat, app.stderr
			app.log = logging.New(cfg)
		},
	}
	flags := app.root.PersistentFlags()
	flags.StringVar(&app.logLevel, "log-level", "warn", "minimum log level (trace, debug, info, warn, error)")
	flags.StringVar(&app.logFormat, "log-format", "console", "log output format (console or json)")
	flags.BoolVar(&app.bitmap, "bitmap-font", false, "use the built-in bitmap font instead of Go fonts")

	app.root.AddCommand(
		app.newRenderCmd(),
		app.newLocateCmd(),
		app.newStatsCmd(),
	)
	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the command line until it finishes or is interrupted.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the command line with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) fonts() (*software.Fonts, error) {
	if a.bitmap {
		return software.BitmapFonts(), nil
	}
	return software.NewFonts()
}

// load reads the document at path and lays its chart out on a fresh
// software surface of the given size.
func (a *App) load(path string, width, height int) (*chart.Chart, *software.Surface, error) {
	doc := backend.LoadDocument(path)
	if doc.Err != nil {
		return nil, nil, doc.Err
	}
	fonts, err := a.fonts()
	if err != nil {
		return nil, nil, fmt.Errorf("failed loading fonts: %w", err)
	}
	surface, err := software.New(width, height, fonts)
	if err != nil {
		return nil, nil, err
	}
	c, err := chart.New(doc.Spec, surface, width, height, chart.WithLogger(a.log))
	if err != nil {
		return nil, nil, err
	}
	return c, surface, nil
}
