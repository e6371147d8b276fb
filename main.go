// Command chartmaster displays an animated chart document and reloads it
// whenever the document or its data file changes.
package main

import (
	"context"
	"flag"
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/x/explorer"

	"git.sr.ht/~whereswaldon/chartmaster/backend"
	"git.sr.ht/~whereswaldon/chartmaster/internal/logging"
)

func main() {
	specPath := flag.String("spec", "", "chart document (YAML or JSON) to open at startup")
	logLevel := flag.String("log-level", "info", "minimum log level (trace, debug, info, warn, error)")
	logFormat := flag.String("log-format", "console", "log output format (console or json)")
	flag.Parse()
	if *specPath == "" && flag.NArg() > 0 {
		*specPath = flag.Arg(0)
	}

	cfg := logging.DefaultConfig()
	cfg.Level, cfg.Format = *logLevel, *logFormat
	logging.Init(cfg)

	go func() {
		w := app.NewWindow(app.Title("Chartmaster"))
		if err := loop(w, *specPath); err != nil {
			logging.Get().Error().Err(err).Msg("window closed with error")
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
}

func loop(w *app.Window, specPath string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := logging.Get()

	bundle := backend.NewBundle(ctx, log)
	ws := backend.NewWindowState(ctx, bundle, w.Invalidate)
	expl := explorer.NewExplorer(w)
	ui, err := NewUI(ws, expl, w.Invalidate, log)
	if err != nil {
		return err
	}
	if specPath != "" {
		ui.Open(specPath)
	}

	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
