package main

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/felixgeelhaar/bolt/v3"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"git.sr.ht/~whereswaldon/chartmaster/backend"
	"git.sr.ht/~whereswaldon/chartmaster/internal/logging"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var (
	openIcon = func() *widget.Icon {
		icon, _ := widget.NewIcon(icons.FileFolderOpen)
		return icon
	}()
	replayIcon = func() *widget.Icon {
		icon, _ := widget.NewIcon(icons.AVReplay)
		return icon
	}()
)

// opened is the result of asking the user for a document.
type opened struct {
	mutation *stream.Mutation[backend.Document]
	key      string
	err      error
}

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ws         backend.WindowState
	expl       *explorer.Explorer
	invalidate func()
	log        *bolt.Logger

	th    *material.Theme
	chart *ChartView

	openBtn   widget.Clickable
	replayBtn widget.Clickable
	choosing  bool
	chosen    chan opened

	docStream *stream.Stream[backend.Document]
	doc       backend.Document
	shown     struct {
		path    string
		version int
	}
	openErr string
}

func NewUI(ws backend.WindowState, expl *explorer.Explorer, invalidate func(), log *bolt.Logger) (*UI, error) {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	view, err := NewChartView(th, invalidate, log)
	if err != nil {
		return nil, err
	}
	return &UI{
		ws:         ws,
		expl:       expl,
		invalidate: invalidate,
		log:        log,
		th:         th,
		chart:      view,
		chosen:     make(chan opened, 1),
	}, nil
}

// Open starts displaying the document at path.
func (ui *UI) Open(path string) {
	m, key := ui.ws.Source.Open(path)
	ui.follow(m, key)
}

func (ui *UI) follow(m *stream.Mutation[backend.Document], key string) {
	ui.docStream = stream.New(ui.ws.Controller, m.Stream)
	ui.doc = backend.Document{}
	ui.shown.path, ui.shown.version = "", 0
	ui.openErr = ""
	logging.With(ui.log.Info(), logging.Path(key)).Msg("opened chart document")
}

// choose runs the file picker, which blocks until the user decides.
func (ui *UI) choose() {
	ui.choosing = true
	go func() {
		var res opened
		file, err := ui.expl.ChooseFile(".yaml", ".yml", ".json")
		if err != nil {
			res.err = err
		} else {
			res.mutation, res.key, res.err = ui.ws.Source.OpenFile(file)
		}
		ui.chosen <- res
		ui.invalidate()
	}()
}

// Update the state of the UI from input and backend streams.
func (ui *UI) Update(gtx C) {
	if !ui.choosing && ui.openBtn.Clicked(gtx) {
		ui.choose()
	}
	if ui.replayBtn.Clicked(gtx) {
		ui.chart.Replay()
	}
	select {
	case res := <-ui.chosen:
		ui.choosing = false
		switch {
		case errors.Is(res.err, explorer.ErrUserDecline):
		case res.err != nil:
			ui.openErr = res.err.Error()
			logging.With(ui.log.Warn(), logging.ErrorField(res.err)).Msg("failed opening chart document")
		default:
			ui.follow(res.mutation, res.key)
		}
	default:
	}
	if ui.docStream == nil {
		return
	}
	ui.docStream.ReadInto(gtx, &ui.doc, backend.Document{})
	if ui.doc.Version == 0 || (ui.doc.Path == ui.shown.path && ui.doc.Version == ui.shown.version) {
		return
	}
	ui.shown.path, ui.shown.version = ui.doc.Path, ui.doc.Version
	if ui.doc.Err != nil {
		return
	}
	ui.chart.SetSpec(ui.doc.Spec)
}

func (ui *UI) errText() string {
	switch {
	case ui.openErr != "":
		return ui.openErr
	case ui.doc.Err != nil:
		return ui.doc.Err.Error()
	}
	return ui.chart.Err()
}

func iconButton(th *material.Theme, btn *widget.Clickable, icon *widget.Icon, desc string) layout.Widget {
	b := material.IconButton(th, btn, icon, desc)
	b.Size = unit.Dp(20)
	b.Inset = layout.UniformInset(6)
	return b.Layout
}

func (ui *UI) layoutToolbar(gtx C) D {
	title := "No chart open"
	if ui.doc.Path != "" {
		title = filepath.Base(ui.doc.Path)
	}
	return layout.Background{}.Layout(gtx,
		func(gtx C) D {
			paint.FillShape(gtx.Ops, ui.th.ContrastBg, clip.Rect{Max: gtx.Constraints.Min}.Op())
			return D{Size: gtx.Constraints.Min}
		},
		func(gtx C) D {
			return layout.UniformInset(4).Layout(gtx, func(gtx C) D {
				return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(func(gtx C) D {
						if ui.choosing {
							gtx = gtx.Disabled()
						}
						return iconButton(ui.th, &ui.openBtn, openIcon, "Open chart")(gtx)
					}),
					layout.Rigid(layout.Spacer{Width: 4}.Layout),
					layout.Rigid(iconButton(ui.th, &ui.replayBtn, replayIcon, "Replay animation")),
					layout.Flexed(1, func(gtx C) D {
						return layout.UniformInset(8).Layout(gtx, func(gtx C) D {
							l := material.Body1(ui.th, title)
							l.Color = ui.th.ContrastFg
							l.MaxLines = 1
							return l.Layout(gtx)
						})
					}),
				)
			})
		},
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	return layout.Center.Layout(gtx, func(gtx C) D {
		gtx.Constraints.Min = image.Point{}
		return material.Body1(ui.th, "Open a chart document to get started.").Layout(gtx)
	})
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(ui.layoutToolbar),
		layout.Rigid(func(gtx C) D {
			msg := ui.errText()
			if msg == "" {
				return D{}
			}
			return layout.UniformInset(4).Layout(gtx, func(gtx C) D {
				l := material.Body2(ui.th, msg)
				l.Color = color.NRGBA{R: 150, A: 255}
				return l.Layout(gtx)
			})
		}),
		layout.Flexed(1, func(gtx C) D {
			if ui.docStream == nil {
				return ui.layoutStartScreen(gtx)
			}
			return ui.chart.Layout(gtx, ui.th)
		}),
		layout.Rigid(func(gtx C) D {
			if !ui.chart.DetailOpen() {
				return D{}
			}
			gtx.Constraints.Max.Y = gtx.Constraints.Max.Y / 3
			return layout.UniformInset(4).Layout(gtx, func(gtx C) D {
				return ui.chart.LayoutDetail(gtx, ui.th)
			})
		}),
	)
}
