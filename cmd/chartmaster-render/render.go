package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"git.sr.ht/~whereswaldon/chartmaster/internal/logging"
)

type renderOptions struct {
	output   string
	width    int
	height   int
	progress float64
}

func (a *App) newRenderCmd() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Draw a chart document into a PNG image",
		Long: `Draw a chart document into a PNG image.

The chart is drawn at the end of its entrance animation unless --progress
selects an earlier point.

Examples:
  chartmaster-render render sales.yaml -o sales.png
  chartmaster-render render funnel.json --progress 0.5 -o - > half.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", "output PNG file, - for stdout")
	cmd.Flags().IntVar(&opts.width, "width", 800, "image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 500, "image height in pixels")
	cmd.Flags().Float64Var(&opts.progress, "progress", 1, "animation progress to draw, from 0 to 1")
	return cmd
}

func (a *App) render(path string, opts *renderOptions) error {
	if opts.progress < 0 || opts.progress > 1 {
		return fmt.Errorf("progress %v is outside [0, 1]", opts.progress)
	}
	c, surface, err := a.load(path, opts.width, opts.height)
	if err != nil {
		return err
	}
	defer c.Destroy()
	c.DrawAt(opts.progress)

	var buf bytes.Buffer
	if err := surface.WritePNG(&buf); err != nil {
		return err
	}
	size := buf.Len()
	var output io.Writer = a.stdout
	if opts.output != "-" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("failed opening output file %q: %w", opts.output, err)
		}
		defer f.Close()
		output = f
	}
	if _, err := buf.WriteTo(output); err != nil {
		return fmt.Errorf("failed writing image: %w", err)
	}
	logging.With(a.log.Info(), logging.Path(opts.output), logging.ChartKind(c.Kind().String()), logging.Size(opts.width, opts.height)).
		Str("bytes", humanize.Bytes(uint64(size))).
		Msg("rendered chart")
	return nil
}
