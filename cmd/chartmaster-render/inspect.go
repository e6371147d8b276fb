package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"git.sr.ht/~whereswaldon/chartmaster/chart"
)

type locateOptions struct {
	width, height int
	x, y          float64
}

func (a *App) newLocateCmd() *cobra.Command {
	opts := &locateOptions{}
	cmd := &cobra.Command{
		Use:   "locate <document>",
		Short: "Report which element of a chart lies under a point",
		Long: `Report which element of a chart lies under a point.

Coordinates are in pixels of a chart drawn at --width by --height. Prints
"none" when the point misses every element.

Examples:
  chartmaster-render locate sales.yaml --x 120 --y 300`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.locate(args[0], opts)
		},
	}
	cmd.Flags().IntVar(&opts.width, "width", 800, "chart width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 500, "chart height in pixels")
	cmd.Flags().Float64Var(&opts.x, "x", 0, "horizontal position")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "vertical position")
	return cmd
}

func (a *App) locate(path string, opts *locateOptions) error {
	c, _, err := a.load(path, opts.width, opts.height)
	if err != nil {
		return err
	}
	defer c.Destroy()
	i := c.Locate(opts.x, opts.y)
	dp, ok := c.DataAtPoint(i)
	if !ok {
		_, _ = fmt.Fprintln(a.stdout, "none")
		return nil
	}
	_, _ = fmt.Fprintf(a.stdout, "index: %d\n", dp.Index)
	_, _ = fmt.Fprintf(a.stdout, "label: %s\n", dp.Label)
	_, _ = fmt.Fprintf(a.stdout, "value: %s\n", chart.FormatValue(dp.Value))
	if dp.Percentage != "" {
		_, _ = fmt.Fprintf(a.stdout, "share: %s%%\n", dp.Percentage)
	}
	_, _ = fmt.Fprintf(a.stdout, "color: %s\n", dp.Color)
	return nil
}

func (a *App) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <document>",
		Short: "Print summary statistics of a chart's data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.stats(args[0])
		},
	}
}

func (a *App) stats(path string) error {
	c, _, err := a.load(path, 1, 1)
	if err != nil {
		return err
	}
	defer c.Destroy()
	st := c.Stats()
	_, _ = fmt.Fprintf(a.stdout, "kind:    %s\n", c.Kind())
	_, _ = fmt.Fprintf(a.stdout, "count:   %s\n", humanize.Comma(int64(st.Count)))
	_, _ = fmt.Fprintf(a.stdout, "total:   %s\n", chart.FormatValue(st.Total))
	_, _ = fmt.Fprintf(a.stdout, "average: %s\n", chart.FormatValue(st.Average))
	_, _ = fmt.Fprintf(a.stdout, "median:  %s\n", chart.FormatValue(st.Median))
	_, _ = fmt.Fprintf(a.stdout, "min:     %s\n", chart.FormatValue(st.Min))
	_, _ = fmt.Fprintf(a.stdout, "max:     %s\n", chart.FormatValue(st.Max))
	return nil
}
