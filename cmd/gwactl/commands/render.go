package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/godilite/gwa-analytics/internal/chart"
)

type renderOptions struct {
	in      string
	out     string
	png     string
	width   float64
	height  float64
	padding float64
	color   string
}

func (o renderOptions) spec() chart.Spec {
	return chart.Spec{Width: o.width, Height: o.height, Padding: o.padding, Color: o.color}
}

func renderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart from a JSON file",
	}

	cmd.PersistentFlags().StringVar(&opts.in, "in", "", "input JSON file (- for stdin)")
	cmd.PersistentFlags().StringVar(&opts.out, "out", "", "SVG output file (default stdout)")
	cmd.PersistentFlags().Float64Var(&opts.width, "width", 0, "chart width")
	cmd.PersistentFlags().Float64Var(&opts.height, "height", 0, "chart height")
	cmd.PersistentFlags().Float64Var(&opts.padding, "padding", 0, "chart padding")
	cmd.PersistentFlags().StringVar(&opts.color, "color", "", "stroke/fill color, e.g. #f87171")
	_ = cmd.MarkPersistentFlagRequired("in")

	bars := &cobra.Command{
		Use:   "bars",
		Short: "Render a bar chart from labelled values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, opts.in)
			if err != nil {
				return err
			}
			series, err := parseSeries(data)
			if err != nil {
				return err
			}
			return writeSVG(cmd, opts.out, chart.RenderBars(series, opts.spec()))
		},
	}

	line := &cobra.Command{
		Use:   "line",
		Short: "Render a GWA trend line from timestamped values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, opts.in)
			if err != nil {
				return err
			}
			timeline, err := parseTimeline(data)
			if err != nil {
				return err
			}
			if err := writeSVG(cmd, opts.out, chart.RenderLine(timeline, opts.spec())); err != nil {
				return err
			}
			if opts.png == "" {
				return nil
			}
			return writePNG(opts.png, timeline, opts.spec())
		},
	}
	line.Flags().StringVar(&opts.png, "png", "", "also write a PNG trend chart to this file")

	cmd.AddCommand(bars, line)
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeSVG(cmd *cobra.Command, path string, d chart.Drawing) error {
	markup := chart.Markup(d)
	if path == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), markup)
		return err
	}
	if err := os.WriteFile(path, []byte(markup+"\n"), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func writePNG(path string, timeline chart.Timeline, spec chart.Spec) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := chart.RasterizeTrend(timeline, spec, f); err != nil {
		if errors.Is(err, chart.ErrNoData) {
			return fmt.Errorf("png: timeline has no plottable values")
		}
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}
