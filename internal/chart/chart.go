// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders benchgrid views as line charts.
//
// The output format follows the file extension passed to each
// function (.svg, .png, .pdf and so on).
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/biofaster/fastqbench/benchgrid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrEmpty is returned when a view has nothing to draw.
var ErrEmpty = errors.New("nothing to chart")

const gib = 1 << 30

// Width and Height are the size of every chart.
var (
	Width  = 9 * vg.Inch
	Height = 6 * vg.Inch
)

var gray = color.Gray{128}

// points is one command's series with symmetric error bars.
type points struct {
	plotter.XYs
	plotter.YErrors
}

func (p points) Len() int { return len(p.XYs) }

type series struct {
	command string
	pts     points
}

// tick records the label of one x position.
type tick struct {
	value float64
	label string
}

// Throughput writes the throughput view t to path, one line per
// command. Colors are assigned by each command's index in commands so
// that charts of different views agree.
func Throughput(path string, t *benchgrid.Throughput, commands []string) error {
	if t.Empty() {
		return ErrEmpty
	}
	byCmd := make(map[string]*series)
	var ticks []tick
	for _, r := range t.Records {
		if r.SizeValue <= 0 {
			continue
		}
		s := byCmd[r.Command]
		if s == nil {
			s = &series{command: r.Command}
			byCmd[r.Command] = s
		}
		s.pts.XYs = append(s.pts.XYs, plotter.XY{X: r.SizeValue, Y: r.Throughput / gib})
		sd := r.ThroughputStddev / gib
		s.pts.YErrors = append(s.pts.YErrors, struct{ Low, High float64 }{sd, sd})
		ticks = addTick(ticks, r.SizeValue, r.SizeDisplay)
	}
	title := fmt.Sprintf("Throughput (%s, %s)", t.Cache.Title(), t.Compression.Label())
	return render(path, title, "Throughput (GiB/s)", commands, byCmd, ticks)
}

// Scaling writes the scaling view s to path, plotting each command's
// mean time against input size.
func Scaling(path string, s *benchgrid.Scaling, commands []string) error {
	if s.Empty() {
		return ErrEmpty
	}
	byCmd := make(map[string]*series)
	var ticks []tick
	for _, ser := range s.Series {
		if len(ser.Points) == 0 {
			continue
		}
		out := &series{command: ser.Command}
		for _, p := range ser.Points {
			if p.SizeValue <= 0 {
				continue
			}
			out.pts.XYs = append(out.pts.XYs, plotter.XY{X: p.SizeValue, Y: p.Mean})
			out.pts.YErrors = append(out.pts.YErrors, struct{ Low, High float64 }{p.Stddev, p.Stddev})
			ticks = addTick(ticks, p.SizeValue, p.SizeDisplay)
		}
		byCmd[ser.Command] = out
	}
	title := fmt.Sprintf("Scaling (%s, %s)", s.Cache.Title(), s.Compression.Label())
	return render(path, title, "Mean time (s)", commands, byCmd, ticks)
}

func addTick(ticks []tick, v float64, label string) []tick {
	for _, t := range ticks {
		if t.value == v {
			return ticks
		}
	}
	return append(ticks, tick{v, label})
}

func newPlot(title, ylabel string, ticks []tick) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "File size"
	p.Y.Label.Text = ylabel

	p.Title.TextStyle.Color = gray
	p.X.Color = gray
	p.Y.Color = gray
	p.X.Label.TextStyle.Color = gray
	p.Y.Label.TextStyle.Color = gray
	p.X.Tick.Color = gray
	p.Y.Tick.Color = gray
	p.X.Tick.Label.Color = gray
	p.Y.Tick.Label.Color = gray
	p.Legend.TextStyle.Color = gray

	p.X.Scale = plot.LogScale{}
	xTicks := make([]plot.Tick, len(ticks))
	for i, t := range ticks {
		xTicks[i] = plot.Tick{Value: t.value, Label: t.label}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)

	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.Padding = 1 * vg.Millimeter
	p.Add(plotter.NewGrid())
	return p
}

// Colors returns n distinct colors. Palettes are cycled when n exceeds
// the largest qualitative palette.
func Colors(n int) ([]color.Color, error) {
	const minColors, maxColors = 3, 12
	k := n
	if k < minColors {
		k = minColors
	} else if k > maxColors {
		k = maxColors
	}
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Paired", k)
	if err != nil {
		return nil, err
	}
	cs := pal.Colors()
	out := make([]color.Color, n)
	for i := range out {
		out[i] = cs[i%len(cs)]
	}
	return out, nil
}

func render(path, title, ylabel string, commands []string, byCmd map[string]*series, ticks []tick) error {
	if len(byCmd) == 0 || len(ticks) == 0 {
		return ErrEmpty
	}
	colors, err := Colors(len(commands))
	if err != nil {
		return err
	}
	p := newPlot(title, ylabel, ticks)
	p.Y.Min = 0
	for i, cmd := range commands {
		s := byCmd[cmd]
		if s == nil || len(s.pts.XYs) == 0 {
			continue
		}
		line, scatter, err := plotter.NewLinePoints(s.pts.XYs)
		if err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
		line.Color = colors[i]
		scatter.Color = colors[i]
		bars, err := plotter.NewYErrorBars(s.pts)
		if err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
		bars.Color = gray
		p.Add(line, scatter, bars)
		p.Legend.Add(cmd, line, scatter)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return err
	}
	return p.Save(Width, Height, path)
}
