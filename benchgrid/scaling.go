// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchgrid

import (
	"github.com/aclements/go-gg/table"
	"github.com/biofaster/fastqbench/benchkey"
	"github.com/biofaster/fastqbench/benchmath"
)

// A ScalingPoint is a command's time at one input size.
type ScalingPoint struct {
	Size        string
	SizeValue   float64
	SizeDisplay string
	Mean        float64
	Stddev      float64
}

// A Series is one command's ScalingPoints in increasing size order.
type Series struct {
	Command string
	Points  []ScalingPoint
}

// Efficiency compares the first and last points of s. It reports
// false if s has fewer than two points or the comparison cannot be
// computed.
func (s *Series) Efficiency() (benchmath.Scaling, bool) {
	if len(s.Points) < 2 {
		return benchmath.Scaling{}, false
	}
	first, last := s.Points[0], s.Points[len(s.Points)-1]
	return benchmath.ScalingEfficiency(first.Mean, last.Mean, first.SizeValue, last.SizeValue)
}

// Scaling is the scaling view of one cache state and compression.
type Scaling struct {
	Cache       benchkey.CacheState
	Compression benchkey.Compression
	// Series has one entry per command of the Collection, in the
	// same order. A command with no data has no points.
	Series []*Series
}

// Scaling builds the scaling view of cache state cache and
// compression comp. Sizes without a magnitude, such as
// benchkey.DefaultSize, and records whose mean is not positive are
// left out.
func (c *Collection) Scaling(cache benchkey.CacheState, comp benchkey.Compression) *Scaling {
	s := &Scaling{Cache: cache, Compression: comp}
	byCmd := make(map[string]*Series)
	for _, cmd := range c.Commands() {
		ser := &Series{Command: cmd}
		byCmd[cmd] = ser
		s.Series = append(s.Series, ser)
	}
	for _, e := range c.Entries(cache, comp) {
		v, ok := benchkey.SizeValue(e.Key.Size)
		if !ok {
			continue
		}
		for _, rec := range e.Table.Records {
			if !(rec.Mean > 0) {
				continue
			}
			ser := byCmd[rec.Command]
			// A command may repeat within a table; the last
			// record wins, as in benchfmt.Table.Record.
			if n := len(ser.Points); n > 0 && ser.Points[n-1].Size == e.Key.Size {
				ser.Points = ser.Points[:n-1]
			}
			ser.Points = append(ser.Points, ScalingPoint{
				Size:        e.Key.Size,
				SizeValue:   v,
				SizeDisplay: benchkey.SizeDisplay(e.Key.Size),
				Mean:        rec.Mean,
				Stddev:      rec.Stddev,
			})
		}
	}
	return s
}

// Empty reports whether no series of s has a point.
func (s *Scaling) Empty() bool {
	for _, ser := range s.Series {
		if len(ser.Points) > 0 {
			return false
		}
	}
	return true
}

// Table returns the points of s with columns size_value,
// size_display, command, mean and stddev.
func (s *Scaling) Table() *table.Table {
	vals, means, stddevs := []float64{}, []float64{}, []float64{}
	displays, cmds := []string{}, []string{}
	for _, ser := range s.Series {
		for _, p := range ser.Points {
			vals = append(vals, p.SizeValue)
			displays = append(displays, p.SizeDisplay)
			cmds = append(cmds, ser.Command)
			means = append(means, p.Mean)
			stddevs = append(stddevs, p.Stddev)
		}
	}
	return new(table.Builder).
		Add("size_value", vals).
		Add("size_display", displays).
		Add("command", cmds).
		Add("mean", means).
		Add("stddev", stddevs).
		Done()
}
