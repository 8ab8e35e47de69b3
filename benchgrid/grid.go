// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchgrid

import (
	"fmt"

	"github.com/aclements/go-gg/table"
	"github.com/biofaster/fastqbench/benchfmt"
	"github.com/biofaster/fastqbench/benchkey"
	"github.com/biofaster/fastqbench/benchunit"
)

// A Bar is the timing of one command in one grid cell.
type Bar struct {
	Command string
	// Record is nil if NoData is set.
	Record *benchfmt.Record
	// NoData is set if the cell's table has no record for Command.
	NoData bool
}

// A Cell is one (compression, size) position of a Grid.
type Cell struct {
	Compression benchkey.Compression
	Size        string
	// Name is the benchmark name of the cell's table, or "" if
	// there is none.
	Name string
	// Empty is set if the scenario has no table or an empty one.
	Empty bool
	// Bars has one Bar per command of the Grid, in order.
	Bars []Bar
}

// A Grid arranges the scenarios of one cache state by compression
// (rows) and size (columns).
type Grid struct {
	Cache benchkey.CacheState
	// Commands lists every command of the Collection, sorted.
	Commands []string
	// Compressions and Sizes are the compressions and sizes that
	// appear in the cache state, sorted.
	Compressions []benchkey.Compression
	Sizes        []string

	cells map[benchkey.Key]*Cell
}

// Grid builds the grid of cache state cache.
func (c *Collection) Grid(cache benchkey.CacheState) *Grid {
	g := &Grid{
		Cache:    cache,
		Commands: c.Commands(),
		cells:    make(map[benchkey.Key]*Cell),
	}
	seenComp := make(map[benchkey.Compression]bool)
	seenSize := make(map[string]bool)
	for k, e := range c.entries {
		if k.Cache != cache {
			continue
		}
		if !seenComp[k.Compression] {
			seenComp[k.Compression] = true
			g.Compressions = append(g.Compressions, k.Compression)
		}
		if !seenSize[k.Size] {
			seenSize[k.Size] = true
			g.Sizes = append(g.Sizes, k.Size)
		}
		g.cells[k] = g.newCell(k, e)
	}
	benchkey.SortCompressions(g.Compressions)
	benchkey.SortSizes(g.Sizes)
	return g
}

func (g *Grid) newCell(k benchkey.Key, e *Entry) *Cell {
	cell := &Cell{Compression: k.Compression, Size: k.Size}
	if e != nil {
		cell.Name = e.Name
	}
	cell.Empty = e == nil || e.Table.Len() == 0
	for _, cmd := range g.Commands {
		bar := Bar{Command: cmd, NoData: true}
		if e != nil {
			if rec, ok := e.Table.Record(cmd); ok {
				bar.Record, bar.NoData = rec, false
			}
		}
		cell.Bars = append(cell.Bars, bar)
	}
	return cell
}

// Cell returns the cell at compression comp and size size. A position
// with no scenario yields an Empty cell.
func (g *Grid) Cell(comp benchkey.Compression, size string) *Cell {
	k := benchkey.Key{Size: benchkey.NormalizeSize(size), Cache: g.Cache, Compression: comp}
	if cell, ok := g.cells[k]; ok {
		return cell
	}
	return g.newCell(k, nil)
}

// Empty reports whether no cell of g has data.
func (g *Grid) Empty() bool {
	for _, cell := range g.cells {
		if !cell.Empty {
			return false
		}
	}
	return true
}

// Table returns the data of g with one row per command that has a
// record in a cell. Rows are ordered by compression, size and then
// command. Cells without data contribute no rows.
func (g *Grid) Table() *table.Table {
	cmds, comps, sizes, names := []string{}, []string{}, []string{}, []string{}
	means, stddevs, mins, maxs := []float64{}, []float64{}, []float64{}, []float64{}
	g.each(func(cell *Cell, bar Bar) {
		if bar.NoData {
			return
		}
		r := bar.Record
		cmds = append(cmds, bar.Command)
		means = append(means, r.Mean)
		stddevs = append(stddevs, r.Stddev)
		mins = append(mins, r.Min)
		maxs = append(maxs, r.Max)
		comps = append(comps, cell.Compression.Label())
		sizes = append(sizes, benchkey.SizeDisplay(cell.Size))
		names = append(names, cell.Name)
	})
	return new(table.Builder).
		Add("command", cmds).
		Add("mean", means).
		Add("stddev", stddevs).
		Add("min", mins).
		Add("max", maxs).
		Add("compression", comps).
		Add("size", sizes).
		Add("benchmark_name", names).
		Done()
}

// DisplayTable returns g formatted for display: one row for every
// command in every cell, with "no data" in place of missing timings.
func (g *Grid) DisplayTable() *table.Table {
	comps, sizes, cmds, times := []string{}, []string{}, []string{}, []string{}
	g.each(func(cell *Cell, bar Bar) {
		comps = append(comps, cell.Compression.Label())
		sizes = append(sizes, benchkey.SizeDisplay(cell.Size))
		cmds = append(cmds, bar.Command)
		if bar.NoData {
			times = append(times, "no data")
			return
		}
		r := bar.Record
		times = append(times, fmt.Sprintf("%s ± %s",
			benchunit.Format(r.Mean, "s"), benchunit.Format(r.Stddev, "s")))
	})
	return new(table.Builder).
		Add("compression", comps).
		Add("size", sizes).
		Add("command", cmds).
		Add("time", times).
		Done()
}

// each calls f for every bar of every position of g, in order.
func (g *Grid) each(f func(*Cell, Bar)) {
	for _, comp := range g.Compressions {
		for _, size := range g.Sizes {
			cell := g.Cell(comp, size)
			for _, bar := range cell.Bars {
				f(cell, bar)
			}
		}
	}
}
