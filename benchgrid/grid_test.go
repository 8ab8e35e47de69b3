// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchgrid

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/biofaster/fastqbench/benchfmt"
	"github.com/biofaster/fastqbench/benchkey"
	"github.com/google/go-cmp/cmp"
)

// rec returns a record with the given mean and stddev.
func rec(cmd string, mean, stddev float64, times ...float64) *benchfmt.Record {
	if len(times) == 0 {
		times = []float64{mean}
	}
	return &benchfmt.Record{Command: cmd, Mean: mean, Stddev: stddev, Median: mean, Min: mean, Max: mean, Times: times}
}

func tab(recs ...*benchfmt.Record) *benchfmt.Table {
	return &benchfmt.Table{Records: recs}
}

func testCollection(t *testing.T) (*Collection, *bytes.Buffer) {
	t.Helper()
	var log bytes.Buffer
	c := NewCollection(slog.New(slog.NewTextHandler(&log, &slog.HandlerOptions{Level: slog.LevelDebug})))
	add := func(name string, tb *benchfmt.Table) {
		t.Helper()
		if _, ok := c.Add(name, tb); !ok {
			t.Fatalf("Add(%q) failed", name)
		}
	}
	add("0.1m_hot_raw", tab(rec("a", 1, 0.1), rec("b", 2, 0.2)))
	add("1m_hot_raw", tab(rec("a", 8, 0.5), rec("b", 20, 1)))
	add("10m_hot_raw", tab(rec("a", 70, 2)))
	add("1m_hot_gz", tab(rec("a", 12, 0.5), rec("c", 30, 1)))
	add("10m_hot_gz", tab())
	add("hot_raw", tab(rec("a", 3, 0)))
	add("10mb_really_cold_raw", tab(rec("b", 4, 0.4)))
	return c, &log
}

func TestCollection(t *testing.T) {
	c, log := testCollection(t)

	if _, ok := c.Add("1m_warm_raw", tab(rec("z", 1, 0))); ok {
		t.Errorf("Add of an invalid name succeeded")
	}
	if !strings.Contains(log.String(), "1m_warm_raw") {
		t.Errorf("invalid name not logged: %q", log.String())
	}
	if c.Len() != 7 {
		t.Errorf("Len() = %d, want 7", c.Len())
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, c.Commands()); diff != "" {
		t.Errorf("Commands mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]benchkey.CacheState{benchkey.Hot, benchkey.ReallyCold}, c.Caches()); diff != "" {
		t.Errorf("Caches mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]benchkey.Compression{benchkey.Raw, benchkey.Gzip}, c.Compressions(benchkey.Hot)); diff != "" {
		t.Errorf("Compressions mismatch (-want +got):\n%s", diff)
	}

	var names []string
	for _, e := range c.Entries(benchkey.Hot, benchkey.Raw) {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"hot_raw", "0.1m_hot_raw", "1m_hot_raw", "10m_hot_raw"}, names); diff != "" {
		t.Errorf("Entries mismatch (-want +got):\n%s", diff)
	}

	// The latest table for a scenario wins.
	k, _ := c.Add("1M_HOT_RAW", tab(rec("a", 9, 0)))
	e, _ := c.Entry(k)
	if e.Name != "1M_HOT_RAW" || e.Table.Records[0].Mean != 9 || c.Len() != 7 {
		t.Errorf("re-adding a scenario did not replace it: %+v", e)
	}

	// A nil table is stored as empty.
	c.AddKey("x", benchkey.Key{Size: "5m", Cache: benchkey.Cold, Compression: benchkey.Raw}, nil)
	if e, _ := c.Entry(benchkey.Key{Size: "5m", Cache: benchkey.Cold, Compression: benchkey.Raw}); e.Table == nil {
		t.Errorf("AddKey stored a nil table")
	}
}

func TestGrid(t *testing.T) {
	c, _ := testCollection(t)
	g := c.Grid(benchkey.Hot)

	if diff := cmp.Diff([]benchkey.Compression{benchkey.Raw, benchkey.Gzip}, g.Compressions); diff != "" {
		t.Errorf("Compressions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"default", "0.1m", "1m", "10m"}, g.Sizes); diff != "" {
		t.Errorf("Sizes mismatch (-want +got):\n%s", diff)
	}
	if g.Empty() {
		t.Errorf("hot grid is empty")
	}

	// Every cell lists every command.
	for _, comp := range g.Compressions {
		for _, size := range g.Sizes {
			cell := g.Cell(comp, size)
			if len(cell.Bars) != 3 {
				t.Errorf("cell %v/%s has %d bars, want 3", comp, size, len(cell.Bars))
			}
			for _, bar := range cell.Bars {
				if bar.NoData != (bar.Record == nil) {
					t.Errorf("cell %v/%s bar %s: NoData %v with record %v", comp, size, bar.Command, bar.NoData, bar.Record)
				}
			}
		}
	}

	cell := g.Cell(benchkey.Raw, "1m")
	if cell.Empty || cell.Name != "1m_hot_raw" {
		t.Errorf("cell raw/1m = %+v", cell)
	}
	if !cell.Bars[2].NoData || cell.Bars[2].Command != "c" {
		t.Errorf("raw/1m bar for c = %+v, want no data", cell.Bars[2])
	}
	if cell.Bars[0].Record.Mean != 8 {
		t.Errorf("raw/1m bar for a = %+v", cell.Bars[0].Record)
	}

	// An empty table and a missing scenario are both empty cells.
	for _, cell := range []*Cell{g.Cell(benchkey.Gzip, "10m"), g.Cell(benchkey.Gzip, "0.1m"), g.Cell(benchkey.Bgzip, "1m")} {
		if !cell.Empty {
			t.Errorf("cell %v/%s not empty", cell.Compression, cell.Size)
		}
		for _, bar := range cell.Bars {
			if !bar.NoData {
				t.Errorf("empty cell %v/%s has data for %s", cell.Compression, cell.Size, bar.Command)
			}
		}
	}

	// The data table has only real data.
	tb := g.Table()
	want := []string{"command", "mean", "stddev", "min", "max", "compression", "size", "benchmark_name"}
	if diff := cmp.Diff(want, tb.Columns()); diff != "" {
		t.Errorf("Table columns mismatch (-want +got):\n%s", diff)
	}
	if tb.Len() != 8 {
		t.Errorf("Table has %d rows, want 8", tb.Len())
	}
	for _, m := range tb.MustColumn("mean").([]float64) {
		if m == 0 {
			t.Errorf("Table has a zero mean")
		}
	}
	names := tb.MustColumn("benchmark_name").([]string)
	if names[0] != "hot_raw" || names[len(names)-1] != "1m_hot_gz" {
		t.Errorf("Table rows out of order: %v", names)
	}

	// Every position appears in the display table.
	dt := g.DisplayTable()
	if dt.Len() != 2*4*3 {
		t.Errorf("DisplayTable has %d rows, want %d", dt.Len(), 2*4*3)
	}
	var buf bytes.Buffer
	if err := table.Fprint(&buf, dt); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no data") || !strings.Contains(buf.String(), "Gzipped") {
		t.Errorf("DisplayTable output:\n%s", buf.String())
	}
}

func TestGridEmpty(t *testing.T) {
	c := NewCollection(nil)
	c.Add("1m_cold_raw", tab())
	for _, g := range []*Grid{c.Grid(benchkey.Cold), c.Grid(benchkey.Hot)} {
		if !g.Empty() {
			t.Errorf("grid %v not empty", g.Cache)
		}
		tb := g.Table()
		if tb.Len() != 0 || len(tb.Columns()) != 8 {
			t.Errorf("empty grid table has %d rows and columns %v", tb.Len(), tb.Columns())
		}
	}
}
