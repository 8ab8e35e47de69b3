// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchgrid organizes loaded benchmark tables by scenario and
// derives the views reported over them: a grid of timings per
// compression and size, the scaling of each command with input size,
// and each command's throughput.
//
// Views never invent data. A scenario whose table is missing or
// empty is reported as having no data, never as a zero time.
package benchgrid

import (
	"log/slog"
	"sort"

	"github.com/biofaster/fastqbench/benchfmt"
	"github.com/biofaster/fastqbench/benchkey"
)

// An Entry is the table loaded for one benchmark scenario.
type Entry struct {
	// Name is the benchmark name the table was loaded under.
	Name  string
	Key   benchkey.Key
	Table *benchfmt.Table
}

// A Collection holds one table per benchmark scenario.
type Collection struct {
	// Logger receives a warning for every table that is skipped.
	// If nil, slog.Default is used.
	Logger *slog.Logger

	entries map[benchkey.Key]*Entry
}

// NewCollection returns an empty Collection that logs to logger.
func NewCollection(logger *slog.Logger) *Collection {
	return &Collection{Logger: logger}
}

func (c *Collection) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Add adds the table t under benchmark name. If name is not a valid
// benchmark name, Add logs a warning and reports false. If the
// collection already holds a table for the same scenario, t replaces
// it.
func (c *Collection) Add(name string, t *benchfmt.Table) (benchkey.Key, bool) {
	k, err := benchkey.Parse(name)
	if err != nil {
		c.logger().Warn("skipping results with unrecognized name", "name", name, "err", err)
		return benchkey.Key{}, false
	}
	c.AddKey(name, k, t)
	return k, true
}

// AddKey adds the table t for scenario k, replacing any table
// already held for k. A nil t is stored as an empty table.
func (c *Collection) AddKey(name string, k benchkey.Key, t *benchfmt.Table) {
	if c.entries == nil {
		c.entries = make(map[benchkey.Key]*Entry)
	}
	if t == nil {
		t = new(benchfmt.Table)
	}
	if old, ok := c.entries[k]; ok {
		c.logger().Debug("replacing results", "key", k.String(), "old", old.Name, "new", name)
	}
	c.entries[k] = &Entry{Name: name, Key: k, Table: t}
}

// AddFiles adds every document read by f. It returns the first error
// reported by f.
func (c *Collection) AddFiles(f *benchfmt.Files) error {
	for f.Scan() {
		res := f.Result()
		c.Add(res.Name, res.Table)
	}
	return f.Err()
}

// Len returns the number of scenarios in c.
func (c *Collection) Len() int {
	return len(c.entries)
}

// Entry returns the entry for scenario k.
func (c *Collection) Entry(k benchkey.Key) (*Entry, bool) {
	e, ok := c.entries[k]
	return e, ok
}

// Keys returns the scenarios in c, sorted by benchkey.Key.Less.
func (c *Collection) Keys() []benchkey.Key {
	keys := make([]benchkey.Key, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	benchkey.SortKeys(keys)
	return keys
}

// Entries returns the entries for cache state cache and compression
// comp, sorted by size.
func (c *Collection) Entries(cache benchkey.CacheState, comp benchkey.Compression) []*Entry {
	var out []*Entry
	for k, e := range c.entries {
		if k.Cache == cache && k.Compression == comp {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return benchkey.CompareSize(out[i].Key.Size, out[j].Key.Size) < 0
	})
	return out
}

// Caches returns the cache states present in c, in order.
func (c *Collection) Caches() []benchkey.CacheState {
	seen := make(map[benchkey.CacheState]bool)
	var out []benchkey.CacheState
	for k := range c.entries {
		if !seen[k.Cache] {
			seen[k.Cache] = true
			out = append(out, k.Cache)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Compressions returns the compressions present for cache state
// cache, in order.
func (c *Collection) Compressions(cache benchkey.CacheState) []benchkey.Compression {
	seen := make(map[benchkey.Compression]bool)
	var out []benchkey.Compression
	for k := range c.entries {
		if k.Cache == cache && !seen[k.Compression] {
			seen[k.Compression] = true
			out = append(out, k.Compression)
		}
	}
	benchkey.SortCompressions(out)
	return out
}

// Commands returns every command observed in any table of c,
// sorted. Views list every one of these commands so that a command
// keeps its position, and its color, across views.
func (c *Collection) Commands() []string {
	seen := make(map[string]bool)
	var cmds []string
	for _, e := range c.entries {
		for _, rec := range e.Table.Records {
			if !seen[rec.Command] {
				seen[rec.Command] = true
				cmds = append(cmds, rec.Command)
			}
		}
	}
	sort.Strings(cmds)
	return cmds
}
