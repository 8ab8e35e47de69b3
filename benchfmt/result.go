// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchfmt reads hyperfine timing documents into metrics
// tables.
//
// A hyperfine document (as written by "hyperfine --export-json")
// holds one entry per benchmarked command. The Loader validates each
// entry, drops commands that failed or have no mean time, and fills
// in the statistics hyperfine may omit. Loading never fails: a
// missing or malformed document is reported through the Loader's
// logger and yields an empty Table.
//
// This package also discovers result documents in a results
// directory, which holds one subdirectory per benchmark batch.
package benchfmt

import "sort"

// A Record is the validated timing of one command in one benchmark
// scenario. All times are in seconds.
type Record struct {
	Command string
	Mean    float64
	Stddev  float64
	Median  float64
	Min     float64
	Max     float64
	// Times holds the individual run times. It is never empty.
	Times []float64
}

// A Table is the set of Records loaded from one document, in
// document order. A Table with no Records is valid and means the
// scenario has no data.
type Table struct {
	Records []*Record
}

// Len returns the number of records in t. It is safe to call on a
// nil Table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Commands returns the distinct command names in t, sorted.
func (t *Table) Commands() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var cmds []string
	for _, rec := range t.Records {
		if !seen[rec.Command] {
			seen[rec.Command] = true
			cmds = append(cmds, rec.Command)
		}
	}
	sort.Strings(cmds)
	return cmds
}

// Record returns the record for command. If command appears more than
// once, the last record wins.
func (t *Table) Record(command string) (*Record, bool) {
	if t == nil {
		return nil, false
	}
	for i := len(t.Records) - 1; i >= 0; i-- {
		if t.Records[i].Command == command {
			return t.Records[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := new(Table)
	if t == nil {
		return out
	}
	for _, rec := range t.Records {
		r := *rec
		r.Times = append([]float64(nil), rec.Times...)
		out.Records = append(out.Records, &r)
	}
	return out
}
