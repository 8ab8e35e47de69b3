// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/goccy/go-json"
)

// A Document is a hyperfine JSON export.
type Document struct {
	Results []RawResult `json:"results"`
}

// A RawResult is one command entry of a hyperfine document, exactly
// as exported. Statistics hyperfine did not record are nil.
type RawResult struct {
	Command    string            `json:"command"`
	Mean       *float64          `json:"mean"`
	Stddev     *float64          `json:"stddev"`
	Median     *float64          `json:"median"`
	User       *float64          `json:"user,omitempty"`
	System     *float64          `json:"system,omitempty"`
	Min        *float64          `json:"min"`
	Max        *float64          `json:"max"`
	Times      []float64         `json:"times,omitempty"`
	ExitCodes  []*int            `json:"exit_codes,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// failedRuns returns the number of non-zero exit codes in r and the
// number of exit codes. A null exit code means hyperfine could not
// collect one, which counts as a failure.
func (r *RawResult) failedRuns() (failed, total int) {
	for _, code := range r.ExitCodes {
		if code == nil || *code != 0 {
			failed++
		}
	}
	return failed, len(r.ExitCodes)
}

// A Loader converts hyperfine documents into Tables.
//
// The zero Loader is ready to use and logs to slog.Default.
type Loader struct {
	// Logger receives a warning for every document or command that
	// is excluded. If nil, slog.Default is used.
	Logger *slog.Logger
}

func (l *Loader) logger() *slog.Logger {
	if l == nil || l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// Load reads the hyperfine document at path. It never fails: an
// unreadable document yields an empty Table and a logged warning.
func (l *Loader) Load(path string) *Table {
	data, err := os.ReadFile(path)
	if err != nil {
		l.logger().Warn("skipping unreadable results", "file", path, "err", err)
		return new(Table)
	}
	return l.decode(data, path)
}

// Read reads a hyperfine document from r. name identifies the
// document in log messages. Like Load, Read never fails.
func (l *Loader) Read(r io.Reader, name string) *Table {
	data, err := io.ReadAll(r)
	if err != nil {
		l.logger().Warn("skipping unreadable results", "file", name, "err", err)
		return new(Table)
	}
	return l.decode(data, name)
}

func (l *Loader) decode(data []byte, name string) *Table {
	log := l.logger()
	if len(bytes.TrimSpace(data)) == 0 {
		log.Warn("skipping empty results file", "file", name)
		return new(Table)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn("skipping invalid results file", "file", name, "err", err)
		return new(Table)
	}
	t := l.Convert(&doc, name)
	if t.Len() == 0 {
		log.Warn("no successful results", "file", name)
	}
	return t
}

// Convert validates the entries of doc and returns the resulting
// Table. Entries with a failed run or no usable mean are dropped. An
// entry with no command is named "unknown".
func (l *Loader) Convert(doc *Document, name string) *Table {
	log := l.logger()
	t := new(Table)
	for i := range doc.Results {
		raw := &doc.Results[i]
		cmd := raw.Command
		if cmd == "" {
			cmd = "unknown"
		}
		if failed, total := raw.failedRuns(); failed > 0 {
			log.Warn("excluding failed command", "file", name, "command", cmd,
				"failed", fmt.Sprintf("%d/%d runs", failed, total))
			continue
		}
		if raw.Mean == nil || !finite(*raw.Mean) {
			log.Warn("excluding command with no timing data", "file", name, "command", cmd)
			continue
		}
		rec := newRecord(raw)
		rec.Command = cmd
		t.Records = append(t.Records, rec)
	}
	return t
}

// newRecord fills in the statistics missing from raw. raw.Mean must
// be non-nil.
func newRecord(raw *RawResult) *Record {
	mean := *raw.Mean
	or := func(p *float64, def float64) float64 {
		if p == nil || !finite(*p) {
			return def
		}
		return *p
	}
	rec := &Record{
		Command: raw.Command,
		Mean:    mean,
		Stddev:  or(raw.Stddev, 0),
		Median:  or(raw.Median, mean),
		Min:     or(raw.Min, mean),
		Max:     or(raw.Max, mean),
		Times:   append([]float64(nil), raw.Times...),
	}
	if len(rec.Times) == 0 {
		rec.Times = []float64{mean}
	}
	return rec
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

var defaultLoader Loader

// LoadFile loads the hyperfine document at path, logging to
// slog.Default.
func LoadFile(path string) *Table {
	return defaultLoader.Load(path)
}
