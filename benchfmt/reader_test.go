// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testLoader() (*Loader, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &Loader{Logger: slog.New(h)}, &buf
}

func TestRead(t *testing.T) {
	check := func(doc string, want []*Record, wantLog ...string) {
		t.Helper()
		l, log := testLoader()
		got := l.Read(strings.NewReader(doc), "test.json")
		if diff := cmp.Diff(want, got.Records); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
		for _, w := range wantLog {
			if !strings.Contains(log.String(), w) {
				t.Errorf("log %q does not contain %q", log.String(), w)
			}
		}
		if len(wantLog) == 0 && log.Len() != 0 {
			t.Errorf("unexpected log output %q", log.String())
		}
	}

	// Complete entries pass through.
	check(`{"results": [{"command": "a", "mean": 1.5, "stddev": 0.1, "median": 1.4,
		"min": 1.2, "max": 1.9, "times": [1.2, 1.4, 1.9], "exit_codes": [0, 0, 0]}]}`,
		[]*Record{{"a", 1.5, 0.1, 1.4, 1.2, 1.9, []float64{1.2, 1.4, 1.9}}})

	// Missing statistics are filled in from the mean.
	check(`{"results": [{"command": "a", "mean": 2}]}`,
		[]*Record{{"a", 2, 0, 2, 2, 2, []float64{2}}})
	check(`{"results": [{"command": "a", "mean": 2, "stddev": null, "times": []}]}`,
		[]*Record{{"a", 2, 0, 2, 2, 2, []float64{2}}})

	// Failed commands are dropped.
	check(`{"results": [
		{"command": "ok", "mean": 1, "exit_codes": [0, 0]},
		{"command": "bad", "mean": 1, "exit_codes": [0, 1, 2]}]}`,
		[]*Record{{"ok", 1, 0, 1, 1, 1, []float64{1}}},
		"excluding failed command", "bad", "2/3 runs")

	// Commands with no mean are dropped.
	check(`{"results": [{"command": "a", "mean": null}, {"command": "b"}, {"command": "c", "mean": 3}]}`,
		[]*Record{{"c", 3, 0, 3, 3, 3, []float64{3}}},
		"no timing data", "command=a", "command=b")

	// Unnamed commands get a name.
	check(`{"results": [{"mean": 2}, {"command": "", "mean": 1, "exit_codes": [0]}]}`,
		[]*Record{{"unknown", 2, 0, 2, 2, 2, []float64{2}}, {"unknown", 1, 0, 1, 1, 1, []float64{1}}})

	// Negative timings are kept.
	check(`{"results": [{"command": "a", "mean": -1}]}`,
		[]*Record{{"a", -1, 0, -1, -1, -1, []float64{-1}}})

	// Broken documents are empty.
	check(``, nil, "empty results file")
	check(`{"results": [`, nil, "invalid results file")
	check(`not json`, nil, "invalid results file")
	check(`{"results": []}`, nil, "no successful results")
	check(`{"results": [{"command": "a", "exit_codes": [1]}]}`, nil,
		"1/1 runs", "no successful results")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1m_hot_raw.json")
	if err := os.WriteFile(path, []byte(`{"results": [{"command": "x", "mean": 0.5}]}`), 0o666); err != nil {
		t.Fatal(err)
	}
	l, _ := testLoader()
	if got := l.Load(path); got.Len() != 1 || got.Records[0].Command != "x" {
		t.Errorf("Load(%s) = %+v", path, got.Records)
	}

	l, log := testLoader()
	got := l.Load(filepath.Join(dir, "missing.json"))
	if got == nil || got.Len() != 0 {
		t.Errorf("Load(missing) = %+v, want empty table", got)
	}
	if !strings.Contains(log.String(), "unreadable") {
		t.Errorf("Load(missing) logged %q", log.String())
	}

	// A nil Loader uses the default logger.
	var nl *Loader
	if got := nl.Load(path); got.Len() != 1 {
		t.Errorf("nil Loader loaded %d records", got.Len())
	}
}

func TestTable(t *testing.T) {
	var nilTable *Table
	if nilTable.Len() != 0 || nilTable.Commands() != nil {
		t.Errorf("nil Table is not empty")
	}
	if _, ok := nilTable.Record("a"); ok {
		t.Errorf("nil Table has a record")
	}

	tab := &Table{Records: []*Record{
		{Command: "b", Mean: 1},
		{Command: "a", Mean: 2},
		{Command: "b", Mean: 3},
	}}
	if diff := cmp.Diff([]string{"a", "b"}, tab.Commands()); diff != "" {
		t.Errorf("Commands mismatch (-want +got):\n%s", diff)
	}
	if rec, ok := tab.Record("b"); !ok || rec.Mean != 3 {
		t.Errorf("Record(b) = %+v, %v, want the last b", rec, ok)
	}
	c := tab.Clone()
	c.Records[0].Mean = 99
	if tab.Records[0].Mean != 1 {
		t.Errorf("Clone shares records with the original")
	}
}
