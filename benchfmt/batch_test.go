// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBenchmarkName(t *testing.T) {
	check := func(path, want string) {
		t.Helper()
		if got := BenchmarkName(filepath.FromSlash(path)); got != want {
			t.Errorf("BenchmarkName(%q) = %q, want %q", path, got, want)
		}
	}
	check("results/b1/1m_hot_raw.json", "1m_hot_raw")
	check("results/b1/1m/hot_raw.json", "1m_hot_raw")
	check("results/b1/0.1M/cold_bgz.json", "0.1m_cold_bgz")
	check("results/b1/1m/10m_hot_gz.json", "10m_hot_gz")
	check("results/b1/hot_raw.json", "hot_raw")
	check("hot_raw.json", "hot_raw")
	check("results/b1/really_cold_10mb.json", "10mb_really_cold_raw")
	check("results/b1/really_cold_4GB.json", "4gb_really_cold_raw")
	check("results/b1/10mb_really_cold_gz.json", "10mb_really_cold_gz")
	check("results/b1/really_cold_raw.json", "really_cold_raw")
	check("results/b1/1m/really_cold_gz.json", "really_cold_gz")
	check("results/b1/notes/hot_raw.json", "hot_raw")
	check("results/b1/summary.json", "summary")
}

func TestLatestBatch(t *testing.T) {
	dir := t.TempDir()
	if _, err := LatestBatch(dir); !errors.Is(err, ErrNoBatches) {
		t.Errorf("LatestBatch(empty) error = %v, want ErrNoBatches", err)
	}
	if _, err := LatestBatch(filepath.Join(dir, "missing")); !errors.Is(err, ErrNoBatches) {
		t.Errorf("LatestBatch(missing) error = %v, want ErrNoBatches", err)
	}

	for _, b := range []string{"benchmark_20240101_000000", "benchmark_20240301_000000", "benchmark_20240201_000000"} {
		if err := os.Mkdir(filepath.Join(dir, b), 0o777); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "zzz.txt"), nil, 0o666); err != nil {
		t.Fatal(err)
	}
	got, err := LatestBatch(dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "benchmark_20240301_000000"); got != want {
		t.Errorf("LatestBatch = %q, want %q", got, want)
	}
}

func TestBatchPaths(t *testing.T) {
	dir := t.TempDir()
	writeDocs(t, dir,
		"really_cold_10mb.json",
		"1m/hot_raw.json",
		"1m/cold_gz.json",
		"0.1m/hot_bgz.json",
		"1m/deeper/hot_raw.json",
	)
	if err := os.WriteFile(filepath.Join(dir, "1m", "notes.txt"), nil, 0o666); err != nil {
		t.Fatal(err)
	}

	got, err := BatchPaths(dir)
	if err != nil {
		t.Fatal(err)
	}
	p := func(name string) string { return filepath.Join(dir, filepath.FromSlash(name)) }
	want := []string{
		"0.1m_hot_bgz=" + p("0.1m/hot_bgz.json"),
		"1m_cold_gz=" + p("1m/cold_gz.json"),
		"1m_hot_raw=" + p("1m/hot_raw.json"),
		"10mb_really_cold_raw=" + p("really_cold_10mb.json"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BatchPaths mismatch (-want +got):\n%s", diff)
	}

	// The paths feed straight into Files.
	f := &Files{Paths: got, AllowLabels: true}
	n := 0
	for f.Scan() {
		if f.Result().Table.Len() != 1 {
			t.Errorf("%s: got %d records", f.Result().Name, f.Result().Table.Len())
		}
		n++
	}
	if f.Err() != nil || n != len(want) {
		t.Errorf("Files read %d documents, err %v", n, f.Err())
	}
}
