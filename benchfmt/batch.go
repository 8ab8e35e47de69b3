// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/biofaster/fastqbench/benchkey"
	"github.com/biofaster/fastqbench/benchunit"
)

// ErrNoBatches is returned by LatestBatch when the results directory
// holds no batch directories.
var ErrNoBatches = errors.New("no benchmark batches")

// LatestBatch returns the path of the most recent batch in
// resultsDir. Batch directories are named so that they sort by
// creation time, such as "benchmark_20240131_120000", so the most
// recent is the lexicographically last.
func LatestBatch(resultsDir string) (string, error) {
	ents, err := os.ReadDir(resultsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", resultsDir, ErrNoBatches)
		}
		return "", err
	}
	latest := ""
	for _, ent := range ents {
		if ent.IsDir() && ent.Name() > latest {
			latest = ent.Name()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("%s: %w", resultsDir, ErrNoBatches)
	}
	return filepath.Join(resultsDir, latest), nil
}

// BatchPaths returns the hyperfine documents of the batch in dir, as
// "name=path" inputs for Files with AllowLabels set. Documents are
// found directly in dir and in its size subdirectories
// (dir/<size>/<cache>_<comp>.json). The result is sorted by path.
func BatchPaths(dir string) ([]string, error) {
	var paths []string
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, ent := range ents {
		p := filepath.Join(dir, ent.Name())
		if !ent.IsDir() {
			if isDocument(ent.Name()) {
				paths = append(paths, p)
			}
			continue
		}
		sub, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, s := range sub {
			if !s.IsDir() && isDocument(s.Name()) {
				paths = append(paths, filepath.Join(p, s.Name()))
			}
		}
	}
	sort.Strings(paths)
	for i, p := range paths {
		paths[i] = BenchmarkName(p) + "=" + p
	}
	return paths, nil
}

func isDocument(name string) bool {
	return strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, ".")
}

// BenchmarkName derives a benchmark name from the path of a hyperfine
// document.
//
// The name is the file's stem. A legacy stem such as "hot_raw" in a
// directory named like a size ("1m/hot_raw.json") is prefixed with
// that size. A stem of the form "really_cold_<size>" names a
// generated raw input and becomes "<size>_really_cold_raw".
func BenchmarkName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	lower := strings.ToLower(stem)

	const rc = "really_cold_"
	if strings.HasPrefix(lower, rc) {
		rest := lower[len(rc):]
		if _, ok := benchunit.ParseSize(rest); ok && !strings.Contains(rest, "_") {
			return rest + "_" + rc + benchkey.Raw.Token()
		}
	}

	k, err := benchkey.Parse(stem)
	if err != nil || k.Size != benchkey.DefaultSize || strings.Count(lower, "_") != 1 {
		return stem
	}
	parent := filepath.Base(filepath.Dir(path))
	if _, ok := benchunit.ParseSize(parent); !ok {
		return stem
	}
	return benchkey.NormalizeSize(parent) + "_" + lower
}
