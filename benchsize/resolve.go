// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchsize resolves the size in bytes of the input file
// behind a benchmark scenario.
package benchsize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/biofaster/fastqbench/benchkey"
)

// A Status says how a Resolution was obtained.
type Status int

const (
	// NotFound means no size is known. Its Bytes is meaningless.
	NotFound Status = iota
	// Synthetic means the size is the fixed size of a generated
	// input.
	Synthetic
	// Found means the size was read from a fixture file.
	Found
)

func (s Status) String() string {
	switch s {
	case NotFound:
		return "not found"
	case Synthetic:
		return "synthetic"
	case Found:
		return "found"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// A Resolution is the outcome of resolving the input size of a key.
type Resolution struct {
	Bytes  int64
	Status Status
	// Path is the fixture file, if Status is Found.
	Path string
}

// Known reports whether r carries a size.
func (r Resolution) Known() bool {
	return r.Status != NotFound
}

// DefaultSynthetic maps the sizes of generated really-cold inputs to
// their lengths in bytes.
var DefaultSynthetic = map[string]int64{
	"10mb":  10 << 20,
	"100mb": 100 << 20,
	"1gb":   1 << 30,
	"4gb":   4 << 30,
}

// A Resolver finds input sizes. The zero Resolver knows no synthetic
// sizes and looks for fixtures in the current directory.
type Resolver struct {
	// DataDir holds the fixture files, named by FixtureName.
	DataDir string
	// Synthetic maps normalized size labels of really-cold keys to
	// fixed byte counts.
	Synthetic map[string]int64
}

// NewResolver returns a Resolver for the fixtures in dataDir with the
// DefaultSynthetic sizes.
func NewResolver(dataDir string) *Resolver {
	syn := make(map[string]int64, len(DefaultSynthetic))
	for k, v := range DefaultSynthetic {
		syn[k] = v
	}
	return &Resolver{DataDir: dataDir, Synthetic: syn}
}

// Suffix returns the fixture file suffix for c.
func Suffix(c benchkey.Compression) string {
	switch c {
	case benchkey.Gzip:
		return ".fastq.gz"
	case benchkey.Bgzip:
		return ".fastq_bgzipped.gz"
	}
	return ".fastq"
}

// FixtureName returns the file name of k's input fixture, such as
// "1m.fastq.gz".
func FixtureName(k benchkey.Key) string {
	return benchkey.NormalizeSize(k.Size) + Suffix(k.Compression)
}

// Resolve returns the input size of k. A really-cold key with a
// synthetic size resolves to that size. Otherwise the fixture in
// DataDir is measured. Failing both, the Resolution is NotFound.
func (r *Resolver) Resolve(k benchkey.Key) Resolution {
	size := benchkey.NormalizeSize(k.Size)
	if k.Cache == benchkey.ReallyCold {
		if n, ok := r.Synthetic[size]; ok {
			return Resolution{Bytes: n, Status: Synthetic}
		}
	}
	path := filepath.Join(r.DataDir, FixtureName(k))
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return Resolution{}
	}
	return Resolution{Bytes: fi.Size(), Status: Found, Path: path}
}

// ResolveAll resolves every key and returns the known sizes.
func (r *Resolver) ResolveAll(keys []benchkey.Key) map[benchkey.Key]int64 {
	m := make(map[benchkey.Key]int64)
	for _, k := range keys {
		if res := r.Resolve(k); res.Known() {
			m[k] = res.Bytes
		}
	}
	return m
}
