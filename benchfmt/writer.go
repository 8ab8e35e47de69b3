// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// A Writer writes Tables as hyperfine documents that Loader can read
// back.
type Writer struct {
	w      io.Writer
	indent bool
}

// NewWriter returns a writer that writes hyperfine documents to w.
// If indent is set the output is indented like hyperfine's own
// exports.
func NewWriter(w io.Writer, indent bool) *Writer {
	return &Writer{w: w, indent: indent}
}

// Write writes t to w as a single document. Every record is written
// with a zero exit code for each run time.
func (w *Writer) Write(t *Table) error {
	doc := Document{Results: []RawResult{}}
	if t != nil {
		for _, rec := range t.Records {
			doc.Results = append(doc.Results, rawResult(rec))
		}
	}
	enc := json.NewEncoder(w.w)
	if w.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(&doc)
}

func rawResult(rec *Record) RawResult {
	f := func(x float64) *float64 { return &x }
	codes := make([]*int, len(rec.Times))
	for i := range codes {
		codes[i] = new(int)
	}
	return RawResult{
		Command:   rec.Command,
		Mean:      f(rec.Mean),
		Stddev:    f(rec.Stddev),
		Median:    f(rec.Median),
		Min:       f(rec.Min),
		Max:       f(rec.Max),
		Times:     append([]float64(nil), rec.Times...),
		ExitCodes: codes,
	}
}

// WriteFile writes t to path, creating parent directories as needed.
// An existing file is replaced.
func WriteFile(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o777); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := NewWriter(f, true).Write(t); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
