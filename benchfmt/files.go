// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"fmt"
	"strings"
)

// A Named is a Table together with the benchmark name it was loaded
// under.
type Named struct {
	// Name is the benchmark name, such as "1m_hot_raw".
	Name string
	// Path is the file the table was loaded from.
	Path  string
	Table *Table
}

// A Files loads a sequence of hyperfine documents.
//
// Each document is named by BenchmarkName of its path. If
// AllowLabels is true, then entries in Paths may be of the form
// name=path, and the name part is used instead.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// AllowLabels indicates that custom names are allowed in
	// Paths.
	//
	// This is generally the desired behavior when the file list
	// comes from command-line arguments.
	AllowLabels bool

	// Loader loads each document. If nil, a zero Loader is used.
	Loader *Loader

	// inputs is the sequence of remaining inputs, or nil if this
	// Files has not started yet.
	inputs []input

	cur Named
	err error
}

type input struct {
	path  string
	label string
}

// init does first-use initialization of f.
func (f *Files) init() {
	f.inputs = []input{}
	for _, path := range f.Paths {
		label := ""
		if i := strings.Index(path, "="); f.AllowLabels && i >= 0 {
			label, path = path[:i], path[i+1:]
			if label == "" || path == "" {
				f.err = fmt.Errorf("malformed input %q: want name=path", label+"="+path)
				return
			}
		} else {
			label = BenchmarkName(path)
		}
		f.inputs = append(f.inputs, input{path, label})
	}
}

// Scan loads the next document in the sequence and reports whether
// there was one. The caller should use the Result method to get the
// table. Documents that cannot be read produce an empty table, as
// with Loader.Load. Scan returns false at the end of the sequence or
// if Paths is malformed; the caller should use Err to distinguish
// these.
func (f *Files) Scan() bool {
	if f.inputs == nil {
		f.init()
	}
	if f.err != nil || len(f.inputs) == 0 {
		return false
	}
	inp := f.inputs[0]
	f.inputs = f.inputs[1:]
	f.cur = Named{Name: inp.label, Path: inp.path, Table: f.Loader.Load(inp.path)}
	return true
}

// Result returns the table that was just loaded by Scan. The result
// is valid until the next call to Scan.
func (f *Files) Result() *Named {
	return &f.cur
}

// Err returns the error that stopped Scan, if any.
func (f *Files) Err() error {
	return f.err
}
