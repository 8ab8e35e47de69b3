// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"reflect"

	"github.com/aclements/go-gg/table"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const nothingToDisplay = "nothing to display"

// A report collects the tables of one command and writes them in the
// selected output format.
type report struct {
	w      io.Writer
	format string

	sections []section
}

type section struct {
	Title string           `json:"title" yaml:"title"`
	Rows  []map[string]any `json:"rows" yaml:"rows"`

	tab     *table.Table
	formats []string
}

func (a *app) newReport() (*report, error) {
	format := a.v.GetString("format")
	switch format {
	case "text", "csv", "json", "yaml":
	default:
		return nil, fmt.Errorf("--format: unknown format %q", format)
	}
	return &report{w: a.out, format: format}, nil
}

// add appends t under title. formats are fmt verbs for the columns of
// t in text output, as for table.Fprint. Empty tables are dropped.
func (r *report) add(title string, t *table.Table, formats ...string) {
	if t.Len() == 0 {
		return
	}
	r.sections = append(r.sections, section{Title: title, tab: t, formats: formats})
}

// flush writes the collected sections. With no sections, text and CSV
// output is a single "nothing to display" line.
func (r *report) flush() error {
	switch r.format {
	case "json", "yaml":
		for i := range r.sections {
			r.sections[i].Rows = rows(r.sections[i].tab)
		}
		out := r.sections
		if out == nil {
			out = []section{}
		}
		if r.format == "yaml" {
			enc := yaml.NewEncoder(r.w)
			if err := enc.Encode(out); err != nil {
				return err
			}
			return enc.Close()
		}
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "\t")
		return enc.Encode(out)
	}

	if len(r.sections) == 0 {
		_, err := fmt.Fprintln(r.w, nothingToDisplay)
		return err
	}
	for i, s := range r.sections {
		if i > 0 {
			fmt.Fprintln(r.w)
		}
		var err error
		if r.format == "csv" {
			err = writeCSV(r.w, s.Title, s.tab)
		} else {
			fmt.Fprintf(r.w, "%s\n\n", s.Title)
			err = table.Fprint(r.w, s.tab, s.formats...)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// cells returns column col of t formatted with %v.
func cells(t *table.Table, col string) []string {
	seq := reflect.ValueOf(t.Column(col))
	out := make([]string, seq.Len())
	for i := range out {
		out[i] = fmt.Sprint(seq.Index(i).Interface())
	}
	return out
}

// writeCSV writes t with a leading view column holding title.
func writeCSV(w io.Writer, title string, t *table.Table) error {
	cw := csv.NewWriter(w)
	cols := t.Columns()
	cw.Write(append([]string{"view"}, cols...))
	data := make([][]string, len(cols))
	for i, col := range cols {
		data[i] = cells(t, col)
	}
	for row := 0; row < t.Len(); row++ {
		rec := []string{title}
		for i := range cols {
			rec = append(rec, data[i][row])
		}
		cw.Write(rec)
	}
	cw.Flush()
	return cw.Error()
}

// rows returns t as one map per row, keyed by column.
func rows(t *table.Table) []map[string]any {
	out := make([]map[string]any, t.Len())
	for i := range out {
		out[i] = make(map[string]any, len(t.Columns()))
	}
	for _, col := range t.Columns() {
		seq := reflect.ValueOf(t.Column(col))
		for i := range out {
			out[i][col] = seq.Index(i).Interface()
		}
	}
	return out
}
