// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/biofaster/fastqbench/benchgrid"
	"github.com/biofaster/fastqbench/benchkey"
	"github.com/biofaster/fastqbench/storage/db"
	"github.com/goccy/go-json"
)

type batchJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Created   time.Time `json:"created"`
	Scenarios int       `json:"scenarios"`
	Runs      int       `json:"runs"`
}

// batches lists the stored batches, most recent first.
func (a *App) batches(w http.ResponseWriter, r *http.Request) {
	infos, err := a.DB.ListBatches(r.Context())
	if err != nil {
		a.httpError(w, r, http.StatusInternalServerError, err)
		return
	}
	out := make([]batchJSON, 0, len(infos))
	for _, bi := range infos {
		out = append(out, batchJSON(bi))
	}
	a.writeJSON(w, out)
}

// A gridRow is one command of one grid cell. Mean and the other
// statistics are omitted when NoData is set.
type gridRow struct {
	Compression string  `json:"compression"`
	Size        string  `json:"size"`
	Benchmark   string  `json:"benchmark,omitempty"`
	Command     string  `json:"command"`
	NoData      bool    `json:"no_data,omitempty"`
	Mean        float64 `json:"mean,omitempty"`
	Stddev      float64 `json:"stddev,omitempty"`
	Min         float64 `json:"min,omitempty"`
	Max         float64 `json:"max,omitempty"`
}

type gridJSON struct {
	Cache string    `json:"cache"`
	Rows  []gridRow `json:"rows"`
}

type batchGridJSON struct {
	ID       string     `json:"id"`
	Commands []string   `json:"commands"`
	Grids    []gridJSON `json:"grids"`
}

// batch serves the grids of one stored batch. The ID may be "latest".
func (a *App) batch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, err := a.DB.LoadBatch(r.Context(), id)
	if errors.Is(err, db.ErrNoSuchBatch) {
		a.httpError(w, r, http.StatusNotFound, err)
		return
	} else if err != nil {
		a.httpError(w, r, http.StatusInternalServerError, err)
		return
	}
	out := batchGridJSON{ID: id, Commands: c.Commands(), Grids: []gridJSON{}}
	for _, cache := range c.Caches() {
		g := c.Grid(cache)
		if g.Empty() {
			continue
		}
		out.Grids = append(out.Grids, gridJSON{Cache: cache.String(), Rows: gridRows(g)})
	}
	a.writeJSON(w, out)
}

func gridRows(g *benchgrid.Grid) []gridRow {
	rows := []gridRow{}
	for _, comp := range g.Compressions {
		for _, size := range g.Sizes {
			cell := g.Cell(comp, size)
			for _, bar := range cell.Bars {
				row := gridRow{
					Compression: comp.Token(),
					Size:        benchkey.SizeDisplay(size),
					Benchmark:   cell.Name,
					Command:     bar.Command,
					NoData:      bar.NoData,
				}
				if !bar.NoData {
					row.Mean, row.Stddev = bar.Record.Mean, bar.Record.Stddev
					row.Min, row.Max = bar.Record.Min, bar.Record.Max
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func (a *App) deleteBatch(w http.ResponseWriter, r *http.Request) {
	err := a.DB.DeleteBatch(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNoSuchBatch) {
		a.httpError(w, r, http.StatusNotFound, err)
		return
	} else if err != nil {
		a.httpError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger().Error("writing response", "err", err)
	}
}
