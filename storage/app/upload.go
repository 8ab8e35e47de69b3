// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/biofaster/fastqbench/benchfmt"
	"github.com/biofaster/fastqbench/benchgrid"
	"github.com/goccy/go-json"
)

// errNoResults is returned for an upload with no recognized
// benchmark documents.
var errNoResults = errors.New("upload contains no recognized benchmark results")

// upload is the handler for the /upload endpoint. It processes
// hyperfine documents in a multipart/form-data POST request and stores
// them as a new batch.
//
// Each "file" part is one document, named by benchfmt.BenchmarkName
// of its file name. An optional "name" field before the files names
// the batch.
func (a *App) upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "/upload must be called as a POST request", http.StatusMethodNotAllowed)
		return
	}

	// We use r.MultipartReader instead of r.ParseForm to avoid
	// storing uploaded data in memory.
	mr, err := r.MultipartReader()
	if err != nil {
		a.httpError(w, r, http.StatusBadRequest, err)
		return
	}

	result, err := a.processUpload(r.Context(), mr)
	if errors.Is(err, errNoResults) {
		a.httpError(w, r, http.StatusBadRequest, err)
		return
	} else if err != nil {
		a.httpError(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		a.logger().Error("writing /upload response", "err", err)
	}
}

// uploadStatus is the response to an /upload POST served as JSON.
type uploadStatus struct {
	// BatchID is the ID assigned to the new batch.
	BatchID string `json:"batchid"`
	// Benchmarks lists the stored benchmark names.
	Benchmarks []string `json:"benchmarks"`
	// Skipped lists the file names whose benchmark name was not
	// recognized.
	Skipped []string `json:"skipped,omitempty"`
}

// processUpload reads every document from mr and stores the
// recognized ones as one batch.
func (a *App) processUpload(ctx context.Context, mr *multipart.Reader) (*uploadStatus, error) {
	var status uploadStatus
	batchName := "upload"
	loader := &benchfmt.Loader{Logger: a.logger()}
	c := benchgrid.NewCollection(a.logger())

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		switch name := p.FormName(); name {
		case "name":
			data, err := io.ReadAll(io.LimitReader(p, 256))
			if err != nil {
				return nil, err
			}
			if len(data) > 0 {
				batchName = string(data)
			}
			continue
		case "file":
		default:
			return nil, fmt.Errorf("unexpected field %q", name)
		}

		fileName := p.FileName()
		bench := benchfmt.BenchmarkName(fileName)
		if _, ok := c.Add(bench, loader.Read(p, fileName)); !ok {
			status.Skipped = append(status.Skipped, fileName)
			continue
		}
	}
	if c.Len() == 0 {
		return nil, errNoResults
	}

	b, err := a.DB.NewBatch(ctx, batchName)
	if err != nil {
		return nil, err
	}
	if err := b.InsertCollection(ctx, c); err != nil {
		b.Abort()
		return nil, err
	}
	if err := b.Commit(); err != nil {
		return nil, err
	}
	status.BatchID = b.ID
	for _, k := range c.Keys() {
		e, _ := c.Entry(k)
		status.Benchmarks = append(status.Benchmarks, e.Name)
	}
	a.logger().Info("stored upload", "batch", b.ID, "name", batchName, "benchmarks", len(status.Benchmarks))
	return &status, nil
}
