// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storage contains a client for the benchmark history server.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/biofaster/fastqbench/benchfmt"
	"github.com/biofaster/fastqbench/benchgrid"
	"github.com/goccy/go-json"
)

// A Client issues queries to a history server.
// It is safe to use from multiple goroutines simultaneously.
type Client struct {
	// BaseURL is the base URL of the server.
	BaseURL string
	// HTTPClient is the HTTP client for sending requests. If nil,
	// http.DefaultClient will be used.
	HTTPClient *http.Client
}

// httpClient returns the http.Client to use for requests.
func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) url(path string) string {
	return strings.TrimSuffix(c.BaseURL, "/") + path
}

// A BatchInfo describes a stored batch.
type BatchInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Created   time.Time `json:"created"`
	Scenarios int       `json:"scenarios"`
	Runs      int       `json:"runs"`
}

// UploadStatus is the server's response to an upload.
type UploadStatus struct {
	// BatchID is the ID assigned to the new batch.
	BatchID string `json:"batchid"`
	// Benchmarks lists the stored benchmark names.
	Benchmarks []string `json:"benchmarks"`
	// Skipped lists the uploaded files the server did not
	// recognize.
	Skipped []string `json:"skipped,omitempty"`
}

// do sends req and decodes a JSON response into v.
func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: %s: %s", req.Method, req.URL.Path, resp.Status, bytes.TrimSpace(body))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// ListBatches returns the batches stored on the server, most recent
// first.
func (c *Client) ListBatches(ctx context.Context) ([]BatchInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/batches"), nil)
	if err != nil {
		return nil, err
	}
	var out []BatchInfo
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Upload stores every scenario of col on the server as a new batch
// called name. Each scenario is sent as a hyperfine document named
// after it.
func (c *Client) Upload(ctx context.Context, name string, col *benchgrid.Collection) (*UploadStatus, error) {
	var body bytes.Buffer
	mpw := multipart.NewWriter(&body)
	if err := mpw.WriteField("name", name); err != nil {
		return nil, err
	}
	for _, k := range col.Keys() {
		e, _ := col.Entry(k)
		w, err := mpw.CreateFormFile("file", e.Name+".json")
		if err != nil {
			return nil, err
		}
		if err := benchfmt.NewWriter(w, false).Write(e.Table); err != nil {
			return nil, err
		}
	}
	if err := mpw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/upload"), &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mpw.FormDataContentType())
	var status UploadStatus
	if err := c.do(req, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
