// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/biofaster/fastqbench/storage/db/dbtest"
	_ "github.com/biofaster/fastqbench/storage/db/sqlite3"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

type testApp struct {
	*App
	srv *httptest.Server
}

func createTestApp(t *testing.T) *testApp {
	t.Helper()
	app := &App{DB: dbtest.NewDB(t)}
	mux := http.NewServeMux()
	app.RegisterOnMux(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testApp{app, srv}
}

// uploadFiles posts the fields and files written by writeData to
// /upload.
func (app *testApp) uploadFiles(t *testing.T, writeData func(*multipart.Writer)) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mpw := multipart.NewWriter(&body)
	writeData(mpw)
	if err := mpw.Close(); err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(app.srv.URL+"/upload", mpw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("post /upload: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func writeFile(t *testing.T, mpw *multipart.Writer, name, data string) {
	w, err := mpw.CreateFormFile("file", name)
	if err != nil {
		t.Errorf("CreateFormFile: %v", err)
		return
	}
	io.WriteString(w, data)
}

func (app *testApp) getJSON(t *testing.T, path string, v any) int {
	t.Helper()
	resp, err := http.Get(app.srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decoding %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

const hotRaw = `{"results": [
	{"command": "a", "mean": 1.5, "stddev": 0.1, "exit_codes": [0, 0]},
	{"command": "b", "mean": 2.5, "stddev": 0.2, "exit_codes": [0, 1]}
]}`

func TestUpload(t *testing.T) {
	app := createTestApp(t)

	resp := app.uploadFiles(t, func(mpw *multipart.Writer) {
		mpw.WriteField("name", "nightly")
		writeFile(t, mpw, "1m_hot_raw.json", hotRaw)
		writeFile(t, mpw, "1m_hot_gz.json", `{"results": [{"command": "b", "mean": 3}]}`)
		writeFile(t, mpw, "notes.json", `{"results": []}`)
	})
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("post /upload: %v\n%s", resp.Status, body)
	}
	var status uploadStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if len(status.BatchID) != 26 {
		t.Errorf("BatchID = %q", status.BatchID)
	}
	if diff := cmp.Diff([]string{"1m_hot_raw", "1m_hot_gz"}, status.Benchmarks); diff != "" {
		t.Errorf("Benchmarks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"notes.json"}, status.Skipped); diff != "" {
		t.Errorf("Skipped mismatch (-want +got):\n%s", diff)
	}

	var batches []batchJSON
	if code := app.getJSON(t, "/batches", &batches); code != http.StatusOK {
		t.Fatalf("get /batches: %d", code)
	}
	if len(batches) != 1 || batches[0].ID != status.BatchID || batches[0].Name != "nightly" {
		t.Fatalf("batches = %+v", batches)
	}
	if batches[0].Scenarios != 2 || batches[0].Runs != 2 {
		t.Errorf("batch has %d scenarios and %d runs, want 2 and 2", batches[0].Scenarios, batches[0].Runs)
	}

	var grid batchGridJSON
	if code := app.getJSON(t, "/batch/latest", &grid); code != http.StatusOK {
		t.Fatalf("get /batch/latest: %d", code)
	}
	// b failed a run of 1m_hot_raw, so it has no data there.
	want := []gridRow{
		{Compression: "raw", Size: "1M", Benchmark: "1m_hot_raw", Command: "a", Mean: 1.5, Stddev: 0.1, Min: 1.5, Max: 1.5},
		{Compression: "raw", Size: "1M", Benchmark: "1m_hot_raw", Command: "b", NoData: true},
		{Compression: "gz", Size: "1M", Benchmark: "1m_hot_gz", Command: "a", NoData: true},
		{Compression: "gz", Size: "1M", Benchmark: "1m_hot_gz", Command: "b", Mean: 3, Min: 3, Max: 3},
	}
	if len(grid.Grids) != 1 || grid.Grids[0].Cache != "hot" {
		t.Fatalf("grids = %+v", grid.Grids)
	}
	if diff := cmp.Diff(want, grid.Grids[0].Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	req, _ := http.NewRequest(http.MethodDelete, app.srv.URL+"/batch/"+status.BatchID, nil)
	dresp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	dresp.Body.Close()
	if dresp.StatusCode != http.StatusNoContent {
		t.Errorf("delete: %v", dresp.Status)
	}
	if code := app.getJSON(t, "/batch/"+status.BatchID, &grid); code != http.StatusNotFound {
		t.Errorf("get deleted batch: %d, want 404", code)
	}
}

func TestUploadRejected(t *testing.T) {
	app := createTestApp(t)

	resp := app.uploadFiles(t, func(mpw *multipart.Writer) {
		writeFile(t, mpw, "notes.json", `{"results": []}`)
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("upload without benchmarks: %v, want 400", resp.Status)
	}

	resp = app.uploadFiles(t, func(mpw *multipart.Writer) {
		mpw.WriteField("comment", "hi")
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("upload with unknown field: %v, want 500", resp.Status)
	}

	get, err := http.Get(app.srv.URL + "/upload")
	if err != nil {
		t.Fatal(err)
	}
	get.Body.Close()
	if get.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /upload: %v", get.Status)
	}

	var batches []batchJSON
	app.getJSON(t, "/batches", &batches)
	if len(batches) != 0 {
		t.Errorf("rejected uploads stored %d batches", len(batches))
	}
}
