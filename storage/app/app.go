// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app implements the benchmark history server. Combine an App
// with a database to get an HTTP server.
package app

import (
	"log/slog"
	"net/http"

	"github.com/biofaster/fastqbench/storage/db"
)

// App manages the history server logic. Construct an App instance
// using a literal with a DB and call RegisterOnMux to connect it with
// an HTTP server.
type App struct {
	DB *db.DB

	// Logger receives request errors. If nil, slog.Default() is
	// used.
	Logger *slog.Logger
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// RegisterOnMux registers the app's URLs on mux.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	mux.HandleFunc("/upload", a.upload)
	mux.HandleFunc("GET /batches", a.batches)
	mux.HandleFunc("GET /batch/{id}", a.batch)
	mux.HandleFunc("DELETE /batch/{id}", a.deleteBatch)
}

// httpError logs err and writes it as the response with the given
// status code.
func (a *App) httpError(w http.ResponseWriter, r *http.Request, code int, err error) {
	a.logger().Error("request failed", "method", r.Method, "path", r.URL.Path, "status", code, "err", err)
	http.Error(w, err.Error(), code)
}
