// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for
// fastqbench/storage/db.OpenSQL. It must be imported instead of
// go-sqlite3 to ensure foreign keys are properly honored.
package sqlite3

import (
	"database/sql"

	"github.com/biofaster/fastqbench/storage/db"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	db.RegisterOpenHook("sqlite3", func(sqldb *sql.DB) error {
		// Every connection to ":memory:" is a separate database,
		// and sqlite serializes writers anyway.
		sqldb.SetMaxOpenConns(1)
		_, err := sqldb.Exec("PRAGMA foreign_keys = ON")
		return err
	})
}
