// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db stores batches of benchmark results in a SQL database
// so that batches can be listed and reloaded after the results
// directory they came from is gone.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/biofaster/fastqbench/benchfmt"
	"github.com/biofaster/fastqbench/benchgrid"
	"github.com/biofaster/fastqbench/benchkey"
	"github.com/goccy/go-json"
	"github.com/oklog/ulid/v2"
)

// ErrNoSuchBatch is returned when a batch ID is not in the database.
var ErrNoSuchBatch = errors.New("no such batch")

// DB is a high-level interface to a database of benchmark batches.
// It's safe for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertBatch    *sql.Stmt
	insertScenario *sql.Stmt
	insertRun      *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to configure its connections.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Batches (
	BatchID VARCHAR(26) NOT NULL PRIMARY KEY,
	Name VARCHAR(255) NOT NULL,
	Created BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS Scenarios (
	BatchID VARCHAR(26) NOT NULL,
	Benchmark VARCHAR(255) NOT NULL,
	Size VARCHAR(64) NOT NULL,
	CacheState VARCHAR(16) NOT NULL,
	Compression VARCHAR(16) NOT NULL,
	PRIMARY KEY (BatchID, Benchmark),
	FOREIGN KEY (BatchID) REFERENCES Batches(BatchID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS Runs (
	BatchID VARCHAR(26) NOT NULL,
	RunID BIGINT NOT NULL,
	Benchmark VARCHAR(255) NOT NULL,
	Command VARCHAR(1024) NOT NULL,
	Mean DOUBLE NOT NULL,
	Stddev DOUBLE NOT NULL,
	Median DOUBLE NOT NULL,
	Min DOUBLE NOT NULL,
	Max DOUBLE NOT NULL,
	Times BLOB,
	PRIMARY KEY (BatchID, RunID),
{{if not .sqlite3}}
	Index (BatchID, Benchmark),
{{end}}
	FOREIGN KEY (BatchID, Benchmark) REFERENCES Scenarios(BatchID, Benchmark) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS RunsBatchBenchmark ON Runs(BatchID, Benchmark);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertBatch, err = db.sql.Prepare("INSERT INTO Batches(BatchID, Name, Created) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertScenario, err = db.sql.Prepare("INSERT INTO Scenarios(BatchID, Benchmark, Size, CacheState, Compression) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(BatchID, RunID, Benchmark, Command, Mean, Stddev, Median, Min, Max, Times) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// now is a hook for testing
var now = time.Now

// A Batch is a set of scenario tables stored under one batch ID. A
// Batch is written in a single transaction; it must be finished with
// Commit or Abort.
type Batch struct {
	// ID is the batch's ULID. IDs sort by creation time.
	ID string
	// Name is the batch's name, usually the results directory it
	// was read from.
	Name string
	// Created is the time the batch was stored.
	Created time.Time

	// runid is the index of the next run to insert.
	runid int64
	// benchmarks holds the names already inserted.
	benchmarks map[string]bool
	// db is the underlying database that this batch is going to.
	db *DB
	// tx is the transaction used by the batch.
	tx *sql.Tx
}

// NewBatch returns a batch for storing new tables under name.
func (db *DB) NewBatch(ctx context.Context, name string) (*Batch, error) {
	created := now().UTC()
	id, err := ulid.New(ulid.Timestamp(created), ulid.DefaultEntropy())
	if err != nil {
		return nil, err
	}
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	if _, err := tx.StmtContext(ctx, db.insertBatch).ExecContext(ctx, id.String(), name, created.UnixMilli()); err != nil {
		tx.Rollback()
		return nil, err
	}
	return &Batch{
		ID:         id.String(),
		Name:       name,
		Created:    time.UnixMilli(created.UnixMilli()).UTC(),
		benchmarks: make(map[string]bool),
		db:         db,
		tx:         tx,
	}, nil
}

// InsertTable stores table t as the results of scenario k, under
// benchmark name. An empty table is stored as a scenario with no
// runs, so that it loads back as an empty table. Inserting the same
// name twice is an error.
func (b *Batch) InsertTable(ctx context.Context, name string, k benchkey.Key, t *benchfmt.Table) error {
	if b.benchmarks[name] {
		return fmt.Errorf("batch %s: duplicate benchmark %q", b.ID, name)
	}
	if _, err := b.tx.StmtContext(ctx, b.db.insertScenario).ExecContext(ctx,
		b.ID, name, k.Size, k.Cache.String(), k.Compression.Token()); err != nil {
		return err
	}
	b.benchmarks[name] = true
	stmt := b.tx.StmtContext(ctx, b.db.insertRun)
	for _, rec := range t.Records {
		times, err := json.Marshal(rec.Times)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, b.ID, b.runid, name, rec.Command,
			rec.Mean, rec.Stddev, rec.Median, rec.Min, rec.Max, times); err != nil {
			return err
		}
		b.runid++
	}
	return nil
}

// InsertCollection stores every entry of c.
func (b *Batch) InsertCollection(ctx context.Context, c *benchgrid.Collection) error {
	for _, k := range c.Keys() {
		e, _ := c.Entry(k)
		if err := b.InsertTable(ctx, e.Name, e.Key, e.Table); err != nil {
			return err
		}
	}
	return nil
}

// Commit finishes processing the batch.
func (b *Batch) Commit() error {
	return b.tx.Commit()
}

// Abort cleans up resources associated with the batch.
// It does not attempt to clean up partial database state.
func (b *Batch) Abort() error {
	return b.tx.Rollback()
}

// A BatchInfo describes a stored batch.
type BatchInfo struct {
	ID        string
	Name      string
	Created   time.Time
	Scenarios int
	Runs      int
}

// ListBatches returns the stored batches, most recent first.
func (db *DB) ListBatches(ctx context.Context) ([]BatchInfo, error) {
	rows, err := db.sql.QueryContext(ctx, `
SELECT b.BatchID, b.Name, b.Created,
	(SELECT COUNT(*) FROM Scenarios s WHERE s.BatchID = b.BatchID),
	(SELECT COUNT(*) FROM Runs r WHERE r.BatchID = b.BatchID)
FROM Batches b
ORDER BY b.Created DESC, b.BatchID DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BatchInfo
	for rows.Next() {
		var bi BatchInfo
		var created int64
		if err := rows.Scan(&bi.ID, &bi.Name, &created, &bi.Scenarios, &bi.Runs); err != nil {
			return nil, err
		}
		bi.Created = time.UnixMilli(created).UTC()
		out = append(out, bi)
	}
	return out, rows.Err()
}

// CountBatches returns the number of stored batches.
func (db *DB) CountBatches(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Batches").Scan(&n)
	return n, err
}

// LoadBatch loads the batch with the given ID into a new Collection.
// If id is "latest", the most recent batch is loaded.
func (db *DB) LoadBatch(ctx context.Context, id string) (*benchgrid.Collection, error) {
	if id == "latest" {
		err := db.sql.QueryRowContext(ctx, "SELECT BatchID FROM Batches ORDER BY Created DESC, BatchID DESC LIMIT 1").Scan(&id)
		if err == sql.ErrNoRows {
			return nil, ErrNoSuchBatch
		} else if err != nil {
			return nil, err
		}
	}

	rows, err := db.sql.QueryContext(ctx, "SELECT Benchmark, Size, CacheState, Compression FROM Scenarios WHERE BatchID = ?", id)
	if err != nil {
		return nil, err
	}
	tables := make(map[string]*benchfmt.Table)
	keys := make(map[string]benchkey.Key)
	for rows.Next() {
		var name, size, cache, comp string
		if err := rows.Scan(&name, &size, &cache, &comp); err != nil {
			rows.Close()
			return nil, err
		}
		k, err := scenarioKey(size, cache, comp)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("batch %s: benchmark %q: %w", id, name, err)
		}
		keys[name] = k
		tables[name] = new(benchfmt.Table)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	if len(keys) == 0 {
		var n int
		if err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Batches WHERE BatchID = ?", id).Scan(&n); err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("batch %s: %w", id, ErrNoSuchBatch)
		}
	}

	rows, err = db.sql.QueryContext(ctx, "SELECT Benchmark, Command, Mean, Stddev, Median, Min, Max, Times FROM Runs WHERE BatchID = ? ORDER BY RunID", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var times []byte
		rec := new(benchfmt.Record)
		if err := rows.Scan(&name, &rec.Command, &rec.Mean, &rec.Stddev, &rec.Median, &rec.Min, &rec.Max, &times); err != nil {
			return nil, err
		}
		if len(times) > 0 {
			if err := json.Unmarshal(times, &rec.Times); err != nil {
				return nil, fmt.Errorf("batch %s: benchmark %q: times: %w", id, name, err)
			}
		}
		if len(rec.Times) == 0 {
			rec.Times = []float64{rec.Mean}
		}
		t, ok := tables[name]
		if !ok {
			return nil, fmt.Errorf("batch %s: run of unknown benchmark %q", id, name)
		}
		t.Records = append(t.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	c := benchgrid.NewCollection(nil)
	for name, k := range keys {
		c.AddKey(name, k, tables[name])
	}
	return c, nil
}

func scenarioKey(size, cache, comp string) (benchkey.Key, error) {
	cs, ok := benchkey.ParseCacheState(cache)
	if !ok {
		return benchkey.Key{}, fmt.Errorf("unknown cache state %q", cache)
	}
	c, ok := benchkey.ParseCompression(comp)
	if !ok {
		return benchkey.Key{}, fmt.Errorf("unknown compression %q", comp)
	}
	return benchkey.Key{Size: size, Cache: cs, Compression: c}, nil
}

// DeleteBatch removes the batch with the given ID and everything
// stored in it.
func (db *DB) DeleteBatch(ctx context.Context, id string) (err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	// Delete children explicitly; sqlite3 does not enforce
	// cascades unless foreign keys are enabled.
	for _, q := range []string{
		"DELETE FROM Runs WHERE BatchID = ?",
		"DELETE FROM Scenarios WHERE BatchID = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM Batches WHERE BatchID = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("batch %s: %w", id, ErrNoSuchBatch)
	}
	return nil
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertBatch, db.insertScenario, db.insertRun} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
