// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/biofaster/fastqbench/benchfmt"
	"github.com/biofaster/fastqbench/storage"
	"github.com/biofaster/fastqbench/storage/db"
	_ "github.com/biofaster/fastqbench/storage/db/sqlite3"
	"github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
)

// client returns a client for the history server named by --server,
// or nil if there is none.
func (a *app) client() *storage.Client {
	server := a.v.GetString("server")
	if server == "" {
		return nil
	}
	return &storage.Client{BaseURL: server}
}

// openDB opens the history database named by --db and --db-driver.
func (a *app) openDB() (*db.DB, error) {
	driver, dsn := a.v.GetString("db-driver"), a.v.GetString("db")
	switch driver {
	case "sqlite3":
	case "mysql":
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("--db: %w", err)
		}
		dsn = cfg.FormatDSN()
	default:
		return nil, fmt.Errorf("--db-driver: unsupported driver %q", driver)
	}
	d, err := db.OpenSQL(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	return d, nil
}

func (a *app) saveCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "save [flags] [[name=]file...]",
		Short: "Store a batch in the history database",
		Long: `Save reads a batch, or the files given as arguments, and stores every
scenario in the history database as a new batch. With --server, the
batch is uploaded to a history server instead. The new batch ID is
printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(args)
			if err != nil {
				return err
			}
			if name == "" {
				if len(args) > 0 {
					name = "files"
				} else if dir, err := a.batchDir(); err == nil {
					name = filepath.Base(dir)
				}
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if client := a.client(); client != nil {
				status, err := client.Upload(ctx, name, c)
				if err != nil {
					return err
				}
				a.logger.Info("uploaded batch", "id", status.BatchID, "name", name, "scenarios", len(status.Benchmarks))
				fmt.Fprintln(a.out, status.BatchID)
				return nil
			}

			d, err := a.openDB()
			if err != nil {
				return err
			}
			defer d.Close()

			b, err := d.NewBatch(ctx, name)
			if err != nil {
				return err
			}
			if err := b.InsertCollection(ctx, c); err != nil {
				b.Abort()
				return err
			}
			if err := b.Commit(); err != nil {
				return err
			}
			a.logger.Info("saved batch", "id", b.ID, "name", b.Name, "scenarios", c.Len())
			fmt.Fprintln(a.out, b.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "batch `name` (default is the batch directory name)")
	return cmd
}

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, show, export or delete stored batches",
	}
	cmd.AddCommand(a.historyListCmd(), a.historyShowCmd(), a.historyExportCmd(), a.historyDeleteCmd())
	return cmd
}

// withDB opens the history database around fn.
func (a *app) withDB(cmd *cobra.Command, fn func(context.Context, *db.DB) error) error {
	d, err := a.openDB()
	if err != nil {
		return err
	}
	defer d.Close()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, d)
}

func (a *app) historyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored batches, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if client := a.client(); client != nil {
				ctx := cmd.Context()
				if ctx == nil {
					ctx = context.Background()
				}
				infos, err := client.ListBatches(ctx)
				if err != nil {
					return err
				}
				list := make([]db.BatchInfo, len(infos))
				for i, bi := range infos {
					list[i] = db.BatchInfo(bi)
				}
				return a.listBatches(list)
			}
			return a.withDB(cmd, func(ctx context.Context, d *db.DB) error {
				infos, err := d.ListBatches(ctx)
				if err != nil {
					return err
				}
				return a.listBatches(infos)
			})
		},
	}
}

func (a *app) listBatches(infos []db.BatchInfo) error {
	r, err := a.newReport()
	if err != nil {
		return err
	}
	ids, names, created := []string{}, []string{}, []string{}
	scenarios, runs := []int{}, []int{}
	for _, bi := range infos {
		ids = append(ids, bi.ID)
		names = append(names, bi.Name)
		created = append(created, bi.Created.Format(time.RFC3339))
		scenarios = append(scenarios, bi.Scenarios)
		runs = append(runs, bi.Runs)
	}
	r.add("Batches", new(table.Builder).
		Add("id", ids).
		Add("name", names).
		Add("created", created).
		Add("scenarios", scenarios).
		Add("runs", runs).
		Done())
	return r.flush()
}

func (a *app) historyShowCmd() *cobra.Command {
	var f filter
	cmd := &cobra.Command{
		Use:   "show [flags] <id|latest>",
		Short: "Show the grid of a stored batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd, func(ctx context.Context, d *db.DB) error {
				c, err := d.LoadBatch(ctx, args[0])
				if err != nil {
					return err
				}
				return a.grid(c, &f)
			})
		},
	}
	cmd.Flags().StringSliceVar(&f.caches, "cache", nil, "only report these cache `states` (hot, cold, really_cold)")
	return cmd
}

func (a *app) historyExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <id|latest> <dir>",
		Short: "Write a stored batch back out as hyperfine documents",
		Long: `Export writes every scenario of a stored batch to dir as a hyperfine
JSON document named after the scenario, so that the directory can be
read again as a batch.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd, func(ctx context.Context, d *db.DB) error {
				c, err := d.LoadBatch(ctx, args[0])
				if err != nil {
					return err
				}
				for _, k := range c.Keys() {
					e, _ := c.Entry(k)
					path := filepath.Join(args[1], e.Name+".json")
					if err := benchfmt.WriteFile(path, e.Table); err != nil {
						return err
					}
					a.logger.Debug("exported scenario", "path", path, "commands", e.Table.Len())
				}
				a.logger.Info("exported batch", "dir", args[1], "scenarios", c.Len())
				return nil
			})
		},
	}
}

func (a *app) historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(cmd, func(ctx context.Context, d *db.DB) error {
				if err := d.DeleteBatch(ctx, args[0]); err != nil {
					return err
				}
				a.logger.Info("deleted batch", "id", args[0])
				return nil
			})
		},
	}
}
