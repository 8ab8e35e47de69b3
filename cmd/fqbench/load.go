// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/biofaster/fastqbench/benchfmt"
	"github.com/biofaster/fastqbench/benchgrid"
	"github.com/biofaster/fastqbench/benchkey"
	"github.com/biofaster/fastqbench/benchsize"
	"github.com/spf13/cobra"
)

// batchDir returns the directory of the batch to read.
func (a *app) batchDir() (string, error) {
	results := a.v.GetString("results")
	batch := a.v.GetString("batch")
	if batch == "" {
		return benchfmt.LatestBatch(results)
	}
	if fi, err := os.Stat(batch); err == nil && fi.IsDir() {
		return batch, nil
	}
	return filepath.Join(results, batch), nil
}

// load reads the files named by args, or the selected batch if there
// are none.
func (a *app) load(args []string) (*benchgrid.Collection, error) {
	paths := args
	if len(paths) == 0 {
		dir, err := a.batchDir()
		if err != nil {
			return nil, err
		}
		a.logger.Info("reading batch", "dir", dir)
		if paths, err = benchfmt.BatchPaths(dir); err != nil {
			return nil, err
		}
	}
	files := &benchfmt.Files{
		Paths:       paths,
		AllowLabels: true,
		Loader:      &benchfmt.Loader{Logger: a.logger},
	}
	c := benchgrid.NewCollection(a.logger)
	if err := c.AddFiles(files); err != nil {
		return nil, err
	}
	a.logger.Debug("loaded results", "scenarios", c.Len(), "commands", len(c.Commands()))
	return c, nil
}

func (a *app) resolver() *benchsize.Resolver {
	return benchsize.NewResolver(a.v.GetString("data"))
}

// sizes resolves the input size of every key. Fixtures whose content
// does not match their key's compression are left out.
func (a *app) sizes(keys []benchkey.Key) map[benchkey.Key]int64 {
	r := a.resolver()
	sizes := r.ResolveAll(keys)
	for _, k := range keys {
		if _, ok := sizes[k]; !ok {
			continue
		}
		if err := r.Verify(k); err != nil {
			a.logger.Warn("ignoring fixture size", "key", k.String(), "err", err)
			delete(sizes, k)
		}
	}
	return sizes
}

// filter selects cache states and compressions from the --cache and
// --compression flags of a command.
type filter struct {
	caches []string
	comps  []string
}

func (f *filter) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.caches, "cache", nil, "only report these cache `states` (hot, cold, really_cold)")
	cmd.Flags().StringSliceVar(&f.comps, "compression", nil, "only report these `compressions` (raw, gz, bgz)")
}

func (f *filter) cacheStates(c *benchgrid.Collection) ([]benchkey.CacheState, error) {
	if len(f.caches) == 0 {
		return c.Caches(), nil
	}
	var out []benchkey.CacheState
	for _, s := range f.caches {
		cs, ok := benchkey.ParseCacheState(s)
		if !ok {
			return nil, fmt.Errorf("--cache: unknown cache state %q", s)
		}
		out = append(out, cs)
	}
	return out, nil
}

func (f *filter) compressions(c *benchgrid.Collection, cache benchkey.CacheState) ([]benchkey.Compression, error) {
	if len(f.comps) == 0 {
		return c.Compressions(cache), nil
	}
	var out []benchkey.Compression
	for _, s := range f.comps {
		comp, ok := benchkey.ParseCompression(s)
		if !ok {
			return nil, fmt.Errorf("--compression: unknown compression %q", s)
		}
		out = append(out, comp)
	}
	benchkey.SortCompressions(out)
	return out, nil
}

// each calls fn for every selected cache state and compression.
func (f *filter) each(c *benchgrid.Collection, fn func(benchkey.CacheState, benchkey.Compression) error) error {
	caches, err := f.cacheStates(c)
	if err != nil {
		return err
	}
	for _, cache := range caches {
		comps, err := f.compressions(c, cache)
		if err != nil {
			return err
		}
		for _, comp := range comps {
			if err := fn(cache, comp); err != nil {
				return err
			}
		}
	}
	return nil
}
