// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/aclements/go-gg/table"
	"github.com/biofaster/fastqbench/benchgrid"
	"github.com/biofaster/fastqbench/benchkey"
	"github.com/spf13/cobra"
)

const gib = 1 << 30

func (a *app) gridCmd() *cobra.Command {
	var f filter
	cmd := &cobra.Command{
		Use:   "grid [flags] [[name=]file...]",
		Short: "Show the mean time of every command in every scenario",
		Long: `Grid shows one table per cache state, with a row for every command at
every compression and input size that has results. Commands missing
from a scenario are shown as "no data".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(args)
			if err != nil {
				return err
			}
			return a.grid(c, &f)
		},
	}
	cmd.Flags().StringSliceVar(&f.caches, "cache", nil, "only report these cache `states` (hot, cold, really_cold)")
	return cmd
}

func (a *app) grid(c *benchgrid.Collection, f *filter) error {
	r, err := a.newReport()
	if err != nil {
		return err
	}
	caches, err := f.cacheStates(c)
	if err != nil {
		return err
	}
	for _, cache := range caches {
		g := c.Grid(cache)
		if g.Empty() {
			a.logger.Info("no results", "cache", cache.String())
			continue
		}
		var t *table.Table
		if r.format == "text" {
			t = g.DisplayTable()
		} else {
			t = g.Table()
		}
		r.add(fmt.Sprintf("%s cache", cache.Title()), t)
	}
	return r.flush()
}

func (a *app) scalingCmd() *cobra.Command {
	var f filter
	cmd := &cobra.Command{
		Use:   "scaling [flags] [[name=]file...]",
		Short: "Show how each command's time grows with input size",
		Long: `Scaling shows the mean time of every command at every input size, and
its scaling efficiency: the ratio of the time growth to the size growth
from the smallest to the largest size. An efficiency of 1 is linear
scaling; less than 1 is better than linear.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(args)
			if err != nil {
				return err
			}
			r, err := a.newReport()
			if err != nil {
				return err
			}
			err = f.each(c, func(cache benchkey.CacheState, comp benchkey.Compression) error {
				s := c.Scaling(cache, comp)
				if s.Empty() {
					return nil
				}
				title := fmt.Sprintf("%s cache, %s", cache.Title(), comp.Label())
				r.add(title, s.Table(), "%g", "%s", "%s", "%.4f", "%.4f")
				r.add(title+": efficiency", efficiencyTable(s), "%s", "%.2f", "%.2f", "%.3f")
				return nil
			})
			if err != nil {
				return err
			}
			return r.flush()
		},
	}
	f.register(cmd)
	return cmd
}

func efficiencyTable(s *benchgrid.Scaling) *table.Table {
	cmds := []string{}
	trs, srs, effs := []float64{}, []float64{}, []float64{}
	for _, ser := range s.Series {
		e, ok := ser.Efficiency()
		if !ok {
			continue
		}
		cmds = append(cmds, ser.Command)
		trs = append(trs, e.TimeRatio)
		srs = append(srs, e.SizeRatio)
		effs = append(effs, e.Efficiency)
	}
	return new(table.Builder).
		Add("command", cmds).
		Add("time_ratio", trs).
		Add("size_ratio", srs).
		Add("efficiency", effs).
		Done()
}

func (a *app) throughputCmd() *cobra.Command {
	var f filter
	cmd := &cobra.Command{
		Use:   "throughput [flags] [[name=]file...]",
		Short: "Show the bytes per second of every command",
		Long: `Throughput divides the size of each scenario's input file by each
command's mean time. Input sizes come from the fixtures in the --data
directory, or from fixed sizes for generated really-cold inputs.
Scenarios whose size cannot be found are skipped with a warning.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(args)
			if err != nil {
				return err
			}
			r, err := a.newReport()
			if err != nil {
				return err
			}
			sizes := a.sizes(c.Keys())
			err = f.each(c, func(cache benchkey.CacheState, comp benchkey.Compression) error {
				tp := c.Throughput(cache, comp, sizes)
				if tp.Empty() {
					return nil
				}
				title := fmt.Sprintf("%s cache, %s", cache.Title(), comp.Label())
				r.add(title+" (GiB/s)", tp.Table(), "%g", "%s", "%s", "%.3f", "%.3f", "%.1f", "%.4f")
				r.add(title+": average", averageTable(tp.Averages()), "%s", "%.3f", "%d")
				return nil
			})
			if err != nil {
				return err
			}
			return r.flush()
		},
	}
	f.register(cmd)
	return cmd
}

func averageTable(avgs []benchgrid.Average) *table.Table {
	cmds, tps, ns := []string{}, []float64{}, []int{}
	for _, avg := range avgs {
		cmds = append(cmds, avg.Command)
		tps = append(tps, avg.Throughput/gib)
		ns = append(ns, avg.N)
	}
	return new(table.Builder).
		Add("command", cmds).
		Add("throughput", tps).
		Add("sizes", ns).
		Done()
}

func (a *app) compareCmd() *cobra.Command {
	var caches []string
	var base, other string
	cmd := &cobra.Command{
		Use:   "compare [flags] [[name=]file...]",
		Short: "Compare each command's time between two compressions",
		Long: `Compare shows, for every size that has results under both compressions,
the ratio of each command's mean time on --other to its time on --base.
The delta column is "~" when the run times do not differ significantly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, ok := benchkey.ParseCompression(base)
			if !ok {
				return fmt.Errorf("--base: unknown compression %q", base)
			}
			o, ok := benchkey.ParseCompression(other)
			if !ok {
				return fmt.Errorf("--other: unknown compression %q", other)
			}
			c, err := a.load(args)
			if err != nil {
				return err
			}
			r, err := a.newReport()
			if err != nil {
				return err
			}
			f := filter{caches: caches}
			cs, err := f.cacheStates(c)
			if err != nil {
				return err
			}
			for _, cache := range cs {
				rs := c.Compare(cache, b, o)
				title := fmt.Sprintf("%s cache, %s vs %s", cache.Title(), o.Label(), b.Label())
				r.add(title, benchgrid.RatioTable(rs), "%s", "%s", "%.4f", "%s", "%.4f", "%s", "%.2f", "%s")
			}
			return r.flush()
		},
	}
	cmd.Flags().StringSliceVar(&caches, "cache", nil, "only report these cache `states` (hot, cold, really_cold)")
	cmd.Flags().StringVar(&base, "base", "raw", "baseline `compression`")
	cmd.Flags().StringVar(&other, "other", "gz", "compared `compression`")
	return cmd
}
