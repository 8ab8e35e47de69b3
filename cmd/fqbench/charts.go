// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/biofaster/fastqbench/benchkey"
	"github.com/biofaster/fastqbench/internal/chart"
	"github.com/spf13/cobra"
)

func (a *app) chartsCmd() *cobra.Command {
	var f filter
	var outDir, ext string
	cmd := &cobra.Command{
		Use:   "charts [flags] [[name=]file...]",
		Short: "Write throughput and scaling charts",
		Long: `Charts writes a throughput chart and a scaling chart for every cache
state and compression with results, named like
"throughput_hot_gz.svg". Each command keeps the same color in every
chart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(args)
			if err != nil {
				return err
			}
			commands := c.Commands()
			sizes := a.sizes(c.Keys())
			n := 0
			write := func(path string, err error) error {
				if errors.Is(err, chart.ErrEmpty) {
					return nil
				} else if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				a.logger.Info("wrote chart", "path", path)
				fmt.Fprintln(a.out, path)
				n++
				return nil
			}
			err = f.each(c, func(cache benchkey.CacheState, comp benchkey.Compression) error {
				base := fmt.Sprintf("%s_%s.%s", cache, comp.Token(), ext)
				path := filepath.Join(outDir, "throughput_"+base)
				if err := write(path, chart.Throughput(path, c.Throughput(cache, comp, sizes), commands)); err != nil {
					return err
				}
				path = filepath.Join(outDir, "scaling_"+base)
				return write(path, chart.Scaling(path, c.Scaling(cache, comp), commands))
			})
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(a.out, nothingToDisplay)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", "charts", "output `directory`")
	cmd.Flags().StringVar(&ext, "type", "svg", "chart file `type`: svg, png or pdf")
	return cmd
}
