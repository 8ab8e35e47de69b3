// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Fqbench summarizes hyperfine benchmarks of FASTQ parsers.
//
// Usage:
//
//	fqbench [flags] <command> [args]
//
// A results directory holds one subdirectory per benchmark batch. Each
// batch holds hyperfine JSON documents named after the scenario they
// measured, such as "1m_hot_gz.json" or "10mb/really_cold_raw.json".
// Unless --batch is given, commands read the most recent batch. Files
// given as arguments, optionally in the form name=path, are read
// instead of a batch.
//
// The commands are:
//
//	grid        mean times of every command, per cache state
//	scaling     mean time against input size
//	throughput  bytes per second against input size
//	compare     time ratios between two compressions
//	charts      write throughput and scaling charts
//	save        store a batch in the history database
//	history     list, show, export or delete stored batches
//	serve       serve the history database over HTTP
//
// Flags may also be set in a YAML config file ($HOME/.fqbench.yaml by
// default) or through FQBENCH_ environment variables, such as
// FQBENCH_RESULTS or FQBENCH_LOG_LEVEL.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newApp(os.Stdout, os.Stderr).root().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
