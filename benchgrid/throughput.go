// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchgrid

import (
	"sort"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/biofaster/fastqbench/benchkey"
	"github.com/biofaster/fastqbench/benchmath"
)

const (
	mib = 1 << 20
	gib = 1 << 30
)

// A ThroughputRecord is the rate at which one command processed one
// input.
type ThroughputRecord struct {
	Size        string
	SizeValue   float64
	SizeDisplay string
	Command     string
	// Throughput and ThroughputStddev are in bytes per second.
	Throughput       float64
	ThroughputStddev float64
	FileBytes        int64
	FileSizeMB       float64
	// MeanTime is in seconds.
	MeanTime float64
}

// Throughput is the throughput view of one cache state and
// compression.
type Throughput struct {
	Cache       benchkey.CacheState
	Compression benchkey.Compression
	// Records are ordered by size and then command.
	Records []ThroughputRecord
}

// Throughput builds the throughput view of cache state cache and
// compression comp. sizes gives the input size in bytes of each
// scenario. Scenarios of unknown size and records whose mean is not
// positive are left out. Sizes without a magnitude are left out, as
// in Scaling.
func (c *Collection) Throughput(cache benchkey.CacheState, comp benchkey.Compression, sizes map[benchkey.Key]int64) *Throughput {
	tp := &Throughput{Cache: cache, Compression: comp}
	log := c.logger()
	for _, e := range c.Entries(cache, comp) {
		if e.Table.Len() == 0 {
			continue
		}
		v, ok := benchkey.SizeValue(e.Key.Size)
		if !ok {
			continue
		}
		bytes, ok := sizes[e.Key]
		if !ok || bytes <= 0 {
			log.Warn("could not get file size", "key", e.Key.String())
			continue
		}
		var cmds []string
		for _, cmd := range e.Table.Commands() {
			rec, _ := e.Table.Record(cmd)
			est, ok := benchmath.Throughput(bytes, rec.Mean, rec.Stddev)
			if !ok {
				cmds = append(cmds, cmd)
				continue
			}
			tp.Records = append(tp.Records, ThroughputRecord{
				Size:             e.Key.Size,
				SizeValue:        v,
				SizeDisplay:      benchkey.SizeDisplay(e.Key.Size),
				Command:          cmd,
				Throughput:       est.Value,
				ThroughputStddev: est.Stddev,
				FileBytes:        bytes,
				FileSizeMB:       float64(bytes) / mib,
				MeanTime:         rec.Mean,
			})
		}
		if len(cmds) > 0 {
			log.Debug("skipping throughput of commands with no positive mean", "key", e.Key.String(), "commands", cmds)
		}
	}
	return tp
}

// Empty reports whether t has no records.
func (t *Throughput) Empty() bool {
	return len(t.Records) == 0
}

// Table returns the records of t with columns size_value,
// size_display, command, throughput, throughput_stddev, file_size_mb
// and mean_time. Throughputs are in GiB/s.
func (t *Throughput) Table() *table.Table {
	vals, tps, sds, mbs, means := []float64{}, []float64{}, []float64{}, []float64{}, []float64{}
	displays, cmds := []string{}, []string{}
	for _, r := range t.Records {
		vals = append(vals, r.SizeValue)
		displays = append(displays, r.SizeDisplay)
		cmds = append(cmds, r.Command)
		tps = append(tps, r.Throughput/gib)
		sds = append(sds, r.ThroughputStddev/gib)
		mbs = append(mbs, r.FileSizeMB)
		means = append(means, r.MeanTime)
	}
	return new(table.Builder).
		Add("size_value", vals).
		Add("size_display", displays).
		Add("command", cmds).
		Add("throughput", tps).
		Add("throughput_stddev", sds).
		Add("file_size_mb", mbs).
		Add("mean_time", means).
		Done()
}

// An Average is a command's mean throughput across input sizes.
type Average struct {
	Command string
	// Throughput is in bytes per second.
	Throughput float64
	// N is the number of sizes averaged.
	N int
}

// Averages returns each command's mean throughput across the sizes
// of t, fastest first.
func (t *Throughput) Averages() []Average {
	if len(t.Records) == 0 {
		return nil
	}
	var cmds []string
	var tps []float64
	for _, r := range t.Records {
		cmds = append(cmds, r.Command)
		tps = append(tps, r.Throughput)
	}
	tab := new(table.Builder).Add("command", cmds).Add("throughput", tps).Done()
	agg := table.Flatten(ggstat.Agg("command")(ggstat.AggMean("throughput"), ggstat.AggCount("n")).F(tab))

	aggCmds := agg.MustColumn("command").([]string)
	means := agg.MustColumn("mean throughput").([]float64)
	counts := agg.MustColumn("n").([]int)
	out := make([]Average, len(aggCmds))
	for i := range aggCmds {
		out[i] = Average{aggCmds[i], means[i], counts[i]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Throughput != out[j].Throughput {
			return out[i].Throughput > out[j].Throughput
		}
		return out[i].Command < out[j].Command
	})
	return out
}
