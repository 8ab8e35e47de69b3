// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchgrid

import (
	"github.com/aclements/go-gg/table"
	"github.com/biofaster/fastqbench/benchkey"
	"github.com/biofaster/fastqbench/benchmath"
)

// A Ratio compares one command's time on two compressions of the same
// input size.
type Ratio struct {
	Size    string
	Command string
	// Base and Other are the mean times in seconds.
	Base, Other float64
	// BaseSummary and OtherSummary are the run times with their
	// confidence intervals.
	BaseSummary, OtherSummary benchmath.Summary
	// Ratio is Other/Base. Greater than 1 means slower on Other.
	Ratio float64
	// Comparison tests whether the run times differ.
	Comparison benchmath.Comparison
}

// Compare compares every command's time on compression other against
// compression base, for each size of cache state cache that has data
// for both. Results are ordered by size and then command.
func (c *Collection) Compare(cache benchkey.CacheState, base, other benchkey.Compression) []Ratio {
	var out []Ratio
	for _, be := range c.Entries(cache, base) {
		oe, ok := c.Entry(benchkey.Key{Size: be.Key.Size, Cache: cache, Compression: other})
		if !ok {
			continue
		}
		for _, cmd := range be.Table.Commands() {
			brec, _ := be.Table.Record(cmd)
			orec, ok := oe.Table.Record(cmd)
			if !ok {
				continue
			}
			r, ok := benchmath.Ratio(brec.Mean, orec.Mean)
			if !ok {
				continue
			}
			s1 := benchmath.NewSample(brec.Times, nil)
			s2 := benchmath.NewSample(orec.Times, nil)
			out = append(out, Ratio{
				Size:         be.Key.Size,
				Command:      cmd,
				Base:         brec.Mean,
				Other:        orec.Mean,
				BaseSummary:  summarize(s1),
				OtherSummary: summarize(s2),
				Ratio:        r,
				Comparison:   benchmath.Compare(s1, s2),
			})
		}
	}
	return out
}

func summarize(s *benchmath.Sample) benchmath.Summary {
	return benchmath.Assume(s).Summary(s, confidence)
}

// confidence is the level of the intervals reported by Compare.
const confidence = 0.95

// RatioTable returns rs with columns size, command, base, base_ci,
// other, other_ci, ratio and delta. The _ci columns give the 95%
// confidence interval relative to the mean. Delta is "~" where the
// run times do not differ significantly.
func RatioTable(rs []Ratio) *table.Table {
	sizes, cmds, deltas := []string{}, []string{}, []string{}
	baseCIs, otherCIs := []string{}, []string{}
	bases, others, ratios := []float64{}, []float64{}, []float64{}
	for _, r := range rs {
		sizes = append(sizes, benchkey.SizeDisplay(r.Size))
		cmds = append(cmds, r.Command)
		bases = append(bases, r.Base)
		baseCIs = append(baseCIs, "±"+r.BaseSummary.PctRangeString())
		others = append(others, r.Other)
		otherCIs = append(otherCIs, "±"+r.OtherSummary.PctRangeString())
		ratios = append(ratios, r.Ratio)
		deltas = append(deltas, r.Comparison.FormatDelta(r.Base, r.Other))
	}
	return new(table.Builder).
		Add("size", sizes).
		Add("command", cmds).
		Add("base", bases).
		Add("base_ci", baseCIs).
		Add("other", others).
		Add("other_ci", otherCIs).
		Add("ratio", ratios).
		Add("delta", deltas).
		Done()
}
