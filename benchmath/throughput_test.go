// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"math"
	"testing"
)

func TestThroughput(t *testing.T) {
	check := func(bytes int64, mean, stddev float64, want Estimate) {
		t.Helper()
		got, ok := Throughput(bytes, mean, stddev)
		if !ok {
			t.Errorf("Throughput(%d, %v, %v) not computable", bytes, mean, stddev)
			return
		}
		if math.Abs(got.Value-want.Value) > 1e-9*want.Value || math.Abs(got.Stddev-want.Stddev) > 1e-9*math.Max(want.Stddev, 1) {
			t.Errorf("Throughput(%d, %v, %v) = %+v, want %+v", bytes, mean, stddev, got, want)
		}
	}
	checkNot := func(bytes int64, mean, stddev float64) {
		t.Helper()
		if got, ok := Throughput(bytes, mean, stddev); ok {
			t.Errorf("Throughput(%d, %v, %v) = %+v, want not computable", bytes, mean, stddev, got)
		}
	}

	check(1000, 2, 0, Estimate{500, 0})
	check(1000, 2, 0.5, Estimate{500, 125})
	check(1<<30, 0.5, 0.05, Estimate{1 << 31, float64(1<<30) * 0.05 / 0.25})

	checkNot(1000, 0, 0)
	checkNot(1000, -1, 0.1)
	checkNot(0, 1, 0)
	checkNot(-5, 1, 0)
	checkNot(1000, math.NaN(), 0)
	checkNot(1000, 1, math.Inf(1))
	// Underflowing means produce an infinite rate.
	checkNot(1<<40, 1e-320, 0)
}

func TestScalingEfficiency(t *testing.T) {
	sc, ok := ScalingEfficiency(1, 8, 1e5, 1e6)
	if !ok || sc.TimeRatio != 8 || sc.SizeRatio != 10 || math.Abs(sc.Efficiency-0.8) > 1e-12 {
		t.Errorf("ScalingEfficiency(1, 8, 1e5, 1e6) = %+v, %v", sc, ok)
	}
	sc, ok = ScalingEfficiency(2, 2, 1, 1)
	if !ok || sc.Efficiency != 1 {
		t.Errorf("ScalingEfficiency(2, 2, 1, 1) = %+v, %v", sc, ok)
	}
	// Identical times over a tenfold size increase.
	sc, ok = ScalingEfficiency(1, 1, 1e5, 1e6)
	if !ok || sc.TimeRatio != 1 || sc.SizeRatio != 10 || math.Abs(sc.Efficiency-0.1) > 1e-12 {
		t.Errorf("ScalingEfficiency(1, 1, 1e5, 1e6) = %+v, %v", sc, ok)
	}
	for _, in := range [][4]float64{
		{0, 1, 1, 2},
		{-1, 1, 1, 2},
		{1, 0, 1, 10},
		{1, -2, 1, 1000},
		{1, 1, 1, -2},
		{1, 1, 0, 2},
		{1, 1, 1, 0},
		{1, math.NaN(), 1, 2},
	} {
		if sc, ok := ScalingEfficiency(in[0], in[1], in[2], in[3]); ok {
			t.Errorf("ScalingEfficiency%v = %+v, want not computable", in, sc)
		}
	}
}

func TestRatio(t *testing.T) {
	if r, ok := Ratio(2, 3); !ok || r != 1.5 {
		t.Errorf("Ratio(2, 3) = %v, %v", r, ok)
	}
	if _, ok := Ratio(0, 3); ok {
		t.Errorf("Ratio(0, 3) computable")
	}
}
