// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import "math"

// An Estimate is a derived value with its propagated standard
// deviation.
type Estimate struct {
	Value  float64
	Stddev float64
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Throughput returns the rate at which a command with the given mean
// time and standard deviation, in seconds, processes an input of
// bytes bytes. The result is in bytes per second. Its standard
// deviation is propagated to first order:
//
//	σ_tp = bytes · σ_t / mean²
//
// Throughput reports false if mean or bytes is not positive or any
// input is not finite.
func Throughput(bytes int64, mean, stddev float64) (Estimate, bool) {
	if bytes <= 0 || !(mean > 0) || !finite(mean, stddev) {
		return Estimate{}, false
	}
	b := float64(bytes)
	e := Estimate{Value: b / mean, Stddev: b * math.Abs(stddev) / (mean * mean)}
	if !finite(e.Value, e.Stddev) {
		return Estimate{}, false
	}
	return e, true
}

// A Scaling compares a command's time at two input sizes.
type Scaling struct {
	// TimeRatio is t1/t0.
	TimeRatio float64
	// SizeRatio is s1/s0.
	SizeRatio float64
	// Efficiency is TimeRatio/SizeRatio. 1 is linear scaling;
	// less is better than linear.
	Efficiency float64
}

// ScalingEfficiency compares times t0 and t1 measured at sizes s0 and
// s1. It reports false if a time or size is not positive or any input
// is not finite.
func ScalingEfficiency(t0, t1, s0, s1 float64) (Scaling, bool) {
	if !(t0 > 0) || !(t1 > 0) || !(s0 > 0) || !(s1 > 0) || !finite(t0, t1, s0, s1) {
		return Scaling{}, false
	}
	sc := Scaling{TimeRatio: t1 / t0, SizeRatio: s1 / s0}
	sc.Efficiency = sc.TimeRatio / sc.SizeRatio
	if !finite(sc.TimeRatio, sc.Efficiency) {
		return Scaling{}, false
	}
	return sc, true
}

// Ratio returns other/base, such as the time of a gzipped input
// relative to the raw input. It reports false if base is not
// positive or either value is not finite.
func Ratio(base, other float64) (float64, bool) {
	if !(base > 0) || !finite(base, other) {
		return 0, false
	}
	return other / base, true
}
