// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import "fmt"

// AssumeExact is an assumption that a sample's values are the exact
// time of the command, as for a hyperfine entry that recorded only
// its mean. It reports a warning if not all values in a sample are
// equal.
var AssumeExact = assumeExact{}

type assumeExact struct{}

var _ Assumption = assumeExact{}

func (assumeExact) Summary(s *Sample, confidence float64) Summary {
	if len(s.Values) == 0 {
		return Summary{Warnings: []error{fmt.Errorf("no values")}}
	}
	// Find the sample's mode. This checks if all values are the
	// same, and gives a reasonable summary even if they aren't.
	val, count := s.Values[0], 1
	modeVal, modeCount := val, count
	for _, v := range s.Values[1:] {
		if v == val {
			count++
			if count > modeCount {
				modeVal, modeCount = val, count
			}
		} else {
			val, count = v, 1
		}
	}
	summary := Summary{Center: modeVal, Lo: s.Values[0], Hi: s.Values[len(s.Values)-1], Confidence: 1}

	if modeCount != len(s.Values) {
		summary.Warnings = []error{fmt.Errorf("exact time expected, but values range from %v to %v", s.Values[0], s.Values[len(s.Values)-1])}
	}
	return summary
}

// Compare treats any difference between exact values as
// significant.
func (assumeExact) Compare(s1, s2 *Sample) Comparison {
	c := Comparison{N1: len(s1.Values), N2: len(s2.Values), Alpha: s1.Thresholds.CompareAlpha}
	e1, e2 := AssumeExact.Summary(s1, 1), AssumeExact.Summary(s2, 1)
	if e1.Center == e2.Center {
		c.P = 1
	}
	return c
}
