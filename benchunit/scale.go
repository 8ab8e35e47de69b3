// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit parses size labels used to name benchmark inputs
// and formats byte counts, rates and durations for display.
package benchunit

import (
	"fmt"
	"math"
	"strconv"
)

// A Class specifies what class of unit prefixes are in use.
type Class int

const (
	// Decimal indicates values of a given unit should be scaled
	// by powers of 1000, using SI prefixes such as "k" and "M".
	Decimal Class = iota
	// Binary indicates values of a given unit should be scaled by
	// powers of 1024, using IEC prefixes such as "Ki" and "Mi".
	// Byte counts and byte rates are Binary.
	Binary
)

func (c Class) String() string {
	switch c {
	case Decimal:
		return "Decimal"
	case Binary:
		return "Binary"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// ClassOf returns the Class of unit. Units measuring bytes in the
// numerator ("B", "B/s") are Binary; everything else is Decimal.
func ClassOf(unit string) Class {
	if unit == "B" || (len(unit) > 2 && unit[:2] == "B/") {
		return Binary
	}
	return Decimal
}

// A Scaler represents a scaling factor for a number and
// its scientific representation.
type Scaler struct {
	Prec   int     // Digits after the decimal point
	Factor float64 // Unscaled value of 1 Prefix (e.g., 1 k => 1000)
	Prefix string  // Unit prefix ("k", "M", "Ki", etc)
}

// Format formats val and appends the unit prefix according to the
// given scale. For example, with a Decimal scale, Format(123456789)
// returns "123.5M".
func (s Scaler) Format(val float64) string {
	buf := make([]byte, 0, 20)
	buf = strconv.AppendFloat(buf, val/s.Factor, 'f', s.Prec, 64)
	buf = append(buf, s.Prefix...)
	return string(buf)
}

type factor struct {
	factor float64
	prefix string
}

var siFactors = []factor{
	{1e12, "T"}, {1e9, "G"}, {1e6, "M"}, {1e3, "k"},
	{1, ""}, {1e-3, "m"}, {1e-6, "µ"}, {1e-9, "n"},
}

// IEC doesn't define fractional prefixes, so binary values bottom out
// at the unprefixed unit.
var iecFactors = []factor{
	{1 << 40, "Ti"}, {1 << 30, "Gi"}, {1 << 20, "Mi"}, {1 << 10, "Ki"}, {1, ""},
}

// CommonScale returns a common Scaler to apply to all values in vals.
// The scale is determined by the non-zero value closest to zero, so
// every value keeps at least three significant digits.
func CommonScale(vals []float64, cls Class) Scaler {
	var min float64
	for _, v := range vals {
		v = math.Abs(v)
		if v != 0 && !math.IsInf(v, 0) && (min == 0 || v < min) {
			min = v
		}
	}
	if min == 0 {
		return Scaler{3, 1, ""}
	}

	var factors []factor
	switch cls {
	default:
		panic(fmt.Sprintf("bad Class %v", cls))
	case Decimal:
		factors = siFactors
	case Binary:
		factors = iecFactors
	}

	for _, f := range factors {
		// .99995 rounds up to 1.000 at three digits, so it
		// already belongs to this factor.
		scaled := min / f.factor
		switch {
		case scaled >= 99.995:
			return Scaler{1, f.factor, f.prefix}
		case scaled >= 9.9995:
			return Scaler{2, f.factor, f.prefix}
		case scaled >= .99995:
			return Scaler{3, f.factor, f.prefix}
		}
	}

	// Smaller than the smallest factor. Add digits until three
	// are significant, up to ten after the decimal point.
	f := factors[len(factors)-1]
	prec := 3
	for scaled := min / f.factor; scaled < .99995 && prec < 10; scaled *= 10 {
		prec++
	}
	return Scaler{prec, f.factor, f.prefix}
}

// Format renders val in unit with a common prefix, separated by a
// space, for example "1.500 GiB", "250.0 MiB/s" or "12.34 ms".
func Format(val float64, unit string) string {
	s := CommonScale([]float64{val}, ClassOf(unit))
	return strconv.FormatFloat(val/s.Factor, 'f', s.Prec, 64) + " " + s.Prefix + unit
}
