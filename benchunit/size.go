// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import (
	"regexp"
	"strconv"
	"strings"
)

// sizeRe matches a size label: a magnitude followed by an optional
// unit suffix, such as "0.1m", "10M", "100mb" or "4GiB".
var sizeRe = regexp.MustCompile(`^([0-9]*\.?[0-9]+(?:e[-+]?[0-9]+)?)\s*([a-z]*)$`)

// sizeSuffixes maps lower-cased suffixes to multipliers. Bare SI
// letters count records ("1m" is one million reads); suffixes ending
// in "b" count bytes and use binary multiples, matching how the
// synthetic inputs are generated ("10mb" is 10 MiB).
var sizeSuffixes = map[string]float64{
	"":    1,
	"k":   1e3,
	"m":   1e6,
	"g":   1e9,
	"b":   1,
	"kb":  1 << 10,
	"kib": 1 << 10,
	"mb":  1 << 20,
	"mib": 1 << 20,
	"gb":  1 << 30,
	"gib": 1 << 30,
	"tb":  1 << 40,
	"tib": 1 << 40,
}

// ParseSize returns the magnitude of a size label. The label is
// matched case-insensitively; the unit suffix is stripped and the
// remainder scaled by the suffix multiplier. ParseSize reports false
// for labels that are not a number with a known suffix.
func ParseSize(label string) (float64, bool) {
	subs := sizeRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(label)))
	if subs == nil {
		return 0, false
	}
	mult, ok := sizeSuffixes[subs[2]]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(subs[1], 64)
	if err != nil {
		return 0, false
	}
	return v * mult, true
}
