// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchkey

import (
	"math"
	"sort"
	"strings"

	"github.com/biofaster/fastqbench/benchunit"
)

// NormalizeSize returns the canonical form of a size label. All
// consumers of size labels go through this, so "10M" and "10m" name
// the same size.
func NormalizeSize(size string) string {
	return strings.ToLower(strings.TrimSpace(size))
}

// SizeValue returns the magnitude of a size label, for example 1e5
// for "0.1m". DefaultSize and unparsable labels have no magnitude.
func SizeValue(size string) (float64, bool) {
	size = NormalizeSize(size)
	if size == DefaultSize {
		return 0, false
	}
	return benchunit.ParseSize(size)
}

// sizeOrdinal maps a size to its position in the size order.
// DefaultSize is first and unparsable sizes are last.
func sizeOrdinal(size string) float64 {
	if NormalizeSize(size) == DefaultSize {
		return 0
	}
	if v, ok := SizeValue(size); ok {
		return v
	}
	return math.Inf(1)
}

// CompareSize orders size labels: DefaultSize first, then by
// magnitude, then unparsable labels. Labels that tie are ordered as
// strings so the order is total.
func CompareSize(a, b string) int {
	oa, ob := sizeOrdinal(a), sizeOrdinal(b)
	switch {
	case oa < ob:
		return -1
	case oa > ob:
		return 1
	}
	return strings.Compare(NormalizeSize(a), NormalizeSize(b))
}

// SortSizes sorts sizes in place using CompareSize.
func SortSizes(sizes []string) {
	sort.SliceStable(sizes, func(i, j int) bool {
		return CompareSize(sizes[i], sizes[j]) < 0
	})
}

// SizeDisplay formats a size label for display: "0.1m" becomes
// "0.1M" and DefaultSize becomes "Default".
func SizeDisplay(size string) string {
	size = NormalizeSize(size)
	if size == DefaultSize {
		return "Default"
	}
	return strings.ToUpper(size)
}

// CompareCompression orders compressions raw < gzip < bgzip, with
// any other value after those.
func CompareCompression(a, b Compression) int {
	oa, ob := compressionOrdinal(a), compressionOrdinal(b)
	switch {
	case oa < ob:
		return -1
	case oa > ob:
		return 1
	}
	return 0
}

func compressionOrdinal(c Compression) int {
	if c.known() {
		return int(c)
	}
	return len(compressionInfo)
}

// SortCompressions sorts cs in place using CompareCompression.
func SortCompressions(cs []Compression) {
	sort.SliceStable(cs, func(i, j int) bool {
		return CompareCompression(cs[i], cs[j]) < 0
	})
}

// Less reports whether k sorts before o: by cache state, then
// compression, then size.
func (k Key) Less(o Key) bool {
	if k.Cache != o.Cache {
		return k.Cache < o.Cache
	}
	if c := CompareCompression(k.Compression, o.Compression); c != 0 {
		return c < 0
	}
	return CompareSize(k.Size, o.Size) < 0
}

// SortKeys sorts keys in place using Key.Less.
func SortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})
}
