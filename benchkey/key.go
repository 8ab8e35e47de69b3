// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchkey parses and orders the names of FASTQ parser
// benchmark scenarios.
//
// A benchmark name encodes three facets: the input size, the cache
// state the input was measured in, and the compression of the input
// file. Names take one of three forms:
//
//	<size>_<hot|cold>_<raw|gz|bgz>   e.g. "0.1m_hot_raw"
//	<size>_really_cold_<raw|gz|bgz>  e.g. "10mb_really_cold_raw"
//	<hot|cold>_<raw|gz|bgz>          legacy, size "default"
//
// Names are matched case-insensitively. Anything else is invalid;
// Parse never guesses.
package benchkey

import (
	"errors"
	"fmt"
	"strings"
)

// A CacheState is the page cache condition a benchmark ran under.
type CacheState int

const (
	// Hot inputs live on a RAM-backed filesystem.
	Hot CacheState = iota
	// Cold inputs live on disk with the page cache dropped
	// before each run.
	Cold
	// ReallyCold inputs are generated fresh for each run.
	ReallyCold
)

func (c CacheState) String() string {
	switch c {
	case Hot:
		return "hot"
	case Cold:
		return "cold"
	case ReallyCold:
		return "really_cold"
	}
	return fmt.Sprintf("CacheState(%d)", int(c))
}

// Title returns c formatted for headings, such as "Really Cold".
func (c CacheState) Title() string {
	switch c {
	case Hot:
		return "Hot"
	case Cold:
		return "Cold"
	case ReallyCold:
		return "Really Cold"
	}
	return c.String()
}

// ParseCacheState parses "hot", "cold" or "really_cold".
func ParseCacheState(s string) (CacheState, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hot":
		return Hot, true
	case "cold":
		return Cold, true
	case "really_cold", "really-cold":
		return ReallyCold, true
	}
	return 0, false
}

// A Compression is the encoding of a benchmark's input file.
type Compression int

const (
	Raw Compression = iota
	Gzip
	// Bgzip is block gzip, the seekable gzip variant.
	Bgzip
)

var compressionInfo = [...]struct {
	name, token, label string
}{
	Raw:   {"raw", "raw", "Raw FASTQ"},
	Gzip:  {"gzip", "gz", "Gzipped"},
	Bgzip: {"bgzip", "bgz", "Bgzipped"},
}

func (c Compression) known() bool {
	return c >= 0 && int(c) < len(compressionInfo)
}

func (c Compression) String() string {
	if !c.known() {
		return fmt.Sprintf("Compression(%d)", int(c))
	}
	return compressionInfo[c].name
}

// Token returns the short form of c used in benchmark names:
// "raw", "gz" or "bgz".
func (c Compression) Token() string {
	if !c.known() {
		return c.String()
	}
	return compressionInfo[c].token
}

// Label returns a human-readable description of c.
func (c Compression) Label() string {
	if !c.known() {
		return c.String()
	}
	return compressionInfo[c].label
}

// ParseCompression parses either the name token ("gz") or the long
// form ("gzip") of a compression.
func ParseCompression(s string) (Compression, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, info := range compressionInfo {
		if s == info.token || s == info.name {
			return Compression(c), true
		}
	}
	return 0, false
}

// parseToken accepts only the name tokens.
func parseToken(s string) (Compression, bool) {
	for c, info := range compressionInfo {
		if s == info.token {
			return Compression(c), true
		}
	}
	return 0, false
}

// DefaultSize is the size of benchmarks named in the legacy form,
// which carry no size facet.
const DefaultSize = "default"

// A Key identifies one measured benchmark scenario. Keys are
// comparable and may be used as map keys.
type Key struct {
	// Size is the normalized size label, such as "0.1m", "10mb"
	// or DefaultSize.
	Size        string
	Cache       CacheState
	Compression Compression
}

// String returns the canonical benchmark name for k.
func (k Key) String() string {
	return k.Size + "_" + k.Cache.String() + "_" + k.Compression.Token()
}

// ErrInvalid is wrapped by every error returned by Parse.
var ErrInvalid = errors.New("invalid benchmark name")

// A SyntaxError describes a benchmark name that does not follow the
// naming grammar.
type SyntaxError struct {
	Name string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("benchmark name %q: %s", e.Name, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrInvalid
}

const (
	reallyCold      = "really_cold"
	reallyColdInfix = "_" + reallyCold + "_"
)

// Parse parses a benchmark name into its Key. It returns a
// *SyntaxError if name does not match one of the naming forms.
func Parse(name string) (Key, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	bad := func(msg string, args ...any) (Key, error) {
		return Key{}, &SyntaxError{name, fmt.Sprintf(msg, args...)}
	}

	// "really_cold" contains the separator, so it must be split
	// out before the generic form.
	if strings.Contains(lower, reallyColdInfix) {
		parts := strings.Split(lower, reallyColdInfix)
		if len(parts) != 2 {
			return bad("%q appears more than once", reallyColdInfix)
		}
		comp, ok := parseToken(parts[1])
		if !ok {
			return bad("unknown compression %q", parts[1])
		}
		if parts[0] == "" {
			return bad("missing size")
		}
		return Key{NormalizeSize(parts[0]), ReallyCold, comp}, nil
	}
	if strings.Contains(lower, reallyCold) {
		return bad("want <size>%s<compression>", reallyColdInfix)
	}

	parts := strings.Split(lower, "_")
	switch {
	case len(parts) >= 3:
		cache, ok := parseGenericCache(parts[1])
		if !ok {
			return bad("unknown cache state %q", parts[1])
		}
		comp, ok := parseToken(parts[2])
		if !ok {
			return bad("unknown compression %q", parts[2])
		}
		if parts[0] == "" {
			return bad("missing size")
		}
		return Key{NormalizeSize(parts[0]), cache, comp}, nil
	case len(parts) == 2:
		cache, ok := parseGenericCache(parts[0])
		if !ok {
			return bad("unknown cache state %q", parts[0])
		}
		comp, ok := parseToken(parts[1])
		if !ok {
			return bad("unknown compression %q", parts[1])
		}
		return Key{DefaultSize, cache, comp}, nil
	}
	return bad("want <size>_<cache>_<compression>")
}

// parseGenericCache accepts the cache states that may appear as a
// single "_"-separated token.
func parseGenericCache(s string) (CacheState, bool) {
	switch s {
	case "hot":
		return Hot, true
	case "cold":
		return Cold, true
	}
	return 0, false
}
