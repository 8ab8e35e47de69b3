// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchkey

import (
	"errors"
	"fmt"
	"testing"
)

func TestParse(t *testing.T) {
	check := func(name string, want Key) {
		t.Helper()
		got, err := Parse(name)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", name, err)
			return
		}
		if got != want {
			t.Errorf("Parse(%q) = %+v, want %+v", name, got, want)
		}
	}
	checkErr := func(name string) {
		t.Helper()
		got, err := Parse(name)
		if err == nil {
			t.Errorf("Parse(%q) = %+v, want error", name, got)
			return
		}
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("Parse(%q) error %v does not wrap ErrInvalid", name, err)
		}
		var se *SyntaxError
		if !errors.As(err, &se) || se.Name != name {
			t.Errorf("Parse(%q) error %#v, want *SyntaxError for the name", name, err)
		}
	}

	// Every combination of the three-part form round-trips.
	for _, size := range []string{"0.1m", "1m", "10m", "100mb"} {
		for _, cache := range []CacheState{Hot, Cold} {
			for _, comp := range []Compression{Raw, Gzip, Bgzip} {
				name := fmt.Sprintf("%s_%s_%s", size, cache, comp.Token())
				check(name, Key{size, cache, comp})
			}
		}
	}

	// Really cold takes priority over the generic split.
	check("0.1m_really_cold_raw", Key{"0.1m", ReallyCold, Raw})
	check("10mb_really_cold_gz", Key{"10mb", ReallyCold, Gzip})
	check("1GB_REALLY_COLD_BGZ", Key{"1gb", ReallyCold, Bgzip})
	checkErr("1m_really_cold_zstd")
	checkErr("_really_cold_raw")
	checkErr("1m_really_cold_raw_really_cold_raw")
	checkErr("really_cold_raw")
	checkErr("really_cold_gz")
	checkErr("REALLY_COLD_BGZ")
	checkErr("1m_really_cold")

	// Legacy names have the default size.
	check("hot_raw", Key{DefaultSize, Hot, Raw})
	check("cold_gz", Key{DefaultSize, Cold, Gzip})
	check("HOT_BGZ", Key{DefaultSize, Hot, Bgzip})

	// Case and extra parts.
	check("10M_Hot_GZ", Key{"10m", Hot, Gzip})
	check("1m_hot_raw_rerun", Key{"1m", Hot, Raw})

	// Nothing is guessed.
	checkErr("1m_warm_raw")
	checkErr("1m_hot_zstd")
	checkErr("1m_really_raw")
	checkErr("warm_raw")
	checkErr("hot_gzip")
	checkErr("hot")
	checkErr("")
	checkErr("really_cold_10mb")
	checkErr("_hot_raw")
}

func TestKeyString(t *testing.T) {
	for _, name := range []string{"0.1m_hot_raw", "1m_cold_bgz", "10mb_really_cold_gz", "default_hot_raw"} {
		k, err := Parse(name)
		if err != nil {
			t.Fatal(err)
		}
		if got := k.String(); got != name {
			t.Errorf("Parse(%q).String() = %q", name, got)
		}
		if k2, err := Parse(k.String()); err != nil || k2 != k {
			t.Errorf("reparse of %q = %+v, %v", k, k2, err)
		}
	}
}

func TestParseFacets(t *testing.T) {
	for _, s := range []string{"gz", "GZIP", " gzip "} {
		if c, ok := ParseCompression(s); !ok || c != Gzip {
			t.Errorf("ParseCompression(%q) = %v, %v", s, c, ok)
		}
	}
	if _, ok := ParseCompression("zstd"); ok {
		t.Errorf("ParseCompression(zstd) succeeded")
	}
	for s, want := range map[string]CacheState{"hot": Hot, "Cold": Cold, "really_cold": ReallyCold, "really-cold": ReallyCold} {
		if c, ok := ParseCacheState(s); !ok || c != want {
			t.Errorf("ParseCacheState(%q) = %v, %v", s, c, ok)
		}
	}
	if _, ok := ParseCacheState("warm"); ok {
		t.Errorf("ParseCacheState(warm) succeeded")
	}
	if got := Bgzip.Label(); got != "Bgzipped" {
		t.Errorf("Bgzip.Label() = %q", got)
	}
}
