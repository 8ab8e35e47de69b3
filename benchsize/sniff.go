// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchsize

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/biofaster/fastqbench/benchkey"
	"github.com/klauspost/compress/gzip"
)

// ErrUnknownFormat is returned by Sniff for files that are neither
// FASTQ nor gzip.
var ErrUnknownFormat = errors.New("unrecognized input format")

// Sniff determines the compression of the file at path from its
// content. Gzip files whose header carries the BGZF "BC" extra
// subfield are Bgzip.
func Sniff(path string) (benchkey.Compression, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	c, err := sniff(bufio.NewReader(f))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func sniff(br *bufio.Reader) (benchkey.Compression, error) {
	magic, err := br.Peek(2)
	if err != nil {
		if err == io.EOF {
			return 0, ErrUnknownFormat
		}
		return 0, err
	}
	if magic[0] == '@' {
		return benchkey.Raw, nil
	}
	if magic[0] != 0x1f || magic[1] != 0x8b {
		return 0, ErrUnknownFormat
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return 0, err
	}
	defer zr.Close()
	if isBGZF(zr.Header.Extra) {
		return benchkey.Bgzip, nil
	}
	return benchkey.Gzip, nil
}

// isBGZF reports whether a gzip extra field holds the BGZF block size
// subfield: SI1 'B', SI2 'C', a 2-byte length of 2.
func isBGZF(extra []byte) bool {
	for len(extra) >= 4 {
		n := int(extra[2]) | int(extra[3])<<8
		if len(extra) < 4+n {
			return false
		}
		if bytes.Equal(extra[:2], []byte("BC")) && n == 2 {
			return true
		}
		extra = extra[4+n:]
	}
	return false
}

// Verify checks that k's fixture has the compression k names. It
// returns nil if the fixture does not exist.
func (r *Resolver) Verify(k benchkey.Key) error {
	res := r.Resolve(k)
	if res.Status != Found {
		return nil
	}
	c, err := Sniff(res.Path)
	if err != nil {
		return err
	}
	if c != k.Compression {
		return fmt.Errorf("%s: fixture for %s is %s, not %s", res.Path, k, c, k.Compression)
	}
	return nil
}
