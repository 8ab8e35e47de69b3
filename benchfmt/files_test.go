// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeDocs writes a minimal document for each path under dir. The
// single command in each document is named after the path.
func writeDocs(t *testing.T, dir string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o777); err != nil {
			t.Fatal(err)
		}
		doc := `{"results": [{"command": "` + filepath.ToSlash(p) + `", "mean": 1}]}`
		if err := os.WriteFile(full, []byte(doc), 0o666); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	writeDocs(t, dir, "1m_hot_raw.json", "1m/cold_gz.json")
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o666); err != nil {
		t.Fatal(err)
	}

	check := func(f *Files, want ...string) {
		t.Helper()
		l, _ := testLoader()
		f.Loader = l
		for f.Scan() {
			res := f.Result()
			if len(want) == 0 {
				t.Errorf("got result %s, want end of stream", res.Name)
				return
			}
			got := res.Name
			if res.Table.Len() > 0 {
				got += " " + res.Table.Records[0].Command
			}
			if got != want[0] {
				t.Errorf("got %q, want %q", got, want[0])
			}
			want = want[1:]
		}

		err := f.Err()
		wantErr := ""
		if len(want) == 1 && strings.HasPrefix(want[0], "err ") {
			wantErr = want[0][len("err "):]
			want = want[1:]
		}
		if err == nil && wantErr != "" {
			t.Errorf("got success, want error %s", wantErr)
		} else if err != nil && wantErr == "" {
			t.Errorf("got error %s", err)
		} else if err != nil && !strings.Contains(err.Error(), wantErr) {
			t.Errorf("got error %s, want error %s", err, wantErr)
		}

		if len(want) != 0 {
			t.Errorf("got end of stream, want %v", want)
		}
	}

	p := func(name string) string { return filepath.Join(dir, name) }

	// Names come from the paths.
	check(
		&Files{Paths: []string{p("1m_hot_raw.json"), p("1m/cold_gz.json")}},
		"1m_hot_raw 1m_hot_raw.json", "1m_cold_gz 1m/cold_gz.json",
	)

	// Unreadable documents are empty but still named.
	check(
		&Files{Paths: []string{p("broken.json"), p("missing.json"), p("1m_hot_raw.json")}},
		"broken", "missing", "1m_hot_raw 1m_hot_raw.json",
	)

	// Labels.
	check(
		&Files{Paths: []string{"10m_hot_raw=" + p("1m_hot_raw.json")}, AllowLabels: true},
		"10m_hot_raw 1m_hot_raw.json",
	)
	check(
		&Files{Paths: []string{"=" + p("1m_hot_raw.json")}, AllowLabels: true},
		"err malformed input",
	)
	// Without AllowLabels, = is part of the path, which does not
	// exist.
	check(
		&Files{Paths: []string{"x=" + p("1m_hot_raw.json")}},
		"1m_hot_raw",
	)

	// No inputs.
	check(&Files{})
}
