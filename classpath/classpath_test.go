// Copyright 2018 The Jadep Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package classpath

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatalf("writing entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing %s: %v", path, err)
	}
}

func TestNewEnvironmentIndexesClassesInOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.jar")
	second := filepath.Join(dir, "second.jar")

	writeZip(t, first, map[string]string{
		"a/A.class":  "first-a",
		"b/B.class":  "first-b",
		"a/":         "",
		"README.txt": "not a class",
	})
	writeZip(t, second, map[string]string{
		"a/A.class": "second-a", // shadowed: first archive already has a/A.
		"c/C.class": "second-c",
	})

	env, err := NewEnvironment([]string{first, second})
	if err != nil {
		t.Fatalf("NewEnvironment failed: %v", err)
	}

	names := env.Names()
	sort.Strings(names)
	wantNames := []string{"a/A", "b/B", "c/C"}
	if len(names) != len(wantNames) {
		t.Fatalf("Names() = %v, want %v", names, wantNames)
	}
	for i, n := range wantNames {
		if names[i] != n {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], n)
		}
	}

	src, ok := env.Lookup("a/A")
	if !ok {
		t.Fatalf("Lookup(a/A) not found")
	}
	data, err := src.Bytes()
	if err != nil {
		t.Fatalf("Bytes() failed: %v", err)
	}
	if string(data) != "first-a" {
		t.Errorf("a/A bytes = %q, want %q (first archive should win)", data, "first-a")
	}
	if got := env.ArchiveOf("a/A"); got != first {
		t.Errorf("ArchiveOf(a/A) = %q, want %q", got, first)
	}
	if got := env.ArchiveOf("c/C"); got != second {
		t.Errorf("ArchiveOf(c/C) = %q, want %q", got, second)
	}

	if _, ok := env.Lookup("no/Such"); ok {
		t.Errorf("Lookup(no/Such) found, want not found")
	}
	if _, ok := env.Lookup("README"); ok {
		t.Errorf("Lookup should never surface non-.class entries")
	}
}

func TestNewRemoteEnvironment(t *testing.T) {
	calls := map[string]int{}
	source := func(name string) ByteSource {
		calls[name]++
		return constSource(name)
	}
	env := NewRemoteEnvironment([]string{"a/A", "b/B"}, map[string]string{"a/A": "remote://host"}, source)

	src, ok := env.Lookup("a/A")
	if !ok {
		t.Fatalf("Lookup(a/A) not found")
	}
	data, err := src.Bytes()
	if err != nil {
		t.Fatalf("Bytes() failed: %v", err)
	}
	if string(data) != "a/A" {
		t.Errorf("a/A bytes = %q, want %q", data, "a/A")
	}
	if got := env.ArchiveOf("a/A"); got != "remote://host" {
		t.Errorf("ArchiveOf(a/A) = %q, want remote://host", got)
	}
	if got := env.ArchiveOf("b/B"); got != "" {
		t.Errorf("ArchiveOf(b/B) = %q, want empty", got)
	}
	if calls["a/A"] != 1 {
		t.Errorf("source called %d times for a/A, want exactly once (at construction)", calls["a/A"])
	}
}

type constSource string

func (s constSource) Bytes() ([]byte, error) { return []byte(s), nil }
